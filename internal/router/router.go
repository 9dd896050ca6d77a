package router

import (
	"time"

	"github.com/Nokho11/gestion-vente/internal/config"
	"github.com/Nokho11/gestion-vente/internal/handler"
	"github.com/Nokho11/gestion-vente/internal/infra"
	"github.com/Nokho11/gestion-vente/internal/middleware"
	"github.com/Nokho11/gestion-vente/internal/repository"
	"github.com/Nokho11/gestion-vente/internal/service"
	"github.com/Nokho11/gestion-vente/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, smtpCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	utilisateurRepo := repository.NewUtilisateurRepository(db)
	produitRepo := repository.NewProduitRepository(db)
	clientRepo := repository.NewClientRepository(db)
	venteRepo := repository.NewVenteRepository(db)
	mouvementRepo := repository.NewMouvementStockRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(utilisateurRepo, cfg)
	catalogueSvc := service.NewCatalogueService(produitRepo, clientRepo, mouvementRepo, dispatcher)
	venteSvc := service.NewVenteService(venteRepo, produitRepo, clientRepo, mouvementRepo, dispatcher)
	rapportSvc := service.NewRapportService(venteRepo)
	exportSvc := service.NewExportService(produitRepo, clientRepo, venteRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	utilisateursH := handler.NewUtilisateursHandler(authSvc)
	produitsH := handler.NewProduitsHandler(catalogueSvc)
	clientsH := handler.NewClientsHandler(catalogueSvc)
	ventesH := handler.NewVentesHandler(venteSvc)
	rapportsH := handler.NewRapportsHandler(rapportSvc)
	exportH := handler.NewExportHandler(exportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, smtpCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: vendeur, gerant, admin — declared per-endpoint
		v1.POST("/ventes", middleware.RequireRole("vendeur", "gerant", "admin"), ventesH.EnregistrerVente)
		v1.GET("/ventes", middleware.RequireRole("vendeur", "gerant", "admin"), ventesH.ListerVentes)

		// Produits — everyone reads, gerant/admin write
		v1.GET("/produits", middleware.RequireRole("vendeur", "gerant", "admin"), produitsH.ListerProduits)
		v1.GET("/produits/:nom", middleware.RequireRole("vendeur", "gerant", "admin"), produitsH.ObtenirProduit)
		prods := v1.Group("/produits", middleware.RequireRole("gerant", "admin"))
		{
			prods.POST("", produitsH.CreerProduit)
			prods.PUT("/:id", produitsH.ActualiserProduit)
			prods.DELETE("/:id", produitsH.DesactiverProduit)
			prods.PATCH("/:id/reactiver", produitsH.ReactiverProduit)
			prods.POST("/:id/stock", produitsH.AjusterStock)
		}

		// Clients — everyone reads and registers, gerant/admin modify
		v1.GET("/clients", middleware.RequireRole("vendeur", "gerant", "admin"), clientsH.ListerClients)
		v1.GET("/clients/:nom", middleware.RequireRole("vendeur", "gerant", "admin"), clientsH.ObtenirClient)
		v1.POST("/clients", middleware.RequireRole("vendeur", "gerant", "admin"), clientsH.CreerClient)
		clients := v1.Group("/clients", middleware.RequireRole("gerant", "admin"))
		{
			clients.PUT("/:id", clientsH.ActualiserClient)
			clients.DELETE("/:id", clientsH.DesactiverClient)
		}

		// Stock — surveillance réservée gerant/admin
		stock := v1.Group("/stock", middleware.RequireRole("gerant", "admin"))
		{
			stock.GET("/alertes", produitsH.AlertesStock)
			stock.GET("/mouvements", produitsH.ListerMouvements)
		}

		// Rapports et exports — gerant/admin
		v1.GET("/rapports/tableau-de-bord", middleware.RequireRole("gerant", "admin"), rapportsH.TableauDeBord)
		export := v1.Group("/export", middleware.RequireRole("gerant", "admin"))
		{
			export.GET("/produits", exportH.ExportProduits)
			export.GET("/clients", exportH.ExportClients)
			export.GET("/ventes", exportH.ExportVentes)
			export.GET("/stats", exportH.ExportStats)
		}

		// Utilisateurs — admin only
		utilisateurs := v1.Group("/utilisateurs", middleware.RequireRole("admin"))
		{
			utilisateurs.POST("", utilisateursH.Creer)
			utilisateurs.GET("", utilisateursH.Lister)
			utilisateurs.PUT("/:id", utilisateursH.Actualiser)
			utilisateurs.DELETE("/:id", utilisateursH.Desactiver)
			utilisateurs.PATCH("/:id/reactiver", utilisateursH.Reactiver)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
