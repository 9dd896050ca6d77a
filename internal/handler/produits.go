package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Nokho11/gestion-vente/internal/apierror"
	"github.com/Nokho11/gestion-vente/internal/dto"
	"github.com/Nokho11/gestion-vente/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProduitsHandler struct{ svc service.CatalogueService }

func NewProduitsHandler(svc service.CatalogueService) *ProduitsHandler {
	return &ProduitsHandler{svc: svc}
}

// CreerProduit godoc
// @Summary      Créer un produit
// @Description  Enregistre un nouveau produit au catalogue. Le nom est unique (insensible aux doublons exacts).
// @Tags         produits
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreerProduitRequest true "Détail du produit"
// @Success      201  {object} dto.ProduitResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/produits [post]
func (h *ProduitsHandler) CreerProduit(c *gin.Context) {
	var req dto.CreerProduitRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreerProduit(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrProduitExistant) {
			c.JSON(http.StatusConflict, apierror.New("Ce produit existe déjà"))
			return
		}
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListerProduits godoc
// @Summary      Lister les produits
// @Description  Retourne la liste paginée des produits, filtrable par nom et statut actif.
// @Tags         produits
// @Produce      json
// @Security     BearerAuth
// @Param        nom    query string false "Filtre par nom (préfixe)"
// @Param        actif  query string false "false | all (défaut : actifs)"
// @Param        page   query int    false "Page (défaut 1)"
// @Param        limit  query int    false "Éléments par page (défaut 20)"
// @Success      200    {object} dto.ProduitListResponse
// @Router       /v1/produits [get]
func (h *ProduitsHandler) ListerProduits(c *gin.Context) {
	var filter dto.ProduitFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListerProduits(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenirProduit godoc
// @Summary      Consulter un produit par nom
// @Tags         produits
// @Produce      json
// @Security     BearerAuth
// @Param        nom path string true "Nom exact du produit"
// @Success      200 {object} dto.ProduitResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/produits/{nom} [get]
func (h *ProduitsHandler) ObtenirProduit(c *gin.Context) {
	resp, err := h.svc.ObtenirProduit(c.Request.Context(), c.Param("nom"))
	if err != nil {
		if errors.Is(err, service.ErrProduitIntrouvable) {
			c.JSON(http.StatusNotFound, apierror.New("Produit introuvable"))
			return
		}
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActualiserProduit godoc
// @Summary      Modifier un produit
// @Description  Met à jour prix, description et seuil de stock. Le nom et le stock ne se modifient pas ici.
// @Tags         produits
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                       true "UUID du produit"
// @Param        body body dto.ActualiserProduitRequest true "Champs à modifier"
// @Success      200  {object} dto.ProduitResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/produits/{id} [put]
func (h *ProduitsHandler) ActualiserProduit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req dto.ActualiserProduitRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualiserProduit(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, service.ErrProduitIntrouvable) {
			c.JSON(http.StatusNotFound, apierror.New("Produit introuvable"))
			return
		}
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DesactiverProduit godoc
// @Summary      Désactiver un produit
// @Description  Soft-delete : le produit disparaît du catalogue actif mais reste référencé par les ventes passées.
// @Tags         produits
// @Security     BearerAuth
// @Param        id path string true "UUID du produit"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/produits/{id} [delete]
func (h *ProduitsHandler) DesactiverProduit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	if err := h.svc.DesactiverProduit(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrProduitIntrouvable) {
			c.JSON(http.StatusNotFound, apierror.New("Produit introuvable"))
			return
		}
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ReactiverProduit godoc
// @Summary      Réactiver un produit désactivé
// @Tags         produits
// @Security     BearerAuth
// @Param        id path string true "UUID du produit"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/produits/{id}/reactiver [patch]
func (h *ProduitsHandler) ReactiverProduit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	if err := h.svc.ReactiverProduit(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrProduitIntrouvable) {
			c.JSON(http.StatusNotFound, apierror.New("Produit introuvable"))
			return
		}
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AjusterStock godoc
// @Summary      Ajuster le stock d'un produit
// @Description  Correction manuelle (inventaire, casse). Le delta peut être négatif mais le stock ne passe jamais sous zéro.
// @Tags         produits
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "UUID du produit"
// @Param        body body dto.AjusterStockRequest true "Delta et motif"
// @Success      200  {object} dto.ProduitResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/produits/{id}/stock [post]
func (h *ProduitsHandler) AjusterStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req dto.AjusterStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AjusterStock(c.Request.Context(), id, req)
	if err != nil {
		var stockErr *service.StockInsuffisantError
		switch {
		case errors.As(err, &stockErr):
			c.JSON(http.StatusConflict, gin.H{
				"detail":     stockErr.Error(),
				"disponible": stockErr.Disponible,
			})
		case errors.Is(err, service.ErrProduitIntrouvable):
			c.JSON(http.StatusNotFound, apierror.New("Produit introuvable"))
		default:
			c.Error(err)
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AlertesStock godoc
// @Summary      Produits sous le seuil de stock
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.AlerteStockResponse
// @Router       /v1/stock/alertes [get]
func (h *ProduitsHandler) AlertesStock(c *gin.Context) {
	alertes, err := h.svc.AlertesStock(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, alertes)
}

// ListerMouvements godoc
// @Summary      Journal des mouvements de stock
// @Description  Derniers mouvements (ventes et ajustements manuels), du plus récent au plus ancien.
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Nombre maximum d'entrées (défaut 100)"
// @Success      200   {array} dto.MouvementStockResponse
// @Router       /v1/stock/mouvements [get]
func (h *ProduitsHandler) ListerMouvements(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	mouvements, err := h.svc.ListerMouvements(c.Request.Context(), limit)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, mouvements)
}
