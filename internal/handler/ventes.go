package handler

import (
	"errors"
	"net/http"

	"github.com/Nokho11/gestion-vente/internal/apierror"
	"github.com/Nokho11/gestion-vente/internal/dto"
	"github.com/Nokho11/gestion-vente/internal/service"

	"github.com/gin-gonic/gin"
)

type VentesHandler struct{ svc service.VenteService }

func NewVentesHandler(svc service.VenteService) *VentesHandler {
	return &VentesHandler{svc: svc}
}

// EnregistrerVente godoc
// @Summary      Enregistrer une vente
// @Description  Crée une vente atomique : capture le prix courant, décrémente le stock dans la même transaction et journalise le mouvement. La facture PDF part en tâche de fond.
// @Tags         ventes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.EnregistrerVenteRequest true "Client, produit et quantité"
// @Success      201  {object} dto.VenteResponse
// @Failure      404  {object} apierror.APIError "Produit ou client inconnu"
// @Failure      409  {object} apierror.APIError "Stock insuffisant"
// @Failure      422  {object} apierror.APIError "Quantité invalide"
// @Router       /v1/ventes [post]
func (h *VentesHandler) EnregistrerVente(c *gin.Context) {
	var req dto.EnregistrerVenteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Enregistrer(c.Request.Context(), req)
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
		case errors.Is(err, service.ErrClientIntrouvable):
			c.JSON(http.StatusNotFound, apierror.New("Client introuvable"))
		case errors.Is(err, service.ErrQuantiteInvalide):
			c.JSON(http.StatusUnprocessableEntity, apierror.New("La quantité doit être au moins 1"))
		default:
			c.Error(err)
		}
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListerVentes godoc
// @Summary      Lister les ventes
// @Description  Historique paginé du registre des ventes, filtrable par date, produit et client. Les ventes ne se modifient ni ne se suppriment.
// @Tags         ventes
// @Produce      json
// @Security     BearerAuth
// @Param        date    query string false "Date YYYY-MM-DD"
// @Param        produit query string false "Nom exact du produit"
// @Param        client  query string false "Nom exact du client"
// @Param        page    query int    false "Page (défaut 1)"
// @Param        limit   query int    false "Éléments par page (défaut 50)"
// @Success      200     {object} dto.VenteListResponse
// @Router       /v1/ventes [get]
func (h *VentesHandler) ListerVentes(c *gin.Context) {
	var filter dto.VenteFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Lister(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
