package handler

import (
	"errors"
	"net/http"

	"github.com/Nokho11/gestion-vente/internal/service"

	"github.com/gin-gonic/gin"
)

type RapportsHandler struct{ svc service.RapportService }

func NewRapportsHandler(svc service.RapportService) *RapportsHandler {
	return &RapportsHandler{svc: svc}
}

// TableauDeBord godoc
// @Summary      Tableau de bord des ventes
// @Description  Chiffre d'affaires, bénéfice, meilleurs produit et client (par quantité cumulée) et séries de CA groupées. 204 si le registre est vide.
// @Tags         rapports
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.TableauDeBordResponse
// @Success      204 "Aucune vente enregistrée"
// @Router       /v1/rapports/tableau-de-bord [get]
func (h *RapportsHandler) TableauDeBord(c *gin.Context) {
	resp, err := h.svc.TableauDeBord(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrAucuneVente) {
			c.Status(http.StatusNoContent)
			return
		}
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
