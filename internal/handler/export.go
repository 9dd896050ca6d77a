package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/Nokho11/gestion-vente/internal/service"

	"github.com/gin-gonic/gin"
)

type ExportHandler struct{ svc service.ExportService }

func NewExportHandler(svc service.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

func writeCSVHeaders(c *gin.Context, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
}

// ExportProduits godoc
// @Summary      Exporter le catalogue produits en CSV
// @Tags         export
// @Produce      text/csv
// @Security     BearerAuth
// @Success      200
// @Router       /v1/export/produits [get]
func (h *ExportHandler) ExportProduits(c *gin.Context) {
	writeCSVHeaders(c, "nosenix_produits.csv")
	if err := h.svc.ExportProduits(c.Request.Context(), c.Writer); err != nil {
		c.Error(err)
	}
}

// ExportClients godoc
// @Summary      Exporter le répertoire clients en CSV
// @Tags         export
// @Produce      text/csv
// @Security     BearerAuth
// @Success      200
// @Router       /v1/export/clients [get]
func (h *ExportHandler) ExportClients(c *gin.Context) {
	writeCSVHeaders(c, "nosenix_clients.csv")
	if err := h.svc.ExportClients(c.Request.Context(), c.Writer); err != nil {
		c.Error(err)
	}
}

// ExportVentes godoc
// @Summary      Exporter le registre des ventes en CSV
// @Tags         export
// @Produce      text/csv
// @Security     BearerAuth
// @Success      200
// @Router       /v1/export/ventes [get]
func (h *ExportHandler) ExportVentes(c *gin.Context) {
	writeCSVHeaders(c, "nosenix_ventes.csv")
	if err := h.svc.ExportVentes(c.Request.Context(), c.Writer); err != nil {
		c.Error(err)
	}
}

// ExportStats godoc
// @Summary      Exporter les indicateurs du tableau de bord en CSV
// @Tags         export
// @Produce      text/csv
// @Security     BearerAuth
// @Success      200
// @Success      204 "Aucune vente enregistrée"
// @Router       /v1/export/stats [get]
func (h *ExportHandler) ExportStats(c *gin.Context) {
	// Buffer first: the empty-ledger case must answer 204, not a half-written CSV.
	var buf bytes.Buffer
	if err := h.svc.ExportStats(c.Request.Context(), &buf); err != nil {
		if errors.Is(err, service.ErrAucuneVente) {
			c.Status(http.StatusNoContent)
			return
		}
		c.Error(err)
		return
	}
	writeCSVHeaders(c, "nosenix_stats.csv")
	c.Writer.Write(buf.Bytes())
}
