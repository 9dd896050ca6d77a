package handler

import (
	"errors"
	"net/http"

	"github.com/Nokho11/gestion-vente/internal/apierror"
	"github.com/Nokho11/gestion-vente/internal/dto"
	"github.com/Nokho11/gestion-vente/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ClientsHandler struct{ svc service.CatalogueService }

func NewClientsHandler(svc service.CatalogueService) *ClientsHandler {
	return &ClientsHandler{svc: svc}
}

// CreerClient godoc
// @Summary      Enregistrer un client
// @Description  Ajoute un client au répertoire. Le nom est unique ; un email de bienvenue part si une adresse est fournie.
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreerClientRequest true "Détail du client"
// @Success      201  {object} dto.ClientResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/clients [post]
func (h *ClientsHandler) CreerClient(c *gin.Context) {
	var req dto.CreerClientRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreerClient(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrClientExistant) {
			c.JSON(http.StatusConflict, apierror.New("Ce client existe déjà"))
			return
		}
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListerClients godoc
// @Summary      Lister les clients actifs
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.ClientResponse
// @Router       /v1/clients [get]
func (h *ClientsHandler) ListerClients(c *gin.Context) {
	resp, err := h.svc.ListerClients(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenirClient godoc
// @Summary      Consulter un client par nom ou email
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        nom path string true "Nom exact du client, ou son email"
// @Success      200 {object} dto.ClientResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/clients/{nom} [get]
func (h *ClientsHandler) ObtenirClient(c *gin.Context) {
	resp, err := h.svc.ObtenirClient(c.Request.Context(), c.Param("nom"))
	if err != nil {
		if errors.Is(err, service.ErrClientIntrouvable) {
			c.JSON(http.StatusNotFound, apierror.New("Client introuvable"))
			return
		}
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActualiserClient godoc
// @Summary      Modifier un client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                      true "UUID du client"
// @Param        body body dto.ActualiserClientRequest true "Champs à modifier"
// @Success      200  {object} dto.ClientResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/clients/{id} [put]
func (h *ClientsHandler) ActualiserClient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req dto.ActualiserClientRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualiserClient(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, service.ErrClientIntrouvable) {
			c.JSON(http.StatusNotFound, apierror.New("Client introuvable"))
			return
		}
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DesactiverClient godoc
// @Summary      Désactiver un client
// @Description  Soft-delete : le client sort du répertoire actif mais reste référencé par l'historique des ventes.
// @Tags         clients
// @Security     BearerAuth
// @Param        id path string true "UUID du client"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/clients/{id} [delete]
func (h *ClientsHandler) DesactiverClient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	if err := h.svc.DesactiverClient(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrClientIntrouvable) {
			c.JSON(http.StatusNotFound, apierror.New("Client introuvable"))
			return
		}
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
