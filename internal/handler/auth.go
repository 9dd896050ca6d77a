package handler

import (
	"net/http"

	"github.com/Nokho11/gestion-vente/internal/apierror"
	"github.com/Nokho11/gestion-vente/internal/dto"
	"github.com/Nokho11/gestion-vente/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary Connexion utilisateur
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Identifiants"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Identifiants invalides"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Token de rafraîchissement invalide"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Utilisateurs Handler ─────────────────────────────────────────────────────

type UtilisateursHandler struct{ svc service.AuthService }

func NewUtilisateursHandler(svc service.AuthService) *UtilisateursHandler {
	return &UtilisateursHandler{svc: svc}
}

func (h *UtilisateursHandler) Creer(c *gin.Context) {
	var req dto.CreerUtilisateurRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreerUtilisateur(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *UtilisateursHandler) Lister(c *gin.Context) {
	resp, err := h.svc.ListerUtilisateurs(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Erreur lors de la liste des utilisateurs"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UtilisateursHandler) Actualiser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	var req dto.ActualiserUtilisateurRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualiserUtilisateur(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UtilisateursHandler) Desactiver(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	if err := h.svc.DesactiverUtilisateur(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UtilisateursHandler) Reactiver(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalide"))
		return
	}
	if err := h.svc.ReactiverUtilisateur(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
