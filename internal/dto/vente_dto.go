package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VenteFilter is bound from query string of GET /v1/ventes.
type VenteFilter struct {
	Date    string `form:"date"`    // YYYY-MM-DD; empty = toutes
	Produit string `form:"produit"` // filtre exact par nom de produit
	Client  string `form:"client"`  // filtre exact par nom de client
	Page    int    `form:"page,default=1"   validate:"min=1"`
	Limit   int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type VenteListResponse struct {
	Data  []VenteResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// EnregistrerVenteRequest references product and client by name, exactly as
// the sale form does.
type EnregistrerVenteRequest struct {
	Client   string `json:"client"   validate:"required"`
	Produit  string `json:"produit"  validate:"required"`
	Quantite int    `json:"quantite" validate:"required,min=1"`
	// ClientEmail: optional override — when present, the facture worker mails
	// the PDF there instead of the registered client email.
	ClientEmail *string `json:"client_email" validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VenteResponse struct {
	ID           string           `json:"id"`
	NumeroTicket int              `json:"numero_ticket"`
	Produit      string           `json:"produit"`
	Client       string           `json:"client"`
	Quantite     int              `json:"quantite"`
	PrixUnitaire decimal.Decimal  `json:"prix_unitaire"`
	Total        decimal.Decimal  `json:"total"`
	Benefice     *decimal.Decimal `json:"benefice,omitempty"`
	CreatedAt    string           `json:"created_at"`
}
