package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreerProduitRequest struct {
	Nom          string           `json:"nom"           validate:"required,min=2,max=120"`
	Description  *string          `json:"description"`
	PrixVente    decimal.Decimal  `json:"prix_vente"    validate:"required"`
	PrixAchat    *decimal.Decimal `json:"prix_achat"`
	Stock        int              `json:"stock"         validate:"min=0"`
	StockMinimum int              `json:"stock_minimum" validate:"min=0"`
}

type ActualiserProduitRequest struct {
	Description  *string          `json:"description"`
	PrixVente    *decimal.Decimal `json:"prix_vente"`
	PrixAchat    *decimal.Decimal `json:"prix_achat"`
	StockMinimum *int             `json:"stock_minimum" validate:"omitempty,min=0"`
}

// AjusterStockRequest is a manual correction (inventory count, breakage…).
// Delta may be negative but must never drive stock below zero.
type AjusterStockRequest struct {
	Delta int    `json:"delta" validate:"required"`
	Motif string `json:"motif" validate:"required,min=3"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProduitFilter struct {
	Nom   string `form:"nom"`
	Actif string `form:"actif"` // "false" = inactifs, "all" = tous, default actifs
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProduitResponse struct {
	ID           string           `json:"id"`
	Nom          string           `json:"nom"`
	Description  *string          `json:"description"`
	PrixVente    decimal.Decimal  `json:"prix_vente"`
	PrixAchat    *decimal.Decimal `json:"prix_achat"`
	Stock        int              `json:"stock"`
	StockMinimum int              `json:"stock_minimum"`
	Actif        bool             `json:"actif"`
}

type ProduitListResponse struct {
	Data  []ProduitResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
