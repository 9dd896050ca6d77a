package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Produit is a catalog entry. Nom is the business identifier (unique);
// stock never goes below zero — the guarded decrement in the repository
// enforces it at the SQL level.
type Produit struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nom         string    `gorm:"uniqueIndex;not null"`
	Description *string
	PrixVente   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// PrixAchat is optional: when nil, no profit is computed for sales of
	// this product.
	PrixAchat    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Stock        int              `gorm:"not null;default:0;check:stock >= 0"`
	StockMinimum int              `gorm:"not null;default:5"`
	Actif        bool             `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
