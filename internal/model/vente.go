package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Vente is one ledger entry. Rows are append-only: no update or delete
// path exists anywhere in the codebase.
//
// Produit and Client are captured by name, not by foreign key — a later
// deactivation of either side leaves the ledger intact, the row simply
// stops joining in reports. PrixUnitaire is the price at the time of
// sale; catalog price changes never rewrite history.
type Vente struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroTicket int       `gorm:"uniqueIndex;not null"`
	Produit      string    `gorm:"index;not null"`
	Client       string    `gorm:"index;not null"`
	Quantite     int       `gorm:"not null"`
	PrixUnitaire decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total        decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	// Benefice = Total - PrixAchat*Quantite; nil when the product does not
	// track a purchase price.
	Benefice  *decimal.Decimal `gorm:"type:decimal(14,2)"`
	CreatedAt time.Time
}
