package model

import (
	"time"

	"github.com/google/uuid"
)

// MouvementStock journalise chaque changement de stock d'un produit.
// Créé automatiquement lors d'une vente ou d'un ajustement manuel.
type MouvementStock struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProduitID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type        string     `gorm:"not null"` // "vente" | "ajustement_manuel"
	Quantite    int        `gorm:"not null"` // positive = entrée, negative = sortie
	StockAvant  int        `gorm:"not null"`
	StockApres  int        `gorm:"not null"`
	Motif       string
	ReferenceID *uuid.UUID `gorm:"type:uuid"` // vente_id when Type == "vente"
	CreatedAt   time.Time

	Produit *Produit `gorm:"foreignKey:ProduitID"`
}

// TableName overrides GORM's default pluralization.
func (MouvementStock) TableName() string { return "mouvements_stock" }
