package repository

import (
	"context"

	"github.com/Nokho11/gestion-vente/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MouvementStockRepository journalise les changements de stock.
type MouvementStockRepository interface {
	// CreateTx must run inside the same transaction as the stock write it
	// documents.
	CreateTx(tx *gorm.DB, m *model.MouvementStock) error
	Create(ctx context.Context, m *model.MouvementStock) error
	ListByProduit(ctx context.Context, produitID uuid.UUID, limit int) ([]model.MouvementStock, error)
	ListRecents(ctx context.Context, limit int) ([]model.MouvementStock, error)
}

type mouvementStockRepo struct{ db *gorm.DB }

func NewMouvementStockRepository(db *gorm.DB) MouvementStockRepository {
	return &mouvementStockRepo{db: db}
}

func (r *mouvementStockRepo) CreateTx(tx *gorm.DB, m *model.MouvementStock) error {
	return tx.Create(m).Error
}

func (r *mouvementStockRepo) Create(ctx context.Context, m *model.MouvementStock) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *mouvementStockRepo) ListByProduit(ctx context.Context, produitID uuid.UUID, limit int) ([]model.MouvementStock, error) {
	var mouvements []model.MouvementStock
	err := r.db.WithContext(ctx).
		Where("produit_id = ?", produitID).
		Order("created_at DESC").Limit(limit).
		Find(&mouvements).Error
	return mouvements, err
}

func (r *mouvementStockRepo) ListRecents(ctx context.Context, limit int) ([]model.MouvementStock, error) {
	var mouvements []model.MouvementStock
	err := r.db.WithContext(ctx).
		Preload("Produit").
		Order("created_at DESC").Limit(limit).
		Find(&mouvements).Error
	return mouvements, err
}
