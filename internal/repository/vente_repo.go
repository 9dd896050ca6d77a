package repository

import (
	"context"

	"github.com/Nokho11/gestion-vente/internal/dto"
	"github.com/Nokho11/gestion-vente/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VenteRepository is append-only by contract: there is deliberately no
// Update or Delete method — the ledger is immutable history.
type VenteRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Vente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Vente, error)
	NextTicketNumber(ctx context.Context, tx *gorm.DB) (int, error)
	List(ctx context.Context, filter dto.VenteFilter) ([]model.Vente, int64, error)
	// ListAll streams the whole ledger in insertion order for the reporting
	// aggregations.
	ListAll(ctx context.Context) ([]model.Vente, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type venteRepo struct{ db *gorm.DB }

func NewVenteRepository(db *gorm.DB) VenteRepository { return &venteRepo{db: db} }

func (r *venteRepo) DB() *gorm.DB { return r.db }

func (r *venteRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Vente) error {
	return tx.WithContext(ctx).Create(v).Error
}

func (r *venteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Vente, error) {
	var v model.Vente
	err := r.db.WithContext(ctx).First(&v, id).Error
	return &v, err
}

func (r *venteRepo) NextTicketNumber(ctx context.Context, tx *gorm.DB) (int, error) {
	// Uses a PostgreSQL sequence for atomic ticket number generation
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('ventes_numero_ticket_seq')").Scan(&num).Error
	return num, err
}

func (r *venteRepo) List(ctx context.Context, filter dto.VenteFilter) ([]model.Vente, int64, error) {
	var ventes []model.Vente
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Vente{})

	if filter.Date != "" {
		q = q.Where("DATE(created_at) = ?", filter.Date)
	}
	if filter.Produit != "" {
		q = q.Where("produit = ?", filter.Produit)
	}
	if filter.Client != "" {
		q = q.Where("client = ?", filter.Client)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&ventes).Error

	return ventes, total, err
}

func (r *venteRepo) ListAll(ctx context.Context) ([]model.Vente, error) {
	var ventes []model.Vente
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&ventes).Error
	return ventes, err
}
