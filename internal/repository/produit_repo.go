package repository

import (
	"context"

	"github.com/Nokho11/gestion-vente/internal/dto"
	"github.com/Nokho11/gestion-vente/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProduitRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type ProduitRepository interface {
	Create(ctx context.Context, p *model.Produit) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Produit, error)
	// FindByIDTx reads the row inside the caller's transaction, so movement
	// rows can journal stock values the pre-flight read may no longer hold.
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Produit, error)
	FindByNom(ctx context.Context, nom string) (*model.Produit, error)
	List(ctx context.Context, filter dto.ProduitFilter) ([]model.Produit, int64, error)
	Update(ctx context.Context, p *model.Produit) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactiver(ctx context.Context, id uuid.UUID) error
	ListStockFaible(ctx context.Context) ([]model.Produit, error)

	// DecrementerStockTx runs the guarded decrement inside the caller's
	// transaction: the stock check and the write are one SQL statement, so
	// two concurrent sales can never both pass the check. Returns the number
	// of rows affected — 0 means insufficient stock, nothing was mutated.
	DecrementerStockTx(tx *gorm.DB, id uuid.UUID, quantite int) (int64, error)

	// AjusterStock applies a signed delta outside a sale; the same guard
	// keeps stock from going negative on downward corrections.
	AjusterStock(ctx context.Context, id uuid.UUID, delta int) (int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type produitRepo struct{ db *gorm.DB }

func NewProduitRepository(db *gorm.DB) ProduitRepository { return &produitRepo{db: db} }

func (r *produitRepo) Create(ctx context.Context, p *model.Produit) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *produitRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Produit, error) {
	var p model.Produit
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *produitRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Produit, error) {
	var p model.Produit
	err := tx.First(&p, id).Error
	return &p, err
}

func (r *produitRepo) FindByNom(ctx context.Context, nom string) (*model.Produit, error) {
	var p model.Produit
	err := r.db.WithContext(ctx).Where("nom = ?", nom).First(&p).Error
	return &p, err
}

func (r *produitRepo) List(ctx context.Context, filter dto.ProduitFilter) ([]model.Produit, int64, error) {
	var produits []model.Produit
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Produit{})

	// Actif filter: "false" = inactifs, "all" = tous, anything else = actifs (default)
	switch filter.Actif {
	case "false":
		q = q.Where("actif = false")
	case "all":
		// no filter
	default:
		q = q.Where("actif = true")
	}

	if filter.Nom != "" {
		q = q.Where("nom ILIKE ?", "%"+filter.Nom+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("nom ASC").Limit(filter.Limit).Offset(offset).Find(&produits).Error
	return produits, total, err
}

func (r *produitRepo) Update(ctx context.Context, p *model.Produit) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *produitRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Produit{}).Where("id = ?", id).Update("actif", false).Error
}

func (r *produitRepo) Reactiver(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Produit{}).Where("id = ?", id).Update("actif", true).Error
}

func (r *produitRepo) ListStockFaible(ctx context.Context) ([]model.Produit, error) {
	var produits []model.Produit
	err := r.db.WithContext(ctx).
		Where("actif = true AND stock <= stock_minimum").
		Order("stock ASC").
		Find(&produits).Error
	return produits, err
}

func (r *produitRepo) DecrementerStockTx(tx *gorm.DB, id uuid.UUID, quantite int) (int64, error) {
	res := tx.Model(&model.Produit{}).
		Where("id = ? AND actif = true AND stock >= ?", id, quantite).
		Update("stock", gorm.Expr("stock - ?", quantite))
	return res.RowsAffected, res.Error
}

func (r *produitRepo) AjusterStock(ctx context.Context, id uuid.UUID, delta int) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Produit{}).
		Where("id = ? AND actif = true", id)
	if delta < 0 {
		q = q.Where("stock >= ?", -delta)
	}
	res := q.Update("stock", gorm.Expr("stock + ?", delta))
	return res.RowsAffected, res.Error
}

func (r *produitRepo) DB() *gorm.DB { return r.db }
