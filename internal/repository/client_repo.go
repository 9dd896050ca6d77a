package repository

import (
	"context"

	"github.com/Nokho11/gestion-vente/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientRepository defines the data access contract for the client registry.
type ClientRepository interface {
	Create(ctx context.Context, c *model.Client) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error)
	FindByNom(ctx context.Context, nom string) (*model.Client, error)
	FindByEmail(ctx context.Context, email string) (*model.Client, error)
	List(ctx context.Context) ([]model.Client, error)
	Update(ctx context.Context, c *model.Client) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type clientRepo struct{ db *gorm.DB }

func NewClientRepository(db *gorm.DB) ClientRepository { return &clientRepo{db: db} }

func (r *clientRepo) Create(ctx context.Context, c *model.Client) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clientRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	var c model.Client
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *clientRepo) FindByNom(ctx context.Context, nom string) (*model.Client, error) {
	var c model.Client
	err := r.db.WithContext(ctx).Where("nom = ?", nom).First(&c).Error
	return &c, err
}

func (r *clientRepo) FindByEmail(ctx context.Context, email string) (*model.Client, error) {
	var c model.Client
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&c).Error
	return &c, err
}

func (r *clientRepo) List(ctx context.Context) ([]model.Client, error) {
	var clients []model.Client
	err := r.db.WithContext(ctx).Where("actif = true").Order("nom ASC").Find(&clients).Error
	return clients, err
}

func (r *clientRepo) Update(ctx context.Context, c *model.Client) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *clientRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Client{}).Where("id = ?", id).Update("actif", false).Error
}
