package tests

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/Nokho11/gestion-vente/internal/dto"
	"github.com/Nokho11/gestion-vente/internal/model"
	"github.com/Nokho11/gestion-vente/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repositories for service-level tests. Misses return
// gorm.ErrRecordNotFound so the duplicate-check paths in the services see
// the same sentinel the real GORM layer produces.

type stubProduitRepo struct {
	produits map[uuid.UUID]*model.Produit
}

func newStubProduitRepo() *stubProduitRepo {
	return &stubProduitRepo{produits: make(map[uuid.UUID]*model.Produit)}
}

func (r *stubProduitRepo) Create(_ context.Context, p *model.Produit) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.produits[p.ID] = p
	return nil
}

func (r *stubProduitRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Produit, error) {
	p, ok := r.produits[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProduitRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Produit, error) {
	p, ok := r.produits[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProduitRepo) FindByNom(_ context.Context, nom string) (*model.Produit, error) {
	for _, p := range r.produits {
		if p.Nom == nom {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProduitRepo) List(_ context.Context, _ dto.ProduitFilter) ([]model.Produit, int64, error) {
	out := make([]model.Produit, 0, len(r.produits))
	for _, p := range r.produits {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nom < out[j].Nom })
	return out, int64(len(out)), nil
}

func (r *stubProduitRepo) Update(_ context.Context, p *model.Produit) error {
	r.produits[p.ID] = p
	return nil
}

func (r *stubProduitRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.produits[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Actif = false
	return nil
}

func (r *stubProduitRepo) Reactiver(_ context.Context, id uuid.UUID) error {
	p, ok := r.produits[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Actif = true
	return nil
}

func (r *stubProduitRepo) ListStockFaible(_ context.Context) ([]model.Produit, error) {
	var out []model.Produit
	for _, p := range r.produits {
		if p.Actif && p.Stock <= p.StockMinimum {
			out = append(out, *p)
		}
	}
	return out, nil
}

// DecrementerStockTx mirrors the guarded single-statement UPDATE: the check
// and the write are indivisible, and 0 affected rows means nothing changed.
func (r *stubProduitRepo) DecrementerStockTx(_ *gorm.DB, id uuid.UUID, quantite int) (int64, error) {
	p, ok := r.produits[id]
	if !ok || !p.Actif || p.Stock < quantite {
		return 0, nil
	}
	p.Stock -= quantite
	return 1, nil
}

func (r *stubProduitRepo) AjusterStock(_ context.Context, id uuid.UUID, delta int) (int64, error) {
	p, ok := r.produits[id]
	if !ok || !p.Actif || p.Stock+delta < 0 {
		return 0, nil
	}
	p.Stock += delta
	return 1, nil
}

func (r *stubProduitRepo) DB() *gorm.DB { return nil }

var _ repository.ProduitRepository = (*stubProduitRepo)(nil)

type stubClientRepo struct {
	clients map[uuid.UUID]*model.Client
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{clients: make(map[uuid.UUID]*model.Client)}
}

func (r *stubClientRepo) Create(_ context.Context, c *model.Client) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clients[c.ID] = c
	return nil
}

func (r *stubClientRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubClientRepo) FindByNom(_ context.Context, nom string) (*model.Client, error) {
	for _, c := range r.clients {
		if c.Nom == nom {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubClientRepo) FindByEmail(_ context.Context, email string) (*model.Client, error) {
	for _, c := range r.clients {
		if c.Email != nil && *c.Email == email {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubClientRepo) List(_ context.Context) ([]model.Client, error) {
	var out []model.Client
	for _, c := range r.clients {
		if c.Actif {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nom < out[j].Nom })
	return out, nil
}

func (r *stubClientRepo) Update(_ context.Context, c *model.Client) error {
	r.clients[c.ID] = c
	return nil
}

func (r *stubClientRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	c, ok := r.clients[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.Actif = false
	return nil
}

var _ repository.ClientRepository = (*stubClientRepo)(nil)

type stubVenteRepo struct {
	ventes    []model.Vente
	ticketSeq int
}

func newStubVenteRepo() *stubVenteRepo { return &stubVenteRepo{} }

func (r *stubVenteRepo) Create(_ context.Context, _ *gorm.DB, v *model.Vente) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	r.ventes = append(r.ventes, *v)
	return nil
}

func (r *stubVenteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Vente, error) {
	for i := range r.ventes {
		if r.ventes[i].ID == id {
			return &r.ventes[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubVenteRepo) NextTicketNumber(_ context.Context, _ *gorm.DB) (int, error) {
	r.ticketSeq++
	return r.ticketSeq, nil
}

func (r *stubVenteRepo) List(_ context.Context, _ dto.VenteFilter) ([]model.Vente, int64, error) {
	return r.ventes, int64(len(r.ventes)), nil
}

func (r *stubVenteRepo) ListAll(_ context.Context) ([]model.Vente, error) {
	return r.ventes, nil
}

func (r *stubVenteRepo) DB() *gorm.DB { return nil }

var _ repository.VenteRepository = (*stubVenteRepo)(nil)

type stubMouvementRepo struct {
	mouvements []model.MouvementStock
}

func (r *stubMouvementRepo) CreateTx(_ *gorm.DB, m *model.MouvementStock) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.mouvements = append(r.mouvements, *m)
	return nil
}

func (r *stubMouvementRepo) Create(ctx context.Context, m *model.MouvementStock) error {
	return r.CreateTx(nil, m)
}

func (r *stubMouvementRepo) ListByProduit(_ context.Context, produitID uuid.UUID, _ int) ([]model.MouvementStock, error) {
	var out []model.MouvementStock
	for _, m := range r.mouvements {
		if m.ProduitID == produitID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubMouvementRepo) ListRecents(_ context.Context, limit int) ([]model.MouvementStock, error) {
	n := len(r.mouvements)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]model.MouvementStock, n)
	for i := 0; i < n; i++ {
		out[i] = r.mouvements[len(r.mouvements)-1-i]
	}
	return out, nil
}

var _ repository.MouvementStockRepository = (*stubMouvementRepo)(nil)

// ── Panne stubs ───────────────────────────────────────────────────────────────
// Repositories whose lookups fail with a driver-level error, to check that
// services pass it through instead of reporting a 404-class sentinel.

var errPanneBase = errors.New("pg: connection refused")

type panneProduitRepo struct{ *stubProduitRepo }

func (r *panneProduitRepo) FindByNom(_ context.Context, _ string) (*model.Produit, error) {
	return nil, errPanneBase
}

type panneClientRepo struct{ *stubClientRepo }

func (r *panneClientRepo) FindByNom(_ context.Context, _ string) (*model.Client, error) {
	return nil, errPanneBase
}

// ── Seed helpers ──────────────────────────────────────────────────────────────

func seedProduit(repo *stubProduitRepo, nom string, prix int64, stock int) *model.Produit {
	p := &model.Produit{
		ID:           uuid.New(),
		Nom:          nom,
		PrixVente:    decimal.NewFromInt(prix),
		Stock:        stock,
		StockMinimum: 5,
		Actif:        true,
	}
	repo.produits[p.ID] = p
	return p
}

func seedClient(repo *stubClientRepo, nom string) *model.Client {
	c := &model.Client{ID: uuid.New(), Nom: nom, Actif: true}
	repo.clients[c.ID] = c
	return c
}
