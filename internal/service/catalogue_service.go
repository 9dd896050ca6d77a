package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Nokho11/gestion-vente/internal/dto"
	"github.com/Nokho11/gestion-vente/internal/model"
	"github.com/Nokho11/gestion-vente/internal/repository"
	"github.com/Nokho11/gestion-vente/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogueService is the business logic contract for the catalog: products
// and the client registry. Both halves share the same duplicate-name rule
// and the same soft-delete convention.
type CatalogueService interface {
	// Produits
	CreerProduit(ctx context.Context, req dto.CreerProduitRequest) (*dto.ProduitResponse, error)
	ObtenirProduit(ctx context.Context, nom string) (*dto.ProduitResponse, error)
	ListerProduits(ctx context.Context, filter dto.ProduitFilter) (*dto.ProduitListResponse, error)
	ActualiserProduit(ctx context.Context, id uuid.UUID, req dto.ActualiserProduitRequest) (*dto.ProduitResponse, error)
	DesactiverProduit(ctx context.Context, id uuid.UUID) error
	ReactiverProduit(ctx context.Context, id uuid.UUID) error
	AjusterStock(ctx context.Context, id uuid.UUID, req dto.AjusterStockRequest) (*dto.ProduitResponse, error)
	AlertesStock(ctx context.Context) ([]dto.AlerteStockResponse, error)
	ListerMouvements(ctx context.Context, limit int) ([]dto.MouvementStockResponse, error)

	// Clients
	CreerClient(ctx context.Context, req dto.CreerClientRequest) (*dto.ClientResponse, error)
	ObtenirClient(ctx context.Context, nom string) (*dto.ClientResponse, error)
	ListerClients(ctx context.Context) ([]dto.ClientResponse, error)
	ActualiserClient(ctx context.Context, id uuid.UUID, req dto.ActualiserClientRequest) (*dto.ClientResponse, error)
	DesactiverClient(ctx context.Context, id uuid.UUID) error
}

type catalogueService struct {
	produitRepo   repository.ProduitRepository
	clientRepo    repository.ClientRepository
	mouvementRepo repository.MouvementStockRepository
	dispatcher    *worker.Dispatcher
}

func NewCatalogueService(
	produitRepo repository.ProduitRepository,
	clientRepo repository.ClientRepository,
	mouvementRepo repository.MouvementStockRepository,
	dispatcher *worker.Dispatcher,
) CatalogueService {
	return &catalogueService{
		produitRepo:   produitRepo,
		clientRepo:    clientRepo,
		mouvementRepo: mouvementRepo,
		dispatcher:    dispatcher,
	}
}

// ── Produits ─────────────────────────────────────────────────────────────────

func (s *catalogueService) CreerProduit(ctx context.Context, req dto.CreerProduitRequest) (*dto.ProduitResponse, error) {
	if _, err := s.produitRepo.FindByNom(ctx, req.Nom); err == nil {
		return nil, ErrProduitExistant
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	stockMinimum := req.StockMinimum
	if stockMinimum == 0 {
		stockMinimum = 5
	}
	p := &model.Produit{
		Nom:         req.Nom,
		Description: req.Description,
		PrixVente:   req.PrixVente,
		PrixAchat:   req.PrixAchat,
		Stock:       req.Stock,
		StockMinimum: stockMinimum,
		Actif:       true,
	}
	if err := s.produitRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return produitToResponse(p), nil
}

func (s *catalogueService) ObtenirProduit(ctx context.Context, nom string) (*dto.ProduitResponse, error) {
	p, err := s.produitRepo.FindByNom(ctx, nom)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProduitIntrouvable
		}
		return nil, err
	}
	return produitToResponse(p), nil
}

func (s *catalogueService) ListerProduits(ctx context.Context, filter dto.ProduitFilter) (*dto.ProduitListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	produits, total, err := s.produitRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProduitResponse, 0, len(produits))
	for i := range produits {
		data = append(data, *produitToResponse(&produits[i]))
	}
	return &dto.ProduitListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *catalogueService) ActualiserProduit(ctx context.Context, id uuid.UUID, req dto.ActualiserProduitRequest) (*dto.ProduitResponse, error) {
	p, err := s.produitRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProduitIntrouvable
		}
		return nil, err
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.PrixVente != nil {
		p.PrixVente = *req.PrixVente
	}
	if req.PrixAchat != nil {
		p.PrixAchat = req.PrixAchat
	}
	if req.StockMinimum != nil {
		p.StockMinimum = *req.StockMinimum
	}
	if err := s.produitRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return produitToResponse(p), nil
}

func (s *catalogueService) DesactiverProduit(ctx context.Context, id uuid.UUID) error {
	if _, err := s.produitRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProduitIntrouvable
		}
		return err
	}
	return s.produitRepo.SoftDelete(ctx, id)
}

// ReactiverProduit lifts the soft-delete flag so the product sells again.
func (s *catalogueService) ReactiverProduit(ctx context.Context, id uuid.UUID) error {
	if _, err := s.produitRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProduitIntrouvable
		}
		return err
	}
	return s.produitRepo.Reactiver(ctx, id)
}

// AjusterStock applies a manual correction and journals it. The repository
// refuses a negative delta that would drive stock below zero.
func (s *catalogueService) AjusterStock(ctx context.Context, id uuid.UUID, req dto.AjusterStockRequest) (*dto.ProduitResponse, error) {
	p, err := s.produitRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProduitIntrouvable
		}
		return nil, err
	}

	// Snapshot before the write: the repo may hand back the same object it
	// mutates, so everything below is built from this value, not from p.
	stockAvant := p.Stock

	affected, err := s.produitRepo.AjusterStock(ctx, id, req.Delta)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, &StockInsuffisantError{Produit: p.Nom, Disponible: stockAvant}
	}

	mouvement := &model.MouvementStock{
		ProduitID:  p.ID,
		Type:       "ajustement_manuel",
		Quantite:   req.Delta,
		StockAvant: stockAvant,
		StockApres: stockAvant + req.Delta,
		Motif:      req.Motif,
	}
	if err := s.mouvementRepo.Create(ctx, mouvement); err != nil {
		return nil, err
	}

	p.Stock = stockAvant + req.Delta
	return produitToResponse(p), nil
}

func (s *catalogueService) AlertesStock(ctx context.Context) ([]dto.AlerteStockResponse, error) {
	produits, err := s.produitRepo.ListStockFaible(ctx)
	if err != nil {
		return nil, err
	}
	alertes := make([]dto.AlerteStockResponse, 0, len(produits))
	for _, p := range produits {
		alertes = append(alertes, dto.AlerteStockResponse{
			ProduitID:   p.ID.String(),
			Nom:         p.Nom,
			Stock:       p.Stock,
			StockMinimum: p.StockMinimum,
		})
	}
	return alertes, nil
}

func (s *catalogueService) ListerMouvements(ctx context.Context, limit int) ([]dto.MouvementStockResponse, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	mouvements, err := s.mouvementRepo.ListRecents(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MouvementStockResponse, 0, len(mouvements))
	for i := range mouvements {
		m := &mouvements[i]
		resp := dto.MouvementStockResponse{
			ID:         m.ID.String(),
			ProduitID:  m.ProduitID.String(),
			Type:       m.Type,
			Quantite:   m.Quantite,
			StockAvant: m.StockAvant,
			StockApres: m.StockApres,
			Motif:      m.Motif,
			CreatedAt:  m.CreatedAt.Format(time.RFC3339),
		}
		if m.Produit != nil {
			resp.Produit = m.Produit.Nom
		}
		if m.ReferenceID != nil {
			ref := m.ReferenceID.String()
			resp.ReferenceID = &ref
		}
		out = append(out, resp)
	}
	return out, nil
}

// ── Clients ──────────────────────────────────────────────────────────────────

func (s *catalogueService) CreerClient(ctx context.Context, req dto.CreerClientRequest) (*dto.ClientResponse, error) {
	if _, err := s.clientRepo.FindByNom(ctx, req.Nom); err == nil {
		return nil, ErrClientExistant
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	c := &model.Client{
		Nom:       req.Nom,
		Telephone: req.Telephone,
		Email:     req.Email,
		Adresse:   req.Adresse,
		Actif:     true,
	}
	if err := s.clientRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	// Welcome message is fire-and-forget: a queue or SMTP failure must never
	// roll back the registration it follows.
	if s.dispatcher != nil && c.Email != nil && *c.Email != "" {
		_ = s.dispatcher.EnqueueEmail(ctx, worker.EmailJobPayload{
			ToEmail: *c.Email,
			Subject: "Bienvenue chez NOSENIX",
			Body:    "Bonjour " + c.Nom + ",\n\nVotre compte client NOSENIX a bien été créé.",
		})
	}

	return clientToResponse(c), nil
}

// ObtenirClient resolves by nom, falling back to email when the identifier
// looks like one.
func (s *catalogueService) ObtenirClient(ctx context.Context, identifiant string) (*dto.ClientResponse, error) {
	c, err := s.clientRepo.FindByNom(ctx, identifiant)
	if errors.Is(err, gorm.ErrRecordNotFound) && strings.Contains(identifiant, "@") {
		c, err = s.clientRepo.FindByEmail(ctx, identifiant)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientIntrouvable
		}
		return nil, err
	}
	return clientToResponse(c), nil
}

func (s *catalogueService) ListerClients(ctx context.Context) ([]dto.ClientResponse, error) {
	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ClientResponse, 0, len(clients))
	for i := range clients {
		resp = append(resp, *clientToResponse(&clients[i]))
	}
	return resp, nil
}

func (s *catalogueService) ActualiserClient(ctx context.Context, id uuid.UUID, req dto.ActualiserClientRequest) (*dto.ClientResponse, error) {
	c, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientIntrouvable
		}
		return nil, err
	}
	if req.Telephone != nil {
		c.Telephone = req.Telephone
	}
	if req.Email != nil {
		c.Email = req.Email
	}
	if req.Adresse != nil {
		c.Adresse = req.Adresse
	}
	if err := s.clientRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return clientToResponse(c), nil
}

func (s *catalogueService) DesactiverClient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.clientRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClientIntrouvable
		}
		return err
	}
	return s.clientRepo.SoftDelete(ctx, id)
}

// ── Mappers ──────────────────────────────────────────────────────────────────

func produitToResponse(p *model.Produit) *dto.ProduitResponse {
	return &dto.ProduitResponse{
		ID:          p.ID.String(),
		Nom:         p.Nom,
		Description: p.Description,
		PrixVente:   p.PrixVente,
		PrixAchat:   p.PrixAchat,
		Stock:       p.Stock,
		StockMinimum: p.StockMinimum,
		Actif:       p.Actif,
	}
}

func clientToResponse(c *model.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:        c.ID.String(),
		Nom:       c.Nom,
		Telephone: c.Telephone,
		Email:     c.Email,
		Adresse:   c.Adresse,
		Actif:     c.Actif,
	}
}
