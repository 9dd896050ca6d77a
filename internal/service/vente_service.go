package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Nokho11/gestion-vente/internal/dto"
	"github.com/Nokho11/gestion-vente/internal/model"
	"github.com/Nokho11/gestion-vente/internal/repository"
	"github.com/Nokho11/gestion-vente/internal/worker"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VenteService interface {
	Enregistrer(ctx context.Context, req dto.EnregistrerVenteRequest) (*dto.VenteResponse, error)
	Lister(ctx context.Context, filter dto.VenteFilter) (*dto.VenteListResponse, error)
}

type venteService struct {
	repo          repository.VenteRepository
	produitRepo   repository.ProduitRepository
	clientRepo    repository.ClientRepository
	mouvementRepo repository.MouvementStockRepository
	dispatcher    *worker.Dispatcher
}

func NewVenteService(
	repo repository.VenteRepository,
	produitRepo repository.ProduitRepository,
	clientRepo repository.ClientRepository,
	mouvementRepo repository.MouvementStockRepository,
	dispatcher *worker.Dispatcher,
) VenteService {
	return &venteService{
		repo:          repo,
		produitRepo:   produitRepo,
		clientRepo:    clientRepo,
		mouvementRepo: mouvementRepo,
		dispatcher:    dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Enregistrer ───────────────────────────────────────────────────────────────
// One sale, one transaction:
//   1. Resolve product by nom; must exist and be active
//   2. Resolve client by nom, or by email when the identifier looks like
//      one; must exist and be active
//   3. Validate quantite >= 1
//   4. BEGIN TX: next ticket number, create vente (price captured now),
//      guarded stock decrement (check+write in a single UPDATE), movement row
//   5. COMMIT
//   6. (async, best-effort) dispatch facture job
//
// Validation happens before any write, and the decrement guard makes the
// whole thing fail atomically: a rejected sale leaves both the ledger and
// the stock untouched.

func (s *venteService) Enregistrer(ctx context.Context, req dto.EnregistrerVenteRequest) (*dto.VenteResponse, error) {
	produit, err := s.produitRepo.FindByNom(ctx, req.Produit)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProduitIntrouvable
		}
		return nil, err
	}
	if !produit.Actif {
		return nil, ErrProduitIntrouvable
	}

	client, err := s.clientRepo.FindByNom(ctx, req.Client)
	if errors.Is(err, gorm.ErrRecordNotFound) && strings.Contains(req.Client, "@") {
		client, err = s.clientRepo.FindByEmail(ctx, req.Client)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientIntrouvable
		}
		return nil, err
	}
	if !client.Actif {
		return nil, ErrClientIntrouvable
	}

	if req.Quantite < 1 {
		return nil, ErrQuantiteInvalide
	}

	// Price and profit are computed from the catalog as it stands right now
	// and frozen into the ledger row.
	quantite := decimal.NewFromInt(int64(req.Quantite))
	total := produit.PrixVente.Mul(quantite)
	var benefice *decimal.Decimal
	if produit.PrixAchat != nil {
		b := total.Sub(produit.PrixAchat.Mul(quantite))
		benefice = &b
	}

	var vente model.Vente
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ticketNum, err := s.repo.NextTicketNumber(ctx, tx)
		if err != nil {
			return err
		}

		vente = model.Vente{
			NumeroTicket: ticketNum,
			Produit:      produit.Nom,
			Client:       client.Nom,
			Quantite:     req.Quantite,
			PrixUnitaire: produit.PrixVente,
			Total:        total,
			Benefice:     benefice,
		}
		if err := s.repo.Create(ctx, tx, &vente); err != nil {
			return err
		}

		// Guarded decrement: 0 rows affected means the stock check failed
		// inside the database — roll back the vente row with it.
		affected, err := s.produitRepo.DecrementerStockTx(tx, produit.ID, req.Quantite)
		if err != nil {
			return err
		}
		if affected == 0 {
			// Re-read for the friendly available count; the value may be
			// stale by the time the caller retries, which is fine.
			current, rerr := s.produitRepo.FindByID(ctx, produit.ID)
			disponible := 0
			if rerr == nil {
				disponible = current.Stock
			}
			return &StockInsuffisantError{Produit: produit.Nom, Disponible: disponible}
		}

		// Re-read inside the transaction: the pre-flight stock may be stale
		// by now, and the journal must state what this sale actually did.
		apres, err := s.produitRepo.FindByIDTx(tx, produit.ID)
		if err != nil {
			return err
		}

		venteRef := vente.ID
		mouvement := &model.MouvementStock{
			ProduitID:   produit.ID,
			Type:        "vente",
			Quantite:    -req.Quantite,
			StockAvant:  apres.Stock + req.Quantite,
			StockApres:  apres.Stock,
			Motif:       fmt.Sprintf("Vente #%d", ticketNum),
			ReferenceID: &venteRef,
		}
		return s.mouvementRepo.CreateTx(tx, mouvement)
	})
	if txErr != nil {
		return nil, txErr
	}

	// Async facture job (best-effort — fire & forget). A queue failure never
	// undoes the committed sale.
	if s.dispatcher != nil {
		payload := worker.FactureJobPayload{VenteID: vente.ID.String()}
		switch {
		case req.ClientEmail != nil && *req.ClientEmail != "":
			payload.ClientEmail = req.ClientEmail
		case client.Email != nil && *client.Email != "":
			payload.ClientEmail = client.Email
		}
		_ = s.dispatcher.EnqueueFacture(ctx, payload)
	}

	return venteToResponse(&vente), nil
}

// Lister returns a paginated slice of the ledger, newest first.
func (s *venteService) Lister(ctx context.Context, filter dto.VenteFilter) (*dto.VenteListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	ventes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VenteResponse, 0, len(ventes))
	for i := range ventes {
		items = append(items, *venteToResponse(&ventes[i]))
	}
	return &dto.VenteListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func venteToResponse(v *model.Vente) *dto.VenteResponse {
	return &dto.VenteResponse{
		ID:           v.ID.String(),
		NumeroTicket: v.NumeroTicket,
		Produit:      v.Produit,
		Client:       v.Client,
		Quantite:     v.Quantite,
		PrixUnitaire: v.PrixUnitaire,
		Total:        v.Total,
		Benefice:     v.Benefice,
		CreatedAt:    v.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
