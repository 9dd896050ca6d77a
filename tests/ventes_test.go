package tests

import (
	"context"
	"testing"

	"github.com/Nokho11/gestion-vente/internal/dto"
	"github.com/Nokho11/gestion-vente/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildVenteSvc() (service.VenteService, *stubVenteRepo, *stubProduitRepo, *stubClientRepo, *stubMouvementRepo) {
	produitRepo := newStubProduitRepo()
	clientRepo := newStubClientRepo()
	venteRepo := newStubVenteRepo()
	mouvementRepo := &stubMouvementRepo{}
	svc := service.NewVenteService(venteRepo, produitRepo, clientRepo, mouvementRepo, nil)
	return svc, venteRepo, produitRepo, clientRepo, mouvementRepo
}

func TestEnregistrerVente_TotalEtStock(t *testing.T) {
	svc, venteRepo, produitRepo, clientRepo, _ := buildVenteSvc()
	seedProduit(produitRepo, "Produit 1", 1000, 50)
	seedClient(clientRepo, "Client A")

	resp, err := svc.Enregistrer(context.Background(), dto.EnregistrerVenteRequest{
		Client:   "Client A",
		Produit:  "Produit 1",
		Quantite: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, "10000", resp.Total.String())
	assert.Equal(t, "1000", resp.PrixUnitaire.String())
	assert.Equal(t, 1, resp.NumeroTicket)

	p, _ := produitRepo.FindByNom(context.Background(), "Produit 1")
	assert.Equal(t, 40, p.Stock)

	require.Len(t, venteRepo.ventes, 1)
	assert.Equal(t, "Client A", venteRepo.ventes[0].Client)
}

func TestEnregistrerVente_PrixCaptureALaVente(t *testing.T) {
	svc, venteRepo, produitRepo, clientRepo, _ := buildVenteSvc()
	p := seedProduit(produitRepo, "Produit 2", 1500, 30)
	seedClient(clientRepo, "Client B")

	_, err := svc.Enregistrer(context.Background(), dto.EnregistrerVenteRequest{
		Client: "Client B", Produit: "Produit 2", Quantite: 2,
	})
	require.NoError(t, err)

	// Catalog price change after the sale must not rewrite the ledger row.
	p.PrixVente = decimal.NewFromInt(9999)

	assert.Equal(t, "1500", venteRepo.ventes[0].PrixUnitaire.String())
	assert.Equal(t, "3000", venteRepo.ventes[0].Total.String())
}

func TestEnregistrerVente_QuantiteInvalide(t *testing.T) {
	svc, venteRepo, produitRepo, clientRepo, _ := buildVenteSvc()
	seedProduit(produitRepo, "Produit 1", 1000, 50)
	seedClient(clientRepo, "Client A")

	for _, q := range []int{0, -3} {
		_, err := svc.Enregistrer(context.Background(), dto.EnregistrerVenteRequest{
			Client: "Client A", Produit: "Produit 1", Quantite: q,
		})
		assert.ErrorIs(t, err, service.ErrQuantiteInvalide)
	}
	assert.Empty(t, venteRepo.ventes)
}

func TestEnregistrerVente_ProduitInconnu(t *testing.T) {
	svc, _, _, clientRepo, _ := buildVenteSvc()
	seedClient(clientRepo, "Client A")

	_, err := svc.Enregistrer(context.Background(), dto.EnregistrerVenteRequest{
		Client: "Client A", Produit: "Produit fantôme", Quantite: 1,
	})
	assert.ErrorIs(t, err, service.ErrProduitIntrouvable)
}

func TestEnregistrerVente_ClientInconnu(t *testing.T) {
	svc, _, produitRepo, _, _ := buildVenteSvc()
	seedProduit(produitRepo, "Produit 1", 1000, 50)

	_, err := svc.Enregistrer(context.Background(), dto.EnregistrerVenteRequest{
		Client: "Inconnu", Produit: "Produit 1", Quantite: 1,
	})
	assert.ErrorIs(t, err, service.ErrClientIntrouvable)
}

func TestEnregistrerVente_ProduitDesactive(t *testing.T) {
	svc, _, produitRepo, clientRepo, _ := buildVenteSvc()
	p := seedProduit(produitRepo, "Produit 1", 1000, 50)
	p.Actif = false
	seedClient(clientRepo, "Client A")

	_, err := svc.Enregistrer(context.Background(), dto.EnregistrerVenteRequest{
		Client: "Client A", Produit: "Produit 1", Quantite: 1,
	})
	assert.ErrorIs(t, err, service.ErrProduitIntrouvable)
}

func TestEnregistrerVente_StockInsuffisant(t *testing.T) {
	svc, _, produitRepo, clientRepo, mouvementRepo := buildVenteSvc()
	seedProduit(produitRepo, "Produit 1", 1000, 50)
	seedClient(clientRepo, "Client A")

	_, err := svc.Enregistrer(context.Background(), dto.EnregistrerVenteRequest{
		Client: "Client A", Produit: "Produit 1", Quantite: 60,
	})
	require.Error(t, err)

	stockErr, ok := service.IsStockInsuffisant(err)
	require.True(t, ok)
	assert.Equal(t, "Produit 1", stockErr.Produit)
	assert.Equal(t, 50, stockErr.Disponible)

	// The decrement guard fired: stock untouched, no movement journaled.
	p, _ := produitRepo.FindByNom(context.Background(), "Produit 1")
	assert.Equal(t, 50, p.Stock)
	assert.Empty(t, mouvementRepo.mouvements)
}

func TestEnregistrerVente_StockExactementEpuise(t *testing.T) {
	svc, _, produitRepo, clientRepo, _ := buildVenteSvc()
	seedProduit(produitRepo, "Produit 3", 2000, 20)
	seedClient(clientRepo, "Client C")

	// Buying the whole stock is allowed; the next unit is not.
	_, err := svc.Enregistrer(context.Background(), dto.EnregistrerVenteRequest{
		Client: "Client C", Produit: "Produit 3", Quantite: 20,
	})
	require.NoError(t, err)

	p, _ := produitRepo.FindByNom(context.Background(), "Produit 3")
	assert.Equal(t, 0, p.Stock)

	_, err = svc.Enregistrer(context.Background(), dto.EnregistrerVenteRequest{
		Client: "Client C", Produit: "Produit 3", Quantite: 1,
	})
	_, ok := service.IsStockInsuffisant(err)
	assert.True(t, ok)
}

func TestEnregistrerVente_BeneficeAvecPrixAchat(t *testing.T) {
	svc, venteRepo, produitRepo, clientRepo, _ := buildVenteSvc()
	p := seedProduit(produitRepo, "Produit 2", 1500, 30)
	prixAchat := decimal.NewFromInt(1000)
	p.PrixAchat = &prixAchat
	seedClient(clientRepo, "Client B")

	resp, err := svc.Enregistrer(context.Background(), dto.EnregistrerVenteRequest{
		Client: "Client B", Produit: "Produit 2", Quantite: 4,
	})
	require.NoError(t, err)

	// (1500 - 1000) × 4
	require.NotNil(t, resp.Benefice)
	assert.Equal(t, "2000", resp.Benefice.String())
	require.NotNil(t, venteRepo.ventes[0].Benefice)
}

func TestEnregistrerVente_BeneficeAbsentSansPrixAchat(t *testing.T) {
	svc, venteRepo, produitRepo, clientRepo, _ := buildVenteSvc()
	seedProduit(produitRepo, "Produit 1", 1000, 50)
	seedClient(clientRepo, "Client A")

	resp, err := svc.Enregistrer(context.Background(), dto.EnregistrerVenteRequest{
		Client: "Client A", Produit: "Produit 1", Quantite: 2,
	})
	require.NoError(t, err)
	assert.Nil(t, resp.Benefice)
	assert.Nil(t, venteRepo.ventes[0].Benefice)
}

func TestEnregistrerVente_MouvementJournalise(t *testing.T) {
	svc, venteRepo, produitRepo, clientRepo, mouvementRepo := buildVenteSvc()
	p := seedProduit(produitRepo, "Produit 1", 1000, 50)
	seedClient(clientRepo, "Client A")

	_, err := svc.Enregistrer(context.Background(), dto.EnregistrerVenteRequest{
		Client: "Client A", Produit: "Produit 1", Quantite: 10,
	})
	require.NoError(t, err)

	require.Len(t, mouvementRepo.mouvements, 1)
	m := mouvementRepo.mouvements[0]
	assert.Equal(t, "vente", m.Type)
	assert.Equal(t, p.ID, m.ProduitID)
	assert.Equal(t, -10, m.Quantite)
	assert.Equal(t, 50, m.StockAvant)
	assert.Equal(t, 40, m.StockApres)
	require.NotNil(t, m.ReferenceID)
	assert.Equal(t, venteRepo.ventes[0].ID, *m.ReferenceID)
}

func TestEnregistrerVente_TicketsSequentiels(t *testing.T) {
	svc, venteRepo, produitRepo, clientRepo, _ := buildVenteSvc()
	seedProduit(produitRepo, "Produit 1", 1000, 50)
	seedClient(clientRepo, "Client A")

	for i := 0; i < 3; i++ {
		_, err := svc.Enregistrer(context.Background(), dto.EnregistrerVenteRequest{
			Client: "Client A", Produit: "Produit 1", Quantite: 1,
		})
		require.NoError(t, err)
	}

	require.Len(t, venteRepo.ventes, 3)
	for i, v := range venteRepo.ventes {
		assert.Equal(t, i+1, v.NumeroTicket)
	}
}

func TestListerVentes_Pagination(t *testing.T) {
	svc, _, produitRepo, clientRepo, _ := buildVenteSvc()
	seedProduit(produitRepo, "Produit 1", 1000, 50)
	seedClient(clientRepo, "Client A")

	for i := 0; i < 5; i++ {
		_, err := svc.Enregistrer(context.Background(), dto.EnregistrerVenteRequest{
			Client: "Client A", Produit: "Produit 1", Quantite: 1,
		})
		require.NoError(t, err)
	}

	resp, err := svc.Lister(context.Background(), dto.VenteFilter{Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.Total)
	assert.Len(t, resp.Data, 5)
}

func TestEnregistrerVente_ResolutionAvantQuantite(t *testing.T) {
	svc, venteRepo, _, clientRepo, _ := buildVenteSvc()
	seedClient(clientRepo, "Client A")

	// A request wrong on both counts reports the resolution failure, not
	// the quantity one.
	_, err := svc.Enregistrer(context.Background(), dto.EnregistrerVenteRequest{
		Client: "Client A", Produit: "Produit fantôme", Quantite: 0,
	})
	assert.ErrorIs(t, err, service.ErrProduitIntrouvable)
	assert.Empty(t, venteRepo.ventes)
}

func TestEnregistrerVente_ClientResoluParEmail(t *testing.T) {
	svc, venteRepo, produitRepo, clientRepo, _ := buildVenteSvc()
	seedProduit(produitRepo, "Produit 1", 1000, 50)
	c := seedClient(clientRepo, "Client A")
	email := "clienta@email.com"
	c.Email = &email

	resp, err := svc.Enregistrer(context.Background(), dto.EnregistrerVenteRequest{
		Client: "clienta@email.com", Produit: "Produit 1", Quantite: 2,
	})
	require.NoError(t, err)

	// The ledger records the resolved name, not the email used to look it up.
	assert.Equal(t, "Client A", resp.Client)
	assert.Equal(t, "Client A", venteRepo.ventes[0].Client)
}

func TestEnregistrerVente_PanneBaseDeDonnees(t *testing.T) {
	produitRepo := newStubProduitRepo()
	clientRepo := newStubClientRepo()
	venteRepo := newStubVenteRepo()
	svc := service.NewVenteService(venteRepo, &panneProduitRepo{produitRepo}, clientRepo, &stubMouvementRepo{}, nil)

	// A driver failure is not "produit introuvable": it must reach the
	// error middleware as-is.
	_, err := svc.Enregistrer(context.Background(), dto.EnregistrerVenteRequest{
		Client: "Client A", Produit: "Produit 1", Quantite: 1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errPanneBase)
	assert.NotErrorIs(t, err, service.ErrProduitIntrouvable)
	assert.Empty(t, venteRepo.ventes)
}
