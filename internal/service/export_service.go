package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Nokho11/gestion-vente/internal/dto"
	"github.com/Nokho11/gestion-vente/internal/repository"
)

// ExportService streams the three NOSENIX tables (produits, ventes, clients)
// plus a dashboard summary as CSV downloads.
type ExportService interface {
	ExportProduits(ctx context.Context, w io.Writer) error
	ExportClients(ctx context.Context, w io.Writer) error
	ExportVentes(ctx context.Context, w io.Writer) error
	ExportStats(ctx context.Context, w io.Writer) error
}

type exportService struct {
	produitRepo repository.ProduitRepository
	clientRepo  repository.ClientRepository
	venteRepo   repository.VenteRepository
}

func NewExportService(
	produitRepo repository.ProduitRepository,
	clientRepo repository.ClientRepository,
	venteRepo repository.VenteRepository,
) ExportService {
	return &exportService{produitRepo: produitRepo, clientRepo: clientRepo, venteRepo: venteRepo}
}

func (s *exportService) ExportProduits(ctx context.Context, w io.Writer) error {
	produits, _, err := s.produitRepo.List(ctx, dto.ProduitFilter{Actif: "all", Page: 1, Limit: 10000})
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Produit", "Prix", "Stock"}); err != nil {
		return err
	}
	for i := range produits {
		p := &produits[i]
		rec := []string{p.Nom, p.PrixVente.StringFixed(2), strconv.Itoa(p.Stock)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *exportService) ExportClients(ctx context.Context, w io.Writer) error {
	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Nom", "Telephone", "Email", "Adresse"}); err != nil {
		return err
	}
	for i := range clients {
		c := &clients[i]
		rec := []string{c.Nom, deref(c.Telephone), deref(c.Email), deref(c.Adresse)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *exportService) ExportVentes(ctx context.Context, w io.Writer) error {
	ventes, err := s.venteRepo.ListAll(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Ticket", "Produit", "Quantite", "PrixUnitaire", "Total", "Client", "Date"}); err != nil {
		return err
	}
	for i := range ventes {
		v := &ventes[i]
		rec := []string{
			strconv.Itoa(v.NumeroTicket),
			v.Produit,
			strconv.Itoa(v.Quantite),
			v.PrixUnitaire.StringFixed(2),
			v.Total.StringFixed(2),
			v.Client,
			v.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportStats writes the dashboard aggregates as a two-column CSV, one
// indicator per row, followed by the per-product and per-client revenue
// series.
func (s *exportService) ExportStats(ctx context.Context, w io.Writer) error {
	ventes, err := s.venteRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(ventes) == 0 {
		return ErrAucuneVente
	}

	topProduit, _ := TopProduit(ventes)
	topClient, _ := TopClient(ventes)

	cw := csv.NewWriter(w)
	rows := [][]string{
		{"Indicateur", "Valeur"},
		{"Chiffre d'affaires", ChiffreAffaires(ventes).StringFixed(2)},
		{"Benefice total", BeneficeTotal(ventes).StringFixed(2)},
		{"Nombre de ventes", strconv.Itoa(len(ventes))},
		{"Top produit", topProduit},
		{"Top client", topClient},
	}
	for _, groupe := range CAParProduit(ventes) {
		rows = append(rows, []string{fmt.Sprintf("CA produit %s", groupe.Nom), groupe.Total.StringFixed(2)})
	}
	for _, groupe := range CAParClient(ventes) {
		rows = append(rows, []string{fmt.Sprintf("CA client %s", groupe.Nom), groupe.Total.StringFixed(2)})
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
