package service

import (
	"context"
	"sort"

	"github.com/Nokho11/gestion-vente/internal/dto"
	"github.com/Nokho11/gestion-vente/internal/model"
	"github.com/Nokho11/gestion-vente/internal/repository"

	"github.com/shopspring/decimal"
)

// RapportService computes read-only aggregations over the ledger for the
// dashboard. All computation lives in pure package-level functions so the
// same code paths are trivially unit-testable without a repository.
type RapportService interface {
	TableauDeBord(ctx context.Context) (*dto.TableauDeBordResponse, error)
}

type rapportService struct {
	repo repository.VenteRepository
}

func NewRapportService(repo repository.VenteRepository) RapportService {
	return &rapportService{repo: repo}
}

// TableauDeBord returns ErrAucuneVente on an empty ledger so the caller can
// tell "nothing to show" apart from a failed computation.
func (s *rapportService) TableauDeBord(ctx context.Context) (*dto.TableauDeBordResponse, error) {
	ventes, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(ventes) == 0 {
		return nil, ErrAucuneVente
	}

	topProduit, _ := TopProduit(ventes)
	topClient, _ := TopClient(ventes)

	return &dto.TableauDeBordResponse{
		ChiffreAffaires: ChiffreAffaires(ventes),
		BeneficeTotal:   BeneficeTotal(ventes),
		NombreVentes:    len(ventes),
		TopProduit:      topProduit,
		TopClient:       topClient,
		CAParProduit:    CAParProduit(ventes),
		CAParClient:     CAParClient(ventes),
	}, nil
}

// ── Pure aggregations ────────────────────────────────────────────────────────

// ChiffreAffaires sums the totals of every ledger entry.
func ChiffreAffaires(ventes []model.Vente) decimal.Decimal {
	sum := decimal.Zero
	for i := range ventes {
		sum = sum.Add(ventes[i].Total)
	}
	return sum
}

// BeneficeTotal sums the profit of entries that track one; entries whose
// product had no purchase price contribute nothing.
func BeneficeTotal(ventes []model.Vente) decimal.Decimal {
	sum := decimal.Zero
	for i := range ventes {
		if ventes[i].Benefice != nil {
			sum = sum.Add(*ventes[i].Benefice)
		}
	}
	return sum
}

// TopProduit returns the product with the highest summed quantity. Ties are
// broken by the lexicographically smallest name so the result is
// deterministic. ok is false on an empty ledger.
func TopProduit(ventes []model.Vente) (nom string, ok bool) {
	return topParQuantite(ventes, func(v *model.Vente) string { return v.Produit })
}

// TopClient is TopProduit grouped by client, same tie-break.
func TopClient(ventes []model.Vente) (nom string, ok bool) {
	return topParQuantite(ventes, func(v *model.Vente) string { return v.Client })
}

func topParQuantite(ventes []model.Vente, key func(*model.Vente) string) (string, bool) {
	if len(ventes) == 0 {
		return "", false
	}
	quantites := make(map[string]int)
	for i := range ventes {
		quantites[key(&ventes[i])] += ventes[i].Quantite
	}
	best := ""
	bestQ := -1
	for nom, q := range quantites {
		if q > bestQ || (q == bestQ && nom < best) {
			best, bestQ = nom, q
		}
	}
	return best, true
}

// CAParProduit groups revenue by product name, sorted by name for stable
// output.
func CAParProduit(ventes []model.Vente) []dto.GroupeMontant {
	return caPar(ventes, func(v *model.Vente) string { return v.Produit })
}

// CAParClient groups revenue by client name, sorted by name.
func CAParClient(ventes []model.Vente) []dto.GroupeMontant {
	return caPar(ventes, func(v *model.Vente) string { return v.Client })
}

func caPar(ventes []model.Vente, key func(*model.Vente) string) []dto.GroupeMontant {
	totaux := make(map[string]decimal.Decimal)
	for i := range ventes {
		k := key(&ventes[i])
		totaux[k] = totaux[k].Add(ventes[i].Total)
	}
	groupes := make([]dto.GroupeMontant, 0, len(totaux))
	for nom, total := range totaux {
		groupes = append(groupes, dto.GroupeMontant{Nom: nom, Total: total})
	}
	sort.Slice(groupes, func(i, j int) bool { return groupes[i].Nom < groupes[j].Nom })
	return groupes
}
