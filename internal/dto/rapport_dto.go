package dto

import "github.com/shopspring/decimal"

// GroupeMontant is one bar of the revenue-by-X charts, sorted by Nom so the
// JSON output is stable between calls.
type GroupeMontant struct {
	Nom   string          `json:"nom"`
	Total decimal.Decimal `json:"total"`
}

// TableauDeBordResponse mirrors the dashboard block of the sales page:
// global revenue, best product / client by summed quantity, and the two
// grouped-revenue series used for chart rendering.
type TableauDeBordResponse struct {
	ChiffreAffaires decimal.Decimal `json:"chiffre_affaires"`
	BeneficeTotal   decimal.Decimal `json:"benefice_total"`
	NombreVentes    int             `json:"nombre_ventes"`
	TopProduit      string          `json:"top_produit"`
	TopClient       string          `json:"top_client"`
	CAParProduit    []GroupeMontant `json:"ca_par_produit"`
	CAParClient     []GroupeMontant `json:"ca_par_client"`
}
