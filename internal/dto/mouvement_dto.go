package dto

// MouvementStockResponse is returned by GET /v1/stock/mouvements.
type MouvementStockResponse struct {
	ID          string  `json:"id"`
	ProduitID   string  `json:"produit_id"`
	Produit     string  `json:"produit,omitempty"`
	Type        string  `json:"type"`
	Quantite    int     `json:"quantite"`
	StockAvant  int     `json:"stock_avant"`
	StockApres  int     `json:"stock_apres"`
	Motif       string  `json:"motif,omitempty"`
	ReferenceID *string `json:"reference_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// AlerteStockResponse flags a product at or below its minimum stock.
type AlerteStockResponse struct {
	ProduitID    string `json:"produit_id"`
	Nom          string `json:"nom"`
	Stock        int    `json:"stock"`
	StockMinimum int    `json:"stock_minimum"`
}
