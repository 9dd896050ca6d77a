package service

import (
	"errors"
	"fmt"
)

// Domain errors surfaced to the HTTP layer. Handlers translate them to
// status codes; everything else falls through as a 500 via the middleware.
var (
	ErrProduitIntrouvable = errors.New("produit introuvable")
	ErrClientIntrouvable  = errors.New("client introuvable")
	ErrQuantiteInvalide   = errors.New("la quantité doit être un entier positif")
	ErrProduitExistant    = errors.New("un produit avec ce nom existe déjà")
	ErrClientExistant     = errors.New("un client avec ce nom existe déjà")
	// ErrAucuneVente is the explicit empty-ledger signal: callers must be
	// able to tell "nothing to show" apart from a computation error.
	ErrAucuneVente = errors.New("aucune vente enregistrée")
)

// StockInsuffisantError rejects an oversell in full — no partial
// fulfillment — and carries the available quantity so the caller can offer
// a corrected amount.
type StockInsuffisantError struct {
	Produit    string
	Disponible int
}

func (e *StockInsuffisantError) Error() string {
	return fmt.Sprintf("stock insuffisant pour %s : stock disponible %d", e.Produit, e.Disponible)
}

// IsStockInsuffisant unwraps the chain looking for a StockInsuffisantError.
func IsStockInsuffisant(err error) (*StockInsuffisantError, bool) {
	var se *StockInsuffisantError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
