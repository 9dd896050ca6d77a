package worker

// alerte_stock.go
// Background goroutine that periodically scans the catalogue for products
// whose stock fell at or below their minimum threshold and emails a digest
// to the configured address. Respects the context for graceful shutdown.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Nokho11/gestion-vente/internal/repository"

	"github.com/rs/zerolog/log"
)

const alerteTickInterval = 15 * time.Minute

// AlerteStockConfig holds all dependencies for the low-stock goroutine.
type AlerteStockConfig struct {
	ProduitRepo repository.ProduitRepository
	Dispatcher  *Dispatcher
	// AlerteEmail receives the digest; empty disables sending (scans still log).
	AlerteEmail string
}

// StartAlerteStockCron launches a background goroutine that ticks every 15
// minutes and reports products at or below their stock minimum.
func StartAlerteStockCron(ctx context.Context, cfg AlerteStockConfig) {
	go func() {
		ticker := time.NewTicker(alerteTickInterval)
		defer ticker.Stop()

		log.Info().Msg("alerte_stock: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("alerte_stock: shutting down")
				return
			case <-ticker.C:
				scanStockFaible(ctx, cfg)
			}
		}
	}()
}

func scanStockFaible(ctx context.Context, cfg AlerteStockConfig) {
	produits, err := cfg.ProduitRepo.ListStockFaible(ctx)
	if err != nil {
		log.Error().Err(err).Msg("alerte_stock: failed to query low-stock products")
		return
	}
	if len(produits) == 0 {
		return
	}

	var lines []string
	for i := range produits {
		p := &produits[i]
		log.Warn().
			Str("produit", p.Nom).
			Int("stock", p.Stock).
			Int("stock_minimum", p.StockMinimum).
			Msg("alerte_stock: stock faible")
		lines = append(lines, fmt.Sprintf("- %s : %d restant(s) (seuil %d)", p.Nom, p.Stock, p.StockMinimum))
	}

	if cfg.AlerteEmail == "" || cfg.Dispatcher == nil {
		return
	}

	body := fmt.Sprintf(
		"Bonjour,\n\nLes produits suivants sont en rupture ou proches du seuil minimum :\n\n%s\n\nMerci de réapprovisionner.\n\n— NOSENIX",
		strings.Join(lines, "\n"))

	payload := EmailJobPayload{
		ToEmail: cfg.AlerteEmail,
		Subject: fmt.Sprintf("Alerte stock NOSENIX — %d produit(s) sous le seuil", len(produits)),
		Body:    body,
	}
	if err := cfg.Dispatcher.EnqueueEmail(ctx, payload); err != nil {
		log.Error().Err(err).Msg("alerte_stock: failed to enqueue digest email")
	}
}
