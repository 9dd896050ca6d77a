package worker

// facture_worker.go
// Processes invoice jobs from QueueFacture: renders the PDF facture for a
// recorded sale and, when a customer email is known, chains an email job
// with the PDF attached. Rendering is retried with exponential backoff
// before giving up.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Nokho11/gestion-vente/internal/infra"
	"github.com/Nokho11/gestion-vente/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FactureJobPayload is the job envelope sent to QueueFacture.
type FactureJobPayload struct {
	VenteID     string  `json:"vente_id"`
	ClientEmail *string `json:"client_email,omitempty"`
}

// FactureWorker renders invoice PDFs for completed sales.
type FactureWorker struct {
	venteRepo      repository.VenteRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
}

func NewFactureWorker(venteRepo repository.VenteRepository, dispatcher *Dispatcher, pdfStoragePath string) *FactureWorker {
	return &FactureWorker{
		venteRepo:      venteRepo,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process handles a single facture job:
//  1. Parse FactureJobPayload from the job envelope
//  2. Fetch the Vente from DB
//  3. Render the PDF facture (with retry + backoff)
//  4. Optionally enqueue an email job with the PDF attached
func (w *FactureWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload FactureJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("facture_worker: invalid payload")
		return
	}

	venteID, err := uuid.Parse(payload.VenteID)
	if err != nil {
		log.Error().Str("vente_id", payload.VenteID).Msg("facture_worker: invalid vente_id")
		return
	}

	vente, err := w.venteRepo.FindByID(ctx, venteID)
	if err != nil {
		log.Error().Err(err).Str("vente_id", payload.VenteID).Msg("facture_worker: vente not found")
		return
	}

	var pdfPath string
	pdfErr := withRetry(ctx, 3, func(attempt int) error {
		path, err := infra.GenerateFacturePDF(vente, w.pdfStoragePath)
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("vente_id", payload.VenteID).
				Msg("facture_worker: PDF attempt failed, retrying")
			return err
		}
		pdfPath = path
		return nil
	})
	if pdfErr != nil {
		log.Error().Err(pdfErr).Str("vente_id", payload.VenteID).Msg("facture_worker: PDF failed after all retries")
		return
	}
	log.Info().Str("pdf", pdfPath).Str("vente_id", payload.VenteID).Msg("facture_worker: facture generated")

	if payload.ClientEmail != nil && *payload.ClientEmail != "" {
		emailJob := EmailJobPayload{
			ToEmail: *payload.ClientEmail,
			Subject: fmt.Sprintf("Facture NOSENIX N° %d", vente.NumeroTicket),
			Body: fmt.Sprintf("Bonjour %s,\n\nVeuillez trouver ci-jointe votre facture.\nTotal : %s FCFA",
				vente.Client, vente.Total.StringFixed(0)),
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("email", *payload.ClientEmail).Msg("facture_worker: failed to enqueue email")
		} else {
			log.Info().Str("email", *payload.ClientEmail).Msg("facture_worker: email job enqueued")
		}
	}
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
