package infra

// pdf.go — Facture PDF generation using go-pdf/fpdf.
// A5 portrait invoice with:
//   - NOSENIX header
//   - Facture number and timestamp
//   - Client name
//   - Single line-item table (product, quantity, unit price, total)
//   - Bold total in FCFA
//
// The output file is saved to storagePath/facture_{numero}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Nokho11/gestion-vente/internal/model"

	"github.com/go-pdf/fpdf"
)

// tronquer shortens s to max runes, appending an ellipsis. Rune-based so
// accented product names are never cut mid-sequence.
func tronquer(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// GenerateFacturePDF renders the invoice for a recorded Vente.
// storagePath is the directory where the PDF will be written (created if
// needed). Returns the absolute path to the generated file.
func GenerateFacturePDF(vente *model.Vente, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("facture_%d.pdf", vente.NumeroTicket)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentW, 10, "NOSENIX", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Gestion des Ventes", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Facture info ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("FACTURE N° %d", vente.NumeroTicket), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, vente.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, "Client : "+vente.Client, "", 1, "L", false, 0, "")
	pdf.Ln(3)

	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(3)

	// ── Line item ────────────────────────────────────────────────────────────
	col1 := contentW * 0.40 // product name
	col2 := contentW * 0.15 // qty
	col3 := contentW * 0.22 // unit price
	col4 := contentW * 0.23 // total

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "Produit", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Qté", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 6, "P.U.", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 6, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	nom := tronquer(vente.Produit, 28)
	pdf.CellFormat(col1, 6, nom, "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, fmt.Sprintf("x%d", vente.Quantite), "", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 6, vente.PrixUnitaire.StringFixed(0), "", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 6, vente.Total.StringFixed(0), "", 1, "R", false, 0, "")

	pdf.Ln(3)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(3)

	// ── Total ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(col1+col2, 8, "TOTAL :", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3+col4, 8, vente.Total.StringFixed(0)+" FCFA", "", 1, "R", false, 0, "")

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(contentW, 5, "Merci de votre confiance !", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
