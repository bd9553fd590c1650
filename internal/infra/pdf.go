package infra

// pdf.go — company metal statement generation using go-pdf/fpdf.
// Produces an A4 statement with:
//   - Company name header
//   - Current balance per metal
//   - Recent ledger entries (type, metal, signed grams, date)

import (
	"bytes"
	"fmt"

	"github.com/armencho53/JMSK-Backend/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateStatementPDF renders a metal statement for a company and returns
// the PDF bytes, ready to stream to the client.
func GenerateStatementPDF(company *model.Company, balances []model.CompanyMetalBalance, txns []model.MetalTransaction) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Metal Statement", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 7, company.Name, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Balances ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 7, "Current Balances", "", 1, "L", false, 0, "")

	colMetal := contentW * 0.5
	colGrams := contentW * 0.5

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colMetal, 6, "Metal", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colGrams, 6, "Balance (g)", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, b := range balances {
		name := b.MetalID.String()
		if b.Metal != nil {
			name = fmt.Sprintf("%s (%s)", b.Metal.Name, b.Metal.Code)
		}
		pdf.CellFormat(colMetal, 6, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(colGrams, 6, fmt.Sprintf("%.4f", b.BalanceGrams), "", 1, "R", false, 0, "")
	}
	if len(balances) == 0 {
		pdf.CellFormat(contentW, 6, "No balances on record", "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	// ── Recent transactions ──────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 7, "Recent Transactions", "", 1, "L", false, 0, "")

	colDate := contentW * 0.22
	colType := contentW * 0.22
	colTMetal := contentW * 0.31
	colQty := contentW * 0.25

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colDate, 6, "Date", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colType, 6, "Type", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colTMetal, 6, "Metal", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colQty, 6, "Grams", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, t := range txns {
		metal := "alloy"
		if t.Metal != nil {
			metal = t.Metal.Code
		}
		pdf.CellFormat(colDate, 6, t.CreatedAt.Format("02/01/2006 15:04"), "", 0, "L", false, 0, "")
		pdf.CellFormat(colType, 6, t.TransactionType, "", 0, "L", false, 0, "")
		pdf.CellFormat(colTMetal, 6, metal, "", 0, "L", false, 0, "")
		pdf.CellFormat(colQty, 6, fmt.Sprintf("%+.4f", t.QuantityGrams), "", 1, "R", false, 0, "")
	}
	if len(txns) == 0 {
		pdf.CellFormat(contentW, 6, "No transactions on record", "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render statement: %w", err)
	}
	return buf.Bytes(), nil
}
