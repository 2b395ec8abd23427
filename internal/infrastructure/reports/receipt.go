package reports

import (
	"fmt"
	"io"
	"time"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	"github.com/jung-kurt/gofpdf"
)

// WriteInvestmentReceipt renders a one-page PDF receipt for inv
func WriteInvestmentReceipt(w io.Writer, inv *entities.Investment, currency string, issuedAt time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetTitle("Investment Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.SetTextColor(46, 125, 50)
	pdf.CellFormat(0, 12, "Investment Receipt", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 6, "Issued "+issuedAt.UTC().Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	reference := inv.PaymentReference.String
	if reference == "" {
		reference = "-"
	}
	rows := [][2]string{
		{"Receipt number", inv.ID.String()},
		{"Investor", inv.InvestorName},
		{"Project", inv.ProjectTitle},
		{"Amount", fmt.Sprintf("%s %s", currency, inv.Amount.StringFixed(2))},
		{"Expected return", inv.ExpectedReturn.StringFixed(2) + "%"},
		{"Status", string(inv.Status)},
		{"Payment reference", reference},
		{"Invested on", inv.CreatedAt.UTC().Format("2006-01-02")},
	}

	pdf.SetTextColor(0, 0, 0)
	for i, r := range rows {
		fill := i%2 == 0
		pdf.SetFillColor(242, 242, 242)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(55, 8, r[0], "", 0, "L", fill, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 8, r[1], "", 1, "L", fill, 0, "")
	}

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(100, 100, 100)
	pdf.MultiCell(0, 4, "Agricultural investments carry risk. Returns are projections declared by the farmer and are not guaranteed.", "", "L", false)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render receipt: %w", err)
	}
	return nil
}
