// Package reports renders investment exports.
package reports

import (
	"fmt"
	"io"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	"github.com/xuri/excelize/v2"
)

const ledgerSheet = "Investments"

var ledgerColumns = []string{
	"Investment ID", "Created", "Investor", "Project", "Amount", "Status",
	"Expected Return %", "Actual Return", "Payment Reference",
}

// WriteInvestmentLedger writes investments as an XLSX workbook to w
func WriteInvestmentLedger(w io.Writer, investments []*entities.Investment, currency string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ledgerSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"2E7D32"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	moneyFormat := "#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFormat})
	if err != nil {
		return fmt.Errorf("money style: %w", err)
	}

	for i, col := range ledgerColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(ledgerSheet, cell, col); err != nil {
			return err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(ledgerColumns), 1)
	if err := f.SetCellStyle(ledgerSheet, "A1", lastHeader, headerStyle); err != nil {
		return err
	}

	for i, inv := range investments {
		row := i + 2
		actual := ""
		if inv.ActualReturn.Valid {
			actual = inv.ActualReturn.Decimal.StringFixed(2)
		}
		values := []interface{}{
			inv.ID.String(),
			inv.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			inv.InvestorName,
			inv.ProjectTitle,
			inv.Amount.InexactFloat64(),
			string(inv.Status),
			inv.ExpectedReturn.InexactFloat64(),
			actual,
			inv.PaymentReference.String,
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(ledgerSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		amountCell, _ := excelize.CoordinatesToCellName(5, row)
		if err := f.SetCellStyle(ledgerSheet, amountCell, amountCell, moneyStyle); err != nil {
			return err
		}
	}

	totalRow := len(investments) + 3
	labelCell, _ := excelize.CoordinatesToCellName(4, totalRow)
	totalCell, _ := excelize.CoordinatesToCellName(5, totalRow)
	if err := f.SetCellValue(ledgerSheet, labelCell, "Total ("+currency+")"); err != nil {
		return err
	}
	if len(investments) > 0 {
		formula := fmt.Sprintf("SUM(E2:E%d)", len(investments)+1)
		if err := f.SetCellFormula(ledgerSheet, totalCell, formula); err != nil {
			return err
		}
	} else if err := f.SetCellValue(ledgerSheet, totalCell, 0); err != nil {
		return err
	}
	if err := f.SetCellStyle(ledgerSheet, totalCell, totalCell, moneyStyle); err != nil {
		return err
	}

	if err := f.SetPanes(ledgerSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}
	_ = f.SetColWidth(ledgerSheet, "A", "A", 38)
	_ = f.SetColWidth(ledgerSheet, "B", "D", 24)
	_ = f.SetColWidth(ledgerSheet, "E", "I", 18)

	return f.Write(w)
}
