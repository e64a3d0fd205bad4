package export

import (
	"fmt"
	"io"

	"github.com/wargadigital/rukem/internal/model"
	"github.com/xuri/excelize/v2"
)

// WriteMembersExcel writes the member register as an xlsx workbook.
func WriteMembersExcel(w io.Writer, members []model.Member) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Daftar Anggota"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range memberHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return fmt.Errorf("set header: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(memberHeader), 1)
		f.SetCellStyle(sheet, "A1", last, headerStyle)
	}

	for i := range members {
		row := memberRow(&members[i])
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set cell: %w", err)
			}
		}
	}

	return f.Write(w)
}

// WriteLedgerExcel writes ledger entries as an xlsx workbook with a
// closing balance row.
func WriteLedgerExcel(w io.Writer, entries []model.LedgerEntry, summary model.LedgerSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Kas"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range ledgerHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return fmt.Errorf("set header: %w", err)
		}
	}

	for i, e := range entries {
		amount, _ := e.Amount.Float64()
		values := []any{
			e.EntryDate, directionLabel(e.Direction), string(e.Category),
			e.Memo, amount, e.Source, e.CreatedBy,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set cell: %w", err)
			}
		}
	}

	balanceRow := len(entries) + 3
	balance, _ := summary.Balance.Float64()
	labelCell, _ := excelize.CoordinatesToCellName(4, balanceRow)
	valueCell, _ := excelize.CoordinatesToCellName(5, balanceRow)
	f.SetCellValue(sheet, labelCell, "Saldo")
	f.SetCellValue(sheet, valueCell, balance)

	return f.Write(w)
}
