package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/wargadigital/rukem/internal/model"
)

// WriteMembersPDF writes a compact member register as a landscape PDF.
func WriteMembersPDF(w io.Writer, members []model.Member) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Daftar Anggota RUKEM", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	cols := []struct {
		title string
		width float64
	}{
		{"No Anggota", 28},
		{"Kepala Keluarga", 60},
		{"NIK", 40},
		{"Alamat", 75},
		{"Telepon", 32},
		{"Tgl Daftar", 24},
		{"Status", 22},
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(221, 235, 247)
	for _, c := range cols {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for i := range members {
		m := &members[i]
		address := m.Address
		if m.RT != "" || m.RW != "" {
			address = fmt.Sprintf("%s RT %s/RW %s", m.Address, m.RT, m.RW)
		}
		values := []string{
			m.MemberNo, m.HeadOfFamily, m.NationalIDNo, address,
			m.Phone, m.RegisteredDate, memberStatusLabel(m),
		}
		for j, v := range values {
			pdf.CellFormat(cols[j].width, 6, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

// WriteMonthlyReportPDF writes a monthly cash report with per-month
// in/out totals and the current balance.
func WriteMonthlyReportPDF(w io.Writer, months []model.MonthlyCashflow, summary model.LedgerSummary) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Laporan Kas Bulanan RUKEM", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(221, 235, 247)
	pdf.CellFormat(40, 7, "Bulan", "1", 0, "C", true, 0, "")
	pdf.CellFormat(50, 7, "Pemasukan", "1", 0, "C", true, 0, "")
	pdf.CellFormat(50, 7, "Pengeluaran", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, m := range months {
		pdf.CellFormat(40, 6, m.Month, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, "Rp "+m.TotalIn.StringFixed(0), "1", 0, "R", false, 0, "")
		pdf.CellFormat(50, 6, "Rp "+m.TotalOut.StringFixed(0), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(60, 7, "Total Pemasukan", "", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, "Rp "+summary.TotalIn.StringFixed(0), "", 1, "L", false, 0, "")
	pdf.CellFormat(60, 7, "Total Pengeluaran", "", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, "Rp "+summary.TotalOut.StringFixed(0), "", 1, "L", false, 0, "")
	pdf.CellFormat(60, 7, "Saldo", "", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, "Rp "+summary.Balance.StringFixed(0), "", 1, "L", false, 0, "")

	return pdf.Output(w)
}
