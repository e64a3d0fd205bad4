// Package export renders the member register and cash ledger as CSV,
// Excel, and PDF documents for download and offline archiving.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/wargadigital/rukem/internal/model"
)

var memberHeader = []string{
	"No Anggota", "No KK", "NIK", "Kepala Keluarga", "Tempat Lahir", "Tanggal Lahir",
	"Jenis Kelamin", "Agama", "Status Perkawinan", "Pekerjaan", "Pendidikan",
	"Alamat", "RT", "RW", "Kelurahan", "Kecamatan", "Kota", "Provinsi", "Kode Pos",
	"Telepon", "Tanggal Daftar", "Status",
}

var ledgerHeader = []string{
	"Tanggal", "Arah", "Kategori", "Keterangan", "Jumlah", "Sumber", "Dicatat Oleh",
}

func memberStatusLabel(m *model.Member) string {
	switch {
	case m.Deceased:
		return "Meninggal"
	case m.Exited:
		return "Keluar"
	default:
		return "Aktif"
	}
}

func memberRow(m *model.Member) []string {
	return []string{
		m.MemberNo, m.FamilyCardNo, m.NationalIDNo, m.HeadOfFamily, m.BirthPlace,
		m.BirthDate, m.Gender, m.Religion, m.MaritalStatus, m.Occupation, m.Education,
		m.Address, m.RT, m.RW, m.Village, m.District, m.City, m.Province, m.PostalCode,
		m.Phone, m.RegisteredDate, memberStatusLabel(m),
	}
}

func directionLabel(d model.Direction) string {
	if d == model.DirectionIn {
		return "Masuk"
	}
	return "Keluar"
}

// WriteMembersCSV writes the member register as CSV.
func WriteMembersCSV(w io.Writer, members []model.Member) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(memberHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range members {
		if err := cw.Write(memberRow(&members[i])); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteLedgerCSV writes ledger entries as CSV.
func WriteLedgerCSV(w io.Writer, entries []model.LedgerEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ledgerHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range entries {
		row := []string{
			e.EntryDate, directionLabel(e.Direction), string(e.Category),
			e.Memo, e.Amount.String(), e.Source, e.CreatedBy,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
