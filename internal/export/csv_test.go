package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/wargadigital/rukem/internal/model"
)

func sampleMember() model.Member {
	return model.Member{
		MemberNo:       "A-001",
		FamilyCardNo:   "3201010101010001",
		NationalIDNo:   "3201010101010002",
		HeadOfFamily:   "Budi Santoso",
		BirthPlace:     "Bogor",
		BirthDate:      "1970-05-12",
		Gender:         "L",
		Religion:       "Islam",
		MaritalStatus:  "Kawin",
		Occupation:     "Petani",
		Education:      "SMA",
		Address:        "Jl. Mawar No. 3",
		RT:             "02",
		RW:             "05",
		Village:        "Sukamaju",
		District:       "Cibinong",
		City:           "Bogor",
		Province:       "Jawa Barat",
		PostalCode:     "16911",
		Phone:          "081234567890",
		RegisteredDate: "2020-01-15",
	}
}

func TestWriteMembersCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMembersCSV(&buf, []model.Member{sampleMember()}); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "No Anggota,") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "Budi Santoso") {
		t.Errorf("row missing member name: %s", lines[1])
	}
	if !strings.Contains(lines[1], "Aktif") {
		t.Errorf("expected active status label: %s", lines[1])
	}
}

func TestMemberStatusLabels(t *testing.T) {
	m := sampleMember()
	if got := memberStatusLabel(&m); got != "Aktif" {
		t.Errorf("label = %q, want Aktif", got)
	}
	m.Exited = true
	if got := memberStatusLabel(&m); got != "Keluar" {
		t.Errorf("label = %q, want Keluar", got)
	}
	m.Deceased = true
	if got := memberStatusLabel(&m); got != "Meninggal" {
		t.Errorf("label = %q, want Meninggal", got)
	}
}

func TestMembersCSVRoundTrip(t *testing.T) {
	want := sampleMember()

	var buf bytes.Buffer
	if err := WriteMembersCSV(&buf, []model.Member{want}); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	got, err := ReadMembersCSV(&buf)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 member, got %d", len(got))
	}
	if got[0].MemberNo != want.MemberNo {
		t.Errorf("member no = %q, want %q", got[0].MemberNo, want.MemberNo)
	}
	if got[0].HeadOfFamily != want.HeadOfFamily {
		t.Errorf("head of family = %q, want %q", got[0].HeadOfFamily, want.HeadOfFamily)
	}
	if got[0].RegisteredDate != want.RegisteredDate {
		t.Errorf("registered date = %q, want %q", got[0].RegisteredDate, want.RegisteredDate)
	}
}

func TestReadMembersCSVValidation(t *testing.T) {
	// Missing member number
	input := strings.Join(memberHeader, ",") + "\n" +
		",3201,3202,Budi,Bogor,1970-05-12,L,Islam,Kawin,Petani,SMA,Jl. Mawar,02,05,Sukamaju,Cibinong,Bogor,Jawa Barat,16911,0812,2020-01-15,Aktif\n"
	if _, err := ReadMembersCSV(strings.NewReader(input)); err == nil {
		t.Fatal("expected error for missing member number")
	}

	// Too few columns
	if _, err := ReadMembersCSV(strings.NewReader("a,b,c\n1,2,3\n")); err == nil {
		t.Fatal("expected error for short header")
	}
}

func TestWriteLedgerCSV(t *testing.T) {
	entries := []model.LedgerEntry{
		{
			Direction: model.DirectionIn,
			Category:  model.CategoryDues,
			EntryDate: "2025-03-01",
			Memo:      "Iuran bulanan",
			Amount:    decimal.NewFromInt(50000),
			Source:    "manual",
			CreatedBy: "Bendahara",
		},
		{
			Direction: model.DirectionOut,
			Category:  model.CategoryBenefitPayout,
			EntryDate: "2025-03-10",
			Memo:      "Pembayaran santunan - Alm. Budi Santoso",
			Amount:    decimal.NewFromInt(1500000),
			Source:    "santunan_approval",
			CreatedBy: "Ketua",
		},
	}

	var buf bytes.Buffer
	if err := WriteLedgerCSV(&buf, entries); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Masuk") || !strings.Contains(out, "Keluar") {
		t.Errorf("expected direction labels in output:\n%s", out)
	}
	if !strings.Contains(out, "1500000") {
		t.Errorf("expected payout amount in output:\n%s", out)
	}
}
