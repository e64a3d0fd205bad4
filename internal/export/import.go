package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/wargadigital/rukem/internal/model"
)

// ReadMembersCSV parses a member register CSV in the same column layout
// produced by WriteMembersCSV. The header row is required. The trailing
// status column is optional and ignored when present.
func ReadMembersCSV(r io.Reader) ([]model.Member, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < len(memberHeader)-1 {
		return nil, fmt.Errorf("expected at least %d columns, got %d", len(memberHeader)-1, len(header))
	}

	var members []model.Member
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		line++

		if len(row) < len(memberHeader)-1 {
			return nil, fmt.Errorf("row %d: expected at least %d columns, got %d", line, len(memberHeader)-1, len(row))
		}

		m := model.Member{
			MemberNo:       strings.TrimSpace(row[0]),
			FamilyCardNo:   strings.TrimSpace(row[1]),
			NationalIDNo:   strings.TrimSpace(row[2]),
			HeadOfFamily:   strings.TrimSpace(row[3]),
			BirthPlace:     strings.TrimSpace(row[4]),
			BirthDate:      strings.TrimSpace(row[5]),
			Gender:         strings.TrimSpace(row[6]),
			Religion:       strings.TrimSpace(row[7]),
			MaritalStatus:  strings.TrimSpace(row[8]),
			Occupation:     strings.TrimSpace(row[9]),
			Education:      strings.TrimSpace(row[10]),
			Address:        strings.TrimSpace(row[11]),
			RT:             strings.TrimSpace(row[12]),
			RW:             strings.TrimSpace(row[13]),
			Village:        strings.TrimSpace(row[14]),
			District:       strings.TrimSpace(row[15]),
			City:           strings.TrimSpace(row[16]),
			Province:       strings.TrimSpace(row[17]),
			PostalCode:     strings.TrimSpace(row[18]),
			Phone:          strings.TrimSpace(row[19]),
			RegisteredDate: strings.TrimSpace(row[20]),
		}

		if m.MemberNo == "" {
			return nil, fmt.Errorf("row %d: member number is required", line)
		}
		if m.HeadOfFamily == "" {
			return nil, fmt.Errorf("row %d: head of family is required", line)
		}

		members = append(members, m)
	}

	return members, nil
}
