package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wargadigital/rukem/internal/model"
)

type LedgerStore struct {
	db *sql.DB
}

func NewLedgerStore(db *sql.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

const ledgerCols = `id, direction, category, entry_date, memo, amount, balance_snapshot, source, created_by, created_at`

func scanLedgerEntry(scanner interface{ Scan(...any) error }) (*model.LedgerEntry, error) {
	var e model.LedgerEntry
	var amount string
	var snapshot sql.NullString
	err := scanner.Scan(
		&e.ID, &e.Direction, &e.Category, &e.EntryDate, &e.Memo, &amount,
		&snapshot, &e.Source, &e.CreatedBy, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if snapshot.Valid {
		d, err := decimal.NewFromString(snapshot.String)
		if err != nil {
			return nil, fmt.Errorf("parse balance snapshot %q: %w", snapshot.String, err)
		}
		e.BalanceSnapshot = &d
	}
	return &e, nil
}

// Append inserts one ledger entry. The ledger is append-only; there are no
// update or delete operations.
func (s *LedgerStore) Append(e *model.LedgerEntry) (*model.LedgerEntry, error) {
	var snapshot any
	if e.BalanceSnapshot != nil {
		snapshot = e.BalanceSnapshot.String()
	}
	result, err := s.db.Exec(
		`INSERT INTO ledger_entries (direction, category, entry_date, memo, amount, balance_snapshot, source, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Direction, e.Category, e.EntryDate, e.Memo, e.Amount.String(), snapshot, e.Source, e.CreatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert ledger entry: %w", translateConstraint(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *LedgerStore) GetByID(id int64) (*model.LedgerEntry, error) {
	row := s.db.QueryRow(`SELECT `+ledgerCols+` FROM ledger_entries WHERE id = ?`, id)
	e, err := scanLedgerEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	return e, nil
}

func (s *LedgerStore) List() ([]model.LedgerEntry, error) {
	rows, err := s.db.Query(`SELECT ` + ledgerCols + ` FROM ledger_entries ORDER BY entry_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []model.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Summary computes in/out totals and the balance. The balance is always
// sum(in) minus sum(out); snapshot columns are never consulted.
func (s *LedgerStore) Summary() (*model.LedgerSummary, error) {
	rows, err := s.db.Query(`SELECT direction, amount FROM ledger_entries`)
	if err != nil {
		return nil, fmt.Errorf("query ledger amounts: %w", err)
	}
	defer rows.Close()

	summary := &model.LedgerSummary{TotalIn: decimal.Zero, TotalOut: decimal.Zero}
	for rows.Next() {
		var direction model.Direction
		var amount string
		if err := rows.Scan(&direction, &amount); err != nil {
			return nil, fmt.Errorf("scan ledger amount: %w", err)
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", amount, err)
		}
		if direction == model.DirectionIn {
			summary.TotalIn = summary.TotalIn.Add(d)
		} else {
			summary.TotalOut = summary.TotalOut.Add(d)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	summary.Balance = summary.TotalIn.Sub(summary.TotalOut)
	return summary, nil
}

// Monthly groups entries by calendar month over the trailing window, for
// the dashboard chart.
func (s *LedgerStore) Monthly(months int) ([]model.MonthlyCashflow, error) {
	since := time.Now().AddDate(0, -months, 0).Format("2006-01-02")
	rows, err := s.db.Query(
		`SELECT strftime('%Y-%m', entry_date) AS month, direction, amount
		FROM ledger_entries
		WHERE entry_date >= ?
		ORDER BY month`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("query monthly ledger: %w", err)
	}
	defer rows.Close()

	var result []model.MonthlyCashflow
	byMonth := make(map[string]int)
	for rows.Next() {
		var month string
		var direction model.Direction
		var amount string
		if err := rows.Scan(&month, &direction, &amount); err != nil {
			return nil, fmt.Errorf("scan monthly row: %w", err)
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", amount, err)
		}

		idx, ok := byMonth[month]
		if !ok {
			idx = len(result)
			byMonth[month] = idx
			result = append(result, model.MonthlyCashflow{
				Month:    month,
				TotalIn:  decimal.Zero,
				TotalOut: decimal.Zero,
			})
		}
		if direction == model.DirectionIn {
			result[idx].TotalIn = result[idx].TotalIn.Add(d)
		} else {
			result[idx].TotalOut = result[idx].TotalOut.Add(d)
		}
	}
	return result, rows.Err()
}

// CountByCategory counts entries in a category.
func (s *LedgerStore) CountByCategory(category model.LedgerCategory) (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM ledger_entries WHERE category = ?`, category,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count ledger entries: %w", err)
	}
	return n, nil
}
