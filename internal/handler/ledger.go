package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/wargadigital/rukem/internal/auth"
	"github.com/wargadigital/rukem/internal/model"
	"github.com/wargadigital/rukem/internal/store"
	"github.com/wargadigital/rukem/internal/websocket"
)

type LedgerHandler struct {
	ledgerStore *store.LedgerStore
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewLedgerHandler(ls *store.LedgerStore, hub *websocket.Hub, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{ledgerStore: ls, hub: hub, logger: logger}
}

func (h *LedgerHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type ledgerRequest struct {
	Direction model.Direction      `json:"direction"`
	Category  model.LedgerCategory `json:"category"`
	EntryDate string               `json:"entry_date"`
	Memo      string               `json:"memo"`
	Amount    string               `json:"amount"`
}

// Create appends a manual entry. Payout entries from claim approvals do
// not pass through here; the claim store writes those itself.
func (h *LedgerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ledgerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	switch req.Direction {
	case model.DirectionIn, model.DirectionOut:
	default:
		writeError(w, http.StatusBadRequest, "direction must be in or out")
		return
	}
	switch req.Category {
	case model.CategoryDues, model.CategoryDonation, model.CategoryBenefitPayout,
		model.CategoryOperational, model.CategoryOther:
	default:
		writeError(w, http.StatusBadRequest, "invalid category")
		return
	}
	req.EntryDate = strings.TrimSpace(req.EntryDate)
	if req.EntryDate == "" {
		writeError(w, http.StatusBadRequest, "entry_date is required")
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	if !amount.IsPositive() {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	entry, err := h.ledgerStore.Append(&model.LedgerEntry{
		Direction: req.Direction,
		Category:  req.Category,
		EntryDate: req.EntryDate,
		Memo:      req.Memo,
		Amount:    amount,
		Source:    "manual",
		CreatedBy: auth.Identity(r.Context()),
	})
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to create ledger entry")
		return
	}

	h.broadcast(websocket.NewMessage("ledger_entries", "created", entry.ID, nil))

	writeJSON(w, http.StatusCreated, entry)
}

func (h *LedgerHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ledgerStore.List()
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to list ledger entries")
		return
	}
	if entries == nil {
		entries = []model.LedgerEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *LedgerHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.ledgerStore.Summary()
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to summarize ledger")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Monthly returns per-month in/out totals, default 12 months back.
func (h *LedgerHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	months := 12
	if v := r.URL.Query().Get("months"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 60 {
			writeError(w, http.StatusBadRequest, "months must be between 1 and 60")
			return
		}
		months = n
	}

	cashflow, err := h.ledgerStore.Monthly(months)
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to compute monthly cashflow")
		return
	}
	if cashflow == nil {
		cashflow = []model.MonthlyCashflow{}
	}
	writeJSON(w, http.StatusOK, cashflow)
}
