package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wargadigital/rukem/internal/model"
	"github.com/wargadigital/rukem/internal/store"
)

type DashboardHandler struct {
	memberStore *store.MemberStore
	deathStore  *store.DeathRecordStore
	claimStore  *store.BenefitClaimStore
	ledgerStore *store.LedgerStore
	logger      *slog.Logger
}

func NewDashboardHandler(ms *store.MemberStore, ds *store.DeathRecordStore, cs *store.BenefitClaimStore, ls *store.LedgerStore, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		memberStore: ms,
		deathStore:  ds,
		claimStore:  cs,
		ledgerStore: ls,
		logger:      logger,
	}
}

type dashboardResponse struct {
	ActiveMembers   int                     `json:"active_members"`
	RecordedDeaths  int                     `json:"recorded_deaths"`
	Balance         decimal.Decimal         `json:"balance"`
	TotalIn         decimal.Decimal         `json:"total_in"`
	TotalOut        decimal.Decimal         `json:"total_out"`
	PayoutsThisYear decimal.Decimal         `json:"payouts_this_year"`
	MonthlyCashflow []model.MonthlyCashflow `json:"monthly_cashflow"`
}

// Summary aggregates the landing-page numbers: headcount, deaths, cash
// position, and payouts approved this year.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	activeMembers, err := h.memberStore.CountActive()
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to build dashboard")
		return
	}

	deaths, err := h.deathStore.Count()
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to build dashboard")
		return
	}

	summary, err := h.ledgerStore.Summary()
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to build dashboard")
		return
	}

	payouts, err := h.claimStore.TotalApprovedInYear(time.Now().Year())
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to build dashboard")
		return
	}

	monthly, err := h.ledgerStore.Monthly(12)
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to build dashboard")
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		ActiveMembers:   activeMembers,
		RecordedDeaths:  deaths,
		Balance:         summary.Balance,
		TotalIn:         summary.TotalIn,
		TotalOut:        summary.TotalOut,
		PayoutsThisYear: payouts,
		MonthlyCashflow: monthly,
	})
}
