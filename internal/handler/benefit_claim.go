package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/wargadigital/rukem/internal/auth"
	"github.com/wargadigital/rukem/internal/model"
	"github.com/wargadigital/rukem/internal/push"
	"github.com/wargadigital/rukem/internal/store"
	"github.com/wargadigital/rukem/internal/websocket"
)

type BenefitClaimHandler struct {
	claimStore *store.BenefitClaimStore
	hub        *websocket.Hub
	notifier   *push.Notifier
	logger     *slog.Logger
}

func NewBenefitClaimHandler(cs *store.BenefitClaimStore, hub *websocket.Hub, notifier *push.Notifier, logger *slog.Logger) *BenefitClaimHandler {
	return &BenefitClaimHandler{claimStore: cs, hub: hub, notifier: notifier, logger: logger}
}

func (h *BenefitClaimHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type claimRequest struct {
	DeathRecordID int64  `json:"death_record_id"`
	Amount        string `json:"amount"`
}

func (h *BenefitClaimHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.DeathRecordID == 0 {
		writeError(w, http.StatusBadRequest, "death_record_id is required")
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	if amount.IsNegative() {
		writeError(w, http.StatusBadRequest, "amount must not be negative")
		return
	}

	claim, err := h.claimStore.Create(req.DeathRecordID, amount)
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to create claim")
		return
	}

	h.broadcast(websocket.NewMessage("benefit_claims", "created", claim.ID, nil))

	writeJSON(w, http.StatusCreated, claim)
}

func (h *BenefitClaimHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, err := h.claimStore.List()
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to list claims")
		return
	}
	if claims == nil {
		claims = []model.BenefitClaim{}
	}
	writeJSON(w, http.StatusOK, claims)
}

func (h *BenefitClaimHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	claim, err := h.claimStore.GetByID(id)
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to get claim")
		return
	}
	if claim == nil {
		writeError(w, http.StatusNotFound, "claim not found")
		return
	}
	writeJSON(w, http.StatusOK, claim)
}

// Approve settles a pending claim. The store appends the payout to the
// ledger in the same transaction, so a success here means both records
// exist.
func (h *BenefitClaimHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	claim, err := h.claimStore.Approve(id, auth.Identity(r.Context()))
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to approve claim")
		return
	}

	h.broadcast(websocket.NewMessage("benefit_claims", "approved", id, nil))
	h.broadcast(websocket.NewMessage("ledger_entries", "created", 0, nil))
	if h.notifier != nil {
		go h.notifier.ClaimApproved(claim.MemberName, claim.Amount)
	}

	writeJSON(w, http.StatusOK, claim)
}
