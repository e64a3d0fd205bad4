package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/wargadigital/rukem/internal/auth"
	"github.com/wargadigital/rukem/internal/model"
	"github.com/wargadigital/rukem/internal/push"
	"github.com/wargadigital/rukem/internal/store"
	"github.com/wargadigital/rukem/internal/websocket"
)

type DeathRecordHandler struct {
	deathStore *store.DeathRecordStore
	hub        *websocket.Hub
	notifier   *push.Notifier
	logger     *slog.Logger
}

func NewDeathRecordHandler(ds *store.DeathRecordStore, hub *websocket.Hub, notifier *push.Notifier, logger *slog.Logger) *DeathRecordHandler {
	return &DeathRecordHandler{deathStore: ds, hub: hub, notifier: notifier, logger: logger}
}

func (h *DeathRecordHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type deathRecordRequest struct {
	MemberID      int64  `json:"member_id"`
	DateOfDeath   string `json:"date_of_death"`
	TimeOfDeath   string `json:"time_of_death"`
	PlaceOfDeath  string `json:"place_of_death"`
	Reporter      string `json:"reporter"`
	CertificateNo string `json:"certificate_no"`
	Note          string `json:"note"`
}

func (h *DeathRecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req deathRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.MemberID == 0 {
		writeError(w, http.StatusBadRequest, "member_id is required")
		return
	}
	req.DateOfDeath = strings.TrimSpace(req.DateOfDeath)
	if req.DateOfDeath == "" {
		writeError(w, http.StatusBadRequest, "date_of_death is required")
		return
	}

	record, err := h.deathStore.Create(&model.DeathRecord{
		MemberID:      req.MemberID,
		DateOfDeath:   req.DateOfDeath,
		TimeOfDeath:   req.TimeOfDeath,
		PlaceOfDeath:  req.PlaceOfDeath,
		Reporter:      req.Reporter,
		CertificateNo: req.CertificateNo,
		Note:          req.Note,
	})
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to create death record")
		return
	}

	h.broadcast(websocket.NewMessage("death_records", "created", record.ID, nil))
	if h.notifier != nil {
		go h.notifier.DeathRecorded(record.MemberName, record.DateOfDeath)
	}

	writeJSON(w, http.StatusCreated, record)
}

func (h *DeathRecordHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.deathStore.List()
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to list death records")
		return
	}
	if records == nil {
		records = []model.DeathRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// ListUnclaimed serves the picker for opening a claim: death records with
// no claim yet.
func (h *DeathRecordHandler) ListUnclaimed(w http.ResponseWriter, r *http.Request) {
	records, err := h.deathStore.ListWithoutClaim()
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to list unclaimed death records")
		return
	}
	if records == nil {
		records = []model.DeathRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *DeathRecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	record, err := h.deathStore.GetByID(id)
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to get death record")
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "death record not found")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// Verify stamps the record as reviewed by the current user. The transition
// is one-way.
func (h *DeathRecordHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	record, err := h.deathStore.Verify(id, auth.Identity(r.Context()))
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to verify death record")
		return
	}

	h.broadcast(websocket.NewMessage("death_records", "verified", id, nil))

	writeJSON(w, http.StatusOK, record)
}
