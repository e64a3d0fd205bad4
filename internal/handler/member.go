package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/wargadigital/rukem/internal/export"
	"github.com/wargadigital/rukem/internal/model"
	"github.com/wargadigital/rukem/internal/store"
	"github.com/wargadigital/rukem/internal/websocket"
)

type MemberHandler struct {
	memberStore *store.MemberStore
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewMemberHandler(ms *store.MemberStore, hub *websocket.Hub, logger *slog.Logger) *MemberHandler {
	return &MemberHandler{memberStore: ms, hub: hub, logger: logger}
}

func (h *MemberHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type memberRequest struct {
	MemberNo       string `json:"member_no"`
	FamilyCardNo   string `json:"family_card_no"`
	NationalIDNo   string `json:"national_id_no"`
	HeadOfFamily   string `json:"head_of_family"`
	BirthPlace     string `json:"birth_place"`
	BirthDate      string `json:"birth_date"`
	Gender         string `json:"gender"`
	Religion       string `json:"religion"`
	MaritalStatus  string `json:"marital_status"`
	Occupation     string `json:"occupation"`
	Education      string `json:"education"`
	Address        string `json:"address"`
	RT             string `json:"rt"`
	RW             string `json:"rw"`
	Village        string `json:"village"`
	District       string `json:"district"`
	City           string `json:"city"`
	Province       string `json:"province"`
	PostalCode     string `json:"postal_code"`
	Phone          string `json:"phone"`
	RegisteredDate string `json:"registered_date"`
	Exited         bool   `json:"exited"`
}

func (r *memberRequest) toModel() *model.Member {
	return &model.Member{
		MemberNo:       strings.TrimSpace(r.MemberNo),
		FamilyCardNo:   strings.TrimSpace(r.FamilyCardNo),
		NationalIDNo:   strings.TrimSpace(r.NationalIDNo),
		HeadOfFamily:   strings.TrimSpace(r.HeadOfFamily),
		BirthPlace:     r.BirthPlace,
		BirthDate:      r.BirthDate,
		Gender:         r.Gender,
		Religion:       r.Religion,
		MaritalStatus:  r.MaritalStatus,
		Occupation:     r.Occupation,
		Education:      r.Education,
		Address:        r.Address,
		RT:             r.RT,
		RW:             r.RW,
		Village:        r.Village,
		District:       r.District,
		City:           r.City,
		Province:       r.Province,
		PostalCode:     r.PostalCode,
		Phone:          r.Phone,
		RegisteredDate: r.RegisteredDate,
		Exited:         r.Exited,
	}
}

func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	m := req.toModel()
	if m.MemberNo == "" {
		writeError(w, http.StatusBadRequest, "member number is required")
		return
	}
	if m.HeadOfFamily == "" {
		writeError(w, http.StatusBadRequest, "head of family is required")
		return
	}

	created, err := h.memberStore.Create(m)
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to create member")
		return
	}

	h.broadcast(websocket.NewMessage("members", "created", created.ID, nil))

	writeJSON(w, http.StatusCreated, created)
}

func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.memberStore.List()
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to list members")
		return
	}
	if members == nil {
		members = []model.Member{}
	}
	writeJSON(w, http.StatusOK, members)
}

// ListActive serves the picker for death reports: members who have not
// exited and have no death record.
func (h *MemberHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	members, err := h.memberStore.ListActive()
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to list active members")
		return
	}
	if members == nil {
		members = []model.Member{}
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	member, err := h.memberStore.GetByID(id)
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to get member")
		return
	}
	if member == nil {
		writeError(w, http.StatusNotFound, "member not found")
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.memberStore.GetByID(id)
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to get member")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "member not found")
		return
	}

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	m := req.toModel()
	if m.MemberNo == "" {
		writeError(w, http.StatusBadRequest, "member number is required")
		return
	}
	if m.HeadOfFamily == "" {
		writeError(w, http.StatusBadRequest, "head of family is required")
		return
	}

	updated, err := h.memberStore.Update(id, m)
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to update member")
		return
	}

	h.broadcast(websocket.NewMessage("members", "updated", id, nil))

	writeJSON(w, http.StatusOK, updated)
}

func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.memberStore.Delete(id); err != nil {
		writeStoreError(w, h.logger, err, "failed to delete member")
		return
	}

	h.broadcast(websocket.NewMessage("members", "deleted", id, nil))

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *MemberHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	status, err := h.memberStore.GetStatus(id)
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to get membership status")
		return
	}
	if status == nil {
		writeError(w, http.StatusNotFound, "membership status not found")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

type statusRequest struct {
	Registered   bool                  `json:"registered"`
	Status       model.MembershipState `json:"status"`
	DuesType     model.DuesType        `json:"dues_type"`
	DuesStanding model.DuesStanding    `json:"dues_standing"`
	StartDate    string                `json:"start_date"`
}

func (h *MemberHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	switch req.Status {
	case model.MembershipActive, model.MembershipExited:
	default:
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}
	switch req.DuesType {
	case model.DuesMonthly, model.DuesPerIncident:
	default:
		writeError(w, http.StatusBadRequest, "invalid dues type")
		return
	}
	switch req.DuesStanding {
	case model.DuesCurrent, model.DuesDelinquent:
	default:
		writeError(w, http.StatusBadRequest, "invalid dues standing")
		return
	}

	status, err := h.memberStore.UpdateStatus(id, req.Registered, req.Status, req.DuesType, req.DuesStanding, req.StartDate)
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to update membership status")
		return
	}

	h.broadcast(websocket.NewMessage("membership_statuses", "updated", id, nil))

	writeJSON(w, http.StatusOK, status)
}

// ImportCSV bulk-creates members from an uploaded register CSV. Rows are
// inserted one at a time; the response reports how many rows landed and
// which failed.
func (h *MemberHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)

	members, err := export.ReadMembersCSV(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	imported := 0
	var failures []string
	for i := range members {
		if _, err := h.memberStore.Create(&members[i]); err != nil {
			failures = append(failures, members[i].MemberNo)
			continue
		}
		imported++
	}

	if imported > 0 {
		h.broadcast(websocket.NewMessage("members", "imported", 0, map[string]any{"count": imported}))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"imported": imported,
		"failed":   failures,
	})
}
