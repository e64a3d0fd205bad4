package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/wargadigital/rukem/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseIDParam(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	return strconv.ParseInt(idStr, 10, 64)
}

// writeStoreError maps business-rule sentinels onto HTTP statuses.
// Unrecognized errors are logged and reported as a generic 500 with the
// given fallback message.
func writeStoreError(w http.ResponseWriter, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "record not found")
	case errors.Is(err, store.ErrDuplicate):
		writeError(w, http.StatusConflict, "record already exists")
	case errors.Is(err, store.ErrAlreadyVerified):
		writeError(w, http.StatusConflict, "death record already verified")
	case errors.Is(err, store.ErrNotPending):
		writeError(w, http.StatusConflict, "record is not pending")
	case errors.Is(err, store.ErrDeceasedImmutable):
		writeError(w, http.StatusConflict, "deceased member records cannot be changed")
	case errors.Is(err, store.ErrNoDeathRecord):
		writeError(w, http.StatusUnprocessableEntity, "no death record for this member")
	case errors.Is(err, store.ErrMemberNotActive):
		writeError(w, http.StatusUnprocessableEntity, "member is not a registered active member")
	default:
		logger.Error(fallback, "error", err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
