package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/wargadigital/rukem/internal/auth"
	"github.com/wargadigital/rukem/internal/email"
	"github.com/wargadigital/rukem/internal/model"
	"github.com/wargadigital/rukem/internal/store"
)

const (
	sessionCookieName = "rukem_session"
	maxResetAttempts  = 5
)

type AuthHandler struct {
	userStore    *store.UserStore
	sessionStore *store.SessionStore
	resetStore   *store.PasswordResetStore
	mailer       *email.Client
	logger       *slog.Logger
	secureCookie bool
}

func NewAuthHandler(us *store.UserStore, ss *store.SessionStore, rs *store.PasswordResetStore, mailer *email.Client, logger *slog.Logger, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		userStore:    us,
		sessionStore: ss,
		resetStore:   rs,
		mailer:       mailer,
		logger:       logger,
		secureCookie: secureCookie,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Register creates an account. The first account becomes an active admin;
// later signups start pending and cannot log in until approved.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	user, err := h.userStore.Create(req.Email, req.Name, string(hash))
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to create account")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := h.userStore.GetPasswordHash(req.Email)
	if err != nil {
		h.logger.Error("get password hash", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	if hash == "" {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	user, err := h.userStore.GetByEmail(req.Email)
	if err != nil || user == nil {
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	switch user.AccountStatus {
	case model.AccountPending:
		writeError(w, http.StatusForbidden, "account is awaiting approval")
		return
	case model.AccountRejected:
		writeError(w, http.StatusForbidden, "account has been rejected")
		return
	}

	sess, err := h.sessionStore.Create(user.ID)
	if err != nil {
		h.logger.Error("create session", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		Expires:  sess.ExpiresAt,
	})

	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if ac, ok := auth.FromContext(r.Context()); ok {
		if err := h.sessionStore.Delete(ac.SessionID); err != nil {
			h.logger.Error("delete session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.userStore.GetByID(auth.UserID(r.Context()))
	if err != nil || user == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type resetRequest struct {
	Email string `json:"email"`
}

// RequestPasswordReset emails a 6-digit code. The response is the same
// whether or not the account exists.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	user, err := h.userStore.GetByEmail(req.Email)
	if err != nil {
		h.logger.Error("get user for reset", "error", err)
	}
	if user != nil && h.mailer.Configured() {
		reset, err := h.resetStore.Create(req.Email)
		if err != nil {
			h.logger.Error("create reset code", "error", err)
		} else if err := h.mailer.SendResetCode(req.Email, reset.Code); err != nil {
			h.logger.Error("send reset email", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "if the account exists, a code has been sent",
	})
}

type resetConfirmRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

func (h *AuthHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req resetConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if len(req.NewPassword) < 8 {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	reset, err := h.resetStore.GetLatestByEmail(req.Email)
	if err != nil {
		h.logger.Error("get reset code", "error", err)
		writeError(w, http.StatusInternalServerError, "reset failed")
		return
	}
	if reset == nil {
		writeError(w, http.StatusBadRequest, "invalid or expired code")
		return
	}
	if reset.Attempts >= maxResetAttempts {
		writeError(w, http.StatusTooManyRequests, "too many attempts, request a new code")
		return
	}

	if reset.Code != req.Code {
		if _, err := h.resetStore.IncrementAttempts(reset.ID); err != nil {
			h.logger.Error("increment reset attempts", "error", err)
		}
		writeError(w, http.StatusBadRequest, "invalid or expired code")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "reset failed")
		return
	}
	if err := h.userStore.SetPasswordHash(req.Email, string(hash)); err != nil {
		writeStoreError(w, h.logger, err, "reset failed")
		return
	}
	if err := h.resetStore.MarkUsed(reset.ID); err != nil {
		h.logger.Error("mark reset used", "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

// ListPendingAccounts returns accounts awaiting approval. Admin only.
func (h *AuthHandler) ListPendingAccounts(w http.ResponseWriter, r *http.Request) {
	users, err := h.userStore.ListPending()
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to list pending accounts")
		return
	}
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// ApproveAccount activates a pending account. Admin only.
func (h *AuthHandler) ApproveAccount(w http.ResponseWriter, r *http.Request) {
	h.setAccountStatus(w, r, model.AccountActive)
}

// RejectAccount rejects a pending account. Admin only.
func (h *AuthHandler) RejectAccount(w http.ResponseWriter, r *http.Request) {
	h.setAccountStatus(w, r, model.AccountRejected)
}

func (h *AuthHandler) setAccountStatus(w http.ResponseWriter, r *http.Request, status model.AccountStatus) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	user, err := h.userStore.SetAccountStatus(id, status)
	if err != nil {
		writeStoreError(w, h.logger, err, "failed to update account status")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
