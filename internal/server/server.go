package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/wargadigital/rukem/internal/backup"
	"github.com/wargadigital/rukem/internal/email"
	"github.com/wargadigital/rukem/internal/handler"
	"github.com/wargadigital/rukem/internal/middleware"
	"github.com/wargadigital/rukem/internal/push"
	"github.com/wargadigital/rukem/internal/store"
	ws "github.com/wargadigital/rukem/internal/websocket"
)

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	memberH       *handler.MemberHandler
	deathRecordH  *handler.DeathRecordHandler
	claimH        *handler.BenefitClaimHandler
	ledgerH       *handler.LedgerHandler
	dashboardH    *handler.DashboardHandler
	exportH       *handler.ExportHandler
	authH         *handler.AuthHandler
	pushH         *handler.PushHandler
	backupH       *handler.BackupHandler
	sessionStore  *store.SessionStore
	userStore     *store.UserStore
	resetStore    *store.PasswordResetStore
	rateLimiter   *middleware.RateLimiter
	backupManager *backup.Manager
	logger        *slog.Logger
}

// Config holds the server-level knobs that do not belong to a single
// subsystem.
type Config struct {
	SecureCookie bool
}

func New(db *sql.DB, cfg Config, emailClient *email.Client, backupCfg backup.Config, pushCfg push.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	memberStore := store.NewMemberStore(db)
	deathStore := store.NewDeathRecordStore(db)
	claimStore := store.NewBenefitClaimStore(db)
	ledgerStore := store.NewLedgerStore(db)

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	resetStore := store.NewPasswordResetStore(db)

	backupStore := store.NewBackupStore(db)
	backupMgr := backup.NewManager(backupCfg, db, backupStore, logger.With("component", "backup"))
	backupMgr.SetOnComplete(func(backupID int64) {
		hub.Broadcast(ws.NewMessage("backups", "created", backupID, nil))
	})

	// Push notifications are optional: without VAPID keys the handlers and
	// notifier stay nil and the routes are not registered.
	pushSt := store.NewPushStore(db)
	var pushSvc *push.Service
	var notifier *push.Notifier
	var pushH *handler.PushHandler
	if pushCfg.VAPIDPublicKey != "" && pushCfg.VAPIDPrivateKey != "" {
		pushLogger := logger.With("component", "push")
		pushSvc = push.NewService(pushCfg.VAPIDPublicKey, pushCfg.VAPIDPrivateKey)
		notifier = push.NewNotifier(pushSvc, pushSt, userStore, pushLogger)
		pushH = handler.NewPushHandler(pushSt, pushSvc, pushLogger)
	}

	return &Server{
		db:            db,
		hub:           hub,
		memberH:       handler.NewMemberHandler(memberStore, hub, logger.With("component", "member")),
		deathRecordH:  handler.NewDeathRecordHandler(deathStore, hub, notifier, logger.With("component", "death_record")),
		claimH:        handler.NewBenefitClaimHandler(claimStore, hub, notifier, logger.With("component", "benefit_claim")),
		ledgerH:       handler.NewLedgerHandler(ledgerStore, hub, logger.With("component", "ledger")),
		dashboardH:    handler.NewDashboardHandler(memberStore, deathStore, claimStore, ledgerStore, logger.With("component", "dashboard")),
		exportH:       handler.NewExportHandler(memberStore, ledgerStore, logger.With("component", "export")),
		authH:         handler.NewAuthHandler(userStore, sessionStore, resetStore, emailClient, logger.With("component", "auth"), cfg.SecureCookie),
		pushH:         pushH,
		backupH:       handler.NewBackupHandler(backupMgr, backupStore, logger.With("component", "backup")),
		sessionStore:  sessionStore,
		userStore:     userStore,
		resetStore:    resetStore,
		rateLimiter:   middleware.NewRateLimiter(),
		backupManager: backupMgr,
		logger:        logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// PasswordResetStore returns the reset store for cleanup tasks.
func (s *Server) PasswordResetStore() *store.PasswordResetStore {
	return s.resetStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// BackupManager returns the backup manager.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/auth/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("POST /api/auth/reset/request", s.rateLimitedHandler(s.authH.RequestPasswordReset))
	outerMux.HandleFunc("POST /api/auth/reset/confirm", s.rateLimitedHandler(s.authH.ConfirmPasswordReset))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.userStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

// recordAccess gates mutations on registry, death, claim, and ledger data
// to admin and operator accounts.
func recordAccess(h http.HandlerFunc) http.Handler {
	return middleware.RequireRecordAccess(h)
}

// adminOnly gates a route to admin accounts.
func adminOnly(h http.HandlerFunc) http.Handler {
	return middleware.RequireAdmin(h)
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/logout", s.authH.Logout)
	mux.HandleFunc("GET /api/auth/me", s.authH.Me)

	// Account approval (admin)
	mux.Handle("GET /api/accounts/pending", adminOnly(s.authH.ListPendingAccounts))
	mux.Handle("POST /api/accounts/{id}/approve", adminOnly(s.authH.ApproveAccount))
	mux.Handle("POST /api/accounts/{id}/reject", adminOnly(s.authH.RejectAccount))

	// Member registry
	mux.HandleFunc("GET /api/members", s.memberH.List)
	mux.HandleFunc("GET /api/members/active", s.memberH.ListActive)
	mux.HandleFunc("GET /api/members/{id}", s.memberH.Get)
	mux.HandleFunc("GET /api/members/{id}/status", s.memberH.GetStatus)
	mux.Handle("POST /api/members", recordAccess(s.memberH.Create))
	mux.Handle("PUT /api/members/{id}", recordAccess(s.memberH.Update))
	mux.Handle("DELETE /api/members/{id}", recordAccess(s.memberH.Delete))
	mux.Handle("PUT /api/members/{id}/status", recordAccess(s.memberH.UpdateStatus))
	mux.Handle("POST /api/members/import", recordAccess(s.memberH.ImportCSV))

	// Death records
	mux.HandleFunc("GET /api/death-records", s.deathRecordH.List)
	mux.HandleFunc("GET /api/death-records/unclaimed", s.deathRecordH.ListUnclaimed)
	mux.HandleFunc("GET /api/death-records/{id}", s.deathRecordH.Get)
	mux.Handle("POST /api/death-records", recordAccess(s.deathRecordH.Create))
	mux.Handle("POST /api/death-records/{id}/verify", recordAccess(s.deathRecordH.Verify))

	// Benefit claims
	mux.HandleFunc("GET /api/claims", s.claimH.List)
	mux.HandleFunc("GET /api/claims/{id}", s.claimH.Get)
	mux.Handle("POST /api/claims", recordAccess(s.claimH.Create))
	mux.Handle("POST /api/claims/{id}/approve", adminOnly(s.claimH.Approve))

	// Cash ledger
	mux.HandleFunc("GET /api/ledger", s.ledgerH.List)
	mux.HandleFunc("GET /api/ledger/summary", s.ledgerH.Summary)
	mux.HandleFunc("GET /api/ledger/monthly", s.ledgerH.Monthly)
	mux.Handle("POST /api/ledger", recordAccess(s.ledgerH.Create))

	// Dashboard
	mux.HandleFunc("GET /api/dashboard", s.dashboardH.Summary)

	// Exports
	mux.HandleFunc("GET /api/export/members.csv", s.exportH.MembersCSV)
	mux.HandleFunc("GET /api/export/members.xlsx", s.exportH.MembersExcel)
	mux.HandleFunc("GET /api/export/members.pdf", s.exportH.MembersPDF)
	mux.HandleFunc("GET /api/export/ledger.csv", s.exportH.LedgerCSV)
	mux.HandleFunc("GET /api/export/ledger.xlsx", s.exportH.LedgerExcel)
	mux.HandleFunc("GET /api/export/report.pdf", s.exportH.MonthlyReportPDF)

	// Push notification routes
	if s.pushH != nil {
		mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
		mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
		mux.HandleFunc("POST /api/push/unsubscribe", s.pushH.Unsubscribe)
		mux.HandleFunc("GET /api/push/subscriptions", s.pushH.List)
	}

	// Backups (admin)
	mux.Handle("GET /api/backups", adminOnly(s.backupH.List))
	mux.Handle("GET /api/backups/status", adminOnly(s.backupH.Status))
	mux.Handle("POST /api/backups/run", adminOnly(s.backupH.RunNow))
	mux.Handle("POST /api/backups/{id}/restore", adminOnly(s.backupH.Restore))

	// Change notifications
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))
}
