package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/wargadigital/rukem/internal/backup"
	"github.com/wargadigital/rukem/internal/database"
	"github.com/wargadigital/rukem/internal/email"
	"github.com/wargadigital/rukem/internal/logging"
	"github.com/wargadigital/rukem/internal/push"
	"github.com/wargadigital/rukem/internal/server"
)

func main() {
	logger := logging.Setup(os.Getenv("RUKEM_LOG_LEVEL"))

	port := os.Getenv("RUKEM_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("RUKEM_DB_PATH")
	if dbPath == "" {
		dbPath = "rukem.db"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	emailClient := email.NewClient(
		os.Getenv("RUKEM_POSTMARK_TOKEN"),
		os.Getenv("RUKEM_EMAIL_FROM"),
	)

	backupCfg := backup.Config{
		S3: backup.S3Config{
			Endpoint:  os.Getenv("RUKEM_S3_ENDPOINT"),
			Bucket:    os.Getenv("RUKEM_S3_BUCKET"),
			Region:    os.Getenv("RUKEM_S3_REGION"),
			AccessKey: os.Getenv("RUKEM_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("RUKEM_S3_SECRET_KEY"),
		},
		DBPath:     dbPath,
		Passphrase: os.Getenv("RUKEM_BACKUP_PASSPHRASE"),
	}
	if hour, err := strconv.Atoi(os.Getenv("RUKEM_BACKUP_HOUR")); err == nil && hour >= 0 && hour <= 23 {
		backupCfg.ScheduleHour = hour
	} else {
		backupCfg.ScheduleHour = 2
	}

	pushCfg := push.Config{
		VAPIDPublicKey:  os.Getenv("RUKEM_VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("RUKEM_VAPID_PRIVATE_KEY"),
	}
	if pushCfg.VAPIDPublicKey == "" || pushCfg.VAPIDPrivateKey == "" {
		logger.Info("VAPID keys not set, push notifications disabled")
	}

	srvCfg := server.Config{
		SecureCookie: os.Getenv("RUKEM_SECURE_COOKIE") == "true",
	}

	srv := server.New(db, srvCfg, emailClient, backupCfg, pushCfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv.BackupManager().Start(ctx)
	defer srv.BackupManager().Stop()

	// Periodic cleanup of expired sessions, reset codes, and rate-limit
	// buckets.
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := srv.SessionStore().DeleteExpired(); err != nil {
					logger.Error("cleanup sessions", "error", err)
				} else if n > 0 {
					logger.Info("cleaned up expired sessions", "count", n)
				}
				if _, err := srv.PasswordResetStore().DeleteExpired(); err != nil {
					logger.Error("cleanup reset codes", "error", err)
				}
				srv.RateLimiter().Cleanup()
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("RUKEM running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
