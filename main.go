package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"project/database"
	"project/middleware"
	"project/routes"
	"project/services"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

func initLogger() {
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	if lvl, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(lvl)
	}
}

// startCron schedules the in-process payout and commission jobs. External
// schedulers can drive the same work through the /v3/cron endpoints instead;
// both paths share the same idempotent claim, so overlap is harmless.
func startCron(scheduler *services.PayoutScheduler, commissions *services.CommissionService) *cron.Cron {
	c := cron.New()

	payoutSpec := os.Getenv("CRON_PAYOUT_SPEC")
	if payoutSpec == "" {
		payoutSpec = "5 0 * * *"
	}
	if _, err := c.AddFunc(payoutSpec, func() {
		if _, _, err := scheduler.ProcessDailyROI(false); err != nil {
			log.Errorf("scheduled payout pass failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("invalid CRON_PAYOUT_SPEC %q: %v", payoutSpec, err)
	}

	commissionSpec := os.Getenv("CRON_COMMISSION_SPEC")
	if commissionSpec == "" {
		commissionSpec = "*/5 * * * *"
	}
	if _, err := c.AddFunc(commissionSpec, func() {
		if _, err := commissions.DispatchPending(0); err != nil {
			log.Errorf("scheduled commission dispatch failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("invalid CRON_COMMISSION_SPEC %q: %v", commissionSpec, err)
	}

	c.Start()
	log.WithFields(log.Fields{"payout": payoutSpec, "commission": commissionSpec}).Info("cron schedules started")
	return c
}

func main() {
	// Load .env if present without overwriting already-set variables.
	if envMap, err := godotenv.Read(); err == nil {
		for k, v := range envMap {
			if os.Getenv(k) == "" {
				os.Setenv(k, v)
			}
		}
	}
	initLogger()

	for _, envVar := range []string{"DB_HOST", "DB_USER", "DB_PASS", "DB_NAME", "JWT_SECRET"} {
		if os.Getenv(envVar) == "" {
			log.Fatalf("required environment variable %s is not set", envVar)
		}
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// Auto-migrate only in development to avoid accidental production schema changes.
	if strings.ToLower(os.Getenv("ENV")) == "development" {
		log.Info("development mode, running auto-migration")
		if err := database.Migrate(db); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}
	}
	if err := database.Seed(db); err != nil {
		log.Fatalf("failed to seed database: %v", err)
	}

	settings := services.NewSettingsService(db)
	commissions := services.NewCommissionService(db, settings)
	scheduler := services.NewPayoutScheduler(db)

	cronRunner := startCron(scheduler, commissions)
	defer cronRunner.Stop()

	router := routes.InitRouter()

	handler := middleware.RequestLogMiddleware(
		middleware.SecurityHeadersMiddleware(
			middleware.RequestIDMiddleware(
				middleware.MaxBodyMiddleware(
					middleware.RecoveryMiddleware(router),
				),
			),
		),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", port).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	ctxStop := cronRunner.Stop()
	<-ctxStop.Done()
	log.Info("server exited")
}
