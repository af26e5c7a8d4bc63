package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"nursenest/internal/db"
	"nursenest/internal/domain/audit"
	"nursenest/internal/domain/auth"
	"nursenest/internal/domain/contract"
	"nursenest/internal/domain/notifications"
	"nursenest/internal/domain/payment"
	"nursenest/internal/domain/reports"
	"nursenest/internal/domain/timecard"
	"nursenest/internal/platform/config"
	"nursenest/internal/platform/crypto"
	"nursenest/internal/platform/email"
	"nursenest/internal/platform/jobs"
	"nursenest/internal/platform/metrics"
	"nursenest/internal/platform/stripeclient"
	authhandler "nursenest/internal/transport/http/handlers/auth"
	contractshandler "nursenest/internal/transport/http/handlers/contracts"
	notificationshandler "nursenest/internal/transport/http/handlers/notifications"
	paymentshandler "nursenest/internal/transport/http/handlers/payments"
	reportshandler "nursenest/internal/transport/http/handlers/reports"
	timecardshandler "nursenest/internal/transport/http/handlers/timecards"
	"nursenest/internal/transport/http/middleware"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	cryptoSvc, err := crypto.New(cfg.DataEncryptionKey)
	if err != nil {
		log.Fatalf("encryption key invalid: %v", err)
	}

	collector := metrics.New()
	mailer := email.New(cfg)

	authStore := auth.NewStore(pool)
	contractStore := contract.NewStore(pool)
	timecardSvc := timecard.NewService(timecard.NewStore(pool), contractStore)
	paymentSvc := payment.NewService(payment.NewStore(pool), contractStore, stripeclient.New(cfg))
	notifySvc := notifications.New(notifications.NewStore(pool), mailer, cfg.EmailFrom, cfg.EmailEnabled)
	auditSvc := audit.New(pool)
	reportsSvc := reports.NewService(reports.NewStore(pool))
	idemStore := middleware.NewIdempotencyStore(pool)

	jobsSvc := jobs.New(pool, cfg, timecardSvc, paymentSvc)
	jobsSvc.Start(ctx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authStore, cfg.JWTSecret).RegisterRoutes(r)
		contractshandler.NewHandler(contractStore, auditSvc).RegisterRoutes(r)
		timecardshandler.NewHandler(timecardSvc, contractStore, notifySvc, auditSvc).RegisterRoutes(r)
		notificationshandler.NewHandler(notifySvc).RegisterRoutes(r)
		reportshandler.NewHandler(reportsSvc, contractStore, auditSvc, collector, jobsSvc, cryptoSvc, cfg.StatementsDir).RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.PaymentRateLimit(cfg.RateLimitPerMinute, time.Minute))
			paymentshandler.NewHandler(paymentSvc, contractStore, idemStore, collector, notifySvc, auditSvc).RegisterRoutes(r)
		})
	})

	slog.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
