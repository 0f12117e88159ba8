package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slotbooking/config"
	_ "slotbooking/docs"
	"slotbooking/internal/adapters/auth"
	"slotbooking/internal/adapters/email"
	httpdelivery "slotbooking/internal/delivery/http"
	"slotbooking/internal/delivery/http/middleware"
	"slotbooking/internal/domain"
	"slotbooking/internal/repository/memory"
	"slotbooking/internal/repository/postgres"
	"slotbooking/internal/services"
)

const shutdownTimeout = 10 * time.Second

// @title BookSlot API
// @version 1.0
// @description Event slot booking backend.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := config.NewLogger(cfg, os.Stdout)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, db, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.From,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return err
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return err
	}
	emailService := services.NewEmailService(mailer, renderer, logger)

	var (
		issuer   domain.TokenIssuer
		verifier domain.TokenVerifier
	)
	if cfg.JWTSecret != "" {
		jwt := auth.NewJWT(cfg.JWTSecret)
		issuer = jwt
		if cfg.AdminAuthRequired {
			verifier = jwt
		}
	}

	timeout := cfg.ContextTimeout
	availability := services.NewAvailabilityService(stores.Bookings, timeout)
	handler := httpdelivery.NewRouter(httpdelivery.Dependencies{
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		Events:         services.NewEventService(stores.Events, stores.Slots, availability, timeout),
		Slots:          services.NewSlotService(stores.Slots, stores.Events, availability, timeout),
		Bookings:       services.NewBookingService(stores.Bookings, stores.Events, stores.Slots, emailService, logger, timeout),
		Users:          services.NewUserService(stores.Bookings, timeout),
		Admins:         services.NewAdminService(stores.Admins, auth.NewBcryptHasher(auth.DefaultCost), issuer, cfg.JWTExpiry, timeout),
		RateLimiter:    newRateLimiter(cfg, logger),
		AdminVerifier:  verifier,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "storage", cfg.Storage, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*domain.Stores, *sql.DB, error) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn("using in-memory storage, data is lost on restart")
		return memory.NewStores(), nil, nil
	}
	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		return nil, nil, err
	}
	if cfg.RunMigrations {
		if err := postgres.Migrate(db, logger); err != nil {
			db.Close()
			return nil, nil, err
		}
	}
	return postgres.NewStores(db), db, nil
}

func newRateLimiter(cfg *config.Config, logger *slog.Logger) *middleware.RateLimiter {
	if cfg.RateLimitRPS <= 0 {
		return nil
	}
	return middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.TrustProxy, logger)
}
