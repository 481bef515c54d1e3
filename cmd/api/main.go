package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/go-training-admin/internal/application/admin"
	"github.com/go-training-admin/internal/config"
	"github.com/go-training-admin/internal/domain"
	"github.com/go-training-admin/internal/infrastructure/dynamo"
	"github.com/go-training-admin/internal/infrastructure/google"
	jwtinfra "github.com/go-training-admin/internal/infrastructure/jwt"
	redisinfra "github.com/go-training-admin/internal/infrastructure/redis"
	s3infra "github.com/go-training-admin/internal/infrastructure/s3"
	"github.com/go-training-admin/internal/infrastructure/smtp"
	"github.com/go-training-admin/internal/infrastructure/sns"
	"github.com/go-training-admin/internal/infrastructure/trainingapi"
	transporthttp "github.com/go-training-admin/internal/transport/http"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	setupLogger(cfg)
	if envErr != nil {
		slog.Info("no .env file found, reading from environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		slog.Error("JWT provider not available", "err", err)
		os.Exit(1)
	}

	s3Store := s3infra.NewStore(s3infra.NewClient(cfg), cfg.S3BucketName)

	// SNS is optional. Without it SMS dispatches are recorded as skipped.
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		slog.Warn("SNS sender not available", "err", err)
	}

	deps := &transporthttp.Deps{
		Upstream:         trainingapi.NewClient(cfg),
		AdminRepo:        dynamo.NewAdminRepo(dynamoClient, cfg.DynamoTables.Admins),
		SessionRepo:      dynamo.NewSessionRepo(dynamoClient, cfg.DynamoTables.Sessions),
		VerificationRepo: dynamo.NewVerificationRepo(dynamoClient, cfg.DynamoTables.Verifications),
		DispatchRepo:     dynamo.NewDispatchRepo(dynamoClient, cfg.DynamoTables.Dispatches),
		ExportRepo:       dynamo.NewExportRepo(dynamoClient, cfg.DynamoTables.Exports),
		Objects:          s3Store,
		Mailer:           smtp.NewMailer(cfg),
		SMSSender:        smsSender,
		JWTProvider:      jwtProvider,
		GoogleVerifier:   google.NewVerifier(cfg.GoogleClientID),
	}

	seedAdmin(ctx, cfg, deps)

	// Redis is optional; a nil *Cache must not end up inside the interface.
	if cache := redisinfra.NewCache(cfg); cache != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := cache.Ping(pingCtx); err != nil {
			slog.Warn("redis unreachable, dashboard cache errors will be bypassed", "addr", cfg.RedisAddr, "err", err)
		}
		cancel()
		defer cache.Close()
		deps.Cache = cache
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      transporthttp.NewRouter(ctx, cfg, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv, "upstream", cfg.UpstreamBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "err", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// seedAdmin creates the first admin account from SEED_ADMIN_* so a fresh table can be logged into.
func seedAdmin(ctx context.Context, cfg *config.Config, deps *transporthttp.Deps) {
	if cfg.SeedAdminUsername == "" || cfg.SeedAdminPassword == "" {
		return
	}
	svc := admin.NewService(admin.ServiceDeps{AdminRepo: deps.AdminRepo, SessionRepo: deps.SessionRepo})
	_, err := svc.Create(ctx, domain.CreateAdminRequest{
		Username:  cfg.SeedAdminUsername,
		Password:  cfg.SeedAdminPassword,
		Email:     cfg.SeedAdminEmail,
		FirstName: "Admin",
		LastName:  cfg.SeedAdminUsername,
		Role:      domain.RoleAdmin,
	})
	switch {
	case err == nil:
		slog.Info("seed admin created", "username", cfg.SeedAdminUsername)
	case errors.Is(err, domain.ErrConflict):
		slog.Debug("seed admin already exists", "username", cfg.SeedAdminUsername)
	default:
		slog.Warn("seed admin not created", "err", err)
	}
}

// setupLogger installs a JSON handler in production and a text handler elsewhere.
func setupLogger(cfg *config.Config) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.IsProduction() {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}
