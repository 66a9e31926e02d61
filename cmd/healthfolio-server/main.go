package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/healthfolio/healthfolio/internal/config"
	"github.com/healthfolio/healthfolio/internal/domain/emergency"
	"github.com/healthfolio/healthfolio/internal/domain/medication"
	"github.com/healthfolio/healthfolio/internal/domain/record"
	"github.com/healthfolio/healthfolio/internal/domain/share"
	"github.com/healthfolio/healthfolio/internal/platform/auth"
	"github.com/healthfolio/healthfolio/internal/platform/db"
	"github.com/healthfolio/healthfolio/internal/platform/middleware"
)

// recordSourceAdapter adapts the record repository to the share.RecordSource
// interface, keeping the share package free of domain imports.
type recordSourceAdapter struct {
	repo record.Repository
}

func (a *recordSourceAdapter) OwnedRecordIDs(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	return a.repo.ListIDsByOwner(ctx, ownerID)
}

func (a *recordSourceAdapter) RecordsByIDs(ctx context.Context, ids []uuid.UUID) ([]share.Resource, error) {
	records, err := a.repo.GetManyByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]share.Resource, 0, len(records))
	for _, r := range records {
		out = append(out, share.Resource{ID: r.ID, OwnerID: r.OwnerID, Kind: share.ResourceKindRecord, Payload: r})
	}
	return out, nil
}

func (a *recordSourceAdapter) RecordsByOwner(ctx context.Context, ownerID uuid.UUID) ([]share.Resource, error) {
	ids, err := a.repo.ListIDsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return a.RecordsByIDs(ctx, ids)
}

type medicationSourceAdapter struct {
	repo medication.Repository
}

func (a *medicationSourceAdapter) MedicationsByOwner(ctx context.Context, ownerID uuid.UUID) ([]share.Resource, error) {
	meds, err := a.repo.ListAllByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]share.Resource, 0, len(meds))
	for _, m := range meds {
		out = append(out, share.Resource{ID: m.ID, OwnerID: m.OwnerID, Kind: share.ResourceKindMed, Payload: m})
	}
	return out, nil
}

type profileSourceAdapter struct {
	repo emergency.Repository
}

func (a *profileSourceAdapter) ProfileByOwner(ctx context.Context, ownerID uuid.UUID) (*share.Resource, error) {
	p, err := a.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &share.Resource{ID: p.ID, OwnerID: p.OwnerID, Kind: share.ResourceKindEmergency, Payload: p}, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "healthfolio-server",
		Short: "Healthfolio API Server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, cfg.MigrationsDir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, cfg.MigrationsDir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	jwtCfg := auth.JWTConfig{
		Issuer:     cfg.JWTIssuer,
		Audience:   cfg.JWTAudience,
		SigningKey: []byte(cfg.JWTSigningKey),
	}

	// Authenticated API group
	apiV1 := e.Group("/api/v1")
	if cfg.IsDev() {
		apiV1.Use(auth.DevAuthMiddleware())
	} else {
		apiV1.Use(auth.JWTMiddleware(jwtCfg))
	}

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Public share group: anyone holding a link can hit it, so no auth
	// requirement, but a JWT is honored when present so the audit trail
	// can name the viewer. Tighter rate limit than the API group since
	// token ids arrive unauthenticated.
	shareGroup := e.Group("/share")
	shareGroup.Use(auth.OptionalJWTMiddleware(jwtCfg))
	shareGroup.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.ShareRPS,
		BurstSize:         cfg.ShareBurst,
	}))

	// Health check
	e.GET("/health", db.HealthHandler(pool))

	// -- Register Domain Handlers --

	recordRepo := record.NewRepoPG(pool)
	recordSvc := record.NewService(recordRepo)
	record.NewHandler(recordSvc).RegisterRoutes(apiV1)

	medRepo := medication.NewRepoPG(pool)
	medSvc := medication.NewService(medRepo)
	medication.NewHandler(medSvc).RegisterRoutes(apiV1)

	emergencyRepo := emergency.NewRepoPG(pool)
	emergencySvc := emergency.NewService(emergencyRepo)
	emergency.NewHandler(emergencySvc).RegisterRoutes(apiV1)

	// Share domain
	tokenRepo := share.NewTokenRepoPG(pool)
	eventRepo := share.NewAccessEventRepoPG(pool)
	resolver := share.NewResolver(tokenRepo,
		&recordSourceAdapter{repo: recordRepo},
		&medicationSourceAdapter{repo: medRepo},
		&profileSourceAdapter{repo: emergencyRepo})
	shareSvc := share.NewService(tokenRepo, eventRepo, resolver, cfg.ShareBaseURL, logger)
	shareHandler := share.NewHandler(shareSvc)
	shareHandler.RegisterRoutes(apiV1)
	shareHandler.RegisterPublicRoutes(shareGroup)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
