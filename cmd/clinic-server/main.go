package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/odontia/clinic/internal/config"
	"github.com/odontia/clinic/internal/domain/account"
	"github.com/odontia/clinic/internal/domain/chart"
	"github.com/odontia/clinic/internal/domain/ledger"
	"github.com/odontia/clinic/internal/domain/odontogram"
	"github.com/odontia/clinic/internal/domain/patient"
	"github.com/odontia/clinic/internal/domain/scheduling"
	"github.com/odontia/clinic/internal/platform/auth"
	"github.com/odontia/clinic/internal/platform/db"
	"github.com/odontia/clinic/internal/platform/middleware"
	"github.com/odontia/clinic/pkg/clock"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Dental clinic API server",
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
		Short: "Start the clinic API server",
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
			dir, _ := cmd.Flags().GetString("dir")

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

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s).\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

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

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
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
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	opens, err := scheduling.ParseTimeOfDay(cfg.ClinicOpens)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid CLINIC_OPENS")
	}
	closes, err := scheduling.ParseTimeOfDay(cfg.ClinicCloses)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid CLINIC_CLOSES")
	}
	hours := scheduling.Hours{
		Open:        opens,
		Close:       closes,
		MinDuration: time.Duration(cfg.MinAppointmentMinutes) * time.Minute,
	}

	// Services
	txRun := db.PoolRunner(pool)
	clk := clock.System()
	tokens := auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.TokenDuration())

	patientSvc := patient.NewService(patient.NewRepoPG(pool))
	schedulingSvc := scheduling.NewService(scheduling.NewRepoPG(pool), patientSvc, hours, txRun, clk)
	chartSvc := chart.NewService(chart.NewRepoPG(pool), patientSvc, txRun, clk)
	odontogramSvc := odontogram.NewService(odontogram.NewRepoPG(pool), chartSvc, txRun)
	ledgerSvc := ledger.NewService(ledger.NewRepoPG(pool), chartSvc, txRun, clk)
	accountSvc := account.NewService(account.NewRepoPG(pool), tokens)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	e.GET("/health", db.HealthHandler("clinic-api", pool))

	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Auth endpoints stay public; everything else requires a token.
	account.NewHandler(accountSvc).Register(apiV1.Group("/auth"))

	var authn echo.MiddlewareFunc
	if cfg.IsDev() {
		authn = auth.DevAuthMiddleware()
	} else {
		authn = auth.JWTMiddleware([]byte(cfg.JWTSecret))
	}
	protected := []echo.MiddlewareFunc{
		authn,
		auth.RequireRole(account.RoleAdmin, account.RoleDentist),
		middleware.Audit(logger),
	}

	patient.NewHandler(patientSvc).Register(apiV1.Group("/patients", protected...))
	scheduling.NewHandler(schedulingSvc).Register(apiV1.Group("/appointments", protected...))
	chart.NewHandler(chartSvc).Register(apiV1.Group("/charts", protected...))
	odontogram.NewHandler(odontogramSvc).Register(apiV1.Group("/odontograms", protected...))
	ledger.NewHandler(ledgerSvc).Register(apiV1.Group("/budgets", protected...))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
