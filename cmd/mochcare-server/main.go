package main

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mochcare/mochcare/internal/config"
	"github.com/mochcare/mochcare/internal/domain/admin"
	"github.com/mochcare/mochcare/internal/domain/dashboard"
	"github.com/mochcare/mochcare/internal/domain/forms"
	"github.com/mochcare/mochcare/internal/domain/mothers"
	"github.com/mochcare/mochcare/internal/platform/auth"
	"github.com/mochcare/mochcare/internal/platform/cache"
	"github.com/mochcare/mochcare/internal/platform/db"
	"github.com/mochcare/mochcare/internal/platform/metrics"
	"github.com/mochcare/mochcare/internal/platform/middleware"
	"github.com/mochcare/mochcare/migrations"
)

const (
	version         = "0.1.0"
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
	statsCacheTTL   = time.Minute
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mochcare-server",
		Short: "MOCHCare maternal health records API",
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

// migrationSource returns the embedded migrations unless a directory is given.
func migrationSource(dir string) fs.FS {
	if dir == "" {
		return migrations.FS
	}
	return os.DirFS(dir)
}

func openPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	return db.NewPool(ctx, db.PoolConfig{
		DatabaseURL:     cfg.DatabaseURL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		ApplicationName: "mochcare-server",
	})
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	// migrate up
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := openPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			if dir == "" {
				dir = cfg.MigrationsDir
			}
			count, err := db.NewMigrator(pool, migrationSource(dir)).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "", "Path to migrations directory (overrides MIGRATIONS_DIR; empty uses the embedded set)")
	cmd.AddCommand(upCmd)

	// migrate status
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
			pool, err := openPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			if dir == "" {
				dir = cfg.MigrationsDir
			}
			statuses, err := db.NewMigrator(pool, migrationSource(dir)).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}
			printStatus(cmd, statuses)
			return nil
		},
	}
	statusCmd.Flags().String("dir", "", "Path to migrations directory (overrides MIGRATIONS_DIR; empty uses the embedded set)")
	cmd.AddCommand(statusCmd)

	return cmd
}

func printStatus(cmd *cobra.Command, statuses []db.MigrationStatus) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
	fmt.Fprintln(out, "---------- ---------------------------------------- ---------- --------------------")
	for _, s := range statuses {
		status := "pending"
		appliedAt := ""
		if s.Applied {
			status = "applied"
			if s.AppliedAt != nil {
				appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
		}
		fmt.Fprintf(out, "%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
	}
}

func newLogger(env string) zerolog.Logger {
	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func runServer() error {
	logger := newLogger(os.Getenv("ENV"))

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}
	signingKey, _ := cfg.SigningKey()

	// Database
	ctx := context.Background()
	pool, err := openPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Redis is optional; without it form schemas and stats are read straight from Postgres.
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = cache.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, continuing without cache")
			rdb = nil
		} else {
			defer rdb.Close()
			logger.Info().Msg("connected to redis")
		}
	}

	e := newEcho(cfg, logger, signingKey)

	// Health and metrics
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	e.GET("/health/db", db.HealthHandler(pool, func() *db.PoolStats { return db.GetPoolStats(pool) }))
	if cfg.MetricsEnabled {
		e.GET("/metrics", metrics.Handler())
	}

	registerDomains(e.Group("/api/v1"), pool, rdb, cfg)

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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

// newEcho builds the server with the global middleware chain.
func newEcho(cfg *config.Config, logger zerolog.Logger, signingKey []byte) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.Metrics())
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.RequestTimeout(requestTimeout))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			JWKSURL:    cfg.AuthJWKSURL,
			SigningKey: signingKey,
			Skipper:    auth.AuthSkipper,
		}))
	}
	return e
}

// registerDomains wires repositories, services and handlers onto the API group.
func registerDomains(api *echo.Group, pool *pgxpool.Pool, rdb *redis.Client, cfg *config.Config) {
	session := auth.Session{}

	// Forms
	formStore := forms.NewFormStorePG(pool)
	if rdb != nil && cfg.FormCacheTTL > 0 {
		formStore = forms.NewCachedFormStore(formStore, cache.New(rdb, "mochcare:form:", cfg.FormCacheTTL))
	}
	entryStore := forms.NewEntryStorePG(pool)

	// Mothers; the timeline reads form entries through the forms stores.
	mothersSvc := mothers.NewService(
		mothers.NewMotherRepoPG(pool),
		mothers.NewVisitRepoPG(pool),
		mothers.NewDeliveryRepoPG(pool),
		newFormActivity(entryStore, formStore),
		session,
	)
	mothers.NewHandler(mothersSvc).RegisterRoutes(api)

	formsSvc := forms.NewService(formStore, entryStore, session, mothersSvc)
	forms.NewHandler(formsSvc).RegisterRoutes(api)

	// Admin
	adminSvc := admin.NewService(
		admin.NewDistrictRepoPG(pool),
		admin.NewFacilityRepoPG(pool),
		admin.NewProfileRepoPG(pool),
	)
	admin.NewHandler(adminSvc).RegisterRoutes(api)

	// Dashboard
	var statsCache dashboard.StatsCache
	if rdb != nil {
		statsCache = cache.New(rdb, "mochcare:dashboard:", statsCacheTTL)
	}
	dashboard.NewHandler(dashboard.NewService(dashboard.NewStorePG(pool), statsCache)).RegisterRoutes(api)
}
