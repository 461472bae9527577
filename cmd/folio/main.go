package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/davrbek/folio/internal/cache"
	"github.com/davrbek/folio/internal/config"
	"github.com/davrbek/folio/internal/geoip"
	"github.com/davrbek/folio/internal/handler/api"
	"github.com/davrbek/folio/internal/i18n"
	"github.com/davrbek/folio/internal/imaging"
	"github.com/davrbek/folio/internal/logging"
	"github.com/davrbek/folio/internal/scheduler"
	"github.com/davrbek/folio/internal/session"
	"github.com/davrbek/folio/internal/store"
	"github.com/davrbek/folio/internal/translate"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "folio - trilingual portfolio server\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_DB_PATH           SQLite database path (default: ./data/folio.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_UPLOADS_DIR       Media upload directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_ADMIN_EMAIL       Initial admin email for seeding\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_ADMIN_PASSWORD    Initial admin password for seeding\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_REDIS_URL         Redis URL for the settings cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_GEOIP_DB_PATH     GeoLite2 country database path (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FOLIO_OPENAI_API_KEY    API key for machine translation (optional)\n")
	}

	flag.Parse()

	if *showVersion {
		_, _ = fmt.Printf("folio %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is fine; environment variables take over.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Warnings and errors are mirrored into the events table, so the
	// handler can only be installed once the schema exists.
	logLevel := parseLogLevel(cfg.LogLevel)
	logger := slog.New(logging.NewEventLogHandler(
		slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}), db))
	slog.SetDefault(logger)

	ctx := context.Background()
	if cfg.DoSeed {
		if err := store.Seed(ctx, db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	resolver, err := i18n.New(logger)
	if err != nil {
		return fmt.Errorf("loading locales: %w", err)
	}

	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	var settingsCache *cache.SettingsCache
	if cfg.UseRedisCache() {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL, cfg.CachePrefix, cacheTTL)
		if err != nil {
			return fmt.Errorf("connecting to Redis: %w", err)
		}
		defer func() { _ = redisCache.Close() }()
		settingsCache = cache.NewSettingsCache(redisCache, cacheTTL)
		logger.Info("using Redis settings cache")
	} else {
		settingsCache = cache.NewSettingsCache(cache.NewMemoryCache(cacheTTL), cacheTTL)
	}

	geo, err := geoip.NewLookup(cfg.GeoIPDBPath)
	if err != nil {
		return err
	}
	defer func() { _ = geo.Close() }()
	if cfg.GeoIPEnabled() {
		logger.Info("GeoIP lookups enabled", "db", cfg.GeoIPDBPath)
	}

	translator := translate.New(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	if cfg.TranslateEnabled() {
		logger.Info("machine translation enabled", "model", cfg.OpenAIModel)
	}

	processor, err := imaging.NewProcessor(cfg.UploadsDir)
	if err != nil {
		return fmt.Errorf("preparing uploads directory: %w", err)
	}

	sessions := session.New(db, cfg.IsDevelopment())

	apiHandler := api.New(db, resolver, sessions, settingsCache, geo, translator, processor, logger)
	if err := apiHandler.LoadOverrides(ctx); err != nil {
		return fmt.Errorf("loading translation overrides: %w", err)
	}

	sched := scheduler.New(db, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr: cfg.ServerAddr(),
		Handler: apiHandler.Routes(api.RouterOptions{
			IsDev:            cfg.IsDevelopment(),
			ContactPerMinute: cfg.ContactRateLimit,
			CommentPerMinute: cfg.CommentRateLimit,
			UploadsDir:       cfg.UploadsDir,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
