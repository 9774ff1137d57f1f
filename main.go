package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pathfinder-ai/pathfinder/internal/config"
	"github.com/pathfinder-ai/pathfinder/internal/domain"
	"github.com/pathfinder-ai/pathfinder/internal/genai"
	"github.com/pathfinder-ai/pathfinder/internal/handler"
	"github.com/pathfinder-ai/pathfinder/internal/repository/postgres"
	"github.com/pathfinder-ai/pathfinder/internal/repository/s3store"
	"github.com/pathfinder-ai/pathfinder/internal/repository/sqlite"
	"github.com/pathfinder-ai/pathfinder/internal/service"
)

func main() {
	logOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load configuration", "error", err)
		os.Exit(1)
	}

	store, files, cleanup, err := openStores(cfg)
	if err != nil {
		slog.Error("open storage backends", "error", err)
		os.Exit(1)
	}
	defer cleanup()
	slog.Info("storage ready", "driver", cfg.Driver, "files", cfg.FileBackend)

	ai := genai.New(cfg.GenAIBaseURL, cfg.GenAIAPIKey, cfg.GenAIModel)
	relay := genai.NewLiveRelay(cfg.GenAIBaseURL, cfg.GenAIAPIKey)

	registry := service.NewRegistry(store)
	sessions := service.NewSessionService(registry, store, cfg.JWTSecret)

	// Restore the persisted session before serving; an absent or corrupt
	// value just means starting unauthenticated.
	if sess, err := sessions.Restore(context.Background()); err != nil {
		slog.Error("restore session", "error", err)
		os.Exit(1)
	} else if sess != nil {
		slog.Info("session restored", "user", sess.User.Name)
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Services{
		Sessions:      sessions,
		Notifications: service.NewNotificationCenter(0, 0),
		Preferences:   service.NewPreferenceService(store),
		Views:         service.NewViewRouter(),
		Advisor:       service.NewAdvisorService(ai),
		Chat:          service.NewChatService(ai),
		Studio:        service.NewStudioService(ai, files, store),
		AI:            ai,
		LiveRelay:     relay,
		CookieSecure:  cfg.CookieSecure,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.SecurityHeaders(mux),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openStores builds the Persistent Store and File Store for the configured
// backends and returns a cleanup func closing whatever was opened. The
// SQLite file also serves as blob storage when S3 is not configured, even
// under the Postgres driver.
func openStores(cfg *config.Config) (domain.KVStore, domain.FileStore, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var store domain.KVStore
	var sqliteDB *sqlite.DB

	openSQLite := func() (*sqlite.DB, error) {
		db, err := sqlite.New(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		closers = append(closers, func() { db.Close() })
		if err := db.Migrate(context.Background()); err != nil {
			cleanup()
			return nil, err
		}
		return db, nil
	}

	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgres.New(cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		closers = append(closers, func() { db.Close() })
		if err := db.Migrate(context.Background()); err != nil {
			cleanup()
			return nil, nil, nil, err
		}
		store = db.KV(cfg.StoreQuota)
	default:
		db, err := openSQLite()
		if err != nil {
			return nil, nil, nil, err
		}
		sqliteDB = db
		store = db.KV(cfg.StoreQuota)
	}

	var files domain.FileStore
	switch cfg.FileBackend {
	case config.FilesS3:
		fs, err := s3store.New(context.Background(), s3store.Options{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			cleanup()
			return nil, nil, nil, err
		}
		files = fs
	default:
		if sqliteDB == nil {
			db, err := openSQLite()
			if err != nil {
				return nil, nil, nil, err
			}
			sqliteDB = db
		}
		files = sqliteDB.Files()
	}

	return store, files, cleanup, nil
}
