package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"
	"tailscale.com/tsnet"

	"github.com/meutreino/skill/internal/catalog"
	"github.com/meutreino/skill/internal/coach"
	"github.com/meutreino/skill/internal/config"
	"github.com/meutreino/skill/internal/litestore"
	"github.com/meutreino/skill/internal/recovery"
	"github.com/meutreino/skill/internal/redisstore"
	"github.com/meutreino/skill/internal/reminder"
	"github.com/meutreino/skill/internal/server"
	"github.com/meutreino/skill/internal/speech"
	"github.com/meutreino/skill/internal/statelist"
	"github.com/meutreino/skill/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// backend is what every store driver provides: the state list service, the
// reminder service and the due-reminder queue.
type backend interface {
	statelist.Service
	reminder.Service
	reminder.Store
	server.Pinger
}

var (
	_ backend = (*storage.DB)(nil)
	_ backend = (*litestore.DB)(nil)
	_ backend = (*redisstore.Store)(nil)
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("MeuTreino starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log = newLogger(cfg.Log)

	ctx := context.Background()
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	workouts, err := newCatalog(cfg.Catalog)
	if err != nil {
		log.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	turns := coach.New(coach.Config{
		Lists:     store,
		Reminders: store,
		Catalog:   workouts,
		Renderer:  speech.NewRenderer(speech.NewRandChooser(time.Now().UnixNano())),
		Locale:    cfg.Reminder.Locale,
		ListName:  cfg.Store.ListName,
		Log:       log,
	})

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	// Reminder delivery
	var notifier reminder.Notifier = reminder.LogNotifier{Log: log}
	if cfg.Reminder.WebhookURL != "" {
		notifier = reminder.NewWebhookNotifier(cfg.Reminder.WebhookURL)
	}
	go reminder.NewDispatcher(store, notifier, cfg.Reminder.DispatchInterval, log).Run(runCtx)

	if cfg.Session.IdleTimeout > 0 {
		go sweepIdle(runCtx, turns, cfg.Session.IdleTimeout, log)
	}

	srv := server.New(turns, turns, store, cfg.Auth.APIKey, log)

	// Start server: tsnet or plain HTTP
	var listener net.Listener

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}

// newLogger builds the process logger. A configured log file is rotated by
// lumberjack and receives the same records as stdout.
func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.Level))); err != nil {
		level = slog.LevelInfo
	}

	var out io.Writer = os.Stdout
	if cfg.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		})
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}

// openStore opens the configured backend. Postgres migrations run first.
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (backend, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		dsn := cfg.Database.DSN()
		if err := storage.RunMigrations(dsn, cfg.Store.MigrationsPath); err != nil {
			return nil, nil, fmt.Errorf("migration failed: %w", err)
		}
		log.Info("migrations applied")

		db, err := storage.New(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		log.Info("database connected")
		return db, db.Close, nil

	case config.DriverRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store := redisstore.New(rdb, cfg.Redis.Prefix)
		if err := store.Ping(ctx); err != nil {
			_ = rdb.Close()
			return nil, nil, err
		}
		log.Info("redis connected", "addr", cfg.Redis.Addr)
		return store, func() { _ = rdb.Close() }, nil

	default:
		db, err := litestore.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		log.Info("sqlite store opened", "path", cfg.Store.SQLitePath)
		return db, func() { _ = db.Close() }, nil
	}
}

func newCatalog(cfg config.CatalogConfig) (recovery.Catalog, error) {
	if cfg.Source == config.SourceFile {
		return catalog.LoadFile(cfg.File)
	}
	return catalog.NewClient(cfg.BaseURL, cfg.Token,
		catalog.WithRateLimit(cfg.RequestsPerSecond, 1),
		catalog.WithTimeout(cfg.Timeout),
	), nil
}

// sweepIdle periodically drops idle in-memory sessions. Their persisted
// state is recovered on the user's next turn.
func sweepIdle(ctx context.Context, turns *coach.Controller, idle time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(max(idle/2, time.Second))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := turns.SweepIdle(idle); n > 0 {
				log.Debug("idle sessions dropped", "count", n)
			}
		}
	}
}
