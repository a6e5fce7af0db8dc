package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backend-trailhub/internal/catalog"
	"backend-trailhub/internal/config"
	"backend-trailhub/internal/db"
	"backend-trailhub/internal/logger"
	"backend-trailhub/internal/server"
	"backend-trailhub/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var mainDepsProvider = defaultDeps
var mainRunner = realMain

func main() {
	mainRunner(mainDepsProvider())
}

type mainDeps struct {
	loadConfig      func() config.Config
	newLogger       func(level string) (*zap.Logger, error)
	connectPostgres func(config.Config) (*pgxpool.Pool, error)
	connectRedis    func(config.Config) *redis.Client
	notify          func(chan<- os.Signal, ...os.Signal)
	run             func(context.Context, config.Config, *pgxpool.Pool, *redis.Client, *zap.Logger, <-chan os.Signal, ListenFunc) error
}

func defaultDeps() mainDeps {
	return mainDeps{
		loadConfig:      config.Load,
		newLogger:       logger.New,
		connectPostgres: db.ConnectPostgres,
		connectRedis:    db.ConnectRedis,
		notify:          signal.Notify,
		run:             Run,
	}
}

func realMain(deps mainDeps) {
	cfg := deps.loadConfig()

	zl, err := deps.newLogger(cfg.LogLevel)
	if err != nil {
		log.Printf("logger init failed, using no-op logger: %v", err)
	}
	zl = logger.OrNop(zl)
	defer func() { _ = zl.Sync() }()

	var pg *pgxpool.Pool
	if cfg.UsePostgres() {
		pg, err = deps.connectPostgres(cfg)
		if err != nil {
			zl.Error("postgres connection failed, falling back to memory store", zap.Error(err))
		}
	}

	rdb := deps.connectRedis(cfg)
	if rdb == nil && cfg.RedisAddr != "" {
		zl.Warn("redis unreachable, running without catalog cache", zap.String("addr", cfg.RedisAddr))
	}

	signals := make(chan os.Signal, 1)
	deps.notify(signals, syscall.SIGINT, syscall.SIGTERM)

	if err := deps.run(context.Background(), cfg, pg, rdb, zl, signals, nil); err != nil {
		zl.Error("server exited with error", zap.Error(err))
	}
}

type ListenFunc func(app *fiber.App, addr string) error

var defaultListen ListenFunc = func(app *fiber.App, addr string) error {
	return app.Listen(addr)
}

var shutdownFn = func(app *fiber.App, ctx context.Context) error {
	return app.ShutdownWithContext(ctx)
}

// openStore picks the entity store backend and seeds the pin catalog.
func openStore(ctx context.Context, cfg config.Config, pg *pgxpool.Pool, zl *zap.Logger) (*store.Store, error) {
	st := store.NewMemory()
	if pg != nil && cfg.UsePostgres() {
		if err := store.Migrate(ctx, pg); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		st = store.NewPostgres(pg)
	}
	if cfg.SeedCatalog {
		if _, err := catalog.Seed(ctx, st.Pins, zl); err != nil {
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
	}
	return st, nil
}

// Run starts the HTTP server and waits for termination signals.
func Run(ctx context.Context, cfg config.Config, pg *pgxpool.Pool, rdb *redis.Client, zl *zap.Logger, signals <-chan os.Signal, listen ListenFunc) error {
	zl = logger.OrNop(zl)
	st, err := openStore(ctx, cfg, pg, zl)
	if err != nil {
		return err
	}
	srv := server.NewServer(cfg, st, rdb, zl)

	if listen == nil {
		listen = defaultListen
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- listen(srv.App, cfg.ServerPort)
	}()
	zl.Info("server starting", zap.String("addr", cfg.ServerPort), zap.String("store", cfg.StoreDriver))

	select {
	case <-signals:
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := shutdownFn(srv.App, shutdownCtx); err != nil {
		return err
	}
	if pg != nil {
		pg.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	zl.Info("server stopped")
	return nil
}
