package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"impostor"
	"impostor/internal/config"
	"impostor/internal/game"
	"impostor/internal/handlers"
	"impostor/internal/logger"
	"impostor/internal/notify"
	"impostor/internal/session"
	"impostor/internal/store"
)

func main() {
	// A .env file is optional; real deployments set the environment directly.
	godotenv.Load()

	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	if err := logger.Init(cfg.Server.LogLevel, cfg.Server.LogFormat); err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer zap.L().Sync()

	words, err := game.NewWordService(impostor.WordsYAML)
	if err != nil {
		zap.L().Fatal("initializing word catalog", zap.Error(err))
	}

	ctx := context.Background()

	var st store.Store
	if cfg.Server.DatabaseURL != "" {
		pg, err := store.NewPostgresStore(ctx, cfg.Server.DatabaseURL)
		if err != nil {
			zap.L().Fatal("connecting to database", zap.Error(err))
		}
		if err := pg.Migrate(ctx); err != nil {
			zap.L().Fatal("migrating database", zap.Error(err))
		}
		defer pg.Close()
		st = pg
		zap.L().Info("using postgres store")
	} else {
		st = store.NewMemoryStore()
		zap.L().Info("using in-memory store")
	}

	bus := notify.New()
	sessions := session.NewManager(st, bus, words)
	h := handlers.New(sessions, bus, words, cfg)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handlers.NewRouter(h, cfg),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout, // 0 for SSE support
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Janitor: expire rooms nobody has touched within RoomTimeout.
	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	if cfg.Server.RoomTimeout > 0 {
		go runJanitor(janitorCtx, sessions, cfg.Server.RoomTimeout, cfg.Server.CleanupInterval)
	}

	go func() {
		zap.L().Info("starting server", zap.String("addr", cfg.Addr()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zap.L().Fatal("forced shutdown", zap.Error(err))
	}

	zap.L().Info("server stopped")
}

func runJanitor(ctx context.Context, sessions *session.Manager, timeout, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.ExpireIdleRooms(ctx, time.Now().Add(-timeout))
			if err != nil {
				zap.L().Warn("expiring idle rooms", zap.Error(err))
				continue
			}
			if n > 0 {
				zap.L().Info("expired idle rooms", zap.Int("count", n))
			}
		}
	}
}
