package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"firewatch/internal/auth"
	"firewatch/internal/comments"
	"firewatch/internal/config"
	"firewatch/internal/db"
	"firewatch/internal/fires"
	"firewatch/internal/httpserver"
	"firewatch/internal/logging"
	"firewatch/internal/metrics"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	var (
		userStore    auth.UserStore
		sessionStore auth.SessionStore
		fireStore    fires.Store
		commentStore comments.Store
	)

	switch cfg.Store {
	case "memory":
		logger.Warn("using in-memory stores, all data is lost on restart")
		memUsers := auth.NewMemoryUserStore()
		userStore = memUsers
		sessionStore = auth.NewMemorySessionStore()
		fireStore = fires.NewMemoryStore(memUsers)
		commentStore = comments.NewMemoryStore(memUsers)
	default:
		dbConn, err := db.Open(ctx, cfg.DBDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		defer dbConn.Close()

		if err := db.RunMigrations(ctx, dbConn, "sql"); err != nil {
			log.Fatalf("run migrations: %v", err)
		}

		userStore = auth.NewPostgresUserStore(dbConn)
		pgSessions := auth.NewPostgresSessionStore(dbConn)
		sessionStore = pgSessions
		fireStore = fires.NewPostgresStore(dbConn)
		commentStore = comments.NewPostgresStore(dbConn)

		go sessionJanitor(ctx, pgSessions, logger)
	}

	if cfg.SeedPath != "" {
		if err := auth.SeedFromFile(ctx, userStore, cfg.SeedPath); err != nil {
			log.Fatalf("seed users: %v", err)
		}
	}

	authSvc := auth.NewService(userStore, sessionStore, cfg.JWTSecret, cfg.SessionTTL())
	fireSvc := fires.NewService(fireStore, logger)
	commentSvc := comments.NewService(commentStore, fireStore, logger)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	handler := httpserver.NewRouter(logger, authSvc, fireSvc, commentSvc, collector, registry)
	server := httpserver.New(cfg.HTTPAddr, handler, logger)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("http server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("shutdown", "err", err)
	}
}

// sessionJanitor prunes expired session rows hourly. Lookups already
// exclude expired sessions; this just keeps the table from growing.
func sessionJanitor(ctx context.Context, sessions *auth.PostgresSessionStore, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sessions.DeleteExpired(ctx); err != nil {
				logger.Error("delete expired sessions", "err", err)
			}
		}
	}
}
