package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git-repository-analyzer/internal/config"
	"git-repository-analyzer/internal/database"
	"git-repository-analyzer/internal/evaluation"
	internalHttp "git-repository-analyzer/internal/http"
	"git-repository-analyzer/internal/logger"
	"git-repository-analyzer/internal/metrics"
	"git-repository-analyzer/internal/redis"
	"git-repository-analyzer/internal/session"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it, using environment variables")
	}

	os.Exit(run())
}

func run() int {
	cfg := config.Load()

	l, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer l.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, sessionCheck, err := sessionStore(ctx, cfg, l)
	if err != nil {
		l.Error("Failed to set up session store", zap.Error(err))
		return 1
	}
	defer closeStore()

	evaluations, closeEvaluations, evaluationCheck, err := evaluationStore(ctx, cfg, l)
	if err != nil {
		l.Error("Failed to set up evaluation store", zap.Error(err))
		return 1
	}
	defer closeEvaluations()

	sessions := session.NewManager(store, l)
	defer func() {
		if err := sessions.Close(); err != nil {
			l.Warn("Failed to close repositories", zap.Error(err))
		}
	}()

	m := metrics.New()
	h, err := internalHttp.NewHandler(cfg, sessions, evaluations, m, l)
	if err != nil {
		l.Error("Failed to create handler", zap.Error(err))
		return 1
	}
	if sessionCheck != nil {
		h.AddReadinessCheck("sessions", sessionCheck)
	}
	if evaluationCheck != nil {
		h.AddReadinessCheck("evaluations", evaluationCheck)
	}

	go sweepSessions(ctx, sessions, m, cfg.Session.SweepInterval, l)

	srv := &http.Server{
		Addr:         cfg.Dashboard.Addr,
		Handler:      h,
		ReadTimeout:  cfg.Dashboard.ReadTimeout,
		WriteTimeout: cfg.Dashboard.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		l.Info("Dashboard listening",
			zap.String("addr", "http://"+cfg.Dashboard.Addr),
			zap.String("downloads", cfg.Dashboard.DownloadsDir),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			l.Error("Server failed", zap.Error(err))
			return 1
		}
	case <-ctx.Done():
		l.Info("Shutting down dashboard...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			l.Warn("Graceful shutdown failed", zap.Error(err))
		}
	}

	l.Info("Dashboard exited")
	return 0
}

// sweepSessions closes the repositories of sessions that expired without
// coming back, until ctx is done
func sweepSessions(ctx context.Context, sessions *session.Manager, m *metrics.Metrics, interval time.Duration, l *zap.Logger) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := sessions.Sweep(ctx); err != nil {
				l.Warn("Session sweep failed", zap.Error(err))
			}
			m.SetActiveSessions(sessions.OpenHandles())
		}
	}
}

type readinessCheck = func(context.Context) error

func sessionStore(ctx context.Context, cfg *config.Config, l *zap.Logger) (session.Store, func(), readinessCheck, error) {
	switch cfg.Session.Backend {
	case config.SessionBackendMemory:
		return session.NewMemoryStore(cfg.Session.TTL), func() {}, nil, nil
	case config.SessionBackendRedis:
		l.Info("Connecting to Redis...", zap.String("address", cfg.Redis.Address))
		client, err := redis.NewClient(ctx, cfg.Redis, l)
		if err != nil {
			return nil, nil, nil, err
		}
		l.Info("Redis connected successfully")
		return session.NewRedisStore(client, cfg.Session.TTL), func() { client.Close() }, client.HealthCheck, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}

func evaluationStore(ctx context.Context, cfg *config.Config, l *zap.Logger) (evaluation.Store, func(), readinessCheck, error) {
	switch cfg.Evaluation.Backend {
	case config.EvaluationBackendFile:
		return evaluation.NewFileStore(cfg.Evaluation.Dir), func() {}, nil, nil
	case config.EvaluationBackendPostgres:
		l.Info("Connecting to database...")
		db, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		l.Info("Database connected successfully")
		return evaluation.NewPostgresStore(db), db.Close, db.Ping, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown evaluation backend %q", cfg.Evaluation.Backend)
	}
}
