package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/abhisek/tutorloop/internal/config"
	"github.com/abhisek/tutorloop/internal/events"
	"github.com/abhisek/tutorloop/internal/games"
	"github.com/abhisek/tutorloop/internal/ingest"
	"github.com/abhisek/tutorloop/internal/llm"
	"github.com/abhisek/tutorloop/internal/logger"
	"github.com/abhisek/tutorloop/internal/orchestrator"
	"github.com/abhisek/tutorloop/internal/server"
	"github.com/abhisek/tutorloop/internal/session"
	"github.com/abhisek/tutorloop/internal/tutor"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tutoring HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

// runServe builds the dependency graph and runs the HTTP server until
// SIGINT/SIGTERM.
func runServe(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg := config.FromEnv()
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}
	if p, _ := cmd.Flags().GetString("events-db"); p != "" {
		cfg.EventsPath = p
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(cfg.Mode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	recorder, err := openRecorder(cfg, log)
	if err != nil {
		return err
	}
	defer recorder.Close()

	provider, err := llm.NewProvider(ctx, cfg.LLM, log, recorder)
	if err != nil {
		return fmt.Errorf("init LLM provider: %w", err)
	}

	store, err := openSessionStore(cfg)
	if err != nil {
		return fmt.Errorf("init session store: %w", err)
	}
	defer store.Close()

	orch := orchestrator.New(orchestrator.Options{
		Store:     store,
		Extractor: ingest.NewLLMExtractor(provider, ingest.DefaultConfig()),
		Tutor:     tutor.NewService(provider, tutor.ConfigFromTuning(cfg.Tuning)),
		Generator: games.NewGenerator(provider, games.ConfigFromTuning(cfg.Tuning)),
		Recorder:  recorder,
		Log:       log,
		Tuning:    cfg.Tuning,
	})

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.NewRouter(server.RouterConfig{
			Orchestrator:   orch,
			Store:          store,
			Log:            log,
			AllowedOrigins: cfg.AllowedOrigins,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Addr, "store", cfg.Store.Driver, "provider", provider.ModelID())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openRecorder opens the SQLite event log, or a no-op recorder when the
// path is empty.
func openRecorder(cfg config.Config, log *logger.Logger) (events.Recorder, error) {
	if cfg.EventsPath == "" {
		return events.Nop(), nil
	}
	rec, err := events.Open(cfg.EventsPath)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	log.Info("event log open", "path", cfg.EventsPath)
	return rec, nil
}

func openSessionStore(cfg config.Config) (session.Store, error) {
	switch cfg.Store.Driver {
	case "memory":
		return session.NewMemoryStore(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Store.RedisAddr,
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
		})
		return session.NewRedisStore(client, cfg.Store.SessionTTL), nil
	default:
		return nil, fmt.Errorf("unknown session store driver: %q", cfg.Store.Driver)
	}
}
