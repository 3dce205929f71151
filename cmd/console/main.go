package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gartstein/guardroster/internal/console/apiclient"
	"github.com/gartstein/guardroster/internal/console/auth"
	"github.com/gartstein/guardroster/internal/console/config"
	"github.com/gartstein/guardroster/internal/console/controller"
	"github.com/gartstein/guardroster/internal/console/db"
	"github.com/gartstein/guardroster/internal/console/events"
	"github.com/gartstein/guardroster/internal/console/forms"
	"github.com/gartstein/guardroster/internal/console/handlers"
	"github.com/gartstein/guardroster/internal/console/metrics"
	"github.com/gartstein/guardroster/internal/console/session"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		// the logger level depends on the config
		bootstrap, _ := zap.NewProduction()
		bootstrap.Fatal("failed to load config", zap.Error(err))
	}

	logger := initLogger(cfg)
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	repo, err := db.NewRepository(&db.Config{Driver: cfg.DBDriver, DSN: cfg.DBDSN})
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}()

	collector := metrics.NewCollector()

	// The session store is both the token source of the client and a user of
	// the registry, so the interceptor reads it through a late-bound holder.
	tokens := &tokenHolder{}
	client := apiclient.NewClient(
		apiclient.Config{BaseURL: cfg.APIBaseURL, Timeout: cfg.APITimeout},
		logger,
		apiclient.WithRecorder(collector),
		apiclient.WithRequestHook(auth.NewInterceptor(tokens).Request()),
	)
	registry := apiclient.NewRegistry(client)
	store := session.NewStore(registry, repo, logger)
	tokens.set(store)

	publisher := initPublisher(cfg, logger)
	defer publisher.Close()

	pages := controller.NewPages(registry, controller.Deps{
		Validator: forms.NewValidator(),
		Publisher: publisher,
		Actor:     store,
		Observer:  collector,
		PageSize:  cfg.PageSize,
		Logger:    logger,
	})

	handler, err := handlers.NewHandler(store, pages, registry, collector, handlers.Config{
		Secret:      cfg.JWTSecret,
		SessionTTL:  cfg.SessionTTL,
		CORSOrigins: cfg.CORSOrigins,
	}, logger)
	if err != nil {
		logger.Fatal("failed to build console handler", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go store.Init(ctx)

	server := handlers.NewServer(cfg.HTTPPort, handler.Router(), logger)
	errCh := server.Start()

	waitForShutdown(server, errCh, logger)
}

func initLogger(cfg *config.Config) *zap.Logger {
	if cfg.Development() {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}

// initPublisher connects the audit producer. Without brokers, or when the
// brokers cannot be reached, events are only logged.
func initPublisher(cfg *config.Config, logger *zap.Logger) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("no kafka brokers configured, audit events are logged only")
		return events.Noop{Logger: logger.Named("audit")}
	}
	producer, err := events.NewProducer(context.Background(), events.Config{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.Topic,
	}, logger)
	if err != nil {
		logger.Error("failed to initialize Kafka producer", zap.Error(err))
		return events.Noop{Logger: logger.Named("audit")}
	}
	return producer
}

type tokenHolder struct {
	mu     sync.RWMutex
	source auth.TokenSource
}

func (t *tokenHolder) set(source auth.TokenSource) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.source = source
}

func (t *tokenHolder) Token() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.source == nil {
		return ""
	}
	return t.source.Token()
}

// waitForShutdown blocks until an interrupt, SIGTERM or a server failure,
// then stops the server.
func waitForShutdown(server *handlers.Server, errCh <-chan error, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case <-stop:
	case err, ok := <-errCh:
		if ok && err != nil {
			logger.Error("server failed", zap.Error(err))
		}
	}

	server.Stop()
	logger.Info("Server stopped properly")
}
