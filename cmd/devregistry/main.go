// Command devregistry serves an in-memory registry backend for running the
// console locally. It answers the same REST paths as the real backend.
package main

import (
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gartstein/guardroster/internal/console/devbackend"
	"github.com/gartstein/guardroster/internal/console/handlers"
	"go.uber.org/zap"
)

const (
	defaultPort     = 8081
	defaultSecret   = "jwt_secret"
	defaultEmail    = "admin@registry.mw"
	defaultPassword = "admin123"
)

func main() {
	logger, _ := zap.NewDevelopment()
	defer func() { _ = logger.Sync() }()

	port := defaultPort
	if v := os.Getenv("DEV_REGISTRY_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			logger.Fatal("invalid DEV_REGISTRY_PORT", zap.String("value", v), zap.Error(err))
		}
		port = p
	}

	backend := devbackend.New(devbackend.Config{
		Email:    getenv("DEV_REGISTRY_EMAIL", defaultEmail),
		Password: getenv("DEV_REGISTRY_PASSWORD", defaultPassword),
		Secret:   getenv("DEV_REGISTRY_SECRET", defaultSecret),
	}, logger)
	if err := backend.Seed(); err != nil {
		logger.Fatal("failed to seed registry", zap.Error(err))
	}

	server := handlers.NewServer(port, backend.Router(), logger)
	errCh := server.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case <-stop:
	case err, ok := <-errCh:
		if ok && err != nil {
			logger.Error("registry server failed", zap.Error(err))
		}
	}
	server.Stop()
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
