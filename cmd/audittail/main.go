// Command audittail follows the console's audit topic and logs every
// operator mutation it sees.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/guardroster/internal/console/config"
	"github.com/gartstein/guardroster/internal/console/events"
	"go.uber.org/zap"
)

const groupID = "guardroster-audittail"

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	consumer, err := events.NewConsumer(events.ConsumerConfig{
		Brokers: cfg.KafkaBrokers,
		GroupID: groupID,
		Topic:   cfg.Topic,
	}, logger)
	if err != nil {
		logger.Fatal("failed to initialize Kafka consumer", zap.Error(err))
	}
	defer consumer.Close()

	consumer.RegisterHandler(func(_ context.Context, event events.Event) error {
		logger.Info("audit event",
			zap.String("event_type", string(event.Type)),
			zap.String("entity", event.Entity),
			zap.String("record_id", event.RecordID),
			zap.String("actor", event.Actor),
			zap.Any("changes", event.Changes),
			zap.Time("at", event.At),
		)
		return nil
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer.Start(ctx)
	logger.Info("following audit topic", zap.String("topic", cfg.Topic))
	consumer.Wait()
}
