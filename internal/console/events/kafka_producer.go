// Package events publishes audit events for operator mutations to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

type EventType string

const (
	RecordCreated EventType = "created"
	RecordUpdated EventType = "updated"
	RecordDeleted EventType = "deleted"
	StatusChanged EventType = "status_changed"
)

// Event records one successful mutation made through the console.
type Event struct {
	Type     EventType      `json:"type"`
	Entity   string         `json:"entity"`
	RecordID string         `json:"record_id,omitempty"`
	Actor    string         `json:"actor,omitempty"`
	Changes  map[string]any `json:"changes,omitempty"`
	At       time.Time      `json:"at"`
}

// Publisher accepts audit events without blocking the caller.
type Publisher interface {
	Produce(event Event)
	Close()
}

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Config struct {
	Brokers     []string
	Topic       string
	Buffer      int
	DialRetries uint64
}

type Producer struct {
	writer    KafkaWriter
	events    chan Event
	logger    *zap.Logger
	closeChan chan struct{}
	done      chan struct{}
}

// NewProducer ensures the topic exists and starts the delivery loop. The
// first broker is dialed with exponential backoff.
func NewProducer(ctx context.Context, cfg Config, logger *zap.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers configured")
	}
	logger = logger.Named("kafka_producer")

	retries := cfg.DialRetries
	if retries == 0 {
		retries = 5
	}
	var conn *kafka.Conn
	err := backoff.Retry(func() error {
		var err error
		conn, err = kafka.DialContext(ctx, "tcp", cfg.Brokers[0])
		if err != nil {
			logger.Warn("kafka dial failed, retrying", zap.String("broker", cfg.Brokers[0]), zap.Error(err))
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), retries), ctx))
	if err != nil {
		return nil, fmt.Errorf("dial kafka: %w", err)
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             cfg.Topic,
		NumPartitions:     3,
		ReplicationFactor: 1,
	})
	if err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err))
	}

	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Balancer: &kafka.LeastBytes{},
		Topic:    cfg.Topic,
	}
	return newProducer(writer, cfg.Buffer, logger), nil
}

func newProducer(writer KafkaWriter, buffer int, logger *zap.Logger) *Producer {
	if buffer <= 0 {
		buffer = 1000
	}
	p := &Producer{
		writer:    writer,
		events:    make(chan Event, buffer),
		logger:    logger,
		closeChan: make(chan struct{}),
		done:      make(chan struct{}),
	}
	go p.eventLoop()
	return p
}

// Produce queues an event. When the queue is full the event is dropped.
func (p *Producer) Produce(event Event) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	select {
	case p.events <- event:
	default:
		p.logger.Warn("Kafka producer queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("entity", event.Entity),
			zap.String("record_id", event.RecordID),
		)
	}
}

func (p *Producer) eventLoop() {
	defer close(p.done)
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			p.drain()
			return
		}
	}
}

// drain delivers whatever is still queued at shutdown.
func (p *Producer) drain() {
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		default:
			return
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.String("record_id", event.RecordID),
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Entity + "/" + event.RecordID),
		Value: value,
	})
	if err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("record_id", event.RecordID),
		)
	}
}

func (p *Producer) Close() {
	close(p.closeChan)
	<-p.done
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}

// Noop discards events. It stands in when no brokers are configured.
type Noop struct {
	Logger *zap.Logger
}

func (n Noop) Produce(event Event) {
	if n.Logger != nil {
		n.Logger.Debug("audit event",
			zap.String("event_type", string(event.Type)),
			zap.String("entity", event.Entity),
			zap.String("record_id", event.RecordID),
		)
	}
}

func (Noop) Close() {}
