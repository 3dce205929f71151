package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// MockKafkaWriter implements KafkaWriter for testing
type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestNewProducer_NoBrokers(t *testing.T) {
	_, err := NewProducer(context.Background(), Config{Topic: "audit"}, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestProducer_DeliversAndDrainsOnClose(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)
	mockWriter.On("Close").Return(nil)

	p := newProducer(mockWriter, 10, zaptest.NewLogger(t))
	at := time.Date(2024, 5, 17, 9, 0, 0, 0, time.UTC)
	p.Produce(Event{Type: StatusChanged, Entity: "companies", RecordID: "c1", Actor: "admin@registry.mw",
		Changes: map[string]any{"status": "Declined"}, At: at})
	p.Close()

	mockWriter.AssertNumberOfCalls(t, "WriteMessages", 1)
	msgs := mockWriter.Calls[0].Arguments.Get(1).([]kafka.Message)
	require.Len(t, msgs, 1)
	assert.Equal(t, "companies/c1", string(msgs[0].Key))

	var got Event
	require.NoError(t, json.Unmarshal(msgs[0].Value, &got))
	assert.Equal(t, StatusChanged, got.Type)
	assert.Equal(t, "admin@registry.mw", got.Actor)
	assert.Equal(t, "Declined", got.Changes["status"])
	assert.True(t, at.Equal(got.At))
	mockWriter.AssertCalled(t, "Close")
}

func TestProducer_DropsWhenQueueFull(t *testing.T) {
	core, recorded := observer.New(zap.WarnLevel)
	p := &Producer{
		events: make(chan Event, 1),
		logger: zap.New(core),
	}

	p.Produce(Event{Type: RecordCreated, Entity: "guards"})
	p.Produce(Event{Type: RecordCreated, Entity: "guards"})

	assert.Equal(t, 1, len(p.events))
	assert.Equal(t, 1, recorded.FilterMessage("Kafka producer queue full, dropping event").Len())
}

func TestProducer_SendEventErrors(t *testing.T) {
	t.Run("serialization error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		p := &Producer{writer: new(MockKafkaWriter), logger: zap.New(core)}

		oldMarshal := jsonMarshal
		jsonMarshal = func(_ interface{}) ([]byte, error) {
			return nil, errors.New("mock marshal error")
		}
		defer func() { jsonMarshal = oldMarshal }()

		p.sendEvent(context.Background(), Event{Type: RecordDeleted, RecordID: "f1"})

		assert.Equal(t, 1, recorded.FilterMessage("Failed to serialize event").Len())
		assert.Equal(t, 1, recorded.FilterField(zap.String("record_id", "f1")).Len())
	})

	t.Run("write error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		mockWriter := new(MockKafkaWriter)
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker down"))
		p := &Producer{writer: mockWriter, logger: zap.New(core)}

		p.sendEvent(context.Background(), Event{Type: RecordUpdated, RecordID: "g1"})

		assert.Equal(t, 1, recorded.FilterMessage("Failed to produce event").Len())
	})
}

func TestNoop(t *testing.T) {
	var pub Publisher = Noop{Logger: zaptest.NewLogger(t)}
	pub.Produce(Event{Type: RecordCreated})
	pub.Close()
}
