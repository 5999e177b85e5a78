package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodfleet/pkg/events"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

type failingPublisher struct {
	calls int
	err   error
}

func (p *failingPublisher) Publish(context.Context, events.OrderEvent) error {
	p.calls++
	return p.err
}

func TestKafkaPublisher_KeysByOrderID(t *testing.T) {
	w := &recordingWriter{}
	pub := NewKafkaPublisher(w)

	ev := events.OrderEvent{Type: events.TypeStageChanged, OrderID: "order-1", Stage: "preparing", Timestamp: time.Now().UTC()}
	require.NoError(t, pub.Publish(context.Background(), ev))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "order-1", string(w.msgs[0].Key))
	assert.Equal(t, "type", w.msgs[0].Headers[0].Key)
	assert.Equal(t, events.TypeStageChanged, string(w.msgs[0].Headers[0].Value))

	var decoded events.OrderEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, "preparing", decoded.Stage)
}

func TestKafkaPublisher_WriterError(t *testing.T) {
	pub := NewKafkaPublisher(&recordingWriter{err: errors.New("no brokers")})
	err := pub.Publish(context.Background(), events.OrderEvent{OrderID: "o"})
	assert.EqualError(t, err, "no brokers")
}

func TestBreakerPublisher_OpensAfterConsecutiveFailures(t *testing.T) {
	logger, hook := test.NewNullLogger()
	next := &failingPublisher{err: errors.New("broker down")}
	pub := NewBreakerPublisher(next, BreakerConfig{Name: "test", MaxFailures: 3, OpenTimeout: time.Hour}, logger)

	for i := 0; i < 3; i++ {
		assert.Error(t, pub.Publish(context.Background(), events.OrderEvent{OrderID: "o"}))
	}
	assert.Equal(t, gobreaker.StateOpen, pub.State())

	err := pub.Publish(context.Background(), events.OrderEvent{OrderID: "o"})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, next.calls)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "open", hook.LastEntry().Data["to"])
}

func TestBreakerPublisher_PassesThroughWhenHealthy(t *testing.T) {
	logger, _ := test.NewNullLogger()
	next := &failingPublisher{}
	pub := NewBreakerPublisher(next, DefaultBreakerConfig(), logger)

	for i := 0; i < 10; i++ {
		require.NoError(t, pub.Publish(context.Background(), events.OrderEvent{OrderID: "o"}))
	}
	assert.Equal(t, 10, next.calls)
	assert.Equal(t, gobreaker.StateClosed, pub.State())
}

func TestLogPublisher(t *testing.T) {
	logger, hook := test.NewNullLogger()
	pub := LogPublisher{Logger: logger}

	require.NoError(t, pub.Publish(context.Background(), events.OrderEvent{Type: events.TypeOrderDelivered, OrderID: "o", Stage: "delivered"}))
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, "o", hook.LastEntry().Data["order_id"])
	assert.Equal(t, events.TypeOrderDelivered, hook.LastEntry().Data["type"])
}
