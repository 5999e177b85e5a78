package storage

import (
	"context"

	"github.com/sirupsen/logrus"

	"foodfleet/pkg/events"
)

// LogPublisher records events in the log when no broker is configured.
type LogPublisher struct {
	Logger *logrus.Logger
}

func (p LogPublisher) Publish(_ context.Context, ev events.OrderEvent) error {
	p.Logger.WithFields(logrus.Fields{
		"order_id": ev.OrderID,
		"type":     ev.Type,
		"stage":    ev.Stage,
	}).Info("Order event")
	return nil
}

var (
	_ Publisher = (*KafkaPublisher)(nil)
	_ Publisher = (*BreakerPublisher)(nil)
	_ Publisher = LogPublisher{}
)
