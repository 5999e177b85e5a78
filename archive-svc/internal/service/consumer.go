package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"foodfleet/archive-svc/internal/domain"
	"foodfleet/pkg/events"
)

var ErrInvalidEvent = errors.New("invalid order event")

const (
	processAttempts = 3
	retryBackoff    = 500 * time.Millisecond
)

type Consumer struct {
	Reader     MessageReader
	Store      ArchiveStore
	Popularity PopularityStore
	Logger     *logrus.Logger
}

func NewConsumer(reader MessageReader, store ArchiveStore, popularity PopularityStore, logger *logrus.Logger) *Consumer {
	return &Consumer{
		Reader:     reader,
		Store:      store,
		Popularity: popularity,
		Logger:     logger,
	}
}

// Start reads order events until ctx is cancelled. A message is committed
// once it has been processed or given up on.
func (c *Consumer) Start(ctx context.Context) error {
	c.Logger.Info("Starting Archive Service consumer...")
	for {
		msg, err := c.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.Logger.WithError(err).Error("Error reading message")
			if !sleep(ctx, retryBackoff) {
				return nil
			}
			continue
		}

		c.handle(ctx, msg)

		if err := c.Reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.Logger.WithError(err).WithField("offset", msg.Offset).Error("Error committing message")
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) {
	var ev events.OrderEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		c.Logger.WithError(err).WithField("offset", msg.Offset).Warn("Error unmarshaling message")
		return
	}

	log := c.Logger.WithFields(logrus.Fields{"order_id": ev.OrderID, "type": ev.Type})
	var err error
	for attempt := 1; attempt <= processAttempts; attempt++ {
		if err = c.Process(ctx, ev); err == nil || errors.Is(err, ErrInvalidEvent) {
			break
		}
		log.WithError(err).WithField("attempt", attempt).Warn("Error processing order event")
		if !sleep(ctx, time.Duration(attempt)*retryBackoff) {
			return
		}
	}
	if err != nil {
		log.WithError(err).Error("Dropping order event")
	}
}

// Process applies one order event to the archive.
func (c *Consumer) Process(ctx context.Context, ev events.OrderEvent) error {
	if !ev.Valid() {
		return fmt.Errorf("%w: type %q order %q", ErrInvalidEvent, ev.Type, ev.OrderID)
	}

	switch ev.Type {
	case events.TypeOrderPlaced:
		return c.archive(ctx, ev)
	case events.TypeStageChanged, events.TypeOrderDelivered:
		stage := ev.Stage
		if ev.Type == events.TypeOrderDelivered {
			stage = domain.StageDelivered
		}
		if domain.StageRank(stage) < 0 {
			return fmt.Errorf("%w: unknown stage %q", ErrInvalidEvent, stage)
		}
		moved, err := c.Store.AdvanceStage(ctx, ev.OrderID, stage, ev.Timestamp)
		if err != nil {
			return err
		}
		if !moved {
			c.Logger.WithFields(logrus.Fields{"order_id": ev.OrderID, "stage": stage}).Debug("Stage update skipped")
		}
		return nil
	}
	return nil
}

func (c *Consumer) archive(ctx context.Context, ev events.OrderEvent) error {
	inserted, err := c.Store.SaveOrder(ctx, domain.FromPlaced(ev))
	if err != nil {
		return err
	}
	if !inserted {
		c.Logger.WithField("order_id", ev.OrderID).Debug("Order already archived")
		return nil
	}

	for _, l := range ev.Lines {
		if err := c.Popularity.Bump(ctx, l.RestaurantID, l.ItemID, l.Quantity, ev.Timestamp); err != nil {
			c.Logger.WithError(err).WithField("item_id", l.ItemID).Warn("Error updating popularity")
		}
	}
	c.Logger.WithField("order_id", ev.OrderID).Info("Order archived")
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
