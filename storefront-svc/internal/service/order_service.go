package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"foodfleet/pkg/events"
	"foodfleet/storefront-svc/internal/cart"
	"foodfleet/storefront-svc/internal/checkout"
	"foodfleet/storefront-svc/internal/domain"
	"foodfleet/storefront-svc/internal/tracker"
)

var ErrOrderNotFound = errors.New("order not found")

const (
	DefaultStepInterval = 15 * time.Second
	DefaultDeliveryETA  = 45 * time.Minute
	// DefaultRetention is how long a delivered order stays readable.
	DefaultRetention = 30 * time.Minute

	publishTimeout = 5 * time.Second
	outboxSize     = 256
)

type OrderOption func(*OrderService)

func WithStepInterval(d time.Duration) OrderOption {
	return func(s *OrderService) { s.interval = d }
}

func WithDeliveryETA(d time.Duration) OrderOption {
	return func(s *OrderService) { s.eta = d }
}

// WithRetention sets how long delivered orders are kept before eviction.
// Non-positive values keep the default.
func WithRetention(d time.Duration) OrderOption {
	return func(s *OrderService) {
		if d > 0 {
			s.retention = d
		}
	}
}

func WithScheduler(sched tracker.Scheduler) OrderOption {
	return func(s *OrderService) { s.sched = sched }
}

func WithClock(now func() time.Time) OrderOption {
	return func(s *OrderService) { s.now = now }
}

func WithIDGenerator(newID func() string) OrderOption {
	return func(s *OrderService) { s.newID = newID }
}

func WithLogger(log *logrus.Logger) OrderOption {
	return func(s *OrderService) { s.log = log }
}

type placedOrder struct {
	order   domain.Order
	tracker *tracker.Tracker
	qr      []byte
	expiry  tracker.Timer
}

// OrderService accepts checkouts and owns the progress tracker of every
// order it placed until the order is discarded, evicted after delivery, or
// the service shuts down. Stage events go through a buffered outbox drained
// by one goroutine, so a slow broker never holds up a tracker.
type OrderService struct {
	carts     cart.Store
	validator *checkout.Validator
	publisher EventPublisher
	notifier  ProgressNotifier
	qr        QRGenerator

	interval  time.Duration
	eta       time.Duration
	retention time.Duration
	sched     tracker.Scheduler
	now       func() time.Time
	newID     func() string
	log       *logrus.Logger

	mu     sync.RWMutex
	orders map[string]*placedOrder

	outMu     sync.RWMutex
	outbox    chan events.OrderEvent
	outClosed bool
	pubDone   chan struct{}
}

func NewOrderService(carts cart.Store, publisher EventPublisher, notifier ProgressNotifier, qr QRGenerator, opts ...OrderOption) *OrderService {
	s := &OrderService{
		carts:     carts,
		validator: checkout.NewValidator(),
		publisher: publisher,
		notifier:  notifier,
		qr:        qr,
		interval:  DefaultStepInterval,
		eta:       DefaultDeliveryETA,
		retention: DefaultRetention,
		sched:     tracker.RealScheduler(),
		now:       time.Now,
		newID:     uuid.NewString,
		log:       logrus.StandardLogger(),
		orders:    make(map[string]*placedOrder),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.publisher != nil {
		s.outbox = make(chan events.OrderEvent, outboxSize)
		s.pubDone = make(chan struct{})
		go s.drainOutbox()
	}
	return s
}

// PlaceOrder submits the session's cart. Submission always succeeds once
// the cart is non-empty and the form is valid; the cart is emptied and the
// order starts progressing immediately. The order is built from the cart
// as it was taken, so of two concurrent submits only one places an order.
func (s *OrderService) PlaceOrder(ctx context.Context, sessionID string, form checkout.Form) (domain.Order, error) {
	ledger, err := s.carts.Load(ctx, sessionID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("load cart: %w", err)
	}
	if err := ledger.CheckCheckout(); err != nil {
		return domain.Order{}, err
	}
	if err := s.validator.Validate(form); err != nil {
		return domain.Order{}, err
	}

	ledger, err = s.carts.Take(ctx, sessionID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("take cart: %w", err)
	}
	if err := ledger.CheckCheckout(); err != nil {
		return domain.Order{}, err
	}

	now := s.now()
	lines := ledger.OrderLines()
	order := domain.Order{
		ID:                s.newID(),
		Restaurants:       restaurantsOf(lines),
		Lines:             lines,
		Totals:            ledger.ComputeTotals(),
		Delivery:          form.Delivery(),
		EstimatedDelivery: now.Add(s.eta),
		CreatedAt:         now,
	}

	orderID := order.ID
	tr := tracker.New(s.interval,
		tracker.WithScheduler(s.sched),
		tracker.WithClock(s.now),
		tracker.OnChange(func(p domain.Progress) { s.onProgress(orderID, p) }),
	)
	order.Progress = tr.Progress()

	entry := &placedOrder{order: order, tracker: tr}
	if s.qr != nil {
		if qr, err := s.qr.Generate(orderID); err == nil {
			entry.qr = qr
		} else {
			s.log.WithError(err).WithField("order_id", orderID).Warn("Failed to generate QR code")
		}
	}

	s.mu.Lock()
	s.orders[orderID] = entry
	s.mu.Unlock()

	s.publish(ctx, placedEvent(order))
	tr.Start()

	s.log.WithFields(logrus.Fields{
		"order_id":    orderID,
		"restaurants": order.Restaurants,
		"total":       order.Totals.Total.StringFixed(2),
	}).Info("Order placed")

	return cloneOrder(order), nil
}

func (s *OrderService) Get(id string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.orders[id]
	if !ok {
		return domain.Order{}, ErrOrderNotFound
	}
	order := cloneOrder(entry.order)
	order.Progress = entry.tracker.Progress()
	return order, nil
}

func (s *OrderService) Progress(id string) (domain.Progress, error) {
	s.mu.RLock()
	entry, ok := s.orders[id]
	s.mu.RUnlock()
	if !ok {
		return domain.Progress{}, ErrOrderNotFound
	}
	return entry.tracker.Progress(), nil
}

// QRCode returns the receipt QR, generating it again if the first attempt
// failed.
func (s *OrderService) QRCode(id string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	if len(entry.qr) == 0 && s.qr != nil {
		qr, err := s.qr.Generate(id)
		if err != nil {
			return nil, fmt.Errorf("generate qr code: %w", err)
		}
		entry.qr = qr
	}
	return entry.qr, nil
}

func (s *OrderService) QRLink(id string) string {
	return fmt.Sprintf("/api/orders/%s/qrcode", id)
}

// Discard stops tracking the order and forgets it.
func (s *OrderService) Discard(id string) error {
	s.mu.Lock()
	entry, ok := s.orders[id]
	delete(s.orders, id)
	var expiry tracker.Timer
	if ok {
		expiry = entry.expiry
	}
	s.mu.Unlock()
	if !ok {
		return ErrOrderNotFound
	}
	if expiry != nil {
		expiry.Stop()
	}
	entry.tracker.Stop()
	s.log.WithField("order_id", id).Info("Order tracking discarded")
	return nil
}

// Shutdown stops every tracker and eviction timer, then flushes queued
// events. Orders stay readable. Calling it again does nothing new.
func (s *OrderService) Shutdown() {
	s.mu.RLock()
	trackers := make([]*tracker.Tracker, 0, len(s.orders))
	for _, entry := range s.orders {
		trackers = append(trackers, entry.tracker)
	}
	s.mu.RUnlock()

	for _, tr := range trackers {
		tr.Stop()
	}

	s.mu.Lock()
	for _, entry := range s.orders {
		if entry.expiry != nil {
			entry.expiry.Stop()
			entry.expiry = nil
		}
	}
	s.mu.Unlock()
	s.log.WithField("orders", len(trackers)).Info("Order trackers stopped")

	s.outMu.Lock()
	if s.outbox != nil && !s.outClosed {
		s.outClosed = true
		close(s.outbox)
	}
	s.outMu.Unlock()
	if s.pubDone != nil {
		<-s.pubDone
	}
}

// onProgress runs under the tracker's notify lock, so it must not block on
// the broker.
func (s *OrderService) onProgress(orderID string, p domain.Progress) {
	s.mu.Lock()
	if entry, ok := s.orders[orderID]; ok {
		entry.order.Progress = p
		if p.Current.Terminal() && entry.expiry == nil {
			entry.expiry = s.sched.AfterFunc(s.retention, func() { s.expire(orderID) })
		}
	}
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"order_id": orderID,
		"stage":    p.Current,
	}).Info("Order progressed")

	if s.notifier != nil {
		s.notifier.Notify(orderID, p)
	}
	s.enqueue(progressEvent(orderID, p))
}

// expire evicts a delivered order once its retention has passed.
func (s *OrderService) expire(orderID string) {
	s.mu.Lock()
	entry, ok := s.orders[orderID]
	delete(s.orders, orderID)
	s.mu.Unlock()
	if !ok {
		return
	}
	entry.tracker.Stop()
	s.log.WithField("order_id", orderID).Info("Order expired")
}

func (s *OrderService) enqueue(ev events.OrderEvent) {
	s.outMu.RLock()
	defer s.outMu.RUnlock()
	if s.outbox == nil || s.outClosed {
		return
	}
	select {
	case s.outbox <- ev:
	default:
		s.log.WithFields(logrus.Fields{
			"order_id": ev.OrderID,
			"type":     ev.Type,
		}).Warn("Order event dropped, outbox full")
	}
}

func (s *OrderService) drainOutbox() {
	defer close(s.pubDone)
	for ev := range s.outbox {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		s.publish(ctx, ev)
		cancel()
	}
}

func (s *OrderService) publish(ctx context.Context, ev events.OrderEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"order_id": ev.OrderID,
			"type":     ev.Type,
		}).Warn("Failed to publish order event")
	}
}

func restaurantsOf(lines []domain.OrderLine) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range lines {
		if l.RestaurantID == "" || seen[l.RestaurantID] {
			continue
		}
		seen[l.RestaurantID] = true
		out = append(out, l.RestaurantID)
	}
	return out
}

func cloneOrder(o domain.Order) domain.Order {
	o.Restaurants = append([]string(nil), o.Restaurants...)
	o.Lines = append([]domain.OrderLine(nil), o.Lines...)
	o.Progress.Completed = append([]domain.Stage{}, o.Progress.Completed...)
	return o
}

func placedEvent(o domain.Order) events.OrderEvent {
	lines := make([]events.Line, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, events.Line{
			ItemID:       l.ItemID,
			RestaurantID: l.RestaurantID,
			Name:         l.Name,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
		})
	}
	return events.OrderEvent{
		Type:        events.TypeOrderPlaced,
		OrderID:     o.ID,
		Stage:       string(o.Progress.Current),
		Restaurants: o.Restaurants,
		Lines:       lines,
		Totals: &events.Totals{
			Subtotal:    o.Totals.Subtotal,
			DeliveryFee: o.Totals.DeliveryFee,
			Tax:         o.Totals.Tax,
			Total:       o.Totals.Total,
		},
		Delivery: &events.Delivery{
			FullName:      o.Delivery.FullName,
			Address:       o.Delivery.Address,
			City:          o.Delivery.City,
			PostalCode:    o.Delivery.PostalCode,
			Country:       o.Delivery.Country,
			PaymentMethod: o.Delivery.PaymentMethod,
		},
		EstimatedDelivery: o.EstimatedDelivery,
		Timestamp:         o.CreatedAt,
	}
}

func progressEvent(orderID string, p domain.Progress) events.OrderEvent {
	typ := events.TypeStageChanged
	if p.Current.Terminal() {
		typ = events.TypeOrderDelivered
	}
	return events.OrderEvent{
		Type:      typ,
		OrderID:   orderID,
		Stage:     string(p.Current),
		Timestamp: p.UpdatedAt,
	}
}

var _ OrderServiceInterface = (*OrderService)(nil)
