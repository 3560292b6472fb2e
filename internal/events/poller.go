// Package events publishes completed orders to the event bus. Completed
// orders sit in an unpublished queue in the local store until the poller
// pushes them out; a recovery tick fails orders that never left PROCESSING.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/levelup-gamer/checkout/internal/domain"
	"github.com/levelup-gamer/checkout/internal/lifecycle"
)

const (
	// TopicOrderCompleted carries one message per completed order, keyed by
	// order code for partition ordering.
	TopicOrderCompleted = "order-completed"

	eventTypeCompleted = "order.completed"

	publishBatchSize = 100

	// StuckCutoff is how long an order may sit in PROCESSING before the
	// recovery tick fails it.
	StuckCutoff = 10 * time.Minute
)

// OrderCompletedEvent is the wire payload on the order-completed topic.
type OrderCompletedEvent struct {
	OrderCode   string                `json:"order_code"`
	UserID      string                `json:"user_id"`
	Items       []domain.CartLineItem `json:"items"`
	Subtotal    int64                 `json:"subtotal"`
	Discount    int64                 `json:"discount"`
	Tax         int64                 `json:"tax"`
	Total       int64                 `json:"total"`
	Currency    string                `json:"currency"`
	CompletedAt time.Time             `json:"completed_at"`
}

// MessageWriter is the slice of kafka.Writer the poller needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Poller struct {
	eventTick    time.Duration
	recoveryTick time.Duration
	store        lifecycle.LocalOrderStore
	writer       MessageWriter
	now          func() time.Time
	logger       zerolog.Logger
}

func NewPoller(store lifecycle.LocalOrderStore, logger zerolog.Logger, brokers ...string) *Poller {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicOrderCompleted,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Poller{
		eventTick:    time.Second,
		recoveryTick: 5 * time.Second,
		store:        store,
		writer:       w,
		now:          time.Now,
		logger:       logger,
	}
}

func (p *Poller) Run(ctx context.Context) {
	eventTicker := time.NewTicker(p.eventTick)
	recoveryTicker := time.NewTicker(p.recoveryTick)
	defer eventTicker.Stop()
	defer recoveryTicker.Stop()
	for {
		select {
		case <-eventTicker.C:
			p.publishCompletedOrders(ctx)
		case <-recoveryTicker.C:
			p.failStuckOrders(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Poller) publishCompletedOrders(ctx context.Context) {
	orders, err := p.store.Unpublished(ctx, publishBatchSize)
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to fetch unpublished orders")
		return
	}

	for _, order := range orders {
		if err := p.publish(ctx, order); err != nil {
			p.logger.Error().Err(err).Str("order_code", order.Code).Msg("failed to publish order event")
			continue
		}

		// a failed mark leaves the order queued; the next tick republishes it
		if err := p.store.MarkPublished(ctx, order.Code); err != nil {
			p.logger.Error().Err(err).Str("order_code", order.Code).Msg("failed to mark order as published")
		}
	}
}

// failStuckOrders settles orders abandoned mid-processing, e.g. after a crash
// between the charge and the status write.
func (p *Poller) failStuckOrders(ctx context.Context) {
	orders, err := p.store.StuckProcessing(ctx, StuckCutoff)
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to list stuck orders")
		return
	}

	for _, order := range orders {
		p.logger.Warn().Str("order_code", order.Code).Msg("failing stuck order")
		if err := p.store.UpdateStatus(ctx, order.Code, domain.OrderStatusFailed); err != nil {
			p.logger.Error().Err(err).Str("order_code", order.Code).Msg("failed to settle stuck order")
		}
	}
}

func (p *Poller) publish(ctx context.Context, order *domain.Order) error {
	payload, err := json.Marshal(newOrderCompletedEvent(order, p.now()))
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(order.Code),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventTypeCompleted)},
		},
	}
	return p.writer.WriteMessages(ctx, msg)
}

func newOrderCompletedEvent(order *domain.Order, completedAt time.Time) OrderCompletedEvent {
	return OrderCompletedEvent{
		OrderCode:   order.Code,
		UserID:      order.UserID,
		Items:       order.Items,
		Subtotal:    order.Subtotal,
		Discount:    order.Discount,
		Tax:         order.Tax,
		Total:       order.Total,
		Currency:    lifecycle.Currency,
		CompletedAt: completedAt,
	}
}
