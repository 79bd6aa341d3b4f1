package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Event types
const (
	EventPaymentRecorded = "payment.recorded"
	EventOrderCompleted  = "order.completed"
	EventOrderDeleted    = "order.deleted"
)

// Event is the envelope of every published message
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OrderID    string    `json:"orderId"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload,omitempty"`
}

type PaymentRecordedPayload struct {
	PaymentID uint            `json:"paymentId"`
	Cash      decimal.Decimal `json:"cash"`
	Transfer  decimal.Decimal `json:"transfer"`
	Amount    decimal.Decimal `json:"amount"`
	Balance   decimal.Decimal `json:"balance"`
	Status    string          `json:"status"`
}

type OrderCompletedPayload struct {
	TotalCost decimal.Decimal `json:"totalCost"`
	Amount    decimal.Decimal `json:"amount"`
}

// EventBus publishes domain events. A nil EventBus disables publishing.
type EventBus interface {
	Publish(ctx context.Context, ev Event) error
}

func newEvent(eventType, orderID string, at time.Time, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OrderID:    orderID,
		OccurredAt: at,
		Payload:    payload,
	}
}

// KafkaEventBus writes JSON events keyed by order id. Publish hands the
// write to a goroutine so a slow or absent broker never holds a request;
// delivery failures are only logged.
type KafkaEventBus struct {
	writer  *kafka.Writer
	log     *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewKafkaEventBus(brokers []string, topic string, log *zap.Logger) *KafkaEventBus {
	return &KafkaEventBus{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
			MaxAttempts:  3,
		},
		log:     log,
		timeout: 5 * time.Second,
	}
}

func (b *KafkaEventBus) Publish(ctx context.Context, ev Event) error {
	value, err := encodeEvent(ev)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(ev.OrderID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(ev.Type)},
		},
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.timeout)
		defer cancel()
		if err := b.writer.WriteMessages(ctx, msg); err != nil {
			b.log.Warn("Failed to deliver event",
				zap.String("type", ev.Type),
				zap.String("order_id", ev.OrderID),
				zap.Error(err),
			)
		}
	}()
	return nil
}

// Close waits for in-flight publishes before closing the writer
func (b *KafkaEventBus) Close() error {
	b.wg.Wait()
	return b.writer.Close()
}

func encodeEvent(ev Event) ([]byte, error) {
	return json.Marshal(ev)
}
