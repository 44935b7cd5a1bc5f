// Package events publishes booking and refund lifecycle facts for the notification dispatcher.
package events

//go:generate go run go.uber.org/mock/mockgen -source=./events.go -destination=./mocks/events_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"workspace/config"
	"workspace/infras/kafka"
	"workspace/infras/otel"
	bookingModel "workspace/internal/domains/booking/model"
	"workspace/shared/constant"
	"workspace/shared/timezone"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeBookingCreated   Type = "booking.created"
	TypeBookingConfirmed Type = "booking.confirmed"
	TypeBookingCancelled Type = "booking.cancelled"
	TypeRefundProcessed  Type = "refund.processed"
)

type BookingEvent struct {
	Type        Type            `json:"type"`
	BookingID   string          `json:"booking_id"`
	BookingCode string          `json:"booking_code"`
	RoomID      string          `json:"room_id"`
	CustomerID  string          `json:"customer_id"`
	Status      string          `json:"status"`
	StartTime   time.Time       `json:"start_time"`
	EndTime     time.Time       `json:"end_time"`
	FinalAmount decimal.Decimal `json:"final_amount"`
	Currency    string          `json:"currency"`
	Reason      string          `json:"reason,omitempty"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

func NewBookingEvent(eventType Type, booking bookingModel.Booking, reason string) BookingEvent {
	return BookingEvent{
		Type:        eventType,
		BookingID:   booking.ID,
		BookingCode: booking.BookingCode,
		RoomID:      booking.RoomID,
		CustomerID:  booking.CustomerID,
		Status:      string(booking.Status),
		StartTime:   booking.StartTime,
		EndTime:     booking.EndTime,
		FinalAmount: booking.FinalAmount,
		Currency:    booking.Currency,
		Reason:      reason,
		OccurredAt:  timezone.NowUTC(),
	}
}

type RefundEvent struct {
	Type          Type            `json:"type"`
	RefundID      string          `json:"refund_id"`
	BookingID     string          `json:"booking_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	TransactionID string          `json:"transaction_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

type Publisher interface {
	PublishBooking(ctx context.Context, event BookingEvent) error
	PublishRefund(ctx context.Context, event RefundEvent) error
	// Go runs publish in the background on a context detached from the caller.
	Go(ctx context.Context, publish func(ctx context.Context) error)
}

type publisherImpl struct {
	client kafka.Client
	cfg    *config.Config
	otel   otel.Otel
}

func New(client kafka.Client, cfg *config.Config, otel otel.Otel) Publisher {
	return &publisherImpl{
		client: client,
		cfg:    cfg,
		otel:   otel,
	}
}

func (p *publisherImpl) PublishBooking(ctx context.Context, event BookingEvent) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".PublishBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	topic, err := p.topic(event.Type)
	if err != nil {
		return err
	}

	return p.client.SendMessages(ctx, topic, kafka.Message{Key: event.BookingID, Value: event}) //nolint:wrapcheck
}

func (p *publisherImpl) PublishRefund(ctx context.Context, event RefundEvent) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".PublishRefund")
	defer scope.End()
	defer scope.TraceIfError(err)

	topic, err := p.topic(event.Type)
	if err != nil {
		return err
	}

	return p.client.SendMessages(ctx, topic, kafka.Message{Key: event.BookingID, Value: event}) //nolint:wrapcheck
}

func (p *publisherImpl) Go(ctx context.Context, publish func(ctx context.Context) error) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := publish(c); err != nil {
			log.Error().Err(err).Msg("failed to publish event")
		}
	}()
}

func (p *publisherImpl) topic(eventType Type) (string, error) {
	topics := p.cfg.Kafka.Topics

	switch eventType {
	case TypeBookingCreated:
		return topics.BookingCreated, nil
	case TypeBookingConfirmed:
		return topics.BookingConfirmed, nil
	case TypeBookingCancelled:
		return topics.BookingCancelled, nil
	case TypeRefundProcessed:
		return topics.RefundProcessed, nil
	default:
		return "", fmt.Errorf("unknown event type %q", eventType)
	}
}
