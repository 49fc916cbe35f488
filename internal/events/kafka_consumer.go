package events

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/urbanly-services/provider-dashboard/internal/common/kafka"
)

// Consumer reacts to events from the payment and checkout services:
// tip captures update the booking, and new bookings of independent
// businesses are auto-assigned to their owner.
type Consumer struct {
	payments *kafka.Consumer
	bookings *kafka.Consumer
	handler  Handlers
	logger   *zap.Logger
}

// Handlers holds the application callbacks invoked per consumed event.
type Handlers struct {
	TipPaid        func(ctx context.Context, evt TipPaidEvent) error
	BookingCreated func(ctx context.Context, evt BookingCreatedEvent) error
}

// NewConsumer creates readers for the payment and booking topics.
func NewConsumer(brokers []string, groupID string, handler Handlers, logger *zap.Logger) *Consumer {
	return &Consumer{
		payments: kafka.NewConsumer(brokers, groupID, TopicPaymentEvents, logger),
		bookings: kafka.NewConsumer(brokers, groupID, TopicBookingEvents, logger),
		handler:  handler,
		logger:   logger,
	}
}

// Start runs both consume loops until the context is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	go func() {
		if err := c.payments.Consume(ctx, c.handleMessage); err != nil && ctx.Err() == nil {
			c.logger.Error("payment consumer stopped", zap.Error(err))
		}
	}()
	go func() {
		if err := c.bookings.Consume(ctx, c.handleMessage); err != nil && ctx.Err() == nil {
			c.logger.Error("booking consumer stopped", zap.Error(err))
		}
	}()
}

// Close closes both underlying readers.
func (c *Consumer) Close() error {
	errP := c.payments.Close()
	errB := c.bookings.Close()
	if errP != nil {
		return errP
	}
	return errB
}

func (c *Consumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	ce, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		return err
	}

	switch ce.Type {
	case PaymentTipPaid:
		var evt TipPaidEvent
		if err := ce.ParseData(&evt); err != nil {
			return err
		}
		c.logger.Info("tip paid event received",
			zap.String("booking_id", evt.BookingID.String()),
			zap.Int64("tip_amount_cents", evt.TipAmountCents),
		)
		return c.handler.TipPaid(ctx, evt)

	case PaymentBookingCreated:
		var evt BookingCreatedEvent
		if err := ce.ParseData(&evt); err != nil {
			return err
		}
		c.logger.Info("booking created event received",
			zap.String("booking_id", evt.BookingID.String()),
		)
		return c.handler.BookingCreated(ctx, evt)

	default:
		// Events published by this service come back on the same topics;
		// ignore anything we don't handle.
		return nil
	}
}
