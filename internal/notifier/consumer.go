package notifier

import (
	"context"
	"fmt"

	"medbook/pkg/events"
	"medbook/pkg/kafka"
	"medbook/pkg/logger"
)

// EventHandler dispatches booking events to the notifier. Unknown event
// types are skipped rather than retried; they are not errors worth a DLQ
// round trip.
type EventHandler struct {
	notifier Notifier
	log      *logger.Logger
}

func NewEventHandler(notifier Notifier, log *logger.Logger) *EventHandler {
	return &EventHandler{
		notifier: notifier,
		log:      log,
	}
}

func (h *EventHandler) Handle(ctx context.Context, msg kafka.Message) error {
	switch msg.EventType() {
	case events.TypeBookingCreated:
		ev, err := events.Unmarshal[events.BookingCreated](msg.Value)
		if err != nil {
			return fmt.Errorf("booking.created: %w", err)
		}
		return h.notifier.BookingCreated(ctx, ev)

	case events.TypeBookingCancelled:
		ev, err := events.Unmarshal[events.BookingCancelled](msg.Value)
		if err != nil {
			return fmt.Errorf("booking.cancelled: %w", err)
		}
		return h.notifier.BookingCancelled(ctx, ev)

	default:
		h.log.Warn("Skipping unknown event type",
			"event_type", msg.EventType(),
			"key", msg.Key,
		)
		return nil
	}
}
