package notifier

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"medbook/pkg/events"
	"medbook/pkg/kafka"
	"medbook/pkg/logger"
)

type recordingNotifier struct {
	created   []events.BookingCreated
	cancelled []events.BookingCancelled
}

func (n *recordingNotifier) BookingCreated(_ context.Context, ev events.BookingCreated) error {
	n.created = append(n.created, ev)
	return nil
}

func (n *recordingNotifier) BookingCancelled(_ context.Context, ev events.BookingCancelled) error {
	n.cancelled = append(n.cancelled, ev)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.FormatJSON,
		Service: "test",
	})
}

func eventMessage(t *testing.T, eventType string, payload any) kafka.Message {
	t.Helper()
	value, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	return kafka.Message{
		Key:     "42",
		Value:   value,
		Headers: map[string]string{kafka.HeaderEventType: eventType},
	}
}

func TestHandle_BookingCreated(t *testing.T) {
	rec := &recordingNotifier{}
	h := NewEventHandler(rec, testLogger())

	start := time.Now().UTC().Add(time.Hour)
	msg := eventMessage(t, events.TypeBookingCreated, events.BookingCreated{
		BookingID: "507f1f77bcf86cd799439011",
		PatientID: 42,
		DoctorID:  7,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})

	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.created) != 1 {
		t.Fatalf("expected one created notification, got %d", len(rec.created))
	}
	if rec.created[0].PatientID != 42 {
		t.Fatalf("unexpected event: %+v", rec.created[0])
	}
}

func TestHandle_BookingCancelled(t *testing.T) {
	rec := &recordingNotifier{}
	h := NewEventHandler(rec, testLogger())

	msg := eventMessage(t, events.TypeBookingCancelled, events.BookingCancelled{
		BookingID: "507f1f77bcf86cd799439011",
		PatientID: 42,
		DoctorID:  7,
		StartTime: time.Now().UTC().Add(time.Hour),
	})

	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.cancelled) != 1 {
		t.Fatalf("expected one cancellation notification, got %d", len(rec.cancelled))
	}
}

func TestHandle_UnknownEventTypeSkipped(t *testing.T) {
	rec := &recordingNotifier{}
	h := NewEventHandler(rec, testLogger())

	msg := eventMessage(t, "booking.rescheduled", map[string]string{"booking_id": "x"})

	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("unknown event types must be skipped, got %v", err)
	}
	if len(rec.created) != 0 || len(rec.cancelled) != 0 {
		t.Fatal("unknown event must not reach the notifier")
	}
}

func TestHandle_MalformedPayload(t *testing.T) {
	rec := &recordingNotifier{}
	h := NewEventHandler(rec, testLogger())

	msg := kafka.Message{
		Value:   []byte("{broken"),
		Headers: map[string]string{kafka.HeaderEventType: events.TypeBookingCreated},
	}

	if err := h.Handle(context.Background(), msg); err == nil {
		t.Fatal("expected decode error")
	}
	if len(rec.created) != 0 {
		t.Fatal("malformed payload must not reach the notifier")
	}
}
