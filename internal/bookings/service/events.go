package service

import (
	"context"

	"medbook/pkg/events"
	"medbook/pkg/kafka"
	"medbook/pkg/model"
)

// EventPublisher announces booking lifecycle changes to downstream
// consumers (notifier and anything else on the topic).
type EventPublisher interface {
	BookingCreated(ctx context.Context, booking *model.Booking) error
	BookingCancelled(ctx context.Context, booking *model.Booking) error
}

// NopEventPublisher is used when no brokers are configured.
type NopEventPublisher struct{}

func (NopEventPublisher) BookingCreated(context.Context, *model.Booking) error   { return nil }
func (NopEventPublisher) BookingCancelled(context.Context, *model.Booking) error { return nil }

type kafkaEventPublisher struct {
	producer *kafka.Producer
	source   string
}

func NewKafkaEventPublisher(producer *kafka.Producer, source string) EventPublisher {
	return &kafkaEventPublisher{
		producer: producer,
		source:   source,
	}
}

func (p *kafkaEventPublisher) BookingCreated(ctx context.Context, booking *model.Booking) error {
	payload := events.BookingCreated{
		BookingID: booking.ID,
		PatientID: booking.PatientID,
		DoctorID:  booking.DoctorID,
		StartTime: booking.StartTime,
		EndTime:   booking.EndTime,
	}
	return p.publish(ctx, booking.ID, events.TypeBookingCreated, payload)
}

func (p *kafkaEventPublisher) BookingCancelled(ctx context.Context, booking *model.Booking) error {
	payload := events.BookingCancelled{
		BookingID: booking.ID,
		PatientID: booking.PatientID,
		DoctorID:  booking.DoctorID,
		StartTime: booking.StartTime,
	}
	return p.publish(ctx, booking.ID, events.TypeBookingCancelled, payload)
}

func (p *kafkaEventPublisher) publish(ctx context.Context, key, eventType string, payload any) error {
	msg, err := kafka.NewMessage().
		WithKey(key).
		WithValue(payload).
		WithEventType(eventType).
		WithSource(p.source).
		Build()
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, msg)
}
