package notifier

import (
	"context"

	"medbook/pkg/events"
	"medbook/pkg/logger"
)

// Notifier delivers appointment notifications. The log implementation
// stands in until an SMS/email channel is wired up.
type Notifier interface {
	BookingCreated(ctx context.Context, ev events.BookingCreated) error
	BookingCancelled(ctx context.Context, ev events.BookingCancelled) error
}

type logNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) Notifier {
	return &logNotifier{log: log}
}

func (n *logNotifier) BookingCreated(_ context.Context, ev events.BookingCreated) error {
	n.log.Info("Appointment confirmation",
		"booking_id", ev.BookingID,
		"patient_id", ev.PatientID,
		"doctor_id", ev.DoctorID,
		"start_time", ev.StartTime,
		"end_time", ev.EndTime,
	)
	return nil
}

func (n *logNotifier) BookingCancelled(_ context.Context, ev events.BookingCancelled) error {
	n.log.Info("Appointment cancellation notice",
		"booking_id", ev.BookingID,
		"patient_id", ev.PatientID,
		"doctor_id", ev.DoctorID,
		"start_time", ev.StartTime,
	)
	return nil
}
