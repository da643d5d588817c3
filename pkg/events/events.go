package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Booking lifecycle event types carried on the booking-events topic.
const (
	TypeBookingCreated   = "booking.created"
	TypeBookingCancelled = "booking.cancelled"
)

// BookingCreated carries enough for a patient/doctor notification without a
// store round trip.
type BookingCreated struct {
	BookingID string    `json:"booking_id"`
	PatientID int64     `json:"patient_id"`
	DoctorID  int64     `json:"doctor_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type BookingCancelled struct {
	BookingID string    `json:"booking_id"`
	PatientID int64     `json:"patient_id"`
	DoctorID  int64     `json:"doctor_id"`
	StartTime time.Time `json:"start_time"`
}

func Unmarshal[T any](b []byte) (T, error) {
	var t T
	if err := json.Unmarshal(b, &t); err != nil {
		var zero T
		return zero, fmt.Errorf("decode event payload failed: %w", err)
	}
	return t, nil
}
