package model

import "time"

// Booking is a scheduled appointment between a patient and a doctor.
// Cancelled bookings are retained with the flag set, never deleted.
type Booking struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	PatientID int64     `json:"patient_id" bson:"patient_id" validate:"required,min=1"`
	DoctorID  int64     `json:"doctor_id" bson:"doctor_id" validate:"required,min=1"`
	StartTime time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" bson:"end_time" validate:"required"`
	Cancelled bool      `json:"cancelled" bson:"cancelled"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// AddBookingRequest is the POST /api/v1/bookings body. Start/end ordering is
// deliberately not enforced here; the booking validator owns the business
// rules.
type AddBookingRequest struct {
	PatientID int64     `json:"patient_id" validate:"required,min=1"`
	DoctorID  int64     `json:"doctor_id" validate:"required,min=1"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
}

// CancelBookingRequest is the DELETE /api/v1/bookings body.
type CancelBookingRequest struct {
	BookingID string `json:"booking_id" validate:"required,mongodb"`
}

// NextBooking is the trimmed view returned by the next-appointment lookup.
type NextBooking struct {
	ID        string    `json:"id"`
	DoctorID  int64     `json:"doctor_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

func (b *Booking) NextView() *NextBooking {
	return &NextBooking{
		ID:        b.ID,
		DoctorID:  b.DoctorID,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
	}
}
