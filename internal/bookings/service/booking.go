package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "medbook/internal/bookings/errors"
	"medbook/internal/bookings/repository"
	"medbook/internal/bookings/validator"
	"medbook/pkg/config"
	apperrors "medbook/pkg/errors"
	"medbook/pkg/model"
)

type BookingService interface {
	AddBooking(ctx context.Context, req *model.AddBookingRequest) (*model.Booking, error)
	CancelBooking(ctx context.Context, req *model.CancelBookingRequest) error
	GetPatientNextBooking(ctx context.Context, patientID int64) (*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	validator *validator.BookingValidator
	publisher EventPublisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	validator *validator.BookingValidator,
	publisher EventPublisher,
	cfg *config.Config,
) BookingService {
	if publisher == nil {
		publisher = NopEventPublisher{}
	}
	return &bookingService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// AddBooking validates and inserts. The validation reads and the insert are
// not atomic: two concurrent adds for the same doctor window can both pass
// the conflict check. Accepted; the transaction scopes the insert only.
func (s *bookingService) AddBooking(ctx context.Context, req *model.AddBookingRequest) (*model.Booking, error) {
	result, err := s.validator.ValidateAdd(ctx, req)
	if err != nil {
		s.cfg.Log.Error("Failed to run add booking validation", "error", err)
		return nil, apperrors.Internal("Failed to validate booking", err)
	}
	if !result.Passed {
		s.cfg.Log.Warn("Add booking rejected",
			"patient_id", req.PatientID,
			"doctor_id", req.DoctorID,
			"reason", result.First(),
		)
		return nil, apperrors.InvalidInput(result.First())
	}

	booking := &model.Booking{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Cancelled: false,
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return nil, err
	}

	s.publishCreated(ctx, booking)

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"patient_id", booking.PatientID,
		"doctor_id", booking.DoctorID,
		"start_time", booking.StartTime,
	)
	return booking, nil
}

// CancelBooking flips the cancelled flag. An unknown booking id is a
// not-found error; the record itself is never deleted.
func (s *bookingService) CancelBooking(ctx context.Context, req *model.CancelBookingRequest) error {
	result, err := s.validator.ValidateCancel(ctx, req)
	if err != nil {
		return apperrors.Internal("Failed to validate cancellation", err)
	}
	if !result.Passed {
		s.cfg.Log.Warn("Cancel booking rejected", "booking_id", req.BookingID, "reason", result.First())
		return apperrors.InvalidInput(result.First())
	}

	booking, err := s.repo.FindByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", req.BookingID)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid booking ID format")
		}
		return apperrors.Internal("Failed to locate booking", err)
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.SetCancelled(sessCtx, req.BookingID); err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", req.BookingID)
			}
			return apperrors.Internal("Failed to cancel booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to cancel booking", "booking_id", req.BookingID, "error", err)
		return err
	}

	s.publishCancelled(ctx, booking)

	s.cfg.Log.Info("Booking cancelled successfully", "id", req.BookingID)
	return nil
}

// GetPatientNextBooking returns the earliest booking starting strictly after
// now (UTC). Cancelled bookings still qualify; callers that need them
// filtered should say so before that changes.
func (s *bookingService) GetPatientNextBooking(ctx context.Context, patientID int64) (*model.Booking, error) {
	if patientID <= 0 {
		return nil, apperrors.InvalidInput("Patient ID must be positive")
	}

	booking, err := s.repo.FindNextByPatient(ctx, patientID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Upcoming booking").WithDetails(map[string]any{
				"patient_id": patientID,
			})
		}
		return nil, apperrors.Internal("Failed to retrieve next booking", err)
	}

	return booking, nil
}

// Event publishing is best-effort: a broker outage must never fail a booking
// request that already committed.
func (s *bookingService) publishCreated(ctx context.Context, booking *model.Booking) {
	if err := s.publisher.BookingCreated(ctx, booking); err != nil {
		s.cfg.Log.Warn("Failed to publish booking.created event", "id", booking.ID, "error", err)
	}
}

func (s *bookingService) publishCancelled(ctx context.Context, booking *model.Booking) {
	if err := s.publisher.BookingCancelled(ctx, booking); err != nil {
		s.cfg.Log.Warn("Failed to publish booking.cancelled event", "id", booking.ID, "error", err)
	}
}
