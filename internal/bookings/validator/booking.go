package validator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"medbook/internal/bookings/repository"
	"medbook/pkg/config"
	"medbook/pkg/logger"
	"medbook/pkg/model"
)

// Business rule messages. These are the exact strings surfaced to callers,
// so changing them is an API change.
const (
	MsgPatientDoesNotExist = "Specified patient does not exist"
	MsgStartTimeInPast     = "Specified booking start time is in the past"
	MsgDoctorAlreadyBooked = "Doctor already booked between specified start and end times"
)

// Result is an immutable validation outcome. Checks run in a fixed order and
// stop at the first failure, so Errors holds at most one business rule
// message for add requests.
type Result struct {
	Passed bool
	Errors []string
}

func (r Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0]
}

func pass() Result {
	return Result{Passed: true}
}

func fail(messages ...string) Result {
	return Result{Passed: false, Errors: messages}
}

// addCheck is one step of the add pipeline: an empty message means the check
// passed, a non-empty one short-circuits the pipeline. The error return is
// for store failures only, never rule rejections.
type addCheck func(ctx context.Context, req *model.AddBookingRequest) (string, error)

// BookingValidator checks proposed mutations against current store state.
// It only ever reads; mutations belong to the service.
type BookingValidator struct {
	repo                   repository.BookingRepository
	validate               *validator.Validate
	allowFirstTimePatients bool
	log                    *logger.Logger
}

func NewBookingValidator(repo repository.BookingRepository, cfg *config.Config) *BookingValidator {
	return &BookingValidator{
		repo:                   repo,
		validate:               validator.New(),
		allowFirstTimePatients: cfg.AllowFirstTimePatients,
		log:                    cfg.Log,
	}
}

func (v *BookingValidator) ValidateAdd(ctx context.Context, req *model.AddBookingRequest) (Result, error) {
	if msgs := v.structuralErrors(req); len(msgs) > 0 {
		return fail(msgs...), nil
	}

	checks := []addCheck{
		v.checkPatientHistory,
		v.checkStartNotInPast,
		v.checkDoctorNotBooked,
	}

	for _, check := range checks {
		msg, err := check(ctx, req)
		if err != nil {
			return Result{}, err
		}
		if msg != "" {
			return fail(msg), nil
		}
	}

	return pass(), nil
}

// ValidateCancel performs structural validation only. The baseline contract
// carries no business rules for cancellation; existence is settled by the
// service during the lookup.
func (v *BookingValidator) ValidateCancel(_ context.Context, req *model.CancelBookingRequest) (Result, error) {
	if msgs := v.structuralErrors(req); len(msgs) > 0 {
		return fail(msgs...), nil
	}
	return pass(), nil
}

// checkPatientHistory rejects patients with no booking history. Inherited
// product behavior: patient records are seeded as bookings, so "no prior
// booking" is read as "unknown patient". AllowFirstTimePatients disables it.
func (v *BookingValidator) checkPatientHistory(ctx context.Context, req *model.AddBookingRequest) (string, error) {
	if v.allowFirstTimePatients {
		return "", nil
	}

	exists, err := v.repo.HasBookingForPatient(ctx, req.PatientID)
	if err != nil {
		return "", err
	}
	if !exists {
		return MsgPatientDoesNotExist, nil
	}
	return "", nil
}

func (v *BookingValidator) checkStartNotInPast(_ context.Context, req *model.AddBookingRequest) (string, error) {
	if req.StartTime.Before(time.Now().UTC()) {
		return MsgStartTimeInPast, nil
	}
	return "", nil
}

// checkDoctorNotBooked matches only bookings fully contained in the
// requested window. Partial overlaps pass; see the doctor-conflict notes in
// DESIGN.md before "fixing" this.
func (v *BookingValidator) checkDoctorNotBooked(ctx context.Context, req *model.AddBookingRequest) (string, error) {
	booked, err := v.repo.HasDoctorBookingWithin(ctx, req.DoctorID, req.StartTime, req.EndTime)
	if err != nil {
		return "", err
	}
	if booked {
		return MsgDoctorAlreadyBooked, nil
	}
	return "", nil
}

func (v *BookingValidator) structuralErrors(req any) []string {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		messages = append(messages, translateFieldError(fieldErr))
	}
	return messages
}

func translateFieldError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
	case "mongodb":
		return fmt.Sprintf("%s must be a valid booking ID", err.Field())
	default:
		return err.Error()
	}
}
