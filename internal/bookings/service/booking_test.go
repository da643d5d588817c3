package service

import (
	"context"
	"errors"
	"testing"
	"time"

	bookingserrors "medbook/internal/bookings/errors"
	"medbook/internal/bookings/validator"
	"medbook/pkg/config"
	mongotx "medbook/pkg/db/mongo"
	apperrors "medbook/pkg/errors"
	"medbook/pkg/logger"
	"medbook/pkg/model"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockBookingRepository struct {
	createFunc                 func(ctx context.Context, booking *model.Booking) error
	findByIDFunc               func(ctx context.Context, id string) (*model.Booking, error)
	findNextByPatientFunc      func(ctx context.Context, patientID int64, after time.Time) (*model.Booking, error)
	hasBookingForPatientFunc   func(ctx context.Context, patientID int64) (bool, error)
	hasDoctorBookingWithinFunc func(ctx context.Context, doctorID int64, start, end time.Time) (bool, error)
	setCancelledFunc           func(ctx context.Context, id string) error

	created   []*model.Booking
	cancelled []string
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = "507f1f77bcf86cd799439011"
	booking.CreatedAt = time.Now().UTC()
	m.created = append(m.created, booking)
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindNextByPatient(ctx context.Context, patientID int64, after time.Time) (*model.Booking, error) {
	if m.findNextByPatientFunc != nil {
		return m.findNextByPatientFunc(ctx, patientID, after)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) HasBookingForPatient(ctx context.Context, patientID int64) (bool, error) {
	if m.hasBookingForPatientFunc != nil {
		return m.hasBookingForPatientFunc(ctx, patientID)
	}
	return true, nil
}

func (m *mockBookingRepository) HasDoctorBookingWithin(ctx context.Context, doctorID int64, start, end time.Time) (bool, error) {
	if m.hasDoctorBookingWithinFunc != nil {
		return m.hasDoctorBookingWithinFunc(ctx, doctorID, start, end)
	}
	return false, nil
}

func (m *mockBookingRepository) SetCancelled(ctx context.Context, id string) error {
	if m.setCancelledFunc != nil {
		return m.setCancelledFunc(ctx, id)
	}
	m.cancelled = append(m.cancelled, id)
	return nil
}

func (m *mockBookingRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.created)), nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type recordingPublisher struct {
	created   []*model.Booking
	cancelled []*model.Booking
	err       error
}

func (p *recordingPublisher) BookingCreated(ctx context.Context, booking *model.Booking) error {
	p.created = append(p.created, booking)
	return p.err
}

func (p *recordingPublisher) BookingCancelled(ctx context.Context, booking *model.Booking) error {
	p.cancelled = append(p.cancelled, booking)
	return p.err
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.FormatJSON,
			Service: "test",
		}),
	}
}

func newTestService(repo *mockBookingRepository, publisher EventPublisher) BookingService {
	cfg := testConfig()
	return NewBookingService(repo, validator.NewBookingValidator(repo, cfg), publisher, cfg)
}

func futureAddRequest() *model.AddBookingRequest {
	start := time.Now().UTC().Add(24 * time.Hour)
	return &model.AddBookingRequest{
		PatientID: 42,
		DoctorID:  7,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	}
}

// ────────────────────────────────────────────────
// AddBooking
// ────────────────────────────────────────────────

func TestAddBooking_Success(t *testing.T) {
	repo := &mockBookingRepository{}
	publisher := &recordingPublisher{}
	svc := newTestService(repo, publisher)

	req := futureAddRequest()
	booking, err := svc.AddBooking(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected exactly one insert, got %d", len(repo.created))
	}
	stored := repo.created[0]
	if stored.PatientID != req.PatientID || stored.DoctorID != req.DoctorID {
		t.Fatalf("stored booking ids mismatch: %+v", stored)
	}
	if !stored.StartTime.Equal(req.StartTime) || !stored.EndTime.Equal(req.EndTime) {
		t.Fatalf("stored booking times mismatch: %+v", stored)
	}
	if stored.Cancelled {
		t.Fatal("new booking must not be cancelled")
	}
	if booking.ID == "" {
		t.Fatal("expected assigned booking ID")
	}
	if len(publisher.created) != 1 {
		t.Fatalf("expected one created event, got %d", len(publisher.created))
	}
}

func TestAddBooking_ValidationFailureLeavesStoreUntouched(t *testing.T) {
	repo := &mockBookingRepository{
		hasBookingForPatientFunc: func(ctx context.Context, patientID int64) (bool, error) {
			return false, nil
		},
	}
	publisher := &recordingPublisher{}
	svc := newTestService(repo, publisher)

	_, err := svc.AddBooking(context.Background(), futureAddRequest())
	if err == nil {
		t.Fatal("expected rejection")
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != apperrors.CodeInvalidInput {
		t.Fatalf("got code %s, want %s", appErr.Code, apperrors.CodeInvalidInput)
	}
	if appErr.Message != validator.MsgPatientDoesNotExist {
		t.Fatalf("got %q, want first rule message %q", appErr.Message, validator.MsgPatientDoesNotExist)
	}
	if len(repo.created) != 0 {
		t.Fatal("rejected request must not write to the store")
	}
	if len(publisher.created) != 0 {
		t.Fatal("rejected request must not publish events")
	}
}

func TestAddBooking_PublishFailureDoesNotFailRequest(t *testing.T) {
	repo := &mockBookingRepository{}
	publisher := &recordingPublisher{err: errors.New("broker down")}
	svc := newTestService(repo, publisher)

	if _, err := svc.AddBooking(context.Background(), futureAddRequest()); err != nil {
		t.Fatalf("publish failure must not surface: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected booking committed, got %d inserts", len(repo.created))
	}
}

func TestAddBooking_StoreErrorDuringValidation(t *testing.T) {
	repo := &mockBookingRepository{
		hasBookingForPatientFunc: func(ctx context.Context, patientID int64) (bool, error) {
			return false, errors.New("connection reset")
		},
	}
	svc := newTestService(repo, nil)

	_, err := svc.AddBooking(context.Background(), futureAddRequest())
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != apperrors.CodeInternal {
		t.Fatalf("store failure must be internal, got %s", appErr.Code)
	}
}

// ────────────────────────────────────────────────
// CancelBooking
// ────────────────────────────────────────────────

func TestCancelBooking_Success(t *testing.T) {
	const id = "507f1f77bcf86cd799439011"
	existing := &model.Booking{ID: id, PatientID: 42, DoctorID: 7}
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, lookupID string) (*model.Booking, error) {
			if lookupID != id {
				return nil, bookingserrors.ErrNotFound
			}
			return existing, nil
		},
	}
	publisher := &recordingPublisher{}
	svc := newTestService(repo, publisher)

	err := svc.CancelBooking(context.Background(), &model.CancelBookingRequest{BookingID: id})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.cancelled) != 1 || repo.cancelled[0] != id {
		t.Fatalf("expected one cancel for %s, got %v", id, repo.cancelled)
	}
	if len(publisher.cancelled) != 1 {
		t.Fatalf("expected one cancelled event, got %d", len(publisher.cancelled))
	}
}

func TestCancelBooking_UnknownIDIsNotFound(t *testing.T) {
	repo := &mockBookingRepository{}
	svc := newTestService(repo, nil)

	err := svc.CancelBooking(context.Background(), &model.CancelBookingRequest{
		BookingID: "507f1f77bcf86cd799439099",
	})

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("got code %s, want %s", appErr.Code, apperrors.CodeNotFound)
	}
	if len(repo.cancelled) != 0 {
		t.Fatal("unknown booking must not be cancelled")
	}
}

func TestCancelBooking_MalformedIDRejected(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, nil)

	err := svc.CancelBooking(context.Background(), &model.CancelBookingRequest{BookingID: "nope"})

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != apperrors.CodeInvalidInput {
		t.Fatalf("got code %s, want %s", appErr.Code, apperrors.CodeInvalidInput)
	}
}

// ────────────────────────────────────────────────
// GetPatientNextBooking
// ────────────────────────────────────────────────

func TestGetPatientNextBooking_ReturnsEarliestFutureBooking(t *testing.T) {
	now := time.Now().UTC()
	next := &model.Booking{
		ID:        "507f1f77bcf86cd799439011",
		PatientID: 42,
		DoctorID:  7,
		StartTime: now.Add(2 * time.Hour),
		EndTime:   now.Add(3 * time.Hour),
	}
	repo := &mockBookingRepository{
		findNextByPatientFunc: func(ctx context.Context, patientID int64, after time.Time) (*model.Booking, error) {
			if after.Before(now) {
				t.Errorf("lookup cutoff %v precedes call time %v", after, now)
			}
			return next, nil
		},
	}
	svc := newTestService(repo, nil)

	booking, err := svc.GetPatientNextBooking(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.ID != next.ID {
		t.Fatalf("got booking %s, want %s", booking.ID, next.ID)
	}
}

func TestGetPatientNextBooking_CancelledBookingStillReturned(t *testing.T) {
	cancelledBooking := &model.Booking{
		ID:        "507f1f77bcf86cd799439011",
		PatientID: 42,
		DoctorID:  7,
		StartTime: time.Now().UTC().Add(time.Hour),
		Cancelled: true,
	}
	repo := &mockBookingRepository{
		findNextByPatientFunc: func(ctx context.Context, patientID int64, after time.Time) (*model.Booking, error) {
			return cancelledBooking, nil
		},
	}
	svc := newTestService(repo, nil)

	booking, err := svc.GetPatientNextBooking(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !booking.Cancelled {
		t.Fatal("cancelled bookings are not filtered from the lookup")
	}
}

func TestGetPatientNextBooking_NoUpcomingIsNotFound(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, nil)

	_, err := svc.GetPatientNextBooking(context.Background(), 42)

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("got code %s, want %s", appErr.Code, apperrors.CodeNotFound)
	}
}

func TestGetPatientNextBooking_NonPositivePatientID(t *testing.T) {
	svc := newTestService(&mockBookingRepository{}, nil)

	for _, patientID := range []int64{0, -5} {
		_, err := svc.GetPatientNextBooking(context.Background(), patientID)

		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			t.Fatalf("patient %d: expected AppError, got %T", patientID, err)
		}
		if appErr.Code != apperrors.CodeInvalidInput {
			t.Fatalf("patient %d: got code %s, want %s", patientID, appErr.Code, apperrors.CodeInvalidInput)
		}
	}
}
