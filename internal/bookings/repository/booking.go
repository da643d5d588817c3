package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingserrors "medbook/internal/bookings/errors"
	"medbook/pkg/config"
	mongotx "medbook/pkg/db/mongo"
	"medbook/pkg/model"
)

const (
	CollectionName = "Bookings"
)

// BookingRepository is the store surface consumed by the validator (reads)
// and the service (reads and mutations). Implementations must stay safe for
// concurrent use; the service provides no coordination beyond per-mutation
// transactions.
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindNextByPatient(ctx context.Context, patientID int64, after time.Time) (*model.Booking, error)
	HasBookingForPatient(ctx context.Context, patientID int64) (bool, error)
	HasDoctorBookingWithin(ctx context.Context, doctorID int64, start, end time.Time) (bool, error)
	SetCancelled(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout caps the call unless we are inside a transaction, where the
// session context cannot be wrapped without breaking transaction semantics.
func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			return context.WithTimeout(ctx, remaining)
		}
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

// FindNextByPatient returns the patient's earliest booking starting strictly
// after the given instant. Cancelled bookings are not excluded; see the
// next-booking notes in DESIGN.md.
func (r *mongoBookingRepository) FindNextByPatient(ctx context.Context, patientID int64, after time.Time) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"patient_id": patientID,
		"start_time": bson.M{"$gt": after},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "start_time", Value: 1}})

	var booking model.Booking
	err := r.collection.FindOne(ctx, filter, opts).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find next booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) HasBookingForPatient(ctx context.Context, patientID int64) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"patient_id": patientID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check patient bookings: %w", err)
	}
	return count > 0, nil
}

// HasDoctorBookingWithin reports whether the doctor has a booking whose
// interval lies inside [start, end]. Containment, not intersection: a
// booking that merely overlaps one edge of the window does not match.
func (r *mongoBookingRepository) HasDoctorBookingWithin(ctx context.Context, doctorID int64, start, end time.Time) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"doctor_id":  doctorID,
		"start_time": bson.M{"$gte": start},
		"end_time":   bson.M{"$lte": end},
	}

	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check doctor bookings: %w", err)
	}
	return count > 0, nil
}

// SetCancelled flips only the cancelled flag; every other field is left
// untouched and the document is never removed.
func (r *mongoBookingRepository) SetCancelled(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	update := bson.M{"$set": bson.M{"cancelled": true}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	if result.MatchedCount == 0 {
		return bookingserrors.ErrNotFound
	}

	return nil
}

func (r *mongoBookingRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	return count, nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
