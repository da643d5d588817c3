package testutil

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"medbook/pkg/model"
)

const (
	DefaultMongoURI     = "mongodb://localhost:27017"
	DefaultDatabaseName = "medbook"
	ConnectionTimeout   = 10 * time.Second
	BookingsCollection  = "Bookings"
)

type MongoHelper struct {
	Client   *mongo.Client
	Database *mongo.Database
	DBName   string
}

func NewMongoHelper(t *testing.T, mongoURI, dbName string) *MongoHelper {
	t.Helper()

	if mongoURI == "" {
		mongoURI = DefaultMongoURI
	}
	if dbName == "" {
		dbName = DefaultDatabaseName
	}

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		t.Fatalf("failed to connect to MongoDB: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("failed to ping MongoDB: %v", err)
	}

	return &MongoHelper{
		Client:   client,
		Database: client.Database(dbName),
		DBName:   dbName,
	}
}

func (m *MongoHelper) Close(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		t.Logf("warning: failed to disconnect from MongoDB: %v", err)
	}
}

// SeedBooking inserts a booking directly, bypassing the API. Used to give a
// patient the history the add validator requires.
func (m *MongoHelper) SeedBooking(t *testing.T, patientID, doctorID int64, start, end time.Time) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := m.Database.Collection(BookingsCollection).InsertOne(ctx, model.Booking{
		PatientID: patientID,
		DoctorID:  doctorID,
		StartTime: start,
		EndTime:   end,
		Cancelled: false,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("failed to seed booking: %v", err)
	}
}

// DeletePatientBookings removes every booking for the patient so repeated
// runs start clean without dropping the whole collection.
func (m *MongoHelper) DeletePatientBookings(t *testing.T, patientID int64) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := m.Database.Collection(BookingsCollection).DeleteMany(ctx, bson.M{"patient_id": patientID})
	if err != nil {
		t.Fatalf("failed to delete patient bookings: %v", err)
	}
}

// FindBooking loads a booking by hex id straight from the store.
func (m *MongoHelper) FindBooking(t *testing.T, id string) *model.Booking {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		t.Fatalf("invalid booking id %q: %v", id, err)
	}

	var booking model.Booking
	err = m.Database.Collection(BookingsCollection).FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		t.Fatalf("failed to load booking %s: %v", id, err)
	}
	return &booking
}
