package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"

	"medbook/pkg/client"
)

type TestEnv struct {
	MongoURI     string
	DatabaseName string
	ServerURL    string
	ServerPort   string
}

func NewTestEnv() *TestEnv {
	serverPort := getEnv("TEST_SERVER_PORT", "8080")
	return &TestEnv{
		MongoURI:     getEnv("TEST_MONGO_URI", DefaultMongoURI),
		DatabaseName: getEnv("TEST_DB_NAME", DefaultDatabaseName),
		ServerPort:   serverPort,
		ServerURL:    getEnv("TEST_SERVER_URL", fmt.Sprintf("http://localhost:%s", serverPort)),
	}
}

// Setup connects the Mongo helper and waits for the service. Tests are
// skipped entirely unless TEST_SERVER_URL is set, so unit runs stay offline.
func (e *TestEnv) Setup(t *testing.T) (*MongoHelper, *client.BookingClient) {
	t.Helper()

	if os.Getenv("TEST_SERVER_URL") == "" {
		t.Skip("TEST_SERVER_URL not set, skipping integration tests")
	}

	mongoHelper := NewMongoHelper(t, e.MongoURI, e.DatabaseName)

	bookingClient := client.NewBookingClient(e.ServerURL)
	if err := bookingClient.WaitForHealthy(30 * time.Second); err != nil {
		t.Fatalf("server never became healthy: %v", err)
	}

	return mongoHelper, bookingClient
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
