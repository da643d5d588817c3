package integrationtests

import (
	"net/http"
	"testing"
	"time"

	"medbook/pkg/model"
	"medbook/test/integration/testutil"
)

// Exercises the running bookings service end to end. Requires a server and a
// Mongo instance; skipped unless TEST_SERVER_URL is set.

func TestBookingLifecycle(t *testing.T) {
	env := testutil.NewTestEnv()
	mongoHelper, bookingClient := env.Setup(t)
	defer mongoHelper.Close(t)

	patientID := time.Now().UnixNano() % 1_000_000_000
	doctorID := int64(7)

	mongoHelper.DeletePatientBookings(t, patientID)

	// Patient records are seeded as bookings; without one the add validator
	// rejects the patient as unknown.
	seedStart := time.Now().UTC().Add(-48 * time.Hour)
	mongoHelper.SeedBooking(t, patientID, doctorID, seedStart, seedStart.Add(time.Hour))

	var created *model.Booking

	t.Run("add booking", func(t *testing.T) {
		resp, err := bookingClient.Add(addBody(patientID, doctorID, 24*time.Hour))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("got status %d, want %d: %s", resp.StatusCode, http.StatusCreated, resp.ToString())
		}
		created, err = bookingClient.DecodeBooking(resp)
		if err != nil {
			t.Fatal(err)
		}
		if created.ID == "" {
			t.Fatal("expected assigned booking id")
		}
		if created.Cancelled {
			t.Fatal("new booking must not be cancelled")
		}
	})

	t.Run("next booking returns the created slot", func(t *testing.T) {
		resp, err := bookingClient.NextForPatient(patientID)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("got status %d, want %d: %s", resp.StatusCode, http.StatusOK, resp.ToString())
		}
		next, err := bookingClient.DecodeNextBooking(resp)
		if err != nil {
			t.Fatal(err)
		}
		if next.ID != created.ID {
			t.Fatalf("next booking %s, want %s", next.ID, created.ID)
		}
	})

	t.Run("cancel booking", func(t *testing.T) {
		resp, err := bookingClient.Cancel(map[string]string{"booking_id": created.ID})
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("got status %d, want %d: %s", resp.StatusCode, http.StatusNoContent, resp.ToString())
		}

		stored := mongoHelper.FindBooking(t, created.ID)
		if !stored.Cancelled {
			t.Fatal("cancelled flag not set in store")
		}
		if !stored.StartTime.Equal(created.StartTime) || stored.PatientID != created.PatientID {
			t.Fatalf("cancel must only flip the flag, got %+v", stored)
		}
	})

	t.Run("cancelled booking still shows as next", func(t *testing.T) {
		resp, err := bookingClient.NextForPatient(patientID)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("got status %d, want %d: %s", resp.StatusCode, http.StatusOK, resp.ToString())
		}
		next, err := bookingClient.DecodeNextBooking(resp)
		if err != nil {
			t.Fatal(err)
		}
		if next.ID != created.ID {
			t.Fatalf("next booking %s, want cancelled booking %s", next.ID, created.ID)
		}
	})

	t.Run("cancel unknown booking is not found", func(t *testing.T) {
		resp, err := bookingClient.Cancel(map[string]string{"booking_id": "507f1f77bcf86cd799439099"})
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("got status %d, want %d: %s", resp.StatusCode, http.StatusNotFound, resp.ToString())
		}
	})

	mongoHelper.DeletePatientBookings(t, patientID)
}

func TestAddBookingForUnknownPatient(t *testing.T) {
	env := testutil.NewTestEnv()
	mongoHelper, bookingClient := env.Setup(t)
	defer mongoHelper.Close(t)

	patientID := time.Now().UnixNano()%1_000_000_000 + 1_000_000_000
	mongoHelper.DeletePatientBookings(t, patientID)

	resp, err := bookingClient.Add(addBody(patientID, 1, 24*time.Hour))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d: %s", resp.StatusCode, http.StatusBadRequest, resp.ToString())
	}
}

func TestNextBookingForPatientWithoutUpcoming(t *testing.T) {
	env := testutil.NewTestEnv()
	mongoHelper, bookingClient := env.Setup(t)
	defer mongoHelper.Close(t)

	resp, err := bookingClient.NextForPatient(999_999_999)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("got status %d, want %d: %s", resp.StatusCode, http.StatusNotFound, resp.ToString())
	}
}

func TestAddBookingInPast(t *testing.T) {
	env := testutil.NewTestEnv()
	mongoHelper, bookingClient := env.Setup(t)
	defer mongoHelper.Close(t)

	patientID := time.Now().UnixNano() % 1_000_000_000
	seedStart := time.Now().UTC().Add(-48 * time.Hour)
	mongoHelper.SeedBooking(t, patientID, 1, seedStart, seedStart.Add(time.Hour))
	defer mongoHelper.DeletePatientBookings(t, patientID)

	resp, err := bookingClient.Add(addBody(patientID, 1, -time.Hour))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d: %s", resp.StatusCode, http.StatusBadRequest, resp.ToString())
	}
}

func addBody(patientID, doctorID int64, startIn time.Duration) map[string]any {
	start := time.Now().UTC().Add(startIn)
	return map[string]any{
		"patient_id": patientID,
		"doctor_id":  doctorID,
		"start_time": start.Format(time.RFC3339),
		"end_time":   start.Add(time.Hour).Format(time.RFC3339),
	}
}
