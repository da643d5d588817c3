package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructorsSetStatusAndCode(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{name: "not found", err: NotFound("Booking"), wantCode: CodeNotFound, wantStatus: http.StatusNotFound},
		{name: "not found with id", err: NotFoundWithID("Booking", "abc"), wantCode: CodeNotFound, wantStatus: http.StatusNotFound},
		{name: "invalid input", err: InvalidInput("bad start time"), wantCode: CodeInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "validation", err: Validation("field errors", nil), wantCode: CodeValidation, wantStatus: http.StatusBadRequest},
		{name: "conflict", err: Conflict("already booked"), wantCode: CodeConflict, wantStatus: http.StatusConflict},
		{name: "internal", err: Internal("store failure", errors.New("io timeout")), wantCode: CodeInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.wantCode)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("status = %d, want %d", tt.err.StatusCode(), tt.wantStatus)
			}
		})
	}
}

func TestUnwrapKeepsCause(t *testing.T) {
	cause := errors.New("io timeout")
	err := Internal("store failure", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to reach the wrapped cause")
	}
}

func TestIsAppErrorThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handling request: %w", NotFound("Booking"))
	if !IsAppError(err) {
		t.Fatal("expected wrapped AppError to be detected")
	}
	if IsAppError(errors.New("plain")) {
		t.Fatal("plain error must not be an AppError")
	}
}

func TestWithDetails(t *testing.T) {
	err := NotFound("Upcoming booking").WithDetails(map[string]any{"patient_id": int64(42)})
	if err.Details["patient_id"] != int64(42) {
		t.Fatalf("details = %v", err.Details)
	}
}

func TestNotFoundWithIDMessageOmitsID(t *testing.T) {
	err := NotFoundWithID("Booking", "507f1f77bcf86cd799439011")
	if err.Message != "Booking not found" {
		t.Fatalf("message = %q", err.Message)
	}
	if err.Details["id"] != "507f1f77bcf86cd799439011" {
		t.Fatalf("details = %v", err.Details)
	}
}
