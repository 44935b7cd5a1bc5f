package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"workspace/shared/failure"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "start must be before end",
	}

	if f.Error() != "start must be before end" {
		t.Errorf("expected error message to be 'start must be before end', got %s", f.Error())
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		kind    failure.Kind
		message string
	}{
		{
			name:    "BadRequestFromString",
			err:     failure.BadRequestFromString("bad body"),
			code:    http.StatusBadRequest,
			message: "bad body",
		},
		{
			name:    "Validation",
			err:     failure.Validation("participants must be at least 1"),
			code:    http.StatusBadRequest,
			kind:    failure.KindValidation,
			message: "participants must be at least 1",
		},
		{
			name:    "SlotUnavailable",
			err:     failure.SlotUnavailable("room is already booked for the requested window"),
			code:    http.StatusConflict,
			kind:    failure.KindSlotUnavailable,
			message: "room is already booked for the requested window",
		},
		{
			name:    "IllegalTransition",
			err:     failure.IllegalTransition("refund request", "approved", "rejected"),
			code:    http.StatusConflict,
			kind:    failure.KindIllegalTransition,
			message: "refund request cannot move from approved to rejected",
		},
		{
			name:    "InvalidSignature",
			err:     failure.InvalidSignature("vnpay"),
			code:    http.StatusBadRequest,
			kind:    failure.KindInvalidSignature,
			message: "invalid signature from vnpay",
		},
		{
			name:    "UnknownTransaction",
			err:     failure.UnknownTransaction("BK-1"),
			code:    http.StatusNotFound,
			kind:    failure.KindUnknownTransaction,
			message: "unknown transaction BK-1",
		},
		{
			name:    "NotFound",
			err:     failure.NotFound("booking not found"),
			code:    http.StatusNotFound,
			message: "booking not found",
		},
		{
			name:    "Conflict",
			err:     failure.Conflict("refund already filed"),
			code:    http.StatusConflict,
			message: "refund already filed",
		},
		{
			name:    "Forbidden",
			err:     failure.Forbidden("not the room owner"),
			code:    http.StatusForbidden,
			message: "not the room owner",
		},
		{
			name:    "Unauthorized",
			err:     failure.Unauthorized("token expired"),
			code:    http.StatusUnauthorized,
			message: "token expired",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := tt.err.(*failure.Failure)
			if !ok {
				t.Fatalf("expected *failure.Failure, got %T", tt.err)
			}

			if f.Code != tt.code {
				t.Errorf("expected code to be %d, got %d", tt.code, f.Code)
			}

			if f.Kind != tt.kind {
				t.Errorf("expected kind to be %q, got %q", tt.kind, f.Kind)
			}

			if f.Message != tt.message {
				t.Errorf("expected message to be %q, got %q", tt.message, f.Message)
			}
		})
	}
}

func TestBadRequest(t *testing.T) {
	if failure.BadRequest(nil) != nil {
		t.Errorf("expected nil for nil error")
	}

	err := failure.BadRequest(errors.New("validation failed"))
	if failure.GetCode(err) != http.StatusBadRequest {
		t.Errorf("expected code to be %d, got %d", http.StatusBadRequest, failure.GetCode(err))
	}
}

func TestKindThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("failed to admit booking: %w", failure.SlotUnavailable("taken"))

	if !failure.IsKind(wrapped, failure.KindSlotUnavailable) {
		t.Errorf("expected wrapped error to keep its kind")
	}

	if failure.GetKind(wrapped) != failure.KindSlotUnavailable {
		t.Errorf("expected kind %q, got %q", failure.KindSlotUnavailable, failure.GetKind(wrapped))
	}

	if failure.IsKind(errors.New("plain"), failure.KindSlotUnavailable) {
		t.Errorf("plain error must not match a kind")
	}

	if failure.GetKind(failure.ErrConcurrencyConflict) != "" {
		t.Errorf("concurrency conflict is not a failure")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected int
	}{
		{
			name:     "failure error",
			input:    &failure.Failure{Code: http.StatusBadRequest, Message: "test"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "wrapped failure error",
			input:    fmt.Errorf("outer: %w", failure.IllegalTransition("booking", "completed", "cancelled")),
			expected: http.StatusConflict,
		},
		{
			name:     "regular error",
			input:    errors.New("regular error"),
			expected: http.StatusInternalServerError,
		},
		{
			name:     "nil error",
			input:    nil,
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := failure.GetCode(tt.input)
			if result != tt.expected {
				t.Errorf("expected code to be %d, got %d", tt.expected, result)
			}
		})
	}
}
