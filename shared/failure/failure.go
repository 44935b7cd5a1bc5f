package failure

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
// Kind narrows the code for callers that need to tell failures with the same code apart.
type Failure struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind,omitempty"`
	Message string `json:"message"`
}

type Kind string

const (
	KindValidation         Kind = "validation_error"
	KindSlotUnavailable    Kind = "slot_unavailable"
	KindIllegalTransition  Kind = "illegal_transition"
	KindInvalidSignature   Kind = "invalid_signature"
	KindInvalidAmount      Kind = "invalid_amount"
	KindUnknownTransaction Kind = "unknown_transaction"
)

// ErrConcurrencyConflict marks a write rejected by a storage constraint. It never leaves the service layer.
var ErrConcurrencyConflict = errors.New("concurrency conflict")

var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}

// Error returns the error code and message in a formatted string.
func (e *Failure) Error() string {
	return e.Message
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Message: msg,
	}
}

// Validation returns a new Failure for malformed or out-of-range input.
func Validation(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindValidation,
		Message: msg,
	}
}

// SlotUnavailable returns a new Failure for a requested window that overlaps an existing reservation.
func SlotUnavailable(msg string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindSlotUnavailable,
		Message: msg,
	}
}

// IllegalTransition returns a new Failure for a status change the state machine does not allow.
func IllegalTransition(entity, from, to string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindIllegalTransition,
		Message: fmt.Sprintf("%s cannot move from %s to %s", entity, from, to),
	}
}

func InvalidSignature(gateway string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindInvalidSignature,
		Message: "invalid signature from " + gateway,
	}
}

func InvalidAmount(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindInvalidAmount,
		Message: msg,
	}
}

func UnknownTransaction(ref string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Kind:    KindUnknownTransaction,
		Message: "unknown transaction " + ref,
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
		Message: msg,
	}
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Message: entityName,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: message,
	}
}

func Forbidden(msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Message: msg,
	}
}

// IsKind reports whether err carries a Failure of the given kind.
func IsKind(err error, kind Kind) bool {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Kind == kind
	}

	return false
}

// GetKind returns the kind of an error interface, empty when it is not a Failure.
func GetKind(err error) Kind {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Kind
	}

	return ""
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}
