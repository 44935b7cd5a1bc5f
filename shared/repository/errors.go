package repository

import (
	"errors"

	"workspace/shared/constant"

	"github.com/lib/pq"
)

// IsConstraintViolation reports whether err was raised by a unique or exclusion constraint.
func IsConstraintViolation(err error) bool {
	return hasCode(err, constant.PqErrorCodeUniqueViolation) || hasCode(err, constant.PqErrorCodeExclusionViolation)
}

func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	return string(pqErr.Code) == constant.PqErrorCodeUniqueViolation && (constraint == "" || pqErr.Constraint == constraint)
}

func hasCode(err error, code string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}

	return false
}
