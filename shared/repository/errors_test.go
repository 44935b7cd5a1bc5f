package repository_test

import (
	"errors"
	"fmt"
	"testing"

	"workspace/shared/repository"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsConstraintViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "unique violation", err: &pq.Error{Code: "23505"}, want: true},
		{name: "exclusion violation wrapped", err: fmt.Errorf("failed to insert data (booking): %w", &pq.Error{Code: "23P01"}), want: true},
		{name: "foreign key violation", err: &pq.Error{Code: "23503"}, want: false},
		{name: "plain error", err: errors.New("connection reset"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repository.IsConstraintViolation(tt.err))
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &pq.Error{Code: "23505", Constraint: "bookings_payment_transaction_id_key"})

	assert.True(t, repository.IsUniqueViolation(err, ""))
	assert.True(t, repository.IsUniqueViolation(err, "bookings_payment_transaction_id_key"))
	assert.False(t, repository.IsUniqueViolation(err, "bookings_booking_code_key"))
	assert.False(t, repository.IsUniqueViolation(&pq.Error{Code: "23P01"}, ""))
}
