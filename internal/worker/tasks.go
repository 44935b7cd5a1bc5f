// Package worker schedules and runs deferred booking jobs on asynq.
package worker

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const TypeExpirePendingBooking = "booking:expire_pending"

type ExpirePendingPayload struct {
	BookingID string `json:"booking_id"`
}

func NewExpirePendingTask(bookingID string) (*asynq.Task, error) {
	payload, err := json.Marshal(ExpirePendingPayload{BookingID: bookingID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal expire payload: %w", err)
	}

	return asynq.NewTask(TypeExpirePendingBooking, payload), nil
}

func expireTaskID(bookingID string) string {
	return TypeExpirePendingBooking + ":" + bookingID
}
