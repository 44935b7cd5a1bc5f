package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"workspace/infras/otel"
	"workspace/shared/constant"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// Expirer cancels a booking whose payment window elapsed.
type Expirer interface {
	ExpirePending(ctx context.Context, bookingID string) error
}

type Handler struct {
	expirer Expirer
	otel    otel.Otel
}

func NewHandler(expirer Expirer, otel otel.Otel) *Handler {
	return &Handler{
		expirer: expirer,
		otel:    otel,
	}
}

func (h *Handler) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeExpirePendingBooking, h.ExpirePending)

	return mux
}

func (h *Handler) ExpirePending(ctx context.Context, task *asynq.Task) (err error) {
	ctx, scope := h.otel.NewScope(ctx, constant.OtelWorkerScopeName, constant.OtelWorkerScopeName+".ExpirePending")
	defer scope.End()
	defer scope.TraceIfError(err)

	var payload ExpirePendingPayload
	if err = json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("invalid expire payload")

		// A malformed payload will never succeed.
		return fmt.Errorf("invalid expire payload: %v: %w", err, asynq.SkipRetry)
	}

	if err = h.expirer.ExpirePending(ctx, payload.BookingID); err != nil {
		log.Error().Err(err).Str("booking_id", payload.BookingID).Msg("failed to expire pending booking")

		return fmt.Errorf("failed to expire pending booking: %w", err)
	}

	return nil
}
