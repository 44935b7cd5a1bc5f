package worker

//go:generate go run go.uber.org/mock/mockgen -source=./scheduler.go -destination=./mocks/scheduler_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"workspace/config"
	"workspace/infras/otel"
	"workspace/shared/constant"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

type Scheduler interface {
	ScheduleExpiry(ctx context.Context, bookingID string, at time.Time) error
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type schedulerImpl struct {
	client enqueuer
	cfg    *config.Config
	otel   otel.Otel
}

func NewScheduler(client *asynq.Client, cfg *config.Config, otel otel.Otel) Scheduler {
	return &schedulerImpl{
		client: client,
		cfg:    cfg,
		otel:   otel,
	}
}

// ScheduleExpiry is idempotent per booking.
func (s *schedulerImpl) ScheduleExpiry(ctx context.Context, bookingID string, at time.Time) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelWorkerScopeName, constant.OtelWorkerScopeName+".ScheduleExpiry")
	defer scope.End()
	defer scope.TraceIfError(err)

	task, err := NewExpirePendingTask(bookingID)
	if err != nil {
		return err
	}

	_, err = s.client.EnqueueContext(ctx, task,
		asynq.ProcessAt(at),
		asynq.TaskID(expireTaskID(bookingID)),
		asynq.Queue(s.cfg.Asynq.Queue),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}

	if err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to schedule booking expiry")

		return fmt.Errorf("failed to schedule booking expiry: %w", err)
	}

	return nil
}
