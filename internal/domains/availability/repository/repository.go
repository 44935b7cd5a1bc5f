package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"workspace/infras/otel"
	bookingModel "workspace/internal/domains/booking/model"
	"workspace/shared/constant"
	"workspace/shared/logger"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	otelAttrRoomID = "room_id"

	// Half-open windows: touching intervals never overlap.
	overlapQuery = `
SELECT EXISTS (
	SELECT 1 FROM bookings
	WHERE room_id = $1
		AND status = ANY($4)
		AND start_time < $3 AND end_time > $2
		AND ($5 = '' OR id::text <> $5)
	UNION ALL
	SELECT 1 FROM blocked_time_slots
	WHERE room_id = $1
		AND start_time < $3 AND end_time > $2
		AND ($5 = '' OR COALESCE(booking_id::text, '') <> $5)
)`

	lockRoomQuery = `SELECT pg_advisory_xact_lock(hashtext($1))`
)

// Index answers overlap questions for one room inside the caller's transaction.
type Index interface {
	Overlaps(ctx context.Context, tx *sqlx.Tx, roomID string, start, end time.Time, excludeBookingID string) (bool, error)
	LockRoom(ctx context.Context, tx *sqlx.Tx, roomID string) error
}

type repositoryImpl struct {
	otel otel.Otel
}

func New(otel otel.Otel) Index {
	return &repositoryImpl{otel: otel}
}

// Overlaps checks active bookings and blocked slots. excludeBookingID ignores a booking and its own block.
func (r *repositoryImpl) Overlaps(ctx context.Context, tx *sqlx.Tx, roomID string, start, end time.Time, excludeBookingID string) (overlap bool, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".availability.Overlaps")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelAttrRoomID, roomID)
	scope.SetAttribute(constant.OtelQueryAttributeKey, overlapQuery)

	err = tx.GetContext(ctx, &overlap, overlapQuery,
		roomID,
		start.UTC(),
		end.UTC(),
		pq.Array(bookingModel.ActiveStatusValues()),
		excludeBookingID,
	)
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to check room availability: %w", err)
	}

	return overlap, nil
}

// LockRoom serialises writers of one room until tx ends.
func (r *repositoryImpl) LockRoom(ctx context.Context, tx *sqlx.Tx, roomID string) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".availability.LockRoom")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelAttrRoomID, roomID)

	if _, err = tx.ExecContext(ctx, lockRoomQuery, roomID); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to lock room: %w", err)
	}

	return nil
}
