package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=BlockedSlot=MockBlockedSlotService

import (
	"context"
	"fmt"
	"time"

	"workspace/infras/otel"
	"workspace/infras/postgres"
	availabilityRepo "workspace/internal/domains/availability/repository"
	"workspace/internal/domains/blockedslot/model"
	"workspace/internal/domains/blockedslot/model/dto"
	"workspace/internal/domains/blockedslot/repository"
	bookingModel "workspace/internal/domains/booking/model"
	roomRepo "workspace/internal/domains/room/repository"
	"workspace/shared"
	"workspace/shared/constant"
	gDto "workspace/shared/dto"
	"workspace/shared/failure"
	"workspace/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	reasonBooking = "booking"
	listLimit     = 500
)

type BlockedSlot interface {
	// CreateForBooking runs inside the caller's transaction.
	CreateForBooking(ctx context.Context, tx *sqlx.Tx, booking bookingModel.Booking) error
	ReleaseForBooking(ctx context.Context, tx *sqlx.Tx, bookingID string) error
	Create(ctx context.Context, ownerID, roomID string, req dto.CreateBlockedSlotRequest) (dto.BlockedSlotResponse, error)
	Delete(ctx context.Context, ownerID, id string) error
	ListByRoom(ctx context.Context, roomID string, from, to time.Time) ([]dto.BlockedSlotResponse, error)
}

type serviceImpl struct {
	repo       repository.BlockedSlot
	roomRepo   roomRepo.Room
	index      availabilityRepo.Index
	transactor postgres.Transactor
	otel       otel.Otel
}

func New(
	repo repository.BlockedSlot,
	roomRepo roomRepo.Room,
	index availabilityRepo.Index,
	transactor postgres.Transactor,
	otel otel.Otel,
) BlockedSlot {
	return &serviceImpl{
		repo:       repo,
		roomRepo:   roomRepo,
		index:      index,
		transactor: transactor,
		otel:       otel,
	}
}

func byBookingID(bookingID string) gDto.FilterGroup {
	return shared.FilterByID(bookingID, model.FieldBookingID, model.TableName)
}

// CreateForBooking blocks the booking's window under the room lock. A second call for the same booking is a no-op.
func (s *serviceImpl) CreateForBooking(ctx context.Context, tx *sqlx.Tx, booking bookingModel.Booking) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".blockedslot.CreateForBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.index.LockRoom(ctx, tx, booking.RoomID); err != nil {
		return fmt.Errorf("failed to lock room: %w", err)
	}

	exist, err := s.repo.ExistTx(ctx, tx, byBookingID(booking.ID))
	if err != nil {
		log.Error().Err(err).Msg("failed to check booking block")

		return fmt.Errorf("failed to check booking block: %w", err)
	}

	if exist {
		return nil
	}

	bookingID := booking.ID
	slot := model.BlockedSlot{
		ID:        uuid.NewString(),
		RoomID:    booking.RoomID,
		StartTime: booking.StartTime.UTC(),
		EndTime:   booking.EndTime.UTC(),
		Reason:    reasonBooking,
		BookingID: &bookingID,
		CreatedAt: timezone.NowUTC(),
		CreatedBy: booking.CustomerID,
	}

	if err = s.repo.InsertTx(ctx, tx, slot); err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to create booking block")

		return fmt.Errorf("failed to create booking block: %w", err)
	}

	return nil
}

func (s *serviceImpl) ReleaseForBooking(ctx context.Context, tx *sqlx.Tx, bookingID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".blockedslot.ReleaseForBooking")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.repo.DeleteTx(ctx, tx, byBookingID(bookingID)); err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to release booking block")

		return fmt.Errorf("failed to release booking block: %w", err)
	}

	return nil
}

// Create places an administrative hold. It never overrides an active booking.
func (s *serviceImpl) Create(ctx context.Context, ownerID, roomID string, req dto.CreateBlockedSlotRequest) (res dto.BlockedSlotResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".blockedslot.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !req.StartTime.Before(req.EndTime) {
		return res, failure.Validation("start_time must be before end_time") // nolint:wrapcheck
	}

	if err = s.authorizeRoom(ctx, ownerID, roomID); err != nil {
		return res, err
	}

	slot := req.ToModel(roomID, ownerID)

	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := s.index.LockRoom(ctx, tx, roomID); err != nil {
			return fmt.Errorf("failed to lock room: %w", err)
		}

		overlap, err := s.index.Overlaps(ctx, tx, roomID, slot.StartTime, slot.EndTime, constant.Empty)
		if err != nil {
			return fmt.Errorf("failed to check room availability: %w", err)
		}

		if overlap {
			return failure.SlotUnavailable("room already has a booking or block in this window") // nolint:wrapcheck
		}

		return s.repo.InsertTx(ctx, tx, slot) //nolint:wrapcheck
	})
	if err != nil {
		if failure.GetCode(err) >= 500 {
			log.Error().Err(err).Str("room_id", roomID).Msg("failed to create blocked slot")
		}

		return res, err //nolint:wrapcheck
	}

	res.FromModel(slot)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, ownerID, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".blockedslot.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	slot, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get blocked slot")

		return fmt.Errorf("failed to get blocked slot: %w", err)
	}

	if slot.ID == constant.Empty {
		return failure.NotFound("blocked slot not found") // nolint:wrapcheck
	}

	if slot.IsBookingDerived() {
		return failure.Conflict("blocked slot belongs to a booking, cancel the booking instead") // nolint:wrapcheck
	}

	if err = s.authorizeRoom(ctx, ownerID, slot.RoomID); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete blocked slot")

		return fmt.Errorf("failed to delete blocked slot: %w", err)
	}

	return nil
}

// ListByRoom returns blocks intersecting [from, to). A zero bound is open.
func (s *serviceImpl) ListByRoom(ctx context.Context, roomID string, from, to time.Time) (res []dto.BlockedSlotResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".blockedslot.ListByRoom")
	defer scope.End()
	defer scope.TraceIfError(err)

	filters := []any{
		gDto.Filter{Field: model.FieldRoomID, Value: roomID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
	}

	if !to.IsZero() {
		filters = append(filters, gDto.Filter{ArgName: "window_end", Field: model.FieldStartTime, Value: to.UTC(), Operator: gDto.FilterOperatorLess, Table: model.TableName})
	}

	if !from.IsZero() {
		filters = append(filters, gDto.Filter{ArgName: "window_start", Field: model.FieldEndTime, Value: from.UTC(), Operator: gDto.FilterOperatorGreater, Table: model.TableName})
	}

	params := gDto.QueryParams{Limit: listLimit, SortBy: model.FieldStartTime, SortDir: gDto.SortDirAsc}

	slots, err := s.repo.GetAll(ctx, params, gDto.FilterGroup{Filters: filters, Operator: gDto.FilterGroupOperatorAnd})
	if err != nil {
		log.Error().Err(err).Msg("failed to list blocked slots")

		return nil, fmt.Errorf("failed to list blocked slots: %w", err)
	}

	return dto.FromModels(slots), nil
}

func (s *serviceImpl) authorizeRoom(ctx context.Context, ownerID, roomID string) error {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return failure.NotFound("room not found") // nolint:wrapcheck
	}

	if role, _ := ctx.Value(constant.ContextKeyUserRole).(string); role == constant.RoleAdmin {
		return nil
	}

	if room.OwnerID != ownerID {
		return failure.Forbidden("only the room owner can manage its blocked slots") // nolint:wrapcheck
	}

	return nil
}
