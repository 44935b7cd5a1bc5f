package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Refund=MockRefundService

import (
	"context"
	"fmt"

	"workspace/config"
	"workspace/infras/otel"
	"workspace/infras/postgres"
	bookingModel "workspace/internal/domains/booking/model"
	bookingRepo "workspace/internal/domains/booking/repository"
	"workspace/internal/domains/refund/model"
	"workspace/internal/domains/refund/model/dto"
	"workspace/internal/domains/refund/repository"
	roomRepo "workspace/internal/domains/room/repository"
	"workspace/internal/events"
	"workspace/shared"
	"workspace/shared/cache"
	"workspace/shared/constant"
	gDto "workspace/shared/dto"
	"workspace/shared/failure"
	gModel "workspace/shared/model"
	gRepo "workspace/shared/repository"
	"workspace/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Refund drives a request from filing through owner approval to payout. It never touches bookings.
type Refund interface {
	FileRequest(ctx context.Context, staffID string, req dto.FileRefundRequest) (dto.RefundResponse, error)
	OwnerDecide(ctx context.Context, id, ownerID string, req dto.DecisionRequest) (dto.RefundResponse, error)
	MarkProcessed(ctx context.Context, id, staffID string, req dto.ProcessedRequest) (dto.RefundResponse, error)
	Get(ctx context.Context, id string) (dto.RefundResponse, error)
}

type serviceImpl struct {
	repo        repository.Refund
	bookingRepo bookingRepo.Booking
	roomRepo    roomRepo.Room
	policy      model.Policy
	transactor  postgres.Transactor
	events      events.Publisher
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Refund,
	bookingRepo bookingRepo.Booking,
	roomRepo roomRepo.Room,
	transactor postgres.Transactor,
	events events.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Refund {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		roomRepo:    roomRepo,
		policy:      model.NewPolicy(cfg.Refund.Percentage, cfg.Refund.NonRefundableFeePercent),
		transactor:  transactor,
		events:      events,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func byID(id string) gDto.FilterGroup {
	return shared.FilterByID(id, model.FieldID, model.TableName)
}

func optional(s string) *string {
	if s == constant.Empty {
		return nil
	}

	return &s
}

func (s *serviceImpl) FileRequest(ctx context.Context, staffID string, req dto.FileRefundRequest) (res dto.RefundResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".refund.FileRequest")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.bookingRepo.Get(ctx, shared.FilterByID(req.BookingID, bookingModel.FieldID, bookingModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if booking.Status != bookingModel.StatusConfirmed && booking.Status != bookingModel.StatusCompleted {
		return res, failure.Conflict("only confirmed or completed bookings can be refunded") // nolint:wrapcheck
	}

	room, err := s.roomRepo.GetByID(ctx, booking.RoomID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound("room not found") // nolint:wrapcheck
	}

	now := timezone.NowUTC()
	refund := model.RefundRequest{
		ID:          uuid.NewString(),
		BookingID:   booking.ID,
		StaffID:     staffID,
		OwnerID:     room.OwnerID,
		Status:      model.StatusPendingOwnerApproval,
		Currency:    booking.Currency,
		StaffNotes:  optional(req.Notes),
		RequestedAt: now,
		Metadata:    gModel.NewMetadata(now, staffID),
	}
	refund.ApplyBreakdown(s.policy.Compute(booking.FinalAmount))

	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		open, err := s.repo.ExistTx(ctx, tx, gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{Field: model.FieldBookingID, Value: booking.ID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
				gDto.Filter{Field: model.FieldStatus, Value: model.StatusRejected, Operator: gDto.FilterOperatorNotEq, Table: model.TableName},
			},
			Operator: gDto.FilterGroupOperatorAnd,
		})
		if err != nil {
			return fmt.Errorf("failed to check open refund requests: %w", err)
		}

		if open {
			return failure.Conflict("booking already has an open refund request") // nolint:wrapcheck
		}

		if err = s.repo.InsertTx(ctx, tx, refund); err != nil {
			if gRepo.IsUniqueViolation(err, model.ConstraintOneOpenPerBooking) {
				return failure.Conflict("booking already has an open refund request") // nolint:wrapcheck
			}

			return fmt.Errorf("failed to insert refund request: %w", err)
		}

		return nil
	})
	if err != nil {
		if failure.GetCode(err) >= 500 {
			log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to file refund request")
		}

		return res, err //nolint:wrapcheck
	}

	res.FromModel(refund)

	return res, nil
}

// OwnerDecide records the room owner's approval or rejection.
func (s *serviceImpl) OwnerDecide(ctx context.Context, id, ownerID string, req dto.DecisionRequest) (res dto.RefundResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".refund.OwnerDecide")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.Approve == nil {
		return res, failure.Validation("approve is required") // nolint:wrapcheck
	}

	to := model.StatusRejected
	if *req.Approve {
		to = model.StatusApproved
	}

	refund, err := s.transition(ctx, id, to, ownerID, func(r *model.RefundRequest, fields map[string]any) error {
		if r.OwnerID != ownerID {
			return failure.Forbidden("only the room owner can decide on this refund") // nolint:wrapcheck
		}

		now := timezone.NowUTC()
		r.OwnerConfirmationTime = &now
		r.OwnerNotes = optional(req.Notes)
		fields[model.FieldOwnerConfirmationTime] = now
		fields[model.FieldOwnerNotes] = r.OwnerNotes

		return nil
	})
	if err != nil {
		return res, err
	}

	res.FromModel(refund)

	return res, nil
}

// MarkProcessed records the payout. The request is terminal afterwards.
func (s *serviceImpl) MarkProcessed(ctx context.Context, id, staffID string, req dto.ProcessedRequest) (res dto.RefundResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".refund.MarkProcessed")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.RefundTransactionID == constant.Empty {
		return res, failure.Validation("refund_transaction_id is required") // nolint:wrapcheck
	}

	refund, err := s.transition(ctx, id, model.StatusProcessed, staffID, func(r *model.RefundRequest, fields map[string]any) error {
		now := timezone.NowUTC()
		r.ProcessedTime = &now
		r.RefundTransactionID = &req.RefundTransactionID
		fields[model.FieldProcessedTime] = now
		fields[model.FieldRefundTransactionID] = req.RefundTransactionID

		return nil
	})
	if err != nil {
		return res, err
	}

	event := events.RefundEvent{
		Type:          events.TypeRefundProcessed,
		RefundID:      refund.ID,
		BookingID:     refund.BookingID,
		Amount:        refund.CalculatedRefundAmount,
		Currency:      refund.Currency,
		TransactionID: req.RefundTransactionID,
		OccurredAt:    timezone.NowUTC(),
	}

	s.events.Go(ctx, func(c context.Context) error {
		return s.events.PublishRefund(c, event)
	})

	res.FromModel(refund)

	return res, nil
}

// Get shows owners only the requests for their rooms.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RefundResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".refund.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(model.CacheKeyGet, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err != nil {
		refund, err := s.repo.Get(ctx, byID(id))
		if err != nil {
			log.Error().Err(err).Msg("failed to get refund request")

			return res, fmt.Errorf("failed to get refund request: %w", err)
		}

		if refund.ID == constant.Empty {
			return res, failure.NotFound("refund request not found") // nolint:wrapcheck
		}

		res.FromModel(refund)

		go func() {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
				log.Error().Err(err).Msg("failed to save refund request to cache")
			}
		}()
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if role == constant.RoleOwner && res.OwnerID != userID {
		return dto.RefundResponse{}, failure.NotFound("refund request not found") // nolint:wrapcheck
	}

	return res, nil
}

func (s *serviceImpl) transition(
	ctx context.Context,
	id string,
	to model.Status,
	actorID string,
	mutate func(refund *model.RefundRequest, fields map[string]any) error,
) (refund model.RefundRequest, err error) {
	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		refund, err = s.repo.GetForUpdateTx(ctx, tx, byID(id))
		if err != nil {
			return fmt.Errorf("failed to get refund request: %w", err)
		}

		if refund.ID == constant.Empty {
			return failure.NotFound("refund request not found") // nolint:wrapcheck
		}

		fields := map[string]any{}
		if err := mutate(&refund, fields); err != nil {
			return err
		}

		if err := model.Transition(refund.Status, to); err != nil {
			return err //nolint:wrapcheck
		}

		now := timezone.NowUTC()
		refund.Status = to
		refund.ModifiedAt = now
		refund.ModifiedBy = actorID

		fields[model.FieldStatus] = to
		fields[constant.FieldModifiedAt] = now
		fields[constant.FieldModifiedBy] = actorID

		if err := s.repo.UpdateTx(ctx, tx, fields, byID(id)); err != nil {
			return fmt.Errorf("failed to update refund request: %w", err)
		}

		return nil
	})
	if err != nil {
		if failure.GetCode(err) >= 500 {
			log.Error().Err(err).Str("refund_id", id).Msg("failed to transition refund request")
		}

		return refund, err //nolint:wrapcheck
	}

	go func() {
		if err := s.cache.Delete(context.WithoutCancel(ctx), shared.BuildCacheKey(model.CacheKeyGet, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete refund request from cache")
		}
	}()

	return refund, nil
}
