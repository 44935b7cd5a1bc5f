package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"workspace/config"
	"workspace/infras/otel"
	"workspace/infras/postgres"
	availabilityRepo "workspace/internal/domains/availability/repository"
	blockedSlotService "workspace/internal/domains/blockedslot/service"
	"workspace/internal/domains/booking/model"
	"workspace/internal/domains/booking/model/dto"
	"workspace/internal/domains/booking/repository"
	"workspace/internal/domains/payment/gateway"
	pricingModel "workspace/internal/domains/pricing/model"
	pricingService "workspace/internal/domains/pricing/service"
	roomModel "workspace/internal/domains/room/model"
	roomRepo "workspace/internal/domains/room/repository"
	"workspace/internal/events"
	"workspace/internal/worker"
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

const (
	// One retry after a storage conflict; the second conflict means the window is gone.
	admitAttempts = 2

	reasonPaymentExpired    = "payment window expired"
	reasonCancelledCustomer = "cancelled by customer"
	reasonCancelledStaff    = "cancelled by staff"
)

var sortableColumns = []string{constant.FieldCreatedAt, model.FieldStartTime}

type Booking interface {
	Admit(ctx context.Context, customerID string, req dto.AdmitRequest) (dto.BookingResponse, error)
	Quote(ctx context.Context, req dto.QuoteRequest) (dto.QuoteResponse, error)
	Get(ctx context.Context, bookingCode string) (dto.BookingResponse, error)
	GetMine(ctx context.Context, customerID string, params gDto.QueryParams, filter dto.ListFilter) (dto.GetBookingsResponse, error)
	Checkout(ctx context.Context, customerID, bookingCode, clientIP string, req dto.CheckoutRequest) (dto.CheckoutResponse, error)
	CheckIn(ctx context.Context, bookingCode, staffID string) (dto.BookingResponse, error)
	CheckOut(ctx context.Context, bookingCode, staffID string) (dto.BookingResponse, error)
	Cancel(ctx context.Context, bookingCode, actorID string, req dto.CancelRequest) (dto.BookingResponse, error)
	ExpirePending(ctx context.Context, bookingID string) error
}

type serviceImpl struct {
	repo        repository.Booking
	roomRepo    roomRepo.Room
	index       availabilityRepo.Index
	pricing     pricingService.Pricing
	blockedSlot blockedSlotService.BlockedSlot
	gateways    gateway.Registry
	transactor  postgres.Transactor
	scheduler   worker.Scheduler
	events      events.Publisher
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
	now         func() time.Time
}

func New(
	repo repository.Booking,
	roomRepo roomRepo.Room,
	index availabilityRepo.Index,
	pricing pricingService.Pricing,
	blockedSlot blockedSlotService.BlockedSlot,
	gateways gateway.Registry,
	transactor postgres.Transactor,
	scheduler worker.Scheduler,
	events events.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:        repo,
		roomRepo:    roomRepo,
		index:       index,
		pricing:     pricing,
		blockedSlot: blockedSlot,
		gateways:    gateways,
		transactor:  transactor,
		scheduler:   scheduler,
		events:      events,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
		now:         timezone.NowUTC,
	}
}

func byCode(bookingCode string) gDto.FilterGroup {
	return shared.FilterByID(bookingCode, model.FieldBookingCode, model.TableName)
}

func byID(id string) gDto.FilterGroup {
	return shared.FilterByID(id, model.FieldID, model.TableName)
}

func (s *serviceImpl) pendingTTL() time.Duration {
	return time.Duration(s.cfg.Booking.PendingTTLMinutes) * time.Minute
}

// Admit reserves a room window for a customer. The booking starts Pending until a payment callback settles it.
func (s *serviceImpl) Admit(ctx context.Context, customerID string, req dto.AdmitRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Admit")
	defer scope.End()
	defer scope.TraceIfError(err)

	room, quote, err := s.price(ctx, req)
	if err != nil {
		return res, err
	}

	if req.StartTime.Before(s.now()) {
		return res, failure.Validation("start_time must not be in the past") // nolint:wrapcheck
	}

	var booking model.Booking

	for attempt := 1; attempt <= admitAttempts; attempt++ {
		booking, err = s.admitOnce(ctx, customerID, room, req, quote)
		if !errors.Is(err, failure.ErrConcurrencyConflict) {
			break
		}

		log.Warn().Err(err).Str("room_id", room.ID).Int("attempt", attempt).Msg("booking admission hit a storage conflict")
	}

	if errors.Is(err, failure.ErrConcurrencyConflict) {
		return res, failure.SlotUnavailable("room is no longer available for this window") // nolint:wrapcheck
	}

	if err != nil {
		return res, err
	}

	s.invalidateLists(ctx)

	if err := s.scheduler.ScheduleExpiry(ctx, booking.ID, booking.CreatedAt.Add(s.pendingTTL())); err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to schedule pending expiry")
	}

	s.publish(ctx, events.TypeBookingCreated, booking, constant.Empty)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) admitOnce(
	ctx context.Context,
	customerID string,
	room roomModel.Room,
	req dto.AdmitRequest,
	quote pricingModel.Quote,
) (booking model.Booking, err error) {
	now := s.now()

	bookingCode, err := model.NewBookingCode(now)
	if err != nil {
		return booking, err //nolint:wrapcheck
	}

	orderCode, err := model.NewOrderCode(now)
	if err != nil {
		return booking, err //nolint:wrapcheck
	}

	booking = model.Booking{
		ID:           uuid.NewString(),
		BookingCode:  bookingCode,
		OrderCode:    orderCode,
		RoomID:       room.ID,
		CustomerID:   customerID,
		StartTime:    req.StartTime.UTC(),
		EndTime:      req.EndTime.UTC(),
		Participants: req.Participants,
		TotalPrice:   quote.TotalPrice,
		TaxAmount:    quote.TaxAmount,
		ServiceFee:   quote.ServiceFee,
		FinalAmount:  quote.FinalAmount,
		Currency:     quote.Currency,
		Status:       model.StatusPending,
		Metadata:     gModel.NewMetadata(now, customerID),
	}

	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := s.index.LockRoom(ctx, tx, room.ID); err != nil {
			return fmt.Errorf("failed to lock room: %w", err)
		}

		overlap, err := s.index.Overlaps(ctx, tx, room.ID, booking.StartTime, booking.EndTime, constant.Empty)
		if err != nil {
			return fmt.Errorf("failed to check room availability: %w", err)
		}

		if overlap {
			return failure.SlotUnavailable("room is already booked for this window") // nolint:wrapcheck
		}

		if err = s.repo.InsertTx(ctx, tx, booking); err != nil {
			if gRepo.IsConstraintViolation(err) {
				return fmt.Errorf("%w: %w", failure.ErrConcurrencyConflict, err)
			}

			return fmt.Errorf("failed to insert booking: %w", err)
		}

		return nil
	})
	if err != nil && !failure.IsKind(err, failure.KindSlotUnavailable) && !errors.Is(err, failure.ErrConcurrencyConflict) {
		log.Error().Err(err).Str("room_id", room.ID).Msg("failed to admit booking")
	}

	return booking, err //nolint:wrapcheck
}

func (s *serviceImpl) Quote(ctx context.Context, req dto.QuoteRequest) (res dto.QuoteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Quote")
	defer scope.End()
	defer scope.TraceIfError(err)

	_, quote, err := s.price(ctx, req)
	if err != nil {
		return res, err
	}

	res.FromQuote(req, quote)

	return res, nil
}

// price validates the request against the room and prices it.
func (s *serviceImpl) price(ctx context.Context, req dto.AdmitRequest) (roomModel.Room, pricingModel.Quote, error) {
	if !req.StartTime.Before(req.EndTime) {
		return roomModel.Room{}, pricingModel.Quote{}, failure.Validation("start_time must be before end_time") // nolint:wrapcheck
	}

	room, err := s.roomRepo.GetByID(ctx, req.RoomID)
	if err != nil {
		log.Error().Err(err).Str("room_id", req.RoomID).Msg("failed to get room")

		return room, pricingModel.Quote{}, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return room, pricingModel.Quote{}, failure.NotFound("room not found") // nolint:wrapcheck
	}

	if !room.IsActive {
		return room, pricingModel.Quote{}, failure.Validation("room is not accepting bookings") // nolint:wrapcheck
	}

	if room.Capacity > 0 && req.Participants > room.Capacity {
		return room, pricingModel.Quote{}, failure.Validation(fmt.Sprintf("participants exceed room capacity of %d", room.Capacity)) // nolint:wrapcheck
	}

	quote, err := s.pricing.Quote(room, req.StartTime, req.EndTime, req.Participants)
	if err != nil {
		return room, quote, err //nolint:wrapcheck
	}

	return room, quote, nil
}

// Get hides other customers' bookings behind NotFound.
func (s *serviceImpl) Get(ctx context.Context, bookingCode string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(model.CacheKeyGet, bookingCode)

	if err = s.cache.Get(ctx, cacheKey, &res); err != nil {
		booking, err := s.repo.Get(ctx, byCode(bookingCode))
		if err != nil {
			log.Error().Err(err).Msg("failed to get booking")

			return res, fmt.Errorf("failed to get booking: %w", err)
		}

		if booking.ID == constant.Empty {
			return res, failure.NotFound("booking not found") // nolint:wrapcheck
		}

		res.FromModel(booking)

		go func() {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
				log.Error().Err(err).Msg("failed to save booking to cache")
			}
		}()
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if role == constant.RoleCustomer && res.CustomerID != userID {
		return dto.BookingResponse{}, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return res, nil
}

func (s *serviceImpl) GetMine(ctx context.Context, customerID string, params gDto.QueryParams, filter dto.ListFilter) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !slices.Contains(sortableColumns, params.SortBy) {
		params.SortBy = constant.DefaultValueSortBy
	}

	if params.SortDir == constant.Empty {
		params.SortDir = constant.DefaultValueSortDir
	}

	filters := []any{
		gDto.Filter{Field: model.FieldCustomerID, Value: customerID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
	}

	if filter.Status != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldStatus, Value: filter.Status, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if filter.RoomID != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldRoomID, Value: filter.RoomID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	group := gDto.FilterGroup{Filters: filters, Operator: gDto.FilterGroupOperatorAnd}
	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheKeyGetAll, params, group)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	total, err := s.count(ctx, params, group)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, params, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(model.CacheKeyCount, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

// Checkout returns the hosted payment page for a Pending booking owned by the caller.
func (s *serviceImpl) Checkout(ctx context.Context, customerID, bookingCode, clientIP string, req dto.CheckoutRequest) (res dto.CheckoutResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Checkout")
	defer scope.End()
	defer scope.TraceIfError(err)

	adapter, err := s.gateways.Get(req.Gateway)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	booking, err := s.repo.Get(ctx, byCode(bookingCode))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty || booking.CustomerID != customerID {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if booking.Status != model.StatusPending {
		return res, failure.Conflict("booking is not awaiting payment") // nolint:wrapcheck
	}

	checkoutURL, err := adapter.CheckoutURL(ctx, gateway.CheckoutRequest{
		BookingCode: booking.BookingCode,
		OrderCode:   booking.OrderCode,
		Amount:      booking.FinalAmount,
		Currency:    booking.Currency,
		Description: "Booking " + booking.BookingCode,
		ClientIP:    clientIP,
		ExpiresAt:   booking.CreatedAt.Add(s.pendingTTL()),
	})
	if err != nil {
		log.Error().Err(err).Str("gateway", adapter.Name()).Msg("failed to create checkout")

		return res, fmt.Errorf("failed to create checkout: %w", err)
	}

	return dto.CheckoutResponse{
		BookingCode: booking.BookingCode,
		Gateway:     adapter.Name(),
		CheckoutURL: checkoutURL,
	}, nil
}

func (s *serviceImpl) CheckIn(ctx context.Context, bookingCode, staffID string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CheckIn")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.transition(ctx, byCode(bookingCode), model.StatusInProgress, staffID,
		func(_ context.Context, _ *sqlx.Tx, b *model.Booking, fields map[string]any) error {
			now := s.now()
			b.CheckedInAt = &now
			fields[model.FieldCheckedInAt] = now

			return nil
		})
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) CheckOut(ctx context.Context, bookingCode, staffID string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CheckOut")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.transition(ctx, byCode(bookingCode), model.StatusCompleted, staffID,
		func(_ context.Context, _ *sqlx.Tx, b *model.Booking, fields map[string]any) error {
			now := s.now()
			b.CheckedOutAt = &now
			fields[model.FieldCheckedOutAt] = now

			return nil
		})
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

// Cancel releases the room window. Customers may only cancel their own bookings.
func (s *serviceImpl) Cancel(ctx context.Context, bookingCode, actorID string, req dto.CancelRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	reason := req.Reason
	if reason == constant.Empty {
		reason = reasonCancelledStaff
		if role == constant.RoleCustomer {
			reason = reasonCancelledCustomer
		}
	}

	booking, err := s.transition(ctx, byCode(bookingCode), model.StatusCancelled, actorID,
		func(ctx context.Context, tx *sqlx.Tx, b *model.Booking, fields map[string]any) error {
			if role == constant.RoleCustomer && b.CustomerID != actorID {
				return failure.NotFound("booking not found") // nolint:wrapcheck
			}

			b.CancellationReason = &reason
			fields[model.FieldCancellationReason] = reason

			return s.blockedSlot.ReleaseForBooking(ctx, tx, b.ID) //nolint:wrapcheck
		})
	if err != nil {
		return res, err
	}

	s.publish(ctx, events.TypeBookingCancelled, booking, reason)

	res.FromModel(booking)

	return res, nil
}

// ExpirePending cancels a booking still unpaid after its hold. Anything else is left alone.
func (s *serviceImpl) ExpirePending(ctx context.Context, bookingID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.ExpirePending")
	defer scope.End()
	defer scope.TraceIfError(err)

	reason := reasonPaymentExpired
	expired := false

	booking, err := s.transition(ctx, byID(bookingID), model.StatusCancelled, constant.Empty,
		func(_ context.Context, _ *sqlx.Tx, b *model.Booking, fields map[string]any) error {
			if b.Status != model.StatusPending {
				return errSkipTransition
			}

			expired = true
			b.CancellationReason = &reason
			fields[model.FieldCancellationReason] = reason

			return nil
		})
	if errors.Is(err, errSkipTransition) || failure.GetCode(err) == 404 {
		log.Info().Str("booking_id", bookingID).Msg("booking no longer pending, expiry skipped")

		return nil
	}

	if err != nil {
		return err
	}

	if expired {
		log.Info().Str("booking_id", bookingID).Str("booking_code", booking.BookingCode).Msg("pending booking expired")
		s.publish(ctx, events.TypeBookingCancelled, booking, reason)
	}

	return nil
}

var errSkipTransition = errors.New("transition skipped")

// transition locks the booking row, checks the move against the status table and persists it.
// mutate may add columns to fields and run side effects inside the same transaction.
func (s *serviceImpl) transition(
	ctx context.Context,
	filter gDto.FilterGroup,
	to model.Status,
	actorID string,
	mutate func(ctx context.Context, tx *sqlx.Tx, booking *model.Booking, fields map[string]any) error,
) (booking model.Booking, err error) {
	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		booking, err = s.repo.GetForUpdateTx(ctx, tx, filter)
		if err != nil {
			return fmt.Errorf("failed to get booking: %w", err)
		}

		if booking.ID == constant.Empty {
			return failure.NotFound("booking not found") // nolint:wrapcheck
		}

		if mutate == nil {
			mutate = func(context.Context, *sqlx.Tx, *model.Booking, map[string]any) error { return nil }
		}

		fields := map[string]any{}
		if err := mutate(ctx, tx, &booking, fields); err != nil {
			return err
		}

		if err := model.Transition(booking.Status, to); err != nil {
			return err //nolint:wrapcheck
		}

		now := s.now()
		booking.Status = to
		booking.ModifiedAt = now
		booking.ModifiedBy = actorID

		fields[model.FieldStatus] = to
		fields[constant.FieldModifiedAt] = now
		fields[constant.FieldModifiedBy] = actorID

		if err := s.repo.UpdateTx(ctx, tx, fields, byID(booking.ID)); err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}

		return nil
	})
	if err != nil {
		if !errors.Is(err, errSkipTransition) && failure.GetCode(err) >= 500 {
			log.Error().Err(err).Str("to", string(to)).Msg("failed to transition booking")
		}

		return booking, err //nolint:wrapcheck
	}

	s.invalidate(ctx, booking.BookingCode)

	return booking, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, bookingCode string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(model.CacheKeyGet, bookingCode)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, model.CacheKeyGetAll)
		shared.InvalidateCaches(c, s.cache, model.CacheKeyCount)
	}()
}

func (s *serviceImpl) invalidateLists(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, model.CacheKeyGetAll)
		shared.InvalidateCaches(c, s.cache, model.CacheKeyCount)
	}()
}

func (s *serviceImpl) publish(ctx context.Context, eventType events.Type, booking model.Booking, reason string) {
	event := events.NewBookingEvent(eventType, booking, reason)

	s.events.Go(ctx, func(c context.Context) error {
		return s.events.PublishBooking(c, event)
	})
}
