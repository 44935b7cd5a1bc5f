package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"workspace/infras/otel"
	"workspace/infras/postgres"
	blockedSlotService "workspace/internal/domains/blockedslot/service"
	bookingModel "workspace/internal/domains/booking/model"
	bookingRepo "workspace/internal/domains/booking/repository"
	"workspace/internal/domains/payment/audit"
	"workspace/internal/domains/payment/gateway"
	"workspace/internal/domains/payment/model"
	"workspace/internal/events"
	"workspace/shared"
	"workspace/shared/cache"
	"workspace/shared/constant"
	gDto "workspace/shared/dto"
	"workspace/shared/failure"
	"workspace/shared/money"
	gRepo "workspace/shared/repository"
	"workspace/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	auditReasonInvalidSignature = "invalid_signature"
	auditReasonInvalidAmount    = "invalid_amount"
)

// errDuplicateReference aborts the transaction when another booking already owns the gateway reference.
var errDuplicateReference = errors.New("transaction reference already recorded")

type Reconciler interface {
	Reconcile(ctx context.Context, gatewayName string, raw gateway.RawCallback) (model.Result, error)
}

type serviceImpl struct {
	bookingRepo bookingRepo.Booking
	blockedSlot blockedSlotService.BlockedSlot
	gateways    gateway.Registry
	transactor  postgres.Transactor
	archiver    audit.Archiver
	events      events.Publisher
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	bookingRepo bookingRepo.Booking,
	blockedSlot blockedSlotService.BlockedSlot,
	gateways gateway.Registry,
	transactor postgres.Transactor,
	archiver audit.Archiver,
	events events.Publisher,
	cache cache.RedisCache,
	otel otel.Otel,
) Reconciler {
	return &serviceImpl{
		bookingRepo: bookingRepo,
		blockedSlot: blockedSlot,
		gateways:    gateways,
		transactor:  transactor,
		archiver:    archiver,
		events:      events,
		cache:       cache,
		otel:        otel,
	}
}

// Reconcile verifies a gateway callback and settles the booking it refers to.
// Replays of an applied callback report AlreadyApplied and change nothing.
func (s *serviceImpl) Reconcile(ctx context.Context, gatewayName string, raw gateway.RawCallback) (res model.Result, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.Reconcile")
	defer scope.End()
	defer scope.TraceIfError(err)

	res.Gateway = strings.ToLower(gatewayName)

	adapter, err := s.gateways.Get(gatewayName)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	callback, err := adapter.VerifyCallback(raw)
	if errors.Is(err, gateway.ErrUnsupportedEvent) {
		log.Info().Str("gateway", res.Gateway).Msg("callback carries nothing to settle")

		res.Outcome = model.OutcomeIgnored

		return res, nil
	}

	if err != nil {
		if failure.IsKind(err, failure.KindInvalidSignature) {
			log.Warn().Str("gateway", res.Gateway).Str("remote_addr", raw.RemoteAddr).Msg("rejected callback with invalid signature")
			s.archiver.Archive(ctx, res.Gateway, auditReasonInvalidSignature, raw)
		}

		return res, err //nolint:wrapcheck
	}

	var booking bookingModel.Booking

	err = s.transactor.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		booking, err = s.bookingRepo.GetForUpdateTx(ctx, tx, correlate(callback))
		if err != nil {
			return fmt.Errorf("failed to get booking: %w", err)
		}

		if booking.ID == constant.Empty {
			return failure.UnknownTransaction(reference(callback)) // nolint:wrapcheck
		}

		res.BookingCode = booking.BookingCode

		if ref := booking.TransactionRef(); ref != constant.Empty && ref == callback.TransactionRef {
			res.Outcome = model.OutcomeAlreadyApplied

			return nil
		}

		if booking.Status != bookingModel.StatusPending {
			log.Warn().
				Str("gateway", res.Gateway).
				Str("booking_code", booking.BookingCode).
				Str("status", string(booking.Status)).
				Str("transaction_ref", callback.TransactionRef).
				Msg("callback for a booking that is no longer awaiting payment")

			res.Outcome = model.OutcomeIgnored

			return nil
		}

		// Gateways echo the charged amount, so compare at the currency's minor-unit scale.
		if !callback.Amount.Equal(money.RoundIn(booking.FinalAmount, booking.Currency)) ||
			(callback.Currency != constant.Empty && !strings.EqualFold(callback.Currency, booking.Currency)) {
			return failure.InvalidAmount(fmt.Sprintf("callback amount %s %s does not match booking amount %s %s", // nolint:wrapcheck
				callback.Amount.String(), callback.Currency, booking.FinalAmount.String(), booking.Currency))
		}

		if err := s.settle(ctx, tx, &booking, callback); err != nil {
			return err
		}

		res.Outcome = model.OutcomeApplied

		return nil
	})

	if errors.Is(err, errDuplicateReference) {
		log.Warn().Str("gateway", res.Gateway).Str("transaction_ref", callback.TransactionRef).Msg("transaction reference already belongs to another booking")

		res.Outcome = model.OutcomeIgnored

		return res, nil
	}

	if err != nil {
		switch failure.GetKind(err) {
		case failure.KindInvalidAmount:
			log.Warn().Err(err).Str("gateway", res.Gateway).Str("booking_code", res.BookingCode).Msg("rejected callback with mismatched amount")
			s.archiver.Archive(ctx, res.Gateway, auditReasonInvalidAmount, raw)
		case failure.KindUnknownTransaction:
			log.Warn().Err(err).Str("gateway", res.Gateway).Msg("callback for unknown transaction")
		default:
			log.Error().Err(err).Str("gateway", res.Gateway).Msg("failed to reconcile callback")
		}

		return res, err //nolint:wrapcheck
	}

	res.Status = string(booking.Status)

	if res.Outcome == model.OutcomeApplied {
		s.invalidate(ctx, booking.BookingCode)
		s.publish(ctx, booking)
	}

	return res, nil
}

// settle applies a verified callback to a Pending booking inside the caller's transaction.
func (s *serviceImpl) settle(ctx context.Context, tx *sqlx.Tx, booking *bookingModel.Booking, callback gateway.Callback) error {
	to := bookingModel.StatusCancelled
	if callback.Succeeded {
		to = bookingModel.StatusConfirmed
	}

	if err := bookingModel.Transition(booking.Status, to); err != nil {
		return err //nolint:wrapcheck
	}

	now := timezone.NowUTC()
	fields := map[string]any{
		bookingModel.FieldStatus:         to,
		bookingModel.FieldPaymentGateway: callback.Gateway,
		constant.FieldModifiedAt:         now,
		constant.FieldModifiedBy:         callback.Gateway,
	}

	booking.Status = to
	booking.PaymentGateway = &callback.Gateway
	booking.ModifiedAt = now
	booking.ModifiedBy = callback.Gateway

	// Only a settled payment owns its reference; failed attempts may share placeholders such as VNPay's "0".
	if callback.Succeeded && callback.TransactionRef != constant.Empty {
		fields[bookingModel.FieldPaymentTransactionID] = callback.TransactionRef
		booking.PaymentTransactionID = &callback.TransactionRef
	}

	if callback.PaymentMethod != constant.Empty {
		fields[bookingModel.FieldPaymentMethodID] = callback.PaymentMethod
		booking.PaymentMethodID = &callback.PaymentMethod
	}

	if !callback.Succeeded {
		reason := fmt.Sprintf("payment failed (%s)", callback.RawCode)
		fields[bookingModel.FieldCancellationReason] = reason
		booking.CancellationReason = &reason
	}

	err := s.bookingRepo.UpdateTx(ctx, tx, fields, shared.FilterByID(booking.ID, bookingModel.FieldID, bookingModel.TableName))
	if gRepo.IsUniqueViolation(err, bookingModel.ConstraintPaymentTransactionID) {
		return errDuplicateReference
	}

	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	if !callback.Succeeded {
		return nil
	}

	if err := s.blockedSlot.CreateForBooking(ctx, tx, *booking); err != nil {
		return fmt.Errorf("failed to block booked slot: %w", err)
	}

	return nil
}

func correlate(callback gateway.Callback) gDto.FilterGroup {
	if callback.BookingCode != constant.Empty {
		return shared.FilterByID(callback.BookingCode, bookingModel.FieldBookingCode, bookingModel.TableName)
	}

	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    bookingModel.FieldOrderCode,
				Value:    callback.OrderCode,
				Operator: gDto.FilterOperatorEq,
				Table:    bookingModel.TableName,
			},
		},
		Operator: gDto.FilterGroupOperatorAnd,
	}
}

func reference(callback gateway.Callback) string {
	if callback.BookingCode != constant.Empty {
		return callback.BookingCode
	}

	return strconv.FormatInt(callback.OrderCode, 10)
}

func (s *serviceImpl) invalidate(ctx context.Context, bookingCode string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(bookingModel.CacheKeyGet, bookingCode)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, bookingModel.CacheKeyGetAll)
		shared.InvalidateCaches(c, s.cache, bookingModel.CacheKeyCount)
	}()
}

func (s *serviceImpl) publish(ctx context.Context, booking bookingModel.Booking) {
	eventType := events.TypeBookingConfirmed
	reason := constant.Empty

	if booking.Status == bookingModel.StatusCancelled {
		eventType = events.TypeBookingCancelled

		if booking.CancellationReason != nil {
			reason = *booking.CancellationReason
		}
	}

	event := events.NewBookingEvent(eventType, booking, reason)

	s.events.Go(ctx, func(c context.Context) error {
		return s.events.PublishBooking(c, event)
	})
}
