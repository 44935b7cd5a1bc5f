package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"workspace/config"
	"workspace/internal/domains/payment/model"
	"workspace/shared/constant"
	"workspace/shared/failure"
	"workspace/shared/money"

	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
)

const (
	stripeMetadataBookingCode = "booking_code"
	stripeSignatureTolerance  = 5 * time.Minute
	stripeMinSessionLifetime  = 30 * time.Minute

	stripeEventSessionCompleted      = "checkout.session.completed"
	stripeEventAsyncPaymentSucceeded = "checkout.session.async_payment_succeeded"
	stripeEventAsyncPaymentFailed    = "checkout.session.async_payment_failed"
	stripeEventSessionExpired        = "checkout.session.expired"
)

type stripeGateway struct {
	sessions      session.Client
	webhookSecret string
	successURL    string
	cancelURL     string
	now           func() time.Time
}

func NewStripe(cfg *config.Config) Adapter {
	c := cfg.Payment.Stripe

	return &stripeGateway{
		sessions:      session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: c.SecretKey},
		webhookSecret: c.WebhookSecret,
		successURL:    c.SuccessURL,
		cancelURL:     c.CancelURL,
		now:           time.Now,
	}
}

func stripeAmountFactor(currency string) int64 {
	if money.IsZeroDecimal(currency) {
		return 1
	}

	return 100
}

func (s *stripeGateway) Name() string {
	return NameStripe
}

// CheckoutURL opens a hosted Checkout Session tagged with the booking code.
func (s *stripeGateway) CheckoutURL(ctx context.Context, req CheckoutRequest) (string, error) {
	currency := strings.ToLower(req.Currency)

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(s.successURL),
		CancelURL:         stripe.String(s.cancelURL),
		ClientReferenceID: stripe.String(req.BookingCode),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(money.ToMinorUnits(req.Amount, stripeAmountFactor(currency))),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
				},
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: map[string]string{stripeMetadataBookingCode: req.BookingCode},
		},
	}
	params.Context = ctx
	params.AddMetadata(stripeMetadataBookingCode, req.BookingCode)

	// Stripe refuses sessions that expire in under 30 minutes.
	if expiresAt := req.ExpiresAt; !expiresAt.IsZero() && expiresAt.Sub(s.now()) >= stripeMinSessionLifetime {
		params.ExpiresAt = stripe.Int64(expiresAt.Unix())
	}

	checkout, err := s.sessions.New(params)
	if err != nil {
		log.Error().Err(err).Str("booking_code", req.BookingCode).Msg("failed to create stripe checkout session")

		return "", fmt.Errorf("failed to create stripe checkout session: %w", err)
	}

	return checkout.URL, nil
}

func (s *stripeGateway) VerifyCallback(raw RawCallback) (Callback, error) {
	event, err := webhook.ConstructEventWithOptions(
		raw.Body,
		raw.Header.Get(constant.RequestHeaderStripeSignature),
		s.webhookSecret,
		webhook.ConstructEventOptions{
			Tolerance:                stripeSignatureTolerance,
			IgnoreAPIVersionMismatch: true,
		},
	)
	if err != nil {
		return Callback{}, failure.InvalidSignature(NameStripe) // nolint:wrapcheck
	}

	var succeeded bool

	switch string(event.Type) {
	case stripeEventSessionCompleted, stripeEventAsyncPaymentSucceeded:
		succeeded = true
	case stripeEventAsyncPaymentFailed, stripeEventSessionExpired:
		succeeded = false
	default:
		return Callback{}, fmt.Errorf("%w: %s", ErrUnsupportedEvent, event.Type)
	}

	var checkout stripe.CheckoutSession
	if err = json.Unmarshal(event.Data.Raw, &checkout); err != nil {
		return Callback{}, fmt.Errorf("%w: malformed checkout session", ErrUnsupportedEvent)
	}

	// Card payments settle on completion; delayed methods report later through async events.
	if string(event.Type) == stripeEventSessionCompleted && checkout.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return Callback{}, fmt.Errorf("%w: session completed but not paid", ErrUnsupportedEvent)
	}

	bookingCode := checkout.Metadata[stripeMetadataBookingCode]
	if bookingCode == "" {
		bookingCode = checkout.ClientReferenceID
	}

	if bookingCode == "" {
		return Callback{}, failure.UnknownTransaction(checkout.ID) // nolint:wrapcheck
	}

	reference := checkout.ID
	if checkout.PaymentIntent != nil && checkout.PaymentIntent.ID != "" {
		reference = checkout.PaymentIntent.ID
	}

	method := "card"
	if len(checkout.PaymentMethodTypes) > 0 {
		method = checkout.PaymentMethodTypes[0]
	}

	currency := string(checkout.Currency)

	return Callback{
		Gateway:        NameStripe,
		BookingCode:    bookingCode,
		TransactionRef: reference,
		PaymentMethod:  method,
		Amount:         money.FromMinorUnits(checkout.AmountTotal, stripeAmountFactor(currency)),
		Currency:       strings.ToUpper(currency),
		Succeeded:      succeeded,
		RawCode:        string(event.Type),
	}, nil
}

func (s *stripeGateway) WriteResponse(w http.ResponseWriter, result model.Result, err error) {
	writeStatusResponse(w, result, err)
}
