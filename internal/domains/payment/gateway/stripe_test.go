package gateway_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"testing"
	"time"

	"workspace/config"
	"workspace/internal/domains/payment/gateway"
	"workspace/shared/failure"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stripeSecret = "whsec_test_secret"

func stripeConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Payment.Stripe.SecretKey = "sk_test_123"
	cfg.Payment.Stripe.WebhookSecret = stripeSecret

	return cfg
}

func stripeHeader(payload []byte, secret string, at time.Time) http.Header {
	ts := at.Unix()

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%d.%s", ts, payload)))

	header := http.Header{}
	header.Set("Stripe-Signature", fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil))))

	return header
}

func stripeEvent(eventType, paymentStatus string) []byte {
	return []byte(fmt.Sprintf(`{
  "id": "evt_1",
  "object": "event",
  "api_version": "2023-10-16",
  "type": %q,
  "data": {
    "object": {
      "id": "cs_test_1",
      "object": "checkout.session",
      "amount_total": 345000,
      "currency": "vnd",
      "payment_status": %q,
      "payment_intent": "pi_123",
      "payment_method_types": ["card"],
      "client_reference_id": "BK-20261102-7Q2M9X",
      "metadata": {"booking_code": "BK-20261102-7Q2M9X"}
    }
  }
}`, eventType, paymentStatus))
}

func TestStripe_VerifyCallback(t *testing.T) {
	adapter := gateway.NewStripe(stripeConfig())
	now := time.Now()

	t.Run("completed and paid", func(t *testing.T) {
		payload := stripeEvent("checkout.session.completed", "paid")

		cb, err := adapter.VerifyCallback(gateway.RawCallback{Body: payload, Header: stripeHeader(payload, stripeSecret, now)})
		require.NoError(t, err)

		assert.Equal(t, "BK-20261102-7Q2M9X", cb.BookingCode)
		assert.Equal(t, "pi_123", cb.TransactionRef)
		assert.Equal(t, "card", cb.PaymentMethod)
		assert.True(t, decimal.NewFromInt(345000).Equal(cb.Amount))
		assert.True(t, cb.Succeeded)
	})

	t.Run("async failure", func(t *testing.T) {
		payload := stripeEvent("checkout.session.async_payment_failed", "unpaid")

		cb, err := adapter.VerifyCallback(gateway.RawCallback{Body: payload, Header: stripeHeader(payload, stripeSecret, now)})
		require.NoError(t, err)
		assert.False(t, cb.Succeeded)
	})

	t.Run("completed but awaiting async payment", func(t *testing.T) {
		payload := stripeEvent("checkout.session.completed", "unpaid")

		_, err := adapter.VerifyCallback(gateway.RawCallback{Body: payload, Header: stripeHeader(payload, stripeSecret, now)})
		assert.ErrorIs(t, err, gateway.ErrUnsupportedEvent)
	})

	t.Run("unrelated event type", func(t *testing.T) {
		payload := stripeEvent("customer.created", "paid")

		_, err := adapter.VerifyCallback(gateway.RawCallback{Body: payload, Header: stripeHeader(payload, stripeSecret, now)})
		assert.ErrorIs(t, err, gateway.ErrUnsupportedEvent)
	})

	t.Run("wrong secret", func(t *testing.T) {
		payload := stripeEvent("checkout.session.completed", "paid")

		_, err := adapter.VerifyCallback(gateway.RawCallback{Body: payload, Header: stripeHeader(payload, "whsec_other", now)})
		assert.True(t, failure.IsKind(err, failure.KindInvalidSignature))
	})

	t.Run("stale timestamp", func(t *testing.T) {
		payload := stripeEvent("checkout.session.completed", "paid")

		_, err := adapter.VerifyCallback(gateway.RawCallback{Body: payload, Header: stripeHeader(payload, stripeSecret, now.Add(-time.Hour))})
		assert.True(t, failure.IsKind(err, failure.KindInvalidSignature))
	})
}
