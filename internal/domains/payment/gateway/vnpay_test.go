package gateway_test

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"workspace/config"
	"workspace/internal/domains/payment/gateway"
	"workspace/internal/domains/payment/model"
	"workspace/shared/failure"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vnpSecret = "VNPAYSECRET"

func vnpConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Payment.VNPay.TmnCode = "TMN01"
	cfg.Payment.VNPay.HashSecret = vnpSecret
	cfg.Payment.VNPay.PaymentURL = "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"
	cfg.Payment.VNPay.ReturnURL = "https://app.example.com/payments/return"

	return cfg
}

func vnpSign(params url.Values) url.Values {
	mac := hmac.New(sha512.New, []byte(vnpSecret))
	mac.Write([]byte(gateway.VNPayHashData(params)))
	params.Set("vnp_SecureHash", hex.EncodeToString(mac.Sum(nil)))
	params.Set("vnp_SecureHashType", "HmacSHA512")

	return params
}

func vnpIPN(responseCode string) url.Values {
	return url.Values{
		"vnp_TmnCode":           {"TMN01"},
		"vnp_Amount":            {"34500000"},
		"vnp_BankCode":          {"NCB"},
		"vnp_CardType":          {"ATM"},
		"vnp_OrderInfo":         {"Booking BK-20261102-7Q2M9X"},
		"vnp_PayDate":           {"20261102091500"},
		"vnp_ResponseCode":      {responseCode},
		"vnp_TransactionNo":     {"14226112"},
		"vnp_TransactionStatus": {responseCode},
		"vnp_TxnRef":            {"BK-20261102-7Q2M9X"},
	}
}

func TestVNPay_VerifyCallback(t *testing.T) {
	adapter := gateway.NewVNPay(vnpConfig())

	t.Run("valid success callback", func(t *testing.T) {
		cb, err := adapter.VerifyCallback(gateway.RawCallback{Query: vnpSign(vnpIPN("00"))})
		require.NoError(t, err)

		assert.Equal(t, "BK-20261102-7Q2M9X", cb.BookingCode)
		assert.Equal(t, "14226112", cb.TransactionRef)
		assert.Equal(t, "NCB:ATM", cb.PaymentMethod)
		assert.True(t, decimal.NewFromInt(345000).Equal(cb.Amount))
		assert.True(t, cb.Succeeded)
	})

	t.Run("valid failure callback", func(t *testing.T) {
		cb, err := adapter.VerifyCallback(gateway.RawCallback{Query: vnpSign(vnpIPN("24"))})
		require.NoError(t, err)

		assert.False(t, cb.Succeeded)
		assert.Equal(t, "24", cb.RawCode)
	})

	t.Run("cancelled payment carries no transaction number", func(t *testing.T) {
		params := vnpIPN("24")
		params.Set("vnp_TransactionNo", "0")

		cb, err := adapter.VerifyCallback(gateway.RawCallback{Query: vnpSign(params)})
		require.NoError(t, err)

		assert.False(t, cb.Succeeded)
		assert.Empty(t, cb.TransactionRef)
	})

	t.Run("tampered amount", func(t *testing.T) {
		params := vnpSign(vnpIPN("00"))
		params.Set("vnp_Amount", "100")

		_, err := adapter.VerifyCallback(gateway.RawCallback{Query: params})
		assert.True(t, failure.IsKind(err, failure.KindInvalidSignature))
	})

	t.Run("missing hash", func(t *testing.T) {
		_, err := adapter.VerifyCallback(gateway.RawCallback{Query: vnpIPN("00")})
		assert.True(t, failure.IsKind(err, failure.KindInvalidSignature))
	})

	t.Run("uppercase hex is accepted", func(t *testing.T) {
		params := vnpSign(vnpIPN("00"))
		params.Set("vnp_SecureHash", strings.ToUpper(params.Get("vnp_SecureHash")))

		_, err := adapter.VerifyCallback(gateway.RawCallback{Query: params})
		assert.NoError(t, err)
	})
}

func TestVNPay_CheckoutURLRoundTrips(t *testing.T) {
	now := time.Date(2026, 11, 2, 2, 0, 0, 0, time.UTC)
	adapter := gateway.NewVNPayAt(vnpConfig(), now)

	raw, err := adapter.CheckoutURL(t.Context(), gateway.CheckoutRequest{
		BookingCode: "BK-20261102-7Q2M9X",
		Amount:      decimal.NewFromInt(345000),
		Description: "Booking BK-20261102-7Q2M9X",
		ClientIP:    "203.0.113.7",
		ExpiresAt:   now.Add(15 * time.Minute),
	})
	require.NoError(t, err)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	query := parsed.Query()
	assert.Equal(t, "34500000", query.Get("vnp_Amount"))
	assert.Equal(t, "20261102090000", query.Get("vnp_CreateDate"))
	assert.Equal(t, "20261102091500", query.Get("vnp_ExpireDate"))
	assert.Equal(t, "2.1.0", query.Get("vnp_Version"))

	// The same secret must accept the URL's own signature.
	mac := hmac.New(sha512.New, []byte(vnpSecret))
	mac.Write([]byte(gateway.VNPayHashData(query)))
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), query.Get("vnp_SecureHash"))
}

func TestVNPay_WriteResponse(t *testing.T) {
	adapter := gateway.NewVNPay(vnpConfig())

	tests := []struct {
		name    string
		result  model.Result
		err     error
		rspCode string
	}{
		{name: "applied", result: model.Result{Outcome: model.OutcomeApplied}, rspCode: "00"},
		{name: "already applied", result: model.Result{Outcome: model.OutcomeAlreadyApplied}, rspCode: "02"},
		{name: "bad signature", err: failure.InvalidSignature("vnpay"), rspCode: "97"},
		{name: "unknown order", err: failure.UnknownTransaction("x"), rspCode: "01"},
		{name: "amount mismatch", err: failure.InvalidAmount("x"), rspCode: "04"},
		{name: "internal", err: assert.AnError, rspCode: "99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			adapter.WriteResponse(rec, tt.result, tt.err)

			assert.Equal(t, http.StatusOK, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.rspCode, body["RspCode"])
		})
	}
}
