package gateway_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"workspace/config"
	"workspace/internal/domains/payment/gateway"
	"workspace/internal/domains/payment/model"
	"workspace/shared/failure"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payosChecksum = "PAYOSCHECKSUM"

func payosConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Payment.PayOS.ClientID = "client-id"
	cfg.Payment.PayOS.APIKey = "api-key"
	cfg.Payment.PayOS.ChecksumKey = payosChecksum
	cfg.Payment.PayOS.ReturnURL = "https://app.example.com/return"
	cfg.Payment.PayOS.CancelURL = "https://app.example.com/cancel"

	return cfg
}

func payosSign(data string) string {
	mac := hmac.New(sha256.New, []byte(payosChecksum))
	mac.Write([]byte(data))

	return hex.EncodeToString(mac.Sum(nil))
}

func payosBody(t *testing.T, code string, amount int64, tamper func(map[string]any)) []byte {
	t.Helper()

	data := map[string]any{
		"orderCode":              1793155200000123,
		"amount":                 amount,
		"description":            "BK-20261102-7Q2M9X",
		"accountNumber":          "12345678",
		"reference":              "FT26306123456",
		"transactionDateTime":    "2026-11-02 09:15:00",
		"currency":               "VND",
		"paymentLinkId":          "9c1f0c2e",
		"code":                   code,
		"desc":                   "success",
		"counterAccountBankId":   nil,
		"counterAccountBankName": "",
	}

	raw, err := json.Marshal(data)
	require.NoError(t, err)

	canonical, err := gateway.PayOSCanonicalData(raw)
	require.NoError(t, err)

	signature := payosSign(canonical)

	if tamper != nil {
		tamper(data)
		raw, err = json.Marshal(data)
		require.NoError(t, err)
	}

	body, err := json.Marshal(map[string]any{
		"code":      code,
		"desc":      "success",
		"success":   code == "00",
		"data":      json.RawMessage(raw),
		"signature": signature,
	})
	require.NoError(t, err)

	return body
}

func TestPayOS_CanonicalData(t *testing.T) {
	canonical, err := gateway.PayOSCanonicalData([]byte(`{"orderCode":123,"amount":3000,"desc":null,"code":"00","ok":true}`))
	require.NoError(t, err)

	assert.Equal(t, "amount=3000&code=00&desc=&ok=true&orderCode=123", canonical)
}

func TestPayOS_VerifyCallback(t *testing.T) {
	adapter := gateway.NewPayOS(payosConfig())

	t.Run("valid success", func(t *testing.T) {
		cb, err := adapter.VerifyCallback(gateway.RawCallback{Body: payosBody(t, "00", 345000, nil)})
		require.NoError(t, err)

		assert.Equal(t, int64(1793155200000123), cb.OrderCode)
		assert.Equal(t, "FT26306123456", cb.TransactionRef)
		assert.True(t, decimal.NewFromInt(345000).Equal(cb.Amount))
		assert.True(t, cb.Succeeded)
	})

	t.Run("valid failure", func(t *testing.T) {
		cb, err := adapter.VerifyCallback(gateway.RawCallback{Body: payosBody(t, "01", 345000, nil)})
		require.NoError(t, err)
		assert.False(t, cb.Succeeded)
	})

	t.Run("tampered amount", func(t *testing.T) {
		body := payosBody(t, "00", 345000, func(data map[string]any) { data["amount"] = 1000 })

		_, err := adapter.VerifyCallback(gateway.RawCallback{Body: body})
		assert.True(t, failure.IsKind(err, failure.KindInvalidSignature))
	})

	t.Run("not json", func(t *testing.T) {
		_, err := adapter.VerifyCallback(gateway.RawCallback{Body: []byte("orderCode=1")})
		assert.True(t, failure.IsKind(err, failure.KindInvalidSignature))
	})
}

func TestPayOS_CheckoutURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/payment-requests", r.URL.Path)
		assert.Equal(t, "client-id", r.Header.Get("x-client-id"))
		assert.Equal(t, "api-key", r.Header.Get("x-api-key"))

		var req map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		want := payosSign("amount=345000&cancelUrl=https://app.example.com/cancel&description=BK-20261102-7Q2M9X&orderCode=42&returnUrl=https://app.example.com/return")
		assert.Equal(t, want, req["signature"])

		_, _ = w.Write([]byte(`{"code":"00","desc":"success","data":{"checkoutUrl":"https://pay.payos.vn/web/abc"}}`))
	}))
	defer server.Close()

	adapter := gateway.NewPayOSWithClient(payosConfig(), server.Client(), server.URL)

	link, err := adapter.CheckoutURL(t.Context(), gateway.CheckoutRequest{
		BookingCode: "BK-20261102-7Q2M9X",
		OrderCode:   42,
		Amount:      decimal.NewFromInt(345000),
	})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.payos.vn/web/abc", link)
}

func TestPayOS_CheckoutURLRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":"231","desc":"order already exists"}`))
	}))
	defer server.Close()

	adapter := gateway.NewPayOSWithClient(payosConfig(), server.Client(), server.URL)

	_, err := adapter.CheckoutURL(t.Context(), gateway.CheckoutRequest{BookingCode: "BK", OrderCode: 42, Amount: decimal.NewFromInt(1)})
	assert.Error(t, err)
}

func TestPayOS_WriteResponse(t *testing.T) {
	adapter := gateway.NewPayOS(payosConfig())

	tests := []struct {
		name   string
		result model.Result
		err    error
		status int
	}{
		{name: "applied", result: model.Result{Outcome: model.OutcomeApplied}, status: http.StatusOK},
		{name: "already applied", result: model.Result{Outcome: model.OutcomeAlreadyApplied}, status: http.StatusOK},
		{name: "bad signature", err: failure.InvalidSignature("payos"), status: http.StatusBadRequest},
		{name: "unknown order", err: failure.UnknownTransaction("1"), status: http.StatusNotFound},
		{name: "internal", err: assert.AnError, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			adapter.WriteResponse(rec, tt.result, tt.err)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
