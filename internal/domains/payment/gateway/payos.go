package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"workspace/config"
	"workspace/internal/domains/payment/model"
	"workspace/shared/failure"
	"workspace/shared/money"

	"github.com/rs/zerolog/log"
)

const (
	payosPaymentRequestPath = "/v2/payment-requests"
	payosHeaderClientID     = "x-client-id"
	payosHeaderAPIKey       = "x-api-key"
	payosSuccessCode        = "00"
	payosAmountFactor       = 1
	payosCurrency           = "VND"
	payosMaxDescription     = 25
	payosRequestTimeout     = 15 * time.Second
	payosMaxResponseBytes   = 1 << 20
)

type payosCreateRequest struct {
	OrderCode   int64  `json:"orderCode"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	CancelURL   string `json:"cancelUrl"`
	ReturnURL   string `json:"returnUrl"`
	ExpiredAt   int64  `json:"expiredAt,omitempty"`
	Signature   string `json:"signature"`
}

type payosCreateResponse struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
	Data *struct {
		CheckoutURL   string `json:"checkoutUrl"`
		PaymentLinkID string `json:"paymentLinkId"`
	} `json:"data"`
}

type payosWebhook struct {
	Code      string          `json:"code"`
	Desc      string          `json:"desc"`
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Signature string          `json:"signature"`
}

type payosWebhookData struct {
	OrderCode     int64       `json:"orderCode"`
	Amount        json.Number `json:"amount"`
	Reference     string      `json:"reference"`
	PaymentLinkID string      `json:"paymentLinkId"`
	Currency      string      `json:"currency"`
	Code          string      `json:"code"`
}

type payos struct {
	clientID    string
	apiKey      string
	checksumKey string
	apiURL      string
	returnURL   string
	cancelURL   string
	client      *http.Client
}

func NewPayOS(cfg *config.Config) Adapter {
	c := cfg.Payment.PayOS

	return newPayOS(cfg, &http.Client{Timeout: payosRequestTimeout}, c.APIURL)
}

func newPayOS(cfg *config.Config, client *http.Client, apiURL string) *payos {
	c := cfg.Payment.PayOS

	return &payos{
		clientID:    c.ClientID,
		apiKey:      c.APIKey,
		checksumKey: c.ChecksumKey,
		apiURL:      strings.TrimRight(apiURL, "/"),
		returnURL:   c.ReturnURL,
		cancelURL:   c.CancelURL,
		client:      client,
	}
}

func (p *payos) Name() string {
	return NamePayOS
}

// CheckoutURL creates a payment link. PayOS identifies the booking by its numeric order code.
func (p *payos) CheckoutURL(ctx context.Context, req CheckoutRequest) (string, error) {
	description := req.BookingCode
	if len(description) > payosMaxDescription {
		description = description[:payosMaxDescription]
	}

	body := payosCreateRequest{
		OrderCode:   req.OrderCode,
		Amount:      money.ToMinorUnits(req.Amount, payosAmountFactor),
		Description: description,
		CancelURL:   p.cancelURL,
		ReturnURL:   p.returnURL,
	}

	if !req.ExpiresAt.IsZero() {
		body.ExpiredAt = req.ExpiresAt.Unix()
	}

	body.Signature = hex.EncodeToString(p.digest(fmt.Sprintf(
		"amount=%d&cancelUrl=%s&description=%s&orderCode=%d&returnUrl=%s",
		body.Amount, body.CancelURL, body.Description, body.OrderCode, body.ReturnURL,
	)))

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payos request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL+payosPaymentRequestPath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build payos request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(payosHeaderClientID, p.clientID)
	httpReq.Header.Set(payosHeaderAPIKey, p.apiKey)

	res, err := p.client.Do(httpReq)
	if err != nil {
		log.Error().Err(err).Int64("order_code", req.OrderCode).Msg("failed to call payos")

		return "", fmt.Errorf("failed to call payos: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, payosMaxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read payos response: %w", err)
	}

	var created payosCreateResponse
	if err = json.Unmarshal(raw, &created); err != nil {
		return "", fmt.Errorf("failed to decode payos response (status %d): %w", res.StatusCode, err)
	}

	if created.Code != payosSuccessCode || created.Data == nil || created.Data.CheckoutURL == "" {
		log.Error().Str("code", created.Code).Str("desc", created.Desc).Msg("payos rejected payment request")

		return "", fmt.Errorf("payos rejected payment request: %s %s", created.Code, created.Desc)
	}

	return created.Data.CheckoutURL, nil
}

func (p *payos) VerifyCallback(raw RawCallback) (Callback, error) {
	var hook payosWebhook
	if err := json.Unmarshal(raw.Body, &hook); err != nil || len(hook.Data) == 0 {
		return Callback{}, failure.InvalidSignature(NamePayOS) // nolint:wrapcheck
	}

	canonical, err := payosCanonicalData(hook.Data)
	if err != nil {
		return Callback{}, failure.InvalidSignature(NamePayOS) // nolint:wrapcheck
	}

	if !signedEqual(p.digest(canonical), hook.Signature) {
		return Callback{}, failure.InvalidSignature(NamePayOS) // nolint:wrapcheck
	}

	var data payosWebhookData

	decoder := json.NewDecoder(bytes.NewReader(hook.Data))
	decoder.UseNumber()

	if err = decoder.Decode(&data); err != nil {
		return Callback{}, failure.InvalidAmount("malformed payos data") // nolint:wrapcheck
	}

	amount, err := data.Amount.Int64()
	if err != nil {
		return Callback{}, failure.InvalidAmount("payos amount is not an integer") // nolint:wrapcheck
	}

	if data.OrderCode == 0 {
		return Callback{}, failure.UnknownTransaction("without order code") // nolint:wrapcheck
	}

	currency := data.Currency
	if currency == "" {
		currency = payosCurrency
	}

	reference := data.Reference
	if reference == "" {
		reference = data.PaymentLinkID
	}

	return Callback{
		Gateway:        NamePayOS,
		OrderCode:      data.OrderCode,
		TransactionRef: reference,
		PaymentMethod:  "bank_transfer",
		Amount:         money.FromMinorUnits(amount, payosAmountFactor),
		Currency:       currency,
		Succeeded:      hook.Code == payosSuccessCode && data.Code == payosSuccessCode,
		RawCode:        data.Code,
	}, nil
}

func (p *payos) WriteResponse(w http.ResponseWriter, result model.Result, err error) {
	writeStatusResponse(w, result, err)
}

func (p *payos) digest(data string) []byte {
	mac := hmac.New(sha256.New, []byte(p.checksumKey))
	mac.Write([]byte(data))

	return mac.Sum(nil)
}

// payosCanonicalData renders data as key=value pairs sorted by key. Nulls become empty strings.
func payosCanonicalData(data json.RawMessage) (string, error) {
	fields := map[string]any{}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	if err := decoder.Decode(&fields); err != nil {
		return "", fmt.Errorf("failed to decode payos data: %w", err)
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	pairs := make([]string, len(keys))

	for i, key := range keys {
		value, err := payosValue(fields[key])
		if err != nil {
			return "", err
		}

		pairs[i] = key + "=" + value
	}

	return strings.Join(pairs, "&"), nil
}

func payosValue(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		if v == "null" || v == "undefined" {
			return "", nil
		}

		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		if v {
			return "true", nil
		}

		return "false", nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("failed to encode payos value: %w", err)
		}

		return string(raw), nil
	}
}
