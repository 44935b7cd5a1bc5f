// Package gateway adapts each supported payment provider to one callback and checkout contract.
package gateway

//go:generate go run go.uber.org/mock/mockgen -source=./gateway.go -destination=../mocks/gateway_mock.go -package=mocks

import (
	"context"
	"crypto/hmac"
	"encoding/hex"
	"errors"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"workspace/internal/domains/payment/model"
	"workspace/shared/failure"
	"workspace/transport/http/response"

	"github.com/shopspring/decimal"
)

const (
	NameVNPay  = "vnpay"
	NamePayOS  = "payos"
	NameStripe = "stripe"
)

// ErrUnsupportedEvent is returned for authentic callbacks that carry nothing to settle.
var ErrUnsupportedEvent = errors.New("unsupported gateway event")

// RawCallback is the untouched request a gateway sent.
type RawCallback struct {
	Query      url.Values  `json:"query,omitempty"`
	Header     http.Header `json:"header,omitempty"`
	Body       []byte      `json:"body,omitempty"`
	RemoteAddr string      `json:"remote_addr,omitempty"`
}

// Callback is a verified callback. Either BookingCode or OrderCode identifies the booking.
type Callback struct {
	Gateway        string
	BookingCode    string
	OrderCode      int64
	TransactionRef string
	PaymentMethod  string
	Amount         decimal.Decimal
	Currency       string
	Succeeded      bool
	RawCode        string
}

type CheckoutRequest struct {
	BookingCode string
	OrderCode   int64
	Amount      decimal.Decimal
	Currency    string
	Description string
	ClientIP    string
	ExpiresAt   time.Time
}

type Adapter interface {
	Name() string
	CheckoutURL(ctx context.Context, req CheckoutRequest) (string, error)
	VerifyCallback(raw RawCallback) (Callback, error)
	WriteResponse(w http.ResponseWriter, result model.Result, err error)
}

type Registry interface {
	Get(name string) (Adapter, error)
	Names() []string
}

type registryImpl struct {
	adapters map[string]Adapter
}

func NewRegistry(adapters ...Adapter) Registry {
	registry := &registryImpl{adapters: make(map[string]Adapter, len(adapters))}
	for _, adapter := range adapters {
		registry.adapters[adapter.Name()] = adapter
	}

	return registry
}

func (r *registryImpl) Get(name string) (Adapter, error) {
	adapter, ok := r.adapters[strings.ToLower(name)]
	if !ok {
		return nil, failure.NotFound("unsupported payment gateway " + name) // nolint:wrapcheck
	}

	return adapter, nil
}

func (r *registryImpl) Names() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// signedEqual compares hex digests case-insensitively in constant time.
func signedEqual(expected []byte, provided string) bool {
	got, err := hex.DecodeString(strings.TrimSpace(provided))
	if err != nil {
		return false
	}

	return hmac.Equal(expected, got)
}

// writeStatusResponse renders outcomes as plain HTTP status codes.
func writeStatusResponse(w http.ResponseWriter, result model.Result, err error) {
	if err != nil {
		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, result)
}
