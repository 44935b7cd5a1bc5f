package service_test

import (
	"testing"
	"time"

	"workspace/config"
	"workspace/internal/domains/pricing/model"
	"workspace/internal/domains/pricing/service"
	roomModel "workspace/internal/domains/room/model"
	"workspace/shared/failure"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine() service.Pricing {
	cfg := &config.Config{}
	cfg.Pricing.TaxPercent = 10
	cfg.Pricing.ServiceFeePercent = 5
	cfg.Pricing.DefaultCurrency = "VND"

	return service.New(cfg)
}

func room(rate string) roomModel.Room {
	return roomModel.Room{
		ID:         "room-1",
		HourlyRate: decimal.RequireFromString(rate),
		Capacity:   10,
		IsActive:   true,
	}
}

func usdRoom(rate string) roomModel.Room {
	r := room(rate)
	r.Currency = "USD"

	return r
}

func TestPricing_Quote(t *testing.T) {
	engine := newEngine()
	start := time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		room      roomModel.Room
		end       time.Time
		wantHours int64
		wantTotal string
		wantTax   string
		wantFee   string
		wantFinal string

		wantCurrency string
	}{
		{
			name:      "two and a half hours bill three",
			room:      room("100000"),
			end:       start.Add(150 * time.Minute),
			wantHours: 3,
			wantTotal: "300000",
			wantTax:   "30000",
			wantFee:   "15000",
			wantFinal: "345000",
		},
		{
			name:      "exact hour",
			room:      room("100000"),
			end:       start.Add(time.Hour),
			wantHours: 1,
			wantTotal: "100000",
			wantTax:   "10000",
			wantFee:   "5000",
			wantFinal: "115000",
		},
		{
			name:      "one second over starts a new hour",
			room:      room("100000"),
			end:       start.Add(time.Hour + time.Second),
			wantHours: 2,
			wantTotal: "200000",
			wantTax:   "20000",
			wantFee:   "10000",
			wantFinal: "230000",
		},
		{
			name:         "fractional rate rounds half away from zero",
			room:         usdRoom("12.35"),
			end:          start.Add(time.Hour),
			wantHours:    1,
			wantTotal:    "12.35",
			wantTax:      "1.24",
			wantFee:      "0.62",
			wantFinal:    "14.21",
			wantCurrency: "USD",
		},
		{
			name:      "VND is charged in whole dong",
			room:      room("33333"),
			end:       start.Add(time.Hour),
			wantHours: 1,
			wantTotal: "33333",
			wantTax:   "3333",
			wantFee:   "1667",
			wantFinal: "38333",
		},
		{
			name:      "fractional VND rate rounds to whole dong",
			room:      room("12.35"),
			end:       start.Add(time.Hour),
			wantHours: 1,
			wantTotal: "12",
			wantTax:   "1",
			wantFee:   "1",
			wantFinal: "14",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := engine.Quote(tt.room, start, tt.end, 1)
			require.NoError(t, err)

			assert.Equal(t, tt.wantHours, quote.BilledHours)
			assert.True(t, decimal.RequireFromString(tt.wantTotal).Equal(quote.TotalPrice), "total %s", quote.TotalPrice)
			assert.True(t, decimal.RequireFromString(tt.wantTax).Equal(quote.TaxAmount), "tax %s", quote.TaxAmount)
			assert.True(t, decimal.RequireFromString(tt.wantFee).Equal(quote.ServiceFee), "fee %s", quote.ServiceFee)
			assert.True(t, decimal.RequireFromString(tt.wantFinal).Equal(quote.FinalAmount), "final %s", quote.FinalAmount)
			wantCurrency := tt.wantCurrency
			if wantCurrency == "" {
				wantCurrency = "VND"
			}

			assert.Equal(t, wantCurrency, quote.Currency)
			assert.True(t, quote.TotalPrice.Add(quote.TaxAmount).Add(quote.ServiceFee).Equal(quote.FinalAmount))
		})
	}
}

func TestPricing_QuoteIsDeterministic(t *testing.T) {
	engine := newEngine()
	start := time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(95 * time.Minute)

	first, err := engine.Quote(room("87500.5"), start, end, 4)
	require.NoError(t, err)

	for range 50 {
		again, err := engine.Quote(room("87500.5"), start, end, 4)
		require.NoError(t, err)
		assert.Equal(t, first.FinalAmount.String(), again.FinalAmount.String())
		assert.Equal(t, first.BilledHours, again.BilledHours)
	}
}

func TestPricing_QuoteValidation(t *testing.T) {
	engine := newEngine()
	start := time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		room         roomModel.Room
		end          time.Time
		participants int
	}{
		{name: "end equals start", room: room("100"), end: start, participants: 1},
		{name: "end before start", room: room("100"), end: start.Add(-time.Hour), participants: 1},
		{name: "no participants", room: room("100"), end: start.Add(time.Hour), participants: 0},
		{name: "zero rate", room: room("0"), end: start.Add(time.Hour), participants: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Quote(tt.room, start, tt.end, tt.participants)
			assert.True(t, failure.IsKind(err, failure.KindValidation))
		})
	}
}

func TestPricing_RoomCurrencyWins(t *testing.T) {
	engine := service.NewWithPolicy(model.Policy{DefaultCurrency: "VND"})
	start := time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC)

	r := room("20")
	r.Currency = "USD"

	quote, err := engine.Quote(r, start, start.Add(time.Hour), 1)
	require.NoError(t, err)
	assert.Equal(t, "USD", quote.Currency)
	assert.True(t, decimal.NewFromInt(20).Equal(quote.FinalAmount))
}
