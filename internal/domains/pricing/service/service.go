package service

import (
	"time"

	"workspace/config"
	"workspace/internal/domains/pricing/model"
	roomModel "workspace/internal/domains/room/model"
	"workspace/shared/failure"
	"workspace/shared/money"

	"github.com/shopspring/decimal"
)

type Pricing interface {
	Quote(room roomModel.Room, start, end time.Time, participants int) (model.Quote, error)
}

type serviceImpl struct {
	policy model.Policy
}

func New(cfg *config.Config) Pricing {
	return NewWithPolicy(model.Policy{
		TaxPercent:        money.FromPercentFloat(cfg.Pricing.TaxPercent),
		ServiceFeePercent: money.FromPercentFloat(cfg.Pricing.ServiceFeePercent),
		DefaultCurrency:   cfg.Pricing.DefaultCurrency,
	})
}

func NewWithPolicy(policy model.Policy) Pricing {
	return &serviceImpl{policy: policy}
}

// Quote bills whole hours, rounding any started hour up. Amounts use the currency's minor-unit scale.
func (s *serviceImpl) Quote(room roomModel.Room, start, end time.Time, participants int) (model.Quote, error) {
	if !start.Before(end) {
		return model.Quote{}, failure.Validation("start time must be before end time") // nolint:wrapcheck
	}

	if participants < 1 {
		return model.Quote{}, failure.Validation("participants must be at least 1") // nolint:wrapcheck
	}

	if !room.HourlyRate.IsPositive() {
		return model.Quote{}, failure.Validation("room has no hourly rate") // nolint:wrapcheck
	}

	billedHours := int64((end.Sub(start) + time.Hour - 1) / time.Hour)

	currency := room.Currency
	if currency == "" {
		currency = s.policy.DefaultCurrency
	}

	// Every component is rounded to what the gateway can actually charge.
	total := money.RoundIn(room.HourlyRate.Mul(decimal.NewFromInt(billedHours)), currency)
	tax := money.PercentIn(total, s.policy.TaxPercent, currency)
	fee := money.PercentIn(total, s.policy.ServiceFeePercent, currency)

	return model.Quote{
		BilledHours: billedHours,
		HourlyRate:  room.HourlyRate,
		TotalPrice:  total,
		TaxAmount:   tax,
		ServiceFee:  fee,
		FinalAmount: total.Add(tax).Add(fee),
		Currency:    currency,
	}, nil
}
