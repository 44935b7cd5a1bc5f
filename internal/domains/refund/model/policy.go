package model

import (
	"workspace/shared/money"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Policy is a flat refund rule: pay back Percentage of the base, less a fee charged on the base.
type Policy struct {
	Percentage              decimal.Decimal
	NonRefundableFeePercent decimal.Decimal
}

type Breakdown struct {
	BasePrice              decimal.Decimal
	NonRefundableFee       decimal.Decimal
	RefundPercentage       decimal.Decimal
	CalculatedRefundAmount decimal.Decimal
	SystemCut              decimal.Decimal
}

func NewPolicy(percentage, feePercent float64) Policy {
	return Policy{
		Percentage:              clampPercent(money.FromPercentFloat(percentage)),
		NonRefundableFeePercent: clampPercent(money.FromPercentFloat(feePercent)),
	}
}

func clampPercent(pct decimal.Decimal) decimal.Decimal {
	if pct.IsNegative() {
		return decimal.Zero
	}

	if pct.GreaterThan(hundred) {
		return hundred
	}

	return pct
}

// Compute splits base so that CalculatedRefundAmount + NonRefundableFee + SystemCut == BasePrice.
func (p Policy) Compute(base decimal.Decimal) Breakdown {
	base = money.Round(base)
	fee := money.Percent(base, p.NonRefundableFeePercent)

	calculated := money.Percent(base, p.Percentage).Sub(fee)
	if calculated.IsNegative() {
		calculated = decimal.Zero
	}

	return Breakdown{
		BasePrice:              base,
		NonRefundableFee:       fee,
		RefundPercentage:       p.Percentage,
		CalculatedRefundAmount: calculated,
		SystemCut:              base.Sub(calculated).Sub(fee),
	}
}
