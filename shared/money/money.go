// Package money keeps amounts as decimals rounded to their currency's minor unit.
package money

import (
	"strings"

	"workspace/shared/constant"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Currencies charged in whole units by the payment gateways.
var zeroDecimal = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true, "kmf": true, "krw": true, "mga": true,
	"pyg": true, "rwf": true, "ugx": true, "vnd": true, "vuv": true, "xaf": true, "xof": true, "xpf": true,
}

func IsZeroDecimal(currency string) bool {
	return zeroDecimal[strings.ToLower(currency)]
}

// Scale is the number of fractional digits a currency is charged in.
func Scale(currency string) int32 {
	if IsZeroDecimal(currency) {
		return 0
	}

	return constant.MoneyScale
}

// RoundIn rounds half away from zero to the currency's scale.
func RoundIn(amount decimal.Decimal, currency string) decimal.Decimal {
	return amount.Round(Scale(currency))
}

// PercentIn returns pct percent of amount, rounded to the currency's scale.
func PercentIn(amount, pct decimal.Decimal, currency string) decimal.Decimal {
	return RoundIn(amount.Mul(pct).Div(hundred), currency)
}

// Round rounds half away from zero to two places.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(constant.MoneyScale)
}

// Percent returns pct percent of amount, rounded.
func Percent(amount decimal.Decimal, pct decimal.Decimal) decimal.Decimal {
	return Round(amount.Mul(pct).Div(hundred))
}

func FromPercentFloat(pct float64) decimal.Decimal {
	return decimal.NewFromFloat(pct)
}

// ToMinorUnits converts to the integer unit a gateway expects, e.g. VNPay sends amount x100.
func ToMinorUnits(amount decimal.Decimal, factor int64) int64 {
	return amount.Mul(decimal.NewFromInt(factor)).Round(0).IntPart()
}

func FromMinorUnits(value int64, factor int64) decimal.Decimal {
	return decimal.NewFromInt(value).Div(decimal.NewFromInt(factor))
}
