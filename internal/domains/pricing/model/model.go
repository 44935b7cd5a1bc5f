package model

import "github.com/shopspring/decimal"

// Quote is the price of one room window. The same inputs always produce the same Quote.
type Quote struct {
	BilledHours int64           `json:"billed_hours"`
	HourlyRate  decimal.Decimal `json:"hourly_rate"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	ServiceFee  decimal.Decimal `json:"service_fee"`
	FinalAmount decimal.Decimal `json:"final_amount"`
	Currency    string          `json:"currency"`
}

// Policy holds the configured percentages applied on top of the base price.
type Policy struct {
	TaxPercent        decimal.Decimal
	ServiceFeePercent decimal.Decimal
	DefaultCurrency   string
}
