package model

import (
	"time"

	"workspace/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID                   = "id"
	FieldBookingCode          = "booking_code"
	FieldOrderCode            = "order_code"
	FieldRoomID               = "room_id"
	FieldCustomerID           = "customer_id"
	FieldStartTime            = "start_time"
	FieldEndTime              = "end_time"
	FieldStatus               = "status"
	FieldPaymentGateway       = "payment_gateway"
	FieldPaymentMethodID      = "payment_method_id"
	FieldPaymentTransactionID = "payment_transaction_id"
	FieldCheckedInAt          = "checked_in_at"
	FieldCheckedOutAt         = "checked_out_at"
	FieldCancellationReason   = "cancellation_reason"

	ConstraintNoOverlap            = "bookings_no_overlap"
	ConstraintPaymentTransactionID = "bookings_payment_transaction_id_key"

	CacheKeyGet    = "booking:get"
	CacheKeyGetAll = "booking:gets"
	CacheKeyCount  = "booking:count"
)

type Booking struct {
	ID                   string          `db:"id"`
	BookingCode          string          `db:"booking_code"`
	OrderCode            int64           `db:"order_code"`
	RoomID               string          `db:"room_id"`
	CustomerID           string          `db:"customer_id"`
	StartTime            time.Time       `db:"start_time"`
	EndTime              time.Time       `db:"end_time"`
	Participants         int             `db:"participants"`
	TotalPrice           decimal.Decimal `db:"total_price"`
	TaxAmount            decimal.Decimal `db:"tax_amount"`
	ServiceFee           decimal.Decimal `db:"service_fee"`
	FinalAmount          decimal.Decimal `db:"final_amount"`
	Currency             string          `db:"currency"`
	Status               Status          `db:"status"`
	PaymentGateway       *string         `db:"payment_gateway"`
	PaymentMethodID      *string         `db:"payment_method_id"`
	PaymentTransactionID *string         `db:"payment_transaction_id"`
	CheckedInAt          *time.Time      `db:"checked_in_at"`
	CheckedOutAt         *time.Time      `db:"checked_out_at"`
	CancellationReason   *string         `db:"cancellation_reason"`
	model.Metadata
}

// TransactionRef returns the settled gateway reference, empty while unpaid.
func (b Booking) TransactionRef() string {
	if b.PaymentTransactionID == nil {
		return ""
	}

	return *b.PaymentTransactionID
}
