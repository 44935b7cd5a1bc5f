package model

import (
	"time"

	"workspace/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "refund_requests"
	EntityName = "refund request"

	FieldID                    = "id"
	FieldBookingID             = "booking_id"
	FieldStaffID               = "staff_id"
	FieldOwnerID               = "owner_id"
	FieldStatus                = "status"
	FieldOwnerNotes            = "owner_notes"
	FieldRefundTransactionID   = "refund_transaction_id"
	FieldOwnerConfirmationTime = "owner_confirmation_time"
	FieldProcessedTime         = "processed_time"

	ConstraintOneOpenPerBooking = "refund_requests_booking_open_key"

	CacheKeyGet = "refund:get"
)

type RefundRequest struct {
	ID                     string          `db:"id"`
	BookingID              string          `db:"booking_id"`
	StaffID                string          `db:"staff_id"`
	OwnerID                string          `db:"owner_id"`
	Status                 Status          `db:"status"`
	BasePrice              decimal.Decimal `db:"base_price"`
	NonRefundableFee       decimal.Decimal `db:"non_refundable_fee"`
	RefundPercentage       decimal.Decimal `db:"refund_percentage"`
	CalculatedRefundAmount decimal.Decimal `db:"calculated_refund_amount"`
	SystemCut              decimal.Decimal `db:"system_cut"`
	Currency               string          `db:"currency"`
	StaffNotes             *string         `db:"staff_notes"`
	OwnerNotes             *string         `db:"owner_notes"`
	RefundTransactionID    *string         `db:"refund_transaction_id"`
	RequestedAt            time.Time       `db:"requested_at"`
	OwnerConfirmationTime  *time.Time      `db:"owner_confirmation_time"`
	ProcessedTime          *time.Time      `db:"processed_time"`
	model.Metadata
}

func (r *RefundRequest) ApplyBreakdown(b Breakdown) {
	r.BasePrice = b.BasePrice
	r.NonRefundableFee = b.NonRefundableFee
	r.RefundPercentage = b.RefundPercentage
	r.CalculatedRefundAmount = b.CalculatedRefundAmount
	r.SystemCut = b.SystemCut
}
