package dto

import (
	"time"

	"workspace/internal/domains/refund/model"
	"workspace/shared/constant"
	gDto "workspace/shared/dto"
	"workspace/shared/timezone"

	"github.com/shopspring/decimal"
)

type FileRefundRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
	Notes     string `json:"notes"      validate:"omitempty,max=1000"`
}

type DecisionRequest struct {
	Approve *bool  `json:"approve" validate:"required"`
	Notes   string `json:"notes"   validate:"omitempty,max=1000"`
}

type ProcessedRequest struct {
	RefundTransactionID string `json:"refund_transaction_id" validate:"required,max=255"`
}

type RefundResponse struct {
	ID                     string          `json:"id"`
	BookingID              string          `json:"booking_id"`
	StaffID                string          `json:"staff_id"`
	OwnerID                string          `json:"owner_id"`
	Status                 model.Status    `json:"status"`
	BasePrice              decimal.Decimal `json:"base_price"`
	NonRefundableFee       decimal.Decimal `json:"non_refundable_fee"`
	RefundPercentage       decimal.Decimal `json:"refund_percentage"`
	CalculatedRefundAmount decimal.Decimal `json:"calculated_refund_amount"`
	SystemCut              decimal.Decimal `json:"system_cut"`
	Currency               string          `json:"currency"`
	StaffNotes             *string         `json:"staff_notes,omitempty"`
	OwnerNotes             *string         `json:"owner_notes,omitempty"`
	RefundTransactionID    *string         `json:"refund_transaction_id,omitempty"`
	RequestedAt            string          `json:"requested_at"`
	OwnerConfirmationTime  *string         `json:"owner_confirmation_time,omitempty"`
	ProcessedTime          *string         `json:"processed_time,omitempty"`
	gDto.Metadata
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}

	s := timezone.Format(*t, constant.DateFormat)

	return &s
}

func (r *RefundResponse) FromModel(m model.RefundRequest) {
	r.ID = m.ID
	r.BookingID = m.BookingID
	r.StaffID = m.StaffID
	r.OwnerID = m.OwnerID
	r.Status = m.Status
	r.BasePrice = m.BasePrice
	r.NonRefundableFee = m.NonRefundableFee
	r.RefundPercentage = m.RefundPercentage
	r.CalculatedRefundAmount = m.CalculatedRefundAmount
	r.SystemCut = m.SystemCut
	r.Currency = m.Currency
	r.StaffNotes = m.StaffNotes
	r.OwnerNotes = m.OwnerNotes
	r.RefundTransactionID = m.RefundTransactionID
	r.RequestedAt = timezone.Format(m.RequestedAt, constant.DateFormat)
	r.OwnerConfirmationTime = formatOptional(m.OwnerConfirmationTime)
	r.ProcessedTime = formatOptional(m.ProcessedTime)
	r.Metadata.FromModel(m.Metadata)
}
