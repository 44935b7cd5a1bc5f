package dto

import (
	"time"

	"workspace/internal/domains/booking/model"
	pricingModel "workspace/internal/domains/pricing/model"
	"workspace/shared"
	"workspace/shared/constant"
	gDto "workspace/shared/dto"
	"workspace/shared/timezone"

	"github.com/shopspring/decimal"
)

type AdmitRequest struct {
	RoomID       string    `json:"room_id"      validate:"required,uuid"`
	StartTime    time.Time `json:"start_time"   validate:"required"`
	EndTime      time.Time `json:"end_time"     validate:"required"`
	Participants int       `json:"participants" validate:"required,gt=0"`
}

type QuoteRequest = AdmitRequest

type CheckoutRequest struct {
	Gateway string `json:"gateway" validate:"required,oneof=vnpay payos stripe"`
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=255"`
}

type QuoteResponse struct {
	RoomID      string          `json:"room_id"`
	StartTime   string          `json:"start_time"`
	EndTime     string          `json:"end_time"`
	BilledHours int64           `json:"billed_hours"`
	HourlyRate  decimal.Decimal `json:"hourly_rate"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	ServiceFee  decimal.Decimal `json:"service_fee"`
	FinalAmount decimal.Decimal `json:"final_amount"`
	Currency    string          `json:"currency"`
}

func (r *QuoteResponse) FromQuote(req AdmitRequest, quote pricingModel.Quote) {
	r.RoomID = req.RoomID
	r.StartTime = timezone.Format(req.StartTime, constant.DateFormat)
	r.EndTime = timezone.Format(req.EndTime, constant.DateFormat)
	r.BilledHours = quote.BilledHours
	r.HourlyRate = quote.HourlyRate
	r.TotalPrice = quote.TotalPrice
	r.TaxAmount = quote.TaxAmount
	r.ServiceFee = quote.ServiceFee
	r.FinalAmount = quote.FinalAmount
	r.Currency = quote.Currency
}

type CheckoutResponse struct {
	BookingCode string `json:"booking_code"`
	Gateway     string `json:"gateway"`
	CheckoutURL string `json:"checkout_url"`
}

type BookingResponse struct {
	ID                 string          `json:"id"`
	BookingCode        string          `json:"booking_code"`
	OrderCode          int64           `json:"order_code"`
	RoomID             string          `json:"room_id"`
	CustomerID         string          `json:"customer_id"`
	StartTime          string          `json:"start_time"`
	EndTime            string          `json:"end_time"`
	Participants       int             `json:"participants"`
	TotalPrice         decimal.Decimal `json:"total_price"`
	TaxAmount          decimal.Decimal `json:"tax_amount"`
	ServiceFee         decimal.Decimal `json:"service_fee"`
	FinalAmount        decimal.Decimal `json:"final_amount"`
	Currency           string          `json:"currency"`
	Status             model.Status    `json:"status"`
	PaymentGateway     *string         `json:"payment_gateway,omitempty"`
	PaymentMethodID    *string         `json:"payment_method_id,omitempty"`
	CheckedInAt        *string         `json:"checked_in_at,omitempty"`
	CheckedOutAt       *string         `json:"checked_out_at,omitempty"`
	CancellationReason *string         `json:"cancellation_reason,omitempty"`
	gDto.Metadata
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}

	s := timezone.Format(*t, constant.DateFormat)

	return &s
}

func (r *BookingResponse) FromModel(m model.Booking) {
	r.ID = m.ID
	r.BookingCode = m.BookingCode
	r.OrderCode = m.OrderCode
	r.RoomID = m.RoomID
	r.CustomerID = m.CustomerID
	r.StartTime = timezone.Format(m.StartTime, constant.DateFormat)
	r.EndTime = timezone.Format(m.EndTime, constant.DateFormat)
	r.Participants = m.Participants
	r.TotalPrice = m.TotalPrice
	r.TaxAmount = m.TaxAmount
	r.ServiceFee = m.ServiceFee
	r.FinalAmount = m.FinalAmount
	r.Currency = m.Currency
	r.Status = m.Status
	r.PaymentGateway = m.PaymentGateway
	r.PaymentMethodID = m.PaymentMethodID
	r.CheckedInAt = formatOptional(m.CheckedInAt)
	r.CheckedOutAt = formatOptional(m.CheckedOutAt)
	r.CancellationReason = m.CancellationReason
	r.Metadata.FromModel(m.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// ListFilter narrows a customer's own booking list.
type ListFilter struct {
	Status string `validate:"omitempty,oneof=pending confirmed in_progress completed cancelled"`
	RoomID string `validate:"omitempty,uuid"`
}
