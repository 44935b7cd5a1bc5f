package model

import "github.com/shopspring/decimal"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID         = "id"
	FieldOwnerID    = "owner_id"
	FieldHourlyRate = "hourly_rate"
	FieldCapacity   = "capacity"
	FieldIsActive   = "is_active"
)

// Room is owned by the listing catalog; bookings only ever read it.
type Room struct {
	ID          string          `db:"id"`
	OwnerID     string          `db:"owner_id"`
	Name        string          `db:"name"`
	HourlyRate  decimal.Decimal `db:"hourly_rate"`
	DailyRate   decimal.Decimal `db:"daily_rate"`
	MonthlyRate decimal.Decimal `db:"monthly_rate"`
	Currency    string          `db:"currency"`
	Capacity    int             `db:"capacity"`
	IsActive    bool            `db:"is_active"`
	IsVerified  bool            `db:"is_verified"`
}
