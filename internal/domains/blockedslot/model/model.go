package model

import "time"

const (
	TableName  = "blocked_time_slots"
	EntityName = "blocked_slot"

	FieldID        = "id"
	FieldRoomID    = "room_id"
	FieldStartTime = "start_time"
	FieldEndTime   = "end_time"
	FieldBookingID = "booking_id"
)

// BlockedSlot removes a room window from sale. BookingID is set only for blocks derived from a confirmed booking.
type BlockedSlot struct {
	ID        string    `db:"id"`
	RoomID    string    `db:"room_id"`
	StartTime time.Time `db:"start_time"`
	EndTime   time.Time `db:"end_time"`
	Reason    string    `db:"reason"`
	BookingID *string   `db:"booking_id"`
	CreatedAt time.Time `db:"created_at"`
	CreatedBy string    `db:"created_by"`
}

func (b BlockedSlot) IsBookingDerived() bool {
	return b.BookingID != nil
}
