package dto

import (
	"time"

	"workspace/internal/domains/blockedslot/model"
	"workspace/shared/constant"
	"workspace/shared/timezone"

	"github.com/google/uuid"
)

type CreateBlockedSlotRequest struct {
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time"   validate:"required,gtfield=StartTime"`
	Reason    string    `json:"reason"     validate:"omitempty,max=255"`
}

func (r *CreateBlockedSlotRequest) ToModel(roomID, user string) model.BlockedSlot {
	return model.BlockedSlot{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		StartTime: r.StartTime.UTC(),
		EndTime:   r.EndTime.UTC(),
		Reason:    r.Reason,
		CreatedAt: timezone.NowUTC(),
		CreatedBy: user,
	}
}

type BlockedSlotResponse struct {
	ID        string  `json:"id"`
	RoomID    string  `json:"room_id"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Reason    string  `json:"reason"`
	BookingID *string `json:"booking_id,omitempty"`
	CreatedAt string  `json:"created_at"`
	CreatedBy string  `json:"created_by"`
}

func (r *BlockedSlotResponse) FromModel(m model.BlockedSlot) {
	r.ID = m.ID
	r.RoomID = m.RoomID
	r.StartTime = timezone.Format(m.StartTime, constant.DateFormat)
	r.EndTime = timezone.Format(m.EndTime, constant.DateFormat)
	r.Reason = m.Reason
	r.BookingID = m.BookingID
	r.CreatedAt = timezone.Format(m.CreatedAt, constant.DateFormat)
	r.CreatedBy = m.CreatedBy
}

func FromModels(models []model.BlockedSlot) []BlockedSlotResponse {
	res := make([]BlockedSlotResponse, len(models))
	for i, m := range models {
		res[i].FromModel(m)
	}

	return res
}
