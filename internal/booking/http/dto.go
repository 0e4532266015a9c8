package http

import (
	"time"

	"github.com/nekogravitycat/item-sharing-backend/internal/booking"
	itemHttp "github.com/nekogravitycat/item-sharing-backend/internal/item/http"
	userHttp "github.com/nekogravitycat/item-sharing-backend/internal/user/http"
)

type BookingResponse struct {
	ID     int64            `json:"id"`
	Start  time.Time        `json:"start"`
	End    time.Time        `json:"end"`
	Status string           `json:"status"`
	Booker userHttp.UserTag `json:"booker"`
	Item   itemHttp.ItemTag `json:"item"`
}

func NewBookingResponse(d *booking.Details) BookingResponse {
	return BookingResponse{
		ID:     d.ID,
		Start:  d.Start,
		End:    d.End,
		Status: string(d.Booking.Status),
		Booker: userHttp.UserTag{ID: d.Booker.ID, Name: d.Booker.Name},
		Item:   itemHttp.ItemTag{ID: d.Item.ID, Name: d.Item.Name},
	}
}

type CreateBookingBody struct {
	ItemID int64     `json:"item_id" binding:"required"`
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
}
