package http

import (
	"time"

	"github.com/nekogravitycat/item-sharing-backend/internal/item"
)

// ItemTag is the minimal item reference embedded in other modules' responses.
type ItemTag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ItemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     int64  `json:"owner_id"`
	RequestID   *int64 `json:"request_id,omitempty"`
}

func NewItemResponse(i *item.Item) ItemResponse {
	return ItemResponse{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Available:   i.Available,
		OwnerID:     i.OwnerID,
		RequestID:   i.RequestID,
	}
}

type BookingStampResponse struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"booker_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

type CommentResponse struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"author_name"`
	Created    time.Time `json:"created"`
}

func NewCommentResponse(c *item.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		Text:       c.Text,
		AuthorName: c.AuthorName,
		Created:    c.Created,
	}
}

type ItemDetailsResponse struct {
	ItemResponse
	LastBooking *BookingStampResponse `json:"last_booking,omitempty"`
	NextBooking *BookingStampResponse `json:"next_booking,omitempty"`
	Comments    []CommentResponse     `json:"comments"`
}

func NewItemDetailsResponse(d *item.Details) ItemDetailsResponse {
	resp := ItemDetailsResponse{
		ItemResponse: NewItemResponse(&d.Item),
		Comments:     make([]CommentResponse, 0, len(d.Comments)),
	}
	for i := range d.Comments {
		resp.Comments = append(resp.Comments, NewCommentResponse(&d.Comments[i]))
	}
	if d.LastBooking != nil {
		resp.LastBooking = newStampResponse(d.LastBooking)
	}
	if d.NextBooking != nil {
		resp.NextBooking = newStampResponse(d.NextBooking)
	}
	return resp
}

func newStampResponse(s *item.BookingStamp) *BookingStampResponse {
	return &BookingStampResponse{
		ID:       s.ID,
		BookerID: s.BookerID,
		Start:    s.Start,
		End:      s.End,
	}
}

type CreateItemBody struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Available   *bool  `json:"available" binding:"required"`
	RequestID   *int64 `json:"request_id"`
}

type UpdateItemBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type CreateCommentBody struct {
	Text string `json:"text" binding:"required"`
}
