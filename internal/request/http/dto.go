package http

import (
	"time"

	itemHttp "github.com/nekogravitycat/item-sharing-backend/internal/item/http"
	"github.com/nekogravitycat/item-sharing-backend/internal/request"
)

type RequestResponse struct {
	ID          int64                   `json:"id"`
	Description string                  `json:"description"`
	RequestorID int64                   `json:"requestor_id"`
	Created     time.Time               `json:"created"`
	Items       []itemHttp.ItemResponse `json:"items"`
}

func NewRequestResponse(d *request.Details) RequestResponse {
	items := make([]itemHttp.ItemResponse, len(d.Items))
	for i, it := range d.Items {
		items[i] = itemHttp.NewItemResponse(it)
	}
	return RequestResponse{
		ID:          d.ID,
		Description: d.Description,
		RequestorID: d.RequestorID,
		Created:     d.Created,
		Items:       items,
	}
}

type CreateRequestBody struct {
	Description string `json:"description" binding:"required"`
}
