package request

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/item-sharing-backend/internal/item"
	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.New(http.StatusNotFound, "item request not found")
	ErrDescriptionRequired = apperror.New(http.StatusBadRequest, "description cannot be empty")
)

// ItemRequest is a wish for an item nobody has listed yet. Owners answer
// it by creating items linked through Item.RequestID.
type ItemRequest struct {
	ID          int64
	Description string
	RequestorID int64
	Created     time.Time
}

// Details is a request joined with the items answering it.
type Details struct {
	ItemRequest
	Items []*item.Item
}
