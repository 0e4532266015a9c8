package item

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.New(http.StatusNotFound, "item not found")
	ErrNotOwner            = apperror.New(http.StatusForbidden, "only the owner can edit the item")
	ErrNameRequired        = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrDescriptionRequired = apperror.New(http.StatusBadRequest, "description cannot be empty")
	ErrCommentTextRequired = apperror.New(http.StatusBadRequest, "comment text cannot be empty")
	ErrCommentNotAllowed   = apperror.New(http.StatusBadRequest, "user has no finished booking of this item")
)

// Item is a thing offered for sharing. Available gates whether new
// bookings may be created for it.
type Item struct {
	ID          int64
	Name        string
	Description string
	Available   bool
	OwnerID     int64
	RequestID   *int64 // set when the item answers an item request
}

// Comment is feedback left by a user who finished a booking of the item.
type Comment struct {
	ID         int64
	Text       string
	ItemID     int64
	AuthorID   int64
	AuthorName string
	Created    time.Time
}

// BookingStamp is the minimal booking reference shown on an owner's item view.
type BookingStamp struct {
	ID       int64
	BookerID int64
	Start    time.Time
	End      time.Time
}

// Details is an item joined with its comments and, for the owner,
// the neighbouring approved bookings.
type Details struct {
	Item
	LastBooking *BookingStamp
	NextBooking *BookingStamp
	Comments    []Comment
}
