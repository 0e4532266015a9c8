package booking

import (
	"net/http"
	"strings"
	"time"

	"github.com/nekogravitycat/item-sharing-backend/internal/item"
	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/item-sharing-backend/internal/user"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "booking not found")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "end time must be after start time")
	ErrStartTimePast    = apperror.New(http.StatusBadRequest, "cannot create booking in the past")
	ErrUnknownState     = apperror.New(http.StatusBadRequest, "unknown state")
	ErrOwnBooking       = apperror.New(http.StatusForbidden, "owner cannot book own item")
	ErrNotItemOwner     = apperror.New(http.StatusForbidden, "only the item owner can decide the booking")
	ErrAccessDenied     = apperror.New(http.StatusForbidden, "access to booking denied")
	ErrAlreadyDecided   = apperror.New(http.StatusConflict, "booking status already decided")
	ErrItemUnavailable  = apperror.New(http.StatusBadRequest, "item is not available for booking")
	ErrBookerMissing    = apperror.New(http.StatusNotFound, "booker referenced by booking not found")
	ErrItemMissing      = apperror.New(http.StatusNotFound, "item referenced by booking not found")
)

type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"

	// StatusCanceled is part of the status set but no operation currently
	// produces it. Cancellation, when added, is a WAITING transition taken
	// by the booker.
	StatusCanceled Status = "CANCELED"
)

// Booking reserves an item for the half-open window [Start, End).
type Booking struct {
	ID       int64
	Start    time.Time
	End      time.Time
	ItemID   int64
	BookerID int64
	Status   Status
}

// Details is a booking joined with its booker and item.
type Details struct {
	Booking
	Booker user.User
	Item   item.Item
}

// StateFilter names a listing bucket combining status and
// time-relative-to-now predicates.
type StateFilter string

const (
	FilterAll      StateFilter = "ALL"
	FilterCurrent  StateFilter = "CURRENT"
	FilterPast     StateFilter = "PAST"
	FilterFuture   StateFilter = "FUTURE"
	FilterWaiting  StateFilter = "WAITING"
	FilterRejected StateFilter = "REJECTED"
)

// ParseStateFilter resolves a filter name case-insensitively.
func ParseStateFilter(s string) (StateFilter, error) {
	switch StateFilter(strings.ToUpper(s)) {
	case FilterAll:
		return FilterAll, nil
	case FilterCurrent:
		return FilterCurrent, nil
	case FilterPast:
		return FilterPast, nil
	case FilterFuture:
		return FilterFuture, nil
	case FilterWaiting:
		return FilterWaiting, nil
	case FilterRejected:
		return FilterRejected, nil
	default:
		return "", ErrUnknownState
	}
}

// Matches reports whether the booking falls into the filter bucket at the
// given instant. The repository pushes the same predicates into SQL; this
// pure form states the classification contract.
func (f StateFilter) Matches(b *Booking, now time.Time) bool {
	switch f {
	case FilterAll:
		return true
	case FilterCurrent:
		return !b.Start.After(now) && b.End.After(now)
	case FilterPast:
		return b.End.Before(now)
	case FilterFuture:
		return b.Start.After(now)
	case FilterWaiting:
		return b.Status == StatusWaiting
	case FilterRejected:
		return b.Status == StatusRejected
	default:
		return false
	}
}
