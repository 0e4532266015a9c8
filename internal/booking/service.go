package booking

import (
	"context"
	"log"
	"time"

	"github.com/nekogravitycat/item-sharing-backend/internal/item"
	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/page"
	"github.com/nekogravitycat/item-sharing-backend/internal/user"
)

type CreateRequest struct {
	ItemID int64
	Start  time.Time
	End    time.Time
}

type Service interface {
	Create(ctx context.Context, actorID int64, req CreateRequest) (*Details, error)
	Decide(ctx context.Context, actorID, bookingID int64, approve bool) (*Details, error)
	GetByID(ctx context.Context, actorID, bookingID int64) (*Details, error)
	ListForBooker(ctx context.Context, actorID int64, state StateFilter, p page.Page) ([]*Details, error)
	ListForOwner(ctx context.Context, actorID int64, state StateFilter, p page.Page) ([]*Details, error)
}

type service struct {
	repo        Repository
	userService user.Service
	itemService item.Service

	now func() time.Time
}

// NewService creates the booking Service. now supplies the current instant
// for every temporal decision; pass nil to use wall-clock time.
func NewService(repo Repository, userService user.Service, itemService item.Service, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:        repo,
		userService: userService,
		itemService: itemService,
		now:         now,
	}
}

func (s *service) Create(ctx context.Context, actorID int64, req CreateRequest) (*Details, error) {
	now := s.now()
	if req.Start.IsZero() || req.End.IsZero() {
		return nil, ErrInvalidTimeRange
	}
	if !req.End.After(req.Start) {
		return nil, ErrInvalidTimeRange
	}
	if req.Start.Before(now) {
		return nil, ErrStartTimePast
	}

	booker, err := s.userService.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	it, err := s.itemService.Get(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	if it.OwnerID == actorID {
		return nil, ErrOwnBooking
	}
	// Availability is a plain flag read; no lock is taken against
	// concurrent creates for the same item.
	if !it.Available {
		return nil, ErrItemUnavailable
	}

	b := &Booking{
		Start:    req.Start,
		End:      req.End,
		ItemID:   req.ItemID,
		BookerID: actorID,
		Status:   StatusWaiting,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	log.Printf("booking %d created by user %d for item %d", b.ID, actorID, b.ItemID)

	return &Details{Booking: *b, Booker: *booker, Item: *it}, nil
}

func (s *service) Decide(ctx context.Context, actorID, bookingID int64, approve bool) (*Details, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	it, err := s.itemService.Get(ctx, b.ItemID)
	if err != nil {
		return nil, err
	}

	if it.OwnerID != actorID {
		return nil, ErrNotItemOwner
	}
	if b.Status != StatusWaiting {
		return nil, ErrAlreadyDecided
	}

	next := StatusRejected
	if approve {
		next = StatusApproved
	}

	// Conditional update: only the first decision after the fetch wins,
	// so a racing second approval maps to the same conflict error.
	changed, err := s.repo.UpdateStatus(ctx, bookingID, StatusWaiting, next)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, ErrAlreadyDecided
	}
	b.Status = next

	log.Printf("booking %d decided by user %d: %s", bookingID, actorID, next)

	booker, err := s.userService.GetByID(ctx, b.BookerID)
	if err != nil {
		return nil, err
	}

	return &Details{Booking: *b, Booker: *booker, Item: *it}, nil
}

func (s *service) GetByID(ctx context.Context, actorID, bookingID int64) (*Details, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	it, err := s.itemService.Get(ctx, b.ItemID)
	if err != nil {
		return nil, err
	}

	if b.BookerID != actorID && it.OwnerID != actorID {
		return nil, ErrAccessDenied
	}

	booker, err := s.userService.GetByID(ctx, b.BookerID)
	if err != nil {
		return nil, err
	}

	return &Details{Booking: *b, Booker: *booker, Item: *it}, nil
}

func (s *service) ListForBooker(ctx context.Context, actorID int64, state StateFilter, p page.Page) ([]*Details, error) {
	if err := s.validateListing(ctx, actorID, p); err != nil {
		return nil, err
	}

	bookings, err := s.repo.ListByBooker(ctx, actorID, state, s.now(), p)
	if err != nil {
		return nil, err
	}

	return s.assemble(ctx, bookings)
}

func (s *service) ListForOwner(ctx context.Context, actorID int64, state StateFilter, p page.Page) ([]*Details, error) {
	if err := s.validateListing(ctx, actorID, p); err != nil {
		return nil, err
	}

	bookings, err := s.repo.ListByOwner(ctx, actorID, state, s.now(), p)
	if err != nil {
		return nil, err
	}

	return s.assemble(ctx, bookings)
}

func (s *service) validateListing(ctx context.Context, actorID int64, p page.Page) error {
	if err := p.Validate(); err != nil {
		return err
	}

	exists, err := s.userService.Exists(ctx, actorID)
	if err != nil {
		return err
	}
	if !exists {
		return user.ErrNotFound
	}
	return nil
}

// assemble joins bookings with their bookers and items. The distinct id
// sets are each resolved in one batch call. A referent missing from the
// resolved set is a data-integrity fault and is surfaced, not skipped.
func (s *service) assemble(ctx context.Context, bookings []*Booking) ([]*Details, error) {
	if len(bookings) == 0 {
		return []*Details{}, nil
	}

	bookerIDs := make([]int64, 0, len(bookings))
	itemIDs := make([]int64, 0, len(bookings))
	seenBookers := make(map[int64]bool)
	seenItems := make(map[int64]bool)
	for _, b := range bookings {
		if !seenBookers[b.BookerID] {
			seenBookers[b.BookerID] = true
			bookerIDs = append(bookerIDs, b.BookerID)
		}
		if !seenItems[b.ItemID] {
			seenItems[b.ItemID] = true
			itemIDs = append(itemIDs, b.ItemID)
		}
	}

	users, err := s.userService.ListByIDs(ctx, bookerIDs)
	if err != nil {
		return nil, err
	}
	usersByID := make(map[int64]*user.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	items, err := s.itemService.ListByIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	itemsByID := make(map[int64]*item.Item, len(items))
	for _, i := range items {
		itemsByID[i.ID] = i
	}

	details := make([]*Details, len(bookings))
	for idx, b := range bookings {
		booker, ok := usersByID[b.BookerID]
		if !ok {
			log.Printf("booker %d missing for booking %d", b.BookerID, b.ID)
			return nil, ErrBookerMissing
		}
		it, ok := itemsByID[b.ItemID]
		if !ok {
			log.Printf("item %d missing for booking %d", b.ItemID, b.ID)
			return nil, ErrItemMissing
		}
		details[idx] = &Details{Booking: *b, Booker: *booker, Item: *it}
	}
	return details, nil
}
