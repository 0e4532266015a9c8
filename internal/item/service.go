package item

import (
	"context"
	"strings"
	"time"

	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/page"
	"github.com/nekogravitycat/item-sharing-backend/internal/user"
)

type CreateRequest struct {
	Name        string
	Description string
	Available   bool
	RequestID   *int64
}

type UpdateRequest struct {
	Name        *string
	Description *string
	Available   *bool
}

// Service defines business logic related to items.
// The booking core also consumes it as the item catalog (GetByID, ListByIDs).
type Service interface {
	Create(ctx context.Context, ownerID int64, req CreateRequest) (*Item, error)
	Update(ctx context.Context, actorID, itemID int64, req UpdateRequest) (*Item, error)
	Get(ctx context.Context, itemID int64) (*Item, error)
	GetByID(ctx context.Context, actorID, itemID int64) (*Details, error)
	ListByOwner(ctx context.Context, ownerID int64, p page.Page) ([]*Details, error)
	Search(ctx context.Context, text string, p page.Page) ([]*Item, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*Item, error)
	AddComment(ctx context.Context, actorID, itemID int64, text string) (*Comment, error)
}

type service struct {
	repo        Repository
	userService user.Service

	now func() time.Time
}

// NewService creates a new item Service. now supplies the current instant
// for temporal queries; pass nil to use wall-clock time.
func NewService(repo Repository, userService user.Service, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:        repo,
		userService: userService,
		now:         now,
	}
}

func (s *service) Create(ctx context.Context, ownerID int64, req CreateRequest) (*Item, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrDescriptionRequired
	}

	exists, err := s.userService.Exists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, user.ErrNotFound
	}

	i := &Item{
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
		OwnerID:     ownerID,
		RequestID:   req.RequestID,
	}

	if err := s.repo.Create(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *service) Update(ctx context.Context, actorID, itemID int64, req UpdateRequest) (*Item, error) {
	i, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if i.OwnerID != actorID {
		return nil, ErrNotOwner
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrNameRequired
		}
		i.Name = *req.Name
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			return nil, ErrDescriptionRequired
		}
		i.Description = *req.Description
	}
	if req.Available != nil {
		i.Available = *req.Available
	}

	if err := s.repo.Update(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

// Get returns the bare item. This is the catalog contract the booking
// core consumes; it skips the comment and neighbouring-booking joins.
func (s *service) Get(ctx context.Context, itemID int64) (*Item, error) {
	return s.repo.GetByID(ctx, itemID)
}

func (s *service) GetByID(ctx context.Context, actorID, itemID int64) (*Details, error) {
	i, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	details, err := s.assemble(ctx, []*Item{i}, actorID)
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID int64, p page.Page) ([]*Details, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.userService.Exists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, user.ErrNotFound
	}

	items, err := s.repo.ListByOwner(ctx, ownerID, p)
	if err != nil {
		return nil, err
	}

	return s.assemble(ctx, items, ownerID)
}

// assemble joins items with comments and, for items the actor owns,
// the last and next approved bookings. All lookups are batched.
func (s *service) assemble(ctx context.Context, items []*Item, actorID int64) ([]*Details, error) {
	if len(items) == 0 {
		return []*Details{}, nil
	}

	ids := make([]int64, 0, len(items))
	ownedIDs := make([]int64, 0, len(items))
	for _, i := range items {
		ids = append(ids, i.ID)
		if i.OwnerID == actorID {
			ownedIDs = append(ownedIDs, i.ID)
		}
	}

	comments, err := s.repo.ListCommentsByItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	commentsByItem := make(map[int64][]Comment)
	for _, c := range comments {
		commentsByItem[c.ItemID] = append(commentsByItem[c.ItemID], c)
	}

	var last, next map[int64]*BookingStamp
	if len(ownedIDs) > 0 {
		now := s.now()
		if last, err = s.repo.LastBookings(ctx, ownedIDs, now); err != nil {
			return nil, err
		}
		if next, err = s.repo.NextBookings(ctx, ownedIDs, now); err != nil {
			return nil, err
		}
	}

	details := make([]*Details, len(items))
	for idx, i := range items {
		d := &Details{
			Item:     *i,
			Comments: commentsByItem[i.ID],
		}
		if i.OwnerID == actorID {
			d.LastBooking = last[i.ID]
			d.NextBooking = next[i.ID]
		}
		details[idx] = d
	}
	return details, nil
}

func (s *service) Search(ctx context.Context, text string, p page.Page) ([]*Item, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	// Blank search matches nothing; skip the store round trip.
	if strings.TrimSpace(text) == "" {
		return []*Item{}, nil
	}

	return s.repo.Search(ctx, text, p)
}

func (s *service) ListByIDs(ctx context.Context, ids []int64) ([]*Item, error) {
	return s.repo.ListByIDs(ctx, ids)
}

func (s *service) AddComment(ctx context.Context, actorID, itemID int64, text string) (*Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrCommentTextRequired
	}

	author, err := s.userService.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(ctx, itemID); err != nil {
		return nil, err
	}

	now := s.now()
	booked, err := s.repo.HasFinishedBooking(ctx, itemID, actorID, now)
	if err != nil {
		return nil, err
	}
	if !booked {
		return nil, ErrCommentNotAllowed
	}

	c := &Comment{
		Text:       text,
		ItemID:     itemID,
		AuthorID:   actorID,
		AuthorName: author.Name,
		Created:    now,
	}

	if err := s.repo.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
