package request

import (
	"context"
	"strings"
	"time"

	"github.com/nekogravitycat/item-sharing-backend/internal/item"
	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/page"
	"github.com/nekogravitycat/item-sharing-backend/internal/user"
)

// ItemFinder resolves the items answering a set of requests.
// Satisfied by item.Repository.
type ItemFinder interface {
	ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]*item.Item, error)
}

type Service interface {
	Create(ctx context.Context, actorID int64, description string) (*Details, error)
	ListOwn(ctx context.Context, actorID int64) ([]*Details, error)
	ListOthers(ctx context.Context, actorID int64, p page.Page) ([]*Details, error)
	GetByID(ctx context.Context, actorID, requestID int64) (*Details, error)
}

type service struct {
	repo        Repository
	userService user.Service
	items       ItemFinder

	now func() time.Time
}

// NewService creates the item request Service. now supplies creation
// timestamps; pass nil to use wall-clock time.
func NewService(repo Repository, userService user.Service, items ItemFinder, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:        repo,
		userService: userService,
		items:       items,
		now:         now,
	}
}

func (s *service) Create(ctx context.Context, actorID int64, description string) (*Details, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrDescriptionRequired
	}

	if err := s.requireUser(ctx, actorID); err != nil {
		return nil, err
	}

	req := &ItemRequest{
		Description: description,
		RequestorID: actorID,
		Created:     s.now(),
	}

	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	return &Details{ItemRequest: *req, Items: []*item.Item{}}, nil
}

func (s *service) ListOwn(ctx context.Context, actorID int64) ([]*Details, error) {
	if err := s.requireUser(ctx, actorID); err != nil {
		return nil, err
	}

	requests, err := s.repo.ListByRequestor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	return s.assemble(ctx, requests)
}

func (s *service) ListOthers(ctx context.Context, actorID int64, p page.Page) ([]*Details, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, actorID); err != nil {
		return nil, err
	}

	requests, err := s.repo.ListOthers(ctx, actorID, p)
	if err != nil {
		return nil, err
	}

	return s.assemble(ctx, requests)
}

func (s *service) GetByID(ctx context.Context, actorID, requestID int64) (*Details, error) {
	if err := s.requireUser(ctx, actorID); err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	details, err := s.assemble(ctx, []*ItemRequest{req})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

func (s *service) requireUser(ctx context.Context, actorID int64) error {
	exists, err := s.userService.Exists(ctx, actorID)
	if err != nil {
		return err
	}
	if !exists {
		return user.ErrNotFound
	}
	return nil
}

// assemble joins requests with answering items in one batch lookup.
func (s *service) assemble(ctx context.Context, requests []*ItemRequest) ([]*Details, error) {
	if len(requests) == 0 {
		return []*Details{}, nil
	}

	ids := make([]int64, len(requests))
	for i, req := range requests {
		ids[i] = req.ID
	}

	items, err := s.items.ListByRequestIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	itemsByRequest := make(map[int64][]*item.Item)
	for _, i := range items {
		if i.RequestID != nil {
			itemsByRequest[*i.RequestID] = append(itemsByRequest[*i.RequestID], i)
		}
	}

	details := make([]*Details, len(requests))
	for idx, req := range requests {
		answered := itemsByRequest[req.ID]
		if answered == nil {
			answered = []*item.Item{}
		}
		details[idx] = &Details{ItemRequest: *req, Items: answered}
	}
	return details, nil
}
