package item

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/page"
	"github.com/nekogravitycat/item-sharing-backend/internal/user"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, i *Item) error {
	args := m.Called(ctx, i)
	if i != nil {
		i.ID = 5
	}
	return args.Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, id int64) (*Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Item), args.Error(1)
}

func (m *mockRepository) Update(ctx context.Context, i *Item) error {
	args := m.Called(ctx, i)
	return args.Error(0)
}

func (m *mockRepository) ListByOwner(ctx context.Context, ownerID int64, p page.Page) ([]*Item, error) {
	args := m.Called(ctx, ownerID, p)
	return args.Get(0).([]*Item), args.Error(1)
}

func (m *mockRepository) Search(ctx context.Context, text string, p page.Page) ([]*Item, error) {
	args := m.Called(ctx, text, p)
	return args.Get(0).([]*Item), args.Error(1)
}

func (m *mockRepository) ListByIDs(ctx context.Context, ids []int64) ([]*Item, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*Item), args.Error(1)
}

func (m *mockRepository) ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]*Item, error) {
	args := m.Called(ctx, requestIDs)
	return args.Get(0).([]*Item), args.Error(1)
}

func (m *mockRepository) CreateComment(ctx context.Context, c *Comment) error {
	args := m.Called(ctx, c)
	if c != nil {
		c.ID = 7
	}
	return args.Error(0)
}

func (m *mockRepository) ListCommentsByItems(ctx context.Context, itemIDs []int64) ([]Comment, error) {
	args := m.Called(ctx, itemIDs)
	return args.Get(0).([]Comment), args.Error(1)
}

func (m *mockRepository) LastBookings(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]*BookingStamp, error) {
	args := m.Called(ctx, itemIDs, now)
	return args.Get(0).(map[int64]*BookingStamp), args.Error(1)
}

func (m *mockRepository) NextBookings(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]*BookingStamp, error) {
	args := m.Called(ctx, itemIDs, now)
	return args.Get(0).(map[int64]*BookingStamp), args.Error(1)
}

func (m *mockRepository) HasFinishedBooking(ctx context.Context, itemID, userID int64, now time.Time) (bool, error) {
	args := m.Called(ctx, itemID, userID, now)
	return args.Bool(0), args.Error(1)
}

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Create(ctx context.Context, req user.CreateRequest) (*user.User, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserService) GetByID(ctx context.Context, id int64) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserService) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserService) List(ctx context.Context) ([]*user.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*user.User), args.Error(1)
}

func (m *mockUserService) ListByIDs(ctx context.Context, ids []int64) ([]*user.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*user.User), args.Error(1)
}

func (m *mockUserService) Update(ctx context.Context, id int64, req user.UpdateRequest) (*user.User, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *mockUserService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var testNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func newTestService() (Service, *mockRepository, *mockUserService) {
	repo := new(mockRepository)
	users := new(mockUserService)
	return NewService(repo, users, func() time.Time { return testNow }), repo, users
}

func ownedItem() *Item {
	return &Item{ID: 5, Name: "Drill", Description: "Power drill", Available: true, OwnerID: 1}
}

func TestCreate_RequiresFields(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), 1, CreateRequest{Description: "d", Available: true})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = svc.Create(context.Background(), 1, CreateRequest{Name: "n", Available: true})
	assert.ErrorIs(t, err, ErrDescriptionRequired)
}

func TestCreate_UnknownOwner(t *testing.T) {
	svc, _, users := newTestService()

	users.On("Exists", mock.Anything, int64(42)).Return(false, nil)

	_, err := svc.Create(context.Background(), 42, CreateRequest{Name: "n", Description: "d", Available: true})
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestCreate_Success(t *testing.T) {
	svc, repo, users := newTestService()

	users.On("Exists", mock.Anything, int64(1)).Return(true, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*item.Item")).Return(nil)

	i, err := svc.Create(context.Background(), 1, CreateRequest{Name: "Drill", Description: "Power drill", Available: true})

	require.NoError(t, err)
	assert.Equal(t, int64(5), i.ID)
	assert.Equal(t, int64(1), i.OwnerID)
	assert.True(t, i.Available)
}

func TestUpdate_OnlyOwner(t *testing.T) {
	svc, repo, _ := newTestService()

	repo.On("GetByID", mock.Anything, int64(5)).Return(ownedItem(), nil)

	name := "Better drill"
	_, err := svc.Update(context.Background(), 2, 5, UpdateRequest{Name: &name})
	assert.ErrorIs(t, err, ErrNotOwner)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdate_PatchesOnlyGivenFields(t *testing.T) {
	svc, repo, _ := newTestService()

	repo.On("GetByID", mock.Anything, int64(5)).Return(ownedItem(), nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*item.Item")).Return(nil)

	available := false
	i, err := svc.Update(context.Background(), 1, 5, UpdateRequest{Available: &available})

	require.NoError(t, err)
	assert.Equal(t, "Drill", i.Name)
	assert.False(t, i.Available)
}

func TestSearch_BlankTextShortCircuits(t *testing.T) {
	svc, repo, _ := newTestService()

	items, err := svc.Search(context.Background(), "   ", page.Page{From: 0, Size: 10})

	require.NoError(t, err)
	assert.Empty(t, items)
	repo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearch_ValidatesPage(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Search(context.Background(), "drill", page.Page{From: -1, Size: 10})
	assert.ErrorIs(t, err, page.ErrNegativeFrom)
}

func TestGetByID_OwnerSeesBookingStamps(t *testing.T) {
	svc, repo, _ := newTestService()

	repo.On("GetByID", mock.Anything, int64(5)).Return(ownedItem(), nil)
	repo.On("ListCommentsByItems", mock.Anything, []int64{5}).Return([]Comment{
		{ID: 7, Text: "works great", ItemID: 5, AuthorID: 2, AuthorName: "Alice"},
	}, nil)
	last := &BookingStamp{ID: 10, BookerID: 2, Start: testNow.Add(-2 * time.Hour), End: testNow.Add(-time.Hour)}
	next := &BookingStamp{ID: 11, BookerID: 3, Start: testNow.Add(time.Hour), End: testNow.Add(2 * time.Hour)}
	repo.On("LastBookings", mock.Anything, []int64{5}, testNow).Return(map[int64]*BookingStamp{5: last}, nil)
	repo.On("NextBookings", mock.Anything, []int64{5}, testNow).Return(map[int64]*BookingStamp{5: next}, nil)

	d, err := svc.GetByID(context.Background(), 1, 5)

	require.NoError(t, err)
	require.NotNil(t, d.LastBooking)
	require.NotNil(t, d.NextBooking)
	assert.Equal(t, int64(10), d.LastBooking.ID)
	assert.Len(t, d.Comments, 1)
}

func TestGetByID_NonOwnerGetsNoBookingStamps(t *testing.T) {
	svc, repo, _ := newTestService()

	repo.On("GetByID", mock.Anything, int64(5)).Return(ownedItem(), nil)
	repo.On("ListCommentsByItems", mock.Anything, []int64{5}).Return([]Comment{}, nil)

	d, err := svc.GetByID(context.Background(), 2, 5)

	require.NoError(t, err)
	assert.Nil(t, d.LastBooking)
	assert.Nil(t, d.NextBooking)
	repo.AssertNotCalled(t, "LastBookings", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddComment_RequiresFinishedBooking(t *testing.T) {
	svc, repo, users := newTestService()

	users.On("GetByID", mock.Anything, int64(2)).Return(&user.User{ID: 2, Name: "Alice"}, nil)
	repo.On("GetByID", mock.Anything, int64(5)).Return(ownedItem(), nil)
	repo.On("HasFinishedBooking", mock.Anything, int64(5), int64(2), testNow).Return(false, nil)

	_, err := svc.AddComment(context.Background(), 2, 5, "nice")
	assert.ErrorIs(t, err, ErrCommentNotAllowed)
}

func TestAddComment_Success(t *testing.T) {
	svc, repo, users := newTestService()

	users.On("GetByID", mock.Anything, int64(2)).Return(&user.User{ID: 2, Name: "Alice"}, nil)
	repo.On("GetByID", mock.Anything, int64(5)).Return(ownedItem(), nil)
	repo.On("HasFinishedBooking", mock.Anything, int64(5), int64(2), testNow).Return(true, nil)
	repo.On("CreateComment", mock.Anything, mock.AnythingOfType("*item.Comment")).Return(nil)

	c, err := svc.AddComment(context.Background(), 2, 5, "works great")

	require.NoError(t, err)
	assert.Equal(t, int64(7), c.ID)
	assert.Equal(t, "Alice", c.AuthorName)
	assert.Equal(t, testNow, c.Created)
}

func TestAddComment_BlankText(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.AddComment(context.Background(), 2, 5, "  ")
	assert.ErrorIs(t, err, ErrCommentTextRequired)
}
