package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/item-sharing-backend/internal/booking"
	"github.com/nekogravitycat/item-sharing-backend/internal/identity"
	"github.com/nekogravitycat/item-sharing-backend/internal/item"
	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/page"
	"github.com/nekogravitycat/item-sharing-backend/internal/user"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Create(ctx context.Context, actorID int64, req booking.CreateRequest) (*booking.Details, error) {
	args := m.Called(ctx, actorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Details), args.Error(1)
}

func (m *mockService) Decide(ctx context.Context, actorID, bookingID int64, approve bool) (*booking.Details, error) {
	args := m.Called(ctx, actorID, bookingID, approve)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Details), args.Error(1)
}

func (m *mockService) GetByID(ctx context.Context, actorID, bookingID int64) (*booking.Details, error) {
	args := m.Called(ctx, actorID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Details), args.Error(1)
}

func (m *mockService) ListForBooker(ctx context.Context, actorID int64, state booking.StateFilter, p page.Page) ([]*booking.Details, error) {
	args := m.Called(ctx, actorID, state, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*booking.Details), args.Error(1)
}

func (m *mockService) ListForOwner(ctx context.Context, actorID int64, state booking.StateFilter, p page.Page) ([]*booking.Details, error) {
	args := m.Called(ctx, actorID, state, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*booking.Details), args.Error(1)
}

func newTestRouter(svc booking.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group(""), NewHandler(svc), identity.ActorRequired())
	return r
}

func sampleDetails() *booking.Details {
	return &booking.Details{
		Booking: booking.Booking{
			ID:       10,
			Start:    time.Date(2026, 1, 16, 12, 0, 0, 0, time.UTC),
			End:      time.Date(2026, 1, 16, 14, 0, 0, 0, time.UTC),
			ItemID:   5,
			BookerID: 2,
			Status:   booking.StatusWaiting,
		},
		Booker: user.User{ID: 2, Name: "Alice", Email: "alice@example.com"},
		Item:   item.Item{ID: 5, Name: "Drill", Available: true, OwnerID: 1},
	}
}

func TestCreate_Created(t *testing.T) {
	svc := new(mockService)
	r := newTestRouter(svc)

	svc.On("Create", mock.Anything, int64(2), mock.AnythingOfType("booking.CreateRequest")).
		Return(sampleDetails(), nil)

	body := `{"item_id":5,"start":"2026-01-16T12:00:00Z","end":"2026-01-16T14:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(identity.ActorHeader, "2")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(10), resp.ID)
	assert.Equal(t, "WAITING", resp.Status)
	assert.Equal(t, "Alice", resp.Booker.Name)
	assert.Equal(t, "Drill", resp.Item.Name)
}

func TestCreate_MissingActorHeader(t *testing.T) {
	svc := new(mockService)
	r := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{"item_id":5}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_MalformedActorHeader(t *testing.T) {
	svc := new(mockService)
	r := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{}`))
	req.Header.Set(identity.ActorHeader, "not-a-number")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreate_InvalidBody(t *testing.T) {
	svc := new(mockService)
	r := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{"start":"2026-01-16T12:00:00Z"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(identity.ActorHeader, "2")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreate_ServiceErrorsMapped(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"unavailable item", booking.ErrItemUnavailable, http.StatusBadRequest},
		{"own item", booking.ErrOwnBooking, http.StatusForbidden},
		{"unknown item", item.ErrNotFound, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(mockService)
			r := newTestRouter(svc)

			svc.On("Create", mock.Anything, int64(2), mock.Anything).Return(nil, tc.err)

			body := `{"item_id":5,"start":"2026-01-16T12:00:00Z","end":"2026-01-16T14:00:00Z"}`
			req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set(identity.ActorHeader, "2")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.code, w.Code)
		})
	}
}

func TestDecide_OK(t *testing.T) {
	svc := new(mockService)
	r := newTestRouter(svc)

	approved := sampleDetails()
	approved.Booking.Status = booking.StatusApproved
	svc.On("Decide", mock.Anything, int64(1), int64(10), true).Return(approved, nil)

	req := httptest.NewRequest(http.MethodPatch, "/bookings/10?approved=true", nil)
	req.Header.Set(identity.ActorHeader, "1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "APPROVED", resp.Status)
}

func TestDecide_MissingApprovedParam(t *testing.T) {
	svc := new(mockService)
	r := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPatch, "/bookings/10", nil)
	req.Header.Set(identity.ActorHeader, "1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Decide", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDecide_Conflict(t *testing.T) {
	svc := new(mockService)
	r := newTestRouter(svc)

	svc.On("Decide", mock.Anything, int64(1), int64(10), false).Return(nil, booking.ErrAlreadyDecided)

	req := httptest.NewRequest(http.MethodPatch, "/bookings/10?approved=false", nil)
	req.Header.Set(identity.ActorHeader, "1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGet_Forbidden(t *testing.T) {
	svc := new(mockService)
	r := newTestRouter(svc)

	svc.On("GetByID", mock.Anything, int64(3), int64(10)).Return(nil, booking.ErrAccessDenied)

	req := httptest.NewRequest(http.MethodGet, "/bookings/10", nil)
	req.Header.Set(identity.ActorHeader, "3")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGet_BadID(t *testing.T) {
	svc := new(mockService)
	r := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/bookings/abc", nil)
	req.Header.Set(identity.ActorHeader, "2")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListForBooker_Defaults(t *testing.T) {
	svc := new(mockService)
	r := newTestRouter(svc)

	svc.On("ListForBooker", mock.Anything, int64(2), booking.FilterAll, page.Page{From: 0, Size: 10}).
		Return([]*booking.Details{sampleDetails()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	req.Header.Set(identity.ActorHeader, "2")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp []BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	svc.AssertExpectations(t)
}

func TestListForBooker_UnknownState(t *testing.T) {
	svc := new(mockService)
	r := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/bookings?state=BOGUS", nil)
	req.Header.Set(identity.ActorHeader, "2")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "ListForBooker", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListForOwner_QueryPassedThrough(t *testing.T) {
	svc := new(mockService)
	r := newTestRouter(svc)

	svc.On("ListForOwner", mock.Anything, int64(1), booking.FilterPast, page.Page{From: 4, Size: 2}).
		Return([]*booking.Details{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/bookings/owner?state=past&from=4&size=2", nil)
	req.Header.Set(identity.ActorHeader, "1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
	svc.AssertExpectations(t)
}
