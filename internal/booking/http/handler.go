package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/item-sharing-backend/internal/booking"
	"github.com/nekogravitycat/item-sharing-backend/internal/identity"
	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/page"
	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func parseListQuery(c *gin.Context) (booking.StateFilter, page.Page, bool) {
	state, err := booking.ParseStateFilter(c.DefaultQuery("state", "ALL"))
	if err != nil {
		response.Error(c, err)
		return "", page.Page{}, false
	}

	from, _ := strconv.Atoi(c.DefaultQuery("from", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	return state, page.Page{From: from, Size: size}, true
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	d, err := h.service.Create(c.Request.Context(), identity.GetActorID(c), booking.CreateRequest{
		ItemID: body.ItemID,
		Start:  body.Start,
		End:    body.End,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(d))
}

func (h *Handler) Decide(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "approved query parameter is required"})
		return
	}

	d, err := h.service.Decide(c.Request.Context(), identity.GetActorID(c), id, approved)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(d))
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	d, err := h.service.GetByID(c.Request.Context(), identity.GetActorID(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(d))
}

func (h *Handler) ListForBooker(c *gin.Context) {
	state, p, ok := parseListQuery(c)
	if !ok {
		return
	}

	details, err := h.service.ListForBooker(c.Request.Context(), identity.GetActorID(c), state, p)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponses(details))
}

func (h *Handler) ListForOwner(c *gin.Context) {
	state, p, ok := parseListQuery(c)
	if !ok {
		return
	}

	details, err := h.service.ListForOwner(c.Request.Context(), identity.GetActorID(c), state, p)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponses(details))
}

func toResponses(details []*booking.Details) []BookingResponse {
	items := make([]BookingResponse, len(details))
	for i, d := range details {
		items[i] = NewBookingResponse(d)
	}
	return items
}
