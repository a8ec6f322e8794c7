package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/travel-marketplace/pkg/errs"
	"github.com/you/travel-marketplace/services/booking-service/internal/service"
)

type Handler struct {
	svc *service.BookingService
}

func NewHandler(svc *service.BookingService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r *gin.Engine) {
	r.POST("/api/bookings", h.create)
	r.GET("/api/bookings", h.list)
}

// POST /api/bookings. The gateway forwards the verified user id in X-User-Id.
func (h *Handler) create(c *gin.Context) {
	var in struct {
		EventID     *string `json:"eventId"`
		ListingID   *string `json:"listingId"`
		Seats       int     `json:"seats" binding:"required"`
		TotalAmount float64 `json:"totalAmount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, errs.Validation(err.Error()))
		return
	}
	userID := c.GetHeader("X-User-Id")
	if userID == "" {
		fail(c, errs.Unauthorized("missing user identity"))
		return
	}
	b, err := h.svc.CreateBooking(c.Request.Context(), service.CreateBookingInput{
		UserID:      userID,
		EventID:     in.EventID,
		ListingID:   in.ListingID,
		Seats:       in.Seats,
		TotalAmount: in.TotalAmount,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": b})
}

// GET /api/bookings
func (h *Handler) list(c *gin.Context) {
	userID := c.GetHeader("X-User-Id")
	if userID == "" {
		fail(c, errs.Unauthorized("missing user identity"))
		return
	}
	views, err := h.svc.GetUserBookings(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": views})
}

func fail(c *gin.Context, err error) {
	status := errs.HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.JSON(status, gin.H{"success": false, "error": msg})
}
