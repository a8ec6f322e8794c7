package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/travel-marketplace/pkg/errs"
	"github.com/you/travel-marketplace/services/event-service/internal/service"
)

type Handler struct {
	svc *service.EventService
}

func NewHandler(svc *service.EventService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r *gin.Engine) {
	r.POST("/api/events", h.create)
	r.GET("/api/events/:id", h.get)
	r.GET("/api/events", h.listByAgency)
}

func (h *Handler) create(c *gin.Context) {
	var in service.CreateEventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, errs.Validation(err.Error()))
		return
	}
	e, err := h.svc.CreateEvent(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": e})
}

func (h *Handler) get(c *gin.Context) {
	e, err := h.svc.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": e})
}

// GET /api/events?agencyId=...
func (h *Handler) listByAgency(c *gin.Context) {
	out, err := h.svc.GetAgencyEvents(c.Request.Context(), c.Query("agencyId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": out})
}

func fail(c *gin.Context, err error) {
	status := errs.HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.JSON(status, gin.H{"success": false, "error": msg})
}
