package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/you/travel-marketplace/pkg/errs"
	"github.com/you/travel-marketplace/pkg/events"
	"github.com/you/travel-marketplace/services/search-service/internal/service"
)

// Publisher is the outbound side of the bus, used for interaction events.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

type Handler struct {
	coord *service.Coordinator
	pub   Publisher
}

func NewHandler(coord *service.Coordinator, pub Publisher) *Handler {
	return &Handler{coord: coord, pub: pub}
}

func (h *Handler) Register(r *gin.Engine) {
	r.GET("/api/search", h.search)
	r.POST("/api/interactions", h.interaction)
}

// GET /api/search?q=...&mode=via_vendor&minPrice=&maxPrice=&tags=a,b&city=
func (h *Handler) search(c *gin.Context) {
	f := service.Filters{City: c.Query("city")}
	if v := c.Query("minPrice"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			fail(c, errs.Validation("minPrice must be a number"))
			return
		}
		f.MinPrice = &p
	}
	if v := c.Query("maxPrice"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			fail(c, errs.Validation("maxPrice must be a number"))
			return
		}
		f.MaxPrice = &p
	}
	if v := c.Query("tags"); v != "" {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				f.Tags = append(f.Tags, t)
			}
		}
	}

	results, err := h.coord.SemanticSearch(c.Request.Context(), c.Query("q"), f, service.Mode(c.Query("mode")))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": results})
}

// POST /api/interactions publishes a user.interaction event for analytics.
func (h *Handler) interaction(c *gin.Context) {
	var in struct {
		Action     string         `json:"action" binding:"required"`
		EntityType string         `json:"entityType"`
		EntityID   string         `json:"entityId"`
		Metadata   map[string]any `json:"metadata"`
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
	p := events.UserInteraction{
		UserID:     userID,
		Action:     in.Action,
		EntityType: in.EntityType,
		EntityID:   in.EntityID,
		Metadata:   in.Metadata,
	}
	if err := h.pub.Publish(c.Request.Context(), events.TopicUserInteraction, p); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"success": true})
}

func fail(c *gin.Context, err error) {
	status := errs.HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.JSON(status, gin.H{"success": false, "error": msg})
}
