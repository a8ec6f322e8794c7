package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/travel-marketplace/pkg/errs"
	"github.com/you/travel-marketplace/services/vendor-service/internal/service"
)

type Handler struct {
	svc *service.VendorService
}

func NewHandler(svc *service.VendorService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r *gin.Engine) {
	r.POST("/api/vendors", h.createVendor)
	r.POST("/api/packages", h.createPackage)
}

func (h *Handler) createVendor(c *gin.Context) {
	var in service.CreateVendorInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, errs.Validation(err.Error()))
		return
	}
	v, err := h.svc.CreateVendor(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": v})
}

func (h *Handler) createPackage(c *gin.Context) {
	var in service.CreatePackageInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, errs.Validation(err.Error()))
		return
	}
	l, err := h.svc.CreatePackage(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": l})
}

func fail(c *gin.Context, err error) {
	status := errs.HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.JSON(status, gin.H{"success": false, "error": msg})
}
