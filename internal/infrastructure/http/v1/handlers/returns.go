package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/apperror"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/id"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/imei"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/returns"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/infrastructure/http/v1/dto"
)

// ReturnsHandler handles the return request workflow.
type ReturnsHandler struct {
	*BaseHandler
	service *returns.Service
}

// NewReturnsHandler creates a new returns handler.
func NewReturnsHandler(base *BaseHandler, service *returns.Service) *ReturnsHandler {
	return &ReturnsHandler{BaseHandler: base, service: service}
}

// Create handles POST /returns - opens a pending request.
func (h *ReturnsHandler) Create(c *gin.Context) {
	var input returns.CreateInput
	if !h.BindJSON(c, &input) {
		return
	}

	req, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, req)
}

// Approve handles POST /returns/:id/approve.
func (h *ReturnsHandler) Approve(c *gin.Context) {
	reqID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	req, err := h.service.Approve(c.Request.Context(), reqID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, req)
}

// Reject handles POST /returns/:id/reject.
func (h *ReturnsHandler) Reject(c *gin.Context) {
	reqID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	req, err := h.service.Reject(c.Request.Context(), reqID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, req)
}

// GetByID handles GET /returns/:id.
func (h *ReturnsHandler) GetByID(c *gin.Context) {
	reqID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	req, err := h.service.GetByID(c.Request.Context(), reqID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, req)
}

// List handles GET /returns.
func (h *ReturnsHandler) List(c *gin.Context) {
	var q dto.ReturnListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	q.Defaults()

	filter := returns.ListFilter{
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	if q.Status != "" {
		status := returns.Status(q.Status)
		filter.Status = &status
	}
	if q.IMEI != "" {
		im, err := imei.Parse(q.IMEI)
		if err != nil {
			h.Error(c, err)
			return
		}
		filter.IMEI = &im
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
