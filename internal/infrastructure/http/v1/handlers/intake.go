package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/apperror"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/id"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/intake"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/infrastructure/http/v1/dto"
)

// IntakeHandler handles intake batch commits and purchase order reads.
type IntakeHandler struct {
	*BaseHandler
	service *intake.Service
}

// NewIntakeHandler creates a new intake handler.
func NewIntakeHandler(base *BaseHandler, service *intake.Service) *IntakeHandler {
	return &IntakeHandler{BaseHandler: base, service: service}
}

// Commit handles POST /intake - commits one intake batch.
func (h *IntakeHandler) Commit(c *gin.Context) {
	var input intake.Input
	if !h.BindJSON(c, &input) {
		return
	}

	po, err := h.service.Commit(c.Request.Context(), input)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, po)
}

// ValidateIMEIs handles POST /intake/validate - advisory pre-flight check.
func (h *IntakeHandler) ValidateIMEIs(c *gin.Context) {
	var req dto.ValidateIMEIsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	checks, err := h.service.ValidateIMEIs(c.Request.Context(), req.IMEIs)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"checks": checks})
}

// GetByID handles GET /purchase-orders/:id.
func (h *IntakeHandler) GetByID(c *gin.Context) {
	poID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	po, err := h.service.GetByID(c.Request.Context(), poID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, po)
}

// List handles GET /purchase-orders.
func (h *IntakeHandler) List(c *gin.Context) {
	var q dto.PurchaseOrderListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	q.Defaults()

	result, err := h.service.List(c.Request.Context(), intake.ListFilter{
		Supplier: q.Supplier,
		Limit:    q.Limit,
		Offset:   q.Offset,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
