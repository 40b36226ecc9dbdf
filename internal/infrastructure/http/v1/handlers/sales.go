package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/apperror"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/id"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/sales"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/infrastructure/http/v1/dto"
)

// SalesHandler handles checkout and sales order reads.
type SalesHandler struct {
	*BaseHandler
	service *sales.Service
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(base *BaseHandler, service *sales.Service) *SalesHandler {
	return &SalesHandler{BaseHandler: base, service: service}
}

// Checkout handles POST /sales - processes one cart.
func (h *SalesHandler) Checkout(c *gin.Context) {
	var input sales.CartInput
	if !h.BindJSON(c, &input) {
		return
	}

	order, err := h.service.Checkout(c.Request.Context(), input)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GetByID handles GET /sales/:id.
func (h *SalesHandler) GetByID(c *gin.Context) {
	orderID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	order, err := h.service.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// List handles GET /sales.
func (h *SalesHandler) List(c *gin.Context) {
	var q dto.SalesListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	q.Defaults()

	filter := sales.ListFilter{
		FromDate: q.FromDate,
		ToDate:   q.ToDate,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
	if q.CustomerID != "" {
		customerID, err := id.Parse(q.CustomerID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid customerId format"))
			return
		}
		filter.CustomerID = &customerID
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
