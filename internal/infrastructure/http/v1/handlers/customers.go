package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/apperror"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/core/id"
	"github.com/NguyenTrunggg/phone-store-management-sub000/internal/domain/customer"
)

// CustomersHandler exposes read access to customer aggregates. Customer
// records are created and updated only by the sale transaction engine.
type CustomersHandler struct {
	*BaseHandler
	customers customer.Repository
}

// NewCustomersHandler creates a new customers handler.
func NewCustomersHandler(base *BaseHandler, customers customer.Repository) *CustomersHandler {
	return &CustomersHandler{BaseHandler: base, customers: customers}
}

// GetByID handles GET /customers/:id.
func (h *CustomersHandler) GetByID(c *gin.Context) {
	customerID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	cust, err := h.customers.GetByID(c.Request.Context(), customerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, cust)
}

// FindByPhone handles GET /customers?phone=...
func (h *CustomersHandler) FindByPhone(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		h.Error(c, apperror.NewValidation("phone query parameter is required"))
		return
	}

	cust, err := h.customers.FindByPhone(c.Request.Context(), phone)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, cust)
}
