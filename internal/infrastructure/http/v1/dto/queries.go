package dto

import (
	"time"
)

// UnitListQuery filters the unit listing.
type UnitListQuery struct {
	ListQuery
	Status    string `form:"status"`
	ProductID string `form:"productId"`
	Location  string `form:"location"`
	Search    string `form:"search"`
}

// MovementExportQuery filters the ledger export.
type MovementExportQuery struct {
	ListQuery
	IMEI     string     `form:"imei"`
	Type     string     `form:"type"`
	FromDate *time.Time `form:"fromDate" time_format:"2006-01-02"`
	ToDate   *time.Time `form:"toDate" time_format:"2006-01-02"`
}

// ReturnListQuery filters the return request listing.
type ReturnListQuery struct {
	ListQuery
	Status string `form:"status"`
	IMEI   string `form:"imei"`
}

// SalesListQuery filters the sales order listing.
type SalesListQuery struct {
	ListQuery
	CustomerID string     `form:"customerId"`
	FromDate   *time.Time `form:"fromDate" time_format:"2006-01-02"`
	ToDate     *time.Time `form:"toDate" time_format:"2006-01-02"`
}

// PurchaseOrderListQuery filters the purchase order listing.
type PurchaseOrderListQuery struct {
	ListQuery
	Supplier string `form:"supplier"`
}

// ValidateIMEIsRequest is the intake pre-flight check payload.
type ValidateIMEIsRequest struct {
	IMEIs []string `json:"imeis" binding:"required"`
}
