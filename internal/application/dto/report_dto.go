package dto

import "github.com/shopspring/decimal"

// MovementReportRequest body para POST /api/report.
type MovementReportRequest struct {
	ProductIDs   []string `json:"product_ids" validate:"required,min=1,dive,required"`
	WarehouseIDs []string `json:"warehouse_ids" validate:"required,min=1,dive,required"`
	Movements    []string `json:"movements" validate:"required,min=1,dive,required"`
	FromDate     string   `json:"from_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ToDate       string   `json:"to_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// MovementReportRow totales por tipo de un producto en una bodega.
type MovementReportRow struct {
	WarehouseID string                     `json:"warehouse_id"`
	ProductID   string                     `json:"product_id"`
	Moves       map[string]decimal.Decimal `json:"moves"`
}

// MovementReportResponse respuesta de POST /api/report.
type MovementReportResponse struct {
	ReportID  string                     `json:"report_id"`
	FromDate  string                     `json:"from_date,omitempty"`
	ToDate    string                     `json:"to_date,omitempty"`
	Rows      []MovementReportRow        `json:"rows"`
	Totals    map[string]decimal.Decimal `json:"totals"`
	Truncated bool                       `json:"truncated"`
	Skipped   map[string]int             `json:"skipped"`
}

// AsOfReportRequest body para POST /api/report/as-of. Movements vacío = todos los tipos.
type AsOfReportRequest struct {
	ProductIDs   []string `json:"product_ids" validate:"required,min=1,dive,required"`
	WarehouseIDs []string `json:"warehouse_ids" validate:"required,min=1,dive,required"`
	Movements    []string `json:"movements,omitempty" validate:"omitempty,dive,required"`
	ToDate       string   `json:"to_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// AsOfReportRow saldo de un producto en una bodega a la fecha de corte del reporte.
type AsOfReportRow struct {
	WarehouseID string                     `json:"warehouse_id"`
	ProductID   string                     `json:"product_id"`
	Opening     decimal.Decimal            `json:"opening"`
	Adjustments decimal.Decimal            `json:"adjustments"`
	Moves       map[string]decimal.Decimal `json:"moves"`
	Closing     decimal.Decimal            `json:"closing"`
}

// AsOfTotals fila de totales del reporte a la fecha.
type AsOfTotals struct {
	Opening     decimal.Decimal            `json:"opening"`
	Adjustments decimal.Decimal            `json:"adjustments"`
	Moves       map[string]decimal.Decimal `json:"moves"`
	Closing     decimal.Decimal            `json:"closing"`
}

// AsOfReportResponse respuesta de POST /api/report/as-of.
type AsOfReportResponse struct {
	ReportID  string          `json:"report_id"`
	FromDate  string          `json:"from_date"`
	ToDate    string          `json:"to_date"`
	Rows      []AsOfReportRow `json:"rows"`
	Totals    AsOfTotals      `json:"totals"`
	Truncated bool            `json:"truncated"`
	Skipped   map[string]int  `json:"skipped"`
}

// BalanceReportRequest body para POST /api/report/balances (detalle por SKU).
type BalanceReportRequest struct {
	ProductID    string   `json:"product_id" validate:"required"`
	WarehouseIDs []string `json:"warehouse_ids" validate:"required,min=1,dive,required"`
	FromDate     string   `json:"from_date" validate:"required,datetime=2006-01-02"`
	ToDate       string   `json:"to_date" validate:"required,datetime=2006-01-02"`
}

// WarehouseBalanceDTO fila por bodega (o fila de totales con WarehouseID vacío).
type WarehouseBalanceDTO struct {
	WarehouseID     string          `json:"warehouse_id,omitempty"`
	WarehouseName   string          `json:"warehouse_name,omitempty"`
	OpeningStock    decimal.Decimal `json:"opening_stock"`
	Purchases       decimal.Decimal `json:"purchases"`
	PurchaseReturns decimal.Decimal `json:"purchase_returns"`
	Sales           decimal.Decimal `json:"sales"`
	SalesReturns    decimal.Decimal `json:"sales_returns"`
	Wastages        decimal.Decimal `json:"wastages"`
	TransferIn      decimal.Decimal `json:"transfer_in"`
	TransferOut     decimal.Decimal `json:"transfer_out"`
	Manufacturing   decimal.Decimal `json:"manufacturing"`
	Consumption     decimal.Decimal `json:"consumption"`
	Variance        decimal.Decimal `json:"variance"`
	HasVariance     bool            `json:"has_variance"`
	ClosingStock    decimal.Decimal `json:"closing_stock"`
}

// BalanceReportResponse respuesta de POST /api/report/balances.
type BalanceReportResponse struct {
	ReportID    string                `json:"report_id"`
	ProductID   string                `json:"product_id"`
	ProductName string                `json:"product_name,omitempty"`
	FromDate    string                `json:"from_date"`
	ToDate      string                `json:"to_date"`
	Policy      string                `json:"opening_policy"`
	Rows        []WarehouseBalanceDTO `json:"rows"`
	Totals      WarehouseBalanceDTO   `json:"totals"`
	Truncated   bool                  `json:"truncated"`
	Skipped     map[string]int        `json:"skipped"`
}

// VarianceRow varianza conciliada de una bodega.
type VarianceRow struct {
	WarehouseID string          `json:"warehouse_id"`
	Total       decimal.Decimal `json:"total"`
	HasVariance bool            `json:"has_variance"`
}

// VarianceReportResponse respuesta de GET /api/stock-corrections/variance-with-totals/{productId}.
type VarianceReportResponse struct {
	ProductID   string          `json:"product_id"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	Rows        []VarianceRow   `json:"rows"`
	Total       decimal.Decimal `json:"total"`
	HasVariance bool            `json:"has_variance"`
	Truncated   bool            `json:"truncated"`
	Skipped     map[string]int  `json:"skipped"`
}
