package entity

import "github.com/shopspring/decimal"

// InventorySnapshot cantidad base por producto y bodega sincronizada desde el ERP.
// Es el punto cero del libro en la fecha de corte.
type InventorySnapshot struct {
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
}
