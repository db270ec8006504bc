package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockMovement representa un movimiento del libro de stock tal como está almacenado.
// Las columnas de bodega nulas se normalizan a "" en el borde del almacén.
type StockMovement struct {
	ID                string
	ProductID         string
	SourceWarehouseID string // warehouse_id (origen)
	DestWarehouseID   string // warehouse_dest_id (destino)
	Kind              string // valor crudo de movement_type, puede ser un alias
	Quantity          decimal.Decimal
	OccurredAt        time.Time // UTC
}
