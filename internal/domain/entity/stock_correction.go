package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockCorrection es una corrección manual de conteo físico.
// WarehouseRef es una referencia opaca (uuid de bodega) que debe resolverse al ID canónico.
type StockCorrection struct {
	ID               string
	ProductID        string
	WarehouseRef     string
	VarianceQuantity decimal.Decimal // con signo
	CorrectionDate   time.Time       // medianoche UTC
}
