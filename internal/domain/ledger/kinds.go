// Package ledger contiene el motor de conciliación del libro de stock: normalización de
// tipos de movimiento, agregación por bodega, stock de apertura, varianza y cierre.
// No depende de infraestructura; todo el estado es por petición.
package ledger

import (
	"fmt"
	"strings"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

// Kind tipo canónico de movimiento (después de resolver alias).
type Kind string

const (
	KindPurchase       Kind = "purchase"
	KindPurchaseReturn Kind = "purchase_return"
	KindSales          Kind = "sales"
	KindSalesReturns   Kind = "sales_returns"
	KindTransferIn     Kind = "transfer_in"
	KindTransferOut    Kind = "transfer_out"
	KindWastages       Kind = "wastages"
	KindManufacturing  Kind = "manufacturing"
	KindConsumption    Kind = "consumption"
)

// AllKinds todos los tipos canónicos en orden de presentación.
var AllKinds = []Kind{
	KindPurchase,
	KindPurchaseReturn,
	KindSales,
	KindSalesReturns,
	KindTransferIn,
	KindTransferOut,
	KindWastages,
	KindManufacturing,
	KindConsumption,
}

// Column columna de bodega que un movimiento afecta.
type Column int

const (
	ColumnSource Column = iota // warehouse_id
	ColumnDest                 // warehouse_dest_id
)

// String devuelve el nombre de la columna en el almacén.
func (c Column) String() string {
	if c == ColumnDest {
		return "warehouse_dest_id"
	}
	return "warehouse_id"
}

// AffectedColumn resuelve qué columna de bodega afecta un tipo de movimiento.
// Depende solo del tipo; cualquier tipo desconocido usa la bodega origen.
func AffectedColumn(k Kind) Column {
	switch k {
	case KindPurchase, KindManufacturing, KindTransferIn:
		return ColumnDest
	default:
		return ColumnSource
	}
}

// aliases valor almacenado -> tipo canónico.
var aliases = map[string]Kind{
	"purchase":         KindPurchase,
	"purchases":        KindPurchase,
	"sales":            KindSales,
	"sales_returns":    KindSalesReturns,
	"purchase_return":  KindPurchaseReturn,
	"purchase_returns": KindPurchaseReturn,
	"manufacturing":    KindManufacturing,
	"manufacture":      KindManufacturing,
	"wastages":         KindWastages,
	"wastage":          KindWastages,
	"consumption":      KindConsumption,
	"consumptions":     KindConsumption,
	"transfer_in":      KindTransferIn,
	"transfer_out":     KindTransferOut,
}

// storedValues valores de movement_type con los que se consulta cada tipo.
// transfer_out se consulta como "transfer_in": el sistema origen solo emite transfer_in para
// ambos sentidos y la dirección la separa la columna de bodega.
var storedValues = map[Kind][]string{
	KindPurchase:       {"purchase", "purchases"},
	KindSales:          {"sales"},
	KindSalesReturns:   {"sales_returns"},
	KindPurchaseReturn: {"purchase_return", "purchase_returns"},
	KindManufacturing:  {"manufacturing", "manufacture"},
	KindWastages:       {"wastages", "wastage"},
	KindConsumption:    {"consumption", "consumptions"},
	KindTransferIn:     {"transfer_in"},
	KindTransferOut:    {"transfer_in"},
}

// ParseKind traduce un valor (canónico o alias) al tipo canónico.
func ParseKind(raw string) (Kind, bool) {
	k, ok := aliases[strings.ToLower(strings.TrimSpace(raw))]
	return k, ok
}

// ParseKinds traduce y deduplica una lista de tipos solicitados conservando el orden.
func ParseKinds(raw []string) ([]Kind, error) {
	out := make([]Kind, 0, len(raw))
	seen := make(map[Kind]bool, len(raw))
	for _, r := range raw {
		k, ok := ParseKind(r)
		if !ok {
			return nil, fmt.Errorf("%w: tipo de movimiento desconocido %q", domain.ErrInvalidInput, r)
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out, nil
}

// StoredValues devuelve los valores almacenados que representan el tipo.
func StoredValues(k Kind) []string {
	vals := storedValues[k]
	out := make([]string, len(vals))
	copy(out, vals)
	return out
}

// Matches indica si un valor almacenado pertenece a la consulta de este tipo.
func (k Kind) Matches(stored string) bool {
	s := strings.ToLower(strings.TrimSpace(stored))
	for _, v := range storedValues[k] {
		if v == s {
			return true
		}
	}
	return false
}

// Inbound indica si el tipo suma al stock de la bodega afectada.
func (k Kind) Inbound() bool {
	switch k {
	case KindPurchase, KindTransferIn, KindManufacturing, KindSalesReturns:
		return true
	default:
		return false
	}
}

// AffectedWarehouse devuelve la bodega que el movimiento afecta al leerse como tipo k.
func AffectedWarehouse(k Kind, m entity.StockMovement) string {
	if AffectedColumn(k) == ColumnDest {
		return strings.TrimSpace(m.DestWarehouseID)
	}
	return strings.TrimSpace(m.SourceWarehouseID)
}
