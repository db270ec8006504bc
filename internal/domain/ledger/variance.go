package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

// WarehouseResolver traduce la referencia de bodega de una corrección al ID canónico.
type WarehouseResolver interface {
	Resolve(ref string) (string, bool)
}

// StaticResolver resolvedor en memoria: alias -> ID, e ID -> ID.
type StaticResolver map[string]string

// NewStaticResolver construye el resolvedor a partir del directorio de bodegas.
func NewStaticResolver(warehouses []entity.Warehouse) StaticResolver {
	r := make(StaticResolver, len(warehouses)*2)
	for _, w := range warehouses {
		id := strings.TrimSpace(w.ID)
		if id == "" {
			continue
		}
		r[id] = id
		if alias := strings.ToLower(strings.TrimSpace(w.AliasRef)); alias != "" {
			r[alias] = id
		}
	}
	return r
}

// Resolve implementa WarehouseResolver.
func (r StaticResolver) Resolve(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}
	if id, ok := r[ref]; ok {
		return id, true
	}
	id, ok := r[strings.ToLower(ref)]
	return id, ok
}

// VarianceResult varianza conciliada. HasVariance distingue "sin corrección" de "corrección que neta cero".
type VarianceResult struct {
	Total       decimal.Decimal
	HasVariance bool
}

// ReconcileVariance suma la varianza de una bodega dentro de la ventana.
// Las filas cuya referencia no se resuelve se omiten y se cuentan; nunca se asignan por defecto.
func ReconcileVariance(cs []entity.StockCorrection, resolver WarehouseResolver, warehouseID string, w Window, skips *SkipCounter) VarianceResult {
	all := ReconcileAll(cs, resolver, []string{warehouseID}, w, skips)
	var out VarianceResult
	for k, v := range all {
		if k.WarehouseID != warehouseID {
			continue
		}
		out.Total = out.Total.Add(v.Total)
		out.HasVariance = out.HasVariance || v.HasVariance
	}
	return out
}

// ReconcileAll concilia por (producto, bodega). Con warehouseIDs vacío acepta cualquier bodega resuelta.
// Una corrección repetida en la entrada (mismo ID) cuenta una sola vez.
func ReconcileAll(cs []entity.StockCorrection, resolver WarehouseResolver, warehouseIDs []string, w Window, skips *SkipCounter) map[Key]VarianceResult {
	allowed := toSet(warehouseIDs)
	seen := make(map[string]bool, len(cs))
	out := make(map[Key]VarianceResult)
	for _, c := range cs {
		if c.ID != "" {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
		}
		if !w.Contains(c.CorrectionDate) {
			continue
		}
		var (
			id string
			ok bool
		)
		if resolver != nil {
			id, ok = resolver.Resolve(c.WarehouseRef)
		}
		if !ok {
			skips.Add(SkipUnresolvedWarehouse)
			continue
		}
		if len(allowed) > 0 && !allowed[id] {
			continue
		}
		key := Key{ProductID: strings.TrimSpace(c.ProductID), WarehouseID: id}
		v := out[key]
		v.Total = v.Total.Add(c.VarianceQuantity)
		v.HasVariance = true
		out[key] = v
	}
	return out
}
