package ledger

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

// Key identifica un saldo: producto en bodega.
type Key struct {
	ProductID   string
	WarehouseID string
}

// Totals magnitudes acumuladas por tipo (siempre no negativas).
type Totals map[Kind]decimal.Decimal

// Get devuelve el total del tipo o cero.
func (t Totals) Get(k Kind) decimal.Decimal {
	if t == nil {
		return decimal.Zero
	}
	return t[k]
}

func (t Totals) add(k Kind, q decimal.Decimal) {
	t[k] = t.Get(k).Add(q)
}

// Buckets totales por (producto, bodega).
type Buckets map[Key]Totals

// Sum suma los totales de todas las claves por tipo.
func (b Buckets) Sum() Totals {
	out := Totals{}
	for _, t := range b {
		for k, q := range t {
			out.add(k, q)
		}
	}
	return out
}

// Keys claves ordenadas por bodega y producto.
func (b Buckets) Keys() []Key {
	keys := make([]Key, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	SortKeys(keys)
	return keys
}

// SortKeys ordena por bodega y luego producto.
func SortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].WarehouseID != keys[j].WarehouseID {
			return keys[i].WarehouseID < keys[j].WarehouseID
		}
		return keys[i].ProductID < keys[j].ProductID
	})
}

// Filter criterios de agregación. Conjuntos vacíos no filtran.
type Filter struct {
	ProductIDs   []string
	WarehouseIDs []string
	Kinds        []Kind
	Window       Window
}

// Aggregator acumula movimientos en buckets (producto, bodega, tipo).
// El resultado no depende del orden en que llegan las filas.
type Aggregator struct {
	products   map[string]bool
	warehouses map[string]bool
	kinds      []Kind
	window     Window
	skips      *SkipCounter
	buckets    Buckets
}

// NewAggregator crea un agregador para el filtro dado.
func NewAggregator(f Filter, skips *SkipCounter) *Aggregator {
	return &Aggregator{
		products:   toSet(f.ProductIDs),
		warehouses: toSet(f.WarehouseIDs),
		kinds:      f.Kinds,
		window:     f.Window,
		skips:      skips,
		buckets:    Buckets{},
	}
}

// AddKind acumula filas obtenidas por la consulta de un tipo concreto.
// Una misma fila puede llegar por la consulta de transfer_in y la de transfer_out;
// cada consulta la lee con su propia columna.
func (a *Aggregator) AddKind(k Kind, ms ...entity.StockMovement) {
	for _, m := range ms {
		a.addOne(k, m)
	}
}

// Add acumula filas contra todos los tipos del filtro.
func (a *Aggregator) Add(ms ...entity.StockMovement) {
	for _, m := range ms {
		for _, k := range a.kinds {
			a.addOne(k, m)
		}
	}
}

func (a *Aggregator) addOne(k Kind, m entity.StockMovement) {
	if !k.Matches(m.Kind) {
		return
	}
	if len(a.products) > 0 && !a.products[strings.TrimSpace(m.ProductID)] {
		return
	}
	if !a.window.Contains(m.OccurredAt) {
		return
	}
	wh := AffectedWarehouse(k, m)
	if wh == "" {
		if !a.placedByOtherKind(k, m) {
			a.skips.Add(SkipMissingWarehouse)
		}
		return
	}
	if len(a.warehouses) > 0 && !a.warehouses[wh] {
		return
	}
	key := Key{ProductID: strings.TrimSpace(m.ProductID), WarehouseID: wh}
	t, ok := a.buckets[key]
	if !ok {
		t = Totals{}
		a.buckets[key] = t
	}
	t.add(k, m.Quantity.Abs())
}

// placedByOtherKind indica si otro tipo pedido que comparte el valor almacenado
// (transfer_in y transfer_out) ubica la fila por su propia columna.
func (a *Aggregator) placedByOtherKind(k Kind, m entity.StockMovement) bool {
	kinds := a.kinds
	if len(kinds) == 0 {
		kinds = AllKinds
	}
	for _, other := range kinds {
		if other != k && other.Matches(m.Kind) && AffectedWarehouse(other, m) != "" {
			return true
		}
	}
	return false
}

// Buckets devuelve el resultado acumulado.
func (a *Aggregator) Buckets() Buckets {
	return a.buckets
}

// Aggregate agrega una lista de movimientos contra todos los tipos del filtro.
func Aggregate(ms []entity.StockMovement, f Filter, skips *SkipCounter) Buckets {
	a := NewAggregator(f, skips)
	a.Add(ms...)
	return a.Buckets()
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = true
		}
	}
	return set
}
