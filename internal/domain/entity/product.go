package entity

// Product representa un producto o SKU del inventario (multi-bodega).
type Product struct {
	ID       string
	Barcode  string
	Name     string
	Category string
	UOM      string // unidad de medida
	Active   bool
}
