package entity

// Warehouse representa una bodega o sucursal donde se almacena inventario (multi-bodega).
// AliasRef es el uuid externo con el que las correcciones referencian la bodega.
type Warehouse struct {
	ID       string
	Code     string
	Name     string
	AliasRef string
	Active   bool
}
