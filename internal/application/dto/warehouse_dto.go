package dto

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code,omitempty"`
	Name     string `json:"name"`
	AliasRef string `json:"alias_ref,omitempty"`
	Active   bool   `json:"active"`
}

// WarehouseListResponse lista de bodegas para el selector de reportes.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
}
