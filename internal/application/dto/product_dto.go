package dto

// ProductSearchRequest filtros del selector de productos (GET /api/products).
type ProductSearchRequest struct {
	Search string `query:"search" validate:"max=100"`
	PageRequest
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID       string `json:"id"`
	Barcode  string `json:"barcode,omitempty"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	UOM      string `json:"uom,omitempty"`
	Active   bool   `json:"active"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
