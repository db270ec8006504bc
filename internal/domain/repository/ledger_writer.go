package repository

import (
	"context"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

// LedgerWriter escritura del maestro y del inventario base sincronizados desde el ERP.
// Los reportes nunca escriben; solo la importación usa este puerto.
type LedgerWriter interface {
	UpsertWarehouse(ctx context.Context, w entity.Warehouse) error
	UpsertProduct(ctx context.Context, p entity.Product) error
	UpsertSnapshot(ctx context.Context, s entity.InventorySnapshot) error
}

// TxRunner ejecuta fn dentro de una transacción; si fn devuelve error se hace rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(w LedgerWriter) error) error
}
