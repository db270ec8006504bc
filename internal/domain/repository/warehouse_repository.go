package repository

import (
	"context"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/ledger"
)

// WarehouseRepository define el puerto de lectura para Warehouse (DIP).
type WarehouseRepository interface {
	List(ctx context.Context) ([]entity.Warehouse, error)
}

// WarehouseDirectory entrega el resolvedor de referencias de bodega para una petición.
type WarehouseDirectory interface {
	Resolver(ctx context.Context) (ledger.WarehouseResolver, error)
}
