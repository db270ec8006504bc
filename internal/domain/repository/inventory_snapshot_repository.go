package repository

import (
	"context"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

// SnapshotRepository puerto de lectura del inventario base sincronizado desde el ERP.
type SnapshotRepository interface {
	Find(ctx context.Context, productIDs, warehouseIDs []string) ([]entity.InventorySnapshot, error)
}
