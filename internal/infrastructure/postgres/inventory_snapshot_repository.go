package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
)

var _ repository.SnapshotRepository = (*InventorySnapshotRepo)(nil)

// InventorySnapshotRepo lee el inventario base (warehouse_inventory) sincronizado desde el ERP.
type InventorySnapshotRepo struct {
	q Querier
}

// NewInventorySnapshotRepository construye el adaptador.
func NewInventorySnapshotRepository(q Querier) *InventorySnapshotRepo {
	return &InventorySnapshotRepo{q: q}
}

// Find implementa repository.SnapshotRepository.
func (r *InventorySnapshotRepo) Find(ctx context.Context, productIDs, warehouseIDs []string) ([]entity.InventorySnapshot, error) {
	sb := psql.
		Select("product_id::text AS product_id", "wh_id::text AS warehouse_id", "quantity").
		From("warehouse_inventory")
	if len(productIDs) > 0 {
		sb = sb.Where(squirrel.Eq{"product_id::text": productIDs})
	}
	if len(warehouseIDs) > 0 {
		sb = sb.Where(squirrel.Eq{"wh_id::text": warehouseIDs})
	}
	sql, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build snapshot query: %w", err)
	}
	var rows []entity.InventorySnapshot
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select warehouse_inventory: %w", err)
	}
	return rows, nil
}
