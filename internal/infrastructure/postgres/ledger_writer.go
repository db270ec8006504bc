package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
)

var _ repository.LedgerWriter = (*LedgerWriterRepo)(nil)

// LedgerWriterRepo upserts del maestro e inventario base (usable con pool o tx).
type LedgerWriterRepo struct {
	q Querier
}

// NewLedgerWriter construye el adaptador de escritura. Pasar pool o tx (Querier).
func NewLedgerWriter(q Querier) *LedgerWriterRepo {
	return &LedgerWriterRepo{q: q}
}

// BuildWarehouseUpsert arma el INSERT ... ON CONFLICT de una bodega.
func BuildWarehouseUpsert(w entity.Warehouse) (string, []any, error) {
	var alias any
	if w.AliasRef != "" {
		alias = w.AliasRef
	}
	return psql.Insert("warehouses").
		Columns("id", "code", "name", "uuid", "active").
		Values(w.ID, w.Code, w.Name, alias, w.Active).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			code = EXCLUDED.code,
			name = EXCLUDED.name,
			uuid = COALESCE(EXCLUDED.uuid, warehouses.uuid),
			active = EXCLUDED.active,
			updated_at = now()`).
		ToSql()
}

// UpsertWarehouse implementa repository.LedgerWriter.
func (r *LedgerWriterRepo) UpsertWarehouse(ctx context.Context, w entity.Warehouse) error {
	sql, args, err := BuildWarehouseUpsert(w)
	if err != nil {
		return fmt.Errorf("build warehouse upsert: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert warehouse %s: %w", w.ID, err)
	}
	return nil
}

// UpsertProduct implementa repository.LedgerWriter.
func (r *LedgerWriterRepo) UpsertProduct(ctx context.Context, p entity.Product) error {
	uom := p.UOM
	if uom == "" {
		uom = "Unidades"
	}
	sql, args, err := psql.Insert("products").
		Columns("id", "barcode", "name", "category", "uom_name", "active").
		Values(p.ID, p.Barcode, p.Name, p.Category, uom, p.Active).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			barcode = EXCLUDED.barcode,
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			uom_name = EXCLUDED.uom_name,
			active = EXCLUDED.active,
			updated_at = now()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build product upsert: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert product %s: %w", p.ID, err)
	}
	return nil
}

// UpsertSnapshot implementa repository.LedgerWriter (reemplaza la cantidad base del par).
func (r *LedgerWriterRepo) UpsertSnapshot(ctx context.Context, s entity.InventorySnapshot) error {
	sql, args, err := psql.Insert("warehouse_inventory").
		Columns("product_id", "wh_id", "quantity").
		Values(s.ProductID, s.WarehouseID, s.Quantity).
		Suffix("ON CONFLICT (product_id, wh_id) DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build snapshot upsert: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert snapshot %s/%s: %w", s.ProductID, s.WarehouseID, err)
	}
	return nil
}
