package memory

import (
	"context"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
)

var (
	_ repository.TxRunner     = (*Store)(nil)
	_ repository.LedgerWriter = (*txWriter)(nil)
)

// Run implementa repository.TxRunner: los cambios se aplican sobre una copia
// y solo se publican si fn termina sin error.
func (s *Store) Run(ctx context.Context, fn func(w repository.LedgerWriter) error) error {
	s.mu.RLock()
	tx := &txWriter{
		warehouses: append([]entity.Warehouse(nil), s.warehouses...),
		products:   append([]entity.Product(nil), s.products...),
		snapshots:  append([]entity.InventorySnapshot(nil), s.snapshots...),
	}
	s.mu.RUnlock()

	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.warehouses, s.products, s.snapshots = tx.warehouses, tx.products, tx.snapshots
	s.mu.Unlock()
	return nil
}

type txWriter struct {
	warehouses []entity.Warehouse
	products   []entity.Product
	snapshots  []entity.InventorySnapshot
}

func (t *txWriter) UpsertWarehouse(_ context.Context, w entity.Warehouse) error {
	for i := range t.warehouses {
		if t.warehouses[i].ID == w.ID {
			if w.AliasRef == "" {
				w.AliasRef = t.warehouses[i].AliasRef
			}
			t.warehouses[i] = w
			return nil
		}
	}
	t.warehouses = append(t.warehouses, w)
	return nil
}

func (t *txWriter) UpsertProduct(_ context.Context, p entity.Product) error {
	for i := range t.products {
		if t.products[i].ID == p.ID {
			t.products[i] = p
			return nil
		}
	}
	t.products = append(t.products, p)
	return nil
}

func (t *txWriter) UpsertSnapshot(_ context.Context, s entity.InventorySnapshot) error {
	for i := range t.snapshots {
		if t.snapshots[i].ProductID == s.ProductID && t.snapshots[i].WarehouseID == s.WarehouseID {
			t.snapshots[i].Quantity = s.Quantity
			return nil
		}
	}
	t.snapshots = append(t.snapshots, s)
	return nil
}
