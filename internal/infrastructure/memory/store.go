// Package memory implementa los puertos de lectura del libro en memoria.
// Se usa en tests y en demos sin base de datos; respeta orden y paginación del adaptador Postgres.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/ledger"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
)

var (
	_ repository.MovementRepository   = (*Store)(nil)
	_ repository.WarehouseRepository  = (*Store)(nil)
	_ repository.WarehouseDirectory   = (*Store)(nil)
	_ repository.ProductRepository    = (*Store)(nil)
	_ repository.CorrectionRepository = correctionStore{}
	_ repository.SnapshotRepository   = snapshotStore{}
)

// Store almacén en memoria. Err, si no es nil, se devuelve en toda lectura.
type Store struct {
	mu          sync.RWMutex
	movements   []entity.StockMovement
	corrections []entity.StockCorrection
	snapshots   []entity.InventorySnapshot
	warehouses  []entity.Warehouse
	products    []entity.Product

	Err   error
	calls int
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{}
}

// AddMovements agrega movimientos.
func (s *Store) AddMovements(ms ...entity.StockMovement) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movements = append(s.movements, ms...)
	return s
}

// AddCorrections agrega correcciones.
func (s *Store) AddCorrections(cs ...entity.StockCorrection) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.corrections = append(s.corrections, cs...)
	return s
}

// AddSnapshots agrega filas del inventario base.
func (s *Store) AddSnapshots(ss ...entity.InventorySnapshot) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, ss...)
	return s
}

// AddWarehouses agrega bodegas.
func (s *Store) AddWarehouses(ws ...entity.Warehouse) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warehouses = append(s.warehouses, ws...)
	return s
}

// AddProducts agrega productos.
func (s *Store) AddProducts(ps ...entity.Product) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, ps...)
	return s
}

// Calls número de lecturas recibidas.
func (s *Store) Calls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls
}

func (s *Store) read() error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.Err
}

// Find implementa repository.MovementRepository.
func (s *Store) Find(ctx context.Context, q repository.MovementQuery) ([]entity.StockMovement, error) {
	if err := s.read(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	products, warehouses, kinds := set(q.ProductIDs), set(q.WarehouseIDs), set(q.StoredKinds)
	s.mu.RLock()
	var out []entity.StockMovement
	for _, m := range s.movements {
		if len(products) > 0 && !products[m.ProductID] {
			continue
		}
		if len(kinds) > 0 && !kinds[m.Kind] {
			continue
		}
		wh := m.SourceWarehouseID
		if q.Column == ledger.ColumnDest {
			wh = m.DestWarehouseID
		}
		// Las filas sin bodega en la columna se devuelven para que el motor las cuente como omitidas.
		if len(warehouses) > 0 && wh != "" && !warehouses[wh] {
			continue
		}
		if !q.Range.Contains(m.OccurredAt) {
			continue
		}
		out = append(out, m)
	}
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].OccurredAt.Before(out[j].OccurredAt)
		}
		return out[i].ID < out[j].ID
	})
	return page(out, q.Limit, q.Offset), nil
}

// FindCorrections lectura de correcciones (ver CorrectionStore).
func (s *Store) FindCorrections(ctx context.Context, q repository.CorrectionQuery) ([]entity.StockCorrection, error) {
	if err := s.read(); err != nil {
		return nil, err
	}
	products := set(q.ProductIDs)
	s.mu.RLock()
	var out []entity.StockCorrection
	for _, c := range s.corrections {
		if len(products) > 0 && !products[c.ProductID] {
			continue
		}
		if !q.From.IsZero() && c.CorrectionDate.Before(q.From) {
			continue
		}
		if !q.To.IsZero() && c.CorrectionDate.After(q.To) {
			continue
		}
		out = append(out, c)
	}
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CorrectionDate.Equal(out[j].CorrectionDate) {
			return out[i].CorrectionDate.Before(out[j].CorrectionDate)
		}
		return out[i].ID < out[j].ID
	})
	return page(out, q.Limit, q.Offset), nil
}

// FindSnapshots lectura del inventario base (ver SnapshotStore).
func (s *Store) FindSnapshots(_ context.Context, productIDs, warehouseIDs []string) ([]entity.InventorySnapshot, error) {
	if err := s.read(); err != nil {
		return nil, err
	}
	products, warehouses := set(productIDs), set(warehouseIDs)
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.InventorySnapshot
	for _, sn := range s.snapshots {
		if len(products) > 0 && !products[sn.ProductID] {
			continue
		}
		if len(warehouses) > 0 && !warehouses[sn.WarehouseID] {
			continue
		}
		out = append(out, sn)
	}
	return out, nil
}

// List implementa repository.WarehouseRepository.
func (s *Store) List(_ context.Context) ([]entity.Warehouse, error) {
	if err := s.read(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Warehouse, len(s.warehouses))
	copy(out, s.warehouses)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Resolver implementa repository.WarehouseDirectory.
func (s *Store) Resolver(ctx context.Context) (ledger.WarehouseResolver, error) {
	ws, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.NewStaticResolver(ws), nil
}

// GetByID implementa repository.ProductRepository.
func (s *Store) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if err := s.read(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

// Search implementa repository.ProductRepository (coincidencia por nombre o código de barras).
func (s *Store) Search(_ context.Context, term string, limit, offset int) ([]entity.Product, error) {
	if err := s.read(); err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	s.mu.RLock()
	var out []entity.Product
	for _, p := range s.products {
		if term == "" || strings.Contains(strings.ToLower(p.Name), term) || strings.Contains(strings.ToLower(p.Barcode), term) {
			out = append(out, p)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

// Corrections adaptador de s como repository.CorrectionRepository.
func (s *Store) Corrections() repository.CorrectionRepository { return correctionStore{s} }

// Snapshots adaptador de s como repository.SnapshotRepository.
func (s *Store) Snapshots() repository.SnapshotRepository { return snapshotStore{s} }

// Products adaptador de s como repository.ProductRepository.
func (s *Store) Products() repository.ProductRepository { return s }

type correctionStore struct{ s *Store }

func (c correctionStore) Find(ctx context.Context, q repository.CorrectionQuery) ([]entity.StockCorrection, error) {
	return c.s.FindCorrections(ctx, q)
}

type snapshotStore struct{ s *Store }

func (c snapshotStore) Find(ctx context.Context, productIDs, warehouseIDs []string) ([]entity.InventorySnapshot, error) {
	return c.s.FindSnapshots(ctx, productIDs, warehouseIDs)
}

func page[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return nil
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

func set(ids []string) map[string]bool {
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}
