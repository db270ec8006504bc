package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/ledger"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
)

// Valores por defecto de paginación contra el almacén.
const (
	DefaultPageSize = 1000
	DefaultMaxPages = 500
)

// QueryConfig límites de paginación. Al llegar a MaxPages el resultado se marca como truncado.
type QueryConfig struct {
	PageSize int
	MaxPages int
}

func (c QueryConfig) withDefaults() QueryConfig {
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.MaxPages <= 0 {
		c.MaxPages = DefaultMaxPages
	}
	return c
}

// MovementBatch filas de un tipo lógico, todas sus páginas.
type MovementBatch struct {
	Kind      ledger.Kind
	Rows      []entity.StockMovement
	Truncated bool
}

// QueryBuilder traduce {productos, bodegas, tipos, rango} a consultas paginadas del almacén.
// Es el único punto de acceso a datos del motor de conciliación.
type QueryBuilder struct {
	movements   repository.MovementRepository
	corrections repository.CorrectionRepository
	snapshots   repository.SnapshotRepository
	cfg         QueryConfig
}

// NewQueryBuilder construye el QueryBuilder.
func NewQueryBuilder(
	movements repository.MovementRepository,
	corrections repository.CorrectionRepository,
	snapshots repository.SnapshotRepository,
	cfg QueryConfig,
) *QueryBuilder {
	return &QueryBuilder{
		movements:   movements,
		corrections: corrections,
		snapshots:   snapshots,
		cfg:         cfg.withDefaults(),
	}
}

// FetchMovements consulta cada tipo en paralelo. Devuelve los lotes en el orden de kinds
// solo cuando todas las páginas de todos los tipos llegaron; el primer error cancela el resto.
func (b *QueryBuilder) FetchMovements(ctx context.Context, productIDs, warehouseIDs []string, kinds []ledger.Kind, w ledger.Window) ([]MovementBatch, error) {
	batches := make([]MovementBatch, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, k := range kinds {
		g.Go(func() error {
			batch, err := b.fetchKind(gctx, productIDs, warehouseIDs, k, w)
			if err != nil {
				return err
			}
			batches[i] = batch
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batches, nil
}

func (b *QueryBuilder) fetchKind(ctx context.Context, productIDs, warehouseIDs []string, k ledger.Kind, w ledger.Window) (MovementBatch, error) {
	ctx, span := tracer.Start(ctx, "QueryBuilder.fetchKind", trace.WithAttributes(attribute.String("kind", string(k))))
	defer span.End()

	q := repository.MovementQuery{
		ProductIDs:   productIDs,
		WarehouseIDs: warehouseIDs,
		Column:       ledger.AffectedColumn(k),
		StoredKinds:  ledger.StoredValues(k),
		Range:        w,
	}
	rows, truncated, err := paginate(b.cfg, func(limit, offset int) ([]entity.StockMovement, error) {
		q.Limit, q.Offset = limit, offset
		return b.movements.Find(ctx, q)
	})
	if err != nil {
		span.RecordError(err)
		return MovementBatch{}, fmt.Errorf("movimientos %s: %w", k, err)
	}
	span.SetAttributes(attribute.Int("rows", len(rows)), attribute.Bool("truncated", truncated))
	return MovementBatch{Kind: k, Rows: rows, Truncated: truncated}, nil
}

// FetchCorrections consulta las correcciones de la ventana (fechas inclusivas por día).
func (b *QueryBuilder) FetchCorrections(ctx context.Context, productIDs []string, w ledger.Window) ([]entity.StockCorrection, bool, error) {
	q := repository.CorrectionQuery{ProductIDs: productIDs, From: w.Start, To: w.LastDay()}
	rows, truncated, err := paginate(b.cfg, func(limit, offset int) ([]entity.StockCorrection, error) {
		q.Limit, q.Offset = limit, offset
		return b.corrections.Find(ctx, q)
	})
	if err != nil {
		return nil, false, fmt.Errorf("correcciones: %w", err)
	}
	return rows, truncated, nil
}

// FetchSnapshots devuelve el inventario base indexado por (producto, bodega).
func (b *QueryBuilder) FetchSnapshots(ctx context.Context, productIDs, warehouseIDs []string) (map[ledger.Key]decimal.Decimal, error) {
	rows, err := b.snapshots.Find(ctx, productIDs, warehouseIDs)
	if err != nil {
		return nil, fmt.Errorf("inventario base: %w", err)
	}
	out := make(map[ledger.Key]decimal.Decimal, len(rows))
	for _, s := range rows {
		key := ledger.Key{ProductID: s.ProductID, WarehouseID: s.WarehouseID}
		out[key] = out[key].Add(s.Quantity)
	}
	return out, nil
}

// paginate recorre páginas hasta recibir una incompleta o llegar al tope.
// En el tope, con la última página llena, una consulta de una fila decide si hay más datos.
func paginate[T any](cfg QueryConfig, fetch func(limit, offset int) ([]T, error)) ([]T, bool, error) {
	var all []T
	for page := 0; page < cfg.MaxPages; page++ {
		rows, err := fetch(cfg.PageSize, page*cfg.PageSize)
		if err != nil {
			return nil, false, err
		}
		all = append(all, rows...)
		if len(rows) < cfg.PageSize {
			return all, false, nil
		}
	}
	probe, err := fetch(1, cfg.MaxPages*cfg.PageSize)
	if err != nil {
		return nil, false, err
	}
	return all, len(probe) > 0, nil
}
