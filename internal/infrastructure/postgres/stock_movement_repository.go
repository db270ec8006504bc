package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del puerto MovementRepository sobre stock_movements.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador de lectura de movimientos.
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

type movementRow struct {
	ID              string          `db:"id"`
	ProductID       string          `db:"product_id"`
	WarehouseID     *string         `db:"warehouse_id"`
	WarehouseDestID *string         `db:"warehouse_dest_id"`
	MovementType    string          `db:"movement_type"`
	Quantity        decimal.Decimal `db:"quantity"`
	CreatedAt       time.Time       `db:"created_at"`
}

// BuildMovementQuery arma el SELECT paginado de un tipo lógico de movimiento.
// Las filas con la columna de bodega nula también se devuelven.
func BuildMovementQuery(q repository.MovementQuery) (string, []any, error) {
	col := q.Column.String()
	sb := psql.
		Select(
			"id::text AS id",
			"product_id::text AS product_id",
			"warehouse_id::text AS warehouse_id",
			"warehouse_dest_id::text AS warehouse_dest_id",
			"movement_type",
			"quantity",
			"created_at",
		).
		From("stock_movements").
		OrderBy("created_at ASC", "id ASC")

	if len(q.StoredKinds) > 0 {
		sb = sb.Where(squirrel.Eq{"movement_type": q.StoredKinds})
	}
	if len(q.ProductIDs) > 0 {
		sb = sb.Where(squirrel.Eq{"product_id::text": q.ProductIDs})
	}
	if len(q.WarehouseIDs) > 0 {
		sb = sb.Where(squirrel.Or{
			squirrel.Eq{col + "::text": q.WarehouseIDs},
			squirrel.Eq{col: nil},
		})
	}
	if !q.Range.Start.IsZero() {
		sb = sb.Where(squirrel.GtOrEq{"created_at": q.Range.Start})
	}
	if !q.Range.End.IsZero() {
		sb = sb.Where(squirrel.Lt{"created_at": q.Range.End})
	}
	if q.Limit > 0 {
		sb = sb.Limit(uint64(q.Limit))
	}
	if q.Offset > 0 {
		sb = sb.Offset(uint64(q.Offset))
	}
	return sb.ToSql()
}

// Find ejecuta la consulta y normaliza las columnas nulas a "".
func (r *StockMovementRepo) Find(ctx context.Context, q repository.MovementQuery) ([]entity.StockMovement, error) {
	sql, args, err := BuildMovementQuery(q)
	if err != nil {
		return nil, fmt.Errorf("build movements query: %w", err)
	}
	var rows []movementRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select stock_movements: %w", err)
	}
	out := make([]entity.StockMovement, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.StockMovement{
			ID:                row.ID,
			ProductID:         row.ProductID,
			SourceWarehouseID: nullString(row.WarehouseID),
			DestWarehouseID:   nullString(row.WarehouseDestID),
			Kind:              row.MovementType,
			Quantity:          row.Quantity,
			OccurredAt:        row.CreatedAt.UTC(),
		})
	}
	return out, nil
}
