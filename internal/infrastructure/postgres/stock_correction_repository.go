package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/ledger"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
)

var _ repository.CorrectionRepository = (*StockCorrectionRepo)(nil)

// StockCorrectionRepo implementación del puerto CorrectionRepository sobre stock_corrections.
type StockCorrectionRepo struct {
	q Querier
}

// NewStockCorrectionRepository construye el adaptador de lectura de correcciones.
func NewStockCorrectionRepository(q Querier) *StockCorrectionRepo {
	return &StockCorrectionRepo{q: q}
}

type correctionRow struct {
	ID               string          `db:"id"`
	ProductID        string          `db:"product_id"`
	WarehouseRef     *string         `db:"warehouse_ref"`
	VarianceQuantity decimal.Decimal `db:"variance_quantity"`
	CorrectionDate   time.Time       `db:"correction_date"`
}

// BuildCorrectionQuery arma el SELECT paginado de correcciones (fechas inclusivas).
func BuildCorrectionQuery(q repository.CorrectionQuery) (string, []any, error) {
	sb := psql.
		Select(
			"id::text AS id",
			"product_id::text AS product_id",
			"warehouse_id::text AS warehouse_ref",
			"variance_quantity",
			"correction_date",
		).
		From("stock_corrections").
		OrderBy("correction_date ASC", "id ASC")

	if len(q.ProductIDs) > 0 {
		sb = sb.Where(squirrel.Eq{"product_id::text": q.ProductIDs})
	}
	if !q.From.IsZero() {
		sb = sb.Where(squirrel.GtOrEq{"correction_date": q.From.Format(ledger.DayLayout)})
	}
	if !q.To.IsZero() {
		sb = sb.Where(squirrel.LtOrEq{"correction_date": q.To.Format(ledger.DayLayout)})
	}
	if q.Limit > 0 {
		sb = sb.Limit(uint64(q.Limit))
	}
	if q.Offset > 0 {
		sb = sb.Offset(uint64(q.Offset))
	}
	return sb.ToSql()
}

// Find implementa repository.CorrectionRepository.
func (r *StockCorrectionRepo) Find(ctx context.Context, q repository.CorrectionQuery) ([]entity.StockCorrection, error) {
	sql, args, err := BuildCorrectionQuery(q)
	if err != nil {
		return nil, fmt.Errorf("build corrections query: %w", err)
	}
	var rows []correctionRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select stock_corrections: %w", err)
	}
	out := make([]entity.StockCorrection, 0, len(rows))
	for _, row := range rows {
		d := row.CorrectionDate.UTC()
		out = append(out, entity.StockCorrection{
			ID:               row.ID,
			ProductID:        row.ProductID,
			WarehouseRef:     nullString(row.WarehouseRef),
			VarianceQuantity: row.VarianceQuantity,
			CorrectionDate:   time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC),
		})
	}
	return out, nil
}
