package postgres

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/ledger"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
)

var (
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
	_ repository.WarehouseDirectory  = (*WarehouseRepo)(nil)
)

// DefaultWarehouseTables tablas candidatas del maestro de bodegas, en orden de preferencia.
var DefaultWarehouseTables = []string{"warehouses", "warehouse"}

// WarehouseRepo lee el maestro de bodegas. El nombre de la tabla varía entre instalaciones,
// por eso se prueban las candidatas en orden hasta encontrar una existente.
type WarehouseRepo struct {
	q      Querier
	tables []string
}

// NewWarehouseRepository construye el adaptador. tables vacío usa DefaultWarehouseTables.
func NewWarehouseRepository(q Querier, tables []string) *WarehouseRepo {
	if len(tables) == 0 {
		tables = DefaultWarehouseTables
	}
	return &WarehouseRepo{q: q, tables: tables}
}

type warehouseRow struct {
	ID       string  `db:"id"`
	Code     *string `db:"code"`
	Name     *string `db:"name"`
	AliasRef *string `db:"alias_ref"`
	Active   bool    `db:"active"`
}

// BuildWarehouseQuery arma el SELECT del maestro de bodegas sobre la tabla indicada.
func BuildWarehouseQuery(table string) (string, []any, error) {
	return psql.
		Select(
			"id::text AS id",
			"code",
			"name",
			"uuid::text AS alias_ref",
			"COALESCE(active, true) AS active",
		).
		From(pgx.Identifier{table}.Sanitize()).
		OrderBy("code ASC", "id ASC").
		ToSql()
}

// List implementa repository.WarehouseRepository.
func (r *WarehouseRepo) List(ctx context.Context) ([]entity.Warehouse, error) {
	var lastErr error
	for _, table := range r.tables {
		sql, args, err := BuildWarehouseQuery(table)
		if err != nil {
			return nil, fmt.Errorf("build warehouses query: %w", err)
		}
		var rows []warehouseRow
		if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
			if isUndefinedTable(err) {
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("select %s: %w", table, err)
		}
		out := make([]entity.Warehouse, 0, len(rows))
		for _, row := range rows {
			out = append(out, entity.Warehouse{
				ID:       row.ID,
				Code:     nullString(row.Code),
				Name:     nullString(row.Name),
				AliasRef: nullString(row.AliasRef),
				Active:   row.Active,
			})
		}
		return out, nil
	}
	return nil, fmt.Errorf("ninguna tabla de bodegas disponible %v: %w", r.tables, lastErr)
}

// Resolver carga el maestro y construye el resolvedor de referencias para la petición.
func (r *WarehouseRepo) Resolver(ctx context.Context) (ledger.WarehouseResolver, error) {
	list, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.NewStaticResolver(list), nil
}
