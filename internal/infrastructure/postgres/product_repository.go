package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de lectura de productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

type productRow struct {
	ID       string  `db:"id"`
	Barcode  *string `db:"barcode"`
	Name     *string `db:"name"`
	Category *string `db:"category"`
	UOM      *string `db:"uom"`
	Active   bool    `db:"active"`
}

func (p productRow) toEntity() entity.Product {
	return entity.Product{
		ID:       p.ID,
		Barcode:  nullString(p.Barcode),
		Name:     nullString(p.Name),
		Category: nullString(p.Category),
		UOM:      nullString(p.UOM),
		Active:   p.Active,
	}
}

func productSelect() squirrel.SelectBuilder {
	return psql.
		Select(
			"id::text AS id",
			"barcode",
			"name",
			"category",
			"uom_name AS uom",
			"COALESCE(active, true) AS active",
		).
		From("products")
}

// GetByID obtiene un producto por ID. Devuelve (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	sql, args, err := productSelect().Where(squirrel.Eq{"id::text": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build product query: %w", err)
	}
	var rows []productRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	p := rows[0].toEntity()
	return &p, nil
}

// BuildProductSearchQuery arma la búsqueda por nombre o código de barras (ILIKE).
func BuildProductSearchQuery(term string, limit, offset int) (string, []any, error) {
	sb := productSelect().OrderBy("name ASC", "id ASC")
	if term = strings.TrimSpace(term); term != "" {
		like := "%" + term + "%"
		sb = sb.Where(squirrel.Or{
			squirrel.ILike{"name": like},
			squirrel.ILike{"barcode": like},
		})
	}
	if limit > 0 {
		sb = sb.Limit(uint64(limit))
	}
	if offset > 0 {
		sb = sb.Offset(uint64(offset))
	}
	return sb.ToSql()
}

// Search lista productos que coinciden con term, paginado.
func (r *ProductRepo) Search(ctx context.Context, term string, limit, offset int) ([]entity.Product, error) {
	sql, args, err := BuildProductSearchQuery(term, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("build product search: %w", err)
	}
	var rows []productRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	out := make([]entity.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}
