package postgres

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
)

// psql builder de squirrel con placeholders $n de PostgreSQL.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// isUndefinedTable verifica si un error es por tabla inexistente (42P01).
func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42P01" // undefined_table
	}
	return false
}

// nullString normaliza una columna nullable a "" cuando es NULL.
func nullString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
