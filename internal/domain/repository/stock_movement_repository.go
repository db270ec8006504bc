package repository

import (
	"context"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/ledger"
)

// MovementQuery consulta paginada de movimientos para un tipo lógico.
// WarehouseIDs filtra sobre Column e incluye las filas con Column nula, que el motor cuenta como omitidas.
// StoredKinds son los valores crudos de movement_type.
type MovementQuery struct {
	ProductIDs   []string
	WarehouseIDs []string
	Column       ledger.Column
	StoredKinds  []string
	Range        ledger.Window // [inicio, fin)
	Limit        int
	Offset       int
}

// MovementRepository puerto de lectura del libro de movimientos (DIP).
// Find ordena por occurred_at ascendente y luego id, para paginación determinista.
type MovementRepository interface {
	Find(ctx context.Context, q MovementQuery) ([]entity.StockMovement, error)
}
