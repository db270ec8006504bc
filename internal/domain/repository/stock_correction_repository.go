package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stockledger-api/internal/domain/entity"
)

// CorrectionQuery consulta de correcciones con rango de fechas inclusivo. Fechas en cero no acotan.
type CorrectionQuery struct {
	ProductIDs []string
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}

// CorrectionRepository puerto de lectura de correcciones manuales de stock.
type CorrectionRepository interface {
	Find(ctx context.Context, q CorrectionQuery) ([]entity.StockCorrection, error)
}
