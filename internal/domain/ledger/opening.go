package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockledger-api/internal/domain"
)

// OpeningPolicy estrategia de cálculo del stock de apertura. Cada tipo de reporte fija una.
type OpeningPolicy string

const (
	// PolicyCutoverSnapshot usa el snapshot tal cual si la ventana empieza en o antes del corte;
	// si empieza después, reproduce lo ocurrido entre el corte y el inicio.
	PolicyCutoverSnapshot OpeningPolicy = "cutover_snapshot"
	// PolicyReplay reproduce todos los movimientos y correcciones anteriores al inicio.
	PolicyReplay OpeningPolicy = "replay"
)

// ParseOpeningPolicy valida el nombre de la política.
func ParseOpeningPolicy(s string) (OpeningPolicy, error) {
	switch p := OpeningPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyCutoverSnapshot, PolicyReplay:
		return p, nil
	default:
		return "", fmt.Errorf("%w: política de apertura desconocida %q", domain.ErrInvalidInput, s)
	}
}

// OpeningCalculator calcula la apertura según la política y la fecha de corte.
type OpeningCalculator struct {
	Policy  OpeningPolicy
	Cutover time.Time
}

// ReplayWindow ventana de historia que hay que reproducir antes de windowStart.
// ok=false significa que la apertura es el snapshot sin modificar.
func (c OpeningCalculator) ReplayWindow(windowStart time.Time) (Window, bool) {
	if windowStart.IsZero() {
		return Window{}, false
	}
	if c.Policy == PolicyReplay {
		return Before(windowStart), true
	}
	if !windowStart.After(c.Cutover) {
		return Window{}, false
	}
	return Window{Start: c.Cutover, End: windowStart}, true
}

// Opening combina snapshot, totales previos y varianza previa con la misma fórmula del cierre.
// prior y priorVariance deben venir de la ventana devuelta por ReplayWindow.
func (c OpeningCalculator) Opening(windowStart time.Time, snapshot decimal.Decimal, prior Totals, priorVariance decimal.Decimal) decimal.Decimal {
	if _, ok := c.ReplayWindow(windowStart); !ok {
		return snapshot
	}
	return ClosingStock(snapshot, prior, priorVariance)
}
