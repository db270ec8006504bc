package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/stockledger-api/internal/domain"
)

// DayLayout formato de fecha de los reportes (YYYY-MM-DD, UTC).
const DayLayout = "2006-01-02"

// Window intervalo semiabierto [Start, End). Un extremo en cero no acota.
type Window struct {
	Start time.Time
	End   time.Time
}

// ParseDay interpreta "YYYY-MM-DD" como medianoche UTC.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha inválida %q (formato YYYY-MM-DD)", domain.ErrInvalidInput, s)
	}
	return t, nil
}

// NewWindow construye la ventana de un reporte a partir de días.
// from incluye el día completo; to incluye el día completo (End = to + 1 día a medianoche).
// Un día vacío deja ese extremo abierto.
func NewWindow(from, to string) (Window, error) {
	var w Window
	if strings.TrimSpace(from) != "" {
		start, err := ParseDay(from)
		if err != nil {
			return Window{}, err
		}
		w.Start = start
	}
	if strings.TrimSpace(to) != "" {
		end, err := ParseDay(to)
		if err != nil {
			return Window{}, err
		}
		w.End = end.AddDate(0, 0, 1)
	}
	if !w.Start.IsZero() && !w.End.IsZero() && !w.Start.Before(w.End) {
		return Window{}, fmt.Errorf("%w: from_date (%s) posterior a to_date (%s)", domain.ErrInvalidInput, from, to)
	}
	return w, nil
}

// Before ventana abierta por la izquierda que termina en t (exclusivo).
func Before(t time.Time) Window {
	return Window{End: t}
}

// Contains indica si t cae dentro de la ventana.
func (w Window) Contains(t time.Time) bool {
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && !t.Before(w.End) {
		return false
	}
	return true
}

// LastDay último día incluido (End - 1 día); cero si la ventana no tiene fin.
func (w Window) LastDay() time.Time {
	if w.End.IsZero() {
		return time.Time{}
	}
	return w.End.AddDate(0, 0, -1)
}
