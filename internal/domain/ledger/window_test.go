package ledger_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/ledger"
)

func TestNewWindow_SemiabiertoPorDia(t *testing.T) {
	w, err := ledger.NewWindow("2025-07-01", "2025-07-31")
	require.NoError(t, err)

	end := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, end, w.End)

	assert.False(t, w.Contains(end), "medianoche del día siguiente queda fuera")
	assert.True(t, w.Contains(end.Add(-time.Millisecond)), "último milisegundo del día final entra")
	assert.True(t, w.Contains(w.Start), "el inicio es inclusivo")
	assert.False(t, w.Contains(w.Start.Add(-time.Nanosecond)))
	assert.Equal(t, time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC), w.LastDay())
}

func TestNewWindow_ExtremosAbiertos(t *testing.T) {
	w, err := ledger.NewWindow("", "")
	require.NoError(t, err)
	assert.True(t, w.Contains(time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, w.LastDay().IsZero())
}

func TestNewWindow_Invalida(t *testing.T) {
	_, err := ledger.NewWindow("2025-13-01", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = ledger.NewWindow("2025-08-02", "2025-08-01")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	// Mismo día es una ventana válida de 24 horas.
	_, err = ledger.NewWindow("2025-08-01", "2025-08-01")
	assert.NoError(t, err)
}
