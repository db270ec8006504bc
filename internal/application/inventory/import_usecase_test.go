package inventory_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/repository"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/memory"
	"github.com/jhoicas/stockledger-api/pkg/logger"
)

func importRows() []inventory.SnapshotRow {
	w := entity.Warehouse{ID: "W", Code: "BC", Name: "Bodega Central", Active: true}
	return []inventory.SnapshotRow{
		{Line: 2, Warehouse: w, Product: entity.Product{ID: "P", Name: "Crema"}, Quantity: dec("100")},
		{Line: 3, Warehouse: w, Product: entity.Product{ID: "Q", Name: "Jabón"}, Quantity: dec("7.5")},
	}
}

func TestImportSnapshot_EscribeYQuedaDisponibleParaReportes(t *testing.T) {
	store := memory.NewStore()
	uc := inventory.NewImportSnapshotUseCase(store, nil, logger.Nop())

	res, err := uc.Import(context.Background(), importRows())
	require.NoError(t, err)
	assert.Equal(t, inventory.ImportResult{Warehouses: 1, Products: 2, Snapshots: 2}, res)

	snaps, err := store.Snapshots().Find(context.Background(), []string{"P", "Q"}, []string{"W"})
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	// reimportar reemplaza la cantidad, no duplica
	rows := importRows()
	rows[0].Quantity = dec("90")
	_, err = uc.Import(context.Background(), rows)
	require.NoError(t, err)
	snaps, err = store.Snapshots().Find(context.Background(), []string{"P"}, []string{"W"})
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.True(t, snaps[0].Quantity.Equal(dec("90")))
}

func TestImportSnapshot_FilaInvalidaNoEscribeNada(t *testing.T) {
	store := memory.NewStore()
	rows := importRows()
	rows[1].Warehouse.ID = ""

	_, err := inventory.NewImportSnapshotUseCase(store, nil, nil).Import(context.Background(), rows)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "línea 3")

	ws, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ws)
}

type failingWriter struct{ repository.LedgerWriter }

func (failingWriter) UpsertSnapshot(context.Context, entity.InventorySnapshot) error {
	return errors.New("disco lleno")
}

type failingTx struct{ inner repository.TxRunner }

func (f failingTx) Run(ctx context.Context, fn func(repository.LedgerWriter) error) error {
	return f.inner.Run(ctx, func(w repository.LedgerWriter) error {
		return fn(failingWriter{w})
	})
}

func TestImportSnapshot_ErrorHaceRollback(t *testing.T) {
	store := memory.NewStore()
	_, err := inventory.NewImportSnapshotUseCase(failingTx{store}, nil, nil).Import(context.Background(), importRows())
	require.ErrorContains(t, err, "disco lleno")

	ws, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ws, "la bodega escrita antes del fallo no se publica")
}

func TestImportSnapshot_ParRepetidoCuentaUnaVez(t *testing.T) {
	store := memory.NewStore()
	rows := importRows()
	dup := rows[0]
	dup.Line = 4
	dup.Quantity = dec("80")
	rows = append(rows, dup)

	res, err := inventory.NewImportSnapshotUseCase(store, nil, nil).Import(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, inventory.ImportResult{Warehouses: 1, Products: 2, Snapshots: 2}, res)

	snaps, err := store.Snapshots().Find(context.Background(), []string{"P"}, []string{"W"})
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.True(t, snaps[0].Quantity.Equal(dec("80")), "la última fila del archivo gana")
}

func TestImportSnapshot_SinFilas(t *testing.T) {
	_, err := inventory.NewImportSnapshotUseCase(memory.NewStore(), nil, nil).Import(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

type stubReader struct{ rows []inventory.SnapshotRow }

func (s stubReader) ReadSnapshot(io.Reader, string) ([]inventory.SnapshotRow, error) {
	return s.rows, nil
}

func TestImportSnapshot_ImportFromUsaElLector(t *testing.T) {
	store := memory.NewStore()
	uc := inventory.NewImportSnapshotUseCase(store, stubReader{rows: importRows()}, nil)

	res, err := uc.ImportFrom(context.Background(), strings.NewReader(""), "latin1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Snapshots)

	_, err = inventory.NewImportSnapshotUseCase(store, nil, nil).ImportFrom(context.Background(), strings.NewReader(""), "")
	assert.Error(t, err)
}
