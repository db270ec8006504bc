package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockledger-api/internal/application/dto"
	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/internal/domain"
	"github.com/jhoicas/stockledger-api/internal/domain/ledger"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/memory"
	"github.com/jhoicas/stockledger-api/pkg/logger"
)

type fakeRenderer struct {
	got *inventory.BalanceReport
	err error
}

func (f *fakeRenderer) Render(_ context.Context, r *inventory.BalanceReport) ([]byte, error) {
	f.got = r
	if f.err != nil {
		return nil, f.err
	}
	return []byte("contenido"), nil
}

func (f *fakeRenderer) ContentType() string { return "text/plain" }
func (f *fakeRenderer) Extension() string   { return "txt" }

func TestExportBalances_RenderizaReporte(t *testing.T) {
	r := &fakeRenderer{}
	uc := inventory.NewExportUseCase(newUseCase(scenarioStore(), defaultConfig(), inventory.QueryConfig{}, nil),
		map[string]inventory.BalanceRenderer{"txt": r}, logger.Nop())

	file, err := uc.ExportBalances(context.Background(), dto.BalanceReportRequest{
		ProductID: "P", WarehouseIDs: []string{"W"}, FromDate: "2025-07-01", ToDate: "2025-07-01",
	}, " TXT ")
	require.NoError(t, err)
	assert.Equal(t, "saldos_P_2025-07-01_2025-07-01.txt", file.Name)
	assert.Equal(t, "text/plain", file.ContentType)
	assert.Equal(t, []byte("contenido"), file.Content)

	require.NotNil(t, r.got)
	assert.True(t, dec("115").Equal(r.got.Totals.ClosingStock))
	assert.Equal(t, "Bodega Central", r.got.WarehouseName("W"))
	assert.Equal(t, "X", r.got.WarehouseName("X"))
}

func TestExportBalances_FormatoNoSoportadoNoConsulta(t *testing.T) {
	store := scenarioStore()
	uc := inventory.NewExportUseCase(newUseCase(store, defaultConfig(), inventory.QueryConfig{}, nil),
		map[string]inventory.BalanceRenderer{"pdf": &fakeRenderer{}, "xlsx": &fakeRenderer{}}, nil)

	_, err := uc.ExportBalances(context.Background(), dto.BalanceReportRequest{ProductID: "P"}, "csv")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Contains(t, err.Error(), "pdf, xlsx")
	assert.Equal(t, 0, store.Calls())
}

func TestExportBalances_ErrorDelRenderizador(t *testing.T) {
	boom := errors.New("sin fuentes")
	uc := inventory.NewExportUseCase(newUseCase(scenarioStore(), defaultConfig(), inventory.QueryConfig{}, nil),
		map[string]inventory.BalanceRenderer{"pdf": &fakeRenderer{err: boom}}, nil)

	_, err := uc.ExportBalances(context.Background(), dto.BalanceReportRequest{
		ProductID: "P", WarehouseIDs: []string{"W"}, FromDate: "2025-07-01", ToDate: "2025-07-01",
	}, "pdf")
	assert.True(t, errors.Is(err, boom))
}

func TestQueryBuilder_ErrorCancelaTodosLosTipos(t *testing.T) {
	store := memory.NewStore()
	store.Err = errors.New("timeout")
	qb := inventory.NewQueryBuilder(store, store.Corrections(), store.Snapshots(), inventory.QueryConfig{})

	batches, err := qb.FetchMovements(context.Background(), []string{"P"}, []string{"W"}, nil, ledger.Window{})
	require.NoError(t, err, "sin tipos no hay consultas")
	assert.Empty(t, batches)

	_, err = qb.FetchMovements(context.Background(), []string{"P"}, []string{"W"}, ledger.AllKinds, ledger.Window{})
	assert.EqualError(t, errors.Unwrap(err), "timeout")
}
