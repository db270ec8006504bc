package xlsx_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/ledger"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/xlsx"
)

func TestBalanceReportXLSX_Render(t *testing.T) {
	w1 := ledger.NewBalance("W1", decimal.NewFromInt(100), ledger.Totals{
		ledger.KindPurchase: decimal.NewFromInt(20),
		ledger.KindSales:    decimal.NewFromInt(5),
	}, ledger.VarianceResult{})
	w2 := ledger.NewBalance("W2", decimal.Zero, nil, ledger.VarianceResult{Total: decimal.NewFromInt(-3), HasVariance: true})
	rows := []ledger.WarehouseBalance{w1, w2}
	report := &inventory.BalanceReport{
		ReportID:       "rep-1",
		Product:        entity.Product{ID: "P1", Name: "Leche entera 1L"},
		WarehouseNames: map[string]string{"W1": "Bodega Central"},
		From:           time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		To:             time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC),
		Policy:         ledger.PolicyCutoverSnapshot,
		Rows:           rows,
		Totals:         ledger.SumBalances(rows),
	}

	g := xlsx.NewBalanceReportXLSX()
	out, err := g.Render(context.Background(), report)
	require.NoError(t, err)
	assert.Equal(t, "xlsx", g.Extension())

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(xlsx.SheetName)
	require.NoError(t, err)
	require.Len(t, got, 11) // 6 de cabecera, 1 vacía, encabezados, 2 bodegas, total

	assert.Equal(t, []string{"Producto", "Leche entera 1L"}, got[0])
	assert.Equal(t, "2025-07-01 a 2025-07-31", got[2][1])
	assert.Equal(t, xlsx.Header, got[7])

	assert.Equal(t, "Bodega Central", got[8][0])
	assert.Equal(t, "W2", got[9][0])
	assert.Equal(t, "TOTAL", got[10][0])

	closing, err := f.GetCellValue(xlsx.SheetName, "O9", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "115", closing)
	total, err := f.GetCellValue(xlsx.SheetName, "O11", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "112", total)
	flag, err := f.GetCellValue(xlsx.SheetName, "N11")
	require.NoError(t, err)
	assert.Equal(t, "TRUE", flag)
}
