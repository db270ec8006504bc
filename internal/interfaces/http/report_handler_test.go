package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockledger-api/internal/application/dto"
	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/internal/application/usecase"
	"github.com/jhoicas/stockledger-api/internal/domain/entity"
	"github.com/jhoicas/stockledger-api/internal/domain/ledger"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/erpcsv"
	"github.com/jhoicas/stockledger-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/stockledger-api/internal/interfaces/http"
	"github.com/jhoicas/stockledger-api/pkg/logger"
)

var cutover = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

type csvRenderer struct{}

func (csvRenderer) Render(_ context.Context, r *inventory.BalanceReport) ([]byte, error) {
	return []byte("closing=" + r.Totals.ClosingStock.String()), nil
}
func (csvRenderer) ContentType() string { return "text/csv" }
func (csvRenderer) Extension() string   { return "csv" }

func ledgerStore() *memory.Store {
	qty := decimal.RequireFromString
	return memory.NewStore().
		AddProducts(entity.Product{ID: "P", Name: "Crema hidratante", Barcode: "7701", Active: true}).
		AddWarehouses(
			entity.Warehouse{ID: "W", Code: "BC", Name: "Bodega Central", AliasRef: "0f6c1b7e-aaaa-4bbb-8ccc-000000000001", Active: true},
			entity.Warehouse{ID: "W2", Code: "NT", Name: "Norte", Active: true},
		).
		AddSnapshots(entity.InventorySnapshot{ProductID: "P", WarehouseID: "W", Quantity: qty("100")}).
		AddMovements(
			entity.StockMovement{ID: "m1", ProductID: "P", DestWarehouseID: "W", Kind: "purchase", Quantity: qty("20"), OccurredAt: cutover.Add(9 * time.Hour)},
			entity.StockMovement{ID: "m2", ProductID: "P", SourceWarehouseID: "W", Kind: "sales", Quantity: qty("5"), OccurredAt: cutover.Add(15 * time.Hour)},
		).
		AddCorrections(entity.StockCorrection{
			ID: "c1", ProductID: "P", WarehouseRef: "0f6c1b7e-aaaa-4bbb-8ccc-000000000001",
			VarianceQuantity: qty("-2"), CorrectionDate: cutover.AddDate(0, 0, 3),
		})
}

func newTestAPI(store *memory.Store, secret string) *fiber.App {
	qb := inventory.NewQueryBuilder(store, store.Corrections(), store.Snapshots(), inventory.QueryConfig{})
	reports := inventory.NewReportUseCase(qb, store, store, store.Products(),
		inventory.ReportConfig{Cutover: cutover, Policy: ledger.PolicyCutoverSnapshot}, logger.Nop(), nil).
		WithClock(func() time.Time { return cutover.AddDate(0, 1, 0) })
	export := inventory.NewExportUseCase(reports, map[string]inventory.BalanceRenderer{"csv": csvRenderer{}}, logger.Nop())

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ReportUC:    reports,
		ExportUC:    export,
		WarehouseUC: usecase.NewWarehouseUseCase(store),
		ProductUC:   usecase.NewProductUseCase(store.Products()),
		ImportUC:    inventory.NewImportSnapshotUseCase(store, erpcsv.Reader{}, logger.Nop()),
		JWTSecret:   secret,
		JWTIssuer:   testIssuer,
	})
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any, auth string) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func get(t *testing.T, app *fiber.App, path string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	return resp
}

func balancesBody() dto.BalanceReportRequest {
	return dto.BalanceReportRequest{ProductID: "P", WarehouseIDs: []string{"W", "W2"}, FromDate: "2025-07-01", ToDate: "2025-07-31"}
}

// ──────────────────────────────────────────────────────────────────────────────
// Reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestReportHandler_Balances(t *testing.T) {
	app := newTestAPI(ledgerStore(), "")
	resp := postJSON(t, app, "/api/report/balances", balancesBody(), "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.BalanceReportResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Rows, 2)
	assert.Equal(t, "W", out.Rows[0].WarehouseID)
	assert.Equal(t, "Bodega Central", out.Rows[0].WarehouseName)
	assert.True(t, out.Rows[0].ClosingStock.Equal(decimal.NewFromInt(113)), "100 + 20 - 5 - 2")
	assert.True(t, out.Rows[0].HasVariance)
	assert.True(t, out.Rows[1].ClosingStock.IsZero(), "bodega sin actividad aparece en cero")
	assert.True(t, out.Totals.ClosingStock.Equal(decimal.NewFromInt(113)))
	assert.Equal(t, "cutover_snapshot", out.Policy)
}

func TestReportHandler_Balances_ValidacionDevuelve400(t *testing.T) {
	app := newTestAPI(ledgerStore(), "")
	body := balancesBody()
	body.FromDate = "01/07/2025"

	resp := postJSON(t, app, "/api/report/balances", body, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "VALIDATION")
}

func TestReportHandler_CuerpoInvalido(t *testing.T) {
	app := newTestAPI(ledgerStore(), "")
	req := httptest.NewRequest(http.MethodPost, "/api/report", bytes.NewBufferString("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReportHandler_Movements(t *testing.T) {
	app := newTestAPI(ledgerStore(), "")
	resp := postJSON(t, app, "/api/report", dto.MovementReportRequest{
		ProductIDs:   []string{"P"},
		WarehouseIDs: []string{"W"},
		Movements:    []string{"purchase", "sales"},
		FromDate:     "2025-07-01",
		ToDate:       "2025-07-01",
	}, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.MovementReportResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Rows, 1)
	assert.True(t, out.Rows[0].Moves["purchase"].Equal(decimal.NewFromInt(20)))
	assert.True(t, out.Rows[0].Moves["sales"].Equal(decimal.NewFromInt(5)))
	assert.NotEmpty(t, out.ReportID)
}

func TestReportHandler_Movements_TipoDesconocido(t *testing.T) {
	app := newTestAPI(ledgerStore(), "")
	resp := postJSON(t, app, "/api/report", dto.MovementReportRequest{
		ProductIDs:   []string{"P"},
		WarehouseIDs: []string{"W"},
		Movements:    []string{"teleport"},
	}, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReportHandler_AsOf(t *testing.T) {
	app := newTestAPI(ledgerStore(), "")
	resp := postJSON(t, app, "/api/report/as-of", dto.AsOfReportRequest{
		ProductIDs:   []string{"P"},
		WarehouseIDs: []string{"W"},
	}, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.AsOfReportResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "2025-07-01", out.FromDate)
	assert.Equal(t, "2025-08-01", out.ToDate)
	require.Len(t, out.Rows, 1)
	assert.True(t, out.Rows[0].Closing.Equal(decimal.NewFromInt(113)))
}

func TestReportHandler_Variance(t *testing.T) {
	app := newTestAPI(ledgerStore(), "")
	resp := get(t, app, "/api/stock-corrections/variance-with-totals/P?start_date=2025-07-01&end_date=2025-07-31")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.VarianceReportResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Rows, 1)
	assert.Equal(t, "W", out.Rows[0].WarehouseID)
	assert.True(t, out.Total.Equal(decimal.NewFromInt(-2)))
	assert.True(t, out.HasVariance)
}

func TestReportHandler_Variance_SinFechas(t *testing.T) {
	resp := get(t, newTestAPI(ledgerStore(), ""), "/api/stock-corrections/variance-with-totals/P")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Exportación
// ──────────────────────────────────────────────────────────────────────────────

func TestReportHandler_Export(t *testing.T) {
	app := newTestAPI(ledgerStore(), "")
	resp := postJSON(t, app, "/api/report/balances/export?format=csv", balancesBody(), "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="saldos_P_2025-07-01_2025-07-31.csv"`, resp.Header.Get("Content-Disposition"))
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "closing=113", string(raw))
}

func TestReportHandler_Export_FormatoNoSoportado(t *testing.T) {
	app := newTestAPI(ledgerStore(), "")
	resp := postJSON(t, app, "/api/report/balances/export?format=docx", balancesBody(), "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReportHandler_Export_RequiereRolConSecreto(t *testing.T) {
	app := newTestAPI(ledgerStore(), testJWTSecret)

	resp := postJSON(t, app, "/api/report/balances/export?format=csv", balancesBody(), tokenForRole(t, "staff"))
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = postJSON(t, app, "/api/report/balances/export?format=csv", balancesBody(), tokenForRole(t, "manager"))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, app, "/api/report/balances", balancesBody(), "")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Selectores
// ──────────────────────────────────────────────────────────────────────────────

func TestPickers(t *testing.T) {
	app := newTestAPI(ledgerStore(), "")

	resp := get(t, app, "/api/warehouses")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var whs dto.WarehouseListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&whs))
	assert.Len(t, whs.Items, 2)

	resp2 := get(t, app, "/api/products?search=crema&limit=5")
	defer resp2.Body.Close()
	require.Equal(t, http.StatusOK, resp2.StatusCode)
	var products dto.ProductListResponse
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&products))
	require.Len(t, products.Items, 1)
	assert.Equal(t, 5, products.Page.Limit)

	resp3 := get(t, app, "/api/products/P9")
	defer resp3.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp3.StatusCode)
}
