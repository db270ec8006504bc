package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockledger-api/internal/domain/ledger"
	"github.com/jhoicas/stockledger-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), cfg.Ledger.CutoverDate)
	assert.Equal(t, ledger.PolicyCutoverSnapshot, cfg.Ledger.OpeningPolicy)
	assert.Equal(t, 1000, cfg.Ledger.PageSize)
	assert.Equal(t, 500, cfg.Ledger.MaxPages)
	assert.Equal(t, []string{"warehouses", "warehouse"}, cfg.Ledger.WarehouseTables)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.Equal(t, 30*time.Second, cfg.DB.StatementTimeout)
	assert.True(t, cfg.DB.ForceIPv4)
}

func TestLoad_DesdeVariablesDeEntorno(t *testing.T) {
	t.Setenv("LEDGER_CUTOVER_DATE", "2024-01-15")
	t.Setenv("LEDGER_OPENING_POLICY", "replay")
	t.Setenv("LEDGER_PAGE_SIZE", "250")
	t.Setenv("LEDGER_WAREHOUSE_TABLES", " bodegas , warehouses ")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_MAX_CONNS", "8")
	t.Setenv("DB_STATEMENT_TIMEOUT_SECONDS", "0")
	t.Setenv("DB_FORCE_IPV4", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), cfg.Ledger.CutoverDate)
	assert.Equal(t, ledger.PolicyReplay, cfg.Ledger.OpeningPolicy)
	assert.Equal(t, 250, cfg.Ledger.PageSize)
	assert.Equal(t, []string{"bodegas", "warehouses"}, cfg.Ledger.WarehouseTables)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 8, cfg.DB.MaxConns)
	assert.Zero(t, cfg.DB.StatementTimeout)
	assert.False(t, cfg.DB.ForceIPv4)
}

func TestLoad_ErroresDeLedger(t *testing.T) {
	t.Run("fecha de corte inválida", func(t *testing.T) {
		t.Setenv("LEDGER_CUTOVER_DATE", "01/07/2025")
		_, err := config.Load()
		assert.Error(t, err)
	})
	t.Run("política desconocida", func(t *testing.T) {
		t.Setenv("LEDGER_OPENING_POLICY", "promedio")
		_, err := config.Load()
		assert.Error(t, err)
	})
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "stock", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/stock?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
