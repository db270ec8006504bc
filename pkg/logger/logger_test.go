package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockledger-api/pkg/logger"
)

func TestForReport_AgregaCampos(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "debug", Service: "stockledger-api", Out: &buf})

	log.ForReport("balances", "r-1").Info().Int("skipped", 2).Msg("reporte generado")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "balances", line["report"])
	assert.Equal(t, "r-1", line["report_id"])
	assert.Equal(t, "stockledger-api", line["service"])
	assert.Equal(t, "info", line["level"])
	assert.EqualValues(t, 2, line["skipped"])
}

func TestNivel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "warn", Out: &buf})
	log.Info().Msg("descartado")
	assert.Zero(t, buf.Len())

	log = logger.New(logger.Config{Level: "desconocido", Out: &buf})
	log.Debug().Msg("descartado")
	log.Info().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
	assert.NotContains(t, buf.String(), "descartado")
}
