package postgres_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stockledger-api/pkg/config"
)

func TestPoolConfig(t *testing.T) {
	cfg := config.DBConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", DBName: "stock", SSLMode: "disable",
		MaxConns: 12, MinConns: 3, StatementTimeout: 45 * time.Second, ForceIPv4: true,
	}
	pc, err := postgres.PoolConfig(cfg)
	require.NoError(t, err)

	assert.EqualValues(t, 12, pc.MaxConns)
	assert.EqualValues(t, 3, pc.MinConns)
	assert.Equal(t, "45000", pc.ConnConfig.RuntimeParams["statement_timeout"])
	assert.Equal(t, "stockledger-api", pc.ConnConfig.RuntimeParams["application_name"])
	assert.NotNil(t, pc.ConnConfig.DialFunc)
	assert.NotNil(t, pc.AfterConnect)
}

func TestPoolConfig_MinMayorQueMaxSeIgnora(t *testing.T) {
	pc, err := postgres.PoolConfig(config.DBConfig{DatabaseURL: "postgres://u:p@db:5432/stock", MaxConns: 2, MinConns: 5})
	require.NoError(t, err)
	assert.EqualValues(t, 2, pc.MaxConns)
	assert.EqualValues(t, 0, pc.MinConns)
	_, ok := pc.ConnConfig.RuntimeParams["statement_timeout"]
	assert.False(t, ok)
}

func TestPoolConfig_DSNInvalido(t *testing.T) {
	_, err := postgres.PoolConfig(config.DBConfig{DatabaseURL: "postgres://%zz"})
	assert.Error(t, err)
}
