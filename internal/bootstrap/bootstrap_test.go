package bootstrap

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/application/ports"
	"github.com/jhoicas/erp-core/pkg/config"
	"github.com/jhoicas/erp-core/pkg/logger"
)

func memoryConfig(metricsEnabled bool) *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{Driver: config.StorageMemory},
		Metrics: config.MetricsConfig{Enabled: metricsEnabled},
		BOM:     config.BOMConfig{MaxDepth: 8},
	}
}

func TestBuild_Memoria(t *testing.T) {
	app, closeFn, err := Build(context.Background(), memoryConfig(true), logger.Nop())
	require.NoError(t, err)
	defer closeFn()

	require.NotNil(t, app.Prometheus)
	m, err := app.Catalog.CreateMaterial(context.Background(), dto.CreateMaterialRequest{
		Code: "X", Name: "X", StockQuantity: decimal.NewFromInt(3),
	})
	require.NoError(t, err)

	out, err := app.Availability.CheckMaterial(context.Background(), m.ID, decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.True(t, out.Available)
}

func TestWire_SinMetricas(t *testing.T) {
	repos, _, err := OpenRepositories(context.Background(), memoryConfig(false), logger.Nop())
	require.NoError(t, err)

	app := Wire(memoryConfig(false), repos, logger.Nop())
	assert.Nil(t, app.Prometheus)
	assert.IsType(t, ports.NopMetrics{}, app.Metrics)
}

func TestOpenRepositories_DriverDesconocido(t *testing.T) {
	cfg := memoryConfig(false)
	cfg.Storage.Driver = "mongo"
	_, _, err := OpenRepositories(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}
