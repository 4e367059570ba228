package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/application/inventory"
	"github.com/jhoicas/erp-core/internal/application/ports"
	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/infrastructure/memory"
	"github.com/jhoicas/erp-core/pkg/logger"
)

// recordingMetrics cuenta observaciones por tipo.
type recordingMetrics struct {
	ports.NopMetrics
	resolutions []string
	checks      int
}

func (m *recordingMetrics) ObserveResolution(outcome string, _ time.Duration) {
	m.resolutions = append(m.resolutions, outcome)
}

func (m *recordingMetrics) ObserveAvailability(bool, int) { m.checks++ }

func seed(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	for id, qty := range map[string]int64{"X": 25, "Y": 1} {
		require.NoError(t, store.Materials().Create(ctx, &entity.Material{ID: id, Code: id, Name: id, StockQuantity: decimal.NewFromInt(qty)}))
	}
	require.NoError(t, store.Materials().Create(ctx, &entity.Material{ID: "C", Code: "C", Name: "C", Composite: true}))
	require.NoError(t, store.BillsOfMaterial().Replace(ctx, &entity.BillOfMaterial{
		ID: "bom-C", MaterialID: "C",
		Items: []entity.BillOfMaterialItem{
			{BillOfMaterialID: "bom-C", ItemID: 1, ComponentID: "X", Quantity: decimal.NewFromInt(2)},
			{BillOfMaterialID: "bom-C", ItemID: 2, ComponentID: "Y", Quantity: decimal.NewFromInt(3)},
		},
	}))
	return store
}

func newUseCase(store *memory.Store, m ports.Metrics) *inventory.AvailabilityUseCase {
	catalog := inventory.NewRepositoryCatalog(store.Materials(), store.BillsOfMaterial())
	return inventory.NewAvailabilityUseCase(catalog, store.Stock(), 16, m, logger.Nop())
}

func TestRequirements_ExpandeOrdenado(t *testing.T) {
	m := &recordingMetrics{}
	uc := newUseCase(seed(t), m)

	resp, err := uc.Requirements(context.Background(), "C", decimal.NewFromInt(5))
	require.NoError(t, err)
	require.Len(t, resp.Requirements, 2)
	assert.Equal(t, "X", resp.Requirements[0].MaterialID)
	assert.True(t, resp.Requirements[0].Quantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, resp.Requirements[1].Quantity.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, []string{"ok"}, m.resolutions)
}

func TestCheckMaterial_ReportaFaltantes(t *testing.T) {
	m := &recordingMetrics{}
	uc := newUseCase(seed(t), m)

	resp, err := uc.CheckMaterial(context.Background(), "C", decimal.NewFromInt(5))
	require.NoError(t, err)
	assert.False(t, resp.Available)
	require.Len(t, resp.Shortages, 1)
	assert.Equal(t, "Y", resp.Shortages[0].MaterialID)
	assert.True(t, resp.Shortages[0].RequiredQuantity.Equal(decimal.NewFromInt(15)))
	assert.True(t, resp.Shortages[0].AvailableQuantity.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, 1, m.checks)
}

func TestCheckLines_VariasLineas(t *testing.T) {
	uc := newUseCase(seed(t), ports.NopMetrics{})

	resp, err := uc.CheckLines(context.Background(), dto.AvailabilityRequest{Lines: []dto.AvailabilityLineRequest{
		{ItemRef: "l1", MaterialID: "X", Quantity: decimal.NewFromInt(25)},
		{ItemRef: "l2", MaterialID: "C", Quantity: decimal.NewFromInt(1)},
		{MaterialID: "Y", Quantity: decimal.NewFromInt(2)},
	}})
	require.NoError(t, err)
	assert.False(t, resp.Available)
	require.Len(t, resp.Lines, 3)
	assert.True(t, resp.Lines[0].Available)
	assert.False(t, resp.Lines[1].Available)
	assert.Equal(t, "Y", resp.Lines[2].ItemRef)
	assert.False(t, resp.Lines[2].Available)
}

func TestCheckLines_SinLineas(t *testing.T) {
	uc := newUseCase(seed(t), ports.NopMetrics{})
	_, err := uc.CheckLines(context.Background(), dto.AvailabilityRequest{})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestResolve_MetricaDeMaterialInexistente(t *testing.T) {
	m := &recordingMetrics{}
	uc := newUseCase(seed(t), m)

	_, err := uc.Requirements(context.Background(), "nope", decimal.NewFromInt(1))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, []string{"not_found"}, m.resolutions)
}
