package bom

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
)

// fakeCatalog catálogo en memoria para tests.
type fakeCatalog struct {
	materials map[string]*entity.Material
	boms      map[string]*entity.BillOfMaterial
	calls     int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{materials: map[string]*entity.Material{}, boms: map[string]*entity.BillOfMaterial{}}
}

func (f *fakeCatalog) atomic(ids ...string) *fakeCatalog {
	for _, id := range ids {
		f.materials[id] = &entity.Material{ID: id, Code: id, Name: id}
	}
	return f
}

// composite registra id como compuesto con pares (componente, cantidad).
func (f *fakeCatalog) composite(id string, parts ...any) *fakeCatalog {
	f.materials[id] = &entity.Material{ID: id, Code: id, Name: id, Composite: true}
	b := &entity.BillOfMaterial{ID: "bom-" + id, MaterialID: id}
	for i := 0; i+1 < len(parts); i += 2 {
		b.Items = append(b.Items, entity.BillOfMaterialItem{
			BillOfMaterialID: b.ID,
			ItemID:           i/2 + 1,
			ComponentID:      parts[i].(string),
			Quantity:         decimal.NewFromInt(int64(parts[i+1].(int))),
		})
	}
	f.boms[id] = b
	return f
}

func (f *fakeCatalog) GetMaterial(_ context.Context, id string) (*entity.Material, error) {
	f.calls++
	return f.materials[id], nil
}

func (f *fakeCatalog) GetBillOfMaterial(_ context.Context, id string) (*entity.BillOfMaterial, error) {
	return f.boms[id], nil
}

func assertRequirements(t *testing.T, want map[string]int64, got Requirements) {
	t.Helper()
	require.Len(t, got, len(want))
	for id, q := range want {
		g, ok := got[id]
		require.True(t, ok, "falta material %s", id)
		assert.True(t, decimal.NewFromInt(q).Equal(g), "%s: esperado %d, recibido %s", id, q, g)
	}
}

func TestResolve_Atomico(t *testing.T) {
	r := NewResolver(newFakeCatalog().atomic("X"))

	got, err := r.Resolve(context.Background(), "X", decimal.NewFromInt(7))
	require.NoError(t, err)
	assertRequirements(t, map[string]int64{"X": 7}, got)
}

func TestResolve_UnNivel(t *testing.T) {
	r := NewResolver(newFakeCatalog().atomic("X", "Y").composite("C", "X", 2, "Y", 3))

	got, err := r.Resolve(context.Background(), "C", decimal.NewFromInt(5))
	require.NoError(t, err)
	assertRequirements(t, map[string]int64{"X": 10, "Y": 15}, got)
}

func TestResolve_DosNiveles(t *testing.T) {
	r := NewResolver(newFakeCatalog().atomic("X").composite("D", "X", 3).composite("C", "D", 2))

	got, err := r.Resolve(context.Background(), "C", decimal.NewFromInt(1))
	require.NoError(t, err)
	assertRequirements(t, map[string]int64{"X": 6}, got)
}

func TestResolve_SumaPorVariasRamas(t *testing.T) {
	// C = 2 A + 1 B ; A = 3 X ; B = 4 X + 1 Y
	cat := newFakeCatalog().atomic("X", "Y").
		composite("A", "X", 3).
		composite("B", "X", 4, "Y", 1).
		composite("C", "A", 2, "B", 1)

	got, err := NewResolver(cat).Resolve(context.Background(), "C", decimal.NewFromInt(2))
	require.NoError(t, err)
	assertRequirements(t, map[string]int64{"X": 20, "Y": 2}, got)
}

func TestResolve_Determinista(t *testing.T) {
	cat := newFakeCatalog().atomic("X", "Y").composite("A", "X", 3).composite("C", "A", 2, "Y", 1)
	r := NewResolver(cat)

	first, err := r.Resolve(context.Background(), "C", decimal.NewFromInt(4))
	require.NoError(t, err)
	second, err := r.Resolve(context.Background(), "C", decimal.NewFromInt(4))
	require.NoError(t, err)

	assert.Equal(t, first.MaterialIDs(), second.MaterialIDs())
	for id := range first {
		assert.True(t, first[id].Equal(second[id]))
	}
}

func TestResolve_CicloDirecto(t *testing.T) {
	r := NewResolver(newFakeCatalog().atomic("X").composite("C", "X", 1, "C", 1))

	_, err := r.Resolve(context.Background(), "C", decimal.NewFromInt(1))
	var cyc *domain.CyclicBillOfMaterialError
	require.True(t, errors.As(err, &cyc), "se esperaba ciclo, recibido %v", err)
	assert.Equal(t, []string{"C", "C"}, cyc.Path)
}

func TestResolve_CicloTransitivoProfundo(t *testing.T) {
	// R -> L1 -> L2 -> ... -> L10 -> L3 (el ciclo se cierra varios niveles abajo)
	cat := newFakeCatalog().atomic("X")
	cat.composite("R", "L1", 1)
	for i := 1; i < 10; i++ {
		cat.composite(fmt.Sprintf("L%d", i), fmt.Sprintf("L%d", i+1), 2, "X", 1)
	}
	cat.composite("L10", "L3", 1)

	_, err := NewResolver(cat).Resolve(context.Background(), "R", decimal.NewFromInt(1))
	var cyc *domain.CyclicBillOfMaterialError
	require.True(t, errors.As(err, &cyc))
	assert.Equal(t, "L3", cyc.Path[0])
	assert.Equal(t, "L3", cyc.Path[len(cyc.Path)-1])
	assert.Len(t, cyc.Path, 9)
}

func TestResolve_CompuestoSinItems(t *testing.T) {
	cat := newFakeCatalog()
	cat.materials["C"] = &entity.Material{ID: "C", Composite: true}

	_, err := NewResolver(cat).Resolve(context.Background(), "C", decimal.NewFromInt(1))
	var noItems *domain.NoItemsError
	require.True(t, errors.As(err, &noItems))
	assert.Equal(t, "C", noItems.MaterialID)

	cat.boms["C"] = &entity.BillOfMaterial{ID: "b", MaterialID: "C"}
	_, err = NewResolver(cat).Resolve(context.Background(), "C", decimal.NewFromInt(1))
	assert.True(t, errors.As(err, &noItems))
}

func TestResolve_MaterialInexistente(t *testing.T) {
	_, err := NewResolver(newFakeCatalog().composite("C", "Z", 1)).Resolve(context.Background(), "C", decimal.NewFromInt(1))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestResolve_CantidadInvalida(t *testing.T) {
	r := NewResolver(newFakeCatalog().atomic("X"))
	for _, q := range []string{"0", "-3", "1.5"} {
		_, err := r.Resolve(context.Background(), "X", decimal.RequireFromString(q))
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "cantidad %s", q)
	}
}

func TestResolve_SinDesbordamiento(t *testing.T) {
	// 4 niveles de 1_000_000 unidades cada uno: 10^24 supera int64.
	cat := newFakeCatalog().atomic("X").
		composite("A", "X", 1_000_000).
		composite("B", "A", 1_000_000).
		composite("C", "B", 1_000_000)

	got, err := NewResolver(cat).Resolve(context.Background(), "C", decimal.NewFromInt(1_000_000))
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000000000", got["X"].String())
}

func TestResolve_ProfundidadMaxima(t *testing.T) {
	cat := newFakeCatalog().atomic("X").composite("A", "X", 1).composite("B", "A", 1).composite("C", "B", 1)

	_, err := NewResolver(cat, WithMaxDepth(2)).Resolve(context.Background(), "C", decimal.NewFromInt(1))
	assert.True(t, errors.Is(err, domain.ErrBOMTooDeep))

	_, err = NewResolver(cat, WithMaxDepth(3)).Resolve(context.Background(), "C", decimal.NewFromInt(1))
	assert.NoError(t, err)
}

func TestResolve_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewResolver(newFakeCatalog().atomic("X")).Resolve(ctx, "X", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolve_MemorizaSubarbolesCompartidos(t *testing.T) {
	// A aparece por dos ramas; solo se consulta una vez por resolución.
	cat := newFakeCatalog().atomic("X").composite("A", "X", 1).composite("B", "A", 1).composite("C", "A", 1, "B", 1)

	_, err := NewResolver(cat).Resolve(context.Background(), "C", decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.Equal(t, 4, cat.calls)
}
