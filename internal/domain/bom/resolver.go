// Package bom resuelve listas de materiales multinivel hasta sus materiales atómicos.
package bom

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
)

// DefaultMaxDepth profundidad máxima de anidamiento si no se configura otra.
const DefaultMaxDepth = 64

// Catalog acceso de solo lectura al catálogo de materiales.
// Ambos métodos devuelven (nil, nil) cuando el registro no existe.
type Catalog interface {
	GetMaterial(ctx context.Context, materialID string) (*entity.Material, error)
	GetBillOfMaterial(ctx context.Context, materialID string) (*entity.BillOfMaterial, error)
}

// Requirements material atómico -> cantidad requerida.
type Requirements map[string]decimal.Decimal

func (r Requirements) add(materialID string, qty decimal.Decimal) {
	if cur, ok := r[materialID]; ok {
		r[materialID] = cur.Add(qty)
		return
	}
	r[materialID] = qty
}

// MaterialIDs devuelve las claves ordenadas (salida determinista).
func (r Requirements) MaterialIDs() []string {
	ids := make([]string, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r Requirements) scale(q decimal.Decimal) Requirements {
	out := make(Requirements, len(r))
	for id, perUnit := range r {
		out[id] = perUnit.Mul(q)
	}
	return out
}

// Option configura el Resolver.
type Option func(*Resolver)

// WithMaxDepth limita la profundidad de anidamiento de la lista de materiales.
func WithMaxDepth(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxDepth = n
		}
	}
}

// Resolver calcula los requerimientos de materiales atómicos para producir N unidades.
// No guarda estado entre llamadas; es seguro para uso concurrente si el Catalog lo es.
type Resolver struct {
	catalog  Catalog
	maxDepth int
}

// NewResolver construye el resolvedor sobre un catálogo.
func NewResolver(catalog Catalog, opts ...Option) *Resolver {
	r := &Resolver{catalog: catalog, maxDepth: DefaultMaxDepth}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve expande materialID para quantity unidades terminadas.
// Un material atómico devuelve {materialID: quantity}. Un compuesto suma, por cada ítem,
// la expansión del componente por quantity*cantidadPorUnidad en todas las ramas.
// Un ciclo aborta toda la resolución con *domain.CyclicBillOfMaterialError (sin resultado parcial).
func (r *Resolver) Resolve(ctx context.Context, materialID string, quantity decimal.Decimal) (Requirements, error) {
	if materialID == "" || !quantity.IsPositive() || !quantity.IsInteger() {
		return nil, fmt.Errorf("resolver %q x %s: %w", materialID, quantity.String(), domain.ErrInvalidInput)
	}
	w := &walk{
		ctx:      ctx,
		catalog:  r.catalog,
		maxDepth: r.maxDepth,
		onPath:   make(map[string]int),
		memo:     make(map[string]Requirements),
	}
	unit, err := w.perUnit(materialID)
	if err != nil {
		return nil, err
	}
	return unit.scale(quantity), nil
}

// walk estado de una sola resolución: camino activo (para ciclos) y expansiones por unidad ya hechas.
type walk struct {
	ctx      context.Context
	catalog  Catalog
	maxDepth int
	path     []string
	onPath   map[string]int // material -> posición en path
	memo     map[string]Requirements
}

// perUnit requerimientos atómicos para una unidad del material.
// Un material memorizado ya fue expandido completo sin ciclo, así que reusarlo no oculta ciclos.
func (w *walk) perUnit(materialID string) (Requirements, error) {
	if err := w.ctx.Err(); err != nil {
		return nil, err
	}
	if idx, ok := w.onPath[materialID]; ok {
		cycle := make([]string, 0, len(w.path)-idx+1)
		cycle = append(cycle, w.path[idx:]...)
		cycle = append(cycle, materialID)
		return nil, &domain.CyclicBillOfMaterialError{Path: cycle}
	}
	if unit, ok := w.memo[materialID]; ok {
		return unit, nil
	}
	material, err := w.catalog.GetMaterial(w.ctx, materialID)
	if err != nil {
		return nil, fmt.Errorf("obtener material %s: %w", materialID, err)
	}
	if material == nil {
		return nil, fmt.Errorf("material %s: %w", materialID, domain.ErrNotFound)
	}
	if material.IsAtomic() {
		unit := Requirements{materialID: decimal.NewFromInt(1)}
		w.memo[materialID] = unit
		return unit, nil
	}

	list, err := w.catalog.GetBillOfMaterial(w.ctx, materialID)
	if err != nil {
		return nil, fmt.Errorf("obtener lista de materiales %s: %w", materialID, err)
	}
	if list == nil || len(list.Items) == 0 {
		return nil, &domain.NoItemsError{MaterialID: materialID}
	}
	if len(w.path) >= w.maxDepth {
		return nil, fmt.Errorf("%w (%d) en %s", domain.ErrBOMTooDeep, w.maxDepth, materialID)
	}

	w.onPath[materialID] = len(w.path)
	w.path = append(w.path, materialID)
	defer func() {
		w.path = w.path[:len(w.path)-1]
		delete(w.onPath, materialID)
	}()

	unit := make(Requirements)
	for _, item := range list.Items {
		if item.Quantity.LessThan(decimal.NewFromInt(1)) || !item.Quantity.IsInteger() {
			return nil, fmt.Errorf("ítem %d de %s con cantidad %s: %w",
				item.ItemID, materialID, item.Quantity.String(), domain.ErrInvalidInput)
		}
		sub, err := w.perUnit(item.ComponentID)
		if err != nil {
			return nil, err
		}
		for id, q := range sub {
			unit.add(id, q.Mul(item.Quantity))
		}
	}
	w.memo[materialID] = unit
	return unit, nil
}
