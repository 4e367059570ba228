// Package inventory verifica que las líneas de pedido puedan cubrirse con el stock disponible.
package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/bom"
)

// DefaultParallelism líneas verificadas en paralelo por CheckOrder.
const DefaultParallelism = 4

// StockLookup fuente externa de inventario (lectura puntual, sin reservas).
type StockLookup interface {
	GetAvailableQuantity(ctx context.Context, materialID string) (decimal.Decimal, error)
}

// Resolver expande un material a sus requerimientos atómicos.
type Resolver interface {
	Resolve(ctx context.Context, materialID string, quantity decimal.Decimal) (bom.Requirements, error)
}

// Line línea a verificar; ItemRef identifica la línea de pedido de origen.
type Line struct {
	ItemRef    string
	MaterialID string
	Quantity   decimal.Decimal
}

// Availability resultado de verificar una línea.
type Availability struct {
	Line         Line
	Requirements bom.Requirements
	Shortages    []domain.Shortage // ordenados por material atómico
}

// OK indica que no hay faltantes.
func (a *Availability) OK() bool {
	return len(a.Shortages) == 0
}

// Err devuelve *domain.QuantityExceedsInventoryError si hay faltantes, o nil.
func (a *Availability) Err() error {
	if a.OK() {
		return nil
	}
	return &domain.QuantityExceedsInventoryError{Shortages: a.Shortages}
}

// Checker combina el resolvedor de listas de materiales con la consulta de stock.
// No modifica el stock.
type Checker struct {
	resolver    Resolver
	stock       StockLookup
	parallelism int
}

// NewChecker construye el verificador.
func NewChecker(resolver Resolver, stock StockLookup) *Checker {
	return &Checker{resolver: resolver, stock: stock, parallelism: DefaultParallelism}
}

// Check resuelve la línea y compara cada material atómico con el stock disponible.
func (c *Checker) Check(ctx context.Context, line Line) (*Availability, error) {
	req, err := c.resolver.Resolve(ctx, line.MaterialID, line.Quantity)
	if err != nil {
		return nil, err
	}
	return Compare(ctx, line, req, c.stock)
}

// CheckOrder verifica varias líneas en paralelo; el resultado respeta el orden de entrada.
// Un error en cualquier línea (ciclo, material inexistente, fallo de stock) aborta la verificación.
func (c *Checker) CheckOrder(ctx context.Context, lines []Line) ([]*Availability, error) {
	out := make([]*Availability, len(lines))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallelism)
	for i := range lines {
		g.Go(func() error {
			av, err := c.Check(gctx, lines[i])
			if err != nil {
				return fmt.Errorf("línea %s: %w", lines[i].ItemRef, err)
			}
			out[i] = av
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Compare contrasta requerimientos ya resueltos contra el stock. Reporta todos los faltantes.
func Compare(ctx context.Context, line Line, req bom.Requirements, stock StockLookup) (*Availability, error) {
	av := &Availability{Line: line, Requirements: req}
	for _, id := range req.MaterialIDs() {
		required := req[id]
		available, err := stock.GetAvailableQuantity(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("consultar stock de %s: %w", id, err)
		}
		if required.GreaterThan(available) {
			av.Shortages = append(av.Shortages, domain.Shortage{
				ItemRef:           line.ItemRef,
				OrderedMaterialID: line.MaterialID,
				MaterialID:        id,
				RequestedQuantity: line.Quantity,
				RequiredQuantity:  required,
				AvailableQuantity: available,
			})
		}
	}
	return av, nil
}

// Shortages aplana los faltantes de varias verificaciones.
func Shortages(results []*Availability) []domain.Shortage {
	var out []domain.Shortage
	for _, r := range results {
		out = append(out, r.Shortages...)
	}
	return out
}
