package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/bom"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
	"github.com/jhoicas/erp-core/internal/domain/validation"
)

// CatalogUseCase administración del catálogo de materiales: altas, listas de materiales y stock.
type CatalogUseCase struct {
	materials repository.MaterialRepository
	boms      repository.BillOfMaterialRepository
	stock     repository.StockRepository
	maxDepth  int
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(
	materials repository.MaterialRepository,
	boms repository.BillOfMaterialRepository,
	stock repository.StockRepository,
	maxDepth int,
) *CatalogUseCase {
	return &CatalogUseCase{materials: materials, boms: boms, stock: stock, maxDepth: maxDepth}
}

// CreateMaterial crea un material. El código es único en el catálogo.
func (uc *CatalogUseCase) CreateMaterial(ctx context.Context, in dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	now := time.Now()
	m := &entity.Material{
		ID:            uuid.New().String(),
		Code:          in.Code,
		Name:          in.Name,
		Composite:     in.Composite,
		StockQuantity: in.StockQuantity,
		UnitMeasure:   in.UnitMeasure,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := validation.Material(m); err != nil {
		return nil, err
	}
	existing, err := uc.materials.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.materials.Create(ctx, m); err != nil {
		return nil, err
	}
	return toMaterialResponse(m, nil), nil
}

// GetMaterial devuelve el material con su lista de materiales si es compuesto.
func (uc *CatalogUseCase) GetMaterial(ctx context.Context, id string) (*dto.MaterialResponse, error) {
	m, err := uc.materials.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	var list *entity.BillOfMaterial
	if m.Composite {
		if list, err = uc.boms.GetByMaterial(ctx, id); err != nil {
			return nil, err
		}
	}
	return toMaterialResponse(m, list), nil
}

// SetBillOfMaterial reemplaza la lista de materiales de un material compuesto.
// Rechaza componentes inexistentes y listas que cierren un ciclo en el grafo.
// Un componente compuesto que aún no tiene lista no impide guardar.
func (uc *CatalogUseCase) SetBillOfMaterial(ctx context.Context, materialID string, in dto.SetBillOfMaterialRequest) (*dto.MaterialResponse, error) {
	m, err := uc.materials.GetByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	if !m.Composite {
		return nil, fmt.Errorf("material %s es atómico: %w", materialID, domain.ErrConflict)
	}

	list := &entity.BillOfMaterial{ID: uuid.New().String(), MaterialID: materialID}
	if current, err := uc.boms.GetByMaterial(ctx, materialID); err != nil {
		return nil, err
	} else if current != nil {
		list.ID = current.ID
	}
	for _, it := range in.Items {
		list.Items = append(list.Items, entity.BillOfMaterialItem{
			BillOfMaterialID: list.ID,
			ItemID:           it.ItemID,
			ComponentID:      it.ComponentID,
			Quantity:         it.Quantity,
		})
	}
	if err := validation.BillOfMaterial(list); err != nil {
		return nil, err
	}
	for _, it := range list.Items {
		c, err := uc.materials.GetByID(ctx, it.ComponentID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, fmt.Errorf("componente %s: %w", it.ComponentID, domain.ErrNotFound)
		}
	}

	overlay := &overlayCatalog{materials: uc.materials, boms: uc.boms, pending: list}
	if err := findCycle(ctx, overlay, materialID, uc.maxDepth); err != nil {
		return nil, err
	}
	if err := uc.boms.Replace(ctx, list); err != nil {
		return nil, err
	}
	return toMaterialResponse(m, list), nil
}

// SetStock fija el stock disponible de un material atómico (carga desde el sistema externo).
func (uc *CatalogUseCase) SetStock(ctx context.Context, materialID string, in dto.SetStockRequest) (*dto.MaterialResponse, error) {
	var v validation.Violations
	v.Check("quantity", validation.DecimalMin(in.Quantity, decimal.Zero), validation.Integer(in.Quantity))
	if err := v.Err("stock"); err != nil {
		return nil, err
	}
	m, err := uc.materials.GetByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	if m.Composite {
		return nil, fmt.Errorf("material %s es compuesto: %w", materialID, domain.ErrConflict)
	}
	if err := uc.stock.SetQuantity(ctx, materialID, in.Quantity); err != nil {
		return nil, err
	}
	m.StockQuantity = in.Quantity
	return toMaterialResponse(m, nil), nil
}

// findCycle recorre el grafo desde root y devuelve *domain.CyclicBillOfMaterialError si
// alguna rama vuelve a un material de su propio camino. Los compuestos sin lista son hojas.
func findCycle(ctx context.Context, cat bom.Catalog, root string, maxDepth int) error {
	var (
		path   []string
		onPath = map[string]bool{}
		done   = map[string]bool{}
	)
	var visit func(id string) error
	visit = func(id string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if onPath[id] {
			start := 0
			for i, p := range path {
				if p == id {
					start = i
					break
				}
			}
			cycle := append(append([]string{}, path[start:]...), id)
			return &domain.CyclicBillOfMaterialError{Path: cycle}
		}
		if done[id] {
			return nil
		}
		list, err := cat.GetBillOfMaterial(ctx, id)
		if err != nil {
			return err
		}
		if list != nil && len(list.Items) > 0 {
			if len(path) >= maxDepth {
				return domain.ErrBOMTooDeep
			}
			path = append(path, id)
			onPath[id] = true
			for _, it := range list.Items {
				if err := visit(it.ComponentID); err != nil {
					return err
				}
			}
			path = path[:len(path)-1]
			delete(onPath, id)
		}
		done[id] = true
		return nil
	}
	return visit(root)
}

// overlayCatalog catálogo con una lista de materiales pendiente de guardar.
type overlayCatalog struct {
	materials repository.MaterialRepository
	boms      repository.BillOfMaterialRepository
	pending   *entity.BillOfMaterial
}

func (o *overlayCatalog) GetMaterial(ctx context.Context, id string) (*entity.Material, error) {
	return o.materials.GetByID(ctx, id)
}

func (o *overlayCatalog) GetBillOfMaterial(ctx context.Context, id string) (*entity.BillOfMaterial, error) {
	if id == o.pending.MaterialID {
		return o.pending, nil
	}
	return o.boms.GetByMaterial(ctx, id)
}

func toMaterialResponse(m *entity.Material, list *entity.BillOfMaterial) *dto.MaterialResponse {
	resp := &dto.MaterialResponse{
		ID:            m.ID,
		Code:          m.Code,
		Name:          m.Name,
		Composite:     m.Composite,
		StockQuantity: m.StockQuantity,
		UnitMeasure:   m.UnitMeasure,
	}
	if list != nil {
		for _, it := range list.Items {
			resp.BillOfMaterial = append(resp.BillOfMaterial, dto.BillOfMaterialItemDTO{
				ItemID:      it.ItemID,
				ComponentID: it.ComponentID,
				Quantity:    it.Quantity,
			})
		}
	}
	return resp
}
