package inventory

import (
	"context"

	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

// RepositoryCatalog adapta los repositorios de materiales y listas al puerto bom.Catalog.
type RepositoryCatalog struct {
	materials repository.MaterialRepository
	boms      repository.BillOfMaterialRepository
}

// NewRepositoryCatalog construye el adaptador de catálogo de solo lectura.
func NewRepositoryCatalog(materials repository.MaterialRepository, boms repository.BillOfMaterialRepository) *RepositoryCatalog {
	return &RepositoryCatalog{materials: materials, boms: boms}
}

// GetMaterial implementa bom.Catalog.
func (c *RepositoryCatalog) GetMaterial(ctx context.Context, materialID string) (*entity.Material, error) {
	return c.materials.GetByID(ctx, materialID)
}

// GetBillOfMaterial implementa bom.Catalog.
func (c *RepositoryCatalog) GetBillOfMaterial(ctx context.Context, materialID string) (*entity.BillOfMaterial, error) {
	return c.boms.GetByMaterial(ctx, materialID)
}
