package repository

import (
	"context"

	"github.com/jhoicas/erp-core/internal/domain/entity"
)

// BillOfMaterialRepository persistencia de listas de materiales.
type BillOfMaterialRepository interface {
	// GetByMaterial devuelve la lista del material compuesto o (nil, nil) si no tiene.
	GetByMaterial(ctx context.Context, materialID string) (*entity.BillOfMaterial, error)
	// Replace sustituye cabecera e ítems de la lista del material.
	Replace(ctx context.Context, bom *entity.BillOfMaterial) error
}
