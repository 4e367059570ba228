package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

var _ repository.BillOfMaterialRepository = (*BillOfMaterialRepo)(nil)

// BillOfMaterialRepo implementación en memoria de BillOfMaterialRepository.
type BillOfMaterialRepo struct {
	db backend
}

// NewBillOfMaterialRepository construye el repositorio.
func NewBillOfMaterialRepository(db backend) *BillOfMaterialRepo {
	return &BillOfMaterialRepo{db: db}
}

// GetByMaterial devuelve la lista del material o (nil, nil).
func (r *BillOfMaterialRepo) GetByMaterial(_ context.Context, materialID string) (*entity.BillOfMaterial, error) {
	var out *entity.BillOfMaterial
	r.db.read(func(st *state) {
		if b, ok := st.boms[materialID]; ok {
			c := copyBOM(b)
			out = &c
		}
	})
	return out, nil
}

// Replace sustituye la lista del material.
func (r *BillOfMaterialRepo) Replace(_ context.Context, b *entity.BillOfMaterial) error {
	rec := copyBOM(*b)
	return r.db.write(func(st *state) error {
		if _, ok := st.materials[rec.MaterialID]; !ok {
			return fmt.Errorf("material %s: %w", rec.MaterialID, domain.ErrNotFound)
		}
		return nil
	}, func(st *state) { st.boms[rec.MaterialID] = rec })
}

func copyBOM(b entity.BillOfMaterial) entity.BillOfMaterial {
	items := make([]entity.BillOfMaterialItem, len(b.Items))
	copy(items, b.Items)
	for i := range items {
		own(&items[i].BillOfMaterialID, &items[i].ComponentID)
	}
	own(&b.ID, &b.MaterialID)
	b.Items = items
	return b
}
