package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo implementación en memoria de MaterialRepository.
type MaterialRepo struct {
	db backend
}

// NewMaterialRepository construye el repositorio.
func NewMaterialRepository(db backend) *MaterialRepo {
	return &MaterialRepo{db: db}
}

// Create inserta un material; el código es único.
func (r *MaterialRepo) Create(_ context.Context, m *entity.Material) error {
	rec := *m
	own(&rec.ID, &rec.Code, &rec.Name, &rec.UnitMeasure)
	return r.db.write(func(st *state) error {
		if _, ok := st.materials[rec.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, e := range st.materials {
			if e.Code == rec.Code {
				return domain.ErrDuplicate
			}
		}
		return nil
	}, func(st *state) { st.materials[rec.ID] = rec })
}

// GetByID devuelve el material o (nil, nil).
func (r *MaterialRepo) GetByID(_ context.Context, id string) (*entity.Material, error) {
	var out *entity.Material
	r.db.read(func(st *state) {
		if m, ok := st.materials[id]; ok {
			out = &m
		}
	})
	return out, nil
}

// GetByCode busca por código.
func (r *MaterialRepo) GetByCode(_ context.Context, code string) (*entity.Material, error) {
	var out *entity.Material
	r.db.read(func(st *state) {
		for _, m := range st.materials {
			if m.Code == code {
				m := m
				out = &m
				return
			}
		}
	})
	return out, nil
}

// Update reemplaza los datos del material.
func (r *MaterialRepo) Update(_ context.Context, m *entity.Material) error {
	rec := *m
	own(&rec.ID, &rec.Code, &rec.Name, &rec.UnitMeasure)
	return r.db.write(func(st *state) error {
		if _, ok := st.materials[rec.ID]; !ok {
			return fmt.Errorf("material %s: %w", rec.ID, domain.ErrNotFound)
		}
		return nil
	}, func(st *state) { st.materials[rec.ID] = rec })
}

// List materiales ordenados por código.
func (r *MaterialRepo) List(_ context.Context, limit, offset int) ([]*entity.Material, error) {
	var all []*entity.Material
	r.db.read(func(st *state) {
		for _, m := range st.materials {
			m := m
			all = append(all, &m)
		}
	})
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return page(all, limit, offset), nil
}

// page aplica limit/offset; limit <= 0 devuelve todo desde offset.
func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
