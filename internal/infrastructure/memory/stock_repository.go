package memory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo stock disponible guardado en el propio material.
type StockRepo struct {
	db backend
}

// NewStockRepository construye el repositorio.
func NewStockRepository(db backend) *StockRepo {
	return &StockRepo{db: db}
}

// GetAvailableQuantity stock del material.
func (r *StockRepo) GetAvailableQuantity(_ context.Context, materialID string) (decimal.Decimal, error) {
	var (
		qty decimal.Decimal
		ok  bool
	)
	r.db.read(func(st *state) {
		var m entity.Material
		if m, ok = st.materials[materialID]; ok {
			qty = m.StockQuantity
		}
	})
	if !ok {
		return decimal.Zero, fmt.Errorf("material %s: %w", materialID, domain.ErrNotFound)
	}
	return qty, nil
}

// SetQuantity fija el stock del material.
func (r *StockRepo) SetQuantity(_ context.Context, materialID string, quantity decimal.Decimal) error {
	return r.db.write(func(st *state) error {
		if _, ok := st.materials[materialID]; !ok {
			return fmt.Errorf("material %s: %w", materialID, domain.ErrNotFound)
		}
		return nil
	}, func(st *state) {
		m := st.materials[materialID]
		m.StockQuantity = quantity
		st.materials[m.ID] = m
	})
}
