package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// GetAvailableQuantity obtiene el stock actual del material.
func (r *StockRepo) GetAvailableQuantity(ctx context.Context, materialID string) (decimal.Decimal, error) {
	var qty decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT stock_quantity FROM materials WHERE id = $1`, materialID).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("material %s: %w", materialID, domain.ErrNotFound)
		}
		return decimal.Zero, fmt.Errorf("get stock: %w", err)
	}
	return qty, nil
}

// SetQuantity fija la cantidad en stock del material.
func (r *StockRepo) SetQuantity(ctx context.Context, materialID string, quantity decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE materials SET stock_quantity = $2, updated_at = now() WHERE id = $1`, materialID, quantity)
	if err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("material %s: %w", materialID, domain.ErrNotFound)
	}
	return nil
}
