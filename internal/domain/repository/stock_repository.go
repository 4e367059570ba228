package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// StockRepository define el puerto para consultar el stock disponible por material.
// La reserva y el descuento de stock pertenecen al sistema de inventario externo.
type StockRepository interface {
	GetAvailableQuantity(ctx context.Context, materialID string) (decimal.Decimal, error)
	SetQuantity(ctx context.Context, materialID string, quantity decimal.Decimal) error
}
