package repository

import (
	"context"
	"time"

	"github.com/jhoicas/erp-core/internal/domain/entity"
)

// SalesOrderRepository persistencia de pedidos de venta y sus líneas.
type SalesOrderRepository interface {
	Create(ctx context.Context, order *entity.SalesOrder) error
	// GetByID devuelve el pedido con sus líneas o (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.SalesOrder, error)
	// GetItemForUpdate bloquea la línea hasta el fin de la transacción.
	GetItemForUpdate(ctx context.Context, itemID string) (*entity.SalesOrderItem, error)
	MarkItemAccepted(ctx context.Context, itemID, postingID string, at time.Time) error
}
