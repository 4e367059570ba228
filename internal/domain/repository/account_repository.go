package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/domain/entity"
)

// AccountRepository persistencia de cuentas. El saldo solo se escribe con UpdateBalance,
// siempre dentro de la misma transacción que agrega o elimina asientos.
type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	// GetForUpdate bloquea la fila de la cuenta hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Account, error)
	UpdateBalance(ctx context.Context, id string, balance decimal.Decimal, lastSequence int64, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*entity.Account, error)
}
