package sales

import (
	"context"

	domaininv "github.com/jhoicas/erp-core/internal/domain/inventory"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción con los repos de pedidos, terceros y libro.
type TxRunner interface {
	RunSales(ctx context.Context, fn func(
		orders repository.SalesOrderRepository,
		partners repository.PartnerRepository,
		accounts repository.AccountRepository,
		postings repository.PostingRepository,
	) error) error
}

// AvailabilityChecker verifica una línea contra el inventario (inventory.Checker).
type AvailabilityChecker interface {
	Check(ctx context.Context, line domaininv.Line) (*domaininv.Availability, error)
}
