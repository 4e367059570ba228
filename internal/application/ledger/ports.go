package ledger

import (
	"context"

	"github.com/jhoicas/erp-core/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repos de cuentas y asientos atados a ella.
// Si fn devuelve error no se persiste nada.
type TxRunner interface {
	RunLedger(ctx context.Context, fn func(
		accounts repository.AccountRepository,
		postings repository.PostingRepository,
	) error) error
}
