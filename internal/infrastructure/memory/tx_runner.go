package memory

import (
	"context"

	"github.com/jhoicas/erp-core/internal/application/ledger"
	"github.com/jhoicas/erp-core/internal/application/sales"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

var _ ledger.TxRunner = (*TxRunner)(nil)
var _ sales.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks con repos atados a una transacción en memoria.
// Una transacción a la vez: equivale a bloquear todas las filas que toca.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

func (r *TxRunner) run(ctx context.Context, fn func(tx *txBackend) error) error {
	r.store.txMu.Lock()
	defer r.store.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &txBackend{store: r.store}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// RunLedger transacción con repos de cuentas y asientos.
func (r *TxRunner) RunLedger(ctx context.Context, fn func(
	accounts repository.AccountRepository,
	postings repository.PostingRepository,
) error) error {
	return r.run(ctx, func(tx *txBackend) error {
		return fn(NewAccountRepository(tx), NewPostingRepository(tx))
	})
}

// RunSales transacción con repos de pedidos, terceros, cuentas y asientos.
func (r *TxRunner) RunSales(ctx context.Context, fn func(
	orders repository.SalesOrderRepository,
	partners repository.PartnerRepository,
	accounts repository.AccountRepository,
	postings repository.PostingRepository,
) error) error {
	return r.run(ctx, func(tx *txBackend) error {
		return fn(NewSalesOrderRepository(tx), NewPartnerRepository(tx), NewAccountRepository(tx), NewPostingRepository(tx))
	})
}
