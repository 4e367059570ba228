package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/erp-core/internal/application/ledger"
	"github.com/jhoicas/erp-core/internal/application/sales"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

// Ensure TxRunner implements ledger.TxRunner and sales.TxRunner.
var _ ledger.TxRunner = (*TxRunner)(nil)
var _ sales.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// run inicia una transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunLedger transacción con repos de cuentas y asientos.
func (r *TxRunner) RunLedger(ctx context.Context, fn func(
	accounts repository.AccountRepository,
	postings repository.PostingRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewAccountRepository(tx), NewPostingRepository(tx))
	})
}

// RunSales transacción con repos de pedidos, terceros, cuentas y asientos (aceptación de líneas).
func (r *TxRunner) RunSales(ctx context.Context, fn func(
	orders repository.SalesOrderRepository,
	partners repository.PartnerRepository,
	accounts repository.AccountRepository,
	postings repository.PostingRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewSalesOrderRepository(tx), NewPartnerRepository(tx), NewAccountRepository(tx), NewPostingRepository(tx))
	})
}
