package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo implementación de AccountRepository sobre PostgreSQL (usable con pool o tx).
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

const accountColumns = `id, partner_id, description, currency, balance, last_sequence, created_at, updated_at`

// Create persiste una cuenta nueva.
func (r *AccountRepo) Create(ctx context.Context, a *entity.Account) error {
	query := `INSERT INTO accounts (` + accountColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, a.ID, a.PartnerID, a.Description, a.Currency, a.Balance, a.LastSequence, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID obtiene una cuenta por ID.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

// GetForUpdate obtiene la cuenta y bloquea la fila (SELECT FOR UPDATE). Solo tiene efecto dentro de una tx.
func (r *AccountRepo) GetForUpdate(ctx context.Context, id string) (*entity.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id)
}

func (r *AccountRepo) getOne(ctx context.Context, query, id string) (*entity.Account, error) {
	a, err := scanAccount(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// UpdateBalance reemplaza el saldo cacheado y la última secuencia asignada.
func (r *AccountRepo) UpdateBalance(ctx context.Context, id string, balance decimal.Decimal, lastSequence int64, updatedAt time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE accounts SET balance = $2, last_sequence = $3, updated_at = $4 WHERE id = $1`,
		id, balance, lastSequence, updatedAt)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cuenta %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// List lista cuentas por fecha de creación.
func (r *AccountRepo) List(ctx context.Context, limit, offset int) ([]*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at, id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var list []*entity.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scanAccount(row pgx.Row) (*entity.Account, error) {
	var a entity.Account
	if err := row.Scan(&a.ID, &a.PartnerID, &a.Description, &a.Currency, &a.Balance, &a.LastSequence, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}
