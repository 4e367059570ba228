package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

var _ repository.PostingRepository = (*PostingRepo)(nil)

// PostingRepo implementación de PostingRepository sobre PostgreSQL (usable con pool o tx).
type PostingRepo struct {
	q Querier
}

// NewPostingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPostingRepository(q Querier) *PostingRepo {
	return &PostingRepo{q: q}
}

// Create persiste el asiento. (account_id, sequence) es único.
func (r *PostingRepo) Create(ctx context.Context, p *entity.Posting) error {
	query := `
		INSERT INTO postings (id, account_id, sequence, type, date, counterparty_id, amount, currency, reference, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.AccountID, p.Sequence, p.Type, p.Date, p.CounterpartyID,
		p.Amount, p.Currency, p.Reference, p.CreatedBy, p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert posting: %w", err)
	}
	return nil
}

// ListByAccount lista los asientos de la cuenta en orden de inserción.
func (r *PostingRepo) ListByAccount(ctx context.Context, accountID string) ([]entity.Posting, error) {
	query := `
		SELECT id, account_id, sequence, type, date, counterparty_id, amount, currency, reference, created_by, created_at
		FROM postings WHERE account_id = $1 ORDER BY sequence`
	rows, err := r.q.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list postings: %w", err)
	}
	defer rows.Close()

	var list []entity.Posting
	for rows.Next() {
		var p entity.Posting
		if err := rows.Scan(
			&p.ID, &p.AccountID, &p.Sequence, &p.Type, &p.Date, &p.CounterpartyID,
			&p.Amount, &p.Currency, &p.Reference, &p.CreatedBy, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan posting: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Delete elimina un asiento de la cuenta. Un asiento generado por una línea de
// pedido aceptada no se puede eliminar (ErrConflict).
func (r *PostingRepo) Delete(ctx context.Context, accountID, postingID string) error {
	var referenced bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM sales_order_items WHERE posting_id = $1)`, postingID,
	).Scan(&referenced)
	if err != nil {
		return fmt.Errorf("check posting references: %w", err)
	}
	if referenced {
		return fmt.Errorf("asiento %s referenciado por una línea de pedido: %w", postingID, domain.ErrConflict)
	}

	tag, err := r.q.Exec(ctx, `DELETE FROM postings WHERE account_id = $1 AND id = $2`, accountID, postingID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("asiento %s referenciado por una línea de pedido: %w", postingID, domain.ErrConflict)
		}
		return fmt.Errorf("delete posting: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("asiento %s: %w", postingID, domain.ErrNotFound)
	}
	return nil
}
