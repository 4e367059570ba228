package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

var _ repository.SalesOrderRepository = (*SalesOrderRepo)(nil)

// SalesOrderRepo pedidos en sales_orders y líneas en sales_order_items.
type SalesOrderRepo struct {
	q Querier
}

// NewSalesOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesOrderRepository(q Querier) *SalesOrderRepo {
	return &SalesOrderRepo{q: q}
}

const itemColumns = `id, order_id, material_id, quantity, unit_price, status, COALESCE(posting_id, ''), accepted_at`

// Create persiste cabecera y líneas. Con pool cada sentencia es independiente; para atomicidad usar una tx.
func (r *SalesOrderRepo) Create(ctx context.Context, o *entity.SalesOrder) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales_orders (id, number, partner_id, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.Number, o.PartnerID, o.Currency, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sales order: %w", err)
	}
	for i, it := range o.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sales_order_items (id, order_id, position, material_id, quantity, unit_price, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			it.ID, o.ID, i, it.MaterialID, it.Quantity, it.UnitPrice, it.Status,
		)
		if err != nil {
			return fmt.Errorf("insert sales order item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene el pedido con sus líneas en orden.
func (r *SalesOrderRepo) GetByID(ctx context.Context, id string) (*entity.SalesOrder, error) {
	var o entity.SalesOrder
	err := r.q.QueryRow(ctx, `
		SELECT id, number, partner_id, currency, created_at, updated_at
		FROM sales_orders WHERE id = $1`, id,
	).Scan(&o.ID, &o.Number, &o.PartnerID, &o.Currency, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales order: %w", err)
	}

	rows, err := r.q.Query(ctx, `SELECT `+itemColumns+` FROM sales_order_items WHERE order_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list sales order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sales order item: %w", err)
		}
		o.Items = append(o.Items, *it)
	}
	return &o, rows.Err()
}

// GetItemForUpdate obtiene la línea y bloquea la fila (SELECT FOR UPDATE).
func (r *SalesOrderRepo) GetItemForUpdate(ctx context.Context, itemID string) (*entity.SalesOrderItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM sales_order_items WHERE id = $1 FOR UPDATE`, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales order item for update: %w", err)
	}
	return it, nil
}

// MarkItemAccepted marca la línea como aceptada con el asiento generado.
func (r *SalesOrderRepo) MarkItemAccepted(ctx context.Context, itemID, postingID string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE sales_order_items SET status = $2, posting_id = $3, accepted_at = $4
		WHERE id = $1`, itemID, entity.OrderItemStatusAccepted, postingID, at)
	if err != nil {
		return fmt.Errorf("mark item accepted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("línea %s: %w", itemID, domain.ErrNotFound)
	}
	_, err = r.q.Exec(ctx, `
		UPDATE sales_orders SET updated_at = $2
		WHERE id = (SELECT order_id FROM sales_order_items WHERE id = $1)`, itemID, at)
	if err != nil {
		return fmt.Errorf("touch sales order: %w", err)
	}
	return nil
}

func scanItem(row pgx.Row) (*entity.SalesOrderItem, error) {
	var it entity.SalesOrderItem
	if err := row.Scan(&it.ID, &it.OrderID, &it.MaterialID, &it.Quantity, &it.UnitPrice, &it.Status, &it.PostingID, &it.AcceptedAt); err != nil {
		return nil, err
	}
	return &it, nil
}
