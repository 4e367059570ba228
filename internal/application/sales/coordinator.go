// Package sales contiene terceros, pedidos de venta y el coordinador que acepta líneas
// de pedido contra el inventario y las registra en el libro del tercero.
package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/application/ledger"
	"github.com/jhoicas/erp-core/internal/application/ports"
	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	domaininv "github.com/jhoicas/erp-core/internal/domain/inventory"
	"github.com/jhoicas/erp-core/internal/domain/repository"
	"github.com/jhoicas/erp-core/internal/domain/validation"
	"github.com/jhoicas/erp-core/pkg/logger"
)

// AcceptItemInput línea a aceptar y usuario que ejecuta la operación.
type AcceptItemInput struct {
	OrderID string
	ItemID  string
	UserID  string
}

// Decision resultado de intentar aceptar una línea.
type Decision struct {
	OrderID   string
	ItemID    string
	Accepted  bool
	Shortages []domain.Shortage // solo si no se aceptó
	Posting   *entity.Posting   // solo si se aceptó
	Balance   decimal.Decimal   // saldo de la cuenta tras el asiento
}

// Err devuelve *domain.QuantityExceedsInventoryError si la línea no se aceptó.
func (d *Decision) Err() error {
	if d.Accepted {
		return nil
	}
	return &domain.QuantityExceedsInventoryError{Shortages: d.Shortages}
}

// OrderCoordinator acepta líneas de pedido: verifica inventario y, si alcanza, marca la línea
// como aceptada y registra el ingreso en la cuenta del tercero en una sola transacción.
type OrderCoordinator struct {
	orders   repository.SalesOrderRepository
	partners repository.PartnerRepository
	checker  AvailabilityChecker
	ledger   *ledger.Service
	tx       TxRunner
	metrics  ports.Metrics
	log      *logger.Logger
}

// NewOrderCoordinator construye el coordinador. orders y partners se usan para lecturas previas a la transacción.
func NewOrderCoordinator(
	orders repository.SalesOrderRepository,
	partners repository.PartnerRepository,
	checker AvailabilityChecker,
	ledgerSvc *ledger.Service,
	tx TxRunner,
	metrics ports.Metrics,
	log *logger.Logger,
) *OrderCoordinator {
	return &OrderCoordinator{
		orders:   orders,
		partners: partners,
		checker:  checker,
		ledger:   ledgerSvc,
		tx:       tx,
		metrics:  metrics,
		log:      log.Component("sales"),
	}
}

// AcceptOrderItem acepta la línea o devuelve los faltantes sin tocar nada.
//
// Retorna:
//   - Decision{Accepted: false, Shortages} si el inventario no alcanza.
//   - domain.ErrNotFound si el pedido, la línea, el tercero o la cuenta no existen.
//   - domain.ErrConflict si la línea ya fue aceptada.
//   - *domain.IdentifierMismatchError si pedido, línea, tercero y cuenta no se enlazan entre sí.
func (c *OrderCoordinator) AcceptOrderItem(ctx context.Context, in AcceptItemInput) (*Decision, error) {
	order, err := c.orders.GetByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("pedido %s: %w", in.OrderID, domain.ErrNotFound)
	}
	item := findItem(order, in.ItemID)
	if item == nil {
		return nil, fmt.Errorf("línea %s: %w", in.ItemID, domain.ErrNotFound)
	}
	if err := validation.IdentifierMismatch("línea de pedido", "order_id", item.OrderID, order.ID); err != nil {
		return nil, err
	}
	if item.Status == entity.OrderItemStatusAccepted {
		return nil, fmt.Errorf("línea %s ya aceptada: %w", item.ID, domain.ErrConflict)
	}
	partner, err := c.partners.GetByID(ctx, order.PartnerID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, fmt.Errorf("tercero %s: %w", order.PartnerID, domain.ErrNotFound)
	}

	// ── 1. Verificar inventario (lectura puntual, sin reservar) ──────────────
	availability, err := c.checker.Check(ctx, domaininv.Line{ItemRef: item.ID, MaterialID: item.MaterialID, Quantity: item.Quantity})
	if err != nil {
		return nil, err
	}
	decision := &Decision{OrderID: order.ID, ItemID: item.ID}
	if !availability.OK() {
		decision.Shortages = availability.Shortages
		c.metrics.ObserveOrderDecision(false)
		c.log.Info().
			Str("order_id", order.ID).
			Str("item_id", item.ID).
			Int("shortages", len(decision.Shortages)).
			Msg("línea rechazada por falta de inventario")
		return decision, nil
	}

	// ── 2. Aceptar y registrar el asiento en una sola transacción ────────────
	unlock := c.ledger.Lock(partner.AccountID)
	defer unlock()

	err = c.tx.RunSales(ctx, func(
		orders repository.SalesOrderRepository,
		_ repository.PartnerRepository,
		accounts repository.AccountRepository,
		postings repository.PostingRepository,
	) error {
		locked, err := orders.GetItemForUpdate(ctx, item.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return fmt.Errorf("línea %s: %w", item.ID, domain.ErrNotFound)
		}
		if err := validation.IdentifierMismatch("línea de pedido", "order_id", locked.OrderID, order.ID); err != nil {
			return err
		}
		if locked.Status == entity.OrderItemStatusAccepted {
			return fmt.Errorf("línea %s ya aceptada: %w", item.ID, domain.ErrConflict)
		}

		account, err := accounts.GetForUpdate(ctx, partner.AccountID)
		if err != nil {
			return err
		}
		if account == nil {
			return fmt.Errorf("cuenta %s: %w", partner.AccountID, domain.ErrNotFound)
		}
		if err := validation.IdentifierMismatch("cuenta", "partner_id", account.PartnerID, partner.ID); err != nil {
			return err
		}

		now := time.Now()
		saved, balance, err := c.ledger.AppendInTx(ctx, accounts, postings, account.ID, entity.Posting{
			Type:           entity.PostingTypeReceipt,
			Date:           now,
			CounterpartyID: partner.ID,
			Amount:         locked.Amount(),
			Currency:       order.Currency,
			Reference:      order.Number,
			CreatedBy:      in.UserID,
		})
		if err != nil {
			return err
		}
		if err := orders.MarkItemAccepted(ctx, item.ID, saved.ID, now); err != nil {
			return fmt.Errorf("marcar línea aceptada: %w", err)
		}
		decision.Posting = &saved
		decision.Balance = balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	decision.Accepted = true
	c.metrics.ObserveOrderDecision(true)
	c.log.Info().
		Str("order_id", order.ID).
		Str("item_id", item.ID).
		Str("posting_id", decision.Posting.ID).
		Str("balance", decision.Balance.String()).
		Msg("línea aceptada")
	return decision, nil
}

func findItem(o *entity.SalesOrder, itemID string) *entity.SalesOrderItem {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}
