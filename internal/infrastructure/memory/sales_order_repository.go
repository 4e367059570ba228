package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	"github.com/jhoicas/erp-core/internal/domain/repository"
)

var _ repository.SalesOrderRepository = (*SalesOrderRepo)(nil)

// SalesOrderRepo implementación en memoria de SalesOrderRepository.
type SalesOrderRepo struct {
	db backend
}

// NewSalesOrderRepository construye el repositorio.
func NewSalesOrderRepository(db backend) *SalesOrderRepo {
	return &SalesOrderRepo{db: db}
}

// Create inserta el pedido con sus líneas; el número de pedido es único.
func (r *SalesOrderRepo) Create(_ context.Context, o *entity.SalesOrder) error {
	rec := copyOrder(*o)
	return r.db.write(func(st *state) error {
		if _, ok := st.orders[rec.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, e := range st.orders {
			if e.Number == rec.Number {
				return domain.ErrDuplicate
			}
		}
		for _, it := range rec.Items {
			if _, ok := st.items[it.ID]; ok {
				return domain.ErrDuplicate
			}
		}
		return nil
	}, func(st *state) {
		st.orders[rec.ID] = rec
		for _, it := range rec.Items {
			st.items[it.ID] = rec.ID
		}
	})
}

// GetByID devuelve el pedido con sus líneas o (nil, nil).
func (r *SalesOrderRepo) GetByID(_ context.Context, id string) (*entity.SalesOrder, error) {
	var out *entity.SalesOrder
	r.db.read(func(st *state) {
		if o, ok := st.orders[id]; ok {
			c := copyOrder(o)
			out = &c
		}
	})
	return out, nil
}

// GetItemForUpdate devuelve la línea o (nil, nil).
func (r *SalesOrderRepo) GetItemForUpdate(_ context.Context, itemID string) (*entity.SalesOrderItem, error) {
	var out *entity.SalesOrderItem
	r.db.read(func(st *state) {
		orderID, ok := st.items[itemID]
		if !ok {
			return
		}
		for _, it := range st.orders[orderID].Items {
			if it.ID == itemID {
				it := it
				out = &it
				return
			}
		}
	})
	return out, nil
}

// MarkItemAccepted marca la línea como aceptada con el asiento generado.
func (r *SalesOrderRepo) MarkItemAccepted(_ context.Context, itemID, postingID string, at time.Time) error {
	return r.db.write(func(st *state) error {
		if _, ok := st.items[itemID]; !ok {
			return fmt.Errorf("línea %s: %w", itemID, domain.ErrNotFound)
		}
		return nil
	}, func(st *state) {
		o := copyOrder(st.orders[st.items[itemID]])
		for i := range o.Items {
			if o.Items[i].ID == itemID {
				accepted := at
				o.Items[i].Status = entity.OrderItemStatusAccepted
				o.Items[i].PostingID = strings.Clone(postingID)
				o.Items[i].AcceptedAt = &accepted
			}
		}
		o.UpdatedAt = at
		st.orders[o.ID] = o
	})
}

func copyOrder(o entity.SalesOrder) entity.SalesOrder {
	items := make([]entity.SalesOrderItem, len(o.Items))
	copy(items, o.Items)
	for i := range items {
		own(&items[i].ID, &items[i].OrderID, &items[i].MaterialID, &items[i].PostingID)
	}
	own(&o.ID, &o.Number, &o.PartnerID, &o.Currency)
	o.Items = items
	return o
}
