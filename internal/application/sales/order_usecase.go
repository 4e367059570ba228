package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/domain"
	"github.com/jhoicas/erp-core/internal/domain/entity"
	domainledger "github.com/jhoicas/erp-core/internal/domain/ledger"
	"github.com/jhoicas/erp-core/internal/domain/repository"
	"github.com/jhoicas/erp-core/internal/domain/validation"
)

// OrderUseCase alta y consulta de pedidos de venta.
type OrderUseCase struct {
	orders    repository.SalesOrderRepository
	partners  repository.PartnerRepository
	accounts  repository.AccountRepository
	materials repository.MaterialRepository
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	orders repository.SalesOrderRepository,
	partners repository.PartnerRepository,
	accounts repository.AccountRepository,
	materials repository.MaterialRepository,
) *OrderUseCase {
	return &OrderUseCase{orders: orders, partners: partners, accounts: accounts, materials: materials}
}

// CreateOrder crea el pedido con todas sus líneas en estado PENDING.
// La moneda del pedido debe ser la de la cuenta del tercero.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, in dto.CreateSalesOrderRequest) (*dto.SalesOrderResponse, error) {
	now := time.Now()
	o := &entity.SalesOrder{
		ID:        uuid.New().String(),
		Number:    in.Number,
		PartnerID: in.PartnerID,
		Currency:  in.Currency,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, it := range in.Items {
		o.Items = append(o.Items, entity.SalesOrderItem{
			ID:         uuid.New().String(),
			OrderID:    o.ID,
			MaterialID: it.MaterialID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			Status:     entity.OrderItemStatusPending,
		})
	}
	if err := validation.SalesOrder(o); err != nil {
		return nil, err
	}
	if err := validateItemAmounts(o); err != nil {
		return nil, err
	}

	partner, err := uc.partners.GetByID(ctx, o.PartnerID)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, fmt.Errorf("tercero %s: %w", o.PartnerID, domain.ErrNotFound)
	}
	account, err := uc.accounts.GetByID(ctx, partner.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("cuenta %s: %w", partner.AccountID, domain.ErrNotFound)
	}
	if account.Currency != o.Currency {
		var v validation.Violations
		v.Add("currency", "account_currency",
			fmt.Sprintf("la moneda %q no coincide con la de la cuenta del tercero %q", o.Currency, account.Currency))
		return nil, v.Err("pedido de venta")
	}
	for _, it := range o.Items {
		m, err := uc.materials.GetByID(ctx, it.MaterialID)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, fmt.Errorf("material %s: %w", it.MaterialID, domain.ErrNotFound)
		}
	}

	if err := uc.orders.Create(ctx, o); err != nil {
		return nil, err
	}
	return ToSalesOrderResponse(o), nil
}

// validateItemAmounts el importe de cada línea debe poder registrarse como asiento
// al aceptarla: al menos la unidad mínima de la moneda y sin decimales de más.
func validateItemAmounts(o *entity.SalesOrder) error {
	scale, err := domainledger.Scale(o.Currency)
	if err != nil {
		return err
	}
	min := decimal.New(1, -scale)
	var v validation.Violations
	for i := range o.Items {
		amount := o.Items[i].Amount()
		field := fmt.Sprintf("items[%d].amount", i)
		v.Check(field, validation.DecimalMin(amount, min))
		if !amount.Round(scale).Equal(amount) {
			v.Add(field, "granularity", fmt.Sprintf("no admite más de %d decimales en %s", scale, o.Currency))
		}
	}
	return v.Err("pedido de venta")
}

// GetOrder devuelve el pedido con sus líneas.
func (uc *OrderUseCase) GetOrder(ctx context.Context, id string) (*dto.SalesOrderResponse, error) {
	o, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return ToSalesOrderResponse(o), nil
}

// ToSalesOrderResponse convierte el pedido a DTO.
func ToSalesOrderResponse(o *entity.SalesOrder) *dto.SalesOrderResponse {
	resp := &dto.SalesOrderResponse{
		ID:        o.ID,
		Number:    o.Number,
		PartnerID: o.PartnerID,
		Currency:  o.Currency,
		Items:     make([]dto.SalesOrderItemResponse, 0, len(o.Items)),
		CreatedAt: o.CreatedAt,
	}
	for i := range o.Items {
		it := &o.Items[i]
		resp.Items = append(resp.Items, dto.SalesOrderItemResponse{
			ID:         it.ID,
			MaterialID: it.MaterialID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			Amount:     it.Amount(),
			Status:     it.Status,
			PostingID:  it.PostingID,
			AcceptedAt: it.AcceptedAt,
		})
	}
	return resp
}
