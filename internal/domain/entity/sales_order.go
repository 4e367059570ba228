package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una línea de pedido de venta.
const (
	OrderItemStatusPending  = "PENDING"
	OrderItemStatusAccepted = "ACCEPTED"
)

// SalesOrder pedido de venta a un tercero.
type SalesOrder struct {
	ID        string
	Number    string
	PartnerID string
	Currency  string
	Items     []SalesOrderItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SalesOrderItem línea de pedido: material, cantidad solicitada y precio unitario.
type SalesOrderItem struct {
	ID         string
	OrderID    string
	MaterialID string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	Status     string
	PostingID  string // asiento generado al aceptar
	AcceptedAt *time.Time
}

// Amount devuelve cantidad * precio unitario.
func (i *SalesOrderItem) Amount() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}
