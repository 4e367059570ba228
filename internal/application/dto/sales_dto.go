package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePartnerRequest body para POST /api/partners; abre también la cuenta del tercero.
type CreatePartnerRequest struct {
	Name     string `json:"name"`
	TaxID    string `json:"tax_id"`
	Email    string `json:"email,omitempty"`
	Currency string `json:"currency"`
}

// PartnerResponse tercero y su cuenta.
type PartnerResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	TaxID     string          `json:"tax_id"`
	Email     string          `json:"email,omitempty"`
	AccountID string          `json:"account_id"`
	Account   AccountResponse `json:"account"`
}

// SalesOrderItemRequest línea del pedido.
type SalesOrderItemRequest struct {
	MaterialID string          `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// CreateSalesOrderRequest body para POST /api/sales-orders.
type CreateSalesOrderRequest struct {
	Number    string                  `json:"number"`
	PartnerID string                  `json:"partner_id"`
	Currency  string                  `json:"currency"`
	Items     []SalesOrderItemRequest `json:"items"`
}

// SalesOrderItemResponse línea en respuestas.
type SalesOrderItemResponse struct {
	ID         string          `json:"id"`
	MaterialID string          `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	PostingID  string          `json:"posting_id,omitempty"`
	AcceptedAt *time.Time      `json:"accepted_at,omitempty"`
}

// SalesOrderResponse pedido en respuestas.
type SalesOrderResponse struct {
	ID        string                   `json:"id"`
	Number    string                   `json:"number"`
	PartnerID string                   `json:"partner_id"`
	Currency  string                   `json:"currency"`
	Items     []SalesOrderItemResponse `json:"items"`
	CreatedAt time.Time                `json:"created_at"`
}

// AcceptItemResponse resultado de aceptar una línea.
type AcceptItemResponse struct {
	OrderID   string           `json:"order_id"`
	ItemID    string           `json:"item_id"`
	Accepted  bool             `json:"accepted"`
	Shortages []ShortageDTO    `json:"shortages,omitempty"`
	Posting   *PostingResponse `json:"posting,omitempty"`
	Balance   *decimal.Decimal `json:"balance,omitempty"`
}
