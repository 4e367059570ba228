package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de asiento.
const (
	PostingTypeReceipt   = "RECEIPT"   // ingreso: suma al saldo
	PostingTypeDisbursal = "DISBURSAL" // egreso: resta del saldo
)

// Posting movimiento inmutable sobre una cuenta. Las correcciones se hacen con asientos compensatorios.
type Posting struct {
	ID             string
	AccountID      string
	Sequence       int64 // orden de inserción dentro de la cuenta
	Type           string
	Date           time.Time
	CounterpartyID string
	Amount         decimal.Decimal // estrictamente positivo
	Currency       string
	Reference      string // opcional: número de pedido, recibo, etc.
	CreatedBy      string
	CreatedAt      time.Time
}

// SignedAmount devuelve el monto con signo según el tipo (RECEIPT +, DISBURSAL -).
func (p *Posting) SignedAmount() decimal.Decimal {
	if p.Type == PostingTypeDisbursal {
		return p.Amount.Neg()
	}
	return p.Amount
}
