package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account cuenta de un tercero con saldo en una sola moneda.
// Balance es un valor cacheado: siempre debe coincidir con la suma de sus asientos
// y solo se modifica a través del agregado ledger.Ledger.
type Account struct {
	ID          string
	PartnerID   string // tercero dueño de la cuenta (enlace uno a uno)
	Description string
	Currency    string // ISO 4217, fija desde la creación
	Balance     decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// LastSequence mayor secuencia asignada en la cuenta; no baja al eliminar asientos.
	LastSequence int64
}
