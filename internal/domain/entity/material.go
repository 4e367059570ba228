package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material representa un material del catálogo.
// Si Composite es true se produce a partir de su lista de materiales; si no, es un ítem de stock (atómico).
// StockQuantity lo mantiene el sistema de inventario externo; aquí solo se lee.
type Material struct {
	ID            string
	Code          string // código único del catálogo
	Name          string
	Composite     bool
	StockQuantity decimal.Decimal
	UnitMeasure   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsAtomic indica si el material es en sí mismo la unidad de stock.
func (m *Material) IsAtomic() bool {
	return !m.Composite
}
