package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/jhoicas/erp-core/internal/domain"
)

// Scale número de decimales de la unidad mínima de la moneda (ISO 4217 / CLDR).
func Scale(code string) (int32, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return 0, fmt.Errorf("moneda %q: %w", code, domain.ErrInvalidInput)
	}
	scale, _ := currency.Standard.Rounding(unit)
	return int32(scale), nil
}

// MinimumAmount unidad mínima de la moneda (0.01 para USD/COP, 1 para JPY).
func MinimumAmount(code string) (decimal.Decimal, error) {
	scale, err := Scale(code)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.New(1, -scale), nil
}
