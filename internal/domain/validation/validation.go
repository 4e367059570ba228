// Package validation reemplaza las anotaciones de validación de campos por funciones explícitas
// por entidad. Cada validador devuelve la lista completa de violaciones (campo, restricción, mensaje)
// compuesta a partir de predicados pequeños y reutilizables.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/jhoicas/erp-core/internal/domain"
)

// Violations acumulador de violaciones.
type Violations []domain.FieldViolation

// Add agrega una violación.
func (v *Violations) Add(field, constraint, msg string) {
	*v = append(*v, domain.FieldViolation{Field: field, Constraint: constraint, Message: msg})
}

// Check evalúa un predicado y agrega su violación si falla.
func (v *Violations) Check(field string, rules ...Rule) {
	for _, r := range rules {
		if c, msg, ok := r(); !ok {
			v.Add(field, c, msg)
		}
	}
}

// Err devuelve *domain.ValidationError si hay violaciones, o nil.
func (v Violations) Err(entity string) error {
	if len(v) == 0 {
		return nil
	}
	return &domain.ValidationError{Entity: entity, Violations: v}
}

// Rule predicado: devuelve (restricción, mensaje, ok).
type Rule func() (string, string, bool)

// NotBlank el texto no puede estar vacío ni ser solo espacios.
func NotBlank(s string) Rule {
	return func() (string, string, bool) {
		return "not_blank", "es obligatorio", strings.TrimSpace(s) != ""
	}
}

// Length longitud (en runas) entre min y max inclusive.
func Length(s string, min, max int) Rule {
	return func() (string, string, bool) {
		n := utf8.RuneCountInString(s)
		return "length", fmt.Sprintf("debe tener entre %d y %d caracteres", min, max), n >= min && n <= max
	}
}

// MaxLength longitud máxima en runas.
func MaxLength(s string, max int) Rule {
	return func() (string, string, bool) {
		return "max_length", fmt.Sprintf("no debe superar %d caracteres", max), utf8.RuneCountInString(s) <= max
	}
}

// DecimalMin valor >= min.
func DecimalMin(d, min decimal.Decimal) Rule {
	return func() (string, string, bool) {
		return "min", "debe ser mayor o igual a " + min.String(), d.GreaterThanOrEqual(min)
	}
}

// Positive valor > 0.
func Positive(d decimal.Decimal) Rule {
	return func() (string, string, bool) {
		return "positive", "debe ser mayor que cero", d.IsPositive()
	}
}

// Integer el decimal no tiene parte fraccionaria.
func Integer(d decimal.Decimal) Rule {
	return func() (string, string, bool) {
		return "integer", "debe ser un número entero", d.IsInteger()
	}
}

// OneOf el valor pertenece al conjunto permitido.
func OneOf(s string, allowed ...string) Rule {
	return func() (string, string, bool) {
		for _, a := range allowed {
			if s == a {
				return "one_of", "", true
			}
		}
		return "one_of", "debe ser uno de: " + strings.Join(allowed, ", "), false
	}
}

// CurrencyCode código ISO 4217 reconocido.
func CurrencyCode(s string) Rule {
	return func() (string, string, bool) {
		_, err := currency.ParseISO(s)
		return "currency", "debe ser un código de moneda ISO 4217", err == nil && len(s) == 3
	}
}

// IdentifierMismatch verifica que dos registros enlazados compartan el identificador.
// Se evalúa en el límite donde ambas entidades están disponibles.
func IdentifierMismatch(entity, field, left, right string) error {
	if left == right {
		return nil
	}
	return &domain.IdentifierMismatchError{Entity: entity, Field: field, Left: left, Right: right}
}
