package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrBOMTooDeep   = errors.New("lista de materiales excede la profundidad máxima")
)

// CyclicBillOfMaterialError la lista de materiales se referencia a sí misma (directa o transitivamente).
// Path contiene el ciclo cerrado: el primer y el último elemento son el mismo material.
type CyclicBillOfMaterialError struct {
	Path []string
}

func (e *CyclicBillOfMaterialError) Error() string {
	return fmt.Sprintf("lista de materiales cíclica: %s", strings.Join(e.Path, " -> "))
}

// NoItemsError un material compuesto sin ítems en su lista de materiales.
type NoItemsError struct {
	MaterialID string
}

func (e *NoItemsError) Error() string {
	return fmt.Sprintf("material compuesto %s sin ítems de lista de materiales", e.MaterialID)
}

// Shortage faltante de un material atómico para una línea de pedido.
type Shortage struct {
	ItemRef           string          // línea de pedido que originó la verificación
	OrderedMaterialID string          // material solicitado en la línea (puede ser compuesto)
	MaterialID        string          // material atómico con faltante
	RequestedQuantity decimal.Decimal // unidades solicitadas del material de la línea
	RequiredQuantity  decimal.Decimal // unidades requeridas del material atómico
	AvailableQuantity decimal.Decimal
}

// Missing devuelve la cantidad que falta para cubrir el requerimiento.
func (s Shortage) Missing() decimal.Decimal {
	return s.RequiredQuantity.Sub(s.AvailableQuantity)
}

// QuantityExceedsInventoryError una o más líneas no pueden cubrirse con el inventario disponible.
type QuantityExceedsInventoryError struct {
	Shortages []Shortage
}

func (e *QuantityExceedsInventoryError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s/%s requerido=%s disponible=%s",
			s.ItemRef, s.MaterialID, s.RequiredQuantity.String(), s.AvailableQuantity.String()))
	}
	return "cantidad excede el inventario: " + strings.Join(parts, "; ")
}

// FieldViolation violación de una restricción sobre un campo.
type FieldViolation struct {
	Field      string
	Constraint string
	Message    string
}

func (v FieldViolation) String() string {
	return fmt.Sprintf("%s (%s): %s", v.Field, v.Constraint, v.Message)
}

func joinViolations(vs []FieldViolation) string {
	parts := make([]string, 0, len(vs))
	for _, v := range vs {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, "; ")
}

// InvalidPostingError el asiento no pasa validación; la cuenta queda sin cambios.
type InvalidPostingError struct {
	AccountID  string
	Violations []FieldViolation
}

func (e *InvalidPostingError) Error() string {
	return fmt.Sprintf("asiento inválido para la cuenta %s: %s", e.AccountID, joinViolations(e.Violations))
}

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (e *InvalidPostingError) Unwrap() error { return ErrInvalidInput }

// ValidationError validación de una entidad con la lista completa de violaciones.
type ValidationError struct {
	Entity     string
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s inválido: %s", e.Entity, joinViolations(e.Violations))
}

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// IdentifierMismatchError dos registros enlazados no comparten el mismo identificador.
type IdentifierMismatchError struct {
	Entity string
	Field  string
	Left   string
	Right  string
}

func (e *IdentifierMismatchError) Error() string {
	return fmt.Sprintf("identificador inconsistente en %s.%s: %q != %q", e.Entity, e.Field, e.Left, e.Right)
}

// BalanceMismatchError el saldo almacenado no coincide con la suma de los asientos.
type BalanceMismatchError struct {
	AccountID string
	Cached    decimal.Decimal
	Derived   decimal.Decimal
}

func (e *BalanceMismatchError) Error() string {
	return fmt.Sprintf("saldo inconsistente en la cuenta %s: almacenado=%s derivado=%s",
		e.AccountID, e.Cached.StringFixed(2), e.Derived.StringFixed(2))
}
