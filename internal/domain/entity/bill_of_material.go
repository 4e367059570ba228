package entity

import "github.com/shopspring/decimal"

// BillOfMaterial lista de materiales de un material compuesto (un solo nivel).
// Debe tener al menos un ítem; el orden de Items no es relevante.
type BillOfMaterial struct {
	ID         string
	MaterialID string // material compuesto dueño de la lista
	Items      []BillOfMaterialItem
}

// BillOfMaterialItem componente y cantidad por unidad producida.
// (BillOfMaterialID, ItemID) es único dentro de la lista.
type BillOfMaterialItem struct {
	BillOfMaterialID string
	ItemID           int
	ComponentID      string
	Quantity         decimal.Decimal // entero >= 1
}
