package validation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/domain/entity"
)

var one = decimal.NewFromInt(1)

// Material valida los campos del material.
func Material(m *entity.Material) error {
	var v Violations
	v.Check("code", NotBlank(m.Code), Length(m.Code, 1, 32))
	v.Check("name", NotBlank(m.Name), Length(m.Name, 1, 120))
	v.Check("unit_measure", MaxLength(m.UnitMeasure, 16))
	v.Check("stock_quantity", DecimalMin(m.StockQuantity, decimal.Zero), Integer(m.StockQuantity))
	return v.Err("material")
}

// BillOfMaterial valida la lista: al menos un ítem, ItemID único, cantidades enteras >= 1,
// sin referencia directa al propio material.
func BillOfMaterial(b *entity.BillOfMaterial) error {
	var v Violations
	v.Check("material_id", NotBlank(b.MaterialID))
	if len(b.Items) == 0 {
		v.Add("items", "not_empty", "la lista de materiales debe tener al menos un ítem")
	}
	seen := make(map[int]struct{}, len(b.Items))
	for i, it := range b.Items {
		field := fmt.Sprintf("items[%d]", i)
		if _, dup := seen[it.ItemID]; dup {
			v.Add(field+".item_id", "unique", fmt.Sprintf("item_id %d repetido en la lista", it.ItemID))
		}
		seen[it.ItemID] = struct{}{}
		v.Check(field+".component_id", NotBlank(it.ComponentID))
		if it.ComponentID == b.MaterialID && b.MaterialID != "" {
			v.Add(field+".component_id", "no_self_reference", "un material no puede ser componente de sí mismo")
		}
		v.Check(field+".quantity", DecimalMin(it.Quantity, one), Integer(it.Quantity))
	}
	return v.Err("lista de materiales")
}

// Account valida descripción y moneda.
func Account(a *entity.Account) error {
	var v Violations
	v.Check("description", NotBlank(a.Description), Length(a.Description, 1, 255))
	v.Check("currency", CurrencyCode(a.Currency))
	v.Check("partner_id", NotBlank(a.PartnerID))
	return v.Err("cuenta")
}

// BusinessPartner valida los datos del tercero.
func BusinessPartner(p *entity.BusinessPartner) error {
	var v Violations
	v.Check("name", NotBlank(p.Name), Length(p.Name, 1, 120))
	v.Check("tax_id", NotBlank(p.TaxID), Length(p.TaxID, 1, 32))
	v.Check("email", MaxLength(p.Email, 255))
	return v.Err("tercero")
}

// SalesOrder valida cabecera y líneas del pedido.
func SalesOrder(o *entity.SalesOrder) error {
	var v Violations
	v.Check("number", NotBlank(o.Number), Length(o.Number, 1, 32))
	v.Check("partner_id", NotBlank(o.PartnerID))
	v.Check("currency", CurrencyCode(o.Currency))
	if len(o.Items) == 0 {
		v.Add("items", "not_empty", "el pedido debe tener al menos una línea")
	}
	for i := range o.Items {
		it := &o.Items[i]
		field := fmt.Sprintf("items[%d]", i)
		v.Check(field+".material_id", NotBlank(it.MaterialID))
		v.Check(field+".quantity", DecimalMin(it.Quantity, one), Integer(it.Quantity))
		v.Check(field+".unit_price", DecimalMin(it.UnitPrice, decimal.Zero))
	}
	return v.Err("pedido de venta")
}
