package dto

import "github.com/shopspring/decimal"

// CreateMaterialRequest body para POST /api/materials.
type CreateMaterialRequest struct {
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Composite     bool            `json:"composite"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	UnitMeasure   string          `json:"unit_measure,omitempty"`
}

// MaterialResponse material en respuestas.
type MaterialResponse struct {
	ID             string                  `json:"id"`
	Code           string                  `json:"code"`
	Name           string                  `json:"name"`
	Composite      bool                    `json:"composite"`
	StockQuantity  decimal.Decimal         `json:"stock_quantity"`
	UnitMeasure    string                  `json:"unit_measure,omitempty"`
	BillOfMaterial []BillOfMaterialItemDTO `json:"bill_of_material,omitempty"`
}

// BillOfMaterialItemDTO ítem de una lista de materiales.
type BillOfMaterialItemDTO struct {
	ItemID      int             `json:"item_id"`
	ComponentID string          `json:"component_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// SetBillOfMaterialRequest body para PUT /api/materials/:id/bom.
type SetBillOfMaterialRequest struct {
	Items []BillOfMaterialItemDTO `json:"items"`
}

// SetStockRequest body para PUT /api/materials/:id/stock.
type SetStockRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// RequirementDTO cantidad requerida de un material atómico.
type RequirementDTO struct {
	MaterialID string          `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// RequirementsResponse resultado de resolver la lista de materiales.
type RequirementsResponse struct {
	MaterialID   string           `json:"material_id"`
	Quantity     decimal.Decimal  `json:"quantity"`
	Requirements []RequirementDTO `json:"requirements"`
}

// AvailabilityLineRequest línea a verificar.
type AvailabilityLineRequest struct {
	ItemRef    string          `json:"item_ref"`
	MaterialID string          `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// AvailabilityRequest body para POST /api/inventory/availability.
type AvailabilityRequest struct {
	Lines []AvailabilityLineRequest `json:"lines"`
}

// ShortageDTO faltante de un material atómico.
type ShortageDTO struct {
	ItemRef           string          `json:"item_ref"`
	OrderedMaterialID string          `json:"ordered_material_id"`
	MaterialID        string          `json:"material_id"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity"`
	RequiredQuantity  decimal.Decimal `json:"required_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
}

// AvailabilityResponse resultado de verificar una línea.
type AvailabilityResponse struct {
	ItemRef      string           `json:"item_ref,omitempty"`
	MaterialID   string           `json:"material_id"`
	Quantity     decimal.Decimal  `json:"quantity"`
	Available    bool             `json:"available"`
	Requirements []RequirementDTO `json:"requirements"`
	Shortages    []ShortageDTO    `json:"shortages"`
}

// OrderAvailabilityResponse resultado de verificar varias líneas.
type OrderAvailabilityResponse struct {
	Available bool                   `json:"available"`
	Lines     []AvailabilityResponse `json:"lines"`
}
