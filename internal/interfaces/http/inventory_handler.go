package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/application/inventory"
)

// InventoryHandler maneja la verificación de disponibilidad de varias líneas.
type InventoryHandler struct {
	uc *inventory.AvailabilityUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.AvailabilityUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// CheckAvailability godoc
// @Summary      Verificar disponibilidad de inventario
// @Description  Resuelve cada línea a materiales atómicos y compara con el stock. No reserva.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body      dto.AvailabilityRequest  true  "lines: item_ref, material_id, quantity"
// @Success      200   {object}  dto.OrderAvailabilityResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/availability [post]
func (h *InventoryHandler) CheckAvailability(c *fiber.Ctx) error {
	var in dto.AvailabilityRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CheckLines(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
