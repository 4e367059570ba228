package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-core/internal/application/catalog"
	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/application/inventory"
)

// CatalogHandler maneja materiales, listas de materiales y stock.
type CatalogHandler struct {
	uc           *catalog.CatalogUseCase
	availability *inventory.AvailabilityUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.CatalogUseCase, availability *inventory.AvailabilityUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc, availability: availability}
}

// Create godoc
// @Summary      Crear material
// @Tags         materials
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateMaterialRequest  true  "code, name, composite, stock_quantity"
// @Success      201   {object}  dto.MaterialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/materials [post]
func (h *CatalogHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMaterialRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateMaterial(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener material
// @Tags         materials
// @Produce      json
// @Param        id   path      string  true  "ID del material"
// @Success      200  {object}  dto.MaterialResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/materials/{id} [get]
func (h *CatalogHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetMaterial(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetBillOfMaterial godoc
// @Summary      Reemplazar lista de materiales
// @Description  Rechaza componentes inexistentes y listas que cierren un ciclo.
// @Tags         materials
// @Accept       json
// @Produce      json
// @Param        id    path      string                        true  "ID del material compuesto"
// @Param        body  body      dto.SetBillOfMaterialRequest  true  "items"
// @Success      200   {object}  dto.MaterialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/materials/{id}/bom [put]
func (h *CatalogHandler) SetBillOfMaterial(c *fiber.Ctx) error {
	var in dto.SetBillOfMaterialRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.SetBillOfMaterial(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetStock godoc
// @Summary      Fijar stock de un material atómico
// @Tags         materials
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "ID del material"
// @Param        body  body      dto.SetStockRequest  true  "quantity"
// @Success      200   {object}  dto.MaterialResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/materials/{id}/stock [put]
func (h *CatalogHandler) SetStock(c *fiber.Ctx) error {
	var in dto.SetStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.SetStock(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Requirements godoc
// @Summary      Resolver lista de materiales
// @Description  Materiales atómicos requeridos para fabricar quantity unidades.
// @Tags         materials
// @Produce      json
// @Param        id        path      string  true   "ID del material"
// @Param        quantity  query     string  false  "Unidades (por defecto 1)"
// @Success      200       {object}  dto.RequirementsResponse
// @Failure      400       {object}  dto.ErrorResponse
// @Failure      404       {object}  dto.ErrorResponse
// @Failure      422       {object}  dto.ErrorResponse
// @Router       /api/materials/{id}/requirements [get]
func (h *CatalogHandler) Requirements(c *fiber.Ctx) error {
	qty, ok := queryQuantity(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity inválido"})
	}
	out, err := h.availability.Requirements(c.Context(), c.Params("id"), qty)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Availability godoc
// @Summary      Verificar disponibilidad de un material
// @Tags         materials
// @Produce      json
// @Param        id        path      string  true   "ID del material"
// @Param        quantity  query     string  false  "Unidades (por defecto 1)"
// @Success      200       {object}  dto.AvailabilityResponse
// @Failure      400       {object}  dto.ErrorResponse
// @Failure      404       {object}  dto.ErrorResponse
// @Failure      422       {object}  dto.ErrorResponse
// @Router       /api/materials/{id}/availability [get]
func (h *CatalogHandler) Availability(c *fiber.Ctx) error {
	qty, ok := queryQuantity(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity inválido"})
	}
	out, err := h.availability.CheckMaterial(c.Context(), c.Params("id"), qty)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func queryQuantity(c *fiber.Ctx) (decimal.Decimal, bool) {
	raw := c.Query("quantity", "1")
	q, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return q, true
}
