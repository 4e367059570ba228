package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/application/inventory"
	"github.com/jhoicas/erp-core/internal/application/ledger"
	"github.com/jhoicas/erp-core/internal/application/sales"
)

// SalesHandler maneja terceros, pedidos y la aceptación de líneas.
type SalesHandler struct {
	partners    *sales.PartnerUseCase
	orders      *sales.OrderUseCase
	coordinator *sales.OrderCoordinator
}

// NewSalesHandler construye el handler.
func NewSalesHandler(partners *sales.PartnerUseCase, orders *sales.OrderUseCase, coordinator *sales.OrderCoordinator) *SalesHandler {
	return &SalesHandler{partners: partners, orders: orders, coordinator: coordinator}
}

// CreatePartner godoc
// @Summary      Crear tercero
// @Description  Crea el tercero y abre su cuenta en la moneda indicada.
// @Tags         partners
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreatePartnerRequest  true  "name, tax_id, currency"
// @Success      201   {object}  dto.PartnerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/partners [post]
func (h *SalesHandler) CreatePartner(c *fiber.Ctx) error {
	var in dto.CreatePartnerRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.partners.CreatePartner(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetPartner godoc
// @Summary      Obtener tercero
// @Tags         partners
// @Produce      json
// @Param        id   path      string  true  "ID del tercero"
// @Success      200  {object}  dto.PartnerResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/partners/{id} [get]
func (h *SalesHandler) GetPartner(c *fiber.Ctx) error {
	out, err := h.partners.GetPartner(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateOrder godoc
// @Summary      Crear pedido de venta
// @Description  Las líneas quedan en estado PENDING hasta su aceptación.
// @Tags         sales-orders
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateSalesOrderRequest  true  "number, partner_id, currency, items"
// @Success      201   {object}  dto.SalesOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales-orders [post]
func (h *SalesHandler) CreateOrder(c *fiber.Ctx) error {
	var in dto.CreateSalesOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.orders.CreateOrder(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetOrder godoc
// @Summary      Obtener pedido de venta
// @Tags         sales-orders
// @Produce      json
// @Param        id   path      string  true  "ID del pedido"
// @Success      200  {object}  dto.SalesOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id} [get]
func (h *SalesHandler) GetOrder(c *fiber.Ctx) error {
	out, err := h.orders.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AcceptItem godoc
// @Summary      Aceptar línea de pedido
// @Description  Verifica inventario; si alcanza marca la línea como aceptada y registra el ingreso
//
//	en la cuenta del tercero. Con faltantes responde 409 y no modifica nada.
//
// @Tags         sales-orders
// @Produce      json
// @Param        id         path      string  true   "ID del pedido"
// @Param        itemId     path      string  true   "ID de la línea"
// @Param        X-User-ID  header    string  false  "Usuario que acepta"
// @Success      200        {object}  dto.AcceptItemResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Failure      409        {object}  dto.AcceptItemResponse
// @Failure      422        {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id}/items/{itemId}/accept [post]
func (h *SalesHandler) AcceptItem(c *fiber.Ctx) error {
	d, err := h.coordinator.AcceptOrderItem(c.Context(), sales.AcceptItemInput{
		OrderID: c.Params("id"),
		ItemID:  c.Params("itemId"),
		UserID:  GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	resp := dto.AcceptItemResponse{OrderID: d.OrderID, ItemID: d.ItemID, Accepted: d.Accepted}
	if !d.Accepted {
		resp.Shortages = inventory.ToShortageDTOs(d.Shortages)
		return c.Status(fiber.StatusConflict).JSON(resp)
	}
	if d.Posting != nil {
		p := ledger.ToPostingResponse(d.Posting)
		resp.Posting = &p
	}
	balance := d.Balance
	resp.Balance = &balance
	return c.JSON(resp)
}
