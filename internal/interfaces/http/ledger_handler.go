package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/application/ledger"
)

// LedgerHandler maneja cuentas y asientos.
type LedgerHandler struct {
	service    *ledger.Service
	statements *ledger.StatementUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(service *ledger.Service, statements *ledger.StatementUseCase) *LedgerHandler {
	return &LedgerHandler{service: service, statements: statements}
}

// GetAccount godoc
// @Summary      Obtener cuenta
// @Tags         accounts
// @Produce      json
// @Param        id   path      string  true  "ID de la cuenta"
// @Success      200  {object}  dto.AccountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/accounts/{id} [get]
func (h *LedgerHandler) GetAccount(c *fiber.Ctx) error {
	out, err := h.service.GetAccount(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListPostings godoc
// @Summary      Listar asientos de una cuenta
// @Tags         accounts
// @Produce      json
// @Param        id   path      string  true  "ID de la cuenta"
// @Success      200  {object}  dto.PostingListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/accounts/{id}/postings [get]
func (h *LedgerHandler) ListPostings(c *fiber.Ctx) error {
	out, err := h.service.ListPostings(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AppendPosting godoc
// @Summary      Registrar asiento manual
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        id         path      string                     true   "ID de la cuenta"
// @Param        X-User-ID  header    string                     false  "Usuario que registra"
// @Param        body       body      dto.AppendPostingRequest   true   "type (RECEIPT|DISBURSAL), amount, currency"
// @Success      201        {object}  dto.PostingResultResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/accounts/{id}/postings [post]
func (h *LedgerHandler) AppendPosting(c *fiber.Ctx) error {
	var in dto.AppendPostingRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.service.AppendPosting(c.Context(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RemovePosting godoc
// @Summary      Eliminar asiento
// @Description  Corrección administrativa: el saldo se recalcula desde los asientos restantes.
// @Tags         accounts
// @Produce      json
// @Param        id         path      string  true   "ID de la cuenta"
// @Param        postingId  path      string  true   "ID del asiento"
// @Param        X-User-ID  header    string  false  "Usuario que elimina"
// @Success      200        {object}  dto.PostingResultResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/accounts/{id}/postings/{postingId} [delete]
func (h *LedgerHandler) RemovePosting(c *fiber.Ctx) error {
	out, err := h.service.RemovePosting(c.Context(), c.Params("id"), c.Params("postingId"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Verify godoc
// @Summary      Verificar saldo de una cuenta
// @Description  Compara el saldo almacenado con la suma de los asientos. No corrige.
// @Tags         accounts
// @Produce      json
// @Param        id   path      string  true  "ID de la cuenta"
// @Success      200  {object}  dto.BalanceCheckResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/accounts/{id}/verify [get]
func (h *LedgerHandler) Verify(c *fiber.Ctx) error {
	out, err := h.service.RecomputeBalance(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Statement godoc
// @Summary      Descargar extracto en PDF
// @Tags         accounts
// @Produce      application/pdf
// @Param        id   path      string  true  "ID de la cuenta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/accounts/{id}/statement [get]
func (h *LedgerHandler) Statement(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.statements.DownloadStatementPDF(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdfBytes)
}

// statementUnavailable responde cuando no hay generador de PDF configurado.
func statementUnavailable(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotImplemented).JSON(dto.ErrorResponse{Code: "NOT_IMPLEMENTED", Message: "extracto no disponible"})
}
