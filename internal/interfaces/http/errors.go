package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-core/internal/application/dto"
	"github.com/jhoicas/erp-core/internal/domain"
)

// writeError traduce errores de dominio a la respuesta HTTP correspondiente.
// Los tipos concretos se evalúan antes que los sentinelas que envuelven.
func writeError(c *fiber.Ctx, err error) error {
	var (
		cyc      *domain.CyclicBillOfMaterialError
		noItems  *domain.NoItemsError
		posting  *domain.InvalidPostingError
		invalid  *domain.ValidationError
		mismatch *domain.IdentifierMismatchError
		exceeds  *domain.QuantityExceedsInventoryError
		balance  *domain.BalanceMismatchError
	)
	switch {
	case errors.As(err, &cyc):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "CYCLIC_BOM", Message: err.Error(), Details: cyc.Path})
	case errors.As(err, &noItems):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "NO_ITEMS", Message: err.Error()})
	case errors.Is(err, domain.ErrBOMTooDeep):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "BOM_TOO_DEEP", Message: err.Error()})
	case errors.As(err, &posting):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_POSTING", Message: err.Error(), Details: violations(posting.Violations)})
	case errors.As(err, &invalid):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error(), Details: violations(invalid.Violations)})
	case errors.As(err, &mismatch):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "IDENTIFIER_MISMATCH", Message: err.Error()})
	case errors.As(err, &exceeds):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.As(err, &balance):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "BALANCE_MISMATCH", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "TIMEOUT", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func violations(vs []domain.FieldViolation) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.String())
	}
	return out
}
