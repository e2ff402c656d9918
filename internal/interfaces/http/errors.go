package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Ganaderia-api/internal/application/dto"
	"github.com/jhoicas/Ganaderia-api/internal/domain"
)

// writeError traduce errores de dominio a HTTP. notFound personaliza el mensaje 404.
//
//	ErrInvalidInput            → 400 VALIDATION (con detalle por campo)
//	ErrInvalidEvent            → 422 INVALID_EVENT
//	ErrUnknownReference        → 422 UNKNOWN_REFERENCE (404 en consultas GET)
//	ErrNotFound                → 404 NOT_FOUND
//	ErrForbidden               → 403 FORBIDDEN
//	ErrDuplicate               → 409 DUPLICATE
//	ErrInsufficientStock       → 409 INSUFFICIENT_STOCK
//	ErrConflict                → 409 CONFLICT
//	ErrConfiguration y el resto → 500
func writeError(c *fiber.Ctx, err error, notFound string) error {
	var verr *dto.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Fields: verr.Fields})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidEvent):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INVALID_EVENT", Message: err.Error()})
	case errors.Is(err, domain.ErrUnknownReference):
		status := fiber.StatusUnprocessableEntity
		if c.Method() == fiber.MethodGet {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(dto.ErrorResponse{Code: "UNKNOWN_REFERENCE", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		if notFound == "" {
			notFound = "recurso no encontrado"
		}
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: notFound})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el recurso ya existe"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrConfiguration):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "CONFIGURATION", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func forbiddenFarm(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "la finca no corresponde al usuario"})
}
