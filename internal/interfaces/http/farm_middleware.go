package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Ganaderia-api/internal/application/dto"
)

// RequireFarmScope exige finca en el token para los roles atados a una finca (ganadero, veterinario).
// Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 401 MISSING_ROLE → token sin rol.
//   - 401 UNAUTHORIZED → rol de finca sin farm_id en el token.
func RequireFarmScope() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		if !crossFarm(role) && GetFarmID(c) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "farm_id no encontrado en el token",
			})
		}
		return c.Next()
	}
}

// RequireFarmAccess verifica que la finca del parámetro de ruta sea la del token.
// Admin e inspector acceden a todas.
func RequireFarmAccess(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !canAccessFarm(c, c.Params(param)) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "la finca '" + c.Params(param) + "' no corresponde al usuario",
			})
		}
		return c.Next()
	}
}
