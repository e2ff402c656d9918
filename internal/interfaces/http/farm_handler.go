package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Ganaderia-api/internal/application/administration"
	"github.com/jhoicas/Ganaderia-api/internal/application/dto"
	"github.com/jhoicas/Ganaderia-api/internal/application/inventory"
	"github.com/jhoicas/Ganaderia-api/internal/application/usecase"
)

// FarmHandler maneja fincas y sus listados (animales, lotes, animales en retiro).
type FarmHandler struct {
	farms      *usecase.FarmUseCase
	animals    *usecase.AnimalUseCase
	batches    *inventory.BatchUseCase
	withdrawal *administration.UseCase
}

// NewFarmHandler construye el handler.
func NewFarmHandler(farms *usecase.FarmUseCase, animals *usecase.AnimalUseCase, batches *inventory.BatchUseCase, withdrawal *administration.UseCase) *FarmHandler {
	return &FarmHandler{farms: farms, animals: animals, batches: batches, withdrawal: withdrawal}
}

// Create godoc
// @Summary      Crear finca
// @Tags         farms
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateFarmRequest  true  "Datos de la finca"
// @Success      201   {object}  dto.FarmResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/farms [post]
func (h *FarmHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateFarmRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.farms.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar fincas
// @Tags         farms
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.FarmListResponse
// @Router       /api/farms [get]
func (h *FarmHandler) List(c *fiber.Ctx) error {
	out, err := h.farms.List(c.Context(), pageFromQuery(c))
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener finca
// @Tags         farms
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la finca"
// @Success      200  {object}  dto.FarmResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/farms/{id} [get]
func (h *FarmHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.farms.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err, "finca no encontrada")
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar finca
// @Tags         farms
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la finca"
// @Param        body  body  dto.UpdateFarmRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.FarmResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/farms/{id} [put]
func (h *FarmHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateFarmRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.farms.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err, "finca no encontrada")
	}
	return c.JSON(out)
}

// RecordViolation godoc
// @Summary      Registrar infracción sanitaria
// @Description  Cada infracción descuenta puntos del cumplimiento de la finca.
// @Tags         farms
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la finca"
// @Param        body  body  dto.RecordViolationRequest  true  "Motivo"
// @Success      201   {object}  dto.FarmResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/farms/{id}/violations [post]
func (h *FarmHandler) RecordViolation(c *fiber.Ctx) error {
	var in dto.RecordViolationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.farms.RecordViolation(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err, "finca no encontrada")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListAnimals godoc
// @Summary      Animales de la finca
// @Tags         farms
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la finca"
// @Success      200  {object}  dto.AnimalListResponse
// @Router       /api/farms/{id}/animals [get]
func (h *FarmHandler) ListAnimals(c *fiber.Ctx) error {
	out, err := h.animals.ListByFarm(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}

// ListBatches godoc
// @Summary      Lotes del botiquín con su estado
// @Tags         farms
// @Security     Bearer
// @Produce      json
// @Param        id   path   string  true   "ID de la finca"
// @Param        at   query  string  false  "Instante de evaluación (RFC3339)"
// @Success      200  {object}  dto.BatchListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/farms/{id}/batches [get]
func (h *FarmHandler) ListBatches(c *fiber.Ctx) error {
	at, err := parseAt(c)
	if err != nil {
		return badTime(c, "at")
	}
	out, err := h.batches.ListByFarm(c.Context(), c.Params("id"), at)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}

// RestrictedAnimals godoc
// @Summary      Animales en periodo de retiro
// @Tags         farms
// @Security     Bearer
// @Produce      json
// @Param        id   path   string  true   "ID de la finca"
// @Param        at   query  string  false  "Instante de evaluación (RFC3339)"
// @Success      200  {object}  dto.RestrictedAnimalsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/farms/{id}/restricted-animals [get]
func (h *FarmHandler) RestrictedAnimals(c *fiber.Ctx) error {
	at, err := parseAt(c)
	if err != nil {
		return badTime(c, "at")
	}
	out, err := h.withdrawal.RestrictedAnimals(c.Context(), c.Params("id"), at)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}
