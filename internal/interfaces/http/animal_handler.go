package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Ganaderia-api/internal/application/administration"
	"github.com/jhoicas/Ganaderia-api/internal/application/dto"
	"github.com/jhoicas/Ganaderia-api/internal/application/usecase"
)

// AnimalHandler maneja animales, sus administraciones y su estado de retiro (protegido).
type AnimalHandler struct {
	animals    *usecase.AnimalUseCase
	withdrawal *administration.UseCase
}

// NewAnimalHandler construye el handler.
func NewAnimalHandler(animals *usecase.AnimalUseCase, withdrawal *administration.UseCase) *AnimalHandler {
	return &AnimalHandler{animals: animals, withdrawal: withdrawal}
}

// Create godoc
// @Summary      Registrar animal
// @Description  farm_id vacío toma la finca del token.
// @Tags         animals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAnimalRequest  true  "Arete, especie, raza y finca"
// @Success      201   {object}  dto.AnimalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/animals [post]
func (h *AnimalHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAnimalRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.FarmID == "" {
		in.FarmID = farmScope(c)
	}
	if !canAccessFarm(c, in.FarmID) {
		return forbiddenFarm(c)
	}
	out, err := h.animals.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener animal
// @Tags         animals
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del animal"
// @Success      200  {object}  dto.AnimalResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/animals/{id} [get]
func (h *AnimalHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.animals.GetByID(c.Context(), farmScope(c), c.Params("id"))
	if err != nil {
		return writeError(c, err, "animal no encontrado")
	}
	return c.JSON(out)
}

// RecordAdministration godoc
// @Summary      Registrar administración de fármaco
// @Description  Copia los días de retiro del fármaco al evento (o usa los enviados) y, si se indica batch_id,
// @Description  descuenta la dosis del lote en la misma transacción. El evento es inmutable.
// @Tags         withdrawals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del animal"
// @Param        body  body  dto.RecordAdministrationRequest  true  "Fármaco, fecha, dosis, vía, motivo"
// @Success      201   {object}  dto.AdministrationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/animals/{id}/administrations [post]
func (h *AnimalHandler) RecordAdministration(c *fiber.Ctx) error {
	var in dto.RecordAdministrationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.withdrawal.RecordAdministration(c.Context(), farmScope(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// History godoc
// @Summary      Historial de administraciones del animal
// @Tags         withdrawals
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del animal"
// @Success      200  {object}  dto.AdministrationHistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/animals/{id}/administrations [get]
func (h *AnimalHandler) History(c *fiber.Ctx) error {
	out, err := h.withdrawal.History(c.Context(), farmScope(c), c.Params("id"))
	if err != nil {
		return writeError(c, err, "animal no encontrado")
	}
	return c.JSON(out)
}

// Withdrawals godoc
// @Summary      Estado de retiro del animal
// @Description  Restricciones activas (carne / leche) en el instante at; sin at se usa el reloj del servidor.
// @Tags         withdrawals
// @Security     Bearer
// @Produce      json
// @Param        id   path   string  true   "ID del animal"
// @Param        at   query  string  false  "Instante de evaluación (RFC3339)"
// @Success      200  {object}  dto.WithdrawalStatusResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/animals/{id}/withdrawals [get]
func (h *AnimalHandler) Withdrawals(c *fiber.Ctx) error {
	at, err := parseAt(c)
	if err != nil {
		return badTime(c, "at")
	}
	out, err := h.withdrawal.GetWithdrawalStatus(c.Context(), farmScope(c), c.Params("id"), at)
	if err != nil {
		return writeError(c, err, "animal no encontrado")
	}
	return c.JSON(out)
}
