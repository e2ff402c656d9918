package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Ganaderia-api/internal/application/dto"
	"github.com/jhoicas/Ganaderia-api/internal/application/usecase"
)

// DrugHandler maneja el catálogo de fármacos (protegido).
type DrugHandler struct {
	uc *usecase.DrugUseCase
}

// NewDrugHandler construye el handler.
func NewDrugHandler(uc *usecase.DrugUseCase) *DrugHandler {
	return &DrugHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar fármaco
// @Description  Los días de retiro se copian a cada administración; editarlos después no altera el historial.
// @Tags         drugs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDrugRequest  true  "Datos del fármaco"
// @Success      201   {object}  dto.DrugResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/drugs [post]
func (h *DrugHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDrugRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener fármaco por ID
// @Tags         drugs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del fármaco"
// @Success      200  {object}  dto.DrugResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/drugs/{id} [get]
func (h *DrugHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err, "fármaco no encontrado")
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar fármaco
// @Tags         drugs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del fármaco"
// @Param        body  body  dto.UpdateDrugRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.DrugResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/drugs/{id} [put]
func (h *DrugHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateDrugRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err, "fármaco no encontrado")
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar fármacos
// @Tags         drugs
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.DrugListResponse
// @Router       /api/drugs [get]
func (h *DrugHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), pageFromQuery(c))
	if err != nil {
		return writeError(c, err, "")
	}
	return c.JSON(out)
}
