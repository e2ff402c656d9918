package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Ganaderia-api/internal/application/dto"
	"github.com/jhoicas/Ganaderia-api/internal/application/inventory"
)

// BatchHandler maneja lotes del botiquín y sus movimientos (protegido).
type BatchHandler struct {
	batches   *inventory.BatchUseCase
	movements *inventory.RegisterMovementUseCase
}

// NewBatchHandler construye el handler.
func NewBatchHandler(batches *inventory.BatchUseCase, movements *inventory.RegisterMovementUseCase) *BatchHandler {
	return &BatchHandler{batches: batches, movements: movements}
}

// Intake godoc
// @Summary      Ingresar lote al botiquín
// @Description  Crea el lote y su movimiento IN. low_stock_threshold vacío toma el valor por defecto.
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBatchRequest  true  "Finca, fármaco, número de lote, cantidad, vencimiento"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/batches [post]
func (h *BatchHandler) Intake(c *fiber.Ctx) error {
	var in dto.CreateBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.FarmID == "" {
		in.FarmID = farmScope(c)
	}
	if !canAccessFarm(c, in.FarmID) {
		return forbiddenFarm(c)
	}
	out, err := h.batches.Intake(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Status godoc
// @Summary      Estado del lote
// @Description  EXPIRED > OUT_OF_STOCK > EXPIRING_SOON > LOW_STOCK > IN_STOCK, evaluado en at.
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id   path   string  true   "ID del lote"
// @Param        at   query  string  false  "Instante de evaluación (RFC3339)"
// @Success      200  {object}  dto.BatchResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/status [get]
func (h *BatchHandler) Status(c *fiber.Ctx) error {
	at, err := parseAt(c)
	if err != nil {
		return badTime(c, "at")
	}
	out, err := h.batches.GetStockStatus(c.Context(), farmScope(c), c.Params("id"), at)
	if err != nil {
		return writeError(c, err, "lote no encontrado")
	}
	return c.JSON(out)
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de lote
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del lote"
// @Param        body  body  dto.RegisterBatchMovementRequest  true  "type (IN, OUT, ADJUSTMENT), quantity, reference"
// @Success      201   {object}  dto.BatchMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/movements [post]
func (h *BatchHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterBatchMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.movements.RegisterMovementFromRequest(c.Context(), farmScope(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err, "lote no encontrado")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Movimientos del lote
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del lote"
// @Param        from    query  string  false  "Desde (RFC3339)"
// @Param        to      query  string  false  "Hasta (RFC3339)"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.BatchMovementListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/movements [get]
func (h *BatchHandler) ListMovements(c *fiber.Ctx) error {
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return badTime(c, "from")
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return badTime(c, "to")
	}
	out, err := h.batches.ListMovements(c.Context(), farmScope(c), c.Params("id"), optional(from), optional(to), pageFromQuery(c))
	if err != nil {
		return writeError(c, err, "lote no encontrado")
	}
	return c.JSON(out)
}
