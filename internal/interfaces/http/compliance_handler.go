package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Ganaderia-api/internal/application/compliance"
)

// ComplianceHandler expone el puntaje de cumplimiento y su exportación (protegido).
type ComplianceHandler struct {
	uc *compliance.UseCase
}

// NewComplianceHandler construye el handler.
func NewComplianceHandler(uc *compliance.UseCase) *ComplianceHandler {
	return &ComplianceHandler{uc: uc}
}

// Get godoc
// @Summary      Cumplimiento sanitario de la finca
// @Description  Puntaje 0-100 con alertas, descuentos y restricciones activas. Mismo at y mismos datos
// @Description  producen el mismo resultado.
// @Tags         compliance
// @Security     Bearer
// @Produce      json
// @Param        id   path   string  true   "ID de la finca"
// @Param        at   query  string  false  "Instante de evaluación (RFC3339)"
// @Success      200  {object}  dto.ComplianceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/farms/{id}/compliance [get]
func (h *ComplianceHandler) Get(c *fiber.Ctx) error {
	at, err := parseAt(c)
	if err != nil {
		return badTime(c, "at")
	}
	out, err := h.uc.GetFarmCompliance(c.Context(), c.Params("id"), at)
	if err != nil {
		return writeError(c, err, "finca no encontrada")
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar reporte de cumplimiento
// @Tags         compliance
// @Security     Bearer
// @Produce      application/pdf
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id      path   string  true   "ID de la finca"
// @Param        format  query  string  false  "pdf o xlsx"  default(pdf)
// @Param        at      query  string  false  "Instante de evaluación (RFC3339)"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/farms/{id}/compliance/export [get]
func (h *ComplianceHandler) Export(c *fiber.Ctx) error {
	at, err := parseAt(c)
	if err != nil {
		return badTime(c, "at")
	}
	data, contentType, filename, err := h.uc.Export(c.Context(), c.Params("id"), c.Query("format", "pdf"), at)
	if err != nil {
		return writeError(c, err, "finca no encontrada")
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
