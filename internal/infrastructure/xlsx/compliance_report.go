// Package xlsx exporta el reporte de cumplimiento a Excel (una hoja por sección).
package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Ganaderia-api/internal/application/compliance"
	"github.com/jhoicas/Ganaderia-api/internal/application/dto"
)

var _ compliance.ReportGenerator = (*ComplianceReportGenerator)(nil)

// Hojas del libro.
const (
	SheetSummary      = "Resumen"
	SheetRestrictions = "Retiros"
	SheetBatches      = "Lotes"
	SheetAlerts       = "Alertas"
)

// ComplianceReportGenerator implementa compliance.ReportGenerator con excelize.
type ComplianceReportGenerator struct{}

// NewComplianceReportGenerator construye el generador.
func NewComplianceReportGenerator() *ComplianceReportGenerator { return &ComplianceReportGenerator{} }

// ContentType MIME del libro.
func (g *ComplianceReportGenerator) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension extensión del archivo.
func (g *ComplianceReportGenerator) Extension() string { return "xlsx" }

// Generate arma el libro y devuelve sus bytes.
func (g *ComplianceReportGenerator) Generate(_ context.Context, report *dto.ComplianceResponse) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("xlsx: reporte vacío")
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// la hoja por defecto se renombra a Resumen
	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	w := &sheetWriter{f: f, header: bold}
	w.rows(SheetSummary, summary(report))
	w.table(SheetRestrictions,
		[]any{"Evento", "Fármaco", "Producto", "Administrado", "Libre desde", "Días restantes", "Planificado"},
		restrictions(report.ActiveRestrictions))
	w.table(SheetBatches,
		[]any{"Lote", "Fármaco", "Cantidad", "Unidad", "Vence", "Días a vencer", "Estado"},
		batches(report.Batches))
	w.table(SheetAlerts,
		[]any{"Severidad", "Tipo", "Título", "Mensaje", "Entidad", "ID"},
		alerts(report.Alerts))
	if w.err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", w.err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: serializar: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetWriter acumula el primer error para no chequear cada celda.
type sheetWriter struct {
	f      *excelize.File
	header int
	err    error
}

func (w *sheetWriter) rows(sheet string, rows [][]any) {
	for i, r := range rows {
		w.setRow(sheet, i+1, r)
	}
}

func (w *sheetWriter) table(sheet string, header []any, rows [][]any) {
	if w.err != nil {
		return
	}
	if _, err := w.f.NewSheet(sheet); err != nil {
		w.err = err
		return
	}
	w.setRow(sheet, 1, header)
	if w.err == nil {
		end, _ := excelize.CoordinatesToCellName(len(header), 1)
		w.err = w.f.SetCellStyle(sheet, "A1", end, w.header)
	}
	for i, r := range rows {
		w.setRow(sheet, i+2, r)
	}
}

func (w *sheetWriter) setRow(sheet string, n int, values []any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		w.err = err
		return
	}
	v := values
	w.err = w.f.SetSheetRow(sheet, cell, &v)
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func summary(r *dto.ComplianceResponse) [][]any {
	return [][]any{
		{"Finca", r.FarmID},
		{"Nombre", r.FarmName},
		{"Puntaje", r.Score},
		{"Evaluado", r.EvaluatedAt.UTC().Format("2006-01-02 15:04:05")},
		{"Animales", r.TotalAnimals},
		{"Animales en retiro", r.RestrictedAnimalsCount},
		{"Retiros activos", r.ActiveRestrictionsCount},
		{"Infracciones", r.ViolationCount},
		{"Descuento retiros", r.Penalties.ActiveRestrictions},
		{"Descuento lotes vencidos", r.Penalties.ExpiredBatches},
		{"Descuento lotes por vencer", r.Penalties.ExpiringBatches},
		{"Descuento stock bajo", r.Penalties.LowStockBatches},
		{"Descuento agotados", r.Penalties.OutOfStockBatches},
		{"Descuento infracciones", r.Penalties.Violations},
		{"Descuento total", r.Penalties.Total},
	}
}

func restrictions(states []dto.WithdrawalStateDTO) [][]any {
	out := make([][]any, 0, len(states))
	for _, s := range states {
		out = append(out, []any{
			s.EventID, s.DrugName, s.Product,
			s.AdministeredAt.UTC().Format("2006-01-02 15:04"),
			s.SafeAfter.UTC().Format("2006-01-02 15:04"),
			s.DaysRemaining, s.Expected,
		})
	}
	return out
}

func batches(list []dto.BatchResponse) [][]any {
	out := make([][]any, 0, len(list))
	for _, b := range list {
		qty, _ := b.Quantity.Float64()
		out = append(out, []any{
			b.BatchNumber, b.DrugID, qty, b.Unit,
			b.ExpiryDate.UTC().Format("2006-01-02"), b.DaysToExpiry, b.Status,
		})
	}
	return out
}

func alerts(list []dto.AlertDTO) [][]any {
	out := make([][]any, 0, len(list))
	for _, a := range list {
		out = append(out, []any{a.Severity, a.Type, a.Title, a.Message, a.EntityType, a.EntityID})
	}
	return out
}
