// Package pdf genera el reporte de cumplimiento sanitario de una finca en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Finca + ID          │  Puntaje + Fecha evaluación  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: animales / restringidos / infracciones            │
//	│  DESCUENTOS: un renglón por concepto                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA RETIROS: Animal | Fármaco | Producto | Libre desde   │
//	│  TABLA LOTES: Lote | Cantidad | Vence | Estado              │
//	│  ALERTAS                                                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda                                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Ganaderia-api/internal/application/compliance"
	"github.com/jhoicas/Ganaderia-api/internal/application/dto"
)

var _ compliance.ReportGenerator = (*ComplianceReportGenerator)(nil)

const dateLayout = "02/01/2006 15:04"

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 27, Green: 94, Blue: 32}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWarning = &props.Color{Red: 191, Green: 120, Blue: 0}
	colorError   = &props.Color{Red: 183, Green: 28, Blue: 28}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// ComplianceReportGenerator implementa compliance.ReportGenerator usando Maroto v2.
type ComplianceReportGenerator struct{}

// NewComplianceReportGenerator construye el generador.
func NewComplianceReportGenerator() *ComplianceReportGenerator { return &ComplianceReportGenerator{} }

// ContentType MIME del documento.
func (g *ComplianceReportGenerator) ContentType() string { return "application/pdf" }

// Extension extensión del archivo.
func (g *ComplianceReportGenerator) Extension() string { return "pdf" }

// Generate genera el PDF y devuelve sus bytes.
func (g *ComplianceReportGenerator) Generate(_ context.Context, report *dto.ComplianceResponse) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de cumplimiento sanitario", true).
		WithAuthor(report.FarmName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(report))
	m.AddRows(penaltyRows(report.Penalties)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("ANIMALES EN RETIRO"))
	m.AddRows(restrictionRows(report.ActiveRestrictions)...)

	m.AddRows(sectionTitle("LOTES DEL BOTIQUÍN"))
	m.AddRows(batchRows(report.Batches)...)

	m.AddRows(sectionTitle("ALERTAS"))
	m.AddRows(alertRows(report.Alerts)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la finca (izq) y puntaje + fecha (der).
func headerRow(r *dto.ComplianceResponse) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(r.FarmName, r.FarmID), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Finca: "+r.FarmID, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("PUNTAJE DE CUMPLIMIENTO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%d / 100", r.Score), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7, Color: scoreColor(r.Score),
			}),
			text.New("Evaluado: "+r.EvaluatedAt.Format(dateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func summaryRow(r *dto.ComplianceResponse) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("RESUMEN", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("Animales: %d   |   En retiro: %d   |   Retiros activos: %d   |   Infracciones: %d",
				r.TotalAnimals, r.RestrictedAnimalsCount, r.ActiveRestrictionsCount, r.ViolationCount,
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func penaltyRows(p dto.PenaltiesDTO) []core.Row {
	items := []struct {
		label  string
		points int
	}{
		{"Retiros activos", p.ActiveRestrictions},
		{"Lotes vencidos", p.ExpiredBatches},
		{"Lotes por vencer", p.ExpiringBatches},
		{"Lotes con stock bajo", p.LowStockBatches},
		{"Lotes agotados", p.OutOfStockBatches},
		{"Infracciones", p.Violations},
	}
	rows := make([]core.Row, 0, len(items)+1)
	for _, it := range items {
		if it.points == 0 {
			continue
		}
		rows = append(rows, row.New(5).Add(
			col.New(3),
			col.New(5).Add(text.New(it.label+":", props.Text{Size: 8, Align: align.Right, Right: 2})),
			col.New(2).Add(text.New(fmt.Sprintf("-%d", it.points), props.Text{Size: 8, Align: align.Right, Right: 1})),
			col.New(2),
		))
	}
	rows = append(rows, row.New(6).Add(
		col.New(3),
		col.New(5).Add(text.New("TOTAL DESCONTADO:", props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Right: 2,
		})),
		col.New(2).Add(text.New(fmt.Sprintf("-%d", p.Total), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Right: 1,
		})),
		col.New(2),
	))
	return rows
}

func sectionTitle(title string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 3}),
	))
}

// tableRow fila de tabla con anchos fijos; header en negrita.
func tableRow(header bool, widths []int, cells ...string) core.Row {
	cols := make([]core.Col, 0, len(cells))
	for i, c := range cells {
		p := props.Text{Size: 8, Top: 1, Left: 1, Right: 1}
		if header {
			p.Style = fontstyle.Bold
			p.Color = colorGray
		}
		cols = append(cols, col.New(widths[i]).Add(text.New(c, p)))
	}
	return row.New(6).Add(cols...)
}

func restrictionRows(states []dto.WithdrawalStateDTO) []core.Row {
	if len(states) == 0 {
		return []core.Row{emptyRow("Sin animales en periodo de retiro.")}
	}
	widths := []int{3, 3, 2, 3, 1}
	rows := []core.Row{tableRow(true, widths, "Evento", "Fármaco", "Producto", "Libre desde", "Días")}
	for _, s := range states {
		rows = append(rows, tableRow(false, widths,
			s.EventID, nonEmpty(s.DrugName, s.DrugID), s.Product, s.SafeAfter.Format(dateLayout), fmt.Sprintf("%d", s.DaysRemaining),
		))
	}
	return rows
}

func batchRows(batches []dto.BatchResponse) []core.Row {
	if len(batches) == 0 {
		return []core.Row{emptyRow("Sin lotes registrados.")}
	}
	widths := []int{3, 2, 2, 2, 3}
	rows := []core.Row{tableRow(true, widths, "Lote", "Cantidad", "Vence", "Días", "Estado")}
	for _, b := range batches {
		rows = append(rows, tableRow(false, widths,
			b.BatchNumber,
			b.Quantity.StringFixed(2)+" "+b.Unit,
			b.ExpiryDate.Format("02/01/2006"),
			fmt.Sprintf("%d", b.DaysToExpiry),
			b.Status,
		))
	}
	return rows
}

func alertRows(alerts []dto.AlertDTO) []core.Row {
	if len(alerts) == 0 {
		return []core.Row{emptyRow("Sin alertas.")}
	}
	rows := make([]core.Row, 0, len(alerts))
	for _, a := range alerts {
		rows = append(rows, row.New(6).Add(
			col.New(2).Add(text.New(a.Severity, props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 1, Color: severityColor(a.Severity),
			})),
			col.New(10).Add(text.New(a.Title+": "+a.Message, props.Text{Size: 8, Top: 1})),
		))
	}
	return rows
}

// footerRow leyenda con la fecha de evaluación.
func footerRow(r *dto.ComplianceResponse) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("Puntaje calculado a partir del registro de administraciones y del estado de los lotes al "+
				r.EvaluatedAt.Format(dateLayout)+".", props.Text{
				Size: 8, Top: 2, Color: colorGray,
			}),
			text.New("Los animales en retiro no deben enviarse a sacrificio ni ordeñarse para venta.", props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 9, Color: colorPrimary,
			}),
		),
	)
}

func emptyRow(msg string) core.Row {
	return row.New(6).Add(col.New(12).Add(text.New(msg, props.Text{Size: 8, Top: 1, Color: colorGray})))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func scoreColor(score int) *props.Color {
	switch {
	case score >= 80:
		return colorPrimary
	case score >= 50:
		return colorWarning
	default:
		return colorError
	}
}

func severityColor(s string) *props.Color {
	switch s {
	case "error":
		return colorError
	case "warning":
		return colorWarning
	}
	return colorGray
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
