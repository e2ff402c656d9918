package compliance

import (
	"context"
	"time"

	"github.com/jhoicas/Ganaderia-api/internal/application/dto"
)

// ReportGenerator exporta el reporte de cumplimiento (PDF, XLSX).
type ReportGenerator interface {
	Generate(ctx context.Context, report *dto.ComplianceResponse) ([]byte, error)
	ContentType() string
	Extension() string
}

// Metrics registra el resultado de cada evaluación.
type Metrics interface {
	ComplianceEvaluated(farmID string, score int, elapsed time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) ComplianceEvaluated(string, int, time.Duration) {}
