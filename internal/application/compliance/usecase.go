// Package compliance evalúa el cumplimiento sanitario de una finca y exporta el reporte.
package compliance

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Ganaderia-api/internal/application/administration"
	"github.com/jhoicas/Ganaderia-api/internal/application/dto"
	"github.com/jhoicas/Ganaderia-api/internal/application/inventory"
	"github.com/jhoicas/Ganaderia-api/internal/domain"
	scoring "github.com/jhoicas/Ganaderia-api/internal/domain/compliance"
	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
	"github.com/jhoicas/Ganaderia-api/internal/domain/ledger"
	"github.com/jhoicas/Ganaderia-api/internal/domain/repository"
	"github.com/jhoicas/Ganaderia-api/pkg/clock"
	"github.com/jhoicas/Ganaderia-api/pkg/logger"
)

// Deps dependencias del caso de uso. Logger, Metrics y los generadores son opcionales.
type Deps struct {
	Aggregator *scoring.Aggregator
	Ledger     *ledger.Ledger
	FarmRepo   repository.FarmRepository
	AnimalRepo repository.AnimalRepository
	BatchRepo  repository.DrugBatchRepository
	Clock      clock.Clock
	Logger     *logger.Logger
	Metrics    Metrics
	Generators map[string]ReportGenerator // formato (pdf, xlsx) → generador
}

// UseCase calcula el puntaje de cumplimiento de una finca.
type UseCase struct {
	aggregator *scoring.Aggregator
	ledger     *ledger.Ledger
	farmRepo   repository.FarmRepository
	animalRepo repository.AnimalRepository
	batchRepo  repository.DrugBatchRepository
	clock      clock.Clock
	log        *logger.Logger
	metrics    Metrics
	generators map[string]ReportGenerator
}

// NewUseCase construye el caso de uso. Aggregator y Ledger son obligatorios.
func NewUseCase(d Deps) (*UseCase, error) {
	if d.Aggregator == nil {
		return nil, &domain.ConfigurationError{Field: "aggregator", Reason: "ausente"}
	}
	if d.Ledger == nil {
		return nil, &domain.ConfigurationError{Field: "ledger", Reason: "ausente"}
	}
	uc := &UseCase{
		aggregator: d.Aggregator,
		ledger:     d.Ledger,
		farmRepo:   d.FarmRepo,
		animalRepo: d.AnimalRepo,
		batchRepo:  d.BatchRepo,
		clock:      d.Clock,
		log:        d.Logger,
		metrics:    d.Metrics,
		generators: d.Generators,
	}
	if uc.clock == nil {
		uc.clock = clock.System{}
	}
	if uc.log == nil {
		uc.log = logger.Nop()
	}
	if uc.metrics == nil {
		uc.metrics = nopMetrics{}
	}
	return uc, nil
}

// GetFarmCompliance evalúa la finca en at (cero = ahora). Mismo at y mismos datos → mismo resultado.
func (uc *UseCase) GetFarmCompliance(ctx context.Context, farmID string, at time.Time) (*dto.ComplianceResponse, error) {
	start := time.Now()
	now := at
	if now.IsZero() {
		now = uc.clock.Now()
	}

	var (
		farm    *entity.Farm
		animals []*entity.Animal
		batches []*entity.DrugBatch
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := uc.farmRepo.GetByID(gctx, farmID)
		farm = f
		return err
	})
	g.Go(func() error {
		a, err := uc.animalRepo.ListByFarm(gctx, farmID)
		animals = a
		return err
	})
	g.Go(func() error {
		b, err := uc.batchRepo.ListByFarm(gctx, farmID)
		batches = b
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("cargar datos de la finca: %w", err)
	}
	if farm == nil {
		return nil, &domain.UnknownReferenceError{Kind: "farm", ID: farmID}
	}

	in := scoring.Input{Farm: *farm, ViolationCount: farm.ViolationCount}
	ids := make([]string, 0, len(animals))
	for _, a := range animals {
		in.Animals = append(in.Animals, *a)
		ids = append(ids, a.ID)
	}
	for _, b := range batches {
		in.Batches = append(in.Batches, *b)
	}
	in.Events = uc.ledger.Events(ids)

	report, err := uc.aggregator.ScoreFarm(in, now)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	uc.metrics.ComplianceEvaluated(farm.ID, report.Score, elapsed)
	uc.log.Debug().
		Str("farm_id", farm.ID).
		Int("score", report.Score).
		Int("alerts", len(report.Alerts)).
		Dur("elapsed", elapsed).
		Msg("cumplimiento evaluado")

	return toResponse(*farm, len(animals), report, uc.aggregator.Policy().ExpiringWindow()), nil
}

// Export genera el reporte en el formato pedido. Devuelve bytes, content-type y nombre de archivo.
func (uc *UseCase) Export(ctx context.Context, farmID, format string, at time.Time) ([]byte, string, string, error) {
	gen, ok := uc.generators[format]
	if !ok {
		return nil, "", "", domain.ErrInvalidInput
	}
	report, err := uc.GetFarmCompliance(ctx, farmID, at)
	if err != nil {
		return nil, "", "", err
	}
	data, err := gen.Generate(ctx, report)
	if err != nil {
		return nil, "", "", fmt.Errorf("exportar %s: %w", format, err)
	}
	filename := fmt.Sprintf("cumplimiento_%s_%s.%s", report.FarmID, report.EvaluatedAt.Format("20060102"), gen.Extension())
	return data, gen.ContentType(), filename, nil
}

func toResponse(farm entity.Farm, totalAnimals int, r scoring.Report, window time.Duration) *dto.ComplianceResponse {
	out := &dto.ComplianceResponse{
		FarmID:                  farm.ID,
		FarmName:                farm.Name,
		Score:                   r.Score,
		EvaluatedAt:             r.EvaluatedAt,
		Alerts:                  make([]dto.AlertDTO, 0, len(r.Alerts)),
		ActiveRestrictionsCount: len(r.ActiveRestrictions),
		RestrictedAnimalsCount:  len(r.RestrictedAnimalIDs),
		RestrictedAnimalIDs:     append([]string{}, r.RestrictedAnimalIDs...),
		TotalAnimals:            totalAnimals,
		BatchCounts:             make(map[string]int, len(r.BatchCounts)),
		ViolationCount:          farm.ViolationCount,
		Penalties: dto.PenaltiesDTO{
			ActiveRestrictions: r.Penalties.ActiveRestrictions,
			ExpiredBatches:     r.Penalties.ExpiredBatches,
			ExpiringBatches:    r.Penalties.ExpiringBatches,
			LowStockBatches:    r.Penalties.LowStockBatches,
			OutOfStockBatches:  r.Penalties.OutOfStockBatches,
			Violations:         r.Penalties.Violations,
			Total:              r.Penalties.Total(),
		},
		ActiveRestrictions: make([]dto.WithdrawalStateDTO, 0, len(r.ActiveRestrictions)),
		Batches:            make([]dto.BatchResponse, 0, len(r.Batches)),
	}
	for _, a := range r.Alerts {
		out.Alerts = append(out.Alerts, dto.AlertDTO{
			ID:          a.ID,
			Type:        a.Type,
			Severity:    string(a.Severity),
			Title:       a.Title,
			Message:     a.Message,
			EntityType:  a.EntityType,
			EntityID:    a.EntityID,
			EvaluatedAt: a.EvaluatedAt,
		})
	}
	for status, n := range r.BatchCounts {
		out.BatchCounts[string(status)] = n
	}
	for _, s := range r.ActiveRestrictions {
		out.ActiveRestrictions = append(out.ActiveRestrictions, administration.ToStateDTO(s))
	}
	for _, b := range r.Batches {
		out.Batches = append(out.Batches, inventory.ToBatchResponse(b.Batch, r.EvaluatedAt, window))
	}
	return out
}
