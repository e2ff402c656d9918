// Package compliance combina el estado de retiro de los animales, el estado de los lotes y las
// infracciones de la finca en un puntaje 0–100 con alertas por severidad.
package compliance

import (
	"sort"
	"time"

	"github.com/jhoicas/Ganaderia-api/internal/domain"
	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
	"github.com/jhoicas/Ganaderia-api/internal/domain/ledger"
	"github.com/jhoicas/Ganaderia-api/internal/domain/stock"
	"github.com/jhoicas/Ganaderia-api/internal/domain/withdrawal"
)

const (
	MaxScore = 100
	MinScore = 0
)

// Input datos de una finca a evaluar. Los eventos deben pertenecer a animales de la finca.
type Input struct {
	Farm           entity.Farm
	Animals        []entity.Animal
	Events         []entity.AdministrationEvent
	Batches        []entity.DrugBatch
	ViolationCount int
}

// Penalties desglose de lo descontado al puntaje.
type Penalties struct {
	ActiveRestrictions int
	ExpiredBatches     int
	ExpiringBatches    int
	LowStockBatches    int
	OutOfStockBatches  int
	Violations         int
}

// Total suma del desglose.
func (p Penalties) Total() int {
	return p.ActiveRestrictions + p.ExpiredBatches + p.ExpiringBatches +
		p.LowStockBatches + p.OutOfStockBatches + p.Violations
}

// BatchState lote con su estado derivado.
type BatchState struct {
	Batch  entity.DrugBatch
	Status stock.Status
}

// Report resultado de ScoreFarm.
type Report struct {
	FarmID              string
	Score               int
	Alerts              []Alert
	ActiveRestrictions  []withdrawal.State
	RestrictedAnimalIDs []string
	Batches             []BatchState
	BatchCounts         map[stock.Status]int
	Penalties           Penalties
	EvaluatedAt         time.Time
}

// Aggregator evalúa fincas con una política fija. Es inmutable y seguro para uso concurrente.
type Aggregator struct {
	policy Policy
}

// NewAggregator valida la política; nil o valores negativos devuelven ConfigurationError.
func NewAggregator(policy *Policy) (*Aggregator, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Aggregator{policy: *policy}, nil
}

// Policy política en uso.
func (a *Aggregator) Policy() Policy { return a.policy }

// ScoreFarm es función pura de in y now: mismas entradas, mismo reporte.
func (a *Aggregator) ScoreFarm(in Input, now time.Time) (Report, error) {
	if in.ViolationCount < 0 {
		return Report{}, &domain.ConfigurationError{Field: "violation_count", Reason: "no puede ser negativo"}
	}
	animals := make(map[string]entity.Animal, len(in.Animals))
	for _, an := range in.Animals {
		if an.FarmID != "" && in.Farm.ID != "" && an.FarmID != in.Farm.ID {
			return Report{}, &domain.UnknownReferenceError{Kind: "animal", ID: an.ID}
		}
		animals[an.ID] = an
	}
	for _, ev := range in.Events {
		if _, ok := animals[ev.AnimalID]; !ok {
			return Report{}, &domain.UnknownReferenceError{Kind: "animal", ID: ev.AnimalID}
		}
	}

	report := Report{
		FarmID:      in.Farm.ID,
		BatchCounts: make(map[stock.Status]int),
		EvaluatedAt: now,
	}

	// Restricciones de retiro
	active := ledger.ActiveRestrictions(in.Events, now)
	report.ActiveRestrictions = active
	restricted := make(map[string]bool)
	var alerts []Alert
	for _, s := range active {
		if !restricted[s.AnimalID] {
			restricted[s.AnimalID] = true
			report.RestrictedAnimalIDs = append(report.RestrictedAnimalIDs, s.AnimalID)
		}
		if !s.Expected {
			report.Penalties.ActiveRestrictions += a.policy.ActiveRestrictionPenalty
		}
		if s.DaysRemaining <= a.policy.SoonThresholdDays {
			alerts = append(alerts, restrictionAlert(in.Farm.ID, animals[s.AnimalID], s, now))
		}
	}
	sort.Strings(report.RestrictedAnimalIDs)

	// Lotes
	window := a.policy.ExpiringWindow()
	var batchAlerts []Alert
	for _, b := range in.Batches {
		st := stock.Classify(b, now, window)
		report.Batches = append(report.Batches, BatchState{Batch: b, Status: st})
		report.BatchCounts[st]++
		switch st {
		case stock.StatusExpired:
			report.Penalties.ExpiredBatches += a.policy.ExpiredBatchPenalty
		case stock.StatusExpiringSoon:
			report.Penalties.ExpiringBatches += a.policy.ExpiringSoonPenalty
		case stock.StatusLowStock:
			report.Penalties.LowStockBatches += a.policy.LowStockPenalty
		case stock.StatusOutOfStock:
			report.Penalties.OutOfStockBatches += a.policy.OutOfStockPenalty
		}
		if stock.IsProblematic(st) {
			batchAlerts = append(batchAlerts, batchAlert(in.Farm.ID, b, st, now))
		}
	}
	sort.SliceStable(report.Batches, func(i, j int) bool {
		return lessBatch(report.Batches[i].Batch, report.Batches[i].Status, report.Batches[j].Batch, report.Batches[j].Status)
	})
	batchByID := make(map[string]entity.DrugBatch, len(in.Batches))
	for _, b := range in.Batches {
		batchByID[b.ID] = b
	}
	sort.SliceStable(batchAlerts, func(i, j int) bool {
		x, y := batchAlerts[i], batchAlerts[j]
		if severityRank(x.Severity) != severityRank(y.Severity) {
			return severityRank(x.Severity) < severityRank(y.Severity)
		}
		bx, by := batchByID[x.EntityID], batchByID[y.EntityID]
		if !bx.ExpiryDate.Equal(by.ExpiryDate) {
			return bx.ExpiryDate.Before(by.ExpiryDate)
		}
		if bx.BatchNumber != by.BatchNumber {
			return bx.BatchNumber < by.BatchNumber
		}
		return x.ID < y.ID
	})

	report.Penalties.Violations = in.ViolationCount * a.policy.ViolationPenalty
	report.Alerts = append(alerts, batchAlerts...)
	if report.Alerts == nil {
		report.Alerts = []Alert{}
	}
	report.Score = clamp(MaxScore-report.Penalties.Total(), MinScore, MaxScore)
	return report, nil
}

func lessBatch(a entity.DrugBatch, sa stock.Status, b entity.DrugBatch, sb stock.Status) bool {
	if stock.Rank(sa) != stock.Rank(sb) {
		return stock.Rank(sa) < stock.Rank(sb)
	}
	if !a.ExpiryDate.Equal(b.ExpiryDate) {
		return a.ExpiryDate.Before(b.ExpiryDate)
	}
	if a.BatchNumber != b.BatchNumber {
		return a.BatchNumber < b.BatchNumber
	}
	return a.ID < b.ID
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
