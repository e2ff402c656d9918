package compliance_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ganaderia-api/internal/domain"
	"github.com/jhoicas/Ganaderia-api/internal/domain/compliance"
	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
	"github.com/jhoicas/Ganaderia-api/internal/domain/stock"
)

var now = time.Date(2024, 9, 13, 0, 0, 0, 0, time.UTC)

const day = 24 * time.Hour

func newAggregator(t *testing.T) *compliance.Aggregator {
	t.Helper()
	p := compliance.DefaultPolicy()
	agg, err := compliance.NewAggregator(&p)
	require.NoError(t, err)
	return agg
}

func farm() entity.Farm {
	return entity.Farm{ID: "farm-1", Name: "La Esperanza"}
}

func animals(n int) []entity.Animal {
	out := make([]entity.Animal, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, entity.Animal{ID: fmt.Sprintf("a-%d", i), TagID: fmt.Sprintf("CO-%04d", i), FarmID: "farm-1"})
	}
	return out
}

func restriction(animalID string, milkDays int) entity.AdministrationEvent {
	return entity.AdministrationEvent{
		ID:                 "evt-" + animalID + fmt.Sprint(milkDays),
		AnimalID:           animalID,
		DrugID:             "drug-1",
		DrugName:           "Penicilina",
		WithdrawalMilkDays: milkDays,
		AdministeredAt:     now.Add(-day),
	}
}

func healthyBatch(id string) entity.DrugBatch {
	return entity.DrugBatch{
		ID: id, FarmID: "farm-1", DrugID: "drug-1", BatchNumber: "L-" + id,
		Quantity: decimal.NewFromInt(500), LowStockThreshold: decimal.NewFromInt(50),
		Unit: "ml", ExpiryDate: now.AddDate(1, 0, 0),
	}
}

// Escenario: sin restricciones activas ni lotes problemáticos → puntaje 100 y sin alertas.
func TestScoreFarm_FincaLimpia(t *testing.T) {
	agg := newAggregator(t)
	report, err := agg.ScoreFarm(compliance.Input{
		Farm:    farm(),
		Animals: animals(3),
		Batches: []entity.DrugBatch{healthyBatch("b1")},
	}, now)
	require.NoError(t, err)
	assert.Equal(t, 100, report.Score)
	assert.Empty(t, report.Alerts)
	assert.NotNil(t, report.Alerts)
}

func TestScoreFarm_Idempotente(t *testing.T) {
	agg := newAggregator(t)
	expired := healthyBatch("b2")
	expired.ExpiryDate = now.Add(-day)
	in := compliance.Input{
		Farm:           farm(),
		Animals:        animals(2),
		Events:         []entity.AdministrationEvent{restriction("a-0", 2), restriction("a-1", 10)},
		Batches:        []entity.DrugBatch{healthyBatch("b1"), expired},
		ViolationCount: 1,
	}
	r1, err := agg.ScoreFarm(in, now)
	require.NoError(t, err)
	r2, err := agg.ScoreFarm(in, now)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}

// El puntaje no aumenta al agregar restricciones activas.
func TestScoreFarm_MonotonoEnRestricciones(t *testing.T) {
	agg := newAggregator(t)
	as := animals(30)
	prev := compliance.MaxScore + 1
	for n := 0; n <= len(as); n++ {
		var events []entity.AdministrationEvent
		for i := 0; i < n; i++ {
			events = append(events, restriction(as[i].ID, 5))
		}
		report, err := agg.ScoreFarm(compliance.Input{Farm: farm(), Animals: as, Events: events}, now)
		require.NoError(t, err)
		assert.LessOrEqual(t, report.Score, prev, "n=%d", n)
		assert.GreaterOrEqual(t, report.Score, compliance.MinScore)
		prev = report.Score
	}
	assert.Equal(t, 0, prev, "con 30 restricciones el puntaje se satura en 0")
}

func TestScoreFarm_PenalizacionesYAlertas(t *testing.T) {
	agg := newAggregator(t)
	expired := healthyBatch("b-exp")
	expired.ExpiryDate = now.Add(-day)
	expiring := healthyBatch("b-soon")
	expiring.ExpiryDate = now.Add(10 * day)
	low := healthyBatch("b-low")
	low.Quantity = decimal.NewFromInt(20)
	empty := healthyBatch("b-empty")
	empty.Quantity = decimal.Zero

	events := []entity.AdministrationEvent{
		restriction("a-0", 2),  // leche libera en 1 día → alerta warning
		restriction("a-1", 20), // activa, lejos de liberar → solo penaliza
	}
	report, err := agg.ScoreFarm(compliance.Input{
		Farm:           farm(),
		Animals:        animals(2),
		Events:         events,
		Batches:        []entity.DrugBatch{healthyBatch("b-ok"), expired, expiring, low, empty},
		ViolationCount: 1,
	}, now)
	require.NoError(t, err)

	p := compliance.DefaultPolicy()
	want := 100 - 2*p.ActiveRestrictionPenalty - p.ExpiredBatchPenalty - p.ExpiringSoonPenalty -
		p.LowStockPenalty - p.OutOfStockPenalty - p.ViolationPenalty
	assert.Equal(t, want, report.Score)
	assert.Equal(t, []string{"a-0", "a-1"}, report.RestrictedAnimalIDs)
	assert.Equal(t, 1, report.BatchCounts[stock.StatusExpired])
	assert.Equal(t, 1, report.BatchCounts[stock.StatusInStock])

	require.Len(t, report.Alerts, 5)
	first := report.Alerts[0]
	assert.Equal(t, compliance.AlertWithdrawalEnding, first.Type)
	assert.Equal(t, compliance.SeverityWarning, first.Severity)
	assert.Equal(t, "a-0", first.EntityID)
	assert.Contains(t, first.Message, "CO-0000")
	assert.Contains(t, first.Message, "leche")

	// errores primero entre las alertas de lotes
	assert.Equal(t, compliance.SeverityError, report.Alerts[1].Severity)
	assert.Equal(t, compliance.SeverityError, report.Alerts[2].Severity)
	assert.Equal(t, compliance.SeverityWarning, report.Alerts[3].Severity)
	assert.Equal(t, compliance.SeverityWarning, report.Alerts[4].Severity)
	for _, a := range report.Alerts {
		assert.Equal(t, now, a.EvaluatedAt, "la alerta lleva la hora de evaluación")
		assert.Equal(t, "farm-1", a.FarmID)
	}
}

// Las restricciones planificadas generan alerta pero no penalizan.
func TestScoreFarm_RestriccionEsperada(t *testing.T) {
	agg := newAggregator(t)
	ev := restriction("a-0", 2)
	ev.ExpectedRestriction = true
	report, err := agg.ScoreFarm(compliance.Input{Farm: farm(), Animals: animals(1), Events: []entity.AdministrationEvent{ev}}, now)
	require.NoError(t, err)
	assert.Equal(t, 100, report.Score)
	assert.Len(t, report.Alerts, 1)
	assert.Len(t, report.ActiveRestrictions, 1)
}

func TestScoreFarm_EventoDeAnimalAjeno(t *testing.T) {
	agg := newAggregator(t)
	_, err := agg.ScoreFarm(compliance.Input{
		Farm:    farm(),
		Animals: animals(1),
		Events:  []entity.AdministrationEvent{restriction("otro", 3)},
	}, now)
	assert.ErrorIs(t, err, domain.ErrUnknownReference)
}

func TestNewAggregator_ConfiguracionInvalida(t *testing.T) {
	_, err := compliance.NewAggregator(nil)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	p := compliance.DefaultPolicy()
	p.LowStockPenalty = -1
	_, err = compliance.NewAggregator(&p)
	var cfgErr *domain.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "low_stock_penalty", cfgErr.Field)
}

func TestScoreFarm_UmbralDeAlertaConfigurable(t *testing.T) {
	p := compliance.DefaultPolicy()
	p.SoonThresholdDays = 30
	agg, err := compliance.NewAggregator(&p)
	require.NoError(t, err)
	report, err := agg.ScoreFarm(compliance.Input{
		Farm: farm(), Animals: animals(1), Events: []entity.AdministrationEvent{restriction("a-0", 20)},
	}, now)
	require.NoError(t, err)
	assert.Len(t, report.Alerts, 1)
}

// La severidad del retiro por terminar depende de los días que faltan.
func TestScoreFarm_SeveridadDeRetiro(t *testing.T) {
	p := compliance.DefaultPolicy()
	p.SoonThresholdDays = 5
	agg, err := compliance.NewAggregator(&p)
	require.NoError(t, err)

	tests := []struct {
		milkDays int
		want     compliance.Severity
	}{
		{2, compliance.SeverityWarning}, // libera en 1 día
		{3, compliance.SeverityInfo},
		{6, compliance.SeverityInfo},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("leche %d días", tt.milkDays), func(t *testing.T) {
			report, err := agg.ScoreFarm(compliance.Input{
				Farm: farm(), Animals: animals(1), Events: []entity.AdministrationEvent{restriction("a-0", tt.milkDays)},
			}, now)
			require.NoError(t, err)
			require.Len(t, report.Alerts, 1)
			assert.Equal(t, tt.want, report.Alerts[0].Severity)
		})
	}
}
