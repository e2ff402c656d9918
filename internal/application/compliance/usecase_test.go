package compliance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ganaderia-api/internal/application/compliance"
	"github.com/jhoicas/Ganaderia-api/internal/application/dto"
	"github.com/jhoicas/Ganaderia-api/internal/domain"
	scoring "github.com/jhoicas/Ganaderia-api/internal/domain/compliance"
	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
	"github.com/jhoicas/Ganaderia-api/internal/domain/ledger"
	"github.com/jhoicas/Ganaderia-api/internal/infrastructure/memory"
	"github.com/jhoicas/Ganaderia-api/pkg/clock"
)

var (
	ctx = context.Background()
	now = time.Date(2024, 9, 13, 12, 0, 0, 0, time.UTC)
)

type fakeGenerator struct {
	got *dto.ComplianceResponse
	err error
}

func (g *fakeGenerator) Generate(_ context.Context, r *dto.ComplianceResponse) ([]byte, error) {
	g.got = r
	return []byte("%PDF"), g.err
}
func (g *fakeGenerator) ContentType() string { return "application/pdf" }
func (g *fakeGenerator) Extension() string   { return "pdf" }

type fakeMetrics struct{ scores map[string]int }

func (m *fakeMetrics) ComplianceEvaluated(farmID string, score int, _ time.Duration) {
	m.scores[farmID] = score
}

type fixture struct {
	uc      *compliance.UseCase
	ledger  *ledger.Ledger
	farms   *memory.FarmRepo
	batches *memory.DrugBatchRepo
	gen     *fakeGenerator
	metrics *fakeMetrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.NewStore()
	c := clock.NewFixed(now)
	farms := memory.NewFarmRepository(s)
	animals := memory.NewAnimalRepository(s)
	batches := memory.NewDrugBatchRepository(s)
	require.NoError(t, farms.Create(ctx, &entity.Farm{ID: "farm-1", Name: "El Roble"}))
	require.NoError(t, animals.Create(ctx, &entity.Animal{ID: "vaca-1", TagID: "CO-0001", FarmID: "farm-1"}))
	require.NoError(t, animals.Create(ctx, &entity.Animal{ID: "vaca-2", TagID: "CO-0002", FarmID: "farm-1"}))

	policy := scoring.DefaultPolicy()
	agg, err := scoring.NewAggregator(&policy)
	require.NoError(t, err)
	l := ledger.New(c, ledger.DefaultClockTolerance)
	gen := &fakeGenerator{}
	m := &fakeMetrics{scores: map[string]int{}}
	uc, err := compliance.NewUseCase(compliance.Deps{
		Aggregator: agg,
		Ledger:     l,
		FarmRepo:   farms,
		AnimalRepo: animals,
		BatchRepo:  batches,
		Clock:      c,
		Metrics:    m,
		Generators: map[string]compliance.ReportGenerator{"pdf": gen},
	})
	require.NoError(t, err)
	return &fixture{uc: uc, ledger: l, farms: farms, batches: batches, gen: gen, metrics: m}
}

// Escenario: finca sin restricciones ni lotes problemáticos → 100 y sin alertas.
func TestGetFarmCompliance_FincaLimpia(t *testing.T) {
	f := newFixture(t)
	out, err := f.uc.GetFarmCompliance(ctx, "farm-1", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 100, out.Score)
	assert.NotNil(t, out.Alerts)
	assert.Empty(t, out.Alerts)
	assert.Equal(t, 2, out.TotalAnimals)
	assert.Equal(t, now, out.EvaluatedAt)
	assert.Equal(t, 100, f.metrics.scores["farm-1"])
}

func TestGetFarmCompliance_ConRestriccionesYLotes(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.Record(entity.AdministrationEvent{
		AnimalID: "vaca-1", DrugID: "oxi", DrugName: "Oxitetraciclina",
		WithdrawalMilkDays: 4, AdministeredAt: now.AddDate(0, 0, -3),
	})
	require.NoError(t, err)
	require.NoError(t, f.batches.Create(ctx, &entity.DrugBatch{
		ID: "b-1", FarmID: "farm-1", DrugID: "oxi", BatchNumber: "OX-1",
		Quantity: decimal.NewFromInt(100), ExpiryDate: now.AddDate(0, 0, -1),
	}))
	farm, _ := f.farms.GetByID(ctx, "farm-1")
	farm.ViolationCount = 1
	require.NoError(t, f.farms.Update(ctx, farm))

	out, err := f.uc.GetFarmCompliance(ctx, "farm-1", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 100-5-10-15, out.Score)
	assert.Equal(t, 1, out.ActiveRestrictionsCount)
	assert.Equal(t, []string{"vaca-1"}, out.RestrictedAnimalIDs)
	assert.Equal(t, 1, out.BatchCounts["EXPIRED"])
	assert.Equal(t, 30, out.Penalties.Total)
	require.Len(t, out.Alerts, 2)
	assert.Equal(t, "warning", out.Alerts[0].Severity) // libera en 1 día
	assert.Equal(t, "error", out.Alerts[1].Severity)
	require.Len(t, out.Batches, 1)
	assert.Equal(t, "EXPIRED", out.Batches[0].Status)

	// antes del tratamiento el lote aún estaba por vencer
	past, err := f.uc.GetFarmCompliance(ctx, "farm-1", now.AddDate(0, 0, -5))
	require.NoError(t, err)
	assert.Equal(t, 100-2-15, past.Score)
	assert.Zero(t, past.ActiveRestrictionsCount)

	again, err := f.uc.GetFarmCompliance(ctx, "farm-1", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestGetFarmCompliance_FincaInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.GetFarmCompliance(ctx, "nada", time.Time{})
	var ref *domain.UnknownReferenceError
	require.ErrorAs(t, err, &ref)
	assert.Equal(t, "farm", ref.Kind)
	assert.ErrorIs(t, err, domain.ErrUnknownReference)
}

func TestExport(t *testing.T) {
	f := newFixture(t)
	data, ct, name, err := f.uc.Export(ctx, "farm-1", "pdf", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), data)
	assert.Equal(t, "application/pdf", ct)
	assert.Equal(t, "cumplimiento_farm-1_20240913.pdf", name)
	require.NotNil(t, f.gen.got)
	assert.Equal(t, "El Roble", f.gen.got.FarmName)

	_, _, _, err = f.uc.Export(ctx, "farm-1", "docx", time.Time{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	f.gen.err = errors.New("sin fuente")
	_, _, _, err = f.uc.Export(ctx, "farm-1", "pdf", time.Time{})
	assert.Error(t, err)
}

func TestNewUseCase_SinAgregador(t *testing.T) {
	_, err := compliance.NewUseCase(compliance.Deps{})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
