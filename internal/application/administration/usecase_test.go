package administration_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ganaderia-api/internal/application/administration"
	"github.com/jhoicas/Ganaderia-api/internal/application/dto"
	"github.com/jhoicas/Ganaderia-api/internal/application/inventory"
	"github.com/jhoicas/Ganaderia-api/internal/domain"
	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
	"github.com/jhoicas/Ganaderia-api/internal/domain/ledger"
	"github.com/jhoicas/Ganaderia-api/internal/domain/repository"
	"github.com/jhoicas/Ganaderia-api/internal/infrastructure/memory"
	"github.com/jhoicas/Ganaderia-api/pkg/clock"
)

var (
	ctx       = context.Background()
	treated   = time.Date(2024, 9, 10, 8, 0, 0, 0, time.UTC)
	inspected = time.Date(2024, 9, 13, 8, 0, 0, 0, time.UTC)
)

type fixture struct {
	store   *memory.Store
	clock   *clock.Fixed
	uc      *administration.UseCase
	drugs   *memory.DrugRepo
	batches *memory.DrugBatchRepo
	movs    *memory.BatchMovementRepo
	metrics *fakeMetrics
}

type fakeMetrics struct {
	recorded []string
	rejected []string
}

func (m *fakeMetrics) AdministrationRecorded(route string)  { m.recorded = append(m.recorded, route) }
func (m *fakeMetrics) AdministrationRejected(reason string) { m.rejected = append(m.rejected, reason) }

// failingRepo simula una base caída al persistir.
type failingRepo struct {
	repository.AdministrationRepository
}

func (failingRepo) Append(context.Context, *entity.AdministrationEvent) error {
	return errors.New("db down")
}

func newFixture(t *testing.T, opts ...func(*administration.Deps)) *fixture {
	t.Helper()
	s := memory.NewStore()
	c := clock.NewFixed(inspected)
	farms := memory.NewFarmRepository(s)
	animals := memory.NewAnimalRepository(s)
	drugs := memory.NewDrugRepository(s)
	batches := memory.NewDrugBatchRepository(s)
	movs := memory.NewBatchMovementRepository(s)

	require.NoError(t, farms.Create(ctx, &entity.Farm{ID: "farm-1", Name: "El Roble"}))
	require.NoError(t, farms.Create(ctx, &entity.Farm{ID: "farm-2", Name: "La Ceiba"}))
	require.NoError(t, animals.Create(ctx, &entity.Animal{ID: "vaca-1", TagID: "CO-0001", FarmID: "farm-1", Species: "bovino"}))
	require.NoError(t, animals.Create(ctx, &entity.Animal{ID: "vaca-2", TagID: "CO-0002", FarmID: "farm-1", Species: "bovino"}))
	require.NoError(t, drugs.Create(ctx, &entity.Drug{ID: "oxi", Name: "Oxitetraciclina", WithdrawalPeriodMeatDays: 0, WithdrawalPeriodMilkDays: 4}))
	require.NoError(t, drugs.Create(ctx, &entity.Drug{ID: "ive", Name: "Ivermectina", WithdrawalPeriodMeatDays: 35, WithdrawalPeriodMilkDays: 0}))
	require.NoError(t, batches.Create(ctx, &entity.DrugBatch{
		ID: "lote-oxi", FarmID: "farm-1", DrugID: "oxi", BatchNumber: "OX-01",
		Quantity: decimal.NewFromInt(100), Unit: "ml", ExpiryDate: inspected.AddDate(1, 0, 0),
		LowStockThreshold: decimal.NewFromInt(20),
	}))

	m := &fakeMetrics{}
	tx := memory.NewTxRunner(s)
	deps := administration.Deps{
		Ledger:     ledger.New(c, ledger.DefaultClockTolerance),
		Repo:       memory.NewAdministrationRepository(s),
		AnimalRepo: animals,
		DrugRepo:   drugs,
		BatchRepo:  batches,
		TxRunner:   tx,
		Movements:  inventory.NewRegisterMovementUseCase(tx, batches, c),
		Clock:      c,
		Metrics:    m,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	uc := administration.NewUseCase(deps)
	return &fixture{store: s, clock: c, uc: uc, drugs: drugs, batches: batches, movs: movs, metrics: m}
}

// Escenario: oxitetraciclina (leche 4 días) aplicada el 10/09; el 13/09 la leche sigue restringida 1 día.
func TestRecordAdministration_RetiroDeLeche(t *testing.T) {
	f := newFixture(t)
	resp, err := f.uc.RecordAdministration(ctx, "farm-1", "vet-1", "vaca-1", dto.RecordAdministrationRequest{
		DrugID: "oxi", AdministeredAt: treated, Dose: decimal.NewFromInt(10), DoseUnit: "ml", Route: entity.RouteIntramuscular,
	})
	require.NoError(t, err)
	assert.Equal(t, "Oxitetraciclina", resp.DrugName)
	assert.Equal(t, 4, resp.WithdrawalMilkDays)
	assert.Equal(t, int64(1), resp.Sequence)
	assert.Equal(t, []string{entity.RouteIntramuscular}, f.metrics.recorded)

	status, err := f.uc.GetWithdrawalStatus(ctx, "farm-1", "vaca-1", time.Time{})
	require.NoError(t, err)
	assert.True(t, status.IsRestricted)
	assert.True(t, status.MilkRestricted)
	assert.False(t, status.MeatRestricted)
	require.Len(t, status.Restrictions, 1)
	r := status.Restrictions[0]
	assert.Equal(t, "milk", r.Product)
	assert.Equal(t, "ACTIVE", r.Status)
	assert.Equal(t, 1, r.DaysRemaining)
	assert.Equal(t, treated.Add(4*24*time.Hour), r.SafeAfter)
	require.NotNil(t, status.SafeForMilkAt)
	assert.Equal(t, treated.Add(4*24*time.Hour), *status.SafeForMilkAt)

	// reconstrucción en el instante en que vence el retiro
	status, err = f.uc.GetWithdrawalStatus(ctx, "farm-1", "vaca-1", treated.Add(4*24*time.Hour))
	require.NoError(t, err)
	assert.False(t, status.IsRestricted)
	assert.Empty(t, status.Restrictions)
}

func TestRecordAdministration_SobrescribeDiasDelFarmaco(t *testing.T) {
	f := newFixture(t)
	meat, milk := 10, 0
	resp, err := f.uc.RecordAdministration(ctx, "", "vet-1", "vaca-1", dto.RecordAdministrationRequest{
		DrugID: "oxi", AdministeredAt: treated, WithdrawalMeatDays: &meat, WithdrawalMilkDays: &milk,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, resp.WithdrawalMeatDays)
	assert.Equal(t, 0, resp.WithdrawalMilkDays)
}

func TestRecordAdministration_Errores(t *testing.T) {
	neg := -1
	tests := []struct {
		name     string
		animalID string
		farmID   string
		req      dto.RecordAdministrationRequest
		target   error
		reason   string
	}{
		{"animal desconocido", "vaca-x", "", dto.RecordAdministrationRequest{DrugID: "oxi", AdministeredAt: treated}, domain.ErrUnknownReference, "unknown_reference"},
		{"fármaco desconocido", "vaca-1", "", dto.RecordAdministrationRequest{DrugID: "nada", AdministeredAt: treated}, domain.ErrUnknownReference, "unknown_reference"},
		{"días negativos", "vaca-1", "", dto.RecordAdministrationRequest{DrugID: "oxi", AdministeredAt: treated, WithdrawalMilkDays: &neg}, domain.ErrInvalidEvent, "invalid_event"},
		{"fecha futura", "vaca-1", "", dto.RecordAdministrationRequest{DrugID: "oxi", AdministeredAt: inspected.Add(time.Hour)}, domain.ErrInvalidEvent, "invalid_event"},
		{"sin fecha", "vaca-1", "", dto.RecordAdministrationRequest{DrugID: "oxi"}, domain.ErrInvalidEvent, "invalid_event"},
		{"vía desconocida", "vaca-1", "", dto.RecordAdministrationRequest{DrugID: "oxi", AdministeredAt: treated, Route: "nasal"}, domain.ErrInvalidInput, "validation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.uc.RecordAdministration(ctx, tt.farmID, "vet-1", tt.animalID, tt.req)
			assert.ErrorIs(t, err, tt.target)
			assert.Equal(t, []string{tt.reason}, f.metrics.rejected)
			assert.Equal(t, 0, f.uc.Ledger().Len(), "el ledger no cambia ante un rechazo")
		})
	}
}

func TestRecordAdministration_AnimalDeOtraFinca(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.RecordAdministration(ctx, "farm-2", "vet-1", "vaca-1", dto.RecordAdministrationRequest{DrugID: "oxi", AdministeredAt: treated})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRecordAdministration_DescuentaDelLote(t *testing.T) {
	f := newFixture(t)
	resp, err := f.uc.RecordAdministration(ctx, "farm-1", "vet-1", "vaca-1", dto.RecordAdministrationRequest{
		DrugID: "oxi", BatchID: "lote-oxi", AdministeredAt: treated, Dose: decimal.NewFromInt(15), DoseUnit: "ml",
	})
	require.NoError(t, err)

	b, err := f.batches.GetByID(ctx, "lote-oxi")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(85).Equal(b.Quantity))

	movs, err := f.movs.ListByBatch(ctx, "lote-oxi", nil, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeOUT, movs[0].Type)
	assert.True(t, decimal.NewFromInt(-15).Equal(movs[0].Quantity))
	assert.Contains(t, movs[0].Reference, resp.ID)
}

func TestRecordAdministration_StockInsuficienteNoRegistra(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.RecordAdministration(ctx, "farm-1", "vet-1", "vaca-1", dto.RecordAdministrationRequest{
		DrugID: "oxi", BatchID: "lote-oxi", AdministeredAt: treated, Dose: decimal.NewFromInt(500),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 0, f.uc.Ledger().Len())

	b, _ := f.batches.GetByID(ctx, "lote-oxi")
	assert.True(t, decimal.NewFromInt(100).Equal(b.Quantity), "la transacción se revierte")
}

func TestRecordAdministration_LoteDeOtroFarmaco(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.RecordAdministration(ctx, "farm-1", "vet-1", "vaca-1", dto.RecordAdministrationRequest{
		DrugID: "ive", BatchID: "lote-oxi", AdministeredAt: treated, Dose: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidEvent)
}

func TestRecordAdministration_LoteVencido(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.batches.Create(ctx, &entity.DrugBatch{
		ID: "lote-viejo", FarmID: "farm-1", DrugID: "oxi", BatchNumber: "OX-00",
		Quantity: decimal.NewFromInt(50), ExpiryDate: treated.Add(-24 * time.Hour),
	}))
	_, err := f.uc.RecordAdministration(ctx, "farm-1", "vet-1", "vaca-1", dto.RecordAdministrationRequest{
		DrugID: "oxi", BatchID: "lote-viejo", AdministeredAt: treated, Dose: decimal.NewFromInt(1),
	})
	var ie *domain.InvalidEventError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "batch_id", ie.Field)
}

// Si la persistencia falla, el evento sale del ledger y la dosis vuelve al lote: el reintento no duplica.
func TestRecordAdministration_FallaAlPersistirDeshaceTodo(t *testing.T) {
	f := newFixture(t, func(d *administration.Deps) {
		d.Repo = failingRepo{d.Repo}
	})
	_, err := f.uc.RecordAdministration(ctx, "farm-1", "vet-1", "vaca-1", dto.RecordAdministrationRequest{
		DrugID: "oxi", BatchID: "lote-oxi", AdministeredAt: treated, Dose: decimal.NewFromInt(15), DoseUnit: "ml",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")

	assert.Equal(t, 0, f.uc.Ledger().Len())
	assert.Empty(t, f.uc.Ledger().History("vaca-1"))
	status, err := f.uc.GetWithdrawalStatus(ctx, "farm-1", "vaca-1", time.Time{})
	require.NoError(t, err)
	assert.False(t, status.IsRestricted)

	b, err := f.batches.GetByID(ctx, "lote-oxi")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(b.Quantity), "la dosis vuelve al lote")

	movs, err := f.movs.ListByBatch(ctx, "lote-oxi", nil, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	types := []string{movs[0].Type, movs[1].Type}
	assert.ElementsMatch(t, []string{entity.MovementTypeOUT, entity.MovementTypeIN}, types)
	assert.Empty(t, f.metrics.recorded)
}

func TestRecordAdministration_FallaAlPersistirSinLote(t *testing.T) {
	f := newFixture(t, func(d *administration.Deps) {
		d.Repo = failingRepo{d.Repo}
	})
	_, err := f.uc.RecordAdministration(ctx, "", "vet-1", "vaca-1", dto.RecordAdministrationRequest{DrugID: "ive", AdministeredAt: treated})
	require.Error(t, err)
	assert.Equal(t, 0, f.uc.Ledger().Len())
	assert.Empty(t, f.uc.Ledger().ActiveRestrictions("vaca-1", inspected))
}

// Un Commit fallido revierte el descuento del lote y retira el evento del ledger.
func TestRecordAdministration_FallaElCommit(t *testing.T) {
	f := newFixture(t)
	f.store.OnCommit(func(context.Context) error { return errors.New("disco lleno") })

	_, err := f.uc.RecordAdministration(ctx, "farm-1", "vet-1", "vaca-1", dto.RecordAdministrationRequest{
		DrugID: "oxi", BatchID: "lote-oxi", AdministeredAt: treated, Dose: decimal.NewFromInt(15),
	})
	require.Error(t, err)
	assert.Equal(t, 0, f.uc.Ledger().Len())

	b, err := f.batches.GetByID(ctx, "lote-oxi")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(b.Quantity))
}

// Cambiar el periodo de retiro del fármaco no altera las administraciones ya registradas.
func TestRecordAdministration_CambioDeFarmacoNoAlteraHistorial(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.RecordAdministration(ctx, "farm-1", "vet-1", "vaca-1", dto.RecordAdministrationRequest{DrugID: "oxi", AdministeredAt: treated})
	require.NoError(t, err)

	drug, err := f.drugs.GetByID(ctx, "oxi")
	require.NoError(t, err)
	drug.WithdrawalPeriodMeatDays = 40
	drug.WithdrawalPeriodMilkDays = 10
	require.NoError(t, f.drugs.Update(ctx, drug))

	h, err := f.uc.History(ctx, "farm-1", "vaca-1")
	require.NoError(t, err)
	require.Len(t, h.Items, 1)
	assert.Equal(t, 0, h.Items[0].WithdrawalMeatDays)
	assert.Equal(t, 4, h.Items[0].WithdrawalMilkDays)

	status, err := f.uc.GetWithdrawalStatus(ctx, "farm-1", "vaca-1", time.Time{})
	require.NoError(t, err)
	assert.False(t, status.MeatRestricted)
	require.NotNil(t, status.SafeForMilkAt)
	assert.Equal(t, treated.Add(4*24*time.Hour), *status.SafeForMilkAt)

	// el próximo tratamiento sí toma los días nuevos
	resp, err := f.uc.RecordAdministration(ctx, "farm-1", "vet-1", "vaca-2", dto.RecordAdministrationRequest{DrugID: "oxi", AdministeredAt: treated})
	require.NoError(t, err)
	assert.Equal(t, 40, resp.WithdrawalMeatDays)
	assert.Equal(t, 10, resp.WithdrawalMilkDays)
}

func TestConsultas_AnimalDesconocido(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.GetWithdrawalStatus(ctx, "farm-1", "vaca-x", time.Time{})
	var ref *domain.UnknownReferenceError
	require.ErrorAs(t, err, &ref)
	assert.Equal(t, "animal", ref.Kind)
	assert.Equal(t, "vaca-x", ref.ID)
	assert.ErrorIs(t, err, domain.ErrUnknownReference)

	_, err = f.uc.History(ctx, "farm-1", "vaca-x")
	assert.ErrorIs(t, err, domain.ErrUnknownReference)
}

// Un evento retroactivo queda al final del historial aunque su fecha sea anterior.
func TestHistory_OrdenDeRegistro(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.RecordAdministration(ctx, "", "vet-1", "vaca-1", dto.RecordAdministrationRequest{DrugID: "oxi", AdministeredAt: treated})
	require.NoError(t, err)
	_, err = f.uc.RecordAdministration(ctx, "", "vet-1", "vaca-1", dto.RecordAdministrationRequest{DrugID: "ive", AdministeredAt: treated.AddDate(0, 0, -20)})
	require.NoError(t, err)

	h, err := f.uc.History(ctx, "farm-1", "vaca-1")
	require.NoError(t, err)
	require.Len(t, h.Items, 2)
	assert.Equal(t, "oxi", h.Items[0].DrugID)
	assert.Equal(t, "ive", h.Items[1].DrugID)
}

func TestRestrictedAnimals(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.RecordAdministration(ctx, "", "vet-1", "vaca-2", dto.RecordAdministrationRequest{DrugID: "ive", AdministeredAt: treated})
	require.NoError(t, err)

	out, err := f.uc.RestrictedAnimals(ctx, "farm-1", time.Time{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "CO-0002", out.Items[0].TagID)
	require.NotNil(t, out.Items[0].SafeForMeatAt)
	assert.Nil(t, out.Items[0].SafeForMilkAt)

	// antes del tratamiento no había restricciones
	out, err = f.uc.RestrictedAnimals(ctx, "farm-1", treated.Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, out.Items)
}

// Lo persistido se recupera en un ledger nuevo con las mismas secuencias.
func TestHydrate(t *testing.T) {
	f := newFixture(t)
	for _, drug := range []string{"oxi", "ive"} {
		_, err := f.uc.RecordAdministration(ctx, "", "vet-1", "vaca-1", dto.RecordAdministrationRequest{DrugID: drug, AdministeredAt: treated})
		require.NoError(t, err)
	}

	fresh := administration.NewUseCase(administration.Deps{
		Ledger:     ledger.New(f.clock, ledger.DefaultClockTolerance),
		Repo:       memory.NewAdministrationRepository(f.store),
		AnimalRepo: memory.NewAnimalRepository(f.store),
		DrugRepo:   memory.NewDrugRepository(f.store),
		Clock:      f.clock,
	})
	n, err := fresh.Hydrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	before, err := f.uc.GetWithdrawalStatus(ctx, "", "vaca-1", time.Time{})
	require.NoError(t, err)
	after, err := fresh.GetWithdrawalStatus(ctx, "", "vaca-1", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
