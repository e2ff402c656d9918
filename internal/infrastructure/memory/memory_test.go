package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/Ganaderia-api/internal/domain"
	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
	"github.com/jhoicas/Ganaderia-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)

func seedBatch(t *testing.T, s *Store) *entity.DrugBatch {
	t.Helper()
	b := &entity.DrugBatch{
		ID: "lote-1", FarmID: "finca-1", DrugID: "oxi", BatchNumber: "L-100",
		Quantity: decimal.NewFromInt(10), ExpiryDate: t0.AddDate(1, 0, 0), CreatedAt: t0, UpdatedAt: t0,
	}
	require.NoError(t, NewDrugBatchRepository(s).Create(context.Background(), b))
	return b
}

func TestDuplicates(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	animals := NewAnimalRepository(s)
	require.NoError(t, animals.Create(ctx, &entity.Animal{ID: "a1", FarmID: "finca-1", TagID: "CO-001"}))
	assert.ErrorIs(t, animals.Create(ctx, &entity.Animal{ID: "a2", FarmID: "finca-1", TagID: "CO-001"}), domain.ErrDuplicate)
	require.NoError(t, animals.Create(ctx, &entity.Animal{ID: "a3", FarmID: "finca-2", TagID: "CO-001"}))

	drugs := NewDrugRepository(s)
	require.NoError(t, drugs.Create(ctx, &entity.Drug{ID: "d1", Name: "Oxitetraciclina"}))
	assert.ErrorIs(t, drugs.Create(ctx, &entity.Drug{ID: "d2", Name: "OXITETRACICLINA"}), domain.ErrDuplicate)
	got, err := drugs.GetByName(ctx, "oxitetraciclina")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "d1", got.ID)

	seedBatch(t, s)
	dup := &entity.DrugBatch{ID: "lote-2", FarmID: "finca-1", DrugID: "oxi", BatchNumber: "L-100"}
	assert.ErrorIs(t, NewDrugBatchRepository(s).Create(ctx, dup), domain.ErrDuplicate)
}

func TestGetByIDMissingReturnsNil(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	f, err := NewFarmRepository(s).GetByID(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, f)
	b, err := NewDrugBatchRepository(s).GetByID(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, b)
	assert.ErrorIs(t, NewFarmRepository(s).Update(ctx, &entity.Farm{ID: "nope"}), domain.ErrNotFound)
}

func TestReturnedEntitiesAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	repo := NewFarmRepository(s)
	require.NoError(t, repo.Create(ctx, &entity.Farm{ID: "f1", Name: "La Esperanza"}))

	f, err := repo.GetByID(ctx, "f1")
	require.NoError(t, err)
	f.Name = "cambiado"

	again, err := repo.GetByID(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, "La Esperanza", again.Name)
}

func TestTxRunnerRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedBatch(t, s)
	boom := errors.New("boom")

	err := NewTxRunner(s).Run(ctx, func(movRepo repository.BatchMovementRepository, batchRepo repository.DrugBatchRepository) error {
		b, err := batchRepo.GetForUpdate(ctx, "lote-1")
		require.NoError(t, err)
		b.Quantity = decimal.NewFromInt(3)
		require.NoError(t, batchRepo.UpdateQuantity(ctx, b))
		require.NoError(t, movRepo.Create(ctx, &entity.BatchMovement{ID: "m1", BatchID: "lote-1", Type: entity.MovementTypeOUT, Quantity: decimal.NewFromInt(-7)}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	b, err := NewDrugBatchRepository(s).GetByID(ctx, "lote-1")
	require.NoError(t, err)
	assert.True(t, b.Quantity.Equal(decimal.NewFromInt(10)))
	movs, err := NewBatchMovementRepository(s).ListByBatch(ctx, "lote-1", nil, nil, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, movs)
}

func TestCommitHooks(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	calls := 0
	s.OnCommit(func(context.Context) error { calls++; return nil })

	seedBatch(t, s)
	assert.Equal(t, 1, calls)

	err := NewTxRunner(s).Run(ctx, func(movRepo repository.BatchMovementRepository, batchRepo repository.DrugBatchRepository) error {
		require.NoError(t, movRepo.Create(ctx, &entity.BatchMovement{ID: "m1", BatchID: "lote-1", Type: entity.MovementTypeIN, Quantity: decimal.NewFromInt(1)}))
		require.NoError(t, movRepo.Create(ctx, &entity.BatchMovement{ID: "m2", BatchID: "lote-1", Type: entity.MovementTypeIN, Quantity: decimal.NewFromInt(1)}))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "una transacción dispara un solo commit")

	hookErr := errors.New("disco lleno")
	s.OnCommit(func(context.Context) error { return hookErr })
	assert.ErrorIs(t, NewFarmRepository(s).Create(ctx, &entity.Farm{ID: "f1"}), hookErr)
}

func TestFailedCommitRestoresState(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedBatch(t, s)
	hookErr := errors.New("disco lleno")
	s.OnCommit(func(context.Context) error { return hookErr })

	err := NewTxRunner(s).Run(ctx, func(movRepo repository.BatchMovementRepository, batchRepo repository.DrugBatchRepository) error {
		b, err := batchRepo.GetForUpdate(ctx, "lote-1")
		require.NoError(t, err)
		b.Quantity = decimal.NewFromInt(4)
		require.NoError(t, batchRepo.UpdateQuantity(ctx, b))
		return movRepo.Create(ctx, &entity.BatchMovement{ID: "m1", BatchID: "lote-1", Type: entity.MovementTypeOUT, Quantity: decimal.NewFromInt(-6)})
	})
	assert.ErrorIs(t, err, hookErr)
	b, err := NewDrugBatchRepository(s).GetByID(ctx, "lote-1")
	require.NoError(t, err)
	assert.True(t, b.Quantity.Equal(decimal.NewFromInt(10)))
	movs, err := NewBatchMovementRepository(s).ListByBatch(ctx, "lote-1", nil, nil, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, movs)

	admins := NewAdministrationRepository(s)
	assert.ErrorIs(t, admins.Append(ctx, &entity.AdministrationEvent{ID: "e1", AnimalID: "a1", Sequence: 1}), hookErr)
	all, err := admins.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestListByBatchFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	repo := NewBatchMovementRepository(s)
	for i, id := range []string{"m1", "m2", "m3"} {
		require.NoError(t, repo.Create(ctx, &entity.BatchMovement{
			ID: id, BatchID: "lote-1", Type: entity.MovementTypeIN,
			Quantity: decimal.NewFromInt(1), CreatedAt: t0.Add(time.Duration(i) * time.Hour),
		}))
	}
	require.NoError(t, repo.Create(ctx, &entity.BatchMovement{ID: "otro", BatchID: "lote-2", CreatedAt: t0}))

	all, err := repo.ListByBatch(ctx, "lote-1", nil, nil, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "m3", all[0].ID)
	assert.Equal(t, "m1", all[2].ID)

	from := t0.Add(30 * time.Minute)
	ranged, err := repo.ListByBatch(ctx, "lote-1", &from, nil, 1, 0)
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "m3", ranged[0].ID)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedBatch(t, s)
	require.NoError(t, NewAdministrationRepository(s).Append(ctx, &entity.AdministrationEvent{ID: "e2", Sequence: 2, AnimalID: "a1"}))
	require.NoError(t, NewAdministrationRepository(s).Append(ctx, &entity.AdministrationEvent{ID: "e1", Sequence: 1, AnimalID: "a1"}))
	assert.ErrorIs(t, NewAdministrationRepository(s).Append(ctx, &entity.AdministrationEvent{ID: "e1", Sequence: 3}), domain.ErrDuplicate)

	other := NewStore()
	other.ImportState(s.ExportState())

	events, err := NewAdministrationRepository(other).ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "e1", events[0].ID)
	b, err := NewDrugBatchRepository(other).GetByID(ctx, "lote-1")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.True(t, b.Quantity.Equal(decimal.NewFromInt(10)))
}
