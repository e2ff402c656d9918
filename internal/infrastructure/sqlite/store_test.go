package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
	"github.com/jhoicas/Ganaderia-api/internal/domain/repository"
	"github.com/jhoicas/Ganaderia-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "ganaderia.db")
	at := time.Date(2024, 9, 10, 8, 0, 0, 0, time.UTC)

	s, err := NewStore(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path())

	require.NoError(t, memory.NewFarmRepository(s.Store).Create(ctx, &entity.Farm{ID: "finca-1", Name: "El Roble", CreatedAt: at}))
	require.NoError(t, memory.NewDrugBatchRepository(s.Store).Create(ctx, &entity.DrugBatch{
		ID: "lote-1", FarmID: "finca-1", DrugID: "oxi", BatchNumber: "L-1",
		Quantity: decimal.RequireFromString("12.5"), ExpiryDate: at.AddDate(0, 6, 0),
	}))
	require.NoError(t, memory.NewAdministrationRepository(s.Store).Append(ctx, &entity.AdministrationEvent{
		ID: "ev-1", Sequence: 1, AnimalID: "vaca-1", DrugID: "oxi", WithdrawalMilkDays: 4, AdministeredAt: at,
	}))
	err = memory.NewTxRunner(s.Store).Run(ctx, func(movRepo repository.BatchMovementRepository, batchRepo repository.DrugBatchRepository) error {
		b, err := batchRepo.GetForUpdate(ctx, "lote-1")
		if err != nil {
			return err
		}
		b.Quantity = b.Quantity.Sub(decimal.NewFromInt(2))
		if err := batchRepo.UpdateQuantity(ctx, b); err != nil {
			return err
		}
		return movRepo.Create(ctx, &entity.BatchMovement{ID: "m1", BatchID: "lote-1", Type: entity.MovementTypeOUT, Quantity: decimal.NewFromInt(-2), CreatedAt: at})
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := NewStore(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	farm, err := memory.NewFarmRepository(reopened.Store).GetByID(ctx, "finca-1")
	require.NoError(t, err)
	require.NotNil(t, farm)
	assert.Equal(t, "El Roble", farm.Name)

	batch, err := memory.NewDrugBatchRepository(reopened.Store).GetByID(ctx, "lote-1")
	require.NoError(t, err)
	require.NotNil(t, batch)
	assert.True(t, batch.Quantity.Equal(decimal.RequireFromString("10.5")), batch.Quantity.String())

	events, err := memory.NewAdministrationRepository(reopened.Store).ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 4, events[0].WithdrawalMilkDays)
	assert.True(t, events[0].AdministeredAt.Equal(at))

	movs, err := memory.NewBatchMovementRepository(reopened.Store).ListByBatch(ctx, "lote-1", nil, nil, 0, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}

func TestNewStoreEmptyFile(t *testing.T) {
	s, err := NewStore(context.Background(), filepath.Join(t.TempDir(), "vacio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	assert.Empty(t, s.ExportState().Farms)
}
