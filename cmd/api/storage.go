package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/Ganaderia-api/internal/application/inventory"
	"github.com/jhoicas/Ganaderia-api/internal/domain/repository"
	"github.com/jhoicas/Ganaderia-api/internal/infrastructure/memory"
	"github.com/jhoicas/Ganaderia-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Ganaderia-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/Ganaderia-api/pkg/config"
)

// storage repositorios de un mismo backend y su función de cierre.
type storage struct {
	farms           repository.FarmRepository
	animals         repository.AnimalRepository
	drugs           repository.DrugRepository
	batches         repository.DrugBatchRepository
	movements       repository.BatchMovementRepository
	administrations repository.AdministrationRepository
	txRunner        inventory.TxRunner
	close           func()
}

// openStorage abre el backend indicado por DB_DRIVER.
func openStorage(ctx context.Context, cfg config.DBConfig) (*storage, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &storage{
			farms:           postgres.NewFarmRepository(pool),
			animals:         postgres.NewAnimalRepository(pool),
			drugs:           postgres.NewDrugRepository(pool),
			batches:         postgres.NewDrugBatchRepository(pool),
			movements:       postgres.NewBatchMovementRepository(pool),
			administrations: postgres.NewAdministrationRepository(pool),
			txRunner:        postgres.NewTxRunner(pool),
			close:           pool.Close,
		}, nil
	case config.DriverSQLite:
		st, err := sqlite.NewStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		s := memoryStorage(st.Store)
		s.close = func() { _ = st.Close() }
		return s, nil
	case config.DriverMemory:
		return memoryStorage(memory.NewStore()), nil
	}
	return nil, fmt.Errorf("DB_DRIVER desconocido: %q", cfg.Driver)
}

func memoryStorage(s *memory.Store) *storage {
	return &storage{
		farms:           memory.NewFarmRepository(s),
		animals:         memory.NewAnimalRepository(s),
		drugs:           memory.NewDrugRepository(s),
		batches:         memory.NewDrugBatchRepository(s),
		movements:       memory.NewBatchMovementRepository(s),
		administrations: memory.NewAdministrationRepository(s),
		txRunner:        memory.NewTxRunner(s),
		close:           func() {},
	}
}
