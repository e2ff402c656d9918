package memory

import (
	"context"

	"github.com/jhoicas/Ganaderia-api/internal/application/inventory"
	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
	"github.com/jhoicas/Ganaderia-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner serializa las transacciones y restaura lotes y movimientos si fn falla.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn con repos atados a la tx; Rollback restaura el estado previo, Commit dispara los hooks.
// Si un hook falla, el estado también se restaura.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.BatchMovementRepository,
	batchRepo repository.DrugBatchRepository,
) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	r.s.mu.RLock()
	savedBatches := make(map[string]entity.DrugBatch, len(r.s.batches))
	for k, v := range r.s.batches {
		savedBatches[k] = v
	}
	savedMovements := len(r.s.movements)
	r.s.mu.RUnlock()

	rollback := func() {
		r.s.mu.Lock()
		r.s.batches = savedBatches
		r.s.movements = r.s.movements[:savedMovements]
		r.s.mu.Unlock()
	}
	b := base{s: r.s, inTx: true}
	if err := fn(&BatchMovementRepo{b}, &DrugBatchRepo{b}); err != nil {
		rollback()
		return err
	}
	if err := r.s.commit(ctx); err != nil {
		rollback()
		return err
	}
	return nil
}
