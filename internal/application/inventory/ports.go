package inventory

import (
	"context"

	"github.com/jhoicas/Ganaderia-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Garantiza atomicidad entre la cantidad del lote y su movimiento.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.BatchMovementRepository,
		batchRepo repository.DrugBatchRepository,
	) error) error
}
