package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
)

// BatchMovementRepository define el puerto de persistencia para movimientos de lote.
type BatchMovementRepository interface {
	Create(ctx context.Context, movement *entity.BatchMovement) error
	ListByBatch(ctx context.Context, batchID string, from, to *time.Time, limit, offset int) ([]*entity.BatchMovement, error)
}
