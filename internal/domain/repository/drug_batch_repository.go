package repository

import (
	"context"

	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
)

// DrugBatchRepository define el puerto para lotes de fármaco de una finca.
// Usado dentro de transacciones para garantizar consistencia de la cantidad.
type DrugBatchRepository interface {
	Create(ctx context.Context, batch *entity.DrugBatch) error
	GetByID(ctx context.Context, id string) (*entity.DrugBatch, error)
	// GetForUpdate bloquea la fila del lote (SELECT FOR UPDATE) hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.DrugBatch, error)
	// UpdateQuantity solo toca cantidad y updated_at; el resto del lote es inmutable.
	UpdateQuantity(ctx context.Context, batch *entity.DrugBatch) error
	ListByFarm(ctx context.Context, farmID string) ([]*entity.DrugBatch, error)
}
