package repository

import (
	"context"

	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
)

// FarmRepository define el puerto de persistencia para Farm (DIP).
// La implementación vive en infrastructure.
type FarmRepository interface {
	Create(ctx context.Context, farm *entity.Farm) error
	GetByID(ctx context.Context, id string) (*entity.Farm, error)
	Update(ctx context.Context, farm *entity.Farm) error
	List(ctx context.Context, limit, offset int) ([]*entity.Farm, error)
}
