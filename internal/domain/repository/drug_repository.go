package repository

import (
	"context"

	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
)

// DrugRepository define el puerto de persistencia para el catálogo de fármacos (DIP).
// GetByID devuelve (nil, nil) cuando el fármaco no existe.
type DrugRepository interface {
	Create(ctx context.Context, drug *entity.Drug) error
	GetByID(ctx context.Context, id string) (*entity.Drug, error)
	GetByName(ctx context.Context, name string) (*entity.Drug, error)
	Update(ctx context.Context, drug *entity.Drug) error
	List(ctx context.Context, limit, offset int) ([]*entity.Drug, error)
}
