package repository

import (
	"context"

	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
)

// AnimalRepository define el puerto de persistencia para Animal (DIP).
type AnimalRepository interface {
	Create(ctx context.Context, animal *entity.Animal) error
	GetByID(ctx context.Context, id string) (*entity.Animal, error)
	GetByFarmAndTag(ctx context.Context, farmID, tagID string) (*entity.Animal, error)
	ListByFarm(ctx context.Context, farmID string) ([]*entity.Animal, error)
}
