package repository

import (
	"context"

	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
)

// AdministrationRepository persiste el ledger de administraciones. Solo admite inserciones:
// no existe Update ni Delete. Se escribe después de registrar en el ledger en memoria y
// se lee completo al arrancar para rehidratarlo.
type AdministrationRepository interface {
	Append(ctx context.Context, event *entity.AdministrationEvent) error
	ListByAnimal(ctx context.Context, animalID string) ([]*entity.AdministrationEvent, error)
	// ListAll devuelve todos los eventos ordenados por sequence.
	ListAll(ctx context.Context) ([]*entity.AdministrationEvent, error)
}
