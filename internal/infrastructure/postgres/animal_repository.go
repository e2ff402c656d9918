package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Ganaderia-api/internal/domain"
	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
	"github.com/jhoicas/Ganaderia-api/internal/domain/repository"
)

var _ repository.AnimalRepository = (*AnimalRepo)(nil)

// AnimalRepo implementación de AnimalRepository sobre PostgreSQL.
type AnimalRepo struct {
	q Querier
}

// NewAnimalRepository construye el adaptador de animales. Pasar pool o tx (Querier).
func NewAnimalRepository(q Querier) *AnimalRepo {
	return &AnimalRepo{q: q}
}

const animalColumns = `id, tag_id, species, breed, farm_id, created_at`

// Create persiste un animal. El arete es único por finca.
func (r *AnimalRepo) Create(ctx context.Context, a *entity.Animal) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO animals (`+animalColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.TagID, a.Species, a.Breed, a.FarmID, a.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert animal: %w", err)
	}
	return nil
}

// GetByID obtiene un animal por ID.
func (r *AnimalRepo) GetByID(ctx context.Context, id string) (*entity.Animal, error) {
	return r.getOne(ctx, `SELECT `+animalColumns+` FROM animals WHERE id = $1`, id)
}

// GetByFarmAndTag obtiene un animal por finca y arete.
func (r *AnimalRepo) GetByFarmAndTag(ctx context.Context, farmID, tagID string) (*entity.Animal, error) {
	return r.getOne(ctx, `SELECT `+animalColumns+` FROM animals WHERE farm_id = $1 AND tag_id = $2`, farmID, tagID)
}

func (r *AnimalRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Animal, error) {
	var a entity.Animal
	err := r.q.QueryRow(ctx, query, args...).Scan(&a.ID, &a.TagID, &a.Species, &a.Breed, &a.FarmID, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get animal: %w", err)
	}
	return &a, nil
}

// ListByFarm lista los animales de una finca ordenados por arete.
func (r *AnimalRepo) ListByFarm(ctx context.Context, farmID string) ([]*entity.Animal, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+animalColumns+` FROM animals WHERE farm_id = $1 ORDER BY tag_id`, farmID)
	if err != nil {
		return nil, fmt.Errorf("list animals: %w", err)
	}
	defer rows.Close()
	var list []*entity.Animal
	for rows.Next() {
		var a entity.Animal
		if err := rows.Scan(&a.ID, &a.TagID, &a.Species, &a.Breed, &a.FarmID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan animal: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
