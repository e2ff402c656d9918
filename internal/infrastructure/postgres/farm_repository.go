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

var _ repository.FarmRepository = (*FarmRepo)(nil)

// FarmRepo implementación de FarmRepository sobre PostgreSQL.
type FarmRepo struct {
	q Querier
}

// NewFarmRepository construye el adaptador de fincas. Pasar pool o tx (Querier).
func NewFarmRepository(q Querier) *FarmRepo {
	return &FarmRepo{q: q}
}

const farmColumns = `id, name, owner, location, violation_count, created_at`

// Create persiste una finca nueva.
func (r *FarmRepo) Create(ctx context.Context, f *entity.Farm) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO farms (`+farmColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		f.ID, f.Name, f.Owner, f.Location, f.ViolationCount, f.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert farm: %w", err)
	}
	return nil
}

// GetByID obtiene una finca por ID.
func (r *FarmRepo) GetByID(ctx context.Context, id string) (*entity.Farm, error) {
	var f entity.Farm
	err := r.q.QueryRow(ctx, `SELECT `+farmColumns+` FROM farms WHERE id = $1`, id).Scan(
		&f.ID, &f.Name, &f.Owner, &f.Location, &f.ViolationCount, &f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get farm: %w", err)
	}
	return &f, nil
}

// Update actualiza datos descriptivos y el conteo de infracciones.
func (r *FarmRepo) Update(ctx context.Context, f *entity.Farm) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE farms SET name = $2, owner = $3, location = $4, violation_count = $5 WHERE id = $1`,
		f.ID, f.Name, f.Owner, f.Location, f.ViolationCount,
	)
	if err != nil {
		return fmt.Errorf("update farm: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista fincas con paginación, por nombre.
func (r *FarmRepo) List(ctx context.Context, limit, offset int) ([]*entity.Farm, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+farmColumns+` FROM farms ORDER BY name, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list farms: %w", err)
	}
	defer rows.Close()
	var list []*entity.Farm
	for rows.Next() {
		var f entity.Farm
		if err := rows.Scan(&f.ID, &f.Name, &f.Owner, &f.Location, &f.ViolationCount, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan farm: %w", err)
		}
		list = append(list, &f)
	}
	return list, rows.Err()
}
