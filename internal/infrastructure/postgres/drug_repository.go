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

var _ repository.DrugRepository = (*DrugRepo)(nil)

// DrugRepo implementación de DrugRepository sobre PostgreSQL.
type DrugRepo struct {
	q Querier
}

// NewDrugRepository construye el adaptador del catálogo de fármacos. Pasar pool o tx (Querier).
func NewDrugRepository(q Querier) *DrugRepo {
	return &DrugRepo{q: q}
}

const drugColumns = `id, name, active_ingredient, category, withdrawal_period_meat_days, withdrawal_period_milk_days, mrl_limit, created_at`

// Create persiste un fármaco. El nombre es único en el catálogo.
func (r *DrugRepo) Create(ctx context.Context, d *entity.Drug) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO drugs (`+drugColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		d.ID, d.Name, d.ActiveIngredient, d.Category,
		d.WithdrawalPeriodMeatDays, d.WithdrawalPeriodMilkDays, d.MRLLimit, d.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert drug: %w", err)
	}
	return nil
}

// GetByID obtiene un fármaco por ID.
func (r *DrugRepo) GetByID(ctx context.Context, id string) (*entity.Drug, error) {
	return r.getOne(ctx, `SELECT `+drugColumns+` FROM drugs WHERE id = $1`, id)
}

// GetByName obtiene un fármaco por nombre (sin distinguir mayúsculas).
func (r *DrugRepo) GetByName(ctx context.Context, name string) (*entity.Drug, error) {
	return r.getOne(ctx, `SELECT `+drugColumns+` FROM drugs WHERE lower(name) = lower($1)`, name)
}

func (r *DrugRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Drug, error) {
	var d entity.Drug
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&d.ID, &d.Name, &d.ActiveIngredient, &d.Category,
		&d.WithdrawalPeriodMeatDays, &d.WithdrawalPeriodMilkDays, &d.MRLLimit, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get drug: %w", err)
	}
	return &d, nil
}

// Update actualiza el fármaco. Los eventos ya registrados conservan sus días copiados.
func (r *DrugRepo) Update(ctx context.Context, d *entity.Drug) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE drugs SET name = $2, active_ingredient = $3, category = $4,
			withdrawal_period_meat_days = $5, withdrawal_period_milk_days = $6, mrl_limit = $7
		WHERE id = $1`,
		d.ID, d.Name, d.ActiveIngredient, d.Category,
		d.WithdrawalPeriodMeatDays, d.WithdrawalPeriodMilkDays, d.MRLLimit,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update drug: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista el catálogo con paginación, por nombre.
func (r *DrugRepo) List(ctx context.Context, limit, offset int) ([]*entity.Drug, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+drugColumns+` FROM drugs ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list drugs: %w", err)
	}
	defer rows.Close()
	var list []*entity.Drug
	for rows.Next() {
		var d entity.Drug
		if err := rows.Scan(&d.ID, &d.Name, &d.ActiveIngredient, &d.Category,
			&d.WithdrawalPeriodMeatDays, &d.WithdrawalPeriodMilkDays, &d.MRLLimit, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan drug: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}
