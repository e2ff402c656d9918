package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Ganaderia-api/internal/domain"
	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
	"github.com/jhoicas/Ganaderia-api/internal/domain/repository"
)

var _ repository.AdministrationRepository = (*AdministrationRepo)(nil)

// AdministrationRepo ledger de administraciones sobre PostgreSQL. Solo INSERT y SELECT.
type AdministrationRepo struct {
	q Querier
}

// NewAdministrationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdministrationRepository(q Querier) *AdministrationRepo {
	return &AdministrationRepo{q: q}
}

const administrationColumns = `id, sequence, animal_id, drug_id, drug_name, batch_id, withdrawal_meat_days, withdrawal_milk_days,
	administered_at, dose, dose_unit, route, purpose, expected_restriction, recorded_by, recorded_at`

// Append inserta el evento con la secuencia asignada por el ledger.
func (r *AdministrationRepo) Append(ctx context.Context, e *entity.AdministrationEvent) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO administration_events (`+administrationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		e.ID, e.Sequence, e.AnimalID, e.DrugID, e.DrugName, nullable(e.BatchID),
		e.WithdrawalMeatDays, e.WithdrawalMilkDays, e.AdministeredAt, e.Dose, e.DoseUnit,
		e.Route, e.Purpose, e.ExpectedRestriction, nullable(e.RecordedBy), e.RecordedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("append administration: %w", err)
	}
	return nil
}

// ListByAnimal lista los eventos de un animal en orden de registro.
func (r *AdministrationRepo) ListByAnimal(ctx context.Context, animalID string) ([]*entity.AdministrationEvent, error) {
	return r.list(ctx, `SELECT `+administrationColumns+` FROM administration_events WHERE animal_id = $1 ORDER BY sequence`, animalID)
}

// ListAll devuelve el ledger completo ordenado por sequence (rehidratación al arrancar).
func (r *AdministrationRepo) ListAll(ctx context.Context) ([]*entity.AdministrationEvent, error) {
	return r.list(ctx, `SELECT `+administrationColumns+` FROM administration_events ORDER BY sequence`)
}

func (r *AdministrationRepo) list(ctx context.Context, query string, args ...any) ([]*entity.AdministrationEvent, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list administrations: %w", err)
	}
	defer rows.Close()
	var list []*entity.AdministrationEvent
	for rows.Next() {
		var e entity.AdministrationEvent
		var batchID, recordedBy *string
		if err := rows.Scan(&e.ID, &e.Sequence, &e.AnimalID, &e.DrugID, &e.DrugName, &batchID,
			&e.WithdrawalMeatDays, &e.WithdrawalMilkDays, &e.AdministeredAt, &e.Dose, &e.DoseUnit,
			&e.Route, &e.Purpose, &e.ExpectedRestriction, &recordedBy, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan administration: %w", err)
		}
		if batchID != nil {
			e.BatchID = *batchID
		}
		if recordedBy != nil {
			e.RecordedBy = *recordedBy
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
