package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
	"github.com/jhoicas/Ganaderia-api/internal/domain/repository"
)

var _ repository.BatchMovementRepository = (*BatchMovementRepo)(nil)

// BatchMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type BatchMovementRepo struct {
	q Querier
}

// NewBatchMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchMovementRepository(q Querier) *BatchMovementRepo {
	return &BatchMovementRepo{q: q}
}

// Create persiste un movimiento de lote.
func (r *BatchMovementRepo) Create(ctx context.Context, m *entity.BatchMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	createdBy := (*string)(nil)
	if m.CreatedBy != "" {
		createdBy = &m.CreatedBy
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO batch_movements (id, batch_id, type, quantity, reference, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.BatchID, m.Type, m.Quantity, m.Reference, m.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create batch movement: %w", err)
	}
	return nil
}

// ListByBatch lista movimientos de un lote en un rango de fechas, más recientes primero.
func (r *BatchMovementRepo) ListByBatch(ctx context.Context, batchID string, from, to *time.Time, limit, offset int) ([]*entity.BatchMovement, error) {
	query := `
		SELECT id, batch_id, type, quantity, reference, created_at, created_by
		FROM batch_movements WHERE batch_id = $1`
	args := []any{batchID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list by batch: %w", err)
	}
	defer rows.Close()
	var list []*entity.BatchMovement
	for rows.Next() {
		var m entity.BatchMovement
		var createdBy *string
		if err := rows.Scan(&m.ID, &m.BatchID, &m.Type, &m.Quantity, &m.Reference, &m.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if createdBy != nil {
			m.CreatedBy = *createdBy
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
