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

var _ repository.DrugBatchRepository = (*DrugBatchRepo)(nil)

// DrugBatchRepo implementación de DrugBatchRepository sobre PostgreSQL (usable con pool o tx).
type DrugBatchRepo struct {
	q Querier
}

// NewDrugBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewDrugBatchRepository(q Querier) *DrugBatchRepo {
	return &DrugBatchRepo{q: q}
}

const batchColumns = `id, farm_id, drug_id, batch_number, quantity, unit, manufacturer, expiry_date, low_stock_threshold, created_at, updated_at`

// Create persiste un lote. (finca, fármaco, número de lote) es único.
func (r *DrugBatchRepo) Create(ctx context.Context, b *entity.DrugBatch) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO drug_batches (`+batchColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		b.ID, b.FarmID, b.DrugID, b.BatchNumber, b.Quantity, b.Unit, b.Manufacturer,
		b.ExpiryDate, b.LowStockThreshold, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert drug batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *DrugBatchRepo) GetByID(ctx context.Context, id string) (*entity.DrugBatch, error) {
	return r.getOne(ctx, `SELECT `+batchColumns+` FROM drug_batches WHERE id = $1`, id)
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE). Solo tiene efecto dentro de una tx.
func (r *DrugBatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.DrugBatch, error) {
	return r.getOne(ctx, `SELECT `+batchColumns+` FROM drug_batches WHERE id = $1 FOR UPDATE`, id)
}

func (r *DrugBatchRepo) getOne(ctx context.Context, query string, args ...any) (*entity.DrugBatch, error) {
	var b entity.DrugBatch
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&b.ID, &b.FarmID, &b.DrugID, &b.BatchNumber, &b.Quantity, &b.Unit, &b.Manufacturer,
		&b.ExpiryDate, &b.LowStockThreshold, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get drug batch: %w", err)
	}
	return &b, nil
}

// UpdateQuantity actualiza solo la cantidad (usado por el motor de movimientos).
func (r *DrugBatchRepo) UpdateQuantity(ctx context.Context, b *entity.DrugBatch) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE drug_batches SET quantity = $2, updated_at = $3 WHERE id = $1`,
		b.ID, b.Quantity, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update batch quantity: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByFarm lista los lotes de una finca, primero los que vencen antes.
func (r *DrugBatchRepo) ListByFarm(ctx context.Context, farmID string) ([]*entity.DrugBatch, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+batchColumns+` FROM drug_batches WHERE farm_id = $1 ORDER BY expiry_date, id`, farmID)
	if err != nil {
		return nil, fmt.Errorf("list drug batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.DrugBatch
	for rows.Next() {
		var b entity.DrugBatch
		if err := rows.Scan(&b.ID, &b.FarmID, &b.DrugID, &b.BatchNumber, &b.Quantity, &b.Unit, &b.Manufacturer,
			&b.ExpiryDate, &b.LowStockThreshold, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan drug batch: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
