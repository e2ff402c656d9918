package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ganaderia-api/internal/domain"
	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
	"github.com/jhoicas/Ganaderia-api/internal/domain/repository"
	"github.com/jhoicas/Ganaderia-api/pkg/clock"
)

// RegisterMovementUseCase registra movimientos de lote de forma transaccional
// (IN, OUT, ADJUSTMENT) con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
type RegisterMovementUseCase struct {
	txRunner  TxRunner
	batchRepo repository.DrugBatchRepository
	clock     clock.Clock
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner, batchRepo repository.DrugBatchRepository, c clock.Clock) *RegisterMovementUseCase {
	if c == nil {
		c = clock.System{}
	}
	return &RegisterMovementUseCase{txRunner: txRunner, batchRepo: batchRepo, clock: c}
}

// MovementInputDTO entrada para registrar un movimiento de lote.
// IN y OUT exigen cantidad positiva; ADJUSTMENT acepta signo (positivo suma, negativo resta).
// FarmID vacío omite la verificación de pertenencia (uso interno).
type MovementInputDTO struct {
	FarmID    string
	UserID    string
	BatchID   string
	Type      string
	Quantity  decimal.Decimal
	Reference string
}

// RegisterMovement inicia una transacción, bloquea la fila del lote, aplica la lógica según tipo
// y hace Commit o Rollback. Una salida que deje el lote en negativo falla con ErrInsufficientStock.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInputDTO) (*entity.BatchMovement, error) {
	if input.BatchID == "" {
		return nil, domain.ErrInvalidInput
	}
	switch input.Type {
	case entity.MovementTypeIN, entity.MovementTypeOUT:
		if !input.Quantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
	case entity.MovementTypeADJUSTMENT:
		if input.Quantity.IsZero() {
			return nil, domain.ErrInvalidInput
		}
	default:
		return nil, domain.ErrInvalidInput
	}

	batch, err := uc.batchRepo.GetByID(ctx, input.BatchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, &domain.UnknownReferenceError{Kind: "batch", ID: input.BatchID}
	}
	if input.FarmID != "" && batch.FarmID != input.FarmID {
		return nil, domain.ErrForbidden
	}

	delta := input.Quantity
	if input.Type == entity.MovementTypeOUT {
		delta = delta.Neg()
	}
	var mov *entity.BatchMovement
	err = uc.txRunner.Run(ctx, func(movRepo repository.BatchMovementRepository, batchRepo repository.DrugBatchRepository) error {
		m, err := uc.applyInTx(ctx, movRepo, batchRepo, input.BatchID, input.Type, delta, input.Reference, input.UserID, uc.clock.Now())
		mov = m
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// ConsumeInTx descuenta qty del lote usando los repositorios de la transacción del caller.
// Lo usa el registro de administraciones: la dosis sale del botiquín en la misma tx.
func (uc *RegisterMovementUseCase) ConsumeInTx(
	ctx context.Context,
	movRepo repository.BatchMovementRepository,
	batchRepo repository.DrugBatchRepository,
	batchID, userID, reference string,
	qty decimal.Decimal,
	now time.Time,
) (*entity.BatchMovement, error) {
	if !qty.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	return uc.applyInTx(ctx, movRepo, batchRepo, batchID, entity.MovementTypeOUT, qty.Neg(), reference, userID, now)
}

// applyInTx bloquea el lote, aplica delta y guarda el movimiento.
func (uc *RegisterMovementUseCase) applyInTx(
	ctx context.Context,
	movRepo repository.BatchMovementRepository,
	batchRepo repository.DrugBatchRepository,
	batchID, movType string,
	delta decimal.Decimal,
	reference, userID string,
	now time.Time,
) (*entity.BatchMovement, error) {
	batch, err := batchRepo.GetForUpdate(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, &domain.UnknownReferenceError{Kind: "batch", ID: batchID}
	}
	next := batch.Quantity.Add(delta)
	if next.IsNegative() {
		return nil, domain.ErrInsufficientStock
	}
	batch.Quantity = next
	batch.UpdatedAt = now
	if err := batchRepo.UpdateQuantity(ctx, batch); err != nil {
		return nil, fmt.Errorf("actualizar lote: %w", err)
	}
	mov := &entity.BatchMovement{
		ID:        uuid.New().String(),
		BatchID:   batchID,
		Type:      movType,
		Quantity:  delta,
		Reference: reference,
		CreatedAt: now,
		CreatedBy: userID,
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}
