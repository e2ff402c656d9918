package inventory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ganaderia-api/internal/application/dto"
	"github.com/jhoicas/Ganaderia-api/internal/domain"
	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
	"github.com/jhoicas/Ganaderia-api/internal/domain/repository"
	"github.com/jhoicas/Ganaderia-api/internal/domain/stock"
	"github.com/jhoicas/Ganaderia-api/internal/domain/withdrawal"
	"github.com/jhoicas/Ganaderia-api/pkg/clock"
)

// BatchOptions valores por defecto de los lotes.
type BatchOptions struct {
	LowStockThreshold decimal.Decimal
	ExpiringWindow    time.Duration
}

// DefaultBatchOptions umbral de 50 unidades y ventana de 30 días.
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{LowStockThreshold: decimal.NewFromInt(50), ExpiringWindow: stock.DefaultExpiringWindow}
}

// BatchUseCase ingreso y consulta de lotes del botiquín. El estado se deriva en cada lectura.
type BatchUseCase struct {
	txRunner  TxRunner
	batchRepo repository.DrugBatchRepository
	movRepo   repository.BatchMovementRepository
	drugRepo  repository.DrugRepository
	farmRepo  repository.FarmRepository
	clock     clock.Clock
	opts      BatchOptions
}

// NewBatchUseCase construye el caso de uso.
func NewBatchUseCase(
	txRunner TxRunner,
	batchRepo repository.DrugBatchRepository,
	movRepo repository.BatchMovementRepository,
	drugRepo repository.DrugRepository,
	farmRepo repository.FarmRepository,
	c clock.Clock,
	opts BatchOptions,
) *BatchUseCase {
	if c == nil {
		c = clock.System{}
	}
	if opts.ExpiringWindow <= 0 {
		opts.ExpiringWindow = stock.DefaultExpiringWindow
	}
	return &BatchUseCase{
		txRunner:  txRunner,
		batchRepo: batchRepo,
		movRepo:   movRepo,
		drugRepo:  drugRepo,
		farmRepo:  farmRepo,
		clock:     c,
		opts:      opts,
	}
}

// ExpiringWindow ventana configurada para EXPIRING_SOON.
func (uc *BatchUseCase) ExpiringWindow() time.Duration { return uc.opts.ExpiringWindow }

// Intake crea el lote y su movimiento IN inicial en la misma transacción.
func (uc *BatchUseCase) Intake(ctx context.Context, userID string, in dto.CreateBatchRequest) (*dto.BatchResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Quantity.IsNegative() || in.ExpiryDate.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	threshold := uc.opts.LowStockThreshold
	if in.LowStockThreshold != nil {
		if in.LowStockThreshold.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		threshold = *in.LowStockThreshold
	}
	farm, err := uc.farmRepo.GetByID(ctx, in.FarmID)
	if err != nil {
		return nil, err
	}
	if farm == nil {
		return nil, &domain.UnknownReferenceError{Kind: "farm", ID: in.FarmID}
	}
	drug, err := uc.drugRepo.GetByID(ctx, in.DrugID)
	if err != nil {
		return nil, err
	}
	if drug == nil {
		return nil, &domain.UnknownReferenceError{Kind: "drug", ID: in.DrugID}
	}

	now := uc.clock.Now()
	batch := &entity.DrugBatch{
		ID:                uuid.New().String(),
		FarmID:            farm.ID,
		DrugID:            drug.ID,
		BatchNumber:       strings.TrimSpace(in.BatchNumber),
		Quantity:          in.Quantity,
		Unit:              in.Unit,
		Manufacturer:      in.Manufacturer,
		ExpiryDate:        in.ExpiryDate.UTC(),
		LowStockThreshold: threshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	err = uc.txRunner.Run(ctx, func(movRepo repository.BatchMovementRepository, batchRepo repository.DrugBatchRepository) error {
		if err := batchRepo.Create(ctx, batch); err != nil {
			return err
		}
		if !batch.Quantity.IsPositive() {
			return nil
		}
		return movRepo.Create(ctx, &entity.BatchMovement{
			ID:        uuid.New().String(),
			BatchID:   batch.ID,
			Type:      entity.MovementTypeIN,
			Quantity:  batch.Quantity,
			Reference: "ingreso " + batch.BatchNumber,
			CreatedAt: now,
			CreatedBy: userID,
		})
	})
	if err != nil {
		return nil, err
	}
	out := ToBatchResponse(*batch, now, uc.opts.ExpiringWindow)
	return &out, nil
}

// GetStockStatus estado del lote en at. FarmID vacío omite la verificación de pertenencia.
func (uc *BatchUseCase) GetStockStatus(ctx context.Context, farmID, batchID string, at time.Time) (*dto.BatchResponse, error) {
	batch, err := uc.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, &domain.UnknownReferenceError{Kind: "batch", ID: batchID}
	}
	if farmID != "" && batch.FarmID != farmID {
		return nil, domain.ErrForbidden
	}
	out := ToBatchResponse(*batch, uc.at(at), uc.opts.ExpiringWindow)
	return &out, nil
}

// ListByFarm lotes de la finca, del más urgente al menos urgente.
func (uc *BatchUseCase) ListByFarm(ctx context.Context, farmID string, at time.Time) (*dto.BatchListResponse, error) {
	batches, err := uc.batchRepo.ListByFarm(ctx, farmID)
	if err != nil {
		return nil, err
	}
	now := uc.at(at)
	items := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		items = append(items, ToBatchResponse(*b, now, uc.opts.ExpiringWindow))
	}
	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := stock.Rank(stock.Status(items[i].Status)), stock.Rank(stock.Status(items[j].Status))
		if ri != rj {
			return ri < rj
		}
		return items[i].ExpiryDate.Before(items[j].ExpiryDate)
	})
	return &dto.BatchListResponse{Items: items}, nil
}

// ListMovements movimientos del lote, más recientes primero.
func (uc *BatchUseCase) ListMovements(ctx context.Context, farmID, batchID string, from, to *time.Time, page dto.PageRequest) (*dto.BatchMovementListResponse, error) {
	if _, err := uc.GetStockStatus(ctx, farmID, batchID, time.Time{}); err != nil {
		return nil, err
	}
	page.DefaultPage()
	movs, err := uc.movRepo.ListByBatch(ctx, batchID, from, to, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BatchMovementResponse, 0, len(movs))
	for _, m := range movs {
		items = append(items, toMovementResponse(m))
	}
	return &dto.BatchMovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func (uc *BatchUseCase) at(t time.Time) time.Time {
	if t.IsZero() {
		return uc.clock.Now()
	}
	return t
}

// ToBatchResponse mapea el lote con su estado derivado en now.
func ToBatchResponse(b entity.DrugBatch, now time.Time, window time.Duration) dto.BatchResponse {
	days := 0
	if !b.ExpiryDate.Before(now) {
		days = withdrawal.DaysRemaining(b.ExpiryDate, now)
	}
	return dto.BatchResponse{
		ID:                b.ID,
		FarmID:            b.FarmID,
		DrugID:            b.DrugID,
		BatchNumber:       b.BatchNumber,
		Quantity:          b.Quantity,
		Unit:              b.Unit,
		Manufacturer:      b.Manufacturer,
		ExpiryDate:        b.ExpiryDate,
		LowStockThreshold: b.LowStockThreshold,
		Status:            string(stock.Classify(b, now, window)),
		DaysToExpiry:      days,
		EvaluatedAt:       now,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}
