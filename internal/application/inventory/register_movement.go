package inventory

import (
	"context"

	"github.com/jhoicas/Ganaderia-api/internal/application/dto"
	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement(ctx, MovementInputDTO).
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, farmID, userID, batchID string, in dto.RegisterBatchMovementRequest) (*dto.BatchMovementResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	mov, err := uc.RegisterMovement(ctx, MovementInputDTO{
		FarmID:    farmID,
		UserID:    userID,
		BatchID:   batchID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Reference: in.Reference,
	})
	if err != nil {
		return nil, err
	}
	out := toMovementResponse(mov)
	return &out, nil
}

func toMovementResponse(m *entity.BatchMovement) dto.BatchMovementResponse {
	return dto.BatchMovementResponse{
		ID:        m.ID,
		BatchID:   m.BatchID,
		Type:      m.Type,
		Quantity:  m.Quantity,
		Reference: m.Reference,
		CreatedAt: m.CreatedAt,
		CreatedBy: m.CreatedBy,
	}
}
