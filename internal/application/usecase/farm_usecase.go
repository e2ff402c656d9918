package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/Ganaderia-api/internal/application/dto"
	"github.com/jhoicas/Ganaderia-api/internal/domain"
	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
	"github.com/jhoicas/Ganaderia-api/internal/domain/repository"
	"github.com/jhoicas/Ganaderia-api/pkg/clock"
)

// FarmUseCase casos de uso CRUD para fincas.
type FarmUseCase struct {
	repo  repository.FarmRepository
	clock clock.Clock
}

// NewFarmUseCase construye el caso de uso.
func NewFarmUseCase(repo repository.FarmRepository, c clock.Clock) *FarmUseCase {
	if c == nil {
		c = clock.System{}
	}
	return &FarmUseCase{repo: repo, clock: c}
}

// Create registra una finca sin infracciones.
func (uc *FarmUseCase) Create(ctx context.Context, in dto.CreateFarmRequest) (*dto.FarmResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	farm := &entity.Farm{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		Owner:     in.Owner,
		Location:  in.Location,
		CreatedAt: uc.clock.Now(),
	}
	if err := uc.repo.Create(ctx, farm); err != nil {
		return nil, err
	}
	return toFarmResponse(farm), nil
}

// GetByID obtiene una finca por ID.
func (uc *FarmUseCase) GetByID(ctx context.Context, id string) (*dto.FarmResponse, error) {
	farm, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toFarmResponse(farm), nil
}

// Update actualiza datos descriptivos; el conteo de infracciones solo cambia con RecordViolation.
func (uc *FarmUseCase) Update(ctx context.Context, id string, in dto.UpdateFarmRequest) (*dto.FarmResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	farm, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		farm.Name = strings.TrimSpace(*in.Name)
	}
	if in.Owner != nil {
		farm.Owner = *in.Owner
	}
	if in.Location != nil {
		farm.Location = *in.Location
	}
	if err := uc.repo.Update(ctx, farm); err != nil {
		return nil, err
	}
	return toFarmResponse(farm), nil
}

// RecordViolation suma una infracción sanitaria a la finca.
func (uc *FarmUseCase) RecordViolation(ctx context.Context, id string, in dto.RecordViolationRequest) (*dto.FarmResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	farm, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	farm.ViolationCount++
	if err := uc.repo.Update(ctx, farm); err != nil {
		return nil, err
	}
	return toFarmResponse(farm), nil
}

// List lista fincas con paginación.
func (uc *FarmUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.FarmListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.FarmResponse, 0, len(list))
	for _, f := range list {
		items = append(items, *toFarmResponse(f))
	}
	return &dto.FarmListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func (uc *FarmUseCase) get(ctx context.Context, id string) (*entity.Farm, error) {
	farm, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if farm == nil {
		return nil, domain.ErrNotFound
	}
	return farm, nil
}

func toFarmResponse(f *entity.Farm) *dto.FarmResponse {
	return &dto.FarmResponse{
		ID:             f.ID,
		Name:           f.Name,
		Owner:          f.Owner,
		Location:       f.Location,
		ViolationCount: f.ViolationCount,
		CreatedAt:      f.CreatedAt,
	}
}
