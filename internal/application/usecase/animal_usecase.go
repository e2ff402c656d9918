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

// AnimalUseCase alta y consulta de animales.
type AnimalUseCase struct {
	repo     repository.AnimalRepository
	farmRepo repository.FarmRepository
	clock    clock.Clock
}

// NewAnimalUseCase construye el caso de uso.
func NewAnimalUseCase(repo repository.AnimalRepository, farmRepo repository.FarmRepository, c clock.Clock) *AnimalUseCase {
	if c == nil {
		c = clock.System{}
	}
	return &AnimalUseCase{repo: repo, farmRepo: farmRepo, clock: c}
}

// Create registra un animal. El arete es único dentro de la finca.
func (uc *AnimalUseCase) Create(ctx context.Context, in dto.CreateAnimalRequest) (*dto.AnimalResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	farm, err := uc.farmRepo.GetByID(ctx, in.FarmID)
	if err != nil {
		return nil, err
	}
	if farm == nil {
		return nil, &domain.UnknownReferenceError{Kind: "farm", ID: in.FarmID}
	}
	tag := strings.ToUpper(strings.TrimSpace(in.TagID))
	existing, err := uc.repo.GetByFarmAndTag(ctx, farm.ID, tag)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	animal := &entity.Animal{
		ID:        uuid.New().String(),
		TagID:     tag,
		Species:   strings.ToLower(strings.TrimSpace(in.Species)),
		Breed:     in.Breed,
		FarmID:    farm.ID,
		CreatedAt: uc.clock.Now(),
	}
	if err := uc.repo.Create(ctx, animal); err != nil {
		return nil, err
	}
	return toAnimalResponse(animal), nil
}

// GetByID obtiene un animal. farmID vacío omite la verificación de pertenencia.
func (uc *AnimalUseCase) GetByID(ctx context.Context, farmID, id string) (*dto.AnimalResponse, error) {
	animal, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if animal == nil {
		return nil, domain.ErrNotFound
	}
	if farmID != "" && animal.FarmID != farmID {
		return nil, domain.ErrForbidden
	}
	return toAnimalResponse(animal), nil
}

// ListByFarm animales de la finca ordenados por arete.
func (uc *AnimalUseCase) ListByFarm(ctx context.Context, farmID string) (*dto.AnimalListResponse, error) {
	list, err := uc.repo.ListByFarm(ctx, farmID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AnimalResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toAnimalResponse(a))
	}
	return &dto.AnimalListResponse{Items: items}, nil
}

func toAnimalResponse(a *entity.Animal) *dto.AnimalResponse {
	return &dto.AnimalResponse{
		ID:        a.ID,
		TagID:     a.TagID,
		Species:   a.Species,
		Breed:     a.Breed,
		FarmID:    a.FarmID,
		CreatedAt: a.CreatedAt,
	}
}
