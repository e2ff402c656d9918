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

// DrugUseCase casos de uso del catálogo de fármacos.
type DrugUseCase struct {
	repo  repository.DrugRepository
	clock clock.Clock
}

// NewDrugUseCase construye el caso de uso.
func NewDrugUseCase(repo repository.DrugRepository, c clock.Clock) *DrugUseCase {
	if c == nil {
		c = clock.System{}
	}
	return &DrugUseCase{repo: repo, clock: c}
}

// Create registra un fármaco. Nombre repetido (sin distinguir mayúsculas) → ErrDuplicate.
func (uc *DrugUseCase) Create(ctx context.Context, in dto.CreateDrugRequest) (*dto.DrugResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	drug := &entity.Drug{
		ID:                       uuid.New().String(),
		Name:                     strings.TrimSpace(in.Name),
		ActiveIngredient:         strings.TrimSpace(in.ActiveIngredient),
		Category:                 in.Category,
		WithdrawalPeriodMeatDays: in.WithdrawalPeriodMeatDays,
		WithdrawalPeriodMilkDays: in.WithdrawalPeriodMilkDays,
		MRLLimit:                 in.MRLLimit,
		CreatedAt:                uc.clock.Now(),
	}
	if drug.Category == "" {
		drug.Category = entity.DrugCategoryOther
	}
	if err := drug.Validate(); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByName(ctx, drug.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.repo.Create(ctx, drug); err != nil {
		return nil, err
	}
	return toDrugResponse(drug), nil
}

// GetByID obtiene un fármaco por ID.
func (uc *DrugUseCase) GetByID(ctx context.Context, id string) (*dto.DrugResponse, error) {
	drug, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if drug == nil {
		return nil, domain.ErrNotFound
	}
	return toDrugResponse(drug), nil
}

// Update actualiza un fármaco. Los eventos ya registrados conservan los días de retiro copiados.
func (uc *DrugUseCase) Update(ctx context.Context, id string, in dto.UpdateDrugRequest) (*dto.DrugResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	drug, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if drug == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		drug.Name = strings.TrimSpace(*in.Name)
	}
	if in.ActiveIngredient != nil {
		drug.ActiveIngredient = *in.ActiveIngredient
	}
	if in.Category != nil {
		drug.Category = *in.Category
	}
	if in.WithdrawalPeriodMeatDays != nil {
		drug.WithdrawalPeriodMeatDays = *in.WithdrawalPeriodMeatDays
	}
	if in.WithdrawalPeriodMilkDays != nil {
		drug.WithdrawalPeriodMilkDays = *in.WithdrawalPeriodMilkDays
	}
	if in.MRLLimit != nil {
		drug.MRLLimit = *in.MRLLimit
	}
	if err := drug.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, drug); err != nil {
		return nil, err
	}
	return toDrugResponse(drug), nil
}

// List lista el catálogo con paginación.
func (uc *DrugUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.DrugListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DrugResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *toDrugResponse(d))
	}
	return &dto.DrugListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func toDrugResponse(d *entity.Drug) *dto.DrugResponse {
	return &dto.DrugResponse{
		ID:                       d.ID,
		Name:                     d.Name,
		ActiveIngredient:         d.ActiveIngredient,
		Category:                 d.Category,
		WithdrawalPeriodMeatDays: d.WithdrawalPeriodMeatDays,
		WithdrawalPeriodMilkDays: d.WithdrawalPeriodMilkDays,
		MRLLimit:                 d.MRLLimit,
		CreatedAt:                d.CreatedAt,
	}
}
