// Package administration registra tratamientos veterinarios y responde el estado de retiro de los animales.
package administration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Ganaderia-api/internal/application/dto"
	"github.com/jhoicas/Ganaderia-api/internal/application/inventory"
	"github.com/jhoicas/Ganaderia-api/internal/domain"
	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
	"github.com/jhoicas/Ganaderia-api/internal/domain/ledger"
	"github.com/jhoicas/Ganaderia-api/internal/domain/repository"
	"github.com/jhoicas/Ganaderia-api/internal/domain/stock"
	"github.com/jhoicas/Ganaderia-api/internal/domain/withdrawal"
	"github.com/jhoicas/Ganaderia-api/pkg/clock"
	"github.com/jhoicas/Ganaderia-api/pkg/logger"
)

// Deps dependencias del caso de uso. Logger y Metrics son opcionales.
type Deps struct {
	Ledger     *ledger.Ledger
	Repo       repository.AdministrationRepository
	AnimalRepo repository.AnimalRepository
	DrugRepo   repository.DrugRepository
	BatchRepo  repository.DrugBatchRepository
	TxRunner   inventory.TxRunner
	Movements  *inventory.RegisterMovementUseCase
	Clock      clock.Clock
	Logger     *logger.Logger
	Metrics    Metrics
}

// UseCase registra administraciones en el ledger y consulta restricciones de retiro.
type UseCase struct {
	ledger     *ledger.Ledger
	repo       repository.AdministrationRepository
	animalRepo repository.AnimalRepository
	drugRepo   repository.DrugRepository
	batchRepo  repository.DrugBatchRepository
	txRunner   inventory.TxRunner
	movements  *inventory.RegisterMovementUseCase
	clock      clock.Clock
	log        *logger.Logger
	metrics    Metrics
}

// NewUseCase construye el caso de uso.
func NewUseCase(d Deps) *UseCase {
	uc := &UseCase{
		ledger:     d.Ledger,
		repo:       d.Repo,
		animalRepo: d.AnimalRepo,
		drugRepo:   d.DrugRepo,
		batchRepo:  d.BatchRepo,
		txRunner:   d.TxRunner,
		movements:  d.Movements,
		clock:      d.Clock,
		log:        d.Logger,
		metrics:    d.Metrics,
	}
	if uc.clock == nil {
		uc.clock = clock.System{}
	}
	if uc.ledger == nil {
		uc.ledger = ledger.New(uc.clock, ledger.DefaultClockTolerance)
	}
	if uc.log == nil {
		uc.log = logger.Nop()
	}
	if uc.metrics == nil {
		uc.metrics = nopMetrics{}
	}
	return uc
}

// Ledger registro en memoria usado por el caso de uso (lo comparte el cálculo de cumplimiento).
func (uc *UseCase) Ledger() *ledger.Ledger { return uc.ledger }

// Hydrate carga en el ledger los eventos persistidos. Se llama una vez al arrancar.
func (uc *UseCase) Hydrate(ctx context.Context) (int, error) {
	stored, err := uc.repo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("leer administraciones: %w", err)
	}
	events := make([]entity.AdministrationEvent, 0, len(stored))
	for _, ev := range stored {
		events = append(events, *ev)
	}
	if err := uc.ledger.Replay(events); err != nil {
		return 0, fmt.Errorf("rehidratar ledger: %w", err)
	}
	uc.log.Info().Int("events", len(events)).Msg("ledger de administraciones rehidratado")
	return len(events), nil
}

// RecordAdministration valida referencias, copia los días de retiro del fármaco (salvo que el request los
// sobrescriba), descuenta la dosis del lote si se indica y agrega el evento al ledger.
// Después de registrar, persiste el evento (save-after-record); si la persistencia falla,
// el evento sale del ledger y la dosis vuelve al lote, de modo que un reintento no duplica nada.
// farmID vacío omite la verificación de pertenencia del animal.
func (uc *UseCase) RecordAdministration(ctx context.Context, farmID, userID, animalID string, in dto.RecordAdministrationRequest) (*dto.AdministrationResponse, error) {
	if err := dto.Validate(in); err != nil {
		uc.metrics.AdministrationRejected("validation")
		return nil, err
	}
	if in.Dose.IsNegative() {
		uc.metrics.AdministrationRejected("validation")
		return nil, &domain.InvalidEventError{Field: "dose", Reason: "no puede ser negativa"}
	}

	animal, err := uc.animalRepo.GetByID(ctx, animalID)
	if err != nil {
		return nil, err
	}
	if animal == nil {
		uc.metrics.AdministrationRejected("unknown_reference")
		return nil, &domain.UnknownReferenceError{Kind: "animal", ID: animalID}
	}
	if farmID != "" && animal.FarmID != farmID {
		return nil, domain.ErrForbidden
	}
	drug, err := uc.drugRepo.GetByID(ctx, in.DrugID)
	if err != nil {
		return nil, err
	}
	if drug == nil {
		uc.metrics.AdministrationRejected("unknown_reference")
		return nil, &domain.UnknownReferenceError{Kind: "drug", ID: in.DrugID}
	}

	event := entity.AdministrationEvent{
		ID:                  uuid.New().String(),
		AnimalID:            animal.ID,
		DrugID:              drug.ID,
		DrugName:            drug.Name,
		BatchID:             in.BatchID,
		WithdrawalMeatDays:  drug.WithdrawalPeriodMeatDays,
		WithdrawalMilkDays:  drug.WithdrawalPeriodMilkDays,
		AdministeredAt:      in.AdministeredAt.UTC(),
		Dose:                in.Dose,
		DoseUnit:            in.DoseUnit,
		Route:               in.Route,
		Purpose:             strings.TrimSpace(in.Purpose),
		ExpectedRestriction: in.ExpectedRestriction,
		RecordedBy:          userID,
	}
	if in.WithdrawalMeatDays != nil {
		event.WithdrawalMeatDays = *in.WithdrawalMeatDays
	}
	if in.WithdrawalMilkDays != nil {
		event.WithdrawalMilkDays = *in.WithdrawalMilkDays
	}
	if err := uc.ledger.Validate(event); err != nil {
		uc.metrics.AdministrationRejected("invalid_event")
		return nil, err
	}

	var recorded entity.AdministrationEvent
	if event.BatchID != "" {
		recorded, err = uc.recordWithBatch(ctx, animal, event, userID)
	} else {
		recorded, err = uc.ledger.Record(event)
	}
	if err != nil {
		uc.metrics.AdministrationRejected(rejectReason(err))
		return nil, err
	}

	if err := uc.repo.Append(ctx, &recorded); err != nil {
		uc.log.Error().Err(err).Str("event_id", recorded.ID).Msg("persistir administración")
		uc.undo(ctx, recorded, userID)
		return nil, fmt.Errorf("persistir administración: %w", err)
	}
	uc.metrics.AdministrationRecorded(recorded.Route)
	uc.log.Info().
		Str("event_id", recorded.ID).
		Str("animal_id", recorded.AnimalID).
		Str("drug_id", recorded.DrugID).
		Int("meat_days", recorded.WithdrawalMeatDays).
		Int("milk_days", recorded.WithdrawalMilkDays).
		Time("administered_at", recorded.AdministeredAt).
		Msg("administración registrada")

	out := toAdministrationResponse(recorded, uc.clock.Now())
	return &out, nil
}

// recordWithBatch descuenta la dosis del lote y registra el evento en la misma transacción:
// si el ledger rechaza el evento, el descuento se revierte.
func (uc *UseCase) recordWithBatch(ctx context.Context, animal *entity.Animal, event entity.AdministrationEvent, userID string) (entity.AdministrationEvent, error) {
	batch, err := uc.batchRepo.GetByID(ctx, event.BatchID)
	if err != nil {
		return entity.AdministrationEvent{}, err
	}
	if batch == nil {
		return entity.AdministrationEvent{}, &domain.UnknownReferenceError{Kind: "batch", ID: event.BatchID}
	}
	if batch.FarmID != animal.FarmID || batch.DrugID != event.DrugID {
		return entity.AdministrationEvent{}, &domain.InvalidEventError{Field: "batch_id", Reason: "el lote no corresponde al fármaco o a la finca del animal"}
	}
	if stock.Classify(*batch, event.AdministeredAt, 0) == stock.StatusExpired {
		return entity.AdministrationEvent{}, &domain.InvalidEventError{Field: "batch_id", Reason: "lote vencido a la fecha de aplicación"}
	}

	var recorded entity.AdministrationEvent
	err = uc.txRunner.Run(ctx, func(movRepo repository.BatchMovementRepository, batchRepo repository.DrugBatchRepository) error {
		if event.Dose.IsPositive() {
			if _, err := uc.movements.ConsumeInTx(ctx, movRepo, batchRepo, batch.ID, userID, "administración "+event.ID, event.Dose, uc.clock.Now()); err != nil {
				return err
			}
		}
		r, err := uc.ledger.Record(event)
		if err != nil {
			return err
		}
		recorded = r
		return nil
	})
	if err != nil && recorded.ID != "" {
		// el Commit falló después de registrar en el ledger
		uc.ledger.Discard(recorded.ID)
		return entity.AdministrationEvent{}, err
	}
	return recorded, err
}

// undo deshace un registro que no pudo persistirse: retira el evento del ledger y
// devuelve la dosis al lote con un movimiento de reverso.
func (uc *UseCase) undo(ctx context.Context, recorded entity.AdministrationEvent, userID string) {
	uc.ledger.Discard(recorded.ID)
	if recorded.BatchID == "" || !recorded.Dose.IsPositive() {
		return
	}
	_, err := uc.movements.RegisterMovement(ctx, inventory.MovementInputDTO{
		UserID:    userID,
		BatchID:   recorded.BatchID,
		Type:      entity.MovementTypeIN,
		Quantity:  recorded.Dose,
		Reference: "reverso administración " + recorded.ID,
	})
	if err != nil {
		uc.log.Error().Err(err).
			Str("event_id", recorded.ID).
			Str("batch_id", recorded.BatchID).
			Msg("no se pudo devolver la dosis al lote")
	}
}

// GetWithdrawalStatus restricciones activas del animal en at (cero = ahora).
func (uc *UseCase) GetWithdrawalStatus(ctx context.Context, farmID, animalID string, at time.Time) (*dto.WithdrawalStatusResponse, error) {
	animal, err := uc.animal(ctx, farmID, animalID)
	if err != nil {
		return nil, err
	}
	now := uc.at(at)
	active := uc.ledger.ActiveRestrictions(animal.ID, now)
	out := &dto.WithdrawalStatusResponse{
		AnimalID:     animal.ID,
		TagID:        animal.TagID,
		FarmID:       animal.FarmID,
		EvaluatedAt:  now,
		IsRestricted: len(active) > 0,
		Restrictions: toStateDTOs(active),
	}
	meat, milk := latestSafeAfter(active)
	out.SafeForMeatAt, out.MeatRestricted = meat, meat != nil
	out.SafeForMilkAt, out.MilkRestricted = milk, milk != nil
	return out, nil
}

// History historial del animal en orden de registro.
func (uc *UseCase) History(ctx context.Context, farmID, animalID string) (*dto.AdministrationHistoryResponse, error) {
	animal, err := uc.animal(ctx, farmID, animalID)
	if err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	events := uc.ledger.History(animal.ID)
	items := make([]dto.AdministrationResponse, 0, len(events))
	for _, ev := range events {
		items = append(items, toAdministrationResponse(ev, now))
	}
	return &dto.AdministrationHistoryResponse{AnimalID: animal.ID, Items: items}, nil
}

// RestrictedAnimals animales de la finca con al menos una restricción activa en at.
func (uc *UseCase) RestrictedAnimals(ctx context.Context, farmID string, at time.Time) (*dto.RestrictedAnimalsResponse, error) {
	animals, err := uc.animalRepo.ListByFarm(ctx, farmID)
	if err != nil {
		return nil, err
	}
	now := uc.at(at)
	items := []dto.RestrictedAnimalDTO{}
	for _, a := range animals {
		active := uc.ledger.ActiveRestrictions(a.ID, now)
		if len(active) == 0 {
			continue
		}
		meat, milk := latestSafeAfter(active)
		items = append(items, dto.RestrictedAnimalDTO{AnimalID: a.ID, TagID: a.TagID, SafeForMeatAt: meat, SafeForMilkAt: milk})
	}
	return &dto.RestrictedAnimalsResponse{FarmID: farmID, EvaluatedAt: now, Items: items}, nil
}

func (uc *UseCase) animal(ctx context.Context, farmID, animalID string) (*entity.Animal, error) {
	animal, err := uc.animalRepo.GetByID(ctx, animalID)
	if err != nil {
		return nil, err
	}
	if animal == nil {
		return nil, &domain.UnknownReferenceError{Kind: "animal", ID: animalID}
	}
	if farmID != "" && animal.FarmID != farmID {
		return nil, domain.ErrForbidden
	}
	return animal, nil
}

func (uc *UseCase) at(t time.Time) time.Time {
	if t.IsZero() {
		return uc.clock.Now()
	}
	return t
}

// latestSafeAfter fecha a partir de la cual cada producto queda libre (la restricción más tardía).
func latestSafeAfter(active []withdrawal.State) (meat, milk *time.Time) {
	for _, s := range active {
		t := s.SafeAfter
		switch s.Product {
		case withdrawal.ProductMeat:
			if meat == nil || t.After(*meat) {
				meat = &t
			}
		case withdrawal.ProductMilk:
			if milk == nil || t.After(*milk) {
				milk = &t
			}
		}
	}
	return meat, milk
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidEvent):
		return "invalid_event"
	case errors.Is(err, domain.ErrUnknownReference):
		return "unknown_reference"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrDuplicate):
		return "duplicate"
	default:
		return "error"
	}
}

// ToStateDTO mapea un estado de retiro.
func ToStateDTO(s withdrawal.State) dto.WithdrawalStateDTO {
	return dto.WithdrawalStateDTO{
		EventID:        s.EventID,
		DrugID:         s.DrugID,
		DrugName:       s.DrugName,
		Product:        string(s.Product),
		AdministeredAt: s.AdministeredAt,
		SafeAfter:      s.SafeAfter,
		DaysRemaining:  s.DaysRemaining,
		Status:         string(s.Status),
		Expected:       s.Expected,
	}
}

func toStateDTOs(states []withdrawal.State) []dto.WithdrawalStateDTO {
	out := make([]dto.WithdrawalStateDTO, 0, len(states))
	for _, s := range states {
		out = append(out, ToStateDTO(s))
	}
	return out
}

func toAdministrationResponse(ev entity.AdministrationEvent, now time.Time) dto.AdministrationResponse {
	return dto.AdministrationResponse{
		ID:                  ev.ID,
		Sequence:            ev.Sequence,
		AnimalID:            ev.AnimalID,
		DrugID:              ev.DrugID,
		DrugName:            ev.DrugName,
		BatchID:             ev.BatchID,
		WithdrawalMeatDays:  ev.WithdrawalMeatDays,
		WithdrawalMilkDays:  ev.WithdrawalMilkDays,
		AdministeredAt:      ev.AdministeredAt,
		Dose:                ev.Dose,
		DoseUnit:            ev.DoseUnit,
		Route:               ev.Route,
		Purpose:             ev.Purpose,
		ExpectedRestriction: ev.ExpectedRestriction,
		RecordedBy:          ev.RecordedBy,
		RecordedAt:          ev.RecordedAt,
		Withdrawals:         toStateDTOs(withdrawal.Compute(ev, now)),
	}
}
