package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordAdministrationRequest body para POST /api/animals/:id/administrations.
// Si WithdrawalMeatDays/WithdrawalMilkDays vienen nil se copian del fármaco.
type RecordAdministrationRequest struct {
	DrugID              string          `json:"drug_id" validate:"required"`
	BatchID             string          `json:"batch_id,omitempty"`
	AdministeredAt      time.Time       `json:"administered_at"`
	Dose                decimal.Decimal `json:"dose"`
	DoseUnit            string          `json:"dose_unit" validate:"max=20"`
	Route               string          `json:"route" validate:"omitempty,oneof=oral intramuscular intravenosa subcutanea topica intramamaria otra"`
	Purpose             string          `json:"purpose" validate:"max=500"`
	WithdrawalMeatDays  *int            `json:"withdrawal_meat_days,omitempty"`
	WithdrawalMilkDays  *int            `json:"withdrawal_milk_days,omitempty"`
	ExpectedRestriction bool            `json:"expected_restriction"`
}

// AdministrationResponse evento registrado, con el estado de retiro resultante.
type AdministrationResponse struct {
	ID                  string               `json:"id"`
	Sequence            int64                `json:"sequence"`
	AnimalID            string               `json:"animal_id"`
	DrugID              string               `json:"drug_id"`
	DrugName            string               `json:"drug_name"`
	BatchID             string               `json:"batch_id,omitempty"`
	WithdrawalMeatDays  int                  `json:"withdrawal_meat_days"`
	WithdrawalMilkDays  int                  `json:"withdrawal_milk_days"`
	AdministeredAt      time.Time            `json:"administered_at"`
	Dose                decimal.Decimal      `json:"dose"`
	DoseUnit            string               `json:"dose_unit"`
	Route               string               `json:"route"`
	Purpose             string               `json:"purpose"`
	ExpectedRestriction bool                 `json:"expected_restriction"`
	RecordedBy          string               `json:"recorded_by"`
	RecordedAt          time.Time            `json:"recorded_at"`
	Withdrawals         []WithdrawalStateDTO `json:"withdrawals,omitempty"`
}

// AdministrationHistoryResponse historial de un animal en orden de registro.
type AdministrationHistoryResponse struct {
	AnimalID string                   `json:"animal_id"`
	Items    []AdministrationResponse `json:"items"`
}

// WithdrawalStateDTO estado de retiro de un producto (carne o leche) derivado de un evento.
type WithdrawalStateDTO struct {
	EventID        string    `json:"event_id"`
	DrugID         string    `json:"drug_id"`
	DrugName       string    `json:"drug_name"`
	Product        string    `json:"product"`
	AdministeredAt time.Time `json:"administered_at"`
	SafeAfter      time.Time `json:"safe_after"`
	DaysRemaining  int       `json:"days_remaining"`
	Status         string    `json:"status"`
	Expected       bool      `json:"expected"`
}

// WithdrawalStatusResponse respuesta de GET /api/animals/:id/withdrawals.
// SafeForMeatAt/SafeForMilkAt son nil cuando el producto no tiene restricción activa.
type WithdrawalStatusResponse struct {
	AnimalID       string               `json:"animal_id"`
	TagID          string               `json:"tag_id"`
	FarmID         string               `json:"farm_id"`
	EvaluatedAt    time.Time            `json:"evaluated_at"`
	IsRestricted   bool                 `json:"is_restricted"`
	MeatRestricted bool                 `json:"meat_restricted"`
	MilkRestricted bool                 `json:"milk_restricted"`
	SafeForMeatAt  *time.Time           `json:"safe_for_meat_at,omitempty"`
	SafeForMilkAt  *time.Time           `json:"safe_for_milk_at,omitempty"`
	Restrictions   []WithdrawalStateDTO `json:"restrictions"`
}

// RestrictedAnimalDTO animal con restricciones activas dentro de una finca.
type RestrictedAnimalDTO struct {
	AnimalID      string     `json:"animal_id"`
	TagID         string     `json:"tag_id"`
	SafeForMeatAt *time.Time `json:"safe_for_meat_at,omitempty"`
	SafeForMilkAt *time.Time `json:"safe_for_milk_at,omitempty"`
}

// RestrictedAnimalsResponse respuesta de GET /api/farms/:id/restricted-animals.
type RestrictedAnimalsResponse struct {
	FarmID      string                `json:"farm_id"`
	EvaluatedAt time.Time             `json:"evaluated_at"`
	Items       []RestrictedAnimalDTO `json:"items"`
}
