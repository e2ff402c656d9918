package dto

import "time"

// CreateDrugRequest entrada para registrar un fármaco en el catálogo.
type CreateDrugRequest struct {
	Name                     string `json:"name" validate:"required,min=1,max=200"`
	ActiveIngredient         string `json:"active_ingredient" validate:"max=200"`
	Category                 string `json:"category" validate:"omitempty,oneof=antibiotico antiparasitario antiinflamatorio vacuna suplemento vitamina hormonal otro"`
	WithdrawalPeriodMeatDays int    `json:"withdrawal_period_meat_days" validate:"min=0,max=3650"`
	WithdrawalPeriodMilkDays int    `json:"withdrawal_period_milk_days" validate:"min=0,max=3650"`
	MRLLimit                 string `json:"mrl_limit"`
}

// UpdateDrugRequest entrada para actualizar un fármaco. Los cambios de periodo solo aplican a administraciones futuras.
type UpdateDrugRequest struct {
	Name                     *string `json:"name" validate:"omitempty,min=1,max=200"`
	ActiveIngredient         *string `json:"active_ingredient"`
	Category                 *string `json:"category" validate:"omitempty,oneof=antibiotico antiparasitario antiinflamatorio vacuna suplemento vitamina hormonal otro"`
	WithdrawalPeriodMeatDays *int    `json:"withdrawal_period_meat_days" validate:"omitempty,min=0,max=3650"`
	WithdrawalPeriodMilkDays *int    `json:"withdrawal_period_milk_days" validate:"omitempty,min=0,max=3650"`
	MRLLimit                 *string `json:"mrl_limit"`
}

// DrugResponse salida de un fármaco.
type DrugResponse struct {
	ID                       string    `json:"id"`
	Name                     string    `json:"name"`
	ActiveIngredient         string    `json:"active_ingredient"`
	Category                 string    `json:"category"`
	WithdrawalPeriodMeatDays int       `json:"withdrawal_period_meat_days"`
	WithdrawalPeriodMilkDays int       `json:"withdrawal_period_milk_days"`
	MRLLimit                 string    `json:"mrl_limit"`
	CreatedAt                time.Time `json:"created_at"`
}

// DrugListResponse lista paginada de fármacos.
type DrugListResponse struct {
	Items []DrugResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
