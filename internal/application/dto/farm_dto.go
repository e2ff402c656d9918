package dto

import "time"

// CreateFarmRequest entrada para registrar una finca.
type CreateFarmRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Owner    string `json:"owner" validate:"max=200"`
	Location string `json:"location" validate:"max=300"`
}

// UpdateFarmRequest entrada para actualizar una finca.
type UpdateFarmRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Owner    *string `json:"owner"`
	Location *string `json:"location"`
}

// RecordViolationRequest registra una infracción sanitaria sobre la finca.
type RecordViolationRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// FarmResponse salida de una finca.
type FarmResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Owner          string    `json:"owner"`
	Location       string    `json:"location"`
	ViolationCount int       `json:"violation_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// FarmListResponse lista paginada de fincas.
type FarmListResponse struct {
	Items []FarmResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
