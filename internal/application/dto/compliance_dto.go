package dto

import "time"

// AlertDTO alerta generada en la evaluación.
type AlertDTO struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Severity    string    `json:"severity"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	EntityType  string    `json:"entity_type"`
	EntityID    string    `json:"entity_id"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// PenaltiesDTO desglose de los puntos descontados.
type PenaltiesDTO struct {
	ActiveRestrictions int `json:"active_restrictions"`
	ExpiredBatches     int `json:"expired_batches"`
	ExpiringBatches    int `json:"expiring_batches"`
	LowStockBatches    int `json:"low_stock_batches"`
	OutOfStockBatches  int `json:"out_of_stock_batches"`
	Violations         int `json:"violations"`
	Total              int `json:"total"`
}

// ComplianceResponse respuesta de GET /api/farms/:id/compliance.
type ComplianceResponse struct {
	FarmID                  string               `json:"farm_id"`
	FarmName                string               `json:"farm_name"`
	Score                   int                  `json:"score"`
	EvaluatedAt             time.Time            `json:"evaluated_at"`
	Alerts                  []AlertDTO           `json:"alerts"`
	ActiveRestrictionsCount int                  `json:"active_restrictions_count"`
	RestrictedAnimalsCount  int                  `json:"restricted_animals_count"`
	RestrictedAnimalIDs     []string             `json:"restricted_animal_ids"`
	TotalAnimals            int                  `json:"total_animals"`
	BatchCounts             map[string]int       `json:"batch_counts"`
	ViolationCount          int                  `json:"violation_count"`
	Penalties               PenaltiesDTO         `json:"penalties"`
	ActiveRestrictions      []WithdrawalStateDTO `json:"active_restrictions"`
	Batches                 []BatchResponse      `json:"batches"`
}
