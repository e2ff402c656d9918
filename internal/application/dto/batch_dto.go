package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBatchRequest ingreso de un lote al botiquín de la finca. Genera un movimiento IN.
// LowStockThreshold nil toma el umbral por defecto de configuración.
type CreateBatchRequest struct {
	FarmID            string           `json:"farm_id" validate:"required"`
	DrugID            string           `json:"drug_id" validate:"required"`
	BatchNumber       string           `json:"batch_number" validate:"required,max=100"`
	Quantity          decimal.Decimal  `json:"quantity"`
	Unit              string           `json:"unit" validate:"required,max=20"`
	Manufacturer      string           `json:"manufacturer" validate:"max=200"`
	ExpiryDate        time.Time        `json:"expiry_date"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold,omitempty"`
}

// RegisterBatchMovementRequest body para POST /api/batches/:id/movements.
type RegisterBatchMovementRequest struct {
	Type      string          `json:"type" validate:"required,oneof=IN OUT ADJUSTMENT"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reference string          `json:"reference" validate:"max=200"`
}

// BatchResponse lote con su estado derivado en EvaluatedAt.
type BatchResponse struct {
	ID                string          `json:"id"`
	FarmID            string          `json:"farm_id"`
	DrugID            string          `json:"drug_id"`
	BatchNumber       string          `json:"batch_number"`
	Quantity          decimal.Decimal `json:"quantity"`
	Unit              string          `json:"unit"`
	Manufacturer      string          `json:"manufacturer"`
	ExpiryDate        time.Time       `json:"expiry_date"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	Status            string          `json:"status"`
	DaysToExpiry      int             `json:"days_to_expiry"`
	EvaluatedAt       time.Time       `json:"evaluated_at"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// BatchListResponse lotes de una finca, del más urgente al menos urgente.
type BatchListResponse struct {
	Items []BatchResponse `json:"items"`
}

// BatchMovementResponse salida de un movimiento de lote.
type BatchMovementResponse struct {
	ID        string          `json:"id"`
	BatchID   string          `json:"batch_id"`
	Type      string          `json:"type"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reference string          `json:"reference"`
	CreatedAt time.Time       `json:"created_at"`
	CreatedBy string          `json:"created_by"`
}

// BatchMovementListResponse lista paginada de movimientos.
type BatchMovementListResponse struct {
	Items []BatchMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
