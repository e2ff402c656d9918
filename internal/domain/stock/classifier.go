// Package stock clasifica el estado de inventario de un lote de fármaco.
package stock

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
)

// DefaultExpiringWindow ventana para considerar un lote "por vencer".
const DefaultExpiringWindow = 30 * 24 * time.Hour

// Status estado derivado de un lote.
type Status string

const (
	StatusInStock      Status = "IN_STOCK"
	StatusLowStock     Status = "LOW_STOCK"
	StatusExpiringSoon Status = "EXPIRING_SOON"
	StatusExpired      Status = "EXPIRED"
	StatusOutOfStock   Status = "OUT_OF_STOCK"
)

// Classify es función total de (cantidad, umbral, vencimiento, now). Precedencia fija:
//  1. EXPIRED       vencimiento < now
//  2. OUT_OF_STOCK  cantidad == 0
//  3. EXPIRING_SOON 0 <= vencimiento - now <= ventana
//  4. LOW_STOCK     0 < cantidad <= umbral
//  5. IN_STOCK
//
// Un lote vencido nunca se reporta solo como bajo; uno agotado y vigente se reporta agotado.
func Classify(batch entity.DrugBatch, now time.Time, expiringWindow time.Duration) Status {
	if expiringWindow < 0 {
		expiringWindow = 0
	}
	untilExpiry := batch.ExpiryDate.Sub(now)
	switch {
	case batch.ExpiryDate.Before(now):
		return StatusExpired
	case !batch.Quantity.IsPositive():
		// cantidades negativas no deberían existir; se tratan como agotado
		return StatusOutOfStock
	case untilExpiry >= 0 && untilExpiry <= expiringWindow:
		return StatusExpiringSoon
	case batch.Quantity.LessThanOrEqual(batch.LowStockThreshold):
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// IsProblematic indica si el estado penaliza el cumplimiento y genera alerta.
func IsProblematic(s Status) bool {
	return s != StatusInStock && s != ""
}

// Rank orden de urgencia para listados (menor = más urgente).
func Rank(s Status) int {
	switch s {
	case StatusExpired:
		return 0
	case StatusOutOfStock:
		return 1
	case StatusExpiringSoon:
		return 2
	case StatusLowStock:
		return 3
	default:
		return 4
	}
}

// Usable indica si se puede descontar del lote: vigente y con cantidad suficiente.
func Usable(batch entity.DrugBatch, now time.Time, qty decimal.Decimal) bool {
	return !batch.ExpiryDate.Before(now) && batch.Quantity.GreaterThanOrEqual(qty)
}
