package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de un lote.
const (
	MovementTypeIN         = "IN"         // ingreso al botiquín
	MovementTypeOUT        = "OUT"        // uso (administración)
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste por conteo, pérdida o descarte
)

// BatchMovement registra un cambio de cantidad en un lote. La cantidad del lote es la suma de sus movimientos.
type BatchMovement struct {
	ID        string
	BatchID   string
	Type      string
	Quantity  decimal.Decimal // positivo entrada/ajuste+, negativo salida
	Reference string          // id de administración, remisión, acta de descarte
	CreatedAt time.Time
	CreatedBy string
}
