package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DrugBatch representa un lote físico de un fármaco en el botiquín de una finca.
// El estado (en stock, bajo, por vencer...) no se guarda: se deriva en cada lectura.
type DrugBatch struct {
	ID                string
	FarmID            string
	DrugID            string
	BatchNumber       string
	Quantity          decimal.Decimal
	Unit              string // ml, g, dosis, unidades
	Manufacturer      string
	ExpiryDate        time.Time
	LowStockThreshold decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
