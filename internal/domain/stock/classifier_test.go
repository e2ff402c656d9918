package stock_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
	"github.com/jhoicas/Ganaderia-api/internal/domain/stock"
)

var now = time.Date(2024, 9, 10, 12, 0, 0, 0, time.UTC)

func batch(qty, threshold int64, expiry time.Time) entity.DrugBatch {
	return entity.DrugBatch{
		ID:                "batch-1",
		BatchNumber:       "L-2024-001",
		Quantity:          decimal.NewFromInt(qty),
		LowStockThreshold: decimal.NewFromInt(threshold),
		ExpiryDate:        expiry,
	}
}

func TestClassify_Precedencia(t *testing.T) {
	day := 24 * time.Hour
	cases := []struct {
		name  string
		batch entity.DrugBatch
		want  stock.Status
	}{
		{"vencido con stock", batch(50, 10, now.Add(-day)), stock.StatusExpired},
		{"vencido y agotado gana vencido", batch(0, 10, now.Add(-time.Second)), stock.StatusExpired},
		{"agotado vigente", batch(0, 10, now.Add(365*day)), stock.StatusOutOfStock},
		{"agotado por vencer gana agotado", batch(0, 10, now.Add(5*day)), stock.StatusOutOfStock},
		{"por vencer con stock bajo gana por vencer", batch(3, 10, now.Add(10*day)), stock.StatusExpiringSoon},
		{"vence exactamente ahora", batch(100, 10, now), stock.StatusExpiringSoon},
		{"vence en 30 días exactos", batch(100, 10, now.Add(30*day)), stock.StatusExpiringSoon},
		{"vence en 31 días", batch(100, 10, now.Add(31*day)), stock.StatusInStock},
		{"stock bajo en el umbral", batch(10, 10, now.Add(90*day)), stock.StatusLowStock},
		{"stock bajo bajo el umbral", batch(1, 10, now.Add(90*day)), stock.StatusLowStock},
		{"en stock", batch(11, 10, now.Add(90*day)), stock.StatusInStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stock.Classify(tc.batch, now, stock.DefaultExpiringWindow))
		})
	}
}

// Escenario: cantidad 0 y vencimiento futuro → OUT_OF_STOCK.
func TestClassify_AgotadoFuturo(t *testing.T) {
	b := batch(0, 50, now.AddDate(1, 0, 0))
	assert.Equal(t, stock.StatusOutOfStock, stock.Classify(b, now, stock.DefaultExpiringWindow))
}

// Escenario: vencimiento pasado y 50 unidades → EXPIRED (no IN_STOCK).
func TestClassify_VencidoConCincuenta(t *testing.T) {
	b := batch(50, 10, now.AddDate(0, 0, -1))
	assert.Equal(t, stock.StatusExpired, stock.Classify(b, now, stock.DefaultExpiringWindow))
}

func TestClassify_VentanaConfigurable(t *testing.T) {
	b := batch(100, 10, now.Add(10*24*time.Hour))
	assert.Equal(t, stock.StatusInStock, stock.Classify(b, now, 7*24*time.Hour))
	assert.Equal(t, stock.StatusExpiringSoon, stock.Classify(b, now, 15*24*time.Hour))
}

func TestRankYProblematico(t *testing.T) {
	assert.Less(t, stock.Rank(stock.StatusExpired), stock.Rank(stock.StatusLowStock))
	assert.False(t, stock.IsProblematic(stock.StatusInStock))
	assert.True(t, stock.IsProblematic(stock.StatusOutOfStock))
}

func TestUsable(t *testing.T) {
	b := batch(5, 1, now.Add(time.Hour))
	assert.True(t, stock.Usable(b, now, decimal.NewFromInt(5)))
	assert.False(t, stock.Usable(b, now, decimal.NewFromInt(6)))
	assert.False(t, stock.Usable(b, now.Add(2*time.Hour), decimal.NewFromInt(1)))
}
