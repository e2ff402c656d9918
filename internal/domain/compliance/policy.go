package compliance

import (
	"time"

	"github.com/jhoicas/Ganaderia-api/internal/domain"
)

// Policy pesos y umbrales del puntaje de cumplimiento. Son entrada de configuración, no constantes.
type Policy struct {
	ActiveRestrictionPenalty int // por restricción activa no esperada (evento x producto)
	ExpiredBatchPenalty      int
	ExpiringSoonPenalty      int
	LowStockPenalty          int
	OutOfStockPenalty        int
	ViolationPenalty         int // por infracción registrada en la finca
	SoonThresholdDays        int // días restantes para alertar "retiro por terminar"
	ExpiringWindowDays       int // ventana de "por vencer" de los lotes
}

// DefaultPolicy valores por defecto (pendientes de confirmar con el área sanitaria).
func DefaultPolicy() Policy {
	return Policy{
		ActiveRestrictionPenalty: 5,
		ExpiredBatchPenalty:      10,
		ExpiringSoonPenalty:      2,
		LowStockPenalty:          3,
		OutOfStockPenalty:        5,
		ViolationPenalty:         15,
		SoonThresholdDays:        2,
		ExpiringWindowDays:       30,
	}
}

// Validate devuelve ConfigurationError ante cualquier peso o umbral negativo.
func (p *Policy) Validate() error {
	if p == nil {
		return &domain.ConfigurationError{Field: "policy", Reason: "ausente"}
	}
	fields := []struct {
		name  string
		value int
	}{
		{"active_restriction_penalty", p.ActiveRestrictionPenalty},
		{"expired_batch_penalty", p.ExpiredBatchPenalty},
		{"expiring_soon_penalty", p.ExpiringSoonPenalty},
		{"low_stock_penalty", p.LowStockPenalty},
		{"out_of_stock_penalty", p.OutOfStockPenalty},
		{"violation_penalty", p.ViolationPenalty},
		{"soon_threshold_days", p.SoonThresholdDays},
		{"expiring_window_days", p.ExpiringWindowDays},
	}
	for _, f := range fields {
		if f.value < 0 {
			return &domain.ConfigurationError{Field: f.name, Reason: "no puede ser negativo"}
		}
	}
	return nil
}

// ExpiringWindow ventana de vencimiento como duración.
func (p Policy) ExpiringWindow() time.Duration {
	return time.Duration(p.ExpiringWindowDays) * 24 * time.Hour
}
