package compliance

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
	"github.com/jhoicas/Ganaderia-api/internal/domain/stock"
	"github.com/jhoicas/Ganaderia-api/internal/domain/withdrawal"
)

// Severity nivel de la alerta.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Tipos de alerta.
const (
	AlertWithdrawalEnding = "withdrawal_ending"
	AlertBatchExpired     = "batch_expired"
	AlertBatchExpiring    = "batch_expiring"
	AlertBatchOutOfStock  = "batch_out_of_stock"
	AlertBatchLowStock    = "batch_low_stock"
)

// Alert se genera en cada evaluación; no se guarda. EvaluatedAt es el instante de evaluación,
// no el del evento que la origina.
type Alert struct {
	ID          string
	Type        string
	Severity    Severity
	Title       string
	Message     string
	EntityType  string // animal, batch
	EntityID    string
	FarmID      string
	EvaluatedAt time.Time
}

func severityRank(s Severity) int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

var printer = message.NewPrinter(language.Spanish)

var productLabel = map[withdrawal.Product]string{
	withdrawal.ProductMeat: "carne",
	withdrawal.ProductMilk: "leche",
}

// urgentWithdrawalDays a partir de aquí el retiro por terminar se reporta como warning.
const urgentWithdrawalDays = 1

func restrictionSeverity(daysRemaining int) Severity {
	if daysRemaining <= urgentWithdrawalDays {
		return SeverityWarning
	}
	return SeverityInfo
}

func restrictionAlert(farmID string, animal entity.Animal, s withdrawal.State, now time.Time) Alert {
	label := productLabel[s.Product]
	return Alert{
		ID:         "withdrawal:" + s.EventID + ":" + string(s.Product),
		Type:       AlertWithdrawalEnding,
		Severity:   restrictionSeverity(s.DaysRemaining),
		Title:      printer.Sprintf("Retiro de %s por terminar", label),
		Message: printer.Sprintf("El animal %s (%s) podrá destinar %s a consumo en %d día(s), a partir del %s.",
			animal.TagID, s.DrugName, label, s.DaysRemaining, s.SafeAfter.Format("02/01/2006 15:04")),
		EntityType:  "animal",
		EntityID:    animal.ID,
		FarmID:      farmID,
		EvaluatedAt: now,
	}
}

func batchAlert(farmID string, b entity.DrugBatch, status stock.Status, now time.Time) Alert {
	a := Alert{
		ID:          "batch:" + b.ID + ":" + string(status),
		EntityType:  "batch",
		EntityID:    b.ID,
		FarmID:      farmID,
		EvaluatedAt: now,
	}
	expiry := b.ExpiryDate.Format("02/01/2006")
	switch status {
	case stock.StatusExpired:
		a.Type, a.Severity = AlertBatchExpired, SeverityError
		a.Title = "Lote vencido"
		a.Message = printer.Sprintf("El lote %s venció el %s; retírelo del botiquín.", b.BatchNumber, expiry)
	case stock.StatusExpiringSoon:
		a.Type, a.Severity = AlertBatchExpiring, SeverityWarning
		a.Title = "Lote por vencer"
		a.Message = printer.Sprintf("El lote %s vence el %s (%d día(s)).", b.BatchNumber, expiry,
			withdrawal.DaysRemaining(b.ExpiryDate, now))
	case stock.StatusOutOfStock:
		a.Type, a.Severity = AlertBatchOutOfStock, SeverityError
		a.Title = "Lote agotado"
		a.Message = printer.Sprintf("El lote %s está agotado.", b.BatchNumber)
	case stock.StatusLowStock:
		a.Type, a.Severity = AlertBatchLowStock, SeverityWarning
		a.Title = "Stock bajo"
		a.Message = printer.Sprintf("El lote %s tiene %s %s (umbral %s).", b.BatchNumber,
			b.Quantity.String(), b.Unit, b.LowStockThreshold.String())
	}
	return a
}
