package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vías de administración.
const (
	RouteOral          = "oral"
	RouteIntramuscular = "intramuscular"
	RouteIntravenous   = "intravenosa"
	RouteSubcutaneous  = "subcutanea"
	RouteTopical       = "topica"
	RouteIntramammary  = "intramamaria"
	RouteOther         = "otra"
)

// AdministrationEvent hecho inmutable: un fármaco aplicado a un animal en un instante.
// Los días de retiro se copian del fármaco al momento de registrar; nunca se leen en vivo.
type AdministrationEvent struct {
	ID                  string
	Sequence            int64 // posición en el ledger, asignada al registrar
	AnimalID            string
	DrugID              string
	DrugName            string
	BatchID             string
	WithdrawalMeatDays  int
	WithdrawalMilkDays  int
	AdministeredAt      time.Time
	Dose                decimal.Decimal
	DoseUnit            string
	Route               string
	Purpose             string
	ExpectedRestriction bool // retiro planificado: el animal ya está fuera de producción
	RecordedBy          string
	RecordedAt          time.Time
}

// IsRoute indica si r es una vía conocida.
func IsRoute(r string) bool {
	switch r {
	case RouteOral, RouteIntramuscular, RouteIntravenous, RouteSubcutaneous,
		RouteTopical, RouteIntramammary, RouteOther:
		return true
	}
	return false
}
