package entity

import "time"

// DefaultComplianceScore puntaje semilla de una finca sin evaluaciones.
const DefaultComplianceScore = 100

// Farm representa una finca (hato). El puntaje de cumplimiento nunca se persiste: se calcula.
// ViolationCount es el conteo de infracciones registradas por la autoridad sanitaria.
type Farm struct {
	ID             string
	Name           string
	Owner          string
	Location       string
	ViolationCount int
	CreatedAt      time.Time
}
