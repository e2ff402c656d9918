package entity

import "time"

// Animal representa un animal identificado por su arete. Pertenece a una única finca.
// No guarda estado de cumplimiento; ese estado se deriva del ledger de administraciones.
type Animal struct {
	ID        string
	TagID     string
	Species   string // bovino, caprino, ovino, porcino...
	Breed     string
	FarmID    string
	CreatedAt time.Time
}
