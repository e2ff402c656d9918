// Package withdrawal calcula los periodos de retiro de carne y leche de un evento de administración.
package withdrawal

import (
	"time"

	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
)

// Day duración de un día de retiro. Los periodos se cuentan en bloques de 24h desde la aplicación.
const Day = 24 * time.Hour

// Product producto alimenticio sujeto a retiro.
type Product string

const (
	ProductMeat Product = "meat"
	ProductMilk Product = "milk"
)

// Products orden fijo de evaluación.
var Products = []Product{ProductMeat, ProductMilk}

// Status estado del retiro de un producto.
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusCleared Status = "CLEARED"
)

// State resultado del cálculo para un producto de un evento.
type State struct {
	EventID        string
	AnimalID       string
	DrugID         string
	DrugName       string
	Product        Product
	AdministeredAt time.Time
	SafeAfter      time.Time
	DaysRemaining  int
	Status         Status
	Expected       bool
	Sequence       int64
}

// Days devuelve los días de retiro copiados en el evento para el producto.
func Days(event entity.AdministrationEvent, p Product) int {
	if p == ProductMilk {
		return event.WithdrawalMilkDays
	}
	return event.WithdrawalMeatDays
}

// SafeAfter instante a partir del cual el producto es apto: administeredAt + días.
func SafeAfter(event entity.AdministrationEvent, p Product) time.Time {
	return event.AdministeredAt.Add(time.Duration(Days(event, p)) * Day)
}

// Compute calcula el estado de carne y leche para el evento en el instante now.
// La restricción aplica solo mientras now < safeAfter, por eso un periodo de 0 días nunca queda activo.
func Compute(event entity.AdministrationEvent, now time.Time) []State {
	states := make([]State, 0, len(Products))
	for _, p := range Products {
		states = append(states, computeProduct(event, p, now))
	}
	return states
}

func computeProduct(event entity.AdministrationEvent, p Product, now time.Time) State {
	safeAfter := SafeAfter(event, p)
	status := StatusCleared
	if now.Before(safeAfter) {
		status = StatusActive
	}
	return State{
		EventID:        event.ID,
		AnimalID:       event.AnimalID,
		DrugID:         event.DrugID,
		DrugName:       event.DrugName,
		Product:        p,
		AdministeredAt: event.AdministeredAt,
		SafeAfter:      safeAfter,
		DaysRemaining:  DaysRemaining(safeAfter, now),
		Status:         status,
		Expected:       event.ExpectedRestriction,
		Sequence:       event.Sequence,
	}
}

// DaysRemaining max(0, ceil((safeAfter - now) / 1 día)).
func DaysRemaining(safeAfter, now time.Time) int {
	left := safeAfter.Sub(now)
	if left <= 0 {
		return 0
	}
	days := int(left / Day)
	if left%Day != 0 {
		days++
	}
	return days
}

// ActiveOnly filtra los estados activos conservando el orden.
func ActiveOnly(states []State) []State {
	out := make([]State, 0, len(states))
	for _, s := range states {
		if s.Status == StatusActive {
			out = append(out, s)
		}
	}
	return out
}
