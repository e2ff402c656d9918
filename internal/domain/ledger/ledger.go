// Package ledger mantiene el registro append-only de administraciones por animal.
//
// Cada evento queda completamente visible o no visible: la escritura ocurre bajo un único
// lock y los lectores reciben copias. No existe Update ni Delete; una corrección es un evento nuevo.
// Discard solo deshace un Record cuya persistencia falló.
package ledger

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Ganaderia-api/internal/domain"
	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
	"github.com/jhoicas/Ganaderia-api/internal/domain/withdrawal"
	"github.com/jhoicas/Ganaderia-api/pkg/clock"
)

// DefaultClockTolerance margen aceptado para fechas de administración adelantadas respecto al reloj.
const DefaultClockTolerance = time.Minute

// Ledger registro en memoria, seguro para uso concurrente.
type Ledger struct {
	clock     clock.Clock
	tolerance time.Duration

	mu       sync.RWMutex
	byAnimal map[string][]entity.AdministrationEvent
	ids      map[string]struct{}
	seq      int64
}

// New construye un ledger vacío. tolerance < 0 se trata como 0.
func New(c clock.Clock, tolerance time.Duration) *Ledger {
	if c == nil {
		c = clock.System{}
	}
	if tolerance < 0 {
		tolerance = 0
	}
	return &Ledger{
		clock:     c,
		tolerance: tolerance,
		byAnimal:  make(map[string][]entity.AdministrationEvent),
		ids:       make(map[string]struct{}),
	}
}

// Validate aplica las reglas de Record sin registrar el evento.
func (l *Ledger) Validate(event entity.AdministrationEvent) error {
	if event.AnimalID == "" {
		return &domain.InvalidEventError{Field: "animal_id", Reason: "requerido"}
	}
	if event.DrugID == "" {
		return &domain.InvalidEventError{Field: "drug_id", Reason: "requerido"}
	}
	if event.WithdrawalMeatDays < 0 {
		return &domain.InvalidEventError{Field: "withdrawal_meat_days", Reason: "no puede ser negativo"}
	}
	if event.WithdrawalMilkDays < 0 {
		return &domain.InvalidEventError{Field: "withdrawal_milk_days", Reason: "no puede ser negativo"}
	}
	if event.AdministeredAt.IsZero() {
		return &domain.InvalidEventError{Field: "administered_at", Reason: "requerido"}
	}
	if event.AdministeredAt.After(l.clock.Now().Add(l.tolerance)) {
		return &domain.InvalidEventError{Field: "administered_at", Reason: "posterior a la hora actual"}
	}
	return nil
}

// Record valida y agrega el evento al final del historial del animal.
// Asigna ID (si falta), Sequence y RecordedAt; devuelve la copia registrada.
func (l *Ledger) Record(event entity.AdministrationEvent) (entity.AdministrationEvent, error) {
	if err := l.Validate(event); err != nil {
		return entity.AdministrationEvent{}, err
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.RecordedAt.IsZero() {
		event.RecordedAt = l.clock.Now()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, dup := l.ids[event.ID]; dup {
		return entity.AdministrationEvent{}, domain.ErrDuplicate
	}
	l.seq++
	event.Sequence = l.seq
	l.append(event)
	return event, nil
}

// Replay carga eventos ya persistidos (ordenados por Sequence) sin validar contra el reloj.
// Se usa al arrancar para reconstruir el estado desde el almacenamiento.
func (l *Ledger) Replay(events []entity.AdministrationEvent) error {
	sorted := make([]entity.AdministrationEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Sequence < sorted[j].Sequence })

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ev := range sorted {
		if ev.ID == "" || ev.AnimalID == "" {
			return &domain.InvalidEventError{Field: "id", Reason: "evento persistido sin identificadores"}
		}
		if ev.WithdrawalMeatDays < 0 || ev.WithdrawalMilkDays < 0 {
			return &domain.InvalidEventError{Field: "withdrawal_days", Reason: "no puede ser negativo"}
		}
		if _, dup := l.ids[ev.ID]; dup {
			return domain.ErrDuplicate
		}
		if ev.Sequence <= l.seq {
			ev.Sequence = l.seq + 1
		}
		l.seq = ev.Sequence
		l.append(ev)
	}
	return nil
}

// Discard retira un evento recién registrado que no pudo persistirse. Si era el último,
// la secuencia se libera para el reintento. Devuelve false si el id no está en el ledger.
func (l *Ledger) Discard(eventID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.ids[eventID]; !ok {
		return false
	}
	for animalID, events := range l.byAnimal {
		for i, ev := range events {
			if ev.ID != eventID {
				continue
			}
			next := make([]entity.AdministrationEvent, 0, len(events)-1)
			next = append(next, events[:i]...)
			next = append(next, events[i+1:]...)
			if len(next) == 0 {
				delete(l.byAnimal, animalID)
			} else {
				l.byAnimal[animalID] = next
			}
			if ev.Sequence == l.seq {
				l.seq--
			}
			delete(l.ids, eventID)
			return true
		}
	}
	return false
}

// append requiere l.mu tomado en escritura. Copy-on-write: los slices entregados a lectores no cambian.
func (l *Ledger) append(ev entity.AdministrationEvent) {
	prev := l.byAnimal[ev.AnimalID]
	next := make([]entity.AdministrationEvent, len(prev), len(prev)+1)
	copy(next, prev)
	l.byAnimal[ev.AnimalID] = append(next, ev)
	l.ids[ev.ID] = struct{}{}
}

// History devuelve el historial del animal en orden de registro. El último registrado es el último elemento.
func (l *Ledger) History(animalID string) []entity.AdministrationEvent {
	l.mu.RLock()
	events := l.byAnimal[animalID]
	l.mu.RUnlock()
	out := make([]entity.AdministrationEvent, len(events))
	copy(out, events)
	return out
}

// Events devuelve el historial de varios animales, en orden de registro global.
func (l *Ledger) Events(animalIDs []string) []entity.AdministrationEvent {
	l.mu.RLock()
	var out []entity.AdministrationEvent
	for _, id := range animalIDs {
		out = append(out, l.byAnimal[id]...)
	}
	l.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out
}

// Len total de eventos registrados.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.ids)
}

// ActiveRestrictions estados ACTIVOS del animal en now, del más próximo a liberarse al más lejano.
// Los eventos aplicados después de now no cuentan (permite reconstruir el estado en un instante pasado).
func (l *Ledger) ActiveRestrictions(animalID string, now time.Time) []withdrawal.State {
	return ActiveRestrictions(l.History(animalID), now)
}

// RestrictedAnimals ids de los animales con al menos una restricción activa en now.
func (l *Ledger) RestrictedAnimals(animalIDs []string, now time.Time) []string {
	var out []string
	for _, id := range animalIDs {
		if len(l.ActiveRestrictions(id, now)) > 0 {
			out = append(out, id)
		}
	}
	return out
}

// ActiveRestrictions calcula las restricciones activas de un conjunto de eventos.
// Orden: SafeAfter ascendente, luego Sequence, luego carne antes que leche.
func ActiveRestrictions(events []entity.AdministrationEvent, now time.Time) []withdrawal.State {
	var active []withdrawal.State
	for _, ev := range events {
		if ev.AdministeredAt.After(now) {
			continue
		}
		active = append(active, withdrawal.ActiveOnly(withdrawal.Compute(ev, now))...)
	}
	sort.SliceStable(active, func(i, j int) bool {
		a, b := active[i], active[j]
		if !a.SafeAfter.Equal(b.SafeAfter) {
			return a.SafeAfter.Before(b.SafeAfter)
		}
		if a.Sequence != b.Sequence {
			return a.Sequence < b.Sequence
		}
		return a.Product == withdrawal.ProductMeat && b.Product != withdrawal.ProductMeat
	})
	return active
}
