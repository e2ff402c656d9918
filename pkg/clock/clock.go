// Package clock abstrae la fuente de tiempo para que los cálculos de retiro,
// stock y cumplimiento sean funciones puras de un instante explícito.
package clock

import (
	"sync"
	"time"
)

// Clock entrega el instante actual.
type Clock interface {
	Now() time.Time
}

// System usa el reloj del sistema en UTC.
type System struct{}

// Now implementa Clock.
func (System) Now() time.Time { return time.Now().UTC() }

// Fixed devuelve siempre el mismo instante; se puede mover con Set/Advance (tests, replays).
type Fixed struct {
	mu sync.RWMutex
	t  time.Time
}

// NewFixed construye un reloj fijo en t.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{t: t}
}

// Now implementa Clock.
func (f *Fixed) Now() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.t
}

// Set fija el instante actual.
func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	f.t = t
	f.mu.Unlock()
}

// Advance mueve el reloj d hacia adelante.
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}
