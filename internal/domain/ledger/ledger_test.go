package ledger_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ganaderia-api/internal/domain"
	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
	"github.com/jhoicas/Ganaderia-api/internal/domain/ledger"
	"github.com/jhoicas/Ganaderia-api/internal/domain/withdrawal"
	"github.com/jhoicas/Ganaderia-api/pkg/clock"
)

var t0 = time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC)

func newLedger() (*ledger.Ledger, *clock.Fixed) {
	c := clock.NewFixed(t0.Add(10 * 24 * time.Hour))
	return ledger.New(c, ledger.DefaultClockTolerance), c
}

func event(animalID string, at time.Time, meat, milk int) entity.AdministrationEvent {
	return entity.AdministrationEvent{
		AnimalID:           animalID,
		DrugID:             "drug-1",
		DrugName:           "Ivermectina 1%",
		WithdrawalMeatDays: meat,
		WithdrawalMilkDays: milk,
		AdministeredAt:     at,
		Route:              entity.RouteSubcutaneous,
	}
}

// Registrar y luego leer: el evento aparece una sola vez y como último elemento.
func TestRecord_AppendThenRead(t *testing.T) {
	l, _ := newLedger()
	_, err := l.Record(event("a-1", t0, 10, 2))
	require.NoError(t, err)

	recorded, err := l.Record(event("a-1", t0.Add(time.Hour), 5, 1))
	require.NoError(t, err)
	require.NotEmpty(t, recorded.ID)

	history := l.History("a-1")
	require.Len(t, history, 2)
	assert.Equal(t, recorded.ID, history[len(history)-1].ID)

	count := 0
	for _, ev := range history {
		if ev.ID == recorded.ID {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

// Un evento con fecha anterior registrado al final sigue siendo el último del historial.
func TestRecord_RetroactivoQuedaUltimo(t *testing.T) {
	l, _ := newLedger()
	_, err := l.Record(event("a-1", t0.Add(48*time.Hour), 3, 3))
	require.NoError(t, err)
	late, err := l.Record(event("a-1", t0, 3, 3))
	require.NoError(t, err)

	history := l.History("a-1")
	assert.Equal(t, late.ID, history[len(history)-1].ID)
	assert.Greater(t, history[1].Sequence, history[0].Sequence)
}

func TestRecord_ErroresDeValidacion(t *testing.T) {
	l, c := newLedger()
	future := c.Now().Add(2 * ledger.DefaultClockTolerance)
	cases := []struct {
		name  string
		ev    entity.AdministrationEvent
		field string
	}{
		{"carne negativa", event("a-1", t0, -1, 0), "withdrawal_meat_days"},
		{"leche negativa", event("a-1", t0, 0, -3), "withdrawal_milk_days"},
		{"fecha futura", event("a-1", future, 1, 1), "administered_at"},
		{"fecha ausente", event("a-1", time.Time{}, 1, 1), "administered_at"},
		{"sin animal", event("", t0, 1, 1), "animal_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.Record(tc.ev)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidEvent)
			var invalid *domain.InvalidEventError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tc.field, invalid.Field)
		})
	}
	assert.Equal(t, 0, l.Len(), "ningún evento inválido debe quedar registrado")
}

// Fechas dentro de la tolerancia del reloj se aceptan.
func TestRecord_ToleranciaDeReloj(t *testing.T) {
	l, c := newLedger()
	_, err := l.Record(event("a-1", c.Now().Add(30*time.Second), 1, 1))
	assert.NoError(t, err)
}

func TestRecord_IDDuplicado(t *testing.T) {
	l, _ := newLedger()
	ev := event("a-1", t0, 1, 1)
	ev.ID = "evt-fijo"
	_, err := l.Record(ev)
	require.NoError(t, err)
	_, err = l.Record(ev)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Len(t, l.History("a-1"), 1)
}

// Un evento descartado deja de verse y su secuencia queda libre para el reintento.
func TestDiscard_DeshaceElRegistro(t *testing.T) {
	l, _ := newLedger()
	first, err := l.Record(event("a-1", t0, 0, 4))
	require.NoError(t, err)
	second, err := l.Record(event("a-1", t0.Add(time.Hour), 0, 4))
	require.NoError(t, err)

	assert.True(t, l.Discard(second.ID))
	assert.False(t, l.Discard(second.ID))
	assert.False(t, l.Discard("no-existe"))
	require.Len(t, l.History("a-1"), 1)
	assert.Equal(t, first.ID, l.History("a-1")[0].ID)
	assert.Equal(t, 1, l.Len())

	retry, err := l.Record(event("a-1", t0.Add(time.Hour), 0, 4))
	require.NoError(t, err)
	assert.Equal(t, second.Sequence, retry.Sequence)

	assert.True(t, l.Discard(first.ID))
	assert.True(t, l.Discard(retry.ID))
	assert.Empty(t, l.History("a-1"))
	assert.Empty(t, l.ActiveRestrictions("a-1", t0.Add(time.Hour)))
}

func TestActiveRestrictions_OrdenPorLiberacion(t *testing.T) {
	l, _ := newLedger()
	_, err := l.Record(event("a-1", t0, 30, 0)) // carne libera t0+30
	require.NoError(t, err)
	_, err = l.Record(event("a-1", t0.Add(24*time.Hour), 0, 4)) // leche libera t0+5
	require.NoError(t, err)
	_, err = l.Record(event("a-1", t0, 2, 2)) // ya liberado en t0+3
	require.NoError(t, err)

	now := t0.Add(3 * 24 * time.Hour)
	active := l.ActiveRestrictions("a-1", now)
	require.Len(t, active, 2)
	assert.Equal(t, withdrawal.ProductMilk, active[0].Product)
	assert.Equal(t, 2, active[0].DaysRemaining)
	assert.Equal(t, withdrawal.ProductMeat, active[1].Product)
	for _, s := range active {
		assert.Equal(t, withdrawal.StatusActive, s.Status)
	}
}

// Replay en un instante pasado ignora eventos aplicados después de ese instante.
func TestActiveRestrictions_InstantePasado(t *testing.T) {
	l, _ := newLedger()
	_, err := l.Record(event("a-1", t0.Add(5*24*time.Hour), 10, 10))
	require.NoError(t, err)
	assert.Empty(t, l.ActiveRestrictions("a-1", t0.Add(24*time.Hour)))
	assert.Len(t, l.ActiveRestrictions("a-1", t0.Add(6*24*time.Hour)), 2)
}

func TestRestrictedAnimals(t *testing.T) {
	l, _ := newLedger()
	_, _ = l.Record(event("a-1", t0, 20, 0))
	_, _ = l.Record(event("a-2", t0, 1, 1))
	got := l.RestrictedAnimals([]string{"a-1", "a-2", "a-3"}, t0.Add(5*24*time.Hour))
	assert.Equal(t, []string{"a-1"}, got)
}

func TestReplay_ReconstruyeOrden(t *testing.T) {
	src, _ := newLedger()
	a, _ := src.Record(event("a-1", t0, 1, 1))
	b, _ := src.Record(event("a-2", t0, 1, 1))
	c, _ := src.Record(event("a-1", t0, 1, 1))

	dst, _ := newLedger()
	require.NoError(t, dst.Replay([]entity.AdministrationEvent{c, a, b}))
	history := dst.History("a-1")
	require.Len(t, history, 2)
	assert.Equal(t, a.ID, history[0].ID)
	assert.Equal(t, c.ID, history[1].ID)

	next, err := dst.Record(event("a-2", t0, 1, 1))
	require.NoError(t, err)
	assert.Greater(t, next.Sequence, c.Sequence)
}

// Registros concurrentes para el mismo animal: ninguno se pierde ni se intercala parcialmente.
func TestRecord_Concurrente(t *testing.T) {
	l, _ := newLedger()
	const workers, perWorker = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				ev := event("a-1", t0, i%5, i%3)
				ev.ID = fmt.Sprintf("w%d-%d", w, i)
				_, err := l.Record(ev)
				assert.NoError(t, err)
				_ = l.History("a-1")
			}
		}(w)
	}
	wg.Wait()

	history := l.History("a-1")
	require.Len(t, history, workers*perWorker)
	seen := make(map[string]bool, len(history))
	for i, ev := range history {
		assert.False(t, seen[ev.ID], "evento duplicado %s", ev.ID)
		seen[ev.ID] = true
		assert.NotEmpty(t, ev.DrugID)
		if i > 0 {
			assert.Greater(t, ev.Sequence, history[i-1].Sequence)
		}
	}
}
