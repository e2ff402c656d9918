// Package memory implementa los puertos de persistencia en memoria. Sirve como driver "memory",
// como base del snapshot SQLite y como doble de prueba de los casos de uso.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
)

// Snapshot estado completo exportable (JSON) del almacén.
type Snapshot struct {
	Farms           []entity.Farm                `json:"farms"`
	Animals         []entity.Animal              `json:"animals"`
	Drugs           []entity.Drug                `json:"drugs"`
	Batches         []entity.DrugBatch           `json:"batches"`
	Movements       []entity.BatchMovement       `json:"movements"`
	Administrations []entity.AdministrationEvent `json:"administrations"`
}

// CommitHook se invoca después de cada escritura confirmada (fuera de transacción o al hacer commit).
type CommitHook func(ctx context.Context) error

// Store datos en memoria compartidos por todos los repositorios.
type Store struct {
	mu              sync.RWMutex
	farms           map[string]entity.Farm
	animals         map[string]entity.Animal
	drugs           map[string]entity.Drug
	batches         map[string]entity.DrugBatch
	movements       []entity.BatchMovement
	administrations []entity.AdministrationEvent

	txMu  sync.Mutex // serializa transacciones
	hooks []CommitHook
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{
		farms:   make(map[string]entity.Farm),
		animals: make(map[string]entity.Animal),
		drugs:   make(map[string]entity.Drug),
		batches: make(map[string]entity.DrugBatch),
	}
}

// OnCommit registra un hook de persistencia.
func (s *Store) OnCommit(h CommitHook) {
	s.mu.Lock()
	s.hooks = append(s.hooks, h)
	s.mu.Unlock()
}

func (s *Store) commit(ctx context.Context) error {
	s.mu.RLock()
	hooks := append([]CommitHook(nil), s.hooks...)
	s.mu.RUnlock()
	for _, h := range hooks {
		if err := h(ctx); err != nil {
			return err
		}
	}
	return nil
}

// ExportState copia el estado ordenado de forma determinista.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Farms:           values(s.farms, func(f entity.Farm) string { return f.ID }),
		Animals:         values(s.animals, func(a entity.Animal) string { return a.ID }),
		Drugs:           values(s.drugs, func(d entity.Drug) string { return d.ID }),
		Batches:         values(s.batches, func(b entity.DrugBatch) string { return b.ID }),
		Movements:       append([]entity.BatchMovement(nil), s.movements...),
		Administrations: append([]entity.AdministrationEvent(nil), s.administrations...),
	}
	return snap
}

// ImportState reemplaza el estado completo.
func (s *Store) ImportState(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.farms = index(snap.Farms, func(f entity.Farm) string { return f.ID })
	s.animals = index(snap.Animals, func(a entity.Animal) string { return a.ID })
	s.drugs = index(snap.Drugs, func(d entity.Drug) string { return d.ID })
	s.batches = index(snap.Batches, func(b entity.DrugBatch) string { return b.ID })
	s.movements = append([]entity.BatchMovement(nil), snap.Movements...)
	s.administrations = append([]entity.AdministrationEvent(nil), snap.Administrations...)
	sort.SliceStable(s.administrations, func(i, j int) bool {
		return s.administrations[i].Sequence < s.administrations[j].Sequence
	})
}

func values[T any](m map[string]T, key func(T) string) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return key(out[i]) < key(out[j]) })
	return out
}

func index[T any](items []T, key func(T) string) map[string]T {
	m := make(map[string]T, len(items))
	for _, it := range items {
		m[key(it)] = it
	}
	return m
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
