package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Ganaderia-api/internal/domain"
	"github.com/jhoicas/Ganaderia-api/internal/domain/entity"
	"github.com/jhoicas/Ganaderia-api/internal/domain/repository"
)

var (
	_ repository.FarmRepository           = (*FarmRepo)(nil)
	_ repository.AnimalRepository         = (*AnimalRepo)(nil)
	_ repository.DrugRepository           = (*DrugRepo)(nil)
	_ repository.DrugBatchRepository      = (*DrugBatchRepo)(nil)
	_ repository.BatchMovementRepository  = (*BatchMovementRepo)(nil)
	_ repository.AdministrationRepository = (*AdministrationRepo)(nil)
)

// base agrupa el almacén y si el repo está atado a una transacción (no dispara hooks).
type base struct {
	s    *Store
	inTx bool
}

func (b base) done(ctx context.Context) error {
	if b.inTx {
		return nil
	}
	return b.s.commit(ctx)
}

// ── Fincas ────────────────────────────────────────────────────────────────

// FarmRepo FarmRepository en memoria.
type FarmRepo struct{ base }

// NewFarmRepository construye el repositorio.
func NewFarmRepository(s *Store) *FarmRepo { return &FarmRepo{base{s: s}} }

func (r *FarmRepo) Create(ctx context.Context, farm *entity.Farm) error {
	r.s.mu.Lock()
	if _, ok := r.s.farms[farm.ID]; ok {
		r.s.mu.Unlock()
		return domain.ErrDuplicate
	}
	r.s.farms[farm.ID] = *farm
	r.s.mu.Unlock()
	return r.done(ctx)
}

func (r *FarmRepo) GetByID(_ context.Context, id string) (*entity.Farm, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	f, ok := r.s.farms[id]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (r *FarmRepo) Update(ctx context.Context, farm *entity.Farm) error {
	r.s.mu.Lock()
	if _, ok := r.s.farms[farm.ID]; !ok {
		r.s.mu.Unlock()
		return domain.ErrNotFound
	}
	r.s.farms[farm.ID] = *farm
	r.s.mu.Unlock()
	return r.done(ctx)
}

func (r *FarmRepo) List(_ context.Context, limit, offset int) ([]*entity.Farm, error) {
	r.s.mu.RLock()
	all := values(r.s.farms, func(f entity.Farm) string { return f.ID })
	r.s.mu.RUnlock()
	sort.SliceStable(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return pointers(page(all, limit, offset)), nil
}

// ── Animales ──────────────────────────────────────────────────────────────

// AnimalRepo AnimalRepository en memoria.
type AnimalRepo struct{ base }

// NewAnimalRepository construye el repositorio.
func NewAnimalRepository(s *Store) *AnimalRepo { return &AnimalRepo{base{s: s}} }

func (r *AnimalRepo) Create(ctx context.Context, animal *entity.Animal) error {
	r.s.mu.Lock()
	for _, a := range r.s.animals {
		if a.ID == animal.ID || (a.FarmID == animal.FarmID && a.TagID == animal.TagID) {
			r.s.mu.Unlock()
			return domain.ErrDuplicate
		}
	}
	r.s.animals[animal.ID] = *animal
	r.s.mu.Unlock()
	return r.done(ctx)
}

func (r *AnimalRepo) GetByID(_ context.Context, id string) (*entity.Animal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.animals[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *AnimalRepo) GetByFarmAndTag(_ context.Context, farmID, tagID string) (*entity.Animal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.animals {
		if a.FarmID == farmID && a.TagID == tagID {
			a := a
			return &a, nil
		}
	}
	return nil, nil
}

func (r *AnimalRepo) ListByFarm(_ context.Context, farmID string) ([]*entity.Animal, error) {
	r.s.mu.RLock()
	var out []entity.Animal
	for _, a := range r.s.animals {
		if a.FarmID == farmID {
			out = append(out, a)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].TagID < out[j].TagID })
	return pointers(out), nil
}

// ── Fármacos ──────────────────────────────────────────────────────────────

// DrugRepo DrugRepository en memoria.
type DrugRepo struct{ base }

// NewDrugRepository construye el repositorio.
func NewDrugRepository(s *Store) *DrugRepo { return &DrugRepo{base{s: s}} }

func (r *DrugRepo) Create(ctx context.Context, drug *entity.Drug) error {
	r.s.mu.Lock()
	for _, d := range r.s.drugs {
		if d.ID == drug.ID || strings.EqualFold(d.Name, drug.Name) {
			r.s.mu.Unlock()
			return domain.ErrDuplicate
		}
	}
	r.s.drugs[drug.ID] = *drug
	r.s.mu.Unlock()
	return r.done(ctx)
}

func (r *DrugRepo) GetByID(_ context.Context, id string) (*entity.Drug, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.drugs[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *DrugRepo) GetByName(_ context.Context, name string) (*entity.Drug, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, d := range r.s.drugs {
		if strings.EqualFold(d.Name, name) {
			d := d
			return &d, nil
		}
	}
	return nil, nil
}

func (r *DrugRepo) Update(ctx context.Context, drug *entity.Drug) error {
	r.s.mu.Lock()
	if _, ok := r.s.drugs[drug.ID]; !ok {
		r.s.mu.Unlock()
		return domain.ErrNotFound
	}
	r.s.drugs[drug.ID] = *drug
	r.s.mu.Unlock()
	return r.done(ctx)
}

func (r *DrugRepo) List(_ context.Context, limit, offset int) ([]*entity.Drug, error) {
	r.s.mu.RLock()
	all := values(r.s.drugs, func(d entity.Drug) string { return d.ID })
	r.s.mu.RUnlock()
	sort.SliceStable(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return pointers(page(all, limit, offset)), nil
}

// ── Lotes ─────────────────────────────────────────────────────────────────

// DrugBatchRepo DrugBatchRepository en memoria.
type DrugBatchRepo struct{ base }

// NewDrugBatchRepository construye el repositorio.
func NewDrugBatchRepository(s *Store) *DrugBatchRepo { return &DrugBatchRepo{base{s: s}} }

func (r *DrugBatchRepo) Create(ctx context.Context, batch *entity.DrugBatch) error {
	r.s.mu.Lock()
	for _, b := range r.s.batches {
		if b.ID == batch.ID || (b.FarmID == batch.FarmID && b.DrugID == batch.DrugID && b.BatchNumber == batch.BatchNumber) {
			r.s.mu.Unlock()
			return domain.ErrDuplicate
		}
	}
	r.s.batches[batch.ID] = *batch
	r.s.mu.Unlock()
	return r.done(ctx)
}

func (r *DrugBatchRepo) GetByID(_ context.Context, id string) (*entity.DrugBatch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.batches[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

// GetForUpdate en memoria equivale a GetByID: el bloqueo lo da la transacción serializada.
func (r *DrugBatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.DrugBatch, error) {
	return r.GetByID(ctx, id)
}

func (r *DrugBatchRepo) UpdateQuantity(ctx context.Context, batch *entity.DrugBatch) error {
	r.s.mu.Lock()
	cur, ok := r.s.batches[batch.ID]
	if !ok {
		r.s.mu.Unlock()
		return domain.ErrNotFound
	}
	cur.Quantity = batch.Quantity
	cur.UpdatedAt = batch.UpdatedAt
	r.s.batches[batch.ID] = cur
	r.s.mu.Unlock()
	return r.done(ctx)
}

func (r *DrugBatchRepo) ListByFarm(_ context.Context, farmID string) ([]*entity.DrugBatch, error) {
	r.s.mu.RLock()
	var out []entity.DrugBatch
	for _, b := range r.s.batches {
		if b.FarmID == farmID {
			out = append(out, b)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExpiryDate.Equal(out[j].ExpiryDate) {
			return out[i].ExpiryDate.Before(out[j].ExpiryDate)
		}
		return out[i].ID < out[j].ID
	})
	return pointers(out), nil
}

// ── Movimientos ───────────────────────────────────────────────────────────

// BatchMovementRepo BatchMovementRepository en memoria.
type BatchMovementRepo struct{ base }

// NewBatchMovementRepository construye el repositorio.
func NewBatchMovementRepository(s *Store) *BatchMovementRepo {
	return &BatchMovementRepo{base{s: s}}
}

func (r *BatchMovementRepo) Create(ctx context.Context, m *entity.BatchMovement) error {
	r.s.mu.Lock()
	r.s.movements = append(r.s.movements, *m)
	r.s.mu.Unlock()
	return r.done(ctx)
}

func (r *BatchMovementRepo) ListByBatch(_ context.Context, batchID string, from, to *time.Time, limit, offset int) ([]*entity.BatchMovement, error) {
	r.s.mu.RLock()
	var out []entity.BatchMovement
	for _, m := range r.s.movements {
		if m.BatchID != batchID {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		out = append(out, m)
	}
	r.s.mu.RUnlock()
	// más recientes primero; empate por orden de inserción inverso
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return pointers(page(out, limit, offset)), nil
}

// ── Administraciones ──────────────────────────────────────────────────────

// AdministrationRepo AdministrationRepository en memoria (append-only).
type AdministrationRepo struct{ base }

// NewAdministrationRepository construye el repositorio.
func NewAdministrationRepository(s *Store) *AdministrationRepo {
	return &AdministrationRepo{base{s: s}}
}

func (r *AdministrationRepo) Append(ctx context.Context, ev *entity.AdministrationEvent) error {
	r.s.mu.Lock()
	for _, e := range r.s.administrations {
		if e.ID == ev.ID {
			r.s.mu.Unlock()
			return domain.ErrDuplicate
		}
	}
	r.s.administrations = append(r.s.administrations, *ev)
	r.s.mu.Unlock()
	if err := r.done(ctx); err != nil {
		// no persistido: el caller descarta el evento del ledger
		r.s.mu.Lock()
		for i, e := range r.s.administrations {
			if e.ID == ev.ID {
				r.s.administrations = append(r.s.administrations[:i:i], r.s.administrations[i+1:]...)
				break
			}
		}
		r.s.mu.Unlock()
		return err
	}
	return nil
}

func (r *AdministrationRepo) ListByAnimal(_ context.Context, animalID string) ([]*entity.AdministrationEvent, error) {
	r.s.mu.RLock()
	var out []entity.AdministrationEvent
	for _, e := range r.s.administrations {
		if e.AnimalID == animalID {
			out = append(out, e)
		}
	}
	r.s.mu.RUnlock()
	return pointers(out), nil
}

func (r *AdministrationRepo) ListAll(_ context.Context) ([]*entity.AdministrationEvent, error) {
	r.s.mu.RLock()
	out := append([]entity.AdministrationEvent(nil), r.s.administrations...)
	r.s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return pointers(out), nil
}

func pointers[T any](items []T) []*T {
	out := make([]*T, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out
}
