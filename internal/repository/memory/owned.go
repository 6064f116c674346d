package memory

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/deppfellow/medical-prescription/internal/model"
	"github.com/deppfellow/medical-prescription/internal/sqlerr"
)

// owned keeps rows that belong to a health professional.
type owned[T any] struct {
	store *Store
	table string
	rows  []*T
	// keys exposes the id, owner and creation stamp of a row.
	keys  func(*T) (*uuid.UUID, uuid.UUID, *time.Time)
	touch func(*T, time.Time)
}

func (o *owned[T]) index(ownerID, id uuid.UUID) int {
	return slices.IndexFunc(o.rows, func(r *T) bool {
		rid, owner, _ := o.keys(r)
		return *rid == id && owner == ownerID
	})
}

func (o *owned[T]) Create(_ context.Context, v *T) error {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()

	id, _, created := o.keys(v)
	*id = uuid.New()
	*created = o.store.now()
	if o.touch != nil {
		o.touch(v, *created)
	}

	cp := *v
	o.rows = append(o.rows, &cp)
	return nil
}

func (o *owned[T]) Get(_ context.Context, ownerID, id uuid.UUID) (*T, error) {
	o.store.mu.RLock()
	defer o.store.mu.RUnlock()

	i := o.index(ownerID, id)
	if i < 0 {
		return nil, sqlerr.NotFound(o.table)
	}
	cp := *o.rows[i]
	return &cp, nil
}

func (o *owned[T]) List(_ context.Context, ownerID uuid.UUID, page model.Page) ([]T, int, error) {
	o.store.mu.RLock()
	defer o.store.mu.RUnlock()

	out := newestFirst(o.rows, func(r *T) bool {
		_, owner, _ := o.keys(r)
		return owner == ownerID
	})
	return paginate(out, page), len(out), nil
}

func (o *owned[T]) Update(_ context.Context, v *T) error {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()

	id, owner, created := o.keys(v)
	i := o.index(owner, *id)
	if i < 0 {
		return sqlerr.NotFound(o.table)
	}

	_, _, prevCreated := o.keys(o.rows[i])
	*created = *prevCreated
	if o.touch != nil {
		o.touch(v, o.store.now())
	}

	cp := *v
	o.rows[i] = &cp
	return nil
}

func (o *owned[T]) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()

	i := o.index(ownerID, id)
	if i < 0 {
		return sqlerr.NotFound(o.table)
	}
	o.rows = slices.Delete(o.rows, i, i+1)
	return nil
}

type ManipulatedMedicines struct {
	*owned[model.ManipulatedMedicine]
}

type CustomExams struct {
	*owned[model.CustomExam]
}

type Patterns struct {
	*owned[model.Pattern]
}

// Update keeps the stored logo; logos only change through SetLogo.
func (p *Patterns) Update(ctx context.Context, v *model.Pattern) error {
	p.store.mu.RLock()
	if i := p.index(v.HealthProfessionalID, v.ID); i >= 0 {
		v.Logo, v.LogoType = p.rows[i].Logo, p.rows[i].LogoType
	}
	p.store.mu.RUnlock()

	return p.owned.Update(ctx, v)
}

func (p *Patterns) SetLogo(_ context.Context, ownerID, id uuid.UUID, logo []byte, contentType string) error {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	i := p.index(ownerID, id)
	if i < 0 {
		return sqlerr.NotFound(p.table)
	}
	row := p.rows[i]
	row.Logo = slices.Clone(logo)
	row.LogoType = &contentType
	row.UpdatedAt = p.store.now()
	return nil
}
