// Package memory is an in-process implementation of the service stores. It
// backs unit tests and local demos; lookups fail the same way the pgx
// repositories do.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/deppfellow/medical-prescription/internal/model"
)

type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	accounts      []*model.Account
	professionals map[uuid.UUID]*model.HealthProfessional
	patients      map[uuid.UUID]*model.Patient

	diseases  []model.Disease
	medicines []model.Medicine
	exams     []model.DefaultExam

	manipulated   *owned[model.ManipulatedMedicine]
	customExams   *owned[model.CustomExam]
	patterns      *owned[model.Pattern]
	prescriptions []*model.Prescription
	messages      []*model.Message
}

func New() *Store {
	s := &Store{
		now:           time.Now,
		professionals: map[uuid.UUID]*model.HealthProfessional{},
		patients:      map[uuid.UUID]*model.Patient{},
	}

	s.manipulated = &owned[model.ManipulatedMedicine]{
		store: s,
		table: "manipulated_medicines",
		keys: func(m *model.ManipulatedMedicine) (*uuid.UUID, uuid.UUID, *time.Time) {
			return &m.ID, m.HealthProfessionalID, &m.CreatedAt
		},
	}
	s.customExams = &owned[model.CustomExam]{
		store: s,
		table: "custom_exams",
		keys: func(e *model.CustomExam) (*uuid.UUID, uuid.UUID, *time.Time) {
			return &e.ID, e.HealthProfessionalID, &e.CreatedAt
		},
	}
	s.patterns = &owned[model.Pattern]{
		store: s,
		table: "patterns",
		keys: func(p *model.Pattern) (*uuid.UUID, uuid.UUID, *time.Time) {
			return &p.ID, p.HealthProfessionalID, &p.CreatedAt
		},
		touch: func(p *model.Pattern, at time.Time) { p.UpdatedAt = at },
	}

	return s
}

// SetClock replaces the time source used for created_at and read_at stamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Accounts() *Accounts { return &Accounts{s} }
func (s *Store) Patients() *Patients { return &Patients{s} }
func (s *Store) Catalog() *Catalog   { return &Catalog{s} }
func (s *Store) ManipulatedMedicines() *ManipulatedMedicines {
	return &ManipulatedMedicines{s.manipulated}
}
func (s *Store) CustomExams() *CustomExams     { return &CustomExams{s.customExams} }
func (s *Store) Patterns() *Patterns           { return &Patterns{s.patterns} }
func (s *Store) Prescriptions() *Prescriptions { return &Prescriptions{s} }
func (s *Store) Messages() *Messages           { return &Messages{s} }

func uniqueViolation(table, constraint string) error {
	return &pgconn.PgError{Code: "23505", Severity: "ERROR", TableName: table, ConstraintName: constraint}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(substr)))
}

func hasPrefixFold(s, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(s), strings.ToLower(strings.TrimSpace(prefix)))
}

func paginate[T any](items []T, page model.Page) []T {
	if page.Offset >= len(items) {
		return []T{}
	}
	end := min(page.Offset+page.Limit, len(items))
	return items[page.Offset:end]
}

// newestFirst returns copies of the matching rows in reverse insertion order.
func newestFirst[T any](rows []*T, keep func(*T) bool) []T {
	var out []T
	for _, r := range slices.Backward(rows) {
		if keep(r) {
			out = append(out, *r)
		}
	}
	return out
}

// Seeding helpers used by tests and the demo data loader.

func (s *Store) AddDisease(code, description string) model.Disease {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := model.Disease{ID: uuid.New(), Code: strings.ToUpper(code), Description: description}
	s.diseases = append(s.diseases, d)
	return d
}

func (s *Store) AddMedicine(name, activeIngredient string) model.Medicine {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := model.Medicine{ID: uuid.New(), Name: name, ActiveIngredient: activeIngredient}
	s.medicines = append(s.medicines, m)
	return m
}

func (s *Store) AddDefaultExam(code, description string) model.DefaultExam {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := model.DefaultExam{ID: uuid.New(), Code: code, Description: description}
	s.exams = append(s.exams, e)
	return e
}

func (s *Store) AddHealthProfessional(name, email, crm, crmState string) *model.HealthProfessional {
	hp := &model.HealthProfessional{
		Account:  model.Account{Name: name, Email: email},
		CRM:      crm,
		CRMState: crmState,
	}
	if err := s.Accounts().CreateHealthProfessional(context.Background(), hp); err != nil {
		panic(err)
	}
	return hp
}

func (s *Store) AddPatient(name, email string) *model.Patient {
	p := &model.Patient{Account: model.Account{Name: name, Email: email}}
	if err := s.Patients().Create(context.Background(), p); err != nil {
		panic(err)
	}
	return p
}
