package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/deppfellow/medical-prescription/internal/model"
	"github.com/deppfellow/medical-prescription/internal/sqlerr"
)

type Accounts struct{ s *Store }

func (a *Accounts) find(match func(*model.Account) bool) (*model.Account, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()

	for _, acc := range a.s.accounts {
		if match(acc) {
			cp := *acc
			return &cp, nil
		}
	}
	return nil, sqlerr.NotFound("accounts")
}

func (a *Accounts) Get(_ context.Context, id uuid.UUID) (*model.Account, error) {
	return a.find(func(acc *model.Account) bool { return acc.ID == id })
}

func (a *Accounts) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	return a.find(func(acc *model.Account) bool { return strings.EqualFold(acc.Email, email) })
}

func (a *Accounts) GetByExternalID(_ context.Context, externalID string) (*model.Account, error) {
	return a.find(func(acc *model.Account) bool { return acc.ExternalID != nil && *acc.ExternalID == externalID })
}

func (a *Accounts) Search(_ context.Context, role model.Role, emailPrefix string, limit int) ([]model.Account, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()

	var out []model.Account
	for _, acc := range a.s.accounts {
		if acc.Role == role && hasPrefixFold(acc.Email, emailPrefix) {
			out = append(out, *acc)
		}
	}
	slices.SortFunc(out, func(x, y model.Account) int { return strings.Compare(x.Email, y.Email) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (a *Accounts) GetHealthProfessional(_ context.Context, id uuid.UUID) (*model.HealthProfessional, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()

	hp, ok := a.s.professionals[id]
	if !ok {
		return nil, sqlerr.NotFound("health_professionals")
	}
	cp := *hp
	return &cp, nil
}

func (a *Accounts) CreateHealthProfessional(_ context.Context, hp *model.HealthProfessional) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	for _, existing := range a.s.professionals {
		if existing.CRM == hp.CRM && existing.CRMState == hp.CRMState && hp.CRM != "" {
			return uniqueViolation("health_professionals", "health_professionals_crm_key")
		}
	}

	hp.Role = model.RoleHealthProfessional
	if err := a.s.insertAccount(&hp.Account); err != nil {
		return err
	}
	cp := *hp
	a.s.professionals[hp.ID] = &cp
	return nil
}

// insertAccount must be called with the write lock held.
func (s *Store) insertAccount(acc *model.Account) error {
	for _, existing := range s.accounts {
		if strings.EqualFold(existing.Email, acc.Email) {
			return uniqueViolation("accounts", "accounts_email_key")
		}
		if acc.ExternalID != nil && existing.ExternalID != nil && *existing.ExternalID == *acc.ExternalID {
			return uniqueViolation("accounts", "accounts_external_id_key")
		}
	}

	acc.ID = uuid.New()
	acc.CreatedAt = s.now()
	acc.UpdatedAt = acc.CreatedAt
	cp := *acc
	s.accounts = append(s.accounts, &cp)
	return nil
}

type Patients struct{ s *Store }

func (p *Patients) Create(_ context.Context, patient *model.Patient) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	patient.Role = model.RolePatient
	if err := p.s.insertAccount(&patient.Account); err != nil {
		return err
	}
	cp := *patient
	p.s.patients[patient.ID] = &cp
	return nil
}

func (p *Patients) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()

	patient, ok := p.s.patients[id]
	if !ok {
		return nil, sqlerr.NotFound("patients")
	}
	cp := *patient
	return &cp, nil
}

func (p *Patients) List(_ context.Context, query string, page model.Page) ([]model.Patient, int, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()

	var out []model.Patient
	for _, patient := range p.s.patients {
		if containsFold(patient.Name, query) || containsFold(patient.Email, query) {
			out = append(out, *patient)
		}
	}
	slices.SortFunc(out, func(x, y model.Patient) int { return strings.Compare(x.Name, y.Name) })
	return paginate(out, page), len(out), nil
}
