package memory

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"github.com/deppfellow/medical-prescription/internal/model"
	"github.com/deppfellow/medical-prescription/internal/sqlerr"
)

type Prescriptions struct{ s *Store }

func clonePrescription(p *model.Prescription) *model.Prescription {
	cp := *p
	cp.Medicines = slices.Clone(p.Medicines)
	cp.ManipulatedMedicines = slices.Clone(p.ManipulatedMedicines)
	cp.Recommendations = slices.Clone(p.Recommendations)
	cp.DefaultExams = slices.Clone(p.DefaultExams)
	cp.CustomExams = slices.Clone(p.CustomExams)
	return &cp
}

func (r *Prescriptions) Create(_ context.Context, p *model.Prescription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if hasRepeats(p.DefaultExams, func(e model.DefaultExam) uuid.UUID { return e.ID }) {
		return uniqueViolation("prescription_default_exams", "prescription_default_exams_pkey")
	}
	if hasRepeats(p.CustomExams, func(e model.CustomExam) uuid.UUID { return e.ID }) {
		return uniqueViolation("prescription_custom_exams", "prescription_custom_exams_pkey")
	}

	p.ID = uuid.New()
	p.CreatedAt = r.s.now()
	for i := range p.Medicines {
		p.Medicines[i].ID = uuid.New()
	}
	for i := range p.ManipulatedMedicines {
		p.ManipulatedMedicines[i].ID = uuid.New()
	}
	for i := range p.Recommendations {
		p.Recommendations[i].ID = uuid.New()
	}

	stored := clonePrescription(p)
	stored.Disease = nil
	r.s.prescriptions = append(r.s.prescriptions, stored)
	return nil
}

// hasRepeats mirrors the (prescription_id, exam_id) primary keys of the
// exam association tables.
func hasRepeats[T any](items []T, key func(T) uuid.UUID) bool {
	seen := make(map[uuid.UUID]bool, len(items))
	for _, it := range items {
		k := key(it)
		if seen[k] {
			return true
		}
		seen[k] = true
	}
	return false
}

func (r *Prescriptions) index(ownerID, id uuid.UUID) int {
	return slices.IndexFunc(r.s.prescriptions, func(p *model.Prescription) bool {
		return p.ID == id && p.HealthProfessionalID == ownerID
	})
}

func (r *Prescriptions) Get(_ context.Context, ownerID, id uuid.UUID) (*model.Prescription, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	i := r.index(ownerID, id)
	if i < 0 {
		return nil, sqlerr.NotFound("prescriptions")
	}

	p := clonePrescription(r.s.prescriptions[i])
	if p.DiseaseID != nil {
		if j := slices.IndexFunc(r.s.diseases, func(d model.Disease) bool { return d.ID == *p.DiseaseID }); j >= 0 {
			d := r.s.diseases[j]
			p.Disease = &d
		}
	}
	return p, nil
}

func (r *Prescriptions) List(_ context.Context, ownerID uuid.UUID, page model.Page) ([]model.Prescription, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := newestFirst(r.s.prescriptions, func(p *model.Prescription) bool {
		return p.HealthProfessionalID == ownerID
	})
	for i := range out {
		out[i] = model.Prescription{
			ID:                   out[i].ID,
			HealthProfessionalID: out[i].HealthProfessionalID,
			PatientID:            out[i].PatientID,
			PatientName:          out[i].PatientName,
			DiseaseID:            out[i].DiseaseID,
			CreatedAt:            out[i].CreatedAt,
		}
	}
	return paginate(out, page), len(out), nil
}

func (r *Prescriptions) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.index(ownerID, id)
	if i < 0 {
		return sqlerr.NotFound("prescriptions")
	}
	r.s.prescriptions = slices.Delete(r.s.prescriptions, i, i+1)
	return nil
}
