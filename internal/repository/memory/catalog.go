package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/deppfellow/medical-prescription/internal/model"
	"github.com/deppfellow/medical-prescription/internal/sqlerr"
)

type Catalog struct{ s *Store }

func findIn[T any](s *Store, rows *[]T, table string, match func(T) bool) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range *rows {
		if match(r) {
			return &r, nil
		}
	}
	return nil, sqlerr.NotFound(table)
}

func searchIn[T any](s *Store, rows *[]T, limit int, match func(T) bool, cmp func(a, b T) int) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []T{}
	for _, r := range *rows {
		if match(r) {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, cmp)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (c *Catalog) GetDisease(_ context.Context, id uuid.UUID) (*model.Disease, error) {
	return findIn(c.s, &c.s.diseases, "diseases", func(d model.Disease) bool { return d.ID == id })
}

func (c *Catalog) GetDiseaseByCode(_ context.Context, code string) (*model.Disease, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	return findIn(c.s, &c.s.diseases, "diseases", func(d model.Disease) bool { return d.Code == code })
}

func (c *Catalog) SearchDiseases(_ context.Context, query string, limit int) ([]model.Disease, error) {
	return searchIn(c.s, &c.s.diseases, limit,
		func(d model.Disease) bool { return hasPrefixFold(d.Code, query) || containsFold(d.Description, query) },
		func(a, b model.Disease) int { return strings.Compare(a.Code, b.Code) },
	), nil
}

func (c *Catalog) GetMedicine(_ context.Context, id uuid.UUID) (*model.Medicine, error) {
	return findIn(c.s, &c.s.medicines, "medicines", func(m model.Medicine) bool { return m.ID == id })
}

func (c *Catalog) SearchMedicines(_ context.Context, query string, limit int) ([]model.Medicine, error) {
	return searchIn(c.s, &c.s.medicines, limit,
		func(m model.Medicine) bool {
			return containsFold(m.Name, query) || containsFold(m.ActiveIngredient, query)
		},
		func(a, b model.Medicine) int { return strings.Compare(a.Name, b.Name) },
	), nil
}

func (c *Catalog) GetDefaultExam(_ context.Context, id uuid.UUID) (*model.DefaultExam, error) {
	return findIn(c.s, &c.s.exams, "default_exams", func(e model.DefaultExam) bool { return e.ID == id })
}

func (c *Catalog) SearchDefaultExams(_ context.Context, query string, limit int) ([]model.DefaultExam, error) {
	return searchIn(c.s, &c.s.exams, limit,
		func(e model.DefaultExam) bool {
			return hasPrefixFold(e.Code, query) || containsFold(e.Description, query)
		},
		func(a, b model.DefaultExam) int { return strings.Compare(a.Description, b.Description) },
	), nil
}

// importRows appends rows whose key is not present yet, like
// INSERT ... ON CONFLICT DO NOTHING.
func importRows[T any](s *Store, dst *[]T, rows []T, key func(T) string, assign func(*T)) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(*dst))
	for _, r := range *dst {
		seen[key(r)] = true
	}

	var inserted int64
	for _, r := range rows {
		if seen[key(r)] {
			continue
		}
		seen[key(r)] = true
		assign(&r)
		*dst = append(*dst, r)
		inserted++
	}
	return inserted
}

func (c *Catalog) ImportDiseases(_ context.Context, rows []model.Disease) (int64, error) {
	return importRows(c.s, &c.s.diseases, rows,
		func(d model.Disease) string { return d.Code },
		func(d *model.Disease) { d.ID = uuid.New() },
	), nil
}

func (c *Catalog) ImportMedicines(_ context.Context, rows []model.Medicine) (int64, error) {
	return importRows(c.s, &c.s.medicines, rows,
		func(m model.Medicine) string { return m.Name },
		func(m *model.Medicine) { m.ID = uuid.New() },
	), nil
}

func (c *Catalog) ImportDefaultExams(_ context.Context, rows []model.DefaultExam) (int64, error) {
	return importRows(c.s, &c.s.exams, rows,
		func(e model.DefaultExam) string { return e.Code },
		func(e *model.DefaultExam) { e.ID = uuid.New() },
	), nil
}
