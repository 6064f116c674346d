package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/deppfellow/medical-prescription/internal/model"
	"github.com/deppfellow/medical-prescription/internal/server"
	"github.com/deppfellow/medical-prescription/internal/validation"
)

const (
	searchLimit     = 20
	diseaseCacheTTL = 10 * time.Minute
)

type CatalogService struct {
	server *server.Server
	store  CatalogStore
	cache  Cache
}

// NewCatalogService builds the catalog lookups. cache may be nil.
func NewCatalogService(s *server.Server, store CatalogStore, cache Cache) *CatalogService {
	return &CatalogService{server: s, store: store, cache: cache}
}

// SearchDiseases looks diseases up by code prefix or description. Results
// are cached; cache failures fall through to the store.
func (c *CatalogService) SearchDiseases(ctx context.Context, query string) ([]model.Disease, error) {
	key := "diseases:" + strings.ToLower(strings.TrimSpace(query))

	if c.cache != nil {
		var cached []model.Disease
		hit, err := c.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			c.server.Logger.Warn().Err(err).Str("key", key).Msg("disease cache read failed")
		}
		if hit {
			return cached, nil
		}
	}

	diseases, err := c.store.SearchDiseases(ctx, query, searchLimit)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.SetJSON(ctx, key, diseases, diseaseCacheTTL); err != nil {
			c.server.Logger.Warn().Err(err).Str("key", key).Msg("disease cache write failed")
		}
	}
	return diseases, nil
}

func (c *CatalogService) SearchMedicines(ctx context.Context, query string) ([]model.Medicine, error) {
	return c.store.SearchMedicines(ctx, query, searchLimit)
}

func (c *CatalogService) SearchDefaultExams(ctx context.Context, query string) ([]model.DefaultExam, error) {
	return c.store.SearchDefaultExams(ctx, query, searchLimit)
}

type ImportKind string

const (
	ImportDiseases  ImportKind = "diseases"
	ImportMedicines ImportKind = "medicines"
	ImportExams     ImportKind = "exams"
)

var importColumns = map[ImportKind]int{
	ImportDiseases:  2,
	ImportMedicines: 4,
	ImportExams:     2,
}

// Import loads catalog rows from CSV. A header row is detected and skipped.
// Rows already present are left untouched; the count of new rows is
// returned.
func (c *CatalogService) Import(ctx context.Context, kind ImportKind, r io.Reader) (int64, error) {
	want, ok := importColumns[kind]
	if !ok {
		return 0, fmt.Errorf("unknown catalog %q", kind)
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = want
	reader.TrimLeadingSpace = true

	var (
		diseases  []model.Disease
		medicines []model.Medicine
		exams     []model.DefaultExam
	)

	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read %s csv: %w", kind, err)
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		if line == 1 && isHeader(record[0]) {
			continue
		}

		switch kind {
		case ImportDiseases:
			if !validation.IsValidCID(record[0]) {
				return 0, fmt.Errorf("line %d: invalid CID code %q", line, record[0])
			}
			diseases = append(diseases, model.Disease{Code: strings.ToUpper(record[0]), Description: record[1]})
		case ImportMedicines:
			medicines = append(medicines, model.Medicine{
				Name:               record[0],
				ActiveIngredient:   record[1],
				Concentration:      record[2],
				PharmaceuticalForm: record[3],
			})
		case ImportExams:
			exams = append(exams, model.DefaultExam{Code: record[0], Description: record[1]})
		}
	}

	switch kind {
	case ImportDiseases:
		return c.store.ImportDiseases(ctx, diseases)
	case ImportMedicines:
		return c.store.ImportMedicines(ctx, medicines)
	default:
		return c.store.ImportDefaultExams(ctx, exams)
	}
}

func isHeader(first string) bool {
	switch strings.ToLower(first) {
	case "code", "codigo", "código", "cid", "name", "nome":
		return true
	}
	return false
}
