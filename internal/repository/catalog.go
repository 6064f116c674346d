package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deppfellow/medical-prescription/internal/model"
	"github.com/deppfellow/medical-prescription/internal/sqlerr"
)

// CatalogRepository serves the read-mostly reference tables: diseases,
// medicines and default exams.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

func getOne[T any](ctx context.Context, pool *pgxpool.Pool, table, query string, args ...any) (*T, error) {
	rows, _ := pool.Query(ctx, query, args...)

	v, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sqlerr.NotFound(table)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", table, err)
	}
	return v, nil
}

func getMany[T any](ctx context.Context, pool *pgxpool.Pool, table, query string, args ...any) ([]T, error) {
	rows, _ := pool.Query(ctx, query, args...)

	vs, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	return vs, nil
}

func (r *CatalogRepository) GetDisease(ctx context.Context, id uuid.UUID) (*model.Disease, error) {
	return getOne[model.Disease](ctx, r.pool, "diseases",
		`SELECT id, code, description FROM diseases WHERE id = $1`, id)
}

func (r *CatalogRepository) GetDiseaseByCode(ctx context.Context, code string) (*model.Disease, error) {
	return getOne[model.Disease](ctx, r.pool, "diseases",
		`SELECT id, code, description FROM diseases WHERE code = $1`, strings.ToUpper(strings.TrimSpace(code)))
}

// SearchDiseases matches a code prefix or any part of the description.
func (r *CatalogRepository) SearchDiseases(ctx context.Context, query string, limit int) ([]model.Disease, error) {
	return getMany[model.Disease](ctx, r.pool, "diseases", `
		SELECT id, code, description
		FROM diseases
		WHERE code ILIKE $1 OR description ILIKE $2
		ORDER BY code
		LIMIT $3`,
		prefixPattern(query), containsPattern(query), limit)
}

func (r *CatalogRepository) GetMedicine(ctx context.Context, id uuid.UUID) (*model.Medicine, error) {
	return getOne[model.Medicine](ctx, r.pool, "medicines", `
		SELECT id, name, active_ingredient, concentration, pharmaceutical_form
		FROM medicines WHERE id = $1`, id)
}

func (r *CatalogRepository) SearchMedicines(ctx context.Context, query string, limit int) ([]model.Medicine, error) {
	return getMany[model.Medicine](ctx, r.pool, "medicines", `
		SELECT id, name, active_ingredient, concentration, pharmaceutical_form
		FROM medicines
		WHERE name ILIKE $1 OR active_ingredient ILIKE $1
		ORDER BY name
		LIMIT $2`,
		containsPattern(query), limit)
}

func (r *CatalogRepository) GetDefaultExam(ctx context.Context, id uuid.UUID) (*model.DefaultExam, error) {
	return getOne[model.DefaultExam](ctx, r.pool, "default_exams",
		`SELECT id, code, description FROM default_exams WHERE id = $1`, id)
}

func (r *CatalogRepository) SearchDefaultExams(ctx context.Context, query string, limit int) ([]model.DefaultExam, error) {
	return getMany[model.DefaultExam](ctx, r.pool, "default_exams", `
		SELECT id, code, description
		FROM default_exams
		WHERE code ILIKE $1 OR description ILIKE $2
		ORDER BY description
		LIMIT $3`,
		prefixPattern(query), containsPattern(query), limit)
}

func (r *CatalogRepository) ImportDiseases(ctx context.Context, rows []model.Disease) (int64, error) {
	data := make([][]any, len(rows))
	for i, d := range rows {
		data[i] = []any{d.Code, d.Description}
	}
	return r.bulkInsert(ctx, "diseases", []string{"code", "description"}, "code", data)
}

func (r *CatalogRepository) ImportMedicines(ctx context.Context, rows []model.Medicine) (int64, error) {
	data := make([][]any, len(rows))
	for i, m := range rows {
		data[i] = []any{m.Name, m.ActiveIngredient, m.Concentration, m.PharmaceuticalForm}
	}
	return r.bulkInsert(ctx, "medicines",
		[]string{"name", "active_ingredient", "concentration", "pharmaceutical_form"}, "name", data)
}

func (r *CatalogRepository) ImportDefaultExams(ctx context.Context, rows []model.DefaultExam) (int64, error) {
	data := make([][]any, len(rows))
	for i, e := range rows {
		data[i] = []any{e.Code, e.Description}
	}
	return r.bulkInsert(ctx, "default_exams", []string{"code", "description"}, "code", data)
}

// bulkInsert COPYs rows into a temporary table and moves them over, skipping
// rows whose conflict column already exists. It returns the rows inserted.
func (r *CatalogRepository) bulkInsert(ctx context.Context, table string, columns []string, conflict string, data [][]any) (int64, error) {
	var inserted int64
	staging := "staging_" + table
	cols := strings.Join(columns, ", ")

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, fmt.Sprintf(
			`CREATE TEMP TABLE %s (LIKE %s INCLUDING DEFAULTS) ON COMMIT DROP`, staging, table)); err != nil {
			return fmt.Errorf("create staging table: %w", err)
		}

		if _, err := tx.CopyFrom(ctx, pgx.Identifier{staging}, columns, pgx.CopyFromRows(data)); err != nil {
			return fmt.Errorf("copy into %s: %w", staging, err)
		}

		tag, err := tx.Exec(ctx, fmt.Sprintf(
			`INSERT INTO %s (%s) SELECT DISTINCT ON (%s) %s FROM %s ON CONFLICT (%s) DO NOTHING`,
			table, cols, conflict, cols, staging, conflict))
		if err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
		inserted = tag.RowsAffected()
		return nil
	})

	return inserted, err
}
