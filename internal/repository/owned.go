package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deppfellow/medical-prescription/internal/model"
	"github.com/deppfellow/medical-prescription/internal/sqlerr"
)

// listOwned pages through table rows that belong to ownerID, newest first.
func listOwned[T any](ctx context.Context, pool *pgxpool.Pool, table, columns string, ownerID uuid.UUID, page model.Page) ([]T, int, error) {
	var total int
	if err := pool.QueryRow(ctx,
		`SELECT count(*) FROM `+table+` WHERE health_professional_id = $1`, ownerID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", table, err)
	}

	items, err := getMany[T](ctx, pool, table, `
		SELECT `+columns+` FROM `+table+`
		WHERE health_professional_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		ownerID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func deleteOwned(ctx context.Context, pool *pgxpool.Pool, table string, ownerID, id uuid.UUID) error {
	tag, err := pool.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1 AND health_professional_id = $2`, id, ownerID)
	return affectedOne(tag, err, table)
}

func affectedOne(tag pgconn.CommandTag, err error, table string) error {
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return sqlerr.NotFound(table)
	}
	return nil
}

const manipulatedMedicineColumns = `id, health_professional_id, recipe_name, physical_form, quantity, measurement, composition, created_at`

type ManipulatedMedicineRepository struct {
	pool *pgxpool.Pool
}

func (r *ManipulatedMedicineRepository) Create(ctx context.Context, m *model.ManipulatedMedicine) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO manipulated_medicines (health_professional_id, recipe_name, physical_form, quantity, measurement, composition)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		m.HealthProfessionalID, m.RecipeName, m.PhysicalForm, m.Quantity, m.Measurement, m.Composition,
	).Scan(&m.ID, &m.CreatedAt)
}

func (r *ManipulatedMedicineRepository) Get(ctx context.Context, ownerID, id uuid.UUID) (*model.ManipulatedMedicine, error) {
	return getOne[model.ManipulatedMedicine](ctx, r.pool, "manipulated_medicines",
		`SELECT `+manipulatedMedicineColumns+` FROM manipulated_medicines WHERE id = $1 AND health_professional_id = $2`,
		id, ownerID)
}

func (r *ManipulatedMedicineRepository) List(ctx context.Context, ownerID uuid.UUID, page model.Page) ([]model.ManipulatedMedicine, int, error) {
	return listOwned[model.ManipulatedMedicine](ctx, r.pool, "manipulated_medicines", manipulatedMedicineColumns, ownerID, page)
}

func (r *ManipulatedMedicineRepository) Update(ctx context.Context, m *model.ManipulatedMedicine) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE manipulated_medicines
		SET recipe_name = $3, physical_form = $4, quantity = $5, measurement = $6, composition = $7
		WHERE id = $1 AND health_professional_id = $2`,
		m.ID, m.HealthProfessionalID, m.RecipeName, m.PhysicalForm, m.Quantity, m.Measurement, m.Composition)
	return affectedOne(tag, err, "manipulated_medicines")
}

func (r *ManipulatedMedicineRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return deleteOwned(ctx, r.pool, "manipulated_medicines", ownerID, id)
}

const customExamColumns = `id, health_professional_id, name, description, created_at`

type CustomExamRepository struct {
	pool *pgxpool.Pool
}

func (r *CustomExamRepository) Create(ctx context.Context, e *model.CustomExam) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO custom_exams (health_professional_id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		e.HealthProfessionalID, e.Name, e.Description,
	).Scan(&e.ID, &e.CreatedAt)
}

func (r *CustomExamRepository) Get(ctx context.Context, ownerID, id uuid.UUID) (*model.CustomExam, error) {
	return getOne[model.CustomExam](ctx, r.pool, "custom_exams",
		`SELECT `+customExamColumns+` FROM custom_exams WHERE id = $1 AND health_professional_id = $2`,
		id, ownerID)
}

func (r *CustomExamRepository) List(ctx context.Context, ownerID uuid.UUID, page model.Page) ([]model.CustomExam, int, error) {
	return listOwned[model.CustomExam](ctx, r.pool, "custom_exams", customExamColumns, ownerID, page)
}

func (r *CustomExamRepository) Update(ctx context.Context, e *model.CustomExam) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE custom_exams SET name = $3, description = $4
		WHERE id = $1 AND health_professional_id = $2`,
		e.ID, e.HealthProfessionalID, e.Name, e.Description)
	return affectedOne(tag, err, "custom_exams")
}

func (r *CustomExamRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return deleteOwned(ctx, r.pool, "custom_exams", ownerID, id)
}

const patternColumns = `id, health_professional_id, name, header, footer, font, font_size, page_size, logo, logo_type, created_at, updated_at`

type PatternRepository struct {
	pool *pgxpool.Pool
}

func (r *PatternRepository) Create(ctx context.Context, p *model.Pattern) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO patterns (health_professional_id, name, header, footer, font, font_size, page_size)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		p.HealthProfessionalID, p.Name, p.Header, p.Footer, p.Font, p.FontSize, p.PageSize,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PatternRepository) Get(ctx context.Context, ownerID, id uuid.UUID) (*model.Pattern, error) {
	return getOne[model.Pattern](ctx, r.pool, "patterns",
		`SELECT `+patternColumns+` FROM patterns WHERE id = $1 AND health_professional_id = $2`,
		id, ownerID)
}

func (r *PatternRepository) List(ctx context.Context, ownerID uuid.UUID, page model.Page) ([]model.Pattern, int, error) {
	return listOwned[model.Pattern](ctx, r.pool, "patterns", patternColumns, ownerID, page)
}

func (r *PatternRepository) Update(ctx context.Context, p *model.Pattern) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE patterns
		SET name = $3, header = $4, footer = $5, font = $6, font_size = $7, page_size = $8, updated_at = now()
		WHERE id = $1 AND health_professional_id = $2
		RETURNING updated_at`,
		p.ID, p.HealthProfessionalID, p.Name, p.Header, p.Footer, p.Font, p.FontSize, p.PageSize,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return sqlerr.NotFound("patterns")
	}
	return err
}

func (r *PatternRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return deleteOwned(ctx, r.pool, "patterns", ownerID, id)
}

func (r *PatternRepository) SetLogo(ctx context.Context, ownerID, id uuid.UUID, logo []byte, contentType string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE patterns SET logo = $3, logo_type = $4, updated_at = now()
		WHERE id = $1 AND health_professional_id = $2`,
		id, ownerID, logo, contentType)
	return affectedOne(tag, err, "patterns")
}
