package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deppfellow/medical-prescription/internal/model"
	"github.com/deppfellow/medical-prescription/internal/sqlerr"
)

const patientSelect = `
	SELECT ` + accountColumns + `,
		p.date_of_birth, p.phone, p.sex, p.id_document, p.cep, p.uf,
		p.city, p.neighborhood, p.complement, p.created_by
	FROM accounts a
	JOIN patients p ON p.id = a.id`

type PatientRepository struct {
	pool *pgxpool.Pool
}

func (r *PatientRepository) Create(ctx context.Context, p *model.Patient) error {
	p.Role = model.RolePatient

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := insertAccount(ctx, tx, &p.Account); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO patients (id, date_of_birth, phone, sex, id_document, cep, uf, city, neighborhood, complement, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			p.ID, p.DateOfBirth, p.Phone, p.Sex, p.IDDocument, p.CEP, p.UF, p.City, p.Neighborhood, p.Complement, p.CreatedBy,
		)
		return err
	})
}

func (r *PatientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	rows, _ := r.pool.Query(ctx, patientSelect+` WHERE a.id = $1`, id)

	patient, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.Patient])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sqlerr.NotFound("patients")
	}
	if err != nil {
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return patient, nil
}

// List matches query against name and email.
func (r *PatientRepository) List(ctx context.Context, query string, page model.Page) ([]model.Patient, int, error) {
	const filter = ` WHERE a.name ILIKE $1 OR a.email ILIKE $1`
	pattern := containsPattern(query)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM accounts a JOIN patients p ON p.id = a.id`+filter, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count patients: %w", err)
	}

	rows, _ := r.pool.Query(ctx, patientSelect+filter+` ORDER BY a.name LIMIT $2 OFFSET $3`, pattern, page.Limit, page.Offset)
	patients, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Patient])
	if err != nil {
		return nil, 0, fmt.Errorf("list patients: %w", err)
	}
	return patients, total, nil
}
