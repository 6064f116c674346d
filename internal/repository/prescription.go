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

const prescriptionColumns = `id, health_professional_id, patient_id, patient_name, disease_id, created_at`

type PrescriptionRepository struct {
	pool *pgxpool.Pool
}

// Create inserts the prescription header and every item in one transaction.
// Items keep the order they were given in.
func (r *PrescriptionRepository) Create(ctx context.Context, p *model.Prescription) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO prescriptions (health_professional_id, patient_id, patient_name, disease_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at`,
			p.HealthProfessionalID, p.PatientID, p.PatientName, p.DiseaseID,
		).Scan(&p.ID, &p.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert prescription: %w", err)
		}

		batch := &pgx.Batch{}
		for i := range p.Medicines {
			m := &p.Medicines[i]
			batch.Queue(`
				INSERT INTO prescription_medicines (prescription_id, medicine_id, quantity, posology, via, position)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id`,
				p.ID, m.MedicineID, m.Quantity, m.Posology, m.Via, i,
			).QueryRow(func(row pgx.Row) error { return row.Scan(&m.ID) })
		}
		for i := range p.ManipulatedMedicines {
			m := &p.ManipulatedMedicines[i]
			batch.Queue(`
				INSERT INTO prescription_manipulated_medicines (prescription_id, manipulated_medicine_id, quantity, posology, via, position)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id`,
				p.ID, m.ManipulatedMedicineID, m.Quantity, m.Posology, m.Via, i,
			).QueryRow(func(row pgx.Row) error { return row.Scan(&m.ID) })
		}
		for i := range p.Recommendations {
			rec := &p.Recommendations[i]
			batch.Queue(`
				INSERT INTO prescription_recommendations (prescription_id, recommendation, position)
				VALUES ($1, $2, $3)
				RETURNING id`,
				p.ID, rec.Text, i,
			).QueryRow(func(row pgx.Row) error { return row.Scan(&rec.ID) })
		}
		for i, e := range p.DefaultExams {
			batch.Queue(`INSERT INTO prescription_default_exams (prescription_id, default_exam_id, position) VALUES ($1, $2, $3)`,
				p.ID, e.ID, i)
		}
		for i, e := range p.CustomExams {
			batch.Queue(`INSERT INTO prescription_custom_exams (prescription_id, custom_exam_id, position) VALUES ($1, $2, $3)`,
				p.ID, e.ID, i)
		}

		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert prescription items: %w", err)
		}
		return nil
	})
}

// Get loads the prescription with its disease and all items.
func (r *PrescriptionRepository) Get(ctx context.Context, ownerID, id uuid.UUID) (*model.Prescription, error) {
	p, err := getOne[model.Prescription](ctx, r.pool, "prescriptions",
		`SELECT `+prescriptionColumns+` FROM prescriptions WHERE id = $1 AND health_professional_id = $2`,
		id, ownerID)
	if err != nil {
		return nil, err
	}

	batch := &pgx.Batch{}
	if p.DiseaseID != nil {
		batch.Queue(`SELECT id, code, description FROM diseases WHERE id = $1`, *p.DiseaseID).
			Query(func(rows pgx.Rows) error {
				d, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.Disease])
				if errors.Is(err, pgx.ErrNoRows) {
					return nil
				}
				p.Disease = d
				return err
			})
	}
	batch.Queue(`
		SELECT pm.id, pm.medicine_id, m.name, pm.quantity, pm.posology, pm.via
		FROM prescription_medicines pm
		JOIN medicines m ON m.id = pm.medicine_id
		WHERE pm.prescription_id = $1
		ORDER BY pm.position`, p.ID).
		Query(collectInto(&p.Medicines))
	batch.Queue(`
		SELECT pm.id, pm.manipulated_medicine_id, mm.recipe_name, pm.quantity, pm.posology, pm.via
		FROM prescription_manipulated_medicines pm
		JOIN manipulated_medicines mm ON mm.id = pm.manipulated_medicine_id
		WHERE pm.prescription_id = $1
		ORDER BY pm.position`, p.ID).
		Query(collectInto(&p.ManipulatedMedicines))
	batch.Queue(`
		SELECT id, recommendation
		FROM prescription_recommendations
		WHERE prescription_id = $1
		ORDER BY position`, p.ID).
		Query(collectInto(&p.Recommendations))
	batch.Queue(`
		SELECT e.id, e.code, e.description
		FROM prescription_default_exams pe
		JOIN default_exams e ON e.id = pe.default_exam_id
		WHERE pe.prescription_id = $1
		ORDER BY pe.position`, p.ID).
		Query(collectInto(&p.DefaultExams))
	batch.Queue(`
		SELECT e.id, e.health_professional_id, e.name, e.description, e.created_at
		FROM prescription_custom_exams pe
		JOIN custom_exams e ON e.id = pe.custom_exam_id
		WHERE pe.prescription_id = $1
		ORDER BY pe.position`, p.ID).
		Query(collectInto(&p.CustomExams))

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return nil, fmt.Errorf("load prescription items: %w", err)
	}
	return p, nil
}

func collectInto[T any](dst *[]T) func(pgx.Rows) error {
	return func(rows pgx.Rows) error {
		items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
		if err != nil {
			return err
		}
		*dst = items
		return nil
	}
}

// List returns prescription headers only; items are loaded by Get.
func (r *PrescriptionRepository) List(ctx context.Context, ownerID uuid.UUID, page model.Page) ([]model.Prescription, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM prescriptions WHERE health_professional_id = $1`, ownerID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count prescriptions: %w", err)
	}

	items, err := getMany[model.Prescription](ctx, r.pool, "prescriptions", `
		SELECT `+prescriptionColumns+` FROM prescriptions
		WHERE health_professional_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		ownerID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PrescriptionRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM prescriptions WHERE id = $1 AND health_professional_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete prescription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sqlerr.NotFound("prescriptions")
	}
	return nil
}
