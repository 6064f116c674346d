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

const accountColumns = `a.id, a.external_id, a.email, a.name, a.role, a.created_at, a.updated_at`

type AccountRepository struct {
	pool *pgxpool.Pool
}

func (r *AccountRepository) getBy(ctx context.Context, column string, value any) (*model.Account, error) {
	rows, _ := r.pool.Query(ctx, `SELECT `+accountColumns+` FROM accounts a WHERE a.`+column+` = $1`, value)

	account, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.Account])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sqlerr.NotFound("accounts")
	}
	if err != nil {
		return nil, fmt.Errorf("get account by %s: %w", column, err)
	}
	return account, nil
}

func (r *AccountRepository) Get(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	return r.getBy(ctx, "id", id)
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	return r.getBy(ctx, "email", email)
}

func (r *AccountRepository) GetByExternalID(ctx context.Context, externalID string) (*model.Account, error) {
	return r.getBy(ctx, "external_id", externalID)
}

func (r *AccountRepository) Search(ctx context.Context, role model.Role, emailPrefix string, limit int) ([]model.Account, error) {
	rows, _ := r.pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts a
		WHERE a.role = $1 AND a.email ILIKE $2
		ORDER BY a.email
		LIMIT $3`,
		role, prefixPattern(emailPrefix), limit,
	)

	accounts, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Account])
	if err != nil {
		return nil, fmt.Errorf("search accounts: %w", err)
	}
	return accounts, nil
}

func (r *AccountRepository) GetHealthProfessional(ctx context.Context, id uuid.UUID) (*model.HealthProfessional, error) {
	rows, _ := r.pool.Query(ctx, `
		SELECT `+accountColumns+`, h.crm, h.crm_state, h.specialty
		FROM accounts a
		JOIN health_professionals h ON h.id = a.id
		WHERE a.id = $1`, id)

	hp, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.HealthProfessional])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sqlerr.NotFound("health_professionals")
	}
	if err != nil {
		return nil, fmt.Errorf("get health professional: %w", err)
	}
	return hp, nil
}

func (r *AccountRepository) CreateHealthProfessional(ctx context.Context, hp *model.HealthProfessional) error {
	hp.Role = model.RoleHealthProfessional

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := insertAccount(ctx, tx, &hp.Account); err != nil {
			return err
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO health_professionals (id, crm, crm_state, specialty)
			VALUES ($1, $2, $3, $4)`,
			hp.ID, hp.CRM, hp.CRMState, hp.Specialty,
		)
		return err
	})
}

func insertAccount(ctx context.Context, tx pgx.Tx, a *model.Account) error {
	return tx.QueryRow(ctx, `
		INSERT INTO accounts (external_id, email, name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		a.ExternalID, a.Email, a.Name, a.Role,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}
