package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/greetingws/internal/common"
	"github.com/dmitrijs2005/greetingws/internal/dbx"
	"github.com/dmitrijs2005/greetingws/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	query :=
		`SELECT id, reference_id, version, created_by, created_at, updated_by, updated_at,
		        username, password, enabled, expired, credentials_expired, locked
		 FROM accounts
		 WHERE username = $1
		 `

	a := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&a.ID, &a.ReferenceID, &a.Version, &a.CreatedBy, &a.CreatedAt, &a.UpdatedBy, &a.UpdatedAt,
		&a.Username, &a.Password, &a.Enabled, &a.Expired, &a.CredentialsExpired, &a.Locked)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	roles, err := r.findRoles(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	a.Roles = roles

	return a, nil
}

func (r *PostgresRepository) findRoles(ctx context.Context, accountID int64) ([]models.Role, error) {
	query :=
		`SELECT r.id, r.code, r.label
		 FROM roles r
		 JOIN account_roles ar ON ar.role_id = r.id
		 WHERE ar.account_id = $1
		 ORDER BY r.id
		 `

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.ID, &role.Code, &role.Label); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return roles, nil
}
