package greetings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/greetingws/internal/common"
	"github.com/dmitrijs2005/greetingws/internal/dbx"
	"github.com/dmitrijs2005/greetingws/internal/server/audit"
	"github.com/dmitrijs2005/greetingws/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]*models.Greeting, error) {
	query :=
		`SELECT id, reference_id, text, version, created_by, created_at, updated_by, updated_at
		 FROM greetings
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Greeting
	for rows.Next() {
		g := &models.Greeting{}
		err := rows.Scan(&g.ID, &g.ReferenceID, &g.Text, &g.Version,
			&g.CreatedBy, &g.CreatedAt, &g.UpdatedBy, &g.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.Greeting, error) {
	query :=
		`SELECT id, reference_id, text, version, created_by, created_at, updated_by, updated_at
		 FROM greetings
		 WHERE id = $1
		 `

	g := &models.Greeting{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.ReferenceID, &g.Text,
		&g.Version, &g.CreatedBy, &g.CreatedAt, &g.UpdatedBy, &g.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return g, nil
}

// Insert persists a new greeting. The audit stamp runs right before the
// INSERT, so the row never exists without creator attribution.
func (r *PostgresRepository) Insert(ctx context.Context, greeting *models.Greeting) (*models.Greeting, error) {
	if err := audit.StampForInsert(ctx, &greeting.TransactionalEntity); err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO greetings (reference_id, text, version, created_by, created_at)
		 VALUES ($1, $2, 1, $3, $4)
		 RETURNING id, version
		 `

	err := r.db.QueryRowContext(ctx, query,
		greeting.ReferenceID, greeting.Text, greeting.CreatedBy, greeting.CreatedAt).
		Scan(&greeting.ID, &greeting.Version)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return greeting, nil
}

// Update writes the mutable fields of an existing greeting, bumping the
// version. The WHERE clause carries the version read by the caller: zero
// rows with an existing id means another writer got there first.
func (r *PostgresRepository) Update(ctx context.Context, greeting *models.Greeting) (*models.Greeting, error) {
	if err := audit.StampForUpdate(ctx, &greeting.TransactionalEntity); err != nil {
		return nil, err
	}

	query :=
		`UPDATE greetings
		 SET text = $1, updated_by = $2, updated_at = $3, version = version + 1
		 WHERE id = $4 AND version = $5
		 RETURNING version
		 `

	err := r.db.QueryRowContext(ctx, query,
		greeting.Text, greeting.UpdatedBy, greeting.UpdatedAt, greeting.ID, greeting.Version).
		Scan(&greeting.Version)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.classifyMissedUpdate(ctx, greeting.ID)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return greeting, nil
}

func (r *PostgresRepository) DeleteByID(ctx context.Context, id int64) error {
	query := `DELETE FROM greetings WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

// classifyMissedUpdate tells a vanished row apart from a stale version.
func (r *PostgresRepository) classifyMissedUpdate(ctx context.Context, id int64) error {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM greetings WHERE id = $1)`

	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if exists {
		return common.ErrVersionConflict
	}
	return common.ErrorNotFound
}
