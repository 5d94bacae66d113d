package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/greetingws/internal/dbx"
	"github.com/dmitrijs2005/greetingws/internal/server/migrations"
	"github.com/dmitrijs2005/greetingws/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/greetingws/internal/server/repositories/greetings"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct {
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Greetings(db dbx.DBTX) greetings.Repository {
	return greetings.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}
