// Package repomanager hands out repositories bound to a database handle and
// owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/greetingws/internal/dbx"
	"github.com/dmitrijs2005/greetingws/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/greetingws/internal/server/repositories/greetings"
)

// RepositoryManager builds repositories over any DBTX, so the same factory
// serves both plain-connection and in-transaction use.
type RepositoryManager interface {
	Greetings(db dbx.DBTX) greetings.Repository
	Accounts(db dbx.DBTX) accounts.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
