package accounts

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/greetingws/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const (
	accountQ = `(?s)^SELECT\s+id,\s*reference_id,\s*version,.*FROM\s+accounts\s+WHERE\s+username\s*=\s*\$1\s*$`
	rolesQ   = `(?s)^SELECT\s+r\.id,\s*r\.code,\s*r\.label\s+FROM\s+roles\s+r\s+JOIN\s+account_roles\s+ar.*WHERE\s+ar\.account_id\s*=\s*\$1.*$`
)

func accountRow() *sqlmock.Rows {
	created := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "reference_id", "version", "created_by", "created_at", "updated_by", "updated_at",
		"username", "password", "enabled", "expired", "credentials_expired", "locked",
	}).AddRow(int64(1), "ref-acc-1", int64(1), "system", created, nil, nil,
		"user", "$2a$10$hash", true, false, false, false)
}

func TestFindByUsername_FoundWithRoles(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(accountQ).WithArgs("user").WillReturnRows(accountRow())
	mock.ExpectQuery(rolesQ).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "label"}).
			AddRow(int64(1), "ROLE_USER", "User").
			AddRow(int64(2), "ROLE_ADMIN", "Admin"))

	got, err := repo.FindByUsername(context.Background(), "user")
	if err != nil {
		t.Fatalf("FindByUsername error: %v", err)
	}
	if got.Username != "user" || !got.Enabled {
		t.Fatalf("unexpected account: %+v", got)
	}
	auth := got.Authorities()
	if len(auth) != 2 || auth[0] != "ROLE_USER" || auth[1] != "ROLE_ADMIN" {
		t.Fatalf("unexpected authorities: %v", auth)
	}
}

func TestFindByUsername_FoundWithoutRoles(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(accountQ).WithArgs("user").WillReturnRows(accountRow())
	mock.ExpectQuery(rolesQ).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "label"}))

	got, err := repo.FindByUsername(context.Background(), "user")
	if err != nil {
		t.Fatalf("FindByUsername error: %v", err)
	}
	if len(got.Roles) != 0 {
		t.Fatalf("expected empty role set, got %v", got.Roles)
	}
}

func TestFindByUsername_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(accountQ).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUsername(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestFindByUsername_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(accountQ).WithArgs("user").WillReturnError(errors.New("db down"))

	_, err := repo.FindByUsername(context.Background(), "user")
	if err == nil || errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
