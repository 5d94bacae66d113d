// Package accounts contains the persistence gateway for the Account entity.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/greetingws/internal/server/models"
)

// Repository is the read-only store abstraction consumed by the account
// service. Accounts are provisioned out of band; the web service only ever
// looks them up for authentication.
type Repository interface {
	// FindByUsername returns the account with its full role set eagerly
	// loaded, or common.ErrorNotFound.
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
}
