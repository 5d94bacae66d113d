// Package greetings contains the persistence gateway for the Greeting
// entity.
package greetings

import (
	"context"

	"github.com/dmitrijs2005/greetingws/internal/server/models"
)

// Repository is the store abstraction consumed by the greeting service.
// Insert and Update are deliberately separate operations: a generic upsert
// cannot tell a forged id from a real one, and the split keeps a create
// from clobbering an existing row.
type Repository interface {
	FindAll(ctx context.Context) ([]*models.Greeting, error)
	FindByID(ctx context.Context, id int64) (*models.Greeting, error)
	Insert(ctx context.Context, greeting *models.Greeting) (*models.Greeting, error)
	Update(ctx context.Context, greeting *models.Greeting) (*models.Greeting, error)
	DeleteByID(ctx context.Context, id int64) error
}
