// Package services contains the server-side business logic. This file
// implements GreetingService, which orchestrates the greeting store, the
// id-keyed cache, and create/update preconditions.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/greetingws/internal/common"
	"github.com/dmitrijs2005/greetingws/internal/dbx"
	"github.com/dmitrijs2005/greetingws/internal/logging"
	"github.com/dmitrijs2005/greetingws/internal/server/cache"
	"github.com/dmitrijs2005/greetingws/internal/server/models"
	"github.com/dmitrijs2005/greetingws/internal/server/repositories/repomanager"
)

// GreetingService enforces the write invariants around the greeting store:
// a create must not carry a primary key, an update must target an existing
// row, and every mutation leaves the cache coherent with the store before
// the call returns.
type GreetingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       *cache.Cache[*models.Greeting]
	logger      logging.Logger
}

// NewGreetingService constructs a GreetingService.
func NewGreetingService(db *sql.DB, m repomanager.RepositoryManager, c *cache.Cache[*models.Greeting], l logging.Logger) *GreetingService {
	return &GreetingService{
		db:          db,
		repomanager: m,
		cache:       c,
		logger:      l.With("module", "greeting_service"),
	}
}

func cacheKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

// FindAll returns every greeting in the store, ordered by id. The result
// set is unbounded and the cache keys by single id, so this path always
// bypasses the cache.
func (s *GreetingService) FindAll(ctx context.Context) ([]*models.Greeting, error) {
	repo := s.repomanager.Greetings(s.db)

	result, err := repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing greetings: %w", err)
	}
	return result, nil
}

// FindOne returns the greeting with the given id, consulting the cache
// first and populating it on a miss. Absence is the normal
// common.ErrorNotFound outcome, never a partially built object.
func (s *GreetingService) FindOne(ctx context.Context, id int64) (*models.Greeting, error) {
	if cached, ok := s.cache.Get(cacheKey(id)); ok {
		return cached.Clone(), nil
	}

	repo := s.repomanager.Greetings(s.db)
	g, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.Put(cacheKey(id), g.Clone())
	return g, nil
}

// Create persists a new greeting. A payload that already carries a primary
// key is rejected before the store is touched: the insert/update split is
// enforced here because a key-presence upsert would silently clobber the
// row under a forged id.
func (s *GreetingService) Create(ctx context.Context, greeting *models.Greeting) (*models.Greeting, error) {
	if greeting.IsPersisted() {
		return nil, fmt.Errorf("%w: create must not carry an id", common.ErrorValidation)
	}
	if strings.TrimSpace(greeting.Text) == "" {
		return nil, fmt.Errorf("%w: text is required", common.ErrorValidation)
	}

	repo := s.repomanager.Greetings(s.db)
	persisted, err := repo.Insert(ctx, greeting.Clone())
	if err != nil {
		return nil, err
	}

	s.cache.Put(cacheKey(persisted.ID), persisted.Clone())

	s.logger.Info(ctx, "greeting created", "id", persisted.ID)
	return persisted, nil
}

// Update modifies an existing greeting. The current row is re-fetched and
// only the text is merged onto it, so a forged id cannot resurrect a
// deleted row and immutable fields survive whatever the client sent. The
// fetch and write share one transaction; the cache entry is replaced once
// the transaction commits.
func (s *GreetingService) Update(ctx context.Context, greeting *models.Greeting) (*models.Greeting, error) {
	if !greeting.IsPersisted() {
		return nil, fmt.Errorf("%w: update requires an id", common.ErrorValidation)
	}
	if strings.TrimSpace(greeting.Text) == "" {
		return nil, fmt.Errorf("%w: text is required", common.ErrorValidation)
	}

	var persisted *models.Greeting
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Greetings(tx)

		existing, err := repo.FindByID(ctx, greeting.ID)
		if err != nil {
			return err
		}

		existing.Text = greeting.Text

		persisted, err = repo.Update(ctx, existing)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.cache.Put(cacheKey(persisted.ID), persisted.Clone())

	s.logger.Info(ctx, "greeting updated", "id", persisted.ID, "version", persisted.Version)
	return persisted, nil
}

// Delete removes the greeting with the given id. The cache entry is
// evicted even when the row was already gone, so a stale copy can never
// outlive the store row. Deleting an absent id is a no-op.
func (s *GreetingService) Delete(ctx context.Context, id int64) error {
	repo := s.repomanager.Greetings(s.db)

	err := repo.DeleteByID(ctx, id)

	s.cache.Evict(cacheKey(id))

	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Debug(ctx, "delete of absent greeting", "id", id)
			return nil
		}
		return fmt.Errorf("error deleting greeting: %w", err)
	}

	s.logger.Info(ctx, "greeting deleted", "id", id)
	return nil
}

// EvictCache drops every cached greeting, forcing subsequent reads through
// to the store. Used by administrative and test callers.
func (s *GreetingService) EvictCache(ctx context.Context) {
	s.cache.EvictAll()
	s.logger.Info(ctx, "greeting cache evicted")
}

// Count returns the number of greetings in the store. Consumed by the
// health check and the batch job.
func (s *GreetingService) Count(ctx context.Context) (int, error) {
	all, err := s.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(all), nil
}
