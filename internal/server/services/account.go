package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/greetingws/internal/logging"
	"github.com/dmitrijs2005/greetingws/internal/server/cache"
	"github.com/dmitrijs2005/greetingws/internal/server/models"
	"github.com/dmitrijs2005/greetingws/internal/server/repositories/repomanager"
)

// AccountService resolves accounts for the authentication layer. Lookups
// are read-through cached by username; the service never mutates accounts.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       *cache.Cache[*models.Account]
	logger      logging.Logger
}

// NewAccountService constructs an AccountService.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, c *cache.Cache[*models.Account], l logging.Logger) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		cache:       c,
		logger:      l.With("module", "account_service"),
	}
}

// FindByUsername returns the account with its role set, or
// common.ErrorNotFound. An absent account is a normal outcome; deciding
// whether the account may authenticate is the caller's concern.
func (s *AccountService) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	if cached, ok := s.cache.Get(username); ok {
		return cached, nil
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	s.cache.Put(username, account)
	return account, nil
}

// EvictCache drops every cached account, e.g. after out-of-band
// provisioning changes.
func (s *AccountService) EvictCache(ctx context.Context) {
	s.cache.EvictAll()
	s.logger.Info(ctx, "account cache evicted")
}
