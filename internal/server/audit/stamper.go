// Package audit stamps creator/updater identity and timestamps onto
// transactional entities. Repositories invoke it immediately before an
// INSERT or UPDATE, so no write leaves the persistence layer unattributed.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/greetingws/internal/common"
	"github.com/dmitrijs2005/greetingws/internal/server/models"
	"github.com/dmitrijs2005/greetingws/internal/server/requestctx"
	"github.com/google/uuid"
)

// now is swapped in tests.
var now = time.Now

// StampForInsert fills the creation audit fields from the request identity
// and assigns a reference identifier when none is present. A missing
// identity is a precondition failure: authentication must have run before
// any write path.
func StampForInsert(ctx context.Context, e *models.TransactionalEntity) error {
	username, ok := requestctx.Username(ctx)
	if !ok {
		return fmt.Errorf("audit insert stamp: %w", common.ErrorMissingIdentity)
	}

	if e.ReferenceID == "" {
		e.ReferenceID = uuid.New().String()
	}
	e.CreatedBy = username
	e.CreatedAt = now().UTC()
	return nil
}

// StampForUpdate fills the modification audit fields from the request
// identity. Creation fields are left untouched.
func StampForUpdate(ctx context.Context, e *models.TransactionalEntity) error {
	username, ok := requestctx.Username(ctx)
	if !ok {
		return fmt.Errorf("audit update stamp: %w", common.ErrorMissingIdentity)
	}

	at := now().UTC()
	e.UpdatedBy = &username
	e.UpdatedAt = &at
	return nil
}
