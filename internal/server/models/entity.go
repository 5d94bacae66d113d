// Package models holds the persistent entity types for the greeting service.
package models

import "time"

// TransactionalEntity is the audit base embedded by every entity whose
// creation and modification must be attributable.
//
// ID is the store-assigned primary key; a zero ID marks an entity that has
// not been persisted yet. ReferenceID is a secondary identifier that
// external systems may use to refer to the entity. Version is incremented
// by the store on every successful update and exists for optimistic
// concurrency detection.
//
// CreatedBy/CreatedAt are set exactly once, at first insert. UpdatedBy and
// UpdatedAt stay nil until the first update.
type TransactionalEntity struct {
	ID          int64      `json:"id,omitempty" db:"id"`
	ReferenceID string     `json:"referenceId" db:"reference_id"`
	Version     int64      `json:"version" db:"version"`
	CreatedBy   string     `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedBy   *string    `json:"updatedBy,omitempty" db:"updated_by"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}

// IsPersisted reports whether the entity has been assigned a primary key.
func (e *TransactionalEntity) IsPersisted() bool {
	return e.ID != 0
}
