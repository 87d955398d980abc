// Package storage defines the document store the repository is built on.
// Entities are JSON documents addressed by (kind, id); queries are
// kind-scoped with an optional single-field equality filter and resume via
// opaque cursors. Implementations live in gormstore (Postgres/sqlite) and
// memstore (in-memory).
package storage

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	// ErrNoEntity is returned by Get when no entity has the given key.
	ErrNoEntity = errors.New("storage: no entity with this key")
	// ErrInvalidCursor is returned by Query for a cursor that does not
	// belong to the current query.
	ErrInvalidCursor = errors.New("storage: invalid cursor")
)

// Filter restricts a query to entities whose document field equals a value.
type Filter struct {
	Field string
	Value any
}

// Entity is one query result: the generated id plus the raw document.
type Entity struct {
	ID  int64
	Doc json.RawMessage
}

// Page describes where a query stopped.
type Page struct {
	// EndCursor resumes the query after the last returned entity.
	EndCursor string
	// More reports whether further results exist beyond this page.
	More bool
}

// Store is the persistence adapter contract. Documents are marshalled
// to/from JSON at the boundary so callers work with typed records.
type Store interface {
	// Create persists doc under a newly generated id and returns it.
	Create(ctx context.Context, kind string, doc any) (int64, error)
	// Get unmarshals the entity with the given id into dst, or returns
	// ErrNoEntity.
	Get(ctx context.Context, kind string, id int64, dst any) error
	// Save overwrites the document stored under id.
	Save(ctx context.Context, kind string, id int64, doc any) error
	// Delete removes the entity. Deleting an absent id is not an error;
	// callers that care check existence first.
	Delete(ctx context.Context, kind string, id int64) error
	// Query returns up to limit entities of the given kind in id order,
	// optionally filtered, resuming from cursor when non-empty. A limit
	// <= 0 means no limit.
	Query(ctx context.Context, kind string, filter *Filter, limit int, cursor string) ([]Entity, Page, error)
	// Count reports the number of entities of the given kind.
	Count(ctx context.Context, kind string) (int64, error)
}
