// Package store carries the document-store contract the quiz engine is built
// against, a MongoDB implementation, an in-memory implementation used by the
// tests, and the tenant store registry that hands out per-tenant store
// bundles.
package store

import (
	"errors"

	"github.com/globalsign/mgo/bson"
)

// ErrNotFound is returned by FindByID/UpdateByID/DeleteByID when no document
// has the given id.
var ErrNotFound = errors.New("store: document not found")

// ErrDuplicate is returned by Insert when a uniqueness constraint (the _id
// itself, or a provisioned unique index) rejects the document.
var ErrDuplicate = errors.New("store: duplicate document")

// Store is one tenant-scoped entity collection. Documents carry their own
// string _id; filters and patches are plain bson documents with top-level
// equality semantics. Each call is an individually atomic document operation;
// cross-document invariants are the caller's problem.
type Store interface {
	Insert(doc interface{}) error
	FindByID(id string, result interface{}) error
	Find(filter bson.M, skip, limit int, results interface{}) error
	UpdateByID(id string, patch bson.M) error
	DeleteByID(id string) error
	Count(filter bson.M) (int, error)
	DropAll() error
}

// Stores bundles the five entity stores owned by one tenant.
type Stores struct {
	Quizzes   Store
	Questions Store
	Attempts  Store
	Users     Store
	Responses Store
}
