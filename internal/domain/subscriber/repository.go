package subscriber

import (
	"context"
)

// Repository defines the operations for persisting subscriber records.
// Storage is a whole-store read-modify-write: mutations load everything,
// change one record and rewrite the store.
type Repository interface {
	// GetOrCreate returns the record for id, creating and persisting a
	// default (all fields unset) record on first contact.
	GetOrCreate(ctx context.Context, id int64) (*Subscriber, error)
	// Update merges the patch into the record for id, creating a default
	// record first if none exists.
	Update(ctx context.Context, id int64, patch Patch) error
	// All returns a snapshot of every record, keyed by the string-encoded
	// subscriber id.
	All(ctx context.Context) (map[string]*Subscriber, error)
	// SaveAll replaces the whole store with the given snapshot in one write.
	SaveAll(ctx context.Context, subs map[string]*Subscriber) error
}
