// Package convstore implements the Conversation Store: durable snapshot
// persistence for Threads across interchangeable backends (file,
// embedded-SQL, document-DB), plus an optional read-through cache
// decorator. Every backend implements the same upsert/get/delete/all
// contract so the Agent Loop never needs to know which one it is talking
// to.
package convstore

import (
	"context"
	"errors"

	"github.com/sandipan1/hica/thread"
)

// ErrNotFound is the sentinel "missing" value returned by Get when no
// snapshot exists for the given id. It is not a StoreIOError: a missing
// thread is an expected outcome, not a failure.
var ErrNotFound = errors.New("convstore: thread not found")

// Store snapshots Threads keyed by thread id. Set is an idempotent upsert
// that overwrites the prior snapshot in full; there is no partial update.
// Concurrent Set calls on the same id are last-writer-wins; callers
// serialize writes per thread themselves (see the concurrency model).
type Store interface {
	// Set upserts the full snapshot of th, keyed by th.ThreadID.
	Set(ctx context.Context, th *thread.Thread) error
	// Get returns the last snapshot for id, or ErrNotFound if absent.
	Get(ctx context.Context, id string) (*thread.Thread, error)
	// Delete removes the snapshot for id if present. Absent id is not an error.
	Delete(ctx context.Context, id string) error
	// All enumerates current snapshots in no particular order.
	All(ctx context.Context) ([]*thread.Thread, error)
}
