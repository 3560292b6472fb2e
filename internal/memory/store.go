// Package memory persists the in-progress checkout record (shipping and
// payment entries) between visits. The store is a Try-style port: every
// operation reports its error, and the orchestrator decides that a failed
// save is never fatal to the current step.
package memory

import (
	"context"

	"github.com/levelup-gamer/checkout/internal/domain"
)

type Store interface {
	// Save merges the non-empty fields of patch over the stored record,
	// stamps SavedAt and persists the result, overwriting unconditionally.
	Save(ctx context.Context, userID string, patch domain.CheckoutMemory) error

	// Load returns the stored record, or an all-empty record when nothing is
	// stored or the record is older than the retention window. A stale record
	// is deleted as a side effect, so a second Load is also empty.
	Load(ctx context.Context, userID string) (domain.CheckoutMemory, error)

	// Clear deletes the record unconditionally.
	Clear(ctx context.Context, userID string) error
}
