// Package store owns the two mutable ledgers of the agent: per-session
// in-progress applications (the cart) and finalized requests. Both are
// interfaces so the memory-backed demo implementation can be swapped for the
// Postgres one without touching the tool catalog.
package store

import (
	"context"
	"time"
)

const (
	// ItemDraft is the status of a cart entry before submission.
	ItemDraft = "draft"

	// RequestSubmitted is the status a request carries when first ledgered.
	RequestSubmitted = "submitted"

	RequestRevisionInitiated = "revision_initiated"
	RequestUpdateInitiated   = "update_initiated"
)

// CartItem is one in-progress selection.
type CartItem struct {
	ServiceID string `json:"service_id"`
	Status    string `json:"status"`
}

// Request is a finalized, ledgered submission. Identity is immutable; only
// Status changes after creation.
type Request struct {
	ID        string     `json:"id"`
	CitizenID string     `json:"citizen_id"`
	Items     []CartItem `json:"applications"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

// CartLedger maps session ids to ordered draft items.
type CartLedger interface {
	// Append adds one draft item and returns the resulting cart snapshot.
	Append(ctx context.Context, sessionID string, item CartItem) ([]CartItem, error)
	// Items returns a snapshot of the session's cart, possibly empty.
	Items(ctx context.Context, sessionID string) ([]CartItem, error)
	// Drain atomically snapshots and clears the session's cart.
	Drain(ctx context.Context, sessionID string) ([]CartItem, error)
}

// RequestLedger maps generated request ids to finalized requests.
type RequestLedger interface {
	Put(ctx context.Context, req Request) error
	Get(ctx context.Context, id string) (Request, bool, error)
	// SetStatus updates the status of an existing request. Unknown ids are a
	// no-op, not an error; callers fabricate a response either way (§9).
	SetStatus(ctx context.Context, id, status string) error
}
