// Package store provides the storage interface and implementations for the
// orchestrator. Runs and usage counters live in memory with optional JSON
// snapshot persistence; a database-backed implementation can slot in behind
// the same interface.
package store

import (
	"context"

	"github.com/dnalang/aura-orchestrator/pkg/models"
)

// Store is the primary storage interface. Handler code depends on this
// interface only, so implementations are swappable in tests.
type Store interface {
	RunStore
	UsageStore

	// Ping checks if the backing store is reachable.
	Ping(ctx context.Context) error

	// Close flushes pending writes and releases resources.
	Close() error
}

// ── Run Store ───────────────────────────────────────────────

// RunStore persists orchestration runs.
type RunStore interface {
	// ListRuns returns the most recent runs, newest first. An empty userID
	// returns runs for all users.
	ListRuns(ctx context.Context, userID string, limit int) ([]models.OrchestrationRun, error)
	GetRun(ctx context.Context, id string) (*models.OrchestrationRun, error)
	CreateRun(ctx context.Context, run *models.OrchestrationRun) error
	UpdateRun(ctx context.Context, run *models.OrchestrationRun) error
}

// ── Usage Store ─────────────────────────────────────────────

// UsageStore tracks per-user monthly operation counters. Months are keyed
// "2006-01" in UTC.
type UsageStore interface {
	// GetUsage returns the user's counters for a month. A user with no
	// recorded activity gets a zero-valued record, not ErrNotFound.
	GetUsage(ctx context.Context, userID, month string) (*models.UsageRecord, error)

	// IncrementUsage bumps one counter and returns the new value.
	IncrementUsage(ctx context.Context, userID, month string, kind models.UsageKind) (int, error)
}

// ── Errors ──────────────────────────────────────────────────

// ErrNotFound is returned when a requested entity does not exist.
type ErrNotFound struct {
	Entity string
	Key    string
}

func (e *ErrNotFound) Error() string {
	return e.Entity + " not found: " + e.Key
}
