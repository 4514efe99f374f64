// Package usage enforces per-user monthly quotas on metered operations.
// Tiers come from the external billing system; this package only keeps
// counters and answers allow/deny.
package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dnalang/aura-orchestrator/internal/store"
	"github.com/dnalang/aura-orchestrator/pkg/models"
)

// limits is the per-tier monthly quota table. -1 means unlimited.
var limits = map[models.Tier]map[models.UsageKind]int{
	models.TierFree: {
		models.UsageQuantumExecutions: 100,
		models.UsageWorkflowRuns:      50,
	},
	models.TierPro: {
		models.UsageQuantumExecutions: 10000,
		models.UsageWorkflowRuns:      5000,
	},
	models.TierEnterprise: {
		models.UsageQuantumExecutions: -1,
		models.UsageWorkflowRuns:      -1,
	},
}

// Result is the outcome of one quota check.
type Result struct {
	Allowed   bool   `json:"allowed"`
	Reason    string `json:"reason,omitempty"`
	Remaining int    `json:"remaining"`
	Limit     int    `json:"limit"`
}

// TierLookup resolves a user's subscription tier. The default
// implementation treats every user as free tier; a billing integration
// replaces it.
type TierLookup func(ctx context.Context, userID string) models.Tier

// Tracker checks and records metered operations against the store.
type Tracker struct {
	store  store.UsageStore
	tier   TierLookup
	nowUTC func() time.Time
}

// NewTracker creates a usage tracker. A nil lookup treats every user as
// free tier.
func NewTracker(s store.UsageStore, lookup TierLookup) *Tracker {
	if lookup == nil {
		lookup = func(context.Context, string) models.Tier { return models.TierFree }
	}
	return &Tracker{store: s, tier: lookup, nowUTC: func() time.Time { return time.Now().UTC() }}
}

// Allow checks the user's quota for kind and, when allowed, records the
// operation. Check and increment happen against the current UTC month.
func (t *Tracker) Allow(ctx context.Context, userID string, kind models.UsageKind) (Result, error) {
	tier := t.tier(ctx, userID)
	limit := limitFor(tier, kind)
	month := t.nowUTC().Format("2006-01")

	if limit == -1 {
		if _, err := t.store.IncrementUsage(ctx, userID, month, kind); err != nil {
			return Result{}, fmt.Errorf("record usage: %w", err)
		}
		return Result{Allowed: true, Remaining: -1, Limit: -1}, nil
	}

	rec, err := t.store.GetUsage(ctx, userID, month)
	if err != nil {
		return Result{}, fmt.Errorf("read usage: %w", err)
	}

	current := counterFor(rec, kind)
	if current >= limit {
		log.Warn().
			Str("user_id", userID).
			Str("kind", string(kind)).
			Str("tier", string(tier)).
			Int("limit", limit).
			Msg("usage limit exceeded")
		return Result{
			Allowed: false,
			Reason:  fmt.Sprintf("Monthly %s limit exceeded (%d)", kind, limit),
			Limit:   limit,
		}, nil
	}

	count, err := t.store.IncrementUsage(ctx, userID, month, kind)
	if err != nil {
		return Result{}, fmt.Errorf("record usage: %w", err)
	}

	return Result{
		Allowed:   true,
		Remaining: max(0, limit-count),
		Limit:     limit,
	}, nil
}

// Current returns the user's counters for the current UTC month.
func (t *Tracker) Current(ctx context.Context, userID string) (*models.UsageRecord, error) {
	return t.store.GetUsage(ctx, userID, t.nowUTC().Format("2006-01"))
}

func limitFor(tier models.Tier, kind models.UsageKind) int {
	if kinds, ok := limits[tier]; ok {
		if l, ok := kinds[kind]; ok {
			return l
		}
	}
	// Unknown tiers fall back to the free quota.
	return limits[models.TierFree][kind]
}

func counterFor(rec *models.UsageRecord, kind models.UsageKind) int {
	switch kind {
	case models.UsageQuantumExecutions:
		return rec.QuantumExecutions
	case models.UsageWorkflowRuns:
		return rec.WorkflowRuns
	}
	return 0
}
