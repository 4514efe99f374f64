package usage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnalang/aura-orchestrator/pkg/models"
)

// fakeUsageStore keeps counters in a map without any persistence.
type fakeUsageStore struct {
	records map[string]*models.UsageRecord
}

func newFakeUsageStore() *fakeUsageStore {
	return &fakeUsageStore{records: make(map[string]*models.UsageRecord)}
}

func (f *fakeUsageStore) GetUsage(_ context.Context, userID, month string) (*models.UsageRecord, error) {
	if rec, ok := f.records[userID+":"+month]; ok {
		cp := *rec
		return &cp, nil
	}
	return &models.UsageRecord{UserID: userID, Month: month}, nil
}

func (f *fakeUsageStore) IncrementUsage(_ context.Context, userID, month string, kind models.UsageKind) (int, error) {
	key := userID + ":" + month
	rec, ok := f.records[key]
	if !ok {
		rec = &models.UsageRecord{UserID: userID, Month: month}
		f.records[key] = rec
	}
	switch kind {
	case models.UsageQuantumExecutions:
		rec.QuantumExecutions++
		return rec.QuantumExecutions, nil
	case models.UsageWorkflowRuns:
		rec.WorkflowRuns++
		return rec.WorkflowRuns, nil
	}
	return 0, nil
}

func staticTier(tier models.Tier) TierLookup {
	return func(context.Context, string) models.Tier { return tier }
}

func TestAllowWithinLimit(t *testing.T) {
	tr := NewTracker(newFakeUsageStore(), staticTier(models.TierFree))

	res, err := tr.Allow(context.Background(), "alice", models.UsageQuantumExecutions)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 100, res.Limit)
	assert.Equal(t, 99, res.Remaining)
}

func TestAllowDeniesAtLimit(t *testing.T) {
	s := newFakeUsageStore()
	tr := NewTracker(s, staticTier(models.TierFree))
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		res, err := tr.Allow(ctx, "bob", models.UsageWorkflowRuns)
		require.NoError(t, err)
		require.True(t, res.Allowed, "run %d should be allowed", i+1)
	}

	res, err := tr.Allow(ctx, "bob", models.UsageWorkflowRuns)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Contains(t, res.Reason, "workflow_runs limit exceeded (50)")

	// Denied calls must not consume quota.
	rec, _ := tr.Current(ctx, "bob")
	assert.Equal(t, 50, rec.WorkflowRuns)
}

func TestAllowUnlimitedTier(t *testing.T) {
	tr := NewTracker(newFakeUsageStore(), staticTier(models.TierEnterprise))

	res, err := tr.Allow(context.Background(), "corp", models.UsageQuantumExecutions)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, -1, res.Limit)
	assert.Equal(t, -1, res.Remaining)

	// Unlimited still records usage for reporting.
	rec, _ := tr.Current(context.Background(), "corp")
	assert.Equal(t, 1, rec.QuantumExecutions)
}

func TestNilLookupDefaultsToFree(t *testing.T) {
	tr := NewTracker(newFakeUsageStore(), nil)

	res, err := tr.Allow(context.Background(), "anon", models.UsageQuantumExecutions)
	require.NoError(t, err)
	assert.Equal(t, 100, res.Limit)
}

func TestUnknownTierFallsBackToFree(t *testing.T) {
	tr := NewTracker(newFakeUsageStore(), staticTier(models.Tier("platinum")))

	res, err := tr.Allow(context.Background(), "eve", models.UsageWorkflowRuns)
	require.NoError(t, err)
	assert.Equal(t, 50, res.Limit)
}
