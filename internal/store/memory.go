// Package store — in-memory Store implementation.
// Used for local dev and tests. Supports file-based snapshot persistence
// so runs and usage counters survive restarts.
package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dnalang/aura-orchestrator/pkg/models"
)

// snapshot is the JSON-serializable shape written to disk.
type snapshot struct {
	Runs  map[string]*models.OrchestrationRun `json:"runs"`  // key: id
	Usage map[string]*models.UsageRecord      `json:"usage"` // key: user:month
}

// MemoryStore implements Store with in-memory maps.
type MemoryStore struct {
	mu    sync.RWMutex
	runs  map[string]*models.OrchestrationRun // key: id
	usage map[string]*models.UsageRecord      // key: user:month

	// Persistence
	snapshotPath string        // empty = no persistence
	saveMu       sync.Mutex    // guards file writes
	saveCh       chan struct{} // debounce channel
	doneCh       chan struct{} // signals background goroutines to stop

	// Run TTL — runs older than this are evicted automatically.
	// Defaults to 30 days. Set via AURA_RUN_TTL env var (Go duration string).
	runTTL time.Duration
}

// NewMemoryStore creates a new in-memory store.
// If AURA_DATA_DIR is set, data is persisted to a JSON file in that
// directory. Otherwise defaults to ~/.aura/data.json.
func NewMemoryStore() *MemoryStore {
	runTTL := 30 * 24 * time.Hour
	if ttlStr := os.Getenv("AURA_RUN_TTL"); ttlStr != "" {
		if parsed, err := time.ParseDuration(ttlStr); err == nil {
			runTTL = parsed
		} else {
			log.Warn().Str("value", ttlStr).Msg("Invalid AURA_RUN_TTL, using default 30d")
		}
	}

	m := &MemoryStore{
		runs:   make(map[string]*models.OrchestrationRun),
		usage:  make(map[string]*models.UsageRecord),
		saveCh: make(chan struct{}, 1),
		doneCh: make(chan struct{}),
		runTTL: runTTL,
	}

	dataDir := os.Getenv("AURA_DATA_DIR")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			dataDir = filepath.Join(home, ".aura")
		}
	}
	if dataDir != "" {
		m.snapshotPath = filepath.Join(dataDir, "data.json")
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			log.Warn().Err(err).Str("dir", dataDir).Msg("Cannot create data dir, persistence disabled")
			m.snapshotPath = ""
		}
	}

	if m.snapshotPath != "" {
		m.loadSnapshot()
		go m.saveLoop()
	}

	go m.runEvictionLoop()

	log.Info().
		Str("run_ttl", runTTL.String()).
		Str("snapshot", m.snapshotPath).
		Msg("Memory store configured")

	return m
}

// requestSave signals the background goroutine to persist data.
// Non-blocking: coalesces multiple rapid writes into one disk flush.
func (m *MemoryStore) requestSave() {
	if m.snapshotPath == "" {
		return
	}
	select {
	case m.saveCh <- struct{}{}:
	default:
		// Already pending
	}
}

// saveLoop runs in a goroutine, debouncing save requests (max 1 write per 500ms).
func (m *MemoryStore) saveLoop() {
	for {
		select {
		case <-m.doneCh:
			return
		case <-m.saveCh:
			time.Sleep(500 * time.Millisecond) // debounce
			m.saveSnapshot()
		}
	}
}

// runEvictionLoop periodically removes runs older than runTTL.
func (m *MemoryStore) runEvictionLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.doneCh:
			return
		case <-ticker.C:
			m.evictExpiredRuns()
		}
	}
}

// evictExpiredRuns removes runs older than the configured TTL.
func (m *MemoryStore) evictExpiredRuns() {
	cutoff := time.Now().Add(-m.runTTL)

	m.mu.Lock()
	var evicted int
	for id, r := range m.runs {
		if r.CreatedAt.Before(cutoff) {
			delete(m.runs, id)
			evicted++
		}
	}
	m.mu.Unlock()

	if evicted > 0 {
		log.Info().Int("evicted", evicted).Str("ttl", m.runTTL.String()).Msg("Evicted expired runs")
		m.requestSave()
	}
}

// saveSnapshot persists all data to disk as JSON.
func (m *MemoryStore) saveSnapshot() {
	m.mu.RLock()
	snap := snapshot{
		Runs:  m.runs,
		Usage: m.usage,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	m.mu.RUnlock()

	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal snapshot")
		return
	}

	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	// Write to temp file then rename for atomicity
	tmp := m.snapshotPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		log.Error().Err(err).Str("path", tmp).Msg("Failed to write snapshot tmp")
		return
	}
	if err := os.Rename(tmp, m.snapshotPath); err != nil {
		log.Error().Err(err).Str("path", m.snapshotPath).Msg("Failed to rename snapshot")
		return
	}

	log.Debug().Str("path", m.snapshotPath).Msg("Snapshot saved")
}

// loadSnapshot reads data from disk on startup.
func (m *MemoryStore) loadSnapshot() {
	data, err := os.ReadFile(m.snapshotPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info().Str("path", m.snapshotPath).Msg("No snapshot file found, starting fresh")
			return
		}
		log.Warn().Err(err).Str("path", m.snapshotPath).Msg("Failed to read snapshot")
		return
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Warn().Err(err).Str("path", m.snapshotPath).Msg("Corrupt snapshot, starting fresh")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if snap.Runs != nil {
		m.runs = snap.Runs
	}
	if snap.Usage != nil {
		m.usage = snap.Usage
	}

	log.Info().
		Int("runs", len(m.runs)).
		Int("usage_records", len(m.usage)).
		Msg("Snapshot loaded")
}

// ── Run Store ───────────────────────────────────────────────

func (m *MemoryStore) ListRuns(_ context.Context, userID string, limit int) ([]models.OrchestrationRun, error) {
	if limit <= 0 {
		limit = 100
	}

	m.mu.RLock()
	out := make([]models.OrchestrationRun, 0, len(m.runs))
	for _, r := range m.runs {
		if userID != "" && r.UserID != userID {
			continue
		}
		out = append(out, *r)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) GetRun(_ context.Context, id string) (*models.OrchestrationRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.runs[id]
	if !ok {
		return nil, &ErrNotFound{Entity: "run", Key: id}
	}
	cp := *r
	return &cp, nil
}

func (m *MemoryStore) CreateRun(_ context.Context, run *models.OrchestrationRun) error {
	m.mu.Lock()
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	cp := *run
	m.runs[run.ID] = &cp
	m.mu.Unlock()

	m.requestSave()
	return nil
}

func (m *MemoryStore) UpdateRun(_ context.Context, run *models.OrchestrationRun) error {
	m.mu.Lock()
	if _, ok := m.runs[run.ID]; !ok {
		m.mu.Unlock()
		return &ErrNotFound{Entity: "run", Key: run.ID}
	}
	cp := *run
	m.runs[run.ID] = &cp
	m.mu.Unlock()

	m.requestSave()
	return nil
}

// ── Usage Store ─────────────────────────────────────────────

func usageKey(userID, month string) string {
	return userID + ":" + month
}

func (m *MemoryStore) GetUsage(_ context.Context, userID, month string) (*models.UsageRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.usage[usageKey(userID, month)]
	if !ok {
		return &models.UsageRecord{UserID: userID, Month: month}, nil
	}
	cp := *rec
	return &cp, nil
}

func (m *MemoryStore) IncrementUsage(_ context.Context, userID, month string, kind models.UsageKind) (int, error) {
	m.mu.Lock()
	key := usageKey(userID, month)
	rec, ok := m.usage[key]
	if !ok {
		rec = &models.UsageRecord{UserID: userID, Month: month}
		m.usage[key] = rec
	}

	var count int
	switch kind {
	case models.UsageQuantumExecutions:
		rec.QuantumExecutions++
		count = rec.QuantumExecutions
	case models.UsageWorkflowRuns:
		rec.WorkflowRuns++
		count = rec.WorkflowRuns
	}
	m.mu.Unlock()

	m.requestSave()
	return count, nil
}

// ── Lifecycle ───────────────────────────────────────────────

func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Close stops background goroutines and flushes a final snapshot.
func (m *MemoryStore) Close() error {
	close(m.doneCh)
	if m.snapshotPath != "" {
		m.saveSnapshot()
	}
	return nil
}
