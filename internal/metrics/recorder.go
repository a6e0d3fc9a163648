package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/jackzampolin/restyle/internal/defra"
)

// DefaultLimit is how many metrics a Recorder keeps in memory.
const DefaultLimit = 1000

// Recorder keeps the most recent transform metrics in memory and, when a
// DefraDB client is set, also appends each one to the TransformMetric
// collection.
type Recorder struct {
	client *defra.Client
	logger *slog.Logger
	limit  int

	mu     sync.RWMutex
	recent []Metric // oldest first
}

// NewRecorder creates a recorder. client may be nil.
func NewRecorder(client *defra.Client, limit int, logger *slog.Logger) *Recorder {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{client: client, logger: logger, limit: limit}
}

// Record stores a single metric. A DefraDB write failure is logged and the
// metric is still kept in memory.
func (r *Recorder) Record(ctx context.Context, m Metric) Metric {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	if r.client != nil {
		id, err := r.client.Create(ctx, Collection, m.toMap())
		if err != nil {
			r.logger.Warn("failed to persist transform metric", "error", err)
		} else {
			m.ID = id
		}
	}

	r.mu.Lock()
	r.append(m)
	r.mu.Unlock()
	return m
}

func (r *Recorder) append(ms ...Metric) {
	r.recent = append(r.recent, ms...)
	if over := len(r.recent) - r.limit; over > 0 {
		r.recent = slices.Delete(r.recent, 0, over)
	}
}

// Restore loads previously persisted metrics from DefraDB into memory.
// It is a no-op without a client.
func (r *Recorder) Restore(ctx context.Context) (int, error) {
	if r.client == nil {
		return 0, nil
	}

	resp, err := defra.NewQuery(Collection).
		Fields("_docID", "category", "label", "custom", "model", "bytes",
			"duration_seconds", "success", "error_type", "created_at").
		Execute(ctx, r.client)
	if err != nil {
		return 0, fmt.Errorf("failed to query metrics: %w", err)
	}
	if msg := resp.Error(); msg != "" {
		return 0, fmt.Errorf("failed to query metrics: %s", msg)
	}

	docs := resp.Docs(Collection)
	restored := make([]Metric, 0, len(docs))
	for _, d := range docs {
		restored = append(restored, parseMetric(d))
	}
	slices.SortStableFunc(restored, func(a, b Metric) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	r.mu.Lock()
	r.recent = nil
	r.append(restored...)
	n := len(r.recent)
	r.mu.Unlock()
	return n, nil
}

// List returns metrics matching the filter, newest first. limit <= 0 means all.
func (r *Recorder) List(f Filter, limit int) []Metric {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Metric
	for i := len(r.recent) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		if f.matches(r.recent[i]) {
			out = append(out, r.recent[i])
		}
	}
	return out
}

// Filter specifies query filters. Zero fields match everything.
type Filter struct {
	Category string
	Model    string
	After    time.Time
	Success  *bool // nil = any, true = success only, false = errors only
}

func (f Filter) matches(m Metric) bool {
	if f.Category != "" && m.Category != f.Category {
		return false
	}
	if f.Model != "" && m.Model != f.Model {
		return false
	}
	if !f.After.IsZero() && !m.CreatedAt.After(f.After) {
		return false
	}
	if f.Success != nil && m.Success != *f.Success {
		return false
	}
	return true
}
