// Package metrics provides usage tracking for photo transformations.
package metrics

import "time"

// Collection is the DefraDB collection transform metrics are stored in.
const Collection = "TransformMetric"

// Error types recorded for failed transforms.
const (
	ErrorRateLimit = "rate_limit"
	ErrorInvalid   = "invalid_request"
	ErrorNotFound  = "not_found"
	ErrorStorage   = "storage"
	ErrorUpstream  = "upstream"
)

// Metric is a single recorded transform. Metrics are append-only.
type Metric struct {
	ID string `json:"id,omitempty"`

	// Which style ran. Category and Label are empty for free-text prompts.
	Category string `json:"category,omitempty"`
	Label    string `json:"label,omitempty"`
	Custom   bool   `json:"custom,omitempty"`

	Model string `json:"model,omitempty"`
	Bytes int    `json:"bytes,omitempty"`

	DurationSeconds float64 `json:"duration_seconds"`

	Success   bool   `json:"success"`
	ErrorType string `json:"error_type,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// toMap converts the metric to a map for DefraDB storage.
func (m *Metric) toMap() map[string]any {
	data := map[string]any{
		"custom":           m.Custom,
		"duration_seconds": m.DurationSeconds,
		"success":          m.Success,
		"created_at":       m.CreatedAt.Format(time.RFC3339),
	}
	if m.Category != "" {
		data["category"] = m.Category
	}
	if m.Label != "" {
		data["label"] = m.Label
	}
	if m.Model != "" {
		data["model"] = m.Model
	}
	if m.Bytes > 0 {
		data["bytes"] = m.Bytes
	}
	if m.ErrorType != "" {
		data["error_type"] = m.ErrorType
	}
	return data
}

// parseMetric converts a DefraDB document to a Metric.
func parseMetric(m map[string]any) Metric {
	var metric Metric
	metric.ID, _ = m["_docID"].(string)
	metric.Category, _ = m["category"].(string)
	metric.Label, _ = m["label"].(string)
	metric.Custom, _ = m["custom"].(bool)
	metric.Model, _ = m["model"].(string)
	metric.DurationSeconds, _ = m["duration_seconds"].(float64)
	metric.Success, _ = m["success"].(bool)
	metric.ErrorType, _ = m["error_type"].(string)

	// JSON numbers decode as float64.
	if v, ok := m["bytes"].(float64); ok {
		metric.Bytes = int(v)
	}
	if v, ok := m["created_at"].(string); ok {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			metric.CreatedAt = t
		}
	}
	return metric
}
