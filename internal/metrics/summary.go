package metrics

import "sort"

// Summary aggregates transform metrics.
type Summary struct {
	Count        int `json:"count"`
	SuccessCount int `json:"success_count"`
	ErrorCount   int `json:"error_count"`

	// Latency in seconds.
	LatencyAvg float64 `json:"latency_avg"`
	LatencyP50 float64 `json:"latency_p50"`
	LatencyP95 float64 `json:"latency_p95"`
	LatencyMax float64 `json:"latency_max"`

	ByCategory map[string]int `json:"by_category,omitempty"`
	ByModel    map[string]int `json:"by_model,omitempty"`
	ByError    map[string]int `json:"by_error,omitempty"`
}

// Summary returns aggregate stats for metrics matching the filter.
func (r *Recorder) Summary(f Filter) *Summary {
	return summarize(r.List(f, 0))
}

func summarize(metrics []Metric) *Summary {
	s := &Summary{Count: len(metrics)}
	if len(metrics) == 0 {
		return s
	}
	s.ByCategory = map[string]int{}
	s.ByModel = map[string]int{}
	s.ByError = map[string]int{}

	latencies := make([]float64, 0, len(metrics))
	var sum float64
	for _, m := range metrics {
		if m.Success {
			s.SuccessCount++
		} else {
			s.ErrorCount++
			s.ByError[m.ErrorType]++
		}
		switch {
		case m.Custom:
			s.ByCategory["(custom)"]++
		case m.Category != "":
			s.ByCategory[m.Category]++
		}
		if m.Model != "" {
			s.ByModel[m.Model]++
		}
		latencies = append(latencies, m.DurationSeconds)
		sum += m.DurationSeconds
	}

	sort.Float64s(latencies)
	s.LatencyAvg = sum / float64(len(latencies))
	s.LatencyP50 = percentile(latencies, 50)
	s.LatencyP95 = percentile(latencies, 95)
	s.LatencyMax = latencies[len(latencies)-1]
	return s
}

// percentile calculates the p-th percentile from a sorted slice,
// interpolating between neighbours.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	idx := (p / 100.0) * float64(len(sorted)-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := idx - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
