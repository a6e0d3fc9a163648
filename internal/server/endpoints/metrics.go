package endpoints

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/restyle/internal/api"
	"github.com/jackzampolin/restyle/internal/metrics"
	"github.com/jackzampolin/restyle/internal/svcctx"
)

const defaultMetricsLimit = 100

// ListMetricsResponse is the response for listing metrics.
type ListMetricsResponse struct {
	Metrics []metrics.Metric `json:"metrics"`
	Count   int              `json:"count"`
}

// ListMetricsEndpoint handles GET /api/metrics.
type ListMetricsEndpoint struct{}

func (e *ListMetricsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/metrics", e.handler
}

func (e *ListMetricsEndpoint) RequiresCatalog() bool { return true }

// handler godoc
//
//	@Summary		List transform metrics
//	@Description	Recent transforms, newest first
//	@Tags			metrics
//	@Produce		json
//	@Param			category	query		string	false	"Filter by category"
//	@Param			model		query		string	false	"Filter by model"
//	@Param			success		query		bool	false	"Only successes (true) or failures (false)"
//	@Param			limit		query		int		false	"Maximum results (default 100)"
//	@Success		200			{object}	ListMetricsResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		503			{object}	ErrorResponse
//	@Router			/api/metrics [get]
func (e *ListMetricsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	rec := svcctx.MetricsFrom(r.Context())
	if rec == nil {
		writeError(w, http.StatusServiceUnavailable, "metrics not initialized")
		return
	}

	f, err := metricsFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := defaultMetricsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
	}

	list := rec.List(f, limit)
	if list == nil {
		list = []metrics.Metric{}
	}
	writeJSON(w, http.StatusOK, ListMetricsResponse{Metrics: list, Count: len(list)})
}

func (e *ListMetricsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var category, model string
	var limit int
	cmd := &cobra.Command{
		Use:   "metrics list",
		Short: "List recent transforms",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if category != "" {
				q.Set("category", category)
			}
			if model != "" {
				q.Set("model", model)
			}
			if limit > 0 {
				q.Set("limit", strconv.Itoa(limit))
			}

			client := api.NewClient(getServerURL())
			var resp ListMetricsResponse
			if err := client.Get(cmd.Context(), withQuery("/api/metrics", q), &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&model, "model", "", "Filter by model")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum results")
	return cmd
}

// MetricsSummaryEndpoint handles GET /api/metrics/summary.
type MetricsSummaryEndpoint struct{}

func (e *MetricsSummaryEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/metrics/summary", e.handler
}

func (e *MetricsSummaryEndpoint) RequiresCatalog() bool { return true }

// handler godoc
//
//	@Summary	Summarize transform metrics
//	@Tags		metrics
//	@Produce	json
//	@Param		category	query		string	false	"Filter by category"
//	@Param		model		query		string	false	"Filter by model"
//	@Success	200			{object}	metrics.Summary
//	@Failure	400			{object}	ErrorResponse
//	@Failure	503			{object}	ErrorResponse
//	@Router		/api/metrics/summary [get]
func (e *MetricsSummaryEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	rec := svcctx.MetricsFrom(r.Context())
	if rec == nil {
		writeError(w, http.StatusServiceUnavailable, "metrics not initialized")
		return
	}

	f, err := metricsFilter(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec.Summary(f))
}

func (e *MetricsSummaryEndpoint) Command(getServerURL func() string) *cobra.Command {
	var category, model string
	cmd := &cobra.Command{
		Use:   "metrics summary",
		Short: "Summarize transforms by outcome, style and latency",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if category != "" {
				q.Set("category", category)
			}
			if model != "" {
				q.Set("model", model)
			}

			client := api.NewClient(getServerURL())
			var resp metrics.Summary
			if err := client.Get(cmd.Context(), withQuery("/api/metrics/summary", q), &resp); err != nil {
				return err
			}
			// Structured output only when asked for with -o.
			if cmd.Flags().Changed("output") {
				return api.Output(resp)
			}

			fmt.Printf("Transforms\n")
			fmt.Printf("==========\n")
			fmt.Printf("  Count:    %d\n", resp.Count)
			fmt.Printf("  Success:  %d\n", resp.SuccessCount)
			fmt.Printf("  Errors:   %d\n", resp.ErrorCount)
			fmt.Println()
			fmt.Printf("  Avg Time: %.2fs\n", resp.LatencyAvg)
			fmt.Printf("  p50:      %.2fs\n", resp.LatencyP50)
			fmt.Printf("  p95:      %.2fs\n", resp.LatencyP95)
			printCounts("By category", resp.ByCategory)
			printCounts("By error", resp.ByError)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&model, "model", "", "Filter by model")
	return cmd
}

func metricsFilter(q url.Values) (metrics.Filter, error) {
	f := metrics.Filter{
		Category: q.Get("category"),
		Model:    q.Get("model"),
	}
	if v := q.Get("success"); v != "" {
		ok, err := strconv.ParseBool(v)
		if err != nil {
			return f, fmt.Errorf("invalid success value %q", v)
		}
		f.Success = &ok
	}
	return f, nil
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func printCounts(title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("\n%s\n", title)
	for _, k := range keys {
		fmt.Printf("  %-20s %d\n", k, counts[k])
	}
}
