package endpoints

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/restyle/internal/api"
	"github.com/jackzampolin/restyle/internal/catalog"
	"github.com/jackzampolin/restyle/internal/metrics"
	"github.com/jackzampolin/restyle/internal/svcctx"
	"github.com/jackzampolin/restyle/internal/transform"
)

// TransformEndpoint handles POST /api/transform.
type TransformEndpoint struct{}

func (e *TransformEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/transform", e.handler
}

func (e *TransformEndpoint) RequiresCatalog() bool { return true }

// handler godoc
//
//	@Summary		Transform a photo
//	@Description	Sends the image at image_path with the selected catalog prompt (or a free-text prompt) to the image edit API and saves the result under the outputs directory.
//	@Tags			transform
//	@Accept			json
//	@Produce		json
//	@Param			request	body		transform.Request	true	"Image and prompt selection"
//	@Success		200		{object}	transform.Result
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		429		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/transform [post]
func (e *TransformEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	t := svcctx.TransformerFrom(r.Context())
	if t == nil {
		writeError(w, http.StatusServiceUnavailable, "transform disabled: no OpenAI API key configured")
		return
	}

	var req transform.Request
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	result, err := t.Transform(r.Context(), req)
	m := metrics.Metric{
		Category:        req.Category,
		Custom:          req.Prompt != "",
		DurationSeconds: time.Since(start).Seconds(),
		Success:         err == nil,
	}
	if err != nil {
		if mt, ok := t.(interface{ Model() string }); ok {
			m.Model = mt.Model()
		}
		m.ErrorType = writeTransformError(w, err)
	} else {
		m.Label, m.Model, m.Bytes = result.Label, result.Model, result.Bytes
		writeJSON(w, http.StatusOK, result)
	}
	if m.Custom {
		m.Category = ""
	}

	if rec := svcctx.MetricsFrom(r.Context()); rec != nil {
		// The client may already be gone; the record should still land.
		rec.Record(context.WithoutCancel(r.Context()), m)
	}
}

// writeTransformError writes the HTTP error for err and returns its
// metrics error type.
func writeTransformError(w http.ResponseWriter, err error) string {
	if rle, ok := transform.IsRateLimitError(err); ok {
		if rle.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(rle.RetryAfter.Seconds())))
		}
		writeError(w, http.StatusTooManyRequests, rle.Error())
		return metrics.ErrorRateLimit
	}

	switch {
	case errors.Is(err, transform.ErrNoImage),
		errors.Is(err, transform.ErrEmptyPrompt),
		errors.Is(err, transform.ErrUnsupportedImage),
		errors.Is(err, transform.ErrImageTooLarge),
		errors.Is(err, os.ErrNotExist):
		writeError(w, http.StatusBadRequest, err.Error())
		return metrics.ErrorInvalid
	case catalog.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
		return metrics.ErrorNotFound
	case errors.Is(err, catalog.ErrStorageRead), errors.Is(err, catalog.ErrStorageWrite):
		writeError(w, http.StatusInternalServerError, err.Error())
		return metrics.ErrorStorage
	default:
		writeError(w, http.StatusBadGateway, err.Error())
		return metrics.ErrorUpstream
	}
}

func (e *TransformEndpoint) Command(getServerURL func() string) *cobra.Command {
	var prompt, size string
	cmd := &cobra.Command{
		Use:   "transform <image> [category] [index]",
		Short: "Restyle a photo with a catalog prompt",
		Long: `Send a photo to the image edit API with a prompt from the catalog.

The image path is resolved on this machine and read by the server,
so both must share a filesystem.

Examples:
  restyle api transform ./me.jpg Cartoon 0
  restyle api transform ./me.jpg --prompt "Turn this into a stained glass window"`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			req := transform.Request{ImagePath: abs, Prompt: prompt, Size: size}
			if len(args) > 1 {
				req.Category = args[1]
			}
			if len(args) > 2 {
				if req.PromptIndex, err = indexArg(args[2]); err != nil {
					return err
				}
			}
			if req.Prompt == "" && req.Category == "" {
				return fmt.Errorf("either a category or --prompt is required")
			}

			client := api.NewClient(getServerURL())
			var resp transform.Result
			if err := client.Post(cmd.Context(), "/api/transform", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "", "Free-text prompt instead of a catalog entry")
	cmd.Flags().StringVar(&size, "size", "", "Output size, e.g. 1024x1024")
	return cmd
}
