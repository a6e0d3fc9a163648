// Package transform sends a photo and a catalog prompt to the OpenAI image
// edit endpoint and stores the returned image.
package transform

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/jackzampolin/restyle/internal/catalog"
)

const (
	DefaultModel   = "gpt-image-1"
	DefaultSize    = "1024x1024"
	DefaultTimeout = 120 * time.Second

	// maxImageBytes mirrors the API's upload limit for edits.
	maxImageBytes = 50 << 20
)

var (
	ErrNoImage          = errors.New("image path is required")
	ErrEmptyPrompt      = errors.New("prompt body is empty")
	ErrUnsupportedImage = errors.New("unsupported image type (want png, jpeg or webp)")
	ErrImageTooLarge    = errors.New("image exceeds upload limit")
	ErrNoResult         = errors.New("response contained no image")
)

// RateLimitError is returned when the API answers 429.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
	StatusCode int
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s (retry after %s)", e.Message, e.RetryAfter)
	}
	return e.Message
}

// IsRateLimitError reports whether err is or wraps a *RateLimitError.
func IsRateLimitError(err error) (*RateLimitError, bool) {
	var rle *RateLimitError
	if errors.As(err, &rle) {
		return rle, true
	}
	return nil, false
}

// PromptSource resolves a catalog prompt by category and position.
// *catalog.Store satisfies it.
type PromptSource interface {
	Prompt(ctx context.Context, category string, index int) (catalog.Prompt, error)
}

// Config holds configuration for the image edit client.
type Config struct {
	APIKey     string
	Model      string
	Size       string
	Timeout    time.Duration // HTTP timeout for a single request
	MaxRetries int           // SDK transport retries, 0 disables
	OutputDir  string
	BaseURL    string       // Optional (tests)
	HTTPClient *http.Client // Optional (tests)
	Logger     *slog.Logger
}

// Client performs photo transformations.
type Client struct {
	client    openai.Client
	prompts   PromptSource
	model     string
	size      string
	outputDir string
	logger    *slog.Logger
	now       func() time.Time
}

// Request selects the photo and the catalog prompt to apply.
type Request struct {
	ImagePath   string `json:"image_path"`
	Category    string `json:"category"`
	PromptIndex int    `json:"prompt_index"`
	// Prompt overrides the catalog lookup with free text when set.
	Prompt string `json:"prompt,omitempty"`
	Size   string `json:"size,omitempty"`
}

// Result describes a finished transformation.
type Result struct {
	ID            string        `json:"id"`
	OutputPath    string        `json:"output_path"`
	Category      string        `json:"category,omitempty"`
	Label         string        `json:"label,omitempty"`
	Prompt        string        `json:"prompt"`
	Model         string        `json:"model"`
	Bytes         int           `json:"bytes"`
	RevisedPrompt string        `json:"revised_prompt,omitempty"`
	Duration      time.Duration `json:"duration"`
}

// New creates a new image edit client.
func New(cfg Config, prompts PromptSource) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Size == "" {
		cfg.Size = DefaultSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		client:    openai.NewClient(opts...),
		prompts:   prompts,
		model:     cfg.Model,
		size:      cfg.Size,
		outputDir: cfg.OutputDir,
		logger:    cfg.Logger,
		now:       time.Now,
	}
}

// Model returns the configured model.
func (c *Client) Model() string {
	return c.model
}

// Transform uploads the image with the selected prompt body and writes the
// returned image to the output directory.
func (c *Client) Transform(ctx context.Context, req Request) (*Result, error) {
	start := c.now()

	if strings.TrimSpace(req.ImagePath) == "" {
		return nil, ErrNoImage
	}

	result := &Result{Category: req.Category, Model: c.model}
	body := req.Prompt
	if body == "" {
		p, err := c.prompts.Prompt(ctx, req.Category, req.PromptIndex)
		if err != nil {
			return nil, err
		}
		body = p.Body
		result.Label = p.Label
	}
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyPrompt
	}
	result.Prompt = body

	image, contentType, err := readImage(req.ImagePath)
	if err != nil {
		return nil, err
	}

	size := req.Size
	if size == "" {
		size = c.size
	}

	params := openai.ImageEditParams{
		Image: openai.ImageEditParamsImageUnion{
			OfFile: openai.File(bytes.NewReader(image), filepath.Base(req.ImagePath), contentType),
		},
		Prompt: body,
		Model:  openai.ImageModel(c.model),
		Size:   openai.ImageEditParamsSize(size),
	}

	c.logger.Debug("requesting image edit", "model", c.model, "size", size, "image", req.ImagePath, "bytes", len(image))

	resp, err := c.client.Images.Edit(ctx, params)
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	if resp == nil || len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, ErrNoResult
	}

	out, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image payload: %w", err)
	}

	result.ID = uuid.NewString()
	result.OutputPath = filepath.Join(c.outputDir, result.ID+".png")
	if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(result.OutputPath, out, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write output: %w", err)
	}

	result.Bytes = len(out)
	result.RevisedPrompt = resp.Data[0].RevisedPrompt
	result.Duration = c.now().Sub(start)

	c.logger.Info("image transformed",
		"id", result.ID,
		"category", result.Category,
		"label", result.Label,
		"output", result.OutputPath,
		"duration", result.Duration)
	return result, nil
}

// readImage loads the upload and sniffs its type. The pixels are never decoded.
func readImage(path string) ([]byte, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}
	if info.Size() > maxImageBytes {
		return nil, "", fmt.Errorf("%w: %d bytes", ErrImageTooLarge, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}

	contentType := http.DetectContentType(data)
	switch contentType {
	case "image/png", "image/jpeg", "image/webp":
		return data, contentType, nil
	}
	return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedImage, contentType)
}

func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests {
			var retryAfter time.Duration
			if apiErr.Response != nil {
				retryAfter = parseRetryAfter(apiErr.Response.Header.Get("Retry-After"))
			}
			return &RateLimitError{
				Message:    fmt.Sprintf("OpenAI rate limited: %s", apiErr.Message),
				RetryAfter: retryAfter,
				StatusCode: apiErr.StatusCode,
			}
		}
		if apiErr.Message != "" {
			return fmt.Errorf("OpenAI image edit error (status %d): %s", apiErr.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("OpenAI image edit error (status %d)", apiErr.StatusCode)
	}
	return err
}

func parseRetryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
