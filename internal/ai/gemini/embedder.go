package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/pathforge-labs/pathforge/internal/jobs"
	"github.com/pathforge-labs/pathforge/internal/logger"
	"github.com/pathforge-labs/pathforge/internal/utils"
)

const (
	defaultModel      = "gemini-embedding-001"
	defaultMaxRetries = 3
	// The batch embedding endpoint rejects larger requests.
	maxRequestTexts = 100
	taskType        = "RETRIEVAL_DOCUMENT"

	baseRetryDelay = 2 * time.Second
	maxRetryDelay  = 30 * time.Second
)

var wait = utils.WaitFor

var retryHint = regexp.MustCompile(`(?i)retry (?:after|in) ([0-9]+(?:\.[0-9]+)?)\s*(ms|s|sec|secs|seconds?)\b`)

type embedContentAPI interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

type Config struct {
	APIKey     string
	Model      string
	Dimensions int
	MaxRetries int
}

// Embedder turns texts into vectors with the Gemini embedding API.
type Embedder struct {
	models     embedContentAPI
	model      string
	dimensions int
	maxRetries int
	logger     *zap.Logger
}

// NewEmbedder creates an Embedder configured for the Gemini API backend.
func NewEmbedder(ctx context.Context, cfg Config, log *zap.Logger) (*Embedder, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newEmbedder(client.Models, cfg, log), nil
}

func newEmbedder(models embedContentAPI, cfg Config, log *zap.Logger) *Embedder {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	dimensions := cfg.Dimensions
	if dimensions <= 0 {
		dimensions = jobs.EmbeddingDimensions
	}

	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = defaultMaxRetries
	}

	return &Embedder{
		models:     models,
		model:      model,
		dimensions: dimensions,
		maxRetries: retries,
		logger:     logger.WithFields(log, logger.ProviderFields("gemini", model)...),
	}
}

func (e *Embedder) Model() string { return e.model }

func (e *Embedder) Dimensions() int { return e.dimensions }

// EmbedBatch returns one vector per text, in input order. Any failure fails
// the whole batch.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxRequestTexts {
		end := start + maxRequestTexts
		if end > len(texts) {
			end = len(texts)
		}

		part, err := e.embedWithRetry(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, part...)
	}

	return vectors, nil
}

func (e *Embedder) embedWithRetry(ctx context.Context, texts []string) ([][]float32, error) {
	var lastErr error
	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		vectors, err := e.embed(ctx, texts)
		if err == nil {
			return vectors, nil
		}
		lastErr = err

		delay, retry := retryDelay(err, attempt)
		if !retry || attempt == e.maxRetries {
			break
		}

		e.logger.Warn("retrying embedding request",
			zap.Int("attempt", attempt),
			zap.Int("texts", len(texts)),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if err := wait(ctx, delay); err != nil {
			return nil, fmt.Errorf("waiting to retry embedding request: %w", err)
		}
	}

	return nil, lastErr
}

func (e *Embedder) embed(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = &genai.Content{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: text}},
		}
	}

	dims := int32(e.dimensions)
	resp, err := e.models.EmbedContent(ctx, e.model, contents, &genai.EmbedContentConfig{
		TaskType:             taskType,
		OutputDimensionality: &dims,
	})
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}
	if resp == nil {
		return nil, errors.New("gemini api returned empty response")
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini api returned %d embeddings for %d texts", len(resp.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) != e.dimensions {
			got := 0
			if emb != nil {
				got = len(emb.Values)
			}
			return nil, fmt.Errorf("embedding %d has %d dimensions, want %d", i, got, e.dimensions)
		}
		vectors[i] = emb.Values
	}

	e.logger.Debug("gemini embed content response", zap.Int("texts", len(texts)))

	return vectors, nil
}

// retryDelay reports whether err is worth retrying and how long to wait.
// Server errors back off exponentially; rate limits are retried only when the
// API hints at a short delay.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		apiErr = *apiErrPtr
	default:
		return 0, false
	}

	switch {
	case apiErr.Code >= http.StatusInternalServerError:
		return utils.Backoff(attempt, baseRetryDelay, maxRetryDelay), true
	case apiErr.Code == http.StatusTooManyRequests:
		hint, ok := parseRetryHint(apiErr.Message)
		if !ok {
			return utils.Backoff(attempt, baseRetryDelay, maxRetryDelay), true
		}
		if hint > maxRetryDelay {
			return 0, false
		}
		return hint, true
	default:
		return 0, false
	}
}

func parseRetryHint(message string) (time.Duration, bool) {
	m := retryHint.FindStringSubmatch(message)
	if m == nil {
		return 0, false
	}

	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}

	unit := time.Second
	if strings.EqualFold(m[2], "ms") {
		unit = time.Millisecond
	}
	return time.Duration(v * float64(unit)), true
}
