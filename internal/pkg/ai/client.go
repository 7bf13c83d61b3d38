// Package ai wraps the OpenRouter chat-completion API behind a narrow
// interface the suggestion services depend on.
package ai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/tripforge/tripforge/internal/app/models"
	"github.com/tripforge/tripforge/internal/observability/metrics"
	"github.com/tripforge/tripforge/internal/pkg/config"
)

// CompletionClient issues a single chat completion and returns the raw
// message content. Implementations make exactly one attempt; retry policy
// belongs to callers who can judge idempotency.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

var _ CompletionClient = (*OpenRouterClient)(nil)

type OpenRouterClient struct {
	logger *zap.Logger
	client *openai.Client
	model  string
}

// NewOpenRouterClient builds the completion client. A missing API key is a
// configuration error and stops the process at startup rather than failing
// on the first request.
func NewOpenRouterClient(cfg config.OpenRouterConfig, logger *zap.Logger) (*OpenRouterClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter api key is not configured")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL

	return &OpenRouterClient{
		logger: logger,
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.DefaultModel,
	}, nil
}

// Complete sends one completion request. Transport and HTTP-level failures
// surface as ErrUpstreamGateway; a response with no usable content surfaces
// as ErrUpstreamPayload.
func (c *OpenRouterClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, span := otel.Tracer("OpenRouterClient").Start(ctx, "Complete")
	defer span.End()
	span.SetAttributes(attribute.String("gen_ai.request.model", c.model))

	l := c.logger.With(zap.String("method", "Complete"), zap.String("model", c.model))
	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})

	elapsed := time.Since(start)
	if m := metrics.Get(); m != nil {
		m.CompletionCallDuration.Record(ctx, elapsed.Seconds())
	}

	if err != nil {
		l.Error("Completion call failed", zap.Duration("elapsed", elapsed), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Completion call failed")
		return "", fmt.Errorf("completion request failed: %v: %w", err, models.ErrUpstreamGateway)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		l.Error("Completion returned no content", zap.Duration("elapsed", elapsed))
		span.SetStatus(codes.Error, "Empty completion")
		return "", fmt.Errorf("completion returned no content: %w", models.ErrUpstreamPayload)
	}

	l.Debug("Completion call succeeded", zap.Duration("elapsed", elapsed))
	span.SetStatus(codes.Ok, "Completion succeeded")
	return resp.Choices[0].Message.Content, nil
}
