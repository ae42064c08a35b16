// Package echo provides an offline provider that echoes back its input.
// It implements domain.CompletionProvider without making external API calls,
// providing deterministic responses for local runs and tests.
package echo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/davidbz/promptmeter/internal/domain"
	"github.com/davidbz/promptmeter/internal/observability"
)

const providerName = "echo"

// Config contains echo provider settings.
type Config struct {
	LatencyMs int `env:"ECHO_LATENCY_MS" envDefault:"0"`
}

// Provider implements domain.CompletionProvider for offline use.
type Provider struct {
	name    string
	latency time.Duration
}

// Compile-time check that Provider satisfies the CompletionProvider interface.
var _ domain.CompletionProvider = (*Provider)(nil)

// NewProvider creates a new echo provider.
func NewProvider(config Config) *Provider {
	return &Provider{
		name:    providerName,
		latency: time.Duration(max(config.LatencyMs, 0)) * time.Millisecond,
	}
}

// Complete waits for the configured latency and returns the prediction when
// one was given, otherwise the echoed messages. Every predicted word counts
// as an accepted prediction token.
func (p *Provider) Complete(ctx context.Context, req *domain.CompletionRequest) (*domain.CompletionResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	if err := p.wait(ctx); err != nil {
		return nil, err
	}

	logger := observability.FromContext(ctx)
	logger.Debug("echoing request")

	promptTokens := countTokens(buildEchoContent(req.Messages))

	content := req.Prediction
	var accepted int64
	if content == "" {
		content = buildEchoContent(req.Messages)
	} else {
		accepted = countTokens(content)
	}
	completionTokens := countTokens(content)

	logger.Debug("echo completed",
		observability.Int64("prompt_tokens", promptTokens),
		observability.Int64("completion_tokens", completionTokens),
	)

	return &domain.CompletionResponse{
		ID:      fmt.Sprintf("echo-%d", time.Now().UnixNano()),
		Model:   req.Model,
		Content: content,
		Usage: &domain.Usage{
			PromptTokens:             promptTokens,
			CompletionTokens:         completionTokens,
			AcceptedPredictionTokens: accepted,
		},
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return p.name
}

func (p *Provider) wait(ctx context.Context) error {
	if p.latency <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("echo provider: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

// buildEchoContent constructs the echo response from request messages.
func buildEchoContent(messages []domain.Message) string {
	if len(messages) == 0 {
		return ""
	}

	var builder strings.Builder
	for _, msg := range messages {
		builder.WriteString(fmt.Sprintf("[%s]: %s\n", msg.Role, msg.Content))
	}
	return builder.String()
}

// countTokens performs simple word-based token counting.
func countTokens(content string) int64 {
	return int64(len(strings.Fields(content)))
}
