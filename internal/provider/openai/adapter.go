// Package openai provides an adapter for the OpenAI API using the official SDK.
// It implements domain.CompletionProvider and converts between domain types
// and SDK types, including the predicted-output hint and prediction token usage.
package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/davidbz/promptmeter/internal/domain"
	"github.com/davidbz/promptmeter/internal/observability"
)

const providerName = "openai"

// Provider implements domain.CompletionProvider for OpenAI.
type Provider struct {
	client openai.Client
	name   string
}

// Compile-time check that Provider satisfies the CompletionProvider interface.
var _ domain.CompletionProvider = (*Provider)(nil)

// NewProvider creates a new OpenAI provider.
func NewProvider(config Config) (*Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		// Retries would be hidden inside the measured latency.
		option.WithMaxRetries(max(config.MaxRetries, 0)),
	}

	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(config.Timeout)*time.Second))
	}

	return &Provider{
		client: openai.NewClient(opts...),
		name:   providerName,
	}, nil
}

// Complete sends a completion request and returns the full response.
func (p *Provider) Complete(ctx context.Context, req *domain.CompletionRequest) (*domain.CompletionResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	logger := observability.FromContext(ctx)
	logger.Debug("calling OpenAI API",
		observability.Bool("prediction", req.Prediction != ""))

	params := p.toSDKParams(req)

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		logger.Error("OpenAI API call failed", observability.Error(err))
		return nil, fmt.Errorf("OpenAI API call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("OpenAI response has no choices")
	}

	domainResp := p.toDomainResponse(resp)
	if domainResp.Usage != nil {
		logger.Debug("OpenAI API call succeeded",
			observability.Int64("prompt_tokens", domainResp.Usage.PromptTokens),
			observability.Int64("completion_tokens", domainResp.Usage.CompletionTokens),
			observability.Int64("accepted_prediction_tokens", domainResp.Usage.AcceptedPredictionTokens),
		)
	}

	return domainResp, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return p.name
}

// toSDKParams converts domain request to SDK ChatCompletionNewParams
func (p *Provider) toSDKParams(req *domain.CompletionRequest) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, len(req.Messages))
	for i, msg := range req.Messages {
		switch msg.Role {
		case domain.RoleUser:
			messages[i] = openai.UserMessage(msg.Content)
		case domain.RoleAssistant:
			messages[i] = openai.AssistantMessage(msg.Content)
		case domain.RoleSystem:
			messages[i] = openai.SystemMessage(msg.Content)
		default:
			// Fallback to user message if role is unknown
			messages[i] = openai.UserMessage(msg.Content)
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: messages,
	}

	if req.Prediction != "" {
		//nolint:exhaustruct // Type defaults to "content"
		params.Prediction = openai.ChatCompletionPredictionContentParam{
			Content: openai.ChatCompletionPredictionContentContentUnionParam{
				OfString: openai.String(req.Prediction),
			},
		}
	}

	return params
}

// toDomainResponse converts SDK response to domain response.
// Usage stays nil unless both prompt_tokens and completion_tokens were reported.
func (p *Provider) toDomainResponse(resp *openai.ChatCompletion) *domain.CompletionResponse {
	out := &domain.CompletionResponse{
		ID:      resp.ID,
		Model:   string(resp.Model),
		Content: resp.Choices[0].Message.Content,
	}

	if hasTokenCounts(resp) {
		details := resp.Usage.CompletionTokensDetails
		out.Usage = &domain.Usage{
			PromptTokens:             resp.Usage.PromptTokens,
			CompletionTokens:         resp.Usage.CompletionTokens,
			AcceptedPredictionTokens: details.AcceptedPredictionTokens,
			RejectedPredictionTokens: details.RejectedPredictionTokens,
		}
	}

	return out
}

func hasTokenCounts(resp *openai.ChatCompletion) bool {
	return resp.JSON.Usage.Valid() &&
		resp.Usage.JSON.PromptTokens.Valid() &&
		resp.Usage.JSON.CompletionTokens.Valid()
}
