package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/davidbz/promptmeter/internal/observability"
)

// PredictiveService runs prompts with a predicted output and accounts for
// their latency and cost.
type PredictiveService struct {
	provider       CompletionProvider
	costCalculator CostCalculator
	publisher      EventPublisher
}

// NewPredictiveService creates a new predictive prompt service (DI constructor).
// publisher may be nil.
func NewPredictiveService(
	provider CompletionProvider,
	costCalculator CostCalculator,
	publisher EventPublisher,
) *PredictiveService {
	return &PredictiveService{
		provider:       provider,
		costCalculator: costCalculator,
		publisher:      publisher,
	}
}

// PredictivePrompt sends prompt to model with prediction as the predicted
// output. RunTimeMs covers only the provider call. Provider failures are
// returned as *ProviderError with no partial response.
func (s *PredictiveService) PredictivePrompt(
	ctx context.Context,
	prompt string,
	prediction string,
	model string,
) (PromptResponse, error) {
	if model == "" {
		return PromptResponse{}, fmt.Errorf("%w: model cannot be empty", ErrInvalidRequest)
	}
	if prompt == "" {
		return PromptResponse{}, fmt.Errorf("%w: prompt cannot be empty", ErrInvalidRequest)
	}

	ctx = observability.WithModel(ctx, model)
	logger := observability.FromContext(ctx)

	req := &CompletionRequest{
		Model: model,
		Messages: []Message{
			{Role: RoleUser, Content: prompt},
		},
		Prediction: prediction,
	}

	var resp *CompletionResponse
	elapsed, err := measure(func() error {
		var callErr error
		resp, callErr = s.provider.Complete(ctx, req)
		return callErr
	})
	if err != nil {
		return PromptResponse{}, s.fail(ctx, model, elapsed, err)
	}
	if resp == nil || resp.Usage == nil {
		return PromptResponse{}, s.fail(ctx, model, elapsed, ErrMissingUsage)
	}

	usage := *resp.Usage
	cost := s.costCalculator.Calculate(ctx, model, usage)
	runTimeMs := durationToMs(elapsed)

	logger.Info("predictive prompt completed",
		observability.String("provider", s.provider.Name()),
		observability.Float64("run_time_ms", runTimeMs),
		observability.Int64("input_tokens", usage.PromptTokens),
		observability.Int64("output_tokens", usage.CompletionTokens),
		observability.Float64("cost_usd", cost))

	s.publish(ctx, EventPromptCompleted, map[string]interface{}{
		EventKeyProvider:     s.provider.Name(),
		EventKeyModel:        model,
		EventKeyAlias:        string(s.costCalculator.Alias(model)),
		EventKeyRunTimeMs:    runTimeMs,
		EventKeyCostUSD:      cost,
		EventKeyInputTokens:  usage.PromptTokens,
		EventKeyOutputTokens: usage.CompletionTokens,
		EventKeyAccepted:     usage.AcceptedPredictionTokens,
		EventKeyRejected:     usage.RejectedPredictionTokens,
	})

	return PromptResponse{
		Response:           resp.Content,
		RunTimeMs:          runTimeMs,
		InputAndOutputCost: cost,
	}, nil
}

func (s *PredictiveService) fail(ctx context.Context, model string, elapsed time.Duration, cause error) error {
	providerErr := &ProviderError{
		Provider: s.provider.Name(),
		Model:    model,
		Err:      cause,
	}

	observability.FromContext(ctx).Error("predictive prompt failed",
		observability.String("provider", providerErr.Provider),
		observability.Duration("elapsed", elapsed),
		observability.Error(cause))

	s.publish(ctx, EventPromptFailed, map[string]interface{}{
		EventKeyProvider:  providerErr.Provider,
		EventKeyModel:     model,
		EventKeyAlias:     string(s.costCalculator.Alias(model)),
		EventKeyRunTimeMs: durationToMs(elapsed),
		EventKeyError:     cause.Error(),
	})

	return providerErr
}

func (s *PredictiveService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, eventType, data)
}
