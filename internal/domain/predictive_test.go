package domain_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/promptmeter/internal/domain"
)

// mockProvider is a mock implementation of CompletionProvider for testing.
type mockProvider struct {
	name         string
	completeFunc func(ctx context.Context, req *domain.CompletionRequest) (*domain.CompletionResponse, error)

	mu    sync.Mutex
	calls []*domain.CompletionRequest
}

func (m *mockProvider) Complete(
	ctx context.Context,
	req *domain.CompletionRequest,
) (*domain.CompletionResponse, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if m.completeFunc != nil {
		return m.completeFunc(ctx, req)
	}
	return &domain.CompletionResponse{
		ID:      "test-id",
		Model:   req.Model,
		Content: "test response",
		Usage: &domain.Usage{
			PromptTokens:     1_000_000,
			CompletionTokens: 1_000_000,
		},
	}, nil
}

func (m *mockProvider) Name() string {
	return m.name
}

// slowCalculator delays cost calculation to show it is outside the timed window.
type slowCalculator struct {
	domain.CostCalculator
	delay time.Duration
}

func (s *slowCalculator) Calculate(ctx context.Context, model string, usage domain.Usage) float64 {
	time.Sleep(s.delay)
	return s.CostCalculator.Calculate(ctx, model, usage)
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	delay  time.Duration
	events []recordedEvent
}

type recordedEvent struct {
	eventType string
	data      map[string]interface{}
}

func (r *recordingPublisher) Publish(_ context.Context, eventType string, data map[string]interface{}) {
	time.Sleep(r.delay)
	r.events = append(r.events, recordedEvent{eventType: eventType, data: data})
}

func testCostCalculator() *domain.StandardCostCalculator {
	return domain.NewStandardCostCalculator(
		domain.NewDefaultAliasClassifier(),
		domain.NewStaticPricingTable(domain.CostMap{
			domain.AliasGPT4o: {InputCostPerMillion: 5, OutputCostPerMillion: 15},
		}),
	)
}

func TestPredictiveService_PredictivePrompt(t *testing.T) {
	t.Run("should return response, runtime and cost", func(t *testing.T) {
		provider := &mockProvider{name: "test-provider"}
		publisher := &recordingPublisher{}
		service := domain.NewPredictiveService(provider, testCostCalculator(), publisher)

		resp, err := service.PredictivePrompt(context.Background(), "Rename foo", "func bar() {}", "gpt-4-something")

		require.NoError(t, err)
		require.Equal(t, "test response", resp.Response)
		require.InDelta(t, 20.0, resp.InputAndOutputCost, 1e-9)
		require.GreaterOrEqual(t, resp.RunTimeMs, 0.0)

		require.Len(t, provider.calls, 1)
		req := provider.calls[0]
		require.Equal(t, "gpt-4-something", req.Model)
		require.Equal(t, []domain.Message{{Role: domain.RoleUser, Content: "Rename foo"}}, req.Messages)
		require.Equal(t, "func bar() {}", req.Prediction)

		require.Len(t, publisher.events, 1)
		event := publisher.events[0]
		require.Equal(t, domain.EventPromptCompleted, event.eventType)
		require.Equal(t, "gpt-4o", event.data[domain.EventKeyAlias])
		require.Equal(t, "test-provider", event.data[domain.EventKeyProvider])
		require.Equal(t, int64(1_000_000), event.data[domain.EventKeyInputTokens])
		require.InDelta(t, 20.0, event.data[domain.EventKeyCostUSD], 1e-9)
	})

	t.Run("should use zero cost when pricing is missing", func(t *testing.T) {
		provider := &mockProvider{name: "test-provider"}
		service := domain.NewPredictiveService(provider, testCostCalculator(), nil)

		resp, err := service.PredictivePrompt(context.Background(), "hello", "", "gpt-3.5-turbo")

		require.NoError(t, err)
		require.Equal(t, "test response", resp.Response)
		require.Equal(t, 0.0, resp.InputAndOutputCost)
	})

	t.Run("should measure only the provider call", func(t *testing.T) {
		const providerDelay = 80 * time.Millisecond
		const overheadDelay = 150 * time.Millisecond

		provider := &mockProvider{
			name: "slow-provider",
			completeFunc: func(_ context.Context, req *domain.CompletionRequest) (*domain.CompletionResponse, error) {
				time.Sleep(providerDelay)
				return &domain.CompletionResponse{
					Model:   req.Model,
					Content: "done",
					Usage:   &domain.Usage{PromptTokens: 10, CompletionTokens: 10},
				}, nil
			},
		}
		calculator := &slowCalculator{CostCalculator: testCostCalculator(), delay: overheadDelay}
		publisher := &recordingPublisher{delay: overheadDelay}
		service := domain.NewPredictiveService(provider, calculator, publisher)

		start := time.Now()
		resp, err := service.PredictivePrompt(context.Background(), "hello", "", "gpt-4o")
		total := time.Since(start)

		require.NoError(t, err)
		require.GreaterOrEqual(t, total, providerDelay+2*overheadDelay)
		require.GreaterOrEqual(t, resp.RunTimeMs, float64(providerDelay.Milliseconds()))
		require.Less(t, resp.RunTimeMs, float64((providerDelay + overheadDelay).Milliseconds()))
	})

	t.Run("should return ProviderError when provider fails", func(t *testing.T) {
		providerErr := errors.New("connection refused")
		provider := &mockProvider{
			name: "test-provider",
			completeFunc: func(_ context.Context, _ *domain.CompletionRequest) (*domain.CompletionResponse, error) {
				time.Sleep(10 * time.Millisecond)
				return nil, providerErr
			},
		}
		publisher := &recordingPublisher{}
		service := domain.NewPredictiveService(provider, testCostCalculator(), publisher)

		resp, err := service.PredictivePrompt(context.Background(), "hello", "hi", "gpt-4o")

		require.Error(t, err)
		require.Equal(t, domain.PromptResponse{}, resp)

		var pErr *domain.ProviderError
		require.ErrorAs(t, err, &pErr)
		require.Equal(t, "test-provider", pErr.Provider)
		require.Equal(t, "gpt-4o", pErr.Model)
		require.ErrorIs(t, err, providerErr)
		require.Same(t, providerErr, errors.Unwrap(err))

		require.Len(t, publisher.events, 1)
		require.Equal(t, domain.EventPromptFailed, publisher.events[0].eventType)
		require.GreaterOrEqual(t, publisher.events[0].data[domain.EventKeyRunTimeMs], 10.0)
	})

	t.Run("should fail when usage is missing", func(t *testing.T) {
		provider := &mockProvider{
			name: "test-provider",
			completeFunc: func(_ context.Context, req *domain.CompletionRequest) (*domain.CompletionResponse, error) {
				return &domain.CompletionResponse{Model: req.Model, Content: "no usage"}, nil
			},
		}
		service := domain.NewPredictiveService(provider, testCostCalculator(), nil)

		resp, err := service.PredictivePrompt(context.Background(), "hello", "", "gpt-4o")

		require.Equal(t, domain.PromptResponse{}, resp)
		require.ErrorIs(t, err, domain.ErrMissingUsage)

		var pErr *domain.ProviderError
		require.ErrorAs(t, err, &pErr)
	})

	t.Run("should reject empty model and prompt without calling provider", func(t *testing.T) {
		provider := &mockProvider{name: "test-provider"}
		service := domain.NewPredictiveService(provider, testCostCalculator(), nil)

		_, err := service.PredictivePrompt(context.Background(), "hello", "", "")
		require.ErrorIs(t, err, domain.ErrInvalidRequest)

		_, err = service.PredictivePrompt(context.Background(), "", "", "gpt-4o")
		require.ErrorIs(t, err, domain.ErrInvalidRequest)

		require.Empty(t, provider.calls)
	})

	t.Run("should pass context to provider", func(t *testing.T) {
		provider := &mockProvider{
			name: "test-provider",
			completeFunc: func(ctx context.Context, _ *domain.CompletionRequest) (*domain.CompletionResponse, error) {
				return nil, ctx.Err()
			},
		}
		service := domain.NewPredictiveService(provider, testCostCalculator(), nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := service.PredictivePrompt(ctx, "hello", "", "gpt-4o")
		require.ErrorIs(t, err, context.Canceled)
	})
}
