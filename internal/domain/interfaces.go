package domain

import "context"

// CompletionProvider is the external LLM endpoint a PredictiveService delegates to.
type CompletionProvider interface {
	// Complete sends a completion request and blocks until the full response arrives.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider identifier.
	Name() string
}

// EventPublisher publishes events for observability.
type EventPublisher interface {
	// Publish publishes an event with the given type and data.
	Publish(ctx context.Context, eventType string, data map[string]interface{})
}

// Event types published by PredictiveService.
const (
	EventPromptCompleted = "predictive_prompt.completed"
	EventPromptFailed    = "predictive_prompt.failed"
)

// Keys of the event data map.
const (
	EventKeyProvider     = "provider"
	EventKeyModel        = "model"
	EventKeyAlias        = "alias"
	EventKeyRunTimeMs    = "run_time_ms"
	EventKeyCostUSD      = "cost_usd"
	EventKeyInputTokens  = "input_tokens"
	EventKeyOutputTokens = "output_tokens"
	EventKeyAccepted     = "accepted_prediction_tokens"
	EventKeyRejected     = "rejected_prediction_tokens"
	EventKeyError        = "error"
)
