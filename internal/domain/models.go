package domain

// Message roles understood by completion providers.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// CompletionRequest represents a single chat completion request.
type CompletionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`

	// Prediction is the expected output text. Providers use it only to
	// speed up generation; it never changes what a valid answer is.
	Prediction string `json:"prediction,omitempty"`
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // user, assistant, system
	Content string `json:"content"`
}

// CompletionResponse represents a provider's answer to a CompletionRequest.
type CompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Content string `json:"content"`

	// Usage is nil when the provider did not report token counts.
	Usage *Usage `json:"usage,omitempty"`
}

// Usage tracks token consumption.
type Usage struct {
	PromptTokens             int64 `json:"prompt_tokens"`
	CompletionTokens         int64 `json:"completion_tokens"`
	AcceptedPredictionTokens int64 `json:"accepted_prediction_tokens,omitempty"`
	RejectedPredictionTokens int64 `json:"rejected_prediction_tokens,omitempty"`
}

// PromptResponse is the result of one timed predictive prompt.
type PromptResponse struct {
	Response           string  `json:"response"`
	RunTimeMs          float64 `json:"runTimeMs"`
	InputAndOutputCost float64 `json:"inputAndOutputCost"`
}
