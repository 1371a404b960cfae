package llm

// ChatRequest represents a chat completion request (Ollama-compatible).
type ChatRequest struct {
	Model    string    `json:"model"`            // Model name (e.g., "llama2", "gemini-2.5-flash")
	Messages []Message `json:"messages"`         // Conversation history, oldest first
	Stream   *bool     `json:"stream,omitempty"` // Whether to stream responses (always false here)

	// Generation options
	Options *Options `json:"options,omitempty"`
}
