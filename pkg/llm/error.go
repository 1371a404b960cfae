// Package llm provides the wire representation of chat completion
// requests and responses, and a client for Ollama-compatible chat
// endpoints.
package llm

// ErrorResponse represents an error from the LLM API.
type ErrorResponse struct {
	Error string `json:"error"`
}
