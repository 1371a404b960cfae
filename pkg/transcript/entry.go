// Package transcript records conversations as content-addressed entry
// chains. Each entry hashes its own role/content/model together with
// its parent hash, so identical histories deduplicate automatically and
// divergent replies branch from their common prefix.
package transcript

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/ewittry/parley/pkg/chat"
)

// Entry is a single recorded turn in a transcript chain.
type Entry struct {
	// Hash is the content-addressed identifier (SHA-256, hex-encoded)
	Hash string `json:"hash"`

	// ParentHash links to the previous entry in the conversation.
	// This will be nil for the first turn of a conversation.
	ParentHash *string `json:"parent_hash"`

	Role    chat.Role `json:"role"`
	Content string    `json:"content"`

	// Model that produced or received the turn
	Model string `json:"model,omitempty"`

	// CreatedAt is when the entry was recorded. It is not part of the
	// hash, so re-recording the same conversation still deduplicates.
	CreatedAt time.Time `json:"created_at"`
}

// hashInput is the canonical structure hashed to derive an entry's
// identity.
type hashInput struct {
	Parent  string `json:"parent,omitempty"`
	Role    string `json:"role"`
	Content string `json:"content"`
	Model   string `json:"model,omitempty"`
}

// NewEntry creates an entry for a turn, chained to parent (nil for the
// first turn of a conversation).
func NewEntry(turn chat.Turn, model string, parent *Entry) *Entry {
	e := &Entry{
		Role:      turn.Role,
		Content:   turn.Content,
		Model:     model,
		CreatedAt: time.Now().UTC(),
	}

	if parent != nil {
		e.ParentHash = &parent.Hash
	}

	e.Hash = e.computeHash()
	return e
}

// computeHash calculates the content-addressed hash for an entry.
func (e *Entry) computeHash() string {
	i := hashInput{
		Role:    string(e.Role),
		Content: e.Content,
		Model:   e.Model,
	}

	if e.ParentHash != nil {
		i.Parent = *e.ParentHash
	}

	// Canonical JSON encoding for deterministic hashing
	data, err := json.Marshal(i)
	if err != nil {
		panic("failed to marshal hash input: " + err.Error())
	}

	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
