// Package retrieval provides the knowledge-base retrieval gateway used to
// augment stage prompts. The index is built once from .txt/.md files, is
// immutable afterwards, and supports concurrent lookups.
package retrieval

import "context"

// Passage is one chunk of knowledge-base text.
type Passage struct {
	Text     string `json:"text"`
	Source   string `json:"source"`
	Category string `json:"category,omitempty"`
}

// ScoredPassage pairs a passage with its similarity score for a query.
type ScoredPassage struct {
	Passage
	Score float64 `json:"score"`
}

// Gateway is the retrieval abstraction stages depend on. An empty result set
// means "no relevant context" and is never an error; implementations reserve
// errors for hard failures (index unreachable, corrupt source).
type Gateway interface {
	Search(ctx context.Context, query, category string, topK int) ([]ScoredPassage, error)
}
