package pipeline

import (
	"github.com/google/uuid"

	"github.com/jonathan/interview-pilot/internal/llm"
)

// defaultTopK is the number of passages retrieved per stage query.
const defaultTopK = 3

// Session carries cross-cutting run concerns through every stage invocation:
// a correlation id and the feature toggles. It is not part of the domain
// state and is never read from ambient process state.
type Session struct {
	ID        uuid.UUID
	EnableRAG bool
	UseLite   bool
	TopK      int
}

// NewSession builds a session for one pipeline entry.
func NewSession(enableRAG, useLite bool) Session {
	return Session{
		ID:        uuid.New(),
		EnableRAG: enableRAG,
		UseLite:   useLite,
		TopK:      defaultTopK,
	}
}

// Tier resolves the model tier for a stage's default. The lightweight toggle
// routes every call to the lite tier; it has no effect on stage logic.
func (s Session) Tier(stageDefault llm.ModelTier) llm.ModelTier {
	if s.UseLite {
		return llm.TierLite
	}
	return stageDefault
}
