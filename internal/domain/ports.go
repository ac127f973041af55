package domain

import (
	"context"
	"encoding/json"
)

// PromptSpec is the instruction sent to the external text generator.
type PromptSpec struct {
	System string
	User   string

	Temperature     float32
	MaxOutputTokens int32
}

// TextGenerator defines how the core interacts with the external LLM.
//
// Available is evaluated once at construction time (e.g. credential
// present); when it reports false the engine substitutes canonical fallback
// content instead of calling GenerateText.
type TextGenerator interface {
	Available() bool
	GenerateText(ctx context.Context, spec PromptSpec) (string, error)
}

// SentimentClassifier defines the external sentiment/stress classifier.
// The returned payload shape is not contractually fixed: it may be a flat
// list of label/score pairs or the same list wrapped in one extra layer of
// nesting. Consumers must tolerate both and degrade on anything else.
type SentimentClassifier interface {
	Available() bool
	Classify(ctx context.Context, text string) (json.RawMessage, error)
}

// SessionStore defines session persistence for the process lifetime.
// All mutations to a given session are linearizable.
type SessionStore interface {
	// Create allocates a fresh unique id and inserts a zero-state session.
	Create() (SessionID, error)

	// Get returns a snapshot copy of the session, or ErrSessionNotFound.
	Get(id SessionID) (*Session, error)

	// SetQuestionAt grows the question sequence with empty placeholders up
	// to index if necessary, then sets the slot at index.
	SetQuestionAt(id SessionID, index int, text string) error

	// CurrentQuestion returns the question at the session's current index,
	// or "" when that slot has not been generated yet.
	CurrentQuestion(id SessionID) (string, error)

	// AppendAnswer records an answer against the current question and
	// advances the index by one, atomically. Returns ErrNoPendingQuestion
	// when the current question slot is absent or empty.
	AppendAnswer(id SessionID, answer string, sentiment SentimentScore, secondary map[string]float64) error

	// Progress returns the current index and the configured total.
	Progress(id SessionID) (current, total int, err error)

	// IsComplete reports current >= total. An unknown session reports
	// false rather than an error; callers that need existence must use
	// Get or Progress.
	IsComplete(id SessionID) bool

	// Delete removes the session, reporting whether it existed.
	Delete(id SessionID) bool
}
