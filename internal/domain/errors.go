package domain

import "errors"

// Caller-visible errors. Everything upstream (generator or classifier
// failures, malformed classifier output) is absorbed into deterministic
// fallback content and never reaches the caller as an error.
var (
	// ErrSessionNotFound means the session id is unknown.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoPendingQuestion means an answer was submitted while the question
	// slot at the session's current index is absent or empty.
	ErrNoPendingQuestion = errors.New("no pending question for answer")

	// ErrSurveyComplete means an answer was submitted after the session
	// reached its terminal state.
	ErrSurveyComplete = errors.New("survey already complete")

	// ErrTurnInFlight means another turn for the same session is still
	// being processed. The contract admits at most one outstanding turn
	// per session.
	ErrTurnInFlight = errors.New("another turn is in flight for this session")
)

// IsRejected reports whether err is a state-machine precondition violation
// (as opposed to an unknown session).
func IsRejected(err error) bool {
	return errors.Is(err, ErrNoPendingQuestion) ||
		errors.Is(err, ErrSurveyComplete) ||
		errors.Is(err, ErrTurnInFlight)
}
