// Package memory provides the in-process SessionStore. Sessions live for
// the process lifetime only; there is no background expiry.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/kwhsu/riskprofiler/internal/domain"
)

// SessionStore keeps all sessions behind a single RWMutex. A store-wide
// lock keeps every per-session mutation linearizable: two concurrent
// AppendAnswer calls on one id cannot both observe the same index, and
// SetQuestionAt cannot interleave with an append on the same slot.
type SessionStore struct {
	mu       sync.RWMutex
	total    int
	sessions map[domain.SessionID]*domain.Session
}

// NewSessionStore creates a store whose sessions each run a questionnaire
// of total questions.
func NewSessionStore(total int) *SessionStore {
	return &SessionStore{
		total:    total,
		sessions: make(map[domain.SessionID]*domain.Session),
	}
}

// Create allocates a fresh random id and inserts a zero-state session.
func (s *SessionStore) Create() (domain.SessionID, error) {
	id := domain.SessionID(uuid.NewString())

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[id] = &domain.Session{ID: id}
	return id, nil
}

// Get returns a deep copy so callers can never mutate stored state outside
// the store's lock.
func (s *SessionStore) Get(id domain.SessionID) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return copySession(sess), nil
}

// SetQuestionAt grows the question sequence with empty placeholders up to
// index if necessary, then sets the slot.
func (s *SessionStore) SetQuestionAt(id domain.SessionID, index int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}

	for len(sess.Questions) <= index {
		sess.Questions = append(sess.Questions, "")
	}
	sess.Questions[index] = text
	return nil
}

// CurrentQuestion returns the question at the current index, or "" when it
// has not been generated yet.
func (s *SessionStore) CurrentQuestion(id domain.SessionID) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return "", domain.ErrSessionNotFound
	}
	if sess.CurrentIndex < len(sess.Questions) {
		return sess.Questions[sess.CurrentIndex], nil
	}
	return "", nil
}

// AppendAnswer records an answer against the current question and advances
// the index, atomically under the store lock. The answer is rejected when
// the current question slot is absent or empty.
func (s *SessionStore) AppendAnswer(id domain.SessionID, answer string, sentiment domain.SentimentScore, secondary map[string]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}

	if sess.CurrentIndex >= len(sess.Questions) || sess.Questions[sess.CurrentIndex] == "" {
		return domain.ErrNoPendingQuestion
	}

	sess.Answers = append(sess.Answers, domain.AnswerRecord{
		Question:  sess.Questions[sess.CurrentIndex],
		Answer:    answer,
		Sentiment: sentiment,
		Secondary: copyScores(secondary),
	})
	sess.CurrentIndex++
	return nil
}

// Progress returns the current index and the configured total.
func (s *SessionStore) Progress(id domain.SessionID) (current, total int, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return 0, s.total, domain.ErrSessionNotFound
	}
	return sess.CurrentIndex, s.total, nil
}

// IsComplete reports current >= total. An unknown session reports false;
// callers that need existence must use Get or Progress.
func (s *SessionStore) IsComplete(id domain.SessionID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	return sess.CurrentIndex >= s.total
}

// Delete removes the session, reporting whether it existed.
func (s *SessionStore) Delete(id domain.SessionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

func copySession(sess *domain.Session) *domain.Session {
	out := &domain.Session{
		ID:           sess.ID,
		CurrentIndex: sess.CurrentIndex,
		Questions:    append([]string(nil), sess.Questions...),
		Answers:      make([]domain.AnswerRecord, len(sess.Answers)),
	}
	for i, rec := range sess.Answers {
		rec.Secondary = copyScores(rec.Secondary)
		out.Answers[i] = rec
	}
	return out
}

func copyScores(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
