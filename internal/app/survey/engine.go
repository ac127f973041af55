// Package survey owns the per-session questionnaire state machine and is
// the sole caller of the external text generator and classifier.
package survey

import (
	"context"
	"sync"
	"time"

	"github.com/kwhsu/riskprofiler/internal/app/analysis"
	"github.com/kwhsu/riskprofiler/internal/app/profile"
	"github.com/kwhsu/riskprofiler/internal/app/question"
	"github.com/kwhsu/riskprofiler/internal/domain"
	"github.com/kwhsu/riskprofiler/internal/observability"
)

// Config carries the knobs the engine consumes but does not own.
type Config struct {
	TotalQuestions int
	StreamDelay    time.Duration

	QuestionTemperature float32
	QuestionMaxTokens   int32
	AdviceTemperature   float32
	AdviceMaxTokens     int32
}

// Engine orchestrates the session lifecycle: ask, analyze, advance,
// finalize. Per-session turns are mutually exclusive; concurrent calls for
// the same session observe ErrTurnInFlight rather than corrupted state.
type Engine struct {
	store    domain.SessionStore
	gen      domain.TextGenerator
	analyzer *analysis.Analyzer
	cfg      Config

	mu       sync.Mutex
	inFlight map[domain.SessionID]struct{}
}

func NewEngine(store domain.SessionStore, gen domain.TextGenerator, analyzer *analysis.Analyzer, cfg Config) *Engine {
	return &Engine{
		store:    store,
		gen:      gen,
		analyzer: analyzer,
		cfg:      cfg,
		inFlight: make(map[domain.SessionID]struct{}),
	}
}

// StartOutput is the projection returned for a freshly created session.
type StartOutput struct {
	SessionID domain.SessionID
	Question  string
	Number    int
	Total     int
}

// TurnOutput is the projection returned after an accepted answer: either
// the next question or the final advice, profile and category.
type TurnOutput struct {
	Finished bool

	Question string
	Number   int
	Total    int

	Advice   string
	Profile  domain.TraitProfile
	Category domain.InvestorCategory
}

// Chunk is one fragment of streamed question text. The final chunk has
// Done set and carries the complete, already-stored question.
type Chunk struct {
	Text     string `json:"text"`
	Done     bool   `json:"done"`
	Question string `json:"question,omitempty"`
}

// Start creates a session, generates (or falls back to) question 1, stores
// it, and returns it. The session is then awaiting its first answer.
func (e *Engine) Start(ctx context.Context) (*StartOutput, error) {
	log := observability.LoggerFromContext(ctx)

	id, err := e.store.Create()
	if err != nil {
		return nil, err
	}

	text := e.generateQuestion(ctx, 1, nil)
	if err := e.store.SetQuestionAt(id, 0, text); err != nil {
		return nil, err
	}

	log.Info("session started", "session_id", id, "total_questions", e.cfg.TotalQuestions)

	return &StartOutput{
		SessionID: id,
		Question:  text,
		Number:    1,
		Total:     e.cfg.TotalQuestions,
	}, nil
}

// SubmitAnswer runs one conversation turn: analyze the answer, append it,
// and either hand back the next question or finalize the session.
func (e *Engine) SubmitAnswer(ctx context.Context, id domain.SessionID, answer string) (*TurnOutput, error) {
	if !e.acquire(id) {
		return nil, domain.ErrTurnInFlight
	}
	defer e.release(id)

	sess, err := e.store.Get(id)
	if err != nil {
		return nil, err
	}
	if sess.CurrentIndex >= e.cfg.TotalQuestions {
		return nil, domain.ErrSurveyComplete
	}

	current, err := e.store.CurrentQuestion(id)
	if err != nil {
		return nil, err
	}
	if current == "" {
		return nil, domain.ErrNoPendingQuestion
	}

	log := observability.LoggerFromContext(ctx).With("session_id", id)

	sentiment, secondary := e.analyzer.Analyze(ctx, answer, current)
	if err := e.store.AppendAnswer(id, answer, sentiment, secondary); err != nil {
		return nil, err
	}

	done, total, err := e.store.Progress(id)
	if err != nil {
		return nil, err
	}

	sess, err = e.store.Get(id)
	if err != nil {
		return nil, err
	}

	if done >= total {
		prof := profile.Compute(sess.Answers)
		category := profile.Classify(prof)
		advice := e.generateAdvice(ctx, sess.Answers, prof, category)

		log.Info("survey complete", "category", category, "risk", prof.Risk, "stability", prof.Stability)

		return &TurnOutput{
			Finished: true,
			Number:   done,
			Total:    total,
			Advice:   advice,
			Profile:  prof,
			Category: category,
		}, nil
	}

	ordinal := done + 1
	text := e.generateQuestion(ctx, ordinal, sess.Answers)
	if err := e.store.SetQuestionAt(id, done, text); err != nil {
		return nil, err
	}

	log.Info("next question ready", "ordinal", ordinal)

	return &TurnOutput{
		Question: text,
		Number:   ordinal,
		Total:    total,
	}, nil
}

// StreamQuestion emits the current question as ordered text fragments
// followed by a done sentinel carrying the complete text. The text is
// finalized (generated, validated, repaired) before the first fragment, and
// stored before the sentinel, so the persisted question is always exactly
// what was streamed. An emit failure or context cancellation aborts without
// storing anything the session did not already hold.
func (e *Engine) StreamQuestion(ctx context.Context, id domain.SessionID, emit func(Chunk) error) error {
	if !e.acquire(id) {
		return domain.ErrTurnInFlight
	}
	defer e.release(id)

	sess, err := e.store.Get(id)
	if err != nil {
		return err
	}
	if sess.CurrentIndex >= e.cfg.TotalQuestions {
		return domain.ErrSurveyComplete
	}

	text, err := e.store.CurrentQuestion(id)
	if err != nil {
		return err
	}

	stored := text != ""
	if !stored {
		text = e.generateQuestion(ctx, sess.CurrentIndex+1, sess.Answers)
	}

	for _, r := range text {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := emit(Chunk{Text: string(r)}); err != nil {
			return err
		}
		if e.cfg.StreamDelay > 0 {
			time.Sleep(e.cfg.StreamDelay)
		}
	}

	if !stored {
		if err := e.store.SetQuestionAt(id, sess.CurrentIndex, text); err != nil {
			return err
		}
	}

	return emit(Chunk{Done: true, Question: text})
}

// SaveQuestion validates and repairs client-supplied question text for the
// session's current ordinal and stores it.
func (e *Engine) SaveQuestion(ctx context.Context, id domain.SessionID, text string) (string, error) {
	if !e.acquire(id) {
		return "", domain.ErrTurnInFlight
	}
	defer e.release(id)

	sess, err := e.store.Get(id)
	if err != nil {
		return "", err
	}
	if sess.CurrentIndex >= e.cfg.TotalQuestions {
		return "", domain.ErrSurveyComplete
	}

	repaired := question.ForOrdinal(sess.CurrentIndex + 1).Repair(text)
	if err := e.store.SetQuestionAt(id, sess.CurrentIndex, repaired); err != nil {
		return "", err
	}

	observability.LoggerFromContext(ctx).Info("question saved",
		"session_id", id, "ordinal", sess.CurrentIndex+1)

	return repaired, nil
}

// ProgressOutput is the read-only projection of a session's progress. The
// profile and category are recomputed on demand once finished; advice is
// produced only by the finalizing turn.
type ProgressOutput struct {
	Current  int
	Total    int
	Finished bool

	Profile  *domain.TraitProfile
	Category domain.InvestorCategory
}

// Progress reports where the session stands.
func (e *Engine) Progress(id domain.SessionID) (*ProgressOutput, error) {
	current, total, err := e.store.Progress(id)
	if err != nil {
		return nil, err
	}

	out := &ProgressOutput{
		Current:  current,
		Total:    total,
		Finished: current >= total,
	}

	if out.Finished {
		sess, err := e.store.Get(id)
		if err != nil {
			return nil, err
		}
		prof := profile.Compute(sess.Answers)
		out.Profile = &prof
		out.Category = profile.Classify(prof)
	}

	return out, nil
}

// Delete tears the session down, reporting whether it existed.
func (e *Engine) Delete(id domain.SessionID) bool {
	return e.store.Delete(id)
}

// GeneratorAvailable reports whether the external text generator has a
// credential (exposed for the models debug endpoint).
func (e *Engine) GeneratorAvailable() bool {
	return e.gen != nil && e.gen.Available()
}

// TotalQuestions returns the configured questionnaire length.
func (e *Engine) TotalQuestions() int {
	return e.cfg.TotalQuestions
}

// generateQuestion produces well-formed question text for the given
// ordinal. Generator unavailability or failure yields the archetype's
// canonical fallback; generated text is validated and repaired. Upstream
// trouble is absorbed here, never surfaced.
func (e *Engine) generateQuestion(ctx context.Context, ordinal int, previous []domain.AnswerRecord) string {
	spec := question.ForOrdinal(ordinal)

	if e.gen == nil || !e.gen.Available() {
		return spec.Fallback
	}

	text, err := e.gen.GenerateText(ctx, domain.PromptSpec{
		User:            question.BuildPrompt(ordinal, e.cfg.TotalQuestions, previous),
		Temperature:     e.cfg.QuestionTemperature,
		MaxOutputTokens: e.cfg.QuestionMaxTokens,
	})
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("question generation failed, using fallback",
			"ordinal", ordinal, "error", err)
		return spec.Fallback
	}

	return spec.Repair(text)
}

func (e *Engine) acquire(id domain.SessionID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, busy := e.inFlight[id]; busy {
		return false
	}
	e.inFlight[id] = struct{}{}
	return true
}

func (e *Engine) release(id domain.SessionID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inFlight, id)
}
