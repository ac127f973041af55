package domain

// SessionID is an opaque 128-bit random identifier, string-encoded.
type SessionID string

// QuestionArchetype is the structural category of a generated question.
type QuestionArchetype string

const (
	// ArchetypeEmotionChoice asks for a single-choice emotional reaction.
	ArchetypeEmotionChoice QuestionArchetype = "single_choice_emotion"
	// ArchetypeLikertStress asks for a 1-5 stress rating.
	ArchetypeLikertStress QuestionArchetype = "likert_stress"
	// ArchetypeRiskChoice asks for a single-choice risk reaction.
	ArchetypeRiskChoice QuestionArchetype = "single_choice_risk"
	// ArchetypeOpenDecision asks an open or multi-choice decision question.
	ArchetypeOpenDecision QuestionArchetype = "open_decision"
)

// SentimentScore holds the three raw classifier scores. The values are
// non-negative but not guaranteed to sum to 1; callers must not assume a
// probability simplex.
type SentimentScore struct {
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Positive float64 `json:"positive"`
}

// AnswerRecord is one answered question. Question is a snapshot of the text
// the answer responded to, not a reference into session storage, so later
// edits to question slots cannot corrupt history. Immutable once appended.
type AnswerRecord struct {
	Question  string             `json:"question"`
	Answer    string             `json:"answer"`
	Sentiment SentimentScore     `json:"sentiment"`
	Secondary map[string]float64 `json:"secondary,omitempty"`
}

// Session is one respondent's questionnaire instance.
//
// Questions may contain empty placeholder slots while generation is in
// flight; an answer is only accepted once the slot at CurrentIndex is
// non-empty. Mutated exclusively through the SessionStore.
type Session struct {
	ID           SessionID
	CurrentIndex int
	Questions    []string
	Answers      []AnswerRecord
}

// TraitProfile is the five-dimensional behavioral score vector, each trait
// in [0,100]. Computed once from the full answer sequence; recomputation is
// pure and deterministic given the same input.
type TraitProfile struct {
	Risk        int `json:"risk"`
	Stability   int `json:"stability"`
	Confidence  int `json:"confidence"`
	Patience    int `json:"patience"`
	Sensitivity int `json:"sensitivity"`
}

// InvestorCategory is the final classification label.
type InvestorCategory string

const (
	CategoryVolatilityDriven InvestorCategory = "volatility-driven"
	CategoryRiskSeeking      InvestorCategory = "risk-seeking"
	CategoryRational         InvestorCategory = "rational"
	CategoryConservative     InvestorCategory = "conservative"
	CategoryBalanced         InvestorCategory = "balanced"
)
