// Package analysis normalizes the loosely shaped output of external
// classifiers into the fixed score schema the rest of the system consumes.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kwhsu/riskprofiler/internal/domain"
	"github.com/kwhsu/riskprofiler/internal/observability"
)

// labelScore is the one shape we do expect per element: a label/score pair.
type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// SanitizeSentiment extracts negative/neutral/positive scores from raw
// classifier output. The payload may be a flat list of label/score pairs or
// the same list wrapped in one extra layer of nesting; anything else
// degrades to the zero score without error. Labels are matched by lowercase
// substring ("neg", "pos", "neu", in that order) and the last match per
// bucket wins, mirroring provider output order rather than re-ranking.
func SanitizeSentiment(raw json.RawMessage) domain.SentimentScore {
	var score domain.SentimentScore

	for _, item := range unwrapItems(raw) {
		var ls labelScore
		if err := json.Unmarshal(item, &ls); err != nil {
			continue
		}
		label := strings.ToLower(ls.Label)
		switch {
		case strings.Contains(label, "neg"):
			score.Negative = ls.Score
		case strings.Contains(label, "pos"):
			score.Positive = ls.Score
		case strings.Contains(label, "neu"):
			score.Neutral = ls.Score
		}
	}

	return score
}

// SanitizeSecondary extracts the optional stress/not_stress signal from raw
// classifier output, with the same shape tolerance as SanitizeSentiment.
// A "not" in the label marks the not-stressed bucket.
func SanitizeSecondary(raw json.RawMessage) map[string]float64 {
	result := map[string]float64{"stress": 0, "not_stress": 0}

	for _, item := range unwrapItems(raw) {
		var ls labelScore
		if err := json.Unmarshal(item, &ls); err != nil {
			continue
		}
		label := strings.ToLower(ls.Label)
		switch {
		case strings.Contains(label, "stress") && !strings.Contains(label, "not"):
			result["stress"] = ls.Score
		case strings.Contains(label, "not"):
			result["not_stress"] = ls.Score
		}
	}

	return result
}

// unwrapItems decodes raw as a JSON array and unwraps exactly one level of
// nesting when the first element is itself an array. Malformed input yields
// nil.
func unwrapItems(raw json.RawMessage) []json.RawMessage {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
		return nil
	}

	if isJSONArray(items[0]) {
		var inner []json.RawMessage
		if err := json.Unmarshal(items[0], &inner); err != nil {
			return nil
		}
		return inner
	}

	return items
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := strings.TrimLeft(string(raw), " \t\r\n")
	return strings.HasPrefix(trimmed, "[")
}

// Analyzer runs answers through the external classifiers and sanitizes the
// results. A nil or unavailable classifier degrades to zero scores so the
// conversation can always proceed.
type Analyzer struct {
	sentiment domain.SentimentClassifier
	secondary domain.SentimentClassifier

	// contextEnabled controls whether the pending question is prepended to
	// the classified text.
	contextEnabled bool
}

func NewAnalyzer(sentiment, secondary domain.SentimentClassifier, contextEnabled bool) *Analyzer {
	return &Analyzer{
		sentiment:      sentiment,
		secondary:      secondary,
		contextEnabled: contextEnabled,
	}
}

// AnalysisText builds the text submitted to the classifiers:
// "Question: {q} Answer: {a}" when context analysis is enabled and a
// non-empty question is available, else just the answer.
func (a *Analyzer) AnalysisText(answer, question string) string {
	answer = strings.TrimSpace(answer)
	question = strings.TrimSpace(question)
	if a.contextEnabled && question != "" {
		return fmt.Sprintf("Question: %s Answer: %s", question, answer)
	}
	return answer
}

// Analyze classifies one answer. Classifier failures and malformed shapes
// are logged and absorbed into defaults; they never surface as errors.
func (a *Analyzer) Analyze(ctx context.Context, answer, question string) (domain.SentimentScore, map[string]float64) {
	text := a.AnalysisText(answer, question)
	log := observability.LoggerFromContext(ctx)

	var sentiment domain.SentimentScore
	if a.sentiment != nil && a.sentiment.Available() {
		raw, err := a.sentiment.Classify(ctx, text)
		if err != nil {
			log.Warn("sentiment classification failed, using zero scores", "error", err)
		} else {
			sentiment = SanitizeSentiment(raw)
		}
	}

	var secondary map[string]float64
	if a.secondary != nil && a.secondary.Available() {
		raw, err := a.secondary.Classify(ctx, text)
		if err != nil {
			log.Warn("secondary classification failed, omitting scores", "error", err)
		} else {
			secondary = SanitizeSecondary(raw)
		}
	}

	return sentiment, secondary
}
