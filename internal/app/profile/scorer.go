// Package profile folds per-answer signals into the five-trait behavioral
// profile and maps finished profiles to an investor category.
package profile

import (
	"strings"
	"unicode/utf8"

	"github.com/kwhsu/riskprofiler/internal/domain"
)

// Keyword groups tested in order; the first matching group wins and no
// answer contributes through more than one group.
var (
	riskSeekingTerms = []string{"加碼", "買進", "買入", "進場", "逢低", "全押", "冒險", "buy more", "all in"}
	riskAverseTerms  = []string{"賣出", "賣掉", "停損", "出場", "離場", "恐慌", "減碼", "脫手", "panic", "sell"}
	cautiousTerms    = []string{"觀望", "冷靜", "等待", "持有", "續抱", "不動", "保守", "hold", "wait"}
)

// elaborationThreshold is the answer length (in characters) above which an
// answer with no keyword match still counts as weak positive engagement.
const elaborationThreshold = 80

// Compute derives the trait profile from the full answer sequence. Each
// trait starts at the 50 midpoint, every answer contributes independently,
// and the result is clamped to [0,100] per trait.
func Compute(answers []domain.AnswerRecord) domain.TraitProfile {
	risk, stability, confidence, patience, sensitivity := 50, 50, 50, 50, 50

	for _, rec := range answers {
		if v, ok := likertValue(rec.Answer); ok {
			risk += (v - 3) * 8
			stability += (3 - v) * 6
			confidence += (v - 3) * 6
			patience += (v - 3) * 4
			sensitivity += (3 - v) * 6
			continue
		}

		lower := strings.ToLower(rec.Answer)
		switch {
		case containsAny(lower, riskSeekingTerms):
			risk += 12
			confidence += 8
			sensitivity += 6
		case containsAny(lower, riskAverseTerms):
			risk -= 12
			stability -= 8
			sensitivity += 10
		case containsAny(lower, cautiousTerms):
			stability += 10
			patience += 8
			risk -= 4
		case utf8.RuneCountInString(rec.Answer) > elaborationThreshold:
			confidence += 6
			patience += 4
		}
	}

	return domain.TraitProfile{
		Risk:        clamp(risk),
		Stability:   clamp(stability),
		Confidence:  clamp(confidence),
		Patience:    clamp(patience),
		Sensitivity: clamp(sensitivity),
	}
}

// likertValue extracts a Likert rating when the answer's first character is
// a digit in [1,5].
func likertValue(answer string) (int, bool) {
	trimmed := strings.TrimSpace(answer)
	if trimmed == "" {
		return 0, false
	}
	first := []rune(trimmed)[0]
	if first >= '1' && first <= '5' {
		return int(first - '0'), true
	}
	return 0, false
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
