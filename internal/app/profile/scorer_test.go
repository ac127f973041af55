package profile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kwhsu/riskprofiler/internal/domain"
)

func answers(texts ...string) []domain.AnswerRecord {
	out := make([]domain.AnswerRecord, len(texts))
	for i, t := range texts {
		out[i] = domain.AnswerRecord{Question: "q", Answer: t}
	}
	return out
}

func TestCompute_EmptySequence(t *testing.T) {
	p := Compute(nil)
	assert.Equal(t, domain.TraitProfile{Risk: 50, Stability: 50, Confidence: 50, Patience: 50, Sensitivity: 50}, p)
}

func TestCompute_LikertExtraction(t *testing.T) {
	t.Run("likert 5 with trailing text", func(t *testing.T) {
		p := Compute(answers("5 — 加碼"))
		assert.Equal(t, 66, p.Risk)
		assert.Equal(t, 38, p.Stability)
		assert.Equal(t, 62, p.Confidence)
		assert.Equal(t, 58, p.Patience)
		assert.Equal(t, 38, p.Sensitivity)
	})

	t.Run("likert 1", func(t *testing.T) {
		p := Compute(answers("1"))
		assert.Equal(t, 34, p.Risk)
		assert.Equal(t, 62, p.Stability)
		assert.Equal(t, 38, p.Confidence)
		assert.Equal(t, 42, p.Patience)
		assert.Equal(t, 62, p.Sensitivity)
	})

	t.Run("likert 3 is neutral", func(t *testing.T) {
		p := Compute(answers("3"))
		assert.Equal(t, domain.TraitProfile{Risk: 50, Stability: 50, Confidence: 50, Patience: 50, Sensitivity: 50}, p)
	})

	t.Run("leading digit outside 1-5 falls through to keywords", func(t *testing.T) {
		p := Compute(answers("7 成持股會先賣出"))
		// risk-averse group applies, not a Likert rating.
		assert.Equal(t, 38, p.Risk)
		assert.Equal(t, 42, p.Stability)
	})
}

func TestCompute_KeywordGroups(t *testing.T) {
	t.Run("risk seeking", func(t *testing.T) {
		p := Compute(answers("我會逢低加碼"))
		assert.Equal(t, 62, p.Risk)
		assert.Equal(t, 58, p.Confidence)
		assert.Equal(t, 56, p.Sensitivity)
		assert.Equal(t, 50, p.Stability)
	})

	t.Run("risk averse", func(t *testing.T) {
		p := Compute(answers("太可怕了，我會馬上賣出"))
		assert.Equal(t, 38, p.Risk)
		assert.Equal(t, 42, p.Stability)
		assert.Equal(t, 60, p.Sensitivity)
	})

	t.Run("cautious", func(t *testing.T) {
		p := Compute(answers("先觀望再說"))
		assert.Equal(t, 60, p.Stability)
		assert.Equal(t, 58, p.Patience)
		assert.Equal(t, 46, p.Risk)
	})

	t.Run("first matching group wins", func(t *testing.T) {
		// Contains both a risk-seeking and a risk-averse term; only the
		// risk-seeking group may contribute.
		p := Compute(answers("我會加碼，但朋友都恐慌"))
		assert.Equal(t, 62, p.Risk)
		assert.Equal(t, 50, p.Stability)
		assert.Equal(t, 56, p.Sensitivity)
	})

	t.Run("case insensitive english terms", func(t *testing.T) {
		p := Compute(answers("I would PANIC and get out"))
		assert.Equal(t, 38, p.Risk)
	})
}

func TestCompute_ElaborationSignal(t *testing.T) {
	long := strings.Repeat("想", 81)
	p := Compute(answers(long))
	assert.Equal(t, 56, p.Confidence)
	assert.Equal(t, 54, p.Patience)
	assert.Equal(t, 50, p.Risk)

	short := strings.Repeat("想", 80)
	p = Compute(answers(short))
	assert.Equal(t, domain.TraitProfile{Risk: 50, Stability: 50, Confidence: 50, Patience: 50, Sensitivity: 50}, p)
}

func TestCompute_ClampsToBounds(t *testing.T) {
	var many []string
	for i := 0; i < 10; i++ {
		many = append(many, "加碼")
	}
	p := Compute(answers(many...))
	assert.Equal(t, 100, p.Risk)
	assert.Equal(t, 100, p.Confidence)

	many = many[:0]
	for i := 0; i < 10; i++ {
		many = append(many, "恐慌賣出")
	}
	p = Compute(answers(many...))
	assert.Equal(t, 0, p.Risk)
	assert.LessOrEqual(t, p.Sensitivity, 100)
}

func TestCompute_OrderIndependentAcrossAnswers(t *testing.T) {
	a := Compute(answers("加碼", "觀望", "2"))
	b := Compute(answers("2", "加碼", "觀望"))
	assert.Equal(t, a, b)
}
