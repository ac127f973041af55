package question

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kwhsu/riskprofiler/internal/domain"
)

func TestForOrdinal_Rotation(t *testing.T) {
	want := []domain.QuestionArchetype{
		domain.ArchetypeEmotionChoice,
		domain.ArchetypeLikertStress,
		domain.ArchetypeRiskChoice,
		domain.ArchetypeOpenDecision,
	}

	for ordinal := 1; ordinal <= 12; ordinal++ {
		got := ForOrdinal(ordinal).Archetype
		assert.Equal(t, want[(ordinal-1)%4], got, "ordinal %d", ordinal)
	}
}

func TestRepair_LikertAddsAnchors(t *testing.T) {
	spec := ForOrdinal(2)
	assert.Equal(t, domain.ArchetypeLikertStress, spec.Archetype)

	repaired := spec.Repair("你今天好嗎")
	assert.Contains(t, repaired, "1")
	assert.Contains(t, repaired, "5")
	assert.True(t, strings.HasPrefix(repaired, "你今天好嗎"), "repair must be additive")
}

func TestRepair_ValidTextPassesThrough(t *testing.T) {
	spec := ForOrdinal(1)
	text := "市場大跌時您的感受？（恐慌 / 冷靜）"
	assert.Equal(t, text, spec.Repair(text))
}

func TestRepair_EmptyTextUsesFallback(t *testing.T) {
	for ordinal := 1; ordinal <= 4; ordinal++ {
		spec := ForOrdinal(ordinal)
		assert.Equal(t, spec.Fallback, spec.Repair(""), "ordinal %d", ordinal)
		assert.Equal(t, spec.Fallback, spec.Repair("   "), "ordinal %d blank", ordinal)
	}
}

func TestRepair_ChoiceAddsOptions(t *testing.T) {
	spec := ForOrdinal(3)
	repaired := spec.Repair("虧損時您會怎麼做")
	assert.Contains(t, repaired, " / ")
}

func TestRepair_OpenAcceptsNewline(t *testing.T) {
	spec := ForOrdinal(4)
	text := "您如何做決定？\n請說明。"
	assert.Equal(t, text, spec.Repair(text))

	repaired := spec.Repair("您如何做決定？")
	assert.Contains(t, repaired, " / ")
}

func TestFallbacks_SatisfyOwnPredicates(t *testing.T) {
	for ordinal := 1; ordinal <= 4; ordinal++ {
		spec := ForOrdinal(ordinal)
		assert.True(t, spec.Valid(spec.Fallback), "fallback for %s must be well-formed", spec.Archetype)
	}
}

func TestRepairedText_SatisfiesPredicate(t *testing.T) {
	for ordinal := 1; ordinal <= 4; ordinal++ {
		spec := ForOrdinal(ordinal)
		assert.True(t, spec.Valid(spec.Repair("完全不合格式的文字")), "ordinal %d", ordinal)
	}
}

func TestBuildPrompt_IncludesPreviousAnswers(t *testing.T) {
	prev := []domain.AnswerRecord{
		{Answer: "我會觀望", Sentiment: domain.SentimentScore{Positive: 0.5}},
	}
	prompt := BuildPrompt(2, 4, prev)
	assert.Contains(t, prompt, "第2題")
	assert.Contains(t, prompt, "我會觀望")
	assert.Contains(t, prompt, ForOrdinal(2).Instruction)

	first := BuildPrompt(1, 4, nil)
	assert.NotContains(t, first, "之前的回答")
}

func TestBuildPrompt_TruncatesLongAnswers(t *testing.T) {
	long := strings.Repeat("字", 60)
	prompt := BuildPrompt(3, 4, []domain.AnswerRecord{{Answer: long}})
	assert.Contains(t, prompt, strings.Repeat("字", 50)+"...")
	assert.NotContains(t, prompt, strings.Repeat("字", 51))
}
