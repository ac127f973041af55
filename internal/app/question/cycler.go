// Package question maps question ordinals to archetypes and guarantees that
// generated question text is well-formed, repairing it deterministically when
// the external generator misbehaves or is unreachable.
package question

import (
	"fmt"
	"strings"

	"github.com/kwhsu/riskprofiler/internal/domain"
)

// optionSeparator is the literal token that marks choice options in a
// question ("恐慌 / 冷靜").
const optionSeparator = " / "

// Spec bundles everything the engine needs for one archetype: the
// instruction for the external generator, a validity predicate over the
// generated text, an additive repair suffix, and a full canonical fallback
// question used when no usable text exists at all.
type Spec struct {
	Archetype domain.QuestionArchetype

	// Instruction is the generator prompt for this archetype.
	Instruction string

	// Valid reports whether generated text satisfies the archetype's
	// structural requirements.
	Valid func(text string) bool

	// RepairSuffix is appended to invalid non-empty text. Repair is always
	// additive; the generator is never re-invoked.
	RepairSuffix string

	// Fallback is the complete canonical question substituted when the
	// generator is unavailable, errors, or returns empty text.
	Fallback string
}

var specs = [4]Spec{
	{
		Archetype:    domain.ArchetypeEmotionChoice,
		Instruction:  "請生成一個關於投資情緒反應的單選題（15-25字），讓回答者從幾個情緒選項中擇一，選項以「 / 」分隔。只回傳問題本身。",
		Valid:        hasOptionSeparator,
		RepairSuffix: "（恐慌 / 擔心 / 冷靜 / 興奮）",
		Fallback:     "市場大跌時，您當下的情緒反應最接近哪一種？（恐慌 / 擔心 / 冷靜 / 興奮）",
	},
	{
		Archetype:    domain.ArchetypeLikertStress,
		Instruction:  "請生成一個關於投資壓力的評分題（15-25字），請回答者以 1 到 5 評分，1 代表毫無壓力，5 代表壓力極大。只回傳問題本身。",
		Valid:        hasLikertAnchors,
		RepairSuffix: "（請以 1 到 5 評分，1 代表毫無壓力，5 代表壓力極大）",
		Fallback:     "請以 1 到 5 評分您近期投資帶來的壓力，1 代表毫無壓力，5 代表壓力極大。",
	},
	{
		Archetype:    domain.ArchetypeRiskChoice,
		Instruction:  "請生成一個關於面對投資虧損如何處理的單選題（15-25字），選項以「 / 」分隔。只回傳問題本身。",
		Valid:        hasOptionSeparator,
		RepairSuffix: "（立即賣出 / 部分減碼 / 續抱觀望 / 逢低加碼）",
		Fallback:     "若持股短期內大幅下跌，您會如何處理？（立即賣出 / 部分減碼 / 續抱觀望 / 逢低加碼）",
	},
	{
		Archetype:    domain.ArchetypeOpenDecision,
		Instruction:  "請生成一個關於投資決策方式的開放式問題（15-25字），可附上以「 / 」分隔的參考選項，並鼓勵回答者說明理由。只回傳問題本身。",
		Valid:        hasOptionSeparatorOrNewline,
		RepairSuffix: "（加碼 / 賣出 / 觀望 / 其他，請說明理由）",
		Fallback:     "面對突如其來的市場消息，您通常如何做出投資決定？（依直覺 / 查證後行動 / 詢問他人 / 先觀望，請說明理由）",
	},
}

// ForOrdinal returns the archetype spec for the 1-based question ordinal.
// The rotation is (ordinal-1) mod 4 and depends on nothing else.
func ForOrdinal(ordinal int) Spec {
	if ordinal < 1 {
		ordinal = 1
	}
	return specs[(ordinal-1)%4]
}

// Repair returns well-formed question text for this archetype. Empty or
// blank input is replaced by the canonical fallback; invalid non-empty input
// gets the repair suffix appended; valid input passes through unmodified.
func (s Spec) Repair(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return s.Fallback
	}
	if s.Valid(text) {
		return text
	}
	return text + " " + s.RepairSuffix
}

// FallbackAdvice is the fixed advice text used when the generator cannot
// produce one.
const FallbackAdvice = "根據您的回答，建議您：1) 維持分散的投資組合 2) 設定明確的停損與停利點 3) 降低槓桿並保留緊急預備金 4) 必要時尋求專業理財諮詢。"

// AdvicePromptHeader opens the final advice prompt; the engine appends the
// per-answer summary and aggregate scores.
const AdvicePromptHeader = "請根據以下使用者在投資理財問卷中的情緒分析結果與行為特質評分，提供個人化的理財建議與心理調適建議。請用繁體中文回答，內容要實用且易於執行，不要使用任何 Markdown 格式標記。"

func hasOptionSeparator(text string) bool {
	return strings.Contains(text, optionSeparator)
}

func hasLikertAnchors(text string) bool {
	return strings.Contains(text, "1") && strings.Contains(text, "5")
}

func hasOptionSeparatorOrNewline(text string) bool {
	return strings.Contains(text, optionSeparator) || strings.Contains(text, "\n")
}

// BuildPrompt assembles the generator instruction for one question,
// including truncated echoes of previous answers so later questions can
// build on earlier ones.
func BuildPrompt(ordinal, total int, previous []domain.AnswerRecord) string {
	spec := ForOrdinal(ordinal)

	var b strings.Builder
	fmt.Fprintf(&b, "你是一位專業的理財顧問，這是%d題投資心理問卷中的第%d題。\n", total, ordinal)

	if len(previous) > 0 {
		b.WriteString("使用者之前的回答：\n")
		for i, rec := range previous {
			fmt.Fprintf(&b, "問題%d回答：%s\n", i+1, truncateRunes(rec.Answer, 50))
		}
		last := previous[len(previous)-1].Sentiment
		fmt.Fprintf(&b, "前一個回答的情緒分析：負面 %.2f、中性 %.2f、正面 %.2f\n", last.Negative, last.Neutral, last.Positive)
	}

	b.WriteString(spec.Instruction)
	b.WriteString("\n請避免與之前的問題重複，不要包含任何格式標記或說明。")
	return b.String()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
