package survey

import (
	"context"
	"fmt"
	"strings"

	"github.com/kwhsu/riskprofiler/internal/app/profile"
	"github.com/kwhsu/riskprofiler/internal/app/question"
	"github.com/kwhsu/riskprofiler/internal/domain"
	"github.com/kwhsu/riskprofiler/internal/observability"
)

// generateAdvice requests the final advice text from the generator, feeding
// it the per-answer analysis, the aggregate sentiment averages and the
// computed trait profile. Unavailability or failure yields the fixed
// fallback advice.
func (e *Engine) generateAdvice(ctx context.Context, answers []domain.AnswerRecord, prof domain.TraitProfile, category domain.InvestorCategory) string {
	if e.gen == nil || !e.gen.Available() {
		return question.FallbackAdvice
	}

	text, err := e.gen.GenerateText(ctx, domain.PromptSpec{
		User:            buildAdvicePrompt(answers, prof, category),
		Temperature:     e.cfg.AdviceTemperature,
		MaxOutputTokens: e.cfg.AdviceMaxTokens,
	})
	if err != nil {
		observability.LoggerFromContext(ctx).Warn("advice generation failed, using fallback", "error", err)
		return question.FallbackAdvice
	}

	// The model sometimes emits markdown emphasis despite instructions.
	return strings.TrimSpace(strings.NewReplacer("**", "", "*", "").Replace(text))
}

func buildAdvicePrompt(answers []domain.AnswerRecord, prof domain.TraitProfile, category domain.InvestorCategory) string {
	var b strings.Builder
	b.WriteString(question.AdvicePromptHeader)
	b.WriteString("\n\n詳細問答與分析：\n")

	var avg domain.SentimentScore
	for i, rec := range answers {
		fmt.Fprintf(&b, "問題%d: %s\n回答: %s\n情緒分析 - 負面:%.3f, 中性:%.3f, 正面:%.3f\n",
			i+1, rec.Question, rec.Answer,
			rec.Sentiment.Negative, rec.Sentiment.Neutral, rec.Sentiment.Positive)
		avg.Negative += rec.Sentiment.Negative
		avg.Neutral += rec.Sentiment.Neutral
		avg.Positive += rec.Sentiment.Positive
	}

	if n := float64(len(answers)); n > 0 {
		avg.Negative /= n
		avg.Neutral /= n
		avg.Positive /= n
	}

	fmt.Fprintf(&b, "\n整體平均情緒分數：負面 %.3f、中性 %.3f、正面 %.3f\n",
		avg.Negative, avg.Neutral, avg.Positive)
	fmt.Fprintf(&b, "\n行為特質評分（0-100）：風險承受 %d、穩定度 %d、自信 %d、耐心 %d、敏感度 %d\n",
		prof.Risk, prof.Stability, prof.Confidence, prof.Patience, prof.Sensitivity)
	fmt.Fprintf(&b, "投資人類型：%s\n", profile.Describe(category))

	b.WriteString("\n請提供：\n1. 投資心理狀態整體分析\n2. 個人化理財建議（風險管理、資產配置）\n3. 壓力管理與情緒調適建議\n4. 具體可執行的行動方案\n")
	return b.String()
}
