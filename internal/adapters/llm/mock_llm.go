package llm

import (
	"context"
	"strings"

	"github.com/kwhsu/riskprofiler/internal/domain"
)

// MockGenerator is a deterministic stand-in for local development and
// tests. It answers question prompts with a fixed bank keyed by archetype
// hints in the instruction, and everything else with a canned advice text.
type MockGenerator struct{}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

func (m *MockGenerator) Available() bool { return true }

func (m *MockGenerator) GenerateText(_ context.Context, spec domain.PromptSpec) (string, error) {
	switch {
	case strings.Contains(spec.User, "投資人類型"):
		return "整體而言您的投資情緒尚屬穩定。建議維持分散配置、明確的停損紀律，並定期檢視投資計畫。", nil
	case strings.Contains(spec.User, "情緒反應"):
		return "市場劇烈震盪時，您的第一反應是？（恐慌 / 擔心 / 冷靜 / 興奮）", nil
	case strings.Contains(spec.User, "評分題"):
		return "請以 1 到 5 評分您目前的投資壓力，1 代表毫無壓力，5 代表壓力極大。", nil
	case strings.Contains(spec.User, "虧損"):
		return "若投資部位出現兩成虧損，您會？（立即賣出 / 部分減碼 / 續抱觀望 / 逢低加碼）", nil
	case strings.Contains(spec.User, "決策"):
		return "重大財經消息公布後，您通常怎麼決定下一步？（依直覺 / 查證後行動 / 詢問他人 / 先觀望）", nil
	default:
		return "面對市場波動，您最近一次調整投資的原因是？（報酬 / 風險 / 情緒 / 其他）", nil
	}
}
