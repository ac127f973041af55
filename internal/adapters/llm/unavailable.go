package llm

import (
	"context"
	"fmt"

	"github.com/kwhsu/riskprofiler/internal/domain"
)

// UnavailableGenerator represents a generator with no credential. The
// engine checks Available before calling and substitutes canonical fallback
// content instead of invoking GenerateText.
type UnavailableGenerator struct{}

func NewUnavailableGenerator() *UnavailableGenerator {
	return &UnavailableGenerator{}
}

func (u *UnavailableGenerator) Available() bool { return false }

func (u *UnavailableGenerator) GenerateText(context.Context, domain.PromptSpec) (string, error) {
	return "", fmt.Errorf("text generator is not configured")
}
