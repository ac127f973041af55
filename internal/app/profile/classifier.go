package profile

import "github.com/kwhsu/riskprofiler/internal/domain"

// Classify maps a finished trait profile to an investor category via an
// ordered decision list: the first matching rule wins.
func Classify(p domain.TraitProfile) domain.InvestorCategory {
	switch {
	case p.Risk > 60 && p.Stability < 40:
		return domain.CategoryVolatilityDriven
	case p.Risk > 60:
		return domain.CategoryRiskSeeking
	case p.Risk <= 40 && p.Stability >= 60:
		return domain.CategoryRational
	case p.Risk <= 40:
		return domain.CategoryConservative
	default:
		return domain.CategoryBalanced
	}
}

// Describe returns the Traditional-Chinese display name used in advice
// prompts.
func Describe(c domain.InvestorCategory) string {
	switch c {
	case domain.CategoryVolatilityDriven:
		return "情緒驅動型（易受市場波動影響）"
	case domain.CategoryRiskSeeking:
		return "積極冒險型"
	case domain.CategoryRational:
		return "理性沉穩型"
	case domain.CategoryConservative:
		return "保守謹慎型"
	default:
		return "均衡穩健型"
	}
}
