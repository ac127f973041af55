package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kwhsu/riskprofiler/internal/domain"
)

func TestClassify_OrderedRules(t *testing.T) {
	base := domain.TraitProfile{Confidence: 50, Patience: 50, Sensitivity: 50}

	tests := []struct {
		name      string
		risk      int
		stability int
		want      domain.InvestorCategory
	}{
		{"high risk low stability", 70, 20, domain.CategoryVolatilityDriven},
		{"high risk boundary stability", 70, 40, domain.CategoryRiskSeeking},
		{"high risk high stability", 61, 80, domain.CategoryRiskSeeking},
		{"low risk high stability", 40, 60, domain.CategoryRational},
		{"low risk low stability", 30, 59, domain.CategoryConservative},
		{"midband", 50, 50, domain.CategoryBalanced},
		{"risk boundary stays out of high band", 60, 20, domain.CategoryBalanced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			p.Risk = tt.risk
			p.Stability = tt.stability
			assert.Equal(t, tt.want, Classify(p))
		})
	}
}

func TestDescribe_CoversAllCategories(t *testing.T) {
	for _, c := range []domain.InvestorCategory{
		domain.CategoryVolatilityDriven,
		domain.CategoryRiskSeeking,
		domain.CategoryRational,
		domain.CategoryConservative,
		domain.CategoryBalanced,
	} {
		assert.NotEmpty(t, Describe(c))
	}
}
