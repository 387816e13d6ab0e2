package insights

import (
	"github.com/dvloznov/risk-radar/internal/domain"
)

// FallbackInsights synthesizes the deterministic insight object substituted
// when the oracle is unreachable or returns an invalid structure. The risk
// dashboard must always render something, so degraded operation is reported
// through fixed, human-readable strings rather than an error.
func FallbackInsights() domain.AIInsights {
	return domain.AIInsights{
		Summary:       "Analysis cycle interrupted.",
		Risks:         []string{"System connectivity disruption."},
		HealthInsight: "Recalibrating diagnostic sensors.",
		RiskLevel:     domain.RiskMedium,
		RiskScore:     FallbackRiskScore,
		RiskFactors: []domain.RiskFactor{
			{
				Name:        "Connectivity Issue",
				Impact:      domain.ImpactNegative,
				Weight:      3,
				Description: "AI engine failed to connect to live data streams.",
			},
		},
		Reasoning:           "Analysis cycle interrupted by network timeout.",
		CategorizedExpenses: []domain.CategorizedExpense{},
		RiskClassifiedSpend: []domain.RiskClassifiedSpend{},
	}
}
