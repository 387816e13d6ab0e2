package insights

import (
	"strings"
	"testing"

	"github.com/dvloznov/risk-radar/internal/domain"
)

const validResponse = `{
	"summary": "Healthy cash flow with modest risk.",
	"risks": ["Rising subscription costs"],
	"healthInsight": "Maintain the current savings rate.",
	"riskLevel": "Low",
	"riskScore": 82,
	"riskFactors": [
		{"name": "Stable Income Stream", "impact": "positive", "weight": 4, "description": "Consistent monthly retainer."},
		{"name": "Subscription Proliferation", "impact": "negative", "weight": 2, "description": "Several recurring charges."}
	],
	"reasoning": "Income exceeds spending in every observed month.",
	"categorizedExpenses": [
		{"category": "Rent", "amount": 2100},
		{"category": "Cloud Services", "amount": 145.2}
	],
	"riskClassifiedSpends": [
		{"item": "Emergency Laptop Repair", "amount": 1200, "level": "Medium", "reason": "Unplanned one-off expense."}
	]
}`

func TestDecodeInsights_Valid(t *testing.T) {
	got, err := decodeInsights(validResponse)
	if err != nil {
		t.Fatalf("decodeInsights failed: %v", err)
	}

	if got.RiskScore != 82 {
		t.Errorf("riskScore = %d, want 82", got.RiskScore)
	}
	if got.RiskLevel != domain.RiskLow {
		t.Errorf("riskLevel = %q, want Low", got.RiskLevel)
	}
	if len(got.RiskFactors) != 2 {
		t.Fatalf("expected 2 risk factors, got %d", len(got.RiskFactors))
	}
	if got.RiskFactors[0].Impact != domain.ImpactPositive || got.RiskFactors[0].Weight != 4 {
		t.Errorf("unexpected first risk factor: %+v", got.RiskFactors[0])
	}
	if len(got.CategorizedExpenses) != 2 || got.CategorizedExpenses[1].Amount != 145.2 {
		t.Errorf("unexpected categorized expenses: %+v", got.CategorizedExpenses)
	}
	if len(got.RiskClassifiedSpend) != 1 || got.RiskClassifiedSpend[0].Level != domain.RiskMedium {
		t.Errorf("unexpected classified spends: %+v", got.RiskClassifiedSpend)
	}
}

func TestDecodeInsights_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{
			name:    "not json",
			mutate:  func(string) string { return "the model rambled instead" },
			wantErr: "unmarshal JSON",
		},
		{
			name:    "missing summary",
			mutate:  func(s string) string { return strings.Replace(s, `"summary"`, `"sumary"`, 1) },
			wantErr: `missing required field "summary"`,
		},
		{
			name:    "missing riskScore",
			mutate:  func(s string) string { return strings.Replace(s, `"riskScore"`, `"score"`, 1) },
			wantErr: `missing required field "riskScore"`,
		},
		{
			name:    "riskScore out of range",
			mutate:  func(s string) string { return strings.Replace(s, `"riskScore": 82`, `"riskScore": 140`, 1) },
			wantErr: `field "riskScore" out of range`,
		},
		{
			name:    "unknown risk level",
			mutate:  func(s string) string { return strings.Replace(s, `"riskLevel": "Low"`, `"riskLevel": "Severe"`, 1) },
			wantErr: "unknown risk level",
		},
		{
			name:    "unknown impact",
			mutate:  func(s string) string { return strings.Replace(s, `"impact": "positive"`, `"impact": "neutral"`, 1) },
			wantErr: "unknown impact",
		},
		{
			name:    "weight out of range",
			mutate:  func(s string) string { return strings.Replace(s, `"weight": 4`, `"weight": 9`, 1) },
			wantErr: `field "weight" out of range`,
		},
		{
			name:    "risk factor missing description",
			mutate:  func(s string) string { return strings.Replace(s, `"description": "Consistent monthly retainer."`, `"note": "x"`, 1) },
			wantErr: `missing required field "description"`,
		},
		{
			name:    "categorized expense wrong type",
			mutate:  func(s string) string { return strings.Replace(s, `"amount": 2100`, `"amount": "2100"`, 1) },
			wantErr: `field "amount" has type string`,
		},
		{
			name:    "risks not strings",
			mutate:  func(s string) string { return strings.Replace(s, `["Rising subscription costs"]`, `[42]`, 1) },
			wantErr: `field "risks" element 0`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeInsights(tt.mutate(validResponse))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDecodeInsights_RoundsFractionalScore(t *testing.T) {
	resp := strings.Replace(validResponse, `"riskScore": 82`, `"riskScore": 81.6`, 1)
	got, err := decodeInsights(resp)
	if err != nil {
		t.Fatalf("decodeInsights failed: %v", err)
	}
	if got.RiskScore != 82 {
		t.Errorf("riskScore = %d, want rounded 82", got.RiskScore)
	}
}

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"json fences", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fences", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"leading prose", "Here you go:\n{\"a\":1}", `{"a":1}`},
		{"surrounding whitespace", "  \n{\"a\":1}\n  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanModelJSON(tt.input); got != tt.want {
				t.Errorf("cleanModelJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
