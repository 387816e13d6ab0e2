package insights

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/dvloznov/risk-radar/internal/domain"
)

// decodeInsights parses raw oracle output into a validated AIInsights.
// Validation is strict: every required field must be present with the right
// type, enum fields must carry a known value, and numeric fields must be in
// range. Any violation is an error, which the orchestrator treats as an
// oracle failure.
func decodeInsights(raw string) (domain.AIInsights, error) {
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return domain.AIInsights{}, fmt.Errorf("decodeInsights: unmarshal JSON: %w", err)
	}
	return transformInsights(parsed)
}

func transformInsights(obj map[string]interface{}) (domain.AIInsights, error) {
	var out domain.AIInsights
	var err error

	if out.Summary, err = getStringField(obj, "summary", true); err != nil {
		return domain.AIInsights{}, err
	}
	if out.Risks, err = getStringSliceField(obj, "risks"); err != nil {
		return domain.AIInsights{}, err
	}
	if out.HealthInsight, err = getStringField(obj, "healthInsight", true); err != nil {
		return domain.AIInsights{}, err
	}
	if out.Reasoning, err = getStringField(obj, "reasoning", true); err != nil {
		return domain.AIInsights{}, err
	}

	level, err := getStringField(obj, "riskLevel", true)
	if err != nil {
		return domain.AIInsights{}, err
	}
	if out.RiskLevel, err = parseRiskLevel(level); err != nil {
		return domain.AIInsights{}, fmt.Errorf("field %q: %w", "riskLevel", err)
	}

	score, err := getFloat64Field(obj, "riskScore", true)
	if err != nil {
		return domain.AIInsights{}, err
	}
	if score < 0 || score > 100 {
		return domain.AIInsights{}, fmt.Errorf("field %q out of range: %v", "riskScore", score)
	}
	out.RiskScore = int(math.Round(score))

	factors, err := getObjectSliceField(obj, "riskFactors")
	if err != nil {
		return domain.AIInsights{}, err
	}
	out.RiskFactors = make([]domain.RiskFactor, 0, len(factors))
	for i, f := range factors {
		factor, err := transformRiskFactor(f)
		if err != nil {
			return domain.AIInsights{}, fmt.Errorf("riskFactors[%d]: %w", i, err)
		}
		out.RiskFactors = append(out.RiskFactors, factor)
	}

	expenses, err := getObjectSliceField(obj, "categorizedExpenses")
	if err != nil {
		return domain.AIInsights{}, err
	}
	out.CategorizedExpenses = make([]domain.CategorizedExpense, 0, len(expenses))
	for i, e := range expenses {
		expense, err := transformCategorizedExpense(e)
		if err != nil {
			return domain.AIInsights{}, fmt.Errorf("categorizedExpenses[%d]: %w", i, err)
		}
		out.CategorizedExpenses = append(out.CategorizedExpenses, expense)
	}

	spends, err := getObjectSliceField(obj, "riskClassifiedSpends")
	if err != nil {
		return domain.AIInsights{}, err
	}
	out.RiskClassifiedSpend = make([]domain.RiskClassifiedSpend, 0, len(spends))
	for i, s := range spends {
		spend, err := transformClassifiedSpend(s)
		if err != nil {
			return domain.AIInsights{}, fmt.Errorf("riskClassifiedSpends[%d]: %w", i, err)
		}
		out.RiskClassifiedSpend = append(out.RiskClassifiedSpend, spend)
	}

	return out, nil
}

func transformRiskFactor(obj map[string]interface{}) (domain.RiskFactor, error) {
	name, err := getStringField(obj, "name", true)
	if err != nil {
		return domain.RiskFactor{}, err
	}
	impactStr, err := getStringField(obj, "impact", true)
	if err != nil {
		return domain.RiskFactor{}, err
	}
	impact, err := parseImpact(impactStr)
	if err != nil {
		return domain.RiskFactor{}, fmt.Errorf("field %q: %w", "impact", err)
	}
	weight, err := getFloat64Field(obj, "weight", true)
	if err != nil {
		return domain.RiskFactor{}, err
	}
	if weight < 1 || weight > 5 {
		return domain.RiskFactor{}, fmt.Errorf("field %q out of range: %v", "weight", weight)
	}
	desc, err := getStringField(obj, "description", true)
	if err != nil {
		return domain.RiskFactor{}, err
	}

	return domain.RiskFactor{
		Name:        name,
		Impact:      impact,
		Weight:      int(math.Round(weight)),
		Description: desc,
	}, nil
}

func transformCategorizedExpense(obj map[string]interface{}) (domain.CategorizedExpense, error) {
	category, err := getStringField(obj, "category", true)
	if err != nil {
		return domain.CategorizedExpense{}, err
	}
	amount, err := getFloat64Field(obj, "amount", true)
	if err != nil {
		return domain.CategorizedExpense{}, err
	}
	if amount < 0 {
		return domain.CategorizedExpense{}, fmt.Errorf("field %q is negative: %v", "amount", amount)
	}
	return domain.CategorizedExpense{Category: category, Amount: amount}, nil
}

func transformClassifiedSpend(obj map[string]interface{}) (domain.RiskClassifiedSpend, error) {
	item, err := getStringField(obj, "item", true)
	if err != nil {
		return domain.RiskClassifiedSpend{}, err
	}
	amount, err := getFloat64Field(obj, "amount", true)
	if err != nil {
		return domain.RiskClassifiedSpend{}, err
	}
	if amount < 0 {
		return domain.RiskClassifiedSpend{}, fmt.Errorf("field %q is negative: %v", "amount", amount)
	}
	levelStr, err := getStringField(obj, "level", true)
	if err != nil {
		return domain.RiskClassifiedSpend{}, err
	}
	level, err := parseRiskLevel(levelStr)
	if err != nil {
		return domain.RiskClassifiedSpend{}, fmt.Errorf("field %q: %w", "level", err)
	}
	reason, err := getStringField(obj, "reason", true)
	if err != nil {
		return domain.RiskClassifiedSpend{}, err
	}

	return domain.RiskClassifiedSpend{
		Item:   item,
		Amount: amount,
		Level:  level,
		Reason: reason,
	}, nil
}

func parseRiskLevel(s string) (domain.RiskLevel, error) {
	switch domain.RiskLevel(s) {
	case domain.RiskLow, domain.RiskMedium, domain.RiskHigh:
		return domain.RiskLevel(s), nil
	default:
		return "", fmt.Errorf("unknown risk level %q", s)
	}
}

func parseImpact(s string) (domain.Impact, error) {
	switch domain.Impact(s) {
	case domain.ImpactPositive, domain.ImpactNegative:
		return domain.Impact(s), nil
	default:
		return "", fmt.Errorf("unknown impact %q", s)
	}
}

func getStringField(m map[string]interface{}, key string, required bool) (string, error) {
	v, ok := m[key]
	if !ok {
		if required {
			return "", fmt.Errorf("missing required field %q", key)
		}
		return "", nil
	}
	switch val := v.(type) {
	case string:
		if required && strings.TrimSpace(val) == "" {
			return "", fmt.Errorf("required field %q is empty", key)
		}
		return val, nil
	default:
		return "", fmt.Errorf("field %q has type %T, want string", key, v)
	}
}

func getFloat64Field(m map[string]interface{}, key string, required bool) (float64, error) {
	v, ok := m[key]
	if !ok {
		if required {
			return 0, fmt.Errorf("missing required field %q", key)
		}
		return 0, nil
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case int: // unlikely from encoding/json, but harmless to support
		return float64(val), nil
	default:
		return 0, fmt.Errorf("field %q has type %T, want number", key, v)
	}
}

func getStringSliceField(m map[string]interface{}, key string) ([]string, error) {
	v, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("missing required field %q", key)
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("field %q has type %T, want array", key, v)
	}
	out := make([]string, 0, len(raw))
	for i, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("field %q element %d has type %T, want string", key, i, item)
		}
		out = append(out, s)
	}
	return out, nil
}

func getObjectSliceField(m map[string]interface{}, key string) ([]map[string]interface{}, error) {
	v, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("missing required field %q", key)
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("field %q has type %T, want array", key, v)
	}
	out := make([]map[string]interface{}, 0, len(raw))
	for i, item := range raw {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("field %q element %d has type %T, want object", key, i, item)
		}
		out = append(out, obj)
	}
	return out, nil
}
