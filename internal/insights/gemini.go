package insights

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/dvloznov/risk-radar/internal/domain"
)

// GeminiClassifier is the concrete Classifier backed by the Gemini API.
// It constrains the model with a response schema mirroring the AIInsights
// shape and validates the returned JSON again locally before handing it
// back, so a misbehaving model surfaces as a plain error.
type GeminiClassifier struct {
	model string
}

// NewGeminiClassifier creates a classifier using the given model name, or
// DefaultModelName when empty. Credentials come from the environment
// (GEMINI_API_KEY), same as the rest of the genai tooling.
func NewGeminiClassifier(model string) *GeminiClassifier {
	if model == "" {
		model = DefaultModelName
	}
	return &GeminiClassifier{model: model}
}

// Classify sends the analytical prompt to Gemini and returns validated
// insights.
func (c *GeminiClassifier) Classify(ctx context.Context, prompt string) (domain.AIInsights, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return domain.AIInsights{}, fmt.Errorf("Classify: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   insightsResponseSchema(),
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return domain.AIInsights{}, fmt.Errorf("Classify: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return domain.AIInsights{}, fmt.Errorf("Classify: empty response from model")
	}

	// Clean up Markdown fences / extra text if the model ignored instructions.
	clean := cleanModelJSON(rawText)

	insights, err := decodeInsights(clean)
	if err != nil {
		return domain.AIInsights{}, fmt.Errorf("Classify: %w\nraw response: %s", err, rawText)
	}
	return insights, nil
}

// insightsResponseSchema is the strict schema the oracle must satisfy.
func insightsResponseSchema() *genai.Schema {
	riskLevelEnum := []string{
		string(domain.RiskLow),
		string(domain.RiskMedium),
		string(domain.RiskHigh),
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary":       {Type: genai.TypeString},
			"risks":         {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"healthInsight": {Type: genai.TypeString},
			"riskLevel":     {Type: genai.TypeString, Enum: riskLevelEnum},
			"riskScore":     {Type: genai.TypeNumber},
			"riskFactors": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name": {Type: genai.TypeString},
						"impact": {
							Type: genai.TypeString,
							Enum: []string{string(domain.ImpactPositive), string(domain.ImpactNegative)},
						},
						"weight":      {Type: genai.TypeNumber},
						"description": {Type: genai.TypeString},
					},
					Required: []string{"name", "impact", "weight", "description"},
				},
			},
			"reasoning": {Type: genai.TypeString},
			"categorizedExpenses": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"category": {Type: genai.TypeString},
						"amount":   {Type: genai.TypeNumber},
					},
					Required: []string{"category", "amount"},
				},
			},
			"riskClassifiedSpends": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"item":   {Type: genai.TypeString},
						"amount": {Type: genai.TypeNumber},
						"level":  {Type: genai.TypeString, Enum: riskLevelEnum},
						"reason": {Type: genai.TypeString},
					},
					Required: []string{"item", "amount", "level", "reason"},
				},
			},
		},
		Required: []string{
			"summary", "risks", "healthInsight", "riskLevel", "riskScore",
			"riskFactors", "reasoning", "categorizedExpenses", "riskClassifiedSpends",
		},
	}
}

func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// Extra safety: if there's still junk around the JSON object,
	// try to keep only from the first '{' to the last '}'.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}

var _ Classifier = (*GeminiClassifier)(nil)
