package insights

import (
	"context"

	"github.com/dvloznov/risk-radar/internal/domain"
)

// Classifier is the external risk-classification oracle, treated as a black
// box. An implementation must either return insights that already satisfy
// the full schema or an error; the orchestrator converts any error into the
// deterministic fallback. The interface exists so tests can exercise both
// paths without a live network dependency.
type Classifier interface {
	Classify(ctx context.Context, prompt string) (domain.AIInsights, error)
}
