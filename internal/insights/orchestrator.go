package insights

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dvloznov/risk-radar/internal/aggregate"
	"github.com/dvloznov/risk-radar/internal/domain"
)

// ErrAnalysisInFlight is returned when Generate is called while a previous
// oracle round-trip is still outstanding. It is the only error Generate can
// return; oracle failures are absorbed into the fallback insight.
var ErrAnalysisInFlight = errors.New("an analysis cycle is already in flight")

// Orchestrator drives one risk-analysis cycle: it builds a bounded request
// from the transaction snapshot, invokes the oracle, and hands back a valid
// AIInsights no matter what the oracle did. It enforces the
// one-cycle-in-flight rule with an explicit idle/requesting gate instead of
// relying on caller discipline.
type Orchestrator struct {
	classifier Classifier
	log        zerolog.Logger

	mu         sync.Mutex
	requesting bool
}

// NewOrchestrator creates an orchestrator around the given oracle.
func NewOrchestrator(classifier Classifier, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		classifier: classifier,
		log:        log,
	}
}

// Generate runs one orchestration cycle over the given transaction snapshot
// and optional budget goal. On oracle failure (transport error, empty or
// malformed response) the failure is logged and the deterministic fallback
// insight is returned with a nil error. The caller receives ownership of
// the returned snapshot; the orchestrator persists nothing.
func (o *Orchestrator) Generate(ctx context.Context, txs []domain.Transaction, goal *domain.BudgetGoal) (domain.AIInsights, error) {
	if err := o.begin(); err != nil {
		return domain.AIInsights{}, err
	}
	defer o.end()

	totalSpent := aggregate.TotalDebit(txs)

	prompt, err := buildPrompt(txs, goal, totalSpent)
	if err != nil {
		// Serialization of plain records cannot realistically fail, but if
		// it does the contract still holds: degrade, don't propagate.
		o.log.Error().Err(err).Msg("Failed to build oracle request")
		return FallbackInsights(), nil
	}

	result, err := o.classifier.Classify(ctx, prompt)
	if err != nil {
		o.log.Warn().Err(err).Int("transactions", len(txs)).Msg("Oracle call failed, serving fallback insights")
		return FallbackInsights(), nil
	}

	o.log.Info().
		Int("risk_score", result.RiskScore).
		Str("risk_level", string(result.RiskLevel)).
		Int("categorized_expenses", len(result.CategorizedExpenses)).
		Msg("Analysis cycle completed")

	return result, nil
}

func (o *Orchestrator) begin() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.requesting {
		return ErrAnalysisInFlight
	}
	o.requesting = true
	return nil
}

func (o *Orchestrator) end() {
	o.mu.Lock()
	o.requesting = false
	o.mu.Unlock()
}
