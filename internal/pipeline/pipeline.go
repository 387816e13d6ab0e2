// Package pipeline orders one full statement analysis cycle: normalize the
// raw statement, persist the new transaction set, compute local aggregates
// and budget progress, then hand the snapshot to the insight orchestrator.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dvloznov/risk-radar/internal/aggregate"
	"github.com/dvloznov/risk-radar/internal/budget"
	"github.com/dvloznov/risk-radar/internal/domain"
	"github.com/dvloznov/risk-radar/internal/insights"
	"github.com/dvloznov/risk-radar/internal/normalize"
	"github.com/dvloznov/risk-radar/internal/statestore"
)

// Step represents a single step in the analysis pipeline.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// State holds the shared state across all pipeline steps. Every step reads
// from and writes to the same snapshot, so aggregates and the oracle request
// are guaranteed to describe the same transaction set.
type State struct {
	RawText      string
	Transactions []domain.Transaction
	BudgetGoal   domain.BudgetGoal
	Summaries    []aggregate.MonthlySummary
	TotalSpent   float64
	Insights     domain.AIInsights
}

// RiskProfile is the end product of one analysis cycle: local arithmetic
// plus the oracle's verdict over the same snapshot. Insights is nil for
// profiles rebuilt from persisted state without an oracle call.
type RiskProfile struct {
	Transactions     []domain.Transaction       `json:"transactions"`
	MonthlySummaries []aggregate.MonthlySummary `json:"monthlySummaries"`
	TotalSpent       float64                    `json:"totalSpent"`
	BudgetProgress   budget.Progress            `json:"budgetProgress"`
	BudgetGoal       domain.BudgetGoal          `json:"budgetGoal"`
	CategoryProgress []budget.CategoryProgress  `json:"categoryProgress"`
	Insights         *domain.AIInsights         `json:"insights,omitempty"`
}

// NormalizeStep converts the raw statement text into domain transactions.
type NormalizeStep struct{}

func (s *NormalizeStep) Execute(ctx context.Context, state *State) error {
	txs, err := normalize.Normalize(state.RawText)
	if err != nil {
		return err
	}
	state.Transactions = txs
	return nil
}

// LoadBudgetStep loads the active budget goal into the cycle snapshot.
type LoadBudgetStep struct {
	Store *statestore.Store
}

func (s *LoadBudgetStep) Execute(ctx context.Context, state *State) error {
	goal, err := s.Store.LoadBudgetGoal(ctx)
	if err != nil {
		return err
	}
	state.BudgetGoal = goal
	return nil
}

// PersistTransactionsStep replaces the stored transaction set with the
// freshly normalized one.
type PersistTransactionsStep struct {
	Store *statestore.Store
}

func (s *PersistTransactionsStep) Execute(ctx context.Context, state *State) error {
	return s.Store.SaveTransactions(ctx, state.Transactions)
}

// AggregateStep computes monthly rollups and the total debit sum.
type AggregateStep struct{}

func (s *AggregateStep) Execute(ctx context.Context, state *State) error {
	state.Summaries = aggregate.Monthly(state.Transactions)
	state.TotalSpent = aggregate.TotalDebit(state.Transactions)
	return nil
}

// GenerateInsightsStep runs the oracle cycle over the snapshot.
type GenerateInsightsStep struct {
	Orchestrator *insights.Orchestrator
}

func (s *GenerateInsightsStep) Execute(ctx context.Context, state *State) error {
	result, err := s.Orchestrator.Generate(ctx, state.Transactions, &state.BudgetGoal)
	if err != nil {
		return err
	}
	state.Insights = result
	return nil
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps sequentially, stopping at the first failure.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}

// Engine wires the pipeline's dependencies together and exposes the two
// entry points the API and CLI use.
type Engine struct {
	store *statestore.Store
	orch  *insights.Orchestrator
	log   zerolog.Logger
}

// NewEngine creates an engine over the given store and orchestrator.
func NewEngine(store *statestore.Store, orch *insights.Orchestrator, log zerolog.Logger) *Engine {
	return &Engine{store: store, orch: orch, log: log}
}

// AnalyzeStatement runs the full cycle for one raw statement and returns the
// resulting profile. Normalization failures and the in-flight guard surface
// as errors; oracle failures do not, the orchestrator absorbs them into the
// fallback insight.
func (e *Engine) AnalyzeStatement(ctx context.Context, rawText string) (*RiskProfile, error) {
	state := &State{RawText: rawText}

	p := NewPipeline(
		&NormalizeStep{},
		&LoadBudgetStep{Store: e.store},
		&PersistTransactionsStep{Store: e.store},
		&AggregateStep{},
		&GenerateInsightsStep{Orchestrator: e.orch},
	)
	if err := p.Execute(ctx, state); err != nil {
		return nil, err
	}

	e.log.Info().
		Int("transactions", len(state.Transactions)).
		Float64("total_spent", state.TotalSpent).
		Int("risk_score", state.Insights.RiskScore).
		Msg("analysis cycle complete")

	result := state.Insights
	profile := buildProfile(state, &result)
	return profile, nil
}

// Profile rebuilds the local view from persisted state without calling the
// oracle. Category progress is computed against an empty expense breakdown,
// since categorization only exists as part of an insight result.
func (e *Engine) Profile(ctx context.Context) (*RiskProfile, error) {
	txs, err := e.store.LoadTransactions(ctx)
	if err != nil {
		return nil, err
	}
	goal, err := e.store.LoadBudgetGoal(ctx)
	if err != nil {
		return nil, err
	}

	state := &State{
		Transactions: txs,
		BudgetGoal:   goal,
		Summaries:    aggregate.Monthly(txs),
		TotalSpent:   aggregate.TotalDebit(txs),
	}
	return buildProfile(state, nil), nil
}

func buildProfile(state *State, result *domain.AIInsights) *RiskProfile {
	var expenses []domain.CategorizedExpense
	if result != nil {
		expenses = result.CategorizedExpenses
	}

	return &RiskProfile{
		Transactions:     state.Transactions,
		MonthlySummaries: state.Summaries,
		TotalSpent:       state.TotalSpent,
		BudgetProgress:   budget.ComputeProgress(state.BudgetGoal, state.TotalSpent),
		BudgetGoal:       state.BudgetGoal,
		CategoryProgress: budget.ComputeCategoryProgress(state.BudgetGoal, expenses),
		Insights:         result,
	}
}
