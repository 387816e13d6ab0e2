package insights

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/risk-radar/internal/domain"
)

// MockClassifier is a stub oracle for exercising both orchestration paths.
type MockClassifier struct {
	ClassifyFunc func(ctx context.Context, prompt string) (domain.AIInsights, error)

	mu      sync.Mutex
	prompts []string
}

func (m *MockClassifier) Classify(ctx context.Context, prompt string) (domain.AIInsights, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, prompt)
	}
	return domain.AIInsights{}, errors.New("no classifier behavior configured")
}

func testTxs() []domain.Transaction {
	return []domain.Transaction{
		{
			ID:          "t1",
			Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Amount:      5200,
			Type:        domain.Credit,
			Description: "Monthly Contract Retainer",
		},
		{
			ID:          "t2",
			Date:        time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			Amount:      2100,
			Type:        domain.Debit,
			Description: "Office Rent",
		},
	}
}

func TestGenerate_Success(t *testing.T) {
	want := domain.AIInsights{
		Summary:             "All good.",
		Risks:               []string{},
		HealthInsight:       "Keep going.",
		RiskLevel:           domain.RiskLow,
		RiskScore:           90,
		RiskFactors:         []domain.RiskFactor{},
		Reasoning:           "Steady surplus.",
		CategorizedExpenses: []domain.CategorizedExpense{{Category: "Rent", Amount: 2100}},
		RiskClassifiedSpend: []domain.RiskClassifiedSpend{},
	}

	mock := &MockClassifier{
		ClassifyFunc: func(ctx context.Context, prompt string) (domain.AIInsights, error) {
			return want, nil
		},
	}

	o := NewOrchestrator(mock, zerolog.Nop())
	goal := domain.DefaultBudgetGoal()
	got, err := o.Generate(context.Background(), testTxs(), &goal)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got.RiskScore != 90 || got.RiskLevel != domain.RiskLow {
		t.Errorf("unexpected insights: %+v", got)
	}

	// The locally computed debit total must be embedded in the request.
	if len(mock.prompts) != 1 {
		t.Fatalf("expected 1 oracle call, got %d", len(mock.prompts))
	}
	if !strings.Contains(mock.prompts[0], "already spent ₹2100") {
		t.Errorf("prompt missing local debit total:\n%s", mock.prompts[0])
	}
}

func TestGenerate_FallbackOnOracleFailure(t *testing.T) {
	mock := &MockClassifier{
		ClassifyFunc: func(ctx context.Context, prompt string) (domain.AIInsights, error) {
			return domain.AIInsights{}, errors.New("transport: connection refused")
		},
	}

	o := NewOrchestrator(mock, zerolog.Nop())
	got, err := o.Generate(context.Background(), testTxs(), nil)
	if err != nil {
		t.Fatalf("Generate must not propagate oracle failures, got: %v", err)
	}

	if got.RiskScore != 50 {
		t.Errorf("riskScore = %d, want 50", got.RiskScore)
	}
	if got.RiskLevel != domain.RiskMedium {
		t.Errorf("riskLevel = %q, want Medium", got.RiskLevel)
	}
	if len(got.CategorizedExpenses) != 0 {
		t.Errorf("expected empty categorizedExpenses, got %+v", got.CategorizedExpenses)
	}
	if len(got.RiskFactors) != 1 || got.RiskFactors[0].Impact != domain.ImpactNegative {
		t.Errorf("expected single negative connectivity factor, got %+v", got.RiskFactors)
	}
}

func TestGenerate_SingleInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var startedOnce sync.Once

	mock := &MockClassifier{
		ClassifyFunc: func(ctx context.Context, prompt string) (domain.AIInsights, error) {
			startedOnce.Do(func() { close(started) })
			<-release
			return FallbackInsights(), nil
		},
	}

	o := NewOrchestrator(mock, zerolog.Nop())

	done := make(chan error, 1)
	go func() {
		_, err := o.Generate(context.Background(), testTxs(), nil)
		done <- err
	}()

	<-started
	_, err := o.Generate(context.Background(), testTxs(), nil)
	if !errors.Is(err, ErrAnalysisInFlight) {
		t.Errorf("expected ErrAnalysisInFlight for concurrent call, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Errorf("first cycle failed: %v", err)
	}

	// The gate must reopen once the cycle finishes.
	if _, err := o.Generate(context.Background(), testTxs(), nil); err != nil {
		t.Errorf("expected gate to reopen, got %v", err)
	}
}
