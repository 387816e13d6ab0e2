package domain

// RiskLevel grades either the whole profile or a single classified spend.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Impact marks whether a risk factor helped or hurt the score.
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
)

// RiskFactor is one oracle-identified contributor to the risk score.
// Weight runs 1..5.
type RiskFactor struct {
	Name        string `json:"name"`
	Impact      Impact `json:"impact"`
	Weight      int    `json:"weight"`
	Description string `json:"description"`
}

// RiskClassifiedSpend flags an individual spending behavior.
type RiskClassifiedSpend struct {
	Item   string    `json:"item"`
	Amount float64   `json:"amount"`
	Level  RiskLevel `json:"level"`
	Reason string    `json:"reason"`
}

// CategorizedExpense is one oracle-produced category rollup. Ephemeral;
// regenerated on every successful analysis cycle.
type CategorizedExpense struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// AIInsights is the aggregate analysis result. Exactly one instance is live
// at a time and it is replaced wholesale by each orchestration cycle,
// whether the oracle answered or the fallback was synthesized.
type AIInsights struct {
	Summary             string                `json:"summary"`
	Risks               []string              `json:"risks"`
	HealthInsight       string                `json:"healthInsight"`
	RiskLevel           RiskLevel             `json:"riskLevel"`
	RiskScore           int                   `json:"riskScore"`
	RiskFactors         []RiskFactor          `json:"riskFactors"`
	Reasoning           string                `json:"reasoning"`
	CategorizedExpenses []CategorizedExpense  `json:"categorizedExpenses"`
	RiskClassifiedSpend []RiskClassifiedSpend `json:"riskClassifiedSpends"`
}
