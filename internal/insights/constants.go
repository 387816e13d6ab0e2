package insights

// Defaults for the risk-classification oracle round-trip.
const (
	// DefaultModelName is the Gemini model used when none is configured.
	DefaultModelName = "gemini-2.5-flash"

	// MaxRequestTransactions bounds how many of the most recent
	// transactions are serialized into an oracle request.
	MaxRequestTransactions = 100

	// DescriptionLimit truncates free-text descriptions in the request
	// payload to keep its size under control.
	DescriptionLimit = 30

	// FallbackRiskScore is the neutral score reported when the oracle is
	// unreachable or returns an invalid structure.
	FallbackRiskScore = 50
)
