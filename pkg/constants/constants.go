// Package constants provides shared constants for the buyrent-analyzer application.
package constants

// Financial constants
const (
	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// ToleranceForComparison is the tolerance for financial comparisons
	ToleranceForComparison = 1.0

	// UpgradeCostPct is the share of building value spent on a major
	// renovation in a property upgrade year
	UpgradeCostPct = 2.0

	// MonthsPerYear converts between annual and monthly payment bases
	MonthsPerYear = 12.0
)

// Sanity bounds reported by mortgage input validation
const (
	// MaxReasonableInterestRate is the highest interest rate accepted
	// without a validation error (percent)
	MaxReasonableInterestRate = 20.0

	// MaxReasonableLoanTerm is the longest loan term accepted without a
	// validation error (years)
	MaxReasonableLoanTerm = 50
)

// Recommendation labels produced by the NPV comparison
const (
	RecommendationBuy  = "BUY"
	RecommendationRent = "RENT"
)

// Confidence labels produced by the NPV comparison
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the analysis API
	DefaultServerAddress = ":8080"

	// DefaultMaxRequestBytes is the default maximum request body size (256 KB)
	DefaultMaxRequestBytes int64 = 256 * 1024
)
