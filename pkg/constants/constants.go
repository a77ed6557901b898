// Package constants provides shared constants for the amortize application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// MonthlyRateDivisor converts an annual percentage rate into a monthly
	// fractional rate (percent / 100 / 12).
	MonthlyRateDivisor = 1200.0

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyPlaces is the number of fraction digits kept for money values
	CurrencyPlaces = 2

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// RateFraction is the denominator interest rates are rounded to (1/8 percent)
	RateFraction = 8

	// CeilingEpsilon absorbs floating point noise before rounding up, so that
	// 100.00000000000001 cents does not become 101.
	CeilingEpsilon = 1e-9
)

// Term limits
const (
	// MaxTermMonths is the longest accepted loan term (five hundred years)
	MaxTermMonths = 6000

	// MaxRateSearchTermMonths is the longest term accepted when solving for the
	// interest rate (one hundred years)
	MaxRateSearchTermMonths = 1200

	// NearFullPaymentRatio marks payments close enough to the loan size that
	// the rate search term is capped at half of MaxRateSearchTermMonths.
	NearFullPaymentRatio = 0.8
)

// Rate search parameters
const (
	// SearchInitialRange is the starting payment match tolerance
	SearchInitialRange = 0.01

	// SearchInitialDepth is the starting candidate granularity; candidate
	// monthly rates are j/depth.
	SearchInitialDepth = 100

	// SearchDepthMultiplier shifts the candidate granularity one decimal digit
	SearchDepthMultiplier = 10

	// SearchOvershootFactor abandons a round once a candidate payment exceeds
	// the target by more than 1%.
	SearchOvershootFactor = 1.01

	// DefaultMaxSearchRounds caps the number of precision refinement rounds
	DefaultMaxSearchRounds = 15

	// Million and Billion are the loan size thresholds of the range widening table
	Million = 1e6
	Billion = 1e9

	// Range widening per round for each loan scale
	SearchRangeIntervalBillions = 100.0
	SearchRangeIntervalMillions = 10.0
	SearchRangeIntervalDefault  = 0.001
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatYAML is the YAML report output format
	OutputFormatYAML = "yaml"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "amortize.yaml"

	// DefaultScheduleFile is the default file name for saved schedules
	DefaultScheduleFile = "amortization.txt"

	// EnvPrefix prefixes environment overrides, e.g. AMORTIZE_LOGGING_LEVEL
	EnvPrefix = "AMORTIZE"
)
