package loans

import (
	"fmt"

	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/iwvelando/amortize/pkg/mathutil"
	"go.uber.org/zap"
)

// MaxSearchRoundsLimit is the largest round budget a RateSearcher accepts; the
// candidate granularity of the last round must still fit in an int64.
const MaxSearchRoundsLimit = 17

// SearchRound records one precision refinement round of the rate search.
type SearchRound struct {
	Round      int
	Depth      int64   // candidate monthly rates are j/Depth
	Range      float64 // payment match tolerance
	Candidates int     // forward model evaluations in this round
}

// RateSearchResult holds the recovered annual rate and the rounds it took.
type RateSearchResult struct {
	AnnualRate float64
	Rounds     []SearchRound
}

// RateSearcher recovers the interest rate of a loan from its term, principal
// and payment. There is no closed form, so candidate monthly rates j/depth are
// scanned against the annuity formula, refining depth one decimal digit and
// widening the match tolerance after every round that fails to match.
type RateSearcher struct {
	logger    *zap.Logger
	maxRounds int
}

// NewRateSearcher creates a searcher that gives up after maxRounds refinement
// rounds. A non-positive maxRounds selects the default budget.
func NewRateSearcher(logger *zap.Logger, maxRounds int) *RateSearcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRounds <= 0 {
		maxRounds = constants.DefaultMaxSearchRounds
	}
	if maxRounds > MaxSearchRoundsLimit {
		maxRounds = MaxSearchRoundsLimit
	}
	return &RateSearcher{logger: logger, maxRounds: maxRounds}
}

// RangeInterval returns how much the payment match tolerance widens after each
// failed round, scaled to the loan size.
func RangeInterval(principal float64) float64 {
	switch {
	case principal > constants.Billion:
		return constants.SearchRangeIntervalBillions
	case principal > constants.Million:
		return constants.SearchRangeIntervalMillions
	default:
		return constants.SearchRangeIntervalDefault
	}
}

// Search finds the annual percentage rate at which a loan of principal is
// repaid by termMonths payments of payment. The returned rate is unrounded.
//
// A round stops at the first candidate whose payment lies within the match
// tolerance, at the first candidate that overshoots the target by more than
// 1%, or at the upper end of the bracket left by the previous round. Each new
// round resumes from the last candidate known to be below the tolerance band.
func (s *RateSearcher) Search(termMonths int, principal, payment float64) (RateSearchResult, error) {
	var result RateSearchResult

	if err := checkDomain(principal, termMonths, 0); err != nil {
		return result, err
	}
	if payment <= 0 {
		return result, fmt.Errorf("payment must be positive, got %.2f: %w", payment, ErrInvalidDomain)
	}
	if payment < principal/float64(termMonths)-constants.CurrencyTolerance {
		return result, fmt.Errorf("%d payments of %.2f cannot repay %.2f at any rate: %w",
			termMonths, payment, principal, ErrInvalidDomain)
	}

	interval := RangeInterval(principal)
	tolerance := constants.SearchInitialRange
	depth := int64(constants.SearchInitialDepth)

	// below is the largest candidate known to fall under the tolerance band and
	// above the smallest known to exceed it, both at the current depth; zero
	// means unknown.
	var below, above int64

	for round := 1; round <= s.maxRounds; round++ {
		roundBelow, roundAbove := below, int64(0)
		candidates := 0

		for j := max(below, 1); above == 0 || j <= above; j++ {
			candidates++
			monthlyRate := float64(j) / float64(depth)
			test := AnnuityPayment(principal, termMonths, monthlyRate)

			if mathutil.WithinTolerance(test, payment, tolerance) {
				result.AnnualRate = monthlyRate * constants.MonthlyRateDivisor
				result.Rounds = append(result.Rounds, SearchRound{
					Round: round, Depth: depth, Range: tolerance, Candidates: candidates,
				})
				s.logger.Debug("rate search matched payment",
					zap.String("op", "loans.RateSearcher.Search"),
					zap.Int("round", round),
					zap.Int64("depth", depth),
					zap.Float64("range", tolerance),
					zap.Float64("annualRate", result.AnnualRate),
				)
				return result, nil
			}

			if test < payment-tolerance {
				roundBelow = j
				continue
			}
			if roundAbove == 0 {
				roundAbove = j
			}
			if test > payment*constants.SearchOvershootFactor {
				break
			}
		}
		if roundAbove == 0 {
			roundAbove = above
		}

		result.Rounds = append(result.Rounds, SearchRound{
			Round: round, Depth: depth, Range: tolerance, Candidates: candidates,
		})
		s.logger.Debug(fmt.Sprintf("rate search scan number %d skipped over the payment", round),
			zap.String("op", "loans.RateSearcher.Search"),
			zap.Int64("depth", depth),
			zap.Float64("range", tolerance),
			zap.Int("candidates", candidates),
		)

		tolerance += interval
		depth *= constants.SearchDepthMultiplier
		below = roundBelow * constants.SearchDepthMultiplier
		above = roundAbove * constants.SearchDepthMultiplier
	}

	return result, fmt.Errorf("no rate matched payment %.2f within %d rounds: %w",
		payment, s.maxRounds, ErrNumericDivergence)
}

// RateFromPaymentTerm recovers the annual percentage rate of a loan using the
// default search budget.
func RateFromPaymentTerm(termMonths int, principal, payment float64) (float64, error) {
	result, err := NewRateSearcher(nil, 0).Search(termMonths, principal, payment)
	if err != nil {
		return 0, err
	}
	return result.AnnualRate, nil
}
