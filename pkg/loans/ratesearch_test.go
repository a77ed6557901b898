package loans

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/iwvelando/amortize/pkg/constants"
	"github.com/iwvelando/amortize/pkg/mathutil"
	"go.uber.org/zap"
)

func TestRateFromPaymentTermRecoversRate(t *testing.T) {
	loans := []struct {
		termMonths int
		principal  float64
	}{
		{12, 1200},
		{36, 10000},
		{60, 25000},
		{120, 50000},
		{360, 200000},
	}
	rates := []float64{0, 3.5, 6.0, 7.25, 12.0}

	for _, loan := range loans {
		for _, rate := range rates {
			t.Run(fmt.Sprintf("%d months %.0f at %.3f%%", loan.termMonths, loan.principal, rate), func(t *testing.T) {
				payment, err := PaymentFromPrincipal(loan.principal, loan.termMonths, rate)
				if err != nil {
					t.Fatalf("PaymentFromPrincipal() error = %v", err)
				}

				recovered, err := RateFromPaymentTerm(loan.termMonths, loan.principal, payment)
				if err != nil {
					t.Fatalf("RateFromPaymentTerm() error = %v", err)
				}
				if math.Abs(recovered-rate) > 1.0/constants.RateFraction {
					t.Errorf("RateFromPaymentTerm() = %.5f, expected %.3f within 1/8 percent", recovered, rate)
				}
				if rounded := mathutil.RoundToFraction(recovered, constants.RateFraction); rounded != rate {
					t.Errorf("rounded rate = %.3f, expected %.3f", rounded, rate)
				}
			})
		}
	}
}

func TestRateSearcherTrace(t *testing.T) {
	searcher := NewRateSearcher(zap.NewNop(), 0)

	// 6% is 0.005 monthly, which first appears as a candidate at depth 1000.
	result, err := searcher.Search(36, 10000, 304.22)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(result.Rounds) != 2 {
		t.Fatalf("Search() took %d rounds, expected 2", len(result.Rounds))
	}
	if result.Rounds[0].Depth != 100 || result.Rounds[1].Depth != 1000 {
		t.Errorf("depths = %d, %d, expected 100, 1000", result.Rounds[0].Depth, result.Rounds[1].Depth)
	}
	if math.Abs(result.AnnualRate-6.0) > 1e-9 {
		t.Errorf("AnnualRate = %v, expected 6", result.AnnualRate)
	}
	for i, round := range result.Rounds {
		if round.Round != i+1 {
			t.Errorf("round %d numbered %d", i+1, round.Round)
		}
		if round.Candidates < 1 {
			t.Errorf("round %d evaluated no candidates", round.Round)
		}
	}
}

func TestRangeIntervalByLoanScale(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		expected  float64
	}{
		{"Billions", 2e9, 100},
		{"Millions", 2e6, 10},
		{"Exactly one million", 1e6, 0.001},
		{"Thousands", 5e5, 0.001},
		{"Small loan", 1200, 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := RangeInterval(tt.principal); result != tt.expected {
				t.Errorf("RangeInterval(%v) = %v, expected %v", tt.principal, result, tt.expected)
			}
		})
	}
}

func TestRateSearcherRangeProgressionDependsOnScale(t *testing.T) {
	searcher := NewRateSearcher(nil, 0)

	widening := func(principal float64) float64 {
		payment, err := PaymentFromPrincipal(principal, 360, 6.0)
		if err != nil {
			t.Fatalf("PaymentFromPrincipal() error = %v", err)
		}
		result, err := searcher.Search(360, principal, payment)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(result.Rounds) < 2 {
			t.Fatalf("Search() matched in %d round, expected a refinement", len(result.Rounds))
		}
		if result.Rounds[1].Depth != result.Rounds[0].Depth*constants.SearchDepthMultiplier {
			t.Errorf("depth %d did not refine from %d", result.Rounds[1].Depth, result.Rounds[0].Depth)
		}
		return result.Rounds[1].Range - result.Rounds[0].Range
	}

	large := widening(2e9)
	small := widening(5e5)

	if math.Abs(large-100) > 1e-9 {
		t.Errorf("range widening for billions = %v, expected 100", large)
	}
	if math.Abs(small-0.001) > 1e-9 {
		t.Errorf("range widening below a million = %v, expected 0.001", small)
	}
}

func TestRateSearcherDivergence(t *testing.T) {
	// A single round at depth 100 can only try multiples of 12%.
	searcher := NewRateSearcher(nil, 1)

	result, err := searcher.Search(36, 10000, 304.22)
	if !errors.Is(err, ErrNumericDivergence) {
		t.Fatalf("Search() error = %v, expected ErrNumericDivergence", err)
	}
	if len(result.Rounds) != 1 {
		t.Errorf("Search() recorded %d rounds, expected 1", len(result.Rounds))
	}
}

func TestRateSearcherRejectsUnpayableLoan(t *testing.T) {
	tests := []struct {
		name       string
		termMonths int
		principal  float64
		payment    float64
	}{
		{"Payments total less than principal", 12, 1200, 90},
		{"Zero payment", 12, 1200, 0},
		{"Zero term", 0, 1200, 100},
		{"Zero principal", 12, 0, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RateFromPaymentTerm(tt.termMonths, tt.principal, tt.payment)
			if !errors.Is(err, ErrInvalidDomain) {
				t.Errorf("RateFromPaymentTerm() error = %v, expected ErrInvalidDomain", err)
			}
		})
	}
}

func TestNewRateSearcherBudget(t *testing.T) {
	if s := NewRateSearcher(nil, 0); s.maxRounds != constants.DefaultMaxSearchRounds {
		t.Errorf("default maxRounds = %d, expected %d", s.maxRounds, constants.DefaultMaxSearchRounds)
	}
	if s := NewRateSearcher(nil, 100); s.maxRounds != MaxSearchRoundsLimit {
		t.Errorf("capped maxRounds = %d, expected %d", s.maxRounds, MaxSearchRoundsLimit)
	}
}
