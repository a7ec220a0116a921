package main

import (
	"context"
	"fmt"
)

const (
	swrSearchLow       = 0.0
	swrSearchHigh      = 0.5
	swrSearchTolerance = 0.0005 // stop once the bracket is narrower than 0.05 percentage points
	swrMaxIterations   = 40
)

// SWRSearchResult holds the outcome of a sustainable withdrawal rate search
type SWRSearchResult struct {
	TargetSuccess    float64          `json:"target_success_rate"`
	Rate             float64          `json:"sustainable_withdrawal_rate"` // highest rate found meeting the target
	Found            bool             `json:"found"`                       // false when even a zero rate misses the target
	Iterations       int              `json:"iterations"`
	Converged        bool             `json:"converged"`
	SimulationResult SimulationResult `json:"result"` // full result at Rate
}

// FindSustainableWithdrawalRate binary-searches the highest safe withdrawal rate whose success
// rate is at least target. Every trial rate reuses the same source, so with a StreamSource each
// trial sees the same market paths and success falls monotonically as the rate rises.
func FindSustainableWithdrawalRate(ctx context.Context, sim *Simulator, profile SimulationProfile, target float64) (SWRSearchResult, error) {
	if !(target > 0 && target <= 1) {
		return SWRSearchResult{}, fmt.Errorf("target success rate %v out of range (0, 1]", target)
	}
	if err := profile.Validate(); err != nil {
		return SWRSearchResult{}, err
	}

	trial := *sim
	if trial.Source == nil {
		trial.Source = NewSystemSource()
	}

	run := func(rate float64) (SimulationResult, error) {
		p := profile
		p.SafeWithdrawalRate = rate
		result, err := trial.Run(ctx, p)
		if err != nil {
			return SimulationResult{}, err
		}
		if result.Partial {
			return SimulationResult{}, fmt.Errorf("withdrawal rate search interrupted at %.4f: %w", rate, ctx.Err())
		}
		return result, nil
	}

	search := SWRSearchResult{TargetSuccess: target}

	best, err := run(swrSearchLow)
	if err != nil {
		return search, err
	}
	search.Iterations++
	if best.SuccessRate < target {
		search.SimulationResult = best
		search.Converged = true
		return search, nil
	}
	search.Found = true

	low, high := swrSearchLow, swrSearchHigh
	for high-low > swrSearchTolerance && search.Iterations < swrMaxIterations {
		mid := (low + high) / 2
		result, err := run(mid)
		if err != nil {
			return search, err
		}
		search.Iterations++

		if result.SuccessRate >= target {
			// Still safe - can afford a higher rate
			low = mid
			best = result
		} else {
			high = mid
		}
	}

	search.Rate = low
	search.Converged = high-low <= swrSearchTolerance
	search.SimulationResult = best
	return search, nil
}
