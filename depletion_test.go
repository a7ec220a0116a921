package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSustainableWithdrawalRate_Deterministic(t *testing.T) {
	p := examplePlan()
	p.NumSimulations = 1
	sim := &Simulator{Source: ConstantSource{}}

	search, err := FindSustainableWithdrawalRate(context.Background(), sim, p, 1.0)
	require.NoError(t, err)
	require.True(t, search.Found)
	assert.True(t, search.Converged)
	assert.Greater(t, search.Rate, 0.04, "4% leaves millions at 95")
	assert.Equal(t, 1.0, search.SimulationResult.SuccessRate)
	assert.InDelta(t, search.Rate, search.SimulationResult.Profile.SafeWithdrawalRate, 1e-12)

	// Just above the bracket the single path runs dry
	above := p
	above.SafeWithdrawalRate = search.Rate + 0.001
	result, err := RunSimulation(above, ConstantSource{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.SuccessRate)
}

func TestFindSustainableWithdrawalRate_MeetsTarget(t *testing.T) {
	p := examplePlan()
	p.NumSimulations = 400
	sim := &Simulator{Source: NewSeededSource(21)}

	search, err := FindSustainableWithdrawalRate(context.Background(), sim, p, 0.9)
	require.NoError(t, err)
	require.True(t, search.Found)
	assert.GreaterOrEqual(t, search.SimulationResult.SuccessRate, 0.9)
	assert.LessOrEqual(t, search.Iterations, swrMaxIterations)

	// A stricter target can only lower the rate when every trial rate sees the same markets
	strict, err := FindSustainableWithdrawalRate(context.Background(), sim, p, 0.99)
	require.NoError(t, err)
	assert.LessOrEqual(t, strict.Rate, search.Rate)
}

func TestFindSustainableWithdrawalRate_NothingSaved(t *testing.T) {
	p := examplePlan()
	p.CurrentSavings = 0
	p.MonthlySavings = 0
	p.NumSimulations = 10

	search, err := FindSustainableWithdrawalRate(context.Background(), &Simulator{Source: ConstantSource{}}, p, 0.9)
	require.NoError(t, err)
	assert.False(t, search.Found)
	assert.Zero(t, search.Rate)
	assert.Equal(t, 1, search.Iterations)
}

func TestFindSustainableWithdrawalRate_BadTarget(t *testing.T) {
	sim := &Simulator{Source: ConstantSource{}}
	for _, target := range []float64{0, -0.5, 1.01} {
		_, err := FindSustainableWithdrawalRate(context.Background(), sim, examplePlan(), target)
		assert.Error(t, err, "target %v", target)
	}
}

func TestFindSustainableWithdrawalRate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FindSustainableWithdrawalRate(ctx, &Simulator{Source: NewSeededSource(1)}, examplePlan(), 0.9)
	assert.ErrorIs(t, err, context.Canceled)
}
