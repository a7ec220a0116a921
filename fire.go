package main

import (
	"fmt"
	"math"
)

// maxYearsToFI caps the years-to-FI projection
const maxYearsToFI = 100

// FIRESummary collects the FIRE calculators for one profile.
// FIRENumber and CoastFINumber are in today's money.
type FIRESummary struct {
	AnnualExpenses    float64 `json:"annual_expenses"`
	FIRENumber        float64 `json:"fire_number"`
	CoastFINumber     float64 `json:"coast_fi_number"`
	CoastFIReached    bool    `json:"coast_fi_reached"`
	Reached           bool    `json:"fi_reachable"`
	YearsToFI         int     `json:"years_to_fi"`
	FIAge             int     `json:"fi_age"`
	ProjectedAtRetire float64 `json:"projected_at_retirement"` // deterministic, at the expected return
}

// FIRENumber is the portfolio that supports annualExpenses at the given withdrawal rate
func FIRENumber(annualExpenses, withdrawalRate float64) (float64, error) {
	if withdrawalRate <= 0 {
		return 0, fmt.Errorf("withdrawal rate must be positive, got %v", withdrawalRate)
	}
	if annualExpenses < 0 {
		return 0, fmt.Errorf("annual expenses must not be negative, got %v", annualExpenses)
	}
	return annualExpenses / withdrawalRate, nil
}

// RealReturn converts a nominal return to a real one
func RealReturn(nominal, inflation float64) float64 {
	return (1+nominal)/(1+inflation) - 1
}

// CoastFINumber is what must be invested today for growth alone, at the real return,
// to reach fireNumber after years
func CoastFINumber(fireNumber, realReturn float64, years int) float64 {
	if years <= 0 {
		return fireNumber
	}
	return fireNumber / math.Pow(1+realReturn, float64(years))
}

// YearsToFI projects the portfolio at the expected return (no volatility) and returns the
// first year in which it covers the inflation-adjusted FIRE number. Contributions continue
// until then, ignoring the planned retirement age.
func YearsToFI(p SimulationProfile, fireNumber float64) (int, bool) {
	balance := p.CurrentSavings
	if balance >= fireNumber {
		return 0, true
	}
	contribution := p.MonthlySavings * 12
	for year := 1; year <= maxYearsToFI; year++ {
		c := contribution
		if p.RealContributions {
			c *= math.Pow(1+p.InflationRate, float64(year-1))
		}
		balance = (balance + c) * (1 + p.ExpectedAnnualReturn)
		if balance >= fireNumber*math.Pow(1+p.InflationRate, float64(year)) {
			return year, true
		}
	}
	return 0, false
}

// CalculateFIRE runs every FIRE calculator for the profile
func CalculateFIRE(p SimulationProfile, annualExpenses float64) (FIRESummary, error) {
	if err := p.Validate(); err != nil {
		return FIRESummary{}, err
	}
	fireNumber, err := FIRENumber(annualExpenses, p.SafeWithdrawalRate)
	if err != nil {
		return FIRESummary{}, err
	}

	summary := FIRESummary{
		AnnualExpenses: annualExpenses,
		FIRENumber:     fireNumber,
		CoastFINumber:  CoastFINumber(fireNumber, RealReturn(p.ExpectedAnnualReturn, p.InflationRate), p.AccumulationYears()),
	}
	summary.CoastFIReached = p.CurrentSavings >= summary.CoastFINumber
	summary.YearsToFI, summary.Reached = YearsToFI(p, fireNumber)
	if summary.Reached {
		summary.FIAge = p.CurrentAge + summary.YearsToFI
	}

	deterministic := p
	deterministic.NumSimulations = 1
	result, err := RunSimulation(deterministic, ConstantSource{})
	if err != nil {
		return FIRESummary{}, fmt.Errorf("deterministic projection: %w", err)
	}
	summary.ProjectedAtRetire = result.AtRetirement.Median

	return summary, nil
}
