package main

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed default-config.yaml
var defaultConfigYAML string

// ProfileConfig is the saver's situation and market assumptions
type ProfileConfig struct {
	CurrentAge           int     `yaml:"current_age" json:"current_age"`
	RetirementAge        int     `yaml:"retirement_age" json:"retirement_age"`
	HorizonAge           int     `yaml:"horizon_age,omitempty" json:"horizon_age,omitempty"` // 0 = 95
	CurrentSavings       float64 `yaml:"current_savings" json:"current_savings"`
	MonthlySavings       float64 `yaml:"monthly_savings" json:"monthly_savings"`
	ExpectedAnnualReturn float64 `yaml:"expected_annual_return" json:"expected_annual_return"`
	Volatility           float64 `yaml:"volatility" json:"volatility"`
	ReturnSource         string  `yaml:"return_source,omitempty" json:"return_source,omitempty"` // market preset ID; overrides return and volatility
	InflationRate        float64 `yaml:"inflation_rate" json:"inflation_rate"`
	SafeWithdrawalRate   float64 `yaml:"safe_withdrawal_rate" json:"safe_withdrawal_rate"`
	Currency             string  `yaml:"currency" json:"currency"`
	RealContributions    bool    `yaml:"real_contributions" json:"real_contributions"`
}

// WithdrawalConfig selects and tunes the withdrawal strategy
type WithdrawalConfig struct {
	Strategy   string  `yaml:"strategy" json:"strategy"` // fixed, guardrails, vpw
	UpperLimit float64 `yaml:"guardrails_upper_limit,omitempty" json:"guardrails_upper_limit,omitempty"`
	LowerLimit float64 `yaml:"guardrails_lower_limit,omitempty" json:"guardrails_lower_limit,omitempty"`
	Adjustment float64 `yaml:"guardrails_adjustment,omitempty" json:"guardrails_adjustment,omitempty"`
	Floor      float64 `yaml:"vpw_floor,omitempty" json:"vpw_floor,omitempty"`
	Ceiling    float64 `yaml:"vpw_ceiling,omitempty" json:"vpw_ceiling,omitempty"`
}

// SimulationConfig controls the Monte Carlo run
type SimulationConfig struct {
	NumSimulations int       `yaml:"num_simulations" json:"num_simulations"`
	Seed           *uint64   `yaml:"seed,omitempty" json:"seed,omitempty"` // nil = system randomness
	Workers        int       `yaml:"workers,omitempty" json:"workers,omitempty"`
	SamplePaths    int       `yaml:"sample_paths,omitempty" json:"sample_paths,omitempty"`
	Percentiles    []float64 `yaml:"percentiles,omitempty" json:"percentiles,omitempty"`
}

// FIREConfig feeds the FIRE calculators
type FIREConfig struct {
	AnnualExpenses float64 `yaml:"annual_expenses" json:"annual_expenses"` // today's money
}

// SensitivityConfig holds the grid for sensitivity analysis
type SensitivityConfig struct {
	Returns      SensitivityRange `yaml:"returns" json:"returns"`
	Volatilities SensitivityRange `yaml:"volatilities" json:"volatilities"`
	TargetSWR    float64          `yaml:"target_success_rate,omitempty" json:"target_success_rate,omitempty"`
}

// Grid expands both axes, defaulting to returns 4-10% by 1% and volatilities 5-25% by 5%
func (c SensitivityConfig) Grid() (returns, volatilities []float64, err error) {
	if returns, err = c.Returns.Values(0.04, 0.10, 0.01); err != nil {
		return nil, nil, fmt.Errorf("returns: %w", err)
	}
	if volatilities, err = c.Volatilities.Values(0.05, 0.25, 0.05); err != nil {
		return nil, nil, fmt.Errorf("volatilities: %w", err)
	}
	return returns, volatilities, nil
}

// Config holds all configuration
type Config struct {
	Profile     ProfileConfig     `yaml:"profile" json:"profile"`
	Withdrawal  WithdrawalConfig  `yaml:"withdrawal" json:"withdrawal"`
	Simulation  SimulationConfig  `yaml:"simulation" json:"simulation"`
	FIRE        FIREConfig        `yaml:"fire" json:"fire"`
	Sensitivity SensitivityConfig `yaml:"sensitivity" json:"sensitivity"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return parseConfig(string(data))
}

// LoadDefaultConfig loads the default configuration compiled into the binary
func LoadDefaultConfig() (*Config, error) {
	return parseConfig(defaultConfigYAML)
}

func parseConfig(content string) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal([]byte(preprocessPercentages(content)), &config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &config, nil
}

// SaveConfig writes the configuration to a YAML file
func SaveConfig(config *Config, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	header := []byte(`# Financial Atlas configuration
# Generated interactively - feel free to edit manually
#
#   Percentages: 0.07 or 7% (both mean seven percent)
#   Money: plain numbers in the profile currency
#   return_source: a market preset ID (see -indices); overrides expected_annual_return and volatility
#   withdrawal.strategy: fixed | guardrails | vpw
#   simulation.seed: set for reproducible runs
#
# See default-config.yaml for all available options.

`)
	return os.WriteFile(filename, append(header, data...), 0644)
}

// percentPattern matches "key: 7%" and "- 7%" but not quoted strings
var percentPattern = regexp.MustCompile(`(?m)(:[ \t]*|^[ \t]*-[ \t]+)(-?\d+\.?\d*)%`)

// preprocessPercentages rewrites percentage literals as fractions so "7%" reads as 0.07
func preprocessPercentages(content string) string {
	return percentPattern.ReplaceAllStringFunc(content, func(match string) string {
		parts := percentPattern.FindStringSubmatch(match)
		num, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return match
		}
		return parts[1] + strconv.FormatFloat(num/100.0, 'f', -1, 64)
	})
}

// BuildProfile resolves the market preset and withdrawal strategy and returns a validated profile
func (c *Config) BuildProfile() (SimulationProfile, error) {
	pc := c.Profile
	expectedReturn, volatility := pc.ExpectedAnnualReturn, pc.Volatility
	if pc.ReturnSource != "" {
		preset, err := GetMarketPreset(pc.ReturnSource)
		if err != nil {
			return SimulationProfile{}, err
		}
		expectedReturn, volatility = preset.Return, preset.Volatility
	}

	strategy, err := ParseWithdrawalStrategy(c.Withdrawal.Strategy)
	if err != nil {
		return SimulationProfile{}, err
	}

	currency := pc.Currency
	if currency == "" {
		currency = "USD"
	}

	profile := SimulationProfile{
		CurrentAge:           pc.CurrentAge,
		RetirementAge:        pc.RetirementAge,
		HorizonAge:           pc.HorizonAge,
		CurrentSavings:       pc.CurrentSavings,
		MonthlySavings:       pc.MonthlySavings,
		ExpectedAnnualReturn: expectedReturn,
		Volatility:           volatility,
		InflationRate:        pc.InflationRate,
		SafeWithdrawalRate:   pc.SafeWithdrawalRate,
		NumSimulations:       c.Simulation.NumSimulations,
		Currency:             currency,
		RealContributions:    pc.RealContributions,
		Withdrawal: WithdrawalPolicy{
			Strategy:   strategy,
			UpperLimit: c.Withdrawal.UpperLimit,
			LowerLimit: c.Withdrawal.LowerLimit,
			Adjustment: c.Withdrawal.Adjustment,
			Floor:      c.Withdrawal.Floor,
			Ceiling:    c.Withdrawal.Ceiling,
		},
	}
	if err := profile.Validate(); err != nil {
		return SimulationProfile{}, err
	}
	return profile, nil
}

// NewSimulator builds a Simulator from the simulation settings.
// workers overrides the configured worker count when positive.
func (c *Config) NewSimulator(workers int) *Simulator {
	sim := &Simulator{
		Workers:     c.Simulation.Workers,
		SamplePaths: c.Simulation.SamplePaths,
		Percentiles: c.Simulation.Percentiles,
	}
	if workers > 0 {
		sim.Workers = workers
	}
	if c.Simulation.Seed != nil {
		sim.Source = NewSeededSource(*c.Simulation.Seed)
	} else {
		sim.Source = NewSystemSource()
	}
	return sim
}
