package main

import (
	"fmt"
	"math"
)

// Monte Carlo configuration: per-variable annual volatilities and the
// correlation structure tying the five stochastic macro variables together.

// Stochastic variable indices. This ordering is shared by the volatility
// vector, the floors/ceilings and the correlation matrix.
const (
	varPropertyAppreciation = iota
	varInvestmentReturn
	varRentIncrease
	varInflation
	varMortgageRate
	numStochasticVars
)

// VarNames labels the stochastic variables in index order.
var VarNames = [numStochasticVars]string{
	"property_appreciation",
	"investment_return",
	"rent_increase",
	"inflation",
	"mortgage_rate",
}

// Floors and Ceilings clamp each realized annual value to a plausible range.
var (
	Floors   = [numStochasticVars]float64{-0.20, -0.40, 0.00, 0.00, 0.01}
	Ceilings = [numStochasticVars]float64{0.30, 0.50, 0.15, 0.12, 0.15}
)

// DefaultCorrelation is the default 5x5 symmetric positive-definite
// correlation matrix. Inflation and mortgage rates move strongly together;
// property appreciation is mildly pro-inflation and counter-rate.
//
//	                 propAppr  invRet  rentInc  inflation  mortRate
var DefaultCorrelation = [numStochasticVars][numStochasticVars]float64{
	{1.00, 0.20, 0.30, 0.40, -0.25},  // property_appreciation
	{0.20, 1.00, 0.05, -0.10, -0.15}, // investment_return
	{0.30, 0.05, 1.00, 0.60, 0.30},   // rent_increase
	{0.40, -0.10, 0.60, 1.00, 0.65},  // inflation
	{-0.25, -0.15, 0.30, 0.65, 1.00}, // mortgage_rate
}

// MCConfig configures a Monte Carlo run.
type MCConfig struct {
	NRuns int    `yaml:"n_runs" json:"n_runs"`
	Seed  *int64 `yaml:"seed,omitempty" json:"seed,omitempty"` // nil = fresh random seed per run

	// Per-variable annual shock standard deviations.
	StdPropertyAppreciation float64 `yaml:"std_property_appreciation" json:"std_property_appreciation"`
	StdInvestmentReturn     float64 `yaml:"std_investment_return" json:"std_investment_return"`
	StdRentIncrease         float64 `yaml:"std_rent_increase" json:"std_rent_increase"`
	StdInflation            float64 `yaml:"std_inflation" json:"std_inflation"`
	StdMortgageRate         float64 `yaml:"std_mortgage_rate" json:"std_mortgage_rate"`

	// CorrelationOverride replaces DefaultCorrelation when non-nil.
	CorrelationOverride *[numStochasticVars][numStochasticVars]float64 `yaml:"-" json:"-"`
}

// DefaultMCConfig returns the baseline stochastic configuration.
func DefaultMCConfig() MCConfig {
	return MCConfig{
		NRuns:                   5000,
		StdPropertyAppreciation: 0.10,
		StdInvestmentReturn:     0.15,
		StdRentIncrease:         0.02,
		StdInflation:            0.015,
		StdMortgageRate:         0.01,
	}
}

// StdVector returns the standard deviations in variable order.
func (c *MCConfig) StdVector() [numStochasticVars]float64 {
	return [numStochasticVars]float64{
		c.StdPropertyAppreciation,
		c.StdInvestmentReturn,
		c.StdRentIncrease,
		c.StdInflation,
		c.StdMortgageRate,
	}
}

// CorrelationMatrix returns the correlation matrix in effect.
func (c *MCConfig) CorrelationMatrix() [numStochasticVars][numStochasticVars]float64 {
	if c.CorrelationOverride != nil {
		return *c.CorrelationOverride
	}
	return DefaultCorrelation
}

// BuildCovMatrix builds the covariance matrix from the configured standard
// deviations and correlations: cov[i][j] = corr[i][j] * std[i] * std[j].
func BuildCovMatrix(config *MCConfig) [numStochasticVars][numStochasticVars]float64 {
	stds := config.StdVector()
	corr := config.CorrelationMatrix()
	var cov [numStochasticVars][numStochasticVars]float64
	for i := 0; i < numStochasticVars; i++ {
		for j := 0; j < numStochasticVars; j++ {
			cov[i][j] = corr[i][j] * stds[i] * stds[j]
		}
	}
	return cov
}

// choleskyEpsilon is added to the covariance diagonal for numerical
// stability. It must never mask a genuinely non-positive-definite matrix.
const choleskyEpsilon = 1e-10

// cholesky computes the lower-triangular Cholesky factor L of a symmetric
// matrix (with the stability epsilon on the diagonal), so that L·Lᵀ equals
// the input. A non-positive-definite input is a configuration error: the
// caller-supplied correlation/volatility combination is invalid.
func cholesky(cov [numStochasticVars][numStochasticVars]float64) ([numStochasticVars][numStochasticVars]float64, error) {
	var l [numStochasticVars][numStochasticVars]float64
	for i := 0; i < numStochasticVars; i++ {
		cov[i][i] += choleskyEpsilon
	}

	for i := 0; i < numStochasticVars; i++ {
		for j := 0; j <= i; j++ {
			sum := cov[i][j]
			for k := 0; k < j; k++ {
				sum -= l[i][k] * l[j][k]
			}
			if i == j {
				if sum <= 0 {
					return l, fmt.Errorf("covariance matrix is not positive definite (pivot %d: %g)", i, sum)
				}
				l[i][j] = math.Sqrt(sum)
			} else {
				l[i][j] = sum / l[j][j]
			}
		}
	}
	return l, nil
}
