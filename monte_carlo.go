package main

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"
)

// Vectorized Monte Carlo simulation of the buy-vs-rent model.
//
// Runs N parallel trajectories with year-by-year correlated random shocks to
// property appreciation, investment returns, rent increases, inflation and
// mortgage rates. The deterministic per-year recurrence is re-expressed over
// length-N slices: one outer loop over years, bulk updates across paths. The
// mortgage update uses the closed-form 12-payment amortization identity
// instead of monthly stepping, so with zero volatility every path reproduces
// the deterministic engine within floating-point tolerance.

// MCTimeSeries is the raw Monte Carlo output. All grids are shaped
// (TimeHorizonYears+1) x NRuns, indexed [year][path].
type MCTimeSeries struct {
	Years            []int
	BuyNetWorth      [][]float64
	RentNetWorth     [][]float64
	Difference       [][]float64 // buy - rent
	PropertyValues   [][]float64
	MortgageBalances [][]float64
}

// MCSummary holds percentile-band statistics derived from an MCTimeSeries.
type MCSummary struct {
	Years       []int
	Percentiles []int
	BuyPctiles  map[int][]float64 // percentile -> per-year values
	RentPctiles map[int][]float64
	DiffPctiles map[int][]float64

	// ProbBuyWins is the per-year fraction of paths where buy > rent.
	ProbBuyWins []float64

	// First year the median difference crosses from <=0 to >0.
	MedianCrossover    int
	HasMedianCrossover bool
}

// newSeed draws a high-entropy seed from crypto/rand for unseeded runs.
func newSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

func newGrid(rows, cols int) [][]float64 {
	backing := make([]float64, rows*cols)
	grid := make([][]float64, rows)
	for i := range grid {
		grid[i] = backing[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return grid
}

func clip(x, lo, hi float64) float64 {
	return math.Min(math.Max(x, lo), hi)
}

// MCSimulate runs the vectorized Monte Carlo simulation.
//
// Identical params, config and seed yield bit-identical output. A nil seed
// draws a fresh one. Invalid configuration (unsupported state, non-positive
// run count, non-positive-definite covariance) is rejected before any path
// is simulated.
func MCSimulate(params ScenarioParams, config MCConfig) (*MCTimeSeries, error) {
	n := config.NRuns
	if n <= 0 {
		return nil, fmt.Errorf("n_runs must be positive, got %d", n)
	}
	horizon := params.TimeHorizonYears
	buy := &params.Buy
	rent := &params.Rent
	inv := &params.Investment

	upfront, err := UpfrontBuyCosts(&params)
	if err != nil {
		return nil, err
	}

	l, err := cholesky(BuildCovMatrix(&config))
	if err != nil {
		return nil, err
	}

	seed := newSeed()
	if config.Seed != nil {
		seed = *config.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	effDivRate := EffectiveDividendRate(params.Tax.MarginalRate(), inv.FrankingRate)

	// Per-path state
	mortgageBal := make([]float64, n)
	currentRate := make([]float64, n)
	monthlyPmt := make([]float64, n)
	propertyValue := make([]float64, n)
	buyInvestments := make([]float64, n)
	buyContributions := make([]float64, n)
	rentInvestments := make([]float64, n)
	rentContributions := make([]float64, n)
	weeklyRent := make([]float64, n)

	loan := buy.LoanAmount()
	initialRate := buy.RateForYear(1)
	initialPmt := MonthlyRepayment(loan, initialRate, buy.MortgageTermYears*12)
	startingBuyInv := math.Max(params.ExistingSavings-upfront, 0)

	for p := 0; p < n; p++ {
		mortgageBal[p] = loan
		currentRate[p] = initialRate
		monthlyPmt[p] = initialPmt
		propertyValue[p] = buy.PurchasePrice
		buyInvestments[p] = startingBuyInv
		buyContributions[p] = startingBuyInv
		rentInvestments[p] = params.ExistingSavings
		rentContributions[p] = params.ExistingSavings
		weeklyRent[p] = rent.WeeklyRent
	}

	ts := &MCTimeSeries{
		Years:            make([]int, horizon+1),
		BuyNetWorth:      newGrid(horizon+1, n),
		RentNetWorth:     newGrid(horizon+1, n),
		Difference:       newGrid(horizon+1, n),
		PropertyValues:   newGrid(horizon+1, n),
		MortgageBalances: newGrid(horizon+1, n),
	}
	for year := range ts.Years {
		ts.Years[year] = year
	}

	for p := 0; p < n; p++ {
		ts.BuyNetWorth[0][p] = (propertyValue[p] - mortgageBal[p]) + buyInvestments[p]
		ts.RentNetWorth[0][p] = rentInvestments[p]
		ts.PropertyValues[0][p] = propertyValue[p]
		ts.MortgageBalances[0][p] = mortgageBal[p]
	}

	baseMeans := [numStochasticVars]float64{
		buy.PropertyAppreciationRate,
		inv.ReturnRate,
		rent.RentIncreaseRate,
		params.InflationRate,
		buy.MortgageRate,
	}

	// Realized variables per year
	realized := make([][numStochasticVars]float64, n)

	prevSchedRate := buy.RateForYear(1)

	for year := 1; year <= horizon; year++ {
		// Draw correlated shocks: independent standard normals transformed by
		// the Cholesky factor, then base mean + shock clipped per variable.
		for p := 0; p < n; p++ {
			var z [numStochasticVars]float64
			for i := range z {
				z[i] = rng.NormFloat64()
			}
			for i := 0; i < numStochasticVars; i++ {
				shock := 0.0
				for j := 0; j <= i; j++ {
					shock += l[i][j] * z[j]
				}
				realized[p][i] = clip(baseMeans[i]+shock, Floors[i], Ceilings[i])
			}
		}

		// A scheduled rate change shifts every path's realized rate by the
		// schedule delta, preserving the stochastic dispersion around it.
		schedRate := buy.RateForYear(year)
		if schedRate != prevSchedRate {
			delta := schedRate - prevSchedRate
			for p := 0; p < n; p++ {
				realized[p][varMortgageRate] = clip(realized[p][varMortgageRate]+delta,
					Floors[varMortgageRate], Ceilings[varMortgageRate])
			}
			prevSchedRate = schedRate
		}

		// Re-amortize the payment over the remaining term on any path whose
		// rate changed (year 1 always computes).
		remainingMonths := (buy.MortgageTermYears - (year - 1)) * 12
		for p := 0; p < n; p++ {
			rate := realized[p][varMortgageRate]
			if (rate != currentRate[p] || year == 1) && remainingMonths > 0 {
				if mortgageBal[p] > 0 {
					monthlyPmt[p] = MonthlyRepayment(mortgageBal[p], rate, remainingMonths)
				} else {
					monthlyPmt[p] = 0
				}
				currentRate[p] = rate
			}
		}

		for p := 0; p < n; p++ {
			propAppr := realized[p][varPropertyAppreciation]
			invReturn := realized[p][varInvestmentReturn]
			rentInc := realized[p][varRentIncrease]
			inflation := realized[p][varInflation]

			// Closed-form 12-payment amortization:
			// B' = B(1+r)^12 - PMT((1+r)^12 - 1)/r, linear when r = 0.
			var annualMortgage float64
			if mortgageBal[p] > 0 {
				rm := currentRate[p] / 12
				compound12 := 1.0
				annuity12 := 12.0
				if rm > 0 {
					compound12 = math.Pow(1+rm, 12)
					annuity12 = (compound12 - 1) / rm
				}
				newBal := math.Max(mortgageBal[p]*compound12-monthlyPmt[p]*annuity12, 0)
				annualMortgage = monthlyPmt[p] * 12
				mortgageBal[p] = newBal
			}

			propertyValue[p] *= 1 + propAppr

			deflatorYr := math.Pow(1+inflation, float64(year))
			ongoing := propertyValue[p]*(buy.CouncilRatesPct+buy.InsurancePct+buy.MaintenancePct) +
				(buy.WaterRatesAnnual+buy.StrataAnnual)*deflatorYr
			buyYearCosts := annualMortgage + ongoing

			var reinvested float64
			buyInvestments[p], reinvested = growPortfolio(buyInvestments[p], invReturn, inv.DividendYield, effDivRate)
			buyContributions[p] += reinvested

			annualRent := weeklyRent[p] * 52
			rentYearCosts := annualRent + rent.RentersInsuranceAnnual*deflatorYr

			rentInvestments[p], reinvested = growPortfolio(rentInvestments[p], invReturn, inv.DividendYield, effDivRate)
			rentContributions[p] += reinvested

			if buyYearCosts > rentYearCosts {
				surplus := buyYearCosts - rentYearCosts
				rentInvestments[p] += surplus * (1 + invReturn/2)
				rentContributions[p] += surplus
			} else if rentYearCosts > buyYearCosts {
				surplus := rentYearCosts - buyYearCosts
				buyInvestments[p] += surplus * (1 + invReturn/2)
				buyContributions[p] += surplus
			}

			buyNW := (propertyValue[p] - mortgageBal[p]) + buyInvestments[p]
			rentNW := rentInvestments[p]

			ts.BuyNetWorth[year][p] = buyNW
			ts.RentNetWorth[year][p] = rentNW
			ts.PropertyValues[year][p] = propertyValue[p]
			ts.MortgageBalances[year][p] = mortgageBal[p]

			weeklyRent[p] *= 1 + rentInc
		}
	}

	for year := 0; year <= horizon; year++ {
		for p := 0; p < n; p++ {
			ts.Difference[year][p] = ts.BuyNetWorth[year][p] - ts.RentNetWorth[year][p]
		}
	}

	return ts, nil
}

// DefaultPercentiles are the bands reported by Summarize when none are given.
var DefaultPercentiles = []int{10, 25, 50, 75, 90}

// percentile returns the p-th percentile of values using linear
// interpolation between closest ranks.
func percentile(values []float64, p int) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := float64(p) / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func pctilesByYear(grid [][]float64, percentiles []int) map[int][]float64 {
	out := make(map[int][]float64, len(percentiles))
	for _, p := range percentiles {
		series := make([]float64, len(grid))
		for year, row := range grid {
			series[year] = percentile(row, p)
		}
		out[p] = series
	}
	return out
}

// Summarize computes per-year percentile bands, the probability that buying
// wins, and the median crossover year from raw Monte Carlo output.
func Summarize(ts *MCTimeSeries, percentiles []int) MCSummary {
	if len(percentiles) == 0 {
		percentiles = DefaultPercentiles
	}

	summary := MCSummary{
		Years:       ts.Years,
		Percentiles: percentiles,
		BuyPctiles:  pctilesByYear(ts.BuyNetWorth, percentiles),
		RentPctiles: pctilesByYear(ts.RentNetWorth, percentiles),
		DiffPctiles: pctilesByYear(ts.Difference, percentiles),
		ProbBuyWins: make([]float64, len(ts.Years)),
	}

	for year, row := range ts.Difference {
		wins := 0
		for _, d := range row {
			if d > 0 {
				wins++
			}
		}
		summary.ProbBuyWins[year] = float64(wins) / float64(len(row))
	}

	medianDiff := summary.DiffPctiles[50]
	if medianDiff == nil {
		// 50 not among the requested percentiles; compute it for crossover
		medianDiff = pctilesByYear(ts.Difference, []int{50})[50]
	}
	for i := 1; i < len(medianDiff); i++ {
		if medianDiff[i-1] <= 0 && medianDiff[i] > 0 {
			summary.MedianCrossover = ts.Years[i]
			summary.HasMedianCrossover = true
			break
		}
	}

	return summary
}
