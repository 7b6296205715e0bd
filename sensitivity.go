package main

import (
	"fmt"
	"math"
	"strings"
)

// Sensitivity analysis: sweep one scenario parameter across a range of values
// and report how the horizon-end outcome moves.

// SweepResult captures the horizon-end outcome for one swept value.
type SweepResult struct {
	ParamValue     float64
	BuyNWReal      float64
	RentNWReal     float64
	DifferenceReal float64
	BuyWins        bool
	Crossover      int
	HasCrossover   bool

	// After-tax liquidation at horizon, in real dollars.
	BuyLiquidationReal  float64
	RentLiquidationReal float64
}

// sweepSetter returns a function assigning to the named scenario parameter.
// Paths use dotted snake_case mirroring the config file schema, e.g.
// "buy.mortgage_rate" or "inflation_rate". The schema is closed: only numeric
// scalar parameters can be swept.
func sweepSetter(params *ScenarioParams, path string) (func(float64), error) {
	switch path {
	case "buy.purchase_price":
		return func(v float64) { params.Buy.PurchasePrice = v }, nil
	case "buy.deposit_pct":
		return func(v float64) { params.Buy.DepositPct = v }, nil
	case "buy.mortgage_rate":
		return func(v float64) { params.Buy.MortgageRate = v }, nil
	case "buy.property_appreciation_rate":
		return func(v float64) { params.Buy.PropertyAppreciationRate = v }, nil
	case "buy.council_rates_pct":
		return func(v float64) { params.Buy.CouncilRatesPct = v }, nil
	case "buy.insurance_pct":
		return func(v float64) { params.Buy.InsurancePct = v }, nil
	case "buy.maintenance_pct":
		return func(v float64) { params.Buy.MaintenancePct = v }, nil
	case "buy.water_rates_annual":
		return func(v float64) { params.Buy.WaterRatesAnnual = v }, nil
	case "buy.strata_annual":
		return func(v float64) { params.Buy.StrataAnnual = v }, nil
	case "buy.selling_agent_pct":
		return func(v float64) { params.Buy.SellingAgentPct = v }, nil
	case "buy.selling_legal":
		return func(v float64) { params.Buy.SellingLegal = v }, nil
	case "buy.lmi":
		return func(v float64) { params.Buy.LMI = v }, nil
	case "rent.weekly_rent":
		return func(v float64) { params.Rent.WeeklyRent = v }, nil
	case "rent.rent_increase_rate":
		return func(v float64) { params.Rent.RentIncreaseRate = v }, nil
	case "rent.renters_insurance_annual":
		return func(v float64) { params.Rent.RentersInsuranceAnnual = v }, nil
	case "investment.return_rate":
		return func(v float64) { params.Investment.ReturnRate = v }, nil
	case "investment.dividend_yield":
		return func(v float64) { params.Investment.DividendYield = v }, nil
	case "investment.franking_rate":
		return func(v float64) { params.Investment.FrankingRate = v }, nil
	case "tax.gross_income":
		return func(v float64) { params.Tax.GrossIncome = v }, nil
	case "inflation_rate":
		return func(v float64) { params.InflationRate = v }, nil
	case "existing_savings":
		return func(v float64) { params.ExistingSavings = v }, nil
	default:
		return nil, fmt.Errorf("unknown sweep parameter %q", path)
	}
}

// Sweep runs the deterministic simulation once per value of the named
// parameter. Each run works on an independent clone; the input params are
// never mutated.
func Sweep(params ScenarioParams, paramPath string, values []float64) ([]SweepResult, error) {
	if _, err := sweepSetter(&params, paramPath); err != nil {
		return nil, err
	}

	results := make([]SweepResult, 0, len(values))

	for _, val := range values {
		p := params.Clone()
		set, _ := sweepSetter(&p, paramPath)
		set(val)

		snapshots, err := Simulate(p)
		if err != nil {
			return nil, fmt.Errorf("sweep %s=%g: %w", paramPath, val, err)
		}
		final := snapshots[len(snapshots)-1]
		crossover, hasCrossover := CrossoverYear(snapshots)
		liquidation := NetWorthAtSale(final, p)

		results = append(results, SweepResult{
			ParamValue:          val,
			BuyNWReal:           final.BuyNetWorthReal,
			RentNWReal:          final.RentNetWorthReal,
			DifferenceReal:      final.NetWorthDifferenceReal,
			BuyWins:             final.NetWorthDifferenceReal > 0,
			Crossover:           crossover,
			HasCrossover:        hasCrossover,
			BuyLiquidationReal:  liquidation.BuyNetWorthAfterSaleReal,
			RentLiquidationReal: liquidation.RentNetWorthAfterTaxReal,
		})
	}

	return results, nil
}

// FormatSweep renders sweep results as an aligned text table. Rate-like
// parameters format as percentages, dollar amounts as plain numbers.
func FormatSweep(paramPath string, results []SweepResult, isPercentage bool) string {
	parts := strings.Split(paramPath, ".")
	label := parts[len(parts)-1]

	header := fmt.Sprintf("%2s %12s | %14s | %14s | %14s | %6s | %9s",
		"", label, "Buy NW (real)", "Rent NW (real)", "Diff", "Winner", "Crossover")
	sep := strings.Repeat("-", len(header))

	lines := []string{
		fmt.Sprintf("Sensitivity: %s (at end of time horizon)", paramPath),
		header,
		sep,
	}

	for _, r := range results {
		var valStr string
		if isPercentage {
			valStr = fmt.Sprintf("%.2f%%", r.ParamValue*100)
		} else {
			valStr = groupThousands(r.ParamValue)
		}
		winner := "Rent"
		if r.BuyWins {
			winner = "Buy"
		}
		xover := "N/A"
		if r.HasCrossover {
			xover = fmt.Sprintf("Year %d", r.Crossover)
		}
		lines = append(lines, fmt.Sprintf("%2s %12s | %14s | %14s | %14s | %6s | %9s",
			"", valStr, FormatMoney(r.BuyNWReal), FormatMoney(r.RentNWReal),
			FormatMoney(r.DifferenceReal), winner, xover))
	}

	return strings.Join(lines, "\n")
}

// FRange generates values from start to stop inclusive by step, with a half
// step of tolerance so floating-point drift cannot drop the endpoint.
func FRange(start, stop, step float64) []float64 {
	var values []float64
	for val := start; val <= stop+step/2; val += step {
		values = append(values, math.Round(val*1e6)/1e6)
	}
	return values
}
