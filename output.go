package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Console and CSV rendering of simulation results.

// commaSep formats a number with the given decimals and comma-grouped
// thousands, e.g. 1234567.8 -> "1,234,568" at 0 decimals.
func commaSep(value float64, decimals int) string {
	s := strconv.FormatFloat(value, 'f', decimals, 64)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, fracPart := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + fracPart
}

func groupThousands(value float64) string {
	return commaSep(value, 0)
}

// FormatMoney formats a dollar amount: millions as "$1.23M", otherwise
// whole dollars with thousands separators.
func FormatMoney(value float64) string {
	if math.Abs(value) >= 1_000_000 {
		return fmt.Sprintf("$%sM", commaSep(value/1_000_000, 2))
	}
	return "$" + groupThousands(value)
}

func pct(value float64, decimals int) string {
	return strconv.FormatFloat(value*100, 'f', decimals, 64) + "%"
}

// SummaryHeader renders the key scenario parameters.
func SummaryHeader(params *ScenarioParams) (string, error) {
	buy := &params.Buy
	rent := &params.Rent
	inv := &params.Investment

	stamp, err := buy.StampDuty()
	if err != nil {
		return "", err
	}

	lines := []string{
		"Australian Housing Model - Buy vs Rent Analysis",
		strings.Repeat("=", 70),
		"",
		fmt.Sprintf("  Purchase price:  %s (%s)", FormatMoney(buy.PurchasePrice), buy.State),
		fmt.Sprintf("  Deposit:         %s (%s)", pct(buy.DepositPct, 0), FormatMoney(buy.Deposit())),
		fmt.Sprintf("  Stamp duty:      %s", FormatMoney(stamp)),
		fmt.Sprintf("  Loan amount:     %s", FormatMoney(buy.LoanAmount())),
		fmt.Sprintf("  Mortgage rate:   %s p.a. (%dyr)", pct(buy.MortgageRate, 2), buy.MortgageTermYears),
	}

	if len(buy.RateSchedule) > 0 {
		schedule := make([]RateEntry, len(buy.RateSchedule))
		copy(schedule, buy.RateSchedule)
		sort.Slice(schedule, func(i, j int) bool { return schedule[i].Year < schedule[j].Year })
		entries := make([]string, len(schedule))
		for i, e := range schedule {
			entries[i] = fmt.Sprintf("yr%d: %s", e.Year, pct(e.Rate, 2))
		}
		lines = append(lines, fmt.Sprintf("  Rate schedule:   %s", strings.Join(entries, ", ")))
	}
	if buy.LMI > 0 {
		lines = append(lines, fmt.Sprintf("  LMI premium:     %s (LVR %s)", FormatMoney(buy.LMI), pct(buy.LVR(), 0)))
	}
	if buy.StrataAnnual > 0 {
		lines = append(lines, fmt.Sprintf("  Strata:          %s/yr", FormatMoney(buy.StrataAnnual)))
	}

	lines = append(lines,
		fmt.Sprintf("  Appreciation:    %s p.a.", pct(buy.PropertyAppreciationRate, 1)),
		"",
		fmt.Sprintf("  Weekly rent:     $%s (increases %s/yr)", groupThousands(rent.WeeklyRent), pct(rent.RentIncreaseRate, 1)),
		fmt.Sprintf("  Savings:         %s", FormatMoney(params.ExistingSavings)),
		fmt.Sprintf("  Investment return: %s p.a. (div yield %s)", pct(inv.ReturnRate, 1), pct(inv.DividendYield, 1)),
		fmt.Sprintf("  Inflation:       %s p.a.", pct(params.InflationRate, 1)),
		fmt.Sprintf("  Tax bracket:     %s (income %s)", pct(params.Tax.MarginalRate(), 0), FormatMoney(params.Tax.GrossIncome)),
		"",
	)

	return strings.Join(lines, "\n"), nil
}

// keyYears returns the standard 5-year reporting intervals clipped to the
// horizon, always including the horizon itself.
func keyYears(horizon int) []int {
	years := []int{}
	for _, y := range []int{0, 5, 10, 15, 20, 25, 30} {
		if y <= horizon {
			years = append(years, y)
		}
	}
	if years[len(years)-1] != horizon {
		years = append(years, horizon)
	}
	return years
}

func snapshotByYear(snapshots []YearSnapshot) map[int]YearSnapshot {
	m := make(map[int]YearSnapshot, len(snapshots))
	for _, s := range snapshots {
		m[s.Year] = s
	}
	return m
}

// SummaryTable renders net worth at 5-year intervals, nominal and real.
func SummaryTable(snapshots []YearSnapshot, params *ScenarioParams) string {
	byYear := snapshotByYear(snapshots)

	header := fmt.Sprintf("%4s | %14s | %14s | %14s | %14s | %6s",
		"Year", "Buy NW (nom)", "Buy NW (real)", "Rent NW (nom)", "Rent NW (real)", "Winner")
	lines := []string{header, strings.Repeat("-", len(header))}

	for _, year := range keyYears(params.TimeHorizonYears) {
		s, ok := byYear[year]
		if !ok {
			continue
		}
		winner := "Rent"
		if s.NetWorthDifference > 0 {
			winner = "Buy"
		}
		lines = append(lines, fmt.Sprintf("%4d | %14s | %14s | %14s | %14s | %6s",
			s.Year, FormatMoney(s.BuyNetWorth), FormatMoney(s.BuyNetWorthReal),
			FormatMoney(s.RentNetWorth), FormatMoney(s.RentNetWorthReal), winner))
	}

	return strings.Join(lines, "\n")
}

// CrossoverYear finds the first year where buying starts winning: the net
// worth difference moves from <= 0 to > 0. Returns false if it never does.
func CrossoverYear(snapshots []YearSnapshot) (int, bool) {
	for i := 1; i < len(snapshots); i++ {
		if snapshots[i-1].NetWorthDifference <= 0 && snapshots[i].NetWorthDifference > 0 {
			return snapshots[i].Year, true
		}
	}
	return 0, false
}

// LiquidationSummary renders the after-tax sell-everything comparison at
// 5-year intervals.
func LiquidationSummary(snapshots []YearSnapshot, params *ScenarioParams) string {
	byYear := snapshotByYear(snapshots)

	header := fmt.Sprintf("%4s | %16s | %16s | %14s | %6s",
		"Year", "Buy (after sale)", "Rent (after CGT)", "Diff", "Winner")
	lines := []string{"After-tax liquidation comparison:", header, strings.Repeat("-", len(header))}

	for _, year := range []int{5, 10, 15, 20, 25, 30} {
		if year > params.TimeHorizonYears {
			break
		}
		s, ok := byYear[year]
		if !ok {
			continue
		}
		result := NetWorthAtSale(s, *params)
		winner := "Rent"
		if result.BuyWins {
			winner = "Buy"
		}
		lines = append(lines, fmt.Sprintf("%4d | %16s | %16s | %14s | %6s",
			year, FormatMoney(result.BuyNetWorthAfterSale),
			FormatMoney(result.RentNetWorthAfterTax),
			FormatMoney(result.Difference), winner))
	}

	return strings.Join(lines, "\n")
}

// DetailedTable renders the full year-by-year breakdown.
func DetailedTable(snapshots []YearSnapshot) string {
	header := fmt.Sprintf("%3s | %12s | %12s | %5s | %10s | %12s | %10s | %12s | %12s | %12s",
		"Yr", "Prop Value", "Mortgage", "Rate",
		"Buy Costs", "Buy NW",
		"Rent", "Rent Inv", "Rent NW", "Diff")
	lines := []string{header, strings.Repeat("-", len(header))}

	for _, s := range snapshots {
		lines = append(lines, fmt.Sprintf("%3d | %12s | %12s | %5s | %10s | %12s | %10s | %12s | %12s | %12s",
			s.Year, FormatMoney(s.PropertyValue), FormatMoney(s.MortgageBalance),
			pct(s.MortgageRateUsed, 1),
			FormatMoney(s.BuyHousingCosts), FormatMoney(s.BuyNetWorth),
			FormatMoney(s.AnnualRent), FormatMoney(s.RentInvestments),
			FormatMoney(s.RentNetWorth), FormatMoney(s.NetWorthDifference)))
	}

	return strings.Join(lines, "\n")
}

var csvHeader = []string{
	"year", "property_value", "mortgage_balance", "mortgage_rate",
	"buy_housing_costs", "buy_cumulative_costs", "buy_equity",
	"buy_investments", "buy_contributions", "buy_net_worth", "buy_net_worth_real",
	"annual_rent", "rent_housing_costs", "rent_cumulative_costs",
	"rent_investments", "rent_contributions", "rent_net_worth", "rent_net_worth_real",
	"net_worth_difference", "net_worth_difference_real",
}

// ToCSV exports snapshots as CSV. Money columns carry two decimals, the
// mortgage rate four.
func ToCSV(snapshots []YearSnapshot) string {
	var buf strings.Builder
	w := csv.NewWriter(&buf)

	w.Write(csvHeader)
	money := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
	for _, s := range snapshots {
		w.Write([]string{
			strconv.Itoa(s.Year), money(s.PropertyValue), money(s.MortgageBalance),
			strconv.FormatFloat(s.MortgageRateUsed, 'f', 4, 64),
			money(s.BuyHousingCosts), money(s.BuyCumulativeCosts),
			money(s.BuyEquity), money(s.BuyInvestments),
			money(s.BuyContributions), money(s.BuyNetWorth),
			money(s.BuyNetWorthReal),
			money(s.AnnualRent), money(s.RentHousingCosts),
			money(s.RentCumulativeCosts), money(s.RentInvestments),
			money(s.RentContributions), money(s.RentNetWorth),
			money(s.RentNetWorthReal),
			money(s.NetWorthDifference), money(s.NetWorthDifferenceReal),
		})
	}
	w.Flush()
	return buf.String()
}

// FullReport renders the complete console report: header, summary table,
// crossover verdict and liquidation comparison.
func FullReport(snapshots []YearSnapshot, params *ScenarioParams) (string, error) {
	header, err := SummaryHeader(params)
	if err != nil {
		return "", err
	}

	parts := []string{
		header,
		SummaryTable(snapshots, params),
		"",
	}

	if xover, ok := CrossoverYear(snapshots); ok {
		parts = append(parts, fmt.Sprintf("Crossover point: Year %d (buying becomes better)", xover))
	} else if snapshots[len(snapshots)-1].NetWorthDifference > 0 {
		parts = append(parts, "Buying is better from the start.")
	} else {
		parts = append(parts, "Renting is better for the entire time horizon.")
	}

	parts = append(parts, "", LiquidationSummary(snapshots, params))

	return strings.Join(parts, "\n"), nil
}

// FormatMCSummary renders Monte Carlo percentile bands at 5-year intervals
// plus the probability that buying wins.
func FormatMCSummary(summary MCSummary, nRuns int) string {
	horizon := summary.Years[len(summary.Years)-1]

	lines := []string{
		fmt.Sprintf("Monte Carlo simulation (%s runs)", groupThousands(float64(nRuns))),
		"",
	}

	header := fmt.Sprintf("%4s | %14s | %14s | %14s | %12s",
		"Year", "Diff p10", "Diff p50", "Diff p90", "P(buy wins)")
	lines = append(lines, "Net worth difference (buy - rent):", header, strings.Repeat("-", len(header)))

	p10 := summary.DiffPctiles[10]
	p50 := summary.DiffPctiles[50]
	p90 := summary.DiffPctiles[90]
	for _, year := range keyYears(horizon) {
		lines = append(lines, fmt.Sprintf("%4d | %14s | %14s | %14s | %11.1f%%",
			year, FormatMoney(p10[year]), FormatMoney(p50[year]), FormatMoney(p90[year]),
			summary.ProbBuyWins[year]*100))
	}

	lines = append(lines, "")
	if summary.HasMedianCrossover {
		lines = append(lines, fmt.Sprintf("Median crossover: Year %d", summary.MedianCrossover))
	} else if p50[len(p50)-1] > 0 {
		lines = append(lines, "Median path: buying is better from the start.")
	} else {
		lines = append(lines, "Median path: renting is better for the entire horizon.")
	}

	return strings.Join(lines, "\n")
}
