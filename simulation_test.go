package main

import (
	"math"
	"testing"
)

// Deterministic Simulation Tests

const moneyTolerance = 0.01

func assertClose(t *testing.T, expected, actual, tolerance float64, description string) {
	t.Helper()
	if math.Abs(expected-actual) > tolerance {
		t.Errorf("%s: expected %.2f, got %.2f (diff: %.2f)",
			description, expected, actual, actual-expected)
	}
}

func mustSimulate(t *testing.T, params ScenarioParams) []YearSnapshot {
	t.Helper()
	snapshots, err := Simulate(params)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	return snapshots
}

func TestSimulateSnapshotCount(t *testing.T) {
	params := DefaultScenarioParams()
	snapshots := mustSimulate(t, params)

	if len(snapshots) != params.TimeHorizonYears+1 {
		t.Fatalf("expected %d snapshots, got %d", params.TimeHorizonYears+1, len(snapshots))
	}
	for i, s := range snapshots {
		if s.Year != i {
			t.Errorf("snapshot %d has year %d", i, s.Year)
		}
	}
}

func TestSimulateYearZero(t *testing.T) {
	params := DefaultScenarioParams()
	snapshots := mustSimulate(t, params)
	s0 := snapshots[0]

	// $800k at 20% deposit in NSW, non-FHB: upfront = 160000 + 30530 duty.
	assertClose(t, 190530, s0.BuyCumulativeCosts, moneyTolerance, "upfront buy costs")
	assertClose(t, 800000, s0.PropertyValue, moneyTolerance, "initial property value")
	assertClose(t, 640000, s0.MortgageBalance, moneyTolerance, "initial mortgage")
	assertClose(t, 160000, s0.BuyEquity, moneyTolerance, "initial equity")
	assertClose(t, 9470, s0.BuyInvestments, moneyTolerance, "leftover savings invested")
	assertClose(t, 200000, s0.RentNetWorth, moneyTolerance, "renter keeps full savings")

	// Year 0 the buyer is behind by exactly the stamp duty.
	assertClose(t, -30530, s0.NetWorthDifference, moneyTolerance, "year 0 difference is -duty")
}

func TestSimulatePropertyAppreciation(t *testing.T) {
	params := DefaultScenarioParams()
	snapshots := mustSimulate(t, params)

	for _, s := range snapshots {
		expected := params.Buy.PurchasePrice * math.Pow(1+params.Buy.PropertyAppreciationRate, float64(s.Year))
		assertClose(t, expected, s.PropertyValue, 0.01, "property compounds at the appreciation rate")
	}
}

func TestSimulateMortgagePaidOffAtTerm(t *testing.T) {
	params := DefaultScenarioParams()
	snapshots := mustSimulate(t, params)

	prev := snapshots[0].MortgageBalance
	for _, s := range snapshots[1:] {
		if s.MortgageBalance > prev+moneyTolerance {
			t.Errorf("year %d: mortgage balance increased from %.2f to %.2f", s.Year, prev, s.MortgageBalance)
		}
		prev = s.MortgageBalance
	}

	final := snapshots[len(snapshots)-1]
	if final.MortgageBalance > 1.00 {
		t.Errorf("mortgage should be cleared at the end of its term, balance %.2f", final.MortgageBalance)
	}
}

func TestSimulateRealDeflation(t *testing.T) {
	params := DefaultScenarioParams()
	snapshots := mustSimulate(t, params)

	for _, s := range snapshots {
		deflator := math.Pow(1+params.InflationRate, float64(s.Year))
		assertClose(t, s.BuyNetWorth/deflator, s.BuyNetWorthReal, 0.01, "buy real = nominal / deflator")
		assertClose(t, s.RentNetWorth/deflator, s.RentNetWorthReal, 0.01, "rent real = nominal / deflator")
	}
}

func TestSimulateRentEscalation(t *testing.T) {
	params := DefaultScenarioParams()
	snapshots := mustSimulate(t, params)

	// Year 1 pays the initial weekly rent; each later year escalates.
	assertClose(t, params.Rent.WeeklyRent*52, snapshots[1].AnnualRent, 0.01, "year 1 annual rent")
	for _, s := range snapshots[2:] {
		expected := params.Rent.WeeklyRent * 52 * math.Pow(1+params.Rent.RentIncreaseRate, float64(s.Year-1))
		assertClose(t, expected, s.AnnualRent, 0.01, "rent compounds at the increase rate")
	}
}

func TestSimulateUnsupportedStateFails(t *testing.T) {
	params := DefaultScenarioParams()
	params.Buy.State = "WA"
	if _, err := Simulate(params); err == nil {
		t.Fatal("expected error for unsupported state")
	}
}

func TestRateScheduleBeatsFlatRate(t *testing.T) {
	// Dropping from 6% to 4% in year 5 must leave the buyer better off than
	// a flat 6% for the life of the loan.
	flat := DefaultScenarioParams()
	flat.Buy.MortgageRate = 0.06

	scheduled := DefaultScenarioParams()
	scheduled.Buy.MortgageRate = 0.06
	scheduled.Buy.RateSchedule = []RateEntry{
		{Year: 1, Rate: 0.06},
		{Year: 5, Rate: 0.04},
	}

	flatSnaps := mustSimulate(t, flat)
	schedSnaps := mustSimulate(t, scheduled)

	if schedSnaps[10].BuyNetWorth <= flatSnaps[10].BuyNetWorth {
		t.Errorf("rate drop should lift year-10 buy net worth: scheduled %.2f vs flat %.2f",
			schedSnaps[10].BuyNetWorth, flatSnaps[10].BuyNetWorth)
	}
	if schedSnaps[10].NetWorthDifference <= flatSnaps[10].NetWorthDifference {
		t.Errorf("rate drop should improve the buy position by year 10: scheduled %.2f vs flat %.2f",
			schedSnaps[10].NetWorthDifference, flatSnaps[10].NetWorthDifference)
	}
	// Before the drop both scenarios are identical.
	assertClose(t, flatSnaps[4].NetWorthDifference, schedSnaps[4].NetWorthDifference, 0.01,
		"identical until the schedule kicks in")
}

func TestGrowPortfolio(t *testing.T) {
	// 7% return, 2% dividends taxed at 39%: 100k grows by 7000 less 780 tax,
	// with 1220 of after-tax dividends reinvested into the cost base.
	newBal, reinvested := growPortfolio(100000, 0.07, 0.02, 0.39)
	assertClose(t, 106220, newBal, moneyTolerance, "balance after growth and dividend tax")
	assertClose(t, 1220, reinvested, moneyTolerance, "after-tax dividends reinvested")
}

func TestUpfrontBuyCosts(t *testing.T) {
	t.Run("standard buyer pays deposit plus duty", func(t *testing.T) {
		params := DefaultScenarioParams()
		upfront, err := UpfrontBuyCosts(&params)
		if err != nil {
			t.Fatal(err)
		}
		assertClose(t, 190530, upfront, moneyTolerance, "deposit 160000 + NSW duty 30530")
	})

	t.Run("first home buyer exempt from duty", func(t *testing.T) {
		params := DefaultScenarioParams()
		params.Buy.FirstHomeBuyer = true
		upfront, err := UpfrontBuyCosts(&params)
		if err != nil {
			t.Fatal(err)
		}
		assertClose(t, 160000, upfront, moneyTolerance, "deposit only at $800k FHB")
	})

	t.Run("new build FHB also gets the grant", func(t *testing.T) {
		params := DefaultScenarioParams()
		params.Buy.FirstHomeBuyer = true
		params.Buy.NewBuild = true
		upfront, err := UpfrontBuyCosts(&params)
		if err != nil {
			t.Fatal(err)
		}
		assertClose(t, 150000, upfront, moneyTolerance, "deposit less $10k FHOG")
	})

	t.Run("LMI adds to upfront costs", func(t *testing.T) {
		params := DefaultScenarioParams()
		params.Buy.LMI = 16934
		upfront, err := UpfrontBuyCosts(&params)
		if err != nil {
			t.Fatal(err)
		}
		assertClose(t, 190530+16934, upfront, moneyTolerance, "LMI premium included")
	})
}

// =============================================================================
// Liquidation Tests
// =============================================================================

func TestNetWorthAtSale(t *testing.T) {
	params := DefaultScenarioParams()
	snapshot := YearSnapshot{
		Year:              10,
		PropertyValue:     1000000,
		MortgageBalance:   400000,
		BuyInvestments:    100000,
		BuyContributions:  80000,
		RentInvestments:   500000,
		RentContributions: 300000,
	}

	result := NetWorthAtSale(snapshot, params)
	deflator := math.Pow(1.03, 10)

	// PPOR sale: 2% agent commission, legal costs inflated to year 10,
	// no CGT on the home itself.
	proceeds := 1000000*0.98 - 2000*deflator
	buyCGT := CalcCGT(20000, 0.39, true, false)
	expectedBuy := proceeds - 400000 + 100000 - buyCGT
	assertClose(t, expectedBuy, result.BuyNetWorthAfterSale, 0.01, "buy after-sale net worth")

	rentCGT := CalcCGT(200000, 0.39, true, false)
	assertClose(t, 500000-rentCGT, result.RentNetWorthAfterTax, 0.01, "rent after-CGT net worth")

	assertClose(t, expectedBuy-(500000-rentCGT), result.Difference, 0.01, "difference")
	if result.BuyWins != (result.Difference > 0) {
		t.Error("BuyWins must match the sign of the difference")
	}
	assertClose(t, expectedBuy/deflator, result.BuyNetWorthAfterSaleReal, 0.01, "real buy after-sale")
}

func TestNetWorthAtSaleNegativeEquity(t *testing.T) {
	// A mortgage exceeding the sale proceeds is full recourse: the shortfall
	// comes out of net worth rather than being written off.
	params := DefaultScenarioParams()
	snapshot := YearSnapshot{
		Year:            1,
		PropertyValue:   500000,
		MortgageBalance: 600000,
	}

	result := NetWorthAtSale(snapshot, params)
	if result.BuyNetWorthAfterSale >= 0 {
		t.Errorf("underwater sale should leave negative net worth, got %.2f", result.BuyNetWorthAfterSale)
	}
}

func TestNetWorthAtSaleNoLossHarvesting(t *testing.T) {
	// Portfolio losses never produce negative CGT.
	params := DefaultScenarioParams()
	snapshot := YearSnapshot{
		Year:              5,
		PropertyValue:     900000,
		RentInvestments:   250000,
		RentContributions: 300000,
	}

	result := NetWorthAtSale(snapshot, params)
	assertClose(t, 250000, result.RentNetWorthAfterTax, 0.01, "losses incur no CGT")
}
