package main

import "math"

// Deterministic year-by-year simulation of buy vs rent net worth.
//
// Buy scenario: deposit + stamp duty + LMI (less any FHOG) leave savings at
// purchase; monthly P&I repayments plus ongoing ownership costs follow; the
// property appreciates while the mortgage amortizes. Net worth is equity plus
// whatever savings remained invested.
//
// Rent scenario: full savings stay invested; rent and renters insurance are
// the only housing costs. Net worth is the portfolio value.
//
// Both scenarios assume the same total income, so whichever side is cheaper
// in a given year invests the cost difference into its own portfolio.

// YearSnapshot is the state at the end of one simulated year. Snapshots are
// produced once per run and never mutated afterwards.
type YearSnapshot struct {
	Year int

	// Buy scenario
	PropertyValue      float64
	MortgageBalance    float64
	MortgageRateUsed   float64 // rate in effect this year
	BuyHousingCosts    float64 // mortgage + ongoing costs this year
	BuyCumulativeCosts float64
	BuyEquity          float64 // property value - mortgage balance
	BuyInvestments     float64
	BuyContributions   float64 // cost base of buy-side investments
	BuyNetWorth        float64
	BuyNetWorthReal    float64 // deflated to year-0 dollars

	// Rent scenario
	AnnualRent          float64
	RentHousingCosts    float64
	RentCumulativeCosts float64
	RentInvestments     float64
	RentContributions   float64
	RentNetWorth        float64
	RentNetWorthReal    float64

	// Comparison (positive = buy wins)
	NetWorthDifference     float64
	NetWorthDifferenceReal float64
}

// MonthlyRepayment calculates the monthly P&I payment amortizing a principal
// over a number of months. A zero rate amortizes straight-line.
func MonthlyRepayment(principal, annualRate float64, months int) float64 {
	if months <= 0 {
		return 0
	}
	n := float64(months)
	if annualRate == 0 {
		return principal / n
	}
	r := annualRate / 12
	factor := math.Pow(1+r, n)
	return principal * (r * factor) / (factor - 1)
}

// mortgageYear simulates 12 monthly P&I payments, stopping early once the
// balance reaches zero. Returns the new balance and the principal and
// interest paid during the year.
func mortgageYear(balance, annualRate, monthlyPayment float64) (newBalance, principalPaid, interestPaid float64) {
	for month := 0; month < 12; month++ {
		interest := balance * (annualRate / 12)
		principal := monthlyPayment - interest
		if principal > balance {
			principal = balance
			interest = 0
		}
		balance -= principal
		interestPaid += interest
		principalPaid += principal
		if balance <= 0 {
			break
		}
	}
	return math.Max(balance, 0), principalPaid, interestPaid
}

// growPortfolio grows an investment portfolio for one year: the full return
// compounds, but the dividend portion is taxed annually at the effective
// dividend rate. Returns the new balance and the after-tax dividends that
// were reinvested (these increase the cost base).
func growPortfolio(balance, returnRate, dividendYield, effectiveDivRate float64) (newBalance, reinvestedDividends float64) {
	grossReturn := balance * returnRate
	dividends := balance * dividendYield
	dividendTax := dividends * effectiveDivRate
	return balance + grossReturn - dividendTax, dividends - dividendTax
}

// UpfrontBuyCosts returns the cash consumed at purchase: deposit plus stamp
// duty plus LMI, less any First Home Owner Grant.
func UpfrontBuyCosts(params *ScenarioParams) (float64, error) {
	buy := &params.Buy
	stampDuty, err := buy.StampDuty()
	if err != nil {
		return 0, err
	}
	grant := 0.0
	if buy.FirstHomeBuyer {
		grant = FHOG(buy.State, buy.NewBuild, buy.PurchasePrice)
	}
	return buy.Deposit() + stampDuty + buy.LMI - grant, nil
}

// Simulate runs the deterministic year-by-year simulation and returns one
// snapshot per year from 0 to TimeHorizonYears inclusive.
func Simulate(params ScenarioParams) ([]YearSnapshot, error) {
	buy := &params.Buy
	rent := &params.Rent
	inv := &params.Investment

	upfront, err := UpfrontBuyCosts(&params)
	if err != nil {
		return nil, err
	}

	effDivRate := EffectiveDividendRate(params.Tax.MarginalRate(), inv.FrankingRate)

	// Initial mortgage state
	mortgageBal := buy.LoanAmount()
	currentRate := buy.RateForYear(1)
	monthlyPmt := MonthlyRepayment(mortgageBal, currentRate, buy.MortgageTermYears*12)

	propertyValue := buy.PurchasePrice
	buyInvestments := math.Max(params.ExistingSavings-upfront, 0)
	buyContributions := buyInvestments
	buyCumulative := upfront

	rentInvestments := params.ExistingSavings
	rentContributions := params.ExistingSavings
	weeklyRent := rent.WeeklyRent
	rentCumulative := 0.0

	snapshots := make([]YearSnapshot, 0, params.TimeHorizonYears+1)

	buyNW0 := (propertyValue - mortgageBal) + buyInvestments
	snapshots = append(snapshots, YearSnapshot{
		Year:                   0,
		PropertyValue:          propertyValue,
		MortgageBalance:        mortgageBal,
		MortgageRateUsed:       currentRate,
		BuyHousingCosts:        upfront,
		BuyCumulativeCosts:     buyCumulative,
		BuyEquity:              propertyValue - mortgageBal,
		BuyInvestments:         buyInvestments,
		BuyContributions:       buyContributions,
		BuyNetWorth:            buyNW0,
		BuyNetWorthReal:        buyNW0,
		RentInvestments:        rentInvestments,
		RentContributions:      rentContributions,
		RentNetWorth:           rentInvestments,
		RentNetWorthReal:       rentInvestments,
		NetWorthDifference:     buyNW0 - rentInvestments,
		NetWorthDifferenceReal: buyNW0 - rentInvestments,
	})

	for year := 1; year <= params.TimeHorizonYears; year++ {
		deflator := math.Pow(1+params.InflationRate, float64(year))

		// Variable rate: recompute payment over the remaining term when the
		// scheduled rate changes.
		yearRate := buy.RateForYear(year)
		if yearRate != currentRate && mortgageBal > 0 {
			currentRate = yearRate
			remainingMonths := (buy.MortgageTermYears - (year - 1)) * 12
			if remainingMonths > 0 {
				monthlyPmt = MonthlyRepayment(mortgageBal, currentRate, remainingMonths)
			}
		}

		// Buy scenario
		var annualMortgage float64
		if mortgageBal > 0 {
			var principalPaid, interestPaid float64
			mortgageBal, principalPaid, interestPaid = mortgageYear(mortgageBal, currentRate, monthlyPmt)
			annualMortgage = principalPaid + interestPaid
		}

		propertyValue *= 1 + buy.PropertyAppreciationRate

		ongoing := propertyValue*(buy.CouncilRatesPct+buy.InsurancePct+buy.MaintenancePct) +
			(buy.WaterRatesAnnual+buy.StrataAnnual)*deflator

		buyYearCosts := annualMortgage + ongoing
		buyCumulative += buyYearCosts

		var reinvested float64
		buyInvestments, reinvested = growPortfolio(buyInvestments, inv.ReturnRate, inv.DividendYield, effDivRate)
		buyContributions += reinvested

		// Rent scenario
		annualRentCost := weeklyRent * 52
		rentYearCosts := annualRentCost + rent.RentersInsuranceAnnual*deflator
		rentCumulative += rentYearCosts

		rentInvestments, reinvested = growPortfolio(rentInvestments, inv.ReturnRate, inv.DividendYield, effDivRate)
		rentContributions += reinvested

		// Whichever side pays more, the other invests the gap. Mid-year
		// approximation: the surplus earns about half a year of returns.
		if buyYearCosts > rentYearCosts {
			surplus := buyYearCosts - rentYearCosts
			rentInvestments += surplus * (1 + inv.ReturnRate/2)
			rentContributions += surplus
		} else if rentYearCosts > buyYearCosts {
			surplus := rentYearCosts - buyYearCosts
			buyInvestments += surplus * (1 + inv.ReturnRate/2)
			buyContributions += surplus
		}

		buyEquity := propertyValue - mortgageBal
		buyNW := buyEquity + buyInvestments
		rentNW := rentInvestments

		snapshots = append(snapshots, YearSnapshot{
			Year:                   year,
			PropertyValue:          propertyValue,
			MortgageBalance:        mortgageBal,
			MortgageRateUsed:       currentRate,
			BuyHousingCosts:        buyYearCosts,
			BuyCumulativeCosts:     buyCumulative,
			BuyEquity:              buyEquity,
			BuyInvestments:         buyInvestments,
			BuyContributions:       buyContributions,
			BuyNetWorth:            buyNW,
			BuyNetWorthReal:        buyNW / deflator,
			AnnualRent:             annualRentCost,
			RentHousingCosts:       rentYearCosts,
			RentCumulativeCosts:    rentCumulative,
			RentInvestments:        rentInvestments,
			RentContributions:      rentContributions,
			RentNetWorth:           rentNW,
			RentNetWorthReal:       rentNW / deflator,
			NetWorthDifference:     buyNW - rentNW,
			NetWorthDifferenceReal: (buyNW - rentNW) / deflator,
		})

		// Rent escalates for next year
		weeklyRent *= 1 + rent.RentIncreaseRate
	}

	return snapshots, nil
}

// SaleResult is the after-tax position if everything is liquidated at a
// given snapshot's year.
type SaleResult struct {
	Year                     int
	BuyNetWorthAfterSale     float64
	BuyNetWorthAfterSaleReal float64
	RentNetWorthAfterTax     float64
	RentNetWorthAfterTaxReal float64
	Difference               float64
	DifferenceReal           float64
	BuyWins                  bool
}

// NetWorthAtSale calculates the after-tax net worth of both scenarios if
// liquidated at the snapshot's year.
//
// Buy side: sell the property (CGT-exempt as the PPOR), pay agent commission
// and legal costs (legal costs inflated to the sale year), repay the
// mortgage in full (a shortfall is full recourse and reduces net worth),
// then pay CGT on investment-pool gains. Rent side: liquidate the portfolio
// and pay CGT on its gains.
func NetWorthAtSale(snapshot YearSnapshot, params ScenarioParams) SaleResult {
	buy := &params.Buy
	marginalRate := params.Tax.MarginalRate()
	deflator := math.Pow(1+params.InflationRate, float64(snapshot.Year))

	saleProceeds := snapshot.PropertyValue*(1-buy.SellingAgentPct) - buy.SellingLegal*deflator
	buyAfterSale := (saleProceeds - snapshot.MortgageBalance) + snapshot.BuyInvestments

	buyInvGains := math.Max(snapshot.BuyInvestments-snapshot.BuyContributions, 0)
	buyAfterSale -= CalcCGT(buyInvGains, marginalRate, true, false)

	rentGains := math.Max(snapshot.RentInvestments-snapshot.RentContributions, 0)
	rentAfterTax := snapshot.RentInvestments - CalcCGT(rentGains, marginalRate, true, false)

	diff := buyAfterSale - rentAfterTax

	return SaleResult{
		Year:                     snapshot.Year,
		BuyNetWorthAfterSale:     buyAfterSale,
		BuyNetWorthAfterSaleReal: buyAfterSale / deflator,
		RentNetWorthAfterTax:     rentAfterTax,
		RentNetWorthAfterTaxReal: rentAfterTax / deflator,
		Difference:               diff,
		DifferenceReal:           diff / deflator,
		BuyWins:                  buyAfterSale > rentAfterTax,
	}
}
