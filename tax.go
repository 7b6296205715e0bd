package main

import (
	"fmt"
	"math"
	"strings"
)

// Australian tax rules used by the model: income tax brackets, Medicare levy,
// state transfer (stamp) duty, capital gains tax and the First Home Owner Grant.
//
// All rates are fractions (0.30 = 30%). Bracket tables are the 2025-26
// resident rates; duty tables are the owner-occupier schedules for the three
// supported states.

// TaxBracket is one marginal income tax bracket. Income above the previous
// bracket's Upper and up to this Upper is taxed at Rate.
type TaxBracket struct {
	Upper float64
	Rate  float64
}

// IncomeBrackets2025 holds the 2025-26 resident marginal brackets.
var IncomeBrackets2025 = []TaxBracket{
	{Upper: 18200, Rate: 0.00},
	{Upper: 45000, Rate: 0.16},
	{Upper: 135000, Rate: 0.30},
	{Upper: 190000, Rate: 0.37},
	{Upper: math.Inf(1), Rate: 0.45},
}

// MedicareLevy is added on top of the marginal bracket rate.
const MedicareLevy = 0.02

// CorporateTaxRate is the company rate backing franking credits.
const CorporateTaxRate = 0.30

// IncomeTax calculates total income tax payable (excluding the Medicare levy)
// for a gross annual income. Income below the tax-free threshold pays nothing.
func IncomeTax(grossIncome float64) float64 {
	var tax float64
	prev := 0.0
	for _, b := range IncomeBrackets2025 {
		taxableInBand := math.Min(grossIncome, b.Upper) - prev
		if taxableInBand <= 0 {
			break
		}
		tax += taxableInBand * b.Rate
		prev = b.Upper
	}
	return tax
}

// MarginalRate returns the marginal tax rate (including the Medicare levy) for
// a gross annual income. Used for dividend and capital gains taxation.
func MarginalRate(grossIncome float64) float64 {
	rate := 0.0
	for _, b := range IncomeBrackets2025 {
		rate = b.Rate
		if grossIncome <= b.Upper {
			break
		}
	}
	return rate + MedicareLevy
}

// DutyBracket is one marginal stamp duty bracket.
type DutyBracket struct {
	Upper float64
	Rate  float64
}

// UnsupportedStateError is returned when stamp duty is requested for a state
// the model has no duty table for.
type UnsupportedStateError struct {
	State string
}

func (e *UnsupportedStateError) Error() string {
	return fmt.Sprintf("unsupported state %q (supported: NSW, VIC, QLD)", e.State)
}

// progressiveDuty walks marginal duty brackets the same way IncomeTax walks
// income brackets.
func progressiveDuty(price float64, brackets []DutyBracket) float64 {
	var duty float64
	prev := 0.0
	for _, b := range brackets {
		band := math.Min(price, b.Upper) - prev
		if band <= 0 {
			break
		}
		duty += band * b.Rate
		prev = b.Upper
	}
	return duty
}

var nswDutyBrackets = []DutyBracket{
	{Upper: 17000, Rate: 0.0125},
	{Upper: 36000, Rate: 0.015},
	{Upper: 97000, Rate: 0.0175},
	{Upper: 364000, Rate: 0.035},
	{Upper: 1212000, Rate: 0.045},
	{Upper: 3636000, Rate: 0.055},
	{Upper: math.Inf(1), Rate: 0.065},
}

// CalcNSWStampDuty calculates NSW transfer duty.
//
// First home buyers are exempt up to $800k with a straight-line concession
// phasing out between $800k and $1M (existing and new builds alike).
func CalcNSWStampDuty(price float64, firstHomeBuyer, newBuild bool) float64 {
	if firstHomeBuyer && price <= 800000 {
		return 0
	}

	duty := progressiveDuty(price, nswDutyBrackets)

	if firstHomeBuyer && price <= 1000000 {
		discount := 1.0 - (price-800000)/200000
		duty *= 1 - discount
	}

	return duty
}

var vicDutyBrackets = []DutyBracket{
	{Upper: 25000, Rate: 0.014},
	{Upper: 130000, Rate: 0.024},
	{Upper: 440000, Rate: 0.05},
	{Upper: 960000, Rate: 0.06},
}

// CalcVICStampDuty calculates VIC land transfer duty at owner-occupier (PPR)
// rates: progressive below $960k, flat 5.5% of the full price above.
//
// First home buyers are exempt up to $600k, concessional to $750k.
func CalcVICStampDuty(price float64, firstHomeBuyer, newBuild bool) float64 {
	if firstHomeBuyer && price <= 600000 {
		return 0
	}

	var duty float64
	if price <= 960000 {
		duty = progressiveDuty(price, vicDutyBrackets)
	} else {
		duty = price * 0.055
	}

	if firstHomeBuyer && price <= 750000 {
		discount := 1.0 - (price-600000)/150000
		duty *= 1 - discount
	}

	return duty
}

var qldDutyBrackets = []DutyBracket{
	{Upper: 75000, Rate: 0.015},
	{Upper: 540000, Rate: 0.035},
	{Upper: 1000000, Rate: 0.045},
	{Upper: math.Inf(1), Rate: 0.0575},
}

func qldHomeConcessionDuty(price float64) float64 {
	return progressiveDuty(price, qldDutyBrackets)
}

// CalcQLDStampDuty calculates QLD transfer duty at home concession
// (owner-occupier) rates.
//
// First home buyers: exempt up to $700k existing / $800k new build, with a
// straight-line concession over the following $100k.
func CalcQLDStampDuty(price float64, firstHomeBuyer, newBuild bool) float64 {
	if firstHomeBuyer {
		exemptCap := 700000.0
		if newBuild {
			exemptCap = 800000
		}
		if price <= exemptCap {
			return 0
		}
		if price <= exemptCap+100000 {
			fullDuty := qldHomeConcessionDuty(price)
			discount := 1.0 - (price-exemptCap)/100000
			return fullDuty * (1 - discount)
		}
	}

	return qldHomeConcessionDuty(price)
}

type stampDutyFunc func(price float64, firstHomeBuyer, newBuild bool) float64

var stampDutyCalculators = map[string]stampDutyFunc{
	"NSW": CalcNSWStampDuty,
	"VIC": CalcVICStampDuty,
	"QLD": CalcQLDStampDuty,
}

// CalcStampDuty dispatches to the state-specific duty calculator.
// States outside the supported set return an UnsupportedStateError.
func CalcStampDuty(price float64, state string, firstHomeBuyer, newBuild bool) (float64, error) {
	calc, ok := stampDutyCalculators[strings.ToUpper(state)]
	if !ok {
		return 0, &UnsupportedStateError{State: state}
	}
	return calc(price, firstHomeBuyer, newBuild), nil
}

// CalcCGT calculates capital gains tax payable on realized gains.
//
// A PPOR is fully exempt. Assets held over 12 months get the 50% CGT discount
// before the marginal rate applies.
func CalcCGT(gains, marginalTaxRate float64, heldOver12Months, isPPOR bool) float64 {
	if isPPOR || gains <= 0 {
		return 0
	}
	taxable := gains
	if heldOver12Months {
		taxable *= 0.50
	}
	return taxable * marginalTaxRate
}

// fhogAmounts holds the flat First Home Owner Grant per state (new builds only).
var fhogAmounts = map[string]float64{
	"NSW": 10000,
	"VIC": 10000,
	"QLD": 30000, // capped at $750k purchase price
}

// FHOG returns the First Home Owner Grant for a new-build purchase.
// QLD forfeits the grant entirely above its price cap (no taper).
func FHOG(state string, newBuild bool, price float64) float64 {
	if !newBuild {
		return 0
	}
	st := strings.ToUpper(state)
	amount := fhogAmounts[st]
	if st == "QLD" && price > 750000 {
		return 0
	}
	return amount
}

// FrankedDividendRate returns the effective tax rate on fully franked
// dividends: the investor only pays the gap between their marginal rate and
// the company rate, grossed up for the credit already attached.
func FrankedDividendRate(marginalTaxRate float64) float64 {
	if marginalTaxRate <= CorporateTaxRate {
		return 0
	}
	return (marginalTaxRate - CorporateTaxRate) / (1 - CorporateTaxRate)
}

// EffectiveDividendRate blends the franked and unfranked dividend tax rates by
// the franked fraction of the dividend stream.
func EffectiveDividendRate(marginalTaxRate, frankingRate float64) float64 {
	franked := FrankedDividendRate(marginalTaxRate)
	return frankingRate*franked + (1-frankingRate)*marginalTaxRate
}
