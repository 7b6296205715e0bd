package main

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario parameters for the buy-vs-rent model. All rates are fractions
// (0.062 = 6.2% p.a.); percentage conversion happens once at the config/UI
// boundary. Params are treated as immutable during a simulation run; Clone
// before mutating (the sensitivity sweep does this).

// RateEntry is one step in a variable mortgage rate schedule: Rate applies
// from Year onwards until a later entry takes over.
//
// In YAML/JSON it accepts either mapping form ({year: 4, rate: 0.055}) or
// two-element pair form ([4, 0.055]).
type RateEntry struct {
	Year int     `yaml:"year" json:"year"`
	Rate float64 `yaml:"rate" json:"rate"`
}

// UnmarshalYAML accepts both the mapping and pair forms of a rate entry.
func (r *RateEntry) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		if len(value.Content) != 2 {
			return fmt.Errorf("rate schedule pair must have exactly 2 elements, got %d", len(value.Content))
		}
		if err := value.Content[0].Decode(&r.Year); err != nil {
			return fmt.Errorf("rate schedule year: %w", err)
		}
		if err := value.Content[1].Decode(&r.Rate); err != nil {
			return fmt.Errorf("rate schedule rate: %w", err)
		}
		return nil
	}

	type plain RateEntry
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*r = RateEntry(p)
	return nil
}

// BuyParams describes the property purchase side of the scenario.
type BuyParams struct {
	PurchasePrice            float64  `yaml:"purchase_price" json:"purchase_price"`
	DepositPct               float64  `yaml:"deposit_pct" json:"deposit_pct"`
	MortgageRate             float64  `yaml:"mortgage_rate" json:"mortgage_rate"`
	MortgageTermYears        int      `yaml:"mortgage_term_years" json:"mortgage_term_years"`
	PropertyAppreciationRate float64  `yaml:"property_appreciation_rate" json:"property_appreciation_rate"`
	StampDutyOverride        *float64 `yaml:"stamp_duty_override,omitempty" json:"stamp_duty_override,omitempty"` // set to skip calculation
	LMI                      float64  `yaml:"lmi" json:"lmi"` // lenders mortgage insurance premium
	State                    string   `yaml:"state" json:"state"`
	FirstHomeBuyer           bool     `yaml:"first_home_buyer" json:"first_home_buyer"`
	NewBuild                 bool     `yaml:"new_build" json:"new_build"`

	// Variable rate schedule. Empty means MortgageRate applies for the whole
	// term; otherwise the most recent entry whose Year <= current year wins.
	RateSchedule []RateEntry `yaml:"rate_schedule,omitempty" json:"rate_schedule,omitempty"`

	// Ongoing ownership costs. Percentages apply to current property value;
	// fixed amounts inflate with CPI.
	CouncilRatesPct  float64 `yaml:"council_rates_pct" json:"council_rates_pct"`
	InsurancePct     float64 `yaml:"insurance_pct" json:"insurance_pct"`
	MaintenancePct   float64 `yaml:"maintenance_pct" json:"maintenance_pct"`
	WaterRatesAnnual float64 `yaml:"water_rates_annual" json:"water_rates_annual"`
	StrataAnnual     float64 `yaml:"strata_annual" json:"strata_annual"` // 0 for houses

	// Transaction costs for the eventual sale.
	SellingAgentPct float64 `yaml:"selling_agent_pct" json:"selling_agent_pct"`
	SellingLegal    float64 `yaml:"selling_legal" json:"selling_legal"`
}

// Deposit returns the cash deposit in dollars.
func (b *BuyParams) Deposit() float64 {
	return b.PurchasePrice * b.DepositPct
}

// LoanAmount returns the initial mortgage principal.
func (b *BuyParams) LoanAmount() float64 {
	return b.PurchasePrice - b.Deposit()
}

// LVR returns the loan-to-value ratio at purchase.
func (b *BuyParams) LVR() float64 {
	if b.PurchasePrice == 0 {
		return 0
	}
	return b.LoanAmount() / b.PurchasePrice
}

// StampDuty returns the transfer duty for this purchase, honoring any
// override. Unsupported states return an UnsupportedStateError.
func (b *BuyParams) StampDuty() (float64, error) {
	if b.StampDutyOverride != nil {
		return *b.StampDutyOverride, nil
	}
	return CalcStampDuty(b.PurchasePrice, b.State, b.FirstHomeBuyer, b.NewBuild)
}

// RateForYear returns the mortgage rate in effect for a given year: the most
// recent schedule entry whose Year <= year, or the base rate if none applies.
func (b *BuyParams) RateForYear(year int) float64 {
	if len(b.RateSchedule) == 0 {
		return b.MortgageRate
	}
	schedule := make([]RateEntry, len(b.RateSchedule))
	copy(schedule, b.RateSchedule)
	sort.Slice(schedule, func(i, j int) bool { return schedule[i].Year < schedule[j].Year })

	rate := b.MortgageRate
	for _, entry := range schedule {
		if entry.Year > year {
			break
		}
		rate = entry.Rate
	}
	return rate
}

// RentParams describes the renting side of the scenario.
type RentParams struct {
	WeeklyRent             float64 `yaml:"weekly_rent" json:"weekly_rent"`
	RentIncreaseRate       float64 `yaml:"rent_increase_rate" json:"rent_increase_rate"`
	RentersInsuranceAnnual float64 `yaml:"renters_insurance_annual" json:"renters_insurance_annual"`
}

// InvestmentParams describes how spare cash is invested in both scenarios.
type InvestmentParams struct {
	ReturnRate    float64 `yaml:"return_rate" json:"return_rate"`       // nominal p.a.
	DividendYield float64 `yaml:"dividend_yield" json:"dividend_yield"` // portion of return paid (and taxed) as dividends
	FrankingRate  float64 `yaml:"franking_rate" json:"franking_rate"`   // fraction of dividends carrying franking credits
}

// TaxParams holds the investor's tax position.
type TaxParams struct {
	GrossIncome float64 `yaml:"gross_income" json:"gross_income"`
}

// MarginalRate returns the investor's marginal rate including Medicare levy.
func (t *TaxParams) MarginalRate() float64 {
	return MarginalRate(t.GrossIncome)
}

// ScenarioParams is the complete input to both simulation engines.
type ScenarioParams struct {
	Buy        BuyParams        `yaml:"buy" json:"buy"`
	Rent       RentParams       `yaml:"rent" json:"rent"`
	Investment InvestmentParams `yaml:"investment" json:"investment"`
	Tax        TaxParams        `yaml:"tax" json:"tax"`

	InflationRate    float64 `yaml:"inflation_rate" json:"inflation_rate"`
	TimeHorizonYears int     `yaml:"time_horizon_years" json:"time_horizon_years"`
	ExistingSavings  float64 `yaml:"existing_savings" json:"existing_savings"`
}

// DefaultScenarioParams returns the baseline Sydney-flavored scenario.
func DefaultScenarioParams() ScenarioParams {
	return ScenarioParams{
		Buy: BuyParams{
			PurchasePrice:            800000,
			DepositPct:               0.20,
			MortgageRate:             0.062,
			MortgageTermYears:        30,
			PropertyAppreciationRate: 0.05,
			State:                    "NSW",
			CouncilRatesPct:          0.003,
			InsurancePct:             0.002,
			MaintenancePct:           0.01,
			WaterRatesAnnual:         1200,
			SellingAgentPct:          0.02,
			SellingLegal:             2000,
		},
		Rent: RentParams{
			WeeklyRent:             650,
			RentIncreaseRate:       0.04,
			RentersInsuranceAnnual: 300,
		},
		Investment: InvestmentParams{
			ReturnRate:    0.07,
			DividendYield: 0.02,
		},
		Tax: TaxParams{
			GrossIncome: 180000,
		},
		InflationRate:    0.03,
		TimeHorizonYears: 30,
		ExistingSavings:  200000,
	}
}

// Clone returns a deep copy safe to mutate independently.
func (p *ScenarioParams) Clone() ScenarioParams {
	clone := *p
	if p.Buy.RateSchedule != nil {
		clone.Buy.RateSchedule = make([]RateEntry, len(p.Buy.RateSchedule))
		copy(clone.Buy.RateSchedule, p.Buy.RateSchedule)
	}
	if p.Buy.StampDutyOverride != nil {
		override := *p.Buy.StampDutyOverride
		clone.Buy.StampDutyOverride = &override
	}
	return clone
}
