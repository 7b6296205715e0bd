package main

import "math"

// Lenders Mortgage Insurance (LMI) premium estimation from published
// Australian rate schedules (Helia-style). Actual premiums vary by insurer
// and lender; these are indicative.

// lmiBand maps an LVR upper bound to premium rates per loan-size tier.
// Tiers: 0 = <=$300k, 1 = $300k-$500k, 2 = $500k-$1M, 3 = >$1M.
type lmiBand struct {
	maxLVR float64
	rates  [4]float64
}

var lmiRateTable = []lmiBand{
	{0.81, [4]float64{0.0050, 0.0064, 0.00896, 0.00992}},
	{0.82, [4]float64{0.0050, 0.0067, 0.00938, 0.01039}},
	{0.83, [4]float64{0.0055, 0.0071, 0.00994, 0.01101}},
	{0.84, [4]float64{0.0073, 0.0090, 0.01260, 0.01395}},
	{0.85, [4]float64{0.0078, 0.0098, 0.01372, 0.01519}},
	{0.86, [4]float64{0.0092, 0.0121, 0.01694, 0.01876}},
	{0.87, [4]float64{0.0098, 0.0127, 0.01778, 0.01969}},
	{0.88, [4]float64{0.0112, 0.0136, 0.01904, 0.02108}},
	{0.89, [4]float64{0.0118, 0.0142, 0.01988, 0.02201}},
	{0.90, [4]float64{0.0127, 0.0168, 0.02352, 0.02604}},
	{0.91, [4]float64{0.0197, 0.0258, 0.03612, 0.03999}},
	{0.92, [4]float64{0.0197, 0.0258, 0.03612, 0.03999}},
	{0.93, [4]float64{0.0221, 0.0292, 0.04088, 0.04526}},
	{0.94, [4]float64{0.0221, 0.0292, 0.04088, 0.04526}},
	{0.95, [4]float64{0.0243, 0.0321, 0.04494, 0.04976}},
}

// lmiLoanTier returns the loan amount tier index (0-3).
func lmiLoanTier(loanAmount float64) int {
	switch {
	case loanAmount <= 300000:
		return 0
	case loanAmount <= 500000:
		return 1
	case loanAmount <= 1000000:
		return 2
	default:
		return 3
	}
}

// EstimateLMI estimates the one-off LMI premium in dollars for a loan amount
// and LVR (fraction, e.g. 0.90 for 90%). Returns 0 at LVR <= 80%; LVRs above
// 95% are clamped to the top band. Rounded to the nearest dollar.
func EstimateLMI(loanAmount, lvr float64) float64 {
	if lvr <= 0.80 {
		return 0
	}

	tier := lmiLoanTier(loanAmount)

	for _, band := range lmiRateTable {
		if lvr <= band.maxLVR {
			return math.Round(loanAmount * band.rates[tier])
		}
	}

	top := lmiRateTable[len(lmiRateTable)-1]
	return math.Round(loanAmount * top.rates[tier])
}
