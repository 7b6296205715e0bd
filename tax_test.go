package main

import (
	"errors"
	"math"
	"testing"
)

// Tax Calculation Validation Tests
//
// Income tax figures are validated against the ATO 2025-26 resident rates:
// - $0 - $18,200: 0%
// - $18,201 - $45,000: 16%
// - $45,001 - $135,000: 30%
// - $135,001 - $190,000: 37%
// - $190,001+: 45%
// Medicare levy (2%) applies on top of the marginal bracket rate.
//
// Stamp duty figures are validated against the owner-occupier transfer duty
// schedules for NSW, VIC and QLD.

// tolerance for floating point comparisons ($0.01)
const taxTolerance = 0.01

func assertDollarsEqual(t *testing.T, expected, actual float64, description string) {
	t.Helper()
	if math.Abs(expected-actual) > taxTolerance {
		t.Errorf("%s: expected $%.2f, got $%.2f (diff: $%.2f)",
			description, expected, actual, actual-expected)
	}
}

func assertRateEquals(t *testing.T, expected, actual float64, description string) {
	t.Helper()
	if math.Abs(expected-actual) > 1e-9 {
		t.Errorf("%s: expected %.4f, got %.4f", description, expected, actual)
	}
}

// =============================================================================
// Income Tax Tests
// =============================================================================

func TestIncomeTax(t *testing.T) {
	tests := []struct {
		name        string
		income      float64
		expectedTax float64
		calculation string
	}{
		{
			name:        "below tax-free threshold",
			income:      15000,
			expectedTax: 0,
			calculation: "under $18,200 is tax-free",
		},
		{
			name:        "exactly at threshold",
			income:      18200,
			expectedTax: 0,
			calculation: "exactly $18,200 is tax-free",
		},
		{
			name:        "top of 16% bracket",
			income:      45000,
			expectedTax: 4288.00,
			calculation: "(45000 - 18200) * 0.16 = 4288",
		},
		{
			name:        "middle income",
			income:      100000,
			expectedTax: 20788.00,
			calculation: "4288 + (100000 - 45000) * 0.30 = 20788",
		},
		{
			name:        "default scenario income",
			income:      180000,
			expectedTax: 47938.00,
			calculation: "4288 + 27000 + (180000 - 135000) * 0.37 = 47938",
		},
		{
			name:        "top bracket",
			income:      200000,
			expectedTax: 56138.00,
			calculation: "4288 + 27000 + 20350 + (200000 - 190000) * 0.45 = 56138",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tax := IncomeTax(tc.income)
			assertDollarsEqual(t, tc.expectedTax, tax, tc.calculation)
		})
	}
}

func TestMarginalRate(t *testing.T) {
	tests := []struct {
		income       float64
		expectedRate float64
	}{
		{10000, 0.02},  // 0% bracket + levy
		{45000, 0.18},  // 16% bracket + levy
		{100000, 0.32}, // 30% bracket + levy
		{180000, 0.39}, // 37% bracket + levy
		{250000, 0.47}, // 45% bracket + levy
	}

	for _, tc := range tests {
		rate := MarginalRate(tc.income)
		assertRateEquals(t, tc.expectedRate, rate,
			"marginal rate (incl. Medicare levy)")
	}
}

// =============================================================================
// Stamp Duty Tests
// =============================================================================

func TestNSWStampDuty(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		fhb      bool
		expected float64
	}{
		{
			name:  "standard $800k purchase",
			price: 800000,
			// 212.50 + 285 + 1067.50 + 9345 + 436000*0.045 = 30530
			expected: 30530.00,
		},
		{
			name:     "first home buyer exempt at $800k",
			price:    800000,
			fhb:      true,
			expected: 0,
		},
		{
			name:  "first home buyer taper at $900k",
			price: 900000,
			fhb:   true,
			// Full duty 35030, halfway through the $800k-$1M taper
			expected: 17515.00,
		},
		{
			name:  "first home buyer taper exhausted at $1M",
			price: 1000000,
			fhb:   true,
			// 212.50 + 285 + 1067.50 + 9345 + 636000*0.045 = 39530
			expected: 39530.00,
		},
		{
			name:     "standard $1M purchase equals FHB at $1M",
			price:    1000000,
			expected: 39530.00,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			duty := CalcNSWStampDuty(tc.price, tc.fhb, false)
			assertDollarsEqual(t, tc.expected, duty, tc.name)
		})
	}
}

func TestNSWFirstHomeBuyerReducedNotFree(t *testing.T) {
	// Inside the taper band the concession must reduce but not eliminate duty.
	full := CalcNSWStampDuty(900000, false, false)
	concession := CalcNSWStampDuty(900000, true, false)
	if concession <= 0 {
		t.Fatalf("expected nonzero concessional duty at $900k, got %.2f", concession)
	}
	if concession >= full {
		t.Errorf("concessional duty %.2f should be below full duty %.2f", concession, full)
	}
}

func TestVICStampDuty(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		fhb      bool
		expected float64
	}{
		{
			name:  "standard $700k purchase",
			price: 700000,
			// 350 + 2520 + 15500 + 260000*0.06 = 33970
			expected: 33970.00,
		},
		{
			name:     "first home buyer exempt at $600k",
			price:    600000,
			fhb:      true,
			expected: 0,
		},
		{
			name:  "first home buyer concession at $700k",
			price: 700000,
			fhb:   true,
			// 2/3 of the way through the $600k-$750k taper: 33970 * 2/3
			expected: 22646.67,
		},
		{
			name:  "flat rate above $960k",
			price: 1000000,
			// 1000000 * 0.055 applies to the full price
			expected: 55000.00,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			duty := CalcVICStampDuty(tc.price, tc.fhb, false)
			assertDollarsEqual(t, tc.expected, duty, tc.name)
		})
	}
}

func TestQLDStampDuty(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		fhb      bool
		newBuild bool
		expected float64
	}{
		{
			name:  "standard $600k purchase",
			price: 600000,
			// 1125 + 16275 + 60000*0.045 = 20100
			expected: 20100.00,
		},
		{
			name:     "first home buyer exempt at $700k existing",
			price:    700000,
			fhb:      true,
			expected: 0,
		},
		{
			name:     "first home buyer new build exempt at $800k",
			price:    800000,
			fhb:      true,
			newBuild: true,
			expected: 0,
		},
		{
			name:  "first home buyer existing above taper",
			price: 850000,
			fhb:   true,
			// Past $800k the concession is gone: 1125 + 16275 + 310000*0.045
			expected: 31350.00,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			duty := CalcQLDStampDuty(tc.price, tc.fhb, tc.newBuild)
			assertDollarsEqual(t, tc.expected, duty, tc.name)
		})
	}
}

func TestStampDutyDispatch(t *testing.T) {
	duty, err := CalcStampDuty(800000, "nsw", false, false)
	if err != nil {
		t.Fatalf("lowercase state should dispatch: %v", err)
	}
	assertDollarsEqual(t, 30530.00, duty, "case-insensitive NSW dispatch")

	_, err = CalcStampDuty(800000, "WA", false, false)
	if err == nil {
		t.Fatal("expected error for unsupported state")
	}
	var unsupported *UnsupportedStateError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedStateError, got %T", err)
	}
	if unsupported.State != "WA" {
		t.Errorf("error should carry the state, got %q", unsupported.State)
	}
}

// =============================================================================
// Capital Gains Tax Tests
// =============================================================================

func TestCalcCGT(t *testing.T) {
	tests := []struct {
		name     string
		gains    float64
		rate     float64
		heldLong bool
		isPPOR   bool
		expected float64
	}{
		{"PPOR fully exempt", 500000, 0.39, true, true, 0},
		{"no gains no tax", 0, 0.39, true, false, 0},
		{"losses no tax", -50000, 0.39, true, false, 0},
		{"50% discount after 12 months", 100000, 0.39, true, false, 19500},
		{"no discount under 12 months", 100000, 0.39, false, false, 39000},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cgt := CalcCGT(tc.gains, tc.rate, tc.heldLong, tc.isPPOR)
			assertDollarsEqual(t, tc.expected, cgt, tc.name)
		})
	}
}

// =============================================================================
// First Home Owner Grant Tests
// =============================================================================

func TestFHOG(t *testing.T) {
	tests := []struct {
		name     string
		state    string
		newBuild bool
		price    float64
		expected float64
	}{
		{"existing dwelling gets nothing", "NSW", false, 600000, 0},
		{"NSW new build", "NSW", true, 600000, 10000},
		{"VIC new build", "VIC", true, 600000, 10000},
		{"QLD new build under cap", "QLD", true, 700000, 30000},
		{"QLD forfeited above cap", "QLD", true, 800000, 0},
		{"unknown state gets nothing", "WA", true, 600000, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			grant := FHOG(tc.state, tc.newBuild, tc.price)
			assertDollarsEqual(t, tc.expected, grant, tc.name)
		})
	}
}

// =============================================================================
// Franked Dividend Tests
// =============================================================================

func TestFrankedDividendRate(t *testing.T) {
	// Below the corporate rate the franking credit fully covers the liability.
	assertRateEquals(t, 0, FrankedDividendRate(0.18), "18% marginal pays nothing on franked dividends")
	assertRateEquals(t, 0, FrankedDividendRate(0.30), "at the corporate rate pays nothing")

	// 39% marginal: (0.39 - 0.30) / 0.70
	assertRateEquals(t, 0.09/0.70, FrankedDividendRate(0.39), "39% marginal franked rate")
}

func TestEffectiveDividendRate(t *testing.T) {
	marginal := 0.39
	franked := FrankedDividendRate(marginal)

	assertRateEquals(t, marginal, EffectiveDividendRate(marginal, 0), "unfranked stream taxed at marginal")
	assertRateEquals(t, franked, EffectiveDividendRate(marginal, 1), "fully franked stream")
	assertRateEquals(t, 0.5*franked+0.5*marginal, EffectiveDividendRate(marginal, 0.5), "50% franked blend")
}
