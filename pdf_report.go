package main

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// PDF report: a printable summary of the buy-vs-rent analysis with the
// scenario parameters, net worth milestones, liquidation comparison and
// (when run) Monte Carlo percentile bands.

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
)

// PDFReport generates the buy-vs-rent summary PDF
type PDFReport struct {
	pdf       *fpdf.Fpdf
	params    *ScenarioParams
	snapshots []YearSnapshot
	mcSummary *MCSummary // nil when Monte Carlo was not run
	mcRuns    int
}

// GeneratePDFReport renders the analysis as a PDF document. Pass a nil
// mcSummary to omit the Monte Carlo page.
func GeneratePDFReport(params *ScenarioParams, snapshots []YearSnapshot, mcSummary *MCSummary, mcRuns int) ([]byte, error) {
	report := &PDFReport{
		pdf:       fpdf.New("P", "mm", "A4", ""),
		params:    params,
		snapshots: snapshots,
		mcSummary: mcSummary,
		mcRuns:    mcRuns,
	}

	report.pdf.SetMargins(marginLeft, marginTop, marginRight)
	report.pdf.SetAutoPageBreak(true, marginBottom)

	if err := report.addTitlePage(); err != nil {
		return nil, err
	}
	report.addMilestones()
	report.addLiquidation()
	if report.mcSummary != nil {
		report.addMonteCarlo()
	}

	var buf bytes.Buffer
	if err := report.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *PDFReport) sectionTitle(title string) {
	r.pdf.SetFont("Arial", "B", 14)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.Ln(6)
	r.pdf.CellFormat(contentWidth, 9, title, "", 1, "L", false, 0, "")
	r.pdf.Ln(2)
}

func (r *PDFReport) tableHeader(widths []float64, labels []string) {
	r.pdf.SetFont("Arial", "B", 9)
	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	for i, label := range labels {
		r.pdf.CellFormat(widths[i], 7, label, "1", 0, "C", true, 0, "")
	}
	r.pdf.Ln(-1)
	r.pdf.SetFont("Arial", "", 9)
	r.pdf.SetTextColor(0, 0, 0)
}

func (r *PDFReport) tableRow(widths []float64, cells []string, shaded bool) {
	r.pdf.SetFillColor(245, 247, 250)
	for i, cell := range cells {
		align := "R"
		if i == 0 {
			align = "C"
		}
		r.pdf.CellFormat(widths[i], 6, cell, "1", 0, align, shaded, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *PDFReport) addTitlePage() error {
	buy := &r.params.Buy
	stamp, err := buy.StampDuty()
	if err != nil {
		return err
	}

	r.pdf.AddPage()

	r.pdf.SetFont("Arial", "B", 24)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.Ln(20)
	r.pdf.CellFormat(contentWidth, 12, "Buy vs Rent Analysis", "", 1, "C", false, 0, "")

	r.pdf.SetFont("Arial", "I", 11)
	r.pdf.SetTextColor(80, 80, 80)
	r.pdf.Ln(4)
	r.pdf.CellFormat(contentWidth, 8, fmt.Sprintf("Generated: %s", time.Now().Format("2 January 2006")), "", 1, "C", false, 0, "")

	r.pdf.Ln(10)
	r.pdf.SetFillColor(245, 247, 250)
	r.pdf.SetDrawColor(200, 200, 200)
	r.pdf.SetFont("Arial", "B", 12)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 8, "Scenario Parameters", "1", 1, "C", true, 0, "")

	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(0, 0, 0)

	paramLine := func(label, value string) {
		r.pdf.CellFormat(contentWidth/2, 7, "  "+label, "LB", 0, "L", false, 0, "")
		r.pdf.CellFormat(contentWidth/2, 7, value+"  ", "RB", 1, "R", false, 0, "")
	}

	paramLine("Purchase price", fmt.Sprintf("%s (%s)", FormatMoney(buy.PurchasePrice), buy.State))
	paramLine("Deposit", fmt.Sprintf("%s (%s)", pct(buy.DepositPct, 0), FormatMoney(buy.Deposit())))
	paramLine("Stamp duty", FormatMoney(stamp))
	if buy.LMI > 0 {
		paramLine("LMI premium", FormatMoney(buy.LMI))
	}
	paramLine("Loan amount", FormatMoney(buy.LoanAmount()))
	paramLine("Mortgage rate", fmt.Sprintf("%s p.a. (%dyr)", pct(buy.MortgageRate, 2), buy.MortgageTermYears))
	paramLine("Property appreciation", pct(buy.PropertyAppreciationRate, 1)+" p.a.")
	paramLine("Weekly rent", fmt.Sprintf("$%s (+%s/yr)", groupThousands(r.params.Rent.WeeklyRent), pct(r.params.Rent.RentIncreaseRate, 1)))
	paramLine("Existing savings", FormatMoney(r.params.ExistingSavings))
	paramLine("Investment return", fmt.Sprintf("%s p.a. (div yield %s)", pct(r.params.Investment.ReturnRate, 1), pct(r.params.Investment.DividendYield, 1)))
	paramLine("Inflation", pct(r.params.InflationRate, 1)+" p.a.")
	paramLine("Marginal tax rate", fmt.Sprintf("%s (income %s)", pct(r.params.Tax.MarginalRate(), 0), FormatMoney(r.params.Tax.GrossIncome)))

	r.pdf.Ln(8)
	r.pdf.SetFont("Arial", "B", 11)
	if xover, ok := CrossoverYear(r.snapshots); ok {
		r.pdf.CellFormat(contentWidth, 8, fmt.Sprintf("Crossover point: Year %d (buying becomes better)", xover), "", 1, "L", false, 0, "")
	} else if r.snapshots[len(r.snapshots)-1].NetWorthDifference > 0 {
		r.pdf.CellFormat(contentWidth, 8, "Buying is better from the start.", "", 1, "L", false, 0, "")
	} else {
		r.pdf.CellFormat(contentWidth, 8, "Renting is better for the entire time horizon.", "", 1, "L", false, 0, "")
	}

	return nil
}

func (r *PDFReport) addMilestones() {
	r.sectionTitle("Net Worth Milestones")

	widths := []float64{20, 40, 40, 40, 20, 20}
	r.tableHeader(widths, []string{"Year", "Buy NW (nom)", "Buy NW (real)", "Rent NW (nom)", "Winner", "Diff"})

	byYear := snapshotByYear(r.snapshots)
	shaded := false
	for _, year := range keyYears(r.params.TimeHorizonYears) {
		s, ok := byYear[year]
		if !ok {
			continue
		}
		winner := "Rent"
		if s.NetWorthDifference > 0 {
			winner = "Buy"
		}
		r.tableRow(widths, []string{
			fmt.Sprintf("%d", s.Year),
			FormatMoney(s.BuyNetWorth),
			FormatMoney(s.BuyNetWorthReal),
			FormatMoney(s.RentNetWorth),
			winner,
			FormatMoney(s.NetWorthDifference),
		}, shaded)
		shaded = !shaded
	}
}

func (r *PDFReport) addLiquidation() {
	r.sectionTitle("After-Tax Liquidation Comparison")

	widths := []float64{20, 45, 45, 40, 30}
	r.tableHeader(widths, []string{"Year", "Buy (after sale)", "Rent (after CGT)", "Diff", "Winner"})

	byYear := snapshotByYear(r.snapshots)
	shaded := false
	for _, year := range []int{5, 10, 15, 20, 25, 30} {
		if year > r.params.TimeHorizonYears {
			break
		}
		s, ok := byYear[year]
		if !ok {
			continue
		}
		result := NetWorthAtSale(s, *r.params)
		winner := "Rent"
		if result.BuyWins {
			winner = "Buy"
		}
		r.tableRow(widths, []string{
			fmt.Sprintf("%d", year),
			FormatMoney(result.BuyNetWorthAfterSale),
			FormatMoney(result.RentNetWorthAfterTax),
			FormatMoney(result.Difference),
			winner,
		}, shaded)
		shaded = !shaded
	}
}

func (r *PDFReport) addMonteCarlo() {
	r.pdf.AddPage()
	r.sectionTitle(fmt.Sprintf("Monte Carlo Simulation (%s runs)", groupThousands(float64(r.mcRuns))))

	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(0, 0, 0)
	r.pdf.CellFormat(contentWidth, 7, "Net worth difference (buy - rent) percentile bands:", "", 1, "L", false, 0, "")
	r.pdf.Ln(1)

	widths := []float64{20, 40, 40, 40, 40}
	r.tableHeader(widths, []string{"Year", "p10", "p50", "p90", "P(buy wins)"})

	summary := r.mcSummary
	p10 := summary.DiffPctiles[10]
	p50 := summary.DiffPctiles[50]
	p90 := summary.DiffPctiles[90]
	horizon := summary.Years[len(summary.Years)-1]

	shaded := false
	for _, year := range keyYears(horizon) {
		r.tableRow(widths, []string{
			fmt.Sprintf("%d", year),
			FormatMoney(p10[year]),
			FormatMoney(p50[year]),
			FormatMoney(p90[year]),
			fmt.Sprintf("%.1f%%", summary.ProbBuyWins[year]*100),
		}, shaded)
		shaded = !shaded
	}

	r.pdf.Ln(4)
	r.pdf.SetFont("Arial", "B", 10)
	if summary.HasMedianCrossover {
		r.pdf.CellFormat(contentWidth, 7, fmt.Sprintf("Median crossover: Year %d", summary.MedianCrossover), "", 1, "L", false, 0, "")
	} else if p50[len(p50)-1] > 0 {
		r.pdf.CellFormat(contentWidth, 7, "Median path: buying is better from the start.", "", 1, "L", false, 0, "")
	} else {
		r.pdf.CellFormat(contentWidth, 7, "Median path: renting is better for the entire horizon.", "", 1, "L", false, 0, "")
	}
}
