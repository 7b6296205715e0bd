package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Australian housing model: buy vs rent net worth analysis

Usage:
  %[1]s [options]

Options:
  -config FILE      Scenario config file (YAML or JSON; defaults used if omitted)
  -details          Show the year-by-year breakdown instead of the summary
  -csv              Output the year-by-year results as CSV
  -pdf FILE         Write a PDF summary report to FILE

  -sensitivity      Run a parameter sensitivity sweep
  -param PATH       Parameter to sweep (e.g., buy.mortgage_rate)
  -range R          Sweep range as start,stop,step (e.g., 0.04,0.08,0.005)

  -mc               Run the Monte Carlo simulation
  -runs N           Number of Monte Carlo paths (default 5000)
  -seed N           Random seed for reproducible Monte Carlo runs

  -defaults         Print the default configuration as YAML and exit

Examples:
  %[1]s                                              Run with defaults
  %[1]s -config scenario.yaml                        Run a custom scenario
  %[1]s -config scenario.yaml -details               Year-by-year breakdown
  %[1]s -config scenario.yaml -csv > results.csv     CSV output for charting
  %[1]s -sensitivity -param buy.mortgage_rate -range 0.04,0.08,0.005
  %[1]s -mc -runs 10000 -seed 42                     Reproducible Monte Carlo
  %[1]s -defaults > my-scenario.yaml                 Start a new config file
`, os.Args[0])
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}

// parseRange parses "start,stop,step" into sweep values.
func parseRange(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("-range must be start,stop,step (e.g., 0.04,0.08,0.005), got %q", s)
	}
	nums := make([]float64, 3)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("-range value %q: %w", part, err)
		}
		nums[i] = v
	}
	return FRange(nums[0], nums[1], nums[2]), nil
}

// isPercentageParam guesses whether a sweep parameter is rate-like for
// display purposes.
func isPercentageParam(path string) bool {
	for _, kw := range []string{"rate", "pct", "yield", "appreciation", "inflation"} {
		if strings.Contains(path, kw) {
			return true
		}
	}
	return false
}

func main() {
	configPath := flag.String("config", "", "scenario config file (YAML or JSON)")
	details := flag.Bool("details", false, "show year-by-year breakdown")
	csvOut := flag.Bool("csv", false, "output as CSV")
	pdfPath := flag.String("pdf", "", "write PDF report to file")

	sensitivity := flag.Bool("sensitivity", false, "run a sensitivity sweep")
	param := flag.String("param", "", "parameter path to sweep")
	rangeSpec := flag.String("range", "", "sweep range start,stop,step")

	mc := flag.Bool("mc", false, "run Monte Carlo simulation")
	runs := flag.Int("runs", 5000, "number of Monte Carlo paths")
	seed := flag.Int64("seed", 0, "random seed for Monte Carlo")

	defaults := flag.Bool("defaults", false, "print default configuration as YAML")

	flag.Usage = usage
	flag.Parse()

	if *defaults {
		out, err := DefaultsYAML()
		if err != nil {
			fatal(err)
		}
		fmt.Print(out)
		return
	}

	var params *ScenarioParams
	if *configPath != "" {
		p, err := LoadConfig(*configPath)
		if err != nil {
			fatal(err)
		}
		params = p
	} else {
		p := DefaultScenarioParams()
		params = &p
	}

	if *sensitivity {
		if *param == "" || *rangeSpec == "" {
			fatal(fmt.Errorf("-sensitivity requires both -param and -range"))
		}
		values, err := parseRange(*rangeSpec)
		if err != nil {
			fatal(err)
		}
		results, err := Sweep(*params, *param, values)
		if err != nil {
			fatal(err)
		}
		fmt.Println(FormatSweep(*param, results, isPercentageParam(*param)))
		return
	}

	snapshots, err := Simulate(*params)
	if err != nil {
		fatal(err)
	}

	var mcSummary *MCSummary
	if *mc {
		mcConfig := DefaultMCConfig()
		mcConfig.NRuns = *runs
		seedSet := false
		flag.Visit(func(f *flag.Flag) {
			if f.Name == "seed" {
				seedSet = true
			}
		})
		if seedSet {
			s := *seed
			mcConfig.Seed = &s
		}

		ts, err := MCSimulate(*params, mcConfig)
		if err != nil {
			fatal(err)
		}
		summary := Summarize(ts, nil)
		mcSummary = &summary
	}

	if *pdfPath != "" {
		data, err := GeneratePDFReport(params, snapshots, mcSummary, *runs)
		if err != nil {
			fatal(err)
		}
		if err := os.WriteFile(*pdfPath, data, 0644); err != nil {
			fatal(err)
		}
		fmt.Println("PDF report written to", *pdfPath)
		return
	}

	switch {
	case *csvOut:
		fmt.Print(ToCSV(snapshots))
	case *details:
		header, err := SummaryHeader(params)
		if err != nil {
			fatal(err)
		}
		fmt.Println(header)
		fmt.Println(DetailedTable(snapshots))
	default:
		report, err := FullReport(snapshots, params)
		if err != nil {
			fatal(err)
		}
		fmt.Println(report)
	}

	if mcSummary != nil {
		fmt.Println()
		fmt.Println(FormatMCSummary(*mcSummary, *runs))
	}
}
