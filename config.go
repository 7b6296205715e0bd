package main

import (
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed default-config.yaml
var defaultConfigYAML string

// LoadConfig loads scenario parameters from a YAML or JSON file (chosen by
// extension; anything else is treated as YAML). Percentage strings like
// "6.2%" are converted to decimals before parsing. Fields absent from the
// file keep their defaults.
func LoadConfig(filename string) (*ScenarioParams, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	params := DefaultScenarioParams()

	switch filepath.Ext(filename) {
	case ".json":
		err = json.Unmarshal(data, &params)
	default:
		content := preprocessPercentages(string(data))
		err = yaml.Unmarshal([]byte(content), &params)
	}
	if err != nil {
		return nil, err
	}

	return &params, nil
}

// SaveConfig saves scenario parameters to a YAML file with a usage header.
func SaveConfig(params *ScenarioParams, filename string) error {
	data, err := yaml.Marshal(params)
	if err != nil {
		return err
	}

	header := []byte(`# Buy vs Rent Scenario Configuration
#
# VALUE FORMATS
#   Rates: 0.062 = 6.2% p.a. (decimals; "6.2%" also accepted)
#   Money: values are in AUD (e.g., 800000 = $800k)
#   rate_schedule entries: {year: 4, rate: 0.055} or [4, 0.055]
#
# RUN COMMANDS
#   ./goHousingModel -config my-scenario.yaml
#   ./goHousingModel -config my-scenario.yaml -details
#   ./goHousingModel -config my-scenario.yaml -csv > results.csv
#   ./goHousingModel -sensitivity -param buy.mortgage_rate -range 0.04,0.08,0.005
#   ./goHousingModel -mc -runs 10000 -seed 42
#   ./goHousingModel -help

`)
	content := append(header, data...)
	return os.WriteFile(filename, content, 0644)
}

// LoadDefaultConfig loads the embedded default-config.yaml. It handles
// percentage format (e.g., "5%" -> 0.05).
func LoadDefaultConfig() (*ScenarioParams, error) {
	content := preprocessPercentages(defaultConfigYAML)

	params := DefaultScenarioParams()
	if err := yaml.Unmarshal([]byte(content), &params); err != nil {
		return nil, err
	}

	return &params, nil
}

// preprocessPercentages converts percentage values like "5%" to decimal "0.05"
func preprocessPercentages(content string) string {
	re := regexp.MustCompile(`(:\s*)(\d+\.?\d*)%`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) >= 3 {
			num, err := strconv.ParseFloat(parts[2], 64)
			if err == nil {
				return parts[1] + strconv.FormatFloat(num/100.0, 'f', -1, 64)
			}
		}
		return match
	})
}

// DefaultsYAML renders the default scenario as YAML for the -defaults flag.
func DefaultsYAML() (string, error) {
	params := DefaultScenarioParams()
	data, err := yaml.Marshal(&params)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
