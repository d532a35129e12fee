package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/obinexus/sinphase/internal/contract"
	"github.com/obinexus/sinphase/schema"
)

// basicTemplate is a minimal starter configuration.
const basicTemplate = `# Sinphasé organization configuration.
org: your-org

# Analysis settings.
limit: 100
workers: 4
output: text

# Metrics cache. Set to none to disable.
cache-backend: sqlite
cache-ttl: 6h
`

// enterpriseTemplate adds history tracking, weight overrides and
// per-division governance tuning.
const enterpriseTemplate = `# Sinphasé organization configuration.
org: your-org

# Analysis settings.
limit: 500
workers: 8
output: text

# Metrics cache. Set to none to disable.
cache-backend: postgresql
cache-db-connect: ""
cache-ttl: 6h

# Run history for trend tracking.
history-backend: postgresql
history-db-connect: ""

# Compliance gate for CI pipelines.
max-score: 0.8
min-compliance-rate: 80
fail-on-isolation: true

# Cost factor weight overrides. Unset weights keep their defaults.
cost_factors:
  stars_weight: 0.2
  commit_activity_weight: 0.3
  build_time_weight: 0.2
  size_weight: 0.2
  test_coverage_weight: 0.1

# Division governance overrides.
divisions:
  Computing:
    governance_threshold: 0.5
    isolation_threshold: 0.8
    priority_boost: 1.2
    responsible_architect: your-architect

# Per-repository policies.
repositories:
  legacy-service:
    division: Computing
    status: Legacy
    skip: false
`

// initCmd writes a starter config file or validates an existing one.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file or validate an existing one",
	Long: `Write a starter .sinphase.yaml in the current directory, or with
--validate, check an existing config file and report every finding at once.

Templates:
  basic      - organization and analysis settings only
  enterprise - adds history tracking, CI gates and governance overrides

Examples:
  # Write a starter config
  sinphase init

  # Write the full template
  sinphase init --template enterprise

  # Validate the current config file
  sinphase init --validate`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if viper.GetBool("validate") {
			return runConfigValidation(cmd)
		}
		return writeConfigTemplate(cmd)
	},
}

// writeConfigTemplate writes the selected template to .sinphase.yaml,
// refusing to overwrite an existing file unless --force is set.
func writeConfigTemplate(cmd *cobra.Command) error {
	path := viper.GetString("config")
	if path == "" {
		path = ".sinphase.yaml"
	}

	var content string
	switch tmpl := viper.GetString("template"); tmpl {
	case "basic":
		content = basicTemplate
	case "enterprise":
		content = enterpriseTemplate
	default:
		return fmt.Errorf("unknown template %q, expected basic or enterprise", tmpl)
	}

	if _, err := os.Stat(path); err == nil && !viper.GetBool("force") {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}

	cmd.Printf("Wrote %s. Edit the org field before running an analysis.\n", path)
	return nil
}

// runConfigValidation loads the config file and reports every finding,
// failing only when errors (not warnings) are present.
func runConfigValidation(cmd *cobra.Command) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	raw := &contract.ConfigRawInput{}
	if err := viper.Unmarshal(raw); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	findings := contract.ValidateConfigData(raw)
	for _, f := range findings {
		cmd.Printf("[%s] %s\n", f.Severity, f.Error())
	}

	counts := schema.CountBySeverity(findings)
	if counts[schema.SeverityError] > 0 {
		return fmt.Errorf("config validation failed with %d errors and %d warnings",
			counts[schema.SeverityError], counts[schema.SeverityWarning])
	}

	cmd.Printf("Config is valid with %d warnings.\n", counts[schema.SeverityWarning])
	return nil
}
