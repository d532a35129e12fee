package contract

import (
	"fmt"
	"maps"
	"runtime"
	"strings"
	"time"

	"github.com/obinexus/sinphase/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 100
	MaxResultLimit     = 1000
	DefaultCacheTTL    = 6 * time.Hour
	DefaultHTTPTimeout = 30 * time.Second
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// CostFactorsRaw holds optional weight overrides from a config file. Only
// set fields override the defaults.
type CostFactorsRaw struct {
	StarsWeight          *float64 `mapstructure:"stars_weight" yaml:"stars_weight"`
	CommitActivityWeight *float64 `mapstructure:"commit_activity_weight" yaml:"commit_activity_weight"`
	BuildTimeWeight      *float64 `mapstructure:"build_time_weight" yaml:"build_time_weight"`
	SizeWeight           *float64 `mapstructure:"size_weight" yaml:"size_weight"`
	TestCoverageWeight   *float64 `mapstructure:"test_coverage_weight" yaml:"test_coverage_weight"`
	ManualBoost          *float64 `mapstructure:"manual_boost" yaml:"manual_boost"`
}

// Apply overlays the set fields onto a base weight set.
func (r *CostFactorsRaw) Apply(base schema.CostFactors) schema.CostFactors {
	if r == nil {
		return base
	}
	if r.StarsWeight != nil {
		base.StarsWeight = *r.StarsWeight
	}
	if r.CommitActivityWeight != nil {
		base.CommitActivityWeight = *r.CommitActivityWeight
	}
	if r.BuildTimeWeight != nil {
		base.BuildTimeWeight = *r.BuildTimeWeight
	}
	if r.SizeWeight != nil {
		base.SizeWeight = *r.SizeWeight
	}
	if r.TestCoverageWeight != nil {
		base.TestCoverageWeight = *r.TestCoverageWeight
	}
	if r.ManualBoost != nil {
		base.ManualBoost = *r.ManualBoost
	}
	return base
}

// DivisionRawInput holds per-division overrides from the config file.
type DivisionRawInput struct {
	Description          string   `mapstructure:"description" yaml:"description"`
	GovernanceThreshold  *float64 `mapstructure:"governance_threshold" yaml:"governance_threshold"`
	IsolationThreshold   *float64 `mapstructure:"isolation_threshold" yaml:"isolation_threshold"`
	PriorityBoost        *float64 `mapstructure:"priority_boost" yaml:"priority_boost"`
	ResponsibleArchitect string   `mapstructure:"responsible_architect" yaml:"responsible_architect"`
}

// RepoPolicyRaw holds the per-repository governance policy, either from the
// organization config file or from a policy file inside the repository.
type RepoPolicyRaw struct {
	Division           string          `mapstructure:"division" yaml:"division"`
	Status             string          `mapstructure:"status" yaml:"status"`
	CostFactors        *CostFactorsRaw `mapstructure:"cost_factors" yaml:"cost_factors"`
	Skip               bool            `mapstructure:"skip" yaml:"skip"`
	SinphaseCompliance *bool           `mapstructure:"sinphase_compliance" yaml:"sinphase_compliance"`
	Dependencies       []string        `mapstructure:"dependencies" yaml:"dependencies"`
}

// RepoPolicy is the validated per-repository policy.
type RepoPolicy struct {
	Division           schema.Division
	Status             schema.ProjectStatus
	Factors            *schema.CostFactors
	Skip               bool
	SinphaseCompliance bool
	Dependencies       []string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config
// file). Viper unmarshals into this struct.
type ConfigRawInput struct {
	Org              string `mapstructure:"org"`
	Token            string `mapstructure:"token"`
	Workers          int    `mapstructure:"workers"`
	Limit            int    `mapstructure:"limit"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	IncludeForks     bool   `mapstructure:"include-forks"`
	IncludeArchived  bool   `mapstructure:"include-archived"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	CacheTTL         string `mapstructure:"cache-ttl"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	Emoji            string `mapstructure:"emoji"`
	Color            string `mapstructure:"color"`

	// --- Fields from checkCmd.Flags() ---
	MaxScore          float64 `mapstructure:"max-score"`
	MinComplianceRate float64 `mapstructure:"min-compliance-rate"`
	FailOnIsolation   bool    `mapstructure:"fail-on-isolation"`

	// --- Sections from the config file ---
	CostFactors  CostFactorsRaw              `mapstructure:"cost_factors"`
	Divisions    map[string]DivisionRawInput `mapstructure:"divisions"`
	Repositories map[string]RepoPolicyRaw    `mapstructure:"repositories"`
}

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	Organization string
	Token        string
	Workers      int
	ResultLimit  int
	Output       schema.OutputMode
	OutputFile   string

	IncludeForks    bool
	IncludeArchived bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	DefaultFactors schema.CostFactors
	Divisions      map[schema.Division]*schema.DivisionMetadata
	Repositories   map[string]RepoPolicy
	Check          schema.CheckThresholds

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Divisions != nil {
		clone.Divisions = make(map[schema.Division]*schema.DivisionMetadata, len(c.Divisions))
		for d, dm := range c.Divisions {
			dmCopy := *dm
			clone.Divisions[d] = &dmCopy
		}
	}
	if c.Repositories != nil {
		clone.Repositories = make(map[string]RepoPolicy, len(c.Repositories))
		maps.Copy(clone.Repositories, c.Repositories)
	}
	return &clone
}

// DivisionFor returns the division metadata to use for a division, falling
// back to the stock configuration for divisions the config never mentions.
func (c *Config) DivisionFor(d schema.Division) (*schema.DivisionMetadata, error) {
	if dm, ok := c.Divisions[d]; ok {
		return dm, nil
	}
	return schema.DefaultDivisionMetadata(d)
}

// PolicyFor returns the repository policy from the organization config, or
// a zero policy when the repository is not listed.
func (c *Config) PolicyFor(repo string) (RepoPolicy, bool) {
	p, ok := c.Repositories[repo]
	return p, ok
}

// ProcessAndValidate performs all complex parsing and validation on the raw
// inputs and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processCostFactors(cfg, input); err != nil {
		return err
	}
	if err := processDivisions(cfg, input); err != nil {
		return err
	}
	if err := processRepositories(cfg, input); err != nil {
		return err
	}
	processCheckThresholds(cfg, input)
	return nil
}

// ProcessLocalConfig parses the inputs needed by commands that render
// without contacting GitHub: output settings, cost factors and division
// overrides. Organization and backend settings are not required.
func ProcessLocalConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.Organization = input.Org
	if err := validateOutputInputs(cfg, input); err != nil {
		return err
	}
	if err := processCostFactors(cfg, input); err != nil {
		return err
	}
	return processDivisions(cfg, input)
}

// validateSimpleInputs processes and validates all non-sectioned fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	if input.Org == "" {
		return fmt.Errorf("organization is required (set --org, SINPHASE_ORG or the org key in .sinphase.yaml)")
	}
	cfg.Organization = input.Org
	cfg.Token = input.Token
	cfg.IncludeForks = input.IncludeForks
	cfg.IncludeArchived = input.IncludeArchived
	return validateOutputInputs(cfg, input)
}

// validateOutputInputs processes the result and rendering settings shared by
// every command.
func validateOutputInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}

	// --- 4. Emoji / Color flags ---
	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	return nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		ttl, err := time.ParseDuration(input.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid cache-ttl %q: %w", input.CacheTTL, err)
		}
		cfg.CacheTTL = ttl
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend != "" {
		if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
			return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
		}
		cfg.HistoryDBConnect = input.HistoryDBConnect
		if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
			return err
		}

		// Cache and history must not share a SQLite file
		if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
			cacheDBPath := cfg.CacheDBConnect
			if cacheDBPath == "" {
				cacheDBPath = GetCacheDBFilePath()
			}
			historyDBPath := cfg.HistoryDBConnect
			if historyDBPath == "" {
				historyDBPath = GetHistoryDBFilePath()
			}
			if cacheDBPath == historyDBPath {
				return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
			}
		}
	}

	return nil
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// processCostFactors overlays config file weight overrides onto the stock
// weights. An out-of-bounds weight sum is a warning, not an error, so a
// drifting config still produces scores.
func processCostFactors(cfg *Config, input *ConfigRawInput) error {
	cfg.DefaultFactors = input.CostFactors.Apply(schema.DefaultCostFactors())
	if !cfg.DefaultFactors.ValidateCostBounds() {
		LogWarn("cost factor weights sum outside recommended bounds", nil)
	}
	if cfg.DefaultFactors.ManualBoost < schema.MinPriorityBoost || cfg.DefaultFactors.ManualBoost > schema.MaxPriorityBoost {
		return fmt.Errorf("manual_boost %.2f not in [%.1f,%.1f]",
			cfg.DefaultFactors.ManualBoost, schema.MinPriorityBoost, schema.MaxPriorityBoost)
	}
	return nil
}

// processDivisions builds validated division metadata from the config file
// section, keeping stock values for anything left unset.
func processDivisions(cfg *Config, input *ConfigRawInput) error {
	cfg.Divisions = make(map[schema.Division]*schema.DivisionMetadata, len(schema.AllDivisions))
	for _, d := range schema.AllDivisions {
		dm, err := schema.DefaultDivisionMetadata(d)
		if err != nil {
			return err
		}
		cfg.Divisions[d] = dm
	}

	for name, raw := range input.Divisions {
		division, err := schema.ParseDivision(name)
		if err != nil {
			return fmt.Errorf("divisions section: %w", err)
		}
		base := cfg.Divisions[division]
		governance := base.GovernanceThreshold
		if raw.GovernanceThreshold != nil {
			governance = *raw.GovernanceThreshold
		}
		isolation := base.IsolationThreshold
		if raw.IsolationThreshold != nil {
			isolation = *raw.IsolationThreshold
		}
		boost := base.PriorityBoost
		if raw.PriorityBoost != nil {
			boost = *raw.PriorityBoost
		}
		dm, err := schema.NewDivisionMetadata(division, raw.Description, governance, isolation, boost, raw.ResponsibleArchitect)
		if err != nil {
			return fmt.Errorf("divisions section: %w", err)
		}
		cfg.Divisions[division] = dm
	}
	return nil
}

// processRepositories validates the per-repository policy section.
func processRepositories(cfg *Config, input *ConfigRawInput) error {
	cfg.Repositories = make(map[string]RepoPolicy, len(input.Repositories))
	for repo, raw := range input.Repositories {
		policy, err := ResolveRepoPolicy(&raw, cfg.DefaultFactors)
		if err != nil {
			return fmt.Errorf("repositories section: %s: %w", repo, err)
		}
		cfg.Repositories[repo] = policy
	}
	return nil
}

// ResolveRepoPolicy validates a raw repository policy. Unset division and
// status fall back to Computing/Active.
func ResolveRepoPolicy(raw *RepoPolicyRaw, defaults schema.CostFactors) (RepoPolicy, error) {
	policy := RepoPolicy{
		Division:           schema.ComputingDivision,
		Status:             schema.ActiveStatus,
		SinphaseCompliance: true,
	}
	if raw == nil {
		return policy, nil
	}
	policy.Skip = raw.Skip
	policy.Dependencies = raw.Dependencies
	if raw.SinphaseCompliance != nil {
		policy.SinphaseCompliance = *raw.SinphaseCompliance
	}
	if raw.Division != "" {
		division, err := schema.ParseDivision(raw.Division)
		if err != nil {
			return policy, err
		}
		policy.Division = division
	}
	if raw.Status != "" {
		status, err := schema.ParseProjectStatus(raw.Status)
		if err != nil {
			return policy, err
		}
		policy.Status = status
	}
	if raw.CostFactors != nil {
		factors := raw.CostFactors.Apply(defaults)
		if factors.ManualBoost < schema.MinPriorityBoost || factors.ManualBoost > schema.MaxPriorityBoost {
			return policy, fmt.Errorf("manual_boost %.2f not in [%.1f,%.1f]",
				factors.ManualBoost, schema.MinPriorityBoost, schema.MaxPriorityBoost)
		}
		policy.Factors = &factors
	}
	return policy, nil
}

// processCheckThresholds reads gate settings, falling back to the stock
// gate for unset fields.
func processCheckThresholds(cfg *Config, input *ConfigRawInput) {
	cfg.Check = schema.DefaultCheckThresholds()
	if input.MaxScore > 0 {
		cfg.Check.MaxScore = input.MaxScore
	}
	if input.MinComplianceRate > 0 {
		cfg.Check.MinComplianceRate = input.MinComplianceRate
	}
	cfg.Check.FailOnIsolation = input.FailOnIsolation
}

// ValidateConfigData checks a raw config without failing fast, returning
// every finding so a config review reports all problems in one pass.
func ValidateConfigData(input *ConfigRawInput) []schema.ValidationError {
	var errs []schema.ValidationError

	if input.Org == "" {
		errs = append(errs, schema.ValidationError{
			Field:    "org",
			Message:  "organization is required",
			Severity: schema.SeverityError,
		})
	}

	factors := input.CostFactors.Apply(schema.DefaultCostFactors())
	if !factors.ValidateCostBounds() {
		errs = append(errs, schema.ValidationError{
			Field:    "cost_factors",
			Message:  "cost factor weights sum outside recommended governance bounds",
			Severity: schema.SeverityWarning,
		})
	}

	for name, raw := range input.Divisions {
		if _, err := schema.ParseDivision(name); err != nil {
			errs = append(errs, schema.ValidationError{
				Field:    "divisions." + name,
				Message:  err.Error(),
				Severity: schema.SeverityError,
			})
			continue
		}
		if raw.GovernanceThreshold != nil && raw.IsolationThreshold != nil &&
			*raw.GovernanceThreshold > *raw.IsolationThreshold {
			errs = append(errs, schema.ValidationError{
				Field:    "divisions." + name,
				Message:  "governance threshold cannot exceed isolation threshold",
				Severity: schema.SeverityError,
			})
		}
	}

	for repo, raw := range input.Repositories {
		if raw.Division != "" {
			if _, err := schema.ParseDivision(raw.Division); err != nil {
				errs = append(errs, schema.ValidationError{
					Repository: repo,
					Field:      "division",
					Message:    err.Error(),
					Severity:   schema.SeverityError,
				})
			}
		}
		if raw.Status != "" {
			if _, err := schema.ParseProjectStatus(raw.Status); err != nil {
				errs = append(errs, schema.ValidationError{
					Repository: repo,
					Field:      "status",
					Message:    err.Error(),
					Severity:   schema.SeverityError,
				})
			}
		}
		if raw.CostFactors != nil {
			if !raw.CostFactors.Apply(schema.DefaultCostFactors()).ValidateCostBounds() {
				errs = append(errs, schema.ValidationError{
					Repository: repo,
					Field:      "cost_factors",
					Message:    "cost factor weights sum outside recommended governance bounds",
					Severity:   schema.SeverityWarning,
				})
			}
		}
	}

	return errs
}
