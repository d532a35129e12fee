package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obinexus/sinphase/schema"
)

func validRawInput() *ConfigRawInput {
	return &ConfigRawInput{
		Org:          "obinexus",
		Workers:      4,
		Limit:        DefaultResultLimit,
		Output:       "text",
		CacheBackend: "sqlite",
		Emoji:        "no",
		Color:        "yes",
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validRawInput()))

	assert.Equal(t, "obinexus", cfg.Organization)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.SQLiteBackend, cfg.CacheBackend)
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
	assert.Equal(t, schema.DefaultCostFactors(), cfg.DefaultFactors)
	assert.Len(t, cfg.Divisions, len(schema.AllDivisions))
	assert.Equal(t, 1.5, cfg.Divisions[schema.UcheNnamdiDivision].PriorityBoost)
	assert.False(t, cfg.Check.FailOnIsolation)
}

func TestProcessAndValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConfigRawInput)
		want   string
	}{
		{
			name:   "missing org",
			mutate: func(in *ConfigRawInput) { in.Org = "" },
			want:   "organization is required",
		},
		{
			name:   "zero workers",
			mutate: func(in *ConfigRawInput) { in.Workers = 0 },
			want:   "workers must be greater than 0",
		},
		{
			name:   "limit too large",
			mutate: func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 },
			want:   "limit must be greater than 0",
		},
		{
			name:   "bad output",
			mutate: func(in *ConfigRawInput) { in.Output = "xml" },
			want:   "invalid output format",
		},
		{
			name:   "bad cache backend",
			mutate: func(in *ConfigRawInput) { in.CacheBackend = "orache" },
			want:   "invalid cache backend",
		},
		{
			name:   "bad cache ttl",
			mutate: func(in *ConfigRawInput) { in.CacheTTL = "soon" },
			want:   "invalid cache-ttl",
		},
		{
			name:   "bad emoji flag",
			mutate: func(in *ConfigRawInput) { in.Emoji = "maybe" },
			want:   "invalid --emoji value",
		},
		{
			name: "mysql needs connection string",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = "mysql"
			},
			want: "connection string is required",
		},
		{
			name: "unknown division override",
			mutate: func(in *ConfigRawInput) {
				in.Divisions = map[string]DivisionRawInput{"Skunkworks": {}}
			},
			want: "unknown division",
		},
		{
			name: "unknown repo status",
			mutate: func(in *ConfigRawInput) {
				in.Repositories = map[string]RepoPolicyRaw{"svc": {Status: "Retired"}}
			},
			want: "unknown project status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRawInput()
			tt.mutate(input)
			err := ProcessAndValidate(&Config{}, input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestProcessDivisionOverrides(t *testing.T) {
	input := validRawInput()
	governance := 0.5
	boost := 2.0
	input.Divisions = map[string]DivisionRawInput{
		"Aegis Engineering": {
			GovernanceThreshold:  &governance,
			PriorityBoost:        &boost,
			ResponsibleArchitect: "nnamdi",
		},
	}

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	dm := cfg.Divisions[schema.AegisEngDivision]
	assert.Equal(t, 0.5, dm.GovernanceThreshold)
	assert.Equal(t, schema.IsolationThreshold, dm.IsolationThreshold)
	assert.Equal(t, 2.0, dm.PriorityBoost)
	assert.Equal(t, "nnamdi", dm.ResponsibleArchitect)

	// Untouched divisions keep stock values.
	assert.Equal(t, schema.GovernanceThreshold, cfg.Divisions[schema.TDADivision].GovernanceThreshold)
}

func TestProcessRepositoriesAndPolicyFallback(t *testing.T) {
	input := validRawInput()
	boost := 1.8
	input.Repositories = map[string]RepoPolicyRaw{
		"polybuild": {
			Division:    "Aegis Engineering",
			Status:      "Core",
			CostFactors: &CostFactorsRaw{ManualBoost: &boost},
		},
		"scratchpad": {Skip: true},
	}

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	policy, ok := cfg.PolicyFor("polybuild")
	require.True(t, ok)
	assert.Equal(t, schema.AegisEngDivision, policy.Division)
	assert.Equal(t, schema.CoreStatus, policy.Status)
	require.NotNil(t, policy.Factors)
	assert.Equal(t, 1.8, policy.Factors.ManualBoost)

	skip, ok := cfg.PolicyFor("scratchpad")
	require.True(t, ok)
	assert.True(t, skip.Skip)
	assert.Equal(t, schema.ComputingDivision, skip.Division)
	assert.Equal(t, schema.ActiveStatus, skip.Status)

	_, ok = cfg.PolicyFor("unlisted")
	assert.False(t, ok)
}

func TestResolveRepoPolicyCompliance(t *testing.T) {
	// Compliance defaults to declared when the policy never mentions it.
	policy, err := ResolveRepoPolicy(nil, schema.DefaultCostFactors())
	require.NoError(t, err)
	assert.True(t, policy.SinphaseCompliance)

	policy, err = ResolveRepoPolicy(&RepoPolicyRaw{Division: "TDA"}, schema.DefaultCostFactors())
	require.NoError(t, err)
	assert.True(t, policy.SinphaseCompliance)

	// Explicit declaration wins.
	declared := false
	policy, err = ResolveRepoPolicy(&RepoPolicyRaw{
		SinphaseCompliance: &declared,
		Dependencies:       []string{"libpolycall", "nlink"},
	}, schema.DefaultCostFactors())
	require.NoError(t, err)
	assert.False(t, policy.SinphaseCompliance)
	assert.Len(t, policy.Dependencies, 2)
}

func TestProcessCheckThresholds(t *testing.T) {
	input := validRawInput()
	input.MaxScore = 70
	input.FailOnIsolation = true

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, 70.0, cfg.Check.MaxScore)
	assert.True(t, cfg.Check.FailOnIsolation)
	assert.Equal(t, 0.0, cfg.Check.MinComplianceRate)
}

func TestCacheTTLParsing(t *testing.T) {
	input := validRawInput()
	input.CacheTTL = "45m"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, 45*time.Minute, cfg.CacheTTL)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	assert.NoError(t, ValidateDatabaseConnectionString(schema.SQLiteBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.NoneBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pass@tcp(localhost:3306)/sinphase"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pass/sinphase"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost dbname=sinphase"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost"))
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validRawInput()))

	clone := cfg.Clone()
	clone.Divisions[schema.ComputingDivision].PriorityBoost = 2.9
	clone.Repositories["extra"] = RepoPolicy{Division: schema.TDADivision}

	assert.Equal(t, 1.2, cfg.Divisions[schema.ComputingDivision].PriorityBoost)
	_, ok := cfg.Repositories["extra"]
	assert.False(t, ok)
}

func TestValidateConfigData(t *testing.T) {
	badWeight := 5.0
	input := &ConfigRawInput{
		CostFactors: CostFactorsRaw{StarsWeight: &badWeight},
		Divisions: map[string]DivisionRawInput{
			"Skunkworks": {},
		},
		Repositories: map[string]RepoPolicyRaw{
			"svc": {Division: "Nowhere", Status: "Retired"},
		},
	}

	errs := ValidateConfigData(input)
	counts := schema.CountBySeverity(errs)
	assert.Equal(t, 4, counts[schema.SeverityError]) // org, division, repo division, repo status
	assert.Equal(t, 1, counts[schema.SeverityWarning])

	var sawViolation bool
	for _, e := range errs {
		if e.IsSinphaseViolation() {
			sawViolation = true
		}
	}
	assert.True(t, sawViolation)
}
