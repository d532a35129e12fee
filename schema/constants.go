package schema

// Custom string types for type safety.
type (
	// Division represents an organizational division.
	Division string

	// ProjectStatus represents the lifecycle status of a repository.
	ProjectStatus string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string
)

// Sinphasé governance thresholds. These are universal ceilings that apply
// regardless of per-division overrides.
const (
	GovernanceThreshold                  = 0.6
	IsolationThreshold                   = 0.8
	ArchitecturalReorganizationThreshold = 1.0

	// NormalizationCeiling scales raw scores to the 0-100 display range.
	NormalizationCeiling = 100.0
)

// Priority boost bounds for divisions and manual overrides.
const (
	MinPriorityBoost = 0.1
	MaxPriorityBoost = 3.0
)

// Cost factor weight sum bounds. The five metric weights must sum within
// this interval; the manual boost is excluded from the sum check.
const (
	MinWeightSum = 0.8
	MaxWeightSum = 1.2
)

// All organizational divisions.
const (
	ComputingDivision   Division = "Computing"
	UcheNnamdiDivision  Division = "UCHE Nnamdi"
	PublishingDivision  Division = "Publishing"
	ObiAxisRDDivision   Division = "OBIAxis R&D"
	TDADivision         Division = "TDA"
	NkwakobaDivision    Division = "Nkwakọba"
	AegisEngDivision    Division = "Aegis Engineering"
)

// All project lifecycle statuses.
const (
	CoreStatus         ProjectStatus = "Core"
	ActiveStatus       ProjectStatus = "Active" // default
	IncubatorStatus    ProjectStatus = "Incubator"
	LegacyStatus       ProjectStatus = "Legacy"
	ExperimentalStatus ProjectStatus = "Experimental"
	IsolatedStatus     ProjectStatus = "Isolated"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllDivisions returns every division in a stable display order.
var AllDivisions = []Division{
	ComputingDivision,
	UcheNnamdiDivision,
	PublishingDivision,
	ObiAxisRDDivision,
	TDADivision,
	NkwakobaDivision,
	AegisEngDivision,
}

// AllProjectStatuses lists every lifecycle status in a stable display order.
var AllProjectStatuses = []ProjectStatus{
	CoreStatus,
	ActiveStatus,
	IncubatorStatus,
	LegacyStatus,
	ExperimentalStatus,
	IsolatedStatus,
}

// ValidDivisions lists all valid divisions.
var ValidDivisions = map[Division]struct{}{
	ComputingDivision:  {},
	UcheNnamdiDivision: {},
	PublishingDivision: {},
	ObiAxisRDDivision:  {},
	TDADivision:        {},
	NkwakobaDivision:   {},
	AegisEngDivision:   {},
}

// ValidProjectStatuses lists all valid project statuses.
var ValidProjectStatuses = map[ProjectStatus]struct{}{
	CoreStatus:         {},
	ActiveStatus:       {},
	IncubatorStatus:    {},
	LegacyStatus:       {},
	ExperimentalStatus: {},
	IsolatedStatus:     {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid cache backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// DefaultPriorityBoost returns the default cost multiplier for a division.
// New divisions require a new case here; the closed set is intentional.
func DefaultPriorityBoost(d Division) float64 {
	switch d {
	case ComputingDivision:
		return 1.2
	case UcheNnamdiDivision:
		return 1.5
	case AegisEngDivision:
		return 1.3
	case ObiAxisRDDivision:
		return 1.1
	case TDADivision:
		return 1.0
	case PublishingDivision:
		return 0.9
	case NkwakobaDivision:
		return 1.0
	default:
		return 1.0
	}
}
