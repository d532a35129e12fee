package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/obinexus/sinphase/schema"
)

// DateTimeFormat is the timestamp layout used in CSV and status output.
const DateTimeFormat = "2006-01-02 15:04:05"

// Governance label constants.
const (
	ReorganizeValue = "Reorganize" // Architectural reorganization required
	IsolateValue    = "Isolate"    // Isolation required
	WarningValue    = "Warning"    // Governance threshold crossed
	CompliantValue  = "Compliant"  // Within governance bounds
)

// Color variables for console output.
var (
	ReorganizeColor = color.New(color.FgRed, color.Bold)     // reorganizeColor represents standard danger.
	IsolateColor    = color.New(color.FgMagenta, color.Bold) // isolateColor represents strong, distinct warning.
	WarningColor    = color.New(color.FgYellow)              // warningColor represents standard caution, not bold.
	CompliantColor  = color.New(color.FgCyan)                // compliantColor represents informational signal.
)

// GetPlainLabel returns a plain text governance label for a normalized
// score. This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(normalizedScore float64) string {
	switch {
	case normalizedScore >= schema.ArchitecturalReorganizationThreshold*schema.NormalizationCeiling:
		return ReorganizeValue
	case normalizedScore >= schema.IsolationThreshold*schema.NormalizationCeiling:
		return IsolateValue
	case normalizedScore >= schema.GovernanceThreshold*schema.NormalizationCeiling:
		return WarningValue
	default:
		return CompliantValue
	}
}

// GetColorLabel returns a colored governance label for console output.
// It uses GetPlainLabel to determine the string, and then applies the
// appropriate color.
func GetColorLabel(normalizedScore float64) string {
	text := GetPlainLabel(normalizedScore)

	switch text {
	case ReorganizeValue:
		return ReorganizeColor.Sprint(text)
	case IsolateValue:
		return IsolateColor.Sprint(text)
	case WarningValue:
		return WarningColor.Sprint(text)
	default: // "Compliant"
		return CompliantColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. An empty path selects stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ParseBoolString parses a loose boolean flag value.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// TruncateName truncates a repository name to a maximum width with an
// ellipsis suffix. Requires maxWidth > 3 so there is space for both the
// "..." suffix and at least one character of content.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s\n", msg)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for metrics
// cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".sinphase_cache.db"
	}
	return filepath.Join(homeDir, ".sinphase_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for history
// storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".sinphase_history.db"
	}
	return filepath.Join(homeDir, ".sinphase_history.db")
}
