package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/obinexus/sinphase/internal/contract"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "Wrote %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	return nil
}

// scorePrecision is the decimal precision for score columns.
const scorePrecision = 2

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// labelFunc returns the governance label formatter matching the color
// configuration. CSV and JSON output always use the plain variant.
func labelFunc(cfg *contract.Config) func(float64) string {
	if cfg.UseColors {
		return contract.GetColorLabel
	}
	return contract.GetPlainLabel
}

// headerLine formats a section header, with an optional leading emoji.
func headerLine(cfg *contract.Config, emoji, text string) string {
	if cfg.UseEmojis {
		return fmt.Sprintf("%s %s", emoji, text)
	}
	return text
}

// isolationMarker renders the per-row isolation column.
func isolationMarker(requiresIsolation bool, cfg *contract.Config) string {
	if !requiresIsolation {
		return ""
	}
	if cfg.UseEmojis {
		return "🚨"
	}
	return "ISOLATE"
}
