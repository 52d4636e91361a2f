package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/exportbot/internal/model"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// Out is where Print writes. Tests replace it.
var Out io.Writer = os.Stdout

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatYAML, FormatJSON:
		return Format(s), nil
	}
	return "", fmt.Errorf("unsupported output format: %s (use yaml or json)", s)
}

// ListResult is the output of the `list` command.
type ListResult struct {
	Title   string         `yaml:"title,omitempty" json:"title,omitempty"`
	Windows []model.Window `yaml:"windows"         json:"windows"`
}

// Print serializes v to Out in the current output format.
func Print(v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		if PrettyOutput {
			return PrintPrettyJSON(v)
		}
		return PrintJSON(v)
	case FormatYAML:
		return PrintYAML(v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// PrintJSON serializes v to Out as compact single-line JSON.
func PrintJSON(v interface{}) error {
	enc := json.NewEncoder(Out)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// PrintPrettyJSON serializes v to Out as indented JSON.
func PrintPrettyJSON(v interface{}) error {
	enc := json.NewEncoder(Out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// PrintYAML serializes v to Out as YAML.
func PrintYAML(v interface{}) error {
	enc := yaml.NewEncoder(Out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}

// ReportTable renders per-file results as a console table.
func ReportTable(r *model.BatchReport) (string, error) {
	data := pterm.TableData{{"#", "File", "Result", "Stage", "Snapshot"}}
	for i, res := range r.Results {
		status := "ok"
		if !res.OK {
			status = "FAILED"
		}
		data = append(data, []string{fmt.Sprint(i + 1), res.File.Name(), status, string(res.Stage), res.Snapshot})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}
