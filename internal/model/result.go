package model

import (
	"fmt"
	"strings"
)

// Stage names the step of the per-file sequence that failed.
type Stage string

const (
	StageNone       Stage = ""
	StageReset      Stage = "reset"
	StageOpenDialog Stage = "open-dialog"
	StageOpen       Stage = "open"
	StageActivation Stage = "activation"
	StageExport     Stage = "export"
)

// ProcessingResult is the outcome for one file.
type ProcessingResult struct {
	File     TargetFile `yaml:"file"               json:"file"`
	OK       bool       `yaml:"ok"                 json:"ok"`
	Stage    Stage      `yaml:"stage,omitempty"    json:"stage,omitempty"`
	Snapshot string     `yaml:"snapshot,omitempty" json:"snapshot,omitempty"`
}

// BatchReport aggregates per-file results for one run.
type BatchReport struct {
	Succeeded int                `yaml:"succeeded"         json:"succeeded"`
	Failed    int                `yaml:"failed"            json:"failed"`
	Aborted   bool               `yaml:"aborted,omitempty" json:"aborted,omitempty"`
	DryRun    bool               `yaml:"dry_run,omitempty" json:"dry_run,omitempty"`
	Results   []ProcessingResult `yaml:"results"           json:"results"`
}

// Add records a result, keeping selection order.
func (r *BatchReport) Add(res ProcessingResult) {
	r.Results = append(r.Results, res)
	if res.OK {
		r.Succeeded++
	} else {
		r.Failed++
	}
}

// Total is the number of files attempted.
func (r *BatchReport) Total() int {
	return r.Succeeded + r.Failed
}

// FailedFiles lists the failed files in selection order.
func (r *BatchReport) FailedFiles() []TargetFile {
	var out []TargetFile
	for _, res := range r.Results {
		if !res.OK {
			out = append(out, res.File)
		}
	}
	return out
}

// MaxListedFailures caps how many failed files Summary names.
const MaxListedFailures = 5

// Summary renders the operator-facing completion message.
func (r *BatchReport) Summary() string {
	var b strings.Builder
	if r.Aborted {
		b.WriteString("Processing was interrupted.\n\n")
	} else {
		b.WriteString("Processing finished.\n\n")
	}
	fmt.Fprintf(&b, "Succeeded: %d\nFailed: %d", r.Succeeded, r.Failed)

	failed := r.FailedFiles()
	if len(failed) == 0 {
		return b.String()
	}
	b.WriteString("\n\nFailed files:\n")
	for i, f := range failed {
		if i == MaxListedFailures {
			fmt.Fprintf(&b, "... and %d more\n", len(failed)-MaxListedFailures)
			break
		}
		fmt.Fprintf(&b, "- %s\n", f.Name())
	}
	return strings.TrimRight(b.String(), "\n")
}
