package diag

import (
	"encoding/json"
	"fmt"
	"io"
)

// RenderText writes findings in the compiler-style "file:line:col:
// severity: message [code]" form.
func RenderText(w io.Writer, file string, findings []Finding) {
	for _, f := range findings {
		fmt.Fprintf(w, "%s:%d:%d: %s: %s [%s]\n", file, f.Pos.Line, f.Pos.Column, f.Severity, f.Message, f.Code)
	}
}

type jsonFinding struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Fixable  bool   `json:"fixable"`
}

type jsonReport struct {
	RunID    string        `json:"runId"`
	Findings []jsonFinding `json:"findings"`
}

// RenderJSON writes every file's findings as a single report, tagged
// with a per-run ID so a caller can correlate output across restarts.
func RenderJSON(w io.Writer, runID string, byFile map[string][]Finding) error {
	report := jsonReport{RunID: runID}
	for file, findings := range byFile {
		for _, f := range findings {
			report.Findings = append(report.Findings, jsonFinding{
				File: file, Line: f.Pos.Line, Column: f.Pos.Column,
				Severity: f.Severity.String(), Code: f.Code, Message: f.Message, Fixable: f.Fixable,
			})
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
