package main

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/iota-uz/organogram/modules/organogram/domain/issue"
)

const checkReportSchemaVersion = 1

type checkSummary struct {
	Displayable bool               `json:"displayable"`
	Errors      int                `json:"errors"`
	Fatal       int                `json:"fatal"`
	ByKind      map[issue.Kind]int `json:"by_kind,omitempty"`
}

type checkIssue struct {
	Severity issue.Severity `json:"severity"`
	Kind     issue.Kind     `json:"kind"`
	Rule     string         `json:"rule,omitempty"`
	Sheet    string         `json:"sheet,omitempty"`
	Cell     string         `json:"cell,omitempty"`
	Message  string         `json:"message"`
}

type checkReportV1 struct {
	SchemaVersion int          `json:"schema_version"`
	RunID         uuid.UUID    `json:"run_id"`
	GeneratedAt   time.Time    `json:"generated_at"`
	Input         string       `json:"input"`
	Summary       checkSummary `json:"summary"`
	Issues        []checkIssue `json:"issues"`
	RowMarkers    []checkIssue `json:"row_markers,omitempty"`
}

func newCheckReport(input string, displayable bool, issues, markers issue.List) checkReportV1 {
	r := checkReportV1{
		SchemaVersion: checkReportSchemaVersion,
		RunID:         uuid.New(),
		GeneratedAt:   time.Now().UTC(),
		Input:         input,
		Summary: checkSummary{
			Displayable: displayable,
			Errors:      len(issues),
			ByKind:      issues.CountByKind(),
		},
		Issues:     toCheckIssues(issues),
		RowMarkers: toCheckIssues(markers),
	}
	for _, is := range issues {
		if is.IsFatal() {
			r.Summary.Fatal++
		}
	}
	return r
}

func toCheckIssues(issues issue.List) []checkIssue {
	out := make([]checkIssue, 0, len(issues))
	for _, is := range issues {
		ci := checkIssue{
			Severity: is.Severity,
			Kind:     is.Kind,
			Rule:     is.Rule,
			Sheet:    is.Sheet,
			Message:  is.Text(),
		}
		if is.Cell != nil {
			ci.Cell = is.Cell.String()
		}
		out = append(out, ci)
	}
	return out
}

func (r checkReportV1) validate() error {
	if r.SchemaVersion != checkReportSchemaVersion {
		return withCode(exitRejected, errors.Errorf("unsupported schema_version: %d", r.SchemaVersion))
	}
	if r.RunID == uuid.Nil {
		return withCode(exitRejected, errors.New("run_id is required"))
	}
	if r.Summary.Errors != len(r.Issues) {
		return withCode(exitRejected, errors.Errorf("summary.errors=%d does not match issues=%d", r.Summary.Errors, len(r.Issues)))
	}
	if r.Summary.Displayable && r.Summary.Fatal > 0 {
		return withCode(exitRejected, errors.New("displayable report cannot carry fatal issues"))
	}
	return nil
}
