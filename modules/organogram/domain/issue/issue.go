package issue

import (
	"fmt"

	"github.com/iota-uz/organogram/pkg/cellref"
)

type Severity string

const (
	SeverityFatal Severity = "fatal"
	SeverityError Severity = "error"
)

type Kind string

const (
	KindLoad              Kind = "load"
	KindColumnTitle       Kind = "column_title"
	KindCoercion          Kind = "coercion"
	KindCell              Kind = "cell"
	KindRowMarker         Kind = "row_marker"
	KindNoRoot            Kind = "no_root"
	KindUnknownSenior     Kind = "unknown_senior_parent"
	KindDuplicateRef      Kind = "duplicate_reference"
	KindSelfReport        Kind = "self_report"
	KindUnknownPost       Kind = "unknown_post"
	KindReportingLoop     Kind = "reporting_loop"
	KindMaxDepth          Kind = "max_depth"
	KindDisconnected      Kind = "disconnected_root"
	KindUnknownJuniorPost Kind = "unknown_junior_parent"
	KindUnexpectedData    Kind = "unexpected_data"
)

// Issue is one load, validation or structural finding.
type Issue struct {
	Severity Severity
	Kind     Kind
	// Rule identifies the check, e.g. "senior.B".
	Rule    string
	Sheet   string
	Cell    *cellref.Coord
	Message string
	Details map[string]any
}

func New(kind Kind, format string, args ...any) Issue {
	return Issue{Severity: SeverityError, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Fatal(kind Kind, format string, args ...any) Issue {
	return Issue{Severity: SeverityFatal, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// AtCell builds a cell-scoped error on sheetName.
func AtCell(sheetName string, at cellref.Coord, rule, format string, args ...any) Issue {
	c := at
	return Issue{
		Severity: SeverityError,
		Kind:     KindCell,
		Rule:     rule,
		Sheet:    sheetName,
		Cell:     &c,
		Message:  fmt.Sprintf(format, args...),
	}
}

func (i Issue) WithDetails(details map[string]any) Issue {
	i.Details = details
	return i
}

func (i Issue) WithSheet(sheetName string) Issue {
	i.Sheet = sheetName
	return i
}

func (i Issue) IsFatal() bool { return i.Severity == SeverityFatal }

// Text is the user-facing message, with the cell pointer appended for cell issues.
func (i Issue) Text() string {
	if i.Cell == nil {
		return i.Message
	}
	return fmt.Sprintf("%s See sheet \"%s\" cell %s", i.Message, i.Sheet, i.Cell.String())
}

func (i Issue) String() string { return i.Text() }
