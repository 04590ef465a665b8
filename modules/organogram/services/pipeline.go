package services

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/organogram/modules/organogram/domain/issue"
	"github.com/iota-uz/organogram/modules/organogram/domain/post"
	"github.com/iota-uz/organogram/modules/organogram/domain/reference"
	"github.com/iota-uz/organogram/modules/organogram/domain/sheet"
)

// SheetSource reads named sheets of one workbook. The returned table holds
// the header titles in Columns and the typed cells below it in Rows, limited
// to the first maxColumns columns.
type SheetSource interface {
	ReadSheet(ctx context.Context, name string, maxColumns int) (*sheet.Table, error)
}

const (
	StageLoad     = "load"
	StageValidate = "validate"
	StageGraph    = "graph"
	StageAccepted = "accepted"

	levelCheck Level = "check"
)

type PipelineOptions struct {
	MaxDepth    int
	SeniorSheet string
	JuniorSheet string
	// References replaces the lists embedded in the workbook when set.
	References *reference.Lists
}

func (o PipelineOptions) schemas() (sheet.Schema, sheet.Schema) {
	senior, junior := sheet.SeniorSchema(), sheet.JuniorSchema()
	if o.SeniorSheet != "" {
		senior.Sheet = o.SeniorSheet
	}
	if o.JuniorSheet != "" {
		junior.Sheet = o.JuniorSheet
	}
	return senior, junior
}

// LoadReferences reads the closed value lists from the first column of the
// reference sheets, header excluded.
func LoadReferences(ctx context.Context, src SheetSource) (reference.Lists, error) {
	var refs reference.Lists
	targets := []struct {
		sheet string
		dst   *[]string
	}{
		{reference.SeniorGradesSheet, &refs.SeniorGrades},
		{reference.UnitsSheet, &refs.Units},
		{reference.ProfessionsSheet, &refs.Professions},
	}
	for _, target := range targets {
		t, err := src.ReadSheet(ctx, target.sheet, 1)
		if err != nil {
			return reference.Lists{}, errors.Wrapf(err, "reference sheet %q", target.sheet)
		}
		values := []string{}
		for _, r := range t.Rows {
			c := r.Cell(0)
			if c.IsBlank() {
				continue
			}
			values = append(values, c.Text())
		}
		*target.dst = values
	}
	return refs, nil
}

type loadedWorkbook struct {
	// refErrors stop the load before any sheet is read.
	refErrors  issue.List
	senior     Normalized
	junior     Normalized
	validation issue.List
	markers    issue.List
}

func (w loadedWorkbook) loadErrors() issue.List {
	return issue.Concat(w.refErrors, w.senior.LoadErrors, w.junior.LoadErrors)
}

// loadWorkbook reads and validates both sheets. Unreadable reference lists
// leave both sheets empty.
func loadWorkbook(ctx context.Context, src SheetSource, opts PipelineOptions) loadedWorkbook {
	seniorSchema, juniorSchema := opts.schemas()

	var refs reference.Lists
	if opts.References != nil {
		refs = *opts.References
	} else {
		var err error
		if refs, err = LoadReferences(ctx, src); err != nil {
			return loadedWorkbook{
				refErrors: issue.List{issue.New(issue.KindLoad, "%s", err.Error())},
				senior:    Normalized{Table: sheet.NewTable(seniorSchema.Sheet, seniorSchema.OutputColumns())},
				junior:    Normalized{Table: sheet.NewTable(juniorSchema.Sheet, juniorSchema.OutputColumns())},
			}
		}
	}

	read := func(schema sheet.Schema) Normalized {
		logWithFields(ctx, logrus.InfoLevel, "Loading", logrus.Fields{"sheet": schema.Sheet})
		raw, err := src.ReadSheet(ctx, schema.Sheet, len(schema.Columns))
		if err != nil {
			return NormalizeFailed(schema, err)
		}
		return Normalize(ctx, raw, schema)
	}

	w := loadedWorkbook{senior: read(seniorSchema), junior: read(juniorSchema)}
	w.validation = issue.Concat(w.senior.ValidationErrors, w.junior.ValidationErrors)
	if len(w.loadErrors()) > 0 {
		return w
	}

	seniorCheck := ValidateSheet(ctx, w.senior.Table, SheetSenior, refs)
	juniorCheck := ValidateSheet(ctx, w.junior.Table, SheetJunior, refs)
	w.validation = issue.Concat(w.validation, seniorCheck.CellErrors, juniorCheck.CellErrors)
	w.markers = issue.Concat(seniorCheck.RowMarkers, juniorCheck.RowMarkers)
	return w
}

func (w loadedWorkbook) graph(ctx context.Context, opts PipelineOptions) (GraphResult, error) {
	return VerifyGraph(ctx,
		post.SeniorFromTable(w.senior.Table),
		post.JuniorFromTable(w.junior.Table),
		GraphOptions{MaxDepth: opts.MaxDepth})
}

func (w loadedWorkbook) outputTables(opts PipelineOptions) (*sheet.Table, *sheet.Table) {
	seniorSchema, juniorSchema := opts.schemas()
	ApplyOutputDrops(w.senior.Table, seniorSchema)
	ApplyOutputDrops(w.junior.Table, juniorSchema)
	return w.senior.Table, w.junior.Table
}

// CheckResult answers "will this organogram display", with everything wrong with it.
type CheckResult struct {
	Senior      *sheet.Table
	Junior      *sheet.Table
	Issues      issue.List
	Displayable bool
	// RowMarkers are the workbook's own validity flags, reported apart from Issues.
	RowMarkers issue.List
}

// LoadAndCheck loads and validates a workbook and verifies its structure.
// Load errors make it undisplayable; a fatal structure error is reported alone.
func LoadAndCheck(ctx context.Context, src SheetSource, opts PipelineOptions) CheckResult {
	if src == nil {
		return CheckResult{Issues: issue.List{issue.New(issue.KindLoad, "%s", ErrNilInput.Error())}}
	}
	w := loadWorkbook(ctx, src, opts)

	res := CheckResult{RowMarkers: w.markers}
	if loadErrs := w.loadErrors(); len(loadErrs) > 0 {
		res.Senior, res.Junior = w.outputTables(opts)
		res.Issues = issue.Concat(loadErrs, w.validation).Dedupe()
		recordPipelineOutcome(levelCheck, StageLoad)
		return res
	}

	g, err := w.graph(ctx, opts)
	res.Senior, res.Junior = w.outputTables(opts)
	if err != nil {
		res.Issues = g.Issues.Dedupe()
		recordPipelineOutcome(levelCheck, StageGraph)
		return res
	}
	res.Issues = issue.Concat(w.validation, g.Issues).Dedupe()
	res.Displayable = true
	recordPipelineOutcome(levelCheck, StageAccepted)
	return res
}

// Outcome is the publish decision for one workbook at one verify level.
type Outcome struct {
	Level  Level
	Senior *sheet.Table
	Junior *sheet.Table
	// Issues blocked publication when Accepted is false and were tolerated otherwise.
	Issues      issue.List
	Accepted    bool
	Displayable bool
	// Stage is where the pipeline stopped.
	Stage string
}

// LoadAndVerify runs the pipeline and decides whether the workbook can be
// published at level.
func LoadAndVerify(ctx context.Context, src SheetSource, level Level, opts PipelineOptions) (Outcome, error) {
	if !level.Valid() {
		return Outcome{}, errors.Errorf("unknown verify level %q", level)
	}
	if src == nil {
		return Outcome{}, ErrNilInput
	}
	out := Outcome{Level: level}
	done := func(stage string, accepted bool) (Outcome, error) {
		out.Stage, out.Accepted = stage, accepted
		recordPipelineOutcome(level, stage)
		logWithFields(ctx, logrus.InfoLevel, "verified organogram", logrus.Fields{
			"level":    level,
			"stage":    stage,
			"accepted": accepted,
			"issues":   len(out.Issues),
		})
		return out, nil
	}

	w := loadWorkbook(ctx, src, opts)
	if loadErrs := w.loadErrors(); len(loadErrs) > 0 {
		out.Senior, out.Junior = w.outputTables(opts)
		out.Issues = issue.Concat(loadErrs, w.validation).Dedupe()
		return done(StageLoad, false)
	}
	if level == LevelLoadDisplayAndValidate && len(w.validation) > 0 {
		out.Senior, out.Junior = w.outputTables(opts)
		out.Issues = w.validation.Dedupe()
		return done(StageValidate, false)
	}
	if level == LevelLoadOnly {
		out.Senior, out.Junior = w.outputTables(opts)
		out.Issues = w.validation.Dedupe()
		return done(StageAccepted, true)
	}

	g, err := w.graph(ctx, opts)
	out.Senior, out.Junior = w.outputTables(opts)
	if err != nil {
		out.Issues = g.Issues.Dedupe()
		return done(StageGraph, false)
	}
	out.Displayable = true
	out.Issues = issue.Concat(w.validation, g.Issues).Dedupe()
	if level == LevelLoadDisplayAndValidate && len(g.Issues) > 0 {
		out.Issues = g.Issues.Dedupe()
		return done(StageGraph, false)
	}
	return done(StageAccepted, true)
}
