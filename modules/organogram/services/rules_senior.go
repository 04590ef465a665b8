package services

import (
	"regexp"
	"strings"

	"github.com/iota-uz/organogram/modules/organogram/domain/issue"
	"github.com/iota-uz/organogram/modules/organogram/domain/post"
	"github.com/iota-uz/organogram/modules/organogram/domain/reference"
	"github.com/iota-uz/organogram/modules/organogram/domain/sheet"
	"github.com/iota-uz/organogram/pkg/cellref"
)

var referencePunctuation = regexp.MustCompile(`[¬!"£$%^&()+=\{\}\[\]:;@'#<>,.\\/]`)

var unpaidNames = []string{"Vacant", "VACANT", "vacant", "Eliminated", "ELIMINATED", "eliminated"}

// Columns whose emptiness makes a row blank. A and O are not among them.
var blankRowColumns = []string{"B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M", "N", "P", "Q"}

// RuleRow is a senior row as seen by the cell rules.
type RuleRow struct {
	Sheet string
	Index int
	Refs  reference.Lists
	cells []sheet.Cell
}

func NewRuleRow(sheetName string, r sheet.Row, refs reference.Lists) RuleRow {
	return RuleRow{Sheet: sheetName, Index: r.Index, Refs: refs, cells: r.Cells}
}

// At returns the cell in the given column letter.
func (r RuleRow) At(letter string) sheet.Cell {
	idx := cellref.MustColumnIndex(letter)
	if idx >= len(r.cells) {
		return sheet.Null()
	}
	return r.cells[idx]
}

func (r RuleRow) fail(letter, format string, args ...any) issue.Issue {
	at := cellref.Coord{Row: r.Index, Column: cellref.MustColumnIndex(letter)}
	return issue.AtCell(r.Sheet, at, "senior."+letter, format, args...)
}

// IsBlankRow reports a row with no content outside the reference and pay ceiling.
func (r RuleRow) IsBlankRow() bool {
	for _, letter := range blankRowColumns {
		if r.At(letter).HasContent() {
			return false
		}
	}
	return true
}

func (r RuleRow) unpaid() bool {
	return r.At("A").IsZeroRef() || r.At("B").IsAny(unpaidNames...)
}

// CellRule validates one field of a senior row.
type CellRule struct {
	Field string
	// Letter is the field's column in the senior layout.
	Letter string
	Check  func(r RuleRow) issue.List
}

func seniorRule(field string, check func(r RuleRow) issue.List) CellRule {
	schema := sheet.SeniorSchema()
	return CellRule{Field: field, Letter: cellref.ColumnName(schema.Position(field)), Check: check}
}

// SeniorRules lists the senior cell rules in evaluation order.
func SeniorRules() []CellRule {
	return []CellRule{
		seniorRule(sheet.ColReference, checkReference),
		seniorRule(sheet.ColName, checkName),
		seniorRule(sheet.ColGrade, checkGrade),
		seniorRule(sheet.ColJobTitle, checkJobTitle),
		seniorRule(sheet.ColFunction, checkFunction),
		seniorRule(sheet.ColOrganisation, checkOrganisation),
		seniorRule(sheet.ColUnit, checkUnit),
		seniorRule(sheet.ColContactPhone, checkContactPhone),
		seniorRule(sheet.ColContactEmail, checkContactEmail),
	}
}

// ValidateSeniorRow applies every senior rule to one row.
func ValidateSeniorRow(r RuleRow, rules []CellRule) issue.List {
	if r.IsBlankRow() {
		return nil
	}
	var out issue.List
	for _, rule := range rules {
		out.Add(rule.Check(r)...)
	}
	return out
}

func checkReference(r RuleRow) issue.List {
	a := r.At("A").Text()
	switch {
	case strings.Contains(a, "XX"):
		return issue.List{r.fail("A", `You cannot have "XX" in the "Post Unique Reference" column.`)}
	case strings.Contains(a, " "):
		return issue.List{r.fail("A", `You cannot have spaces in the "Post Unique Reference" column.`)}
	case referencePunctuation.MatchString(a):
		return issue.List{r.fail("A", `You cannot have punctuation/symbols in the "Post Unique Reference" column.`)}
	}
	return nil
}

func checkName(r RuleRow) issue.List {
	a, b := r.At("A"), r.At("B")
	if a.IsBlank() {
		return nil
	}
	if a.IsZeroRef() {
		if !b.Is(post.NotDisclosed) {
			return issue.List{r.fail("B", `Because the "Post Unique Reference" is "0" (individual is paid but not in post) the name must be "N/D".`)}
		}
		return nil
	}
	p := post.ParseValue(r.At("P"))
	if p.GreaterThanZero() && b.IsAny(post.NotDisclosed, post.NotApplicable) {
		if !b.Is(post.NotDisclosed) {
			return issue.List{r.fail("B", `The "Name" cannot be "N/A" (unless "Total Pay (£)" is 0).`)}
		}
		if !p.IsSentinel() {
			return issue.List{r.fail("B", `The "Name" must be disclosed (cannot be "N/A" or "N/D") unless the "Total Pay (£)" is 0.`)}
		}
		return nil
	}
	if b.IsBlank() {
		return issue.List{r.fail("B", `The "Name" cannot be blank.`)}
	}
	return nil
}

func checkGrade(r RuleRow) issue.List {
	if r.At("A").IsBlank() {
		return nil
	}
	c := r.At("C")
	if c.IsBlank() {
		return issue.List{r.fail("C", `The "Grade (or equivalent)" cannot be blank.`)}
	}
	if !c.IsString() || !r.Refs.HasGrade(c.Text()) {
		iss := r.fail("C", `The "Grade (or equivalent)" must be from the standard list: %s.`, quoteList(r.Refs.SeniorGrades))
		if s := suggest(c.Text(), r.Refs.SeniorGrades); len(s) > 0 {
			iss = iss.WithDetails(map[string]any{"value": c.Text(), "suggestions": s})
		}
		return issue.List{iss}
	}
	return nil
}

func checkJobTitle(r RuleRow) issue.List {
	a, d := r.At("A"), r.At("D")
	if a.IsBlank() {
		return nil
	}
	if d.IsBlank() {
		return issue.List{r.fail("D", `The "Job Title" cannot be blank.`)}
	}
	if !d.IsString() || d.Is(post.NotDisclosed) {
		return nil
	}
	if a.IsZeroRef() {
		if !d.Is(post.NotInPost) {
			return issue.List{r.fail("D", `Because the "Post Unique Reference" is "0" (individual is paid but not in post), the "Job Title" must be "Not in post".`)}
		}
		return nil
	}
	if d.Is(post.NotInPost) {
		return issue.List{r.fail("D", `The "Job Title" can only be "Not in post" if the "Post Unique Reference" is "0" (individual is paid but not in post).`)}
	}
	return nil
}

// checkFunction only treats a numeric zero reference as "not in post".
func checkFunction(r RuleRow) issue.List {
	a, e := r.At("A"), r.At("E")
	if a.IsBlank() {
		return nil
	}
	if e.IsBlank() {
		return issue.List{r.fail("E", `The "Job/Team Function" cannot be blank.`)}
	}
	if !e.IsString() || e.Is(post.NotDisclosed) {
		return nil
	}
	if a.IsNumericZero() {
		if !e.Is(post.NotApplicable) {
			return issue.List{r.fail("E", `Because the "Post Unique Reference" is "0" (individual is paid but not in post), the "Job/Team Function" must be "N/A".`)}
		}
		return nil
	}
	if e.Is(post.NotApplicable) {
		return issue.List{r.fail("E", `The "Job/Team Function" can only be "N/A" if the "Post Unique Reference" is "0" (individual is paid but not in post).`)}
	}
	return nil
}

func checkOrganisation(r RuleRow) issue.List {
	if r.At("A").IsBlank() {
		return nil
	}
	g := r.At("G")
	if g.IsBlank() || g.Is(post.NotDisclosed) {
		return issue.List{r.fail("G", `The "Organisation" must be disclosed - it cannot be blank or "N/D".`)}
	}
	return nil
}

func checkUnit(r RuleRow) issue.List {
	a, h := r.At("A"), r.At("H")
	if a.IsBlank() {
		return nil
	}
	if h.IsBlank() || h.Is(post.NotDisclosed) {
		return issue.List{r.fail("H", `The "Unit" must be disclosed - it cannot be blank or "N/D".`)}
	}
	if a.IsNumericZero() {
		if !h.Is(post.NotApplicable) {
			return issue.List{r.fail("H", `Because the "Post Unique Reference" is "0" (individual is paid but not in post), the "Unit" must be "N/A".`)}
		}
		return nil
	}
	if h.Is(post.NotApplicable) {
		return issue.List{r.fail("H", `The "Unit" can only be "N/A" if the "Post Unique Reference" is "0" (individual is paid but not in post).`)}
	}
	if !h.IsString() || !r.Refs.HasUnit(h.Text()) {
		iss := r.fail("H", `The "Unit" must be from the standard list: %s.`, quoteList(r.Refs.Units))
		if s := suggest(h.Text(), r.Refs.Units); len(s) > 0 {
			iss = iss.WithDetails(map[string]any{"value": h.Text(), "suggestions": s})
		}
		return issue.List{iss}
	}
	return nil
}

func checkContactPhone(r RuleRow) issue.List {
	a, i, j := r.At("A"), r.At("I"), r.At("J")
	if a.IsBlank() {
		return nil
	}
	if i.IsBlank() {
		return issue.List{r.fail("I", `The "Contact Phone" must be supplied - it cannot be blank.`)}
	}
	if i.Is(post.NotDisclosed) && j.Is(post.NotDisclosed) {
		return issue.List{r.fail("I", `You must provide at least one form of contact. You cannot have both "Contact Phone" and "Contact E-mail" as "N/D".`)}
	}
	if r.unpaid() {
		reason := `"Name" is Vacant" or "Eliminated"`
		if a.IsZeroRef() {
			reason = `"Post Unique Reference" is "0" (individual is paid but not in post)`
		}
		if !i.Is(post.NotApplicable) {
			return issue.List{r.fail("I", `Because the %s, the "Contact Phone" must be "N/A".`, reason)}
		}
		return nil
	}
	if i.Is(post.NotApplicable) {
		return issue.List{r.fail("I", `The "Contact Phone" can only be "N/A" if the "Post Unique Reference" is "0" (individual is paid but not in post) or the "Name" is "Vacant".`)}
	}
	return nil
}

func checkContactEmail(r RuleRow) issue.List {
	a, i, j := r.At("A"), r.At("I"), r.At("J")
	if a.IsBlank() && j.IsBlank() {
		return nil
	}
	if r.unpaid() && j.Is(post.NotApplicable) {
		return nil
	}
	switch {
	case j.IsBlank() && !a.IsBlank():
		return issue.List{r.fail("J", `The "Contact E-mail" must be supplied - it cannot be blank.`)}
	case j.Is(post.NotApplicable) && !a.Is("0"):
		return issue.List{r.fail("J", `The "Contact E-mail" can only be "N/A" if the "Post Unique Reference" is "0" (individual is paid but not in post).`)}
	case i.Is(post.NotDisclosed) && j.Is(post.NotDisclosed):
		return issue.List{r.fail("J", `You must provide at least one form of contact. You cannot have both "Contact Phone" and "Contact E-mail" as "N/D".`)}
	case !(j.Is(post.NotDisclosed) || (j.IsString() && strings.Contains(j.Text(), "@") && strings.Contains(j.Text(), "."))):
		return issue.List{r.fail("J", `The "Contact E-mail" must be a valid email address (containing "@" and "." characters) unless the "Name" is "Vacant" or "Eliminated", or the "Post Unique Reference" is "0" (the individual is paid but not in post). It cannot be blank.`)}
	}
	return nil
}
