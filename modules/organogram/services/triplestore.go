package services

import (
	"sort"
	"strings"

	"github.com/iota-uz/organogram/modules/organogram/domain/issue"
	"github.com/iota-uz/organogram/modules/organogram/domain/post"
	"github.com/iota-uz/organogram/modules/organogram/domain/sheet"
	"github.com/iota-uz/organogram/pkg/constants"
)

const salaryRangeURIPrefix = "http://reference.data.gov.uk/id/salary-range/"

// LinkedDataPost is a senior post as already fetched from the triplestore.
// A post held by several people appears once per holder.
type LinkedDataPost struct {
	URI          string `json:"uri" validate:"required"`
	Name         string `json:"name"`
	Grade        string `json:"grade"`
	Label        string `json:"label"`
	Comment      string `json:"comment"`
	Unit         string `json:"unit"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	ReportsToURI string `json:"reports_to_uri"`
	SalaryRange  string `json:"salary_range"`
	FTE          string `json:"fte"`
	Profession   string `json:"profession"`
}

type LinkedDataJuniorPost struct {
	URI         string `json:"uri" validate:"required"`
	ReportsTo   string `json:"reports_to" validate:"required"`
	RowIndex    int    `json:"row_index" validate:"gte=0"`
	Unit        string `json:"unit"`
	FTE         string `json:"fte"`
	Grade       string `json:"grade"`
	SalaryRange string `json:"salary_range"`
	JobTitle    string `json:"job_title"`
	Profession  string `json:"profession"`
}

// IDFromURI returns the last path segment of uri.
func IDFromURI(uri string) string {
	if uri == "" {
		return ""
	}
	parts := strings.Split(uri, "/")
	return parts[len(parts)-1]
}

// SplitSalaryRange splits "£a - £b". A salary-range URI carries a single
// label used for both bounds.
func SplitSalaryRange(rangeText string) (floor, ceiling string, ok bool) {
	if rangeText == "" {
		return "", "", true
	}
	if strings.HasPrefix(rangeText, salaryRangeURIPrefix) {
		salary := strings.TrimPrefix(rangeText, salaryRangeURIPrefix)
		return salary, salary, true
	}
	parts := strings.Split(strings.ReplaceAll(rangeText, "£", ""), " - ")
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func textCell(s string) sheet.Cell {
	if s == "" {
		return sheet.Null()
	}
	return sheet.String(s)
}

// TriplestoreSeniorTable lays linked-data posts out as a raw senior sheet.
func TriplestoreSeniorTable(bodyTitle string, posts []LinkedDataPost) (*sheet.Table, issue.List) {
	schema := sheet.SeniorSchema()
	t := sheet.NewTable(schema.Sheet, schema.Columns)
	var issues issue.List

	for i, p := range posts {
		if err := constants.Validate.Struct(p); err != nil {
			issues.Add(issue.New(issue.KindUnexpectedData, "Linked data senior post %d is invalid: %s", i, err.Error()))
			continue
		}
		floor, ceiling, ok := SplitSalaryRange(p.SalaryRange)
		if !ok {
			issues.Add(issue.New(issue.KindUnexpectedData, `Cannot split salary range "%s" of post "%s"`, p.SalaryRange, p.URI))
		}
		reportsTo := IDFromURI(p.ReportsToURI)
		if reportsTo == "" {
			reportsTo = post.RootMarker
		}

		cells := make([]sheet.Cell, len(schema.Columns))
		set := func(col string, c sheet.Cell) { cells[schema.Position(col)] = c }
		set(sheet.ColReference, textCell(IDFromURI(p.URI)))
		set(sheet.ColName, textCell(p.Name))
		set(sheet.ColGrade, textCell(p.Grade))
		set(sheet.ColJobTitle, textCell(p.Label))
		set(sheet.ColFunction, textCell(p.Comment))
		set(sheet.ColParentDepartment, sheet.Null())
		set(sheet.ColOrganisation, textCell(bodyTitle))
		set(sheet.ColUnit, textCell(p.Unit))
		set(sheet.ColContactPhone, textCell(p.Phone))
		set(sheet.ColContactEmail, textCell(p.Email))
		set(sheet.ColReportsTo, sheet.String(reportsTo))
		set(sheet.ColSalaryCostOfReports, sheet.Null())
		set(sheet.ColFTE, textCell(p.FTE))
		set(sheet.ColPayFloor, textCell(floor))
		set(sheet.ColPayCeiling, textCell(ceiling))
		set(sheet.ColTotalPay, sheet.Null())
		set(sheet.ColProfession, textCell(p.Profession))
		set(sheet.ColNotes, sheet.Null())
		set(sheet.ColValid, sheet.Null())
		t.AppendRow(cells...)
	}
	return t, issues
}

// TriplestoreJuniorTable lays linked-data junior posts out as a raw junior
// sheet, in their original row order.
func TriplestoreJuniorTable(bodyTitle string, posts []LinkedDataJuniorPost) (*sheet.Table, issue.List) {
	schema := sheet.JuniorSchema()
	t := sheet.NewTable(schema.Sheet, schema.Columns)
	var issues issue.List

	sorted := append([]LinkedDataJuniorPost(nil), posts...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].RowIndex < sorted[j].RowIndex })

	for i, p := range sorted {
		if err := constants.Validate.Struct(p); err != nil {
			issues.Add(issue.New(issue.KindUnexpectedData, "Linked data junior post %d is invalid: %s", i, err.Error()))
			continue
		}
		minPay, maxPay, ok := SplitSalaryRange(p.SalaryRange)
		if !ok {
			issues.Add(issue.New(issue.KindUnexpectedData, `Cannot split salary range "%s" of junior post "%s"`, p.SalaryRange, p.URI))
		}

		cells := make([]sheet.Cell, len(schema.Columns))
		set := func(col string, c sheet.Cell) { cells[schema.Position(col)] = c }
		set(sheet.ColParentDepartment, sheet.Null())
		set(sheet.ColOrganisation, textCell(bodyTitle))
		set(sheet.ColUnit, textCell(p.Unit))
		set(sheet.ColReportingSeniorPost, textCell(p.ReportsTo))
		set(sheet.ColJuniorGrade, textCell(p.Grade))
		set(sheet.ColPayscaleMin, textCell(minPay))
		set(sheet.ColPayscaleMax, textCell(maxPay))
		set(sheet.ColGenericJobTitle, textCell(p.JobTitle))
		set(sheet.ColPostsInFTE, textCell(p.FTE))
		set(sheet.ColProfession, textCell(p.Profession))
		set(sheet.ColValid, sheet.Null())
		t.AppendRow(cells...)
	}
	return t, issues
}
