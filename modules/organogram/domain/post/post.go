package post

import (
	"github.com/iota-uz/organogram/modules/organogram/domain/sheet"
)

// Post is a senior post: one node of the reporting structure.
type Post struct {
	Index               int
	Reference           string
	Name                string
	Grade               string
	JobTitle            string
	Function            string
	ParentDepartment    string
	Organisation        string
	Unit                string
	ContactPhone        string
	ContactEmail        string
	ReportsTo           string
	SalaryCostOfReports Value
	FTE                 string
	PayFloor            Value
	PayCeiling          Value
	TotalPay            Value
	Profession          string
	Notes               string
	Valid               string
}

// JobShareKey holds every field that must match between the rows of a job share.
type JobShareKey struct {
	Reference           string
	Grade               string
	JobTitle            string
	Function            string
	ParentDepartment    string
	Organisation        string
	Unit                string
	ReportsTo           string
	SalaryCostOfReports string
	Profession          string
	Valid               string
}

func (p Post) JobShareKey() JobShareKey {
	return JobShareKey{
		Reference:           p.Reference,
		Grade:               p.Grade,
		JobTitle:            p.JobTitle,
		Function:            p.Function,
		ParentDepartment:    p.ParentDepartment,
		Organisation:        p.Organisation,
		Unit:                p.Unit,
		ReportsTo:           p.ReportsTo,
		SalaryCostOfReports: p.SalaryCostOfReports.String(),
		Profession:          p.Profession,
		Valid:               p.Valid,
	}
}

func (p Post) IsEliminated() bool {
	return p.Name == Eliminated
}

type JuniorPost struct {
	Index            int
	ParentDepartment string
	Organisation     string
	Unit             string
	ReportsTo        string
	Grade            string
	PayscaleMin      Value
	PayscaleMax      Value
	GenericJobTitle  string
	PostsInFTE       string
	Profession       string
}

// SeniorFromTable reads posts from a normalized senior table.
func SeniorFromTable(t *sheet.Table) []Post {
	if t == nil {
		return nil
	}
	text := func(r sheet.Row, col string) string { return t.Value(r, col).Text() }
	value := func(r sheet.Row, col string) Value { return ParseValue(t.Value(r, col)) }

	out := make([]Post, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, Post{
			Index:               r.Index,
			Reference:           text(r, sheet.ColReference),
			Name:                text(r, sheet.ColName),
			Grade:               text(r, sheet.ColGrade),
			JobTitle:            text(r, sheet.ColJobTitle),
			Function:            text(r, sheet.ColFunction),
			ParentDepartment:    text(r, sheet.ColParentDepartment),
			Organisation:        text(r, sheet.ColOrganisation),
			Unit:                text(r, sheet.ColUnit),
			ContactPhone:        text(r, sheet.ColContactPhone),
			ContactEmail:        text(r, sheet.ColContactEmail),
			ReportsTo:           text(r, sheet.ColReportsTo),
			SalaryCostOfReports: value(r, sheet.ColSalaryCostOfReports),
			FTE:                 text(r, sheet.ColFTE),
			PayFloor:            value(r, sheet.ColPayFloor),
			PayCeiling:          value(r, sheet.ColPayCeiling),
			TotalPay:            value(r, sheet.ColTotalPay),
			Profession:          text(r, sheet.ColProfession),
			Notes:               text(r, sheet.ColNotes),
			Valid:               text(r, sheet.ColValid),
		})
	}
	return out
}

// JuniorFromTable reads posts from a normalized junior table.
func JuniorFromTable(t *sheet.Table) []JuniorPost {
	if t == nil {
		return nil
	}
	text := func(r sheet.Row, col string) string { return t.Value(r, col).Text() }

	out := make([]JuniorPost, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, JuniorPost{
			Index:            r.Index,
			ParentDepartment: text(r, sheet.ColParentDepartment),
			Organisation:     text(r, sheet.ColOrganisation),
			Unit:             text(r, sheet.ColUnit),
			ReportsTo:        text(r, sheet.ColReportingSeniorPost),
			Grade:            text(r, sheet.ColJuniorGrade),
			PayscaleMin:      ParseValue(t.Value(r, sheet.ColPayscaleMin)),
			PayscaleMax:      ParseValue(t.Value(r, sheet.ColPayscaleMax)),
			GenericJobTitle:  text(r, sheet.ColGenericJobTitle),
			PostsInFTE:       text(r, sheet.ColPostsInFTE),
			Profession:       text(r, sheet.ColProfession),
		})
	}
	return out
}
