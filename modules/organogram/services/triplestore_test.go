package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/organogram/modules/organogram/domain/issue"
	"github.com/iota-uz/organogram/modules/organogram/domain/post"
	"github.com/iota-uz/organogram/modules/organogram/domain/sheet"
)

func TestIDFromURI(t *testing.T) {
	t.Parallel()

	require.Equal(t, "CO-123", IDFromURI("http://reference.data.gov.uk/id/department/co/post/CO-123"))
	require.Equal(t, "", IDFromURI(""))
	require.Equal(t, "plain", IDFromURI("plain"))
}

func TestSplitSalaryRange(t *testing.T) {
	t.Parallel()

	floor, ceiling, ok := SplitSalaryRange("£60,000 - £64,999")
	require.True(t, ok)
	require.Equal(t, "60,000", floor)
	require.Equal(t, "64,999", ceiling)

	floor, ceiling, ok = SplitSalaryRange("http://reference.data.gov.uk/id/salary-range/N/D")
	require.True(t, ok)
	require.Equal(t, "N/D", floor)
	require.Equal(t, "N/D", ceiling)

	_, _, ok = SplitSalaryRange("about sixty thousand")
	require.False(t, ok)
}

func TestTriplestoreSeniorTable(t *testing.T) {
	t.Parallel()

	posts := []LinkedDataPost{
		{
			URI:         "http://reference.data.gov.uk/id/department/co/post/1",
			Name:        "Jane Doe",
			Grade:       "SCS1",
			Label:       "Director",
			Comment:     "Policy",
			Unit:        "Unit A",
			Phone:       "0207 000 0000",
			Email:       "jane@x.gov.uk",
			SalaryRange: "£120000 - £124999",
		},
		{
			URI:          "http://reference.data.gov.uk/id/department/co/post/2",
			Name:         "John Roe",
			ReportsToURI: "http://reference.data.gov.uk/id/department/co/post/1",
			SalaryRange:  "sixty",
		},
		{Name: "No URI"},
	}
	raw, issues := TriplestoreSeniorTable("Cabinet Office", posts)
	require.Len(t, raw.Rows, 2)
	require.Len(t, issues, 2)
	require.Equal(t, issue.KindUnexpectedData, issues[0].Kind)
	require.Contains(t, issues[0].Text(), `"sixty"`)

	res := Normalize(testContext(), raw, sheet.SeniorSchema())
	require.True(t, res.Loaded())
	require.Empty(t, res.ValidationErrors)

	senior := post.SeniorFromTable(res.Table)
	require.Equal(t, "1", senior[0].Reference)
	require.Equal(t, post.RootMarker, senior[0].ReportsTo)
	require.Equal(t, "Cabinet Office", senior[0].Organisation)
	require.Equal(t, int64(120000), senior[0].PayFloor.Number)
	require.Equal(t, "1", senior[1].ReportsTo)
	require.Equal(t, post.NotApplicable, senior[1].PayFloor.String())

	require.Empty(t, ValidateSeniorRow(NewRuleRow(res.Table.Sheet, res.Table.Rows[0], testRefs()), SeniorRules()))
}

func TestTriplestoreJuniorTable_KeepsRowOrder(t *testing.T) {
	t.Parallel()

	posts := []LinkedDataJuniorPost{
		{URI: "u/2", ReportsTo: "1", RowIndex: 2, Grade: "EO", SalaryRange: "£20000 - £25000"},
		{URI: "u/1", ReportsTo: "1", RowIndex: 1, Grade: "HEO", FTE: "2.5"},
		{URI: "u/3", RowIndex: 3},
	}
	raw, issues := TriplestoreJuniorTable("Cabinet Office", posts)
	require.Len(t, issues, 1)
	require.Len(t, raw.Rows, 2)

	res := Normalize(testContext(), raw, sheet.JuniorSchema())
	require.True(t, res.Loaded())
	junior := post.JuniorFromTable(res.Table)
	require.Equal(t, "HEO", junior[0].Grade)
	require.Equal(t, "2.5", junior[0].PostsInFTE)
	require.Equal(t, "EO", junior[1].Grade)
	require.Equal(t, int64(25000), junior[1].PayscaleMax.Number)
}
