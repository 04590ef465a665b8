package sheet

const (
	SeniorSheet = "(final data) senior-staff"
	JuniorSheet = "(final data) junior-staff"
)

// Senior columns.
const (
	ColReference           = "Post Unique Reference"
	ColName                = "Name"
	ColGrade               = "Grade (or equivalent)"
	ColJobTitle            = "Job Title"
	ColFunction            = "Job/Team Function"
	ColParentDepartment    = "Parent Department"
	ColOrganisation        = "Organisation"
	ColUnit                = "Unit"
	ColContactPhone        = "Contact Phone"
	ColContactEmail        = "Contact E-mail"
	ColReportsTo           = "Reports to Senior Post"
	ColSalaryCostOfReports = "Salary Cost of Reports (£)"
	ColFTE                 = "FTE"
	ColPayFloor            = "Actual Pay Floor (£)"
	ColPayCeiling          = "Actual Pay Ceiling (£)"
	ColTotalPay            = "Total Pay (£)"
	ColProfession          = "Professional/Occupational Group"
	ColNotes               = "Notes"
	ColValid               = "Valid?"

	legacyColGrade = "Grade"
)

// Junior columns.
const (
	ColReportingSeniorPost = "Reporting Senior Post"
	ColJuniorGrade         = "Grade"
	ColPayscaleMin         = "Payscale Minimum (£)"
	ColPayscaleMax         = "Payscale Maximum (£)"
	ColGenericJobTitle     = "Generic Job Title"
	ColPostsInFTE          = "Number of Posts in FTE"
)

// Schema declares the expected layout of one sheet and how its cells are coerced.
type Schema struct {
	Sheet   string
	Columns []string
	// Rename maps a historical title onto the canonical one.
	Rename            map[string]string
	BlankColumns      []string
	IntegerColumns    []string
	StringColumns     []string
	NAForBlankColumns []string
	// DropAfterValidation columns are removed from the published output.
	DropAfterValidation []string
}

// OutputColumn returns the canonical title for position i.
func (s Schema) OutputColumn(i int) string {
	name := s.Columns[i]
	if renamed, ok := s.Rename[name]; ok {
		return renamed
	}
	return name
}

func (s Schema) OutputColumns() []string {
	out := make([]string, len(s.Columns))
	for i := range s.Columns {
		out[i] = s.OutputColumn(i)
	}
	return out
}

// AcceptsTitle reports whether title is acceptable for position i.
func (s Schema) AcceptsTitle(i int, title string) bool {
	expected := s.Columns[i]
	if title == expected {
		return true
	}
	renamed, ok := s.Rename[title]
	return ok && renamed == expected
}

func (s Schema) Position(column string) int {
	for i, c := range s.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

func SeniorSchema() Schema {
	return Schema{
		Sheet: SeniorSheet,
		Columns: []string{
			ColReference,
			ColName,
			ColGrade,
			ColJobTitle,
			ColFunction,
			ColParentDepartment,
			ColOrganisation,
			ColUnit,
			ColContactPhone,
			ColContactEmail,
			ColReportsTo,
			ColSalaryCostOfReports,
			ColFTE,
			ColPayFloor,
			ColPayCeiling,
			ColTotalPay,
			ColProfession,
			ColNotes,
			ColValid,
		},
		Rename:            map[string]string{legacyColGrade: ColGrade},
		BlankColumns:      []string{ColTotalPay},
		IntegerColumns:    []string{ColPayFloor, ColPayCeiling, ColSalaryCostOfReports},
		StringColumns:     []string{ColReference, ColReportsTo},
		NAForBlankColumns: []string{ColContactPhone},
	}
}

func JuniorSchema() Schema {
	return Schema{
		Sheet: JuniorSheet,
		Columns: []string{
			ColParentDepartment,
			ColOrganisation,
			ColUnit,
			ColReportingSeniorPost,
			ColJuniorGrade,
			ColPayscaleMin,
			ColPayscaleMax,
			ColGenericJobTitle,
			ColPostsInFTE,
			ColProfession,
			ColValid,
		},
		IntegerColumns:      []string{ColPayscaleMin, ColPayscaleMax},
		StringColumns:       []string{ColReportingSeniorPost},
		DropAfterValidation: []string{ColValid},
	}
}
