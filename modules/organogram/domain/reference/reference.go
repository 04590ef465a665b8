package reference

const (
	SeniorGradesSheet = "(reference) senior-staff-grades"
	UnitsSheet        = "(reference) units+NA"
	ProfessionsSheet  = "(reference) professions"
)

// Lists holds the closed value lists the senior rules check against.
type Lists struct {
	SeniorGrades []string `yaml:"senior_grades" validate:"required,min=1"`
	Units        []string `yaml:"units" validate:"required,min=1"`
	Professions  []string `yaml:"professions"`
}

func (l Lists) HasGrade(v string) bool { return contains(l.SeniorGrades, v) }

func (l Lists) HasUnit(v string) bool { return contains(l.Units, v) }

func (l Lists) HasProfession(v string) bool { return contains(l.Professions, v) }

func (l Lists) Empty() bool {
	return len(l.SeniorGrades) == 0 && len(l.Units) == 0 && len(l.Professions) == 0
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
