package workbook

import (
	"os"

	"github.com/go-faster/errors"
	"gopkg.in/yaml.v3"

	"github.com/iota-uz/organogram/modules/organogram/domain/reference"
	"github.com/iota-uz/organogram/pkg/constants"
)

// LoadReferencesYAML reads reference lists kept outside the workbook:
//
//	senior_grades: [SCS1, SCS2]
//	units: [Finance, N/A]
//	professions: [Policy]
func LoadReferencesYAML(path string) (reference.Lists, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return reference.Lists{}, errors.Wrapf(err, "read references %s", path)
	}
	var refs reference.Lists
	if err := yaml.Unmarshal(b, &refs); err != nil {
		return reference.Lists{}, errors.Wrapf(err, "parse references %s", path)
	}
	if err := constants.Validate.Struct(refs); err != nil {
		return reference.Lists{}, errors.Wrapf(err, "invalid references %s", path)
	}
	return refs, nil
}
