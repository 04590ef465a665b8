package services

import (
	"github.com/iota-uz/organogram/modules/organogram/domain/issue"
	"github.com/iota-uz/organogram/modules/organogram/domain/reference"
	"github.com/iota-uz/organogram/modules/organogram/domain/sheet"
)

// JuniorRowRule is the attachment point for junior cell rules.
type JuniorRowRule func(sheetName string, r sheet.Row, refs reference.Lists) issue.List

// ValidateJuniorRow has no rules yet and always accepts the row.
func ValidateJuniorRow(sheetName string, r sheet.Row, refs reference.Lists) issue.List {
	return nil
}

// JuniorRules returns the junior rules in evaluation order.
func JuniorRules() []JuniorRowRule {
	return []JuniorRowRule{ValidateJuniorRow}
}
