package post

import (
	"math"
	"strconv"
	"strings"

	"github.com/iota-uz/organogram/modules/organogram/domain/sheet"
)

const (
	NotApplicable = "N/A"
	NotDisclosed  = "N/D"

	RootMarker   = "XX"
	NotInPostRef = "0"
	NotInPost    = "Not in post"
	Eliminated   = "Eliminated"
)

type ValueKind int

const (
	ValueBlank ValueKind = iota
	ValueNumeric
	ValueNotApplicable
	ValueNotDisclosed
	ValueOther
)

// Value is a pay-like field: a number or one of the sentinels.
type Value struct {
	Kind   ValueKind
	Number int64
	Text   string
}

// ParseValue reads a cell the way integer coercion does: integral text and
// numbers become Numeric, floats are truncated.
func ParseValue(c sheet.Cell) Value {
	switch c.Kind() {
	case sheet.KindNull:
		return Value{Kind: ValueBlank}
	case sheet.KindInt:
		n, _ := c.Int()
		return Value{Kind: ValueNumeric, Number: n, Text: c.Text()}
	case sheet.KindFloat:
		f, _ := c.Float()
		return Value{Kind: ValueNumeric, Number: int64(math.Trunc(f)), Text: c.Text()}
	}
	s, _ := c.Str()
	switch s {
	case "":
		return Value{Kind: ValueBlank}
	case NotApplicable:
		return Value{Kind: ValueNotApplicable, Text: s}
	case NotDisclosed:
		return Value{Kind: ValueNotDisclosed, Text: s}
	}
	if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
		return Value{Kind: ValueNumeric, Number: n, Text: s}
	}
	return Value{Kind: ValueOther, Text: s}
}

// GreaterThanZero compares like a spreadsheet: anything that is not a
// number counts as greater than zero.
func (v Value) GreaterThanZero() bool {
	if v.Kind == ValueNumeric {
		return v.Number > 0
	}
	return true
}

func (v Value) IsSentinel() bool {
	return v.Kind == ValueNotApplicable || v.Kind == ValueNotDisclosed
}

func (v Value) String() string {
	switch v.Kind {
	case ValueBlank:
		return ""
	case ValueNumeric:
		if v.Text != "" {
			return v.Text
		}
		return strconv.FormatInt(v.Number, 10)
	case ValueNotApplicable:
		return NotApplicable
	case ValueNotDisclosed:
		return NotDisclosed
	default:
		return v.Text
	}
}

// IsRootMarker reports whether a reports-to value marks the top of the hierarchy.
func IsRootMarker(ref string) bool {
	return strings.EqualFold(ref, RootMarker)
}
