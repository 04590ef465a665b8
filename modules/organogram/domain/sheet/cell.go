package sheet

import (
	"math"
	"strconv"
)

type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "null"
	}
}

// Cell is a single spreadsheet value: absent, text, integer or float.
type Cell struct {
	kind Kind
	s    string
	i    int64
	f    float64
}

func Null() Cell { return Cell{} }

func String(s string) Cell { return Cell{kind: KindString, s: s} }

func Int(i int64) Cell { return Cell{kind: KindInt, i: i} }

// Float keeps integral values as floats; use Number to collapse them.
func Float(f float64) Cell {
	if math.IsNaN(f) {
		return Null()
	}
	return Cell{kind: KindFloat, f: f}
}

// Number returns an Int cell when f is integral, a Float cell otherwise.
func Number(f float64) Cell {
	if math.IsNaN(f) {
		return Null()
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return Int(int64(f))
	}
	return Float(f)
}

func (c Cell) Kind() Kind { return c.kind }

func (c Cell) IsNull() bool { return c.kind == KindNull }

func (c Cell) IsNumber() bool { return c.kind == KindInt || c.kind == KindFloat }

func (c Cell) IsString() bool { return c.kind == KindString }

// IsBlank reports an absent cell or an empty string.
func (c Cell) IsBlank() bool {
	return c.kind == KindNull || (c.kind == KindString && c.s == "")
}

// HasContent follows spreadsheet truthiness: numeric zero and empty text are empty.
func (c Cell) HasContent() bool {
	switch c.kind {
	case KindString:
		return c.s != ""
	case KindInt:
		return c.i != 0
	case KindFloat:
		return c.f != 0
	default:
		return false
	}
}

// Is reports whether c is text equal to s.
func (c Cell) Is(s string) bool {
	return c.kind == KindString && c.s == s
}

// IsAny reports whether c is text equal to one of values.
func (c Cell) IsAny(values ...string) bool {
	if c.kind != KindString {
		return false
	}
	for _, v := range values {
		if c.s == v {
			return true
		}
	}
	return false
}

func (c Cell) IsNumericZero() bool {
	switch c.kind {
	case KindInt:
		return c.i == 0
	case KindFloat:
		return c.f == 0
	default:
		return false
	}
}

// IsZeroRef matches the "paid but not in post" reference: text "0" or numeric zero.
func (c Cell) IsZeroRef() bool {
	return c.Is("0") || c.IsNumericZero()
}

func (c Cell) Str() (string, bool) {
	return c.s, c.kind == KindString
}

func (c Cell) Int() (int64, bool) {
	return c.i, c.kind == KindInt
}

func (c Cell) Float() (float64, bool) {
	switch c.kind {
	case KindInt:
		return float64(c.i), true
	case KindFloat:
		return c.f, true
	default:
		return 0, false
	}
}

// Text renders the cell the way it reads in a sheet; null is "".
func (c Cell) Text() string {
	switch c.kind {
	case KindString:
		return c.s
	case KindInt:
		return strconv.FormatInt(c.i, 10)
	case KindFloat:
		return strconv.FormatFloat(c.f, 'f', -1, 64)
	default:
		return ""
	}
}

func (c Cell) String() string {
	if c.kind == KindNull {
		return "<null>"
	}
	return c.Text()
}

func (c Cell) Equal(o Cell) bool {
	return c == o
}
