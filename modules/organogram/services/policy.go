package services

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

// Level is how strictly an organogram of a given vintage is verified.
type Level string

const (
	// LevelLoadOnly skips content and structure checks; only load errors block.
	LevelLoadOnly Level = "load-only"
	// LevelLoadAndDisplay blocks on fatal structure errors and reports the rest.
	LevelLoadAndDisplay Level = "load-and-display"
	// LevelLoadDisplayAndValidate blocks on any error.
	LevelLoadDisplayAndValidate Level = "load-display-and-validate"
)

func (l Level) Valid() bool {
	switch l {
	case LevelLoadOnly, LevelLoadAndDisplay, LevelLoadDisplayAndValidate:
		return true
	}
	return false
}

var (
	vintageLayouts = []string{"2006-01-02", "02-01-2006"}

	filenameDateYearFirst = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)
	filenameDateDayFirst  = regexp.MustCompile(`(\d{2}-\d{2}-\d{4})`)
)

// ParseVintage accepts YYYY-MM-DD or DD-MM-YYYY.
func ParseVintage(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range vintageLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Wrapf(ErrInvalidVintage, "could not parse graph YYYY-MM-DD / DD-MM-YYYY: %q", v)
}

// VerifyLevelFor maps a vintage onto the historical verification policy.
func VerifyLevelFor(vintage string) (Level, error) {
	t, err := ParseVintage(vintage)
	if err != nil {
		return "", err
	}
	return VerifyLevelAt(t), nil
}

// VerifyLevelAt: 2011 data was never validated upstream, 2012 to March 2016
// only had basic checks, everything later went through the strict workflow.
func VerifyLevelAt(t time.Time) Level {
	year, month := t.Year(), t.Month()
	switch {
	case year == 2011:
		return LevelLoadOnly
	case year <= 2015 || (year == 2016 && month == time.March):
		return LevelLoadAndDisplay
	default:
		return LevelLoadDisplayAndValidate
	}
}

// DateFromFilename extracts the first embedded date, year-first preferred.
func DateFromFilename(name string) (string, error) {
	if m := filenameDateYearFirst.FindStringSubmatch(name); m != nil {
		return m[1], nil
	}
	if m := filenameDateDayFirst.FindStringSubmatch(name); m != nil {
		return m[1], nil
	}
	return "", errors.Wrapf(ErrInvalidVintage, "cannot find date in filename: %s", name)
}

// DateToYearFirst converts "30/09/2011" style versions to "2011-09-30".
func DateToYearFirst(dayFirst string) string {
	parts := strings.Split(strings.TrimSpace(dayFirst), "/")
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "-")
}
