package services

import (
	"sort"
	"strings"

	"github.com/go-faster/errors"

	"github.com/iota-uz/organogram/modules/organogram/domain/post"
	"github.com/iota-uz/organogram/modules/organogram/domain/sheet"
	"github.com/iota-uz/organogram/pkg/constants"
)

const (
	SourceUploads     = "uploads"
	SourceTriplestore = "triplestore"

	FieldSeniorPosts = "senior_posts"
)

// PostCount is one (organisation, period) count row from a single source.
type PostCount struct {
	BodyTitle string            `validate:"required"`
	Graph     string            `validate:"required"`
	Values    map[string]string `validate:"required"`
}

type SourceCounts struct {
	Source string `validate:"required"`
	Rows   []PostCount
}

type CountKey struct {
	BodyTitle string
	Graph     string
}

type ComparisonRow struct {
	CountKey
	Values map[string]string
}

// Value returns the named value, "" when the source had no row for this key.
func (r ComparisonRow) Value(name string) string {
	return r.Values[name]
}

type Comparison struct {
	// Headers is body_title, graph and then the sorted value names.
	Headers []string
	Rows    []ComparisonRow
}

// Compare merges per-source counts into one row per key. Value names are
// "<field>_<source>"; a key missing from a source simply lacks its values.
func Compare(fields []string, sources ...SourceCounts) (Comparison, error) {
	if len(fields) == 0 {
		fields = []string{FieldSeniorPosts}
	}
	rows := map[CountKey]map[string]string{}
	order := []CountKey{}
	names := map[string]struct{}{}

	for _, src := range sources {
		if err := constants.Validate.Struct(src); err != nil {
			return Comparison{}, errors.Wrap(err, "source counts")
		}
		for i, c := range src.Rows {
			if err := constants.Validate.Struct(c); err != nil {
				return Comparison{}, errors.Wrapf(err, "%s row %d", src.Source, i+1)
			}
			key := CountKey{BodyTitle: c.BodyTitle, Graph: c.Graph}
			values, ok := rows[key]
			if !ok {
				values = map[string]string{}
				rows[key] = values
				order = append(order, key)
			}
			for _, field := range fields {
				name := field + "_" + src.Source
				values[name] = c.Values[field]
				names[name] = struct{}{}
			}
		}
	}

	sortedNames := make([]string, 0, len(names))
	for n := range names {
		sortedNames = append(sortedNames, n)
	}
	sort.Strings(sortedNames)

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Graph+order[i].BodyTitle < order[j].Graph+order[j].BodyTitle
	})
	out := Comparison{Headers: append([]string{"body_title", "graph"}, sortedNames...)}
	for _, key := range order {
		out.Rows = append(out.Rows, ComparisonRow{CountKey: key, Values: rows[key]})
	}
	return out, nil
}

// Record renders a row in header order.
func (c Comparison) Record(r ComparisonRow) []string {
	rec := make([]string, len(c.Headers))
	for i, h := range c.Headers {
		switch h {
		case "body_title":
			rec[i] = r.BodyTitle
		case "graph":
			rec[i] = r.Graph
		default:
			rec[i] = r.Values[h]
		}
	}
	return rec
}

// CountSeniorPosts counts rows of a published senior table, skipping eliminated posts.
func CountSeniorPosts(t *sheet.Table) int {
	if t == nil {
		return 0
	}
	n := 0
	for _, r := range t.Rows {
		switch strings.ToLower(t.Value(r, sheet.ColName).Text()) {
		case "eliminated", "elimenated":
			continue
		}
		n++
	}
	return n
}

// CountPosts is CountSeniorPosts over already-built posts.
func CountPosts(posts []post.Post) int {
	n := 0
	for _, p := range posts {
		switch strings.ToLower(p.Name) {
		case "eliminated", "elimenated":
			continue
		}
		n++
	}
	return n
}
