package services

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
)

const DefaultMaxDepth = 100

type ReportingLoopError struct {
	Path []string
}

func (e *ReportingLoopError) Error() string { return strings.Join(e.Path, " ") }

type MaxDepthError struct {
	Path []string
}

func (e *MaxDepthError) Error() string { return strings.Join(e.Path, " ") }

// UnknownPostError is raised when a chain reaches a reference with no post.
// Chain lists the posts walked before it, outermost first.
type UnknownPostError struct {
	Ref   string
	Known []string
	Chain []string
}

func (e *UnknownPostError) Error() string {
	msg := fmt.Sprintf(`Post reports to unknown post ref:"%s". Known post refs:"%s"`, e.Ref, formatKnownRefs(e.Known))
	for i := len(e.Chain) - 1; i >= 0; i-- {
		msg = fmt.Sprintf(`Error with senior post "%s": %s`, e.Chain[i], msg)
	}
	return msg
}

type ResolverStats struct {
	// Steps counts every post visited while walking chains.
	Steps    int
	MemoHits int
}

// RootResolver follows reports-to links up to a root post, remembering the
// root of every post on a successful walk.
type RootResolver struct {
	parents  map[string]string
	roots    map[string]bool
	maxDepth int
	memo     map[string]string
	stats    ResolverStats
}

func NewRootResolver(parents map[string]string, roots []string, maxDepth int) *RootResolver {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	rootSet := make(map[string]bool, len(roots))
	for _, r := range roots {
		rootSet[r] = true
	}
	return &RootResolver{
		parents:  parents,
		roots:    rootSet,
		maxDepth: maxDepth,
		memo:     map[string]string{},
	}
}

func (r *RootResolver) Resolve(ref string) (string, error) {
	path := make([]string, 0, 8)
	cur := ref
	for {
		path = append(path, cur)
		r.stats.Steps++
		walked := path[:len(path)-1]

		if r.roots[cur] {
			return r.remember(walked, cur), nil
		}
		if slices.Contains(walked, cur) {
			return "", &ReportingLoopError{Path: path}
		}
		if len(path) > r.maxDepth {
			return "", &MaxDepthError{Path: path}
		}
		if root, ok := r.memo[cur]; ok {
			r.stats.MemoHits++
			return r.remember(walked, root), nil
		}
		parent, ok := r.parents[cur]
		if !ok {
			return "", &UnknownPostError{
				Ref:   cur,
				Known: r.knownRefs(),
				Chain: append([]string(nil), walked...),
			}
		}
		cur = parent
	}
}

func (r *RootResolver) remember(walked []string, root string) string {
	for _, ref := range walked {
		r.memo[ref] = root
	}
	return root
}

// Memoized returns the remembered root of ref, if any.
func (r *RootResolver) Memoized(ref string) (string, bool) {
	root, ok := r.memo[ref]
	return root, ok
}

func (r *RootResolver) Stats() ResolverStats { return r.stats }

func (r *RootResolver) knownRefs() []string {
	out := make([]string, 0, len(r.parents))
	for ref := range r.parents {
		out = append(out, ref)
	}
	return out
}

// formatKnownRefs renders refs as a sorted list literal, numbers first, e.g. [1, 2, 'abc'].
func formatKnownRefs(refs []string) string {
	type known struct {
		num   int64
		isNum bool
		text  string
	}
	items := make([]known, 0, len(refs))
	for _, ref := range refs {
		if n, err := strconv.ParseInt(strings.TrimSpace(ref), 10, 64); err == nil {
			items = append(items, known{num: n, isNum: true})
			continue
		}
		items = append(items, known{text: ref})
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.isNum != b.isNum {
			return a.isNum
		}
		if a.isNum {
			return a.num < b.num
		}
		return a.text < b.text
	})

	parts := make([]string, len(items))
	for i, it := range items {
		if it.isNum {
			parts[i] = strconv.FormatInt(it.num, 10)
			continue
		}
		parts[i] = quoteRef(it.text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func quoteRef(s string) string {
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}
