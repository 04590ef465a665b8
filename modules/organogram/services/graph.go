package services

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/organogram/modules/organogram/domain/issue"
	"github.com/iota-uz/organogram/modules/organogram/domain/post"
	"github.com/iota-uz/organogram/modules/organogram/domain/sheet"
)

type GraphOptions struct {
	MaxDepth int
}

type GraphResult struct {
	Issues      issue.List
	Displayable bool
	// Roots maps every successfully resolved reference to its top post.
	Roots map[string]string
	Stats ResolverStats
}

// CollapseJobShares drops eliminated posts and keeps the first row of each job share.
func CollapseJobShares(senior []post.Post) []post.Post {
	seen := map[post.JobShareKey]struct{}{}
	out := make([]post.Post, 0, len(senior))
	for _, p := range senior {
		if p.IsEliminated() {
			continue
		}
		key := p.JobShareKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

// VerifyGraph checks the reporting structure of senior posts and the links
// from junior posts into it. No top post is fatal: the result carries the
// fatal issue and the error wraps ErrNotDisplayable.
func VerifyGraph(ctx context.Context, senior []post.Post, junior []post.JuniorPost, opts GraphOptions) (GraphResult, error) {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	res := GraphResult{Roots: map[string]string{}}
	posts := CollapseJobShares(senior)

	var roots []string
	for _, p := range posts {
		if post.IsRootMarker(p.ReportsTo) {
			roots = append(roots, p.Reference)
		}
	}
	if len(roots) == 0 {
		fatal := issue.Fatal(issue.KindNoRoot,
			`Could not find a senior post with "Reports to Senior Post" value of "XX" (i.e. the top role)`).WithSheet(sheet.SeniorSheet)
		res.Issues = issue.List{fatal}
		recordIssues(sheet.SeniorSheet, res.Issues)
		return res, errors.Wrap(ErrNotDisplayable, fatal.Message)
	}
	isRoot := make(map[string]bool, len(roots))
	for _, r := range roots {
		isRoot[r] = true
	}

	refs := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		refs[p.Reference] = struct{}{}
	}

	reported := map[string]struct{}{}
	for _, p := range posts {
		if _, ok := refs[p.ReportsTo]; ok || post.IsRootMarker(p.ReportsTo) {
			continue
		}
		if _, ok := reported[p.ReportsTo]; ok {
			continue
		}
		reported[p.ReportsTo] = struct{}{}
		res.Issues.Add(issue.New(issue.KindUnknownSenior, `Senior post reporting to unknown senior post "%s"`, p.ReportsTo))
	}

	parents := make(map[string]string, len(posts))
	for _, p := range posts {
		if _, dup := parents[p.Reference]; dup {
			res.Issues.Add(issue.New(issue.KindDuplicateRef,
				`Senior post "Post Unique Reference" is not unique. The only occasion where two rows can have the same reference is for a job share, and in this case the rows must be identical save from name, pay columns, contact phone/email, notes and FTE. index:%d ref:"%s"`,
				p.Index, p.Reference))
		}
		parents[p.Reference] = p.ReportsTo
		if p.Reference == p.ReportsTo {
			res.Issues.Add(issue.New(issue.KindSelfReport, `Senior post reports to him/herself. index:%d ref:"%s"`, p.Index, p.Reference))
		}
	}

	resolver := NewRootResolver(parents, roots, maxDepth)
	for _, p := range posts {
		root, err := resolver.Resolve(p.Reference)
		if err != nil {
			res.Issues.Add(resolutionIssue(p, maxDepth, err))
			continue
		}
		res.Roots[p.Reference] = root
		if !isRoot[root] {
			res.Issues.Add(issue.New(issue.KindDisconnected,
				`Reporting from Senior post %d "%s" up to the top results in "%s" rather than "XX"`, p.Index, p.Reference, root))
		}
	}

	juniorReported := map[string]struct{}{}
	for _, j := range junior {
		if _, ok := refs[j.ReportsTo]; ok {
			continue
		}
		if _, ok := juniorReported[j.ReportsTo]; ok {
			continue
		}
		juniorReported[j.ReportsTo] = struct{}{}
		res.Issues.Add(issue.New(issue.KindUnknownJuniorPost, `Junior post reporting to unknown senior post "%s"`, j.ReportsTo))
	}

	res.Displayable = true
	res.Stats = resolver.Stats()
	recordRootResolution(res.Stats)
	recordIssues(sheet.SeniorSheet, res.Issues)
	logWithFields(ctx, logrus.DebugLevel, "verified reporting graph", logrus.Fields{
		"posts":     len(posts),
		"roots":     len(roots),
		"issues":    len(res.Issues),
		"steps":     res.Stats.Steps,
		"memo_hits": res.Stats.MemoHits,
	})
	return res, nil
}

func resolutionIssue(p post.Post, maxDepth int, err error) issue.Issue {
	var (
		loopErr    *ReportingLoopError
		depthErr   *MaxDepthError
		unknownErr *UnknownPostError
	)
	switch {
	case errors.As(err, &depthErr):
		return issue.New(issue.KindMaxDepth,
			`Could not follow the reporting structure from Senior post %d "%s" up to the top in %d steps - is there a loop? Posts: %s`,
			p.Index, p.Reference, maxDepth, depthErr.Error())
	case errors.As(err, &loopErr):
		return issue.New(issue.KindReportingLoop,
			`Reporting structure from Senior post %d "%s" ended up in a loop: %s`, p.Index, p.Reference, loopErr.Error())
	case errors.As(err, &unknownErr):
		return issue.New(issue.KindUnknownPost, "%s", unknownErr.Error()).WithDetails(map[string]any{
			"ref":     unknownErr.Ref,
			"chain":   unknownErr.Chain,
			"post":    p.Reference,
			"row_idx": p.Index,
		})
	default:
		return issue.New(issue.KindUnexpectedData, "%s", err.Error())
	}
}
