package services

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/iota-uz/organogram/modules/organogram/domain/issue"
)

const (
	UploadStatePublished = "published"

	DefaultUploadXLSDir      = "data/dgu/xls"
	DefaultTriplestoreXLSDir = "data/dgu/xls-from-triplestore"
	DefaultTriplestoreCSVDir = "data/dgu/csv-from-triplestore"
)

// DefaultIgnoredXLSPaths are uploads known to duplicate another upload.
var DefaultIgnoredXLSPaths = []string{
	"/data/geo/2011-09-30/Copy-of-Final_20110930_08.11.xls",
	"/data/apa/2012-03-31/APA-government-staff-and-salary-data-blank-template---Sept-2012-FINAL.xls",
	"/data/hotmail/2012-03-31/DfT(C)-Transparency-Final-Return-31.03.12.xls",
	"/data/plr/2012-09-30/300912-PublicLendingRight-OrganogramV1.xls",
}

var (
	mungeSeparators = regexp.MustCompile(`[ .:/&]`)
	mungeDisallowed = regexp.MustCompile(`[^a-z0-9-_]`)
	mungeDashes     = regexp.MustCompile(`-+`)
	mungeUnderlines = regexp.MustCompile(`_+`)
)

// MungeOrg turns an organisation name into a filename-safe token.
func MungeOrg(name string) string {
	name = strings.ToLower(name)
	name = mungeSeparators.ReplaceAllString(name, "_")
	name = mungeDisallowed.ReplaceAllString(name, "")
	name = mungeDashes.ReplaceAllString(name, "-")
	return mungeUnderlines.ReplaceAllString(name, "_")
}

// Upload is one row of the scraped uploads report.
type Upload struct {
	Version        string
	OrgName        string
	XLSPath        string
	UploadDate     string
	State          string
	ActionDatetime string
	XLSFilename    string
}

type SelectOptions struct {
	// TriplestoreOrgs always use the triplestore, whatever the counts.
	TriplestoreOrgs []string
	// ExcludedUploadOrgs have their uploads superseded by the triplestore.
	ExcludedUploadOrgs []string
	IgnoredXLSPaths    []string
	UploadXLSDir       string
	TriplestoreXLSDir  string
	TriplestoreCSVDir  string
	// Body and Graph restrict the selection when set.
	Body  string
	Graph string
}

func (o SelectOptions) withDefaults() SelectOptions {
	if o.IgnoredXLSPaths == nil {
		o.IgnoredXLSPaths = DefaultIgnoredXLSPaths
	}
	if o.UploadXLSDir == "" {
		o.UploadXLSDir = DefaultUploadXLSDir
	}
	if o.TriplestoreXLSDir == "" {
		o.TriplestoreXLSDir = DefaultTriplestoreXLSDir
	}
	if o.TriplestoreCSVDir == "" {
		o.TriplestoreCSVDir = DefaultTriplestoreCSVDir
	}
	return o
}

// Selection names the authoritative workbook for one organisation and period.
type Selection struct {
	BodyTitle string
	Graph     string
	Source    string
	XLSPath   string
	// CSVPath is the triplestore-derived junior CSV the workbook is built from.
	CSVPath         string
	OriginalXLSPath string
	UploadDate      string
	PublishDate     string
}

// TriplestoreXLSPath is where a workbook regenerated from triplestore data lives.
func TriplestoreXLSPath(dir, orgName, graph string) string {
	return filepath.Join(dir, MungeOrg(orgName)+"-"+graph+"-organogram.xls")
}

// TriplestoreCSVPath is where triplestore posts are saved as CSV.
func TriplestoreCSVPath(dir, orgName, graph, seniorOrJunior string) string {
	return filepath.Join(dir, MungeOrg(orgName)+"-"+strings.ReplaceAll(graph, "/", "-")+"-"+seniorOrJunior+".csv")
}

// SelectSources picks uploads or triplestore per count row: the triplestore
// wins for forced organisations or when it reports more senior posts, rows
// with no posts on either side are skipped.
func SelectSources(rows []ComparisonRow, uploads []Upload, opts SelectOptions) ([]Selection, issue.List) {
	opts = opts.withDefaults()
	var issues issue.List

	type uploadKey struct{ graph, org string }
	byKey := map[uploadKey]Upload{}
	for _, u := range uploads {
		if containsString(opts.IgnoredXLSPaths, u.XLSPath) ||
			u.State != UploadStatePublished ||
			containsString(opts.ExcludedUploadOrgs, u.OrgName) {
			continue
		}
		byKey[uploadKey{graph: DateToYearFirst(u.Version), org: u.OrgName}] = u
	}

	out := []Selection{}
	for _, r := range rows {
		if opts.Graph != "" && r.Graph != opts.Graph {
			continue
		}
		if opts.Body != "" && r.BodyTitle != opts.Body {
			continue
		}
		triplestore, iss := countValue(r, FieldSeniorPosts+"_"+SourceTriplestore)
		issues.Add(iss...)
		uploaded, iss := countValue(r, FieldSeniorPosts+"_"+SourceUploads)
		issues.Add(iss...)

		switch {
		case containsString(opts.TriplestoreOrgs, r.BodyTitle) || triplestore > uploaded:
			out = append(out, Selection{
				BodyTitle: r.BodyTitle,
				Graph:     r.Graph,
				Source:    SourceTriplestore,
				XLSPath:   TriplestoreXLSPath(opts.TriplestoreXLSDir, r.BodyTitle, r.Graph),
				CSVPath:   TriplestoreCSVPath(opts.TriplestoreCSVDir, r.BodyTitle, r.Graph, "junior"),
			})
		case triplestore == 0 && uploaded == 0:
			continue
		default:
			u, ok := byKey[uploadKey{graph: r.Graph, org: r.BodyTitle}]
			if !ok {
				issues.Add(issue.New(issue.KindUnexpectedData,
					`No published upload found for "%s" %s`, r.BodyTitle, r.Graph))
				continue
			}
			out = append(out, Selection{
				BodyTitle:       r.BodyTitle,
				Graph:           r.Graph,
				Source:          SourceUploads,
				XLSPath:         filepath.Join(opts.UploadXLSDir, u.XLSFilename),
				OriginalXLSPath: u.XLSPath,
				UploadDate:      u.UploadDate,
				PublishDate:     u.ActionDatetime,
			})
		}
	}
	return out, issues
}

func countValue(r ComparisonRow, name string) (int, issue.List) {
	v := strings.TrimSpace(r.Value(name))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, issue.List{issue.New(issue.KindUnexpectedData,
			`Count "%s" for "%s" %s is not a number: "%s"`, name, r.BodyTitle, r.Graph, v)}
	}
	return n, nil
}

func containsString(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
