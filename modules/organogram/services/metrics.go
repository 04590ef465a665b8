package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iota-uz/organogram/modules/organogram/domain/issue"
)

var (
	organogramIssues = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "organogram",
		Subsystem: "validation",
		Name:      "issues_total",
		Help:      "Total number of issues found, broken down by sheet and issue kind.",
	}, []string{"sheet", "kind"})

	organogramSheetsLoaded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "organogram",
		Subsystem: "load",
		Name:      "sheets_total",
		Help:      "Total number of sheets loaded, broken down by sheet and result.",
	}, []string{"sheet", "result"})

	organogramPipelineOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "organogram",
		Subsystem: "pipeline",
		Name:      "outcomes_total",
		Help:      "Total number of pipeline runs, broken down by verify level and outcome.",
	}, []string{"level", "outcome"})

	organogramRootResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "organogram",
		Subsystem: "graph",
		Name:      "root_resolutions_total",
		Help:      "Total number of reporting-chain steps, broken down by memo hit/miss.",
	}, []string{"result"})
)

func recordIssues(sheetName string, issues issue.List) {
	if sheetName == "" {
		sheetName = "workbook"
	}
	for kind, n := range issues.CountByKind() {
		organogramIssues.WithLabelValues(sheetName, string(kind)).Add(float64(n))
	}
}

func recordSheetLoaded(sheetName string, ok bool) {
	result := "error"
	if ok {
		result = "ok"
	}
	organogramSheetsLoaded.WithLabelValues(sheetName, result).Inc()
}

func recordPipelineOutcome(level Level, outcome string) {
	if outcome == "" {
		outcome = "other"
	}
	organogramPipelineOutcomes.WithLabelValues(string(level), outcome).Inc()
}

func recordRootResolution(stats ResolverStats) {
	organogramRootResolutions.WithLabelValues("miss").Add(float64(stats.Steps))
	organogramRootResolutions.WithLabelValues("hit").Add(float64(stats.MemoHits))
}
