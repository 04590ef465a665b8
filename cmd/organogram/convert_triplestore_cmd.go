package main

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iota-uz/organogram/modules/organogram/domain/issue"
	"github.com/iota-uz/organogram/modules/organogram/services"
)

// triplestoreExport is one organisation and period of already-fetched linked data.
type triplestoreExport struct {
	BodyTitle string                          `json:"body_title"`
	Graph     string                          `json:"graph"`
	Senior    []services.LinkedDataPost       `json:"senior"`
	Junior    []services.LinkedDataJuniorPost `json:"junior"`
}

func newConvertTriplestoreCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "convert-triplestore <export.json>",
		Short: "Turn linked-data posts into senior and junior CSVs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvertTriplestore(cmd, args[0], outDir)
		},
	}
	cmd.Flags().StringVar(&outDir, "out-dir", services.DefaultTriplestoreCSVDir, "output directory")
	return cmd
}

func runConvertTriplestore(cmd *cobra.Command, input, outDir string) error {
	var export triplestoreExport
	if err := readJSONFile(input, &export); err != nil {
		return err
	}
	if strings.TrimSpace(export.BodyTitle) == "" || strings.TrimSpace(export.Graph) == "" {
		return withCode(exitRejected, errors.Errorf("%s: body_title and graph are required", input))
	}
	if err := ensureDir(outDir); err != nil {
		return err
	}

	senior, seniorIssues := services.TriplestoreSeniorTable(export.BodyTitle, export.Senior)
	junior, juniorIssues := services.TriplestoreJuniorTable(export.BodyTitle, export.Junior)
	issues := issue.Concat(seniorIssues, juniorIssues)
	printIssues(cmd.ErrOrStderr(), "WARNING", issues)

	seniorPath := services.TriplestoreCSVPath(outDir, export.BodyTitle, export.Graph, "senior")
	juniorPath := services.TriplestoreCSVPath(outDir, export.BodyTitle, export.Graph, "junior")
	loggerFor(cmd).WithFields(logrus.Fields{
		"senior": seniorPath,
		"junior": juniorPath,
	}).Info("Writing")
	if err := writeCSVFile(seniorPath, senior.Columns, tableRecords(senior)); err != nil {
		return err
	}
	if err := writeCSVFile(juniorPath, junior.Columns, tableRecords(junior)); err != nil {
		return err
	}

	type summary struct {
		Senior      string `json:"senior"`
		Junior      string `json:"junior"`
		SeniorPosts int    `json:"senior_posts"`
		Issues      int    `json:"issues"`
	}
	return writeJSONLine(cmd.OutOrStdout(), summary{
		Senior:      seniorPath,
		Junior:      juniorPath,
		SeniorPosts: services.CountSeniorPosts(senior),
		Issues:      len(issues),
	})
}
