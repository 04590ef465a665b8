package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iota-uz/organogram/pkg/configuration"
	"github.com/iota-uz/organogram/pkg/logging"
)

// app is shared by every subcommand; cfg is set once flags are parsed.
type app struct {
	envFiles []string
	cfg      *configuration.Configuration
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "organogram",
		Short:         "Organogram spreadsheet validation, ETL and source comparison",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configuration.Load(a.envFiles)
			if err != nil {
				return withCode(exitUsage, err)
			}
			a.cfg = cfg
			cmd.SetContext(logging.WithLogger(cmd.Context(), logrus.NewEntry(cfg.Logger())))
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.cfg != nil {
				a.cfg.Unload()
			}
		},
	}
	cmd.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", []string{".env", ".env.local"}, "env files to load before the process environment")

	cmd.AddCommand(newCheckCmd(a))
	cmd.AddCommand(newETLCmd(a))
	cmd.AddCommand(newVerifyLevelCmd())
	cmd.AddCommand(newCompareCmd())
	cmd.AddCommand(newCountUploadsCmd(a))
	cmd.AddCommand(newCombineCmd(a))
	cmd.AddCommand(newConvertTriplestoreCmd())
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(code)
	}
}

func loggerFor(cmd *cobra.Command) *logrus.Entry {
	if l := logging.FromContext(cmd.Context()); l != nil {
		return l
	}
	return logging.Nop()
}
