package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/iota-uz/organogram/modules/organogram/services"
)

func newVerifyLevelCmd() *cobra.Command {
	var fromFilename bool
	cmd := &cobra.Command{
		Use:   "verify-level <vintage>...",
		Short: "Print the verification level applied to each vintage",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			type line struct {
				Input   string `json:"input"`
				Vintage string `json:"vintage"`
				Level   string `json:"level"`
			}
			for _, arg := range args {
				vintage := arg
				if fromFilename {
					d, err := services.DateFromFilename(filepath.Base(arg))
					if err != nil {
						return withCode(exitUsage, err)
					}
					vintage = d
				}
				level, err := services.VerifyLevelFor(vintage)
				if err != nil {
					return withCode(exitUsage, err)
				}
				if err := writeJSONLine(cmd.OutOrStdout(), line{Input: arg, Vintage: vintage, Level: string(level)}); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fromFilename, "from-filename", false, "arguments are file names with an embedded date")
	return cmd
}
