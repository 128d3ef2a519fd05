package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"episim/internal/query"
)

func newInspectCmd() *cobra.Command {
	var jsonPath string

	cmd := &cobra.Command{
		Use:   "inspect <result.json>",
		Short: "Extract a value from a saved JSON result file",
		Long: `Inspect reads a result file written by "run --output json" and prints
the value at the given JSONPath, e.g.:

  episim inspect result.json --path '$.summary.peak_infectious'
  episim inspect result.json --path '$.result.series[*].infectious'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading result file: %w", err)
			}
			value, err := query.ExtractString(body, jsonPath)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}

	cmd.Flags().StringVarP(&jsonPath, "path", "p", "", "JSONPath expression (required)")
	cmd.MarkFlagRequired("path")

	return cmd
}
