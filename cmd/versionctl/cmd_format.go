package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type formattedTimestamp struct {
	Input     string `json:"input"`
	Formatted string `json:"formatted"`
	Error     string `json:"error,omitempty"`
}

func newFormatTimestampCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "format-ts <timestamp>...",
		Short: "Format stored version timestamps for display",
		Long: "Renders ISO-8601 timestamps as e.g. \"Jan 5, 2024, 03:45 PM\" in the\n" +
			"configured DISPLAY_TIMEZONE. Invalid input prints \"Invalid Date\" and\n" +
			"makes the command exit non-zero.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]formattedTimestamp, 0, len(args))
			quiet := make([]string, 0, len(args))
			invalid := 0

			for _, ts := range args {
				out, err := svc.FormatTimestamp(cmd.Context(), ts)
				r := formattedTimestamp{Input: ts, Formatted: out}
				if err != nil {
					r.Error = err.Error()
					invalid++
				}
				results = append(results, r)
				quiet = append(quiet, out)
			}

			if err := output(cmd.OutOrStdout(), results, quiet, func() table {
				t := table{headers: []string{"INPUT", "FORMATTED"}}
				for _, r := range results {
					t.rows = append(t.rows, []string{r.Input, r.Formatted})
				}
				return t
			}); err != nil {
				return err
			}

			if invalid > 0 {
				return fmt.Errorf("%d of %d timestamps could not be parsed", invalid, len(args))
			}
			return nil
		},
	}
}
