package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/printdesk/versions/internal/models"
	"github.com/printdesk/versions/internal/versioning"
)

type diffFlags struct {
	entityType string
	removed    bool
	detail     bool
}

func newDiffCmd() *cobra.Command {
	var f diffFlags

	cmd := &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "List fields that differ between two snapshots",
		Long: "Compares two snapshot files field by field. Fields present only in the\n" +
			"old snapshot are ignored unless --removed is set.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := svc.DefaultDiffOptions()
			if cmd.Flags().Changed("removed") {
				opts.IncludeRemoved = f.removed
			}

			if f.entityType == "" {
				return runDiff[map[string]any](cmd, "", args[0], args[1], opts, f.detail)
			}

			return withEntityType(f.entityType,
				func() error {
					return runDiff[models.OrderVersion](cmd, models.EntityOrder, args[0], args[1], opts, f.detail)
				},
				func() error {
					return runDiff[models.CustomerVersion](cmd, models.EntityCustomer, args[0], args[1], opts, f.detail)
				},
				func() error {
					return runDiff[models.ArtworkVersion](cmd, models.EntityArtwork, args[0], args[1], opts, f.detail)
				},
			)
		},
	}

	cmd.Flags().StringVar(&f.entityType, "type", "", "Entity type: order|customer|artwork (default: untyped JSON objects)")
	cmd.Flags().BoolVar(&f.removed, "removed", false, "Also report fields dropped from the new snapshot (env: DIFF_INCLUDE_REMOVED)")
	cmd.Flags().BoolVar(&f.detail, "detail", false, "Show old and new values")

	return cmd
}

func runDiff[T any](
	cmd *cobra.Command, entityType models.EntityType, oldPath, newPath string, opts versioning.DiffOptions, detail bool,
) error {
	if err := singleStdin(oldPath, newPath); err != nil {
		return err
	}

	var older, newer T
	if err := decodeDocument(oldPath, cmd.InOrStdin(), &older); err != nil {
		return fmt.Errorf("read old snapshot: %w", err)
	}
	if err := decodeDocument(newPath, cmd.InOrStdin(), &newer); err != nil {
		return fmt.Errorf("read new snapshot: %w", err)
	}

	if !detail && !opts.IncludeRemoved {
		fields, err := svc.Compare(cmd.Context(), entityType, older, newer)
		if err != nil {
			return fmt.Errorf("compare: %w", err)
		}
		return output(cmd.OutOrStdout(), fields, fields, func() table { return fieldTable(fields) })
	}

	return reportChanges(cmd, entityType, older, newer, opts, detail)
}

// reportChanges prints the detailed diff of two snapshots, or only the changed
// field names when detail is false.
func reportChanges(
	cmd *cobra.Command, entityType models.EntityType, older, newer any, opts versioning.DiffOptions, detail bool,
) error {
	changes, err := svc.Diff(cmd.Context(), entityType, older, newer, opts)
	if err != nil {
		return fmt.Errorf("diff: %w", err)
	}

	names := make([]string, 0, len(changes))
	for _, c := range changes {
		names = append(names, c.Field)
	}

	if !detail {
		return output(cmd.OutOrStdout(), names, names, func() table { return fieldTable(names) })
	}

	return output(cmd.OutOrStdout(), changes, names, func() table {
		t := table{headers: []string{"FIELD", "KIND", "OLD", "NEW"}}
		for _, c := range changes {
			t.rows = append(t.rows, []string{c.Field, string(c.Kind), rawOrDash(c.OldValue), rawOrDash(c.NewValue)})
		}
		return t
	})
}

func fieldTable(fields []string) table {
	t := table{headers: []string{"FIELD"}}
	for _, f := range fields {
		t.rows = append(t.rows, []string{f})
	}
	return t
}

func rawOrDash(raw []byte) string {
	if len(raw) == 0 {
		return "-"
	}
	return string(raw)
}
