package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/printdesk/versions/internal/models"
	"github.com/printdesk/versions/internal/versioning"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Work with version history files",
	}
	cmd.AddCommand(historyAppendCmd())
	cmd.AddCommand(historyLogCmd())
	cmd.AddCommand(historyShowCmd())
	cmd.AddCommand(historyDiffCmd())
	return cmd
}

// loadHistory reads and validates a history file.
func loadHistory[T models.Snapshot](cmd *cobra.Command, path string) (*models.VersionedEntity[T], error) {
	var h models.VersionedEntity[T]
	if err := decodeDocument(path, cmd.InOrStdin(), &h); err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	if err := h.Validate(); err != nil {
		return nil, fmt.Errorf("invalid history %s: %w", path, err)
	}

	return &h, nil
}

func historyAppendCmd() *cobra.Command {
	var (
		entityType  string
		entityID    string
		historyPath string
		dataPath    string
		ef          entryFlags
	)

	cmd := &cobra.Command{
		Use:   "append",
		Short: "Append a snapshot to a history and print the updated history",
		Long: "Reads the history file (or starts a new one when it does not exist),\n" +
			"records the snapshot as the next version, and prints the result.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appendArgs{entityID: entityID, historyPath: historyPath, dataPath: dataPath, ef: &ef}
			return withEntityType(entityType,
				func() error { return runAppend[models.OrderVersion](cmd, a) },
				func() error { return runAppend[models.CustomerVersion](cmd, a) },
				func() error { return runAppend[models.ArtworkVersion](cmd, a) },
			)
		},
	}

	cmd.Flags().StringVar(&entityType, "type", "", "Entity type: order|customer|artwork")
	cmd.Flags().StringVar(&entityID, "id", "", "Entity id for a new history (default: new UUID)")
	cmd.Flags().StringVar(&historyPath, "history", "", "History file (.json or .yaml)")
	cmd.Flags().StringVar(&dataPath, "data", "", "Snapshot file (.json, .yaml, or - for stdin)")
	ef.register(cmd)
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("history")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

type appendArgs struct {
	entityID    string
	historyPath string
	dataPath    string
	ef          *entryFlags
}

func runAppend[T models.Snapshot](cmd *cobra.Command, a appendArgs) error {
	if err := singleStdin(a.historyPath, a.dataPath); err != nil {
		return err
	}

	var h *models.VersionedEntity[T]

	if fileExists(a.historyPath) {
		loaded, err := loadHistory[T](cmd, a.historyPath)
		if err != nil {
			return err
		}
		if a.entityID != "" && a.entityID != loaded.EntityID {
			return fmt.Errorf("--id %q does not match history entity %q", a.entityID, loaded.EntityID)
		}
		h = loaded
	} else {
		id := a.entityID
		if id == "" {
			id = models.NewEntityID()
		}
		if err := models.ValidateEntityID(id); err != nil {
			return err
		}
		h = models.NewVersionedEntity[T](id)
	}

	var data T
	if err := decodeDocument(a.dataPath, cmd.InOrStdin(), &data); err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	entry, err := versioning.RecordVersion(cmd.Context(), svc, h, data, a.ef.description, a.ef.options()...)
	if err != nil {
		return err
	}

	return output(cmd.OutOrStdout(), h, []string{strconv.Itoa(entry.Version)}, func() table {
		return entryTable(entry)
	})
}

func historyLogCmd() *cobra.Command {
	var entityType string

	cmd := &cobra.Command{
		Use:   "log <history-file>",
		Short: "Show the change log of a history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEntityType(entityType,
				func() error { return runLog[models.OrderVersion](cmd, args[0]) },
				func() error { return runLog[models.CustomerVersion](cmd, args[0]) },
				func() error { return runLog[models.ArtworkVersion](cmd, args[0]) },
			)
		},
	}

	cmd.Flags().StringVar(&entityType, "type", "", "Entity type: order|customer|artwork")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func runLog[T models.Snapshot](cmd *cobra.Command, path string) error {
	h, err := loadHistory[T](cmd, path)
	if err != nil {
		return err
	}

	summaries, err := versioning.ChangeLog(cmd.Context(), svc, h)
	if err != nil {
		return fmt.Errorf("build change log: %w", err)
	}

	versions := make([]string, 0, len(summaries))
	for _, s := range summaries {
		versions = append(versions, strconv.Itoa(s.Version))
	}

	return output(cmd.OutOrStdout(), summaries, versions, func() table {
		t := table{headers: []string{"VERSION", "WHEN", "USER", "DESCRIPTION", "FIELDS"}}
		for _, s := range summaries {
			// An unparseable timestamp renders as the Invalid Date sentinel.
			when, _ := svc.FormatTimestamp(cmd.Context(), s.Timestamp)
			t.rows = append(t.rows, []string{
				strconv.Itoa(s.Version), when, orDash(s.UserName), s.ChangeDescription, joinOrDash(s.FieldsChanged),
			})
		}
		return t
	})
}

func historyShowCmd() *cobra.Command {
	var (
		entityType string
		version    int
	)

	cmd := &cobra.Command{
		Use:   "show <history-file>",
		Short: "Show one version of a history (default: latest)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEntityType(entityType,
				func() error { return runShow[models.OrderVersion](cmd, args[0], version) },
				func() error { return runShow[models.CustomerVersion](cmd, args[0], version) },
				func() error { return runShow[models.ArtworkVersion](cmd, args[0], version) },
			)
		},
	}

	cmd.Flags().StringVar(&entityType, "type", "", "Entity type: order|customer|artwork")
	cmd.Flags().IntVar(&version, "version", 0, "Version number (default: latest)")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func runShow[T models.Snapshot](cmd *cobra.Command, path string, version int) error {
	h, err := loadHistory[T](cmd, path)
	if err != nil {
		return err
	}

	var entry models.VersionEntry[T]
	if version == 0 {
		latest, ok := h.Latest()
		if !ok {
			return fmt.Errorf("history %s has no versions", path)
		}
		entry = latest
	} else {
		entry, err = h.Entry(version)
		if err != nil {
			return err
		}
	}

	return output(cmd.OutOrStdout(), entry, []string{strconv.Itoa(entry.Version)}, func() table {
		return entryTable(entry)
	})
}

func historyDiffCmd() *cobra.Command {
	var f diffFlags

	cmd := &cobra.Command{
		Use:   "diff <history-file> <from-version> <to-version>",
		Short: "List fields that differ between two versions of a history",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("from-version must be an integer: %w", err)
			}
			to, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("to-version must be an integer: %w", err)
			}

			opts := svc.DefaultDiffOptions()
			if cmd.Flags().Changed("removed") {
				opts.IncludeRemoved = f.removed
			}

			v := versionDiffArgs{path: args[0], from: from, to: to, opts: opts, detail: f.detail}
			return withEntityType(f.entityType,
				func() error { return runVersionDiff[models.OrderVersion](cmd, v) },
				func() error { return runVersionDiff[models.CustomerVersion](cmd, v) },
				func() error { return runVersionDiff[models.ArtworkVersion](cmd, v) },
			)
		},
	}

	cmd.Flags().StringVar(&f.entityType, "type", "", "Entity type: order|customer|artwork")
	cmd.Flags().BoolVar(&f.removed, "removed", false, "Also report fields dropped from the newer version (env: DIFF_INCLUDE_REMOVED)")
	cmd.Flags().BoolVar(&f.detail, "detail", false, "Show old and new values")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

type versionDiffArgs struct {
	path     string
	from, to int
	opts     versioning.DiffOptions
	detail   bool
}

func runVersionDiff[T models.Snapshot](cmd *cobra.Command, a versionDiffArgs) error {
	h, err := loadHistory[T](cmd, a.path)
	if err != nil {
		return err
	}

	v1, err := h.Entry(a.from)
	if err != nil {
		return err
	}
	v2, err := h.Entry(a.to)
	if err != nil {
		return err
	}

	if a.detail || a.opts.IncludeRemoved {
		return reportChanges(cmd, v2.EntityType, v1.Data, v2.Data, a.opts, a.detail)
	}

	fields, err := versioning.VersionDiff(cmd.Context(), svc, v1, v2)
	if err != nil {
		return fmt.Errorf("diff versions %d and %d: %w", a.from, a.to, err)
	}

	return output(cmd.OutOrStdout(), fields, fields, func() table { return fieldTable(fields) })
}
