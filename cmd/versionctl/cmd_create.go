package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/printdesk/versions/internal/models"
	"github.com/printdesk/versions/internal/versioning"
)

// entryFlags are the attribution flags shared by create and history append.
type entryFlags struct {
	description string
	userID      string
	userName    string
	fields      []string
}

func (f *entryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.description, "desc", "", "Change description")
	cmd.Flags().StringVar(&f.userID, "user-id", "", "Acting user id (omit for system changes)")
	cmd.Flags().StringVar(&f.userName, "user-name", "", "Acting user name")
	cmd.Flags().StringSliceVar(&f.fields, "fields", nil, "Changed field names (computed when omitted)")
}

func (f *entryFlags) options() []versioning.EntryOption {
	opts := []versioning.EntryOption{versioning.WithClock(svc.Clock())}
	if f.userID != "" || f.userName != "" {
		opts = append(opts, versioning.WithUser(f.userID, f.userName))
	}
	if len(f.fields) > 0 {
		opts = append(opts, versioning.WithFieldsChanged(f.fields...))
	}
	return opts
}

func newCreateCmd() *cobra.Command {
	var (
		entityType string
		entityID   string
		dataPath   string
		ef         entryFlags
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a version entry from a snapshot file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if entityID == "" {
				entityID = models.NewEntityID()
			}
			if err := models.ValidateEntityID(entityID); err != nil {
				return err
			}

			return withEntityType(entityType,
				func() error { return runCreate[models.OrderVersion](cmd, entityID, dataPath, &ef) },
				func() error { return runCreate[models.CustomerVersion](cmd, entityID, dataPath, &ef) },
				func() error { return runCreate[models.ArtworkVersion](cmd, entityID, dataPath, &ef) },
			)
		},
	}

	cmd.Flags().StringVar(&entityType, "type", "", "Entity type: order|customer|artwork")
	cmd.Flags().StringVar(&entityID, "id", "", "Entity id (default: new UUID)")
	cmd.Flags().StringVar(&dataPath, "data", "", "Snapshot file (.json, .yaml, or - for stdin)")
	ef.register(cmd)
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func runCreate[T models.Snapshot](cmd *cobra.Command, entityID, dataPath string, ef *entryFlags) error {
	var data T
	if err := decodeDocument(dataPath, cmd.InOrStdin(), &data); err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	entry := versioning.CreateVersion(entityID, data, ef.description, ef.options()...)

	return output(cmd.OutOrStdout(), entry, []string{entry.EntityID}, func() table {
		return entryTable(entry)
	})
}

func entryTable[T models.Snapshot](entries ...models.VersionEntry[T]) table {
	t := table{headers: []string{"ENTITY", "TYPE", "VERSION", "TIMESTAMP", "USER", "DESCRIPTION", "FIELDS"}}
	for _, e := range entries {
		t.rows = append(t.rows, []string{
			e.EntityID, e.EntityType.String(), strconv.Itoa(e.Version), e.Timestamp,
			orDash(e.UserName), e.ChangeDescription, joinOrDash(e.FieldsChanged),
		})
	}
	return t
}
