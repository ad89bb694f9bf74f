package versioning

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/printdesk/versions/internal/models"
)

// BuildChangeLog summarizes every entry of h, recomputing the changed fields of
// each version against its predecessor. The first entry is compared with the
// zero snapshot, so it reports every field set to a non-zero value. Diffs run on up to workers goroutines; the first failure cancels
// the rest.
func BuildChangeLog[T models.Snapshot](
	ctx context.Context, h *models.VersionedEntity[T], workers int,
) ([]models.ChangeSummary, error) {
	entries := h.Entries()
	out := make([]models.ChangeSummary, len(entries))

	if workers < 1 {
		workers = 1
	}

	var zero T

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			var (
				fields []string
				err    error
			)

			if i == 0 {
				fields, err = CompareVersions(zero, entries[0].Data)
			} else {
				fields, err = GetVersionDiff(entries[i-1], entries[i])
			}

			if err != nil {
				return fmt.Errorf("diffing version %d: %w", entries[i].Version, err)
			}

			out[i] = summarize(entries[i], fields)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

func summarize[T models.Snapshot](e models.VersionEntry[T], fields []string) models.ChangeSummary {
	return models.ChangeSummary{
		Version:           e.Version,
		Timestamp:         e.Timestamp,
		UserID:            e.UserID,
		UserName:          e.UserName,
		ChangeDescription: e.ChangeDescription,
		FieldsChanged:     fields,
	}
}
