package versioning

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/printdesk/versions/internal/config"
	"github.com/printdesk/versions/internal/metrics"
	"github.com/printdesk/versions/internal/models"
)

// untypedLabel is the metrics label for comparisons of plain JSON objects.
const untypedLabel = "untyped"

// Service wraps the versioning helpers with logging, metrics, and the
// settings loaded by the config package.
type Service struct {
	clock          Clock
	formatter      *Formatter
	workers        int
	includeRemoved bool
	log            *logrus.Logger
}

// NewService creates a Service from cfg. A nil clock uses the wall clock.
func NewService(cfg *config.Config, log *logrus.Logger, clock Clock) *Service {
	if clock == nil {
		clock = SystemClock{}
	}

	return &Service{
		clock:          clock,
		formatter:      NewFormatter(cfg.Location()),
		workers:        cfg.DiffWorkers,
		includeRemoved: cfg.DiffIncludeRemoved,
		log:            log,
	}
}

// Clock returns the service time source.
func (s *Service) Clock() Clock {
	return s.clock
}

// DefaultDiffOptions returns the configured diff options.
func (s *Service) DefaultDiffOptions() DiffOptions {
	return DiffOptions{IncludeRemoved: s.includeRemoved}
}

// Compare returns the changed field names between two snapshots. An empty
// entityType marks an untyped comparison.
func (s *Service) Compare(ctx context.Context, entityType models.EntityType, older, newer any) ([]string, error) {
	fields, err := CompareVersions(older, newer)
	s.observeDiff(ctx, "versions.compare", entityType, len(fields), err)

	return fields, err
}

// Diff returns the detailed changes between two snapshots.
func (s *Service) Diff(
	ctx context.Context, entityType models.EntityType, older, newer any, opts DiffOptions,
) ([]models.FieldChange, error) {
	changes, err := DiffFields(older, newer, opts)
	s.observeDiff(ctx, "versions.diff", entityType, len(changes), err)

	return changes, err
}

// FormatTimestamp renders ts in the configured display location. Failures are
// logged and counted; the InvalidDate sentinel is returned with the error.
func (s *Service) FormatTimestamp(ctx context.Context, ts string) (string, error) {
	out, err := s.formatter.Format(ts)
	if err != nil {
		metrics.TimestampFormatErrors.Inc()
		s.log.WithContext(ctx).WithError(err).WithField("timestamp", ts).Warn("versions.format_timestamp")
	}

	return out, err
}

func (s *Service) observeDiff(ctx context.Context, event string, entityType models.EntityType, changed int, err error) {
	label := entityType.String()
	if label == "" {
		label = untypedLabel
	}

	metrics.ObserveDiff(label, changed, err)

	entry := s.log.WithContext(ctx).WithFields(logrus.Fields{
		"entity_type":    label,
		"fields_changed": changed,
	})

	if err != nil {
		entry.WithError(err).Error(event)
		return
	}

	entry.Debug(event)
}

// RecordVersion appends a new version of data to h using the service clock.
// Options passed by the caller take precedence.
func RecordVersion[T models.Snapshot](
	ctx context.Context, s *Service, h *models.VersionedEntity[T], data T, description string, opts ...EntryOption,
) (models.VersionEntry[T], error) {
	opts = append([]EntryOption{WithClock(s.clock)}, opts...)

	entry, err := Record(h, data, description, opts...)
	if err != nil {
		s.log.WithContext(ctx).WithError(err).WithFields(logrus.Fields{
			"entity_type": h.EntityType,
			"entity_id":   h.EntityID,
		}).Error("versions.record")

		return entry, err
	}

	metrics.VersionsCreated.WithLabelValues(h.EntityType.String()).Inc()

	s.log.WithContext(ctx).WithFields(logrus.Fields{
		"entity_type":    h.EntityType,
		"entity_id":      h.EntityID,
		"version":        entry.Version,
		"fields_changed": len(entry.FieldsChanged),
	}).Debug("versions.record")

	return entry, nil
}

// ChangeLog builds the change log of h with the configured worker count.
func ChangeLog[T models.Snapshot](
	ctx context.Context, s *Service, h *models.VersionedEntity[T],
) ([]models.ChangeSummary, error) {
	summaries, err := BuildChangeLog(ctx, h, s.workers)

	fields := s.log.WithContext(ctx).WithFields(logrus.Fields{
		"entity_type": h.EntityType,
		"entity_id":   h.EntityID,
		"versions":    h.Len(),
	})

	if err != nil {
		fields.WithError(err).Error("versions.change_log")
		return nil, err
	}

	fields.Debug("versions.change_log")

	return summaries, nil
}

// VersionDiff compares two entries of the same history.
func VersionDiff[T models.Snapshot](
	ctx context.Context, s *Service, v1, v2 models.VersionEntry[T],
) ([]string, error) {
	fields, err := GetVersionDiff(v1, v2)
	s.observeDiff(ctx, "versions.version_diff", v2.EntityType, len(fields), err)

	return fields, err
}
