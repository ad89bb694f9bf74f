// Package metrics defines Prometheus metrics for record versioning.
//
// Collectors register with the default registry. Long-running callers expose
// it through their own /metrics handler; versionctl prints it with --metrics.
package metrics

import (
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Prefix is shared by every metric name in this package.
const Prefix = "printdesk_"

// Diff results used as the "result" label of DiffsTotal.
const (
	ResultChanged   = "changed"
	ResultUnchanged = "unchanged"
	ResultError     = "error"
)

var (
	VersionsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "printdesk_versions_created_total",
			Help: "Version entries recorded, by entity type",
		},
		[]string{"entity_type"},
	)

	DiffsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "printdesk_version_diffs_total",
			Help: "Snapshot comparisons by entity type and result",
		},
		[]string{"entity_type", "result"},
	)

	DiffFields = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "printdesk_version_diff_fields",
			Help:    "Number of changed fields per snapshot comparison",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32},
		},
	)

	TimestampFormatErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "printdesk_timestamp_format_errors_total",
			Help: "Version timestamps that could not be parsed for display",
		},
	)
)

func init() {
	prometheus.MustRegister(
		VersionsCreated, DiffsTotal, DiffFields, TimestampFormatErrors,
	)
}

// ObserveDiff records the outcome of one comparison.
func ObserveDiff(entityType string, changed int, err error) {
	if err != nil {
		DiffsTotal.WithLabelValues(entityType, ResultError).Inc()
		return
	}

	result := ResultUnchanged
	if changed > 0 {
		result = ResultChanged
	}

	DiffsTotal.WithLabelValues(entityType, result).Inc()
	DiffFields.Observe(float64(changed))
}

// WriteText writes the metric families gathered from g whose names start with
// Prefix, in the Prometheus text exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), Prefix) {
			continue
		}
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encoding %s: %w", mf.GetName(), err)
		}
	}

	return nil
}
