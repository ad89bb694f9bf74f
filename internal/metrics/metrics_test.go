package metrics

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveDiff(t *testing.T) {
	tests := []struct {
		name    string
		changed int
		err     error
		result  string
	}{
		{name: "changed", changed: 3, result: ResultChanged},
		{name: "unchanged", changed: 0, result: ResultUnchanged},
		{name: "error", err: errors.New("boom"), result: ResultError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			counter := DiffsTotal.WithLabelValues("metrics-test", tc.result)
			before := testutil.ToFloat64(counter)

			ObserveDiff("metrics-test", tc.changed, tc.err)

			if got := testutil.ToFloat64(counter) - before; got != 1 {
				t.Errorf("expected %s counter to grow by 1, grew by %v", tc.result, got)
			}
		})
	}
}

func TestWriteText(t *testing.T) {
	TimestampFormatErrors.Inc()

	var buf bytes.Buffer
	if err := WriteText(&buf, prometheus.DefaultGatherer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "# TYPE printdesk_timestamp_format_errors_total counter") {
		t.Errorf("missing timestamp error counter:\n%s", out)
	}
	if strings.Contains(out, "go_goroutines") {
		t.Errorf("runtime metrics should be filtered out:\n%s", out)
	}
}
