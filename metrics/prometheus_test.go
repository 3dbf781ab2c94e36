package metrics

import (
	"runtime"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestLearnerMetricsRegistered(t *testing.T) {
	m := NewMetrics("test")
	m.TrainingsTotal.WithLabelValues("iris", "ok").Inc()
	m.TrainingExamples.WithLabelValues("iris").Add(150)

	if got := testutil.ToFloat64(m.TrainingExamples.WithLabelValues("iris")); got != 150 {
		t.Errorf("training examples = %v, want 150", got)
	}
	if n := testutil.CollectAndCount(m.TrainingsTotal); n != 1 {
		t.Errorf("expected one trainings series, got %d", n)
	}

	m.RegisterBuildInfo("naivebayes", "v0.1.0")
	m.RegisterBuildInfo("naivebayes", "v0.1.0")
	if got := testutil.ToFloat64(m.BuildInfo.WithLabelValues("naivebayes", "v0.1.0", runtime.Version())); got != 1 {
		t.Errorf("build info = %v, want 1", got)
	}

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) == 0 {
		t.Errorf("registry should expose metric families")
	}
}
