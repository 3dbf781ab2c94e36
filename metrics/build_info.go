package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
)

// RegisterBuildInfo 注册 naivebayes_build_info，重复调用只生效一次。
func (m *Metrics) RegisterBuildInfo(serviceName, version string) {
	if m == nil || m.BuildInfo != nil {
		return
	}
	if serviceName == "" {
		serviceName = "naivebayes"
	}
	if version == "" {
		version = "dev"
	}

	m.BuildInfo = m.NewGaugeVec(&prometheus.GaugeOpts{
		Name: "naivebayes_build_info",
		Help: "Build information of the learner binary",
	}, []string{"service", "version", "go_version"})

	m.BuildInfo.WithLabelValues(serviceName, version, runtime.Version()).Set(1)
}
