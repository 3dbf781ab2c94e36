// Package metrics 提供基于 Prometheus 的指标注册表，以及学习器训练/预测的标准指标。
package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 封装了独立的 Prometheus 注册表及预定义的学习器指标。
type Metrics struct {
	registry *prometheus.Registry

	BuildInfo         *prometheus.GaugeVec
	TrainingsTotal    *prometheus.CounterVec   // 训练次数 (维度: dataset, status)
	TrainingExamples  *prometheus.CounterVec   // 参与训练的样本数 (维度: dataset)
	TrainingDuration  *prometheus.HistogramVec // 训练耗时分布
	PredictionsTotal  *prometheus.CounterVec   // 预测次数 (维度: dataset, outcome)
	DatasetLoadsTotal *prometheus.CounterVec   // 数据集加载次数 (维度: source, status)
}

// NewMetrics 初始化并返回一个新的指标采集器，自动注册 Go 运行时指标和进程指标。
func NewMetrics(serviceName string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: reg}

	m.TrainingsTotal = m.NewCounterVec(&prometheus.CounterOpts{
		Name: "naivebayes_trainings_total",
		Help: "Total number of learner fits",
	}, []string{"dataset", "status"})

	m.TrainingExamples = m.NewCounterVec(&prometheus.CounterOpts{
		Name: "naivebayes_training_examples_total",
		Help: "Total number of examples consumed by learner fits",
	}, []string{"dataset"})

	m.TrainingDuration = m.NewHistogramVec(&prometheus.HistogramOpts{
		Name:    "naivebayes_training_duration_seconds",
		Help:    "Learner fit latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"dataset"})

	m.PredictionsTotal = m.NewCounterVec(&prometheus.CounterOpts{
		Name: "naivebayes_predictions_total",
		Help: "Total number of predictions served",
	}, []string{"dataset", "outcome"})

	m.DatasetLoadsTotal = m.NewCounterVec(&prometheus.CounterOpts{
		Name: "naivebayes_dataset_loads_total",
		Help: "Total number of named dataset loads",
	}, []string{"source", "status"})

	slog.Info("unified metrics registry initialized", "service", serviceName)
	return m
}

// NewCounterVec 创建并注册一个新的计数器指标。
func (m *Metrics) NewCounterVec(opts *prometheus.CounterOpts, labelNames []string) *prometheus.CounterVec {
	cv := prometheus.NewCounterVec(*opts, labelNames)
	m.registry.MustRegister(cv)
	return cv
}

// NewGaugeVec 创建并注册一个新的仪表盘指标。
func (m *Metrics) NewGaugeVec(opts *prometheus.GaugeOpts, labelNames []string) *prometheus.GaugeVec {
	gv := prometheus.NewGaugeVec(*opts, labelNames)
	m.registry.MustRegister(gv)
	return gv
}

// NewHistogramVec 创建并注册一个新的直方图指标。
func (m *Metrics) NewHistogramVec(opts *prometheus.HistogramOpts, labelNames []string) *prometheus.HistogramVec {
	hv := prometheus.NewHistogramVec(*opts, labelNames)
	m.registry.MustRegister(hv)
	return hv
}

// Registry 返回底层注册表。
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler 返回用于暴露指标的 HTTP 处理器。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ExposeHttp 在指定端口启动一个独立的 HTTP 服务器用于暴露指标数据。
// 返回一个清理函数用于优雅关闭该服务器。
func (m *Metrics) ExposeHttp(port string) func() {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server error", "error", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown metrics server", "error", err)
		}
	}
}
