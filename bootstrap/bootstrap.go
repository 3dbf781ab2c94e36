package bootstrap

import (
	"context"
	"flag"

	"github.com/wyfcoding/naivebayes/config"
	"github.com/wyfcoding/naivebayes/logging"
	"github.com/wyfcoding/naivebayes/metrics"
	"github.com/wyfcoding/naivebayes/tracing"
)

// Bootstrapper 处理通用基础设施的初始化
type Bootstrapper struct {
	ServiceName string
	Version     string
	Logger      *logging.Logger
	ConfigPath  string
}

// New 创建一个新的引导器实例
func New(serviceName, version string) *Bootstrapper {
	return &Bootstrapper{
		ServiceName: serviceName,
		Version:     version,
	}
}

// Initialize 解析命令行标志、加载配置文件，并按配置初始化全局日志。
// 调用方应在此之前注册自己的 flag。
func (b *Bootstrapper) Initialize(cfg *config.Config) error {
	flag.StringVar(&b.ConfigPath, "config", "configs/config.toml", "path to config file")
	flag.Parse()

	// 1. 加载配置文件：读取 TOML 文件并映射到 cfg。
	if err := config.Load(b.ConfigPath, cfg); err != nil {
		logging.InitLogger(b.ServiceName, "bootstrap")
		logging.Error(context.Background(), "failed to load config", "path", b.ConfigPath, "error", err)
		return err
	}
	if cfg.Log.Service == "" {
		cfg.Log.Service = b.ServiceName
	}
	if cfg.Version == "" {
		cfg.Version = b.Version
	}

	// 2. 使用配置初始化全局 Logger。
	logging.InitFromConfig(logging.Config{
		Service:    cfg.Log.Service,
		Module:     "bootstrap",
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})
	b.Logger = logging.Default()
	config.PrintWithMask(cfg)
	return nil
}

// SetupTracing 初始化 OpenTelemetry 追踪器
func (b *Bootstrapper) SetupTracing(cfg config.TracingConfig) func() {
	if cfg.ServiceName == "" {
		cfg.ServiceName = b.ServiceName
	}
	shutdown, err := tracing.InitTracer(cfg)
	if err != nil {
		b.Logger.Error("failed to init tracer", "error", err)
		return func() {}
	}
	return func() {
		if err := shutdown(context.Background()); err != nil {
			b.Logger.Error("failed to shutdown tracer", "error", err)
		}
	}
}

// SetupMetrics 按配置在独立端口暴露指标，未启用时返回空操作。
func (b *Bootstrapper) SetupMetrics(cfg config.MetricsConfig, m *metrics.Metrics) func() {
	if !cfg.Enabled || m == nil {
		return func() {}
	}
	b.Logger.Info("exposing metrics", "port", cfg.Port)
	return m.ExposeHttp(cfg.Port)
}
