// Package trainer 把配置、数据源、日志、指标与追踪组装起来，按名称加载数据集并训练朴素贝叶斯模型。
package trainer

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wyfcoding/naivebayes/algorithm"
	"github.com/wyfcoding/naivebayes/cache"
	"github.com/wyfcoding/naivebayes/config"
	"github.com/wyfcoding/naivebayes/dataset"
	"github.com/wyfcoding/naivebayes/logging"
	"github.com/wyfcoding/naivebayes/metrics"
	"github.com/wyfcoding/naivebayes/storage"
	"github.com/wyfcoding/naivebayes/tracing"
)

// Trainer 持有加载数据集与训练模型所需的全部依赖。
type Trainer struct {
	cfg     *config.Config
	logger  *logging.Logger
	metrics *metrics.Metrics
	loader  dataset.Loader
	source  string
	cache   cache.Cache
}

// Option 配置 Trainer。
type Option func(*Trainer)

// WithLoader 使用给定的 Loader，忽略配置中的数据源。
func WithLoader(l dataset.Loader) Option {
	return func(t *Trainer) {
		t.loader = l
		t.source = "custom"
	}
}

// WithMetrics 使用已有的指标注册表。
func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Trainer) { t.metrics = m }
}

// WithLogger 替换由配置生成的 logger。
func WithLogger(l *logging.Logger) Option {
	return func(t *Trainer) { t.logger = l }
}

// New 根据配置创建 Trainer。
// data.source 为 minio 时从对象存储读取，否则读本地目录；开启缓存时在数据源前加 bigcache。
func New(cfg *config.Config, opts ...Option) (*Trainer, error) {
	t := &Trainer{cfg: cfg}
	for _, opt := range opts {
		opt(t)
	}

	if t.logger == nil {
		t.logger = logging.NewFromConfig(logging.Config{
			Service:    cfg.Log.Service,
			Module:     "trainer",
			Level:      cfg.Log.Level,
			File:       cfg.Log.File,
			MaxSize:    cfg.Log.MaxSize,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAge,
			Compress:   cfg.Log.Compress,
		})
	}
	if t.metrics == nil {
		t.metrics = metrics.NewMetrics(cfg.Log.Service)
		t.metrics.RegisterBuildInfo(cfg.Log.Service, cfg.Version)
	}

	if t.loader == nil {
		switch cfg.Data.Source {
		case "minio":
			client, err := storage.NewMinIOClient(cfg.Minio)
			if err != nil {
				return nil, err
			}
			storage.RegisterReloadHook(client)
			t.loader = dataset.ObjectLoader{Storage: client, Prefix: cfg.Data.Prefix}
			t.source = "minio"
		default:
			t.loader = dataset.FileLoader{Dir: cfg.Data.Dir}
			t.source = "file"
		}
	}

	if cfg.Data.Cache.Enabled {
		bc, err := cache.NewBigCacheFromConfig(cfg.Data.Cache)
		if err != nil {
			return nil, err
		}
		for _, c := range cache.Collectors() {
			// 共享同一 Trainer 注册表时只注册一次
			if err := t.metrics.Registry().Register(c); err != nil {
				var are prometheus.AlreadyRegisteredError
				if !errors.As(err, &are) {
					_ = bc.Close()
					return nil, err
				}
			}
		}
		t.cache = bc
		t.loader = dataset.CachedLoader{Loader: t.loader, Cache: bc}
	}

	t.logger.Info("trainer initialized", "source", t.source, "cache", cfg.Data.Cache.Enabled)
	return t, nil
}

// Metrics 返回 Trainer 使用的指标注册表。
func (t *Trainer) Metrics() *metrics.Metrics {
	return t.metrics
}

// Load 按名称加载数据集，opts 用于指定目标、输入等属性划分。
func (t *Trainer) Load(ctx context.Context, name string, opts ...dataset.Option) (*dataset.Dataset, error) {
	ctx, span := tracing.StartSpan(ctx, "trainer.Load")
	defer span.End()
	tracing.AddTag(ctx, "dataset", name)
	tracing.AddTag(ctx, "source", t.source)

	ds, err := dataset.Load(ctx, t.loader, name, t.cfg.Data.Header, opts...)
	status := "ok"
	if err != nil {
		status = "error"
		tracing.SetError(ctx, err)
	}
	t.metrics.DatasetLoadsTotal.WithLabelValues(t.source, status).Inc()
	if err != nil {
		t.logger.ErrorContext(ctx, "dataset load failed", "dataset", name, "error", err)
		return nil, err
	}
	tracing.AddTag(ctx, "examples", ds.Len())
	return ds, nil
}

// Train 加载名为 name 的数据集并训练模型。
func (t *Trainer) Train(ctx context.Context, name string, opts ...dataset.Option) (*algorithm.NaiveBayesModel, *dataset.Dataset, error) {
	ctx, span := tracing.StartSpan(ctx, "trainer.Train")
	defer span.End()
	start := time.Now()

	ds, err := t.Load(ctx, name, opts...)
	if err != nil {
		tracing.SetError(ctx, err)
		return nil, nil, err
	}
	model, err := t.Fit(ctx, ds)
	if err != nil {
		return nil, nil, err
	}

	t.logger.InfoContext(ctx, "training finished",
		"dataset", name,
		"target", ds.AttrName(ds.Target()),
		"classes", len(model.Classes()),
		"duration", time.Since(start),
	)
	return model, ds, nil
}

// Fit 在已加载的数据集上按当前配置训练模型。
func (t *Trainer) Fit(ctx context.Context, ds *dataset.Dataset) (*algorithm.NaiveBayesModel, error) {
	ctx, span := tracing.StartSpan(ctx, "trainer.Fit")
	defer span.End()

	learner := t.cfg.Learner
	tracing.AddTag(ctx, "smoothing", learner.Smoothing)
	model, err := algorithm.NaiveBayesLearner(ds,
		algorithm.WithSmoothing(learner.Smoothing),
		algorithm.WithConcurrency(learner.PredictConcurrency),
		algorithm.WithMetrics(t.metrics),
		algorithm.WithLogger(t.logger.Named("naivebayes")),
	)
	if err != nil {
		tracing.SetError(ctx, err)
		return nil, err
	}
	return model, nil
}

// Evaluate 加载名为 name 的数据集，返回模型在其上的准确率。
func (t *Trainer) Evaluate(ctx context.Context, model *algorithm.NaiveBayesModel, name string, opts ...dataset.Option) (float64, error) {
	ctx, span := tracing.StartSpan(ctx, "trainer.Evaluate")
	defer span.End()

	ds, err := t.Load(ctx, name, opts...)
	if err != nil {
		return 0, err
	}
	acc, err := algorithm.Evaluate(ctx, model, ds)
	if err != nil {
		tracing.SetError(ctx, err)
		return 0, err
	}
	tracing.AddTag(ctx, "accuracy", acc)
	t.logger.InfoContext(ctx, "evaluation finished", "dataset", name, "accuracy", acc)
	return acc, nil
}

// Close 释放缓存等资源。
func (t *Trainer) Close() error {
	if t.cache != nil {
		return t.cache.Close()
	}
	return nil
}
