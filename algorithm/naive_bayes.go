package algorithm

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wyfcoding/naivebayes/dataset"
	"github.com/wyfcoding/naivebayes/logging"
	"github.com/wyfcoding/naivebayes/metrics"
	"github.com/wyfcoding/naivebayes/xerrors"
)

const (
	// DefaultSmoothing 是拉普拉斯平滑常数。
	DefaultSmoothing = 1.0
	// DefaultPredictConcurrency 是批量预测的默认并发上限。
	DefaultPredictConcurrency = 8
)

type learnerOptions struct {
	smoothing   float64
	metrics     *metrics.Metrics
	logger      *logging.Logger
	concurrency int
}

// LearnerOption 配置 NaiveBayesLearner。
type LearnerOption func(*learnerOptions)

// WithSmoothing 设置每个取值的平滑基数，0 表示不平滑。
func WithSmoothing(s float64) LearnerOption {
	return func(o *learnerOptions) { o.smoothing = s }
}

// WithMetrics 启用训练与预测指标。
func WithMetrics(m *metrics.Metrics) LearnerOption {
	return func(o *learnerOptions) { o.metrics = m }
}

// WithLogger 替换默认 logger。
func WithLogger(l *logging.Logger) LearnerOption {
	return func(o *learnerOptions) { o.logger = l }
}

// WithConcurrency 设置 PredictBatch 的并发上限。
func WithConcurrency(n int) LearnerOption {
	return func(o *learnerOptions) { o.concurrency = n }
}

// ClassScore 是某个类别的归一化后验概率。
type ClassScore struct {
	Class       dataset.Value
	Probability float64
}

// NaiveBayesModel 是训练得到的朴素贝叶斯分类器。
// 训练完成后所有频数表不再变化，预测时通过 Peek 查询，可被多个 goroutine 并发使用。
type NaiveBayesModel struct {
	name         string
	target       int
	inputs       []int
	attrIndex    map[string]int
	targetValues []dataset.Value
	classIndex   map[dataset.Value]int

	classPrior  *CountingProbDist[dataset.Value]
	conditional map[int][]*CountingProbDist[dataset.Value] // attr -> 按 targetValues 顺序排列的各类别分布

	smoothing   float64
	concurrency int
	metrics     *metrics.Metrics
	logger      *logging.Logger
}

// NaiveBayesLearner 在 ds 上训练离散朴素贝叶斯分类器。
// 先验与条件分布都以 ds 的值域预登记，之后对样本只做一次遍历。
func NaiveBayesLearner(ds *dataset.Dataset, opts ...LearnerOption) (*NaiveBayesModel, error) {
	o := learnerOptions{
		smoothing:   DefaultSmoothing,
		concurrency: DefaultPredictConcurrency,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.Default().Named("naivebayes")
	}
	if o.concurrency < 1 {
		o.concurrency = 1
	}

	start := time.Now()
	model, err := train(ds, o)
	if o.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		o.metrics.TrainingsTotal.WithLabelValues(ds.Name(), status).Inc()
		o.metrics.TrainingDuration.WithLabelValues(ds.Name()).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		o.logger.Error("naive bayes training failed", "dataset", ds.Name(), "error", err)
		return nil, err
	}
	if o.metrics != nil {
		o.metrics.TrainingExamples.WithLabelValues(ds.Name()).Add(float64(ds.Len()))
	}

	o.logger.Info("naive bayes trained",
		"dataset", ds.Name(),
		"examples", ds.Len(),
		"classes", len(model.targetValues),
		"inputs", len(model.inputs),
		"smoothing", o.smoothing,
		"duration", time.Since(start),
	)
	return model, nil
}

func train(ds *dataset.Dataset, o learnerOptions) (*NaiveBayesModel, error) {
	target := ds.Target()
	targetValues := ds.Values(target)
	if len(targetValues) == 0 {
		return nil, xerrors.ErrEmptyData.Derive("target attribute %q has no values", ds.AttrName(target))
	}

	prior, err := NewCountingProbDist(o.smoothing, targetValues...)
	if err != nil {
		return nil, err
	}

	m := &NaiveBayesModel{
		name:         ds.Name(),
		target:       target,
		inputs:       ds.Inputs(),
		attrIndex:    make(map[string]int),
		targetValues: targetValues,
		classIndex:   make(map[dataset.Value]int, len(targetValues)),
		classPrior:   prior,
		conditional:  make(map[int][]*CountingProbDist[dataset.Value]),
		smoothing:    o.smoothing,
		concurrency:  o.concurrency,
		metrics:      o.metrics,
		logger:       o.logger,
	}
	names := ds.AttrNames()
	for i, a := range ds.Attrs() {
		m.attrIndex[names[i]] = a
	}
	for i, c := range targetValues {
		m.classIndex[c] = i
	}

	// 预先建好全部 (属性, 类别) 分布表
	for _, attr := range m.inputs {
		domain := ds.Values(attr)
		dists := make([]*CountingProbDist[dataset.Value], len(targetValues))
		for i := range targetValues {
			if dists[i], err = NewCountingProbDist(o.smoothing, domain...); err != nil {
				return nil, err
			}
		}
		m.conditional[attr] = dists
	}

	for _, row := range ds.Examples() {
		class := row[target]
		ci, ok := m.classIndex[class]
		if !ok {
			return nil, xerrors.ErrUnknownClass.Derive("%v", class)
		}
		prior.Add(class)
		for _, attr := range m.inputs {
			m.conditional[attr][ci].Add(row[attr])
		}
	}
	return m, nil
}

// logScores 计算每个类别的对数后验（未归一化），顺序与 targetValues 一致。
func (m *NaiveBayesModel) logScores(sample []dataset.Value) ([]float64, error) {
	for _, attr := range m.inputs {
		if attr >= len(sample) {
			return nil, xerrors.ErrSampleTooShort.Derive("need attribute %d, sample has %d values", attr, len(sample))
		}
	}

	scores := make([]float64, len(m.targetValues))
	for i, class := range m.targetValues {
		p, err := m.classPrior.Peek(class)
		if err != nil {
			return nil, err
		}
		// 使用对数概率避免连乘下溢
		score := math.Log(p)
		for _, attr := range m.inputs {
			q, err := m.conditional[attr][i].Peek(sample[attr])
			if err != nil {
				return nil, err
			}
			score += math.Log(q)
		}
		scores[i] = score
	}
	return scores, nil
}

// Predict 返回后验概率最大的类别；并列时取 targetValues 中靠前的类别。
// sample 按属性下标索引，必须覆盖全部输入属性。
func (m *NaiveBayesModel) Predict(sample []dataset.Value) (dataset.Value, error) {
	scores, err := m.logScores(sample)
	if err != nil {
		m.observe("error")
		return nil, err
	}

	best, bestScore := 0, math.Inf(-1)
	for i, s := range scores {
		if s > bestScore {
			best, bestScore = i, s
		}
	}
	m.observe("ok")
	m.logger.Debug("naive bayes prediction", "dataset", m.name, "class", m.targetValues[best], "log_score", bestScore)
	return m.targetValues[best], nil
}

// PredictNamed 按属性名组装样本后预测。
func (m *NaiveBayesModel) PredictNamed(sample map[string]dataset.Value) (dataset.Value, error) {
	row, err := m.namedSample(sample)
	if err != nil {
		return nil, err
	}
	return m.Predict(row)
}

func (m *NaiveBayesModel) namedSample(sample map[string]dataset.Value) ([]dataset.Value, error) {
	width := 0
	for _, attr := range m.inputs {
		width = max(width, attr+1)
	}
	row := make([]dataset.Value, width)
	seen := make(map[int]bool, len(sample))
	for name, v := range sample {
		attr, ok := m.attrIndex[name]
		if !ok {
			return nil, xerrors.ErrInvalidAttribute.Derive("unknown attribute name %q", name)
		}
		if attr < width {
			row[attr] = v
			seen[attr] = true
		}
	}
	for _, attr := range m.inputs {
		if !seen[attr] {
			return nil, xerrors.ErrSampleTooShort.Derive("missing input attribute %d", attr)
		}
	}
	return row, nil
}

// PredictProba 返回按 targetValues 顺序排列的归一化后验概率。
func (m *NaiveBayesModel) PredictProba(sample []dataset.Value) ([]ClassScore, error) {
	scores, err := m.logScores(sample)
	if err != nil {
		return nil, err
	}

	maxScore := math.Inf(-1)
	for _, s := range scores {
		maxScore = max(maxScore, s)
	}
	out := make([]ClassScore, len(scores))
	// 所有类别概率都为 0 时全部返回 0
	if math.IsInf(maxScore, -1) {
		for i, c := range m.targetValues {
			out[i] = ClassScore{Class: c}
		}
		return out, nil
	}

	var sum float64
	for i, s := range scores {
		e := math.Exp(s - maxScore)
		out[i] = ClassScore{Class: m.targetValues[i], Probability: e}
		sum += e
	}
	for i := range out {
		out[i].Probability /= sum
	}
	return out, nil
}

// PredictBatch 并发预测多个样本，结果顺序与输入一致。任一样本出错或 ctx 取消即返回。
func (m *NaiveBayesModel) PredictBatch(ctx context.Context, samples [][]dataset.Value) ([]dataset.Value, error) {
	out := make([]dataset.Value, len(samples))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for i, sample := range samples {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := m.Predict(sample)
			if err != nil {
				if e, ok := xerrors.FromError(err); ok {
					e.WithContext("sample", i)
				}
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Evaluate 返回模型在 ds 上的准确率，ds 的目标属性作为真实标签。
func Evaluate(ctx context.Context, m *NaiveBayesModel, ds *dataset.Dataset) (float64, error) {
	rows := ds.Examples()
	if len(rows) == 0 {
		return 0, xerrors.ErrEmptyData.Derive("dataset %q has no examples", ds.Name())
	}
	preds, err := m.PredictBatch(ctx, rows)
	if err != nil {
		return 0, err
	}
	target := ds.Target()
	correct := 0
	for i, row := range rows {
		if preds[i] == row[target] {
			correct++
		}
	}
	return float64(correct) / float64(len(rows)), nil
}

// ClassPrior 返回类别先验分布的副本，对副本的修改不会影响模型。
func (m *NaiveBayesModel) ClassPrior() *CountingProbDist[dataset.Value] {
	return m.classPrior.clone()
}

// Conditional 返回给定类别下属性 attr 的条件分布副本。
func (m *NaiveBayesModel) Conditional(attr int, class dataset.Value) (*CountingProbDist[dataset.Value], error) {
	dists, ok := m.conditional[attr]
	if !ok {
		return nil, xerrors.ErrInvalidAttribute.Derive("attribute %d is not an input", attr)
	}
	ci, ok := m.classIndex[class]
	if !ok {
		return nil, xerrors.ErrUnknownClass.Derive("%v", class)
	}
	return dists[ci].clone(), nil
}

// Classes 按首次出现顺序返回目标值域。
func (m *NaiveBayesModel) Classes() []dataset.Value {
	return append([]dataset.Value(nil), m.targetValues...)
}

// Target 返回目标属性下标。
func (m *NaiveBayesModel) Target() int { return m.target }

// Inputs 返回输入属性下标。
func (m *NaiveBayesModel) Inputs() []int { return append([]int(nil), m.inputs...) }

func (m *NaiveBayesModel) observe(outcome string) {
	if m.metrics != nil {
		m.metrics.PredictionsTotal.WithLabelValues(m.name, outcome).Inc()
	}
}
