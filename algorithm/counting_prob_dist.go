package algorithm

import (
	"sort"
	"sync"

	"github.com/wyfcoding/naivebayes/xerrors"
)

// Observation 是 Top 返回的 (取值, 计数) 对。
type Observation[T comparable] struct {
	Value T
	Count float64
}

// CountingProbDist 是基于频数的离散概率分布。
// 每个取值第一次出现（被登记）时先获得 defaultCount 的基础计数，
// 因此登记过但尚未观测到的取值仍有非零概率（defaultCount > 0 时）。
// 所有方法内部加锁，可在多个 goroutine 间共享。
type CountingProbDist[T comparable] struct {
	mu           sync.Mutex
	counts       map[T]float64
	order        []T     // 登记顺序，Top 的并列项按此顺序排列
	total        float64 // 所有计数之和，含平滑贡献
	defaultCount float64
}

// NewCountingProbDist 创建分布，并以 defaultCount 的平滑基数登记 seed 中的每个取值。
func NewCountingProbDist[T comparable](defaultCount float64, seed ...T) (*CountingProbDist[T], error) {
	if defaultCount < 0 {
		return nil, xerrors.ErrInvalidSmoothing.Derive("default %v", defaultCount)
	}
	d := &CountingProbDist[T]{
		counts:       make(map[T]float64, len(seed)),
		order:        make([]T, 0, len(seed)),
		defaultCount: defaultCount,
	}
	for _, v := range seed {
		d.register(v)
	}
	return d, nil
}

// NewCountingProbDistFromObservations 创建分布并逐个 Add 观测值。
func NewCountingProbDistFromObservations[T comparable](defaultCount float64, observations ...T) (*CountingProbDist[T], error) {
	d, err := NewCountingProbDist[T](defaultCount)
	if err != nil {
		return nil, err
	}
	for _, o := range observations {
		d.add(o)
	}
	return d, nil
}

// Register 确保 v 已被登记；新登记时计数为 defaultCount，total 同步增加。已登记的取值不受影响。
func (d *CountingProbDist[T]) Register(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.register(v)
}

func (d *CountingProbDist[T]) register(v T) {
	if _, ok := d.counts[v]; ok {
		return
	}
	d.counts[v] = d.defaultCount
	d.order = append(d.order, v)
	d.total += d.defaultCount
}

// Add 记录一次对 v 的观测。
func (d *CountingProbDist[T]) Add(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.add(v)
}

func (d *CountingProbDist[T]) add(v T) {
	d.register(v)
	d.counts[v]++
	d.total++
}

// Probability 登记 v 后返回 counts[v]/total。
// 没有任何观测且平滑为 0 时返回 ErrDegenerateDistribution。
func (d *CountingProbDist[T]) Probability(v T) (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.register(v)
	if d.total == 0 {
		return 0, xerrors.ErrDegenerateDistribution.Derive("value %v", v)
	}
	return d.counts[v] / d.total, nil
}

// Peek 返回 v 登记后将得到的概率，但不修改分布。
func (d *CountingProbDist[T]) Peek(v T) (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	count, ok := d.counts[v]
	total := d.total
	if !ok {
		count = d.defaultCount
		total += d.defaultCount
	}
	if total == 0 {
		return 0, xerrors.ErrDegenerateDistribution.Derive("value %v", v)
	}
	return count / total, nil
}

// Top 返回计数最大的 n 个观测，计数相同时按登记顺序。
func (d *CountingProbDist[T]) Top(n int) []Observation[T] {
	d.mu.Lock()
	defer d.mu.Unlock()
	if n <= 0 {
		return []Observation[T]{}
	}
	obs := make([]Observation[T], len(d.order))
	for i, v := range d.order {
		obs[i] = Observation[T]{Value: v, Count: d.counts[v]}
	}
	sort.SliceStable(obs, func(i, j int) bool {
		return obs[i].Count > obs[j].Count
	})
	if n < len(obs) {
		obs = obs[:n]
	}
	return obs
}

// Count 返回 v 的当前计数，未登记时为 0。
func (d *CountingProbDist[T]) Count(v T) float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.counts[v]
}

// Total 返回计数总和。
func (d *CountingProbDist[T]) Total() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.total
}

// Len 返回已登记取值的个数。
func (d *CountingProbDist[T]) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.order)
}

// Values 按登记顺序返回所有取值。
func (d *CountingProbDist[T]) Values() []T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]T(nil), d.order...)
}

// Default 返回平滑基数。
func (d *CountingProbDist[T]) Default() float64 {
	return d.defaultCount
}

// clone 返回当前计数的独立副本。
func (d *CountingProbDist[T]) clone() *CountingProbDist[T] {
	d.mu.Lock()
	defer d.mu.Unlock()
	c := &CountingProbDist[T]{
		counts:       make(map[T]float64, len(d.counts)),
		order:        append([]T(nil), d.order...),
		total:        d.total,
		defaultCount: d.defaultCount,
	}
	for v, n := range d.counts {
		c.counts[v] = n
	}
	return c
}
