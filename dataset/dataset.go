// Package dataset 提供了机器学习问题的表格数据集：属性下标与名称、目标/输入划分、属性值域及样本校验。
package dataset

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/wyfcoding/naivebayes/utils"
	"github.com/wyfcoding/naivebayes/xerrors"
)

// DistanceFunc 计算两个样本（已投影到输入属性上）之间的距离。
type DistanceFunc func(a, b []Value) float64

// Dataset 是一个机器学习问题的数据集。
// 构造完成后只能通过 AddExample 追加经过校验的样本，或通过 SetProblem 重新划分目标与输入。
type Dataset struct {
	name      string
	source    string
	examples  [][]Value
	width     int // 每行字段数
	attrs     []int
	attrNames []string
	target    int
	inputs    []int
	values    map[int][]Value
	domains   map[int]map[Value]struct{} // values 的集合视图，用于 O(1) 校验
	gotValues bool                       // values 是否由调用方在构造时给出
	distance  DistanceFunc
}

type options struct {
	target    AttrRef
	attrs     []int
	attrNames []string
	inputs    []AttrRef
	values    map[int][]Value
	exclude   []AttrRef
	name      string
	source    string
	distance  DistanceFunc
}

// Option 定义数据集构造选项。
type Option func(*options)

// WithTarget 设置目标属性，默认是最后一个属性。
func WithTarget(ref AttrRef) Option {
	return func(o *options) { o.target = ref }
}

// WithAttrs 覆盖属性下标列表，默认是 0..n-1。
func WithAttrs(attrs []int) Option {
	return func(o *options) { o.attrs = slices.Clone(attrs) }
}

// WithAttrNames 按列表设置属性名。
func WithAttrNames(names []string) Option {
	return func(o *options) { o.attrNames = slices.Clone(names) }
}

// WithAttrNamesString 以空白分隔的单个字符串设置属性名，与 WithAttrNames 等价。
func WithAttrNamesString(names string) Option {
	return func(o *options) { o.attrNames = strings.Fields(names) }
}

// WithInputs 显式指定输入属性。
func WithInputs(refs ...AttrRef) Option {
	return func(o *options) { o.inputs = slices.Clone(refs) }
}

// WithValues 声明各属性的值域；给出后所有样本都必须落在值域内。
func WithValues(values map[int][]Value) Option {
	return func(o *options) {
		o.values = make(map[int][]Value, len(values))
		for a, vs := range values {
			o.values[a] = slices.Clone(vs)
		}
	}
}

// WithExclude 从默认输入集合中排除若干属性。
func WithExclude(refs ...AttrRef) Option {
	return func(o *options) { o.exclude = slices.Clone(refs) }
}

// WithName 设置数据集名称。
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithSource 记录数据来源（URL 等）。
func WithSource(source string) Option {
	return func(o *options) { o.source = source }
}

// WithDistance 注入样本距离函数。
func WithDistance(fn DistanceFunc) Option {
	return func(o *options) { o.distance = fn }
}

// New 由原始行构造数据集。
// 属性名可由列表或空白分隔字符串给出；target/exclude/inputs 可用下标或名称；
// 未给出 values 时按列扫描样本得到值域；未给出 inputs 时取 attrs 去掉 target 与 exclude。
// 任一校验失败都直接返回错误，不会产生半初始化的数据集。
func New(examples [][]Value, opts ...Option) (*Dataset, error) {
	o := &options{target: Index(-1)}
	for _, opt := range opts {
		opt(o)
	}

	d := &Dataset{
		name:     o.name,
		source:   o.source,
		distance: o.distance,
		examples: make([][]Value, 0, len(examples)),
	}
	if d.distance == nil {
		d.distance = ManhattanDistance
	}

	for i, row := range examples {
		if i == 0 {
			d.width = len(row)
		} else if len(row) != d.width {
			return nil, xerrors.ErrRaggedRow.Derive("row %d has %d fields, expected %d", i, len(row), d.width).
				WithContext("row", row)
		}
		for _, v := range row {
			if err := checkComparable(v); err != nil {
				return nil, xerrors.ErrInvalidInput.Derive("row %d: %v", i, err)
			}
		}
		d.examples = append(d.examples, slices.Clone(row))
	}

	d.attrs = o.attrs
	if d.attrs == nil {
		if len(d.examples) == 0 {
			return nil, xerrors.ErrEmptyExamples.Derive("dataset %q", o.name)
		}
		d.attrs = make([]int, d.width)
		for i := range d.attrs {
			d.attrs[i] = i
		}
	}
	if len(d.examples) == 0 {
		d.width = slices.Max(append([]int{-1}, d.attrs...)) + 1
	}
	for _, a := range d.attrs {
		if a < 0 || a >= d.width {
			return nil, xerrors.ErrInvalidAttribute.Derive("attr %d is outside rows of width %d", a, d.width)
		}
	}

	d.attrNames = o.attrNames
	if d.attrNames == nil {
		d.attrNames = utils.Map(d.attrs, strconv.Itoa)
	}

	if len(o.values) > 0 {
		d.values = o.values
		d.gotValues = true
	}

	if err := d.SetProblem(o.target, o.inputs, o.exclude); err != nil {
		return nil, err
	}
	return d, nil
}

// SetProblem 设置或修改目标与输入属性，使同一份样本可用于多个分类问题。
// inputs 非空时直接作为输入；否则取 attrs 去掉 target 与 exclude。
// values 为空时才重新计算。所有不变量在提交前校验，失败时数据集保持原状。
func (d *Dataset) SetProblem(target AttrRef, inputs []AttrRef, exclude []AttrRef) error {
	t, err := d.ResolveAttribute(target)
	if err != nil {
		return err
	}

	excluded := make([]int, 0, len(exclude))
	for _, ref := range exclude {
		a, err := d.ResolveAttribute(ref)
		if err != nil {
			return err
		}
		excluded = append(excluded, a)
	}

	var in []int
	if len(inputs) > 0 {
		in = make([]int, 0, len(inputs))
		for _, ref := range inputs {
			a, err := d.ResolveAttribute(ref)
			if err != nil {
				return err
			}
			in = append(in, a)
		}
	} else {
		in = utils.Filter(d.attrs, func(a int) bool {
			return a != t && !utils.Contains(excluded, a)
		})
	}

	values := d.values
	if len(values) == 0 {
		values = d.computeValues()
	}
	domains := buildDomains(values)

	if err := d.check(t, in); err != nil {
		return err
	}
	if d.gotValues {
		for _, row := range d.examples {
			if err := d.checkExample(row, domains); err != nil {
				return err
			}
		}
	}

	d.target = t
	d.inputs = in
	d.values = values
	d.domains = domains
	return nil
}

// check 校验属性划分的不变量。
func (d *Dataset) check(target int, inputs []int) error {
	if len(d.attrs) != len(d.attrNames) {
		return xerrors.ErrAttrNamesMismatch.Derive("%d attrs, %d names", len(d.attrs), len(d.attrNames))
	}
	if !utils.IsSubset(inputs, d.attrs) {
		return xerrors.ErrInputOutOfAttrs.Derive("inputs %v, attrs %v", inputs, d.attrs)
	}
	if utils.Contains(inputs, target) {
		return xerrors.ErrTargetInInputs.Derive("target %d, inputs %v", target, inputs)
	}
	if !utils.Contains(d.attrs, target) {
		return xerrors.ErrTargetOutOfAttrs.Derive("target %d, attrs %v", target, d.attrs)
	}
	return nil
}

// AddExample 校验后追加一条样本；校验失败时样本集不变。
func (d *Dataset) AddExample(row []Value) error {
	if len(row) != d.width {
		return xerrors.ErrRaggedRow.Derive("row has %d fields, expected %d", len(row), d.width).
			WithContext("row", row)
	}
	for _, v := range row {
		if err := checkComparable(v); err != nil {
			return xerrors.ErrInvalidInput.Derive("%v", err)
		}
	}
	if err := d.checkExample(row, d.domains); err != nil {
		return err
	}
	d.examples = append(d.examples, slices.Clone(row))
	return nil
}

// checkExample 在值域已知时校验样本的每个属性取值。
func (d *Dataset) checkExample(row []Value, domains map[int]map[Value]struct{}) error {
	if len(domains) == 0 {
		return nil
	}
	for i, a := range d.attrs {
		domain, ok := domains[a]
		if !ok {
			continue
		}
		if _, ok := domain[row[a]]; !ok {
			return xerrors.ErrBadValue.Derive("bad value %v for attribute %s in %v", row[a], d.attrNames[i], row).
				WithContext("attribute", d.attrNames[i]).
				WithContext("value", row[a]).
				WithContext("row", slices.Clone(row))
		}
	}
	return nil
}

// computeValues 按列收集各属性出现过的取值，保持首次出现的顺序。
func (d *Dataset) computeValues() map[int][]Value {
	values := make(map[int][]Value, len(d.attrs))
	for _, a := range d.attrs {
		values[a] = utils.Unique(utils.Column(d.examples, a))
	}
	return values
}

func buildDomains(values map[int][]Value) map[int]map[Value]struct{} {
	domains := make(map[int]map[Value]struct{}, len(values))
	for a, vs := range values {
		domains[a] = utils.ToSet(vs)
	}
	return domains
}

// ResolveAttribute 将属性引用解析为规范的非负下标。
// 名称通过 attr_names 查找；负下标从 attrs 末尾倒数，两者都返回 attrs 中的真实属性下标。
func (d *Dataset) ResolveAttribute(ref AttrRef) (int, error) {
	if ref.byName {
		i := utils.IndexOf(d.attrNames, ref.name)
		if i < 0 {
			return 0, xerrors.ErrInvalidAttribute.Derive("unknown attribute name %q", ref.name)
		}
		if i < len(d.attrs) {
			return d.attrs[i], nil
		}
		return i, nil
	}
	if ref.index < 0 {
		i := len(d.attrs) + ref.index
		if i < 0 {
			return 0, xerrors.ErrInvalidAttribute.Derive("index %d out of range for %d attrs", ref.index, len(d.attrs))
		}
		return d.attrs[i], nil
	}
	return ref.index, nil
}

// Name 返回数据集名称。
func (d *Dataset) Name() string { return d.name }

// Source 返回数据来源。
func (d *Dataset) Source() string { return d.source }

// Len 返回样本数量。
func (d *Dataset) Len() int { return len(d.examples) }

// Examples 返回样本的浅拷贝。
func (d *Dataset) Examples() [][]Value {
	rows := make([][]Value, len(d.examples))
	for i, row := range d.examples {
		rows[i] = slices.Clone(row)
	}
	return rows
}

// Attrs 返回属性下标。
func (d *Dataset) Attrs() []int { return slices.Clone(d.attrs) }

// AttrNames 返回属性名。
func (d *Dataset) AttrNames() []string { return slices.Clone(d.attrNames) }

// AttrName 返回属性下标对应的名称。
func (d *Dataset) AttrName(attr int) string {
	if i := utils.IndexOf(d.attrs, attr); i >= 0 && i < len(d.attrNames) {
		return d.attrNames[i]
	}
	return strconv.Itoa(attr)
}

// Target 返回目标属性下标。
func (d *Dataset) Target() int { return d.target }

// Inputs 返回输入属性下标。
func (d *Dataset) Inputs() []int { return slices.Clone(d.inputs) }

// Values 返回属性的值域。
func (d *Dataset) Values(attr int) []Value { return slices.Clone(d.values[attr]) }

// Sanitize 返回样本副本，非输入属性被置为 nil。
func (d *Dataset) Sanitize(row []Value) []Value {
	out := make([]Value, len(row))
	for _, a := range d.inputs {
		if a < len(row) {
			out[a] = row[a]
		}
	}
	return out
}

// Distance 计算两行在输入属性上的距离。
func (d *Dataset) Distance(a, b []Value) float64 {
	return d.distance(d.project(a), d.project(b))
}

func (d *Dataset) project(row []Value) []Value {
	out := make([]Value, 0, len(d.inputs))
	for _, a := range d.inputs {
		if a < len(row) {
			out = append(out, row[a])
		}
	}
	return out
}

func (d *Dataset) String() string {
	return fmt.Sprintf("<Dataset(%s): %d examples, %d attributes>", d.name, len(d.examples), len(d.attrs))
}
