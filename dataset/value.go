package dataset

import (
	"fmt"
	"reflect"
	"strconv"
)

// Value 是表格中的单个字段值，取值为 int、float64 或 string 等可比较的标量。
type Value = any

// AttrRef 是对属性的引用：要么是下标，要么是名称。
// 它只在边界处被 ResolveAttribute 解析为规范下标一次。
type AttrRef struct {
	index  int
	name   string
	byName bool
}

// Index 按下标引用属性，负数从 attrs 末尾倒数。
func Index(i int) AttrRef { return AttrRef{index: i} }

// Name 按属性名引用属性。
func Name(n string) AttrRef { return AttrRef{name: n, byName: true} }

// Names 将一组名称转换为引用。
func Names(names ...string) []AttrRef {
	refs := make([]AttrRef, len(names))
	for i, n := range names {
		refs[i] = Name(n)
	}
	return refs
}

// Indices 将一组下标转换为引用。
func Indices(indices ...int) []AttrRef {
	refs := make([]AttrRef, len(indices))
	for i, idx := range indices {
		refs[i] = Index(idx)
	}
	return refs
}

// IsName 报告该引用是否按名称给出。
func (r AttrRef) IsName() bool { return r.byName }

func (r AttrRef) String() string {
	if r.byName {
		return strconv.Quote(r.name)
	}
	return strconv.Itoa(r.index)
}

// toFloat 将数值型字段转换为 float64。
func toFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// checkComparable 拒绝无法作为 map 键的字段值（切片、map 等）。
func checkComparable(v Value) error {
	if v == nil {
		return nil
	}
	if t := reflect.TypeOf(v); !t.Comparable() {
		return fmt.Errorf("value of type %s is not comparable", t)
	}
	return nil
}
