package dataset

import "github.com/wyfcoding/naivebayes/utils"

// ManhattanDistance 是默认距离：数值字段取差的绝对值，其余字段不相等计 1。
func ManhattanDistance(a, b []Value) float64 {
	x, y := numericPair(a, b)
	return utils.ManhattanDistance(x, y)
}

// EuclideanDistance 与 ManhattanDistance 的字段处理相同，按 L2 汇总。
func EuclideanDistance(a, b []Value) float64 {
	x, y := numericPair(a, b)
	return utils.EuclideanDistance(x, y)
}

// numericPair 把两行映射到可比较的浮点向量上。
func numericPair(a, b []Value) ([]float64, []float64) {
	n := min(len(a), len(b))
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range n {
		fa, okA := toFloat(a[i])
		fb, okB := toFloat(b[i])
		switch {
		case okA && okB:
			x[i], y[i] = fa, fb
		case a[i] != b[i]:
			y[i] = 1
		}
	}
	return x, y
}
