package utils

import "gonum.org/v1/gonum/floats"

// Number 约束可参与算术运算的数值类型.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Product 返回序列的乘积，空序列返回 1.
func Product[T Number](numbers []T) T {
	var result T = 1
	for _, x := range numbers {
		result *= x
	}
	return result
}

// ManhattanDistance 计算两个向量的 L1 距离，按较短的一方对齐.
func ManhattanDistance[T Number](a, b []T) float64 {
	x, y := aligned(a, b)
	return floats.Distance(x, y, 1)
}

// EuclideanDistance 计算两个向量的 L2 距离，按较短的一方对齐.
func EuclideanDistance[T Number](a, b []T) float64 {
	x, y := aligned(a, b)
	return floats.Distance(x, y, 2)
}

// aligned 截断到相同长度并转换为 float64.
func aligned[T Number](a, b []T) ([]float64, []float64) {
	n := min(len(a), len(b))
	x := make([]float64, n)
	y := make([]float64, n)
	for i := range n {
		x[i], y[i] = float64(a[i]), float64(b[i])
	}
	return x, y
}
