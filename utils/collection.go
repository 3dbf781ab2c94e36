// Package utils 提供了通用的集合处理与数值工具.
package utils

// Filter 对切片进行过滤，返回符合条件的元素.
func Filter[T any](items []T, fn func(T) bool) []T {
	result := make([]T, 0, len(items))
	for _, item := range items {
		if fn(item) {
			result = append(result, item)
		}
	}
	return result
}

// Map 对切片进行转换，返回转换后的新切片.
func Map[T any, R any](items []T, fn func(T) R) []R {
	result := make([]R, len(items))
	for i, item := range items {
		result[i] = fn(item)
	}
	return result
}

// Contains 判断切片是否包含某个元素.
func Contains[T comparable](items []T, target T) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

// IndexOf 返回元素首次出现的位置，不存在时返回 -1.
func IndexOf[T comparable](items []T, target T) int {
	for i, item := range items {
		if item == target {
			return i
		}
	}
	return -1
}

// Unique 返回去重后的切片，保持首次出现的顺序.
func Unique[T comparable](items []T) []T {
	seen := make(map[T]struct{}, len(items))
	result := make([]T, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; !ok {
			seen[item] = struct{}{}
			result = append(result, item)
		}
	}
	return result
}

// ToSet 将切片转换为 Map Set (用于 O(1) 查找).
func ToSet[T comparable](items []T) map[T]struct{} {
	result := make(map[T]struct{}, len(items))
	for _, item := range items {
		result[item] = struct{}{}
	}
	return result
}

// IsSubset 判断 sub 中的每个元素是否都在 super 中.
func IsSubset[T comparable](sub, super []T) bool {
	set := ToSet(super)
	for _, item := range sub {
		if _, ok := set[item]; !ok {
			return false
		}
	}
	return true
}

// Column 提取二维切片的第 col 列，行宽不足时跳过该行.
func Column[T any](rows [][]T, col int) []T {
	result := make([]T, 0, len(rows))
	for _, row := range rows {
		if col < len(row) {
			result = append(result, row[col])
		}
	}
	return result
}
