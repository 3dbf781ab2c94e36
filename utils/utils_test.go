package utils

import (
	"math"
	"reflect"
	"testing"
)

func TestUniqueKeepsFirstOccurrence(t *testing.T) {
	got := Unique([]any{"b", 1, "b", 2, 1, "a"})
	want := []any{"b", 1, 2, "a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Unique = %v, want %v", got, want)
	}
}

func TestProduct(t *testing.T) {
	if got := Product([]int{2, 3, 10}); got != 60 {
		t.Errorf("Product = %d, want 60", got)
	}
	if got := Product([]float64{}); got != 1 {
		t.Errorf("empty Product = %v, want 1", got)
	}
}

func TestDistances(t *testing.T) {
	a := []float64{0, 0}
	b := []float64{3, 4}
	if got := ManhattanDistance(a, b); got != 7 {
		t.Errorf("Manhattan = %v, want 7", got)
	}
	if got := EuclideanDistance(a, b); math.Abs(got-5) > 1e-12 {
		t.Errorf("Euclidean = %v, want 5", got)
	}
}

func TestSubsetAndColumn(t *testing.T) {
	if !IsSubset([]int{1, 3}, []int{0, 1, 2, 3}) {
		t.Errorf("expected subset")
	}
	if IsSubset([]int{4}, []int{0, 1}) {
		t.Errorf("unexpected subset")
	}
	rows := [][]int{{1, 2}, {3}, {5, 6}}
	if got := Column(rows, 1); !reflect.DeepEqual(got, []int{2, 6}) {
		t.Errorf("Column = %v", got)
	}
	if IndexOf([]string{"a", "b"}, "b") != 1 || IndexOf([]string{"a"}, "z") != -1 {
		t.Errorf("IndexOf mismatch")
	}
}
