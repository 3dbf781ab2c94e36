package algorithm

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/wyfcoding/naivebayes/dataset"
	"github.com/wyfcoding/naivebayes/metrics"
	"github.com/wyfcoding/naivebayes/utils"
)

func toyDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(
		[][]dataset.Value{{1, "a", "yes"}, {2, "b", "no"}, {1, "b", "yes"}},
		dataset.WithAttrNamesString("num letter label"),
		dataset.WithTarget(dataset.Name("label")),
		dataset.WithName("toy"),
	)
	if err != nil {
		t.Fatalf("dataset.New: %v", err)
	}
	return ds
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-12
}

func checkTotal[T comparable](t *testing.T, d *CountingProbDist[T]) {
	t.Helper()
	var sum float64
	for _, v := range d.Values() {
		sum += d.Count(v)
	}
	if !almostEqual(sum, d.Total()) {
		t.Errorf("sum of counts %v != total %v", sum, d.Total())
	}
}

func TestCountingProbDist(t *testing.T) {
	d, err := NewCountingProbDist(0.5, "a", "b", "c")
	if err != nil {
		t.Fatalf("NewCountingProbDist: %v", err)
	}
	checkTotal(t, d)

	// 预登记的取值在任何观测之前至少有 s/total 的概率
	p, err := d.Probability("a")
	if err != nil {
		t.Fatalf("Probability: %v", err)
	}
	if p < 0.5/d.Total() {
		t.Errorf("P(a) = %v, want >= %v", p, 0.5/d.Total())
	}

	prev := d.Count("b")
	for range 3 {
		d.Add("b")
		if d.Count("b") <= prev {
			t.Fatalf("Add is not monotonic: %v -> %v", prev, d.Count("b"))
		}
		prev = d.Count("b")
		checkTotal(t, d)
	}

	d.Register("b")
	if d.Count("b") != 3.5 {
		t.Errorf("Register changed an existing count: %v", d.Count("b"))
	}

	if _, err := d.Probability("new"); err != nil {
		t.Fatalf("Probability(new): %v", err)
	}
	if d.Len() != 4 || d.Count("new") != 0.5 {
		t.Errorf("querying an unseen value should register it with the default count")
	}
	checkTotal(t, d)

	if _, err := NewCountingProbDist(-1, "x"); !errors.Is(err, ErrInvalidSmoothing) {
		t.Errorf("negative default: got %v", err)
	}
}

func TestCountingProbDistPeekDoesNotRegister(t *testing.T) {
	d, err := NewCountingProbDistFromObservations(1, "x", "x", "y")
	if err != nil {
		t.Fatalf("NewCountingProbDistFromObservations: %v", err)
	}
	if d.Total() != 5 {
		t.Fatalf("Total = %v, want 5", d.Total())
	}

	peek, err := d.Peek("z")
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if d.Len() != 2 {
		t.Errorf("Peek registered a value")
	}
	prob, err := d.Probability("z")
	if err != nil {
		t.Fatalf("Probability: %v", err)
	}
	if !almostEqual(peek, prob) {
		t.Errorf("Peek = %v, Probability = %v", peek, prob)
	}
}

func TestCountingProbDistDegenerate(t *testing.T) {
	d, err := NewCountingProbDist[string](0)
	if err != nil {
		t.Fatalf("NewCountingProbDist: %v", err)
	}
	if _, err := d.Probability("a"); !errors.Is(err, ErrDegenerateDistribution) {
		t.Errorf("Probability on empty dist: got %v", err)
	}
	if _, err := d.Peek("a"); !errors.Is(err, ErrDegenerateDistribution) {
		t.Errorf("Peek on empty dist: got %v", err)
	}
}

func TestCountingProbDistTop(t *testing.T) {
	d, err := NewCountingProbDistFromObservations(0, "a", "b", "b", "c", "c")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		n    int
		want []Observation[string]
	}{
		{2, []Observation[string]{{"b", 2}, {"c", 2}}},
		{10, []Observation[string]{{"b", 2}, {"c", 2}, {"a", 1}}},
		{0, []Observation[string]{}},
		{-1, []Observation[string]{}},
	}
	for _, tt := range tests {
		if got := d.Top(tt.n); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Top(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestNaiveBayesPriors(t *testing.T) {
	ds := toyDataset(t)

	tests := []struct {
		smoothing float64
		yes, no   float64
	}{
		{0, 2.0 / 3, 1.0 / 3},
		{1, 3.0 / 5, 2.0 / 5},
	}
	for _, tt := range tests {
		m, err := NaiveBayesLearner(ds, WithSmoothing(tt.smoothing))
		if err != nil {
			t.Fatalf("NaiveBayesLearner(s=%v): %v", tt.smoothing, err)
		}
		yes, _ := m.ClassPrior().Peek("yes")
		no, _ := m.ClassPrior().Peek("no")
		if !almostEqual(yes, tt.yes) || !almostEqual(no, tt.no) {
			t.Errorf("s=%v: prior yes=%v no=%v, want %v/%v", tt.smoothing, yes, no, tt.yes, tt.no)
		}
	}
}

func TestNaiveBayesPredict(t *testing.T) {
	ds := toyDataset(t)
	for _, s := range []float64{0, 1} {
		m, err := NaiveBayesLearner(ds, WithSmoothing(s))
		if err != nil {
			t.Fatalf("NaiveBayesLearner: %v", err)
		}
		got, err := m.Predict([]dataset.Value{1, "a"})
		if err != nil {
			t.Fatalf("Predict: %v", err)
		}
		if got != "yes" {
			t.Errorf("s=%v: Predict = %v, want yes", s, got)
		}

		got, err = m.PredictNamed(map[string]dataset.Value{"num": 1, "letter": "a"})
		if err != nil || got != "yes" {
			t.Errorf("s=%v: PredictNamed = %v, %v", s, got, err)
		}
	}

	m, err := NaiveBayesLearner(ds)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Predict([]dataset.Value{1}); !errors.Is(err, ErrSampleTooShort) {
		t.Errorf("short sample: got %v", err)
	}
	if _, err := m.PredictNamed(map[string]dataset.Value{"num": 1}); !errors.Is(err, ErrSampleTooShort) {
		t.Errorf("missing named input: got %v", err)
	}
	if _, err := m.PredictNamed(map[string]dataset.Value{"num": 1, "colour": "red"}); !errors.Is(err, ErrInvalidAttribute) {
		t.Errorf("unknown name: got %v", err)
	}
}

func TestNaiveBayesUnseenValueDoesNotMutateModel(t *testing.T) {
	m, err := NaiveBayesLearner(toyDataset(t))
	if err != nil {
		t.Fatal(err)
	}
	cond, err := m.Conditional(1, "yes")
	if err != nil {
		t.Fatal(err)
	}
	before := cond.Total()

	if _, err := m.Predict([]dataset.Value{9, "zzz"}); err != nil {
		t.Fatalf("Predict with unseen values: %v", err)
	}
	after, err := m.Conditional(1, "yes")
	if err != nil {
		t.Fatal(err)
	}
	if after.Total() != before || after.Len() != 2 {
		t.Errorf("prediction mutated the conditional table")
	}
}

func TestModelAccessorsReturnCopies(t *testing.T) {
	m, err := NaiveBayesLearner(toyDataset(t))
	if err != nil {
		t.Fatal(err)
	}
	sample := []dataset.Value{1, "zzz"}
	want, err := m.PredictProba(sample)
	if err != nil {
		t.Fatal(err)
	}

	prior := m.ClassPrior()
	if _, err := prior.Probability("maybe"); err != nil {
		t.Fatal(err)
	}
	prior.Add("no")
	cond, err := m.Conditional(1, "yes")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cond.Probability("zzz"); err != nil {
		t.Fatal(err)
	}

	if n := m.ClassPrior().Len(); n != 2 {
		t.Errorf("class prior has %d values after editing a copy, want 2", n)
	}
	if fresh, _ := m.Conditional(1, "yes"); fresh.Len() != 2 {
		t.Errorf("conditional has %d values after editing a copy, want 2", fresh.Len())
	}
	got, err := m.PredictProba(sample)
	if err != nil {
		t.Fatal(err)
	}
	for i := range want {
		if !almostEqual(got[i].Probability, want[i].Probability) || got[i].Class != want[i].Class {
			t.Errorf("PredictProba changed after editing copies: got %v, want %v", got, want)
			break
		}
	}
}

func TestNaiveBayesTieBreak(t *testing.T) {
	// 两个类别后验相同时，取首次出现的类别，而不是字典序
	ds, err := dataset.New([][]dataset.Value{{"x", "B"}, {"x", "A"}})
	if err != nil {
		t.Fatal(err)
	}
	m, err := NaiveBayesLearner(ds)
	if err != nil {
		t.Fatal(err)
	}
	got, err := m.Predict([]dataset.Value{"x"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "B" {
		t.Errorf("tie-break = %v, want B", got)
	}
}

func TestNaiveBayesPredictProba(t *testing.T) {
	m, err := NaiveBayesLearner(toyDataset(t), WithSmoothing(0))
	if err != nil {
		t.Fatal(err)
	}
	scores, err := m.PredictProba([]dataset.Value{1, "a"})
	if err != nil {
		t.Fatalf("PredictProba: %v", err)
	}
	if len(scores) != 2 || scores[0].Class != "yes" || scores[1].Class != "no" {
		t.Fatalf("scores = %v", scores)
	}
	if !almostEqual(scores[0].Probability, 1) || scores[1].Probability != 0 {
		t.Errorf("scores = %v, want yes=1 no=0", scores)
	}

	m, err = NaiveBayesLearner(toyDataset(t))
	if err != nil {
		t.Fatal(err)
	}
	scores, err = m.PredictProba([]dataset.Value{2, "b"})
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for _, s := range scores {
		sum += s.Probability
	}
	if !almostEqual(sum, 1) {
		t.Errorf("posteriors sum to %v", sum)
	}
}

func TestPredictProbaMatchesDirectProduct(t *testing.T) {
	m, err := NaiveBayesLearner(toyDataset(t))
	if err != nil {
		t.Fatal(err)
	}
	sample := []dataset.Value{2, "a"}

	joint := make([]float64, 0, 2)
	for _, class := range m.Classes() {
		prior, _ := m.ClassPrior().Peek(class)
		factors := []float64{prior}
		for _, attr := range m.Inputs() {
			cond, err := m.Conditional(attr, class)
			if err != nil {
				t.Fatal(err)
			}
			p, _ := cond.Peek(sample[attr])
			factors = append(factors, p)
		}
		joint = append(joint, utils.Product(factors))
	}
	evidence := joint[0] + joint[1]

	scores, err := m.PredictProba(sample)
	if err != nil {
		t.Fatal(err)
	}
	for i, s := range scores {
		if !almostEqual(s.Probability, joint[i]/evidence) {
			t.Errorf("%v: posterior %v, want %v", s.Class, s.Probability, joint[i]/evidence)
		}
	}
}

func TestNaiveBayesLearnerErrors(t *testing.T) {
	if _, err := NaiveBayesLearner(toyDataset(t), WithSmoothing(-0.1)); !errors.Is(err, ErrInvalidSmoothing) {
		t.Errorf("negative smoothing: got %v", err)
	}

	empty, err := dataset.New(nil, dataset.WithAttrs([]int{0, 1}))
	if err != nil {
		t.Fatalf("dataset.New: %v", err)
	}
	if _, err := NaiveBayesLearner(empty); !errors.Is(err, ErrEmptyData) {
		t.Errorf("empty target domain: got %v", err)
	}

	m, err := NaiveBayesLearner(toyDataset(t))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Conditional(2, "yes"); !errors.Is(err, ErrInvalidAttribute) {
		t.Errorf("target as conditional attr: got %v", err)
	}
	if _, err := m.Conditional(0, "maybe"); !errors.Is(err, ErrUnknownClass) {
		t.Errorf("unknown class: got %v", err)
	}
}

func TestPredictBatchAndEvaluate(t *testing.T) {
	ds := toyDataset(t)
	m, err := NaiveBayesLearner(ds, WithSmoothing(0), WithConcurrency(2))
	if err != nil {
		t.Fatal(err)
	}

	samples := make([][]dataset.Value, 0, 60)
	want := make([]dataset.Value, 0, 60)
	for range 20 {
		samples = append(samples, []dataset.Value{1, "a"}, []dataset.Value{2, "b"}, []dataset.Value{1, "b"})
		want = append(want, "yes", "no", "yes")
	}
	got, err := m.PredictBatch(context.Background(), samples)
	if err != nil {
		t.Fatalf("PredictBatch: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PredictBatch = %v", got)
	}

	acc, err := Evaluate(context.Background(), m, ds)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if acc != 1 {
		t.Errorf("accuracy = %v, want 1", acc)
	}

	if _, err := m.PredictBatch(context.Background(), [][]dataset.Value{{1, "a"}, {1}}); !errors.Is(err, ErrSampleTooShort) {
		t.Errorf("batch with short sample: got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.PredictBatch(ctx, samples); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled batch: got %v", err)
	}
}

func TestNaiveBayesMetrics(t *testing.T) {
	reg := metrics.NewMetrics("naivebayes-test")
	m, err := NaiveBayesLearner(toyDataset(t), WithMetrics(reg))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Predict([]dataset.Value{1, "a"}); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Predict(nil); err == nil {
		t.Fatal("expected error for empty sample")
	}

	if v := testutil.ToFloat64(reg.TrainingsTotal.WithLabelValues("toy", "ok")); v != 1 {
		t.Errorf("trainings ok = %v", v)
	}
	if v := testutil.ToFloat64(reg.TrainingExamples.WithLabelValues("toy")); v != 3 {
		t.Errorf("training examples = %v", v)
	}
	if v := testutil.ToFloat64(reg.PredictionsTotal.WithLabelValues("toy", "ok")); v != 1 {
		t.Errorf("predictions ok = %v", v)
	}
	if v := testutil.ToFloat64(reg.PredictionsTotal.WithLabelValues("toy", "error")); v != 1 {
		t.Errorf("predictions error = %v", v)
	}
}
