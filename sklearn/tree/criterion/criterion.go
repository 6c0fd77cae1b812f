// Package criterion implements the impurity measures used to score candidate
// splits: Gini and Shannon entropy for classification targets and population
// variance for regression targets.
//
// Every metric works on a sub-range of a target buffer addressed by an
// interval.Interval, optionally weighted. An empty weight slice means all
// weights are 1.
package criterion

import (
	"math"
	"strings"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/treeboost/core/interval"
	"github.com/YuminosukeSato/treeboost/pkg/errors"
)

// EntropyMetric measures the impurity of targets[iv].
type EntropyMetric interface {
	// Entropy returns the unweighted impurity of targets[iv].
	Entropy(targets []float64, iv interval.Interval) (float64, error)

	// WeightedEntropy returns the impurity of targets[iv] weighted by
	// weights[iv]. An empty weights slice falls back to Entropy.
	WeightedEntropy(targets, weights []float64, iv interval.Interval) (float64, error)

	// Name returns the criterion name used in estimator parameters.
	Name() string
}

// ByName resolves a metric from its parameter name.
func ByName(name string) (EntropyMetric, error) {
	switch strings.ToLower(name) {
	case "gini":
		return Gini{}, nil
	case "entropy", "log_loss":
		return Entropy{}, nil
	case "variance", "mse", "squared_error":
		return Variance{}, nil
	default:
		return nil, errors.NewInvalidArgumentError("criterion", "unknown criterion", name)
	}
}

// Gini is the Gini impurity 1 - sum p_c^2.
type Gini struct{}

func (Gini) Name() string { return "gini" }

func (g Gini) Entropy(targets []float64, iv interval.Interval) (float64, error) {
	return g.WeightedEntropy(targets, nil, iv)
}

func (Gini) WeightedEntropy(targets, weights []float64, iv interval.Interval) (float64, error) {
	classes, total, err := classWeights(targets, weights, iv)
	if err != nil || len(classes) < 2 || total <= 0 {
		return 0, err
	}
	sum := 0.0
	for _, w := range classes {
		p := w / total
		sum += p * p
	}
	return math.Max(0, 1-sum), nil
}

// Entropy is the Shannon entropy -sum p_c log2 p_c.
type Entropy struct{}

func (Entropy) Name() string { return "entropy" }

func (e Entropy) Entropy(targets []float64, iv interval.Interval) (float64, error) {
	return e.WeightedEntropy(targets, nil, iv)
}

func (Entropy) WeightedEntropy(targets, weights []float64, iv interval.Interval) (float64, error) {
	classes, total, err := classWeights(targets, weights, iv)
	if err != nil || len(classes) < 2 || total <= 0 {
		return 0, err
	}
	sum := 0.0
	for _, w := range classes {
		if w <= 0 {
			continue
		}
		p := w / total
		sum -= p * math.Log2(p)
	}
	return math.Max(0, sum), nil
}

// Variance is the (weighted) population variance of the targets.
type Variance struct{}

func (Variance) Name() string { return "variance" }

func (v Variance) Entropy(targets []float64, iv interval.Interval) (float64, error) {
	return v.WeightedEntropy(targets, nil, iv)
}

func (Variance) WeightedEntropy(targets, weights []float64, iv interval.Interval) (float64, error) {
	if err := checkInputs(targets, weights, iv); err != nil {
		return 0, err
	}
	ys := targets[iv.FromInclusive:iv.ToExclusive]
	if constant(ys) {
		return 0, nil
	}
	var ws []float64
	if len(weights) > 0 {
		ws = weights[iv.FromInclusive:iv.ToExclusive]
		total := 0.0
		for _, w := range ws {
			total += w
		}
		if total <= 0 {
			return 0, nil
		}
	}
	_, variance := stat.PopMeanVariance(ys, ws)
	return math.Max(0, variance), nil
}

func checkInputs(targets, weights []float64, iv interval.Interval) error {
	if err := iv.Check(len(targets)); err != nil {
		return err
	}
	if len(weights) > 0 {
		return iv.Check(len(weights))
	}
	return nil
}

func constant(ys []float64) bool {
	for _, y := range ys[1:] {
		if y != ys[0] {
			return false
		}
	}
	return true
}

// classWeights sums the weight of each class in targets[iv]. The returned
// slice is ordered by ascending class label so the floating point summation
// order is fixed.
func classWeights(targets, weights []float64, iv interval.Interval) ([]float64, float64, error) {
	if err := checkInputs(targets, weights, iv); err != nil {
		return nil, 0, err
	}
	byClass := make(map[float64]float64)
	for i := iv.FromInclusive; i < iv.ToExclusive; i++ {
		w := 1.0
		if len(weights) > 0 {
			w = weights[i]
		}
		byClass[targets[i]] += w
	}

	labels := make([]float64, 0, len(byClass))
	for label := range byClass {
		labels = append(labels, label)
	}
	slices.Sort(labels)

	counts := make([]float64, len(labels))
	total := 0.0
	for i, label := range labels {
		counts[i] = byClass[label]
		total += counts[i]
	}
	return counts, total, nil
}
