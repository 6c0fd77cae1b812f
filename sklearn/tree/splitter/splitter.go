// Package splitter finds the best threshold split of one feature column.
package splitter

import (
	"github.com/YuminosukeSato/treeboost/core/interval"
	"github.com/YuminosukeSato/treeboost/pkg/errors"
	"github.com/YuminosukeSato/treeboost/sklearn/tree/criterion"
)

// FeatureSplit sends a sample left when x[FeatureIndex] <= Threshold.
type FeatureSplit struct {
	Threshold    float64
	FeatureIndex int
}

// IntervalEntropy caches the impurity of a sub-range.
type IntervalEntropy struct {
	Interval interval.Interval
	Entropy  float64
}

// FindSplitResult is the best split found so far. BestSplitIndex is the
// absolute arena index where the right child begins. A gain <= 0 means no
// improving split was found.
type FindSplitResult struct {
	BestSplitIndex       int
	BestInformationGain  float64
	BestFeatureSplit     FeatureSplit
	LeftIntervalEntropy  IntervalEntropy
	RightIntervalEntropy IntervalEntropy
}

// Found reports whether the result describes an improving split.
func (r FindSplitResult) Found() bool {
	return r.BestInformationGain > 0
}

// NoSplit returns the seed result for the first feature searched at a node.
func NoSplit() FindSplitResult {
	return FindSplitResult{BestSplitIndex: -1, BestFeatureSplit: FeatureSplit{FeatureIndex: -1}}
}

// Searcher finds the best split of a single, already sorted feature column.
type Searcher interface {
	FindBestSplit(currentBest FindSplitResult, featureIndex int, feature, targets, weights []float64,
		metric criterion.EntropyMetric, parentInterval interval.Interval, parentEntropy float64) (FindSplitResult, error)
}

// LinearSearcher scans every boundary of the parent interval once.
type LinearSearcher struct {
	minimumSplitSize int
}

// NewLinearSearcher returns a searcher rejecting children with fewer than
// minimumSplitSize samples.
func NewLinearSearcher(minimumSplitSize int) (*LinearSearcher, error) {
	if minimumSplitSize <= 0 {
		return nil, errors.NewInvalidArgumentError("minimumSplitSize", "must be larger than 0", minimumSplitSize)
	}
	return &LinearSearcher{minimumSplitSize: minimumSplitSize}, nil
}

// MinimumSplitSize returns the smallest child size the searcher accepts.
func (s *LinearSearcher) MinimumSplitSize() int {
	return s.minimumSplitSize
}

// FindBestSplit scans feature[parentInterval] left to right. feature, targets
// and weights must be jointly sorted by feature over the interval; an empty
// weights slice means unweighted.
//
// A cut between j-1 and j is a candidate only when both the feature value and
// the target change there. The running best starts at currentBest, and a
// candidate replaces it only with a strictly larger gain, so the first
// maximal cut wins and currentBest is returned unchanged when nothing beats it.
func (s *LinearSearcher) FindBestSplit(currentBest FindSplitResult, featureIndex int, feature, targets, weights []float64,
	metric criterion.EntropyMetric, parentInterval interval.Interval, parentEntropy float64) (FindSplitResult, error) {
	if err := parentInterval.Check(len(feature)); err != nil {
		return currentBest, err
	}
	if err := parentInterval.Check(len(targets)); err != nil {
		return currentBest, err
	}
	weighted := len(weights) > 0
	if weighted {
		if err := parentInterval.Check(len(weights)); err != nil {
			return currentBest, err
		}
	}

	best := currentBest
	from, to := parentInterval.FromInclusive, parentInterval.ToExclusive

	var parentWeight float64
	if weighted {
		parentWeight = sum(weights, from, to)
	}

	prevValue := feature[from]
	prevTarget := targets[from]
	for j := from + 1; j < to; j++ {
		currentValue := feature[j]
		currentTarget := targets[j]

		if prevValue != currentValue && prevTarget != currentTarget {
			leftSize := j - from
			rightSize := to - j
			if min(leftSize, rightSize) >= s.minimumSplitSize {
				left := interval.Interval{FromInclusive: from, ToExclusive: j}
				right := interval.Interval{FromInclusive: j, ToExclusive: to}

				var leftEntropy, rightEntropy, leftRatio, rightRatio float64
				var err error
				if weighted {
					if leftEntropy, err = metric.WeightedEntropy(targets, weights, left); err != nil {
						return currentBest, err
					}
					if rightEntropy, err = metric.WeightedEntropy(targets, weights, right); err != nil {
						return currentBest, err
					}
					if parentWeight > 0 {
						leftRatio = sum(weights, from, j) / parentWeight
						rightRatio = sum(weights, j, to) / parentWeight
					}
				} else {
					if leftEntropy, err = metric.Entropy(targets, left); err != nil {
						return currentBest, err
					}
					if rightEntropy, err = metric.Entropy(targets, right); err != nil {
						return currentBest, err
					}
					lengthInv := 1.0 / float64(parentInterval.Length())
					leftRatio = float64(leftSize) * lengthInv
					rightRatio = float64(rightSize) * lengthInv
				}

				gain := parentEntropy - (leftRatio*leftEntropy + rightRatio*rightEntropy)
				if gain > best.BestInformationGain {
					best = FindSplitResult{
						BestSplitIndex:      j,
						BestInformationGain: gain,
						BestFeatureSplit: FeatureSplit{
							Threshold:    (currentValue + prevValue) * 0.5,
							FeatureIndex: featureIndex,
						},
						LeftIntervalEntropy:  IntervalEntropy{Interval: left, Entropy: leftEntropy},
						RightIntervalEntropy: IntervalEntropy{Interval: right, Entropy: rightEntropy},
					}
				}
			}
		}

		prevValue = currentValue
		prevTarget = currentTarget
	}
	return best, nil
}

func sum(xs []float64, from, to int) float64 {
	s := 0.0
	for _, x := range xs[from:to] {
		s += x
	}
	return s
}
