// Package interval provides the half-open index range used to address a
// node's samples inside a tree's index arena.
package interval

import (
	"fmt"

	"github.com/YuminosukeSato/treeboost/pkg/errors"
)

// Interval is the half-open range [FromInclusive, ToExclusive).
type Interval struct {
	FromInclusive int
	ToExclusive   int
}

// New returns the interval [from, to). It fails when a bound is negative or
// from exceeds to. An empty interval (from == to) is valid to construct.
func New(from, to int) (Interval, error) {
	if from < 0 || to < 0 {
		return Interval{}, errors.NewInvalidIntervalError(from, to, "bounds must be non-negative")
	}
	if from > to {
		return Interval{}, errors.NewInvalidIntervalError(from, to, "from must not exceed to")
	}
	return Interval{FromInclusive: from, ToExclusive: to}, nil
}

// Must is like New but panics on invalid bounds.
func Must(from, to int) Interval {
	iv, err := New(from, to)
	if err != nil {
		panic(err)
	}
	return iv
}

// Length returns the number of indices covered.
func (iv Interval) Length() int {
	return iv.ToExclusive - iv.FromInclusive
}

// Empty reports whether the interval covers no indices.
func (iv Interval) Empty() bool {
	return iv.Length() == 0
}

// Split cuts the interval at index at, returning [from, at) and [at, to).
func (iv Interval) Split(at int) (Interval, Interval, error) {
	if at < iv.FromInclusive || at > iv.ToExclusive {
		return Interval{}, Interval{}, errors.NewInvalidIntervalError(iv.FromInclusive, iv.ToExclusive,
			fmt.Sprintf("split index %d out of range", at))
	}
	return Interval{iv.FromInclusive, at}, Interval{at, iv.ToExclusive}, nil
}

// Check reports an InvalidIntervalError when the interval is empty or does
// not fit in a buffer of length n.
func (iv Interval) Check(n int) error {
	if iv.FromInclusive < 0 || iv.FromInclusive > iv.ToExclusive {
		return errors.NewInvalidIntervalError(iv.FromInclusive, iv.ToExclusive, "malformed interval")
	}
	if iv.Empty() {
		return errors.NewInvalidIntervalError(iv.FromInclusive, iv.ToExclusive, "interval is empty")
	}
	if iv.ToExclusive > n {
		return errors.NewInvalidIntervalError(iv.FromInclusive, iv.ToExclusive,
			fmt.Sprintf("interval exceeds buffer length %d", n))
	}
	return nil
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%d, %d)", iv.FromInclusive, iv.ToExclusive)
}
