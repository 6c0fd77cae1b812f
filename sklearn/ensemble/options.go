// Package ensemble implements AdaBoost over weighted weak learners: SAMME for
// classification and AdaBoost.R2 for regression. Both learners train a
// strictly sequential sequence of models, re-weighting the training samples
// after every round, and return an immutable ensemble model.
package ensemble

import (
	"math"

	"github.com/YuminosukeSato/treeboost/core/model"
	"github.com/YuminosukeSato/treeboost/pkg/errors"
	"github.com/YuminosukeSato/treeboost/pkg/log"
	"github.com/YuminosukeSato/treeboost/sklearn/tree"
)

const (
	// DefaultRounds is the number of boosting rounds used when WithRounds is not given.
	DefaultRounds = 50

	// DefaultLearningRate scales every vote weight.
	DefaultLearningRate = 1.0

	// DefaultMaximumTreeDepth is the depth of the default tree weak learner.
	DefaultMaximumTreeDepth = 3

	// DefaultMinimumSplitSize is the minimum child size of the default tree weak learner.
	DefaultMinimumSplitSize = 1
)

// config holds the options shared by both boosting learners.
type config struct {
	rounds                 int
	learningRate           float64
	maximumTreeDepth       int
	minimumSplitSize       int
	minimumInformationGain float64
	workers                int
	loss                   Loss
	learner                model.WeakLearner
	logger                 log.Logger
	callbacks              []RoundCallback
}

// Option configures a boosting learner.
type Option func(*config)

// WithRounds sets the maximum number of boosting rounds. Must be positive.
func WithRounds(rounds int) Option {
	return func(c *config) {
		c.rounds = rounds
	}
}

// WithLearningRate sets the shrinkage applied to every vote weight. Must be positive.
func WithLearningRate(rate float64) Option {
	return func(c *config) {
		c.learningRate = rate
	}
}

// WithMaximumTreeDepth sets the depth of the default tree weak learner.
// Ignored when WithWeakLearner is given.
func WithMaximumTreeDepth(depth int) Option {
	return func(c *config) {
		c.maximumTreeDepth = depth
	}
}

// WithMinimumSplitSize sets the minimum child size of the default tree weak
// learner. Ignored when WithWeakLearner is given.
func WithMinimumSplitSize(size int) Option {
	return func(c *config) {
		c.minimumSplitSize = size
	}
}

// WithMinimumInformationGain sets the smallest gain the default tree weak
// learner accepts for a split. Ignored when WithWeakLearner is given.
func WithMinimumInformationGain(gain float64) Option {
	return func(c *config) {
		c.minimumInformationGain = gain
	}
}

// WithWorkers bounds the split search and prediction parallelism of the
// default tree weak learner. 0 uses every core.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithLoss selects the AdaBoost.R2 loss. Only the regression learner uses it.
func WithLoss(loss Loss) Option {
	return func(c *config) {
		c.loss = loss
	}
}

// WithWeakLearner replaces the default decision tree weak learner.
func WithWeakLearner(learner model.WeakLearner) Option {
	return func(c *config) {
		c.learner = learner
	}
}

// WithLogger sets the logger used for round summaries.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithCallbacks registers functions observing every recorded round.
func WithCallbacks(callbacks ...RoundCallback) Option {
	return func(c *config) {
		c.callbacks = append(c.callbacks, callbacks...)
	}
}

func newConfig(task tree.Task, loggerName string, opts []Option) (config, error) {
	c := config{
		rounds:                 DefaultRounds,
		learningRate:           DefaultLearningRate,
		maximumTreeDepth:       DefaultMaximumTreeDepth,
		minimumSplitSize:       DefaultMinimumSplitSize,
		minimumInformationGain: tree.DefaultMinimumInformationGain,
		loss:                   LinearLoss,
	}
	for _, opt := range opts {
		opt(&c)
	}

	if c.rounds <= 0 {
		return config{}, errors.NewInvalidArgumentError("rounds", "must be at least 1", c.rounds)
	}
	if c.learningRate <= 0 || math.IsNaN(c.learningRate) || math.IsInf(c.learningRate, 0) {
		return config{}, errors.NewInvalidArgumentError("learningRate", "must be a positive finite number", c.learningRate)
	}
	if !c.loss.valid() {
		return config{}, errors.NewInvalidArgumentError("loss", "unknown loss", int(c.loss))
	}
	if c.logger == nil {
		c.logger = log.GetLoggerWithName(loggerName)
	}

	if c.learner == nil {
		treeOpts := []tree.Option{
			tree.WithMaxDepth(c.maximumTreeDepth),
			tree.WithMinSamplesLeaf(c.minimumSplitSize),
			tree.WithMinImpurityDecrease(c.minimumInformationGain),
			tree.WithNJobs(c.workers),
		}
		var (
			learner *tree.Learner
			err     error
		)
		if task == tree.Regression {
			learner, err = tree.NewRegressionTreeLearner(treeOpts...)
		} else {
			learner, err = tree.NewClassificationTreeLearner(treeOpts...)
		}
		if err != nil {
			return config{}, err
		}
		c.learner = learner
	}
	return c, nil
}
