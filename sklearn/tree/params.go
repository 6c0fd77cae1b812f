package tree

import (
	"fmt"

	"github.com/YuminosukeSato/treeboost/pkg/errors"
	"github.com/YuminosukeSato/treeboost/pkg/log"
	"github.com/YuminosukeSato/treeboost/sklearn/tree/criterion"
)

// params holds the hyperparameters shared by the estimators and learners.
type params struct {
	criterion           string
	maxDepth            int // <= -1 means unlimited
	minSamplesSplit     int
	minSamplesLeaf      int
	minImpurityDecrease float64
	nJobs               int
	logger              log.Logger
}

// Option configures a tree estimator or learner.
type Option func(*params)

// WithCriterion sets the impurity criterion ("gini", "entropy" or "squared_error").
func WithCriterion(name string) Option {
	return func(p *params) {
		p.criterion = name
	}
}

// WithMaxDepth sets the maximum depth. -1 means unlimited.
func WithMaxDepth(depth int) Option {
	return func(p *params) {
		p.maxDepth = depth
	}
}

// WithMinSamplesSplit sets the minimum number of samples required to split a node.
func WithMinSamplesSplit(n int) Option {
	return func(p *params) {
		p.minSamplesSplit = n
	}
}

// WithMinSamplesLeaf sets the minimum number of samples in each child of a split.
func WithMinSamplesLeaf(n int) Option {
	return func(p *params) {
		p.minSamplesLeaf = n
	}
}

// WithMinImpurityDecrease sets the smallest information gain accepted for a split.
func WithMinImpurityDecrease(gain float64) Option {
	return func(p *params) {
		p.minImpurityDecrease = gain
	}
}

// WithNJobs sets the number of workers used for split search and prediction.
// 0 or -1 uses every core.
func WithNJobs(n int) Option {
	return func(p *params) {
		p.nJobs = n
	}
}

// WithLogger sets the logger used while building.
func WithLogger(logger log.Logger) Option {
	return func(p *params) {
		p.logger = logger
	}
}

func defaultParams(task Task) params {
	p := params{
		criterion:           "gini",
		maxDepth:            -1,
		minSamplesSplit:     2,
		minSamplesLeaf:      1,
		minImpurityDecrease: DefaultMinimumInformationGain,
	}
	if task == Regression {
		p.criterion = "squared_error"
	}
	return p
}

// builderConfig translates estimator parameters into a BuilderConfig.
func (p params) builderConfig(task Task) (BuilderConfig, error) {
	metric, err := criterion.ByName(p.criterion)
	if err != nil {
		return BuilderConfig{}, err
	}
	_, isVariance := metric.(criterion.Variance)
	if task == Classification && isVariance {
		return BuilderConfig{}, errors.NewInvalidArgumentError("criterion", "not a classification criterion", p.criterion)
	}
	if task == Regression && !isVariance {
		return BuilderConfig{}, errors.NewInvalidArgumentError("criterion", "not a regression criterion", p.criterion)
	}

	depth := p.maxDepth
	if depth < 0 {
		depth = unlimitedDepth
	}
	workers := p.nJobs
	if workers < 0 {
		workers = 0
	}
	return BuilderConfig{
		MaxDepth:               depth,
		MinimumSplitSize:       p.minSamplesLeaf,
		MinSamplesSplit:        p.minSamplesSplit,
		MinimumInformationGain: p.minImpurityDecrease,
		Metric:                 metric,
		Task:                   task,
		Workers:                workers,
		Logger:                 p.logger,
	}, nil
}

// GetParams returns the hyperparameters in scikit-learn naming.
func (p *params) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"criterion":             p.criterion,
		"max_depth":             p.maxDepth,
		"min_samples_split":     p.minSamplesSplit,
		"min_samples_leaf":      p.minSamplesLeaf,
		"min_impurity_decrease": p.minImpurityDecrease,
		"n_jobs":                p.nJobs,
	}
}

// SetParams updates hyperparameters from a scikit-learn style map.
// Unknown keys and values of the wrong type are rejected.
func (p *params) SetParams(values map[string]interface{}) error {
	next := *p
	for key, value := range values {
		switch key {
		case "criterion":
			s, ok := value.(string)
			if !ok {
				return errors.NewInvalidArgumentError(key, "must be a string", value)
			}
			next.criterion = s
		case "max_depth":
			if value == nil {
				next.maxDepth = -1
				continue
			}
			n, err := toInt(key, value)
			if err != nil {
				return err
			}
			next.maxDepth = n
		case "min_samples_split":
			n, err := toInt(key, value)
			if err != nil {
				return err
			}
			next.minSamplesSplit = n
		case "min_samples_leaf":
			n, err := toInt(key, value)
			if err != nil {
				return err
			}
			next.minSamplesLeaf = n
		case "min_impurity_decrease":
			f, err := toFloat(key, value)
			if err != nil {
				return err
			}
			next.minImpurityDecrease = f
		case "n_jobs":
			n, err := toInt(key, value)
			if err != nil {
				return err
			}
			next.nJobs = n
		default:
			return errors.NewInvalidArgumentError(key, "unknown parameter", value)
		}
	}
	*p = next
	return nil
}

func toInt(key string, value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, errors.NewInvalidArgumentError(key, "must be an integer", v)
		}
		return int(v), nil
	default:
		return 0, errors.NewInvalidArgumentError(key, fmt.Sprintf("unsupported type %T", value), value)
	}
}

func toFloat(key string, value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, errors.NewInvalidArgumentError(key, fmt.Sprintf("unsupported type %T", value), value)
	}
}
