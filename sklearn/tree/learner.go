package tree

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/treeboost/core/model"
)

// Learner trains decision trees on weighted samples. It implements
// model.WeakLearner so the boosting learners can use it directly.
type Learner struct {
	task    Task
	builder *Builder
}

var (
	_ model.WeakLearner        = (*Learner)(nil)
	_ model.ProbabilisticModel = (*Tree)(nil)
	_ model.ImportanceReporter = (*Tree)(nil)
)

// NewClassificationTreeLearner returns a Learner producing classification
// trees. Options are validated here so a bad configuration fails before any
// training starts.
func NewClassificationTreeLearner(opts ...Option) (*Learner, error) {
	return newLearner(Classification, opts)
}

// NewRegressionTreeLearner returns a Learner producing regression trees.
func NewRegressionTreeLearner(opts ...Option) (*Learner, error) {
	return newLearner(Regression, opts)
}

// NewStumpLearner returns a Learner producing depth-1 trees.
func NewStumpLearner(task Task, opts ...Option) (*Learner, error) {
	return newLearner(task, append(opts, WithMaxDepth(1)))
}

func newLearner(task Task, opts []Option) (*Learner, error) {
	p := defaultParams(task)
	for _, opt := range opts {
		opt(&p)
	}
	cfg, err := p.builderConfig(task)
	if err != nil {
		return nil, err
	}
	b, err := NewBuilder(cfg)
	if err != nil {
		return nil, err
	}
	return &Learner{task: task, builder: b}, nil
}

// Task returns the kind of tree the learner builds.
func (l *Learner) Task() Task {
	return l.task
}

// FitTree builds a tree on (X, y, w). An empty w means unweighted.
func (l *Learner) FitTree(X mat.Matrix, y, w []float64) (*Tree, error) {
	return l.builder.Build(X, y, w)
}

// Fit implements model.WeakLearner.
func (l *Learner) Fit(X mat.Matrix, y, w []float64) (model.WeakModel, error) {
	t, err := l.FitTree(X, y, w)
	if err != nil {
		return nil, err
	}
	return t, nil
}
