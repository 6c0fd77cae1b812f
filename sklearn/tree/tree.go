package tree

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/treeboost/core/parallel"
	"github.com/YuminosukeSato/treeboost/pkg/errors"
)

// Task selects how leaves summarize their samples.
type Task int

const (
	// Classification leaves hold a class distribution and its arg-max label.
	Classification Task = iota
	// Regression leaves hold the weighted mean target.
	Regression
)

func (t Task) String() string {
	if t == Regression {
		return "regression"
	}
	return "classification"
}

// Node is one entry of a Tree's node arena. Internal nodes have Feature >= 0
// and valid Left/Right indices; leaves have Feature == -1.
type Node struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int

	// Value is the arg-max class for classification leaves and the weighted
	// mean for regression leaves. Internal nodes carry the same summary of
	// their samples.
	Value float64

	// Probabilities is the weighted class distribution, ordered like
	// Tree.Classes. Nil for regression trees.
	Probabilities []float64

	Impurity float64
	Weight   float64
	Samples  int
	Depth    int
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return n.Feature < 0
}

// Tree is a trained binary decision tree. The root is node 0. A Tree is never
// modified after Build returns and is safe for concurrent prediction.
type Tree struct {
	nodes       []Node
	task        Task
	classes     []float64
	nFeatures   int
	importances []float64
	depth       int
	leaves      int
	workers     int
}

// Task returns the task the tree was built for.
func (t *Tree) Task() Task {
	return t.task
}

// Nodes returns the node arena. Callers must not modify it.
func (t *Tree) Nodes() []Node {
	return t.nodes
}

// NodeCount returns the number of nodes.
func (t *Tree) NodeCount() int {
	return len(t.nodes)
}

// LeafCount returns the number of leaves.
func (t *Tree) LeafCount() int {
	return t.leaves
}

// Depth returns the depth of the deepest leaf. A single leaf has depth 0.
func (t *Tree) Depth() int {
	return t.depth
}

// NumFeatures returns the number of columns the tree was trained on.
func (t *Tree) NumFeatures() int {
	return t.nFeatures
}

// Classes returns the sorted class labels seen at the root, or nil for
// regression trees.
func (t *Tree) Classes() []float64 {
	if t.classes == nil {
		return nil
	}
	return append([]float64(nil), t.classes...)
}

// FeatureImportances returns the weighted impurity decrease per feature,
// normalized to sum to 1. All zeros when the tree is a single leaf.
func (t *Tree) FeatureImportances() []float64 {
	out := make([]float64, len(t.importances))
	total := 0.0
	for _, v := range t.importances {
		total += v
	}
	if total <= 0 {
		return out
	}
	for i, v := range t.importances {
		out[i] = v / total
	}
	return out
}

// Predict returns the leaf value reached by every row of X.
func (t *Tree) Predict(X mat.Matrix) ([]float64, error) {
	rows, err := t.checkInput("Tree.Predict", X)
	if err != nil {
		return nil, err
	}
	out := make([]float64, rows)
	t.forRows(rows, func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = t.leaf(X, i).Value
		}
	})
	return out, nil
}

// PredictProbability returns the leaf class distribution reached by every row
// of X. Columns follow Classes().
func (t *Tree) PredictProbability(X mat.Matrix) (*mat.Dense, error) {
	if t.task != Classification {
		return nil, errors.NewInvalidArgumentError("task", "probabilities require a classification tree", t.task.String())
	}
	rows, err := t.checkInput("Tree.PredictProbability", X)
	if err != nil {
		return nil, err
	}
	out := mat.NewDense(rows, len(t.classes), nil)
	t.forRows(rows, func(start, end int) {
		for i := start; i < end; i++ {
			out.SetRow(i, t.leaf(X, i).Probabilities)
		}
	})
	return out, nil
}

// Apply returns the index of the leaf reached by every row of X.
func (t *Tree) Apply(X mat.Matrix) ([]int, error) {
	rows, err := t.checkInput("Tree.Apply", X)
	if err != nil {
		return nil, err
	}
	out := make([]int, rows)
	for i := range out {
		out[i] = t.leafIndex(X, i)
	}
	return out, nil
}

func (t *Tree) checkInput(op string, X mat.Matrix) (int, error) {
	rows, cols := X.Dims()
	if cols != t.nFeatures {
		return 0, errors.NewDimensionMismatchError(op, t.nFeatures, cols, 1)
	}
	return rows, nil
}

func (t *Tree) forRows(rows int, fn func(start, end int)) {
	parallel.Run(rows, t.workers, fn)
}

func (t *Tree) leaf(X mat.Matrix, row int) *Node {
	return &t.nodes[t.leafIndex(X, row)]
}

func (t *Tree) leafIndex(X mat.Matrix, row int) int {
	i := 0
	for {
		n := &t.nodes[i]
		if n.IsLeaf() {
			return i
		}
		if X.At(row, n.Feature) <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}
