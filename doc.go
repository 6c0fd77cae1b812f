// Package treeboost provides decision tree induction and AdaBoost ensembles
// for Go, with a scikit-learn-like API built on gonum matrices.
//
// The core is a tree builder that grows binary trees over an index arena by
// scanning every feature for the split with the largest information gain,
// and two boosting learners that train weighted sequences of such trees:
// SAMME for classification and AdaBoost.R2 for regression.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/treeboost/sklearn/ensemble"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
//	    y := []float64{0, 0, 1, 1}
//
//	    learner, err := ensemble.NewClassificationBoostingLearner(
//	        ensemble.WithRounds(10),
//	        ensemble.WithMaximumTreeDepth(1),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    model, err := learner.Learn(X, y)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    preds, _ := model.Predict(X)
//	    fmt.Println(preds, model.Rounds())
//	}
//
// # Packages
//
//   - sklearn/tree: tree builder, weak-learner facade, DecisionTreeClassifier and DecisionTreeRegressor
//   - sklearn/tree/criterion: Gini, entropy and variance impurity
//   - sklearn/tree/splitter: linear split search over a sorted feature
//   - sklearn/ensemble: boosting learners, ensemble models and learning curves
//   - core/interval: half-open index ranges
//   - core/model: capability interfaces and fitted-state management
//   - core/parallel: row-parallel worker fan-out
//   - metrics: accuracy, classification error, MSE and R²
//   - pkg/errors: error taxonomy, warnings and panic recovery
//   - pkg/log: structured logging backed by zerolog
//
// # Logging
//
// Library code logs through pkg/log. Call log.SetupLogger("debug") to see a
// JSON record for every tree and boosting round.
package treeboost
