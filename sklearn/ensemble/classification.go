package ensemble

import (
	"context"
	"math"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/treeboost/metrics"
	"github.com/YuminosukeSato/treeboost/pkg/errors"
	"github.com/YuminosukeSato/treeboost/pkg/log"
	"github.com/YuminosukeSato/treeboost/sklearn/tree"
)

const classificationLearnerName = "ClassificationBoostingLearner"

// ClassificationBoostingLearner trains a SAMME ensemble of weak classifiers.
//
// Each round fits the weak learner on the current sample weights and computes
// its weighted error e. A round with e >= 1-1/K (K classes) is discarded and
// boosting stops. Otherwise the round is recorded with vote weight
//
//	alpha = learningRate * (ln((1-e)/e) + ln(K-1))
//
// and the weights of misclassified samples are multiplied by exp(alpha).
// Boosting also stops after a perfect round.
type ClassificationBoostingLearner struct {
	cfg config
}

// NewClassificationBoostingLearner validates opts and returns a learner. The
// default weak learner is a classification tree of depth 3.
func NewClassificationBoostingLearner(opts ...Option) (*ClassificationBoostingLearner, error) {
	cfg, err := newConfig(tree.Classification, "ensemble.classification", opts)
	if err != nil {
		return nil, err
	}
	return &ClassificationBoostingLearner{cfg: cfg}, nil
}

// Learn runs the boosting rounds on X (one row per observation) and the
// class labels y.
func (l *ClassificationBoostingLearner) Learn(X mat.Matrix, y []float64) (m *ClassificationEnsembleModel, err error) {
	const op = classificationLearnerName + ".Learn"
	defer errors.Recover(&err, op)

	rows, cols, err := validateInput(op, X, y)
	if err != nil {
		return nil, err
	}
	classes := append([]float64(nil), y...)
	slices.Sort(classes)
	classes = slices.Compact(classes)
	k := len(classes)
	if k < 2 {
		return nil, errors.NewInvalidArgumentError("y", "at least two classes are required", k)
	}

	m = &ClassificationEnsembleModel{
		ensemble:   ensemble{nFeatures: cols},
		classes:    classes,
		classIndex: make(map[float64]int, k),
	}
	for i, c := range classes {
		m.classIndex[c] = i
	}

	logger := l.cfg.logger.With(log.ModelNameKey, classificationLearnerName)
	threshold := 1 - 1/float64(k)
	votes := mat.NewDense(rows, k, nil)

	state := newBoostState(rows)
	for state.round < l.cfg.rounds {
		weak, err := l.cfg.learner.Fit(X, y, state.weights)
		if err != nil {
			return nil, errors.NewWeakLearnerFitError(classificationLearnerName, state.round, err)
		}
		preds, err := predictWeak(classificationLearnerName, state.round, weak, X, rows)
		if err != nil {
			return nil, err
		}

		e := 0.0
		for i, p := range preds {
			if p != y[i] {
				e += state.weights[i]
			}
		}
		if e >= threshold-errorTolerance {
			l.stopEarly(logger, state.round, e, threshold)
			break
		}

		clamped := math.Max(e, Epsilon)
		alpha := l.cfg.learningRate * (errors.StabilizeLog((1-clamped)/clamped) + math.Log(float64(k-1)))
		if err := errors.CheckScalar(op, alpha, state.round); err != nil {
			return nil, err
		}

		// 誤分類したサンプルの重みを exp(alpha) 倍する
		factor := errors.StabilizeExp(alpha)
		weights := make([]float64, rows)
		for i, p := range preds {
			weights[i] = state.weights[i]
			if p != y[i] {
				weights[i] *= factor
			}
			if c, ok := m.classIndex[p]; ok {
				votes.Set(i, c, votes.At(i, c)+alpha)
			}
		}
		weights = normalize(weights)

		trainingError, err := m.trainingError(votes, y)
		if err != nil {
			return nil, err
		}
		info := RoundInfo{
			Round:         state.round,
			Error:         e,
			Alpha:         alpha,
			EnsembleError: trainingError,
			Weights:       append([]float64(nil), weights...),
		}
		m.record(weak, info)
		l.logRound(logger, info)

		if !notify(l.cfg.callbacks, info) || e == 0 {
			break
		}
		state = state.next(weights)
	}

	if m.Rounds() == 0 {
		return nil, errors.NewUnableToLearnError(classificationLearnerName,
			"the first weak model did no better than chance")
	}
	logger.Debug("boosting finished",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.ClassesKey, k,
		log.RoundsKey, m.Rounds(),
	)
	return m, nil
}

// trainingError is the misclassification rate of the current votes on y.
func (m *ClassificationEnsembleModel) trainingError(votes *mat.Dense, y []float64) (float64, error) {
	preds := make([]float64, len(y))
	for i := range preds {
		preds[i] = m.classes[argMax(votes.RawRowView(i))]
	}
	return metrics.ClassificationError(mat.NewVecDense(len(y), y), mat.NewVecDense(len(preds), preds))
}

func (l *ClassificationBoostingLearner) stopEarly(logger log.Logger, round int, e, threshold float64) {
	errors.Warn(errors.NewEarlyStoppingWarning(classificationLearnerName, round, l.cfg.rounds, e, threshold))
	logger.Debug("weak model discarded",
		log.RoundKey, round,
		log.WeightedErrorKey, e,
	)
}

func (l *ClassificationBoostingLearner) logRound(logger log.Logger, info RoundInfo) {
	if !logger.Enabled(context.Background(), log.LevelDebug) {
		return
	}
	logger.Debug("boosting round",
		log.RoundKey, info.Round,
		log.WeightedErrorKey, info.Error,
		log.AlphaKey, info.Alpha,
		log.TrainingErrorKey, info.EnsembleError,
		log.LearningRateKey, l.cfg.learningRate,
	)
}

// notify calls every callback and reports whether boosting may continue.
func notify(callbacks []RoundCallback, info RoundInfo) bool {
	proceed := true
	for _, cb := range callbacks {
		if !cb(info) {
			proceed = false
		}
	}
	return proceed
}
