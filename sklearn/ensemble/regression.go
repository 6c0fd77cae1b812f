package ensemble

import (
	"context"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/treeboost/metrics"
	"github.com/YuminosukeSato/treeboost/pkg/errors"
	"github.com/YuminosukeSato/treeboost/pkg/log"
	"github.com/YuminosukeSato/treeboost/sklearn/tree"
)

const regressionLearnerName = "RegressionBoostingLearner"

// regressionErrorThreshold is the weighted loss at which an AdaBoost.R2 round
// is discarded.
const regressionErrorThreshold = 0.5

// Loss maps a sample's normalized absolute error to its AdaBoost.R2 loss.
type Loss int

const (
	// LinearLoss uses the normalized error as is.
	LinearLoss Loss = iota
	// SquareLoss squares the normalized error.
	SquareLoss
	// ExponentialLoss uses 1 - exp(-error).
	ExponentialLoss
)

func (l Loss) String() string {
	switch l {
	case LinearLoss:
		return "linear"
	case SquareLoss:
		return "square"
	case ExponentialLoss:
		return "exponential"
	default:
		return "unknown"
	}
}

func (l Loss) valid() bool {
	return l >= LinearLoss && l <= ExponentialLoss
}

// ParseLoss resolves a loss from its name.
func ParseLoss(name string) (Loss, error) {
	switch strings.ToLower(name) {
	case "linear":
		return LinearLoss, nil
	case "square":
		return SquareLoss, nil
	case "exponential":
		return ExponentialLoss, nil
	default:
		return 0, errors.NewInvalidArgumentError("loss", "must be linear, square or exponential", name)
	}
}

func (l Loss) apply(normalized float64) float64 {
	switch l {
	case SquareLoss:
		return normalized * normalized
	case ExponentialLoss:
		return 1 - math.Exp(-normalized)
	default:
		return normalized
	}
}

// RegressionBoostingLearner trains an AdaBoost.R2 ensemble of weak regressors.
//
// Each round scales the absolute errors of the weak model by their maximum,
// maps them through the loss and sums them under the sample weights into e.
// A round with e >= 0.5 is discarded and boosting stops. Otherwise, with
// beta = e/(1-e), the round gets vote weight learningRate*ln(1/beta) and every
// sample weight is multiplied by beta^((1-loss)*learningRate).
type RegressionBoostingLearner struct {
	cfg config
}

// NewRegressionBoostingLearner validates opts and returns a learner. The
// default weak learner is a regression tree of depth 3.
func NewRegressionBoostingLearner(opts ...Option) (*RegressionBoostingLearner, error) {
	cfg, err := newConfig(tree.Regression, "ensemble.regression", opts)
	if err != nil {
		return nil, err
	}
	return &RegressionBoostingLearner{cfg: cfg}, nil
}

// Learn runs the boosting rounds on X (one row per observation) and the
// targets y.
func (l *RegressionBoostingLearner) Learn(X mat.Matrix, y []float64) (m *RegressionEnsembleModel, err error) {
	const op = regressionLearnerName + ".Learn"
	defer errors.Recover(&err, op)

	rows, cols, err := validateInput(op, X, y)
	if err != nil {
		return nil, err
	}

	m = &RegressionEnsembleModel{
		ensemble: ensemble{nFeatures: cols},
		loss:     l.cfg.loss,
	}
	logger := l.cfg.logger.With(log.ModelNameKey, regressionLearnerName)
	lr := l.cfg.learningRate

	// アンサンブル予測の分子（alpha 加重和）と分母
	numerator := make([]float64, rows)
	alphaSum := 0.0

	state := newBoostState(rows)
	for state.round < l.cfg.rounds {
		weak, err := l.cfg.learner.Fit(X, y, state.weights)
		if err != nil {
			return nil, errors.NewWeakLearnerFitError(regressionLearnerName, state.round, err)
		}
		preds, err := predictWeak(regressionLearnerName, state.round, weak, X, rows)
		if err != nil {
			return nil, err
		}

		losses := make([]float64, rows)
		for i, p := range preds {
			losses[i] = math.Abs(y[i] - p)
		}
		if maxErr := floats.Max(losses); maxErr > 0 {
			for i := range losses {
				losses[i] = l.cfg.loss.apply(losses[i] / maxErr)
			}
		}
		e := floats.Dot(state.weights, losses)

		if e >= regressionErrorThreshold-errorTolerance {
			errors.Warn(errors.NewEarlyStoppingWarning(regressionLearnerName, state.round, l.cfg.rounds, e, regressionErrorThreshold))
			logger.Debug("weak model discarded",
				log.RoundKey, state.round,
				log.WeightedErrorKey, e,
			)
			break
		}

		clamped := math.Max(e, Epsilon)
		beta := clamped / (1 - clamped)
		alpha := lr * math.Log(1/beta)
		if err := errors.CheckScalar(op, alpha, state.round); err != nil {
			return nil, err
		}

		weights := make([]float64, rows)
		for i, loss := range losses {
			weights[i] = state.weights[i] * math.Pow(beta, (1-loss)*lr)
		}
		weights = normalize(weights)

		floats.AddScaled(numerator, alpha, preds)
		alphaSum += alpha
		ensemblePreds := make([]float64, rows)
		floats.ScaleTo(ensemblePreds, 1/alphaSum, numerator)
		mse, err := metrics.MSE(mat.NewVecDense(rows, y), mat.NewVecDense(rows, ensemblePreds))
		if err != nil {
			return nil, err
		}

		info := RoundInfo{
			Round:         state.round,
			Error:         e,
			Alpha:         alpha,
			EnsembleError: mse,
			Weights:       append([]float64(nil), weights...),
		}
		m.record(weak, info)
		if logger.Enabled(context.Background(), log.LevelDebug) {
			logger.Debug("boosting round",
				log.RoundKey, info.Round,
				log.WeightedErrorKey, info.Error,
				log.AlphaKey, info.Alpha,
				log.TrainingErrorKey, info.EnsembleError,
				log.LearningRateKey, lr,
			)
		}

		if !notify(l.cfg.callbacks, info) || e == 0 {
			break
		}
		state = state.next(weights)
	}

	if m.Rounds() == 0 {
		return nil, errors.NewUnableToLearnError(regressionLearnerName,
			"the weighted loss of the first weak model reached 0.5")
	}
	logger.Debug("boosting finished",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.RoundsKey, m.Rounds(),
	)
	return m, nil
}
