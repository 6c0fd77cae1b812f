package log

// Model and operation context.
const (
	// ModelNameKey identifies the learner or model type.
	// Examples: "DecisionTreeClassifier", "ClassificationBoostingLearner"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is logging.
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of the model lifecycle.
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
	ClassesKey  = "data.classes"
)

// Tree construction.
const (
	// TreeDepthKey records the maximum depth reached by a built tree.
	TreeDepthKey = "tree.depth"

	// TreeNodesKey records the number of nodes in a built tree.
	TreeNodesKey = "tree.nodes"

	// TreeLeavesKey records the number of leaves in a built tree.
	TreeLeavesKey = "tree.leaves"

	// FeatureIndexKey identifies the feature chosen for a split.
	FeatureIndexKey = "split.feature"

	// InformationGainKey records the gain of a chosen split.
	InformationGainKey = "split.information_gain"
)

// Boosting.
const (
	// RoundKey records the current boosting round (0-based).
	RoundKey = "boosting.round"

	// RoundsKey records the number of planned or completed rounds.
	RoundsKey = "boosting.rounds"

	// WeightedErrorKey records the weighted training error of a weak model.
	WeightedErrorKey = "boosting.weighted_error"

	// AlphaKey records the vote weight assigned to a weak model.
	AlphaKey = "boosting.alpha"

	// TrainingErrorKey records the training error of the ensemble so far.
	TrainingErrorKey = "boosting.training_error"

	// LearningRateKey records the shrinkage applied to vote weights.
	LearningRateKey = "hyperparams.learning_rate"
)

// Performance and error context.
const (
	DurationMsKey = "perf.duration_ms"
	AccuracyKey   = "metrics.accuracy"
	LossKey       = "metrics.loss"

	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// StacktraceKey contains the stack trace attached by cockroachdb/errors.
	StacktraceKey = "error.stacktrace"
)

// Standard attribute values.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationScore   = "score"

	PhaseTraining  = "training"
	PhaseInference = "inference"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorInvalidArgument   = "INVALID_ARGUMENT"
	ErrorUnableToLearn     = "UNABLE_TO_LEARN"
)
