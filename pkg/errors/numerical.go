package errors

import (
	"math"
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// CheckNumericalStability returns a NumericalInstabilityError when values
// holds a NaN or an infinity.
func CheckNumericalStability(operation string, values []float64, iteration int) error {
	for _, v := range values {
		if !finite(v) {
			return NewNumericalInstabilityError(operation, values, iteration)
		}
	}
	return nil
}

// CheckScalar is CheckNumericalStability for one value, such as a vote weight.
func CheckScalar(operation string, value float64, iteration int) error {
	if finite(value) {
		return nil
	}
	return NewNumericalInstabilityError(operation, []float64{value}, iteration)
}

// CheckMatrix scans a rows×cols matrix row by row and reports the non-finite
// entries of the first row that has any.
func CheckMatrix(operation string, matrix interface{ At(int, int) float64 }, rows, cols, iteration int) error {
	for i := 0; i < rows; i++ {
		var bad []float64
		for j := 0; j < cols; j++ {
			if v := matrix.At(i, j); !finite(v) {
				bad = append(bad, v)
			}
		}
		if bad != nil {
			return NewNumericalInstabilityError(operation, bad, iteration)
		}
	}
	return nil
}

// 対数・指数の入力を有限な範囲に収める
const (
	minLogArgument = 1e-10
	maxExpArgument = 700.0
)

// StabilizeLog is math.Log with its argument floored at 1e-10.
func StabilizeLog(value float64) float64 {
	return math.Log(math.Max(value, minLogArgument))
}

// StabilizeExp is math.Exp with its argument clamped to ±700, which keeps the
// result finite.
func StabilizeExp(value float64) float64 {
	if value < -maxExpArgument {
		return 0
	}
	return math.Exp(math.Min(value, maxExpArgument))
}
