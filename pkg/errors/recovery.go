package errors

import (
	"fmt"
	"runtime/debug"
)

// PanicError is a recovered panic together with the stack at the point of
// recovery and the operation that deferred Recover.
type PanicError struct {
	PanicValue interface{}
	StackTrace string
	Operation  string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("treeboost: panic in %s: %v", e.Operation, e.PanicValue)
}

// NewPanicError captures the current stack.
func NewPanicError(operation string, panicValue interface{}) *PanicError {
	return &PanicError{
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Operation:  operation,
	}
}

// Recover turns a panic into *err. Deferred with a named error return:
//
//	func (l *ClassificationBoostingLearner) Learn(X mat.Matrix, y []float64) (m *ClassificationEnsembleModel, err error) {
//	    defer errors.Recover(&err, "ClassificationBoostingLearner.Learn")
//	    ...
//	}
//
// An error already stored in *err stays reachable through Is and As.
func Recover(err *error, operation string) {
	r := recover()
	if r == nil {
		return
	}
	if *err != nil {
		*err = fmt.Errorf("treeboost: panic in %s: %v (original error: %w)", operation, r, *err)
		return
	}
	*err = NewPanicError(operation, r)
}
