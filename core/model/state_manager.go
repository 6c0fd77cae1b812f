package model

import (
	"sync"

	"github.com/YuminosukeSato/treeboost/pkg/errors"
)

// StateManager は推定器の学習状態と学習時の特徴量数を保持する
type StateManager struct {
	mu        sync.RWMutex
	modelName string
	fitted    bool
	nFeatures int
}

// NewStateManager creates a StateManager; modelName appears in NotFittedError.
func NewStateManager(modelName string) *StateManager {
	return &StateManager{modelName: modelName}
}

// IsFitted reports whether MarkFitted has been called.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fitted
}

// MarkFitted records a completed fit on nFeatures columns.
func (s *StateManager) MarkFitted(nFeatures int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = true
	s.nFeatures = nFeatures
}

// RequireFitted は未学習なら NotFittedError を返す
func (s *StateManager) RequireFitted(method string) error {
	if !s.IsFitted() {
		return errors.NewNotFittedError(s.modelName, method)
	}
	return nil
}

// RequireFeatures returns a DimensionMismatchError on axis 1 when nFeatures
// differs from the fitted column count.
func (s *StateManager) RequireFeatures(op string, nFeatures int) error {
	s.mu.RLock()
	expected := s.nFeatures
	s.mu.RUnlock()
	if nFeatures != expected {
		return errors.NewDimensionMismatchError(op, expected, nFeatures, 1)
	}
	return nil
}
