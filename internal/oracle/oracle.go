// Package oracle adapts trained image classifiers to a single synchronous
// Predict call. Implementations are loaded once and shared across requests.
package oracle

import (
	"fmt"

	"go-teeth-classifier/pkg/models"
)

// Oracle maps a preprocessed batch tensor to one score per class, in the
// order of models.ClassLabels.
type Oracle interface {
	Predict(input models.Tensor) ([]float32, error)
	Close() error
}

// Func adapts a plain function to the Oracle interface.
type Func func(input models.Tensor) ([]float32, error)

func (f Func) Predict(input models.Tensor) ([]float32, error) {
	return f(input)
}

func (f Func) Close() error {
	return nil
}

// Fixed returns an oracle that answers every call with a copy of scores.
func Fixed(scores ...float32) Oracle {
	return Func(func(models.Tensor) ([]float32, error) {
		out := make([]float32, len(scores))
		copy(out, scores)
		return out, nil
	})
}

// CheckInput verifies that input fills a model input of want values.
func CheckInput(input models.Tensor, want int) error {
	if len(input.Data) != want || input.Len() != want {
		return fmt.Errorf("input tensor has %d values (shape %v), model expects %d", len(input.Data), input.Shape, want)
	}
	return nil
}
