package analyzer

import (
	"fmt"
	"math"

	apperrors "go-teeth-classifier/internal/errors"
	"go-teeth-classifier/pkg/models"
)

// DecodeScores picks the highest score (lowest index wins ties) and reports
// it as a label and a percentage. Any vector whose length differs from
// models.NumClasses is a contract violation with the classifier.
func DecodeScores(scores []float32) (models.PredictionResult, error) {
	if len(scores) != models.NumClasses {
		return models.PredictionResult{}, apperrors.NewShapeMismatchError(models.NumClasses, len(scores))
	}

	for i, s := range scores {
		if math.IsNaN(float64(s)) || math.IsInf(float64(s), 0) {
			return models.PredictionResult{}, apperrors.NewInternalError(
				fmt.Sprintf("classifier returned a non-finite score at index %d", i), nil)
		}
	}

	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}

	label, err := models.LabelAt(best)
	if err != nil {
		return models.PredictionResult{}, apperrors.NewInternalError("label table out of sync", err)
	}

	labels := models.ClassLabels()
	probabilities := make([]models.ClassProbability, len(scores))
	for i, s := range scores {
		probabilities[i] = models.ClassProbability{Label: labels[i], Percent: float64(s) * 100}
	}

	return models.PredictionResult{
		Label:             label,
		ConfidencePercent: float64(scores[best]) * 100,
		Probabilities:     probabilities,
	}, nil
}
