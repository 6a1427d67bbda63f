package analyzer

import (
	"math"
	"testing"

	apperrors "go-teeth-classifier/internal/errors"
	"go-teeth-classifier/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeScores(t *testing.T) {
	tests := []struct {
		name       string
		scores     []float32
		label      models.ClassLabel
		confidence float64
	}{
		{"gum wins", []float32{0.1, 0.05, 0.6, 0.05, 0.05, 0.05, 0.1}, models.LabelGum, 60.0},
		{"tie breaks to first", []float32{0.5, 0.5, 0, 0, 0, 0, 0}, models.LabelCariesSuperficial, 50.0},
		{"last index", []float32{0, 0, 0, 0, 0, 0, 1}, models.LabelOther, 100.0},
		{"all zero", []float32{0, 0, 0, 0, 0, 0, 0}, models.LabelCariesSuperficial, 0},
		{"unnormalized", []float32{0.2, 0.9, 0.9, 0.1, 0, 0, 0.3}, models.LabelCompositeSuperficial, 90.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := DecodeScores(tt.scores)
			require.NoError(t, err)
			assert.Equal(t, tt.label, result.Label)
			assert.InDelta(t, tt.confidence, result.ConfidencePercent, 1e-4)

			require.Len(t, result.Probabilities, models.NumClasses)
			for i, p := range result.Probabilities {
				assert.Equal(t, models.ClassLabels()[i], p.Label)
				assert.InDelta(t, float64(tt.scores[i])*100, p.Percent, 1e-9)
			}
		})
	}
}

func TestDecodeScores_AlwaysKnownLabel(t *testing.T) {
	for i := 0; i < models.NumClasses; i++ {
		scores := make([]float32, models.NumClasses)
		scores[i] = 0.9
		result, err := DecodeScores(scores)
		require.NoError(t, err)
		_, ok := models.ParseClassLabel(string(result.Label))
		assert.True(t, ok)
		assert.Equal(t, models.ClassLabels()[i], result.Label)
	}
}

func TestDecodeScores_ShapeMismatch(t *testing.T) {
	for _, n := range []int{0, 1, 6, 8, 1000} {
		_, err := DecodeScores(make([]float32, n))
		require.Error(t, err, "length %d", n)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeShapeMismatch))
	}
}

func TestDecodeScores_NonFinite(t *testing.T) {
	tests := []struct {
		name   string
		scores []float32
	}{
		{"nan first", []float32{float32(math.NaN()), 0.1, 0.9, 0, 0, 0, 0}},
		{"nan later", []float32{0.1, 0.2, float32(math.NaN()), 0, 0, 0, 0}},
		{"positive inf", []float32{0, 0, 0, float32(math.Inf(1)), 0, 0, 0}},
		{"negative inf", []float32{0, 0, 0, 0, 0, 0, float32(math.Inf(-1))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeScores(tt.scores)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal), "got %v", err)
		})
	}
}
