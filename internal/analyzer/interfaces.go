package analyzer

import (
	"image"
	"time"

	"go-teeth-classifier/pkg/models"
)

// ImageAnalyzer runs the full decode, preprocess, classify and decode-result
// chain for one uploaded image.
type ImageAnalyzer interface {
	Analyze(data []byte) (AnalysisResult, error)

	// Lifecycle management
	Close() error
}

// TensorPreprocessor converts a decoded image into a classifier input.
type TensorPreprocessor interface {
	Preprocess(img image.Image) (models.Tensor, error)
}

// AnalysisResult is the outcome of one successful analysis.
type AnalysisResult struct {
	Image          models.ImageMetadata
	Prediction     models.PredictionResult
	ProcessingTime time.Duration
}
