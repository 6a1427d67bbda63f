package analyzer

import (
	"fmt"
	"time"

	apperrors "go-teeth-classifier/internal/errors"
	"go-teeth-classifier/internal/oracle"
	"go-teeth-classifier/internal/strategy"
)

// coreAnalyzer implements ImageAnalyzer on top of a shared classifier
type coreAnalyzer struct {
	preprocessor TensorPreprocessor
	oracle       oracle.Oracle
	maxPixels    int
}

// NewImageAnalyzer creates an analyzer that feeds classifier o. The
// analyzer owns o and closes it on Close.
func NewImageAnalyzer(o oracle.Oracle, options AnalysisOptions) (ImageAnalyzer, error) {
	if o == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	resizer, err := strategy.New(options.Interpolation)
	if err != nil {
		return nil, err
	}
	return &coreAnalyzer{
		preprocessor: NewPreprocessor(resizer),
		oracle:       o,
		maxPixels:    options.MaxImagePixels,
	}, nil
}

// Analyze decodes data, classifies it and decodes the scores. No state is
// kept between calls, so a failed call does not affect the next one.
func (ca *coreAnalyzer) Analyze(data []byte) (AnalysisResult, error) {
	start := time.Now()

	img, meta, err := DecodeImage(data, ca.maxPixels)
	if err != nil {
		return AnalysisResult{}, err
	}

	tensor, err := ca.preprocessor.Preprocess(img)
	if err != nil {
		return AnalysisResult{}, err
	}

	scores, err := ca.oracle.Predict(tensor)
	if err != nil {
		return AnalysisResult{}, apperrors.NewInternalError("classifier failed", err)
	}

	prediction, err := DecodeScores(scores)
	if err != nil {
		return AnalysisResult{}, err
	}

	return AnalysisResult{
		Image:          meta,
		Prediction:     prediction,
		ProcessingTime: time.Since(start),
	}, nil
}

func (ca *coreAnalyzer) Close() error {
	return ca.oracle.Close()
}
