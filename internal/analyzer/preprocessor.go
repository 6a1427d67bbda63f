package analyzer

import (
	"image"

	apperrors "go-teeth-classifier/internal/errors"
	"go-teeth-classifier/internal/strategy"
	"go-teeth-classifier/pkg/models"
)

// Preprocessor turns a decoded image into the classifier's input tensor.
type Preprocessor struct {
	resizer strategy.ResizeStrategy
}

// NewPreprocessor creates a preprocessor using the given resize strategy.
func NewPreprocessor(resizer strategy.ResizeStrategy) *Preprocessor {
	return &Preprocessor{resizer: resizer}
}

// Preprocess resizes img to InputSize x InputSize ignoring aspect ratio,
// scales intensities to [0,1] and lays them out as (1, H, W, 3).
func (p *Preprocessor) Preprocess(img image.Image) (models.Tensor, error) {
	if img == nil || img.Bounds().Empty() {
		return models.Tensor{}, apperrors.NewProcessingError("cannot preprocess an empty image", nil)
	}

	resized := p.resizer.Resize(img, models.InputSize, models.InputSize)

	tensor := models.NewInputTensor()
	i := 0
	for y := 0; y < models.InputSize; y++ {
		row := resized.Pix[y*resized.Stride:]
		for x := 0; x < models.InputSize; x++ {
			px := row[x*4 : x*4+3]
			tensor.Data[i] = float32(px[0]) / 255.0
			tensor.Data[i+1] = float32(px[1]) / 255.0
			tensor.Data[i+2] = float32(px[2]) / 255.0
			i += models.InputChannels
		}
	}
	return tensor, nil
}

// Interpolation reports the name of the resize strategy in use.
func (p *Preprocessor) Interpolation() string {
	return p.resizer.GetStrategyName()
}
