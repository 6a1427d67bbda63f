package analyzer

import (
	"image"
	"image/color"
	"testing"

	"go-teeth-classifier/internal/strategy"
	"go-teeth-classifier/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPreprocessor(t *testing.T, name string) *Preprocessor {
	t.Helper()
	s, err := strategy.New(name)
	require.NoError(t, err)
	return NewPreprocessor(s)
}

func TestPreprocess_ShapeAndRange(t *testing.T) {
	sizes := [][2]int{{512, 512}, {1024, 300}, {17, 901}, {224, 224}, {1, 1}}

	for _, name := range strategy.Names() {
		p := newTestPreprocessor(t, name)
		for _, sz := range sizes {
			img, _, err := DecodeImage(encodeJPEG(t, createGradientImage(sz[0], sz[1])), DefaultMaxImagePixels)
			require.NoError(t, err)

			tensor, err := p.Preprocess(img)
			require.NoError(t, err)

			assert.Equal(t, [4]int{1, 224, 224, 3}, tensor.Shape, "%s %v", name, sz)
			require.Len(t, tensor.Data, 224*224*3)
			for _, v := range tensor.Data {
				if v < 0 || v > 1 {
					t.Fatalf("%s %v: value %f outside [0,1]", name, sz, v)
				}
			}
		}
	}
}

func TestPreprocess_ScalesBy255(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 80))
	for y := 0; y < 80; y++ {
		for x := 0; x < 50; x++ {
			img.SetRGBA(x, y, color.RGBA{255, 51, 0, 255})
		}
	}

	tensor, err := newTestPreprocessor(t, strategy.Bilinear).Preprocess(img)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, tensor.At(0, 10, 10, 0), 1e-6)
	assert.InDelta(t, 0.2, tensor.At(0, 10, 10, 1), 1e-6)
	assert.InDelta(t, 0.0, tensor.At(0, 10, 10, 2), 1e-6)
}

func TestPreprocess_ChannelOrderAndLayout(t *testing.T) {
	// Left half red, right half blue; no aspect-preserving padding.
	img := image.NewRGBA(image.Rect(0, 0, 448, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 448; x++ {
			c := color.RGBA{255, 0, 0, 255}
			if x >= 224 {
				c = color.RGBA{0, 0, 255, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}

	tensor, err := newTestPreprocessor(t, strategy.Nearest).Preprocess(img)
	require.NoError(t, err)

	assert.Equal(t, float32(1), tensor.At(0, 0, 10, 0))
	assert.Equal(t, float32(0), tensor.At(0, 0, 10, 2))
	assert.Equal(t, float32(0), tensor.At(0, 223, 200, 0))
	assert.Equal(t, float32(1), tensor.At(0, 223, 200, 2))
}

func TestPreprocess_Deterministic(t *testing.T) {
	data := encodeJPEG(t, createGradientImage(640, 480))
	p := newTestPreprocessor(t, strategy.Bilinear)

	var first models.Tensor
	for i := 0; i < 3; i++ {
		img, _, err := DecodeImage(data, DefaultMaxImagePixels)
		require.NoError(t, err)
		tensor, err := p.Preprocess(img)
		require.NoError(t, err)
		if i == 0 {
			first = tensor
			continue
		}
		assert.Equal(t, first.Data, tensor.Data)
	}
}

func TestPreprocess_EmptyImage(t *testing.T) {
	p := newTestPreprocessor(t, strategy.Bilinear)

	_, err := p.Preprocess(nil)
	assert.Error(t, err)

	_, err = p.Preprocess(image.NewRGBA(image.Rectangle{}))
	assert.Error(t, err)
}

func TestPreprocessor_Interpolation(t *testing.T) {
	assert.Equal(t, strategy.Lanczos3, newTestPreprocessor(t, strategy.Lanczos3).Interpolation())
}
