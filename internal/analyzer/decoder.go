package analyzer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	apperrors "go-teeth-classifier/internal/errors"
	"go-teeth-classifier/pkg/models"
)

var supportedContentTypes = map[string]string{
	"image/jpeg": "jpeg",
	"image/png":  "png",
}

// DefaultMaxImagePixels bounds width*height of an upload before it is decoded.
const DefaultMaxImagePixels = 40_000_000

// DecodeImage decodes a JPEG or PNG upload into an opaque RGB grid. Alpha is
// dropped without compositing and palettes are expanded. Images whose header
// declares more than maxPixels pixels are rejected before decoding; a
// non-positive maxPixels disables the check.
func DecodeImage(data []byte, maxPixels int) (*image.RGBA, models.ImageMetadata, error) {
	meta := models.ImageMetadata{ContentLength: int64(len(data))}
	if len(data) == 0 {
		return nil, meta, apperrors.NewDecodeError("uploaded file is empty", nil)
	}

	meta.ContentType = http.DetectContentType(data)
	if _, ok := supportedContentTypes[meta.ContentType]; !ok {
		return nil, meta, apperrors.NewDecodeError("unsupported image format, upload a JPEG or PNG", nil)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, meta, apperrors.NewDecodeError("could not decode image", err)
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, meta, apperrors.NewDecodeError(
			fmt.Sprintf("image is too large: %dx%d exceeds %d pixels", cfg.Width, cfg.Height, maxPixels), nil)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, meta, apperrors.NewDecodeError("could not decode image", err)
	}
	if format != supportedContentTypes[meta.ContentType] {
		return nil, meta, apperrors.NewDecodeError("image content does not match its format", nil)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, meta, apperrors.NewDecodeError("image has no pixels", nil)
	}

	meta.Format = format
	meta.Width = bounds.Dx()
	meta.Height = bounds.Dy()
	return toRGB(img), meta, nil
}

type opaquer interface {
	Opaque() bool
}

// toRGB copies img into a zero-origin RGBA with every alpha set to 255.
func toRGB(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	if o, ok := img.(opaquer); ok && o.Opaque() {
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
		return dst
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			dst.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}
	return dst
}
