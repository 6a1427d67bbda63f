package strategy

import (
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// ResizeStrategy scales an image to exactly width x height. Aspect ratio is
// not preserved and no padding is added.
type ResizeStrategy interface {
	Resize(img image.Image, width, height int) *image.RGBA
	GetStrategyName() string
}

// Interpolation names accepted by New.
const (
	Bilinear   = "bilinear"
	CatmullRom = "catmullrom"
	Nearest    = "nearest"
	Lanczos3   = "lanczos3"
)

var strategies = map[string]func() ResizeStrategy{
	Bilinear:   func() ResizeStrategy { return &ScalerStrategy{name: Bilinear, scaler: draw.BiLinear} },
	CatmullRom: func() ResizeStrategy { return &ScalerStrategy{name: CatmullRom, scaler: draw.CatmullRom} },
	Nearest:    func() ResizeStrategy { return &ScalerStrategy{name: Nearest, scaler: draw.NearestNeighbor} },
	Lanczos3:   func() ResizeStrategy { return &LanczosStrategy{} },
}

// New returns the resize strategy registered under name.
func New(name string) (ResizeStrategy, error) {
	factory, ok := strategies[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unsupported interpolation %q (want one of %s)", name, strings.Join(Names(), ", "))
	}
	return factory(), nil
}

// Names lists the registered interpolation names in sorted order.
func Names() []string {
	names := make([]string, 0, len(strategies))
	for n := range strategies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ScalerStrategy resizes with one of the golang.org/x/image/draw kernels.
type ScalerStrategy struct {
	name   string
	scaler draw.Scaler
}

func (s *ScalerStrategy) Resize(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	s.scaler.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

func (s *ScalerStrategy) GetStrategyName() string {
	return s.name
}

// LanczosStrategy resizes with github.com/nfnt/resize's Lanczos3 filter.
type LanczosStrategy struct{}

func (s *LanczosStrategy) Resize(img image.Image, width, height int) *image.RGBA {
	resized := resize.Resize(uint(width), uint(height), img, resize.Lanczos3)
	if rgba, ok := resized.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), resized, resized.Bounds().Min, draw.Src)
	return dst
}

func (s *LanczosStrategy) GetStrategyName() string {
	return Lanczos3
}
