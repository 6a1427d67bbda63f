package models

// Input geometry of the dental classifier.
const (
	InputSize     = 224
	InputChannels = 3
)

// Tensor is a single-sample batch in NHWC layout.
type Tensor struct {
	Shape [4]int
	Data  []float32
}

// NewInputTensor allocates a zeroed (1, InputSize, InputSize, InputChannels) tensor.
func NewInputTensor() Tensor {
	return Tensor{
		Shape: [4]int{1, InputSize, InputSize, InputChannels},
		Data:  make([]float32, InputSize*InputSize*InputChannels),
	}
}

// Len returns the number of elements the shape describes.
func (t Tensor) Len() int {
	n := 1
	for _, d := range t.Shape {
		n *= d
	}
	return n
}

// At returns the value at batch b, row y, column x, channel c.
func (t Tensor) At(b, y, x, c int) float32 {
	return t.Data[((b*t.Shape[1]+y)*t.Shape[2]+x)*t.Shape[3]+c]
}
