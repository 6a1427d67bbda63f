// Package onnx runs classifiers exported to the ONNX format.
package onnx

import (
	"fmt"
	"sync"

	"go-teeth-classifier/internal/logger"
	"go-teeth-classifier/internal/oracle"
	"go-teeth-classifier/pkg/models"

	ort "github.com/yalue/onnxruntime_go"
)

// Options configures the ONNX Runtime backend.
type Options struct {
	InputName         string
	OutputName        string
	SharedLibraryPath string
	Threads           int
}

var _ oracle.Oracle = (*Oracle)(nil)

// Oracle runs an ONNX classifier with preallocated input and output
// tensors. Calls are serialized because the tensors are shared.
type Oracle struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
}

// New creates a session from the serialized model bytes.
func New(modelData []byte, opts Options) (*Oracle, error) {
	if len(modelData) == 0 {
		return nil, fmt.Errorf("empty ONNX model")
	}
	if opts.SharedLibraryPath != "" {
		ort.SetSharedLibraryPath(opts.SharedLibraryPath)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
		}
	}

	outputSize := int64(models.NumClasses)
	if _, outputs, err := ort.GetInputOutputInfoWithONNXData(modelData); err == nil {
		for _, info := range outputs {
			if info.Name != opts.OutputName || len(info.Dimensions) == 0 {
				continue
			}
			if last := info.Dimensions[len(info.Dimensions)-1]; last > 0 {
				outputSize = last
			}
		}
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, models.InputSize, models.InputSize, models.InputChannels))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, outputSize))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	sessionOptions, err := ort.NewSessionOptions()
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	defer sessionOptions.Destroy()
	if opts.Threads > 0 {
		if err := sessionOptions.SetIntraOpNumThreads(opts.Threads); err != nil {
			inputTensor.Destroy()
			outputTensor.Destroy()
			return nil, fmt.Errorf("failed to set thread count: %w", err)
		}
	}

	session, err := ort.NewAdvancedSessionWithONNXData(modelData,
		[]string{opts.InputName}, []string{opts.OutputName},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		sessionOptions)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	logger.WithComponent("oracle").WithField("backend", "onnx").
		WithField("output_size", outputSize).
		Info("ONNX classifier loaded")

	return &Oracle{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
	}, nil
}

func (o *Oracle) Predict(input models.Tensor) ([]float32, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	dst := o.inputTensor.GetData()
	if err := oracle.CheckInput(input, len(dst)); err != nil {
		return nil, err
	}
	copy(dst, input.Data)

	if err := o.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	out := o.outputTensor.GetData()
	scores := make([]float32, len(out))
	copy(scores, out)
	return scores, nil
}

func (o *Oracle) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session != nil {
		o.session.Destroy()
		o.session = nil
	}
	if o.inputTensor != nil {
		o.inputTensor.Destroy()
		o.inputTensor = nil
	}
	if o.outputTensor != nil {
		o.outputTensor.Destroy()
		o.outputTensor = nil
	}
	return ort.DestroyEnvironment()
}
