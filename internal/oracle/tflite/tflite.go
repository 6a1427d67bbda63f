// Package tflite runs classifiers converted to TensorFlow Lite.
package tflite

import (
	"fmt"
	"runtime"
	"sync"

	"go-teeth-classifier/internal/logger"
	"go-teeth-classifier/internal/oracle"
	"go-teeth-classifier/pkg/models"

	tflite "github.com/tphakala/go-tflite"
)

var _ oracle.Oracle = (*Oracle)(nil)

// Oracle runs a TensorFlow Lite classifier. The interpreter is not
// safe for concurrent use, so calls are serialized.
type Oracle struct {
	mu          sync.Mutex
	model       *tflite.Model
	options     *tflite.InterpreterOptions
	interpreter *tflite.Interpreter
}

// New builds an interpreter from the serialized model bytes.
// threads <= 0 uses one thread per CPU.
func New(modelData []byte, threads int) (*Oracle, error) {
	if len(modelData) == 0 {
		return nil, fmt.Errorf("empty TFLite model")
	}
	model := tflite.NewModel(modelData)
	if model == nil {
		return nil, fmt.Errorf("cannot load TensorFlow Lite model")
	}

	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	log := logger.WithComponent("oracle").WithField("backend", "tflite")

	options := tflite.NewInterpreterOptions()
	options.SetNumThread(threads)
	options.SetErrorReporter(func(msg string, _ interface{}) {
		log.WithField("message", msg).Error("TFLite error")
	}, nil)

	interpreter := tflite.NewInterpreter(model, options)
	if interpreter == nil {
		options.Delete()
		model.Delete()
		return nil, fmt.Errorf("cannot create interpreter")
	}
	if status := interpreter.AllocateTensors(); status != tflite.OK {
		interpreter.Delete()
		options.Delete()
		model.Delete()
		return nil, fmt.Errorf("tensor allocation failed: %v", status)
	}

	log.WithField("threads", threads).Info("TFLite classifier loaded")

	return &Oracle{
		model:       model,
		options:     options,
		interpreter: interpreter,
	}, nil
}

func (o *Oracle) Predict(input models.Tensor) ([]float32, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	inputTensor := o.interpreter.GetInputTensor(0)
	if inputTensor == nil {
		return nil, fmt.Errorf("cannot get input tensor")
	}
	dst := inputTensor.Float32s()
	if err := oracle.CheckInput(input, len(dst)); err != nil {
		return nil, err
	}
	copy(dst, input.Data)

	if status := o.interpreter.Invoke(); status != tflite.OK {
		return nil, fmt.Errorf("tensor invoke failed: %v", status)
	}

	outputTensor := o.interpreter.GetOutputTensor(0)
	if outputTensor == nil {
		return nil, fmt.Errorf("cannot get output tensor")
	}
	size := outputTensor.Dim(outputTensor.NumDims() - 1)
	scores := make([]float32, size)
	copy(scores, outputTensor.Float32s())
	return scores, nil
}

func (o *Oracle) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.interpreter != nil {
		o.interpreter.Delete()
		o.interpreter = nil
	}
	if o.options != nil {
		o.options.Delete()
		o.options = nil
	}
	if o.model != nil {
		o.model.Delete()
		o.model = nil
	}
	return nil
}
