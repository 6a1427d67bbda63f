package loader

import (
	"context"
	"fmt"

	apperrors "go-teeth-classifier/internal/errors"
	"go-teeth-classifier/internal/observer"
	"go-teeth-classifier/internal/oracle"
	"go-teeth-classifier/internal/storage"
)

// SourceFactory resolves an artifact location to a source that can read it.
type SourceFactory interface {
	CreateSource(location string) (storage.ArtifactSource, error)
}

// OracleFactory builds a classifier for a backend from serialized model bytes.
type OracleFactory interface {
	CreateOracle(backend string, modelData []byte) (oracle.Oracle, error)
}

// ModelLoader fetches the classifier artifact and builds the oracle from it.
// Every failure is reported as a model load error.
type ModelLoader struct {
	sources SourceFactory
	oracles OracleFactory
	events  observer.Subject
}

// NewModelLoader creates a loader. events may be nil.
func NewModelLoader(sources SourceFactory, oracles OracleFactory, events observer.Subject) *ModelLoader {
	return &ModelLoader{sources: sources, oracles: oracles, events: events}
}

// Load reads the model at location and builds a backend classifier from it,
// publishing ModelLoaded or ModelLoadFailed.
func (l *ModelLoader) Load(ctx context.Context, location, backend string) (oracle.Oracle, error) {
	o, err := l.load(ctx, location, backend)
	if err != nil {
		l.notify(ctx, observer.PredictionEvent{
			EventType:    observer.ModelLoadFailed,
			ErrorType:    string(apperrors.ErrorTypeModelLoad),
			ErrorMessage: err.Error(),
			Metadata:     modelMetadata(location, backend),
		})
		return nil, err
	}

	l.notify(ctx, observer.PredictionEvent{
		EventType: observer.ModelLoaded,
		Success:   true,
		Metadata:  modelMetadata(location, backend),
	})
	return o, nil
}

func (l *ModelLoader) load(ctx context.Context, location, backend string) (oracle.Oracle, error) {
	source, err := l.sources.CreateSource(location)
	if err != nil {
		return nil, apperrors.NewModelLoadError(fmt.Sprintf("cannot resolve model location %s", location), err)
	}

	data, err := source.Fetch(ctx, location)
	if err != nil {
		return nil, apperrors.NewModelLoadError(fmt.Sprintf("cannot read model %s", location), err)
	}

	o, err := l.oracles.CreateOracle(backend, data)
	if err != nil {
		return nil, apperrors.NewModelLoadError(fmt.Sprintf("cannot load %s model %s", backend, location), err)
	}
	return o, nil
}

func (l *ModelLoader) notify(ctx context.Context, event observer.PredictionEvent) {
	if l.events != nil {
		l.events.NotifyObservers(ctx, event)
	}
}

func modelMetadata(location, backend string) map[string]interface{} {
	return map[string]interface{}{
		"model_path":    location,
		"model_backend": backend,
	}
}
