package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	apperrors "go-teeth-classifier/internal/errors"
	"go-teeth-classifier/internal/observer"
	"go-teeth-classifier/internal/oracle"
	"go-teeth-classifier/internal/storage"
	"go-teeth-classifier/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []observer.PredictionEvent
}

func (r *recordingObserver) OnEvent(_ context.Context, e observer.PredictionEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingObserver) GetObserverName() string { return "recording" }

func (r *recordingObserver) snapshot() []observer.PredictionEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]observer.PredictionEvent(nil), r.events...)
}

type sourceFunc func(ctx context.Context, location string) ([]byte, error)

func (f sourceFunc) Fetch(ctx context.Context, location string) ([]byte, error) {
	return f(ctx, location)
}

type stubSources struct {
	source storage.ArtifactSource
	err    error
}

func (s stubSources) CreateSource(string) (storage.ArtifactSource, error) {
	return s.source, s.err
}

type stubOracles struct {
	gotBackend string
	gotData    []byte
	err        error
}

func (s *stubOracles) CreateOracle(backend string, data []byte) (oracle.Oracle, error) {
	s.gotBackend, s.gotData = backend, data
	if s.err != nil {
		return nil, s.err
	}
	return oracle.Func(func(models.Tensor) ([]float32, error) {
		return make([]float32, models.NumClasses), nil
	}), nil
}

func newPublisher() (*observer.EventPublisher, *recordingObserver) {
	events := observer.NewEventPublisher()
	rec := &recordingObserver{}
	events.Subscribe(rec)
	return events, rec
}

func TestModelLoader_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teeth.onnx")
	require.NoError(t, os.WriteFile(path, []byte("model-bytes"), 0o600))

	events, rec := newPublisher()
	oracles := &stubOracles{}
	l := NewModelLoader(stubSources{source: storage.NewFileSource()}, oracles, events)

	o, err := l.Load(context.Background(), path, "onnx")
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, "onnx", oracles.gotBackend)
	assert.Equal(t, []byte("model-bytes"), oracles.gotData)

	events.Wait()
	got := rec.snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, observer.ModelLoaded, got[0].EventType)
	assert.True(t, got[0].Success)
	assert.Equal(t, path, got[0].Metadata["model_path"])
}

func TestModelLoader_Failures(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.onnx")

	tests := []struct {
		name    string
		sources stubSources
		oracles *stubOracles
	}{
		{
			name:    "unresolvable location",
			sources: stubSources{err: errors.New("unsupported scheme")},
			oracles: &stubOracles{},
		},
		{
			name:    "missing file",
			sources: stubSources{source: storage.NewFileSource()},
			oracles: &stubOracles{},
		},
		{
			name: "fetch failed",
			sources: stubSources{source: sourceFunc(func(context.Context, string) ([]byte, error) {
				return nil, errors.New("status code 503")
			})},
			oracles: &stubOracles{},
		},
		{
			name:    "backend rejects model",
			sources: stubSources{source: sourceFunc(func(context.Context, string) ([]byte, error) { return []byte("junk"), nil })},
			oracles: &stubOracles{err: errors.New("invalid model")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, rec := newPublisher()
			l := NewModelLoader(tt.sources, tt.oracles, events)

			o, err := l.Load(context.Background(), missing, "onnx")
			require.Error(t, err)
			assert.Nil(t, o)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeModelLoad), "got %v", err)

			events.Wait()
			got := rec.snapshot()
			require.Len(t, got, 1)
			assert.Equal(t, observer.ModelLoadFailed, got[0].EventType)
			assert.Equal(t, string(apperrors.ErrorTypeModelLoad), got[0].ErrorType)
			assert.Equal(t, err.Error(), got[0].ErrorMessage)
		})
	}
}

func TestModelLoader_NilEvents(t *testing.T) {
	l := NewModelLoader(stubSources{err: errors.New("nope")}, &stubOracles{}, nil)
	_, err := l.Load(context.Background(), "x.onnx", "onnx")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeModelLoad))
}
