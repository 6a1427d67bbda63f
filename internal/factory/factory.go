package factory

import (
	"fmt"
	"time"

	"go-teeth-classifier/internal/config"
	"go-teeth-classifier/internal/oracle"
	"go-teeth-classifier/internal/oracle/onnx"
	"go-teeth-classifier/internal/oracle/tflite"
	"go-teeth-classifier/internal/storage"
	"go-teeth-classifier/pkg/validation"
)

// modelDownloadTimeout bounds a remote model download over HTTP.
const modelDownloadTimeout = 5 * time.Minute

// OracleFactory creates classifier backends
type OracleFactory interface {
	CreateOracle(backend string, modelData []byte) (oracle.Oracle, error)
}

// StorageFactory creates artifact sources
type StorageFactory interface {
	CreateSource(location string) (storage.ArtifactSource, error)
}

// oracleFactory implements OracleFactory
type oracleFactory struct {
	cfg *config.Config
}

// NewOracleFactory creates a new oracle factory
func NewOracleFactory(cfg *config.Config) OracleFactory {
	return &oracleFactory{cfg: cfg}
}

// CreateOracle creates a classifier for the given backend from serialized model bytes
func (f *oracleFactory) CreateOracle(backend string, modelData []byte) (oracle.Oracle, error) {
	switch backend {
	case config.BackendONNX:
		return onnx.New(modelData, onnx.Options{
			InputName:         f.cfg.ModelInputName,
			OutputName:        f.cfg.ModelOutputName,
			SharedLibraryPath: f.cfg.ONNXRuntimeLib,
			Threads:           f.cfg.ModelThreads,
		})
	case config.BackendTFLite:
		return tflite.New(modelData, f.cfg.ModelThreads)
	default:
		return nil, fmt.Errorf("unsupported model backend: %s", backend)
	}
}

// storageFactory implements StorageFactory
type storageFactory struct {
	cfg       *config.Config
	validator *validation.URLValidator
}

// NewStorageFactory creates a new storage factory
func NewStorageFactory(cfg *config.Config) StorageFactory {
	return &storageFactory{
		cfg:       cfg,
		validator: validation.NewArtifactURLValidator(),
	}
}

// CreateSource picks the artifact source matching the location scheme
func (f *storageFactory) CreateSource(location string) (storage.ArtifactSource, error) {
	loc, err := storage.ParseLocation(location)
	if err != nil {
		return nil, err
	}
	if loc.Kind != storage.LocationFile {
		if err := f.validator.ValidateURL(loc.Raw); err != nil {
			return nil, err
		}
	}

	switch loc.Kind {
	case storage.LocationFile:
		return storage.NewFileSource(), nil
	case storage.LocationHTTP:
		return storage.NewHTTPSource(modelDownloadTimeout), nil
	case storage.LocationAzureBlob:
		return storage.NewAzureBlobSource(f.cfg.AzureAccountName, f.cfg.AzureAccountKey)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", loc.Kind)
	}
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	OracleFactory  OracleFactory
	StorageFactory StorageFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(cfg *config.Config) *ComponentFactory {
	return &ComponentFactory{
		OracleFactory:  NewOracleFactory(cfg),
		StorageFactory: NewStorageFactory(cfg),
	}
}
