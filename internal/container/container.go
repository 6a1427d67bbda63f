package container

import (
	"context"
	"fmt"
	"net/http"

	"go-teeth-classifier/internal/analyzer"
	"go-teeth-classifier/internal/config"
	"go-teeth-classifier/internal/factory"
	"go-teeth-classifier/internal/loader"
	"go-teeth-classifier/internal/logger"
	"go-teeth-classifier/internal/observer"
	"go-teeth-classifier/internal/oracle"
	"go-teeth-classifier/internal/repository"
	"go-teeth-classifier/internal/service"
	"go-teeth-classifier/internal/storage"
	"go-teeth-classifier/internal/transport"
	"go-teeth-classifier/pkg/validation"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Container holds all application dependencies
type Container struct {
	config                *config.Config
	imageAnalyzer         analyzer.ImageAnalyzer
	classificationService service.ClassificationService
	publisher             *observer.EventPublisher
	handler               http.Handler
}

// NewContainer loads the classifier from cfg.ModelPath and wires the
// application around it. Any load failure is a model load error.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	components := factory.NewComponentFactory(cfg)
	publisher, metrics, err := newPublisher(cfg)
	if err != nil {
		return nil, err
	}

	modelLoader := loader.NewModelLoader(components.StorageFactory, components.OracleFactory, publisher)
	o, err := modelLoader.Load(ctx, cfg.ModelPath, cfg.ModelBackend)
	if err != nil {
		publisher.Wait()
		return nil, err
	}

	return build(cfg, o, publisher, metrics)
}

// NewContainerWithOracle wires the application around an already loaded classifier.
func NewContainerWithOracle(cfg *config.Config, o oracle.Oracle) (*Container, error) {
	publisher, metrics, err := newPublisher(cfg)
	if err != nil {
		return nil, err
	}
	return build(cfg, o, publisher, metrics)
}

// newPublisher sets up the event observers and, when enabled, the metrics endpoint.
func newPublisher(cfg *config.Config) (*observer.EventPublisher, http.Handler, error) {
	publisher := observer.NewEventPublisher()
	publisher.Subscribe(observer.NewLoggingObserver(logger.WithComponent("classifier")))

	if !cfg.MetricsEnabled {
		return publisher, nil, nil
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metricsObserver, err := observer.NewPrometheusObserver(registry)
	if err != nil {
		return nil, nil, err
	}
	publisher.Subscribe(metricsObserver)

	return publisher, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), nil
}

func build(cfg *config.Config, o oracle.Oracle, publisher *observer.EventPublisher, metrics http.Handler) (*Container, error) {
	imageAnalyzer, err := analyzer.NewImageAnalyzer(o, analyzer.DefaultOptions().
		WithInterpolation(cfg.Interpolation).
		WithMaxWorkers(cfg.Workers).
		WithMaxImagePixels(cfg.MaxImagePixels))
	if err != nil {
		return nil, fmt.Errorf("failed to create analyzer: %w", err)
	}

	catalog := repository.NewDefaultCatalog()
	classificationService := service.NewClassificationService(
		imageAnalyzer,
		catalog,
		validation.NewUploadValidator(cfg.MaxRequestBodySize),
		publisher,
		cfg.Workers,
	)

	assets := storage.NewAssetLoader(assetOptions(cfg), storage.NewHTTPSource(cfg.AssetFetchTimeout))
	handler := transport.NewHandler(classificationService, assets, cfg, metrics)

	return &Container{
		config:                cfg,
		imageAnalyzer:         imageAnalyzer,
		classificationService: classificationService,
		publisher:             publisher,
		handler:               handler,
	}, nil
}

// assetOptions drops asset URLs that do not validate; the loader then
// serves the fallback instead.
func assetOptions(cfg *config.Config) storage.AssetOptions {
	opts := storage.AssetOptions{
		AnimationPath:    cfg.AnimationPath,
		AnimationURL:     cfg.AnimationURL,
		FallbackImageURL: cfg.FallbackImageURL,
		CacheTTL:         cfg.AssetCacheTTL,
		FetchTimeout:     cfg.AssetFetchTimeout,
	}

	v := validation.NewURLValidator()
	log := logger.WithComponent("assets")
	if opts.AnimationURL != "" {
		if err := v.ValidateURL(opts.AnimationURL); err != nil {
			log.WithError(err).Warn("Ignoring invalid ANIMATION_URL")
			opts.AnimationURL = ""
		}
	}
	if opts.FallbackImageURL != "" {
		if err := v.ValidateURL(opts.FallbackImageURL); err != nil {
			log.WithError(err).Warn("Ignoring invalid FALLBACK_IMAGE_URL")
			opts.FallbackImageURL = ""
		}
	}
	return opts
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Service returns the classification service
func (c *Container) Service() service.ClassificationService {
	return c.classificationService
}

// Close releases the classifier and flushes pending events
func (c *Container) Close() error {
	err := c.imageAnalyzer.Close()
	c.publisher.Wait()
	return err
}
