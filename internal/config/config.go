package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported classifier backends.
const (
	BackendONNX   = "onnx"
	BackendTFLite = "tflite"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	MaxRequestBodySize int64

	// Classifier artifact: local path, http(s) URL or azblob://container/blob.
	ModelPath       string
	ModelBackend    string
	ModelInputName  string
	ModelOutputName string
	ModelThreads    int
	ONNXRuntimeLib  string
	Interpolation   string
	MaxImagePixels  int

	AnimationPath     string
	AnimationURL      string
	FallbackImageURL  string
	AssetCacheTTL     time.Duration
	AssetFetchTimeout time.Duration

	AzureAccountName string
	AzureAccountKey  string

	LogLevel       string
	MetricsEnabled bool
	Workers        int
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// LoadFromEnv reads configuration from environment variables only.
func LoadFromEnv() (*Config, error) {
	return Load("")
}

// Load reads configuration from the optional YAML file, with environment
// variables taking precedence over file values.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		Host:               v.GetString("host"),
		Port:               v.GetString("port"),
		RequestTimeout:     v.GetDuration("request_timeout"),
		MaxRequestBodySize: v.GetInt64("max_request_body_size"),
		ModelPath:          strings.TrimSpace(v.GetString("model_path")),
		ModelBackend:       strings.ToLower(strings.TrimSpace(v.GetString("model_backend"))),
		ModelInputName:     v.GetString("model_input_name"),
		ModelOutputName:    v.GetString("model_output_name"),
		ModelThreads:       v.GetInt("model_threads"),
		ONNXRuntimeLib:     v.GetString("onnxruntime_lib"),
		Interpolation:      strings.ToLower(strings.TrimSpace(v.GetString("interpolation"))),
		MaxImagePixels:     v.GetInt("max_image_pixels"),
		AnimationPath:      v.GetString("animation_path"),
		AnimationURL:       v.GetString("animation_url"),
		FallbackImageURL:   v.GetString("fallback_image_url"),
		AssetCacheTTL:      v.GetDuration("asset_cache_ttl"),
		AssetFetchTimeout:  v.GetDuration("asset_fetch_timeout"),
		AzureAccountName:   v.GetString("azure_storage_account"),
		AzureAccountKey:    v.GetString("azure_storage_key"),
		LogLevel:           v.GetString("log_level"),
		MetricsEnabled:     v.GetBool("metrics_enabled"),
		Workers:            v.GetInt("workers"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv exports the variables in an env file without overriding ones
// already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read env file %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", "8080")
	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("max_request_body_size", 10*1024*1024) // 10MB
	v.SetDefault("model_path", "")
	v.SetDefault("model_backend", BackendONNX)
	v.SetDefault("model_input_name", "input")
	v.SetDefault("model_output_name", "output")
	v.SetDefault("model_threads", 0)
	v.SetDefault("onnxruntime_lib", "")
	v.SetDefault("interpolation", "catmullrom")
	v.SetDefault("max_image_pixels", 40_000_000)
	v.SetDefault("animation_path", "animation.json")
	v.SetDefault("animation_url", "https://lottie.host/8f03bc4c-a498-4655-b265-2fdc3c4eeb64/NJxbmu83fg.json")
	v.SetDefault("fallback_image_url", "https://images.unsplash.com/photo-1588776814546-1ffcf47267a5?auto=format&fit=crop&w=800&q=80")
	v.SetDefault("asset_cache_ttl", 10*time.Minute)
	v.SetDefault("asset_fetch_timeout", 5*time.Second)
	v.SetDefault("azure_storage_account", "")
	v.SetDefault("azure_storage_key", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("workers", 0)
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", c.MaxRequestBodySize)
	}
	if c.RequestTimeout <= 0 || c.AssetFetchTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got request=%s, asset fetch=%s)",
			c.RequestTimeout, c.AssetFetchTimeout)
	}
	if c.ModelPath == "" {
		return errors.New("MODEL_PATH is required")
	}
	switch c.ModelBackend {
	case BackendONNX, BackendTFLite:
	default:
		return fmt.Errorf("unsupported MODEL_BACKEND %q (want %s or %s)", c.ModelBackend, BackendONNX, BackendTFLite)
	}
	if c.MaxImagePixels < 0 {
		return fmt.Errorf("MAX_IMAGE_PIXELS must be >= 0 (got %d)", c.MaxImagePixels)
	}
	if c.ModelThreads < 0 {
		return fmt.Errorf("MODEL_THREADS must be >= 0 (got %d)", c.ModelThreads)
	}
	return nil
}
