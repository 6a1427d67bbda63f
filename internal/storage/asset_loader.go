package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go-teeth-classifier/internal/logger"
	"go-teeth-classifier/pkg/models"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const animationCacheKey = "animation"

// AssetOptions configures the decorative asset loader.
type AssetOptions struct {
	AnimationPath    string
	AnimationURL     string
	FallbackImageURL string
	CacheTTL         time.Duration
	FetchTimeout     time.Duration
}

// AssetLoader loads the header animation: local file first, then URL,
// otherwise nothing. Results, including misses, are cached for CacheTTL.
type AssetLoader struct {
	opts   AssetOptions
	remote ArtifactSource
	cache  *cache.Cache
	log    *logrus.Entry
	loads  singleflight.Group
}

// NewAssetLoader creates a loader that fetches remote animations through remote.
func NewAssetLoader(opts AssetOptions, remote ArtifactSource) *AssetLoader {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 10 * time.Minute
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 5 * time.Second
	}
	return &AssetLoader{
		opts:   opts,
		remote: remote,
		cache:  cache.New(opts.CacheTTL, opts.CacheTTL*2),
		log:    logger.WithComponent("assets"),
	}
}

// Animation returns the animation document or nil. It never fails.
// The shared load is detached from ctx so one caller going away cannot
// leave a cached miss behind for everyone else.
func (l *AssetLoader) Animation(ctx context.Context) json.RawMessage {
	if cached, found := l.cache.Get(animationCacheKey); found {
		return cached.(json.RawMessage)
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := l.loads.DoChan(animationCacheKey, func() (interface{}, error) {
		anim := OrDefault(l.log, "animation file", json.RawMessage(nil), l.loadLocal)
		if anim == nil {
			anim = OrDefault(l.log, "animation url", json.RawMessage(nil), func() (json.RawMessage, error) {
				return l.loadRemote(loadCtx)
			})
		}
		l.cache.Set(animationCacheKey, anim, cache.DefaultExpiration)
		return anim, nil
	})

	select {
	case res := <-ch:
		return res.Val.(json.RawMessage)
	case <-ctx.Done():
		return nil
	}
}

// Load returns the animation together with the static fallback image.
func (l *AssetLoader) Load(ctx context.Context) models.AnimationResponse {
	return models.AnimationResponse{
		Animation:        l.Animation(ctx),
		FallbackImageURL: l.opts.FallbackImageURL,
	}
}

// Invalidate drops the cached animation so the next call reloads it.
func (l *AssetLoader) Invalidate() {
	l.cache.Delete(animationCacheKey)
}

func (l *AssetLoader) loadLocal() (json.RawMessage, error) {
	if l.opts.AnimationPath == "" {
		return nil, errors.New("no animation path configured")
	}
	data, err := os.ReadFile(l.opts.AnimationPath)
	if err != nil {
		return nil, err
	}
	return validateAnimation(data)
}

func (l *AssetLoader) loadRemote(ctx context.Context) (json.RawMessage, error) {
	if l.opts.AnimationURL == "" || l.remote == nil {
		return nil, errors.New("no animation url configured")
	}
	ctx, cancel := context.WithTimeout(ctx, l.opts.FetchTimeout)
	defer cancel()

	data, err := l.remote.Fetch(ctx, l.opts.AnimationURL)
	if err != nil {
		return nil, err
	}
	return validateAnimation(data)
}

// validateAnimation accepts only a JSON object.
func validateAnimation(data []byte) (json.RawMessage, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("animation is not a JSON object: %w", err)
	}
	if doc == nil {
		return nil, errors.New("animation is null")
	}
	return json.RawMessage(data), nil
}
