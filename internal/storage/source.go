package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// LocationKind identifies where an artifact lives.
type LocationKind string

const (
	LocationFile      LocationKind = "file"
	LocationHTTP      LocationKind = "http"
	LocationAzureBlob LocationKind = "azblob"
)

// ErrInvalidLocation indicates an artifact location that cannot be parsed
var ErrInvalidLocation = errors.New("invalid artifact location")

// ArtifactSource reads the raw bytes of a stored artifact.
type ArtifactSource interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// Location is a parsed artifact location.
type Location struct {
	Kind LocationKind
	Raw  string

	// Set for azblob:// locations.
	Container string
	Blob      string
}

// ParseLocation classifies location by scheme. Anything without a
// recognised scheme is treated as a filesystem path.
func ParseLocation(location string) (Location, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return Location{}, fmt.Errorf("%w: empty", ErrInvalidLocation)
	}

	scheme, rest, found := strings.Cut(location, "://")
	if !found {
		return Location{Kind: LocationFile, Raw: strings.TrimPrefix(location, "file:")}, nil
	}

	switch strings.ToLower(scheme) {
	case "file":
		return Location{Kind: LocationFile, Raw: rest}, nil
	case "http", "https":
		u, err := url.Parse(location)
		if err != nil || u.Host == "" {
			return Location{}, fmt.Errorf("%w: %s", ErrInvalidLocation, location)
		}
		return Location{Kind: LocationHTTP, Raw: location}, nil
	case "azblob":
		container, blob, ok := strings.Cut(rest, "/")
		if !ok || container == "" || blob == "" {
			return Location{}, fmt.Errorf("%w: want azblob://container/blob, got %s", ErrInvalidLocation, location)
		}
		return Location{Kind: LocationAzureBlob, Raw: location, Container: container, Blob: blob}, nil
	default:
		return Location{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidLocation, scheme)
	}
}
