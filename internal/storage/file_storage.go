package storage

import (
	"context"
	"fmt"
	"os"
)

// FileSource reads artifacts from the local filesystem.
type FileSource struct{}

func NewFileSource() *FileSource {
	return &FileSource{}
}

func (s *FileSource) Fetch(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}
	if loc.Kind != LocationFile {
		return nil, fmt.Errorf("%w: %s is not a file path", ErrInvalidLocation, location)
	}

	data, err := os.ReadFile(loc.Raw)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", loc.Raw, err)
	}
	return data, nil
}

var _ ArtifactSource = (*FileSource)(nil)
