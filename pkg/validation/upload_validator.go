package validation

import (
	"fmt"
	"path/filepath"
	"strings"

	apperrors "go-teeth-classifier/internal/errors"
)

// allowedExtensions mirrors the upload control: jpg, jpeg and png only.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// UploadValidator performs the cheap checks on an upload before it is decoded
type UploadValidator struct {
	maxBytes int64
}

// NewUploadValidator rejects uploads larger than maxBytes; zero disables the limit
func NewUploadValidator(maxBytes int64) *UploadValidator {
	return &UploadValidator{maxBytes: maxBytes}
}

// Validate checks the file name extension and the payload size.
// A missing extension is accepted; the decoder has the final word on content.
func (v *UploadValidator) Validate(filename string, size int64) error {
	if size <= 0 {
		return apperrors.NewValidationError("image is empty", nil)
	}
	if v.maxBytes > 0 && size > v.maxBytes {
		return apperrors.NewValidationError(
			fmt.Sprintf("image is %d bytes, limit is %d", size, v.maxBytes), nil)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext != "" && !allowedExtensions[ext] {
		return apperrors.NewValidationError(
			fmt.Sprintf("unsupported file type %q, expected jpg, jpeg or png", ext), nil)
	}
	return nil
}
