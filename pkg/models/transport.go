package models

import "encoding/json"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// PredictionResponse is the body returned by the predict endpoint
type PredictionResponse struct {
	RequestID         string             `json:"request_id"`
	Label             ClassLabel         `json:"label"`
	ConfidencePercent float64            `json:"confidence_percent"`
	Probabilities     []ClassProbability `json:"probabilities"`
	Entry             CatalogEntry       `json:"entry"`
	Image             ImageMetadata      `json:"image"`
	ProcessingTimeMs  int64              `json:"processing_time_ms"`
}

// AnimationResponse carries the decorative header animation. Animation is
// null when no source could be loaded; clients show FallbackImageURL instead.
type AnimationResponse struct {
	Animation        json.RawMessage `json:"animation"`
	FallbackImageURL string          `json:"fallback_image_url"`
}
