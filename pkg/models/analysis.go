package models

import "time"

// PredictionResult is the decoded classifier output for one image.
type PredictionResult struct {
	Label             ClassLabel         `json:"label"`
	ConfidencePercent float64            `json:"confidence_percent"`
	Probabilities     []ClassProbability `json:"probabilities"`
}

// ClassProbability is the score of one label expressed as a percentage.
type ClassProbability struct {
	Label   ClassLabel `json:"label"`
	Percent float64    `json:"percent"`
}

// CatalogEntry holds the static text shown for a label.
type CatalogEntry struct {
	Code           ClassLabel `json:"code"`
	DisplayName    string     `json:"display_name"`
	Description    string     `json:"description"`
	Recommendation string     `json:"recommendation"`
	ExternalLink   string     `json:"external_link,omitempty"`
	Icon           string     `json:"icon,omitempty"`
}

// ImageMetadata describes an uploaded image after decoding.
type ImageMetadata struct {
	ContentType   string `json:"content_type"`
	ContentLength int64  `json:"content_length"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Format        string `json:"format"`
}

// Classification is a prediction paired with its catalog entry.
type Classification struct {
	RequestID string           `json:"request_id"`
	Timestamp time.Time        `json:"timestamp"`
	Image     ImageMetadata    `json:"image"`
	Result    PredictionResult `json:"result"`
	Entry     CatalogEntry     `json:"entry"`
}
