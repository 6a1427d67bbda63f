package service

import (
	"context"
	"errors"
	"time"

	"go-teeth-classifier/internal/analyzer"
	apperrors "go-teeth-classifier/internal/errors"
	"go-teeth-classifier/internal/observer"
	"go-teeth-classifier/internal/repository"
	"go-teeth-classifier/pkg/models"
	"go-teeth-classifier/pkg/validation"

	"github.com/google/uuid"
)

// Upload is one image submitted for classification
type Upload struct {
	Filename string
	Data     []byte
}

// BatchResult pairs an upload with its outcome
type BatchResult struct {
	Filename       string
	Classification *models.Classification
	Err            error
}

// ClassificationService defines the interface for classifying dental images
type ClassificationService interface {
	// Classify runs the pipeline for one upload and attaches the catalog entry
	Classify(ctx context.Context, upload Upload) (*models.Classification, error)

	// ClassifyBatch classifies uploads concurrently; results keep input order
	ClassifyBatch(ctx context.Context, uploads []Upload) []BatchResult

	// Catalog exposes the label reference data
	Catalog() repository.CatalogRepository
}

// classificationService implements ClassificationService with a single shared analyzer
type classificationService struct {
	analyzer  analyzer.ImageAnalyzer
	catalog   repository.CatalogRepository
	validator *validation.UploadValidator
	events    observer.Subject
	workers   int
}

// NewClassificationService creates a new classification service. events may be nil.
func NewClassificationService(
	imageAnalyzer analyzer.ImageAnalyzer,
	catalog repository.CatalogRepository,
	validator *validation.UploadValidator,
	events observer.Subject,
	workers int,
) ClassificationService {
	if validator == nil {
		validator = validation.NewUploadValidator(0)
	}
	return &classificationService{
		analyzer:  imageAnalyzer,
		catalog:   catalog,
		validator: validator,
		events:    events,
		workers:   workers,
	}
}

func (s *classificationService) Classify(ctx context.Context, upload Upload) (*models.Classification, error) {
	requestID := RequestIDFrom(ctx)
	start := time.Now()

	s.publish(ctx, observer.PredictionEvent{
		EventType: observer.PredictionStarted,
		RequestID: requestID,
		Filename:  upload.Filename,
	})

	classification, err := s.classify(ctx, requestID, upload)
	if err != nil {
		event := observer.PredictionEvent{
			EventType:      observer.PredictionFailed,
			RequestID:      requestID,
			Filename:       upload.Filename,
			ProcessingTime: time.Since(start),
			ErrorType:      string(apperrors.ErrorTypeInternal),
			ErrorMessage:   err.Error(),
		}
		if appErr, ok := apperrors.As(err); ok {
			event.ErrorType = string(appErr.Type)
		}
		s.publish(ctx, event)
		return nil, err
	}

	s.publish(ctx, observer.PredictionEvent{
		EventType:         observer.PredictionCompleted,
		RequestID:         requestID,
		Filename:          upload.Filename,
		Label:             classification.Result.Label,
		ConfidencePercent: classification.Result.ConfidencePercent,
		ProcessingTime:    time.Since(start),
		Success:           true,
	})
	return classification, nil
}

func (s *classificationService) classify(ctx context.Context, requestID string, upload Upload) (*models.Classification, error) {
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewTimeoutError("request timed out before classification", err)
		}
		return nil, apperrors.NewValidationError("request canceled", err)
	}

	if err := s.validator.Validate(upload.Filename, int64(len(upload.Data))); err != nil {
		return nil, err
	}

	result, err := s.analyzer.Analyze(upload.Data)
	if err != nil {
		return nil, err
	}

	return &models.Classification{
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Image:     result.Image,
		Result:    result.Prediction,
		Entry:     s.catalog.Lookup(result.Prediction.Label),
	}, nil
}

func (s *classificationService) ClassifyBatch(ctx context.Context, uploads []Upload) []BatchResult {
	results := make([]BatchResult, len(uploads))
	if len(uploads) == 0 {
		return results
	}

	pool := analyzer.NewWorkerPool(s.workers)
	pool.Start()
	defer pool.Close()

	for i := range uploads {
		i := i
		pool.Submit(func() {
			upload := uploads[i]
			classification, err := s.Classify(WithRequestID(ctx, uuid.NewString()), upload)
			results[i] = BatchResult{
				Filename:       upload.Filename,
				Classification: classification,
				Err:            err,
			}
		})
	}
	pool.Wait()

	return results
}

func (s *classificationService) Catalog() repository.CatalogRepository {
	return s.catalog
}

func (s *classificationService) publish(ctx context.Context, event observer.PredictionEvent) {
	if s.events == nil {
		return
	}
	s.events.NotifyObservers(ctx, event)
}
