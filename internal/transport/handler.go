package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go-teeth-classifier/internal/config"
	apperrors "go-teeth-classifier/internal/errors"
	"go-teeth-classifier/internal/logger"
	"go-teeth-classifier/internal/service"
	"go-teeth-classifier/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	uploadField     = "image"

	// maxRequestIDLength bounds a caller-supplied X-Request-ID.
	maxRequestIDLength = 128
)

// AssetProvider supplies the decorative header animation.
type AssetProvider interface {
	Load(ctx context.Context) models.AnimationResponse
}

// NewHandler builds the HTTP API. metrics may be nil to disable /metrics.
func NewHandler(svc service.ClassificationService, assets AssetProvider, cfg *config.Config, metrics http.Handler) http.Handler {
	r := gin.Default()

	// Add middleware
	r.Use(
		requestID(),
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	// Configure routes
	r.GET("/health", healthCheck(cfg.ModelBackend))
	r.POST("/predict", predict(svc, cfg))
	r.GET("/labels", listLabels(svc))
	r.GET("/labels/:code", getLabel(svc))
	r.GET("/animation", animation(assets))
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}

	return r
}

func predict(svc service.ClassificationService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		id := c.GetString(requestIDKey)
		logger.WithFields(logrus.Fields{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"user_agent": c.Request.UserAgent(),
			"ip":         c.ClientIP(),
		}).Info("Processing prediction request")

		if c.Request.ContentLength > cfg.MaxRequestBodySize {
			respondError(c, http.StatusRequestEntityTooLarge, "image exceeds the upload limit", nil)
			return
		}

		filename, data, err := readUpload(c)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respondError(c, http.StatusRequestEntityTooLarge, "image exceeds the upload limit", err)
				return
			}
			respondError(c, http.StatusBadRequest, fmt.Sprintf("multipart field %q with a JPEG or PNG image is required", uploadField), err)
			return
		}

		result, err := svc.Classify(service.WithRequestID(ctx, id), service.Upload{Filename: filename, Data: data})
		if err != nil {
			respondAppError(c, err)
			return
		}

		duration := time.Since(startTime)
		logger.WithFields(logrus.Fields{
			"request_id":         id,
			"filename":           filename,
			"label":              result.Result.Label,
			"confidence_percent": result.Result.ConfidencePercent,
			"processing_time_ms": duration.Milliseconds(),
		}).Info("Prediction completed successfully")

		c.JSON(http.StatusOK, models.PredictionResponse{
			RequestID:         result.RequestID,
			Label:             result.Result.Label,
			ConfidencePercent: result.Result.ConfidencePercent,
			Probabilities:     result.Result.Probabilities,
			Entry:             result.Entry,
			Image:             result.Image,
			ProcessingTimeMs:  duration.Milliseconds(),
		})
	}
}

func readUpload(c *gin.Context) (string, []byte, error) {
	header, err := c.FormFile(uploadField)
	if err != nil {
		return "", nil, err
	}
	f, err := header.Open()
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, err
	}
	return header.Filename, data, nil
}

func listLabels(svc service.ClassificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Catalog().All())
	}
}

func getLabel(svc service.ClassificationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Param("code")
		entry, ok := svc.Catalog().Get(code)
		if !ok {
			c.AbortWithStatusJSON(http.StatusNotFound, models.ErrorResponse{
				Error:      http.StatusText(http.StatusNotFound),
				Message:    fmt.Sprintf("unknown label code %q", code),
				Suggestion: svc.Catalog().Suggest(code),
			})
			return
		}
		c.JSON(http.StatusOK, entry)
	}
}

func animation(assets AssetProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, assets.Load(c.Request.Context()))
	}
}

func healthCheck(backend string) gin.HandlerFunc {
	labels := make([]string, 0, models.NumClasses)
	for _, l := range models.ClassLabels() {
		labels = append(labels, l.String())
	}

	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":        "available",
			"version":       Version,
			"time":          time.Now().UTC().Format(time.RFC3339),
			"model_backend": backend,
			"labels":        labels,
		})
	}
}

// Middleware and helper functions
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// validRequestID accepts short IDs of printable ASCII without spaces.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}
	return true
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err.Err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	// Check if it's a custom app error first
	if appErr, ok := apperrors.As(err); ok {
		return appErr.StatusCode
	}

	// Fallback to context-based errors
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		// The client went away; same status the service uses for a canceled upload.
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondAppError renders pipeline failures. Only user-facing errors keep
// their message; everything else gets a generic one with no diagnosis.
func respondAppError(c *gin.Context, err error) {
	code := determineStatusCode(err)
	message := "the image could not be classified, please try again later"
	if appErr, ok := apperrors.As(err); ok && appErr.UserFacing() {
		message = appErr.Message
	}
	respondError(c, code, message, err)
}

func respondError(c *gin.Context, code int, message string, err error) {
	// Log the error with context
	entry := logger.WithFields(logrus.Fields{
		"request_id":  c.GetString(requestIDKey),
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	})
	if err != nil {
		entry = entry.WithError(err)
	}
	if code >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: message,
	})
}
