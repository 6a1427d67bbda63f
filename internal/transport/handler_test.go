package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-teeth-classifier/internal/config"
	apperrors "go-teeth-classifier/internal/errors"
	"go-teeth-classifier/internal/repository"
	"go-teeth-classifier/internal/service"
	"go-teeth-classifier/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	classify func(ctx context.Context, u service.Upload) (*models.Classification, error)
	catalog  repository.CatalogRepository
}

func (s *stubService) Classify(ctx context.Context, u service.Upload) (*models.Classification, error) {
	return s.classify(ctx, u)
}

func (s *stubService) ClassifyBatch(context.Context, []service.Upload) []service.BatchResult {
	return nil
}

func (s *stubService) Catalog() repository.CatalogRepository { return s.catalog }

type stubAssets struct{ resp models.AnimationResponse }

func (s stubAssets) Load(context.Context) models.AnimationResponse { return s.resp }

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		MaxRequestBodySize: 1 << 20,
		RequestTimeout:     5 * time.Second,
		ModelBackend:       config.BackendONNX,
	}
}

func newTestHandler(classify func(context.Context, service.Upload) (*models.Classification, error)) http.Handler {
	svc := &stubService{classify: classify, catalog: repository.NewDefaultCatalog()}
	assets := stubAssets{resp: models.AnimationResponse{FallbackImageURL: "https://images.example.com/teeth.jpg"}}
	return NewHandler(svc, assets, testConfig(), nil)
}

func multipartRequest(t *testing.T, field, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/predict", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func gumClassification(requestID string) *models.Classification {
	return &models.Classification{
		RequestID: requestID,
		Result: models.PredictionResult{
			Label:             models.LabelGum,
			ConfidencePercent: 60,
			Probabilities: []models.ClassProbability{
				{Label: models.LabelCariesSuperficial, Percent: 10},
				{Label: models.LabelGum, Percent: 60},
			},
		},
		Entry: repository.NewDefaultCatalog().Lookup(models.LabelGum),
		Image: models.ImageMetadata{Width: 640, Height: 480, Format: "jpeg"},
	}
}

func TestRequestID_Sanitized(t *testing.T) {
	tests := []struct {
		name string
		id   string
		keep bool
	}{
		{"uuid kept", "7f1c2b9e-1d2a-4c55-9a0b-3e6f1b2c4d5e", true},
		{"short token kept", "req-42", true},
		{"too long replaced", strings.Repeat("a", 500), false},
		{"control character replaced", "req\t42", false},
		{"space replaced", "req 42", false},
		{"non-ascii replaced", "req-\u00e9", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.Header.Set("X-Request-ID", tt.id)
			rec := serve(newTestHandler(nil), req)

			got := rec.Header().Get("X-Request-ID")
			if tt.keep {
				assert.Equal(t, tt.id, got)
				return
			}
			assert.NotEqual(t, tt.id, got)
			_, err := uuid.Parse(got)
			assert.NoError(t, err)
		})
	}
}

func TestHealth(t *testing.T) {
	rec := serve(newTestHandler(nil), httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status       string   `json:"status"`
		ModelBackend string   `json:"model_backend"`
		Labels       []string `json:"labels"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "available", body.Status)
	assert.Equal(t, "onnx", body.ModelBackend)
	assert.Equal(t, []string{"CaS", "CoS", "Gum", "MC", "OC", "OLP", "OT"}, body.Labels)
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)
}

func TestPredict_Success(t *testing.T) {
	var got service.Upload
	h := newTestHandler(func(ctx context.Context, u service.Upload) (*models.Classification, error) {
		got = u
		return gumClassification(service.RequestIDFrom(ctx)), nil
	})

	req := multipartRequest(t, "image", "molar.jpg", []byte("jpeg-bytes"))
	req.Header.Set("X-Request-ID", "req-7")
	rec := serve(h, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "molar.jpg", got.Filename)
	assert.Equal(t, []byte("jpeg-bytes"), got.Data)
	assert.Equal(t, "req-7", rec.Header().Get("X-Request-ID"))

	var resp models.PredictionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "req-7", resp.RequestID)
	assert.Equal(t, models.LabelGum, resp.Label)
	assert.InDelta(t, 60.0, resp.ConfidencePercent, 1e-9)
	assert.Equal(t, "Gum Area", resp.Entry.DisplayName)
	assert.Len(t, resp.Probabilities, 2)
	assert.Equal(t, 640, resp.Image.Width)
}

func TestPredict_MissingField(t *testing.T) {
	called := false
	h := newTestHandler(func(context.Context, service.Upload) (*models.Classification, error) {
		called = true
		return nil, nil
	})

	rec := serve(h, multipartRequest(t, "file", "molar.jpg", []byte("x")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called)
}

func TestPredict_TooLarge(t *testing.T) {
	svc := &stubService{catalog: repository.NewDefaultCatalog()}
	cfg := testConfig()
	cfg.MaxRequestBodySize = 128
	h := NewHandler(svc, stubAssets{}, cfg, nil)

	rec := serve(h, multipartRequest(t, "image", "big.png", bytes.Repeat([]byte{0xAB}, 4096)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestPredict_ErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		status      int
		message     string
		notContains string
	}{
		{
			name:    "decode error is shown to the user",
			err:     apperrors.NewDecodeError("uploaded file is not a valid JPEG or PNG image", nil),
			status:  http.StatusUnprocessableEntity,
			message: "uploaded file is not a valid JPEG or PNG image",
		},
		{
			name:    "validation error",
			err:     apperrors.NewValidationError("image is empty", nil),
			status:  http.StatusBadRequest,
			message: "image is empty",
		},
		{
			name:        "shape mismatch has no diagnosis",
			err:         apperrors.NewShapeMismatchError(7, 3),
			status:      http.StatusInternalServerError,
			notContains: "expected 7",
		},
		{
			name:        "client canceled",
			err:         context.Canceled,
			status:      http.StatusBadRequest,
			notContains: context.Canceled.Error(),
		},
		{
			name:        "plain error is internal",
			err:         assert.AnError,
			status:      http.StatusInternalServerError,
			notContains: assert.AnError.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(func(context.Context, service.Upload) (*models.Classification, error) {
				return nil, tt.err
			})

			rec := serve(h, multipartRequest(t, "image", "x.jpg", []byte("bytes")))
			assert.Equal(t, tt.status, rec.Code)

			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, http.StatusText(tt.status), resp.Error)
			if tt.message != "" {
				assert.Equal(t, tt.message, resp.Message)
			}
			if tt.notContains != "" {
				assert.NotContains(t, resp.Message, tt.notContains)
				assert.NotEmpty(t, resp.Message)
			}
		})
	}
}

func TestLabels(t *testing.T) {
	h := newTestHandler(nil)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/labels", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []models.CatalogEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, models.NumClasses)
	assert.Equal(t, models.LabelCariesSuperficial, entries[0].Code)

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/labels/OLP", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var entry models.CatalogEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	assert.Equal(t, "Oral Lichen Planus", entry.DisplayName)
}

func TestLabels_UnknownCodeSuggests(t *testing.T) {
	rec := serve(newTestHandler(nil), httptest.NewRequest(http.MethodGet, "/labels/gum", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Gum", resp.Suggestion)
	assert.Contains(t, resp.Message, "gum")
}

func TestAnimation_NullWithFallback(t *testing.T) {
	rec := serve(newTestHandler(nil), httptest.NewRequest(http.MethodGet, "/animation", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"animation":null,"fallback_image_url":"https://images.example.com/teeth.jpg"}`, rec.Body.String())
}

func TestMetricsRoute(t *testing.T) {
	svc := &stubService{catalog: repository.NewDefaultCatalog()}
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("teeth_model_loaded 1\n"))
	})

	rec := serve(NewHandler(svc, stubAssets{}, testConfig(), metrics), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "teeth_model_loaded")

	rec = serve(newTestHandler(nil), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
