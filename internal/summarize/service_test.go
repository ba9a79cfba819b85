package summarize_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brieflyai/backend/internal/config"
	"github.com/brieflyai/backend/internal/summarize"
	"github.com/brieflyai/backend/pkg/errors"
	"github.com/brieflyai/backend/pkg/models"
)

func newService(endpoint string) *summarize.Service {
	client := summarize.NewClient(config.SummarizerConfig{
		Endpoint: endpoint,
		APIKey:   "test-key",
		Timeout:  5 * time.Second,
	})
	return summarize.NewService(zap.NewNop(), client)
}

func TestSummarizeSuccess(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body struct {
			Inputs     string `json:"inputs"`
			Parameters *struct {
				MinLength int `json:"min_length"`
				MaxLength int `json:"max_length"`
			} `json:"parameters"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "A long article about Go.", body.Inputs)
		require.NotNil(t, body.Parameters)
		assert.Equal(t, 10, body.Parameters.MinLength)

		json.NewEncoder(w).Encode([]map[string]string{{"summary_text": "Go article."}})
	}))
	defer upstream.Close()

	svc := newService(upstream.URL)
	resp, err := svc.Summarize(context.Background(), &models.SummarizeRequest{
		Text:      "A long article about Go.",
		MinLength: 10,
		MaxLength: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, "Go article.", resp.Summary)
}

func TestSummarizeBlankText(t *testing.T) {
	svc := newService("http://unused.invalid")

	_, err := svc.Summarize(context.Background(), &models.SummarizeRequest{Text: "   "})
	require.Error(t, err)

	var appErr *errors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.KindValidation, appErr.Kind)
}

func TestSummarizeUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	svc := newService(upstream.URL)
	_, err := svc.Summarize(context.Background(), &models.SummarizeRequest{Text: "Some text."})
	assert.ErrorIs(t, err, errors.ErrSummarization)
}

func TestSummarizeNotConfigured(t *testing.T) {
	svc := newService("")
	_, err := svc.Summarize(context.Background(), &models.SummarizeRequest{Text: "Some text."})
	assert.ErrorIs(t, err, errors.ErrSummarization)
}
