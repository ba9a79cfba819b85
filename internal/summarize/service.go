package summarize

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/brieflyai/backend/pkg/errors"
	"github.com/brieflyai/backend/pkg/metrics"
	"github.com/brieflyai/backend/pkg/models"
)

// Service validates summarization requests and delegates to the
// inference client.
type Service struct {
	logger *zap.Logger
	client *Client
}

// NewService creates a summarization service.
func NewService(log *zap.Logger, client *Client) *Service {
	return &Service{logger: log, client: client}
}

// Summarize produces a summary for the request's text. Upstream pipeline
// failures are reported as SUMMARIZATION_FAILED without leaking the
// upstream detail to the caller.
func (s *Service) Summarize(ctx context.Context, req *models.SummarizeRequest) (*models.SummarizeResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		metrics.SummarizationsTotal.WithLabelValues("error").Inc()
		return nil, errors.Validation("Text must not be blank.",
			errors.NewFieldError("text", "must not be blank"))
	}
	if req.MinLength > 0 && req.MaxLength > 0 && req.MinLength > req.MaxLength {
		metrics.SummarizationsTotal.WithLabelValues("error").Inc()
		return nil, errors.Validation("min_length must not exceed max_length.",
			errors.NewFieldError("min_length", "must not exceed max_length"))
	}

	start := time.Now()
	summary, err := s.client.Summarize(ctx, text, req.MinLength, req.MaxLength)
	metrics.SummarizationLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		s.logger.Error("Summarization pipeline failed", zap.Error(err))
		metrics.SummarizationsTotal.WithLabelValues("failed").Inc()
		return nil, errors.ErrSummarization.WithCause(err)
	}

	metrics.SummarizationsTotal.WithLabelValues("success").Inc()
	return &models.SummarizeResponse{Summary: summary}, nil
}
