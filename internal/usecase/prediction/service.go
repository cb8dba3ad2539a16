package prediction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/foldcall/internal/domain"
	"github.com/kailas-cloud/foldcall/internal/domain/outcome"
	domprediction "github.com/kailas-cloud/foldcall/internal/domain/prediction"
	logpkg "github.com/kailas-cloud/foldcall/internal/logger"
)

// Service submits prediction requests and classifies their outcome.
type Service struct {
	poster Poster
	strict bool
	logger *zap.Logger
}

// New creates a Service. logger can be nil.
func New(poster Poster, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{poster: poster, logger: logger}
}

// WithStrictValidation makes the service validate requests before sending them.
// Without it requests are sent exactly as given.
func (s *Service) WithStrictValidation(strict bool) *Service {
	s.strict = strict
	return s
}

// PredictMSA submits sequences for MSA computation.
func (s *Service) PredictMSA(ctx context.Context, req domprediction.MSARequest) (outcome.Outcome, error) {
	return s.Submit(ctx, req)
}

// PredictStructure submits sequences with alignments and templates for structure prediction.
func (s *Service) PredictStructure(
	ctx context.Context, req domprediction.StructureRequest,
) (outcome.Outcome, error) {
	return s.Submit(ctx, req)
}

// Submit encodes req, posts it to its endpoint and classifies the response.
// A non-2xx response is returned as a failure Outcome, not as an error.
func (s *Service) Submit(ctx context.Context, req domprediction.Request) (outcome.Outcome, error) {
	endpoint := req.Endpoint()
	log := logpkg.FromContextOr(ctx, s.logger).With(zap.String("endpoint", string(endpoint)))

	if s.strict {
		if err := req.Validate(); err != nil {
			log.Warn("prediction request rejected", zap.Error(err))
			return outcome.Outcome{}, fmt.Errorf("validate %s request: %w", endpoint, err)
		}
	}

	body, err := domprediction.Encode(req)
	if err != nil {
		return outcome.Outcome{}, err
	}

	start := time.Now()
	resp, err := s.poster.Post(ctx, endpoint, body)
	latency := time.Since(start)
	if err != nil {
		log.Warn("prediction_request",
			zap.Bool("transport_error", errors.Is(err, domain.ErrTransport)),
			zap.Duration("latency", latency),
			zap.Int("request_bytes", len(body)),
			zap.Error(err),
		)
		return outcome.Outcome{}, fmt.Errorf("submit %s prediction: %w", endpoint, err)
	}

	out, decodeErr := outcome.FromResponse(resp.StatusCode, resp.Body)
	if resp.Cached {
		out = out.FromCache()
	}

	fields := []zap.Field{
		zap.String("request_id", resp.RequestID),
		zap.Int("status", resp.StatusCode),
		zap.String("status_class", string(out.Class())),
		zap.Bool("cached", resp.Cached),
		zap.Duration("latency", latency),
		zap.Int("request_bytes", len(body)),
		zap.Int("response_bytes", len(resp.Body)),
	}
	switch {
	case decodeErr != nil:
		log.Warn("prediction_request", append(fields, zap.Error(decodeErr))...)
		return out, fmt.Errorf("submit %s prediction: %w", endpoint, decodeErr)
	case !out.IsSuccess():
		log.Warn("prediction_request", fields...)
	default:
		log.Info("prediction_request", fields...)
	}
	return out, nil
}
