package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/draftea/order-saga/shared/saga"
	"github.com/draftea/order-saga/shared/telemetry"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxResponseBytes = 1 << 20

var _ saga.Participant = (*HTTPParticipant)(nil)

// HTTPParticipant calls a participant service at <baseURL>/<name>/<operation>.
// Transport problems are reported as failed outcomes, never as errors.
type HTTPParticipant struct {
	name    string
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewHTTPParticipant creates a participant client. A zero timeout leaves the
// deadline to the caller's context.
func NewHTTPParticipant(name, baseURL string, timeout time.Duration, logger zerolog.Logger) *HTTPParticipant {
	return &HTTPParticipant{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With().Str("participant", name).Logger(),
	}
}

func (p *HTTPParticipant) Invoke(ctx context.Context, operation string, req *saga.Request) (*saga.Outcome, error) {
	url := fmt.Sprintf("%s/%s/%s", p.baseURL, p.name, operation)

	ctx, span := telemetry.StartSpan(ctx, "participant.call",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("participant", p.name),
			attribute.String("operation", operation),
			attribute.String("http.url", url),
		),
	)
	defer span.End()

	outcome := p.call(ctx, url, req)
	span.SetAttributes(attribute.Bool("success", outcome.Success))
	if !outcome.Success {
		span.SetStatus(codes.Error, outcome.Message)
		p.logger.Warn().
			Str("operation", operation).
			Str("transaction_id", req.TransactionID.String()).
			Str("message", outcome.Message).
			Msg("participant call failed")
	}

	return outcome, nil
}

func (p *HTTPParticipant) call(ctx context.Context, url string, req *saga.Request) *saga.Outcome {
	body, err := json.Marshal(req)
	if err != nil {
		return saga.Failed(fmt.Sprintf("failed to encode request: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return saga.Failed(fmt.Sprintf("failed to build request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	telemetry.InjectHTTP(ctx, httpReq.Header)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return saga.Failed(fmt.Sprintf("%s unavailable: %v", p.name, err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return saga.Failed(fmt.Sprintf("failed to read %s response: %v", p.name, err))
	}

	var outcome saga.Outcome
	decoded := len(bytes.TrimSpace(raw)) > 0 && json.Unmarshal(raw, &outcome) == nil

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if decoded && !outcome.Success && outcome.Message != "" {
			return saga.Failed(outcome.Message)
		}
		return saga.Failed(fmt.Sprintf("%s returned status %d", p.name, resp.StatusCode))
	}
	if !decoded {
		return saga.Failed(fmt.Sprintf("malformed response from %s", p.name))
	}

	return &outcome
}
