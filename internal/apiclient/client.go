package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/consultafacil/portal-api/pkg/errors"
	"github.com/consultafacil/portal-api/pkg/logger"
	"github.com/consultafacil/portal-api/pkg/metrics"
)

type contextKey string

const tokenContextKey contextKey = "upstream_token"

// WithToken returns a context carrying the caller's upstream bearer token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey, token)
}

// TokenFromContext extracts the upstream bearer token, if any.
func TokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(tokenContextKey).(string); ok {
		return token
	}
	return ""
}

// Client talks JSON-over-HTTP to the remote appointment API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logger.Logger
	metrics *metrics.Metrics
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func NewClient(cfg Config, log *logger.Logger, m *metrics.Metrics) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  log,
		metrics: m,
	}
}

// UpstreamError carries the raw upstream status and message so callers can
// inspect failure signatures before translation.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Message)
}

// The upstream occasionally persists an appointment and then fails to read
// it back, answering 500 with this message fragment. Booking treats that as
// success; the fragile substring lives only here.
const writeReadbackSignature = "recuperar consulta criada"

// WriteReadbackFailure reports the upstream's "written but not read back"
// bug signature.
func (e *UpstreamError) WriteReadbackFailure() bool {
	return e.StatusCode == http.StatusInternalServerError &&
		strings.Contains(e.Message, writeReadbackSignature)
}

// IsWriteReadbackFailure unwraps err looking for the read-back signature.
func IsWriteReadbackFailure(err error) bool {
	var ue *UpstreamError
	return stderrors.As(err, &ue) && ue.WriteReadbackFailure()
}

type response struct {
	status int
	body   []byte
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload interface{}) (*response, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.NewInternal(fmt.Errorf("marshal request: %w", err))
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if c.metrics != nil {
		c.metrics.UpstreamLatency.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		if c.metrics != nil {
			c.metrics.UpstreamErrors.WithLabelValues(path).Inc()
		}
		if c.logger != nil {
			c.logger.Error(err, "upstream request failed", "method", method, "path", path)
		}
		return nil, errors.NewUpstream("invalid server response", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewUpstream("invalid server response", err)
	}
	if c.metrics != nil {
		c.metrics.UpstreamRequests.WithLabelValues(method, path, fmt.Sprintf("%d", resp.StatusCode)).Inc()
	}

	return &response{status: resp.StatusCode, body: data}, nil
}

// fail converts a non-2xx response into a translated AppError wrapping the
// raw UpstreamError, keyed by status code.
func (c *Client) fail(r *response) error {
	ue := &UpstreamError{StatusCode: r.status, Message: errorMessage(r.body)}

	var code errors.ErrorCode
	message := ue.Message
	switch r.status {
	case http.StatusBadRequest:
		code = errors.ErrValidation
		if message == "" {
			message = "invalid request data"
		}
	case http.StatusUnauthorized:
		code = errors.ErrUnauthorized
		message = "unauthorized, please sign in again"
	case http.StatusNotFound:
		code = errors.ErrNotFound
		message = "service not found"
	case http.StatusConflict:
		code = errors.ErrDuplicate
		if message == "" {
			message = "record already exists"
		}
	default:
		code = errors.ErrUpstream
		if message == "" {
			message = fmt.Sprintf("upstream error %d", r.status)
		}
	}

	return &errors.AppError{Code: code, Message: message, Err: ue}
}
