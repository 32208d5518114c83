package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-notebridge/internal/logging"
	"github.com/goliatone/go-notebridge/internal/retry"
	"github.com/goliatone/go-notebridge/internal/scanner"
	"github.com/goliatone/go-notebridge/pkg/interfaces"
)

var (
	// ErrBaseURLRequired reports a client constructed without an API base URL.
	ErrBaseURLRequired = errors.New("client: base URL is required")
	// ErrTokenRequired reports a client constructed without an API token.
	ErrTokenRequired = errors.New("client: token is required")
	// ErrInvalidID reports a malformed resource identifier. Fails fast, never retried.
	ErrInvalidID = errors.New("client: invalid resource id")
	// ErrNotFound reports a resource the remote API does not know. Never retried.
	ErrNotFound = errors.New("client: resource not found")
	// ErrCorruptPayload reports an empty or undecodable payload behind a 200.
	ErrCorruptPayload = errors.New("client: corrupt resource payload")
)

// StatusError carries a non-2xx upstream status so the retry classifier can
// distinguish transient 5xx responses from permanent 4xx ones.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("client: unexpected status %d", e.Code)
	}
	return fmt.Sprintf("client: unexpected status %d: %s", e.Code, e.Message)
}

// HTTPStatus satisfies retry.HTTPStatusError.
func (e *StatusError) HTTPStatus() int { return e.Code }

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxAttempts = 3
	defaultBaseDelay   = 500 * time.Millisecond
	defaultMaxDelay    = 5 * time.Second

	metadataFields = "id,title,mime,filename,size"
)

// Config wires the REST client to the remote notes API. The token travels as
// a query parameter, matching the upstream clipper-service contract.
type Config struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Retry      retry.Config
	Logger     interfaces.Logger
}

// Client fetches resource metadata and payloads, retrying transient failures
// with exponential backoff. It satisfies interfaces.ResourceAPI.
type Client struct {
	baseURL  string
	token    string
	http     *http.Client
	retryCfg retry.Config
	logger   interfaces.Logger
}

var _ interfaces.ResourceAPI = (*Client)(nil)

// New validates the configuration and constructs a resource client.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, ErrBaseURLRequired
	}
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, ErrTokenRequired
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	retryCfg := cfg.Retry
	if retryCfg.MaxAttempts < 1 {
		retryCfg.MaxAttempts = defaultMaxAttempts
	}
	if retryCfg.BaseDelay <= 0 {
		retryCfg.BaseDelay = defaultBaseDelay
	}
	if retryCfg.MaxDelay <= 0 {
		retryCfg.MaxDelay = defaultMaxDelay
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}

	return &Client{
		baseURL:  baseURL,
		token:    token,
		http:     httpClient,
		retryCfg: retryCfg,
		logger:   logger,
	}, nil
}

type metadataEnvelope struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Mime     string `json:"mime"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// Metadata fetches the resource descriptor for id.
func (c *Client) Metadata(ctx context.Context, id string) (*interfaces.ResourceMetadata, error) {
	if !scanner.IsResourceID(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	endpoint := c.endpoint("resources/"+id, url.Values{"fields": {metadataFields}})
	body, err := c.fetch(ctx, "metadata", id, endpoint)
	if err != nil {
		return nil, err
	}

	var envelope metadataEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode metadata for %s: %v", ErrCorruptPayload, id, err)
	}

	return &interfaces.ResourceMetadata{
		ID:       envelope.ID,
		Title:    envelope.Title,
		Mime:     envelope.Mime,
		Filename: envelope.Filename,
		Size:     envelope.Size,
	}, nil
}

// Data fetches the raw resource payload for id. A zero-length 200 response is
// treated as corrupt and not retried.
func (c *Client) Data(ctx context.Context, id string) ([]byte, error) {
	if !scanner.IsResourceID(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	endpoint := c.endpoint("resources/"+id+"/file", nil)
	body, err := c.fetch(ctx, "data", id, endpoint)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty payload for %s", ErrCorruptPayload, id)
	}
	return body, nil
}

// fetch performs a GET with the client's retry budget. Each retry is logged
// at warn level with the triggering error.
func (c *Client) fetch(ctx context.Context, operation, id, endpoint string) ([]byte, error) {
	retryCfg := c.retryCfg
	retryCfg.OnRetry = func(err error, attempt int) {
		c.logger.Warn("client.fetch.retry",
			"operation", operation,
			"resource_id", id,
			"attempt", attempt,
			"error", err,
		)
		if c.retryCfg.OnRetry != nil {
			c.retryCfg.OnRetry(err, attempt)
		}
	}

	return retry.Do(ctx, retryCfg, func(ctx context.Context) ([]byte, error) {
		return c.get(ctx, endpoint)
	})
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("client: read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &StatusError{Code: resp.StatusCode, Message: errorMessage(body)}
	}
	return body, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	query.Set("token", c.token)
	return c.baseURL + "/" + path + "?" + query.Encode()
}

// errorMessage extracts the API's error field when present, falling back to a
// bounded slice of the raw body.
func errorMessage(body []byte) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		return envelope.Error
	}
	const limit = 200
	text := strings.TrimSpace(string(body))
	if len(text) > limit {
		text = text[:limit]
	}
	return text
}
