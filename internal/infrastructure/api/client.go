package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/esmeraldas/zoosanitario/internal/credentials"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultTimeout  = 30 * time.Second
	maxErrorBody    = 64 << 10
	requestIDHeader = "X-Request-ID"
)

// ClientParams configures a Client.
type ClientParams struct {
	// Required
	BaseURL string

	// Optional
	HTTP    *http.Client
	Gate    *credentials.Gate
	Logger  *zap.Logger
	Timeout time.Duration
}

// Client talks JSON over HTTP to the zoosanitario API. Every call except
// credential submission runs through the credentials gate.
type Client struct {
	base   string
	http   *http.Client
	gate   *credentials.Gate
	logger *zap.Logger
}

func NewClient(params ClientParams) (*Client, error) {
	base := strings.TrimRight(params.BaseURL, "/")
	if base == "" {
		return nil, errors.New("api base url is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}

	httpClient := params.HTTP
	if httpClient == nil {
		timeout := params.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		base:   base,
		http:   httpClient,
		gate:   params.Gate,
		logger: logger,
	}, nil
}

// Gate returns the gate requests are routed through, possibly nil.
func (c *Client) Gate() *credentials.Gate { return c.gate }

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	_, err := credentials.Run(ctx, c.gate, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.send(ctx, method, path, query, in, out)
	})
	return err
}

// getRaw returns the raw 2xx body of a GET, gated.
func (c *Client) getRaw(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return credentials.Run(ctx, c.gate, func(ctx context.Context) ([]byte, error) {
		var raw json.RawMessage
		if err := c.send(ctx, http.MethodGet, path, query, nil, &raw); err != nil {
			return nil, err
		}
		return raw, nil
	})
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	reqID := uuid.NewString()
	req.Header.Set(requestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("api request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", reqID),
			zap.Error(err))
		return fmt.Errorf("api %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", reqID),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return parseError(method, path, resp.StatusCode, b)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read %s %s: %w", method, path, err)
		}
		*raw = b
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
