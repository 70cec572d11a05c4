package pybossa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pybossa/pbs/internal/files/filesystem"
	"github.com/pybossa/pbs/pkg/pbs"
)

// Config holds the connection settings for a Client.
type Config struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration

	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client

	// FS reads helping-material attachments. Defaults to the OS filesystem.
	FS filesystem.FileSystemProvider
}

// Client talks to a single PyBossa server.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	fs         filesystem.FileSystemProvider
	requestID  string
	logger     pbs.Logger
}

// NewClient creates a Client for cfg.Endpoint.
// Panics if logger is nil (programming error).
func NewClient(cfg Config, logger pbs.Logger) *Client {
	if logger == nil {
		panic("logger cannot be nil")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = pbs.DefaultHTTPTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	fsProvider := cfg.FS
	if fsProvider == nil {
		fsProvider = filesystem.NewOSFileSystem()
	}

	return &Client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		fs:         fsProvider,
		requestID:  uuid.NewString(),
		logger:     logger,
	}
}

// Endpoint returns the server base URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

func (c *Client) buildURL(path string, query url.Values) string {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	if c.apiKey != "" {
		q.Set("api_key", c.apiKey)
	}
	u := c.endpoint + path
	if encoded := q.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path, query), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", c.requestID)
	return req, nil
}

func (c *Client) send(ctx context.Context, req *http.Request) (*http.Response, error) {
	c.logger.Verbose("%s %s", req.Method, req.URL.Path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &pbs.ConnectionError{Server: c.endpoint, Err: err}
	}
	return resp, nil
}

// doJSON sends body (if non-nil) as JSON and decodes a successful response into out.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, query, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(ctx, req, out)
}

func (c *Client) do(ctx context.Context, req *http.Request, out any) error {
	resp, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &pbs.ConnectionError{Server: c.endpoint, Err: err}
	}

	payload, decodeErr := decodePayload(data)
	if decodeErr != nil {
		if !pbs.IsSuccessStatus(resp.StatusCode) {
			return &pbs.APIError{
				Kind:       pbs.ErrHTTPFailure,
				Action:     req.Method,
				StatusCode: resp.StatusCode,
				Payload:    strings.TrimSpace(string(data)),
			}
		}
		return fmt.Errorf("failed to decode %s %s response: %w", req.Method, req.URL.Path, decodeErr)
	}

	if err := checkAPIError(resp.StatusCode, payload); err != nil {
		if apiErr, ok := err.(*pbs.APIError); ok && apiErr.Action == "" {
			apiErr.Action = req.Method
		}
		return err
	}

	if out == nil || payload == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

func decodePayload(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

var _ pbs.Client = (*Client)(nil)
