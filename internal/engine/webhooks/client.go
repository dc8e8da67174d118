package webhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"qualifier/internal/platform/config"
	"qualifier/internal/platform/models"
)

// ErrMissingAccessToken is reported when the generate endpoint answers
// without a token.
var ErrMissingAccessToken = errors.New("response did not contain an accessToken")

// maxBodySize bounds how much of a response body is read into memory.
const maxBodySize = 1 << 20

// Client talks to the hiring service.
type Client struct {
	baseURL      string
	generatePath string
	timeout      time.Duration
	httpClient   *http.Client
}

func NewClient(cfg config.HiringConfig) *Client {
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		generatePath: cfg.GeneratePath,
		timeout:      cfg.Timeout,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
	}
}

// URL joins path onto the configured base URL.
func (c *Client) URL(path string) string {
	if path == "" {
		return c.baseURL
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// GenerateWebhook registers the candidate and returns the webhook URL and
// access token. Any failure, including a missing token, is fatal.
func (c *Client) GenerateWebhook(ctx context.Context, req models.WebhookRequest) Outcome[*models.WebhookResponse] {
	body, err := c.post(ctx, c.URL(c.generatePath), "", req)
	if err != nil {
		return fatal[*models.WebhookResponse](errors.Wrap(err, "generate webhook"))
	}

	var resp models.WebhookResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fatal[*models.WebhookResponse](errors.Wrap(err, "failed to decode generate webhook response"))
	}

	if strings.TrimSpace(resp.AccessToken) == "" {
		return fatal[*models.WebhookResponse](ErrMissingAccessToken)
	}

	return success(&resp)
}

// Submit posts the final query to target. The access token goes into the
// Authorization header exactly as received.
func (c *Client) Submit(ctx context.Context, target, accessToken, finalQuery string) Outcome[string] {
	body, err := c.post(ctx, target, accessToken, models.Submission{FinalQuery: finalQuery})
	if err != nil {
		return recoverable[string]("Submission failed: "+err.Error(), errors.Wrap(err, "submit final query"))
	}
	return success(string(body))
}

func (c *Client) post(ctx context.Context, url, authorization string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode request")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(data))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode >= 400 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return body, nil
}

// StatusError reports a non-success HTTP status from the hiring service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
	}
	return fmt.Sprintf("HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}
