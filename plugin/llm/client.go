package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
)

// Sentinel errors describing why a completion could not be produced.
var (
	// ErrUnavailable means the provider could not be reached, or kept
	// returning transient failures until the retry budget ran out.
	ErrUnavailable = errors.New("upstream unavailable")
	// ErrRejected means the provider reported an invalid-request class of
	// error (bad credential, unknown model, malformed payload). Not retried.
	ErrRejected = errors.New("upstream rejected request")
	// ErrTimeout means no response arrived within the per-call deadline.
	ErrTimeout = errors.New("upstream timed out")
)

// Client talks to an OpenAI-compatible /chat/completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	timeout    time.Duration
	maxRetries uint64
	httpClient *http.Client
}

// NewClient builds a completion client. timeout bounds each individual
// attempt; maxRetries is the number of additional attempts after the first.
func NewClient(baseURL, apiKey, model string, timeout time.Duration, maxRetries int) *Client {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		timeout:    timeout,
		maxRetries: uint64(maxRetries),
		httpClient: &http.Client{},
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.model }

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the turn sequence to the provider and returns the assistant
// text. Transient failures (transport errors, 429, 5xx, per-attempt timeout)
// are retried with exponential backoff; 4xx responses surface immediately.
func (c *Client) Complete(ctx context.Context, turns []Message) (string, error) {
	var out string
	op := func() error {
		text, err := c.call(ctx, turns)
		if err != nil {
			return err
		}
		out = text
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxInterval = 2 * time.Second
	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, c.maxRetries), ctx)); err != nil {
		return "", err
	}
	return out, nil
}

func (c *Client) call(ctx context.Context, turns []Message) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(chatRequest{Model: c.model, Messages: turns})
	if err != nil {
		return "", backoff.Permanent(errors.Wrap(err, "marshal completion request"))
	}
	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", backoff.Permanent(errors.Wrap(err, "build completion request"))
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return "", errors.Wrapf(ErrTimeout, "no response within %s", c.timeout)
		}
		return "", errors.Wrapf(ErrUnavailable, "completion call: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrapf(ErrUnavailable, "read completion response: %v", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// parsed below
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", errors.Wrapf(ErrUnavailable, "status %d: %s", resp.StatusCode, truncate(string(body), 200))
	default:
		return "", backoff.Permanent(errors.Wrapf(ErrRejected, "status %d: %s", resp.StatusCode, truncate(string(body), 200)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", backoff.Permanent(errors.Wrapf(ErrRejected, "parse completion response: %s", truncate(string(body), 200)))
	}
	if len(parsed.Choices) == 0 {
		return "", backoff.Permanent(errors.Wrap(ErrRejected, "empty choices in completion response"))
	}
	return parsed.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
