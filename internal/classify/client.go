// Package classify is a small client for the /classify endpoint exposed by
// each generated inference service. It is used to smoke-test a deployment.
package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"composegen/pkg/types"
)

// Path is the classification endpoint on every service.
const Path = "/classify"

// Client posts classification requests to one service.
type Client struct {
	BaseURL string
	Timeout time.Duration
	// HTTP overrides the client built from Timeout.
	HTTP *http.Client
}

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("POST %s failed: status %d", Path, e.Code)
	}
	return fmt.Sprintf("POST %s failed: status %d: %s", Path, e.Code, e.Body)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: c.Timeout}
}

// Classify sends req and returns one label per text. The request is
// validated first, and a response whose length differs from the input is
// an error.
func (c *Client) Classify(ctx context.Context, req types.ClassifyRequest) (types.ClassifyResponse, error) {
	var out types.ClassifyResponse
	if err := req.Validate(); err != nil {
		return out, err
	}
	data, err := json.Marshal(req)
	if err != nil {
		return out, err
	}
	base := strings.TrimRight(c.BaseURL, "/")
	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, base+Path, bytes.NewReader(data))
	if err != nil {
		return out, err
	}
	hreq.Header.Set("Accept", "application/json")
	hreq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(hreq)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return out, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("decode response: %w", err)
	}
	if len(out.Result) != len(req.Texts) {
		return out, fmt.Errorf("got %d labels for %d texts", len(out.Result), len(req.Texts))
	}
	return out, nil
}
