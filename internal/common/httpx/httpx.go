package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/iflowkit/iflowkit-scaffold/internal/common/logx"
)

const UserAgent = "iflowkit-scaffold"

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DefaultClient is used when a provider client is built without a Doer.
func DefaultClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

// Response is the part of an API response the provisioning workflow inspects.
type Response struct {
	StatusCode int
	Body       []byte
}

// Send issues one request. payload, when non-nil, is JSON encoded.
// Transport failures are returned as errors; any HTTP status is a Response.
func Send(ctx context.Context, doer Doer, lg *logx.Logger, method string, u *url.URL, headers map[string]string, payload any) (Response, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return Response{}, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return Response{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if lg != nil {
		lg.Debug("http request", logx.F("method", method), logx.F("url", u.String()))
	}
	resp, err := doer.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("%s %s: %w", method, u.Redacted(), err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil && lg != nil {
		lg.Debug("http response body unreadable", logx.F("url", u.Redacted()), logx.F("error", err.Error()))
	}

	if lg != nil {
		lg.Debug("http response", logx.F("method", method), logx.F("url", u.String()), logx.F("status", resp.StatusCode))
	}
	return Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}
