/*
 *    Copyright 2025 Jeff Galyan
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

package syllabus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// RequestOptions describes one call to the backend.
type RequestOptions struct {
	// Method is the HTTP method. Default: GET.
	Method string

	// Body is JSON-encoded as the request body when non-nil.
	Body any

	// Headers override the default headers key by key.
	Headers map[string]string

	// Query is merged into the endpoint's query string.
	Query url.Values
}

// DefaultHeaders are sent with every request unless overridden.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
}

// MergeHeaders returns defaults with overrides applied on top; on a key
// collision (compared canonically) the override wins.
func MergeHeaders(defaults, overrides map[string]string) http.Header {
	h := make(http.Header, len(defaults)+len(overrides))
	for k, v := range defaults {
		h.Set(k, v)
	}
	for k, v := range overrides {
		h.Set(k, v)
	}
	return h
}

// Execute performs one request against endpoint (a path relative to the
// client's base URL) and decodes the envelope's data into T.
//
// It returns either the decoded value or a *ClientError, never both. Failures
// before a response could be interpreted, including an undecodable body,
// have Status 0. A response with a non-2xx status or success=false yields
// the backend's ErrorInfo with the HTTP status. A success envelope without
// data is rejected with an error wrapping ErrMissingData.
func Execute[T any](ctx context.Context, c *Client, endpoint string, opts RequestOptions) (T, error) {
	var zero T

	req, err := c.newRequest(ctx, endpoint, opts)
	if err != nil {
		return zero, c.fail(req, transportError(err))
	}

	resp, err := c.roundTrip(req)
	if err == nil && resp == nil {
		err = ErrNoResponse
	}
	if err != nil {
		return zero, c.fail(req, transportError(err))
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Debug("error closing response body", slog.String("error", err.Error()))
		}
	}(resp.Body)

	raw, err := readBody(resp.Body, c.maxBody)
	if err != nil {
		return zero, c.fail(req, transportError(err))
	}

	var env rawEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return zero, c.fail(req, transportError(fmt.Errorf("decode response envelope: %w", err)))
	}

	if !isSuccessStatus(resp.StatusCode) || !env.Success {
		return zero, c.fail(req, protocolError(resp.StatusCode, env.Error, env.RequestID))
	}

	if !env.hasData() {
		return zero, c.fail(req, &ClientError{
			Message:   "response envelope has no data",
			RequestID: env.RequestID,
			cause:     ErrMissingData,
		})
	}

	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		ce := transportError(fmt.Errorf("decode response data: %w", err))
		ce.RequestID = env.RequestID
		return zero, c.fail(req, ce)
	}
	return out, nil
}

func (c *Client) newRequest(ctx context.Context, endpoint string, opts RequestOptions) (*http.Request, error) {
	method := strings.ToUpper(opts.Method)
	if method == "" {
		method = http.MethodGet
	}

	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	u, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		return nil, err
	}
	if len(opts.Query) > 0 {
		q := u.Query()
		for k, vs := range opts.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	var body io.Reader
	if opts.Body != nil {
		b, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	defaults := DefaultHeaders()
	if c.ua != "" {
		defaults["User-Agent"] = c.ua
	}
	req.Header = MergeHeaders(defaults, opts.Headers)
	return req, nil
}

// fail logs a failed call at debug level and returns ce.
func (c *Client) fail(req *http.Request, ce *ClientError) *ClientError {
	if c.logger.Enabled(context.Background(), slog.LevelDebug) {
		attrs := []any{
			slog.Int("status", ce.Status),
			slog.String("message", ce.Message),
		}
		if req != nil {
			attrs = append(attrs, slog.String("method", req.Method))
		}
		if ce.Kind != "" {
			attrs = append(attrs, slog.String("kind", ce.Kind))
		}
		if ce.RequestID != "" {
			attrs = append(attrs, slog.String("request_id", ce.RequestID))
		}
		c.logger.Debug("request failed", attrs...)
	}
	return ce
}
