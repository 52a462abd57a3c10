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
	"log/slog"
	"net/http"
	"strings"
)

// DefaultBaseURL is used when Config.BaseURL is empty.
const DefaultBaseURL = "http://localhost:8080"

// DefaultMaxResponseBytes caps response bodies when Config.MaxResponseBytes is 0.
const DefaultMaxResponseBytes int64 = 10 << 20

// Config is the immutable configuration of a Client.
type Config struct {
	// BaseURL is the scheme and host (and optional path prefix) of the backend.
	// Default: DefaultBaseURL.
	BaseURL string

	// MaxResponseBytes limits how much of a response body is read. A negative
	// value disables the limit. Default: DefaultMaxResponseBytes.
	MaxResponseBytes int64

	// UserAgent, when set, is sent on every request unless the call overrides it.
	UserAgent string
}

// Client sends requests to the backend. It holds no mutable state after New
// returns and is safe for concurrent use.
type Client struct {
	baseURL   string
	maxBody   int64
	ua        string
	http      *http.Client
	logger    *slog.Logger
	mw        []Middleware
	roundTrip RoundTrip
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient sets the *http.Client used for the network call.
// nil keeps http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithMiddleware appends round-trip middleware. The first registered is the
// outermost.
func WithMiddleware(mw ...Middleware) Option {
	return func(c *Client) { c.mw = append(c.mw, mw...) }
}

// WithLogger sets the logger used for failure diagnostics. nil uses slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Client from cfg.
func New(cfg Config, opts ...Option) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	maxBody := cfg.MaxResponseBytes
	if maxBody == 0 {
		maxBody = DefaultMaxResponseBytes
	}
	c := &Client{
		baseURL: base,
		maxBody: maxBody,
		ua:      cfg.UserAgent,
		http:    http.DefaultClient,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	hc := c.http
	c.roundTrip = chain(c.mw, hc.Do)
	return c
}

// BaseURL returns the resolved base address.
func (c *Client) BaseURL() string { return c.baseURL }
