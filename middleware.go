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
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
)

// RoundTrip performs one HTTP exchange. http.Client.Do satisfies it.
type RoundTrip func(*http.Request) (*http.Response, error)

// Middleware wraps a RoundTrip with a cross-cutting concern.
type Middleware func(RoundTrip) RoundTrip

// chain composes middlewares around a final round trip
func chain(mw []Middleware, rt RoundTrip) RoundTrip {
	for i := len(mw) - 1; i >= 0; i-- {
		rt = mw[i](rt)
	}
	return rt
}

type ctxKey string

const (
	ctxKeyRequestID ctxKey = "request_id"
)

// WithRequestID injects a request id into ctx. The RequestID middleware sends it
// instead of generating one.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

// RequestIDFrom extracts the request correlation ID from ctx.
func RequestIDFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxKeyRequestID).(string)
	return v, ok
}

// RequestID sets X-Request-Id on outgoing requests that don't carry one, using
// the id from the request context or a fresh UUID.
func RequestID() Middleware {
	return func(next RoundTrip) RoundTrip {
		return func(req *http.Request) (*http.Response, error) {
			if req.Header.Get("X-Request-Id") != "" {
				return next(req)
			}
			id, ok := RequestIDFrom(req.Context())
			if !ok || id == "" {
				id = uuid.NewString()
				req = req.WithContext(WithRequestID(req.Context(), id))
			}
			req.Header.Set("X-Request-Id", id)
			return next(req)
		}
	}
}

// LoggerConfig configures Logger.
type LoggerConfig struct {
	// Logger receives one line per round trip. nil uses slog.Default().
	Logger *slog.Logger

	// Sanitize hides identifiers in logged paths, queries and headers.
	// nil logs them as sent.
	Sanitize *SanitizeConfig
}

// Logger logs one structured line per request.
func Logger(cfg LoggerConfig) Middleware {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var san *Sanitizer
	if cfg.Sanitize != nil {
		san = NewSanitizer(*cfg.Sanitize)
	}

	return func(next RoundTrip) RoundTrip {
		return func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next(req)
			dur := time.Since(start)
			if err == nil && resp == nil {
				err = ErrNoResponse
			}

			attrs := []any{
				slog.String("method", req.Method),
				slog.String("path", san.Path(req.URL.Path)),
				slog.String("duration", dur.String()),
			}
			if q := san.Query(req.URL.RawQuery); q != "" {
				attrs = append(attrs, slog.String("query", q))
			}
			if id := req.Header.Get("X-Request-Id"); id != "" {
				attrs = append(attrs, slog.String("id", id))
			}
			// headers are only logged once the caller has said which ones to hide
			if hs := san.Headers(req.Header); hs != nil {
				attrs = append(attrs, slog.Any("headers", hs))
			}
			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
				logger.Warn("request failed", attrs...)
				return resp, err
			}
			attrs = append(attrs, slog.Int("status", resp.StatusCode))
			logger.Info("request", attrs...)
			return resp, err
		}
	}
}

// Recover turns a panic in the wrapped round trip into an error, so the caller
// gets a transport failure instead of a crashed goroutine.
func Recover(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next RoundTrip) RoundTrip {
		return func(req *http.Request) (resp *http.Response, err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("panic recovered", slog.Any("err", r), slog.String("stack", string(debug.Stack())))
					resp, err = nil, fmt.Errorf("panic during request: %v", r)
				}
			}()
			return next(req)
		}
	}
}

// Timeout bounds each request with a deadline of d. The client enforces no
// deadline of its own.
func Timeout(d time.Duration) Middleware {
	return func(next RoundTrip) RoundTrip {
		return func(req *http.Request) (*http.Response, error) {
			if d <= 0 {
				return next(req)
			}
			ctx, cancel := context.WithTimeout(req.Context(), d)
			resp, err := next(req.WithContext(ctx))
			if err != nil || resp == nil {
				cancel()
				return resp, err
			}
			resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
			return resp, nil
		}
	}
}
