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
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/jrgalyan/syllabus"

// TracingConfig configures the Tracing middleware.
type TracingConfig struct {
	// TracerProvider creates the tracer. nil uses otel.GetTracerProvider().
	TracerProvider trace.TracerProvider

	// Propagator injects trace context into request headers.
	// nil uses otel.GetTextMapPropagator().
	Propagator propagation.TextMapPropagator

	// Sanitize redacts the path recorded on the span. nil records it as is.
	Sanitize *SanitizeConfig
}

// Tracing starts a client span around each request and propagates its context
// to the backend.
func Tracing(cfg TracingConfig) Middleware {
	tp := cfg.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	prop := cfg.Propagator
	if prop == nil {
		prop = otel.GetTextMapPropagator()
	}
	var san *Sanitizer
	if cfg.Sanitize != nil {
		san = NewSanitizer(*cfg.Sanitize)
	}
	tracer := tp.Tracer(tracerName)

	return func(next RoundTrip) RoundTrip {
		return func(req *http.Request) (*http.Response, error) {
			path := san.Path(req.URL.Path)
			ctx, span := tracer.Start(req.Context(), req.Method+" "+path,
				trace.WithSpanKind(trace.SpanKindClient),
				trace.WithAttributes(
					attribute.String("http.method", req.Method),
					attribute.String("http.target", path),
					attribute.String("net.peer.name", req.URL.Host),
				),
			)
			defer span.End()

			req = req.WithContext(ctx)
			prop.Inject(ctx, propagation.HeaderCarrier(req.Header))

			resp, err := next(req)
			if err == nil && resp == nil {
				err = ErrNoResponse
			}
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return resp, err
			}
			span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
			if resp.StatusCode >= 400 {
				span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
			}
			return resp, nil
		}
	}
}
