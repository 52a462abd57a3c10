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
	"net/url"
	"strings"
)

// SanitizeConfig says which parts of a request are sensitive enough to keep out
// of logs and span names.
type SanitizeConfig struct {
	// PathSegments lists path segments whose following segment is an identifier
	// to redact. "progress" turns /api/v1/progress/u1/lesson/3 into
	// /api/v1/progress/***/lesson/3.
	PathSegments []string

	// QueryParams names query parameters whose values are hidden.
	QueryParams []string

	// Headers names request headers whose values are hidden. Matching ignores case.
	Headers []string

	// Mask replaces each hidden value. Default: "***".
	Mask string
}

// DefaultSanitizeConfig hides user ids in progress paths.
func DefaultSanitizeConfig() SanitizeConfig {
	return SanitizeConfig{PathSegments: []string{"progress"}, Mask: "***"}
}

// Sanitizer applies a SanitizeConfig. A nil *Sanitizer leaves everything as is.
type Sanitizer struct {
	mask    string
	markers map[string]bool
	params  map[string]bool
	headers map[string]bool // canonical keys
}

// NewSanitizer returns nil when cfg hides nothing.
func NewSanitizer(cfg SanitizeConfig) *Sanitizer {
	if len(cfg.PathSegments)+len(cfg.QueryParams)+len(cfg.Headers) == 0 {
		return nil
	}
	san := &Sanitizer{
		mask:    cfg.Mask,
		markers: lookup(cfg.PathSegments, nil),
		params:  lookup(cfg.QueryParams, nil),
		headers: lookup(cfg.Headers, http.CanonicalHeaderKey),
	}
	if san.mask == "" {
		san.mask = "***"
	}
	return san
}

// Path masks the segment that follows each marker segment.
func (s *Sanitizer) Path(p string) string {
	if s == nil || len(s.markers) == 0 {
		return p
	}
	segments := strings.Split(p, "/")
	for i := 0; i < len(segments)-1; i++ {
		if s.markers[segments[i]] && segments[i+1] != "" {
			segments[i+1] = s.mask
			i++
		}
	}
	return strings.Join(segments, "/")
}

// Query masks the values of configured parameters. A query that cannot be
// parsed is replaced by the mask entirely.
func (s *Sanitizer) Query(rawQuery string) string {
	if s == nil || len(s.params) == 0 || rawQuery == "" {
		return rawQuery
	}
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return s.mask
	}
	hit := false
	for name, vals := range q {
		if !s.params[name] {
			continue
		}
		hit = true
		for i := range vals {
			vals[i] = s.mask
		}
	}
	if !hit {
		return rawQuery
	}
	return strings.ReplaceAll(q.Encode(), url.QueryEscape(s.mask), s.mask)
}

// Headers returns a copy of h with configured headers masked, or nil when no
// header is configured.
func (s *Sanitizer) Headers(h http.Header) http.Header {
	if s == nil || len(s.headers) == 0 {
		return nil
	}
	out := make(http.Header, len(h))
	for name, vals := range h {
		cp := append([]string(nil), vals...)
		if s.headers[http.CanonicalHeaderKey(name)] {
			for i := range cp {
				cp[i] = s.mask
			}
		}
		out[name] = cp
	}
	return out
}

func lookup(names []string, norm func(string) string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		if norm != nil {
			n = norm(n)
		}
		m[n] = true
	}
	return m
}
