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

package syllabustest

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig lets a browser front end served from another origin call the
// fake backend during development.
type CORSConfig struct {
	// AllowOrigins lists permitted origins; "*" permits any. Default: ["*"].
	AllowOrigins []string

	// AllowHeaders lists request headers a preflight may ask for.
	// Default: Content-Type, Accept, X-Request-Id, traceparent, tracestate.
	AllowHeaders []string

	// MaxAge is how long, in seconds, a preflight result may be cached.
	// Default: 600.
	MaxAge int
}

// DefaultCORSConfig allows any origin to use every endpoint.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{"Content-Type", "Accept", "X-Request-Id", "traceparent", "tracestate"},
		MaxAge:       600,
	}
}

// CORS answers preflight requests and sets Access-Control-* headers on the
// rest. Requests from origins that are not allowed pass through untouched
// and the browser rejects them.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = []string{"*"}
	}
	if len(cfg.AllowHeaders) == 0 {
		cfg.AllowHeaders = DefaultCORSConfig().AllowHeaders
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = 600
	}
	allowHeaders := strings.Join(cfg.AllowHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)
	methods := strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodOptions}, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allowed, wildcard := originAllowed(origin, cfg.AllowOrigins)
			if origin == "" || !allowed {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			if wildcard {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Expose-Headers", "X-Request-Id")

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", allowHeaders)
				h.Set("Access-Control-Max-Age", maxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed []string) (ok, wildcard bool) {
	for _, a := range allowed {
		if a == "*" {
			return true, true
		}
		if a == origin {
			return true, false
		}
	}
	return false, false
}
