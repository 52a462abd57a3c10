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

	"golang.org/x/time/rate"
)

// RateLimitConfig sizes the token bucket used by RateLimit.
type RateLimitConfig struct {
	// Rate is the sustained requests per second allowed across the client.
	// Default: 10.
	Rate float64

	// Burst is how many requests may go out back to back before pacing
	// starts. Default: 20.
	Burst int
}

// RateLimit spaces outgoing requests with a token bucket shared by every call
// through the client. A request waits for a token; if its context ends first
// the wait error is returned and nothing is sent.
func RateLimit(cfg RateLimitConfig) Middleware {
	if cfg.Rate <= 0 {
		cfg.Rate = 10
	}
	if cfg.Burst < 1 {
		cfg.Burst = 20
	}
	lim := rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst)

	return func(next RoundTrip) RoundTrip {
		return func(req *http.Request) (*http.Response, error) {
			if err := lim.Wait(req.Context()); err != nil {
				return nil, err
			}
			return next(req)
		}
	}
}
