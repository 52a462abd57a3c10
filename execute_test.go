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

package syllabus_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	s "github.com/jrgalyan/syllabus"
)

var _ = Describe("Execute", func() {
	var (
		server *ghttp.Server
		client *s.Client
		ctx    context.Context
	)

	BeforeEach(func() {
		server = ghttp.NewServer()
		client = s.New(s.Config{BaseURL: server.URL()})
		ctx = context.Background()
	})

	AfterEach(func() {
		server.Close()
	})

	respond := func(status int, body string) http.HandlerFunc {
		return ghttp.RespondWith(status, body, http.Header{"Content-Type": {"application/json"}})
	}

	It("returns the envelope data unmodified on success", func() {
		server.AppendHandlers(ghttp.CombineHandlers(
			ghttp.VerifyRequest(http.MethodGet, "/api/v1/curriculum/lesson/3"),
			respond(http.StatusOK, `{"success":true,"data":{"id":3,"phase_id":2,"title":"Concurrency","content":"# hi","extra":"ignored"},"timestamp":"2025-01-01T00:00:00Z"}`),
		))

		got, err := s.Execute[s.LessonDetail](ctx, client, "/api/v1/curriculum/lesson/3", s.RequestOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(s.LessonDetail{ID: 3, PhaseID: 2, Title: "Concurrency", Content: "# hi"}))
	})

	It("decodes into json.RawMessage without touching the payload", func() {
		server.AppendHandlers(respond(http.StatusOK, `{"success":true,"data":{"b":2,"a":[1,2]}}`))

		got, err := s.Execute[json.RawMessage](ctx, client, "/x", s.RequestOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(got)).To(Equal(`{"b":2,"a":[1,2]}`))
	})

	Describe("protocol failures", func() {
		It("uses the backend's error info and the HTTP status", func() {
			server.AppendHandlers(respond(http.StatusBadRequest,
				`{"success":false,"error":{"type":"validation_error","message":"invalid request","details":{"score":"must be between 0 and 100"}},"request_id":"req-1"}`))

			_, err := s.Execute[s.LessonProgress](ctx, client, "/p", s.RequestOptions{Method: http.MethodPost, Body: s.ProgressUpdate{Score: 150}})
			ce, ok := s.AsClientError(err)
			Expect(ok).To(BeTrue())
			Expect(ce.Status).To(Equal(http.StatusBadRequest))
			Expect(ce.Message).To(Equal("invalid request"))
			Expect(ce.Kind).To(Equal(s.KindValidation))
			Expect(ce.Details).To(HaveKeyWithValue("score", "must be between 0 and 100"))
			Expect(ce.RequestID).To(Equal("req-1"))
			Expect(ce.Transport()).To(BeFalse())
		})

		It("falls back to 'An error occurred' for a non-2xx status without error info", func() {
			server.AppendHandlers(respond(http.StatusInternalServerError, `{"success":false}`))

			_, err := s.Execute[s.Health](ctx, client, "/h", s.RequestOptions{})
			ce, ok := s.AsClientError(err)
			Expect(ok).To(BeTrue())
			Expect(ce.Message).To(Equal("An error occurred"))
			Expect(ce.Status).To(Equal(http.StatusInternalServerError))
			Expect(ce.Kind).To(BeEmpty())
		})

		It("falls back to 'Request failed' for a 2xx status with success=false", func() {
			server.AppendHandlers(respond(http.StatusOK, `{"success":false,"data":{"status":"ok"}}`))

			_, err := s.Execute[s.Health](ctx, client, "/h", s.RequestOptions{})
			ce, ok := s.AsClientError(err)
			Expect(ok).To(BeTrue())
			Expect(ce.Message).To(Equal("Request failed"))
			Expect(ce.Status).To(Equal(http.StatusOK))
		})

		It("fails a non-2xx status even when the envelope claims success", func() {
			server.AppendHandlers(respond(http.StatusNotFound, `{"success":true,"data":{"status":"ok"}}`))

			_, err := s.Execute[s.Health](ctx, client, "/h", s.RequestOptions{})
			Expect(s.StatusCode(err)).To(Equal(http.StatusNotFound))
			ce, _ := s.AsClientError(err)
			Expect(ce.Message).To(Equal("An error occurred"))
		})

		It("falls back when error info has an empty message", func() {
			server.AppendHandlers(respond(http.StatusConflict, `{"success":false,"error":{"type":"conflict","message":""}}`))

			_, err := s.Execute[s.Health](ctx, client, "/h", s.RequestOptions{})
			ce, _ := s.AsClientError(err)
			Expect(ce.Message).To(Equal("An error occurred"))
			Expect(ce.Kind).To(Equal("conflict"))
		})
	})

	Describe("transport failures", func() {
		It("reports status 0 when the server cannot be reached", func() {
			addr := server.URL()
			server.Close()
			c := s.New(s.Config{BaseURL: addr})

			_, err := s.Execute[s.Health](ctx, c, "/api/v1/health", s.RequestOptions{})
			ce, ok := s.AsClientError(err)
			Expect(ok).To(BeTrue())
			Expect(ce.Status).To(Equal(0))
			Expect(ce.Message).NotTo(BeEmpty())
			Expect(s.IsTransport(err)).To(BeTrue())
		})

		It("treats a malformed body as a transport failure", func() {
			server.AppendHandlers(ghttp.RespondWith(http.StatusOK, "<html>gateway</html>"))

			_, err := s.Execute[s.Health](ctx, client, "/h", s.RequestOptions{})
			ce, ok := s.AsClientError(err)
			Expect(ok).To(BeTrue())
			Expect(ce.Status).To(Equal(0))
			Expect(ce.Message).To(ContainSubstring("decode response envelope"))
			var syntaxErr *json.SyntaxError
			Expect(errors.As(err, &syntaxErr)).To(BeTrue())
		})

		It("treats a malformed error body as a transport failure too", func() {
			server.AppendHandlers(ghttp.RespondWith(http.StatusBadGateway, "Bad Gateway"))

			_, err := s.Execute[s.Health](ctx, client, "/h", s.RequestOptions{})
			Expect(s.StatusCode(err)).To(Equal(0))
		})

		It("reports cancellation with status 0 and keeps the cause", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			_, err := s.Execute[s.Health](cctx, client, "/h", s.RequestOptions{})
			Expect(s.IsTransport(err)).To(BeTrue())
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
			Expect(server.ReceivedRequests()).To(BeEmpty())
		})

		It("rejects bodies over the configured limit", func() {
			c := s.New(s.Config{BaseURL: server.URL(), MaxResponseBytes: 16})
			server.AppendHandlers(respond(http.StatusOK, `{"success":true,"data":{"status":"a long status value"}}`))

			_, err := s.Execute[s.Health](ctx, c, "/h", s.RequestOptions{})
			Expect(errors.Is(err, s.ErrResponseTooLarge)).To(BeTrue())
			Expect(s.StatusCode(err)).To(Equal(0))
		})

		It("names the oversized body once in the message", func() {
			c := s.New(s.Config{BaseURL: server.URL(), MaxResponseBytes: 16})
			server.AppendHandlers(respond(http.StatusOK, `{"success":true,"data":{"status":"a long status value"}}`))

			_, err := s.Execute[s.Health](ctx, c, "/h", s.RequestOptions{})
			Expect(err).To(MatchError("syllabus: response body too large (status 0)"))
		})

		It("reports a round trip that returns neither response nor error", func() {
			silent := func(s.RoundTrip) s.RoundTrip {
				return func(*http.Request) (*http.Response, error) { return nil, nil }
			}
			for _, mw := range [][]s.Middleware{
				{silent},
				{s.Logger(s.LoggerConfig{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}), silent},
				{s.Timeout(time.Second), silent},
				{s.Tracing(s.TracingConfig{}), silent},
			} {
				c := s.New(s.Config{BaseURL: server.URL()}, s.WithMiddleware(mw...))
				var (
					h   s.Health
					err error
				)
				Expect(func() {
					h, err = s.Execute[s.Health](ctx, c, "/h", s.RequestOptions{})
				}).NotTo(Panic())
				Expect(h).To(BeZero())
				Expect(s.IsTransport(err)).To(BeTrue())
				Expect(errors.Is(err, s.ErrNoResponse)).To(BeTrue())
			}
			Expect(server.ReceivedRequests()).To(BeEmpty())
		})

		It("reports a request body that cannot be encoded without sending anything", func() {
			_, err := s.Execute[s.Health](ctx, client, "/h", s.RequestOptions{Method: http.MethodPost, Body: make(chan int)})
			Expect(s.IsTransport(err)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("encode request body"))
			Expect(server.ReceivedRequests()).To(BeEmpty())
		})
	})

	Describe("contract violations", func() {
		DescribeTable("rejects a success envelope without usable data",
			func(body string) {
				server.AppendHandlers(respond(http.StatusOK, body))

				_, err := s.Execute[s.Health](ctx, client, "/h", s.RequestOptions{})
				Expect(errors.Is(err, s.ErrMissingData)).To(BeTrue())
				Expect(s.StatusCode(err)).To(Equal(0))
			},
			Entry("data absent", `{"success":true,"request_id":"r"}`),
			Entry("data null", `{"success":true,"data":null}`),
		)

		It("reports data of the wrong shape as a decode failure", func() {
			server.AppendHandlers(respond(http.StatusOK, `{"success":true,"data":[1,2,3],"request_id":"r9"}`))

			_, err := s.Execute[s.Health](ctx, client, "/h", s.RequestOptions{})
			ce, ok := s.AsClientError(err)
			Expect(ok).To(BeTrue())
			Expect(ce.Status).To(Equal(0))
			Expect(ce.RequestID).To(Equal("r9"))
			Expect(ce.Message).To(ContainSubstring("decode response data"))
		})
	})

	Describe("request construction", func() {
		It("sends JSON defaults and lets call-site headers win", func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyHeaderKV("Content-Type", "application/json"),
				ghttp.VerifyHeaderKV("Accept", "text/plain"),
				ghttp.VerifyHeaderKV("X-Trace", "abc"),
				respond(http.StatusOK, `{"success":true,"data":{"status":"ok"}}`),
			))

			_, err := s.Execute[s.Health](ctx, client, "/h", s.RequestOptions{
				Headers: map[string]string{"accept": "text/plain", "X-Trace": "abc"},
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("sends the configured user agent", func() {
			c := s.New(s.Config{BaseURL: server.URL(), UserAgent: "lesson-viewer/1.0"})
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyHeaderKV("User-Agent", "lesson-viewer/1.0"),
				respond(http.StatusOK, `{"success":true,"data":{"status":"ok"}}`),
			))

			_, err := s.Execute[s.Health](ctx, c, "/h", s.RequestOptions{})
			Expect(err).NotTo(HaveOccurred())
		})

		It("merges query values into the endpoint's query string", func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest(http.MethodGet, "/list", "filter=go&page=2"),
				respond(http.StatusOK, `{"success":true,"data":{"status":"ok"}}`),
			))

			_, err := s.Execute[s.Health](ctx, client, "list?filter=go", s.RequestOptions{Query: url.Values{"page": {"2"}}})
			Expect(err).NotTo(HaveOccurred())
		})

		It("encodes the body as JSON", func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest(http.MethodPost, "/p"),
				ghttp.VerifyJSON(`{"completed":true,"score":95}`),
				respond(http.StatusOK, `{"success":true,"data":{"user_id":"u1","lesson_id":"3","completed":true,"score":95}}`),
			))

			got, err := s.Execute[s.LessonProgress](ctx, client, "/p", s.RequestOptions{Method: "post", Body: s.ProgressUpdate{Completed: true, Score: 95}})
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Score).To(Equal(95.0))
		})
	})

	It("keeps concurrent calls independent", func() {
		server.RouteToHandler(http.MethodGet, "/echo", func(w http.ResponseWriter, r *http.Request) {
			n := r.URL.Query().Get("n")
			w.Header().Set("Content-Type", "application/json")
			if strings.HasSuffix(n, "3") {
				w.WriteHeader(http.StatusTeapot)
				_, _ = fmt.Fprintf(w, `{"success":false,"error":{"type":"teapot","message":"%s"}}`, n)
				return
			}
			_, _ = fmt.Fprintf(w, `{"success":true,"data":{"status":"%s"}}`, n)
		})

		var wg sync.WaitGroup
		results := make([]string, 20)
		errs := make([]error, 20)
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				h, err := s.Execute[s.Health](ctx, client, "/echo", s.RequestOptions{Query: url.Values{"n": {fmt.Sprint(i)}}})
				results[i], errs[i] = h.Status, err
			}(i)
		}
		wg.Wait()

		for i := 0; i < 20; i++ {
			if strings.HasSuffix(fmt.Sprint(i), "3") {
				Expect(s.StatusCode(errs[i])).To(Equal(http.StatusTeapot))
				Expect(results[i]).To(BeEmpty())
				continue
			}
			Expect(errs[i]).NotTo(HaveOccurred())
			Expect(results[i]).To(Equal(fmt.Sprint(i)))
		}
	})
})

var _ = Describe("MergeHeaders", func() {
	It("lets overrides win on conflict and keeps everything else", func() {
		h := s.MergeHeaders(map[string]string{"A": "1", "B": "2"}, map[string]string{"B": "3", "C": "4"})
		Expect(h).To(Equal(http.Header{"A": {"1"}, "B": {"3"}, "C": {"4"}}))
	})

	It("compares keys canonically", func() {
		h := s.MergeHeaders(s.DefaultHeaders(), map[string]string{"content-type": "text/csv"})
		Expect(h.Values("Content-Type")).To(Equal([]string{"text/csv"}))
		Expect(h.Get("Accept")).To(Equal("application/json"))
	})
})

var _ = Describe("New", func() {
	It("falls back to the default base URL", func() {
		Expect(s.New(s.Config{}).BaseURL()).To(Equal("http://localhost:8080"))
	})

	It("trims trailing slashes", func() {
		Expect(s.New(s.Config{BaseURL: "https://api.example.com/"}).BaseURL()).To(Equal("https://api.example.com"))
	})
})
