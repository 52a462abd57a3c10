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

// Package syllabustest provides an in-process fake of the curriculum and
// progress backend. It speaks the same envelope as the real service, keeps
// progress in memory, and can be told to fail specific routes.
package syllabustest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/jrgalyan/syllabus"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	maxBodyBytes    = 1 << 20
)

// Fault replaces the response of a route. When RawBody is set it is written
// verbatim (for malformed-body cases); otherwise a failure envelope is built
// from Info.
type Fault struct {
	Status  int
	Info    *syllabus.ErrorInfo
	RawBody string
}

// Config configures a Backend.
type Config struct {
	// Logger receives one line per request. nil uses slog.Default().
	Logger *slog.Logger

	// CORS, when non-nil, enables cross-origin access for browser front ends.
	CORS *CORSConfig
}

// Backend is the fake service. It is safe for concurrent use.
type Backend struct {
	st      *store
	logger  *slog.Logger
	router  *mux.Router
	handler http.Handler

	mu     sync.RWMutex
	faults map[string]Fault // "METHOD /path" -> fault
}

// NewBackend creates a Backend serving fx.
func NewBackend(fx Fixtures, cfg Config) *Backend {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	b := &Backend{
		st:     newStore(fx),
		logger: logger,
		router: mux.NewRouter(),
		faults: map[string]Fault{},
	}

	api := b.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", wrap(b.health)).Methods(http.MethodGet)
	api.HandleFunc("/curriculum", wrap(b.curriculum)).Methods(http.MethodGet)
	api.HandleFunc("/curriculum/lesson/{lessonId}", wrap(b.lesson)).Methods(http.MethodGet)
	api.HandleFunc("/courses", wrap(b.courses)).Methods(http.MethodGet)
	api.HandleFunc("/courses/{courseId}", wrap(b.course)).Methods(http.MethodGet)
	api.HandleFunc("/progress/{userId}", wrap(b.progress)).Methods(http.MethodGet)
	api.HandleFunc("/progress/{userId}/lesson/{lessonId}", wrap(b.updateProgress)).Methods(http.MethodPost)

	b.router.NotFoundHandler = wrap(func(*http.Request) (any, *apiError) {
		return nil, notFound("route not found")
	})
	b.router.MethodNotAllowedHandler = wrap(func(*http.Request) (any, *apiError) {
		return nil, &apiError{
			Status: http.StatusMethodNotAllowed,
			Info:   syllabus.ErrorInfo{Type: "method_not_allowed", Message: "method not allowed"},
		}
	})

	// outermost first: ids, access log, CORS, faults, routes
	var h http.Handler = b.router
	h = b.injectFaults(h)
	if cfg.CORS != nil {
		h = CORS(*cfg.CORS)(h)
	}
	h = b.accessLog(h)
	b.handler = b.requestIDs(h)
	return b
}

// ServeHTTP implements http.Handler.
func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) { b.handler.ServeHTTP(w, r) }

// NewServer starts an httptest.Server backed by a Backend serving fx. The
// caller must Close it.
func NewServer(fx Fixtures) (*httptest.Server, *Backend) {
	b := NewBackend(fx, Config{})
	return httptest.NewServer(b), b
}

// InjectFault makes every request for method and path answer with f until
// ClearFaults is called.
func (b *Backend) InjectFault(method, path string, f Fault) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.faults[strings.ToUpper(method)+" "+path] = f
}

// ClearFaults removes all injected faults.
func (b *Backend) ClearFaults() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.faults = map[string]Fault{}
}

func (b *Backend) injectFaults(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.RLock()
		f, ok := b.faults[r.Method+" "+r.URL.Path]
		b.mu.RUnlock()
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		status := f.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		if f.RawBody != "" {
			w.WriteHeader(status)
			_, _ = io.WriteString(w, f.RawBody)
			return
		}
		wrap(func(*http.Request) (any, *apiError) {
			ae := &apiError{Status: status}
			if f.Info != nil {
				ae.Info = *f.Info
			}
			return nil, ae
		})(w, r)
	})
}

// requestIDs echoes X-Request-Id or assigns one, and exposes it to handlers.
func (b *Backend) requestIDs(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(withRequestID(r.Context(), id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (b *Backend) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		b.logger.Info("request",
			slog.String("id", requestID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.String("duration", time.Since(start).String()),
		)
	})
}

func (b *Backend) health(*http.Request) (any, *apiError) {
	return syllabus.Health{Status: "ok", Version: b.st.fx.Version, Timestamp: time.Now().UTC().Format(time.RFC3339)}, nil
}

func (b *Backend) curriculum(*http.Request) (any, *apiError) {
	return b.st.fx.Curriculum, nil
}

func (b *Backend) lesson(r *http.Request) (any, *apiError) {
	raw := mux.Vars(r)["lessonId"]
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return nil, validation(map[string]string{"lessonId": "must be a positive integer"})
	}
	l, ok := b.st.lesson(id)
	if !ok {
		return nil, notFound("lesson not found")
	}
	return l, nil
}

func (b *Backend) courses(r *http.Request) (any, *apiError) {
	page, size, apiErr := pageFromQuery(r)
	if apiErr != nil {
		return nil, apiErr
	}
	return paginate(b.st.fx.Courses, page, size), nil
}

func (b *Backend) course(r *http.Request) (any, *apiError) {
	c, ok := b.st.course(mux.Vars(r)["courseId"])
	if !ok {
		return nil, notFound("course not found")
	}
	return c, nil
}

func (b *Backend) progress(r *http.Request) (any, *apiError) {
	page, size, apiErr := pageFromQuery(r)
	if apiErr != nil {
		return nil, apiErr
	}
	return paginate(b.st.userProgress(mux.Vars(r)["userId"]), page, size), nil
}

func (b *Backend) updateProgress(r *http.Request) (any, *apiError) {
	vars := mux.Vars(r)
	lessonID := vars["lessonId"]
	id, err := strconv.Atoi(lessonID)
	if err != nil {
		return nil, validation(map[string]string{"lessonId": "must be a positive integer"})
	}
	if _, ok := b.st.lesson(id); !ok {
		return nil, notFound("lesson not found")
	}

	var u syllabus.ProgressUpdate
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&u); err != nil {
		return nil, &apiError{
			Status: http.StatusBadRequest,
			Info:   syllabus.ErrorInfo{Type: "bad_json", Message: "request body must be {completed, score}"},
		}
	}
	if u.Score < 0 || u.Score > 100 {
		return nil, validation(map[string]string{"score": "must be between 0 and 100"})
	}
	return b.st.record(vars["userId"], lessonID, u), nil
}

// pageFromQuery reads page and page_size, applying defaults and the size cap.
func pageFromQuery(r *http.Request) (int, int, *apiError) {
	q := r.URL.Query()
	page, size := 1, defaultPageSize
	details := map[string]string{}
	if s := strings.TrimSpace(q.Get("page")); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			details["page"] = "must be a positive integer"
		}
		page = v
	}
	if s := strings.TrimSpace(q.Get("page_size")); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			details["page_size"] = "must be a positive integer"
		}
		size = v
	}
	if len(details) > 0 {
		return 0, 0, validation(details)
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size, nil
}

func paginate[T any](all []T, page, size int) syllabus.Page[T] {
	total := len(all)
	pages := (total + size - 1) / size
	// pages past the end are empty; checked before multiplying so huge page
	// numbers cannot overflow
	start := total
	if page-1 < pages {
		start = (page - 1) * size
	}
	end := start + size
	if end > total {
		end = total
	}
	items := make([]T, end-start)
	copy(items, all[start:end])
	return syllabus.Page[T]{
		Items: items,
		Pagination: syllabus.Pagination{
			Page:       page,
			PageSize:   size,
			TotalItems: total,
			TotalPages: pages,
			HasNext:    page < pages,
			HasPrev:    page > 1,
		},
	}
}
