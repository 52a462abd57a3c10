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
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/jrgalyan/syllabus"
)

// apiError is a failure a handler wants reported in the envelope.
type apiError struct {
	Status int
	Info   syllabus.ErrorInfo
}

func notFound(msg string) *apiError {
	return &apiError{Status: http.StatusNotFound, Info: syllabus.ErrorInfo{Type: syllabus.KindNotFound, Message: msg}}
}

func validation(details map[string]string) *apiError {
	return &apiError{
		Status: http.StatusBadRequest,
		Info:   syllabus.ErrorInfo{Type: syllabus.KindValidation, Message: "invalid request", Details: details},
	}
}

// handlerFunc returns the data for a success envelope or the failure to report.
type handlerFunc func(r *http.Request) (any, *apiError)

// wrap adapts h to net/http, writing every outcome as an envelope.
func wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, apiErr := h(r)
		env := syllabus.Envelope[any]{
			RequestID: requestID(r.Context()),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		status := http.StatusOK
		if apiErr != nil {
			status = apiErr.Status
			info := apiErr.Info
			env.Error = &info
		} else {
			env.Success = true
			env.Data = data
		}
		writeJSON(w, status, env)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("error writing response", slog.String("error", err.Error()))
	}
}

type ctxKey struct{}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
