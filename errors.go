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
	"errors"
	"fmt"
)

// Error kinds the backend is known to send in ErrorInfo.Type. The set is open;
// compare against these but expect others.
const (
	KindValidation = "validation_error"
	KindNotFound   = "not_found"
	KindInternal   = "internal_error"
)

var (
	// ErrMissingData is wrapped by the ClientError returned when the backend
	// reports success but the envelope carries no data.
	ErrMissingData = errors.New("response envelope has no data")

	// ErrResponseTooLarge is wrapped by the ClientError returned when a response
	// body exceeds Config.MaxResponseBytes.
	ErrResponseTooLarge = errors.New("response body too large")

	// ErrNoResponse is wrapped by the ClientError returned when the round trip
	// reports neither a response nor an error.
	ErrNoResponse = errors.New("no response")
)

// ClientError is the single error type produced by Execute. Status is the HTTP
// status of the response, or 0 when no usable response was obtained (network
// failure, cancellation, undecodable body). Kind and Details are copied from the
// backend's ErrorInfo when one was decoded.
type ClientError struct {
	Message   string
	Status    int
	Kind      string
	Details   map[string]string
	RequestID string

	cause error
}

func (e *ClientError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("syllabus: %s (status %d, %s)", e.Message, e.Status, e.Kind)
	}
	return fmt.Sprintf("syllabus: %s (status %d)", e.Message, e.Status)
}

// Unwrap returns the underlying transport or decode error, if any.
func (e *ClientError) Unwrap() error { return e.cause }

// Transport reports whether the failure happened before a response could be
// interpreted, i.e. Status is 0.
func (e *ClientError) Transport() bool { return e.Status == 0 }

// AsClientError extracts a *ClientError from err's chain.
func AsClientError(err error) (*ClientError, bool) {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsTransport reports whether err is a ClientError with Status 0.
func IsTransport(err error) bool {
	ce, ok := AsClientError(err)
	return ok && ce.Transport()
}

// StatusCode returns the Status of a ClientError in err's chain, or 0.
func StatusCode(err error) int {
	if ce, ok := AsClientError(err); ok {
		return ce.Status
	}
	return 0
}

// transportError builds the Status 0 error for a failure that produced no
// interpretable response.
func transportError(err error) *ClientError {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	if msg == "" {
		msg = "Network error"
	}
	return &ClientError{Message: msg, cause: err}
}

// protocolError builds the error for a response the backend flagged as failed.
// The fallback message depends on whether the HTTP status itself was a success.
func protocolError(status int, info *ErrorInfo, requestID string) *ClientError {
	ce := &ClientError{Status: status, RequestID: requestID}
	if info != nil {
		ce.Message = info.Message
		ce.Kind = info.Type
		if len(info.Details) > 0 {
			ce.Details = make(map[string]string, len(info.Details))
			for k, v := range info.Details {
				ce.Details[k] = v
			}
		}
	}
	if ce.Message == "" {
		if isSuccessStatus(status) {
			ce.Message = "Request failed"
		} else {
			ce.Message = "An error occurred"
		}
	}
	return ce
}

func isSuccessStatus(code int) bool { return code >= 200 && code < 300 }
