// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Response represents a rendered error response.
// It contains all components needed to write an HTTP error response.
// Responses are values: renderers build a new one per call and never modify
// one they have returned.
//
// Example:
//
//	response, err := renderer.Render(req, appErr)
//	if err != nil {
//		return err
//	}
//	return response.Write(w)
type Response struct {
	// Status is the HTTP status code.
	Status int

	// ContentType is the Content-Type header value.
	ContentType ContentType

	// Body is the rendered response body.
	Body []byte

	// Headers contains additional headers to set (optional).
	Headers http.Header
}

// WithHeader returns a copy of the response with the header key set to value.
// The receiver is not modified.
func (r Response) WithHeader(key, value string) Response {
	headers := make(http.Header, len(r.Headers)+1)
	for k, v := range r.Headers {
		headers[k] = append([]string(nil), v...)
	}
	headers.Set(key, value)
	r.Headers = headers

	return r
}

// Write sends the response: headers, status code, then body.
func (r Response) Write(w http.ResponseWriter) error {
	header := w.Header()
	for k, v := range r.Headers {
		header.Del(k)
		for _, val := range v {
			header.Add(k, val)
		}
	}
	header.Set("Content-Type", string(r.ContentType))
	w.WriteHeader(r.Status)

	if _, err := w.Write(r.Body); err != nil {
		return fmt.Errorf("write error response: %w", err)
	}

	return nil
}

// ErrUnsupportedContentType is matched by [UnsupportedContentTypeError]
// through [errors.Is]. It means a renderer was asked for a content type
// outside its format set, which negotiation never produces.
var ErrUnsupportedContentType = errors.New("unsupported content type")

// UnsupportedContentTypeError reports the content type a renderer could not
// produce.
type UnsupportedContentTypeError struct {
	ContentType ContentType
}

func (e *UnsupportedContentTypeError) Error() string {
	return "cannot render unknown content type " + string(e.ContentType)
}

// Is reports whether target is [ErrUnsupportedContentType].
func (e *UnsupportedContentTypeError) Is(target error) bool {
	return target == ErrUnsupportedContentType
}

// Observer is notified of every rendered response.
// Implementations must be safe for concurrent use.
type Observer interface {
	// ObserveRender is called with the renderer kind ("error" or
	// "not_allowed"), the response status and its content type.
	ObserveRender(kind string, status int, contentType ContentType)
}

// Renderer kinds passed to [Observer].
const (
	KindError      = "error"
	KindNotAllowed = "not_allowed"
)
