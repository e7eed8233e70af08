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
	"net/http"
)

// errUnknown stands in for a nil error passed to a renderer.
var errUnknown = errors.New(http.StatusText(http.StatusInternalServerError))

// Renderer turns uncaught errors into 500 responses in the format the client
// accepts. It is safe for concurrent use; its configuration is fixed at
// construction.
//
// Example:
//
//	renderer := errors.NewRenderer(
//		errors.WithDisplayDetails(true),
//		errors.WithRootPath("/srv/app"),
//		errors.WithHideRootPath(true),
//	)
//	renderer.ServeError(w, r, err)
type Renderer struct {
	cfg *config
}

// NewRenderer creates a renderer with the given options.
func NewRenderer(opts ...Option) *Renderer {
	return &Renderer{cfg: newConfig(opts)}
}

// DisplayDetails reports whether the renderer shows error details.
func (r *Renderer) DisplayDetails() bool {
	return r.cfg.displayDetails
}

// Redact replaces the root path in s with its placeholder when root path
// hiding is enabled, and returns s unchanged otherwise.
func (r *Renderer) Redact(s string) string {
	return r.cfg.redact(s)
}

// Render negotiates the content type from req, renders err, logs the error
// chain and returns a 500 response. The logged text always contains the full
// chain, whether or not details are displayed.
//
// A nil err renders as a generic "Internal Server Error".
//
// Errors:
//   - Returns [ErrUnsupportedContentType] if negotiation and rendering
//     disagree on the supported formats; nothing is logged in that case.
func (r *Renderer) Render(req *http.Request, err error) (Response, error) {
	if err == nil {
		err = errUnknown
	}

	contentType := DetermineContentTypeFromRequest(req)
	body, renderErr := r.RenderAs(contentType, err)
	if renderErr != nil {
		return Response{}, renderErr
	}

	var errorID string
	if r.cfg.errorID {
		errorID = r.cfg.errorIDGenerator()
	}

	r.cfg.writeToErrorLog(err, errorID)
	annotateSpan(req, err, errorID)

	response := Response{
		Status:      http.StatusInternalServerError,
		ContentType: contentType,
		Body:        []byte(body),
	}
	if errorID != "" {
		response = response.WithHeader(ErrorIDHeader, errorID)
	}

	if r.cfg.observer != nil {
		r.cfg.observer.ObserveRender(KindError, response.Status, contentType)
	}

	return response, nil
}

// RenderAs renders err in one format without negotiation, logging or
// observation. JSON, both XML types and HTML are supported.
//
// Errors:
//   - Returns [ErrUnsupportedContentType] for any other content type
func (r *Renderer) RenderAs(contentType ContentType, err error) (string, error) {
	if err == nil {
		err = errUnknown
	}

	switch contentType {
	case ContentTypeJSON:
		return r.cfg.renderJSON(err)
	case ContentTypeXML, ContentTypeTextXML:
		return r.cfg.renderXML(err), nil
	case ContentTypeHTML:
		return r.cfg.renderHTML(err)
	default:
		return "", &UnsupportedContentTypeError{ContentType: contentType}
	}
}

// ServeError renders err for req and writes the response to w.
//
// It panics if rendering fails, which only happens when the supported
// formats of negotiation and rendering have drifted apart.
func (r *Renderer) ServeError(w http.ResponseWriter, req *http.Request, err error) {
	response, renderErr := r.Render(req, err)
	if renderErr != nil {
		panic("errors: " + renderErr.Error())
	}

	if writeErr := response.Write(w); writeErr != nil {
		r.cfg.logger.Error("failed to write error response", "error", writeErr)
	}
}
