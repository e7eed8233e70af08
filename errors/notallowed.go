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
	"net/http"
	"strings"
)

// NotAllowed answers requests whose method a route does not support.
//
// OPTIONS requests get 200 with a text/plain list of the allowed methods and
// no negotiation. Every other method gets 405 in the negotiated format. Both
// carry an Allow header.
//
// Example:
//
//	notAllowed := errors.NewNotAllowed()
//	notAllowed.ServeNotAllowed(w, r, []string{"GET", "POST"})
type NotAllowed struct {
	cfg *config
}

// NewNotAllowed creates a not-allowed renderer. Only [WithLogger] and
// [WithObserver] affect it; the bodies have no details, paths or IDs.
// [Renderer.NotAllowed] builds one from an error renderer's logger and
// observer.
func NewNotAllowed(opts ...Option) *NotAllowed {
	return &NotAllowed{cfg: newConfig(opts)}
}

// NotAllowed returns a not-allowed renderer with the logger and observer of r.
func (r *Renderer) NotAllowed() *NotAllowed {
	return NewNotAllowed(WithLogger(r.cfg.logger), WithObserver(r.cfg.observer))
}

// Render builds the response for req given the methods the route allows.
//
// Errors:
//   - Returns [ErrUnsupportedContentType] if negotiation and rendering
//     disagree on the supported formats
func (n *NotAllowed) Render(req *http.Request, methods []string) (Response, error) {
	allow := strings.Join(methods, ", ")

	var (
		status      int
		contentType ContentType
	)
	if req != nil && req.Method == http.MethodOptions {
		status = http.StatusOK
		contentType = ContentTypePlain
	} else {
		status = http.StatusMethodNotAllowed
		contentType = DetermineContentTypeFromRequest(req)
	}

	body, err := n.RenderAs(contentType, methods)
	if err != nil {
		return Response{}, err
	}

	response := Response{
		Status:      status,
		ContentType: contentType,
		Body:        []byte(body),
	}.WithHeader("Allow", allow)

	if n.cfg.observer != nil {
		n.cfg.observer.ObserveRender(KindNotAllowed, status, contentType)
	}

	return response, nil
}

// RenderAs renders the allowed-methods message in one format. Plain text,
// JSON, both XML types and HTML are supported.
//
// Errors:
//   - Returns [ErrUnsupportedContentType] for any other content type
func (n *NotAllowed) RenderAs(contentType ContentType, methods []string) (string, error) {
	allow := strings.Join(methods, ", ")

	switch contentType {
	case ContentTypePlain:
		return "Allowed methods: " + allow, nil
	case ContentTypeJSON:
		return renderNotAllowedJSON(allow)
	case ContentTypeXML, ContentTypeTextXML:
		return renderNotAllowedXML(allow), nil
	case ContentTypeHTML:
		return renderNotAllowedHTML(allow)
	default:
		return "", &UnsupportedContentTypeError{ContentType: contentType}
	}
}

// ServeNotAllowed renders and writes the response for req.
//
// It panics if rendering fails, which only happens when the supported
// formats of negotiation and rendering have drifted apart.
func (n *NotAllowed) ServeNotAllowed(w http.ResponseWriter, req *http.Request, methods []string) {
	response, err := n.Render(req, methods)
	if err != nil {
		panic("errors: " + err.Error())
	}

	if writeErr := response.Write(w); writeErr != nil {
		n.cfg.logger.Error("failed to write not allowed response", "error", writeErr)
	}
}

// Handler returns an [http.Handler] that answers every request as not
// allowed for the given methods.
//
// Example:
//
//	mux.Handle("/users", notAllowed.Handler(http.MethodGet, http.MethodPost))
func (n *NotAllowed) Handler(methods ...string) http.Handler {
	allowed := append([]string(nil), methods...)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n.ServeNotAllowed(w, r, allowed)
	})
}
