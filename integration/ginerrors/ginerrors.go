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

package ginerrors

import (
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"rivaas.dev/errorpages/errors"
	"rivaas.dev/errorpages/middleware/recovery"
)

// Handler renders gin errors with the errorpages renderers.
type Handler struct {
	renderer   *errors.Renderer
	notAllowed *errors.NotAllowed
	observer   recovery.PanicObserver
}

// Option configures a [Handler].
type Option func(*Handler)

// WithRenderer sets the renderer for errors and panics.
// Default: errors.NewRenderer()
func WithRenderer(renderer *errors.Renderer) Option {
	return func(h *Handler) {
		h.renderer = renderer
	}
}

// WithNotAllowed sets the renderer for 405 and OPTIONS responses.
// Default: errors.NewNotAllowed()
func WithNotAllowed(notAllowed *errors.NotAllowed) Option {
	return func(h *Handler) {
		h.notAllowed = notAllowed
	}
}

// WithPanicObserver is notified of every recovered panic.
func WithPanicObserver(observer recovery.PanicObserver) Option {
	return func(h *Handler) {
		h.observer = observer
	}
}

// New creates a [Handler].
func New(opts ...Option) *Handler {
	h := &Handler{}
	for _, opt := range opts {
		opt(h)
	}
	if h.renderer == nil {
		h.renderer = errors.NewRenderer()
	}
	if h.notAllowed == nil {
		h.notAllowed = errors.NewNotAllowed()
	}

	return h
}

// Register installs the handler on engine.
func (h *Handler) Register(engine *gin.Engine) {
	engine.HandleMethodNotAllowed = true
	engine.Use(h.Recovery(), h.Errors())
	engine.NoMethod(h.NoMethod)
}

// Recovery renders panics as error pages. gin's own stack dump is
// discarded; the renderer logs the error chain.
func (h *Handler) Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, h.recovered)
}

func (h *Handler) recovered(c *gin.Context, v any) {
	err := errors.FromPanic(v)
	if h.observer != nil {
		h.observer.ObservePanic(c.Request.Context())
	}

	if !c.Writer.Written() {
		h.renderer.ServeError(c.Writer, c.Request, err)
	}
	c.Abort()
}

// Errors renders the last error attached with c.Error once the handlers
// have run, unless a response was already written.
func (h *Handler) Errors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}
		h.renderer.ServeError(c.Writer, c.Request, last.Err)
	}
}

// NoMethod answers requests whose path has routes for other methods, using
// the Allow header gin computed.
func (h *Handler) NoMethod(c *gin.Context) {
	var methods []string
	for method := range strings.SplitSeq(c.Writer.Header().Get("Allow"), ",") {
		if method = strings.TrimSpace(method); method != "" {
			methods = append(methods, method)
		}
	}

	h.notAllowed.ServeNotAllowed(c.Writer, c.Request, methods)
	c.Abort()
}
