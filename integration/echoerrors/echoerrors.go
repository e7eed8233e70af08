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

package echoerrors

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"rivaas.dev/errorpages/errors"
	"rivaas.dev/errorpages/middleware/recovery"
)

// Handler renders echo errors with the errorpages renderers.
type Handler struct {
	renderer   *errors.Renderer
	notAllowed *errors.NotAllowed
	recoverer  echo.MiddlewareFunc
}

// Option configures a [Handler].
type Option func(*options)

type options struct {
	renderer   *errors.Renderer
	notAllowed *errors.NotAllowed
	recovery   []recovery.Option
}

// WithRenderer sets the renderer for errors and panics.
// Default: errors.NewRenderer()
func WithRenderer(renderer *errors.Renderer) Option {
	return func(o *options) {
		o.renderer = renderer
	}
}

// WithNotAllowed sets the renderer for 405 responses.
// Default: errors.NewNotAllowed()
func WithNotAllowed(notAllowed *errors.NotAllowed) Option {
	return func(o *options) {
		o.notAllowed = notAllowed
	}
}

// WithRecovery passes options to the recovery middleware.
func WithRecovery(opts ...recovery.Option) Option {
	return func(o *options) {
		o.recovery = append(o.recovery, opts...)
	}
}

// New creates a [Handler].
func New(opts ...Option) *Handler {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.renderer == nil {
		o.renderer = errors.NewRenderer()
	}
	if o.notAllowed == nil {
		o.notAllowed = errors.NewNotAllowed()
	}

	return &Handler{
		renderer:   o.renderer,
		notAllowed: o.notAllowed,
		recoverer:  echo.WrapMiddleware(recovery.New(append(o.recovery, recovery.WithRenderer(o.renderer))...)),
	}
}

// Register installs the handler on e.
func (h *Handler) Register(e *echo.Echo) {
	e.HTTPErrorHandler = h.HandleError
	e.Use(h.Recover())
}

// Recover returns the recovery middleware adapted to echo.
func (h *Handler) Recover() echo.MiddlewareFunc {
	return h.recoverer
}

// HandleError implements echo.HTTPErrorHandler.
func (h *Handler) HandleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !stderrors.As(err, &he) {
		h.renderer.ServeError(c.Response(), c.Request(), err)
		return
	}

	switch {
	case he.Code == http.StatusMethodNotAllowed:
		h.notAllowed.ServeNotAllowed(c.Response(), c.Request(), allowedMethods(c))
	case he.Code >= http.StatusInternalServerError:
		if he.Internal != nil {
			err = he.Internal
		}
		h.renderer.ServeError(c.Response(), c.Request(), err)
	default:
		c.Echo().DefaultHTTPErrorHandler(err, c)
	}
}

// allowedMethods reads the Allow list echo's router stored for the request.
func allowedMethods(c echo.Context) []string {
	allow, _ := c.Get(echo.ContextKeyHeaderAllow).(string)
	if allow == "" {
		allow = c.Response().Header().Get(echo.HeaderAllow)
	}

	var methods []string
	for method := range strings.SplitSeq(allow, ",") {
		if method = strings.TrimSpace(method); method != "" {
			methods = append(methods, method)
		}
	}

	return methods
}
