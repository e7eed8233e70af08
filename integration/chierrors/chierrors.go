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

package chierrors

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"rivaas.dev/errorpages/errors"
	"rivaas.dev/errorpages/middleware/recovery"
)

// methods are probed in this order when computing the Allow header.
var methods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodConnect,
	http.MethodOptions,
	http.MethodTrace,
}

// HandlerFunc is an http.HandlerFunc that returns an error.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Errors holds the renderers shared by every handler it creates.
type Errors struct {
	renderer   *errors.Renderer
	notAllowed *errors.NotAllowed
	recoverer  func(http.Handler) http.Handler
}

// Option configures [Errors].
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

// WithNotAllowed sets the renderer for 405 and OPTIONS responses.
// Default: errors.NewNotAllowed()
func WithNotAllowed(notAllowed *errors.NotAllowed) Option {
	return func(o *options) {
		o.notAllowed = notAllowed
	}
}

// WithRecovery passes options to the recovery middleware. The renderer is
// always the one set with [WithRenderer].
func WithRecovery(opts ...recovery.Option) Option {
	return func(o *options) {
		o.recovery = append(o.recovery, opts...)
	}
}

// New creates an [Errors] with the given options.
func New(opts ...Option) *Errors {
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

	return &Errors{
		renderer:   o.renderer,
		notAllowed: o.notAllowed,
		recoverer:  recovery.New(append(o.recovery, recovery.WithRenderer(o.renderer))...),
	}
}

// Mount installs [Errors.Recoverer] and [Errors.MethodNotAllowed] on mux.
// chi requires middleware before routes, so call it first.
func (e *Errors) Mount(mux *chi.Mux) {
	mux.Use(e.Recoverer)
	mux.MethodNotAllowed(e.MethodNotAllowed(mux))
}

// Recoverer renders panics as error pages.
func (e *Errors) Recoverer(next http.Handler) http.Handler {
	return e.recoverer(next)
}

// MethodNotAllowed answers requests whose path routes allows under other
// methods. OPTIONS requests get 200 and the list of allowed methods.
func (e *Errors) MethodNotAllowed(routes chi.Routes) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e.notAllowed.ServeNotAllowed(w, r, AllowedMethods(routes, requestPath(r)))
	}
}

// Handle adapts fn, rendering a returned error as a 500 error page.
func (e *Errors) Handle(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			e.renderer.ServeError(w, r, err)
		}
	}
}

// AllowedMethods returns the methods routes can serve for path, in the
// order GET, HEAD, POST, PUT, PATCH, DELETE, CONNECT, OPTIONS, TRACE.
func AllowedMethods(routes chi.Routes, path string) []string {
	var allowed []string
	for _, method := range methods {
		if routes.Match(chi.NewRouteContext(), method, path) {
			allowed = append(allowed, method)
		}
	}

	return allowed
}

func requestPath(r *http.Request) string {
	if r.URL.RawPath != "" {
		return r.URL.RawPath
	}

	return r.URL.Path
}
