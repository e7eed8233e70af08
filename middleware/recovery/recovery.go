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

package recovery

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/term"

	"rivaas.dev/errorpages/errors"
)

// PanicObserver is notified of recovered panics.
type PanicObserver interface {
	ObservePanic(ctx context.Context)
}

type config struct {
	renderer    *errors.Renderer
	logger      *slog.Logger
	observer    PanicObserver
	stackOutput io.Writer
	prettyStack *bool
	stackTrace  bool
	maxFrames   int
}

func defaultConfig() *config {
	return &config{
		logger:      slog.Default(),
		stackOutput: os.Stderr,
		stackTrace:  true,
		maxFrames:   32,
	}
}

// New returns middleware that recovers panics and renders them as a 500
// error page.
//
// If the handler already started the response, nothing more is written and
// the panic is only logged.
func New(opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.renderer == nil {
		cfg.renderer = errors.NewRenderer()
	}
	pretty := cfg.prettyStack != nil && *cfg.prettyStack
	if cfg.prettyStack == nil {
		pretty = isTerminal(cfg.stackOutput)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{ResponseWriter: w}

			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler { //nolint:errorlint // Sentinel panic value
					panic(v)
				}

				err := errors.FromPanic(v)
				cfg.handle(rw, r, err, pretty)
			}()

			next.ServeHTTP(rw, r)
		})
	}
}

func (cfg *config) handle(rw *responseWriter, r *http.Request, err error, pretty bool) {
	if span := trace.SpanFromContext(r.Context()); span.IsRecording() {
		span.SetAttributes(attribute.Bool("exception.escaped", true))
	}
	if cfg.observer != nil {
		cfg.observer.ObservePanic(r.Context())
	}

	cfg.log(r, err, rw.wroteHeader, pretty)

	if rw.wroteHeader {
		return
	}
	cfg.renderer.ServeError(rw, r, err)
}

func (cfg *config) log(r *http.Request, err error, started bool, pretty bool) {
	if cfg.logger == nil {
		return
	}

	message := cfg.renderer.Redact(err.Error())
	args := []any{
		"error", message,
		"method", r.Method,
		"path", r.URL.Path,
	}
	if started {
		args = append(args, "response_started", true)
	}

	var frames []stackFrame
	if cfg.stackTrace {
		frames = parseFrames(err, cfg.maxFrames)
		for i := range frames {
			frames[i].File = cfg.renderer.Redact(frames[i].File)
		}
		if !pretty {
			args = append(args, "frames", len(frames), "stack trace", compactFrames(frames))
		}
	}

	cfg.logger.Error("panic recovered", args...)

	if pretty && len(frames) > 0 {
		printColorizedStack(cfg.stackOutput, message, frames)
	}
}

// isTerminal reports whether w is a terminal file.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}

// responseWriter records whether the response has started.
type responseWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("write response: %w", err)
	}

	return n, nil
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
