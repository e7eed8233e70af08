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
	"io"
	"log/slog"
	"os"

	"rivaas.dev/errorpages/errors"
)

// Option configures the recovery middleware.
type Option func(*config)

// WithRenderer sets the renderer used for the error page.
//
// Example:
//
//	recovery.New(recovery.WithRenderer(errors.NewRenderer(errors.WithDisplayDetails(true))))
func WithRenderer(renderer *errors.Renderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.renderer = renderer
		}
	}
}

// WithLogger sets the logger for the "panic recovered" entry.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithoutLogging disables the "panic recovered" entry. The renderer still
// writes its own error log.
func WithoutLogging() Option {
	return func(cfg *config) {
		cfg.logger = nil
	}
}

// WithStackTrace enables or disables the stack in the log entry.
// Default: true
func WithStackTrace(enabled bool) Option {
	return func(cfg *config) {
		cfg.stackTrace = enabled
	}
}

// WithMaxFrames limits how many stack frames are logged. Values below one
// are ignored.
// Default: 32
func WithMaxFrames(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxFrames = n
		}
	}
}

// WithPrettyStack controls whether the stack is printed colorized to stderr.
// By default it is when stderr is a terminal, and logged compactly otherwise.
//
// Example:
//
//	recovery.New(recovery.WithPrettyStack(false)) // CI and tests
func WithPrettyStack(enabled bool) Option {
	return func(cfg *config) {
		cfg.prettyStack = &enabled
	}
}

// WithStackOutput sets where pretty stacks are printed.
// Default: os.Stderr
func WithStackOutput(w io.Writer) Option {
	return func(cfg *config) {
		if w == nil {
			w = os.Stderr
		}
		cfg.stackOutput = w
	}
}

// WithObserver is notified of every recovered panic.
func WithObserver(observer PanicObserver) Option {
	return func(cfg *config) {
		cfg.observer = observer
	}
}
