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
	"log/slog"
	"os"

	"github.com/google/uuid"
)

const (
	// DefaultRootPathPlaceholder replaces the root path when it is hidden.
	DefaultRootPathPlaceholder = "{ROOT}"

	// DefaultTitle is the title of rendered error pages.
	DefaultTitle = "Application Runtime Error"

	// ErrorIDHeader carries the error ID when error IDs are enabled.
	ErrorIDHeader = "X-Error-ID"
)

// Option defines functional options for [Renderer] and [NotAllowed].
type Option func(*config)

// config holds the immutable rendering configuration.
type config struct {
	// displayDetails renders the error chain instead of a generic message
	displayDetails bool

	// rootPath is redacted from HTML and logged text when hideRootPath is set
	rootPath            string
	hideRootPath        bool
	rootPathPlaceholder string

	// title of HTML error pages and the generic message
	title string

	// logger receives the plain-text error chain
	logger Logger

	// observer is notified of every rendered response (optional)
	observer Observer

	// errorID enables X-Error-ID headers and error_id log attributes
	errorID          bool
	errorIDGenerator func() string
}

// defaultConfig returns the default configuration.
func defaultConfig() *config {
	return &config{
		rootPathPlaceholder: DefaultRootPathPlaceholder,
		title:               DefaultTitle,
		errorIDGenerator:    uuid.NewString,
	}
}

// newConfig applies opts over the defaults. A missing logger becomes a
// text logger on stderr.
func newConfig(opts []Option) *config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	return cfg
}

// WithDisplayDetails renders the full error chain (type, code, message, file,
// line and trace of every link) instead of a generic message.
// Default: false
func WithDisplayDetails(enabled bool) Option {
	return func(cfg *config) {
		cfg.displayDetails = enabled
	}
}

// WithRootPath sets the application root path. It is only redacted when
// [WithHideRootPath] is enabled.
func WithRootPath(path string) Option {
	return func(cfg *config) {
		cfg.rootPath = path
	}
}

// WithHideRootPath replaces every occurrence of the root path in rendered
// HTML and logged text with the placeholder.
// Default: false
func WithHideRootPath(hide bool) Option {
	return func(cfg *config) {
		cfg.hideRootPath = hide
	}
}

// WithRootPathPlaceholder sets the root path replacement.
// Default: "{ROOT}"
func WithRootPathPlaceholder(placeholder string) Option {
	return func(cfg *config) {
		cfg.rootPathPlaceholder = placeholder
	}
}

// WithTitle sets the HTML page title and the generic message prefix.
// Default: "Application Runtime Error"
func WithTitle(title string) Option {
	return func(cfg *config) {
		if title != "" {
			cfg.title = title
		}
	}
}

// WithLogger sets the logger that receives the plain-text error chain.
// [*slog.Logger] satisfies [Logger]. Passing nil keeps the default stderr
// text logger.
//
// Example:
//
//	errors.NewRenderer(errors.WithLogger(slog.Default()))
func WithLogger(logger Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithObserver sets an observer notified of every rendered response.
func WithObserver(observer Observer) Option {
	return func(cfg *config) {
		cfg.observer = observer
	}
}

// WithErrorID adds a unique ID to every rendered error, sent in the
// X-Error-ID header and logged as error_id.
// Default: false
func WithErrorID(enabled bool) Option {
	return func(cfg *config) {
		cfg.errorID = enabled
	}
}

// WithErrorIDGenerator sets the error ID generator and enables error IDs.
// Default: random UUIDs.
func WithErrorIDGenerator(generate func() string) Option {
	return func(cfg *config) {
		if generate != nil {
			cfg.errorIDGenerator = generate
			cfg.errorID = true
		}
	}
}

// Settings is the declarative form of the rendering options, suitable for
// binding from configuration files.
type Settings struct {
	DisplayErrorDetails bool
	RootPath            string
	HideRootPath        bool
	RootPathPlaceholder string
	ErrorID             bool
	IDFormat            IDFormat
}

// Options converts the settings into options. An empty placeholder keeps the
// default. IDFormat only applies when ErrorID is set.
func (s Settings) Options() []Option {
	opts := []Option{
		WithDisplayDetails(s.DisplayErrorDetails),
		WithRootPath(s.RootPath),
		WithHideRootPath(s.HideRootPath),
		WithErrorID(s.ErrorID),
	}
	if s.RootPathPlaceholder != "" {
		opts = append(opts, WithRootPathPlaceholder(s.RootPathPlaceholder))
	}
	if s.ErrorID && s.IDFormat != "" {
		opts = append(opts, WithErrorIDFormat(s.IDFormat))
	}

	return opts
}

// WithSettings applies all settings at once.
func WithSettings(s Settings) Option {
	return func(cfg *config) {
		for _, opt := range s.Options() {
			opt(cfg)
		}
	}
}
