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

// Package logging provides the structured error log for rendered error
// pages.
//
// A [Logger] satisfies the Logger interface of rivaas.dev/errorpages/errors,
// so the plain-text error chain of every rendered 500 response lands in it
// at error level:
//
//	logger := logging.MustNew(logging.WithConsoleHandler())
//	defer logger.Shutdown(context.Background())
//
//	renderer := errors.NewRenderer(errors.WithLogger(logger))
//
// # Handlers
//
// JSON (default) and text use the slog handlers. The console handler prints
// colored single lines and indents the remaining lines of multi-line
// messages, which keeps error chains readable in a terminal.
//
// # Log Files
//
// [WithRotatingFile] adds a size-rotated file next to the configured output:
//
//	logger := logging.MustNew(
//	    logging.WithJSONHandler(),
//	    logging.WithRotatingFile(logging.RotationConfig{
//	        Filename:   "/var/log/app/errors.log",
//	        MaxSizeMB:  50,
//	        MaxBackups: 5,
//	    }),
//	)
//
// # Zap
//
// [WithZap] routes entries into an existing zap logger instead of an slog
// handler.
//
// # Configuration
//
// [ParseLevel] and [ParseHandlerType] turn configuration strings into
// options and report bad values with [ErrInvalidLevel] and
// [ErrInvalidHandler].
//
// # Sensitive Data Redaction
//
// Values of the keys password, token, secret, api_key and authorization are
// replaced with ***REDACTED*** by every handler. Additional sanitization can
// be configured using [WithReplaceAttr].
package logging
