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

// Package recovery provides net/http middleware that turns panics in request
// handlers into rendered error pages.
//
// A recovered value is converted with errors.FromPanic, so the error page and
// the error log carry the panic site and the stack of the panicking
// goroutine. The response is negotiated and rendered by an errors.Renderer.
//
// # Basic Usage
//
//	mux := http.NewServeMux()
//	handler := recovery.New()(mux)
//
// Register it first in the middleware chain to catch panics from everything
// after it.
//
// # Logging
//
// Each panic produces two entries: the renderer logs the error chain, and
// the middleware logs "panic recovered" with the request method, path and
// stack frames. WithoutLogging drops the second one. Both are redacted with
// the renderer's root path settings.
//
// # Configuration Options
//
//   - WithRenderer: renderer for the error page (default: errors.NewRenderer())
//   - WithLogger: logger for the "panic recovered" entry
//   - WithoutLogging: disable that entry
//   - WithStackTrace: include the stack in that entry (default: true)
//   - WithMaxFrames: limit the logged frames (default: 32)
//   - WithPrettyStack: colorized stack on stderr instead of a log attribute
//   - WithObserver: count recovered panics, for example with a metrics.Recorder
//
// # OpenTelemetry Integration
//
// The renderer records the error on the request span. The middleware
// additionally sets exception.escaped=true, which only panics carry.
//
// http.ErrAbortHandler is re-panicked so net/http can abort the response.
package recovery
