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

// Package errors renders uncaught application errors and "method not allowed"
// conditions as HTTP responses.
//
// The package is independent of any HTTP framework. It picks an output format
// from the request's Accept header, renders a generic or detailed message in
// that format, writes the full error chain to a logger and returns a
// [Response] that the caller writes to the client.
//
// Supported formats:
//   - application/json (pretty-printed)
//   - application/xml and text/xml
//   - text/html (standalone page)
//   - text/plain (OPTIONS answers of [NotAllowed] only)
//
// # Quick Start
//
//	renderer := errors.NewRenderer(
//		errors.WithDisplayDetails(false),
//		errors.WithLogger(slog.Default()),
//	)
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//		if err := someOperation(); err != nil {
//			renderer.ServeError(w, r, err)
//			return
//		}
//	}
//
// Method not allowed:
//
//	notAllowed := errors.NewNotAllowed()
//	notAllowed.ServeNotAllowed(w, r, []string{http.MethodGet, http.MethodPost})
//
// # Content Negotiation
//
// [DetermineContentType] splits the Accept header on commas and returns the
// first entry of a fixed priority list (application/json, application/xml,
// text/xml, text/html) that appears in the header. The header's own order,
// q-values and wildcards are ignored. Vendor types such as
// application/vnd.api+json fall back to application/json or application/xml.
// Anything else renders as text/html.
//
// # Error Chains
//
// Errors are flattened into [Record] values by following [errors.Unwrap]
// links. Errors can expose extra information through optional interfaces:
//
//   - [Coder]: numeric error code
//   - [Locator]: originating file and line
//   - [StackTracer]: formatted stack trace
//
// [New], [Errorf], [WithStack] and [WithCode] build errors that carry all
// three.
//
// # Error IDs
//
// With [WithErrorID] every rendered error gets an ID, sent in the X-Error-ID
// header and logged as error_id. [WithErrorIDFormat] selects random UUIDs,
// time-ordered UUIDv7 or ULIDs.
package errors
