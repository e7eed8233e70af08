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

// Package metrics counts rendered error pages with OpenTelemetry instruments.
//
// A [Recorder] implements the errors.Observer interface, so every response
// produced by an errors.Renderer or errors.NotAllowed is counted by kind,
// status code and content type. It also counts recovered panics.
//
// Three providers are built in:
//
//   - [PrometheusProvider] (default): exposes a scrape endpoint via
//     [Recorder.Handler], backed by a private Prometheus registry
//   - [OTLPProvider]: pushes to an OTLP/HTTP collector
//   - [StdoutProvider]: periodically prints metrics, for development
//
// A caller-owned meter provider can be supplied with [WithMeterProvider].
//
// Example:
//
//	recorder := metrics.MustNew(metrics.WithServiceName("checkout"))
//	defer recorder.Shutdown(context.Background())
//
//	renderer := errors.NewRenderer(errors.WithObserver(recorder))
//	handler, _ := recorder.Handler()
//	mux.Handle("/metrics", handler)
package metrics
