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

package metrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	rerrors "rivaas.dev/errorpages/errors"
)

// Instrument names. Prometheus exports them with a _total suffix.
const (
	RendersMetric = "errorpages_renders"
	PanicsMetric  = "errorpages_panics"
)

// Attribute keys recorded with every render.
const (
	AttrKind        = "kind"
	AttrStatus      = "http.response.status_code"
	AttrContentType = "content_type"
	AttrService     = "service.name"
)

const instrumentationName = "rivaas.dev/errorpages/metrics"

// Provider names a built-in metrics backend.
type Provider string

const (
	// PrometheusProvider serves metrics for scraping (default).
	PrometheusProvider Provider = "prometheus"
	// OTLPProvider pushes metrics to an OTLP/HTTP collector.
	OTLPProvider Provider = "otlp"
	// StdoutProvider prints metrics periodically.
	StdoutProvider Provider = "stdout"
)

// ErrNoHandler is returned by [Recorder.Handler] for providers that do not
// serve a scrape endpoint.
var ErrNoHandler = errors.New("metrics handler only available with the prometheus provider")

// Recorder counts rendered error responses. It implements errors.Observer.
// All methods are safe for concurrent use.
type Recorder struct {
	meter         metric.Meter
	meterProvider metric.MeterProvider
	registry      *promclient.Registry
	handler       http.Handler
	logger        *slog.Logger

	renders metric.Int64Counter
	panics  metric.Int64Counter

	serviceAttr attribute.KeyValue

	provider            Provider
	providerSetCount    int
	otlpEndpoint        string
	stdoutWriter        io.Writer
	exportInterval      time.Duration
	serviceName         string
	customMeterProvider bool
	registerGlobal      bool
	validationErrors    []error

	isShuttingDown atomic.Bool
}

var _ rerrors.Observer = (*Recorder)(nil)

// New creates a [Recorder] with the given options.
func New(opts ...Option) (*Recorder, error) {
	r := &Recorder{
		provider:       PrometheusProvider,
		exportInterval: 30 * time.Second,
		serviceName:    "errorpages",
		logger:         slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := r.initializeProvider(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return r, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize metrics: %v", err))
	}

	return r
}

func (r *Recorder) validate() error {
	errs := r.validationErrors
	if r.providerSetCount > 1 {
		errs = append(errs, errors.New("conflicting provider options: only one of WithPrometheus, WithOTLP or WithStdout can be used"))
	}
	if r.serviceName == "" {
		errs = append(errs, errors.New("service name cannot be empty"))
	}
	if r.exportInterval <= 0 {
		errs = append(errs, fmt.Errorf("export interval must be positive, got %s", r.exportInterval))
	}
	switch r.provider {
	case PrometheusProvider, OTLPProvider, StdoutProvider:
	default:
		errs = append(errs, fmt.Errorf("unsupported metrics provider: %s", r.provider))
	}

	return errors.Join(errs...)
}

func (r *Recorder) initializeInstruments() error {
	r.meter = r.meterProvider.Meter(instrumentationName)
	r.serviceAttr = attribute.String(AttrService, r.serviceName)

	var err error
	r.renders, err = r.meter.Int64Counter(
		RendersMetric,
		metric.WithDescription("Number of rendered error responses"),
	)
	if err != nil {
		return fmt.Errorf("failed to create renders counter: %w", err)
	}

	r.panics, err = r.meter.Int64Counter(
		PanicsMetric,
		metric.WithDescription("Number of recovered panics"),
	)
	if err != nil {
		return fmt.Errorf("failed to create panics counter: %w", err)
	}

	return nil
}

// ObserveRender implements errors.Observer.
func (r *Recorder) ObserveRender(kind string, status int, contentType rerrors.ContentType) {
	if r.isShuttingDown.Load() {
		return
	}

	r.renders.Add(context.Background(), 1, metric.WithAttributes(
		r.serviceAttr,
		attribute.String(AttrKind, kind),
		attribute.String(AttrStatus, strconv.Itoa(status)),
		attribute.String(AttrContentType, string(contentType)),
	))
}

// ObservePanic counts one recovered panic.
func (r *Recorder) ObservePanic(ctx context.Context) {
	if r.isShuttingDown.Load() {
		return
	}

	r.panics.Add(ctx, 1, metric.WithAttributes(r.serviceAttr))
}

// Handler returns the Prometheus scrape handler.
//
// Errors:
//   - [ErrNoHandler] unless the recorder uses [PrometheusProvider]
func (r *Recorder) Handler() (http.Handler, error) {
	if r.handler == nil {
		return nil, fmt.Errorf("%w, current provider: %s", ErrNoHandler, r.Provider())
	}

	return r.handler, nil
}

// Provider returns the configured provider, or "" for a caller-owned meter
// provider.
func (r *Recorder) Provider() Provider {
	if r.customMeterProvider {
		return ""
	}

	return r.provider
}

// ServiceName returns the service.name attribute value.
func (r *Recorder) ServiceName() string {
	return r.serviceName
}

// ForceFlush exports pending data for push providers.
func (r *Recorder) ForceFlush(ctx context.Context) error {
	if r.isShuttingDown.Load() {
		return nil
	}
	mp, ok := r.meterProvider.(*sdkmetric.MeterProvider)
	if !ok || r.customMeterProvider {
		return nil
	}
	if err := mp.ForceFlush(ctx); err != nil {
		return fmt.Errorf("metrics force flush: %w", err)
	}

	return nil
}

// Shutdown flushes and stops the meter provider. A caller-owned provider is
// left running. Shutdown is idempotent.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if !r.isShuttingDown.CompareAndSwap(false, true) {
		return nil
	}
	if r.customMeterProvider {
		return nil
	}

	mp, ok := r.meterProvider.(*sdkmetric.MeterProvider)
	if !ok {
		return nil
	}
	if err := mp.ForceFlush(ctx); err != nil {
		r.logger.Warn("metrics flush failed", "error", err)
	}
	if err := mp.Shutdown(ctx); err != nil {
		return fmt.Errorf("meter provider shutdown: %w", err)
	}

	return nil
}
