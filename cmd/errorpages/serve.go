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

package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"rivaas.dev/errorpages/errors"
	"rivaas.dev/errorpages/integration/chierrors"
	"rivaas.dev/errorpages/metrics"
	"rivaas.dev/errorpages/middleware/recovery"
)

const shutdownTimeout = 5 * time.Second

type serveFlags struct {
	addr         string
	metrics      string
	otlpEndpoint string
}

func newServeCmd(a *app) *cobra.Command {
	f := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a demo server with failing routes",
		Long: `Run a demo server. Routes:
  GET  /          index
  GET  /error     returns a wrapped error
  GET  /panic     panics
  GET  /users     ok; other methods answer 405
  GET  /metrics   prometheus metrics (with --metrics prometheus)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.addr, "addr", ":8080", "listen address")
	flags.StringVar(&f.metrics, "metrics", string(metrics.PrometheusProvider), "metrics provider: prometheus|otlp|stdout|none")
	flags.StringVar(&f.otlpEndpoint, "otlp-endpoint", "", "OTLP/HTTP endpoint for --metrics otlp")

	return cmd
}

func (a *app) serve(cmd *cobra.Command, f *serveFlags) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recorder, err := newRecorder(f)
	if err != nil {
		return err
	}
	if recorder != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if shutdownErr := recorder.Shutdown(shutdownCtx); shutdownErr != nil {
				a.logger.Warn("metrics shutdown failed", "error", shutdownErr)
			}
		}()
	}

	handler, err := a.newDemoRouter(recorder)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              f.addr,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("listening", "addr", f.addr, "metrics", f.metrics)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err = <-serveErr:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

// newRecorder builds the metrics recorder selected by f, or nil for "none".
func newRecorder(f *serveFlags) (*metrics.Recorder, error) {
	var opt metrics.Option
	switch metrics.Provider(f.metrics) {
	case metrics.PrometheusProvider:
		opt = metrics.WithPrometheus()
	case metrics.OTLPProvider:
		opt = metrics.WithOTLP(f.otlpEndpoint)
	case metrics.StdoutProvider:
		opt = metrics.WithStdout(nil)
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown metrics provider %q", f.metrics)
	}

	return metrics.New(opt, metrics.WithServiceName("errorpages"))
}

// newDemoRouter builds the demo routes on a chi router. A nil recorder
// disables metrics.
func (a *app) newDemoRouter(recorder *metrics.Recorder) (http.Handler, error) {
	var (
		errorOpts    = a.rendererOptions()
		recoveryOpts = []recovery.Option{recovery.WithLogger(a.logger.Logger())}
	)
	if recorder != nil {
		errorOpts = append(errorOpts, errors.WithObserver(recorder))
		recoveryOpts = append(recoveryOpts, recovery.WithObserver(recorder))
	}

	renderer := errors.NewRenderer(errorOpts...)
	errs := chierrors.New(
		chierrors.WithRenderer(renderer),
		chierrors.WithNotAllowed(renderer.NotAllowed()),
		chierrors.WithRecovery(recoveryOpts...),
	)

	r := chi.NewRouter()
	errs.Mount(r)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "errorpages demo: /error /panic /users\n")
	})
	r.Get("/error", errs.Handle(func(http.ResponseWriter, *http.Request) error {
		return demoError()
	}))
	r.Get("/panic", func(http.ResponseWriter, *http.Request) {
		var items []string
		_ = items[3]
	})
	r.Get("/users", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "[]\n")
	})

	if recorder != nil && recorder.Provider() == metrics.PrometheusProvider {
		metricsHandler, err := recorder.Handler()
		if err != nil {
			return nil, err
		}
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	return r, nil
}

func demoError() error {
	err := errors.WithCode(errors.New("connection refused"), 503)
	err = fmt.Errorf("query orders: %w", err)

	return errors.Errorf("list orders: %w", err)
}
