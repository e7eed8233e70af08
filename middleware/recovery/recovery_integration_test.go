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

package recovery_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"rivaas.dev/errorpages/errors"
	"rivaas.dev/errorpages/logging"
	"rivaas.dev/errorpages/middleware/recovery"
)

// traced starts a span around each request.
func traced(tp *sdktrace.TracerProvider, next http.Handler) http.Handler {
	tracer := tp.Tracer("recovery-integration")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), r.Method+" "+r.URL.Path)
		defer span.End()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

var _ = Describe("Recovery Integration", func() {
	var (
		spans  *tracetest.SpanRecorder
		tp     *sdktrace.TracerProvider
		logBuf *bytes.Buffer
		server *httptest.Server
	)

	BeforeEach(func() {
		spans = tracetest.NewSpanRecorder()
		tp = sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
		logBuf = &bytes.Buffer{}
		logger := logging.MustNew(logging.WithJSONHandler(), logging.WithOutput(logBuf))

		renderer := errors.NewRenderer(
			errors.WithLogger(logger),
			errors.WithDisplayDetails(true),
			errors.WithErrorIDGenerator(func() string { return "id-1" }),
		)

		mux := http.NewServeMux()
		mux.HandleFunc("/panic", func(http.ResponseWriter, *http.Request) {
			panic("handler exploded")
		})
		mux.HandleFunc("/ok", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "ok")
		})

		handler := recovery.New(
			recovery.WithRenderer(renderer),
			recovery.WithLogger(slog.New(slog.DiscardHandler)),
			recovery.WithPrettyStack(false),
		)(mux)
		server = httptest.NewServer(traced(tp, handler))
	})

	AfterEach(func() {
		server.Close()
	})

	get := func(path, accept string) (*http.Response, string) {
		req, err := http.NewRequest(http.MethodGet, server.URL+path, nil)
		Expect(err).NotTo(HaveOccurred())
		if accept != "" {
			req.Header.Set("Accept", accept)
		}
		resp, err := http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())

		return resp, string(body)
	}

	Describe("over a real connection", func() {
		DescribeTable("negotiates the error page",
			func(accept, wantContentType, wantBody string) {
				resp, body := get("/panic", accept)

				Expect(resp.StatusCode).To(Equal(http.StatusInternalServerError))
				Expect(resp.Header.Get("Content-Type")).To(Equal(wantContentType))
				Expect(body).To(ContainSubstring(wantBody))
			},
			Entry("json", "application/json", "application/json", "panic: handler exploded"),
			Entry("vendor json", "application/vnd.api+json", "application/json", "panic(string)"),
			Entry("xml", "text/xml", "text/xml", "<error>"),
			Entry("browser", "text/html,application/xhtml+xml,*/*;q=0.8", "text/html", "handler exploded"),
		)

		It("leaves healthy routes alone", func() {
			resp, body := get("/ok", "")

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(body).To(Equal("ok"))
		})
	})

	Describe("observability", func() {
		It("marks the request span as an escaped exception", func() {
			get("/panic", "application/json")

			ended := spans.Ended()
			Expect(ended).To(HaveLen(1))

			span := ended[0]
			Expect(span.Status().Code).To(Equal(codes.Error))
			Expect(span.Attributes()).To(ContainElements(
				attribute.Bool("exception.escaped", true),
				attribute.String("exception.type", "panic(string)"),
				attribute.String("error.id", "id-1"),
			))
			Expect(span.Events()).NotTo(BeEmpty())
		})

		It("writes the chain to the error log", func() {
			get("/panic", "")

			entries, err := logging.ParseJSONLogEntries(logBuf)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))

			entry := entries[0]
			Expect(entry.Level).To(Equal("ERROR"))
			Expect(entry.Message).To(ContainSubstring("Type: panic(string)"))
			Expect(entry.Attrs).To(HaveKeyWithValue("error_id", "id-1"))
		})
	})

	Describe("under concurrent load", func() {
		It("recovers every panicking request", func() {
			const concurrency = 25
			var wg sync.WaitGroup
			statuses := make(chan int, concurrency)

			for range concurrency {
				wg.Go(func() {
					defer GinkgoRecover()
					resp, _ := get("/panic", "application/json")
					statuses <- resp.StatusCode
				})
			}
			wg.Wait()
			close(statuses)

			for code := range statuses {
				Expect(code).To(Equal(http.StatusInternalServerError))
			}
			Expect(spans.Ended()).To(HaveLen(concurrency))
		})
	})

	It("keeps a partially written response intact", func() {
		var logBuf bytes.Buffer
		handler := recovery.New(
			recovery.WithRenderer(errors.NewRenderer(errors.WithLogger(slog.New(slog.DiscardHandler)))),
			recovery.WithLogger(slog.New(slog.NewTextHandler(&logBuf, nil))),
			recovery.WithPrettyStack(false),
		)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "chunk")
			panic("mid-stream")
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(Equal("chunk"))
		Expect(logBuf.String()).To(ContainSubstring("response_started=true"))
	})
})
