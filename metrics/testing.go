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
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// TestRecorder wraps a [Recorder] backed by a manual reader so tests can
// read counter values directly.
type TestRecorder struct {
	*Recorder
	reader *sdkmetric.ManualReader
}

// TestingRecorder returns a recorder whose meter provider is shut down when
// the test ends.
//
// Example:
//
//	rec := metrics.TestingRecorder(t)
//	renderer := errors.NewRenderer(errors.WithObserver(rec))
//	...
//	assert.Equal(t, int64(1), rec.Count(t, metrics.RendersMetric, attribute.String(metrics.AttrKind, "error")))
func TestingRecorder(t testing.TB, opts ...Option) *TestRecorder {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		if err := mp.Shutdown(context.Background()); err != nil {
			t.Logf("TestingRecorder: shutdown warning: %v", err)
		}
	})

	r, err := New(append(opts, WithMeterProvider(mp))...)
	if err != nil {
		t.Fatalf("TestingRecorder: failed to create recorder: %v", err)
	}

	return &TestRecorder{Recorder: r, reader: reader}
}

// Count sums the data points of counter name whose attributes include all
// of attrs.
func (tr *TestRecorder) Count(t testing.TB, name string, attrs ...attribute.KeyValue) int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := tr.reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("TestRecorder: collect: %v", err)
	}

	var total int64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				if hasAll(dp.Attributes, attrs) {
					total += dp.Value
				}
			}
		}
	}

	return total
}

func hasAll(set attribute.Set, attrs []attribute.KeyValue) bool {
	for _, want := range attrs {
		got, ok := set.Value(want.Key)
		if !ok || got.Type() != want.Value.Type() || got.Emit() != want.Value.Emit() {
			return false
		}
	}

	return true
}
