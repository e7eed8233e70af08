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
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// annotateSpan marks the request's active span as failed with err.
// Requests without a recording span are left alone.
func annotateSpan(req *http.Request, err error, errorID string) {
	if req == nil {
		return
	}

	span := trace.SpanFromContext(req.Context())
	if !span.IsRecording() {
		return
	}

	span.SetStatus(codes.Error, err.Error())
	attrs := []attribute.KeyValue{
		attribute.String("exception.type", typeName(err)),
		attribute.String("exception.message", err.Error()),
		attribute.Int("http.response.status_code", http.StatusInternalServerError),
	}
	if errorID != "" {
		attrs = append(attrs, attribute.String("error.id", errorID))
	}
	span.SetAttributes(attrs...)
	span.RecordError(err)
}
