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
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotAllowed_Render(t *testing.T) {
	t.Parallel()

	methods := []string{http.MethodGet, http.MethodPost}

	tests := []struct {
		name            string
		method          string
		accept          string
		wantStatus      int
		wantContentType ContentType
		wantBody        string
	}{
		{
			name:            "options ignores accept",
			method:          http.MethodOptions,
			accept:          "application/json",
			wantStatus:      http.StatusOK,
			wantContentType: ContentTypePlain,
			wantBody:        "Allowed methods: GET, POST",
		},
		{
			name:            "json",
			method:          http.MethodDelete,
			accept:          "application/json",
			wantStatus:      http.StatusMethodNotAllowed,
			wantContentType: ContentTypeJSON,
			wantBody:        `{"message":"Method not allowed. Must be one of: GET, POST"}`,
		},
		{
			name:            "application xml",
			method:          http.MethodPut,
			accept:          "application/xml",
			wantStatus:      http.StatusMethodNotAllowed,
			wantContentType: ContentTypeXML,
			wantBody:        "<root><message>Method not allowed. Must be one of: GET, POST</message></root>",
		},
		{
			name:            "text xml",
			method:          http.MethodPut,
			accept:          "text/xml",
			wantStatus:      http.StatusMethodNotAllowed,
			wantContentType: ContentTypeTextXML,
			wantBody:        "<root><message>Method not allowed. Must be one of: GET, POST</message></root>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tt.method, "/users", nil)
			req.Header.Set("Accept", tt.accept)

			response, err := NewNotAllowed().Render(req, methods)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, response.Status)
			assert.Equal(t, tt.wantContentType, response.ContentType)
			assert.Equal(t, tt.wantBody, string(response.Body))
			assert.Equal(t, "GET, POST", response.Headers.Get("Allow"))
		})
	}
}

func TestNotAllowed_UnmatchableAcceptFallsBackToHTML(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPatch, "/users", nil)
	req.Header.Set("Accept", "image/png")

	response, err := NewNotAllowed().Render(req, []string{http.MethodGet, http.MethodHead})
	require.NoError(t, err)

	assert.Equal(t, http.StatusMethodNotAllowed, response.Status)
	assert.Equal(t, ContentTypeHTML, response.ContentType)
	assert.Equal(t, "GET, HEAD", response.Headers.Get("Allow"))
	assert.Contains(t, string(response.Body), "<title>Method not allowed</title>")
	assert.Contains(t, string(response.Body), "<strong>GET, HEAD</strong>")
}

func TestNotAllowed_EscapesMethods(t *testing.T) {
	t.Parallel()

	notAllowed := NewNotAllowed()
	methods := []string{"<GET>"}

	html, err := notAllowed.RenderAs(ContentTypeHTML, methods)
	require.NoError(t, err)
	assert.Contains(t, html, "<strong>&lt;GET&gt;</strong>")

	xmlBody, err := notAllowed.RenderAs(ContentTypeXML, methods)
	require.NoError(t, err)
	assert.Contains(t, xmlBody, "&lt;GET&gt;")
}

func TestNotAllowed_EmptyMethods(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	response, err := NewNotAllowed().Render(req, nil)
	require.NoError(t, err)

	assert.Equal(t, "Allowed methods: ", string(response.Body))
	assert.Equal(t, []string{""}, response.Headers.Values("Allow"))
}

func TestNotAllowed_UnsupportedContentType(t *testing.T) {
	t.Parallel()

	_, err := NewNotAllowed().RenderAs("application/pdf", []string{http.MethodGet})
	assert.ErrorIs(t, err, ErrUnsupportedContentType)
}

func TestNotAllowed_Observer(t *testing.T) {
	t.Parallel()

	observer := &recordingObserver{}
	notAllowed := NewNotAllowed(WithObserver(observer))

	_, err := notAllowed.Render(httptest.NewRequest(http.MethodOptions, "/", nil), []string{http.MethodGet})
	require.NoError(t, err)
	_, err = notAllowed.Render(httptest.NewRequest(http.MethodPost, "/", nil), []string{http.MethodGet})
	require.NoError(t, err)

	assert.Equal(t, []observation{
		{kind: KindNotAllowed, status: http.StatusOK, contentType: ContentTypePlain},
		{kind: KindNotAllowed, status: http.StatusMethodNotAllowed, contentType: ContentTypeHTML},
	}, observer.all())
}

func TestNotAllowed_Handler(t *testing.T) {
	t.Parallel()

	methods := []string{http.MethodGet}
	handler := NewNotAllowed().Handler(methods...)
	methods[0] = http.MethodPost

	req := httptest.NewRequest(http.MethodDelete, "/users/1", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, http.MethodGet, w.Header().Get("Allow"), "handler keeps its own copy of methods")
	assert.JSONEq(t, `{"message":"Method not allowed. Must be one of: GET"}`, w.Body.String())
}

func TestRenderer_NotAllowedSharesLoggerAndObserver(t *testing.T) {
	t.Parallel()

	logger := &recordingLogger{}
	observer := &recordingObserver{}
	renderer := NewRenderer(
		WithLogger(logger),
		WithObserver(observer),
		WithDisplayDetails(true),
		WithErrorID(true),
	)

	w := &failingWriter{ResponseRecorder: httptest.NewRecorder()}
	renderer.NotAllowed().ServeNotAllowed(w, httptest.NewRequest(http.MethodPut, "/", nil), []string{http.MethodGet})

	assert.Equal(t, []observation{
		{kind: KindNotAllowed, status: http.StatusMethodNotAllowed, contentType: ContentTypeHTML},
	}, observer.all())
	require.Len(t, logger.all(), 1)
	assert.Equal(t, "failed to write not allowed response", logger.all()[0].msg)
	assert.Empty(t, w.Header().Get(ErrorIDHeader))
}

// failingWriter accepts headers but fails every body write.
type failingWriter struct {
	*httptest.ResponseRecorder
}

func (w *failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}
