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
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetermineContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		accept string
		want   ContentType
	}{
		{name: "empty header", accept: "", want: ContentTypeHTML},
		{name: "json", accept: "application/json", want: ContentTypeJSON},
		{name: "application xml", accept: "application/xml", want: ContentTypeXML},
		{name: "text xml", accept: "text/xml", want: ContentTypeTextXML},
		{name: "html", accept: "text/html", want: ContentTypeHTML},
		{name: "priority list beats header order", accept: "text/html,application/json", want: ContentTypeJSON},
		{name: "xml beats html regardless of order", accept: "text/html,text/xml", want: ContentTypeTextXML},
		{name: "application xml beats text xml", accept: "text/xml,application/xml", want: ContentTypeXML},
		{name: "entries are trimmed", accept: "text/plain, application/xml", want: ContentTypeXML},
		{name: "vendor json", accept: "application/vnd.api+json", want: ContentTypeJSON},
		{name: "vendor xml", accept: "application/atom+xml", want: ContentTypeXML},
		{name: "direct match beats vendor suffix", accept: "application/vnd.api+json,text/xml", want: ContentTypeTextXML},
		{name: "wildcard is not interpreted", accept: "*/*", want: ContentTypeHTML},
		{name: "type wildcard is not interpreted", accept: "application/*", want: ContentTypeHTML},
		{name: "parameters prevent a direct match", accept: "application/json;q=0.9", want: ContentTypeHTML},
		{name: "q values are ignored", accept: "text/html;q=1.0,application/xml;q=0.1", want: ContentTypeXML},
		{name: "unknown type", accept: "image/png", want: ContentTypeHTML},
		{name: "only commas", accept: ",,,", want: ContentTypeHTML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DetermineContentType(tt.accept))
		})
	}
}

func TestDetermineContentType_EveryKnownTypeResolvesToItself(t *testing.T) {
	t.Parallel()

	for _, ct := range KnownContentTypes() {
		assert.Equal(t, ct, DetermineContentType("image/webp, "+string(ct)+", text/csv"), "content type %s", ct)
	}
}

func TestKnownContentTypes_ReturnsCopy(t *testing.T) {
	t.Parallel()

	types := KnownContentTypes()
	types[0] = ContentTypePlain

	assert.Equal(t, ContentTypeJSON, KnownContentTypes()[0])
	assert.Equal(t, []ContentType{ContentTypeJSON, ContentTypeXML, ContentTypeTextXML, ContentTypeHTML}, KnownContentTypes())
}

func TestDetermineContentTypeFromRequest(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "application/problem+json")

	assert.Equal(t, ContentTypeJSON, DetermineContentTypeFromRequest(req))
	assert.Equal(t, ContentTypeHTML, DetermineContentTypeFromRequest(nil))
}

func TestSplitAccept(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a/b", "c/d", "e/f;q=0.5"}, splitAccept(" a/b ,\tc/d,, e/f;q=0.5 "))
	assert.Empty(t, splitAccept(""))
}
