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
	"regexp"
)

// ContentType is an output media type the renderers know how to produce.
type ContentType string

const (
	// ContentTypeJSON renders application/json.
	ContentTypeJSON ContentType = "application/json"
	// ContentTypeXML renders application/xml.
	ContentTypeXML ContentType = "application/xml"
	// ContentTypeTextXML renders text/xml.
	ContentTypeTextXML ContentType = "text/xml"
	// ContentTypeHTML renders text/html. It is the negotiation fallback.
	ContentTypeHTML ContentType = "text/html"
	// ContentTypePlain renders text/plain. It is never negotiated.
	ContentTypePlain ContentType = "text/plain"
)

// String returns the media type.
func (ct ContentType) String() string {
	return string(ct)
}

// knownContentTypes is the negotiation priority list.
var knownContentTypes = [...]ContentType{
	ContentTypeJSON,
	ContentTypeXML,
	ContentTypeTextXML,
	ContentTypeHTML,
}

// structuredSuffix matches +json and +xml structured-syntax suffixes.
var structuredSuffix = regexp.MustCompile(`\+(json|xml)`)

// KnownContentTypes returns the negotiable content types in priority order.
func KnownContentTypes() []ContentType {
	out := make([]ContentType, len(knownContentTypes))
	copy(out, knownContentTypes[:])

	return out
}

// DetermineContentType picks the output content type for an Accept header.
//
// The header is split on commas and each entry is trimmed of surrounding
// whitespace. The first known content type, in [KnownContentTypes] order,
// that appears verbatim among the entries wins. Quality values, media type
// parameters and wildcards are not interpreted.
//
// Without a direct match, a +json or +xml suffix anywhere in the header maps
// to application/json or application/xml. Everything else resolves to
// text/html.
//
// Examples:
//
//	DetermineContentType("text/html,application/json")  // application/json
//	DetermineContentType("application/vnd.api+json")    // application/json
//	DetermineContentType("*/*")                         // text/html
func DetermineContentType(accept string) ContentType {
	if accept == "" {
		return ContentTypeHTML
	}

	offered := splitAccept(accept)
	for _, known := range knownContentTypes {
		for _, value := range offered {
			if value == string(known) {
				return known
			}
		}
	}

	if m := structuredSuffix.FindStringSubmatch(accept); m != nil {
		mediaType := ContentType("application/" + m[1])
		for _, known := range knownContentTypes {
			if known == mediaType {
				return mediaType
			}
		}
	}

	return ContentTypeHTML
}

// DetermineContentTypeFromRequest calls [DetermineContentType] with the
// request's Accept header.
func DetermineContentTypeFromRequest(req *http.Request) ContentType {
	if req == nil {
		return ContentTypeHTML
	}

	return DetermineContentType(req.Header.Get("Accept"))
}

// splitAccept splits an Accept header on commas using manual scanning.
// Empty entries are dropped.
func splitAccept(header string) []string {
	parts := make([]string, 0, 4)

	start := 0
	for i := 0; i <= len(header); i++ {
		if i == len(header) || header[i] == ',' {
			if s, e := trimWhitespace(header[start:i]); s < e {
				parts = append(parts, header[start+s:start+e])
			}
			start = i + 1
		}
	}

	return parts
}

// trimWhitespace returns start and end indices of non-whitespace content.
func trimWhitespace(s string) (start, end int) {
	start = 0
	end = len(s)

	for start < end && (s[start] == ' ' || s[start] == '\t') {
		start++
	}
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t') {
		end--
	}

	return start, end
}
