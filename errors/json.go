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
	"bytes"
	"encoding/json"
	"fmt"
)

// jsonErrorBody is the JSON error document.
// Errors is only populated when details are displayed.
type jsonErrorBody struct {
	Message string       `json:"message"`
	Errors  []jsonRecord `json:"errors,omitempty"`
}

// jsonRecord is one error chain link in JSON form.
type jsonRecord struct {
	Type    string   `json:"type"`
	Code    int      `json:"code"`
	Message string   `json:"message"`
	File    string   `json:"file"`
	Line    int      `json:"line"`
	Trace   []string `json:"trace"`
}

// jsonMessageBody is the JSON not-allowed document.
type jsonMessageBody struct {
	Message string `json:"message"`
}

// renderJSON renders the pretty-printed JSON error document.
func (cfg *config) renderJSON(err error) (string, error) {
	body := jsonErrorBody{
		Message: fmt.Sprintf("%s (from %s)", cfg.title, typeName(err)),
	}

	if cfg.displayDetails {
		records := Chain(err)
		body.Errors = make([]jsonRecord, 0, len(records))
		for _, rec := range records {
			body.Errors = append(body.Errors, jsonRecord{
				Type:    rec.Type,
				Code:    rec.Code,
				Message: rec.Message,
				File:    rec.File,
				Line:    rec.Line,
				Trace:   rec.TraceLines(),
			})
		}
	}

	return encodeJSON(body, "  ")
}

// renderNotAllowedJSON renders the compact JSON 405 document.
func renderNotAllowedJSON(allow string) (string, error) {
	return encodeJSON(jsonMessageBody{Message: "Method not allowed. Must be one of: " + allow}, "")
}

// encodeJSON encodes v without HTML escaping and without a trailing newline.
// A non-empty indent pretty-prints the output.
func encodeJSON(v any, indent string) (string, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode json error body: %w", err)
	}

	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
