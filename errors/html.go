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
	"fmt"
	"html/template"
	"strings"
)

var errorPageTemplate = template.Must(template.New("error").Parse(
	`<html><head><meta http-equiv='Content-Type' content='text/html; charset=utf-8'>` +
		`<title>{{.Title}}</title><style>body{margin:0;padding:70px 50px;font: 14px/1.5 Menlo, Monaco, Consolas, 'Courier New', monospace;}
h1{margin:0;font-size:48px;font-weight:normal;line-height:48px;}
strong{display:inline-block;width:78px;}
pre{
font: 13px/1.5 Menlo, Monaco, Consolas, 'Courier New', monospace;background-color: #f6f8fa;
border-radius: 3px;padding: 16px;border: 1px solid #dedede;overflow-x: auto;
}
</style></head><body><h1>{{.Title}}</h1>` +
		`{{if .Details}}<p>The application could not run because of the following error:</p>` +
		`{{range $i, $r := .Records}}{{if eq $i 0}}<h2>Details</h2>{{else}}<h2>Previous error</h2>{{end}}` +
		`<div><strong>Type:</strong> {{$r.Type}}</div>` +
		`{{if $r.Code}}<div><strong>Code:</strong> {{$r.Code}}</div>{{end}}` +
		`<div><strong>Message:</strong> {{$r.Message}}</div>` +
		`{{if $r.File}}<div><strong>Position:</strong> {{$r.File}} line <b>{{$r.Line}}</b></div>{{end}}` +
		`{{if $r.Trace}}<h2>Trace</h2><pre>{{$r.Trace}}</pre>{{end}}` +
		`{{end}}` +
		`{{else}}<p>A website error has occurred. Sorry for the temporary inconvenience.</p>{{end}}` +
		`</body></html>`))

var notAllowedPageTemplate = template.Must(template.New("not-allowed").Parse(`<html>
    <head>
        <title>Method not allowed</title>
        <style>
            body{
                margin:0;
                padding:30px;
                font:12px/1.5 Helvetica,Arial,Verdana,sans-serif;
            }
            h1{
                margin:0;
                font-size:48px;
                font-weight:normal;
                line-height:48px;
            }
        </style>
    </head>
    <body>
        <h1>Method not allowed</h1>
        <p>Method not allowed. Must be one of: <strong>{{.Allow}}</strong></p>
    </body>
</html>`))

type errorPage struct {
	Title   string
	Details bool
	Records []Record
}

// renderHTML renders the error page, redacting the root path when enabled.
// Records are redacted before escaping; the final pass covers the rest.
func (cfg *config) renderHTML(err error) (string, error) {
	page := errorPage{
		Title:   cfg.title,
		Details: cfg.displayDetails,
	}
	if cfg.displayDetails {
		page.Records = Chain(err)
		for i := range page.Records {
			page.Records[i] = cfg.redactRecord(page.Records[i])
		}
	}

	var b strings.Builder
	if execErr := errorPageTemplate.Execute(&b, page); execErr != nil {
		return "", fmt.Errorf("render html error page: %w", execErr)
	}

	return cfg.redact(b.String()), nil
}

// renderNotAllowedHTML renders the 405 page.
func renderNotAllowedHTML(allow string) (string, error) {
	var b strings.Builder
	if err := notAllowedPageTemplate.Execute(&b, struct{ Allow string }{allow}); err != nil {
		return "", fmt.Errorf("render html not allowed page: %w", err)
	}

	return b.String(), nil
}
